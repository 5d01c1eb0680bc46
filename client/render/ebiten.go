package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/exhibitlabs/kiosk/pkg/log"
)

// Execute draws a declarative frame onto a target image. It is used both by
// the renderer and by the scene manager when compositing transition buffers.
func Execute(target *ebiten.Image, frame *FrameState) {
	if frame == nil {
		return
	}
	for _, o := range frame.ops {
		switch o.kind {
		case opRect:
			vector.DrawFilledRect(target, float32(o.x), float32(o.y), float32(o.w), float32(o.h), o.color, false)
		case opText:
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(o.x, o.y)
			op.ColorScale.ScaleWithColor(o.color)
			text.DrawWithOptions(target, o.text, o.face, op)
		case opImage:
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(o.x, o.y)
			target.DrawImage(o.image, op)
		}
	}
}

// EbitenRenderer backs the renderer contract with the ebiten display.
// Ebiten owns the swap chain, so Present is a no-op and Surface is rebound
// to the frame target each Draw call.
type EbitenRenderer struct {
	width        int
	height       int
	fullscreen   bool
	title        string
	displayIndex int
	surface      *ebiten.Image
	initialized  bool
}

type NewEbitenRendererOptions struct {
	Width      int
	Height     int
	Fullscreen bool
	Title      string
	// DisplayIndex selects the monitor on multi-display installations.
	// Zero keeps the primary monitor.
	DisplayIndex int
}

func NewEbitenRenderer(opts NewEbitenRendererOptions) *EbitenRenderer {
	return &EbitenRenderer{
		width:        opts.Width,
		height:       opts.Height,
		fullscreen:   opts.Fullscreen,
		title:        opts.Title,
		displayIndex: opts.DisplayIndex,
	}
}

var _ Renderer = &EbitenRenderer{}

func (r *EbitenRenderer) Initialize() error {
	if r.initialized {
		return nil
	}
	ebiten.SetWindowSize(r.width, r.height)
	ebiten.SetWindowTitle(r.title)
	ebiten.SetFullscreen(r.fullscreen)
	if r.displayIndex > 0 {
		monitors := ebiten.AppendMonitors(nil)
		if r.displayIndex < len(monitors) {
			ebiten.SetMonitor(monitors[r.displayIndex])
		} else {
			log.Warn("Display index %d out of range (%d monitors), using primary", r.displayIndex, len(monitors))
		}
	}
	r.initialized = true
	return nil
}

// BindFrame points the renderer at this frame's target. Called by the game
// shell at the top of every Draw.
func (r *EbitenRenderer) BindFrame(screen *ebiten.Image) {
	r.surface = screen
}

func (r *EbitenRenderer) Surface() *ebiten.Image {
	return r.surface
}

func (r *EbitenRenderer) Render(frame *FrameState) {
	if r.surface == nil {
		return
	}
	Execute(r.surface, frame)
}

func (r *EbitenRenderer) Present() {
	// ebiten presents at the end of Draw
}

func (r *EbitenRenderer) Shutdown() error {
	if r.surface != nil {
		r.surface.Fill(color.Black)
		r.surface = nil
	}
	return nil
}
