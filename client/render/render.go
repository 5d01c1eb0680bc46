// Package render defines the renderer contract consumed by the kiosk shell
// and the declarative frame description scenes may produce instead of
// drawing imperatively.
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
)

// Renderer is the display surface contract. The kiosk shell owns one
// implementation; scenes never talk to the window system directly.
type Renderer interface {
	// Initialize sets up the drawable surface at the configured resolution.
	// Safe to call more than once.
	Initialize() error
	// Surface returns the drawable for the current frame.
	Surface() *ebiten.Image
	// Render executes a declarative frame onto the current surface.
	Render(frame *FrameState)
	// Present flips the finished frame to the display.
	Present()
	// Shutdown releases display resources.
	Shutdown() error
}

// FrameScene is the declarative rendering extension. Scenes implement it in
// addition to (not instead of) the imperative Draw path; the scene manager
// prefers it when present.
type FrameScene interface {
	BuildFrame() *FrameState
}

// FrameState is a renderer-agnostic description of one frame's draw commands.
type FrameState struct {
	ops []op
}

type opKind int

const (
	opRect opKind = iota
	opText
	opImage
)

type op struct {
	kind  opKind
	x, y  float64
	w, h  float64
	color color.Color
	text  string
	face  font.Face
	image *ebiten.Image
}

// Fill appends a filled rectangle.
func (f *FrameState) Fill(x, y, w, h float64, c color.Color) {
	f.ops = append(f.ops, op{kind: opRect, x: x, y: y, w: w, h: h, color: c})
}

// Text appends a text draw at a baseline position.
func (f *FrameState) Text(text string, face font.Face, x, y float64, c color.Color) {
	f.ops = append(f.ops, op{kind: opText, text: text, face: face, x: x, y: y, color: c})
}

// Image appends an image draw at a position.
func (f *FrameState) Image(image *ebiten.Image, x, y float64) {
	f.ops = append(f.ops, op{kind: opImage, image: image, x: x, y: y})
}

// Len returns the number of queued draw commands.
func (f *FrameState) Len() int {
	return len(f.ops)
}
