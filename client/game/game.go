// Package game is the ebiten shell that drives the kiosk's frame loop.
package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"

	"github.com/exhibitlabs/kiosk/client/app"
	"github.com/exhibitlabs/kiosk/client/fonts"
	"github.com/exhibitlabs/kiosk/client/input"
	"github.com/exhibitlabs/kiosk/client/ui"
	"github.com/exhibitlabs/kiosk/pkg/lifecycle"
	"github.com/exhibitlabs/kiosk/pkg/log"
)

// Game implements ebiten.Game. Each tick it drains the event bus, polls
// input, and advances the active scene.
type Game struct {
	app      *app.App
	inputBuf []input.Event
	fatal    *ui.FatalError
}

func NewGame(a *app.App) *Game {
	return &Game{
		app: a,
	}
}

var _ ebiten.Game = &Game{}

func (g *Game) Update() error {
	if g.fatal != nil {
		// The failure panel stays up until staff restart the kiosk.
		return nil
	}
	defer g.recoverPanic()

	g.app.Lifecycle.Execute(lifecycle.PhaseAppPreFrame, nil)
	g.app.Bus.ProcessEvents(g.app.Config.Events.MaxPerFrame)

	if input.IsBackJustPressed() {
		g.app.Scenes.GoBack()
	}
	g.inputBuf = input.Poll(g.inputBuf[:0])
	for _, event := range g.inputBuf {
		g.app.Scenes.HandleEvent(event)
	}

	dt := 1.0 / float64(ebiten.TPS())
	g.app.Scenes.Update(dt)

	g.app.Lifecycle.Execute(lifecycle.PhaseAppPostFrame, nil)
	return nil
}

// recoverPanic converts a panicking frame into a crash report. Production
// builds keep running behind a full-screen failure panel; dev mode re-panics
// so the process dies with the stack.
func (g *Game) recoverPanic() {
	r := recover()
	if r == nil {
		return
	}
	path, err := g.app.Crash.Capture(r)
	if err != nil {
		log.Error("Failed to write crash report: %v", err)
	}
	log.Error("Recovered from panic in frame loop: %v (report: %s)", r, path)
	if g.app.Config.DevMode {
		panic(r)
	}
	g.fatal = &ui.FatalError{
		Message:    "Something went wrong. Please notify staff.",
		ReportPath: path,
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.fatal != nil {
		g.drawFatal(screen)
		return
	}
	defer g.recoverPanic()
	g.app.Renderer.BindFrame(screen)
	g.app.Scenes.Draw(screen)
}

func (g *Game) drawFatal(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 30, G: 8, B: 8, A: 255})
	w := screen.Bounds().Dx()
	h := screen.Bounds().Dy()
	text.Draw(screen, g.fatal.Message, fonts.BodyFont, w/2-320, h/2, color.White)
	if g.fatal.ReportPath != "" {
		text.Draw(screen, g.fatal.ReportPath, fonts.SmallFont, w/2-320, h/2+50, color.RGBA{R: 170, G: 140, B: 140, A: 255})
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.app.Config.Display.Width, g.app.Config.Display.Height
}
