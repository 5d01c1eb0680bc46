package game

import (
	"os"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibitlabs/kiosk/client/app"
	"github.com/exhibitlabs/kiosk/client/render"
	"github.com/exhibitlabs/kiosk/client/scenes"
	"github.com/exhibitlabs/kiosk/pkg/config"
	"github.com/exhibitlabs/kiosk/pkg/crash"
	"github.com/exhibitlabs/kiosk/pkg/events"
	"github.com/exhibitlabs/kiosk/pkg/lifecycle"
)

type updatePanicScene struct {
	scenes.BaseScene
}

func (s *updatePanicScene) Update(dt float64) error {
	panic("scene update failure")
}

type drawPanicScene struct {
	scenes.BaseScene
}

func (s *drawPanicScene) Draw(screen *ebiten.Image) {
	panic("scene draw failure")
}

func newCrashGame(t *testing.T, devMode bool, scene scenes.Scene) (*Game, string) {
	t.Helper()
	cfg := config.Default()
	cfg.DevMode = devMode
	reportDir := t.TempDir()

	manager := scenes.NewManager(scenes.NewManagerOptions{
		Width:        8,
		Height:       8,
		DefaultScene: "Broken",
	})
	manager.Cache().Register("Broken", scene)
	require.NoError(t, manager.SwitchToWithOptions("Broken", scenes.SwitchOptions{Instant: true}))

	a := &app.App{
		Config:    cfg,
		Bus:       events.NewBus(16),
		Lifecycle: lifecycle.NewManager(),
		Scenes:    manager,
		Renderer:  render.NewEbitenRenderer(render.NewEbitenRendererOptions{Width: 8, Height: 8}),
		Crash:     crash.NewReporter(reportDir, crash.NewEventTap(8)),
	}
	return NewGame(a), reportDir
}

func reportCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestGame_UpdatePanicBecomesFatalPanel(t *testing.T) {
	g, reportDir := newCrashGame(t, false, &updatePanicScene{})

	require.NotPanics(t, func() { _ = g.Update() })

	require.NotNil(t, g.fatal)
	assert.NotEmpty(t, g.fatal.ReportPath)
	assert.Equal(t, 1, reportCount(t, reportDir))

	// Later frames stay on the panel without re-running the scene.
	require.NoError(t, g.Update())
	assert.Equal(t, 1, reportCount(t, reportDir))
}

func TestGame_DrawPanicBecomesFatalPanel(t *testing.T) {
	g, reportDir := newCrashGame(t, false, &drawPanicScene{})
	screen := ebiten.NewImage(8, 8)

	require.NotPanics(t, func() { g.Draw(screen) })

	require.NotNil(t, g.fatal)
	assert.Equal(t, 1, reportCount(t, reportDir))
	require.NoError(t, g.Update())
}

func TestGame_DevModeRethrowsAfterCapture(t *testing.T) {
	g, reportDir := newCrashGame(t, true, &updatePanicScene{})

	require.Panics(t, func() { _ = g.Update() })

	// The report is written before the panic continues.
	assert.Equal(t, 1, reportCount(t, reportDir))
	assert.Nil(t, g.fatal)
}
