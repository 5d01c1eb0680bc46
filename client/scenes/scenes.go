package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/exhibitlabs/kiosk/client/input"
)

// Scene is a self-contained screen of the kiosk (menu, visualizer, splash).
// Lifecycle methods return errors for logging; the manager contains them so
// a misbehaving scene cannot corrupt navigation state.
type Scene interface {
	// OnEnter is called when the scene becomes active. During a slide
	// transition this happens at transition start, so the incoming scene
	// produces frames while it slides in.
	OnEnter() error
	// OnExit is called when the scene is replaced.
	OnExit() error
	// OnPause is called when the scene is backgrounded but kept alive.
	OnPause() error
	// OnResume is called when a paused scene is foregrounded again.
	OnResume() error
	// OnDestroy is called when the scene is permanently destroyed.
	OnDestroy() error
	// HandleEvent handles a discrete input event. Returns whether the event
	// was consumed.
	HandleEvent(event input.Event) bool
	// Update advances scene logic. dt is seconds since the last tick.
	Update(dt float64) error
	// Draw renders the scene to the given surface.
	Draw(screen *ebiten.Image)
}

// Factory creates a scene on first use.
type Factory func() (Scene, error)

// BaseScene provides no-op lifecycle methods so concrete scenes implement
// only what they need.
type BaseScene struct {
}

var _ Scene = &BaseScene{}

func (s *BaseScene) OnEnter() error   { return nil }
func (s *BaseScene) OnExit() error    { return nil }
func (s *BaseScene) OnPause() error   { return nil }
func (s *BaseScene) OnResume() error  { return nil }
func (s *BaseScene) OnDestroy() error { return nil }

func (s *BaseScene) HandleEvent(event input.Event) bool { return false }

func (s *BaseScene) Update(dt float64) error { return nil }

func (s *BaseScene) Draw(screen *ebiten.Image) {}
