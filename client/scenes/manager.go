package scenes

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/exhibitlabs/kiosk/client/input"
	"github.com/exhibitlabs/kiosk/client/render"
	"github.com/exhibitlabs/kiosk/pkg/events"
	"github.com/exhibitlabs/kiosk/pkg/lifecycle"
	"github.com/exhibitlabs/kiosk/pkg/log"
	"github.com/exhibitlabs/kiosk/pkg/workers"
)

// logSceneError records a contained lifecycle failure. Scene errors never
// propagate out of the manager; navigation state must stay consistent even
// when a scene misbehaves.
func logSceneError(op string, name string, err error) {
	log.Error("Scene %q failed during %s: %v", name, op, err)
}

// SwitchOptions controls a single scene switch.
type SwitchOptions struct {
	// Direction of the slide animation.
	Direction Direction
	// Instant skips the slide entirely.
	Instant bool
	// Pause backgrounds the outgoing scene instead of exiting it, so a later
	// switch back resumes it in place.
	Pause bool
	// PushHistory records the outgoing scene for GoBack. Ignored for the
	// initial switch, which has no outgoing scene.
	PushHistory bool
	// Duration overrides the configured slide duration when positive.
	Duration time.Duration
}

// Manager owns the active scene, the back-stack, and the slide animation
// between scenes. All methods are main-loop only except PreloadLazy.
type Manager struct {
	cache      *Cache
	bus        *events.Bus
	hooks      *lifecycle.Manager
	pool       *workers.Pool
	renderer   render.Renderer
	width      int
	height     int
	duration   time.Duration
	defaultTo  string
	now        func() time.Time

	current     Scene
	currentName string
	history     []string
	transition  *Transition
	// pausePending marks that the outgoing scene of the in-flight transition
	// should be paused, not exited, when the slide finalizes.
	pausePending bool

	switches uint64
}

type NewManagerOptions struct {
	Cache              *Cache
	Bus                *events.Bus
	Lifecycle          *lifecycle.Manager
	Pool               *workers.Pool
	Renderer           render.Renderer
	Width              int
	Height             int
	TransitionDuration time.Duration
	// DefaultScene is where GoBack lands when the history is empty.
	DefaultScene string
	Now          func() time.Time
}

func NewManager(opts NewManagerOptions) *Manager {
	if opts.Cache == nil {
		opts.Cache = NewCache()
	}
	if opts.TransitionDuration <= 0 {
		opts.TransitionDuration = DefaultTransitionDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		cache:     opts.Cache,
		bus:       opts.Bus,
		hooks:     opts.Lifecycle,
		pool:      opts.Pool,
		renderer:  opts.Renderer,
		width:     opts.Width,
		height:    opts.Height,
		duration:  opts.TransitionDuration,
		defaultTo: opts.DefaultScene,
		now:       opts.Now,
	}
}

// Cache exposes the underlying scene cache for registration.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// CurrentSceneName returns the active scene's name, or "" before the first
// switch.
func (m *Manager) CurrentSceneName() string {
	return m.currentName
}

// CurrentScene returns the active scene instance.
func (m *Manager) CurrentScene() Scene {
	return m.current
}

// LoadedSceneNames returns the names of instantiated scenes.
func (m *Manager) LoadedSceneNames() []string {
	return m.cache.LoadedNames()
}

// InTransition reports whether a slide is running.
func (m *Manager) InTransition() bool {
	return m.transition != nil
}

// Switches returns the number of completed scene switches.
func (m *Manager) Switches() uint64 {
	return m.switches
}

// History returns a copy of the back-stack, oldest first.
func (m *Manager) History() []string {
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out
}

// SwitchTo activates the named scene with a forward slide, pushing the
// current scene onto the back-stack.
func (m *Manager) SwitchTo(name string) error {
	return m.SwitchToWithOptions(name, SwitchOptions{
		Direction:   DirectionForward,
		PushHistory: true,
	})
}

// SwitchToWithOptions activates the named scene. Requests are rejected while
// a slide is running and ignored when the scene is already active.
func (m *Manager) SwitchToWithOptions(name string, opts SwitchOptions) error {
	if m.transition != nil {
		log.Warn("Ignoring switch to %q, transition in progress", name)
		return nil
	}
	if name == m.currentName && m.current != nil {
		log.Debug("Already on scene %q, ignoring switch", name)
		return nil
	}

	next, err := m.cache.EnsureLoaded(name)
	if err != nil {
		return err
	}

	from := m.current
	fromName := m.currentName

	if from != nil && opts.PushHistory {
		m.history = append(m.history, fromName)
	}

	if from != nil && !opts.Instant {
		// The incoming scene enters at slide start so it animates while it
		// slides in. The outgoing scene exits, and the current pointer swaps,
		// when the slide finalizes in Update.
		m.enterScene(next, name)
		duration := opts.Duration
		if duration <= 0 {
			duration = m.duration
		}
		m.pausePending = opts.Pause
		m.transition = NewTransition(NewTransitionOptions{
			From:      from,
			To:        next,
			FromName:  fromName,
			ToName:    name,
			Direction: opts.Direction,
			Duration:  duration,
			Width:     m.width,
			Height:    m.height,
			Now:       m.now,
		})
	} else {
		if from != nil {
			m.retireScene(from, fromName, opts.Pause)
		}
		m.enterScene(next, name)
		m.current = next
		m.currentName = name
	}
	m.switches++

	log.Info("Switched scene %q -> %q (%s)", fromName, name, opts.Direction)
	if m.bus != nil {
		m.bus.Emit(events.EventSceneChanged, map[string]interface{}{
			"from": fromName,
			"to":   name,
		}, "scene-manager")
	}
	return nil
}

// GoBack pops the back-stack with a backward slide. An empty stack falls
// through to the default scene; already being on the default scene is a
// no-op.
func (m *Manager) GoBack() {
	if m.transition != nil {
		log.Warn("Ignoring back navigation, transition in progress")
		return
	}

	target := m.defaultTo
	if n := len(m.history); n > 0 {
		target = m.history[n-1]
		m.history = m.history[:n-1]
	} else if m.currentName == m.defaultTo {
		log.Debug("Already on default scene %q, nothing to go back to", m.defaultTo)
		return
	}

	if err := m.SwitchToWithOptions(target, SwitchOptions{
		Direction: DirectionBack,
	}); err != nil {
		log.Error("Failed to go back to %q: %v", target, err)
	}
}

func (m *Manager) runPhase(phase lifecycle.Phase, sceneName string) {
	if m.hooks == nil {
		return
	}
	m.hooks.Execute(phase, map[string]interface{}{"scene": sceneName})
}

// enterScene runs the enter (or resume, for a paused scene) path with its
// lifecycle hooks.
func (m *Manager) enterScene(scene Scene, name string) {
	m.runPhase(lifecycle.PhaseSceneBeforeEnter, name)
	if resumed := m.cache.Resume(name); resumed != nil {
		if err := scene.OnResume(); err != nil {
			logSceneError("resume", name, err)
		}
		m.runPhase(lifecycle.PhaseSceneResume, name)
	} else {
		if err := scene.OnEnter(); err != nil {
			logSceneError("enter", name, err)
		}
	}
	m.runPhase(lifecycle.PhaseSceneAfterEnter, name)
}

// retireScene exits a scene, or pauses and stashes it for a later resume.
func (m *Manager) retireScene(scene Scene, name string, pause bool) {
	if pause {
		m.runPhase(lifecycle.PhaseScenePause, name)
		if err := scene.OnPause(); err != nil {
			logSceneError("pause", name, err)
		}
		m.cache.Pause(name, scene)
		return
	}
	m.runPhase(lifecycle.PhaseSceneBeforeExit, name)
	if err := scene.OnExit(); err != nil {
		logSceneError("exit", name, err)
	}
	m.runPhase(lifecycle.PhaseSceneAfterExit, name)
}

// HandleEvent forwards an input event to the active scene. Input is dropped
// while a slide is running so half-visible scenes never react to taps.
func (m *Manager) HandleEvent(event input.Event) bool {
	if m.transition != nil {
		return false
	}
	if m.current == nil {
		return false
	}
	return m.current.HandleEvent(event)
}

// Update advances the active scene (or both scenes mid-slide) and finalizes
// a finished slide.
func (m *Manager) Update(dt float64) {
	if m.transition != nil {
		m.transition.Update(dt)
		if m.transition.Done() {
			m.finalizeTransition()
		}
		return
	}
	if m.current != nil {
		if err := m.current.Update(dt); err != nil {
			logSceneError("update", m.currentName, err)
		}
	}
}

// finalizeTransition retires the outgoing scene, swaps the current pointer to
// the incoming scene, and releases the slide buffers.
func (m *Manager) finalizeTransition() {
	tr := m.transition
	m.transition = nil

	m.retireScene(tr.From(), tr.FromName(), m.pausePending)
	m.pausePending = false
	m.current = tr.To()
	m.currentName = tr.ToName()
	tr.Complete()
}

// Draw renders the current frame. Mid-slide the transition composites both
// scenes; otherwise the active scene draws directly, preferring its
// declarative frame when it provides one.
func (m *Manager) Draw(screen *ebiten.Image) {
	if m.transition != nil {
		m.transition.Draw(screen)
		return
	}
	if m.current == nil {
		return
	}
	if fs, ok := m.current.(render.FrameScene); ok {
		if frame := fs.BuildFrame(); frame != nil {
			if m.renderer != nil {
				m.renderer.Render(frame)
			} else {
				render.Execute(screen, frame)
			}
			return
		}
	}
	m.current.Draw(screen)
}

// DestroyScene permanently tears down a scene and evicts it from the cache.
// Destroying the active scene is rejected.
func (m *Manager) DestroyScene(name string) error {
	if name == m.currentName && m.current != nil {
		log.Warn("Refusing to destroy active scene %q", name)
		return nil
	}
	if m.transition != nil && (name == m.transition.FromName() || name == m.transition.ToName()) {
		log.Warn("Refusing to destroy scene %q mid-transition", name)
		return nil
	}
	scene := m.cache.Get(name)
	if scene == nil {
		return &SceneNotFoundError{Name: name}
	}
	m.runPhase(lifecycle.PhaseSceneDestroy, name)
	if err := scene.OnDestroy(); err != nil {
		logSceneError("destroy", name, err)
	}
	m.cache.Remove(name)
	return nil
}

// CleanupAll exits the active scene and destroys every cached scene. Called
// once at shutdown.
func (m *Manager) CleanupAll() {
	if m.transition != nil {
		// Treat an in-flight slide as finished so both scenes get their exit.
		m.pausePending = false
		m.finalizeTransition()
	}
	if m.current != nil {
		m.retireScene(m.current, m.currentName, false)
	}
	for _, name := range m.cache.LoadedNames() {
		scene := m.cache.Get(name)
		if scene == nil {
			continue
		}
		m.runPhase(lifecycle.PhaseSceneDestroy, name)
		if err := scene.OnDestroy(); err != nil {
			logSceneError("destroy", name, err)
		}
	}
	m.cache.Clear()
	m.current = nil
	m.currentName = ""
	m.history = nil
}

// PreloadLazy resolves the named scenes in the background through the shared
// worker pool, keeping concurrent loads bounded. The returned channel is
// closed when the batch completes.
func (m *Manager) PreloadLazy(names []string, progress ProgressFunc, sleepBetween time.Duration) <-chan struct{} {
	if m.pool == nil {
		return m.cache.PreloadLazy(names, progress, sleepBetween)
	}
	done := make(chan struct{})
	m.pool.Submit("scene-preload", func() {
		defer close(done)
		m.cache.preloadAll(names, progress, sleepBetween)
		if m.bus != nil {
			m.bus.Emit(events.EventScenePreloaded, map[string]interface{}{
				"scenes": append([]string(nil), names...),
			}, "scene-manager")
		}
	})
	return done
}
