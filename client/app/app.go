// Package app assembles the kiosk's components and owns their lifetimes.
// Everything is passed down explicitly; nothing reaches for globals.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/exhibitlabs/kiosk/client/render"
	"github.com/exhibitlabs/kiosk/client/scenes"
	"github.com/exhibitlabs/kiosk/pkg/api"
	"github.com/exhibitlabs/kiosk/pkg/config"
	"github.com/exhibitlabs/kiosk/pkg/crash"
	"github.com/exhibitlabs/kiosk/pkg/events"
	"github.com/exhibitlabs/kiosk/pkg/intents"
	"github.com/exhibitlabs/kiosk/pkg/lifecycle"
	"github.com/exhibitlabs/kiosk/pkg/log"
	"github.com/exhibitlabs/kiosk/pkg/nowplaying"
	"github.com/exhibitlabs/kiosk/pkg/repositories"
	"github.com/exhibitlabs/kiosk/pkg/workers"
)

// App holds every long-lived component of the kiosk.
type App struct {
	Config     *config.Config
	Bus        *events.Bus
	Lifecycle  *lifecycle.Manager
	Router     *intents.Router
	Scenes     *scenes.Manager
	Renderer   *render.EbitenRenderer
	NowPlaying nowplaying.StateManager
	Repository repositories.Repository
	Workers    *workers.Manager
	Pool       *workers.Pool
	Crash      *crash.Reporter
	Analytics  *workers.AnalyticsWorker

	diagnostics *api.DiagnosticsServer
	cancel      context.CancelFunc
}

// New wires the kiosk from its configuration. The scene registry is left to
// the caller; nothing here knows which scenes exist.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	bus := events.NewBus(cfg.Events.QueueCapacity)
	hooks := lifecycle.NewManager()
	router := intents.NewRouter()
	pool := workers.NewPool(cfg.Workers.MaxPreloadTasks)
	state := nowplaying.NewInMemoryStateManager()

	tap := crash.NewEventTap(crash.DefaultTapHistory)
	tap.Attach(bus)
	reporter := crash.NewReporter(cfg.Diagnostics.CrashDir, tap)

	repo, err := repositories.NewSQLiteRepository(ctx, cfg.Diagnostics.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %v", err)
	}

	renderer := render.NewEbitenRenderer(render.NewEbitenRendererOptions{
		Width:        cfg.Display.Width,
		Height:       cfg.Display.Height,
		Fullscreen:   cfg.Display.Fullscreen,
		Title:        "Exhibit Kiosk",
		DisplayIndex: cfg.Display.DisplayIndex,
	})

	sceneManager := scenes.NewManager(scenes.NewManagerOptions{
		Bus:                bus,
		Lifecycle:          hooks,
		Pool:               pool,
		Renderer:           renderer,
		Width:              cfg.Display.Width,
		Height:             cfg.Display.Height,
		TransitionDuration: time.Duration(cfg.Scenes.TransitionDuration),
		DefaultScene:       cfg.Scenes.DefaultScene,
	})
	router.SetSceneController(sceneManager)

	workerManager := workers.NewManager(workers.NewManagerOptions{
		Bus:           bus,
		Lifecycle:     hooks,
		ShutdownGrace: time.Duration(cfg.Workers.ShutdownGrace),
	})

	analytics := workers.NewAnalyticsWorker(repo)
	analytics.Attach(bus)
	workerManager.Add(analytics)

	if cfg.NowPlaying.Path != "" {
		workerManager.Add(workers.NewNowPlayingWorker(workers.NewNowPlayingWorkerOptions{
			Source:   &nowplaying.FileSource{Path: cfg.NowPlaying.Path},
			State:    state,
			Bus:      bus,
			Interval: time.Duration(cfg.NowPlaying.PollInterval),
		}))
	}

	a := &App{
		Config:     cfg,
		Bus:        bus,
		Lifecycle:  hooks,
		Router:     router,
		Scenes:     sceneManager,
		Renderer:   renderer,
		NowPlaying: state,
		Repository: repo,
		Workers:    workerManager,
		Pool:       pool,
		Crash:      reporter,
		Analytics:  analytics,
	}
	a.registerNavigationIntents()
	return a, nil
}

// registerNavigationIntents wires the built-in navigation and system intents.
// Scene-specific intents are registered by the caller.
func (a *App) registerNavigationIntents() {
	a.Router.Register(intents.IntentGoHome, func(slots intents.Slots) {
		if err := a.Scenes.SwitchTo(a.Config.Scenes.DefaultScene); err != nil {
			log.Error("Failed to switch to home: %v", err)
		}
	})
	a.Router.Register(intents.IntentGoBack, func(slots intents.Slots) {
		a.Scenes.GoBack()
	})
	a.Router.Register(intents.IntentChangeLanguage, func(slots intents.Slots) {
		a.Bus.Emit(events.EventLanguageChanged, map[string]interface{}{
			"language": slots["language"],
		}, "settings")
	})
	a.Router.Register(intents.IntentSetVolume, func(slots intents.Slots) {
		a.Bus.Emit(events.EventVolumeChanged, map[string]interface{}{
			"volume": slots["volume"],
		}, "settings")
	})
}

// Start launches the background workers and, when enabled, the local
// diagnostics server.
func (a *App) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.Lifecycle.Execute(lifecycle.PhaseAppStartup, nil)
	a.Workers.StartAll(ctx)

	if a.Config.Diagnostics.Enabled {
		a.diagnostics = api.NewDiagnosticsServer(api.NewDiagnosticsServerOptions{
			Port:       a.Config.Diagnostics.Port,
			Bus:        a.Bus,
			Lifecycle:  a.Lifecycle,
			Scenes:     a.Scenes,
			Repository: a.Repository,
		})
		go a.diagnostics.Start()
	}

	a.Lifecycle.Execute(lifecycle.PhaseAppReady, nil)
}

// Shutdown tears the kiosk down in reverse dependency order: scenes first,
// then workers, then the event bus, then storage.
func (a *App) Shutdown(ctx context.Context) {
	a.Lifecycle.Execute(lifecycle.PhaseAppShutdown, nil)

	a.Scenes.CleanupAll()
	a.Bus.Shutdown("app")
	a.Bus.ProcessEvents(a.Config.Events.MaxPerFrame)

	if a.cancel != nil {
		a.cancel()
	}
	if !a.Workers.Shutdown() {
		log.Warn("Workers did not stop within grace period")
	}
	a.Pool.Wait()

	if a.diagnostics != nil {
		if err := a.diagnostics.Stop(ctx); err != nil {
			log.Error("Failed to stop diagnostics server: %v", err)
		}
	}
	if err := a.Repository.Close(ctx); err != nil {
		log.Error("Failed to close repository: %v", err)
	}
	if err := a.Renderer.Shutdown(); err != nil {
		log.Error("Failed to shut down renderer: %v", err)
	}

	a.Lifecycle.Execute(lifecycle.PhaseAppCleanup, nil)
}
