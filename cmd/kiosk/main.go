package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/exhibitlabs/kiosk/client/app"
	"github.com/exhibitlabs/kiosk/client/game"
	"github.com/exhibitlabs/kiosk/client/scenes"
	"github.com/exhibitlabs/kiosk/pkg/config"
	"github.com/exhibitlabs/kiosk/pkg/intents"
	"github.com/exhibitlabs/kiosk/pkg/log"
	"github.com/exhibitlabs/kiosk/pkg/version"
)

const (
	sceneSplash     = "Splash"
	sceneMenu       = "Menu"
	sceneSettings   = "Settings"
	sceneVisualizer = "Visualizer"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	devMode := flag.Bool("dev", false, "Run windowed with diagnostics enabled")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			panic(fmt.Sprintf("Failed to load config: %v", err))
		}
		cfg = loaded
	}
	if *devMode {
		cfg.DevMode = true
		cfg.Display.Fullscreen = false
		cfg.Diagnostics.Enabled = true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting kiosk version %s", version.Get())

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to assemble kiosk: %v", err))
	}

	registerScenes(a)

	a.Start(ctx)

	if err := a.Renderer.Initialize(); err != nil {
		panic(fmt.Sprintf("Failed to initialize renderer: %v", err))
	}

	start := sceneSplash
	if cfg.Scenes.SkipIntro {
		start = cfg.Scenes.DefaultScene
	}
	if err := a.Scenes.SwitchToWithOptions(start, scenes.SwitchOptions{Instant: true}); err != nil {
		panic(fmt.Sprintf("Failed to activate initial scene: %v", err))
	}

	if err := ebiten.RunGame(game.NewGame(a)); err != nil {
		log.Error("Frame loop exited with error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.Shutdown(shutdownCtx)
}

// registerScenes builds the scene registry. The menu is constructed eagerly;
// everything else loads lazily and preloads behind the splash screen.
func registerScenes(a *app.App) {
	cache := a.Scenes.Cache()
	cfg := a.Config

	menu, err := scenes.NewMenuScene(scenes.MenuSceneOptions{
		Router: a.Router,
		State:  a.NowPlaying,
		Entries: []scenes.MenuEntry{
			{Label: "Visualizer", Intent: intents.IntentSelectOption, Slots: intents.Slots{"scene": sceneVisualizer}},
			{Label: "Settings", Intent: intents.IntentGoToSettings},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to build menu scene: %v", err))
	}
	cache.Register(sceneMenu, menu)

	cache.RegisterLazy(sceneSettings, func() (scenes.Scene, error) {
		return scenes.NewSettingsScene(scenes.SettingsSceneOptions{
			Router:    a.Router,
			Languages: []string{"en", "de", "fr"},
			Volume:    70,
		})
	})
	cache.RegisterLazy(sceneVisualizer, func() (scenes.Scene, error) {
		return scenes.NewVisualizerScene(scenes.VisualizerSceneOptions{
			Router: a.Router,
			State:  a.NowPlaying,
		})
	})

	preload := cfg.Scenes.Preload
	if len(preload) == 0 {
		preload = []string{sceneSettings, sceneVisualizer}
	}
	splash, err := scenes.NewSplashScene(scenes.SplashSceneOptions{
		Title: "Exhibit Kiosk",
		Preload: func(progress scenes.ProgressFunc) <-chan struct{} {
			return a.Scenes.PreloadLazy(preload, progress, time.Duration(cfg.Scenes.PreloadSleep))
		},
		OnDone: func() {
			// The splash screen never goes on the back-stack.
			if err := a.Scenes.SwitchToWithOptions(cfg.Scenes.DefaultScene, scenes.SwitchOptions{
				Direction: scenes.DirectionForward,
			}); err != nil {
				log.Error("Failed to leave splash screen: %v", err)
			}
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to build splash scene: %v", err))
	}
	cache.Register(sceneSplash, splash)

	a.Router.Register(intents.IntentGoToSettings, func(slots intents.Slots) {
		if err := a.Scenes.SwitchTo(sceneSettings); err != nil {
			log.Error("Failed to open settings: %v", err)
		}
	})
	a.Router.Register(intents.IntentSelectOption, func(slots intents.Slots) {
		name, ok := slots["scene"].(string)
		if !ok || name == "" {
			log.Warn("Select intent without a scene slot")
			return
		}
		if err := a.Scenes.SwitchTo(name); err != nil {
			log.Error("Failed to open %q: %v", name, err)
		}
	})
}
