// Package config loads the kiosk configuration from a YAML file and applies
// defaults for anything the file leaves out.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the kiosk application configuration.
type Config struct {
	Display     DisplayConfig     `yaml:"display"`
	Scenes      ScenesConfig      `yaml:"scenes"`
	Events      EventsConfig      `yaml:"events"`
	Workers     WorkersConfig     `yaml:"workers"`
	NowPlaying  NowPlayingConfig  `yaml:"now_playing"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	LogLevel    string            `yaml:"log_level"`
	DevMode     bool              `yaml:"dev_mode"`
}

type DisplayConfig struct {
	Width        int  `yaml:"width"`
	Height       int  `yaml:"height"`
	Fullscreen   bool `yaml:"fullscreen"`
	DisplayIndex int  `yaml:"display_index"`
}

type ScenesConfig struct {
	DefaultScene       string   `yaml:"default_scene"`
	SkipIntro          bool     `yaml:"skip_intro"`
	TransitionDuration Duration `yaml:"transition_duration"`
	Preload            []string `yaml:"preload"`
	PreloadSleep       Duration `yaml:"preload_sleep"`
}

type EventsConfig struct {
	QueueCapacity int `yaml:"queue_capacity"`
	MaxPerFrame   int `yaml:"max_per_frame"`
}

type WorkersConfig struct {
	ShutdownGrace   Duration `yaml:"shutdown_grace"`
	MaxPreloadTasks int      `yaml:"max_preload_tasks"`
}

type NowPlayingConfig struct {
	// Path to the JSON handoff file written by the music integration.
	// Empty disables the now-playing worker.
	Path         string   `yaml:"path"`
	PollInterval Duration `yaml:"poll_interval"`
}

type DiagnosticsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Port         int    `yaml:"port"`
	DatabasePath string `yaml:"database_path"`
	CrashDir     string `yaml:"crash_dir"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:  1920,
			Height: 1080,
		},
		Scenes: ScenesConfig{
			DefaultScene:       "Menu",
			TransitionDuration: Duration(400 * time.Millisecond),
		},
		Events: EventsConfig{
			QueueCapacity: 1000,
			MaxPerFrame:   100,
		},
		Workers: WorkersConfig{
			ShutdownGrace:   Duration(2 * time.Second),
			MaxPreloadTasks: 2,
		},
		Diagnostics: DiagnosticsConfig{
			Port:         8190,
			DatabasePath: "kiosk.db",
			CrashDir:     "crash-reports",
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file and merges it over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %v", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %v", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display resolution must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Scenes.DefaultScene == "" {
		return fmt.Errorf("default scene must be set")
	}
	if c.Scenes.TransitionDuration < 0 {
		return fmt.Errorf("transition duration must not be negative")
	}
	if c.Events.QueueCapacity <= 0 {
		return fmt.Errorf("event queue capacity must be positive")
	}
	if c.Workers.MaxPreloadTasks <= 0 {
		return fmt.Errorf("max preload tasks must be positive")
	}
	return nil
}
