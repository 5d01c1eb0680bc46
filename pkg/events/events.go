package events

import "time"

// EventType identifies the kind of application event flowing through the bus.
type EventType int

const (
	// EventShutdown is the terminal event emitted when the application is
	// shutting down. Workers are expected to stop when they observe it.
	EventShutdown EventType = iota
	// EventSceneChanged is emitted after the active scene changes.
	EventSceneChanged
	// EventScenePreloaded is emitted as background preloading makes progress.
	EventScenePreloaded
	// EventNowPlayingChanged is emitted when the current track changes.
	EventNowPlayingChanged
	// EventLanguageChanged is emitted when the kiosk language changes.
	EventLanguageChanged
	// EventWorkerError is emitted when a background worker fails.
	EventWorkerError
	// EventVolumeChanged is emitted when playback volume changes.
	EventVolumeChanged
)

func (t EventType) String() string {
	switch t {
	case EventShutdown:
		return "Shutdown"
	case EventSceneChanged:
		return "SceneChanged"
	case EventScenePreloaded:
		return "ScenePreloaded"
	case EventNowPlayingChanged:
		return "NowPlayingChanged"
	case EventLanguageChanged:
		return "LanguageChanged"
	case EventWorkerError:
		return "WorkerError"
	case EventVolumeChanged:
		return "VolumeChanged"
	}
	return "Unknown"
}

// Event carries a typed payload from a producer to the bus subscribers.
type Event struct {
	Type      EventType
	Payload   map[string]interface{}
	Source    string
	Timestamp time.Time
}

// Handler processes a single event. Handlers are invoked synchronously from
// the main loop during ProcessEvents.
type Handler func(event Event)
