package workers

import (
	"context"
	"time"

	"github.com/exhibitlabs/kiosk/pkg/events"
	"github.com/exhibitlabs/kiosk/pkg/log"
	"github.com/exhibitlabs/kiosk/pkg/nowplaying"
)

const DefaultPollInterval = 2 * time.Second

// NowPlayingWorker polls a track source and publishes changes to the shared
// now-playing state and the event bus.
type NowPlayingWorker struct {
	source   nowplaying.Source
	state    nowplaying.StateManager
	bus      *events.Bus
	interval time.Duration
}

type NewNowPlayingWorkerOptions struct {
	Source   nowplaying.Source
	State    nowplaying.StateManager
	Bus      *events.Bus
	Interval time.Duration
}

func NewNowPlayingWorker(opts NewNowPlayingWorkerOptions) *NowPlayingWorker {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &NowPlayingWorker{
		source:   opts.Source,
		state:    opts.State,
		bus:      opts.Bus,
		interval: interval,
	}
}

func (w *NowPlayingWorker) Name() string {
	return "now_playing"
}

func (w *NowPlayingWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var last nowplaying.Track
	var wasPlaying bool
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			track, playing, err := w.source.Current(ctx)
			if err != nil {
				log.Warn("Failed to poll now playing source: %v", err)
				continue
			}

			if playing == wasPlaying && track.Title == last.Title && track.Artist == last.Artist {
				continue
			}
			last, wasPlaying = track, playing

			if playing {
				track.StartedAt = time.Now()
				w.state.Set(track)
			} else {
				w.state.Clear()
			}
			w.bus.Emit(events.EventNowPlayingChanged, map[string]interface{}{
				"title":   track.Title,
				"artist":  track.Artist,
				"playing": playing,
			}, w.Name())
		}
	}
}
