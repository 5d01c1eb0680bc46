package nowplaying

import "time"

// Track describes the currently playing song as reported by a music source.
type Track struct {
	Title      string
	Artist     string
	Album      string
	ArtworkURL string
	Source     string
	StartedAt  time.Time
}

// StateManager provides shared access to the now-playing state.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns a copy of the current track and whether anything is playing.
	Get() (Track, bool)
	// Set sets the current track.
	Set(track Track)
	// Clear marks playback as stopped.
	Clear()
}
