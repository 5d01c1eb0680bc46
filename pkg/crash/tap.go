package crash

import (
	"sync"
	"time"

	"github.com/exhibitlabs/kiosk/pkg/events"
)

// TapEntry is one observed bus event kept for crash context.
type TapEntry struct {
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// EventTap keeps a bounded history of recent bus events so a crash report can
// show what led up to the failure.
type EventTap struct {
	mu      sync.Mutex
	max     int
	entries []TapEntry
}

const DefaultTapHistory = 50

func NewEventTap(max int) *EventTap {
	if max <= 0 {
		max = DefaultTapHistory
	}
	return &EventTap{max: max}
}

// Attach registers the tap on a bus so it observes every dispatched event.
func (t *EventTap) Attach(bus *events.Bus) {
	bus.Tap(t.record)
}

func (t *EventTap) record(event events.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, TapEntry{
		Type:      event.Type.String(),
		Source:    event.Source,
		Timestamp: event.Timestamp,
	})
	if len(t.entries) > t.max {
		t.entries = t.entries[len(t.entries)-t.max:]
	}
}

// History returns a copy of the recorded entries, oldest first.
func (t *EventTap) History() []TapEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	history := make([]TapEntry, len(t.entries))
	copy(history, t.entries)
	return history
}
