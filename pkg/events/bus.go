package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/exhibitlabs/kiosk/pkg/log"
)

const (
	// DefaultQueueCapacity is the maximum number of events held by the bus
	// before new emits are dropped.
	DefaultQueueCapacity = 1000
	// DefaultMaxProcess is the default drain size per ProcessEvents call.
	DefaultMaxProcess = 100
)

// Subscription identifies a registered handler so it can be removed later.
type Subscription struct {
	eventType EventType
	id        uint64
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus is a bounded publish/subscribe queue. Any goroutine may Emit; a single
// consumer (the main loop) drains with ProcessEvents. When the queue is full
// new events are dropped rather than blocking the producer.
type Bus struct {
	queue chan Event

	mu          sync.RWMutex
	subscribers map[EventType][]subscriber
	taps        []Handler
	nextID      uint64
	accepting   bool

	emitted   atomic.Uint64
	processed atomic.Uint64
	dropped   atomic.Uint64
}

// Metrics is a read-only snapshot of bus counters.
type Metrics struct {
	EventsEmitted   uint64 `json:"events_emitted"`
	EventsProcessed uint64 `json:"events_processed"`
	EventsDropped   uint64 `json:"events_dropped"`
	QueueSize       int    `json:"queue_size"`
}

// NewBus creates a bus with the given queue capacity. A capacity of zero or
// less selects DefaultQueueCapacity.
func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Bus{
		queue:       make(chan Event, capacity),
		subscribers: make(map[EventType][]subscriber),
		accepting:   true,
	}
}

// Emit enqueues an event without blocking. Events emitted after Shutdown, or
// while the queue is full, are dropped.
func (b *Bus) Emit(eventType EventType, payload map[string]interface{}, source string) {
	b.mu.RLock()
	accepting := b.accepting
	b.mu.RUnlock()
	if !accepting {
		return
	}

	b.enqueue(eventType, payload, source)
}

func (b *Bus) enqueue(eventType EventType, payload map[string]interface{}, source string) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Source:    source,
		Timestamp: time.Now(),
	}

	select {
	case b.queue <- event:
		b.emitted.Add(1)
	default:
		b.dropped.Add(1)
		log.Warn("Event queue full, dropped %s from %s", eventType, source)
	}
}

// Subscribe registers a handler for an event type and returns a subscription
// token for later removal.
func (b *Bus) Subscribe(eventType EventType, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subscribers[eventType] = append(b.subscribers[eventType], subscriber{
		id:      b.nextID,
		handler: handler,
	})
	return Subscription{eventType: eventType, id: b.nextID}
}

// Unsubscribe removes a previously registered handler. Unknown tokens are
// ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[sub.eventType]
	for i, s := range subs {
		if s.id == sub.id {
			b.subscribers[sub.eventType] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Tap registers a handler that observes every dispatched event regardless of
// type. Used for diagnostics such as crash report event history.
func (b *Bus) Tap(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taps = append(b.taps, handler)
}

// ProcessEvents drains up to max queued events, dispatching each to its
// subscribers in FIFO order. It returns the number of events processed.
// Call from the main loop only.
func (b *Bus) ProcessEvents(max int) int {
	if max <= 0 {
		max = DefaultMaxProcess
	}

	processed := 0
	for processed < max {
		select {
		case event := <-b.queue:
			b.dispatch(event)
			processed++
			b.processed.Add(1)
		default:
			return processed
		}
	}
	return processed
}

func (b *Bus) dispatch(event Event) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subscribers[event.Type]))
	copy(subs, b.subscribers[event.Type])
	taps := make([]Handler, len(b.taps))
	copy(taps, b.taps)
	b.mu.RUnlock()

	for _, tap := range taps {
		invokeHandler(tap, event)
	}
	for _, s := range subs {
		invokeHandler(s.handler, event)
	}
}

// invokeHandler contains a handler panic so a misbehaving subscriber cannot
// take down the frame loop.
func invokeHandler(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Event handler panicked on %s: %v", event.Type, r)
		}
	}()
	handler(event)
}

// Metrics returns a snapshot of the bus counters.
func (b *Bus) Metrics() Metrics {
	return Metrics{
		EventsEmitted:   b.emitted.Load(),
		EventsProcessed: b.processed.Load(),
		EventsDropped:   b.dropped.Load(),
		QueueSize:       len(b.queue),
	}
}

// Shutdown emits a final Shutdown event and stops accepting further emits.
// Queued events remain drainable so subscribers can observe the shutdown.
func (b *Bus) Shutdown(source string) {
	b.mu.Lock()
	if !b.accepting {
		b.mu.Unlock()
		return
	}
	b.accepting = false
	b.mu.Unlock()

	// Bypasses the accepting guard: the terminal event must go out.
	b.enqueue(EventShutdown, nil, source)
}
