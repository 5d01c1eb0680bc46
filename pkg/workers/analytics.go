package workers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/exhibitlabs/kiosk/pkg/events"
	"github.com/exhibitlabs/kiosk/pkg/log"
	"github.com/exhibitlabs/kiosk/pkg/repositories"
)

// AnalyticsWorker records scene visits to the repository. The bus handler
// only enqueues; all database writes happen on the worker goroutine so a
// slow disk never stalls the frame loop.
type AnalyticsWorker struct {
	repo      repositories.Repository
	sessionID string
	visits    chan *repositories.Visit

	// main-loop state, touched only from the bus handler
	currentScene string
	enteredAt    time.Time
}

func NewAnalyticsWorker(repo repositories.Repository) *AnalyticsWorker {
	return &AnalyticsWorker{
		repo:      repo,
		sessionID: uuid.NewString(),
		visits:    make(chan *repositories.Visit, 64),
	}
}

func (w *AnalyticsWorker) Name() string {
	return "analytics"
}

// SessionID identifies this kiosk session in recorded visits.
func (w *AnalyticsWorker) SessionID() string {
	return w.sessionID
}

// Attach subscribes the worker to scene changes on the bus.
func (w *AnalyticsWorker) Attach(bus *events.Bus) {
	bus.Subscribe(events.EventSceneChanged, w.handleSceneChanged)
	bus.Subscribe(events.EventShutdown, func(events.Event) {
		w.closeVisit(time.Now())
	})
}

func (w *AnalyticsWorker) handleSceneChanged(event events.Event) {
	now := event.Timestamp
	w.closeVisit(now)

	name, _ := event.Payload["to"].(string)
	w.currentScene = name
	w.enteredAt = now
}

func (w *AnalyticsWorker) closeVisit(exitedAt time.Time) {
	if w.currentScene == "" {
		return
	}
	visit := &repositories.Visit{
		SessionID: w.sessionID,
		SceneName: w.currentScene,
		EnteredAt: w.enteredAt,
		ExitedAt:  exitedAt,
	}
	w.currentScene = ""

	select {
	case w.visits <- visit:
	default:
		log.Warn("Visit queue full, dropping visit for %s", visit.SceneName)
	}
}

func (w *AnalyticsWorker) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return nil
		case visit := <-w.visits:
			if err := w.repo.SaveVisit(ctx, visit); err != nil {
				log.Error("Failed to save visit for %s: %v", visit.SceneName, err)
			}
		}
	}
}

// flush writes any queued visits with a short deadline so shutdown does not
// lose the tail of the session.
func (w *AnalyticsWorker) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for {
		select {
		case visit := <-w.visits:
			if err := w.repo.SaveVisit(ctx, visit); err != nil {
				log.Error("Failed to save visit for %s: %v", visit.SceneName, err)
				return
			}
		default:
			return
		}
	}
}
