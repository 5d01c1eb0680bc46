package workers

import (
	"context"
	"sync"
	"time"

	"github.com/exhibitlabs/kiosk/pkg/events"
	"github.com/exhibitlabs/kiosk/pkg/lifecycle"
	"github.com/exhibitlabs/kiosk/pkg/log"
)

const DefaultShutdownGrace = 2 * time.Second

// Manager starts and stops the registered workers. A worker that fails is
// reported through the lifecycle manager and the event bus; the application
// continues in a degraded mode.
type Manager struct {
	bus       *events.Bus
	lifecycle *lifecycle.Manager
	grace     time.Duration

	mu      sync.Mutex
	workers []Worker
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

type NewManagerOptions struct {
	Bus       *events.Bus
	Lifecycle *lifecycle.Manager
	// ShutdownGrace bounds how long Shutdown waits for workers to stop.
	ShutdownGrace time.Duration
}

func NewManager(opts NewManagerOptions) *Manager {
	grace := opts.ShutdownGrace
	if grace <= 0 {
		grace = DefaultShutdownGrace
	}
	return &Manager{
		bus:       opts.Bus,
		lifecycle: opts.Lifecycle,
		grace:     grace,
	}
}

// Add registers a worker. Must be called before StartAll.
func (m *Manager) Add(worker Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers = append(m.workers, worker)
}

// StartAll launches every registered worker on its own goroutine.
func (m *Manager) StartAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true

	ctx, m.cancel = context.WithCancel(ctx)
	for _, worker := range m.workers {
		m.startWorker(ctx, worker)
	}
}

func (m *Manager) startWorker(ctx context.Context, worker Worker) {
	m.execute(lifecycle.PhaseWorkerStart, worker.Name())
	log.Info("Starting worker %s", worker.Name())

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		err := worker.Start(ctx)
		if err != nil && ctx.Err() == nil {
			log.Error("Worker %s failed: %v", worker.Name(), err)
			m.execute(lifecycle.PhaseWorkerError, worker.Name())
			if m.bus != nil {
				m.bus.Emit(events.EventWorkerError, map[string]interface{}{
					"worker": worker.Name(),
					"error":  err.Error(),
				}, "worker_manager")
			}
			return
		}
		m.execute(lifecycle.PhaseWorkerStop, worker.Name())
	}()
}

func (m *Manager) execute(phase lifecycle.Phase, workerName string) {
	if m.lifecycle == nil {
		return
	}
	m.lifecycle.Execute(phase, map[string]interface{}{"worker": workerName})
}

// Shutdown cancels every worker and waits up to the grace window for them to
// stop. It returns false if the wait timed out with workers still running.
func (m *Manager) Shutdown() bool {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel == nil {
		return true
	}
	cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(m.grace):
		log.Warn("Workers did not stop within %s, abandoning join", m.grace)
		return false
	}
}
