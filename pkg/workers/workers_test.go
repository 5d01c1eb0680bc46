package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibitlabs/kiosk/pkg/events"
	"github.com/exhibitlabs/kiosk/pkg/lifecycle"
	"github.com/exhibitlabs/kiosk/pkg/nowplaying"
	"github.com/exhibitlabs/kiosk/pkg/repositories"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := NewPool(2)

	var running, peak int32
	var mu sync.Mutex
	for i := 0; i < 8; i++ {
		pool.Submit("task", func() {
			n := atomic.AddInt32(&running, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
		})
	}
	pool.Wait()

	assert.LessOrEqual(t, peak, int32(2))
}

func TestPool_SubmitDoesNotBlock(t *testing.T) {
	pool := NewPool(1)

	release := make(chan struct{})
	pool.Submit("blocker", func() {
		<-release
	})

	done := make(chan struct{})
	go func() {
		pool.Submit("queued", func() {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked the caller")
	}

	close(release)
	pool.Wait()
}

func TestPool_TaskPanicContained(t *testing.T) {
	pool := NewPool(1)

	pool.Submit("broken", func() {
		panic("task failure")
	})
	ran := false
	pool.Submit("healthy", func() {
		ran = true
	})
	pool.Wait()

	assert.True(t, ran)
}

type stubWorker struct {
	name    string
	started chan struct{}
	err     error
}

func (w *stubWorker) Name() string {
	return w.name
}

func (w *stubWorker) Start(ctx context.Context) error {
	close(w.started)
	if w.err != nil {
		return w.err
	}
	<-ctx.Done()
	return nil
}

func TestManager_StartAndShutdown(t *testing.T) {
	m := NewManager(NewManagerOptions{ShutdownGrace: time.Second})

	worker := &stubWorker{name: "stub", started: make(chan struct{})}
	m.Add(worker)
	m.StartAll(context.Background())

	select {
	case <-worker.started:
	case <-time.After(time.Second):
		t.Fatal("worker never started")
	}

	assert.True(t, m.Shutdown())
}

func TestManager_WorkerFailureEmitsEvent(t *testing.T) {
	bus := events.NewBus(16)
	hooks := lifecycle.NewManager()
	m := NewManager(NewManagerOptions{Bus: bus, Lifecycle: hooks, ShutdownGrace: time.Second})

	errored := make(chan struct{})
	hooks.Register(lifecycle.PhaseWorkerError, "observer", func(ctx *lifecycle.Context) {
		close(errored)
	}, 0, false)

	worker := &stubWorker{name: "failing", started: make(chan struct{}), err: errors.New("boom")}
	m.Add(worker)
	m.StartAll(context.Background())

	select {
	case <-errored:
	case <-time.After(time.Second):
		t.Fatal("worker error hook never ran")
	}

	require.Eventually(t, func() bool {
		return bus.ProcessEvents(10) > 0 || bus.Metrics().EventsProcessed > 0
	}, time.Second, 10*time.Millisecond)

	assert.True(t, m.Shutdown())
}

func TestManager_ShutdownBeforeStart(t *testing.T) {
	m := NewManager(NewManagerOptions{})
	assert.True(t, m.Shutdown())
}

type stubSource struct {
	mu      sync.Mutex
	track   nowplaying.Track
	playing bool
}

func (s *stubSource) set(track nowplaying.Track, playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track = track
	s.playing = playing
}

func (s *stubSource) Current(ctx context.Context) (nowplaying.Track, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track, s.playing, nil
}

func TestNowPlayingWorker_PublishesChanges(t *testing.T) {
	bus := events.NewBus(16)
	state := nowplaying.NewInMemoryStateManager()
	source := &stubSource{}
	worker := NewNowPlayingWorker(NewNowPlayingWorkerOptions{
		Source:   source,
		State:    state,
		Bus:      bus,
		Interval: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Start(ctx)
	}()

	source.set(nowplaying.Track{Title: "So What", Artist: "Miles Davis"}, true)
	require.Eventually(t, func() bool {
		track, ok := state.Get()
		return ok && track.Title == "So What"
	}, time.Second, 5*time.Millisecond)

	source.set(nowplaying.Track{}, false)
	require.Eventually(t, func() bool {
		_, ok := state.Get()
		return !ok
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker never stopped")
	}

	// Two change notifications: started playing, stopped playing.
	changes := 0
	bus.Subscribe(events.EventNowPlayingChanged, func(events.Event) {
		changes++
	})
	bus.ProcessEvents(100)
	assert.Equal(t, 2, changes)
}

func TestAnalyticsWorker_RecordsVisits(t *testing.T) {
	ctx := context.Background()
	repo, err := repositories.NewSQLiteRepository(ctx, ":memory:")
	require.NoError(t, err)
	defer repo.Close(ctx)

	bus := events.NewBus(16)
	worker := NewAnalyticsWorker(repo)
	worker.Attach(bus)

	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Start(workerCtx)
	}()

	bus.Emit(events.EventSceneChanged, map[string]interface{}{"from": "", "to": "Menu"}, "test")
	bus.ProcessEvents(10)
	time.Sleep(5 * time.Millisecond)
	bus.Emit(events.EventSceneChanged, map[string]interface{}{"from": "Menu", "to": "Visualizer"}, "test")
	bus.ProcessEvents(10)

	// The open Visualizer visit is closed by the shutdown event.
	bus.Shutdown("test")
	bus.ProcessEvents(10)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker never stopped")
	}

	visits, err := repo.ListVisits(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visits, 2)

	names := []string{visits[0].SceneName, visits[1].SceneName}
	assert.Contains(t, names, "Menu")
	assert.Contains(t, names, "Visualizer")
	for _, visit := range visits {
		assert.Equal(t, worker.SessionID(), visit.SessionID)
		assert.False(t, visit.ExitedAt.Before(visit.EnteredAt))
	}
}
