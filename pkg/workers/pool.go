package workers

import (
	"sync"

	"github.com/exhibitlabs/kiosk/pkg/log"
)

// MaxPreloadTasks bounds concurrent preload work so background loading never
// starves real-time audio processing.
const MaxPreloadTasks = 2

// Pool is a bounded pool for short background tasks such as scene preloads.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func NewPool(max int) *Pool {
	if max <= 0 {
		max = MaxPreloadTasks
	}
	return &Pool{
		sem: make(chan struct{}, max),
	}
}

// Submit schedules a task. It never blocks the caller; the task waits for a
// free slot on its own goroutine.
func (p *Pool) Submit(name string, task func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.sem <- struct{}{}
		defer func() { <-p.sem }()

		defer func() {
			if r := recover(); r != nil {
				log.Error("Task %s panicked: %v", name, r)
			}
		}()
		log.Debug("Running task %s", name)
		task()
	}()
}

// Wait blocks until every submitted task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
