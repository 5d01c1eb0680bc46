package lifecycle

import (
	"sort"
	"sync"
	"time"

	"github.com/exhibitlabs/kiosk/pkg/log"
)

// Manager stores hooks per phase and executes them in priority order.
// Hooks with equal priority run in registration order.
type Manager struct {
	mu    sync.Mutex
	hooks map[Phase][]*Hook

	hooksExecuted uint64
	hooksFailed   uint64
	phaseCounts   map[Phase]uint64
}

// Metrics is a read-only snapshot of hook execution counters.
type Metrics struct {
	HooksExecuted uint64           `json:"hooks_executed"`
	HooksFailed   uint64           `json:"hooks_failed"`
	PhaseCounts   map[string]uint64 `json:"phase_counts"`
}

func NewManager() *Manager {
	return &Manager{
		hooks:       make(map[Phase][]*Hook),
		phaseCounts: make(map[Phase]uint64),
	}
}

// Register adds a hook to a phase. The phase's hook list is kept sorted by
// descending priority; the sort is stable so equal priorities preserve
// registration order.
func (m *Manager) Register(phase Phase, name string, callback Callback, priority int, once bool) *Hook {
	hook := &Hook{
		Name:     name,
		Callback: callback,
		Priority: priority,
		Once:     once,
		Enabled:  true,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks[phase] = append(m.hooks[phase], hook)
	sort.SliceStable(m.hooks[phase], func(i, j int) bool {
		return m.hooks[phase][i].Priority > m.hooks[phase][j].Priority
	})
	log.Debug("Registered hook %q for %s (priority=%d, once=%t)", name, phase, priority, once)
	return hook
}

// Unregister removes a hook by name. It returns whether a hook was found and
// never fails.
func (m *Manager) Unregister(phase Phase, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unregisterLocked(phase, name)
}

func (m *Manager) unregisterLocked(phase Phase, name string) bool {
	hooks := m.hooks[phase]
	for i, hook := range hooks {
		if hook.Name == name {
			m.hooks[phase] = append(hooks[:i], hooks[i+1:]...)
			return true
		}
	}
	return false
}

// Execute runs every hook registered for the phase. A failing hook is logged
// and does not prevent the remaining hooks from running. Once-hooks are
// collected during the pass and unregistered only after it completes, so the
// list is never mutated while being iterated.
func (m *Manager) Execute(phase Phase, data map[string]interface{}) *Context {
	if data == nil {
		data = map[string]interface{}{}
	}
	ctx := &Context{
		Phase:     phase,
		Timestamp: time.Now(),
		Data:      data,
	}

	m.mu.Lock()
	hooks := make([]*Hook, len(m.hooks[phase]))
	copy(hooks, m.hooks[phase])
	m.mu.Unlock()

	var spent []string
	for _, hook := range hooks {
		if !hook.Enabled {
			continue
		}
		m.invoke(phase, hook, ctx)
		if hook.Once {
			spent = append(spent, hook.Name)
		}
	}

	m.mu.Lock()
	for _, name := range spent {
		m.unregisterLocked(phase, name)
	}
	m.phaseCounts[phase]++
	m.mu.Unlock()

	return ctx
}

// invoke runs a single hook, containing panics so one broken hook cannot
// abort the phase or the caller.
func (m *Manager) invoke(phase Phase, hook *Hook, ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			m.mu.Lock()
			m.hooksFailed++
			m.mu.Unlock()
			log.Error("Hook %q failed during %s: %v", hook.Name, phase, r)
		}
	}()

	hook.Callback(ctx)
	m.mu.Lock()
	m.hooksExecuted++
	m.mu.Unlock()
}

// Hooks returns a copy of the hooks registered for a phase.
func (m *Manager) Hooks(phase Phase) []*Hook {
	m.mu.Lock()
	defer m.mu.Unlock()
	hooks := make([]*Hook, len(m.hooks[phase]))
	copy(hooks, m.hooks[phase])
	return hooks
}

// Clear removes every hook for one phase.
func (m *Manager) Clear(phase Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hooks, phase)
}

// ClearAll removes every hook for every phase.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = make(map[Phase][]*Hook)
}

// Metrics returns a snapshot of execution counters.
func (m *Manager) Metrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]uint64, len(m.phaseCounts))
	for phase, count := range m.phaseCounts {
		counts[phase.String()] = count
	}
	return Metrics{
		HooksExecuted: m.hooksExecuted,
		HooksFailed:   m.hooksFailed,
		PhaseCounts:   counts,
	}
}
