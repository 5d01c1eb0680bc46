package nowplaying

import "sync"

// InMemoryStateManager holds the now-playing state in memory. The audio
// poller worker writes it; scenes and overlays read it every frame.
type InMemoryStateManager struct {
	lock    sync.RWMutex
	track   Track
	playing bool
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{}
}

func (m *InMemoryStateManager) Get() (Track, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.track, m.playing
}

func (m *InMemoryStateManager) Set(track Track) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.track = track
	m.playing = true
}

func (m *InMemoryStateManager) Clear() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.track = Track{}
	m.playing = false
}
