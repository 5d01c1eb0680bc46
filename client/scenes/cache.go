package scenes

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/exhibitlabs/kiosk/pkg/log"
)

// Cache maps scene names to live instances or deferred factories. It is the
// only scene structure touched from more than one goroutine (main loop plus
// background preloader), so resolution uses a double-checked lock.
type Cache struct {
	mu        sync.RWMutex
	scenes    map[string]Scene
	factories map[string]Factory
	paused    map[string]Scene
}

func NewCache() *Cache {
	return &Cache{
		scenes:    make(map[string]Scene),
		factories: make(map[string]Factory),
		paused:    make(map[string]Scene),
	}
}

// Register stores a live scene instance. A duplicate name replaces the
// previous registration with a warning.
func (c *Cache) Register(name string, scene Scene) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.scenes[name]; ok {
		log.Warn("Scene %q registered twice, replacing", name)
	}
	c.scenes[name] = scene
	delete(c.factories, name)
}

// RegisterLazy stores a factory invoked on first use.
func (c *Cache) RegisterLazy(name string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.factories[name]; ok {
		log.Warn("Scene factory %q registered twice, replacing", name)
	}
	c.factories[name] = factory
}

// EnsureLoaded resolves a name to a live scene, invoking its factory exactly
// once even when the main loop and the preloader race on the same name.
func (c *Cache) EnsureLoaded(name string) (Scene, error) {
	// Fast path: already instantiated.
	c.mu.RLock()
	if scene, ok := c.scenes[name]; ok {
		c.mu.RUnlock()
		return scene, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check: another caller may have constructed while we waited.
	if scene, ok := c.scenes[name]; ok {
		return scene, nil
	}

	factory, ok := c.factories[name]
	if !ok {
		return nil, &SceneNotFoundError{Name: name}
	}

	scene, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to build scene %q: %v", name, err)
	}
	c.scenes[name] = scene
	// Resolution is memoized; the factory is never consulted again.
	delete(c.factories, name)
	return scene, nil
}

// Get returns a loaded scene, or nil.
func (c *Cache) Get(name string) Scene {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scenes[name]
}

// Known reports whether a name has either an instance or a factory.
func (c *Cache) Known(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, loaded := c.scenes[name]
	_, lazy := c.factories[name]
	return loaded || lazy
}

// Pause stashes a live scene as backgrounded.
func (c *Cache) Pause(name string, scene Scene) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused[name] = scene
}

// Resume pops a paused scene, or returns nil if the name is not paused.
func (c *Cache) Resume(name string) Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	scene, ok := c.paused[name]
	if !ok {
		return nil
	}
	delete(c.paused, name)
	return scene
}

// IsPaused reports whether a scene is backgrounded.
func (c *Cache) IsPaused(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.paused[name]
	return ok
}

// Remove drops a scene from both the loaded and paused maps.
func (c *Cache) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scenes, name)
	delete(c.paused, name)
}

// Clear drops every cached instance. Eviction is explicit only; scenes hold
// expensive resources that must not be reclaimed mid-use.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scenes = make(map[string]Scene)
	c.paused = make(map[string]Scene)
}

// LoadedNames returns the sorted names of instantiated scenes.
func (c *Cache) LoadedNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.scenes))
	for name := range c.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProgressFunc observes preload progress as (done, total).
type ProgressFunc func(done, total int)

// preloadAll sequentially resolves each name, reporting progress after each
// load. sleepBetween throttles disk and CPU contention with real-time audio
// work running concurrently.
func (c *Cache) preloadAll(names []string, progress ProgressFunc, sleepBetween time.Duration) {
	total := len(names)
	for i, name := range names {
		if _, err := c.EnsureLoaded(name); err != nil {
			log.Warn("Failed to preload scene %q: %v", name, err)
		}
		if progress != nil {
			progress(i+1, total)
		}
		if sleepBetween > 0 {
			time.Sleep(sleepBetween)
		}
	}
}

// PreloadLazy resolves the named scenes on a background goroutine. The
// returned channel is closed when the batch completes so callers can observe
// completion without blocking the main loop.
func (c *Cache) PreloadLazy(names []string, progress ProgressFunc, sleepBetween time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.preloadAll(names, progress, sleepBetween)
	}()
	return done
}
