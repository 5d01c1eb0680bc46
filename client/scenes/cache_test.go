package scenes

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_RegisterAndGet(t *testing.T) {
	c := NewCache()
	scene := &BaseScene{}

	c.Register("Menu", scene)

	assert.True(t, c.Known("Menu"))
	assert.Same(t, scene, c.Get("Menu"))
	assert.Nil(t, c.Get("Missing"))
	assert.False(t, c.Known("Missing"))
}

func TestCache_EnsureLoadedInvokesFactoryOnce(t *testing.T) {
	c := NewCache()

	var built int32
	c.RegisterLazy("Visualizer", func() (Scene, error) {
		atomic.AddInt32(&built, 1)
		return &BaseScene{}, nil
	})

	first, err := c.EnsureLoaded("Visualizer")
	require.NoError(t, err)
	second, err := c.EnsureLoaded("Visualizer")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), built)
}

func TestCache_EnsureLoadedConcurrent(t *testing.T) {
	c := NewCache()

	var built int32
	c.RegisterLazy("Visualizer", func() (Scene, error) {
		atomic.AddInt32(&built, 1)
		time.Sleep(5 * time.Millisecond)
		return &BaseScene{}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.EnsureLoaded("Visualizer")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), built)
}

func TestCache_EnsureLoadedUnknown(t *testing.T) {
	c := NewCache()

	_, err := c.EnsureLoaded("Nope")
	assert.True(t, IsSceneNotFound(err))
	assert.Contains(t, err.Error(), "Nope")
}

func TestCache_FactoryErrorIsRetryable(t *testing.T) {
	c := NewCache()

	attempts := 0
	c.RegisterLazy("Flaky", func() (Scene, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("resource busy")
		}
		return &BaseScene{}, nil
	})

	_, err := c.EnsureLoaded("Flaky")
	assert.Error(t, err)

	scene, err := c.EnsureLoaded("Flaky")
	require.NoError(t, err)
	assert.NotNil(t, scene)
	assert.Equal(t, 2, attempts)
}

func TestCache_PauseAndResume(t *testing.T) {
	c := NewCache()
	scene := &BaseScene{}
	c.Register("Visualizer", scene)

	assert.False(t, c.IsPaused("Visualizer"))
	c.Pause("Visualizer", scene)
	assert.True(t, c.IsPaused("Visualizer"))

	resumed := c.Resume("Visualizer")
	assert.Same(t, scene, resumed)
	assert.False(t, c.IsPaused("Visualizer"))
	assert.Nil(t, c.Resume("Visualizer"))
}

func TestCache_RemoveAndClear(t *testing.T) {
	c := NewCache()
	c.Register("A", &BaseScene{})
	c.Register("B", &BaseScene{})

	assert.Equal(t, []string{"A", "B"}, c.LoadedNames())

	c.Remove("A")
	assert.Equal(t, []string{"B"}, c.LoadedNames())

	c.Clear()
	assert.Empty(t, c.LoadedNames())
}

func TestCache_PreloadLazy(t *testing.T) {
	c := NewCache()
	for _, name := range []string{"A", "B", "C"} {
		name := name
		c.RegisterLazy(name, func() (Scene, error) {
			_ = name
			return &BaseScene{}, nil
		})
	}

	var mu sync.Mutex
	var reports [][2]int
	done := c.PreloadLazy([]string{"A", "B", "C"}, func(done, total int) {
		mu.Lock()
		reports = append(reports, [2]int{done, total})
		mu.Unlock()
	}, 0)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("preload never completed")
	}

	assert.Equal(t, []string{"A", "B", "C"}, c.LoadedNames())
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, reports)
}

func TestCache_PreloadLazyUnknownSceneContinues(t *testing.T) {
	c := NewCache()
	c.RegisterLazy("A", func() (Scene, error) {
		return &BaseScene{}, nil
	})

	done := c.PreloadLazy([]string{"Missing", "A"}, nil, 0)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("preload never completed")
	}

	assert.Equal(t, []string{"A"}, c.LoadedNames())
}
