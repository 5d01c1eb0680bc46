package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_PriorityOrder(t *testing.T) {
	m := NewManager()

	var order []string
	m.Register(PhaseSceneBeforeEnter, "low", func(ctx *Context) {
		order = append(order, "low")
	}, 1, false)
	m.Register(PhaseSceneBeforeEnter, "high", func(ctx *Context) {
		order = append(order, "high")
	}, 10, false)
	m.Register(PhaseSceneBeforeEnter, "mid", func(ctx *Context) {
		order = append(order, "mid")
	}, 5, false)

	m.Execute(PhaseSceneBeforeEnter, nil)

	assert.Equal(t, []string{"high", "mid", "low"}, order)
}

func TestManager_EqualPriorityRunsInRegistrationOrder(t *testing.T) {
	m := NewManager()

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		m.Register(PhaseAppStartup, name, func(ctx *Context) {
			order = append(order, name)
		}, 0, false)
	}

	m.Execute(PhaseAppStartup, nil)

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestManager_OnceHookRunsOnce(t *testing.T) {
	m := NewManager()

	calls := 0
	m.Register(PhaseAppReady, "once", func(ctx *Context) {
		calls++
	}, 0, true)

	m.Execute(PhaseAppReady, nil)
	m.Execute(PhaseAppReady, nil)

	assert.Equal(t, 1, calls)
	assert.Empty(t, m.Hooks(PhaseAppReady))
}

func TestManager_OnceHookRegisteringAnotherHook(t *testing.T) {
	m := NewManager()

	calls := 0
	m.Register(PhaseAppReady, "outer", func(ctx *Context) {
		m.Register(PhaseAppReady, "inner", func(ctx *Context) {
			calls++
		}, 0, false)
	}, 0, true)

	// Registration during a pass must not corrupt the pass.
	assert.NotPanics(t, func() {
		m.Execute(PhaseAppReady, nil)
	})

	m.Execute(PhaseAppReady, nil)
	assert.Equal(t, 1, calls)
}

func TestManager_DisabledHookSkipped(t *testing.T) {
	m := NewManager()

	calls := 0
	hook := m.Register(PhaseAppPreFrame, "toggled", func(ctx *Context) {
		calls++
	}, 0, false)

	hook.Enabled = false
	m.Execute(PhaseAppPreFrame, nil)
	assert.Equal(t, 0, calls)

	hook.Enabled = true
	m.Execute(PhaseAppPreFrame, nil)
	assert.Equal(t, 1, calls)
}

func TestManager_PanicContained(t *testing.T) {
	m := NewManager()

	var order []string
	m.Register(PhaseSceneAfterEnter, "broken", func(ctx *Context) {
		panic("hook failure")
	}, 10, false)
	m.Register(PhaseSceneAfterEnter, "healthy", func(ctx *Context) {
		order = append(order, "healthy")
	}, 0, false)

	assert.NotPanics(t, func() {
		m.Execute(PhaseSceneAfterEnter, nil)
	})
	assert.Equal(t, []string{"healthy"}, order)

	metrics := m.Metrics()
	assert.Equal(t, uint64(1), metrics.HooksFailed)
	assert.Equal(t, uint64(1), metrics.HooksExecuted)
}

func TestManager_ContextData(t *testing.T) {
	m := NewManager()

	var scene string
	m.Register(PhaseSceneBeforeExit, "reader", func(ctx *Context) {
		scene, _ = ctx.Get("scene").(string)
	}, 0, false)

	ctx := m.Execute(PhaseSceneBeforeExit, map[string]interface{}{"scene": "Menu"})

	assert.Equal(t, "Menu", scene)
	assert.Equal(t, PhaseSceneBeforeExit, ctx.Phase)
	assert.False(t, ctx.Timestamp.IsZero())
}

func TestManager_Unregister(t *testing.T) {
	m := NewManager()

	calls := 0
	m.Register(PhaseAppShutdown, "hook", func(ctx *Context) {
		calls++
	}, 0, false)

	assert.True(t, m.Unregister(PhaseAppShutdown, "hook"))
	assert.False(t, m.Unregister(PhaseAppShutdown, "hook"))

	m.Execute(PhaseAppShutdown, nil)
	assert.Equal(t, 0, calls)
}

func TestManager_ClearAndMetrics(t *testing.T) {
	m := NewManager()

	m.Register(PhaseAppCleanup, "a", func(ctx *Context) {}, 0, false)
	m.Register(PhaseAppCleanup, "b", func(ctx *Context) {}, 0, false)
	assert.Len(t, m.Hooks(PhaseAppCleanup), 2)

	m.Execute(PhaseAppCleanup, nil)
	m.Clear(PhaseAppCleanup)
	assert.Empty(t, m.Hooks(PhaseAppCleanup))

	metrics := m.Metrics()
	assert.Equal(t, uint64(2), metrics.HooksExecuted)
	assert.Equal(t, uint64(1), metrics.PhaseCounts[PhaseAppCleanup.String()])
}
