// Package lifecycle provides a phase-keyed hook registry so application,
// scene, and worker checkpoints can be observed without coupling the
// observers to the code being observed.
package lifecycle

import "time"

// Phase is a named checkpoint in the application, scene, worker, or resource
// lifecycle.
type Phase int

const (
	// Application lifecycle
	PhaseAppStartup Phase = iota // before any initialization
	PhaseAppReady                // after all components initialized
	PhaseAppPreFrame
	PhaseAppPostFrame
	PhaseAppShutdown
	PhaseAppCleanup

	// Scene lifecycle
	PhaseSceneBeforeEnter
	PhaseSceneAfterEnter
	PhaseSceneBeforeExit
	PhaseSceneAfterExit
	PhaseScenePause
	PhaseSceneResume
	PhaseSceneDestroy

	// Worker lifecycle
	PhaseWorkerStart
	PhaseWorkerStop
	PhaseWorkerError

	// Resource lifecycle
	PhaseResourceLoad
	PhaseResourceUnload

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseAppStartup:
		return "AppStartup"
	case PhaseAppReady:
		return "AppReady"
	case PhaseAppPreFrame:
		return "AppPreFrame"
	case PhaseAppPostFrame:
		return "AppPostFrame"
	case PhaseAppShutdown:
		return "AppShutdown"
	case PhaseAppCleanup:
		return "AppCleanup"
	case PhaseSceneBeforeEnter:
		return "SceneBeforeEnter"
	case PhaseSceneAfterEnter:
		return "SceneAfterEnter"
	case PhaseSceneBeforeExit:
		return "SceneBeforeExit"
	case PhaseSceneAfterExit:
		return "SceneAfterExit"
	case PhaseScenePause:
		return "ScenePause"
	case PhaseSceneResume:
		return "SceneResume"
	case PhaseSceneDestroy:
		return "SceneDestroy"
	case PhaseWorkerStart:
		return "WorkerStart"
	case PhaseWorkerStop:
		return "WorkerStop"
	case PhaseWorkerError:
		return "WorkerError"
	case PhaseResourceLoad:
		return "ResourceLoad"
	case PhaseResourceUnload:
		return "ResourceUnload"
	}
	return "Unknown"
}

// Context is passed to every hook callback for a phase execution.
type Context struct {
	Phase     Phase
	Timestamp time.Time
	Data      map[string]interface{}
}

// Get returns a context data value, or nil if absent.
func (c *Context) Get(key string) interface{} {
	return c.Data[key]
}

// Callback is a hook function invoked during Execute.
type Callback func(ctx *Context)

// Hook is a registered lifecycle callback.
type Hook struct {
	Name     string
	Callback Callback
	Priority int  // higher runs first
	Once     bool // unregister after first invocation
	Enabled  bool
}
