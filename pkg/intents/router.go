package intents

import (
	"sync"

	"github.com/exhibitlabs/kiosk/pkg/log"
)

// Router dispatches intents to registered handlers. Intents with no handler
// are ignored with a debug log so input sources never have to care whether a
// feature is wired in.
type Router struct {
	mu       sync.RWMutex
	handlers map[Intent]Handler
	scenes   SceneController
}

func NewRouter() *Router {
	return &Router{
		handlers: make(map[Intent]Handler),
	}
}

// SetSceneController injects the navigation target for scene intents. The
// controller is injected rather than imported to break the cycle between
// routing and scene management.
func (r *Router) SetSceneController(controller SceneController) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenes = controller
}

// SceneController returns the injected controller, or nil if none is set.
func (r *Router) SceneController() SceneController {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scenes
}

// Register installs a handler for an intent. A duplicate registration
// replaces the previous handler.
func (r *Router) Register(intent Intent, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[intent]; ok {
		log.Warn("Replacing handler for intent %s", intent)
	}
	r.handlers[intent] = handler
}

// Emit dispatches an intent with optional slot parameters.
func (r *Router) Emit(intent Intent, slots Slots) {
	r.mu.RLock()
	handler, ok := r.handlers[intent]
	r.mu.RUnlock()

	if !ok {
		log.Debug("No handler for intent %s", intent)
		return
	}

	log.Info("Intent emitted: %s", intent)
	if slots == nil {
		slots = Slots{}
	}
	handler(slots)
}
