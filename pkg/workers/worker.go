// Package workers coordinates the kiosk's background goroutines: starting
// them with lifecycle checkpoints, reporting startup failures without
// crashing the application, and stopping them within a bounded grace window
// at shutdown.
package workers

import "context"

// Worker is a long-running background task. Start blocks until the context
// is canceled or the worker fails. Results flow back over the event bus, not
// through shared scene state.
type Worker interface {
	Name() string
	Start(ctx context.Context) error
}
