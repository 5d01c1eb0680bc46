package repositories

import (
	"context"
	"time"
)

// Visit is one recorded stay on a scene.
type Visit struct {
	ID        int64
	SessionID string
	SceneName string
	EnteredAt time.Time
	ExitedAt  time.Time
}

// Repository persists kiosk analytics.
type Repository interface {
	Close(ctx context.Context) error
	SaveVisit(ctx context.Context, visit *Visit) error
	ListVisits(ctx context.Context, limit int) ([]*Visit, error)
	CountVisits(ctx context.Context, sceneName string) (int, error)
}
