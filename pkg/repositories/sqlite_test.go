package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) Repository {
	t.Helper()
	ctx := context.Background()
	repo, err := NewSQLiteRepository(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close(ctx)
	})
	return repo
}

func TestSQLiteRepository_SaveAndListVisits(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	visits := []*Visit{
		{SessionID: "s1", SceneName: "Menu", EnteredAt: base, ExitedAt: base.Add(30 * time.Second)},
		{SessionID: "s1", SceneName: "Visualizer", EnteredAt: base.Add(time.Minute), ExitedAt: base.Add(2 * time.Minute)},
		{SessionID: "s1", SceneName: "Menu", EnteredAt: base.Add(3 * time.Minute), ExitedAt: base.Add(4 * time.Minute)},
	}
	for _, visit := range visits {
		require.NoError(t, repo.SaveVisit(ctx, visit))
		assert.NotZero(t, visit.ID)
	}

	listed, err := repo.ListVisits(ctx, 10)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	// Most recent first.
	assert.Equal(t, "Menu", listed[0].SceneName)
	assert.Equal(t, base.Add(3*time.Minute).UnixMilli(), listed[0].EnteredAt.UnixMilli())
	assert.Equal(t, "Visualizer", listed[1].SceneName)
}

func TestSQLiteRepository_ListVisitsLimit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.SaveVisit(ctx, &Visit{
			SessionID: "s1",
			SceneName: "Menu",
			EnteredAt: base.Add(time.Duration(i) * time.Minute),
			ExitedAt:  base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}))
	}

	listed, err := repo.ListVisits(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestSQLiteRepository_CountVisits(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	count, err := repo.CountVisits(ctx, "Menu")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	now := time.Now()
	require.NoError(t, repo.SaveVisit(ctx, &Visit{SessionID: "s1", SceneName: "Menu", EnteredAt: now, ExitedAt: now}))
	require.NoError(t, repo.SaveVisit(ctx, &Visit{SessionID: "s1", SceneName: "Menu", EnteredAt: now, ExitedAt: now}))
	require.NoError(t, repo.SaveVisit(ctx, &Visit{SessionID: "s2", SceneName: "Settings", EnteredAt: now, ExitedAt: now}))

	count, err = repo.CountVisits(ctx, "Menu")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&ErrNotFound{}))
	assert.False(t, IsNotFound(assert.AnError))
}
