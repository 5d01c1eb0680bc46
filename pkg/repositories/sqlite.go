package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS visits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	scene_name TEXT NOT NULL,
	entered_at INTEGER NOT NULL,
	exited_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_scene ON visits (scene_name);
`

// NewSQLiteRepository opens (and migrates) the kiosk analytics database.
// Use ":memory:" as the path for an ephemeral database in tests.
func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveVisit(ctx context.Context, visit *Visit) error {
	q := `
	INSERT INTO visits (session_id, scene_name, entered_at, exited_at)
	VALUES (?, ?, ?, ?);
	`
	res, err := r.db.ExecContext(ctx, q, visit.SessionID, visit.SceneName,
		visit.EnteredAt.UnixMilli(), visit.ExitedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert visit: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get visit id: %v", err)
	}
	visit.ID = id

	return nil
}

func (r *SQLiteRepository) ListVisits(ctx context.Context, limit int) ([]*Visit, error) {
	q := `
	SELECT id, session_id, scene_name, entered_at, exited_at
	FROM visits ORDER BY entered_at DESC LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %v", err)
	}
	defer rows.Close()

	var visits []*Visit
	for rows.Next() {
		visit := &Visit{}
		var enteredAt, exitedAt int64
		if err := rows.Scan(&visit.ID, &visit.SessionID, &visit.SceneName, &enteredAt, &exitedAt); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %v", err)
		}
		visit.EnteredAt = time.UnixMilli(enteredAt)
		visit.ExitedAt = time.UnixMilli(exitedAt)
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visits: %v", err)
	}

	return visits, nil
}

func (r *SQLiteRepository) CountVisits(ctx context.Context, sceneName string) (int, error) {
	q := `
	SELECT COUNT(*) FROM visits WHERE scene_name = ?;
	`
	var count int
	if err := r.db.QueryRowContext(ctx, q, sceneName).Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, &ErrNotFound{}
		}
		return 0, fmt.Errorf("failed to count visits: %v", err)
	}
	return count, nil
}
