// Package history persists a local record of generation jobs: every
// submission and every terminal transition lands in a SQLite database so
// past runs survive process restarts and can be listed from the CLI or the
// local API.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/reelcraft/reelcraft/pkg/job"
)

// StatusCancelled marks runs the user aborted client-side. The backend job
// enum has no such state; only history knows about aborts.
const StatusCancelled = "cancelled"

// NotFoundError reports a missing history entry.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("job %q not found in history", e.ID)
}

// Entry is one recorded job.
type Entry struct {
	ID          string    `json:"id"`
	Kind        job.Kind  `json:"kind"`
	Status      string    `json:"status"`
	Summary     string    `json:"summary,omitempty"`
	Progress    int       `json:"progress"`
	ResultURL   string    `json:"result_url,omitempty"`
	Error       string    `json:"error,omitempty"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Kind   job.Kind
	Status string
	Limit  int
}

// Store is a SQLite-backed job history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  status TEXT NOT NULL,
  summary TEXT NOT NULL DEFAULT '',
  progress INTEGER NOT NULL DEFAULT 0,
  result_url TEXT NOT NULL DEFAULT '',
  error_message TEXT NOT NULL DEFAULT '',
  workspace_id TEXT NOT NULL DEFAULT '',
  project_id TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts or updates an entry keyed by job id. CreatedAt is
// preserved on update; UpdatedAt always moves forward.
func (s *Store) Record(ctx context.Context, e Entry) error {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
INSERT INTO jobs (id, kind, status, summary, progress, result_url, error_message, workspace_id, project_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  status = excluded.status,
  progress = excluded.progress,
  result_url = excluded.result_url,
  error_message = excluded.error_message,
  updated_at = excluded.updated_at`,
		e.ID, string(e.Kind), e.Status, e.Summary, e.Progress, e.ResultURL, e.Error,
		e.WorkspaceID, e.ProjectID, e.CreatedAt.UnixMilli(), e.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record job %s: %w", e.ID, err)
	}
	return nil
}

// Get returns a single entry by job id.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM jobs WHERE id = ?`, id)
	e, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return e, nil
}

// List returns entries newest-first, optionally filtered by kind and
// status. Limit defaults to 50.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := selectColumns + ` FROM jobs`
	var (
		clauses []string
		args    []any
	)
	if f.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, f.Status)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY updated_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const selectColumns = `SELECT id, kind, status, summary, progress, result_url, error_message, workspace_id, project_id, created_at, updated_at`

func scanEntry(scan func(dest ...any) error) (Entry, error) {
	var (
		e                    Entry
		kind                 string
		createdMs, updatedMs int64
	)
	if err := scan(&e.ID, &kind, &e.Status, &e.Summary, &e.Progress, &e.ResultURL, &e.Error,
		&e.WorkspaceID, &e.ProjectID, &createdMs, &updatedMs); err != nil {
		return Entry{}, err
	}
	e.Kind = job.Kind(kind)
	e.CreatedAt = time.UnixMilli(createdMs).UTC()
	e.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return e, nil
}
