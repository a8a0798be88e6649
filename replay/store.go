// Package replay persists run traces in SQLite so finished and failed runs
// can be inspected, compared, and replayed after the fact.
package replay

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/h9-tec/reagent/react"
)

// ErrNotFound reports a run ID with no stored trace.
var ErrNotFound = errors.New("trace not found")

// Store persists traces in SQLite. The full trace is stored as JSON; the
// goal, status, and timing are lifted into indexed columns for listing.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a trace database at path and runs migrations.
// The driver is pure Go, so ":memory:" works anywhere without cgo.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace database: %w", err)
	}
	store, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps an opened database handle, running migrations on first use.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate traces: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS traces (
			id         TEXT PRIMARY KEY,
			goal       TEXT NOT NULL,
			status     TEXT NOT NULL,
			steps      INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			body       BLOB NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS traces_started_at ON traces (started_at)`)
	return err
}

// Save stores a trace, replacing any previous version with the same run ID.
func (s *Store) Save(ctx context.Context, trace *react.Trace) error {
	body, err := json.Marshal(trace)
	if err != nil {
		return fmt.Errorf("encoding trace %s: %w", trace.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO traces (id, goal, status, steps, started_at, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			goal       = excluded.goal,
			status     = excluded.status,
			steps      = excluded.steps,
			started_at = excluded.started_at,
			body       = excluded.body
	`, trace.ID, trace.Goal, string(trace.Status), trace.Len(),
		trace.StartedAt.Format(time.RFC3339Nano), body)
	return err
}

// Load returns the full trace for a run ID, or ErrNotFound.
func (s *Store) Load(ctx context.Context, id string) (*react.Trace, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM traces WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trace %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return react.ParseTrace(body)
}

// TraceSummary is the indexed view of a stored trace.
type TraceSummary struct {
	ID        string
	Goal      string
	Status    react.Status
	Steps     int
	StartedAt time.Time
}

// List returns summaries of all stored traces, most recent first.
func (s *Store) List(ctx context.Context) ([]TraceSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, goal, status, steps, started_at
		FROM traces
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []TraceSummary
	for rows.Next() {
		var summary TraceSummary
		var status, startedAt string
		if err := rows.Scan(&summary.ID, &summary.Goal, &status, &summary.Steps, &startedAt); err != nil {
			return nil, err
		}
		summary.Status = react.Status(status)
		summary.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at for trace %s: %w", summary.ID, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// Delete removes a stored trace. Unknown IDs are a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM traces WHERE id = ?`, id)
	return err
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
