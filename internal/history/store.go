// Package history keeps a SQLite log of finished phases.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focustimer/internal/core/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotOpen is returned when the store has been closed.
var ErrNotOpen = errors.New("history store is not open")

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Transition is one finished phase.
type Transition struct {
	ID             int64
	RunID          string
	From           model.Phase
	To             model.Phase
	Reason         string
	ElapsedSeconds int
	TotalCycles    int
	OccurredAt     time.Time
}

// PhaseTotals aggregates transitions out of one phase.
type PhaseTotals struct {
	Completed      int
	Skipped        int
	ElapsedSeconds int
}

// Summary aggregates the history since a point in time.
type Summary struct {
	Since    time.Time
	ByPhase  map[model.Phase]PhaseTotals
	Runs     int
	LastSeen time.Time
}

// FocusSeconds returns the time spent in work phases.
func (summary Summary) FocusSeconds() int {
	return summary.ByPhase[model.PhaseWork].ElapsedSeconds
}

// Store wraps SQLite access for the phase log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transitions (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			from_phase TEXT NOT NULL,
			to_phase TEXT NOT NULL,
			reason TEXT NOT NULL,
			elapsed_seconds INTEGER NOT NULL,
			total_cycles INTEGER NOT NULL,
			occurred_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_transitions_occurred_at ON transitions(occurred_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Insert stores a transition and returns its row id.
func (s *Store) Insert(ctx context.Context, transition Transition) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrNotOpen
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transitions (run_id, from_phase, to_phase, reason, elapsed_seconds, total_cycles, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		transition.RunID,
		string(transition.From),
		string(transition.To),
		transition.Reason,
		transition.ElapsedSeconds,
		transition.TotalCycles,
		transition.OccurredAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert transition: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit transitions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Transition, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotOpen
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, from_phase, to_phase, reason, elapsed_seconds, total_cycles, occurred_at
		 FROM transitions ORDER BY occurred_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var (
			transition Transition
			from, to   string
			occurredAt string
		)
		if err := rows.Scan(&transition.ID, &transition.RunID, &from, &to, &transition.Reason,
			&transition.ElapsedSeconds, &transition.TotalCycles, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		transition.From = model.Phase(from)
		transition.To = model.Phase(to)
		transition.OccurredAt, err = time.Parse(timeLayout, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", occurredAt, err)
		}
		out = append(out, transition)
	}
	return out, rows.Err()
}

// Summarize aggregates every transition that occurred at or after since.
func (s *Store) Summarize(ctx context.Context, since time.Time) (Summary, error) {
	summary := Summary{Since: since, ByPhase: make(map[model.Phase]PhaseTotals)}
	if s == nil || s.db == nil {
		return summary, ErrNotOpen
	}
	sinceText := since.UTC().Format(timeLayout)

	rows, err := s.db.QueryContext(ctx,
		`SELECT from_phase, reason, COUNT(*), COALESCE(SUM(elapsed_seconds), 0)
		 FROM transitions WHERE occurred_at >= ?
		 GROUP BY from_phase, reason`, sinceText)
	if err != nil {
		return summary, fmt.Errorf("summarize transitions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			from, reason   string
			count, elapsed int
		)
		if err := rows.Scan(&from, &reason, &count, &elapsed); err != nil {
			return summary, fmt.Errorf("scan summary: %w", err)
		}
		totals := summary.ByPhase[model.Phase(from)]
		if reason == "skipped" {
			totals.Skipped += count
		} else {
			totals.Completed += count
		}
		totals.ElapsedSeconds += elapsed
		summary.ByPhase[model.Phase(from)] = totals
	}
	if err := rows.Err(); err != nil {
		return summary, err
	}

	var lastSeen sql.NullString
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT run_id), MAX(occurred_at) FROM transitions WHERE occurred_at >= ?`, sinceText)
	if err := row.Scan(&summary.Runs, &lastSeen); err != nil {
		return summary, fmt.Errorf("summarize runs: %w", err)
	}
	if lastSeen.Valid {
		summary.LastSeen, err = time.Parse(timeLayout, lastSeen.String)
		if err != nil {
			return summary, fmt.Errorf("parse last occurred_at: %w", err)
		}
	}
	return summary, nil
}
