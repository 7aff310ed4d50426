package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hgsvrptw/internal/ports"
)

// SqliteProgressStore is the embedded local store for
// exportSearchProgress/exportPopulation rows (spec §4.5's logging hooks,
// ported as SPEC_FULL's "Search-progress / population export"): one
// append-only table per run, queryable after the fact. Mirrors the
// teacher's sqlite_distance_cache.go + sqlite_init.go schema/seed pattern.
type SqliteProgressStore struct {
	DB *sql.DB
}

func NewSqliteProgressStore(db *sql.DB) *SqliteProgressStore {
	return &SqliteProgressStore{DB: db}
}

// InitSchema creates the search_progress table if it does not already exist.
func (s *SqliteProgressStore) InitSchema() error {
	if s.DB == nil {
		return errors.New("progress store: db is nil")
	}
	const stmt = `
	CREATE TABLE IF NOT EXISTS search_progress (
		run_id               TEXT NOT NULL,
		iteration            INTEGER NOT NULL,
		elapsed_seconds      REAL NOT NULL,
		best_feasible_cost   REAL NOT NULL,
		best_infeasible_cost REAL NOT NULL,
		feasible_pop_size    INTEGER NOT NULL,
		infeasible_pop_size  INTEGER NOT NULL,
		diversity_feasible   REAL NOT NULL,
		PRIMARY KEY (run_id, iteration)
	);
	`
	if _, err := s.DB.Exec(stmt); err != nil {
		return fmt.Errorf("progress store: init schema: %w", err)
	}
	return nil
}

// AppendProgress inserts one search-progress row for runID.
func (s *SqliteProgressStore) AppendProgress(ctx context.Context, runID string, row ports.ProgressRow) error {
	if s.DB == nil {
		return errors.New("progress store: db is nil")
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT OR REPLACE INTO search_progress (
			run_id, iteration, elapsed_seconds, best_feasible_cost,
			best_infeasible_cost, feasible_pop_size, infeasible_pop_size, diversity_feasible
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`, runID, row.Iteration, row.ElapsedSeconds, row.BestFeasibleCost,
		row.BestInfeasibleCost, row.FeasiblePopSize, row.InfeasiblePopSize, row.DiversityFeasible)
	if err != nil {
		return fmt.Errorf("progress store: append run=%q iter=%d: %w", runID, row.Iteration, err)
	}
	return nil
}

// Progress returns every row recorded for runID, ordered by iteration.
func (s *SqliteProgressStore) Progress(ctx context.Context, runID string) ([]ports.ProgressRow, error) {
	if s.DB == nil {
		return nil, errors.New("progress store: db is nil")
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT iteration, elapsed_seconds, best_feasible_cost, best_infeasible_cost,
		       feasible_pop_size, infeasible_pop_size, diversity_feasible
		FROM search_progress
		WHERE run_id = ?
		ORDER BY iteration ASC;
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("progress store: query run=%q: %w", runID, err)
	}
	defer rows.Close()

	var out []ports.ProgressRow
	for rows.Next() {
		var r ports.ProgressRow
		if err := rows.Scan(&r.Iteration, &r.ElapsedSeconds, &r.BestFeasibleCost, &r.BestInfeasibleCost,
			&r.FeasiblePopSize, &r.InfeasiblePopSize, &r.DiversityFeasible); err != nil {
			return nil, fmt.Errorf("progress store: query run=%q: scan: %w", runID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("progress store: query run=%q: row iteration: %w", runID, err)
	}
	return out, nil
}

var _ ports.ProgressStore = (*SqliteProgressStore)(nil)
