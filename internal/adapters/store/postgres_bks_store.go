package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hgsvrptw/internal/ports"
)

// PostgresBKSStore persists the best-known-solution ledger described by
// the `-bks` flag (spec §6): per instance name, the best penalized cost
// ever found and its routes, plus full history. Mirrors the teacher's
// SqliteDistanceCache GetMany/PutMany shape as GetBest/PutBest/History.
type PostgresBKSStore struct {
	DB *sql.DB
}

func NewPostgresBKSStore(db *sql.DB) *PostgresBKSStore {
	return &PostgresBKSStore{DB: db}
}

// InitSchema creates the bks_history table if it does not already exist.
func (s *PostgresBKSStore) InitSchema(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("bks store: db is nil")
	}
	const stmt = `
	CREATE TABLE IF NOT EXISTS bks_history (
		id            BIGSERIAL PRIMARY KEY,
		instance_name TEXT NOT NULL,
		cost          DOUBLE PRECISION NOT NULL,
		routes_json   TEXT NOT NULL,
		recorded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_bks_history_instance_cost
		ON bks_history(instance_name, cost);
	`
	if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("bks store: init schema: %w", err)
	}
	return nil
}

// GetBest returns the cheapest recorded solution for instanceName.
func (s *PostgresBKSStore) GetBest(ctx context.Context, instanceName string) (float64, [][]int, bool, error) {
	if s.DB == nil {
		return 0, nil, false, errors.New("bks store: db is nil")
	}

	row := s.DB.QueryRowContext(ctx, `
		SELECT cost, routes_json
		FROM bks_history
		WHERE instance_name = $1
		ORDER BY cost ASC
		LIMIT 1;
	`, instanceName)

	var cost float64
	var routesJSON string
	if err := row.Scan(&cost, &routesJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, false, nil
		}
		return 0, nil, false, fmt.Errorf("bks store: get best: %w", err)
	}

	var routes [][]int
	if err := json.Unmarshal([]byte(routesJSON), &routes); err != nil {
		return 0, nil, false, fmt.Errorf("bks store: get best: decode routes: %w", err)
	}
	return cost, routes, true, nil
}

// PutBest appends a new best-known solution to the history table.
func (s *PostgresBKSStore) PutBest(ctx context.Context, instanceName string, cost float64, routes [][]int) error {
	if s.DB == nil {
		return errors.New("bks store: db is nil")
	}
	routesJSON, err := json.Marshal(routes)
	if err != nil {
		return fmt.Errorf("bks store: put best: encode routes: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO bks_history (instance_name, cost, routes_json, recorded_at)
		VALUES ($1, $2, $3, $4);
	`, instanceName, cost, string(routesJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("bks store: put best instance=%q: %w", instanceName, err)
	}
	return nil
}

// History returns every recorded improvement for instanceName, oldest first.
func (s *PostgresBKSStore) History(ctx context.Context, instanceName string) ([]ports.BKSRecord, error) {
	if s.DB == nil {
		return nil, errors.New("bks store: db is nil")
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT cost, routes_json, recorded_at
		FROM bks_history
		WHERE instance_name = $1
		ORDER BY recorded_at ASC;
	`, instanceName)
	if err != nil {
		return nil, fmt.Errorf("bks store: history instance=%q: %w", instanceName, err)
	}
	defer rows.Close()

	var out []ports.BKSRecord
	for rows.Next() {
		var rec ports.BKSRecord
		var routesJSON string
		var recordedAt time.Time
		if err := rows.Scan(&rec.Cost, &routesJSON, &recordedAt); err != nil {
			return nil, fmt.Errorf("bks store: history instance=%q: scan: %w", instanceName, err)
		}
		if err := json.Unmarshal([]byte(routesJSON), &rec.Routes); err != nil {
			return nil, fmt.Errorf("bks store: history instance=%q: decode routes: %w", instanceName, err)
		}
		rec.RecordedAt = recordedAt.Format(time.RFC3339)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bks store: history instance=%q: row iteration: %w", instanceName, err)
	}
	return out, nil
}

var _ ports.BKSStore = (*PostgresBKSStore)(nil)
