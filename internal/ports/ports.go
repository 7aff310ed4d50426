// Package ports declares the small interfaces the genetic driver and
// command entrypoints depend on, so concrete adapters (Postgres, SQLite,
// Redis, Lua) stay swappable without the core algorithm packages ever
// importing database/sql or a cache client directly — the teacher's
// hexagonal layering (spec §1 "instance file parsing, ... solution file
// I/O" are explicitly external collaborators).
package ports

import (
	"context"

	"hgsvrptw/internal/domain"
)

// InstanceSource loads a VRPTW instance from some external representation
// (a Solomon/TSPLIB file, in the only adapter this module ships:
// internal/io.ReadInstance). Kept as an interface so a future adapter
// (an HTTP upload, a generated instance) can stand in for internal/io
// without the genetic driver or cmd entrypoints changing.
type InstanceSource interface {
	Read(ctx context.Context, path string) (*domain.Instance, error)
}

// SolutionSink writes a solved Individual out to some external sink (a
// CVRPLib-format file, in internal/io.WriteCVRPLibSolution).
type SolutionSink interface {
	Write(ctx context.Context, path string, ind *domain.Individual, elapsedSeconds float64) error
}

// BKSStore persists, per instance name, the best-known penalized cost and
// its CVRPLib-format routes, with history (SPEC_FULL DOMAIN STACK,
// Postgres-backed).
type BKSStore interface {
	// GetBest returns the best recorded cost for instanceName and ok=false
	// if none has been recorded yet.
	GetBest(ctx context.Context, instanceName string) (cost float64, routes [][]int, ok bool, err error)
	// PutBest records a new best for instanceName, appending to history.
	PutBest(ctx context.Context, instanceName string, cost float64, routes [][]int) error
	// History returns every recorded improvement for instanceName, oldest first.
	History(ctx context.Context, instanceName string) ([]BKSRecord, error)
}

// BKSRecord is one historical best-known-solution entry.
type BKSRecord struct {
	Cost      float64
	Routes    [][]int
	RecordedAt string
}

// ProgressStore appends search-progress rows (one every 500 iterations
// of genetic.Driver.Run, via its onProgress callback), mirroring
// Population::exportSearchProgress (SPEC_FULL, SQLite-backed).
type ProgressStore interface {
	AppendProgress(ctx context.Context, runID string, row ProgressRow) error
	Progress(ctx context.Context, runID string) ([]ProgressRow, error)
}

// ProgressRow is one exported row of search progress.
type ProgressRow struct {
	Iteration          int
	ElapsedSeconds     float64
	BestFeasibleCost   float64
	BestInfeasibleCost float64
	FeasiblePopSize    int
	InfeasiblePopSize  int
	DiversityFeasible  float64
}

// MatrixCache caches a fully-built travel-time Matrix across runs of the
// same instance, keyed by an instance fingerprint (SPEC_FULL, Redis-backed).
type MatrixCache interface {
	Get(ctx context.Context, fingerprint string) (*domain.Matrix, bool, error)
	Put(ctx context.Context, fingerprint string, matrix *domain.Matrix) error
}

// DynamicParameterPolicy computes the dynamic-parameter growth schedule
// (spec §9 / SPEC_FULL "Dynamic parameter adaptation"): given the instance
// shape, decide how nbGranular and minimumPopulationSize should grow.
// The built-in Go heuristic and an optional Lua script both implement it.
type DynamicParameterPolicy interface {
	Tune(nbClients int, cfg *domain.Instance) error
}
