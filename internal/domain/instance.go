package domain

import (
	"errors"
	"fmt"
	"time"

	"hgsvrptw/internal/config"
)

// ErrSplitInfeasible is returned by Split when no propagation reaches the
// last node of the giant tour under the chosen vehicle bound — a
// caller-fixable condition (too few vehicles for the trivial bin-packing
// bound), not a bug in the algorithm.
var ErrSplitInfeasible = errors.New("split: no propagation reached the last node")

// Instance holds all problem data: it is constructed once per run and is
// read-mostly afterwards. The three penalties and the granular neighbor
// list are the only fields that mutate during a run, and only from the
// single-threaded search loop (see spec §5).
type Instance struct {
	Cfg config.Config

	Clients        []Client // index 0 is the depot
	Matrix         *Matrix
	VehicleCapacity int
	NbVehicles      int
	TotalDemand     int

	IsDurationConstraint bool
	DurationLimit        int

	PenaltyCapacity float64
	PenaltyTimeWarp float64
	PenaltyWait     float64

	// CorrelatedVertices[c] lists the nbGranular closest (or mutually
	// closest, depending on UseSymmetricCorrelatedVertices) clients to c,
	// used to restrict LocalSearch's neighborhood.
	CorrelatedVertices [][]int

	// CircleSectorTolerance / MinCircleSectorSize are the degrees-based
	// config values rescaled into the [0, 65536) integer angle space used
	// by CircleSector (see sector.go), matching Params.cpp's rescaling of
	// the *Degrees config fields at construction time.
	CircleSectorTolerance int
	MinCircleSectorSize   int

	RNG *RNG

	startTime time.Time
}

// NewInstance builds an Instance from parsed clients and a precomputed
// matrix, validating the invariants §7 classifies as fatal.
func NewInstance(cfg config.Config, clients []Client, matrix *Matrix, vehicleCapacity int) (*Instance, error) {
	if len(clients) == 0 || clients[0].Index != 0 {
		return nil, errors.New("new instance: depot invariant violated: client 0 must be the depot")
	}
	if clients[0].Demand != 0 || clients[0].ServiceDuration != 0 || clients[0].ReleaseTime != 0 || clients[0].EarliestArrival != 0 {
		return nil, errors.New("new instance: depot invariant violated: depot demand/service/release/earliest must all be 0")
	}
	if vehicleCapacity <= 0 {
		return nil, errors.New("new instance: capacity undefined")
	}

	totalDemand := 0
	for _, c := range clients[1:] {
		totalDemand += c.Demand
	}

	nbVeh := cfg.NbVeh
	minVehicles := (totalDemand + vehicleCapacity - 1) / vehicleCapacity
	if nbVeh <= 0 {
		nbVeh = max(minVehicles, len(clients)-1)
	}
	if nbVeh < minVehicles {
		return nil, fmt.Errorf(
			"new instance: fleet infeasible: %d vehicles cannot serve total demand %d at capacity %d (need >= %d)",
			nbVeh, totalDemand, vehicleCapacity, minVehicles,
		)
	}

	inst := &Instance{
		Cfg:             cfg,
		Clients:         clients,
		Matrix:          matrix,
		VehicleCapacity: vehicleCapacity,
		NbVehicles:      nbVeh,
		TotalDemand:     totalDemand,
		PenaltyCapacity: 10,
		PenaltyTimeWarp: cfg.InitialTimeWarpPenalty,
		PenaltyWait:     1,
		RNG:             NewRNG(cfg.Seed),
		CircleSectorTolerance: degreesToSectorUnits(cfg.CircleSectorOverlapToleranceDegrees),
		MinCircleSectorSize:   degreesToSectorUnits(cfg.MinCircleSectorSizeDegrees),
	}
	return inst, nil
}

// NbClients is the number of non-depot clients.
func (inst *Instance) NbClients() int { return len(inst.Clients) - 1 }

// StartTimer records the run's start time; ElapsedSeconds is measured
// relative to it, matching getTimeElapsedSeconds in the reference.
func (inst *Instance) StartTimer() { inst.startTime = time.Now() }

// ElapsedSeconds returns wall-clock seconds since StartTimer. The design
// note in spec §5 allows choosing wall-clock or "CPU" time; Go has no
// portable cheap per-goroutine CPU clock, so both UseWallClockTime
// settings resolve to wall-clock here.
func (inst *Instance) ElapsedSeconds() float64 {
	return time.Since(inst.startTime).Seconds()
}

// IsTimeLimitExceeded reports whether the configured TimeLimit (0 = none)
// has elapsed.
func (inst *Instance) IsTimeLimitExceeded() bool {
	if inst.Cfg.TimeLimit <= 0 {
		return false
	}
	return inst.ElapsedSeconds() >= inst.Cfg.TimeLimit
}

// ClampPenaltyFloat enforces the [0.1, 100000] bounds managePenalties relies
// on (spec §4.5 / §7: penalties are only ever clamped, never allowed to
// escape the range).
func ClampPenaltyFloat(v float64) float64 {
	if v < 0.1 {
		return 0.1
	}
	if v > 100000 {
		return 100000
	}
	return v
}

func degreesToSectorUnits(deg int) int {
	// Rescale a degrees-in-[0,359] config value into the [0,65536) space
	// CircleSector angles live in, exactly as Params.cpp does for
	// circleSectorOverlapToleranceDegrees / minCircleSectorSizeDegrees.
	return int(float64(deg) / 360.0 * 65536.0)
}
