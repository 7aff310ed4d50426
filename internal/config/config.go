// Package config holds the tunable parameters of the Hybrid Genetic Search
// driver and the small env-var loading helper used by the command
// entrypoints (cmd/hgsvrptw, cmd/dbtool), in the same style as the
// teacher's cmd/dbtool/main.go "config.Get" usage.
package config

import "os"

// Config mirrors original_source/Params.h's Config struct field-for-field,
// including its defaults. Fields are grouped the same way the C++ struct
// groups them (time limits, granularity, construction mix, penalties,
// population shape, dynamic-parameter growth, circle sectors).
type Config struct {
	// Time / iteration limits.
	TimeLimit           float64 // seconds; 0 means unlimited (checked alongside NbIter)
	UseWallClockTime    bool
	NbIter              int // non-improving iterations until termination
	Seed                int64
	NbVeh               int // fleet size; -1 = unlimited
	IsDimacsRun         bool
	UseDynamicParameters bool
	LogPoolInterval     int

	// Granularity / construction.
	NbGranular                    int
	InitialSolution               string // giant tour with 0 separators, may be empty
	FractionGeneratedNearest      float64
	FractionGeneratedFurthest     float64
	FractionGeneratedSweep        float64
	FractionGeneratedRandomly     float64
	MinSweepFillPercentage        int
	MaxToleratedCapacityViolation int
	MaxToleratedTimeWarp          int

	// Penalties.
	InitialTimeWarpPenalty float64
	PenaltyBooster         float64

	// Correlated vertices / circle sectors.
	UseSymmetricCorrelatedVertices      bool
	CircleSectorOverlapToleranceDegrees int
	MinCircleSectorSizeDegrees          int

	// Population shape.
	DoRepeatUntilTimeLimit  bool
	MinimumPopulationSize   int
	GenerationSize          int
	NbElite                 int
	NbClose                 int
	TargetFeasible          float64
	RepairProbability       int
	DiversityWeight         float64

	// Dynamic-parameter growth schedules (used when UseDynamicParameters).
	GrowNbGranularAfterIterations               int
	GrowNbGranularAfterNonImprovingIterations   int
	GrowNbGranularSize                          int
	GrowPopulationAfterIterations               int
	GrowPopulationAfterNonImprovingIterations   int
	GrowPopulationSize                          int

	// LocalSearch intensification.
	IntensificationProbabilityLS int
	UseSwapStarTW                bool
	SkipSwapStarDist             bool

	// Paths.
	BksPath string
}

// Default returns the Config populated with the exact defaults carried by
// original_source/Params.h (so a faithful port behaves the same with no
// flags supplied).
func Default() Config {
	return Config{
		TimeLimit:           0, // caller treats 0 as "no limit, rely on NbIter"
		UseWallClockTime:    false,
		NbIter:              20000,
		Seed:                0,
		NbVeh:                -1,
		IsDimacsRun:          false,
		UseDynamicParameters: false,
		LogPoolInterval:      0,

		NbGranular:                    40,
		InitialSolution:               "",
		FractionGeneratedNearest:      0.05,
		FractionGeneratedFurthest:     0.05,
		FractionGeneratedSweep:        0.05,
		FractionGeneratedRandomly:     0.85,
		MinSweepFillPercentage:        60,
		MaxToleratedCapacityViolation: 50,
		MaxToleratedTimeWarp:          100,

		InitialTimeWarpPenalty: 1.0,
		PenaltyBooster:         2.0,

		UseSymmetricCorrelatedVertices:      false,
		CircleSectorOverlapToleranceDegrees: 0,
		MinCircleSectorSizeDegrees:          15,

		DoRepeatUntilTimeLimit: true,
		MinimumPopulationSize:  25,
		GenerationSize:         40,
		NbElite:                4,
		NbClose:                5,
		TargetFeasible:         0.2,
		RepairProbability:      50,
		DiversityWeight:        0.0,

		GrowNbGranularAfterIterations:             5000,
		GrowNbGranularAfterNonImprovingIterations:  0,
		GrowNbGranularSize:                         0,
		GrowPopulationAfterIterations:              5000,
		GrowPopulationAfterNonImprovingIterations:  0,
		GrowPopulationSize:                         0,

		IntensificationProbabilityLS: 15,
		UseSwapStarTW:                true,
		SkipSwapStarDist:             false,
	}
}

// Get reads an environment variable, falling back to a default when unset
// or empty. Used by the command entrypoints the same way
// cmd/dbtool/main.go's "config.Get" call implies.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
