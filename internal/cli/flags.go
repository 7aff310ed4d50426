// Package cli parses the command line into a config.Config and the
// positional instance/solution/time-limit arguments, matching
// original_source/include/commandline.h's flag surface (spec §6 "External
// interfaces"). Parsing uses pflag (GNU-style long flags), the same
// library github.com/mihai-snyk/scheduler-plugins-style repos in the
// retrieval pack reach for in place of the standard library's flag
// package when a CLI needs POSIX-style `-flag value` parsing.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"hgsvrptw/internal/config"
)

// Args holds the parsed positional arguments and the resulting Config.
type Args struct {
	InstancePath string
	SolutionPath string
	Cfg          config.Config
}

// Parse parses argv (excluding the program name) the way CommandLine's
// constructor does: two required positional arguments (instance path,
// then either a solution path or — if numeric — a DIMACS time limit),
// followed by any number of `-flag value` pairs. A single-dash name is
// matched against the defined flags first, so `-t 60` and `--t=60` are
// equivalent.
func Parse(argv []string) (*Args, error) {
	if len(argv) < 2 {
		return nil, fmt.Errorf("cli: parse: need at least <instance> <solution-or-timelimit>, got %d args", len(argv))
	}

	cfg := config.Default()
	fs := pflag.NewFlagSet("hgsvrptw", pflag.ContinueOnError)

	timeLimit := fs.Float64("t", cfg.TimeLimit, "time limit in seconds; 0 means unlimited")
	useWallClockTime := fs.Bool("useWallClockTime", cfg.UseWallClockTime, "measure elapsed time using the wall clock")
	nbIter := fs.Int("it", cfg.NbIter, "maximum iterations without improvement")
	bksPath := fs.String("bks", cfg.BksPath, "optional path to a best-known-solution file, overwritten on improvement")
	seed := fs.Int64("seed", cfg.Seed, "fixed RNG seed")
	nbVeh := fs.Int("veh", cfg.NbVeh, "prescribed fleet size; -1 computes a reasonable upper bound")
	logPoolInterval := fs.Int("logpool", cfg.LogPoolInterval, "iterations between population log dumps; 0 disables")
	isDimacsRun := fs.Bool("isDimacsRun", cfg.IsDimacsRun, "print incumbent only, suppress other output")
	useDynamicParameters := fs.Bool("useDynamicParameters", cfg.UseDynamicParameters, "derive nbGranular/population size from instance attributes")
	nbGranular := fs.Int("nbGranular", cfg.NbGranular, "granular neighbor-list size")
	initialSolution := fs.String("initialSolution", cfg.InitialSolution, "giant tour with 0 separators to seed the population")
	fractionNearest := fs.Float64("fractionGeneratedNearest", cfg.FractionGeneratedNearest, "fraction of individuals constructed nearest-seed")
	fractionFurthest := fs.Float64("fractionGeneratedFurthest", cfg.FractionGeneratedFurthest, "fraction of individuals constructed furthest-seed")
	fractionSweep := fs.Float64("fractionGeneratedSweep", cfg.FractionGeneratedSweep, "fraction of individuals constructed by sweep")
	fractionRandomly := fs.Float64("fractionGeneratedRandomly", cfg.FractionGeneratedRandomly, "fraction of individuals constructed randomly")
	minSweepFill := fs.Int("minSweepFillPercentage", cfg.MinSweepFillPercentage, "fill percentage for sweep-constructed individuals")
	maxTolCap := fs.Int("maxToleratedCapacityViolation", cfg.MaxToleratedCapacityViolation, "maximum tolerated capacity violation during construction")
	maxTolTW := fs.Int("maxToleratedTimeWarp", cfg.MaxToleratedTimeWarp, "maximum tolerated time warp during construction")
	initialTWPenalty := fs.Float64("initialTimeWarpPenalty", cfg.InitialTimeWarpPenalty, "time-warp penalty at algorithm start")
	penaltyBooster := fs.Float64("penaltyBooster", cfg.PenaltyBooster, "multiplier applied to penalties when no feasible solutions are found")
	useSymCorr := fs.Bool("useSymmetricCorrelatedVertices", cfg.UseSymmetricCorrelatedVertices, "use a symmetric correlation matrix")
	doRepeat := fs.Bool("doRepeatUntilTimeLimit", cfg.DoRepeatUntilTimeLimit, "restart the population when nbIter is reached but time remains")
	minPop := fs.Int("minimumPopulationSize", cfg.MinimumPopulationSize, "minimum population size")
	genSize := fs.Int("generationSize", cfg.GenerationSize, "solutions created before reaching the maximum population size")
	nbElite := fs.Int("nbElite", cfg.NbElite, "number of elite individuals")
	nbClose := fs.Int("nbClose", cfg.NbClose, "number of closest individuals used for diversity contribution")
	targetFeasible := fs.Float64("targetFeasible", cfg.TargetFeasible, "target proportion of feasible individuals for penalty adaptation")
	repairProbability := fs.Int("repairProbability", cfg.RepairProbability, "probability (0-100) of a 10x-penalty repair pass on an infeasible offspring")
	growNbGranularAfterNonImp := fs.Int("growNbGranularAfterNonImprovementIterations", cfg.GrowNbGranularAfterNonImprovingIterations, "non-improving iterations after which nbGranular grows")
	growNbGranularAfterIter := fs.Int("growNbGranularAfterIterations", cfg.GrowNbGranularAfterIterations, "iterations after which nbGranular grows")
	growNbGranularSize := fs.Int("growNbGranularSize", cfg.GrowNbGranularSize, "amount nbGranular grows by")
	growPopAfterNonImp := fs.Int("growPopulationAfterNonImprovementIterations", cfg.GrowPopulationAfterNonImprovingIterations, "non-improving iterations after which minimumPopulationSize grows")
	growPopAfterIter := fs.Int("growPopulationAfterIterations", cfg.GrowPopulationAfterIterations, "iterations after which minimumPopulationSize grows")
	growPopSize := fs.Int("growPopulationSize", cfg.GrowPopulationSize, "amount minimumPopulationSize grows by")
	intensificationProb := fs.Int("intensificationProbabilityLS", cfg.IntensificationProbabilityLS, "probability (0-100) that SWAP*/RelocateStar intensification runs during LS")
	diversityWeight := fs.Float64("diversityWeight", cfg.DiversityWeight, "diversity weight; 0 uses 1-nbElite/populationSize")
	useSwapStarTW := fs.Bool("useSwapStarTW", cfg.UseSwapStarTW, "run the time-window-aware SWAP* pass")
	skipSwapStarDist := fs.Bool("skipSwapStarDist", cfg.SkipSwapStarDist, "skip the distance-only SWAP* pass")
	circleTolDeg := fs.Int("circleSectorOverlapToleranceDegrees", cfg.CircleSectorOverlapToleranceDegrees, "margin in degrees for circle-sector overlap in SWAP*")
	minCircleDeg := fs.Int("minCircleSectorSizeDegrees", cfg.MinCircleSectorSizeDegrees, "minimum circle-sector size in degrees")

	// pflag reads a single dash as a run of shorthand flags; rewrite
	// "-name value" pairs for defined flags as "--name=value".
	norm := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		a := argv[i]
		if len(a) > 1 && a[0] == '-' && a[1] != '-' && fs.Lookup(a[1:]) != nil && i+1 < len(argv) {
			norm = append(norm, "-"+a+"="+argv[i+1])
			i++
			continue
		}
		norm = append(norm, a)
	}

	if err := fs.Parse(norm); err != nil {
		return nil, fmt.Errorf("cli: parse: %w", err)
	}
	positional := fs.Args()
	if len(positional) < 2 {
		return nil, fmt.Errorf("cli: parse: need <instance> <solution-or-timelimit>, got %d positional args", len(positional))
	}

	args := &Args{InstancePath: positional[0], SolutionPath: positional[1]}

	if n, err := strconv.Atoi(positional[1]); err == nil {
		cfg.IsDimacsRun = true
		*timeLimit = float64(n)
		args.SolutionPath = args.InstancePath + ".sol"
	}

	cfg.TimeLimit = *timeLimit
	cfg.UseWallClockTime = *useWallClockTime
	cfg.NbIter = *nbIter
	cfg.BksPath = *bksPath
	cfg.Seed = *seed
	cfg.NbVeh = *nbVeh
	cfg.LogPoolInterval = *logPoolInterval
	cfg.IsDimacsRun = cfg.IsDimacsRun || *isDimacsRun
	cfg.UseDynamicParameters = *useDynamicParameters
	cfg.NbGranular = *nbGranular
	cfg.InitialSolution = *initialSolution
	cfg.FractionGeneratedNearest = *fractionNearest
	cfg.FractionGeneratedFurthest = *fractionFurthest
	cfg.FractionGeneratedSweep = *fractionSweep
	cfg.FractionGeneratedRandomly = *fractionRandomly
	cfg.MinSweepFillPercentage = *minSweepFill
	cfg.MaxToleratedCapacityViolation = *maxTolCap
	cfg.MaxToleratedTimeWarp = *maxTolTW
	cfg.InitialTimeWarpPenalty = *initialTWPenalty
	cfg.PenaltyBooster = *penaltyBooster
	cfg.UseSymmetricCorrelatedVertices = *useSymCorr
	cfg.DoRepeatUntilTimeLimit = *doRepeat
	cfg.MinimumPopulationSize = *minPop
	cfg.GenerationSize = *genSize
	cfg.NbElite = *nbElite
	cfg.NbClose = *nbClose
	cfg.TargetFeasible = *targetFeasible
	cfg.RepairProbability = *repairProbability
	cfg.GrowNbGranularAfterNonImprovingIterations = *growNbGranularAfterNonImp
	cfg.GrowNbGranularAfterIterations = *growNbGranularAfterIter
	cfg.GrowNbGranularSize = *growNbGranularSize
	cfg.GrowPopulationAfterNonImprovingIterations = *growPopAfterNonImp
	cfg.GrowPopulationAfterIterations = *growPopAfterIter
	cfg.GrowPopulationSize = *growPopSize
	cfg.IntensificationProbabilityLS = *intensificationProb
	cfg.DiversityWeight = *diversityWeight
	cfg.UseSwapStarTW = *useSwapStarTW
	cfg.SkipSwapStarDist = *skipSwapStarDist
	cfg.CircleSectorOverlapToleranceDegrees = *circleTolDeg
	cfg.MinCircleSectorSizeDegrees = *minCircleDeg

	args.Cfg = cfg
	return args, nil
}

// Usage renders the same call-syntax summary commandline.h's display_help
// prints, reformatted for pflag's -flag (value) style; per-flag help
// strings are attached at the pflag.Value level in Parse and are best
// surfaced by the caller via a FlagSet-aware -h, not duplicated here.
func Usage() string {
	var b strings.Builder
	b.WriteString("HGS-CVRPTW algorithm\n\n")
	b.WriteString("Call with: hgsvrptw <instance> <solution-or-timelimit> [-t seconds] [-it nbIter] [-bks path] [-seed n] [-veh n] [-logpool n] [flags...]\n")
	b.WriteString("See the flag descriptions in internal/cli/flags.go for the full set (mirrors commandline.h's flag surface).\n")
	return b.String()
}
