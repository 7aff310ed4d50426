package policy

import (
	"hgsvrptw/internal/domain"
	"hgsvrptw/internal/ports"
)

// GoHeuristicDynamicParameterPolicy is the built-in DynamicParameterPolicy,
// a direct port of the hasLargeRoutes/hasLargeTW branching in
// original_source/Params.cpp's "isDimacsRun || useDynamicParameters"
// block. It is the fallback -useDynamicParameters uses when no Lua script
// path is configured.
type GoHeuristicDynamicParameterPolicy struct{}

func NewGoHeuristicDynamicParameterPolicy() *GoHeuristicDynamicParameterPolicy {
	return &GoHeuristicDynamicParameterPolicy{}
}

func (GoHeuristicDynamicParameterPolicy) Tune(nbClients int, inst *domain.Instance) error {
	if nbClients <= 0 {
		return nil
	}
	cfg := &inst.Cfg

	stopsPerRoute := 0.0
	if inst.TotalDemand > 0 {
		stopsPerRoute = float64(inst.VehicleCapacity) / (float64(inst.TotalDemand) / float64(nbClients))
	}
	hasLargeRoutes := stopsPerRoute > 25

	horizon := inst.Clients[0].LatestArrival - inst.Clients[0].EarliestArrival
	nbLargeTW := 0
	for _, c := range inst.Clients[1:] {
		if float64(c.LatestArrival-c.EarliestArrival) > 0.7*float64(horizon) {
			nbLargeTW++
		}
	}
	hasLargeTW := nbLargeTW > 0

	switch {
	case hasLargeRoutes:
		cfg.NbGranular = 40
		cfg.GrowNbGranularAfterIterations = 10000
		cfg.GrowNbGranularSize = 5
		cfg.GrowPopulationAfterIterations = 10000
		cfg.GrowPopulationSize = 5
		cfg.IntensificationProbabilityLS = 15
	case hasLargeTW:
		cfg.NbGranular = 20
		cfg.GrowPopulationAfterIterations = 20000
		cfg.GrowPopulationSize = 5
		cfg.IntensificationProbabilityLS = 100
	default:
		cfg.NbGranular = 40
		cfg.GrowPopulationAfterIterations = 10000
		cfg.GrowPopulationSize = 5
		cfg.IntensificationProbabilityLS = 100
	}
	return nil
}

var _ ports.DynamicParameterPolicy = (*GoHeuristicDynamicParameterPolicy)(nil)
