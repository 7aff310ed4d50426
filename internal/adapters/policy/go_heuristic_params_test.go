package policy

import (
	"testing"

	"hgsvrptw/internal/config"
	"hgsvrptw/internal/domain"
)

func buildTestInstance(t *testing.T, demandPerClient, nbClients, capacity, earliest, latest int) *domain.Instance {
	t.Helper()

	clients := make([]domain.Client, nbClients+1)
	clients[0] = domain.Client{Index: 0, EarliestArrival: 0, LatestArrival: 100000}
	for i := 1; i <= nbClients; i++ {
		clients[i] = domain.Client{
			Index:           i,
			X:               float64(i),
			Y:               float64(i),
			Demand:          demandPerClient,
			EarliestArrival: earliest,
			LatestArrival:   latest,
		}
	}

	matrix := domain.NewMatrix(nbClients + 1)

	cfg := config.Default()
	cfg.NbVeh = nbClients // avoid infeasible-fleet errors in this fixture
	inst, err := domain.NewInstance(cfg, clients, matrix, capacity)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	return inst
}

func TestGoHeuristicDynamicParameterPolicy_LargeRoutes(t *testing.T) {
	// capacity / (totalDemand/nbClients) = 1000/5 = 200 > 25 => large routes.
	inst := buildTestInstance(t, 5, 10, 1000, 0, 100000)
	p := NewGoHeuristicDynamicParameterPolicy()
	if err := p.Tune(inst.NbClients(), inst); err != nil {
		t.Fatalf("Tune: %v", err)
	}
	if inst.Cfg.GrowNbGranularAfterIterations != 10000 || inst.Cfg.GrowNbGranularSize != 5 {
		t.Errorf("expected large-route growth schedule, got %+v", inst.Cfg)
	}
	if inst.Cfg.IntensificationProbabilityLS != 15 {
		t.Errorf("IntensificationProbabilityLS = %d, want 15", inst.Cfg.IntensificationProbabilityLS)
	}
}

func TestGoHeuristicDynamicParameterPolicy_LargeTimeWindows(t *testing.T) {
	// capacity / (totalDemand/nbClients) = 10/10 = 1, not large routes.
	// Every client's window spans [0, 100000], horizon is also [0, 100000] => large TW.
	inst := buildTestInstance(t, 1, 10, 10, 0, 100000)
	p := NewGoHeuristicDynamicParameterPolicy()
	if err := p.Tune(inst.NbClients(), inst); err != nil {
		t.Fatalf("Tune: %v", err)
	}
	if inst.Cfg.NbGranular != 20 || inst.Cfg.GrowPopulationAfterIterations != 20000 {
		t.Errorf("expected large-TW growth schedule, got %+v", inst.Cfg)
	}
	if inst.Cfg.IntensificationProbabilityLS != 100 {
		t.Errorf("IntensificationProbabilityLS = %d, want 100", inst.Cfg.IntensificationProbabilityLS)
	}
}

func TestGoHeuristicDynamicParameterPolicy_ZeroClients(t *testing.T) {
	p := NewGoHeuristicDynamicParameterPolicy()
	if err := p.Tune(0, &domain.Instance{}); err != nil {
		t.Fatalf("Tune with 0 clients should be a no-op, got error: %v", err)
	}
}
