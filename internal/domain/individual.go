package domain

import "math"

// CostSol mirrors original_source/Individual.h's CostSol: the aggregate
// cost breakdown of one solution.
type CostSol struct {
	PenalizedCost   float64
	NbRoutes        int
	Distance        int
	CapacityExcess  int
	WaitTime        int
	TimeWarp        int
}

// Individual is one solution: the giant tour chromosome, its decoded
// routes, and derived cost/feasibility data (spec §3).
type Individual struct {
	GiantTour []int   // permutation of {1..N}, depot never included
	Routes    [][]int // length NbVehicles; some may be empty

	Predecessor []int // index by client, depot = 0 for route starts
	Successor   []int

	Cost       CostSol
	IsFeasible bool

	// BiasedFitness is set by the population manager (spec §4.5), not
	// here; it defaults to zero until updateBiasedFitnesses runs.
	BiasedFitness float64

	// Proximity holds (brokenPairsDistance, otherIndividual) pairs kept
	// sorted ascending by distance, used for diversity ranking and
	// eviction (spec §4.5). Stored as a slice rather than an ordered
	// multiset container: Go has none built in, and the population sizes
	// here (tens of individuals) make linear insert/remove cheap enough.
	Proximity []ProximityEntry
}

// ProximityEntry pairs a broken-pairs distance with the other individual
// it was measured against.
type ProximityEntry struct {
	Distance float64
	Other    *Individual
}

// NewEmptyIndividual allocates an Individual with zeroed chromosome data
// sized for nbClients clients and nbVehicles routes, without shuffling —
// callers that want a random starting individual should follow with
// ShuffleGiantTour.
func NewEmptyIndividual(nbClients, nbVehicles int) *Individual {
	return &Individual{
		GiantTour:   make([]int, nbClients),
		Routes:      make([][]int, nbVehicles),
		Predecessor: make([]int, nbClients+1),
		Successor:   make([]int, nbClients+1),
		Cost:        CostSol{PenalizedCost: 1e30},
	}
}

// ShuffleGiantTour fills GiantTour with 1..N and shuffles it with the
// instance's RNG — the "create a random individual" constructor behavior
// of Individual::shuffleChromT. Callers still need to run Split +
// EvaluateCompleteCost (or LocalSearch) afterwards.
func (ind *Individual) ShuffleGiantTour(rng *RNG) {
	for i := range ind.GiantTour {
		ind.GiantTour[i] = i + 1
	}
	ShuffleInts(rng, ind.GiantTour)
}

// EvaluateCompleteCost recomputes Cost, IsFeasible, Predecessor and
// Successor from Routes, exactly following Individual::evaluateCompleteCost
// (spec §4.1): per non-empty route, start at the max release time over its
// clients, walk accumulating distance/load/service/time, applying wait or
// time-warp at each arrival, and fold route totals into the solution-wide
// CostSol.
func (ind *Individual) EvaluateCompleteCost(inst *Instance) {
	ind.Cost = CostSol{}
	for c := range ind.Predecessor {
		ind.Predecessor[c] = -1
		ind.Successor[c] = -1
	}

	for _, route := range ind.Routes {
		if len(route) == 0 {
			continue
		}

		latestRelease := inst.Clients[route[0]].ReleaseTime
		for _, c := range route[1:] {
			if r := inst.Clients[c].ReleaseTime; r > latestRelease {
				latestRelease = r
			}
		}

		distance := inst.Matrix.Get(0, route[0])
		load := inst.Clients[route[0]].Demand
		t := latestRelease + distance
		waitTime := 0
		timeWarp := 0

		first := inst.Clients[route[0]]
		if t < first.EarliestArrival {
			t = first.EarliestArrival
		} else if t > first.LatestArrival {
			timeWarp += t - first.LatestArrival
			t = first.LatestArrival
		}
		ind.Predecessor[route[0]] = 0

		for i := 1; i < len(route); i++ {
			prev, cur := route[i-1], route[i]
			distance += inst.Matrix.Get(prev, cur)
			load += inst.Clients[cur].Demand
			t += inst.Clients[prev].ServiceDuration + inst.Matrix.Get(prev, cur)

			cl := inst.Clients[cur]
			if t < cl.EarliestArrival {
				waitTime += cl.EarliestArrival - t
				t = cl.EarliestArrival
			} else if t > cl.LatestArrival {
				timeWarp += t - cl.LatestArrival
				t = cl.LatestArrival
			}

			ind.Predecessor[cur] = prev
			ind.Successor[prev] = cur
		}

		last := route[len(route)-1]
		ind.Successor[last] = 0
		distance += inst.Matrix.Get(last, 0)
		t += inst.Clients[last].ServiceDuration + inst.Matrix.Get(last, 0)

		depot := inst.Clients[0]
		if t > depot.LatestArrival {
			timeWarp += t - depot.LatestArrival
		}

		ind.Cost.Distance += distance
		ind.Cost.WaitTime += waitTime
		ind.Cost.TimeWarp += timeWarp
		ind.Cost.NbRoutes++
		if load > inst.VehicleCapacity {
			ind.Cost.CapacityExcess += load - inst.VehicleCapacity
		}
	}

	ind.Cost.PenalizedCost = float64(ind.Cost.Distance) +
		float64(ind.Cost.CapacityExcess)*inst.PenaltyCapacity +
		float64(ind.Cost.TimeWarp)*inst.PenaltyTimeWarp +
		float64(ind.Cost.WaitTime)*inst.PenaltyWait

	const epsilon = 1e-9
	ind.IsFeasible = float64(ind.Cost.CapacityExcess) < epsilon && float64(ind.Cost.TimeWarp) < epsilon
}

// BrokenPairsDistance is the diversity metric of spec §4.1: the fraction
// of clients whose successor in ind is not directly linked (in either
// direction) to the same client in other, with the first-arc correction
// from Individual::brokenPairsDistance.
func (ind *Individual) BrokenPairsDistance(other *Individual, nbClients int) float64 {
	differences := 0
	for j := 1; j <= nbClients; j++ {
		if ind.Successor[j] != other.Successor[j] && ind.Successor[j] != other.Predecessor[j] {
			differences++
		}
		if ind.Predecessor[j] == 0 && other.Predecessor[j] != 0 && other.Successor[j] != 0 {
			differences++
		}
	}
	return float64(differences) / float64(nbClients)
}

// AverageBrokenPairsDistanceClosest averages the distance to the nbClosest
// nearest entries already recorded in Proximity (which is kept sorted
// ascending by distance).
func (ind *Individual) AverageBrokenPairsDistanceClosest(nbClosest int) float64 {
	if len(ind.Proximity) == 0 {
		return 0
	}
	n := nbClosest
	if n > len(ind.Proximity) {
		n = len(ind.Proximity)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += ind.Proximity[i].Distance
	}
	return sum / float64(n)
}

// Clone deep-copies an individual so that Population can hold independent
// copies (spec §5: "an individual is a value object copied in/out").
func (ind *Individual) Clone() *Individual {
	clone := &Individual{
		GiantTour:     append([]int(nil), ind.GiantTour...),
		Predecessor:   append([]int(nil), ind.Predecessor...),
		Successor:     append([]int(nil), ind.Successor...),
		Cost:          ind.Cost,
		IsFeasible:    ind.IsFeasible,
		BiasedFitness: ind.BiasedFitness,
	}
	clone.Routes = make([][]int, len(ind.Routes))
	for i, r := range ind.Routes {
		clone.Routes[i] = append([]int(nil), r...)
	}
	return clone
}

// WorstPossibleCost returns a sentinel value greater than any real
// penalized cost, for comparisons that need a "no candidate yet"
// baseline. NewEmptyIndividual does not use it; it sets 1e30 directly.
func WorstPossibleCost() float64 { return math.MaxFloat64 / 2 }
