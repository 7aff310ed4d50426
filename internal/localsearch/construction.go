package localsearch

import (
	"sort"

	"hgsvrptw/internal/domain"
)

// ConstructBySweep builds an initial individual by the classic polar-sweep
// heuristic (original_source's Params::constructSweepIndividual, referred
// to as SWEEP in spec §4.4's construction menu): clients are visited in
// polar-angle order around the depot's centroid and packed into a route
// until it would exceed fillPct of vehicle capacity, then a new route is
// started.
func ConstructBySweep(inst *domain.Instance, fillPct int) *domain.Individual {
	n := inst.NbClients()
	order := make([]int, n)
	for i := range order {
		order[i] = i + 1
	}
	sort.Slice(order, func(a, b int) bool {
		return inst.Clients[order[a]].PolarAngle < inst.Clients[order[b]].PolarAngle
	})

	ind := domain.NewEmptyIndividual(n, inst.NbVehicles)
	copy(ind.GiantTour, order)

	threshold := inst.VehicleCapacity * fillPct / 100
	if threshold <= 0 {
		threshold = inst.VehicleCapacity
	}

	route := 0
	load := 0
	ind.Routes[0] = ind.Routes[0][:0]
	for _, c := range order {
		d := inst.Clients[c].Demand
		if load+d > threshold && len(ind.Routes[route]) > 0 && route+1 < inst.NbVehicles {
			route++
			ind.Routes[route] = ind.Routes[route][:0]
			load = 0
		}
		ind.Routes[route] = append(ind.Routes[route], c)
		load += d
	}
	for k := route + 1; k < inst.NbVehicles; k++ {
		ind.Routes[k] = ind.Routes[k][:0]
	}

	ind.EvaluateCompleteCost(inst)
	return ind
}

// ConstructBySeedOrder builds an initial individual with the
// nearest/furthest-seed cheapest-insertion heuristic (spec §4.4's
// NEAREST/FURTHEST/RANDOM seed-order constructions): when useFurthest,
// each route starts from the unassigned client furthest from the depot;
// otherwise clients are taken in a random order and each route starts
// empty. Then repeatedly insert the
// cheapest remaining client at its cheapest feasible position, tolerating
// up to tolCap capacity excess and tolTW time-warp before starting a new
// route.
//
// bestNodeIdx below is only read after being set inside the same loop
// iteration that discovered a feasible candidate; it is guarded by
// bestFound rather than relying on a sentinel value, resolving the
// original's unguarded read of an uninitialized bestNodeIdx when no
// candidate is feasible.
func ConstructBySeedOrder(inst *domain.Instance, tolCap, tolTW int, useFurthest bool) *domain.Individual {
	n := inst.NbClients()
	unassigned := make([]int, n)
	for i := range unassigned {
		unassigned[i] = i + 1
	}
	if useFurthest {
		sort.Slice(unassigned, func(a, b int) bool {
			return inst.Matrix.Get(0, unassigned[a]) > inst.Matrix.Get(0, unassigned[b])
		})
	} else {
		domain.ShuffleInts(inst.RNG, unassigned)
	}

	ind := domain.NewEmptyIndividual(n, inst.NbVehicles)
	remaining := map[int]bool{}
	for _, c := range unassigned {
		remaining[c] = true
	}

	route := 0
	ind.Routes[0] = ind.Routes[0][:0]
	seedPos := 0

	for len(remaining) > 0 {
		if route >= inst.NbVehicles {
			// Ran out of vehicles: dump the rest into the last route and
			// let LocalSearch/penalties sort out feasibility.
			for seedPos < len(unassigned) {
				c := unassigned[seedPos]
				seedPos++
				if remaining[c] {
					ind.Routes[inst.NbVehicles-1] = append(ind.Routes[inst.NbVehicles-1], c)
					delete(remaining, c)
				}
			}
			break
		}

		for seedPos < len(unassigned) && !remaining[unassigned[seedPos]] {
			seedPos++
		}
		if seedPos >= len(unassigned) {
			break
		}
		if useFurthest {
			seed := unassigned[seedPos]
			delete(remaining, seed)
			ind.Routes[route] = append(ind.Routes[route], seed)
		}

		for {
			bestCost := WorstRouteCost
			bestFound := false
			bestClient := -1
			var bestNodeIdx int // position to insert at; only meaningful when bestFound

			load := 0
			for _, c := range ind.Routes[route] {
				load += inst.Clients[c].Demand
			}

			for c := range remaining {
				if load+inst.Clients[c].Demand-inst.VehicleCapacity > tolCap {
					continue
				}
				base := ind.Routes[route]
				for pos := 0; pos <= len(base); pos++ {
					candidate := insertAt(cloneNodes(base), pos, c)
					rs := newRouteState(route)
					rs.nodes = candidate
					clock := 0
					rs.rebuild(inst, &clock)
					if domain.TimeWarpPenaltyCost(rs.fullBlock(), 1) > float64(tolTW) {
						continue
					}
					cost := rs.penalizedCost(inst)
					if cost < bestCost {
						bestCost = cost
						bestFound = true
						bestClient = c
						bestNodeIdx = pos
					}
				}
			}

			if !bestFound {
				break
			}
			ind.Routes[route] = insertAt(cloneNodes(ind.Routes[route]), bestNodeIdx, bestClient)
			delete(remaining, bestClient)
		}

		route++
		if route < inst.NbVehicles {
			ind.Routes[route] = ind.Routes[route][:0]
		}
	}
	for k := route; k < inst.NbVehicles; k++ {
		ind.Routes[k] = ind.Routes[k][:0]
	}

	pos := 0
	for _, r := range ind.Routes {
		for _, c := range r {
			ind.GiantTour[pos] = c
			pos++
		}
	}

	ind.EvaluateCompleteCost(inst)
	return ind
}
