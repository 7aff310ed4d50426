package crossover

import (
	"hgsvrptw/internal/domain"
)

// SREX implements Selective Route Exchange (spec §4.4): pick contiguous
// blocks of m routes from each parent, slide them to minimize the
// symmetric difference of their client sets, then build two offspring
// variants and keep the cheaper.
func SREX(inst *domain.Instance, parentA, parentB *domain.Individual) *domain.Individual {
	nbRoutes := inst.NbVehicles
	m := 1 + inst.RNG.Intn(nbRoutes)

	sA := inst.RNG.Intn(nbRoutes)
	sB := inst.RNG.Intn(nbRoutes)

	inA, inB := blockMembership(parentA, sA, m, nbRoutes), blockMembership(parentB, sB, m, nbRoutes)
	symDiff := symmetricDifferenceSize(inA, inB, inst.NbClients())

	improved := true
	for improved {
		improved = false
		type shift struct {
			nsA, nsB int
			diff     int
		}
		candidates := []shift{
			{(sA + 1) % nbRoutes, sB, 0},
			{(sA - 1 + nbRoutes) % nbRoutes, sB, 0},
			{sA, (sB + 1) % nbRoutes, 0},
			{sA, (sB - 1 + nbRoutes) % nbRoutes, 0},
		}
		best := -1
		bestDiff := symDiff
		for i := range candidates {
			cA := blockMembership(parentA, candidates[i].nsA, m, nbRoutes)
			cB := blockMembership(parentB, candidates[i].nsB, m, nbRoutes)
			candidates[i].diff = symmetricDifferenceSize(cA, cB, inst.NbClients())
			if candidates[i].diff < bestDiff {
				bestDiff = candidates[i].diff
				best = i
			}
		}
		if best >= 0 {
			sA, sB = candidates[best].nsA, candidates[best].nsB
			symDiff = bestDiff
			inA = blockMembership(parentA, sA, m, nbRoutes)
			inB = blockMembership(parentB, sB, m, nbRoutes)
			improved = true
		}
	}

	off1 := buildSREXOffspring(inst, parentA, parentB, sA, sB, m, false)
	off2 := buildSREXOffspring(inst, parentA, parentB, sA, sB, m, true)

	if off2.Cost.PenalizedCost < off1.Cost.PenalizedCost {
		return off2
	}
	return off1
}

// blockMembership returns a boolean set (indexed by client id) of every
// client in the m routes of ind starting at route start (circular).
func blockMembership(ind *domain.Individual, start, m, nbRoutes int) map[int]bool {
	set := map[int]bool{}
	for i := 0; i < m; i++ {
		r := (start + i) % nbRoutes
		for _, c := range ind.Routes[r] {
			set[c] = true
		}
	}
	return set
}

func symmetricDifferenceSize(a, b map[int]bool, nbClients int) int {
	diff := 0
	for c := 1; c <= nbClients; c++ {
		if a[c] != b[c] {
			diff++
		}
	}
	return diff
}

// buildSREXOffspring builds one of the two SREX offspring variants
// (spec §4.4): both replace parentA's selected block of routes with
// parentB's selected routes; keepOnlyCommon controls whether the inserted
// routes additionally drop clients unique to B's block (variant 2) or
// keep them verbatim, deduplicating against the retained A-routes
// (variant 1). Afterwards, every client in A_set\B_set is reinserted via
// cheapest insertion with a TW-feasibility prefilter.
func buildSREXOffspring(inst *domain.Instance, parentA, parentB *domain.Individual, sA, sB, m int, keepOnlyCommon bool) *domain.Individual {
	nbRoutes := inst.NbVehicles
	n := inst.NbClients()

	aBlock := blockMembership(parentA, sA, m, nbRoutes)
	bBlock := blockMembership(parentB, sB, m, nbRoutes)

	off := domain.NewEmptyIndividual(n, nbRoutes)
	blockRoutes := map[int]bool{}
	for i := 0; i < m; i++ {
		blockRoutes[(sA+i)%nbRoutes] = true
	}

	// Retained A-routes (outside the block): in variant 1, drop any client
	// that also appears in B's block, since it will arrive via the
	// replacement; variant 2 keeps these routes intact.
	for r := 0; r < nbRoutes; r++ {
		if blockRoutes[r] {
			continue
		}
		kept := make([]int, 0, len(parentA.Routes[r]))
		for _, c := range parentA.Routes[r] {
			if keepOnlyCommon || !bBlock[c] {
				kept = append(kept, c)
			}
		}
		off.Routes[r] = kept
	}

	// Replacement routes: parentB's block, optionally stripped of
	// clients unique to B's block (variant 2 keeps only B_set ∩ A_set).
	for i := 0; i < m; i++ {
		src := (sB + i) % nbRoutes
		dst := (sA + i) % nbRoutes
		var route []int
		for _, c := range parentB.Routes[src] {
			if keepOnlyCommon && !aBlock[c] {
				continue
			}
			route = append(route, c)
		}
		off.Routes[dst] = route
	}

	placed := map[int]bool{}
	for _, r := range off.Routes {
		for _, c := range r {
			placed[c] = true
		}
	}

	// A_set \ B_set: clients that must be reinserted somewhere.
	var toInsert []int
	for c := range aBlock {
		if !bBlock[c] && !placed[c] {
			toInsert = append(toInsert, c)
		}
	}

	for _, c := range toInsert {
		insertCheapest(inst, off, c)
		placed[c] = true
	}

	pos := 0
	for _, r := range off.Routes {
		for _, c := range r {
			off.GiantTour[pos] = c
			pos++
		}
	}
	for pos < n {
		for c := 1; c <= n; c++ {
			if !placed[c] {
				off.GiantTour[pos] = c
				placed[c] = true
				pos++
				break
			}
		}
	}

	off.EvaluateCompleteCost(inst)
	return off
}

// insertCheapest inserts client into whichever (route, position) in ind
// has the lowest travel-distance delta among candidates that pass a
// coarse TW-feasibility prefilter (earliest arrival at the inserted
// position must be before the latest arrival of the following node),
// falling back to the globally cheapest position if none pass.
func insertCheapest(inst *domain.Instance, ind *domain.Individual, client int) {
	cl := inst.Clients[client]
	bestDelta := 1 << 60
	bestFeasibleDelta := 1 << 60
	bestRoute, bestPos := 0, 0
	bestFeasibleRoute, bestFeasiblePos := -1, -1

	for r, route := range ind.Routes {
		for pos := 0; pos <= len(route); pos++ {
			prev, next := 0, 0
			if pos > 0 {
				prev = route[pos-1]
			}
			if pos < len(route) {
				next = route[pos]
			}
			delta := inst.Matrix.Get(prev, client) + inst.Matrix.Get(client, next) - inst.Matrix.Get(prev, next)
			if delta < bestDelta {
				bestDelta = delta
				bestRoute, bestPos = r, pos
			}

			earliestAtClient := inst.Clients[prev].EarliestArrival + inst.Matrix.Get(prev, client)
			if earliestAtClient < cl.EarliestArrival {
				earliestAtClient = cl.EarliestArrival
			}
			if earliestAtClient < inst.Clients[next].LatestArrival && delta < bestFeasibleDelta {
				bestFeasibleDelta = delta
				bestFeasibleRoute, bestFeasiblePos = r, pos
			}
		}
	}

	r, pos := bestRoute, bestPos
	if bestFeasibleRoute >= 0 {
		r, pos = bestFeasibleRoute, bestFeasiblePos
	}
	route := ind.Routes[r]
	out := make([]int, 0, len(route)+1)
	out = append(out, route[:pos]...)
	out = append(out, client)
	out = append(out, route[pos:]...)
	ind.Routes[r] = out
}
