package localsearch

// swapStar tries, for every pair (u in ku, v in kv), removing both and
// reinserting u at its best position in kv and v at its best position in
// ku independently (spec §4.3's SWAP*: cross-route swap not restricted to
// the partner's vacated slot). withTW selects whether the reinsertion
// search is run against the full penalized cost (capacity + distance +
// time-warp) or, when false, a distance/capacity-only estimate (see
// bestInsertion); the move itself is accepted on full penalized cost —
// mirroring
// the reference's cheaper first pass used when Config.SkipSwapStarDist is
// clear and Config.UseSwapStarTW gates the second, TW-aware pass.
func (ls *LocalSearch) swapStar(ku, kv int, withTW bool) bool {
	un := ls.routes[ku].nodes
	vn := ls.routes[kv].nodes
	if len(un) == 0 || len(vn) == 0 {
		return false
	}

	current := ls.routeCost(ku) + ls.routeCost(kv)
	bestDelta := -moveEpsilon
	var bestU, bestV []int
	found := false

	for _, u := range un {
		withoutU := removeAt(cloneNodes(un), indexOf(un, u))
		for _, v := range vn {
			withoutV := removeAt(cloneNodes(vn), indexOf(vn, v))

			uInsCost, uIns := ls.bestInsertion(withoutV, u, ku, withTW)
			vInsCost, vIns := ls.bestInsertion(withoutU, v, kv, withTW)
			_ = uInsCost
			_ = vInsCost

			uRS := newRouteState(kv)
			uRS.nodes = uIns
			tmpClock := ls.clock
			uRS.rebuild(ls.inst, &tmpClock)

			vRS := newRouteState(ku)
			vRS.nodes = vIns
			vRS.rebuild(ls.inst, &tmpClock)

			total := uRS.penalizedCost(ls.inst) + vRS.penalizedCost(ls.inst)
			delta := total - current
			if delta < bestDelta {
				bestDelta = delta
				bestU = vIns // route ku ends up with v inserted
				bestV = uIns // route kv ends up with u inserted
				found = true
			}
		}
	}

	if !found {
		return false
	}
	return ls.evalApply([]int{ku, kv}, [][]int{bestU, bestV})
}

// bestInsertion finds the position in base (a route with client omitted)
// that minimizes that route's penalized cost after inserting client,
// returning the cost and the resulting node list. When withTW is false
// the position is chosen by distance plus capacity penalty only, ignoring
// time warp; swapStar still compares the final pair by full penalizedCost.
func (ls *LocalSearch) bestInsertion(base []int, client, routeIdx int, withTW bool) (float64, []int) {
	bestCost := WorstRouteCost
	var bestNodes []int
	for pos := 0; pos <= len(base); pos++ {
		candidate := insertAt(cloneNodes(base), pos, client)
		rs := newRouteState(routeIdx)
		rs.nodes = candidate
		tmpClock := ls.clock
		rs.rebuild(ls.inst, &tmpClock)
		cost := rs.penalizedCost(ls.inst)
		if !withTW {
			excess := rs.load - ls.inst.VehicleCapacity
			if excess < 0 {
				excess = 0
			}
			cost = float64(rs.distance(ls.inst)) + float64(excess)*ls.inst.PenaltyCapacity
		}
		if cost < bestCost {
			bestCost = cost
			bestNodes = candidate
		}
	}
	return bestCost, bestNodes
}

// WorstRouteCost is a sentinel larger than any real route cost, used to
// seed a running minimum.
const WorstRouteCost = 1e30
