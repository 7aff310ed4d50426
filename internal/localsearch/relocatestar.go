package localsearch

// relocateStar tries, for every client in route ku, every insertion
// position in route kv, and vice versa, applying whichever single
// relocation improves the pair's total penalized cost the most (spec
// §4.3's "RelocateStar: best single-node relocation across a route
// pair"). Only one relocation is applied per call; the outer descent in
// Run calls it repeatedly until no more improve.
func (ls *LocalSearch) relocateStar(ku, kv int) bool {
	if len(ls.routes[ku].nodes) == 0 && len(ls.routes[kv].nodes) == 0 {
		return false
	}

	bestDelta := -moveEpsilon
	var bestFrom, bestTo []int
	var bestSrcK, bestDstK int
	found := false

	tryDirection := func(srcK, dstK int) {
		srcNodes := ls.routes[srcK].nodes
		if len(srcNodes) == 0 {
			return
		}
		current := ls.routeCost(srcK) + ls.routeCost(dstK)

		for _, c := range srcNodes {
			withoutC := removeAt(cloneNodes(srcNodes), indexOf(srcNodes, c))
			dstBase := ls.routes[dstK].nodes

			for pos := 0; pos <= len(dstBase); pos++ {
				candidateDst := insertAt(cloneNodes(dstBase), pos, c)

				srcRS := newRouteState(srcK)
				srcRS.nodes = withoutC
				tmpClock := ls.clock
				srcRS.rebuild(ls.inst, &tmpClock)

				dstRS := newRouteState(dstK)
				dstRS.nodes = candidateDst
				dstRS.rebuild(ls.inst, &tmpClock)

				total := srcRS.penalizedCost(ls.inst) + dstRS.penalizedCost(ls.inst)
				delta := total - current
				if delta < bestDelta {
					bestDelta = delta
					bestFrom = withoutC
					bestTo = candidateDst
					bestSrcK, bestDstK = srcK, dstK
					found = true
				}
			}
		}
	}

	tryDirection(ku, kv)
	tryDirection(kv, ku)

	if !found {
		return false
	}
	return ls.evalApply([]int{bestSrcK, bestDstK}, [][]int{bestFrom, bestTo})
}
