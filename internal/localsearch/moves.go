package localsearch

const moveEpsilon = 1e-4

// cloneNodes returns a defensive copy of a route's client list, for
// building move candidates without mutating live state until a move is
// accepted.
func cloneNodes(nodes []int) []int { return append([]int(nil), nodes...) }

// removeAt deletes the element at position pos from nodes, returning the
// shortened slice.
func removeAt(nodes []int, pos int) []int {
	return append(nodes[:pos:pos], nodes[pos+1:]...)
}

// insertAt inserts client at position pos in nodes.
func insertAt(nodes []int, pos, client int) []int {
	out := make([]int, 0, len(nodes)+1)
	out = append(out, nodes[:pos]...)
	out = append(out, client)
	out = append(out, nodes[pos:]...)
	return out
}

// indexOf returns the position of client in nodes, or -1.
func indexOf(nodes []int, client int) int {
	for i, c := range nodes {
		if c == client {
			return i
		}
	}
	return -1
}

// evalApply builds candidate node lists for the given route indices
// (same order as routeIdxs), rebuilds temporary routeState copies to
// compute their penalized cost, and — if the candidates' total cost is
// strictly less than the current total cost of those routes — applies
// the candidates to the live state and returns true.
func (ls *LocalSearch) evalApply(routeIdxs []int, candidates [][]int) bool {
	current := 0.0
	for _, k := range routeIdxs {
		current += ls.routeCost(k)
	}

	tmpClock := ls.clock
	candidateCost := 0.0
	tmp := make([]*routeState, len(routeIdxs))
	for i, k := range routeIdxs {
		rs := newRouteState(k)
		rs.nodes = candidates[i]
		rs.rebuild(ls.inst, &tmpClock)
		tmp[i] = rs
		candidateCost += rs.penalizedCost(ls.inst)
	}

	if candidateCost >= current-moveEpsilon {
		return false
	}

	for i, k := range routeIdxs {
		ls.routes[k] = tmp[i]
		ls.clock++
		for pos, c := range tmp[i].nodes {
			ls.routeOf[c] = k
			ls.positionOf[c] = pos
		}
	}
	return true
}

// tryRIMoves attempts, in the fixed order of spec §4.3's move table, every
// RI move pairing focal node u with candidate v; applies and returns true
// on the first strict improvement.
func (ls *LocalSearch) tryRIMoves(u, v int) bool {
	ku, pu := ls.routeOf[u], ls.positionOf[u]
	kv, pv := ls.routeOf[v], ls.positionOf[v]

	if ls.moveSingleClient(u, ku, pu, v, kv, pv) {
		return true
	}
	if ls.moveTwoClients(u, ku, pu, v, kv, pv, false) {
		return true
	}
	if ls.moveTwoClients(u, ku, pu, v, kv, pv, true) {
		return true
	}
	if ls.swapTwoSingleClients(u, ku, pu, v, kv, pv) {
		return true
	}
	if ls.swapTwoClientsForOne(u, ku, pu, v, kv, pv) {
		return true
	}
	if ls.swapTwoClientPairs(u, ku, pu, v, kv, pv) {
		return true
	}
	if ku == kv {
		if ls.twoOptWithinTrip(ku, pu, pv) {
			return true
		}
	} else {
		if ls.twoOptBetweenTrips(u, ku, pu, v, kv, pv) {
			return true
		}
	}
	return false
}

// moveSingleClient: remove u, reinsert after v (and, symmetrically,
// before v — covering the "insert at route start" case of spec §4.3).
func (ls *LocalSearch) moveSingleClient(u, ku, pu, v, kv, pv int) bool {
	if u == v {
		return false
	}

	tryInsert := func(after bool) bool {
		srcNodes := cloneNodes(ls.routes[ku].nodes)
		upos := indexOf(srcNodes, u)
		srcNodes = removeAt(srcNodes, upos)

		if ku == kv {
			dstNodes := srcNodes
			vpos := indexOf(dstNodes, v)
			ins := vpos
			if after {
				ins = vpos + 1
			}
			dstNodes = insertAt(dstNodes, ins, u)
			return ls.evalApply([]int{ku}, [][]int{dstNodes})
		}

		dstNodes := cloneNodes(ls.routes[kv].nodes)
		vpos := indexOf(dstNodes, v)
		ins := vpos
		if after {
			ins = vpos + 1
		}
		dstNodes = insertAt(dstNodes, ins, u)
		return ls.evalApply([]int{ku, kv}, [][]int{srcNodes, dstNodes})
	}

	if tryInsert(true) {
		return true
	}
	return tryInsert(false)
}

// moveTwoClients: remove (u, x=succ(u)), reinsert as (u,x) or (x,u) after
// v, per reversed.
func (ls *LocalSearch) moveTwoClients(u, ku, pu, v, kv, pv int, reversed bool) bool {
	if pu+1 >= len(ls.routes[ku].nodes) {
		return false
	}
	x := ls.routes[ku].nodes[pu+1]
	if x == v || u == v {
		return false
	}

	srcNodes := cloneNodes(ls.routes[ku].nodes)
	upos := indexOf(srcNodes, u)
	srcNodes = removeAt(srcNodes, upos) // removes u
	xpos := indexOf(srcNodes, x)
	srcNodes = removeAt(srcNodes, xpos) // removes x

	pair := []int{u, x}
	if reversed {
		pair = []int{x, u}
	}

	if ku == kv {
		dstNodes := srcNodes
		vpos := indexOf(dstNodes, v)
		out := append([]int(nil), dstNodes[:vpos+1]...)
		out = append(out, pair...)
		out = append(out, dstNodes[vpos+1:]...)
		return ls.evalApply([]int{ku}, [][]int{out})
	}

	dstNodes := cloneNodes(ls.routes[kv].nodes)
	vpos := indexOf(dstNodes, v)
	out := append([]int(nil), dstNodes[:vpos+1]...)
	out = append(out, pair...)
	out = append(out, dstNodes[vpos+1:]...)
	return ls.evalApply([]int{ku, kv}, [][]int{srcNodes, out})
}

// swapTwoSingleClients: swap u and v's positions (possibly across routes).
func (ls *LocalSearch) swapTwoSingleClients(u, ku, pu, v, kv, pv int) bool {
	if u == v {
		return false
	}
	if ku == kv {
		nodes := cloneNodes(ls.routes[ku].nodes)
		nodes[pu], nodes[pv] = nodes[pv], nodes[pu]
		return ls.evalApply([]int{ku}, [][]int{nodes})
	}
	un := cloneNodes(ls.routes[ku].nodes)
	vn := cloneNodes(ls.routes[kv].nodes)
	un[pu] = v
	vn[pv] = u
	return ls.evalApply([]int{ku, kv}, [][]int{un, vn})
}

// swapTwoClientsForOne: swap (u, x=succ(u)) for v.
func (ls *LocalSearch) swapTwoClientsForOne(u, ku, pu, v, kv, pv int) bool {
	if pu+1 >= len(ls.routes[ku].nodes) {
		return false
	}
	x := ls.routes[ku].nodes[pu+1]
	if x == v || u == v || ku == kv {
		return false
	}

	un := cloneNodes(ls.routes[ku].nodes)
	xpos := indexOf(un, x)
	un = removeAt(un, xpos)
	upos := indexOf(un, u)
	un[upos] = v

	vn := cloneNodes(ls.routes[kv].nodes)
	vpos := indexOf(vn, v)
	vn[vpos] = u
	vn = insertAt(vn, vpos+1, x)

	return ls.evalApply([]int{ku, kv}, [][]int{un, vn})
}

// swapTwoClientPairs: swap (u,x) for (v,y), x=succ(u), y=succ(v).
func (ls *LocalSearch) swapTwoClientPairs(u, ku, pu, v, kv, pv int) bool {
	if ku == kv {
		return false
	}
	if pu+1 >= len(ls.routes[ku].nodes) || pv+1 >= len(ls.routes[kv].nodes) {
		return false
	}
	x := ls.routes[ku].nodes[pu+1]
	y := ls.routes[kv].nodes[pv+1]
	if x == v || y == u {
		return false
	}

	un := cloneNodes(ls.routes[ku].nodes)
	un[pu], un[pu+1] = v, y

	vn := cloneNodes(ls.routes[kv].nodes)
	vn[pv], vn[pv+1] = u, x

	return ls.evalApply([]int{ku, kv}, [][]int{un, vn})
}

// twoOptWithinTrip: reverse the segment strictly between positions pu and
// pv (inclusive of the endpoints' successors), i.e. reverse nodes[min+1 :
// max+1] the way spec §4.3's "reverse segment X..V" describes.
func (ls *LocalSearch) twoOptWithinTrip(k, pu, pv int) bool {
	if pu == pv {
		return false
	}
	lo, hi := pu, pv
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo+1 > hi {
		return false
	}

	nodes := cloneNodes(ls.routes[k].nodes)
	seg := nodes[lo+1 : hi+1]
	for i, j := 0, len(seg)-1; i < j; i, j = i+1, j-1 {
		seg[i], seg[j] = seg[j], seg[i]
	}
	return ls.evalApply([]int{k}, [][]int{nodes})
}

// twoOptBetweenTrips: replace arcs (U,X) and (V,Y) with (U,Y) and (V,X),
// swapping the two routes' suffixes after U and V respectively.
func (ls *LocalSearch) twoOptBetweenTrips(u, ku, pu, v, kv, pv int) bool {
	unodes := ls.routes[ku].nodes
	vnodes := ls.routes[kv].nodes

	uPrefix := cloneNodes(unodes[:pu+1])
	uSuffix := cloneNodes(unodes[pu+1:])
	vPrefix := cloneNodes(vnodes[:pv+1])
	vSuffix := cloneNodes(vnodes[pv+1:])

	newU := append(uPrefix, vSuffix...)
	newV := append(vPrefix, uSuffix...)

	return ls.evalApply([]int{ku, kv}, [][]int{newU, newV})
}
