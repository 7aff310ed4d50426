package localsearch

import (
	"hgsvrptw/internal/domain"
)

// routeState is the intrusive per-route cache spec §3 describes: an
// ordered client list plus prefix/postfix TW blocks, total load/duration,
// and a circle sector, all rebuilt in one pass whenever the route changes
// (the "updateRouteData rebuilds the whole caches for a touched route"
// alternative spec §9 explicitly sanctions in place of true per-4-node
// seed pointers).
type routeState struct {
	idx   int
	nodes []int // client ids, depot implicit at both ends

	load int

	// prefix[i] is the TW block covering depot-start .. nodes[i-1]
	// (prefix[0] is the empty depot-start sentinel). suffix[i] is the
	// block covering nodes[i] .. depot-end (suffix[len(nodes)] is the
	// empty depot-end sentinel). Both are indexed so that
	// prefix[i] ⊕ node(i) ⊕ suffix[i+1] reconstructs the whole route.
	prefix []domain.TimeWindowData
	suffix []domain.TimeWindowData

	sector domain.CircleSector

	whenLastModified int
}

func newRouteState(idx int) *routeState {
	return &routeState{idx: idx}
}

// depotSentinel is the zero-duration, zero-timewarp block representing
// "nothing yet" at a route end — the identity element of ⊕ for this
// route's purposes (its EarliestArrival/LatestArrival span the full
// horizon so merging with it never introduces spurious constraints).
func depotSentinel(inst *domain.Instance) domain.TimeWindowData {
	depot := inst.Clients[0]
	return domain.TimeWindowData{
		FirstNodeIndex:    0,
		LastNodeIndex:     0,
		Duration:          0,
		TimeWarp:          0,
		EarliestArrival:   depot.EarliestArrival,
		LatestArrival:     depot.LatestArrival,
		LatestReleaseTime: 0,
	}
}

// rebuild recomputes load, prefix/postfix TW arrays, and the circle sector
// from scratch given the current nodes slice. Called once per move
// application on every route it touched.
func (rs *routeState) rebuild(inst *domain.Instance, clock *int) {
	n := len(rs.nodes)
	rs.prefix = make([]domain.TimeWindowData, n+1)
	rs.suffix = make([]domain.TimeWindowData, n+1)

	sentinel := depotSentinel(inst)
	rs.prefix[0] = sentinel
	rs.load = 0
	rs.sector.Reset()

	for i, c := range rs.nodes {
		cl := inst.Clients[c]
		rs.load += cl.Demand
		rs.sector.Add(int(cl.PolarAngle * (65536.0 / (2 * 3.14159265358979323846))))

		block := domain.ClientTimeWindowData(cl)
		travel := 0
		if i == 0 {
			travel = inst.Matrix.Get(0, c)
		} else {
			travel = inst.Matrix.Get(rs.nodes[i-1], c)
		}
		rs.prefix[i+1] = domain.MergeTimeWindows(rs.prefix[i], block, travel)
	}
	if n > 0 {
		rs.sector.Grow(inst.MinCircleSectorSize)
	}

	rs.suffix[n] = sentinel
	for i := n - 1; i >= 0; i-- {
		cl := inst.Clients[rs.nodes[i]]
		block := domain.ClientTimeWindowData(cl)
		travel := 0
		if i == n-1 {
			travel = inst.Matrix.Get(rs.nodes[i], 0)
		} else {
			travel = inst.Matrix.Get(rs.nodes[i], rs.nodes[i+1])
		}
		rs.suffix[i] = domain.MergeTimeWindows(block, rs.suffix[i+1], travel)
	}

	*clock++
	rs.whenLastModified = *clock
}

// fullBlock returns the TW block for the whole route, merging the
// depot-to-first travel into the prefix chain (prefix[len] already is the
// route-to-depot-return-excluded merge; callers that need the final
// depot-return penalty add the last travel leg explicitly, matching
// evaluateCompleteCost's separate handling of the return-to-depot leg).
func (rs *routeState) fullBlock() domain.TimeWindowData {
	return rs.prefix[len(rs.nodes)]
}

// distance returns the route's total travel distance (not including
// penalties), recomputed directly since it's O(route length) regardless
// of caching strategy.
func (rs *routeState) distance(inst *domain.Instance) int {
	if len(rs.nodes) == 0 {
		return 0
	}
	d := inst.Matrix.Get(0, rs.nodes[0])
	for i := 1; i < len(rs.nodes); i++ {
		d += inst.Matrix.Get(rs.nodes[i-1], rs.nodes[i])
	}
	d += inst.Matrix.Get(rs.nodes[len(rs.nodes)-1], 0)
	return d
}

// penalizedCost returns this route's contribution to the solution's
// penalized cost under the given penalties: distance + capacity excess +
// time-warp (and residual release-time warp) penalty. Wait time is
// tracked by evaluateCompleteCost at the Individual level, not here — LS
// moves are evaluated on capacity+timewarp only (spec §4.3).
func (rs *routeState) penalizedCost(inst *domain.Instance) float64 {
	excess := rs.load - inst.VehicleCapacity
	if excess < 0 {
		excess = 0
	}

	// Fold in the final depot-return leg by merging it onto the route's
	// accumulated block, matching evaluateCompleteCost's handling of the
	// return leg, then let TimeWarpPenaltyCost account for both the
	// ordinary time warp and any residual release-time-vs-latest-arrival
	// violation (LocalSearch.h's penaltyTimeWindows).
	returnLeg := 0
	if len(rs.nodes) > 0 {
		returnLeg = inst.Matrix.Get(rs.nodes[len(rs.nodes)-1], 0)
	}
	withReturn := domain.MergeTimeWindows(rs.fullBlock(), depotSentinel(inst), returnLeg)

	return float64(rs.distance(inst)) +
		float64(excess)*inst.PenaltyCapacity +
		domain.TimeWarpPenaltyCost(withReturn, inst.PenaltyTimeWarp)
}
