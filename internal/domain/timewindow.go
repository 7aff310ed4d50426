package domain

// TimeWindowData is the associative block merged by LocalSearch's O(1)
// segment-merge operator (spec §3/§4.3): it summarizes an entire
// contiguous sequence of nodes (a single client, a route segment, or a
// whole route) as if it were one super-node.
type TimeWindowData struct {
	FirstNodeIndex    int
	LastNodeIndex     int
	Duration          int
	TimeWarp          int
	EarliestArrival   int
	LatestArrival     int
	LatestReleaseTime int
}

// ClientTimeWindowData builds the trivial one-node TW block for a client,
// the base case every merge chain starts from.
func ClientTimeWindowData(c Client) TimeWindowData {
	return TimeWindowData{
		FirstNodeIndex:    c.Index,
		LastNodeIndex:     c.Index,
		Duration:          c.ServiceDuration,
		TimeWarp:          0,
		EarliestArrival:   c.EarliestArrival,
		LatestArrival:     c.LatestArrival,
		LatestReleaseTime: c.ReleaseTime,
	}
}

// MergeTimeWindows implements the a ⊕ b operator of spec §4.3, merging two
// adjacent TW blocks (a before b) into one in O(1), given the travel time
// between a's last node and b's first node.
//
// This operator is associative: (a ⊕ b) ⊕ c == a ⊕ (b ⊕ c) for
// (duration, timeWarp, earliest, latest).
func MergeTimeWindows(a, b TimeWindowData, travel int) TimeWindowData {
	slack := a.Duration - a.TimeWarp + travel

	extraWait := b.EarliestArrival - slack - a.LatestArrival
	if extraWait < 0 {
		extraWait = 0
	}
	extraWarp := a.EarliestArrival + slack - b.LatestArrival
	if extraWarp < 0 {
		extraWarp = 0
	}

	earliest := b.EarliestArrival - slack
	if a.EarliestArrival > earliest {
		earliest = a.EarliestArrival
	}
	earliest -= extraWait

	latest := b.LatestArrival - slack
	if a.LatestArrival < latest {
		latest = a.LatestArrival
	}
	latest += extraWarp

	latestRelease := a.LatestReleaseTime
	if b.LatestReleaseTime > latestRelease {
		latestRelease = b.LatestReleaseTime
	}

	return TimeWindowData{
		FirstNodeIndex:    a.FirstNodeIndex,
		LastNodeIndex:     b.LastNodeIndex,
		Duration:          a.Duration + b.Duration + travel + extraWait,
		TimeWarp:          a.TimeWarp + b.TimeWarp + extraWarp,
		EarliestArrival:   earliest,
		LatestArrival:     latest,
		LatestReleaseTime: latestRelease,
	}
}

// TimeWarpPenaltyCost computes the time-window penalty contribution of a
// block: time warp plus any residual release-time-vs-latest-arrival
// violation, scaled by the current time-warp penalty (spec §4.3).
func TimeWarpPenaltyCost(twd TimeWindowData, penaltyTW float64) float64 {
	residual := twd.LatestReleaseTime - twd.LatestArrival
	if residual < 0 {
		residual = 0
	}
	return float64(twd.TimeWarp+residual) * penaltyTW
}
