package domain

// Client describes one node of a VRPTW instance. Index 0 is always the
// depot; clients are numbered 1..N. Coordinates are used only for the
// polar-angle sector pruning in LocalSearch — the actual travel cost comes
// from the Matrix, which may be asymmetric or non-Euclidean.
type Client struct {
	Index           int
	X, Y            float64
	Demand          int
	ServiceDuration int
	EarliestArrival int
	LatestArrival   int
	ReleaseTime     int
	// PolarAngle is the angle (radians, atan2 convention) of this client
	// around the depot, used to build circle sectors and the sweep
	// construction heuristic.
	PolarAngle float64
}

// IsDepot reports whether this client is the depot sentinel.
func (c Client) IsDepot() bool { return c.Index == 0 }
