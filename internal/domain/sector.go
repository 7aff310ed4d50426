package domain

// CircleSector represents the angular interval (in the [0, 65536) integer
// angle space, into which LocalSearch rescales the radian
// Client.PolarAngle) that covers every client of a route with respect to the
// depot. It is used to prune SWAP*/RelocateStar candidate route pairs: two
// routes whose sectors cannot overlap (within a configured tolerance) have
// no chance of producing an improving cross-route move, so LocalSearch
// skips them.
//
// The reference implementation's CircleSector type was not present in the
// retrieved source tree; this is a from-scratch port of the behavior
// spec.md §4.3/§9 describes (angular interval with an overlap test and a
// positive_mod helper for the wraparound arithmetic), not a line-by-line
// translation of a source file.
type CircleSector struct {
	Start int
	End   int
	// initialized reports whether the sector has ever had a point added.
	// A brand-new (empty) route has no sector; the first point added
	// becomes both Start and End.
	initialized bool
}

const sectorSpace = 65536

// positiveMod normalizes a (possibly negative, possibly >= sectorSpace)
// angle into [0, sectorSpace).
func positiveMod(v int) int {
	v %= sectorSpace
	if v < 0 {
		v += sectorSpace
	}
	return v
}

// Reset clears the sector back to empty.
func (cs *CircleSector) Reset() { *cs = CircleSector{} }

// Add extends the sector, if necessary, to include the given angle. Angles
// are expressed in the [0, sectorSpace) integer space (see
// degreesToSectorUnits; Client.PolarAngle itself is in radians).
func (cs *CircleSector) Add(angle int) {
	angle = positiveMod(angle)
	if !cs.initialized {
		cs.Start, cs.End, cs.initialized = angle, angle, true
		return
	}

	// Extend whichever side requires the smaller additional arc.
	if positiveMod(angle-cs.Start) <= positiveMod(cs.End-cs.Start) {
		return // already covered
	}
	extendForward := positiveMod(angle - cs.End)
	extendBackward := positiveMod(cs.Start - angle)
	if extendForward <= extendBackward {
		cs.End = angle
	} else {
		cs.Start = angle
	}
}

// width returns the angular width of the sector in [0, sectorSpace).
func (cs *CircleSector) width() int {
	if !cs.initialized {
		return 0
	}
	return positiveMod(cs.End - cs.Start)
}

// Grow enlarges a too-small sector symmetrically so that even a
// single-client (zero-width) route has some tolerance, matching the
// minCircleSectorSize config field's effect in the reference (a too-narrow
// sector would otherwise trivially "never overlap" anything).
func (cs *CircleSector) Grow(minSize int) {
	if !cs.initialized {
		return
	}
	if w := cs.width(); w < minSize {
		grow := (minSize - w + 1) / 2
		cs.Start = positiveMod(cs.Start - grow)
		cs.End = positiveMod(cs.End + grow)
	}
}

// Overlap reports whether two sectors overlap within the given tolerance
// (in the same [0, sectorSpace) angle units). Tolerance effectively grows
// both sectors before testing intersection.
func Overlap(a, b CircleSector, tolerance int) bool {
	if !a.initialized || !b.initialized {
		return true // an empty route's sector is treated as covering nothing in particular; never block a move on it
	}
	aStart := positiveMod(a.Start - tolerance)
	aWidth := a.width() + 2*tolerance
	bStart := positiveMod(b.Start - tolerance)
	bWidth := b.width() + 2*tolerance

	if aWidth >= sectorSpace || bWidth >= sectorSpace {
		return true
	}

	// Two arcs on a circle overlap iff either one's start point lies
	// within the other's arc (checked both ways, since containment is not
	// symmetric once widths can differ).
	return positiveMod(bStart-aStart) <= aWidth || positiveMod(aStart-bStart) <= bWidth
}
