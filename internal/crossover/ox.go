// Package crossover implements the two recombination operators of spec
// §4.4, ported from original_source/Genetic.h and src/Genetic.cpp: OX
// (order crossover on the giant tour) and SREX (selective route exchange
// on the decoded routes).
package crossover

import (
	"hgsvrptw/internal/domain"
	"hgsvrptw/internal/split"
)

// OX produces two offspring by order-crossover with the same cut points
// [s, e] and swapped parent roles, decodes each via Split, and returns
// whichever is cheaper by penalized cost.
func OX(inst *domain.Instance, sp *split.Splitter, parentA, parentB *domain.Individual) *domain.Individual {
	n := len(parentA.GiantTour)
	s := inst.RNG.Intn(n)
	e := inst.RNG.Intn(n)
	for e == s {
		e = inst.RNG.Intn(n)
	}

	off1 := doOX(inst, sp, parentA, parentB, s, e)
	off2 := doOX(inst, sp, parentB, parentA, s, e)

	if off2.Cost.PenalizedCost < off1.Cost.PenalizedCost {
		return off2
	}
	return off1
}

// doOX copies primary.GiantTour[s..e] (cyclically) into the offspring,
// then fills the remaining slots in the order they appear in secondary,
// starting at (e+1) mod N, skipping clients already placed.
func doOX(inst *domain.Instance, sp *split.Splitter, primary, secondary *domain.Individual, s, e int) *domain.Individual {
	n := len(primary.GiantTour)
	off := domain.NewEmptyIndividual(n, inst.NbVehicles)

	placed := make([]bool, n+1)
	for i := s; ; i = (i + 1) % n {
		off.GiantTour[i] = primary.GiantTour[i]
		placed[primary.GiantTour[i]] = true
		if i == e {
			break
		}
	}

	writePos := (e + 1) % n
	for k := 0; k < n; k++ {
		readPos := (e + 1 + k) % n
		c := secondary.GiantTour[readPos]
		if placed[c] {
			continue
		}
		off.GiantTour[writePos] = c
		placed[c] = true
		writePos = (writePos + 1) % n
	}

	sp.GeneralSplit(off, inst.NbVehicles)
	return off
}
