// Package split implements the exact DP that cuts a giant tour into
// routes minimizing penalized cost (spec §4.2), ported from
// original_source/Split.h and src/Split.cpp: the O(N) linear Split for an
// unlimited fleet (Trivial_Deque + dominates/dominatesRight geometric
// pruning), the O(NK) limited-fleet variant run as K passes of the same
// sweep, and an O(NB) duration-constrained Bellman DP fallback.
package split

import (
	"math"

	"hgsvrptw/internal/domain"
)

const epsilon = 1e-4

// clientSplit mirrors ClientSplit in Split.h: per-position cached data
// about the giant tour, indexed 1..N (position 0 unused, matching the
// reference's 1-based convention so the DP code reads the same way).
type clientSplit struct {
	demand      int
	serviceTime int
	d0x         int // depot -> this client
	dx0         int // this client -> depot
	dnext       int // this client -> next client in the tour (minInt for the last)
}

// Splitter holds the reusable DP scratch space for one Instance, sized
// once at construction (original_source's Split class constructor).
type Splitter struct {
	inst *domain.Instance

	cliSplit   []clientSplit
	sumDist    []int
	sumLoad    []int
	sumService []int

	potential [][]float64
	pred      [][]int

	maxVehicles int
}

func New(inst *domain.Instance) *Splitter {
	n := inst.NbClients()
	s := &Splitter{
		inst:       inst,
		cliSplit:   make([]clientSplit, n+1),
		sumDist:    make([]int, n+1),
		sumLoad:    make([]int, n+1),
		sumService: make([]int, n+1),
	}
	s.potential = make([][]float64, inst.NbVehicles+1)
	s.pred = make([][]int, inst.NbVehicles+1)
	for k := 0; k <= inst.NbVehicles; k++ {
		s.potential[k] = make([]float64, n+1)
		s.pred[k] = make([]int, n+1)
	}
	return s
}

// GeneralSplit decodes ind.GiantTour into ind.Routes, trying the unlimited
// fleet split first and falling back to the limited-fleet variant only if
// that fails or uses more than nbMaxVehicles routes (spec §4.2). It then
// calls EvaluateCompleteCost to fill in Cost/Predecessor/Successor.
func (s *Splitter) GeneralSplit(ind *domain.Individual, nbMaxVehicles int) error {
	n := s.inst.NbClients()

	minVehicles := (s.inst.TotalDemand + s.inst.VehicleCapacity - 1) / s.inst.VehicleCapacity
	s.maxVehicles = nbMaxVehicles
	if minVehicles > s.maxVehicles {
		s.maxVehicles = minVehicles
	}

	for i := 1; i <= n; i++ {
		cl := s.inst.Clients[ind.GiantTour[i-1]]
		s.cliSplit[i].demand = cl.Demand
		s.cliSplit[i].serviceTime = cl.ServiceDuration
		s.cliSplit[i].d0x = s.inst.Matrix.Get(0, ind.GiantTour[i-1])
		s.cliSplit[i].dx0 = s.inst.Matrix.Get(ind.GiantTour[i-1], 0)

		if i < n {
			s.cliSplit[i].dnext = s.inst.Matrix.Get(ind.GiantTour[i-1], ind.GiantTour[i])
		} else {
			s.cliSplit[i].dnext = math.MinInt32
		}

		s.sumLoad[i] = s.sumLoad[i-1] + s.cliSplit[i].demand
		s.sumService[i] = s.sumService[i-1] + s.cliSplit[i].serviceTime
		s.sumDist[i] = s.sumDist[i-1] + s.cliSplit[i-1].dnext
	}

	ok, err := s.splitSimple(ind)
	if err != nil {
		return err
	}
	if !ok {
		if err := s.splitLF(ind); err != nil {
			return err
		}
	}

	ind.EvaluateCompleteCost(s.inst)
	return nil
}

// propagate computes the cost of extending the partial solution that ends
// with predecessor i (for vehicle count k) up through client j.
func (s *Splitter) propagate(i, j, k int) float64 {
	load := s.sumLoad[j] - s.sumLoad[i] - s.inst.VehicleCapacity
	if load < 0 {
		load = 0
	}
	return s.potential[k][i] + float64(s.sumDist[j]-s.sumDist[i+1]) +
		float64(s.cliSplit[i+1].d0x) + float64(s.cliSplit[j].dx0) +
		s.inst.PenaltyCapacity*float64(load)
}

// dominates tests whether i dominates j as a predecessor for every node
// x >= j+1 (i < j assumed), per Split.h's inline dominates().
func (s *Splitter) dominates(i, j, k int) bool {
	loadDiff := s.sumLoad[j] - s.sumLoad[i]
	lhs := s.potential[k][j] + float64(s.cliSplit[j+1].d0x)
	rhs := s.potential[k][i] + float64(s.cliSplit[i+1].d0x) +
		float64(s.sumDist[j+1]-s.sumDist[i+1]) +
		s.inst.PenaltyCapacity*float64(loadDiff)
	return lhs > rhs
}

// dominatesRight tests whether j dominates i as a predecessor for every
// node x >= j+1 (i < j assumed), per Split.h's inline dominatesRight().
func (s *Splitter) dominatesRight(i, j, k int) bool {
	lhs := s.potential[k][j] + float64(s.cliSplit[j+1].d0x)
	rhs := s.potential[k][i] + float64(s.cliSplit[i+1].d0x) +
		float64(s.sumDist[j+1]-s.sumDist[i+1])
	return lhs < rhs+epsilon
}

// deque is Trivial_Deque from Split.h: a fixed-capacity ring used as the
// monotone deque driving the O(N) sweep.
type deque struct {
	buf   []int
	front int
	back  int
}

func newDeque(capacity, first int) *deque {
	d := &deque{buf: make([]int, capacity)}
	d.buf[0] = first
	return d
}
func (d *deque) reset(first int) { d.buf[0] = first; d.front, d.back = 0, 0 }
func (d *deque) size() int       { return d.back - d.front + 1 }
func (d *deque) popFront()       { d.front++ }
func (d *deque) popBack()        { d.back-- }
func (d *deque) pushBack(v int)  { d.back++; d.buf[d.back] = v }
func (d *deque) front_() int     { return d.buf[d.front] }
func (d *deque) nextFront() int  { return d.buf[d.front+1] }
func (d *deque) back_() int      { return d.buf[d.back] }

// splitSimple runs the unlimited-fleet Split (Split::splitSimple): the
// O(NB) duration-constrained Bellman DP when the instance has a duration
// limit, or the O(N) linear-deque sweep otherwise. Returns true iff the
// DP propagated all the way back to position 0 (a complete decomposition
// was found), matching the original's int-as-bool return.
func (s *Splitter) splitSimple(ind *domain.Individual) (bool, error) {
	n := s.inst.NbClients()
	s.potential[0][0] = 0
	for i := 1; i <= n; i++ {
		s.potential[0][i] = 1e30
	}

	if s.inst.IsDurationConstraint {
		for i := 0; i < n; i++ {
			load, distance := 0, 0
			for j := i + 1; j <= n && float64(load) <= 1.5*float64(s.inst.VehicleCapacity); j++ {
				load += s.cliSplit[j].demand
				if j == i+1 {
					distance += s.cliSplit[j].d0x
				} else {
					distance += s.cliSplit[j-1].dnext
				}
				excess := load - s.inst.VehicleCapacity
				if excess < 0 {
					excess = 0
				}
				cost := float64(distance) + float64(s.cliSplit[j].dx0) + s.inst.PenaltyCapacity*float64(excess)
				if s.potential[0][i]+cost < s.potential[0][j] {
					s.potential[0][j] = s.potential[0][i] + cost
					s.pred[0][j] = i
				}
			}
		}
	} else {
		q := newDeque(n+1, 0)
		for i := 1; i <= n; i++ {
			s.potential[0][i] = s.propagate(q.front_(), i, 0)
			s.pred[0][i] = q.front_()

			if i < n {
				if !s.dominates(q.back_(), i, 0) {
					for q.size() > 0 && s.dominatesRight(q.back_(), i, 0) {
						q.popBack()
					}
					q.pushBack(i)
				}
				for q.size() > 1 && s.propagate(q.front_(), i+1, 0) > s.propagate(q.nextFront(), i+1, 0)-epsilon {
					q.popFront()
				}
			}
		}
	}

	if s.potential[0][n] > 1e29 {
		return false, nil
	}

	for k := s.inst.NbVehicles - 1; k >= s.maxVehicles; k-- {
		ind.Routes[k] = ind.Routes[k][:0]
	}

	end := n
	for k := s.maxVehicles - 1; k >= 0; k-- {
		ind.Routes[k] = ind.Routes[k][:0]
		begin := s.pred[0][end]
		for ii := begin; ii < end; ii++ {
			ind.Routes[k] = append(ind.Routes[k], ind.GiantTour[ii])
		}
		end = begin
	}

	return end == 0, nil
}

// splitLF runs the limited-fleet Split (Split::splitLF), trying every
// vehicle count k up to maxVehicles in layers, then picking whichever k
// gave the cheapest complete decomposition (spec §4.2: "may use fewer
// vehicles than K").
func (s *Splitter) splitLF(ind *domain.Individual) error {
	n := s.inst.NbClients()
	for k := 0; k <= s.maxVehicles; k++ {
		for i := 1; i <= n; i++ {
			s.potential[k][i] = 1e30
		}
	}
	s.potential[0][0] = 0

	if s.inst.IsDurationConstraint {
		for k := 0; k < s.maxVehicles; k++ {
			for i := k; i < n && s.potential[k][i] < 1e29; i++ {
				load, distance := 0, 0
				for j := i + 1; j <= n && float64(load) <= 1.5*float64(s.inst.VehicleCapacity); j++ {
					load += s.cliSplit[j].demand
					if j == i+1 {
						distance += s.cliSplit[j].d0x
					} else {
						distance += s.cliSplit[j-1].dnext
					}
					excess := load - s.inst.VehicleCapacity
					if excess < 0 {
						excess = 0
					}
					cost := float64(distance) + float64(s.cliSplit[j].dx0) + s.inst.PenaltyCapacity*float64(excess)
					if s.potential[k][i]+cost < s.potential[k+1][j] {
						s.potential[k+1][j] = s.potential[k][i] + cost
						s.pred[k+1][j] = i
					}
				}
			}
		}
	} else {
		q := newDeque(n+1, 0)
		for k := 0; k < s.maxVehicles; k++ {
			q.reset(k)
			for i := k + 1; i <= n && q.size() > 0; i++ {
				s.potential[k+1][i] = s.propagate(q.front_(), i, k)
				s.pred[k+1][i] = q.front_()

				if i < n {
					if !s.dominates(q.back_(), i, k) {
						for q.size() > 0 && s.dominatesRight(q.back_(), i, k) {
							q.popBack()
						}
						q.pushBack(i)
					}
					for q.size() > 1 && s.propagate(q.front_(), i+1, k) > s.propagate(q.nextFront(), i+1, k)-epsilon {
						q.popFront()
					}
				}
			}
		}
	}

	if s.potential[s.maxVehicles][n] > 1e29 {
		return domain.ErrSplitInfeasible
	}

	minCost := s.potential[s.maxVehicles][n]
	nbRoutes := s.maxVehicles
	for k := 1; k < s.maxVehicles; k++ {
		if s.potential[k][n] < minCost {
			minCost = s.potential[k][n]
			nbRoutes = k
		}
	}

	for k := s.inst.NbVehicles - 1; k >= nbRoutes; k-- {
		ind.Routes[k] = ind.Routes[k][:0]
	}

	end := n
	for k := nbRoutes - 1; k >= 0; k-- {
		ind.Routes[k] = ind.Routes[k][:0]
		begin := s.pred[k+1][end]
		for ii := begin; ii < end; ii++ {
			ind.Routes[k] = append(ind.Routes[k], ind.GiantTour[ii])
		}
		end = begin
	}

	return nil
}
