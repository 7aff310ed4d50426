// Package population implements the two-subpopulation manager of spec
// §4.5, ported from original_source/Population.h and src/Population.cpp:
// biased fitness ranking, proximity-based diversity, penalty adaptation,
// eviction, binary-tournament parent selection, and restart.
package population

import (
	"fmt"
	"io"
	"sort"

	"hgsvrptw/internal/domain"
	"hgsvrptw/internal/localsearch"
	"hgsvrptw/internal/ports"
)

// Population holds the feasible and infeasible subpopulations plus the
// sliding feasibility windows managePenalties reads.
type Population struct {
	inst *domain.Instance

	Feasible   []*domain.Individual
	Infeasible []*domain.Individual

	BestFeasible *domain.Individual

	// loadFeasWindow/twFeasWindow are the "two sliding booleans of length
	// 100" spec §4.5 describes, tracking the last 100 LS outputs' load-
	// and TW-feasibility.
	loadFeasWindow []bool
	twFeasWindow   []bool
	windowPos      int
	windowFilled   int
}

const feasibilityWindowSize = 100

func New(inst *domain.Instance) *Population {
	return &Population{
		inst:           inst,
		loadFeasWindow: make([]bool, feasibilityWindowSize),
		twFeasWindow:   make([]bool, feasibilityWindowSize),
	}
}

// GenerateInitialPopulation creates 4*minimumPopulationSize seed
// individuals split across nearest-seed, furthest-seed, sweep and random
// construction by the FractionGeneratedNearest/Furthest/Sweep shares (the
// remainder is random), each run through LocalSearch, and inserted
// according to their feasibility (spec §4.5 "Initial generation").
func (p *Population) GenerateInitialPopulation(ls *localsearch.LocalSearch, sp splitter) {
	total := 4 * p.inst.Cfg.MinimumPopulationSize
	nbNearest := int(p.inst.Cfg.FractionGeneratedNearest * float64(total))
	nbFurthest := nbNearest + int(p.inst.Cfg.FractionGeneratedFurthest*float64(total))
	nbSweep := nbFurthest + int(p.inst.Cfg.FractionGeneratedSweep*float64(total))
	for i := 0; i < total; i++ {
		var ind *domain.Individual
		switch {
		case i < nbNearest:
			ind = localsearch.ConstructBySeedOrder(p.inst, p.inst.Cfg.MaxToleratedCapacityViolation, p.inst.Cfg.MaxToleratedTimeWarp, false)
		case i < nbFurthest:
			ind = localsearch.ConstructBySeedOrder(p.inst, p.inst.Cfg.MaxToleratedCapacityViolation, p.inst.Cfg.MaxToleratedTimeWarp, true)
		case i < nbSweep:
			ind = localsearch.ConstructBySweep(p.inst, p.inst.Cfg.MinSweepFillPercentage)
		default:
			ind = domain.NewEmptyIndividual(p.inst.NbClients(), p.inst.NbVehicles)
			ind.ShuffleGiantTour(p.inst.RNG)
			sp.GeneralSplit(ind, p.inst.NbVehicles)
		}

		ls.Run(ind, p.inst.PenaltyCapacity, p.inst.PenaltyTimeWarp)
		p.AddIndividual(ind, true)
	}
}

// splitter is the subset of *split.Splitter used here, expressed as an
// interface to avoid an import cycle (split does not need to know about
// population).
type splitter interface {
	GeneralSplit(ind *domain.Individual, nbMaxVehicles int) error
}

// AddIndividual inserts ind into the feasible or infeasible subpopulation
// per its IsFeasible flag, updates proximity relations and (when
// updateFeasWindow) the sliding feasibility windows, and returns true iff
// it strictly improves BestFeasible.
func (p *Population) AddIndividual(ind *domain.Individual, updateFeasWindow bool) bool {
	clone := ind.Clone()

	if updateFeasWindow {
		loadOK := clone.Cost.CapacityExcess == 0
		twOK := clone.Cost.TimeWarp == 0
		p.loadFeasWindow[p.windowPos] = loadOK
		p.twFeasWindow[p.windowPos] = twOK
		p.windowPos = (p.windowPos + 1) % feasibilityWindowSize
		if p.windowFilled < feasibilityWindowSize {
			p.windowFilled++
		}
	}

	var target *[]*domain.Individual
	if clone.IsFeasible {
		target = &p.Feasible
	} else {
		target = &p.Infeasible
	}

	for _, other := range *target {
		d := clone.BrokenPairsDistance(other, p.inst.NbClients())
		clone.Proximity = insertProximitySorted(clone.Proximity, domain.ProximityEntry{Distance: d, Other: other})
		other.Proximity = insertProximitySorted(other.Proximity, domain.ProximityEntry{Distance: d, Other: clone})
	}

	*target = append(*target, clone)
	sort.SliceStable(*target, func(i, j int) bool {
		return (*target)[i].Cost.PenalizedCost < (*target)[j].Cost.PenalizedCost
	})

	maxSize := p.inst.Cfg.MinimumPopulationSize + p.inst.Cfg.GenerationSize
	for len(*target) > maxSize {
		p.removeWorstBiasedFitness(target)
	}

	improved := false
	if clone.IsFeasible {
		if p.BestFeasible == nil || clone.Cost.PenalizedCost < p.BestFeasible.Cost.PenalizedCost-1e-9 {
			p.BestFeasible = clone
			improved = true
		}
	}
	return improved
}

func insertProximitySorted(list []domain.ProximityEntry, e domain.ProximityEntry) []domain.ProximityEntry {
	i := sort.Search(len(list), func(i int) bool { return list[i].Distance >= e.Distance })
	list = append(list, domain.ProximityEntry{})
	copy(list[i+1:], list[i:])
	list[i] = e
	return list
}

// removeFromProximity deletes every entry referencing victim (scanned by
// identity, matching spec §5's "scan by identity" requirement since
// distance alone doesn't uniquely key an entry).
func removeFromProximity(list []domain.ProximityEntry, victim *domain.Individual) []domain.ProximityEntry {
	out := list[:0]
	for _, e := range list {
		if e.Other != victim {
			out = append(out, e)
		}
	}
	return out
}

// removeWorstBiasedFitness evicts the worst non-best member of target:
// prefer clones (closest proximity distance == 0), then the largest
// biased fitness.
func (p *Population) removeWorstBiasedFitness(target *[]*domain.Individual) {
	p.updateBiasedFitness(*target)

	victim := -1
	for i := 1; i < len(*target); i++ {
		ind := (*target)[i]
		isClone := len(ind.Proximity) > 0 && ind.Proximity[0].Distance < 1e-9
		if isClone {
			victim = i
			break
		}
	}
	if victim == -1 {
		worstFitness := -1.0
		for i := 1; i < len(*target); i++ {
			if (*target)[i].BiasedFitness > worstFitness {
				worstFitness = (*target)[i].BiasedFitness
				victim = i
			}
		}
	}
	if victim == -1 {
		return
	}

	dead := (*target)[victim]
	*target = append((*target)[:victim], (*target)[victim+1:]...)
	for _, ind := range p.Feasible {
		ind.Proximity = removeFromProximity(ind.Proximity, dead)
	}
	for _, ind := range p.Infeasible {
		ind.Proximity = removeFromProximity(ind.Proximity, dead)
	}
}

// updateBiasedFitness assigns BiasedFitness to every member of pop per
// spec §4.5: cost rank ascending plus w * diversity rank descending.
func (p *Population) updateBiasedFitness(pop []*domain.Individual) {
	n := len(pop)
	if n == 0 {
		return
	}
	if n == 1 {
		pop[0].BiasedFitness = 0
		return
	}

	byCost := append([]*domain.Individual(nil), pop...)
	sort.SliceStable(byCost, func(i, j int) bool { return byCost[i].Cost.PenalizedCost < byCost[j].Cost.PenalizedCost })
	costRank := map[*domain.Individual]int{}
	for i, ind := range byCost {
		costRank[ind] = i
	}

	byDiv := append([]*domain.Individual(nil), pop...)
	avgDist := map[*domain.Individual]float64{}
	for _, ind := range byDiv {
		avgDist[ind] = ind.AverageBrokenPairsDistanceClosest(p.inst.Cfg.NbClose)
	}
	sort.SliceStable(byDiv, func(i, j int) bool { return avgDist[byDiv[i]] > avgDist[byDiv[j]] })
	divRank := map[*domain.Individual]int{}
	for i, ind := range byDiv {
		divRank[ind] = i
	}

	w := 0.0
	if n <= p.inst.Cfg.NbElite {
		w = 0
	} else if p.inst.Cfg.DiversityWeight > 0 {
		w = p.inst.Cfg.DiversityWeight
	} else {
		w = 1.0 - float64(p.inst.Cfg.NbElite)/float64(n)
		if w < 0 {
			w = 0
		}
	}

	for _, ind := range pop {
		rCost := float64(costRank[ind]) / float64(n-1)
		rDiv := float64(divRank[ind]) / float64(n-1)
		ind.BiasedFitness = rCost + w*rDiv
	}
}

// selectParent runs one binary tournament over the union of both
// subpopulations by biased fitness (spec §4.5 "Parent selection").
func (p *Population) selectParent() *domain.Individual {
	all := p.allIndividuals()
	p.updateBiasedFitness(p.Feasible)
	p.updateBiasedFitness(p.Infeasible)

	a := all[p.inst.RNG.Intn(len(all))]
	b := all[p.inst.RNG.Intn(len(all))]
	if a.BiasedFitness < b.BiasedFitness {
		return a
	}
	return b
}

// SelectParents returns a non-identical (by broken-pairs distance) parent
// pair, retrying the second pick up to 10 times if the first attempt
// coincides.
func (p *Population) SelectParents() (*domain.Individual, *domain.Individual) {
	first := p.selectParent()
	second := p.selectParent()
	for i := 0; i < 10; i++ {
		if first.BrokenPairsDistance(second, p.inst.NbClients()) > 1e-9 {
			break
		}
		second = p.selectParent()
	}
	return first, second
}

// Snapshot summarizes the current subpopulations for progress logging,
// mirroring Population::printState's "Feas %d %.2f %.2f | Inf %d %.2f %.2f
// | Div %.2f" line (best cost and diversity, minus the average-cost figure
// this port's report package doesn't surface separately).
func (p *Population) Snapshot() ports.ProgressRow {
	row := ports.ProgressRow{
		FeasiblePopSize:   len(p.Feasible),
		InfeasiblePopSize: len(p.Infeasible),
	}
	if len(p.Feasible) > 0 {
		row.BestFeasibleCost = p.Feasible[0].Cost.PenalizedCost
	}
	if len(p.Infeasible) > 0 {
		row.BestInfeasibleCost = p.Infeasible[0].Cost.PenalizedCost
	}
	row.DiversityFeasible = averageDiversity(p.Feasible, p.inst.Cfg.NbClose)
	return row
}

func averageDiversity(pop []*domain.Individual, nbClose int) float64 {
	if len(pop) == 0 {
		return 0
	}
	total := 0.0
	for _, ind := range pop {
		total += ind.AverageBrokenPairsDistanceClosest(nbClose)
	}
	return total / float64(len(pop))
}

func (p *Population) allIndividuals() []*domain.Individual {
	all := make([]*domain.Individual, 0, len(p.Feasible)+len(p.Infeasible))
	all = append(all, p.Feasible...)
	all = append(all, p.Infeasible...)
	return all
}

// ManagePenalties adjusts the capacity and time-warp penalties from the
// sliding feasibility windows and, after adjustment, recomputes and
// re-sorts the infeasible subpopulation (spec §4.5).
func (p *Population) ManagePenalties() {
	if p.windowFilled == 0 {
		return
	}
	fracLoad := fraction(p.loadFeasWindow, p.windowFilled)
	fracTW := fraction(p.twFeasWindow, p.windowFilled)

	p.inst.PenaltyCapacity = adjustPenalty(p.inst.PenaltyCapacity, fracLoad, p.inst.Cfg.TargetFeasible, p.inst.Cfg.PenaltyBooster)
	p.inst.PenaltyTimeWarp = adjustPenalty(p.inst.PenaltyTimeWarp, fracTW, p.inst.Cfg.TargetFeasible, p.inst.Cfg.PenaltyBooster)

	for _, ind := range p.Infeasible {
		ind.EvaluateCompleteCost(p.inst)
	}
	sort.SliceStable(p.Infeasible, func(i, j int) bool {
		return p.Infeasible[i].Cost.PenalizedCost < p.Infeasible[j].Cost.PenalizedCost
	})
}

func fraction(window []bool, filled int) float64 {
	trueCount := 0
	for i := 0; i < filled; i++ {
		if window[i] {
			trueCount++
		}
	}
	return float64(trueCount) / float64(filled)
}

func adjustPenalty(penalty, frac, target, booster float64) float64 {
	if frac <= 0.01 {
		return domain.ClampPenaltyFloat(penalty * booster)
	}
	if frac < target-0.05 {
		return domain.ClampPenaltyFloat(penalty * 1.2)
	}
	if frac > target+0.05 {
		return domain.ClampPenaltyFloat(penalty * 0.85)
	}
	return domain.ClampPenaltyFloat(penalty)
}

// Restart clears both subpopulations and BestFeasible, resets the
// time-warp penalty to its initial value, and regenerates the initial
// generation (spec §4.5 "Restart").
func (p *Population) Restart(ls *localsearch.LocalSearch, sp splitter) {
	p.Feasible = nil
	p.Infeasible = nil
	p.BestFeasible = nil
	p.inst.PenaltyTimeWarp = p.inst.Cfg.InitialTimeWarpPenalty
	p.GenerateInitialPopulation(ls, sp)
}

// ExportPopulationCSV appends one line per individual in both
// subpopulations to w, in the format of Population::logSolution:
// iteration;feasible;nbRoutes;penalizedCost;distance;capacityExcess;
// timeWarp, followed directly by every non-empty route as space-prefixed
// client ids closed by " 0" (no semicolons between routes).
func (p *Population) ExportPopulationCSV(w io.Writer, nbIter int) error {
	for _, ind := range p.Feasible {
		if err := logSolutionCSV(w, nbIter, ind); err != nil {
			return err
		}
	}
	for _, ind := range p.Infeasible {
		if err := logSolutionCSV(w, nbIter, ind); err != nil {
			return err
		}
	}
	return nil
}

func logSolutionCSV(w io.Writer, nbIter int, ind *domain.Individual) error {
	feasible := 0
	if ind.IsFeasible {
		feasible = 1
	}
	if _, err := fmt.Fprintf(w, "%d;%d;%d;%g;%d;%d;%d", nbIter, feasible,
		ind.Cost.NbRoutes, ind.Cost.PenalizedCost, ind.Cost.Distance,
		ind.Cost.CapacityExcess, ind.Cost.TimeWarp); err != nil {
		return err
	}
	for _, route := range ind.Routes {
		if len(route) == 0 {
			continue
		}
		for _, c := range route {
			if _, err := fmt.Fprintf(w, " %d", c); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, " 0"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}
