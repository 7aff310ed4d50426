// Package genetic implements the outer hybrid-genetic-search loop of
// spec §4 "Control flow", ported from original_source/Genetic.h and
// src/Genetic.cpp: select parents, crossover (OX and SREX), run
// LocalSearch, insert into Population, adapt penalties, and restart on
// stagnation.
package genetic

import (
	"fmt"
	"io"

	"go.uber.org/atomic"

	"hgsvrptw/internal/config"
	"hgsvrptw/internal/crossover"
	"hgsvrptw/internal/domain"
	"hgsvrptw/internal/localsearch"
	"hgsvrptw/internal/population"
	"hgsvrptw/internal/ports"
	"hgsvrptw/internal/split"
)

// Driver owns the per-run collaborators: the instance, the LocalSearch
// engine, the Splitter, and the Population manager. The search loop
// itself stays single-threaded (spec §5), but nbIter/elapsed and a stop
// request need to be readable from a concurrent progress reporter or
// status endpoint without a data race, hence the atomic fields.
type Driver struct {
	inst *domain.Instance
	ls   *localsearch.LocalSearch
	sp   *split.Splitter
	pop  *population.Population

	nbIter  atomic.Int64
	stopped atomic.Bool
}

func New(inst *domain.Instance) *Driver {
	return &Driver{
		inst: inst,
		ls:   localsearch.New(inst),
		sp:   split.New(inst),
		pop:  population.New(inst),
	}
}

// Iterations returns the number of iterations completed so far. Safe to
// call concurrently with Run.
func (d *Driver) Iterations() int64 { return d.nbIter.Load() }

// ExportPopulationCSV appends the current population's logSolution-format
// rows to w; see Population.ExportPopulationCSV.
func (d *Driver) ExportPopulationCSV(w io.Writer, nbIter int) error {
	return d.pop.ExportPopulationCSV(w, nbIter)
}

// RequestStop asks Run to exit at the start of its next iteration,
// without waiting for the time limit or stagnation to trigger. Safe to
// call concurrently with Run.
func (d *Driver) RequestStop() { d.stopped.Store(true) }

// SeedInitialSolution inserts a caller-supplied giant tour into the
// population before Run generates the rest of the initial individuals,
// mirroring Population.cpp's handling of a non-empty config.initialSolution:
// construct the individual, split it into routes, run it through
// LocalSearch, and add it like any other seed.
func (d *Driver) SeedInitialSolution(tour []int) error {
	if len(tour) != d.inst.NbClients() {
		return fmt.Errorf("seed initial solution: giant tour has %d clients, instance has %d", len(tour), d.inst.NbClients())
	}
	ind := domain.NewEmptyIndividual(d.inst.NbClients(), d.inst.NbVehicles)
	copy(ind.GiantTour, tour)
	if err := d.sp.GeneralSplit(ind, d.inst.NbVehicles); err != nil {
		return err
	}
	d.ls.Run(ind, d.inst.PenaltyCapacity, d.inst.PenaltyTimeWarp)
	d.pop.AddIndividual(ind, true)
	return nil
}

// Run executes the full search: generate the initial population, then
// loop select/crossover/LS/insert/adapt/restart until one of the two
// exit conditions of spec §5 fires (time limit, or nbIter consecutive
// non-improving iterations without DoRepeatUntilTimeLimit).
// DoRepeatUntilTimeLimit only takes effect with a positive TimeLimit;
// with TimeLimit 0 the nbIter stagnation bound always ends the run.
//
// The reference's loop condition is written `nbIterNonProd <= nbIter`;
// this port tests its negation, `nbIterNonProd > nbIter`, to stop or
// restart, so both fire after the same iteration.
// onProgress, when non-nil, is invoked every 500 iterations with a
// progress snapshot (Population::printState's call frequency in
// Genetic.cpp) so the caller can log it and/or persist it via a
// ports.ProgressStore. onLogPool, when non-nil and Cfg.LogPoolInterval is
// positive, is invoked every LogPoolInterval iterations so the caller can
// append a population dump via ExportPopulationCSV
// (Population::exportPopulation's call frequency in Genetic.cpp).
func (d *Driver) Run(onProgress func(iteration int, row ports.ProgressRow), onLogPool func(iteration int)) *domain.Individual {
	d.inst.StartTimer()
	d.pop.GenerateInitialPopulation(d.ls, d.sp)

	nbIter := 0
	nbIterNonProd := 1
	repeat := d.inst.Cfg.DoRepeatUntilTimeLimit && d.inst.Cfg.TimeLimit > 0

	for !d.inst.IsTimeLimitExceeded() && !d.stopped.Load() {
		if !repeat && nbIterNonProd > d.inst.Cfg.NbIter {
			break
		}

		parentA, parentB := d.pop.SelectParents()
		offspring := d.crossoverBest(parentA, parentB)

		d.ls.Run(offspring, d.inst.PenaltyCapacity, d.inst.PenaltyTimeWarp)

		improved := d.pop.AddIndividual(offspring, true)

		if !offspring.IsFeasible && d.inst.RNG.Intn(100) < d.inst.Cfg.RepairProbability {
			savedCap, savedTW := d.inst.PenaltyCapacity, d.inst.PenaltyTimeWarp
			d.inst.PenaltyCapacity *= 10
			d.inst.PenaltyTimeWarp *= 10
			d.ls.Run(offspring, d.inst.PenaltyCapacity, d.inst.PenaltyTimeWarp)
			d.inst.PenaltyCapacity, d.inst.PenaltyTimeWarp = savedCap, savedTW
			if d.pop.AddIndividual(offspring, true) {
				improved = true
			}
		}

		if improved {
			nbIterNonProd = 1
		} else {
			nbIterNonProd++
		}
		nbIter++
		d.nbIter.Store(int64(nbIter))

		if nbIter%100 == 0 {
			d.pop.ManagePenalties()
		}

		if onProgress != nil && nbIter%500 == 0 {
			onProgress(nbIter, d.pop.Snapshot())
		}

		if onLogPool != nil && d.inst.Cfg.LogPoolInterval > 0 && nbIter%d.inst.Cfg.LogPoolInterval == 0 {
			onLogPool(nbIter)
		}

		d.growParametersIfDue(nbIter, nbIterNonProd)

		if repeat && nbIterNonProd > d.inst.Cfg.NbIter {
			d.pop.Restart(d.ls, d.sp)
			nbIterNonProd = 1
		}
	}

	return d.pop.BestFeasible
}

// crossoverBest runs OX and SREX on the same parent pair and keeps
// whichever offspring has the lower penalized cost (spec §4.4 "The
// driver generates OX-best and SREX-best per parent pair and keeps the
// cheaper overall").
func (d *Driver) crossoverBest(parentA, parentB *domain.Individual) *domain.Individual {
	ox := crossover.OX(d.inst, d.sp, parentA, parentB)
	srex := crossover.SREX(d.inst, parentA, parentB)
	if srex.Cost.PenalizedCost < ox.Cost.PenalizedCost {
		return srex
	}
	return ox
}

// growParametersIfDue implements spec §4.5's dynamic-parameter growth:
// after a configured number of (non-improving) iterations, widen the
// granular neighbor list and/or the minimum population size.
func (d *Driver) growParametersIfDue(nbIter, nbIterNonProd int) {
	cfg := &d.inst.Cfg
	if !cfg.UseDynamicParameters {
		return
	}
	if cfg.GrowNbGranularAfterIterations > 0 && nbIter%cfg.GrowNbGranularAfterIterations == 0 {
		d.inst.GrowNbGranular(cfg.GrowNbGranularSize)
	}
	if cfg.GrowNbGranularAfterNonImprovingIterations > 0 && nbIterNonProd%cfg.GrowNbGranularAfterNonImprovingIterations == 0 {
		d.inst.GrowNbGranular(cfg.GrowNbGranularSize)
	}
	if cfg.GrowPopulationAfterIterations > 0 && nbIter%cfg.GrowPopulationAfterIterations == 0 {
		growMinimumPopulationSize(cfg, cfg.GrowPopulationSize)
	}
	if cfg.GrowPopulationAfterNonImprovingIterations > 0 && nbIterNonProd%cfg.GrowPopulationAfterNonImprovingIterations == 0 {
		growMinimumPopulationSize(cfg, cfg.GrowPopulationSize)
	}
}

// growMinimumPopulationSize grows MinimumPopulationSize unboundedly, as
// the reference does — the original leaves this growth uncapped, and
// spec §9 leaves capping it as an open question. This port preserves the
// reference behavior rather than inventing a cap, and documents the
// resulting memory-growth risk in DESIGN.md rather than silently fixing
// it: a run with growth enabled for long enough will use increasing
// memory for ever-larger generations.
func growMinimumPopulationSize(cfg *config.Config, extra int) {
	cfg.MinimumPopulationSize += extra
}
