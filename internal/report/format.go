// Package report formats the human-readable progress line and final
// solution summary printed by cmd/hgsvrptw, grounded on
// original_source/.../Population.cpp's "It %6d %6d | T(s) ..." printf
// line and main.cpp's "----- ..." banner lines. Numbers are formatted
// through golang.org/x/text/message so large iteration counts and costs
// render with locale-correct grouping instead of raw fmt.Sprintf.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"hgsvrptw/internal/ports"
)

// Printer wraps a message.Printer for the run's chosen locale. A nil
// *Printer formats with language.English; use NewPrinter to build one.
type Printer struct {
	p *message.Printer
}

func NewPrinter(tag language.Tag) *Printer {
	return &Printer{p: message.NewPrinter(tag)}
}

func defaultPrinter() *Printer {
	return NewPrinter(language.English)
}

// ProgressLine renders one search-progress row the way
// Population::printState does: iteration counters, elapsed time, the
// feasible and infeasible subpopulation summaries, and diversity.
func (pr *Printer) ProgressLine(row ports.ProgressRow) string {
	if pr == nil {
		pr = defaultPrinter()
	}
	var b strings.Builder
	pr.p.Fprintf(&b, "It %d | T(s) %.2f", row.Iteration, row.ElapsedSeconds)
	if row.FeasiblePopSize > 0 {
		pr.p.Fprintf(&b, " | Feas %d %.2f", row.FeasiblePopSize, row.BestFeasibleCost)
	} else {
		b.WriteString(" | NO-FEASIBLE")
	}
	if row.InfeasiblePopSize > 0 {
		pr.p.Fprintf(&b, " | Inf %d %.2f", row.InfeasiblePopSize, row.BestInfeasibleCost)
	} else {
		b.WriteString(" | NO-INFEASIBLE")
	}
	pr.p.Fprintf(&b, " | Div %.2f", row.DiversityFeasible)
	return b.String()
}

// InstanceLoadedBanner mirrors main.cpp's "INSTANCE LOADED WITH ..." line.
func (pr *Printer) InstanceLoadedBanner(nbClients, nbVehicles int) string {
	if pr == nil {
		pr = defaultPrinter()
	}
	return pr.p.Sprintf("----- INSTANCE LOADED WITH %d CLIENTS AND %d VEHICLES", nbClients, nbVehicles)
}

// FinishedBanner mirrors main.cpp's "GENETIC ALGORITHM FINISHED, TIME
// SPENT: ..." line.
func (pr *Printer) FinishedBanner(elapsedSeconds float64) string {
	if pr == nil {
		pr = defaultPrinter()
	}
	return pr.p.Sprintf("----- GENETIC ALGORITHM FINISHED, TIME SPENT: %.2f", elapsedSeconds)
}

// SolutionSummary renders the final best-feasible/best-infeasible result
// for the console, separate from the CVRPLib file internal/io writes.
func (pr *Printer) SolutionSummary(feasible bool, nbRoutes int, cost float64, elapsedSeconds float64) string {
	if pr == nil {
		pr = defaultPrinter()
	}
	status := "INFEASIBLE"
	if feasible {
		status = "FEASIBLE"
	}
	return pr.p.Sprintf("----- BEST SOLUTION: %s, %d routes, cost %.2f, found after %.2fs", status, nbRoutes, cost, elapsedSeconds)
}

// BKSUpdate mirrors Population.cpp's "NEW BKS: ..." announcement.
func BKSUpdate(instanceName string, cost float64) string {
	return fmt.Sprintf("----- NEW BKS for %s: %.2f !!!", instanceName, cost)
}
