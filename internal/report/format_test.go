package report

import (
	"strings"
	"testing"

	"hgsvrptw/internal/ports"
)

func TestProgressLineFeasibleAndInfeasible(t *testing.T) {
	pr := defaultPrinter()
	line := pr.ProgressLine(ports.ProgressRow{
		Iteration:          1234,
		ElapsedSeconds:     5.5,
		BestFeasibleCost:   987.6,
		BestInfeasibleCost: 500.1,
		FeasiblePopSize:    12,
		InfeasiblePopSize:  8,
		DiversityFeasible:  0.42,
	})
	for _, want := range []string{"It 1,234", "T(s) 5.50", "Feas 12", "Inf 8", "Div 0.42"} {
		if !strings.Contains(line, want) {
			t.Errorf("ProgressLine() = %q, want substring %q", line, want)
		}
	}
}

func TestProgressLineNoFeasible(t *testing.T) {
	pr := defaultPrinter()
	line := pr.ProgressLine(ports.ProgressRow{Iteration: 1, InfeasiblePopSize: 3})
	if !strings.Contains(line, "NO-FEASIBLE") {
		t.Errorf("ProgressLine() = %q, want NO-FEASIBLE", line)
	}
}

func TestSolutionSummary(t *testing.T) {
	pr := defaultPrinter()
	s := pr.SolutionSummary(true, 7, 1523.4, 12.25)
	if !strings.Contains(s, "FEASIBLE") || !strings.Contains(s, "7 routes") {
		t.Errorf("SolutionSummary() = %q", s)
	}
}
