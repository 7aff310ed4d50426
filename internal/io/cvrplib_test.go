package io

import (
	"path/filepath"
	"testing"

	"hgsvrptw/internal/domain"
)

func TestWriteThenReadCVRPLibSolution(t *testing.T) {
	ind := &domain.Individual{
		Routes: [][]int{
			{4, 7, 2, 9},
			{5, 1, 6, 3, 8},
			{},
		},
		Cost: domain.CostSol{PenalizedCost: 1234.9},
	}

	path := filepath.Join(t.TempDir(), "solution.sol")
	if err := WriteCVRPLibSolution(path, ind, 12.5); err != nil {
		t.Fatalf("WriteCVRPLibSolution: %v", err)
	}

	routes, cost, err := ReadCVRPLibSolution(path)
	if err != nil {
		t.Fatalf("ReadCVRPLibSolution: %v", err)
	}
	if cost != 1234 {
		t.Errorf("cost = %v, want 1234 (truncated)", cost)
	}
	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2 (empty route must be omitted)", len(routes))
	}
	want := [][]int{{4, 7, 2, 9}, {5, 1, 6, 3, 8}}
	for i, r := range routes {
		if len(r) != len(want[i]) {
			t.Fatalf("route %d = %v, want %v", i, r, want[i])
		}
		for j, c := range r {
			if c != want[i][j] {
				t.Errorf("route %d client %d = %d, want %d", i, j, c, want[i][j])
			}
		}
	}
}

func TestParseInitialGiantTour(t *testing.T) {
	tour, err := ParseInitialGiantTour("0 3 1 4 0 2 5 0")
	if err != nil {
		t.Fatalf("ParseInitialGiantTour: %v", err)
	}
	want := []int{3, 1, 4, 2, 5}
	if len(tour) != len(want) {
		t.Fatalf("tour = %v, want %v", tour, want)
	}
	for i, c := range tour {
		if c != want[i] {
			t.Errorf("tour[%d] = %d, want %d", i, c, want[i])
		}
	}
}
