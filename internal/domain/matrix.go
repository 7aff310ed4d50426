package domain

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Matrix is a flat, row-major travel-time/distance matrix. Storing it as a
// single slice (rather than [][]int) avoids N extra allocations and keeps
// the dominant O(N^2) memory cost contiguous, matching how the original
// HGS-VRPTW reference lays out its own Matrix type.
type Matrix struct {
	cols int
	data []int
}

// NewMatrix allocates a cols x cols matrix, all entries zero.
func NewMatrix(cols int) *Matrix {
	return &Matrix{cols: cols, data: make([]int, cols*cols)}
}

func (m *Matrix) Set(row, col, val int) { m.data[m.cols*row+col] = val }
func (m *Matrix) Get(row, col int) int  { return m.data[m.cols*row+col] }
func (m *Matrix) Size() int             { return m.cols }

// DistanceFunc computes the travel cost between two clients. Implementations
// may be a simple Euclidean rounding or an explicit lookup parsed from an
// instance file's EDGE_WEIGHT_SECTION.
type DistanceFunc func(a, b Client) int

// BuildMatrix fills an N+1 x N+1 matrix (clients 0..N, depot at 0) by
// evaluating dist for every ordered pair, parallelized by row with a bounded
// worker pool. Row i only reads clients[i] and writes into its own matrix
// row, so rows are independent and need no synchronization beyond the
// shared read-only clients slice.
//
// Concurrency here is the one place outside the synchronous genetic loop
// the implementation parallelizes: building the matrix once up front never
// interacts with the single-threaded search invariant in §5.
func BuildMatrix(ctx context.Context, clients []Client, dist DistanceFunc) (*Matrix, error) {
	n := len(clients)
	m := NewMatrix(n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxMatrixWorkers())

	for i := range clients {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for j := range clients {
				m.Set(i, j, dist(clients[i], clients[j]))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build matrix: %w", err)
	}
	return m, nil
}

func maxMatrixWorkers() int {
	return 8
}
