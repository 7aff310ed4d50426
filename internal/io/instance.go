// Package io parses VRPTW instance files (Solomon-style and TSPLIB-style,
// spec §6 "Instance input") and reads/writes solutions in CVRPLib format.
// It is the caller-side collaborator spec §1 treats as external to the
// algorithmic core: domain.Instance never reads a file itself.
package io

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"hgsvrptw/internal/config"
	"hgsvrptw/internal/domain"
	"hgsvrptw/internal/ports"
)

// rawClient mirrors original_source's Client struct while a file is being
// parsed, before coordinates are scaled and the instance is validated.
type rawClient struct {
	custNum         int
	x, y            float64
	demand          int
	earliest        int
	latest          int
	service         int
	releaseTime     int
}

// parsedInstance holds everything Params' constructor extracts from a file
// before BuildMatrix/BuildNeighborLists run.
type parsedInstance struct {
	clients              []rawClient
	explicitMatrix       [][]int
	isExplicitMatrix     bool
	isDurationConstraint bool
	durationLimit        int
	vehicleCapacity      int
	nbVehiclesInFile      int // math.MaxInt32 if unspecified
}

// MatrixCacheLookup is the pair of hooks ReadInstance needs from an
// adapters/cache.RedisMatrixCache without importing the adapters package
// directly (keeping io a plain caller-side collaborator per spec §1):
// Fingerprint derives the cache key from the parsed clients, and Cache is
// the store itself.
type MatrixCacheLookup struct {
	Fingerprint func(clients []domain.Client, vehicleCapacity, nbVehicles int) string
	Cache       ports.MatrixCache
}

// ReadInstance opens path, sniffs whether it's Solomon-style (second
// content line starts with "VEHICLE") or TSPLIB-style, parses accordingly,
// builds the travel-time matrix and granular neighbor lists, and returns a
// ready-to-run *domain.Instance (spec §6). When cache is non-nil and the
// file did not carry an explicit distance matrix, a warm matrix is fetched
// from it instead of recomputing BuildMatrix, and a freshly built one is
// stored back for the next run.
func ReadInstance(ctx context.Context, path string, cfg config.Config, cache *MatrixCacheLookup) (*domain.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read instance: open %q: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	lines := make([]string, 0, 4096)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read instance: scan %q: %w", path, err)
	}

	var pi *parsedInstance
	if len(lines) >= 3 && strings.HasPrefix(strings.TrimSpace(lines[2]), "VEHICLE") {
		pi, err = parseSolomon(lines)
	} else {
		pi, err = parseTSPLIB(lines)
	}
	if err != nil {
		return nil, fmt.Errorf("read instance: %q: %w", path, err)
	}

	if err := validateScale(pi); err != nil {
		return nil, fmt.Errorf("read instance: %q: %w", path, err)
	}

	clients := toDomainClients(pi)

	var matrix *domain.Matrix
	switch {
	case pi.isExplicitMatrix:
		n := len(pi.explicitMatrix)
		matrix = domain.NewMatrix(n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				matrix.Set(i, j, pi.explicitMatrix[i][j])
			}
		}
	case cache != nil:
		fp := cache.Fingerprint(clients, pi.vehicleCapacity, pi.nbVehiclesInFile)
		if cached, ok, cacheErr := cache.Cache.Get(ctx, fp); cacheErr == nil && ok {
			matrix = cached
		} else {
			matrix, err = domain.BuildMatrix(ctx, clients, euclideanDistance)
			if err != nil {
				return nil, fmt.Errorf("read instance: %q: %w", path, err)
			}
			if putErr := cache.Cache.Put(ctx, fp, matrix); putErr != nil {
				return nil, fmt.Errorf("read instance: %q: warm matrix cache: %w", path, putErr)
			}
		}
	default:
		matrix, err = domain.BuildMatrix(ctx, clients, euclideanDistance)
		if err != nil {
			return nil, fmt.Errorf("read instance: %q: %w", path, err)
		}
	}

	// A fleet size fixed on the command line always wins; otherwise fall
	// back to whatever the instance file specified (Solomon's NUMBER
	// field or TSPLIB's VEHICLES/SALESMAN keyword), matching Params.cpp's
	// "only override from the file when nbVehicles == INT_MAX" rule.
	if cfg.NbVeh <= 0 && pi.nbVehiclesInFile != math.MaxInt32 {
		cfg.NbVeh = pi.nbVehiclesInFile
	}

	inst, err := domain.NewInstance(cfg, clients, matrix, pi.vehicleCapacity)
	if err != nil {
		return nil, fmt.Errorf("read instance: %q: %w", path, err)
	}
	inst.IsDurationConstraint = pi.isDurationConstraint
	inst.DurationLimit = pi.durationLimit
	inst.BuildNeighborLists()

	return inst, nil
}

// FileInstanceSource adapts ReadInstance to ports.InstanceSource, so
// cmd/hgsvrptw can depend on the port instead of this package's free
// function directly.
type FileInstanceSource struct {
	Cfg   config.Config
	Cache *MatrixCacheLookup
}

func (s FileInstanceSource) Read(ctx context.Context, path string) (*domain.Instance, error) {
	return ReadInstance(ctx, path, s.Cfg, s.Cache)
}

var _ ports.InstanceSource = FileInstanceSource{}

// euclideanDistance truncates to an integer, matching Params.cpp's
// `static_cast<int>(d)` on the rounded (x10-scaled) coordinates.
func euclideanDistance(a, b domain.Client) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return int(math.Sqrt(dx*dx + dy*dy))
}

func toDomainClients(pi *parsedInstance) []domain.Client {
	clients := make([]domain.Client, len(pi.clients))
	depotX, depotY := pi.clients[0].x, pi.clients[0].y
	for i, rc := range pi.clients {
		angle := 0.0
		if i != 0 {
			angle = math.Atan2(rc.y-depotY, rc.x-depotX)
		}
		clients[i] = domain.Client{
			Index:           i,
			X:               rc.x,
			Y:               rc.y,
			Demand:          rc.demand,
			ServiceDuration: rc.service,
			EarliestArrival: rc.earliest,
			LatestArrival:   rc.latest,
			ReleaseTime:     rc.releaseTime,
			PolarAngle:      angle,
		}
	}
	return clients
}

// validateScale enforces spec §6's exit-code condition that distance and
// demand magnitudes stay within [0.1, 100000].
func validateScale(pi *parsedInstance) error {
	maxVal := 0.0
	for _, c := range pi.clients {
		for _, v := range []float64{math.Abs(c.x), math.Abs(c.y), float64(c.demand), float64(c.earliest), float64(c.latest)} {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if maxVal < 0.1 || maxVal > 100000 {
		return fmt.Errorf("numeric scale %g is outside the supported [0.1, 100000] range", maxVal)
	}
	return nil
}
