// Package cache holds the cross-run caching adapters: a Redis-backed
// travel-time matrix cache, its xxhash fingerprint key, and a
// rendezvous-hashed shard router for scaling the granular neighbor-list
// cache horizontally (SPEC_FULL DOMAIN STACK).
package cache

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"hgsvrptw/internal/domain"
)

// Fingerprint hashes an instance's shape (client coordinates, demands,
// capacity, fleet size) into a short stable key so repeated solves of the
// same instance can hit MatrixCache instead of recomputing BuildMatrix.
func Fingerprint(clients []domain.Client, vehicleCapacity, nbVehicles int) string {
	h := xxhash.New()
	buf := make([]byte, 0, 64)
	for _, c := range clients {
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, c.X, 'g', -1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, c.Y, 'g', -1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(c.Demand), 10)
		buf = append(buf, ';')
		_, _ = h.Write(buf)
	}
	fmt.Fprintf(h, "|cap=%d|veh=%d", vehicleCapacity, nbVehicles)
	return strconv.FormatUint(h.Sum64(), 16)
}
