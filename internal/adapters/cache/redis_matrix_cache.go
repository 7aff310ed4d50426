package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"hgsvrptw/internal/domain"
	"hgsvrptw/internal/platform/obs"
	"hgsvrptw/internal/ports"
)

// RedisMatrixCache is the cross-run warm cache of the full N x N
// travel-time matrix (SPEC_FULL DOMAIN STACK), keyed by the Fingerprint of
// an instance's shape, so repeated solves of the same instance skip
// BuildMatrix. Values are stored as a flat little-endian int32 array
// behind a single key — simple and fast enough for the matrix sizes this
// algorithm targets (a few thousand clients at most).
type RedisMatrixCache struct {
	rdb *redis.Client
	ttl int64 // seconds; 0 means no expiry
}

func NewRedisMatrixCache(rdb *redis.Client) *RedisMatrixCache {
	return &RedisMatrixCache{rdb: rdb}
}

const matrixCacheKeyPrefix = "hgsvrptw:matrix:"

// Get returns the cached matrix for fingerprint, or ok=false on a cache miss.
func (c *RedisMatrixCache) Get(ctx context.Context, fingerprint string) (_ *domain.Matrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.Get")(&err)

	if c.rdb == nil {
		return nil, false, errors.New("matrix cache: redis client is nil")
	}
	raw, err := c.rdb.Get(ctx, matrixCacheKeyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("matrix cache: get fingerprint=%q: %w", fingerprint, err)
	}

	m, err := decodeMatrix(raw)
	if err != nil {
		return nil, false, fmt.Errorf("matrix cache: get fingerprint=%q: %w", fingerprint, err)
	}
	return m, true, nil
}

// Put stores matrix under fingerprint.
func (c *RedisMatrixCache) Put(ctx context.Context, fingerprint string, matrix *domain.Matrix) (err error) {
	defer obs.Time(ctx, "matrix.cache.Put")(&err)

	if c.rdb == nil {
		return errors.New("matrix cache: redis client is nil")
	}
	raw := encodeMatrix(matrix)
	if err := c.rdb.Set(ctx, matrixCacheKeyPrefix+fingerprint, raw, 0).Err(); err != nil {
		return fmt.Errorf("matrix cache: put fingerprint=%q: %w", fingerprint, err)
	}
	return nil
}

// encodeMatrix serializes a Matrix as [cols int32][cols*cols int32 cells],
// little-endian.
func encodeMatrix(m *domain.Matrix) []byte {
	n := m.Size()
	buf := make([]byte, 4+4*n*n)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(n))
	off := 4
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			binary.LittleEndian.PutUint32(buf[off:off+4], uint32(int32(m.Get(i, j))))
			off += 4
		}
	}
	return buf
}

func decodeMatrix(raw []byte) (*domain.Matrix, error) {
	if len(raw) < 4 {
		return nil, fmt.Errorf("decode matrix: truncated header (%d bytes)", len(raw))
	}
	n := int(binary.LittleEndian.Uint32(raw[0:4]))
	want := 4 + 4*n*n
	if len(raw) != want {
		return nil, fmt.Errorf("decode matrix: expected %d bytes for %dx%d matrix, got %d", want, n, n, len(raw))
	}
	m := domain.NewMatrix(n)
	off := 4
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, int(int32(binary.LittleEndian.Uint32(raw[off:off+4]))))
			off += 4
		}
	}
	return m, nil
}

var _ ports.MatrixCache = (*RedisMatrixCache)(nil)
