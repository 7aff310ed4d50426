package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"hgsvrptw/internal/domain"
)

func TestRedisMatrixCacheRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cache := NewRedisMatrixCache(rdb)
	ctx := context.Background()

	m := domain.NewMatrix(3)
	m.Set(0, 1, 10)
	m.Set(1, 2, 20)
	m.Set(2, 0, 30)

	if err := cache.Put(ctx, "fp1", m); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := cache.Get(ctx, "fp1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("Get: expected a cache hit")
	}
	if got.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", got.Size())
	}
	if got.Get(0, 1) != 10 || got.Get(1, 2) != 20 || got.Get(2, 0) != 30 {
		t.Errorf("decoded matrix mismatch: %d %d %d", got.Get(0, 1), got.Get(1, 2), got.Get(2, 0))
	}

	_, ok, err = cache.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get(missing): %v", err)
	}
	if ok {
		t.Errorf("Get(missing): expected a cache miss")
	}
}
