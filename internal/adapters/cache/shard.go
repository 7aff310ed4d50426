package cache

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
)

// ShardRouter rendezvous-hashes client IDs across a configurable number of
// logical cache shards (namespaced Redis key prefixes), so the granular
// neighbor-list cache scales horizontally for large instances without
// resharding when the shard count changes (SPEC_FULL DOMAIN STACK).
type ShardRouter struct {
	rv     *rendezvous.Rendezvous
	shards []string
}

// NewShardRouter builds a router over nbShards logical shards named
// "shard-0".."shard-<n-1>".
func NewShardRouter(nbShards int) (*ShardRouter, error) {
	if nbShards <= 0 {
		return nil, fmt.Errorf("new shard router: nbShards must be > 0, got %d", nbShards)
	}
	shards := make([]string, nbShards)
	for i := range shards {
		shards[i] = "shard-" + strconv.Itoa(i)
	}
	return &ShardRouter{
		rv:     rendezvous.New(shards, xxhash.Sum64String),
		shards: shards,
	}, nil
}

// ShardFor returns the shard name responsible for clientID.
func (sr *ShardRouter) ShardFor(clientID int) string {
	return sr.rv.Lookup(strconv.Itoa(clientID))
}

// KeyFor namespaces a Redis key under clientID's shard prefix.
func (sr *ShardRouter) KeyFor(clientID int, key string) string {
	return sr.ShardFor(clientID) + ":" + key
}
