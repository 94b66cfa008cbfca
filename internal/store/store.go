// Package store implements the sharded, in-memory keyspace: a fixed set
// of Shards, each independently locked, addressed by a stable hash of the
// key.
package store

import (
	"errors"
	"hash/fnv"
	"sync"
	"time"
)

// Store owns a fixed vector of shards. ShardFor is a pure function of
// the key, so once S is chosen at construction it never changes.
type Store struct {
	shards []*Shard
}

// New builds a Store with n shards. n must be at least 1; unlike the
// teacher's own ShardedMapStorage, n need not be a power of two -- the
// data model only requires shard_for(k) = stable_hash(k) mod S for some
// fixed S >= 1.
func New(n int) (*Store, error) {
	if n < 1 {
		return nil, errors.New("store: shard count must be at least 1")
	}

	s := &Store{shards: make([]*Shard, n)}
	for i := range s.shards {
		s.shards[i] = newShard()
	}
	return s, nil
}

// ShardCount returns the number of shards this Store was built with.
func (s *Store) ShardCount() int { return len(s.shards) }

// ShardFor resolves the shard owning key, by a stable hash of its bytes
// modulo the shard count.
func (s *Store) ShardFor(key string) *Shard {
	return s.shards[shardIndex(key, len(s.shards))]
}

func shardIndex(key string, n int) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum64() % uint64(n))
}

// SweepAll asks every shard to evict its currently-expired keys. Shards
// are swept concurrently since each guards only its own lock; the pass
// is best-effort and safe to run alongside lazy eviction from readers.
func (s *Store) SweepAll(now time.Time) {
	var wg sync.WaitGroup
	wg.Add(len(s.shards))
	for _, sh := range s.shards {
		go func(sh *Shard) {
			defer wg.Done()
			sh.Sweep(now)
		}(sh)
	}
	wg.Wait()
}
