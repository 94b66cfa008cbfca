package store

import (
	"sync"
	"time"
)

// Kind identifies the value currently held at a key.
type Kind byte

const (
	// KindNone means the key is absent (or logically expired).
	KindNone Kind = iota
	KindString
	KindHash
)

// Shard is one partition of the keyspace. It owns three maps -- strings,
// hashes and TTL deadlines -- guarded by a single readers-writer lock.
// A key is a member of at most one of strings/hashes at any observable
// moment (invariant 1 in the data model).
type Shard struct {
	mu      sync.RWMutex
	strings map[string][]byte
	hashes  map[string]map[string][]byte
	ttls    map[string]time.Time
}

func newShard() *Shard {
	return &Shard{
		strings: make(map[string][]byte),
		hashes:  make(map[string]map[string][]byte),
		ttls:    make(map[string]time.Time),
	}
}

// isExpiredLocked reports whether k has a deadline that has passed.
// Caller must hold mu (read or write).
func (s *Shard) isExpiredLocked(k string, now time.Time) bool {
	deadline, ok := s.ttls[k]
	return ok && !now.Before(deadline)
}

// evictLocked removes all trace of k from the three maps. Caller must
// hold mu for writing.
func (s *Shard) evictLocked(k string) {
	delete(s.strings, k)
	delete(s.hashes, k)
	delete(s.ttls, k)
}

// Get returns the string at k, lazily evicting it first if expired.
func (s *Shard) Get(k string, now time.Time) (val []byte, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
		return nil, false
	}
	v, ok := s.strings[k]
	return v, ok
}

// Set installs v as a string at k, clearing any existing hash and TTL at
// that key. If k was expired, it is evicted first (which is a no-op on
// the result since Set always installs fresh state).
func (s *Shard) Set(k string, v []byte, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
	}
	s.strings[k] = v
	delete(s.hashes, k)
	delete(s.ttls, k)
}

// Del removes k from all three maps. Returns true iff k was present
// (as a string or a hash) prior to the call.
func (s *Shard) Del(k string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, hadString := s.strings[k]
	_, hadHash := s.hashes[k]
	s.evictLocked(k)
	return hadString || hadHash
}

// SetExpire installs deadline as k's TTL, but only if k currently exists
// as a string or a hash. No-op otherwise.
func (s *Shard) SetExpire(k string, deadline time.Time, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
		return
	}
	_, hasString := s.strings[k]
	_, hasHash := s.hashes[k]
	if hasString || hasHash {
		s.ttls[k] = deadline
	}
}

// TTLMillis reports the remaining TTL in milliseconds: -2 if absent,
// -1 if present without a TTL, else the positive remaining milliseconds.
// A key whose deadline has passed is lazily evicted and reported as -2,
// folding the "elapsed but not yet evicted" state into absence per the
// lazy eviction discipline every other operation follows.
func (s *Shard) TTLMillis(k string, now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
		return -2
	}
	deadline, hasTTL := s.ttls[k]
	_, hasString := s.strings[k]
	_, hasHash := s.hashes[k]
	if !hasString && !hasHash {
		return -2
	}
	if !hasTTL {
		return -1
	}
	ms := deadline.Sub(now).Milliseconds()
	if ms <= 0 {
		s.evictLocked(k)
		return -2
	}
	return ms
}

// ClearExpire erases k's TTL, leaving the key itself untouched. Returns
// true iff a TTL was actually removed.
func (s *Shard) ClearExpire(k string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
		return false
	}
	if _, ok := s.ttls[k]; !ok {
		return false
	}
	delete(s.ttls, k)
	return true
}

// Sweep removes every key whose deadline has passed as of now. Best
// effort: a linear scan of the TTL map is acceptable at the scales this
// server targets, per the design notes; an implementation could instead
// retain a generation-stamped min-heap (as the original reference does)
// to make sweeps O(log n), at the cost of extra bookkeeping on every
// set/clear to invalidate stale heap entries.
func (s *Shard) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, deadline := range s.ttls {
		if !now.Before(deadline) {
			s.evictLocked(k)
		}
	}
}

// TypeOf lazily evicts k if expired and reports its current kind.
func (s *Shard) TypeOf(k string, now time.Time) Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
		return KindNone
	}
	if _, ok := s.strings[k]; ok {
		return KindString
	}
	if _, ok := s.hashes[k]; ok {
		return KindHash
	}
	return KindNone
}

// HSet inserts or overwrites field within the hash at k, creating the
// hash if needed. Returns true iff the field was newly created.
func (s *Shard) HSet(k, field string, value []byte, now time.Time) (created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
	}
	hm, ok := s.hashes[k]
	if !ok {
		hm = make(map[string][]byte)
		s.hashes[k] = hm
	}
	_, existed := hm[field]
	hm[field] = value
	return !existed
}

// HGet returns the value of field within the hash at k.
func (s *Shard) HGet(k, field string, now time.Time) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
		return nil, false
	}
	hm, ok := s.hashes[k]
	if !ok {
		return nil, false
	}
	v, ok := hm[field]
	return v, ok
}

// HDel removes field from the hash at k. If the hash becomes empty the
// hash entry itself is removed. Returns true iff the field was removed.
func (s *Shard) HDel(k, field string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
		return false
	}
	hm, ok := s.hashes[k]
	if !ok {
		return false
	}
	if _, ok := hm[field]; !ok {
		return false
	}
	delete(hm, field)
	if len(hm) == 0 {
		delete(s.hashes, k)
	}
	return true
}

// HExists reports whether field exists in the hash at k.
func (s *Shard) HExists(k, field string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
		return false
	}
	hm, ok := s.hashes[k]
	if !ok {
		return false
	}
	_, ok = hm[field]
	return ok
}

// HLen returns the number of fields in the hash at k, 0 if absent.
func (s *Shard) HLen(k string, now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
		return 0
	}
	return int64(len(s.hashes[k]))
}

// HGetAll returns the flat [field, value, field, value, ...] sequence for
// the hash at k, in unspecified order.
func (s *Shard) HGetAll(k string, now time.Time) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExpiredLocked(k, now) {
		s.evictLocked(k)
		return nil
	}
	hm, ok := s.hashes[k]
	if !ok {
		return nil
	}
	out := make([][]byte, 0, len(hm)*2)
	for f, v := range hm {
		out = append(out, []byte(f), v)
	}
	return out
}
