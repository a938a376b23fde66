package cmap

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"

	"github.com/yndnr/syncx-go/internal/syncutil"
	"github.com/yndnr/syncx-go/pkg/host"
)

type entry[V any] struct {
	key   host.Key
	value V
}

// shard maps a hash code to the entries that share it.
type shard[V any] struct {
	mu      syncutil.RWMutex
	buckets map[int64][]entry[V]
	size    int
}

func newShard[V any]() *shard[V] {
	return &shard[V]{buckets: make(map[int64][]entry[V])}
}

// indexLocked returns the position of k in its bucket, or -1.
func (s *shard[V]) indexLocked(k host.Key) int {
	for i, e := range s.buckets[k.Hash()] {
		if e.key.Equal(k) {
			return i
		}
	}
	return -1
}

func (s *shard[V]) insertLocked(k host.Key, v V) {
	s.buckets[k.Hash()] = append(s.buckets[k.Hash()], entry[V]{key: k, value: v})
	s.size++
}

func (s *shard[V]) removeLocked(k host.Key, i int) entry[V] {
	bucket := s.buckets[k.Hash()]
	e := bucket[i]
	last := len(bucket) - 1
	bucket[i] = bucket[last]
	bucket[last] = entry[V]{}
	if last == 0 {
		delete(s.buckets, k.Hash())
	} else {
		s.buckets[k.Hash()] = bucket[:last]
	}
	s.size--
	return e
}

// snapshot copies the shard's entries under the read lock.
func (s *shard[V]) snapshot() []entry[V] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entry[V], 0, s.size)
	for _, bucket := range s.buckets {
		out = append(out, bucket...)
	}
	return out
}

// store is the sharded table shared by Map and Set.
type store[V any] struct {
	shards    []*shard[V]
	shardMask uint64
}

func newStore[V any](shardCount int) *store[V] {
	s := &store[V]{
		shards:    make([]*shard[V], shardCount),
		shardMask: uint64(shardCount - 1),
	}
	for i := range s.shards {
		s.shards[i] = newShard[V]()
	}
	return s
}

// shardFor spreads host hash codes, which are often small sequential
// integers, across shards with murmur3.
func (s *store[V]) shardFor(k host.Key) *shard[V] {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k.Hash()))
	return s.shards[murmur3.Sum64(buf[:])&s.shardMask]
}

func (s *store[V]) load(k host.Key) (V, bool) {
	sh := s.shardFor(k)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	if i := sh.indexLocked(k); i >= 0 {
		return sh.buckets[k.Hash()][i].value, true
	}
	var zero V
	return zero, false
}

// put stores v under k. An existing entry keeps its original key object.
func (s *store[V]) put(k host.Key, v V) {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if i := sh.indexLocked(k); i >= 0 {
		sh.buckets[k.Hash()][i].value = v
		return
	}
	sh.insertLocked(k, v)
}

// loadOrStore returns the existing value for k, or stores and returns v.
func (s *store[V]) loadOrStore(k host.Key, v V) (V, bool) {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if i := sh.indexLocked(k); i >= 0 {
		return sh.buckets[k.Hash()][i].value, true
	}
	sh.insertLocked(k, v)
	return v, false
}

func (s *store[V]) update(k host.Key, fn func(value V, exists bool) V) V {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if i := sh.indexLocked(k); i >= 0 {
		bucket := sh.buckets[k.Hash()]
		bucket[i].value = fn(bucket[i].value, true)
		return bucket[i].value
	}
	var zero V
	v := fn(zero, false)
	sh.insertLocked(k, v)
	return v
}

func (s *store[V]) storeIfPresent(k host.Key, v V) bool {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	i := sh.indexLocked(k)
	if i < 0 {
		return false
	}
	sh.buckets[k.Hash()][i].value = v
	return true
}

func (s *store[V]) remove(k host.Key) (V, bool) {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if i := sh.indexLocked(k); i >= 0 {
		return sh.removeLocked(k, i).value, true
	}
	var zero V
	return zero, false
}

func (s *store[V]) len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += sh.size
		sh.mu.RUnlock()
	}
	return n
}

func (s *store[V]) clear() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.buckets = make(map[int64][]entry[V])
		sh.size = 0
		sh.mu.Unlock()
	}
}

// rangeEntries calls fn for each entry, one shard snapshot at a time, with
// no lock held during the callback.
func (s *store[V]) rangeEntries(fn func(e entry[V]) bool) {
	for _, sh := range s.shards {
		for _, e := range sh.snapshot() {
			if !fn(e) {
				return
			}
		}
	}
}

// ShardStats describes the load of one shard.
type ShardStats struct {
	Index   int
	Count   int
	Buckets int
}

func (s *store[V]) stats() []ShardStats {
	stats := make([]ShardStats, len(s.shards))
	for i, sh := range s.shards {
		sh.mu.RLock()
		stats[i] = ShardStats{
			Index:   i,
			Count:   sh.size,
			Buckets: len(sh.buckets),
		}
		sh.mu.RUnlock()
	}
	return stats
}
