package cmap

import (
	"iter"

	"github.com/yndnr/syncx-go/pkg/host"
)

// Iterator walks the keys of a Map or Set. It holds a reference to the
// container's storage, so the entries stay reachable for as long as the
// iterator does.
//
// Iteration is live and weakly consistent: each shard is copied when the
// iterator reaches it, so writes to shards not yet visited are observed and
// writes to shards already visited are not. No lock is held between calls
// to Next.
type Iterator struct {
	next func() (host.Object, bool)
}

// Next returns the next key, or false when the iteration is done.
func (it *Iterator) Next() (host.Object, bool) {
	return it.next()
}

type cursor[V any] struct {
	s     *store[V]
	shard int
	buf   []entry[V]
	pos   int
}

func (c *cursor[V]) next() (entry[V], bool) {
	for c.pos >= len(c.buf) {
		if c.shard >= len(c.s.shards) {
			c.buf = nil
			return entry[V]{}, false
		}
		c.buf = c.s.shards[c.shard].snapshot()
		c.shard++
		c.pos = 0
	}
	e := c.buf[c.pos]
	c.buf[c.pos] = entry[V]{}
	c.pos++
	return e, true
}

func newIterator[V any](s *store[V]) *Iterator {
	c := &cursor[V]{s: s}
	return &Iterator{next: func() (host.Object, bool) {
		e, ok := c.next()
		if !ok {
			return nil, false
		}
		return e.key.Object(), true
	}}
}

// Iter returns a live iterator over the map's keys.
func (m *Map[V]) Iter() *Iterator {
	return newIterator(m.s)
}

// Range calls fn for each entry until fn returns false.
//
// fn runs without any shard lock held and may modify the map.
func (m *Map[V]) Range(fn func(key host.Object, value V) bool) {
	m.s.rangeEntries(func(e entry[V]) bool {
		return fn(e.key.Object(), e.value)
	})
}

// All returns an iterator over key-value pairs for use with range.
func (m *Map[V]) All() iter.Seq2[host.Object, V] {
	return func(yield func(host.Object, V) bool) {
		m.Range(yield)
	}
}

// Keys returns a snapshot of all keys.
func (m *Map[V]) Keys() []host.Object {
	keys := make([]host.Object, 0, m.Len())
	m.Range(func(key host.Object, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Values returns a snapshot of all values.
func (m *Map[V]) Values() []V {
	values := make([]V, 0, m.Len())
	m.Range(func(_ host.Object, value V) bool {
		values = append(values, value)
		return true
	})
	return values
}

// Iter returns a live iterator over the set's members.
func (s *Set) Iter() *Iterator {
	return newIterator(s.s)
}

// Range calls fn for each member until fn returns false.
func (s *Set) Range(fn func(member host.Object) bool) {
	s.s.rangeEntries(func(e entry[struct{}]) bool {
		return fn(e.key.Object())
	})
}

// All returns an iterator over members for use with range.
func (s *Set) All() iter.Seq[host.Object] {
	return func(yield func(host.Object) bool) {
		s.Range(yield)
	}
}
