package cmap

import (
	"github.com/yndnr/syncx-go/pkg/host"
)

const containerMap = "map"

// Map is a concurrent map from host objects to values of type V.
type Map[V any] struct {
	s    *store[V]
	opts options
}

// Pair is one exported map entry.
type Pair[V any] struct {
	Key   host.Object
	Value V
}

// New creates an empty map.
func New[V any](opts ...Option) *Map[V] {
	o := buildOptions(opts)
	return &Map[V]{s: newStore[V](o.shardCount), opts: o}
}

func (m *Map[V]) key(op string, obj host.Object) (host.Key, error) {
	k, err := host.NewKey(obj)
	if err != nil {
		m.opts.observe(containerMap, op, false)
	}
	return k, err
}

// Get returns the value for key, or def when key is absent.
func (m *Map[V]) Get(key host.Object, def V) (V, error) {
	k, err := m.key("get", key)
	if err != nil {
		return def, err
	}
	v, ok := m.s.load(k)
	m.opts.observe(containerMap, "get", ok)
	if !ok {
		return def, nil
	}
	return v, nil
}

// GetItem returns the value for key or a *KeyError.
func (m *Map[V]) GetItem(key host.Object) (V, error) {
	var zero V
	k, err := m.key("get", key)
	if err != nil {
		return zero, err
	}
	v, ok := m.s.load(k)
	m.opts.observe(containerMap, "get", ok)
	if !ok {
		return zero, &KeyError{Key: key}
	}
	return v, nil
}

// Set inserts or replaces the value for key.
func (m *Map[V]) Set(key host.Object, value V) error {
	k, err := m.key("set", key)
	if err != nil {
		return err
	}
	m.s.put(k, value)
	m.opts.observe(containerMap, "set", true)
	return nil
}

// SetDefault returns the value for key, inserting def first if key is
// absent. Concurrent callers on the same key all observe a single winner.
func (m *Map[V]) SetDefault(key host.Object, def V) (V, error) {
	k, err := m.key("set_default", key)
	if err != nil {
		return def, err
	}
	v, _ := m.s.loadOrStore(k, def)
	m.opts.observe(containerMap, "set_default", true)
	return v, nil
}

// SetIfAbsent stores value only if key is absent and reports whether it did.
func (m *Map[V]) SetIfAbsent(key host.Object, value V) (bool, error) {
	k, err := m.key("set_if_absent", key)
	if err != nil {
		return false, err
	}
	_, loaded := m.s.loadOrStore(k, value)
	m.opts.observe(containerMap, "set_if_absent", !loaded)
	return !loaded, nil
}

// SetIfPresent replaces the value only if key exists and reports whether it did.
func (m *Map[V]) SetIfPresent(key host.Object, value V) (bool, error) {
	k, err := m.key("set_if_present", key)
	if err != nil {
		return false, err
	}
	ok := m.s.storeIfPresent(k, value)
	m.opts.observe(containerMap, "set_if_present", ok)
	return ok, nil
}

// Update atomically replaces the value for key with fn's result. fn runs
// under the shard lock and must not touch the map.
func (m *Map[V]) Update(key host.Object, fn func(value V, exists bool) V) (V, error) {
	k, err := m.key("update", key)
	if err != nil {
		var zero V
		return zero, err
	}
	v := m.s.update(k, fn)
	m.opts.observe(containerMap, "update", true)
	return v, nil
}

// Delete removes key or returns a *KeyError.
func (m *Map[V]) Delete(key host.Object) error {
	k, err := m.key("delete", key)
	if err != nil {
		return err
	}
	_, ok := m.s.remove(k)
	m.opts.observe(containerMap, "delete", ok)
	if !ok {
		return &KeyError{Key: key}
	}
	return nil
}

// Pop removes key and returns its value, or a *KeyError.
func (m *Map[V]) Pop(key host.Object) (V, error) {
	k, err := m.key("pop", key)
	if err != nil {
		var zero V
		return zero, err
	}
	v, ok := m.s.remove(k)
	m.opts.observe(containerMap, "pop", ok)
	if !ok {
		return v, &KeyError{Key: key}
	}
	return v, nil
}

// PopDefault removes key and returns its value, or def when key is absent.
func (m *Map[V]) PopDefault(key host.Object, def V) (V, error) {
	k, err := m.key("pop", key)
	if err != nil {
		return def, err
	}
	v, ok := m.s.remove(k)
	m.opts.observe(containerMap, "pop", ok)
	if !ok {
		return def, nil
	}
	return v, nil
}

// Contains reports whether key is present.
func (m *Map[V]) Contains(key host.Object) (bool, error) {
	k, err := m.key("contains", key)
	if err != nil {
		return false, err
	}
	_, ok := m.s.load(k)
	m.opts.observe(containerMap, "contains", ok)
	return ok, nil
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	return m.s.len()
}

// IsEmpty reports whether the map has no entries.
func (m *Map[V]) IsEmpty() bool {
	return m.s.len() == 0
}

// Clear removes all entries, shard by shard.
func (m *Map[V]) Clear() {
	m.s.clear()
	m.opts.observe(containerMap, "clear", true)
}

// Export returns a snapshot of all entries.
func (m *Map[V]) Export() []Pair[V] {
	pairs := make([]Pair[V], 0, m.Len())
	m.s.rangeEntries(func(e entry[V]) bool {
		pairs = append(pairs, Pair[V]{Key: e.key.Object(), Value: e.value})
		return true
	})
	return pairs
}

// Import replaces the contents with pairs, hashing every key again.
//
// If a key cannot be hashed Import stops and returns the *host.HashError;
// the pairs before it remain in the map and the previous contents are gone.
func (m *Map[V]) Import(pairs []Pair[V]) error {
	m.s.clear()
	for _, p := range pairs {
		k, err := m.key("import", p.Key)
		if err != nil {
			return err
		}
		m.s.put(k, p.Value)
	}
	m.opts.observe(containerMap, "import", true)
	return nil
}

// ShardCount returns the number of shards.
func (m *Map[V]) ShardCount() int {
	return len(m.s.shards)
}

// Stats returns per-shard entry counts.
func (m *Map[V]) Stats() []ShardStats {
	return m.s.stats()
}
