// Package cmap provides a concurrent map and set keyed by host objects.
//
// Keys are host.Object values. Each key is hashed once through the host when
// it enters an operation; entries then live in one of several shards chosen
// by the memoized hash, and collisions inside a shard are resolved with the
// host's equality operator (see host.Key.Equal).
//
//   - Sharding: configurable shard count, each shard under its own RWMutex
//   - Atomic compound operations: SetDefault, Update, SetIfAbsent, Pop
//   - Iteration: live, weakly consistent iterators that keep the map alive
//   - Export/Import: plain pair slices for snapshotting contents
//
// Usage:
//
//	m := cmap.New[int](cmap.WithShardCount(32))
//	_ = m.Set(host.NativeOf("hits"), 1)
//	v, err := m.GetItem(host.NativeOf("hits"))
//
// Consistency:
//
// Single-key operations are linearizable. Len, Clear, iteration and Export
// visit shards one at a time and are only weakly consistent under concurrent
// writers.
//
// Host callbacks (hash and equality) may run while a shard lock is held.
// They must not call back into the same container.
package cmap
