package cmap

import (
	"github.com/yndnr/syncx-go/pkg/host"
)

const containerSet = "set"

// Set is a concurrent set of host objects.
type Set struct {
	s    *store[struct{}]
	opts options
}

// NewSet creates an empty set.
func NewSet(opts ...Option) *Set {
	o := buildOptions(opts)
	return &Set{s: newStore[struct{}](o.shardCount), opts: o}
}

func (s *Set) key(op string, obj host.Object) (host.Key, error) {
	k, err := host.NewKey(obj)
	if err != nil {
		s.opts.observe(containerSet, op, false)
	}
	return k, err
}

// Add inserts member. Adding an existing member keeps the stored object.
func (s *Set) Add(member host.Object) error {
	k, err := s.key("add", member)
	if err != nil {
		return err
	}
	_, loaded := s.s.loadOrStore(k, struct{}{})
	s.opts.observe(containerSet, "add", !loaded)
	return nil
}

// Discard removes member if present.
func (s *Set) Discard(member host.Object) error {
	k, err := s.key("discard", member)
	if err != nil {
		return err
	}
	_, ok := s.s.remove(k)
	s.opts.observe(containerSet, "discard", ok)
	return nil
}

// Remove removes member or returns a *KeyError.
func (s *Set) Remove(member host.Object) error {
	k, err := s.key("remove", member)
	if err != nil {
		return err
	}
	_, ok := s.s.remove(k)
	s.opts.observe(containerSet, "remove", ok)
	if !ok {
		return &KeyError{Key: member}
	}
	return nil
}

// Contains reports whether member is present.
func (s *Set) Contains(member host.Object) (bool, error) {
	k, err := s.key("contains", member)
	if err != nil {
		return false, err
	}
	_, ok := s.s.load(k)
	s.opts.observe(containerSet, "contains", ok)
	return ok, nil
}

// Len returns the number of members.
func (s *Set) Len() int {
	return s.s.len()
}

// IsEmpty reports whether the set has no members.
func (s *Set) IsEmpty() bool {
	return s.s.len() == 0
}

// Clear removes all members, shard by shard.
func (s *Set) Clear() {
	s.s.clear()
	s.opts.observe(containerSet, "clear", true)
}

// Copy returns a set with the same members and independent storage.
// Member hashes are reused, not recomputed.
func (s *Set) Copy() *Set {
	cp := &Set{s: newStore[struct{}](len(s.s.shards)), opts: s.opts}
	s.s.rangeEntries(func(e entry[struct{}]) bool {
		cp.s.loadOrStore(e.key, struct{}{})
		return true
	})
	s.opts.observe(containerSet, "copy", true)
	return cp
}

// Export returns a snapshot of all members.
func (s *Set) Export() []host.Object {
	members := make([]host.Object, 0, s.Len())
	s.Range(func(member host.Object) bool {
		members = append(members, member)
		return true
	})
	return members
}

// Import replaces the contents with members, with the same failure
// behavior as Map.Import.
func (s *Set) Import(members []host.Object) error {
	s.s.clear()
	for _, obj := range members {
		k, err := s.key("import", obj)
		if err != nil {
			return err
		}
		s.s.loadOrStore(k, struct{}{})
	}
	s.opts.observe(containerSet, "import", true)
	return nil
}

// ShardCount returns the number of shards.
func (s *Set) ShardCount() int {
	return len(s.s.shards)
}

// Stats returns per-shard member counts.
func (s *Set) Stats() []ShardStats {
	return s.s.stats()
}
