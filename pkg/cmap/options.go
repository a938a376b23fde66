package cmap

import (
	"runtime"
)

// Observer receives one event per container operation. Implementations
// must be safe for concurrent use and must not block.
//
// container is "map" or "set"; ok is false for misses and failed hashes.
type Observer interface {
	ObserveOp(container, op string, ok bool)
}

// Option configures a Map or Set.
type Option func(*options)

type options struct {
	shardCount int
	observer   Observer
}

// WithShardCount sets the number of shards. n must be a power of two;
// other values fall back to the default.
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shardCount = n
	}
}

// WithObserver reports operations to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// DefaultShardCount returns four shards per usable CPU, rounded up to a
// power of two.
func DefaultShardCount() int {
	want := 4 * runtime.GOMAXPROCS(0)
	n := 1
	for n < want {
		n <<= 1
	}
	return n
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if n := o.shardCount; n <= 0 || n&(n-1) != 0 {
		o.shardCount = DefaultShardCount()
	}
	return o
}

func (o *options) observe(container, op string, ok bool) {
	if o.observer != nil {
		o.observer.ObserveOp(container, op, ok)
	}
}
