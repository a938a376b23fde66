package locks

import (
	"time"

	"github.com/yndnr/syncx-go/pkg/host"
)

// Observer receives one event per acquisition attempt. Implementations must
// be safe for concurrent use and must not block.
type Observer interface {
	ObserveAcquire(primitive, mode string, acquired bool, waited time.Duration)
}

// Option configures a lock.
type Option func(*options)

type options struct {
	runtime  host.Runtime
	observer Observer
}

// WithRuntime brackets every blocking wait with rt.AllowThreads.
func WithRuntime(rt host.Runtime) Option {
	return func(o *options) {
		o.runtime = rt
	}
}

// WithObserver reports acquisitions to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o *options) observe(primitive string, m mode, acquired bool, waited time.Duration) {
	if o.observer != nil {
		o.observer.ObserveAcquire(primitive, m.String(), acquired, waited)
	}
}
