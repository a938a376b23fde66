package queue

import (
	"errors"
	"time"

	"github.com/yndnr/syncx-go/pkg/host"
)

// Observer receives one event per transfer attempt. Implementations must be
// safe for concurrent use and must not block.
//
// op is "put" or "get"; outcome is "ok", "full", "empty" or "disconnected".
type Observer interface {
	ObserveTransfer(op, outcome string, waited time.Duration)
}

// Option configures a Queue.
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

// WithObserver reports transfers to obs.
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

func (o *options) observe(op string, err error, waited time.Duration) {
	if o.observer == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, ErrFull):
		outcome = "full"
	case errors.Is(err, ErrEmpty):
		outcome = "empty"
	case errors.Is(err, ErrDisconnected):
		outcome = "disconnected"
	}
	o.observer.ObserveTransfer(op, outcome, waited)
}
