package queue

import (
	"runtime"

	"github.com/yndnr/syncx-go/pkg/timeout"
)

// Sender is a sending endpoint. An unreachable Sender closes itself.
type Sender[T any] struct {
	c  *core[T]
	ep *endpoint
}

func newSender[T any](c *core[T]) *Sender[T] {
	c.addSender()
	s := &Sender[T]{c: c, ep: newEndpoint(c.dropSender)}
	runtime.AddCleanup(s, func(ep *endpoint) { ep.close() }, s.ep)
	return s
}

// Put follows Queue.Put. It fails with ErrDisconnected after Close.
func (s *Sender[T]) Put(item T, block bool, w timeout.Wait) error {
	if s.ep.closed.Load() {
		return ErrDisconnected
	}
	err := s.c.observedPut(item, block, w)
	runtime.KeepAlive(s)
	return err
}

// PutNowait is Put without blocking.
func (s *Sender[T]) PutNowait(item T) error {
	return s.Put(item, false, timeout.None)
}

// PutTimeout follows Queue.PutTimeout.
func (s *Sender[T]) PutTimeout(item T, seconds float64) error {
	w, err := timeout.Strict(seconds)
	if err != nil {
		return err
	}
	return s.Put(item, true, w)
}

// Close drops the endpoint. Subsequent calls do nothing.
func (s *Sender[T]) Close() { s.ep.close() }

// Receiver is a receiving endpoint. An unreachable Receiver closes itself.
type Receiver[T any] struct {
	c  *core[T]
	ep *endpoint
}

func newReceiver[T any](c *core[T]) *Receiver[T] {
	c.addReceiver()
	r := &Receiver[T]{c: c, ep: newEndpoint(c.dropReceiver)}
	runtime.AddCleanup(r, func(ep *endpoint) { ep.close() }, r.ep)
	return r
}

// Get follows Queue.Get. It fails with ErrDisconnected after Close.
func (r *Receiver[T]) Get(block bool, w timeout.Wait) (T, error) {
	if r.ep.closed.Load() {
		var zero T
		return zero, ErrDisconnected
	}
	item, err := r.c.observedGet(block, w)
	runtime.KeepAlive(r)
	return item, err
}

// GetNowait is Get without blocking.
func (r *Receiver[T]) GetNowait() (T, error) {
	return r.Get(false, timeout.None)
}

// GetTimeout follows Queue.GetTimeout.
func (r *Receiver[T]) GetTimeout(seconds float64) (T, error) {
	w, err := timeout.Strict(seconds)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.Get(true, w)
}

// Close drops the endpoint. Subsequent calls do nothing.
func (r *Receiver[T]) Close() { r.ep.close() }
