package queue

import (
	"container/list"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/yndnr/syncx-go/internal/syncutil"
	"github.com/yndnr/syncx-go/pkg/host"
	"github.com/yndnr/syncx-go/pkg/timeout"
)

// parked is a blocked put or get. It is resolved exactly once under mu:
// elem becomes nil, err is set and ready is closed.
type parked[T any] struct {
	item  T
	err   error
	ready chan struct{}
	elem  *list.Element
}

// core is the state shared by a Queue and its endpoint handles.
//
// Invariants under mu: getters are parked only while the buffer is empty,
// putters only while it is full.
type core[T any] struct {
	mu      syncutil.Mutex
	buf     ring[T]
	maxsize int

	senders   int
	receivers int

	getters list.List
	putters list.List

	opts options
}

func (c *core[T]) fullLocked() bool {
	return c.maxsize > 0 && c.buf.len() >= c.maxsize
}

func (c *core[T]) resolveLocked(line *list.List, p *parked[T], err error) {
	line.Remove(p.elem)
	p.elem = nil
	p.err = err
	close(p.ready)
}

func (c *core[T]) put(item T, block bool, w timeout.Wait) error {
	c.mu.Lock()
	if c.receivers == 0 {
		c.mu.Unlock()
		return ErrDisconnected
	}
	if front := c.getters.Front(); front != nil {
		g := front.Value.(*parked[T])
		g.item = item
		c.resolveLocked(&c.getters, g, nil)
		c.mu.Unlock()
		return nil
	}
	if !c.fullLocked() {
		c.buf.push(item)
		c.mu.Unlock()
		return nil
	}
	if !block || w.IsExpired() {
		c.mu.Unlock()
		return ErrFull
	}

	p := &parked[T]{item: item, ready: make(chan struct{})}
	p.elem = c.putters.PushBack(p)
	c.mu.Unlock()

	var err error
	host.Detached(c.opts.runtime, func() {
		err = c.park(&c.putters, p, w, ErrFull)
	})
	return err
}

func (c *core[T]) get(block bool, w timeout.Wait) (T, error) {
	var zero T

	c.mu.Lock()
	if c.buf.len() > 0 {
		item := c.buf.pop()
		if front := c.putters.Front(); front != nil {
			p := front.Value.(*parked[T])
			c.buf.push(p.item)
			p.item = zero
			c.resolveLocked(&c.putters, p, nil)
		}
		c.mu.Unlock()
		return item, nil
	}
	if c.senders == 0 {
		c.mu.Unlock()
		return zero, ErrDisconnected
	}
	if !block || w.IsExpired() {
		c.mu.Unlock()
		return zero, ErrEmpty
	}

	p := &parked[T]{ready: make(chan struct{})}
	p.elem = c.getters.PushBack(p)
	c.mu.Unlock()

	var err error
	host.Detached(c.opts.runtime, func() {
		err = c.park(&c.getters, p, w, ErrEmpty)
	})
	if err != nil {
		return zero, err
	}
	return p.item, nil
}

// park waits for p to be resolved or for w to run out. A timed out waiter
// leaves the line unless it was resolved in the meantime.
func (c *core[T]) park(line *list.List, p *parked[T], w timeout.Wait, expired error) error {
	var deadline <-chan time.Time
	if at, bounded := w.Deadline(time.Now()); bounded {
		timer := time.NewTimer(time.Until(at))
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case <-p.ready:
		return p.err
	case <-deadline:
		c.mu.Lock()
		defer c.mu.Unlock()
		if p.elem == nil {
			return p.err
		}
		line.Remove(p.elem)
		p.elem = nil
		return expired
	}
}

func (c *core[T]) addSender() {
	c.mu.Lock()
	c.senders++
	c.mu.Unlock()
}

func (c *core[T]) addReceiver() {
	c.mu.Lock()
	c.receivers++
	c.mu.Unlock()
}

// dropSender releases one sending endpoint. Parked getters can only exist
// with an empty buffer, so losing the last sender disconnects all of them.
func (c *core[T]) dropSender() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.senders--
	if c.senders > 0 {
		return
	}
	for e := c.getters.Front(); e != nil; e = c.getters.Front() {
		c.resolveLocked(&c.getters, e.Value.(*parked[T]), ErrDisconnected)
	}
}

func (c *core[T]) dropReceiver() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receivers--
	if c.receivers > 0 {
		return
	}
	for e := c.putters.Front(); e != nil; e = c.putters.Front() {
		c.resolveLocked(&c.putters, e.Value.(*parked[T]), ErrDisconnected)
	}
}

func (c *core[T]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.len()
}

func (c *core[T]) full() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullLocked()
}

// Queue is a FIFO queue safe for use by any number of goroutines.
type Queue[T any] struct {
	c   *core[T]
	own *endpoint
}

// New creates a queue holding at most maxsize items. maxsize <= 0 means
// unbounded.
func New[T any](maxsize int, opts ...Option) *Queue[T] {
	if maxsize < 0 {
		maxsize = 0
	}
	c := &core[T]{
		maxsize:   maxsize,
		senders:   1,
		receivers: 1,
		opts:      buildOptions(opts),
	}
	q := &Queue[T]{
		c: c,
		own: newEndpoint(func() {
			c.dropSender()
			c.dropReceiver()
		}),
	}
	runtime.AddCleanup(q, func(ep *endpoint) { ep.close() }, q.own)
	return q
}

// Put adds item to the tail of the queue.
//
// With block false, or an expired wait, it fails with ErrFull when there is
// no free slot. Otherwise it waits at most w for one.
func (q *Queue[T]) Put(item T, block bool, w timeout.Wait) error {
	if q.own.closed.Load() {
		return ErrDisconnected
	}
	err := q.c.observedPut(item, block, w)
	runtime.KeepAlive(q)
	return err
}

// PutNowait is Put without blocking.
func (q *Queue[T]) PutNowait(item T) error {
	return q.Put(item, false, timeout.None)
}

// PutTimeout blocks for at most seconds. Negative or non-finite values fail
// with timeout.ErrInvalidTimeout.
func (q *Queue[T]) PutTimeout(item T, seconds float64) error {
	w, err := timeout.Strict(seconds)
	if err != nil {
		return err
	}
	return q.Put(item, true, w)
}

// Get removes and returns the head of the queue.
//
// With block false, or an expired wait, it fails with ErrEmpty when there is
// nothing to take. Otherwise it waits at most w for an item.
func (q *Queue[T]) Get(block bool, w timeout.Wait) (T, error) {
	if q.own.closed.Load() {
		var zero T
		return zero, ErrDisconnected
	}
	item, err := q.c.observedGet(block, w)
	runtime.KeepAlive(q)
	return item, err
}

// GetNowait is Get without blocking.
func (q *Queue[T]) GetNowait() (T, error) {
	return q.Get(false, timeout.None)
}

// GetTimeout blocks for at most seconds, with the PutTimeout policy.
func (q *Queue[T]) GetTimeout(seconds float64) (T, error) {
	w, err := timeout.Strict(seconds)
	if err != nil {
		var zero T
		return zero, err
	}
	return q.Get(true, w)
}

// QSize returns the number of buffered items.
func (q *Queue[T]) QSize() int { return q.c.len() }

// Len is an alias of QSize.
func (q *Queue[T]) Len() int { return q.c.len() }

// Empty reports whether no items are buffered.
func (q *Queue[T]) Empty() bool { return q.c.len() == 0 }

// Full reports whether a bounded queue has no free slot. An unbounded
// queue is never full.
func (q *Queue[T]) Full() bool { return q.c.full() }

// MaxSize returns the capacity, 0 for unbounded.
func (q *Queue[T]) MaxSize() int { return q.c.maxsize }

// Sender returns a new sending endpoint.
func (q *Queue[T]) Sender() *Sender[T] {
	return newSender(q.c)
}

// Receiver returns a new receiving endpoint.
func (q *Queue[T]) Receiver() *Receiver[T] {
	return newReceiver(q.c)
}

// Close drops the queue's own endpoints. The queue stays usable through
// any Sender or Receiver still open. Close is idempotent.
func (q *Queue[T]) Close() {
	q.own.close()
}

func (c *core[T]) observedPut(item T, block bool, w timeout.Wait) error {
	start := time.Now()
	err := c.put(item, block, w)
	c.opts.observe("put", err, time.Since(start))
	return err
}

func (c *core[T]) observedGet(block bool, w timeout.Wait) (T, error) {
	start := time.Now()
	item, err := c.get(block, w)
	c.opts.observe("get", err, time.Since(start))
	return item, err
}

// endpoint is a single-shot close shared with the runtime cleanup, so it
// must not point at the handle that owns it.
type endpoint struct {
	closed atomic.Bool
	drop   func()
}

func newEndpoint(drop func()) *endpoint {
	return &endpoint{drop: drop}
}

func (ep *endpoint) close() {
	if ep.closed.CompareAndSwap(false, true) {
		ep.drop()
	}
}
