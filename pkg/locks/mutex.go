package locks

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/yndnr/syncx-go/pkg/timeout"
)

const primitiveMutex = "mutex"

// Mutex is an exclusive lock with blocking, non-blocking and timed
// acquisition. The zero value is an unlocked mutex.
//
// *Mutex satisfies sync.Locker.
type Mutex struct {
	l    latch
	opts options
}

// NewMutex creates an unlocked mutex.
func NewMutex(opts ...Option) *Mutex {
	return &Mutex{opts: buildOptions(opts)}
}

// Acquire takes the mutex.
//
// With blocking false it behaves like TryAcquire. Otherwise it waits at most
// w; an expired wait fails immediately on a locked mutex.
func (m *Mutex) Acquire(blocking bool, w timeout.Wait) bool {
	ok, waited := m.l.acquire(modeExclusive, blocking, w, m.opts.runtime)
	m.opts.observe(primitiveMutex, modeExclusive, ok, waited)
	return ok
}

// TryAcquire takes the mutex only if it is free.
func (m *Mutex) TryAcquire() bool {
	ok := m.l.try(modeExclusive)
	m.opts.observe(primitiveMutex, modeExclusive, ok, 0)
	return ok
}

// Release unlocks the mutex. Releasing an unlocked mutex panics; use a Guard
// to make that impossible by construction.
func (m *Mutex) Release() {
	m.l.release(modeExclusive, false)
}

// Locked reports whether the mutex is currently held.
func (m *Mutex) Locked() bool {
	writer, _, _ := m.l.state()
	return writer
}

// IsLocked is an alias of Locked.
func (m *Mutex) IsLocked() bool { return m.Locked() }

// Lock blocks until the mutex is held.
func (m *Mutex) Lock() { m.Acquire(true, timeout.None) }

// Unlock is an alias of Release.
func (m *Mutex) Unlock() { m.Release() }

// TryLock is an alias of TryAcquire.
func (m *Mutex) TryLock() bool { return m.TryAcquire() }

// TryLockFor waits at most d for the mutex.
func (m *Mutex) TryLockFor(d time.Duration) bool {
	return m.Acquire(true, timeout.After(d))
}

// Guard acquires the mutex and returns a handle that releases it exactly
// once. It returns nil when the acquisition failed.
func (m *Mutex) Guard(blocking bool, w timeout.Wait) *Guard {
	if !m.Acquire(blocking, w) {
		return nil
	}
	return newGuard(m)
}

// Do runs fn with the mutex held.
func (m *Mutex) Do(fn func()) {
	g := m.Guard(true, timeout.None)
	defer g.Release()
	fn()
}

// Guard is a scoped hold on a Mutex. It keeps the mutex reachable for as
// long as it exists. A guard that becomes unreachable while still held is
// released by the runtime.
type Guard struct {
	st *heldState
}

// heldState is shared with the cleanup, so it must not point at the Guard.
type heldState struct {
	held    atomic.Bool
	release func()
}

func (s *heldState) drop() bool {
	if s.held.CompareAndSwap(true, false) {
		s.release()
		return true
	}
	return false
}

func newHeld(release func()) *heldState {
	s := &heldState{release: release}
	s.held.Store(true)
	return s
}

func newGuard(m *Mutex) *Guard {
	g := &Guard{st: newHeld(m.Release)}
	runtime.AddCleanup(g, func(s *heldState) { s.drop() }, g.st)
	return g
}

// Release unlocks the mutex. Subsequent calls do nothing.
func (g *Guard) Release() {
	if g == nil {
		return
	}
	g.st.drop()
}

// Unlock is an alias of Release.
func (g *Guard) Unlock() { g.Release() }

// Held reports whether the guard still holds the mutex.
func (g *Guard) Held() bool {
	return g != nil && g.st.held.Load()
}
