package locks

import (
	"runtime"

	"github.com/petermattis/goid"

	"github.com/yndnr/syncx-go/internal/syncutil"
	"github.com/yndnr/syncx-go/pkg/timeout"
)

const primitiveRMutex = "rmutex"

// RMutex is a reentrant mutex owned by a goroutine. The owning goroutine may
// acquire it again without blocking; every acquisition yields its own RGuard.
//
// Guards are interchangeable tokens, not a stack: releasing any guard
// decrements the hold count by one, and the mutex unlocks when the count
// reaches zero. A guard may be released from any goroutine.
type RMutex struct {
	l    latch
	opts options

	state syncutil.Mutex
	owner int64
	count int
}

// NewRMutex creates an unlocked reentrant mutex.
func NewRMutex(opts ...Option) *RMutex {
	return &RMutex{opts: buildOptions(opts)}
}

// Acquire blocks until the calling goroutine holds the mutex.
func (m *RMutex) Acquire() *RGuard {
	return m.AcquireTimeout(timeout.None)
}

// TryAcquire returns nil if another goroutine holds the mutex.
func (m *RMutex) TryAcquire() *RGuard {
	if !m.acquire(false, timeout.Expired) {
		return nil
	}
	return newRGuard(m)
}

// AcquireTimeout waits at most w and returns nil on expiry.
func (m *RMutex) AcquireTimeout(w timeout.Wait) *RGuard {
	if !m.acquire(true, w) {
		return nil
	}
	return newRGuard(m)
}

func (m *RMutex) acquire(blocking bool, w timeout.Wait) bool {
	id := goid.Get()

	m.state.Lock()
	if m.count > 0 && m.owner == id {
		m.count++
		m.state.Unlock()
		m.opts.observe(primitiveRMutex, modeExclusive, true, 0)
		return true
	}
	m.state.Unlock()

	ok, waited := m.l.acquire(modeExclusive, blocking, w, m.opts.runtime)
	m.opts.observe(primitiveRMutex, modeExclusive, ok, waited)
	if !ok {
		return false
	}

	m.state.Lock()
	m.owner = id
	m.count = 1
	m.state.Unlock()
	return true
}

func (m *RMutex) release() {
	m.state.Lock()
	if m.count == 0 {
		m.state.Unlock()
		panic("syncx: release of unlocked reentrant mutex")
	}
	m.count--
	last := m.count == 0
	if last {
		m.owner = 0
	}
	m.state.Unlock()

	if last {
		m.l.release(modeExclusive, false)
	}
}

// IsLocked reports whether any goroutine holds the mutex.
func (m *RMutex) IsLocked() bool {
	m.state.Lock()
	defer m.state.Unlock()
	return m.count > 0
}

// IsOwnedByCurrent reports whether the calling goroutine holds the mutex.
func (m *RMutex) IsOwnedByCurrent() bool {
	id := goid.Get()
	m.state.Lock()
	defer m.state.Unlock()
	return m.count > 0 && m.owner == id
}

// Count returns the current hold count.
func (m *RMutex) Count() int {
	m.state.Lock()
	defer m.state.Unlock()
	return m.count
}

// Do runs fn with the mutex held.
func (m *RMutex) Do(fn func()) {
	g := m.Acquire()
	defer g.Release()
	fn()
}

// RGuard is one hold on an RMutex.
type RGuard struct {
	st *heldState
}

func newRGuard(m *RMutex) *RGuard {
	g := &RGuard{st: newHeld(m.release)}
	runtime.AddCleanup(g, func(s *heldState) { s.drop() }, g.st)
	return g
}

// Release gives up this hold. Subsequent calls do nothing.
func (g *RGuard) Release() {
	if g == nil {
		return
	}
	g.st.drop()
}

// Unlock is an alias of Release.
func (g *RGuard) Unlock() { g.Release() }

// Held reports whether this guard still counts toward the hold.
func (g *RGuard) Held() bool {
	return g != nil && g.st.held.Load()
}
