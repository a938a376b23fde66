package locks

import (
	"runtime"
	"sync"
	"time"

	"github.com/yndnr/syncx-go/pkg/timeout"
)

const primitiveRWMutex = "rwmutex"

// RWMutex is a reader/writer lock with timed acquisition, fair release and
// atomic downgrade. The zero value is unlocked.
//
// New readers are admitted whenever no writer holds the lock, so a steady
// stream of readers can delay a writer. ReleaseWriteFair and WriteGuard's
// ReleaseFair are the only operations that order waiters.
type RWMutex struct {
	l    latch
	opts options
}

// NewRWMutex creates an unlocked reader/writer lock.
func NewRWMutex(opts ...Option) *RWMutex {
	return &RWMutex{opts: buildOptions(opts)}
}

// AcquireRead takes a shared hold, following the Mutex.Acquire contract.
func (rw *RWMutex) AcquireRead(blocking bool, w timeout.Wait) bool {
	ok, waited := rw.l.acquire(modeShared, blocking, w, rw.opts.runtime)
	rw.opts.observe(primitiveRWMutex, modeShared, ok, waited)
	return ok
}

// TryAcquireRead takes a shared hold only if no writer holds the lock.
func (rw *RWMutex) TryAcquireRead() bool {
	ok := rw.l.try(modeShared)
	rw.opts.observe(primitiveRWMutex, modeShared, ok, 0)
	return ok
}

// ReleaseRead drops one shared hold.
func (rw *RWMutex) ReleaseRead() {
	rw.l.release(modeShared, false)
}

// ReadGuard takes a shared hold and wraps it in a guard, or returns nil.
func (rw *RWMutex) ReadGuard(blocking bool, w timeout.Wait) *ReadGuard {
	if !rw.AcquireRead(blocking, w) {
		return nil
	}
	return newReadGuard(rw)
}

// AcquireWrite takes the exclusive hold, following the Mutex.Acquire contract.
func (rw *RWMutex) AcquireWrite(blocking bool, w timeout.Wait) bool {
	ok, waited := rw.l.acquire(modeExclusive, blocking, w, rw.opts.runtime)
	rw.opts.observe(primitiveRWMutex, modeExclusive, ok, waited)
	return ok
}

// TryAcquireWrite takes the exclusive hold only if the lock is free.
func (rw *RWMutex) TryAcquireWrite() bool {
	ok := rw.l.try(modeExclusive)
	rw.opts.observe(primitiveRWMutex, modeExclusive, ok, 0)
	return ok
}

// ReleaseWrite drops the exclusive hold. Waiters and newcomers contend.
func (rw *RWMutex) ReleaseWrite() {
	rw.l.release(modeExclusive, false)
}

// ReleaseWriteFair drops the exclusive hold and hands the lock to the
// longest waiting writer, or to all waiting readers, before any newcomer.
func (rw *RWMutex) ReleaseWriteFair() {
	rw.l.release(modeExclusive, true)
}

// WriteGuard takes the exclusive hold and wraps it in a guard, or returns nil.
func (rw *RWMutex) WriteGuard(blocking bool, w timeout.Wait) *WriteGuard {
	if !rw.AcquireWrite(blocking, w) {
		return nil
	}
	return newWriteGuard(rw)
}

// BumpShared lets queued waiters in ahead of a held shared lock, then
// reacquires it. It returns immediately if nobody is waiting.
func (rw *RWMutex) BumpShared() {
	rw.l.bump(modeShared, rw.opts.runtime)
}

// BumpExclusive lets queued waiters in ahead of the held exclusive lock,
// then reacquires it. It returns immediately if nobody is waiting.
func (rw *RWMutex) BumpExclusive() {
	rw.l.bump(modeExclusive, rw.opts.runtime)
}

// IsLocked reports whether the lock is held in either mode.
func (rw *RWMutex) IsLocked() bool {
	writer, readers, _ := rw.l.state()
	return writer || readers > 0
}

// IsWriteLocked reports whether the lock is held exclusively.
func (rw *RWMutex) IsWriteLocked() bool {
	writer, _, _ := rw.l.state()
	return writer
}

// Readers returns the number of shared holds.
func (rw *RWMutex) Readers() int {
	_, readers, _ := rw.l.state()
	return readers
}

// RLock blocks until a shared hold is taken.
func (rw *RWMutex) RLock() { rw.AcquireRead(true, timeout.None) }

// RUnlock is an alias of ReleaseRead.
func (rw *RWMutex) RUnlock() { rw.ReleaseRead() }

// Lock blocks until the exclusive hold is taken.
func (rw *RWMutex) Lock() { rw.AcquireWrite(true, timeout.None) }

// Unlock is an alias of ReleaseWrite.
func (rw *RWMutex) Unlock() { rw.ReleaseWrite() }

// TryRLockFor waits at most d for a shared hold.
func (rw *RWMutex) TryRLockFor(d time.Duration) bool {
	return rw.AcquireRead(true, timeout.After(d))
}

// TryLockFor waits at most d for the exclusive hold.
func (rw *RWMutex) TryLockFor(d time.Duration) bool {
	return rw.AcquireWrite(true, timeout.After(d))
}

// RLocker returns a sync.Locker backed by shared holds.
func (rw *RWMutex) RLocker() sync.Locker {
	return rlocker{rw}
}

type rlocker struct{ rw *RWMutex }

func (r rlocker) Lock()   { r.rw.RLock() }
func (r rlocker) Unlock() { r.rw.RUnlock() }

// ReadGuard is a scoped shared hold.
type ReadGuard struct {
	st *heldState
}

func newReadGuard(rw *RWMutex) *ReadGuard {
	g := &ReadGuard{st: newHeld(rw.ReleaseRead)}
	runtime.AddCleanup(g, func(s *heldState) { s.drop() }, g.st)
	return g
}

// Release drops the shared hold. Subsequent calls do nothing.
func (g *ReadGuard) Release() {
	if g == nil {
		return
	}
	g.st.drop()
}

// Unlock is an alias of Release.
func (g *ReadGuard) Unlock() { g.Release() }

// Held reports whether the guard still holds the lock.
func (g *ReadGuard) Held() bool {
	return g != nil && g.st.held.Load()
}

// WriteGuard is a scoped exclusive hold.
type WriteGuard struct {
	rw *RWMutex
	st *heldState
}

func newWriteGuard(rw *RWMutex) *WriteGuard {
	g := &WriteGuard{rw: rw, st: newHeld(rw.ReleaseWrite)}
	runtime.AddCleanup(g, func(s *heldState) { s.drop() }, g.st)
	return g
}

// Release drops the exclusive hold. Subsequent calls do nothing.
func (g *WriteGuard) Release() {
	if g == nil {
		return
	}
	g.st.drop()
}

// Unlock is an alias of Release.
func (g *WriteGuard) Unlock() { g.Release() }

// ReleaseFair drops the exclusive hold with ReleaseWriteFair semantics.
func (g *WriteGuard) ReleaseFair() {
	if g == nil {
		return
	}
	if g.st.held.CompareAndSwap(true, false) {
		g.rw.ReleaseWriteFair()
	}
}

// UnlockFair is an alias of ReleaseFair.
func (g *WriteGuard) UnlockFair() { g.ReleaseFair() }

// Downgrade atomically converts the exclusive hold into a shared one and
// returns the new read guard. It returns nil if the guard no longer holds
// the lock. The write guard is spent either way.
func (g *WriteGuard) Downgrade() *ReadGuard {
	if g == nil || !g.st.held.CompareAndSwap(true, false) {
		return nil
	}
	g.rw.l.downgrade()
	return newReadGuard(g.rw)
}

// Held reports whether the guard still holds the lock.
func (g *WriteGuard) Held() bool {
	return g != nil && g.st.held.Load()
}
