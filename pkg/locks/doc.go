// Package locks provides the synchronization primitives of syncx.
//
// Three lock types share one latch implementation:
//
//   - Mutex: exclusive lock with blocking, non-blocking and timed acquisition
//   - RMutex: reentrant mutex owned by a goroutine, with fungible guards
//   - RWMutex: reader/writer lock with fair release, downgrade and bumping
//
// Guards:
//
// Every lock hands out guards (Guard, RGuard, ReadGuard, WriteGuard) that
// release their hold exactly once, either explicitly or, if a guard is
// dropped while still held, when the garbage collector finds it
// unreachable. A guard keeps its lock alive for as long as the guard
// itself is reachable.
//
//	g := mu.Guard(true, timeout.Lenient(0.5))
//	if g == nil {
//	    return errBusy
//	}
//	defer g.Release()
//
// Timeouts:
//
// Acquisition follows the lenient policy of package timeout: a negative
// timeout fails without waiting, a non-finite one waits forever.
//
// Host integration:
//
// WithRuntime makes every blocking wait run inside the host's
// AllowThreads hook; WithObserver reports acquisitions for metrics.
package locks
