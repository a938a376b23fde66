package locks

import (
	"container/list"
	"time"

	"github.com/yndnr/syncx-go/internal/syncutil"
	"github.com/yndnr/syncx-go/pkg/host"
	"github.com/yndnr/syncx-go/pkg/timeout"
)

type mode uint8

const (
	modeShared mode = iota
	modeExclusive
)

func (m mode) String() string {
	if m == modeExclusive {
		return "exclusive"
	}
	return "shared"
}

// waiter is one parked acquisition. ready is closed exactly once, either
// after ownership was transferred (granted) or to ask the waiter to retry.
type waiter struct {
	mode    mode
	ready   chan struct{}
	granted bool
	elem    *list.Element
}

// latch is the shared/exclusive state machine behind every lock type.
//
// Waiters queue in arrival order. A plain release frees the latch and wakes
// every waiter to contend again, so a newcomer may barge ahead of them. A
// fair release transfers ownership to the head of the queue before anyone
// else can observe the latch as free.
type latch struct {
	mu      syncutil.Mutex
	writer  bool
	readers int
	queue   list.List
}

// tryLocked attempts the acquisition with mu held.
func (l *latch) tryLocked(m mode) bool {
	if m == modeExclusive {
		if l.writer || l.readers > 0 {
			return false
		}
		l.writer = true
		return true
	}
	if l.writer {
		return false
	}
	l.readers++
	return true
}

func (l *latch) try(m mode) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tryLocked(m)
}

// acquire implements the blocking/timeout contract shared by all locks.
// It reports whether the latch is held and how long the caller was parked.
func (l *latch) acquire(m mode, blocking bool, w timeout.Wait, rt host.Runtime) (bool, time.Duration) {
	l.mu.Lock()
	if l.tryLocked(m) {
		l.mu.Unlock()
		return true, 0
	}
	l.mu.Unlock()

	if !blocking || w.IsExpired() {
		return false, 0
	}

	start := time.Now()
	deadline, bounded := w.Deadline(start)

	var ok bool
	host.Detached(rt, func() {
		ok = l.wait(m, deadline, bounded)
	})
	return ok, time.Since(start)
}

// wait parks until the latch is granted or the deadline passes.
func (l *latch) wait(m mode, deadline time.Time, bounded bool) bool {
	var expired <-chan time.Time
	if bounded {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		expired = timer.C
	}

	for {
		l.mu.Lock()
		if l.tryLocked(m) {
			l.mu.Unlock()
			return true
		}
		w := &waiter{mode: m, ready: make(chan struct{})}
		w.elem = l.queue.PushBack(w)
		l.mu.Unlock()

		select {
		case <-w.ready:
			if w.granted {
				return true
			}
		case <-expired:
			l.mu.Lock()
			granted := w.granted
			if w.elem != nil {
				l.queue.Remove(w.elem)
				w.elem = nil
			}
			l.mu.Unlock()
			return granted
		}
	}
}

// release drops one hold of mode m. It panics when nothing is held, the
// same way sync.Mutex treats an unlock of an unlocked mutex as fatal.
func (l *latch) release(m mode, fair bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if m == modeExclusive {
		if !l.writer {
			panic("syncx: release of unlocked exclusive lock")
		}
		l.writer = false
		if fair {
			l.handoffLocked()
		} else {
			l.wakeAllLocked()
		}
		return
	}

	if l.readers == 0 {
		panic("syncx: release of unlocked shared lock")
	}
	l.readers--
	if l.readers == 0 {
		l.handoffLocked()
	}
}

// downgrade turns the exclusive hold into a single shared hold without
// passing through the unlocked state, then admits every queued reader.
func (l *latch) downgrade() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.writer {
		panic("syncx: downgrade of unlocked exclusive lock")
	}
	l.writer = false
	l.readers = 1
	l.grantReadersLocked()
}

// bump yields a held lock to queued waiters fairly and takes it back.
// It is a no-op when nobody is waiting.
func (l *latch) bump(m mode, rt host.Runtime) {
	l.mu.Lock()
	if l.queue.Len() == 0 {
		l.mu.Unlock()
		return
	}
	if m == modeExclusive {
		l.writer = false
	} else {
		l.readers--
	}
	if l.readers == 0 {
		l.handoffLocked()
	}
	l.mu.Unlock()

	l.acquire(m, true, timeout.None, rt)
}

// handoffLocked grants the latch to the head of the queue: either the first
// writer alone, or every queued reader.
func (l *latch) handoffLocked() {
	front := l.queue.Front()
	if front == nil {
		return
	}
	head := front.Value.(*waiter)
	if head.mode == modeExclusive {
		if l.writer || l.readers > 0 {
			return
		}
		l.writer = true
		l.grantLocked(head)
		return
	}
	if !l.writer {
		l.grantReadersLocked()
	}
}

func (l *latch) grantReadersLocked() {
	for e := l.queue.Front(); e != nil; {
		next := e.Next()
		if w := e.Value.(*waiter); w.mode == modeShared {
			l.readers++
			l.grantLocked(w)
		}
		e = next
	}
}

func (l *latch) grantLocked(w *waiter) {
	l.queue.Remove(w.elem)
	w.elem = nil
	w.granted = true
	close(w.ready)
}

func (l *latch) wakeAllLocked() {
	for e := l.queue.Front(); e != nil; {
		next := e.Next()
		w := e.Value.(*waiter)
		l.queue.Remove(e)
		w.elem = nil
		close(w.ready)
		e = next
	}
}

func (l *latch) state() (writer bool, readers int, waiting int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writer, l.readers, l.queue.Len()
}
