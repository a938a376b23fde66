package locks

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/syncx-go/pkg/host/hosttest"
	"github.com/yndnr/syncx-go/pkg/timeout"
)

type acquireEvent struct {
	primitive string
	mode      string
	acquired  bool
	waited    time.Duration
}

type recordingObserver struct {
	mu     sync.Mutex
	events []acquireEvent
}

func (r *recordingObserver) ObserveAcquire(primitive, mode string, acquired bool, waited time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, acquireEvent{primitive, mode, acquired, waited})
}

func (r *recordingObserver) snapshot() []acquireEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]acquireEvent(nil), r.events...)
}

// waitQueued blocks until n acquisitions are parked on l.
func waitQueued(t *testing.T, l *latch, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, _, waiting := l.state()
		return waiting == n
	}, 2*time.Second, time.Millisecond)
}

func TestMutex_GuardLifecycle(t *testing.T) {
	m := NewMutex()

	g := m.Guard(true, timeout.None)
	require.NotNil(t, g)
	assert.True(t, m.Locked())
	assert.True(t, g.Held())

	g.Release()
	assert.False(t, m.Locked())
	assert.False(t, g.Held())

	m.Do(func() {
		assert.True(t, m.IsLocked())
	})
	assert.False(t, m.IsLocked())
}

func TestMutex_ZeroValue(t *testing.T) {
	var m Mutex
	m.Lock()
	assert.True(t, m.Locked())
	m.Unlock()
	assert.False(t, m.Locked())
}

func TestMutex_TryAcquireContention(t *testing.T) {
	m := NewMutex()

	first := m.Guard(true, timeout.None)
	assert.False(t, m.TryAcquire())
	assert.Nil(t, m.Guard(false, timeout.None))

	first.Release()
	second := m.Guard(false, timeout.None)
	require.NotNil(t, second)
	second.Release()
}

func TestMutex_GuardIdempotentRelease(t *testing.T) {
	m := NewMutex()

	g := m.Guard(true, timeout.None)
	g.Release()
	g.Release()
	g.Unlock()
	assert.False(t, m.Locked())

	// The latch must still be usable exactly once per acquisition.
	other := m.Guard(true, timeout.None)
	require.NotNil(t, other)
	g.Release()
	assert.True(t, m.Locked())
	other.Release()
	assert.False(t, m.Locked())
}

func TestMutex_NilGuardRelease(t *testing.T) {
	var g *Guard
	g.Release()
	assert.False(t, g.Held())
}

func TestMutex_TimeoutBoundary(t *testing.T) {
	m := NewMutex()
	m.Lock()
	defer m.Unlock()

	start := time.Now()
	assert.False(t, m.Acquire(true, timeout.Lenient(0)))
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	start = time.Now()
	assert.False(t, m.Acquire(true, timeout.Lenient(-1)))
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	start = time.Now()
	assert.False(t, m.Acquire(true, timeout.Lenient(0.05)))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)

	assert.False(t, m.TryLockFor(10*time.Millisecond))
}

func TestMutex_ExpiredWaitOnFreeMutex(t *testing.T) {
	m := NewMutex()
	assert.True(t, m.Acquire(true, timeout.Lenient(-1)))
	m.Release()
}

func TestMutex_BlockingWaitsForRelease(t *testing.T) {
	rt := &hosttest.Runtime{}
	m := NewMutex(WithRuntime(rt))
	m.Lock()

	var acquired atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		g := m.Guard(true, timeout.None)
		acquired.Store(true)
		g.Release()
	}()

	waitQueued(t, &m.l, 1)
	assert.False(t, acquired.Load())
	assert.Equal(t, int64(1), rt.Inside())

	m.Unlock()
	<-done
	assert.True(t, acquired.Load())
	assert.Equal(t, int64(1), rt.Detached())
	assert.Zero(t, rt.Inside())
}

func TestMutex_TimedWaitSucceedsOnRelease(t *testing.T) {
	m := NewMutex()
	m.Lock()

	go func() {
		time.Sleep(20 * time.Millisecond)
		m.Unlock()
	}()

	assert.True(t, m.Acquire(true, timeout.Lenient(2)))
	m.Release()
}

func TestMutex_ReleaseUnlockedPanics(t *testing.T) {
	m := NewMutex()
	assert.Panics(t, m.Release)
}

func TestMutex_Observer(t *testing.T) {
	obs := &recordingObserver{}
	m := NewMutex(WithObserver(obs))

	m.Lock()
	assert.False(t, m.TryAcquire())
	assert.False(t, m.Acquire(true, timeout.After(5*time.Millisecond)))
	m.Unlock()

	events := obs.snapshot()
	require.Len(t, events, 3)
	assert.Equal(t, acquireEvent{"mutex", "exclusive", true, 0}, events[0])
	assert.False(t, events[1].acquired)
	assert.False(t, events[2].acquired)
	assert.Greater(t, events[2].waited, time.Duration(0))
}

func TestMutex_MutualExclusion(t *testing.T) {
	m := NewMutex()
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				m.Do(func() { counter++ })
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 16*200, counter)
	assert.False(t, m.Locked())
}

func TestMutex_UnreachableGuardIsReleased(t *testing.T) {
	m := NewMutex()

	func() {
		_ = m.Guard(true, timeout.None)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return !m.Locked()
	}, 5*time.Second, 10*time.Millisecond)
}

func TestMutex_SyncLocker(t *testing.T) {
	var l sync.Locker = NewMutex()
	c := sync.NewCond(l)

	ready := false
	go func() {
		l.Lock()
		ready = true
		l.Unlock()
		c.Broadcast()
	}()

	l.Lock()
	for !ready {
		c.Wait()
	}
	l.Unlock()
}
