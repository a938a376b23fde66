package queue

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/syncx-go/pkg/host/hosttest"
	"github.com/yndnr/syncx-go/pkg/timeout"
)

// waitParked blocks until the given numbers of puts and gets are parked.
func waitParked[T any](t *testing.T, q *Queue[T], putters, getters int) {
	t.Helper()
	require.Eventually(t, func() bool {
		q.c.mu.Lock()
		defer q.c.mu.Unlock()
		return q.c.putters.Len() == putters && q.c.getters.Len() == getters
	}, 2*time.Second, time.Millisecond)
}

func TestQueue_FIFO(t *testing.T) {
	q := New[int](0)
	for i := 0; i < 100; i++ {
		require.NoError(t, q.PutNowait(i))
	}
	assert.Equal(t, 100, q.QSize())
	assert.Equal(t, 100, q.Len())

	for i := 0; i < 100; i++ {
		v, err := q.GetNowait()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.True(t, q.Empty())
}

func TestQueue_RingGrowthKeepsOrder(t *testing.T) {
	q := New[int](0)
	next := 0
	for round := 0; round < 10; round++ {
		for i := 0; i < 40; i++ {
			require.NoError(t, q.PutNowait(round*40+i))
		}
		for i := 0; i < 25; i++ {
			v, err := q.GetNowait()
			require.NoError(t, err)
			require.Equal(t, next, v)
			next++
		}
	}
	assert.Equal(t, 150, q.Len())
}

func TestQueue_Capacity(t *testing.T) {
	q := New[string](2)
	assert.Equal(t, 2, q.MaxSize())
	assert.False(t, q.Full())

	require.NoError(t, q.PutNowait("a"))
	require.NoError(t, q.Put("b", true, timeout.None))
	assert.True(t, q.Full())

	assert.ErrorIs(t, q.PutNowait("c"), ErrFull)
	assert.ErrorIs(t, q.Put("c", true, timeout.Expired), ErrFull)

	v, err := q.GetNowait()
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.False(t, q.Full())
}

func TestQueue_Unbounded(t *testing.T) {
	for _, size := range []int{0, -5} {
		q := New[int](size)
		assert.Zero(t, q.MaxSize())
		for i := 0; i < 1000; i++ {
			require.NoError(t, q.PutNowait(i))
		}
		assert.False(t, q.Full())
	}
}

func TestQueue_EmptyNowait(t *testing.T) {
	q := New[int](1)
	_, err := q.GetNowait()
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = q.Get(true, timeout.Expired)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestQueue_Timeouts(t *testing.T) {
	q := New[int](1)

	start := time.Now()
	_, err := q.GetTimeout(0.05)
	assert.ErrorIs(t, err, ErrEmpty)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)

	require.NoError(t, q.PutNowait(1))
	start = time.Now()
	assert.ErrorIs(t, q.PutTimeout(2, 0.05), ErrFull)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)

	// Zero is a valid timeout and does not block.
	start = time.Now()
	assert.ErrorIs(t, q.PutTimeout(2, 0), ErrFull)
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	// Expired waiters must leave the line.
	waitParked(t, q, 0, 0)
}

func TestQueue_InvalidTimeout(t *testing.T) {
	q := New[int](0)

	tests := []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, sec := range tests {
		assert.ErrorIs(t, q.PutTimeout(1, sec), timeout.ErrInvalidTimeout, "put %v", sec)
		_, err := q.GetTimeout(sec)
		assert.ErrorIs(t, err, timeout.ErrInvalidTimeout, "get %v", sec)
	}
	assert.True(t, q.Empty())
}

func TestQueue_BlockingProducer(t *testing.T) {
	rt := &hosttest.Runtime{}
	q := New[int](1, WithRuntime(rt))
	require.NoError(t, q.PutNowait(1))

	done := make(chan error, 1)
	go func() {
		done <- q.Put(2, true, timeout.None)
	}()
	waitParked(t, q, 1, 0)
	require.Eventually(t, func() bool { return rt.Inside() == 1 }, 2*time.Second, time.Millisecond)

	v, err := q.GetNowait()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	require.NoError(t, <-done)

	// The parked item moved into the buffer before Get returned.
	assert.True(t, q.Full())
	v, err = q.GetNowait()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Zero(t, rt.Inside())
}

func TestQueue_BlockingConsumer(t *testing.T) {
	q := New[string](0)

	got := make(chan string, 1)
	go func() {
		v, err := q.GetTimeout(5)
		if err == nil {
			got <- v
		}
	}()
	waitParked(t, q, 0, 1)

	require.NoError(t, q.PutNowait("hello"))
	assert.Equal(t, "hello", <-got)
	assert.True(t, q.Empty())
}

func TestQueue_ParkedGettersServedInArrivalOrder(t *testing.T) {
	q := New[int](0)
	results := make([]chan int, 3)

	for i := range results {
		results[i] = make(chan int, 1)
		ch := results[i]
		go func() {
			v, _ := q.Get(true, timeout.None)
			ch <- v
		}()
		waitParked(t, q, 0, i+1)
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, q.PutNowait(i*10))
	}
	for i, ch := range results {
		assert.Equal(t, i*10, <-ch)
	}
}

func TestQueue_NowaitDoesNotOvertakeParkedGetter(t *testing.T) {
	q := New[int](0)

	got := make(chan int, 1)
	go func() {
		v, _ := q.Get(true, timeout.None)
		got <- v
	}()
	waitParked(t, q, 0, 1)

	require.NoError(t, q.PutNowait(7))
	_, err := q.GetNowait()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 7, <-got)
}

func TestQueue_FIFOAcrossProducers(t *testing.T) {
	q := New[[2]int](4)
	const producers, perProducer = 4, 250

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Put([2]int{p, i}, true, timeout.None); err != nil {
					t.Errorf("Put() error = %v", err)
					return
				}
			}
		}(p)
	}

	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	for n := 0; n < producers*perProducer; n++ {
		item, err := q.Get(true, timeout.After(5*time.Second))
		require.NoError(t, err)
		p, seq := item[0], item[1]
		require.Greater(t, seq, last[p], "producer %d out of order", p)
		last[p] = seq
	}
	wg.Wait()
	assert.True(t, q.Empty())
}

func TestQueue_Endpoints(t *testing.T) {
	q := New[int](0)
	tx := q.Sender()
	rx := q.Receiver()

	require.NoError(t, tx.PutNowait(1))
	require.NoError(t, tx.PutTimeout(2, 0.1))
	v, err := rx.GetNowait()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = q.GetNowait()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	tx.Close()
	tx.Close()
	assert.ErrorIs(t, tx.PutNowait(3), ErrDisconnected)

	// The queue's own sender keeps the channel open.
	require.NoError(t, q.PutNowait(3))
	v, err = rx.GetTimeout(0.1)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	rx.Close()
	_, err = rx.GetNowait()
	assert.ErrorIs(t, err, ErrDisconnected)
}

func TestQueue_DisconnectWhenSendersGone(t *testing.T) {
	q := New[int](0)
	tx := q.Sender()
	rx := q.Receiver()

	require.NoError(t, tx.PutNowait(1))
	q.Close()
	q.Close()

	_, err := q.GetNowait()
	assert.ErrorIs(t, err, ErrDisconnected)
	assert.ErrorIs(t, q.PutNowait(2), ErrDisconnected)

	blocked := make(chan error, 1)
	v, err := rx.Get(true, timeout.None)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	go func() {
		_, err := rx.Get(true, timeout.None)
		blocked <- err
	}()
	require.Eventually(t, func() bool {
		q.c.mu.Lock()
		defer q.c.mu.Unlock()
		return q.c.getters.Len() == 1
	}, 2*time.Second, time.Millisecond)

	tx.Close()
	assert.ErrorIs(t, <-blocked, ErrDisconnected)

	// Disconnection is permanent.
	_, err = rx.GetTimeout(0)
	assert.ErrorIs(t, err, ErrDisconnected)
}

func TestQueue_DrainBeforeDisconnect(t *testing.T) {
	q := New[int](0)
	rx := q.Receiver()
	for i := 0; i < 3; i++ {
		require.NoError(t, q.PutNowait(i))
	}
	q.Close()

	for i := 0; i < 3; i++ {
		v, err := rx.GetNowait()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	_, err := rx.GetNowait()
	assert.ErrorIs(t, err, ErrDisconnected)
}

func TestQueue_DisconnectWhenReceiversGone(t *testing.T) {
	q := New[int](1)
	tx := q.Sender()
	require.NoError(t, tx.PutNowait(1))

	blocked := make(chan error, 1)
	go func() {
		blocked <- tx.Put(2, true, timeout.None)
	}()
	waitParked(t, q, 1, 0)

	q.Close()
	assert.True(t, errors.Is(<-blocked, ErrDisconnected))
	assert.ErrorIs(t, tx.PutNowait(3), ErrDisconnected)
	tx.Close()
}

type transferRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *transferRecorder) ObserveTransfer(op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, op+":"+outcome)
}

func TestQueue_Observer(t *testing.T) {
	rec := &transferRecorder{}
	q := New[int](1, WithObserver(rec))

	_ = q.PutNowait(1)
	_ = q.PutNowait(2)
	_, _ = q.GetNowait()
	_, _ = q.GetNowait()

	assert.Equal(t, []string{"put:ok", "put:full", "get:ok", "get:empty"}, rec.outcomes)
}

func TestQueue_ConcurrentProducersConsumers(t *testing.T) {
	q := New[int](8)
	const pairs, messages = 4, 500

	var producers, consumers sync.WaitGroup
	var mu sync.Mutex
	sum := 0

	for p := 0; p < pairs; p++ {
		producers.Add(1)
		go func() {
			defer producers.Done()
			for i := 1; i <= messages; i++ {
				_ = q.Put(i, true, timeout.None)
			}
		}()
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			local := 0
			for i := 0; i < messages; i++ {
				v, err := q.Get(true, timeout.After(5*time.Second))
				if err != nil {
					t.Errorf("Get() error = %v", err)
					return
				}
				local += v
			}
			mu.Lock()
			sum += local
			mu.Unlock()
		}()
	}
	producers.Wait()
	consumers.Wait()

	assert.Equal(t, pairs*messages*(messages+1)/2, sum)
	assert.True(t, q.Empty())
}
