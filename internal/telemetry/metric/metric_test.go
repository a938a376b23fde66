package metric

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/syncx-go/pkg/cmap"
	"github.com/yndnr/syncx-go/pkg/host"
	"github.com/yndnr/syncx-go/pkg/locks"
	"github.com/yndnr/syncx-go/pkg/queue"
	"github.com/yndnr/syncx-go/pkg/timeout"
)

func TestRegistry_LockObserver(t *testing.T) {
	r := NewRegistry()
	m := locks.NewMutex(locks.WithObserver(r))

	m.Lock()
	assert.False(t, m.TryAcquire())
	assert.False(t, m.Acquire(true, timeout.After(2*time.Millisecond)))
	m.Unlock()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.LockAcquisitions.WithLabelValues("mutex", "exclusive", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.LockAcquisitions.WithLabelValues("mutex", "exclusive", "false")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.LockWait))
}

func TestRegistry_ContainerObserver(t *testing.T) {
	r := NewRegistry()
	m := cmap.New[int](cmap.WithObserver(r))

	require.NoError(t, m.Set(host.NativeOf("a"), 1))
	_, err := m.GetItem(host.NativeOf("missing"))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.ContainerOps.WithLabelValues("map", "set", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ContainerOps.WithLabelValues("map", "get", "false")))
}

func TestRegistry_QueueObserver(t *testing.T) {
	r := NewRegistry()
	q := queue.New[int](1, queue.WithObserver(r))

	require.NoError(t, q.PutNowait(1))
	require.ErrorIs(t, q.PutNowait(2), queue.ErrFull)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.QueueTransfers.WithLabelValues("put", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.QueueTransfers.WithLabelValues("put", "full")))
}

func TestSizeCollector(t *testing.T) {
	c := NewSizeCollector()
	m := cmap.New[int]()
	q := queue.New[string](0)

	c.Track("map", "counters", m)
	c.Track("queue", "jobs", q)
	_ = m.Set(host.NativeOf(1), 1)
	_ = m.Set(host.NativeOf(2), 2)
	_ = q.PutNowait("x")

	expected := `
# HELP syncx_container_size Current number of entries in a tracked container
# TYPE syncx_container_size gauge
syncx_container_size{kind="map",name="counters"} 2
syncx_container_size{kind="queue",name="jobs"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))

	c.Untrack("queue", "jobs")
	assert.Equal(t, 1, testutil.CollectAndCount(c))
}

func TestSizeCollector_SameNameDifferentKinds(t *testing.T) {
	c := NewSizeCollector()
	m := cmap.New[int]()
	s := cmap.NewSet()
	q := queue.New[int](4)

	c.Track("map", "soak", m)
	c.Track("set", "soak", s)
	c.Track("queue", "soak", q)
	_ = m.Set(host.NativeOf("a"), 1)
	_ = s.Add(host.NativeOf("a"))
	_ = s.Add(host.NativeOf("b"))
	_ = q.PutNowait(1)
	_ = q.PutNowait(2)
	_ = q.PutNowait(3)

	expected := `
# HELP syncx_container_size Current number of entries in a tracked container
# TYPE syncx_container_size gauge
syncx_container_size{kind="map",name="soak"} 1
syncx_container_size{kind="queue",name="soak"} 3
syncx_container_size{kind="set",name="soak"} 2
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))

	c.Untrack("set", "soak")
	assert.Equal(t, 2, testutil.CollectAndCount(c))
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.ObserveAcquire("rwmutex", "shared", true, 0)
	r.Sizes.Track("set", "members", cmap.NewSet())

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `syncx_lock_acquisitions_total{acquired="true",mode="shared",primitive="rwmutex"} 1`)
	assert.Contains(t, string(body), `syncx_container_size{kind="set",name="members"} 0`)
	assert.Contains(t, string(body), "go_goroutines")
}
