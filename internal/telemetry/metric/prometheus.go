package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/syncx-go/pkg/cmap"
	"github.com/yndnr/syncx-go/pkg/locks"
	"github.com/yndnr/syncx-go/pkg/queue"
)

const namespace = "syncx"

// waitBuckets spans uncontended hand-offs up to multi-second stalls.
var waitBuckets = prometheus.ExponentialBuckets(1e-6, 4, 12)

var (
	_ locks.Observer = (*Registry)(nil)
	_ cmap.Observer  = (*Registry)(nil)
	_ queue.Observer = (*Registry)(nil)
)

// Registry holds all syncx metrics. It is passed to primitives through
// their WithObserver options.
type Registry struct {
	reg *prometheus.Registry

	// Lock metrics
	LockAcquisitions *prometheus.CounterVec
	LockWait         *prometheus.HistogramVec

	// Container metrics
	ContainerOps *prometheus.CounterVec

	// Queue metrics
	QueueTransfers *prometheus.CounterVec
	QueueWait      *prometheus.HistogramVec

	// Sizes reports tracked container sizes at scrape time.
	Sizes *SizeCollector
}

// NewRegistry creates a registry with every syncx metric registered, plus
// the Go runtime collector.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		LockAcquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lock",
			Name:      "acquisitions_total",
			Help:      "Lock acquisition attempts by primitive, mode and result",
		}, []string{"primitive", "mode", "acquired"}),

		LockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lock",
			Name:      "wait_seconds",
			Help:      "Time spent parked before a lock acquisition resolved",
			Buckets:   waitBuckets,
		}, []string{"primitive", "mode"}),

		ContainerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "container",
			Name:      "operations_total",
			Help:      "Map and set operations by container, operation and result",
		}, []string{"container", "op", "ok"}),

		QueueTransfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "transfers_total",
			Help:      "Queue put and get attempts by outcome",
		}, []string{"op", "outcome"}),

		QueueWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "wait_seconds",
			Help:      "Time spent in queue put and get calls",
			Buckets:   waitBuckets,
		}, []string{"op"}),

		Sizes: NewSizeCollector(),
	}

	r.reg.MustRegister(
		r.LockAcquisitions,
		r.LockWait,
		r.ContainerOps,
		r.QueueTransfers,
		r.QueueWait,
		r.Sizes,
		collectors.NewGoCollector(),
	)
	return r
}

// ObserveAcquire implements locks.Observer.
func (r *Registry) ObserveAcquire(primitive, mode string, acquired bool, waited time.Duration) {
	r.LockAcquisitions.WithLabelValues(primitive, mode, strconv.FormatBool(acquired)).Inc()
	if waited > 0 {
		r.LockWait.WithLabelValues(primitive, mode).Observe(waited.Seconds())
	}
}

// ObserveOp implements cmap.Observer.
func (r *Registry) ObserveOp(container, op string, ok bool) {
	r.ContainerOps.WithLabelValues(container, op, strconv.FormatBool(ok)).Inc()
}

// ObserveTransfer implements queue.Observer.
func (r *Registry) ObserveTransfer(op, outcome string, waited time.Duration) {
	r.QueueTransfers.WithLabelValues(op, outcome).Inc()
	r.QueueWait.WithLabelValues(op).Observe(waited.Seconds())
}

// Gatherer returns the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
