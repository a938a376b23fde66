// Package metric exposes syncx primitive activity in Prometheus format.
//
//   - prometheus.go: Registry, which implements the Observer hooks of
//     pkg/locks, pkg/cmap and pkg/queue, and the /metrics handler
//   - collector.go: SizeCollector, reporting the live size of tracked
//     maps, sets and queues at scrape time
//
// Metrics include:
//
//   - Lock acquisition counters and wait-time histograms
//   - Container operation counters
//   - Queue transfer counters and wait-time histograms
//   - Container size gauges
package metric
