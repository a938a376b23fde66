// Package main provides the entry point for syncx-bench.
//
// syncx-bench measures the syncx primitives against their standard library
// counterparts and soaks them under concurrent load:
//
//   - locks, maps, queues: one workload family each
//   - ci: every family with small presets, results aggregated to JSON
//   - aggregate: merge result files
//   - soak: mixed load with Prometheus metrics on /metrics
//
// Usage:
//
//	syncx-bench [global flags] command [flags]
//	syncx-bench -o json locks --threads 1,2,4
//	syncx-bench ci --results-dir benchmark-results
//	syncx-bench soak --duration 10m --listen :9464
package main
