// Package bench measures syncx primitives against their standard library
// counterparts.
//
// Every workload follows the same shape: N goroutines are started, held at
// a gate, released together and timed individually and as a group. The
// result records aggregate throughput (operations per second of wall
// time) and the mean per-operation latency seen by a single goroutine.
//
// Workloads:
//
//   - Locks: mutex, reentrant mutex and read-write lock acquire/release
//   - Maps: read-heavy and write-heavy mixes over a seeded key space
//   - Queues: producer/consumer pairs moving a fixed number of messages
//
// RunCI runs all three with the small CI presets and Aggregate merges the
// per-workload JSON files into one payload. Soak drives a mixed load for a
// long time with metrics exposed over HTTP.
package bench
