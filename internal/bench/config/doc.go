// Package config defines the syncx-bench configuration.
//
// Values are layered by confloader: built-in defaults, an optional YAML
// file, SYNCX_BENCH_* environment variables and finally explicit command
// line flags. Keys are single lower-case words so they survive the
// environment variable mapping (SYNCX_BENCH_MAPS_KEYSPACE is maps.keyspace).
//
// Files:
//
//   - spec.go: configuration structure
//   - default.go: defaults and the CI presets
//   - verify.go: validation
//   - load.go: loading through confloader
package config
