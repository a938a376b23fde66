// Package command provides the syncx-bench command definitions.
//
// This package defines all commands using urfave/cli/v2:
//
//   - root.go: App, global flags, configuration and logger setup
//   - workload.go: locks, maps and queues commands
//   - ci.go: CI suite
//   - aggregate.go: merging result files
//   - soak.go: long-running soak with metrics
//   - version.go: build information
//
// Every command loads the configuration first (defaults, --config file,
// SYNCX_BENCH_* environment, then the flags set on the command line),
// runs, and prints its result with the --output formatter. --out
// additionally writes the result as JSON.
package command
