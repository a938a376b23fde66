// Package output renders syncx-bench results.
//
// Layout:
//
//   - formatter.go: Formatter interface, ParseFormat and the factory
//   - table.go: aligned text tables, including multi-section reports
//   - json.go: JSON, indented or compact
//   - yaml.go: YAML
//   - progress.go: workload progress on stderr during long suites
//   - spinner.go: elapsed-time animation for soak runs
//
// Machine-readable formats receive the result values untouched; the table
// formatter reads struct fields through their json tags so the column
// names match the JSON keys.
package output
