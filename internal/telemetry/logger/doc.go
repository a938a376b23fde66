// Package logger provides structured logging for syncx.
//
// It wraps log/slog:
//
//   - logger.go: handler construction, dynamic level, default logger
//   - context.go: context propagation of the logger and benchmark run IDs
//   - handler.go: stamps the run ID and workload onto each record
//   - truncate.go: clipping of oversized attribute values
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering, adjustable at runtime
//   - Long host object renderings are clipped before they reach the sink
package logger
