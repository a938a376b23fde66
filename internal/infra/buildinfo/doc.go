// Package buildinfo provides build information for syncx-bench.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/syncx-go/internal/infra/buildinfo.Version=v0.3.0" ./cmd/syncx-bench
//
// When nothing is injected the values fall back to the module and VCS
// information the Go toolchain embeds in the binary.
package buildinfo
