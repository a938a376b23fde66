// Package shutdown coordinates graceful termination of long-running
// commands such as syncx-bench soak.
//
// Hooks run in reverse registration order under a shared timeout, once,
// when the process receives SIGINT or SIGTERM or when the caller's context
// ends.
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//	err := h.Wait(ctx)
package shutdown
