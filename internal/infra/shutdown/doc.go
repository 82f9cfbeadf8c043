// Package shutdown coordinates orderly teardown for keva tooling.
//
// A Handler collects cleanup hooks while the process starts up, then
// blocks in Wait until SIGINT or SIGTERM (or a programmatic Trigger)
// and runs the hooks in reverse registration order, mirroring startup.
// All hooks share one timeout budget through their context.
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return store.Close() })
//	err := h.Wait()
package shutdown
