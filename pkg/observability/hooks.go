// Package observability provides hooks for metrics and tracing of dump calls.
//
// The library itself never logs. Applications that want to count dumps,
// measure output sizes or trace slow file writes register hooks at startup;
// the defaults do nothing.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDumpHooks(&myDumpHooks{})
//	    observability.SetSinkHooks(&mySinkHooks{})
//	    // ... run application
//	}
//
// The dump package emits events around each call:
//
//	observability.Dump().OnDumpStart(ctx, mode)
//	// ... normalize, encode, dispose ...
//	observability.Dump().OnDumpComplete(ctx, mode, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Dump Hooks
// =============================================================================

// DumpHooks receives events for each safe-dump call.
type DumpHooks interface {
	// OnDumpStart records the start of a dump with the sink mode in use.
	OnDumpStart(ctx context.Context, mode string)

	// OnDumpComplete records the end of a dump. size is the length of the
	// encoded text, or 0 if encoding did not finish.
	OnDumpComplete(ctx context.Context, mode string, size int, duration time.Duration, err error)
}

// =============================================================================
// Sink Hooks
// =============================================================================

// SinkHooks receives events from output sinks.
type SinkHooks interface {
	// OnDispose records delivery of size bytes of text through a sink.
	OnDispose(ctx context.Context, mode string, size int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDumpHooks is a no-op implementation of DumpHooks.
type NoopDumpHooks struct{}

func (NoopDumpHooks) OnDumpStart(context.Context, string)                                {}
func (NoopDumpHooks) OnDumpComplete(context.Context, string, int, time.Duration, error) {}

// NoopSinkHooks is a no-op implementation of SinkHooks.
type NoopSinkHooks struct{}

func (NoopSinkHooks) OnDispose(context.Context, string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	dumpHooks DumpHooks = NoopDumpHooks{}
	sinkHooks SinkHooks = NoopSinkHooks{}
	hooksMu   sync.RWMutex
)

// SetDumpHooks registers custom dump hooks.
// This should be called once at application startup before any dumps.
func SetDumpHooks(h DumpHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dumpHooks = h
	}
}

// SetSinkHooks registers custom sink hooks.
// This should be called once at application startup before any dumps.
func SetSinkHooks(h SinkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sinkHooks = h
	}
}

// Dump returns the registered dump hooks.
func Dump() DumpHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dumpHooks
}

// Sink returns the registered sink hooks.
func Sink() SinkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sinkHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	dumpHooks = NoopDumpHooks{}
	sinkHooks = NoopSinkHooks{}
}
