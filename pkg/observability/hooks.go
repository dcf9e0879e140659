// Package observability provides instrumentation hooks for conversions,
// engine runs and cache operations.
//
// Libraries emit events through the registered hooks without depending on a
// metrics or tracing backend. The defaults are no-ops; a binary registers
// real implementations once at startup. [LogHooks] is the implementation
// the CLI installs: it turns every event into a debug log record.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetConvertHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Convert().OnConvertStart(ctx, source)
//	// ... convert ...
//	observability.Convert().OnConvertComplete(ctx, source, vertices, edges, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// ConvertHooks receives events from the conversion pipeline.
type ConvertHooks interface {
	OnConvertStart(ctx context.Context, source string)
	OnConvertComplete(ctx context.Context, source string, vertices, edges int, duration time.Duration, err error)

	// OnVerifyComplete reports a round-trip check; ok is false on mismatch.
	OnVerifyComplete(ctx context.Context, target string, ok bool, err error)
}

// EngineHooks receives events from matching engine runs.
type EngineHooks interface {
	OnEngineStart(ctx context.Context, query string, threads int)
	OnEngineComplete(ctx context.Context, query string, threads int, status string, mappings int64, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopConvertHooks is a no-op implementation of ConvertHooks.
type NoopConvertHooks struct{}

func (NoopConvertHooks) OnConvertStart(context.Context, string) {}
func (NoopConvertHooks) OnConvertComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopConvertHooks) OnVerifyComplete(context.Context, string, bool, error) {}

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnEngineStart(context.Context, string, int) {}
func (NoopEngineHooks) OnEngineComplete(context.Context, string, int, string, int64, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	convertHooks ConvertHooks = NoopConvertHooks{}
	engineHooks  EngineHooks  = NoopEngineHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetConvertHooks registers custom conversion hooks.
// This should be called once at application startup.
func SetConvertHooks(h ConvertHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		convertHooks = h
	}
}

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Convert returns the registered conversion hooks.
func Convert() ConvertHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return convertHooks
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	convertHooks = NoopConvertHooks{}
	engineHooks = NoopEngineHooks{}
	cacheHooks = NoopCacheHooks{}
}
