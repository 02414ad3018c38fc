// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about expand/collapse interactions, renders and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so library packages can
// emit events without importing a metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetMorphHooks(&myMorphHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Morph().OnExpand(session, "_layer1", 4)
//	observability.Morph().OnRender(ctx, session, "svg", nodes, edges, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Morph Hooks
// =============================================================================

// MorphHooks receives events from a graph morpher session.
//
// Expand and collapse run synchronously without a context, so their hooks
// identify the session by id instead.
type MorphHooks interface {
	// OnExpand records a successful expansion and the number of nodes it
	// revealed.
	OnExpand(session, group string, revealed int)

	// OnCollapse records a successful collapse and the number of display
	// nodes it removed, nested ones included.
	OnCollapse(session, group string, removed int)

	// OnViolation records a rejected interaction (unknown node, double
	// toggle, hidden node...).
	OnViolation(session, op, name, code string)

	// OnRender records a render handoff.
	OnRender(ctx context.Context, session, renderer string, nodes, edges int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMorphHooks is a no-op implementation of MorphHooks.
type NoopMorphHooks struct{}

func (NoopMorphHooks) OnExpand(string, string, int)               {}
func (NoopMorphHooks) OnCollapse(string, string, int)             {}
func (NoopMorphHooks) OnViolation(string, string, string, string) {}
func (NoopMorphHooks) OnRender(context.Context, string, string, int, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	morphHooks MorphHooks = NoopMorphHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetMorphHooks registers custom morph hooks.
// This should be called once at application startup before any session is created.
func SetMorphHooks(h MorphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		morphHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Morph returns the registered morph hooks.
func Morph() MorphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return morphHooks
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
	morphHooks = NoopMorphHooks{}
	cacheHooks = NoopCacheHooks{}
}
