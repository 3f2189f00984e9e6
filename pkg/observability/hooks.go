// Package observability provides hooks for metrics, tracing and logging of
// improvement runs.
//
// Libraries call the registered hooks; main registers implementations at
// startup. The defaults do nothing, so instrumenting a library adds no
// dependency on any backend.
//
//	func main() {
//	    observability.SetPipelineHooks(observability.LogHooks{Logger: logger})
//	    // ... run application
//	}
//
// Libraries emit events:
//
//	observability.Pipeline().OnImportStart(ctx, d.Name)
//	// ... import ...
//	observability.Pipeline().OnImportComplete(ctx, d.Name, cells, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from an improvement run.
type PipelineHooks interface {
	// Import events
	OnImportStart(ctx context.Context, design string)
	OnImportComplete(ctx context.Context, design string, cells int, duration time.Duration, err error)

	// Legalization
	OnLegalizeComplete(ctx context.Context, placed, unplaced int, displacement int64, duration time.Duration)

	// OnPassComplete is called after every iteration of every script pass.
	OnPassComplete(ctx context.Context, pass string, iteration, moves int, hpwl int64, duration time.Duration)

	// OnRunComplete is called once per run, including skipped and cached runs.
	OnRunComplete(ctx context.Context, runID string, hpwlBefore, hpwlAfter int64, duration time.Duration, err error)
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

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnImportStart(context.Context, string) {}
func (NoopPipelineHooks) OnImportComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLegalizeComplete(context.Context, int, int, int64, time.Duration) {}
func (NoopPipelineHooks) OnPassComplete(context.Context, string, int, int, int64, time.Duration) {
}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, int64, int64, time.Duration, error) {
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
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
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
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
