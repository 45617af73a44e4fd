// Package observability lets the binary attach instrumentation to the
// pipeline without the libraries depending on any backend.
//
// Hooks are registered once at startup and default to no-ops:
//
//	observability.SetPipelineHooks(myHooks)
//
// Library code emits events through the accessors:
//
//	observability.Pipeline().OnSettleStart(ctx, len(bricks))
//	settled, err := settle.Settle(bricks)
//	observability.Pipeline().OnSettleComplete(ctx, moved, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the settle / support / analyze stages.
type PipelineHooks interface {
	OnSettleStart(ctx context.Context, bricks int)
	OnSettleComplete(ctx context.Context, moved int, duration time.Duration, err error)

	OnSupportComplete(ctx context.Context, edges int, duration time.Duration)

	OnAnalyzeStart(ctx context.Context, bricks, workers int)
	OnAnalyzeComplete(ctx context.Context, removable int, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. kind is "settle",
// "analysis" or "render".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks receives events from the API server. route is the chi route
// pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnSettleStart(context.Context, int)                           {}
func (NoopPipelineHooks) OnSettleComplete(context.Context, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnSupportComplete(context.Context, int, time.Duration)        {}
func (NoopPipelineHooks) OnAnalyzeStart(context.Context, int, int)                     {}
func (NoopPipelineHooks) OnAnalyzeComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	hooksMu       sync.RWMutex
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
)

// SetPipelineHooks registers h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
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

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op defaults. Intended for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
