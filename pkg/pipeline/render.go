package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/brickfall/pkg/cache"
	"github.com/matzehuels/brickfall/pkg/observability"
	"github.com/matzehuels/brickfall/pkg/render/elevation"
	"github.com/matzehuels/brickfall/pkg/render/nodelink"
)

// RenderKeyOpts returns the cache key options for the render settings.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{Format: o.Format, View: string(o.View), Detailed: o.Detailed}
}

// Render draws a finished run in opts.Format. Removable bricks are
// highlighted in graph output.
func Render(ctx context.Context, res *Result, opts Options) ([]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	switch opts.Format {
	case FormatElevation:
		return []byte(elevation.Project(res.Settled, opts.View).String()), nil
	default:
		var highlight []int
		if res.Report != nil {
			highlight = res.Report.Removable
		}
		dot := nodelink.ToDOT(res.Graph, nodelink.Options{Detailed: opts.Detailed, Highlight: highlight})
		if opts.Format == FormatDOT {
			return []byte(dot), nil
		}
		return nodelink.RenderSVG(ctx, dot)
	}
}

// RenderWithCacheInfo is [Render] with caching by the settled pile's hash.
// The bool reports a cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.RenderKey(res.SettledHash, opts.RenderKeyOpts())

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "render")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	start := time.Now()
	out, err := Render(ctx, res, opts)
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	opts.Logger.Info("rendered", "format", opts.Format, "bytes", len(out), "duration", time.Since(start))

	if err := r.Cache.Set(ctx, key, bytes.Clone(out), cache.TTLFor(r.TTL, cache.TTLRender)); err != nil {
		opts.Logger.Debug("cache write failed", "kind", "render", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "render", len(out))
	}
	return out, false, nil
}
