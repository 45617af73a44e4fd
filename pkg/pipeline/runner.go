package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/cache"
	"github.com/matzehuels/brickfall/pkg/history"
	"github.com/matzehuels/brickfall/pkg/observability"
	"github.com/matzehuels/brickfall/pkg/settle"
	"github.com/matzehuels/brickfall/pkg/stability"
	"github.com/matzehuels/brickfall/pkg/support"
)

// Runner executes the pipeline with caching and optional history.
//
// The Runner holds no per-run state, so the CLI and every HTTP request can
// share one. Cache and Store must be safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  history.Store
	Logger *log.Logger

	// TTL overrides the per-kind cache lifetimes when non-zero.
	TTL cache.Duration
}

// NewRunner creates a runner. A nil keyer means [cache.NewDefaultKeyer], a
// nil cache disables caching, a nil store disables history and a nil logger
// means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, store history.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Store: store, Logger: logger}
}

// Execute runs parse → settle → support → analyze and saves the run when
// asked to.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()
	res := &Result{}

	parseStart := time.Now()
	bricks, err := Parse(opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	res.Input = bricks
	res.InputHash = HashBricks(bricks)
	res.Stats.Bricks = len(bricks)
	res.Stats.ParseTime = time.Since(parseStart)
	opts.Logger.Debug("parsed bricks", "count", len(bricks), "source", opts.Source)

	if err := r.settleInto(ctx, res, opts); err != nil {
		return nil, err
	}

	supportStart := time.Now()
	res.Graph = support.Build(res.Settled)
	res.Stats.Edges = res.Graph.EdgeCount()
	res.Stats.SupportTime = time.Since(supportStart)
	observability.Pipeline().OnSupportComplete(ctx, res.Stats.Edges, res.Stats.SupportTime)
	opts.Logger.Debug("built support graph", "edges", res.Stats.Edges, "duration", res.Stats.SupportTime)

	analyzeStart := time.Now()
	report, hit, err := r.AnalyzeWithCacheInfo(ctx, res.Graph, res.SettledHash, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	res.Report = report
	res.CacheInfo.AnalysisHit = hit
	res.Stats.AnalyzeTime = time.Since(analyzeStart)
	opts.Logger.Info("analyzed stability",
		"removable", report.Count,
		"total_falls", report.TotalFalls,
		"cached", hit,
		"duration", res.Stats.AnalyzeTime)

	if opts.Save {
		if err := r.save(ctx, res, opts, time.Since(start)); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *Runner) settleInto(ctx context.Context, res *Result, opts Options) error {
	settleStart := time.Now()
	sr, hit, err := r.SettleWithCacheInfo(ctx, res.Input, res.InputHash, opts)
	if err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	res.Settled, res.Drops, res.Moved = sr.Bricks, sr.Drops, sr.Moved
	res.SettledHash = HashBricks(sr.Bricks)
	res.CacheInfo.SettleHit = hit
	res.Stats.SettleTime = time.Since(settleStart)
	opts.Logger.Info("settled bricks",
		"count", len(sr.Bricks),
		"moved", sr.Moved,
		"cached", hit,
		"duration", res.Stats.SettleTime)
	return nil
}

// SettleWithCacheInfo settles bricks, consulting the cache by inputHash.
// The bool reports a cache hit.
func (r *Runner) SettleWithCacheInfo(ctx context.Context, bricks []brick.Brick, inputHash string, opts Options) (*settle.Result, bool, error) {
	r.applyLogger(&opts)
	key := r.Keyer.SettleKey(inputHash)

	if !opts.Refresh {
		var cached settle.Result
		if r.lookup(ctx, "settle", key, &cached, opts.Logger) && len(cached.Bricks) == len(bricks) {
			return &cached, true, nil
		}
	}

	observability.Pipeline().OnSettleStart(ctx, len(bricks))
	start := time.Now()
	sr, err := settle.Run(bricks)
	moved := 0
	if sr != nil {
		moved = sr.Moved
	}
	observability.Pipeline().OnSettleComplete(ctx, moved, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.store(ctx, "settle", key, sr, cache.TTLFor(r.TTL, cache.TTLSettle), opts.Logger)
	return sr, false, nil
}

// AnalyzeWithCacheInfo computes the stability report of a settled pile,
// consulting the cache by settledHash. The bool reports a cache hit.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, g *support.Graph, settledHash string, opts Options) (*stability.Report, bool, error) {
	r.applyLogger(&opts)
	key := r.Keyer.AnalysisKey(settledHash, cache.AnalysisKeyOpts{ChainReaction: !opts.SkipFalls})

	if !opts.Refresh {
		var cached stability.Report
		if r.lookup(ctx, "analysis", key, &cached, opts.Logger) {
			return &cached, true, nil
		}
	}

	observability.Pipeline().OnAnalyzeStart(ctx, g.BrickCount(), opts.Workers)
	start := time.Now()
	rep, err := stability.Analyzer{Workers: opts.Workers, SkipFalls: opts.SkipFalls}.Analyze(ctx, g)
	count := 0
	if rep != nil {
		count = rep.Count
	}
	observability.Pipeline().OnAnalyzeComplete(ctx, count, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.store(ctx, "analysis", key, rep, cache.TTLFor(r.TTL, cache.TTLAnalysis), opts.Logger)
	return rep, false, nil
}

// lookup decodes a cached JSON value into v. Any cache or decode failure is
// logged and reported as a miss.
func (r *Runner) lookup(ctx context.Context, kind, key string, v any, logger *log.Logger) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Debug("cache read failed", "kind", kind, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Debug("discarding corrupt cache entry", "kind", kind, "err", err)
		observability.Cache().OnCacheMiss(ctx, kind)
		return false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return true
}

func (r *Runner) store(ctx context.Context, kind, key string, v any, ttl time.Duration, logger *log.Logger) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Debug("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func (r *Runner) save(ctx context.Context, res *Result, opts Options, elapsed time.Duration) error {
	if r.Store == nil {
		opts.Logger.Warn("history is disabled; run not saved")
		return nil
	}
	run := &history.Run{
		Source:       opts.Source,
		InputHash:    res.InputHash,
		Bricks:       res.Stats.Bricks,
		Moved:        res.Moved,
		Edges:        res.Stats.Edges,
		Removable:    res.Report.Count,
		RemovableIDs: res.Report.Removable,
		TotalFalls:   res.Report.TotalFalls,
		DurationMS:   elapsed.Milliseconds(),
	}
	if err := r.Store.Save(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	res.RunID = run.ID
	opts.Logger.Info("saved run", "id", run.ID)
	return nil
}

// Close releases the cache and the history store.
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on opts if none is set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
