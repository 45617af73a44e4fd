package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created,
// e.g. "Settled 1427 bricks (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnSettleStart(_ context.Context, bricks int) {
	h.logger.Debug("settling", "bricks", bricks)
}

func (h logHooks) OnSettleComplete(_ context.Context, moved int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("settle failed", "err", err, "duration", d)
		return
	}
	h.logger.Debug("settle complete", "moved", moved, "duration", d)
}

func (h logHooks) OnSupportComplete(_ context.Context, edges int, d time.Duration) {
	h.logger.Debug("support graph complete", "edges", edges, "duration", d)
}

func (h logHooks) OnAnalyzeStart(_ context.Context, bricks, workers int) {
	h.logger.Debug("analyzing", "bricks", bricks, "workers", workers)
}

func (h logHooks) OnAnalyzeComplete(_ context.Context, removable int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("analysis failed", "err", err, "duration", d)
		return
	}
	h.logger.Debug("analysis complete", "removable", removable, "duration", d)
}

func (h logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}
