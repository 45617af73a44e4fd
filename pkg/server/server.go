// Package server exposes the brickfall pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness and build info
//	POST /v1/settle        settle a pile, returns the resting bricks
//	POST /v1/analyze       settle and analyze, optionally recording the run
//	POST /v1/render        draw the support graph or an elevation
//	GET  /v1/runs          recent runs, newest first
//	GET  /v1/runs/{id}     one recorded run
//
// Request bodies carry a pile in any codec [bio.ParseCodec] accepts, chosen
// with the "codec" query parameter (text by default). Errors are returned as
// {"code": "...", "message": "..."}.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/buildinfo"
	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/history"
	"github.com/matzehuels/brickfall/pkg/pipeline"
	"github.com/matzehuels/brickfall/pkg/render/elevation"
)

const (
	// DefaultMaxBody bounds request bodies.
	DefaultMaxBody = 8 << 20

	defaultListLimit = 20
	maxListLimit     = 500
	shutdownTimeout  = 10 * time.Second
)

// Server serves the HTTP API on top of a shared pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	workers int
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBody overrides [DefaultMaxBody].
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// WithWorkers bounds analysis goroutines per request.
func WithWorkers(n int) Option {
	return func(s *Server) { s.workers = n }
}

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{runner: runner, logger: logger, maxBody: DefaultMaxBody}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/settle", s.handleSettle)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/render", s.handleRender)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

type settleResponse struct {
	Bricks []brick.Brick `json:"bricks"`
	Drops  []int         `json:"drops"`
	Moved  int           `json:"moved"`
	Cached bool          `json:"cached"`
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	bricks, err := pipeline.Parse(opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sr, hit, err := s.runner.SettleWithCacheInfo(r.Context(), bricks, pipeline.HashBricks(bricks), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settleResponse{Bricks: sr.Bricks, Drops: sr.Drops, Moved: sr.Moved, Cached: hit})
}

type analyzeResponse struct {
	RunID      string `json:"run_id,omitempty"`
	Bricks     int    `json:"bricks"`
	Moved      int    `json:"moved"`
	Edges      int    `json:"edges"`
	Count      int    `json:"count"`
	Removable  []int  `json:"removable"`
	Falls      []int  `json:"falls,omitempty"`
	TotalFalls int    `json:"total_falls"`
	Cached     bool   `json:"cached"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Save = s.runner.Store != nil
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		RunID:      res.RunID,
		Bricks:     res.Stats.Bricks,
		Moved:      res.Moved,
		Edges:      res.Stats.Edges,
		Count:      res.Report.Count,
		Removable:  res.Report.Removable,
		Falls:      res.Report.Falls,
		TotalFalls: res.Report.TotalFalls,
		Cached:     res.CacheInfo.SettleHit && res.CacheInfo.AnalysisHit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	opts.Format = q.Get("format")
	opts.View = elevation.View(q.Get("view"))
	opts.Detailed = q.Get("detailed") == "true"
	if err := opts.ValidateForRender(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, _, err := s.runner.RenderWithCacheInfo(r.Context(), res, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch opts.Format {
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case pipeline.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeUnsupported, "history is disabled"))
		return
	}
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "limit must be between 1 and %d", maxListLimit))
			return
		}
		limit = n
	}
	runs, err := s.runner.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeUnsupported, "history is disabled"))
		return
	}
	id := chi.URLParam(r, "id")
	if err := errs.ValidateRunID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	run, err := s.runner.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// readOptions reads the request body into pipeline options.
func (s *Server) readOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pipeline.Options{}, errs.New(errs.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return pipeline.Options{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}
	q := r.URL.Query()
	return pipeline.Options{
		Input:     body,
		Codec:     q.Get("codec"),
		Source:    "http:" + middleware.GetReqID(r.Context()),
		Workers:   s.workers,
		SkipFalls: q.Get("falls") == "false",
		Refresh:   q.Get("refresh") == "true",
		Logger:    s.logger,
	}, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errs.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, history.ErrRunNotFound), errs.Is(err, errs.ErrCodeNotFound):
		return http.StatusNotFound
	case errs.Is(err, errs.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	msg := errs.UserMessage(err)
	switch {
	case errors.Is(err, history.ErrRunNotFound):
		code, msg = errs.ErrCodeNotFound, "run not found"
	case code == "":
		code = errs.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
