// Package pipeline runs the parse → settle → support → analyze → render
// pipeline shared by the CLI and the HTTP server.
//
// # Stages
//
//  1. Parse: decode the input pile and check it for duplicate IDs and
//     overlapping bricks
//  2. Settle: drop every brick until it rests on the ground or another brick
//  3. Support: derive which bricks hold up which
//  4. Analyze: count removable bricks and measure chain reactions
//  5. Render (on demand): draw the support graph or an elevation
//
// Settling and analysis results are cached by content hash, so repeated runs
// over the same pile are nearly free. Runs can be recorded in a
// [history.Store].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, store, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Input:  data,
//	    Source: "input.txt",
//	})
//	fmt.Println(res.Report.Count, res.Report.TotalFalls)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
	bio "github.com/matzehuels/brickfall/pkg/io"
	"github.com/matzehuels/brickfall/pkg/render/elevation"
	"github.com/matzehuels/brickfall/pkg/stability"
	"github.com/matzehuels/brickfall/pkg/support"
)

// Render formats.
const (
	FormatDOT       = "dot"
	FormatSVG       = "svg"
	FormatElevation = "elevation"
)

// ValidRenderFormats is the set of supported render formats.
var ValidRenderFormats = map[string]bool{
	FormatDOT:       true,
	FormatSVG:       true,
	FormatElevation: true,
}

// ValidateRenderFormat checks that format is a supported render format.
func ValidateRenderFormat(format string) error {
	if !ValidRenderFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid render format %q (must be one of: dot, svg, elevation)", format)
	}
	return nil
}

// Options configures one pipeline run.
type Options struct {
	// Input is the raw pile.
	Input []byte `json:"-"`
	// Codec names the input encoding ("txt", "json", "yaml.zst", ...).
	// Empty means text.
	Codec string `json:"codec,omitempty"`
	// Source describes where Input came from, for history records.
	Source string `json:"source,omitempty"`

	// Workers bounds analysis goroutines; zero means one per CPU.
	Workers int `json:"workers,omitempty"`
	// SkipValidate trusts the input not to overlap.
	SkipValidate bool `json:"skip_validate,omitempty"`
	// SkipFalls skips chain-reaction counting.
	SkipFalls bool `json:"skip_falls,omitempty"`
	// Refresh ignores cached results (they are still rewritten).
	Refresh bool `json:"refresh,omitempty"`
	// Save records the run in the runner's history store.
	Save bool `json:"save,omitempty"`

	// Render options.
	Format   string         `json:"format,omitempty"`
	View     elevation.View `json:"view,omitempty"`
	Detailed bool           `json:"detailed,omitempty"`

	Logger *log.Logger `json:"-"`

	codec     bio.Codec
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	c, err := bio.ParseCodec(o.Codec)
	if err != nil {
		return err
	}
	o.codec = c
	if o.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}
	if o.Source == "" {
		o.Source = "stdin"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateForRender checks and defaults the render options.
func (o *Options) ValidateForRender() error {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if err := ValidateRenderFormat(o.Format); err != nil {
		return err
	}
	if o.Format == FormatElevation {
		v, err := elevation.ParseView(string(o.View))
		if err != nil {
			return err
		}
		o.View = v
	} else {
		o.View = ""
	}
	return nil
}

// Result holds everything a pipeline run produced.
type Result struct {
	// Input is the parsed pile.
	Input []brick.Brick
	// Settled holds the resting positions, in input order.
	Settled []brick.Brick
	// Drops[i] is how far Settled[i] fell.
	Drops []int
	// Moved counts bricks that fell at all.
	Moved int

	Graph  *support.Graph
	Report *stability.Report

	// InputHash and SettledHash are content hashes of the piles.
	InputHash   string
	SettledHash string

	// RunID is set when the run was saved to history.
	RunID string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Bricks      int
	Edges       int
	ParseTime   time.Duration
	SettleTime  time.Duration
	SupportTime time.Duration
	AnalyzeTime time.Duration
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.ParseTime + s.SettleTime + s.SupportTime + s.AnalyzeTime
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	SettleHit   bool
	AnalysisHit bool
}
