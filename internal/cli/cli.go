// Package cli implements the brickfall command-line interface.
//
// # Commands
//
//   - settle: drop a pile of bricks and write the resting positions
//   - analyze: count bricks that can be removed safely and chain reactions
//   - render: draw the support graph (dot, svg) or a side elevation
//   - view: scroll through the settled pile in the terminal
//   - serve: run the HTTP API
//   - history: list and show recorded runs
//   - cache: manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on the [CLI] and is also attached to the command context.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickfall/pkg/buildinfo"
	"github.com/matzehuels/brickfall/pkg/cache"
	"github.com/matzehuels/brickfall/pkg/history"
	bio "github.com/matzehuels/brickfall/pkg/io"
	"github.com/matzehuels/brickfall/pkg/observability"
	"github.com/matzehuels/brickfall/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "brickfall"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
	config     pipeline.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: pipeline.DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Brickfall settles falling sand bricks and finds the safe ones to remove",
		Long:         `Brickfall drops a snapshot of falling bricks until every brick rests on the ground or on another brick, builds the support graph and reports which bricks can be disintegrated without anything else moving.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := pipeline.LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend, "history", cfg.History.Backend)

			hooks := logHooks{logger: c.Logger}
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/brickfall/config.toml)")

	root.AddCommand(c.settleCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the loaded config. A cache
// backend that cannot be reached is replaced by no cache; a history store
// that cannot be opened is an error.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	var rc cache.Cache = cache.NewNullCache()
	if !noCache {
		opened, err := cache.New(ctx, c.config.Cache)
		switch {
		case errors.Is(err, cache.ErrUnavailable):
			c.Logger.Warn("cache unavailable, continuing without it", "backend", c.config.Cache.Backend, "err", err)
		case err != nil:
			return nil, fmt.Errorf("open cache: %w", err)
		default:
			rc = opened
		}
	}

	store, err := history.Open(ctx, c.config.History)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	r := pipeline.NewRunner(rc, keyer, store, c.Logger)
	r.TTL = c.config.Cache.TTL
	return r, nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// pipelineFlags are the flags shared by every command that runs the pipeline.
type pipelineFlags struct {
	codec   string
	workers int
	noCache bool
	refresh bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.codec, "codec", "", "input format: txt, json, yaml, optionally .zst (default from file extension)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "analysis goroutines (default one per CPU)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute cached results")
}

// options reads the pile at path into pipeline options. The path "-" reads
// standard input.
func (c *CLI) options(cmd *cobra.Command, path string, f pipelineFlags) (pipeline.Options, error) {
	var (
		data []byte
		err  error
	)
	source := path
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		source = "stdin"
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("read %s: %w", path, err)
	}

	codec := f.codec
	if codec == "" && path != "-" {
		codec = bio.DetectFormat(path).String()
	}
	opts := pipeline.Options{
		Input:   data,
		Codec:   codec,
		Source:  source,
		Workers: f.workers,
		Refresh: f.refresh,
		Logger:  c.Logger,
	}
	c.config.Apply(&opts)
	return opts, nil
}
