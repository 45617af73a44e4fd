package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brickfall/pkg/cache"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached settle, analysis and render results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rc, err := cache.New(ctx, c.config.Cache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer rc.Close()

			clearer, ok := rc.(cache.Clearer)
			if !ok {
				return errs.New(errs.ErrCodeUnsupported, "cache backend %q cannot be cleared", c.config.Cache.Backend)
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			w := cmd.OutOrStdout()
			printSuccess(w, "Cleared cache")
			if fc, ok := rc.(*cache.FileCache); ok {
				printDetail(w, "Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached results are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config.Cache
			w := cmd.OutOrStdout()
			switch cfg.Backend {
			case cache.BackendRedis:
				addr := cfg.RedisAddr
				if addr == "" {
					addr = cache.DefaultRedisAddr
				}
				fmt.Fprintln(w, "redis://"+addr)
			case cache.BackendNone:
				printInfo(w, "Caching is disabled")
			default:
				dir := cfg.Dir
				if dir == "" {
					var err error
					if dir, err = cache.DefaultDir(); err != nil {
						return err
					}
				}
				fmt.Fprintln(w, dir)
			}
			return nil
		},
	}
}
