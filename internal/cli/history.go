package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/history"
)

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded analysis runs",
		Long: `History lists runs recorded with "brickfall analyze --save" or through the
HTTP API. The store is chosen by [history] backend in the config file.`,
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

// openHistory opens the configured store, failing when history is disabled.
func (c *CLI) openHistory(ctx context.Context) (history.Store, error) {
	store, err := history.Open(ctx, c.config.History)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if store == nil {
		return nil, errs.New(errs.ErrCodeUnsupported, "history is disabled; set [history] backend in the config")
	}
	return store, nil
}

func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				printInfo(w, "No runs recorded")
				return nil
			}

			t := newTable("ID", "Created", "Source", "Bricks", "Removable", "Chain")
			for _, r := range runs {
				t = t.Row(r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Source,
					itoa(r.Bricks), itoa(r.Removable), itoa(r.TotalFalls))
			}
			fmt.Fprintln(w, t.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to show (0 for all)")
	return cmd
}

func (c *CLI) historyShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errs.ValidateRunID(args[0]); err != nil {
				return err
			}
			store, err := c.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, StyleTitle.Render("Run "+r.ID))
			printKeyValue(w, "Created", r.CreatedAt.Local().Format(time.DateTime))
			printKeyValue(w, "Source", r.Source)
			printKeyValue(w, "Input hash", r.InputHash)
			printKeyValue(w, "Bricks", itoa(r.Bricks))
			printKeyValue(w, "Moved", itoa(r.Moved))
			printKeyValue(w, "Support edges", itoa(r.Edges))
			printKeyValue(w, "Removable", itoa(r.Removable))
			printKeyValue(w, "Chain reaction", itoa(r.TotalFalls))
			printKeyValue(w, "Duration", (time.Duration(r.DurationMS) * time.Millisecond).String())
			if len(r.RemovableIDs) > 0 {
				printDetail(w, "removable: %s", joinInts(r.RemovableIDs))
			}
			return nil
		},
	}
}
