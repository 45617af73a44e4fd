package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/brickfall/pkg/errors"
	bio "github.com/matzehuels/brickfall/pkg/io"
	"github.com/matzehuels/brickfall/pkg/pipeline"
)

// settleCommand creates the settle command.
func (c *CLI) settleCommand() *cobra.Command {
	var (
		flags  pipelineFlags
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "settle <input>",
		Short: "Drop every brick and write the resting positions",
		Long: `Settle reads a snapshot of falling bricks, one x1,y1,z1~x2,y2,z2 record per
line (or JSON/YAML, optionally zstd-compressed), and drops every brick until it
rests on the ground or on another brick. Bricks keep their input order.

Use "-" to read from standard input.`,
		Example: `  brickfall settle input.txt
  brickfall settle input.txt -o settled.json.zst
  cat input.txt | brickfall settle - --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.options(cmd, args[0], flags)
			if err != nil {
				return err
			}

			out := bio.Codec{Format: bio.FormatText}
			switch {
			case format != "":
				if out, err = bio.ParseCodec(format); err != nil {
					return err
				}
			case output != "":
				out = bio.DetectFormat(output)
			}
			if output != "" {
				if err := errs.ValidatePath(output); err != nil {
					return err
				}
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			bricks, err := pipeline.Parse(opts)
			if err != nil {
				return err
			}
			res, hit, err := runner.SettleWithCacheInfo(ctx, bricks, pipeline.HashBricks(bricks), opts)
			if err != nil {
				return fmt.Errorf("settle: %w", err)
			}
			prog.done(fmt.Sprintf("Settled %d bricks, %d moved", len(res.Bricks), res.Moved))

			if output == "" {
				return bio.Write(cmd.OutOrStdout(), res.Bricks, out)
			}
			if err := bio.ExportAs(output, res.Bricks, out); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Settled %s bricks (%s)", StyleNumber.Render(itoa(len(res.Bricks))), cacheLabel(hit))
			printFile(w, output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: txt, json, yaml, optionally .zst (default from output extension)")

	return cmd
}
