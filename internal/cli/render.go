package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/pipeline"
	"github.com/matzehuels/brickfall/pkg/render/elevation"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	pipelineFlags
	output   string // output file path, stdout when empty
	format   string // dot, svg or elevation
	view     string // elevation projection: xz or yz
	detailed bool   // label graph nodes with coordinates
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Draw the support graph or a side elevation",
		Long: `Render settles the input and draws it. The dot and svg formats show the
support graph bottom-up, one rank per resting height, with removable bricks
highlighted. The elevation format projects the settled pile onto the xz or yz
plane as text.`,
		Example: `  brickfall render input.txt -o support.svg
  brickfall render input.txt -f dot --detailed
  brickfall render input.txt -f elevation --view yz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = formatFromPath(opts.output)
			}
			if err := pipeline.ValidateRenderFormat(opts.format); err != nil {
				return err
			}
			if opts.output != "" {
				if err := errs.ValidatePath(opts.output); err != nil {
					return err
				}
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, dot, elevation (default from output extension, else svg)")
	cmd.Flags().StringVar(&opts.view, "view", string(elevation.ViewXZ), "elevation projection: xz, yz")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label graph nodes with brick coordinates")

	return cmd
}

// formatFromPath picks a render format from an output file name.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return pipeline.FormatDOT
	case ".txt":
		return pipeline.FormatElevation
	default:
		return pipeline.FormatSVG
	}
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()
	popts, err := c.options(cmd, path, opts.pipelineFlags)
	if err != nil {
		return err
	}
	popts.Format = opts.format
	popts.View = elevation.View(opts.view)
	popts.Detailed = opts.detailed
	if err := popts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	out, hit, err := runner.RenderWithCacheInfo(ctx, res, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", opts.format))

	w := cmd.OutOrStdout()
	if opts.output == "" {
		_, err := w.Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess(w, "Rendered %s (%s)", opts.format, cacheLabel(hit))
	printFile(w, opts.output)
	return nil
}
