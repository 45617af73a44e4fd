package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brickfall/pkg/pipeline"
)

type analyzeOpts struct {
	pipelineFlags
	save    bool
	noChain bool
	asJSON  bool
	showIDs bool
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze <input>",
		Short: "Count bricks that can be disintegrated safely",
		Long: `Analyze settles the input, builds the support graph and reports how many
bricks could be removed without any other brick falling. Unless --no-chain is
given it also counts, for every brick, how many others would fall if it were
removed, and sums those chain reactions.`,
		Example: `  brickfall analyze input.txt
  brickfall analyze input.txt --save --workers 8
  brickfall analyze input.txt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.save, "save", false, "record the run in the history store")
	cmd.Flags().BoolVar(&opts.noChain, "no-chain", false, "skip chain-reaction counting")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.showIDs, "ids", false, "list the removable brick IDs")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, path string, opts analyzeOpts) error {
	ctx := cmd.Context()
	popts, err := c.options(cmd, path, opts.pipelineFlags)
	if err != nil {
		return err
	}
	popts.SkipFalls = opts.noChain
	popts.Save = opts.save

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	w := cmd.OutOrStdout()
	if opts.save && runner.Store == nil {
		printWarning(cmd.ErrOrStderr(), "history is disabled; set [history] backend in the config to record runs")
	}

	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Analyzing "+path+"...")
	spin.Start()
	res, err := runner.Execute(ctx, popts)
	spin.Stop()
	if err != nil {
		return err
	}

	if opts.asJSON {
		return writeReportJSON(w, res)
	}
	printAnalysis(w, res, !opts.noChain)
	if opts.showIDs {
		printDetail(w, "removable: %s", joinInts(res.Report.Removable))
	}
	if res.RunID != "" {
		printInfo(w, "Saved run %s", StyleValue.Render(res.RunID))
	}
	return nil
}

// printAnalysis renders the summary table.
func printAnalysis(w io.Writer, res *pipeline.Result, chain bool) {
	t := newTable("", "Value").
		Row("Bricks", itoa(res.Stats.Bricks)).
		Row("Moved", itoa(res.Moved)).
		Row("Support edges", itoa(res.Stats.Edges)).
		Row("Removable", itoa(res.Report.Count))
	if chain {
		t = t.Row("Chain reaction", itoa(res.Report.TotalFalls))
	}
	t = t.Row("Cache", cacheLabel(res.CacheInfo.SettleHit && res.CacheInfo.AnalysisHit))

	fmt.Fprintln(w, StyleTitle.Render("Stability"))
	fmt.Fprintln(w, t.Render())
	st := res.Stats
	printDetail(w, "settle %s · support %s · analyze %s · total %s",
		round(st.SettleTime), round(st.SupportTime), round(st.AnalyzeTime), round(st.Total()))
}

type reportJSON struct {
	RunID      string `json:"run_id,omitempty"`
	Bricks     int    `json:"bricks"`
	Moved      int    `json:"moved"`
	Edges      int    `json:"edges"`
	Removable  int    `json:"removable"`
	IDs        []int  `json:"removable_ids"`
	Falls      []int  `json:"falls,omitempty"`
	TotalFalls int    `json:"total_falls"`
}

func writeReportJSON(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reportJSON{
		RunID:      res.RunID,
		Bricks:     res.Stats.Bricks,
		Moved:      res.Moved,
		Edges:      res.Stats.Edges,
		Removable:  res.Report.Count,
		IDs:        res.Report.Removable,
		Falls:      res.Report.Falls,
		TotalFalls: res.Report.TotalFalls,
	})
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Microsecond)
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = itoa(n)
	}
	return strings.Join(parts, ", ")
}
