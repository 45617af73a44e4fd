package stability

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/brickfall/pkg/support"
)

// Report summarizes the stability of a settled pile.
type Report struct {
	// Removable lists the IDs of removable bricks, in graph order.
	Removable []int `json:"removable" yaml:"removable"`
	// Count is len(Removable).
	Count int `json:"count" yaml:"count"`
	// Falls[i] is the chain reaction of removing the i-th brick of the graph.
	Falls []int `json:"falls" yaml:"falls"`
	// TotalFalls sums Falls.
	TotalFalls int `json:"total_falls" yaml:"total_falls"`
}

// Analyzer checks every brick of a support graph in parallel.
type Analyzer struct {
	// Workers bounds the number of goroutines. Zero or less means
	// runtime.NumCPU().
	Workers int
	// SkipFalls leaves Falls nil and TotalFalls zero. Chain reactions are
	// quadratic in the pile size; removability alone is linear.
	SkipFalls bool
}

// Analyze computes removability and chain reactions for every brick in g.
// Each worker writes only its own slot, so results are deterministic
// regardless of scheduling. A cancelled ctx stops dispatch and its error is
// returned.
func (a Analyzer) Analyze(ctx context.Context, g *support.Graph) (*Report, error) {
	workers := a.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ids := g.IDs()
	removable := make([]bool, len(ids))
	var falls []int
	if !a.SkipFalls {
		falls = make([]int, len(ids))
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, id := range ids {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			removable[i] = Removable(g, id)
			if falls != nil {
				falls[i] = FallCount(g, id)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := &Report{Removable: []int{}, Falls: falls}
	for i, ok := range removable {
		if ok {
			rep.Removable = append(rep.Removable, ids[i])
		}
	}
	for _, n := range falls {
		rep.TotalFalls += n
	}
	rep.Count = len(rep.Removable)
	return rep, nil
}
