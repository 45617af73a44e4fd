// Package pkg provides the core libraries for brickfall.
//
// # Overview
//
// Brickfall takes a snapshot of sand bricks hanging in the air, lets them
// fall until every brick rests on the ground or on another brick, and then
// answers questions about the settled pile: which bricks could be removed
// without anything else moving, and how many bricks would fall if a given one
// disappeared. The pkg directory is organized into three areas:
//
//  1. Core: [brick], [settle], [support], [stability]
//  2. Orchestration: [pipeline], [render], [io]
//  3. Infrastructure: [cache], [history], [server], [observability], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	x1,y1,z1~x2,y2,z2 records (text, JSON or YAML, optionally zstd)
//	         ↓
//	    [brick] package (parse + validate)
//	         ↓
//	    [settle] package (drop every brick to rest)
//	         ↓
//	    [support] package (who holds up whom)
//	         ↓
//	    [stability] package (removable bricks, chain reactions)
//	         ↓
//	    report, DOT/SVG support graph, text elevation
//
// # Quick Start
//
//	bricks, _ := brick.ParseString(input)
//	settled, _ := settle.Settle(bricks)
//	fmt.Println(stability.CountRemovable(settled))
//
// With caching, history and chain reactions, go through the pipeline:
//
//	runner := pipeline.NewRunner(c, nil, store, logger)
//	res, _ := runner.Execute(ctx, pipeline.Options{Input: data, Save: true})
//	fmt.Println(res.Report.Count, res.Report.TotalFalls, res.RunID)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [brick] - Axis-aligned bricks on the integer grid: parsing, footprints,
// columns and overlap validation.
//
// [settle] - The settling simulator. [settle.Settle] processes bricks in
// order of their lowest z; [settle.SettleRecursive] is the memoized
// recursive formulation and yields the same result.
//
// [support] - The support graph of a settled pile, built from a per-column
// index of cell owners.
//
// [stability] - Removability and chain-reaction counts, with a bounded
// worker pool for large piles.
//
// ## Orchestration
//
// [pipeline] - parse → settle → support → analyze → render, used by the CLI
// and the HTTP API alike. Results are cached by content hash.
//
// [render/nodelink] - The support graph as Graphviz DOT or SVG.
//
// [render/elevation] - A text side view of the pile along x or y.
//
// [io] - Import and export of piles as text, JSON or YAML, each optionally
// zstd-compressed.
//
// ## Infrastructure
//
// [cache] - Result cache with file, Redis and null backends.
//
// [history] - Recorded runs in memory, SQLite or MongoDB.
//
// [server] - The HTTP API on top of a shared pipeline runner.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/settle/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [brick]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/brick
// [settle]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/settle
// [settle.Settle]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/settle#Settle
// [settle.SettleRecursive]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/settle#SettleRecursive
// [support]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/support
// [stability]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/stability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/render/nodelink
// [render/elevation]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/render/elevation
// [io]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/cache
// [history]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/history
// [server]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/errors
package pkg
