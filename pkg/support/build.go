package support

import (
	"cmp"
	"slices"

	"github.com/matzehuels/brickfall/pkg/brick"
)

// Build derives the support graph of a settled pile through a cell index:
// for every cell of every brick, the owner of the cell underneath (if any,
// and if it is another brick) supports it.
//
// Bricks are added in slice order and edges sorted by (From, To), so Build
// and [BuildNaive] produce identical graphs.
func Build(settled []brick.Brick) *Graph {
	g := New()
	owner := make(map[brick.Point]int)
	for _, b := range settled {
		_ = g.AddBrick(b)
		for p := range b.Footprint().Points() {
			owner[p] = b.ID
		}
	}

	seen := make(map[Edge]struct{})
	var edges []Edge
	for _, b := range settled {
		for p := range b.Footprint().Points() {
			below, ok := owner[p.Below()]
			if !ok || below == b.ID {
				continue
			}
			e := Edge{From: below, To: b.ID}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	addSorted(g, edges)
	return g
}

// BuildNaive derives the support graph by testing every ordered pair of
// bricks with [brick.DirectlySupports].
func BuildNaive(settled []brick.Brick) *Graph {
	g := New()
	for _, b := range settled {
		_ = g.AddBrick(b)
	}
	var edges []Edge
	for _, a := range settled {
		for _, b := range settled {
			if brick.DirectlySupports(a, b) {
				edges = append(edges, Edge{From: a.ID, To: b.ID})
			}
		}
	}
	addSorted(g, edges)
	return g
}

func addSorted(g *Graph, edges []Edge) {
	slices.SortFunc(edges, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})
	for _, e := range edges {
		_ = g.AddEdge(e.From, e.To)
	}
}
