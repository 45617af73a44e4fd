package support

import (
	"errors"
	"maps"
	"slices"

	"github.com/matzehuels/brickfall/pkg/brick"
)

var (
	// ErrDuplicateBrick is returned by [Graph.AddBrick] when a brick with
	// the same ID is already present.
	ErrDuplicateBrick = errors.New("duplicate brick id")

	// ErrUnknownSupporter is returned by [Graph.AddEdge] when the lower
	// brick does not exist in the graph.
	ErrUnknownSupporter = errors.New("unknown supporting brick")

	// ErrUnknownSupported is returned by [Graph.AddEdge] when the upper
	// brick does not exist in the graph.
	ErrUnknownSupported = errors.New("unknown supported brick")

	// ErrSelfSupport is returned by [Graph.AddEdge] for an edge from a
	// brick to itself.
	ErrSelfSupport = errors.New("brick cannot support itself")

	// ErrNotTouching is returned by [Graph.Validate] when an edge joins two
	// bricks that do not touch.
	ErrNotTouching = errors.New("edge joins bricks that do not touch")

	// ErrFloating is returned by [Graph.Validate] when a brick above the
	// ground has no supporter.
	ErrFloating = errors.New("brick is neither on the ground nor supported")
)

// Edge records that From holds up To.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Graph is the support relation over a settled pile.
//
// The zero value is not usable - use [New], [Build] or [BuildNaive].
type Graph struct {
	bricks     map[int]brick.Brick
	order      []int         // brick IDs in insertion order
	edges      []Edge        // insertion order
	supported  map[int][]int // id -> bricks resting on it
	supporters map[int][]int // id -> bricks it rests on
	layers     map[int][]int // settled min z -> brick IDs
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		bricks:     make(map[int]brick.Brick),
		supported:  make(map[int][]int),
		supporters: make(map[int][]int),
		layers:     make(map[int][]int),
	}
}

// AddBrick adds a settled brick and indexes it by its lowest z.
func (g *Graph) AddBrick(b brick.Brick) error {
	if _, exists := g.bricks[b.ID]; exists {
		return ErrDuplicateBrick
	}
	g.bricks[b.ID] = b
	g.order = append(g.order, b.ID)
	g.layers[b.MinZ()] = append(g.layers[b.MinZ()], b.ID)
	return nil
}

// AddEdge records that from supports to. Both bricks must already exist.
// AddEdge does not check that the bricks touch; use [Graph.Validate].
func (g *Graph) AddEdge(from, to int) error {
	if from == to {
		return ErrSelfSupport
	}
	if _, ok := g.bricks[from]; !ok {
		return ErrUnknownSupporter
	}
	if _, ok := g.bricks[to]; !ok {
		return ErrUnknownSupported
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
	g.supported[from] = append(g.supported[from], to)
	g.supporters[to] = append(g.supporters[to], from)
	return nil
}

// Supports reports whether a holds up b.
func (g *Graph) Supports(a, b int) bool {
	return slices.Contains(g.supporters[b], a)
}

// Supporters returns the IDs of the bricks id rests on.
func (g *Graph) Supporters(id int) []int { return g.supporters[id] }

// Supported returns the IDs of the bricks resting on id.
func (g *Graph) Supported(id int) []int { return g.supported[id] }

// OnGround reports whether the brick's lowest cell touches the ground.
// Returns false for unknown IDs.
func (g *Graph) OnGround(id int) bool {
	b, ok := g.bricks[id]
	return ok && b.OnGround()
}

// Brick returns the settled brick with the given ID.
func (g *Graph) Brick(id int) (brick.Brick, bool) {
	b, ok := g.bricks[id]
	return b, ok
}

// Bricks returns all bricks in insertion order.
func (g *Graph) Bricks() []brick.Brick {
	out := make([]brick.Brick, len(g.order))
	for i, id := range g.order {
		out[i] = g.bricks[id]
	}
	return out
}

// IDs returns all brick IDs in insertion order. The slice must not be
// modified.
func (g *Graph) IDs() []int { return g.order }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// BrickCount returns the number of bricks.
func (g *Graph) BrickCount() int { return len(g.bricks) }

// EdgeCount returns the number of support edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Sources returns the bricks that rest on nothing, in insertion order. On
// a settled pile these are exactly the ground bricks.
func (g *Graph) Sources() []int {
	var out []int
	for _, id := range g.order {
		if len(g.supporters[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Sinks returns the bricks nothing rests on, in insertion order.
func (g *Graph) Sinks() []int {
	var out []int
	for _, id := range g.order {
		if len(g.supported[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// LayerIDs returns the distinct lowest-z values of all bricks, ascending.
func (g *Graph) LayerIDs() []int {
	return slices.Sorted(maps.Keys(g.layers))
}

// Layer returns the IDs of the bricks whose lowest cell is at height z, in
// insertion order.
func (g *Graph) Layer(z int) []int { return g.layers[z] }

// Validate checks that every edge joins touching bricks and that every
// brick above the ground has at least one supporter.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if !brick.DirectlySupports(g.bricks[e.From], g.bricks[e.To]) {
			return ErrNotTouching
		}
	}
	for _, id := range g.order {
		if !g.bricks[id].OnGround() && len(g.supporters[id]) == 0 {
			return ErrFloating
		}
	}
	return nil
}
