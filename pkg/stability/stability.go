package stability

import (
	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/settle"
	"github.com/matzehuels/brickfall/pkg/support"
)

// CountRemovable returns how many bricks of a settled pile could be removed
// without any other brick losing its last supporter.
func CountRemovable(settled []brick.Brick) int {
	g := support.Build(settled)
	n := 0
	for _, id := range g.IDs() {
		if Removable(g, id) {
			n++
		}
	}
	return n
}

// Removable reports whether every brick resting on id is on the ground or
// has a supporter other than id.
func Removable(g *support.Graph, id int) bool {
	for _, above := range g.Supported(id) {
		if g.OnGround(above) {
			continue
		}
		if !hasOtherSupporter(g, above, id) {
			return false
		}
	}
	return true
}

func hasOtherSupporter(g *support.Graph, id, except int) bool {
	for _, s := range g.Supporters(id) {
		if s != except {
			return true
		}
	}
	return false
}

// FallCount returns how many other bricks fall when id alone is removed.
// A brick off the ground falls once all of its supporters have fallen.
// Layers are visited bottom up so every supporter is decided first.
func FallCount(g *support.Graph, id int) int {
	start, ok := g.Brick(id)
	if !ok {
		return 0
	}
	fallen := map[int]bool{id: true}
	count := 0
	for _, z := range g.LayerIDs() {
		if z <= start.MinZ() {
			continue
		}
		for _, other := range g.Layer(z) {
			if g.OnGround(other) || !allFallen(g.Supporters(other), fallen) {
				continue
			}
			fallen[other] = true
			count++
		}
	}
	return count
}

func allFallen(supporters []int, fallen map[int]bool) bool {
	if len(supporters) == 0 {
		return false
	}
	for _, s := range supporters {
		if !fallen[s] {
			return false
		}
	}
	return true
}

// FallCountResettle removes the brick with the given ID, settles the rest
// and counts the bricks that moved.
func FallCountResettle(settled []brick.Brick, id int) (int, error) {
	rest := make([]brick.Brick, 0, len(settled))
	for _, b := range settled {
		if b.ID != id {
			rest = append(rest, b)
		}
	}
	res, err := settle.Run(rest)
	if err != nil {
		return 0, err
	}
	return res.Moved, nil
}
