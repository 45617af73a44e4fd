package settle

import (
	"cmp"
	"slices"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// Result holds settled positions together with per-brick drop distances.
type Result struct {
	// Bricks are the settled bricks in input order.
	Bricks []brick.Brick
	// Drops[i] is how far Bricks[i] fell.
	Drops []int
	// Moved counts bricks with a non-zero drop.
	Moved int
}

// Run settles bricks and reports how far each one fell.
func Run(bricks []brick.Brick) (*Result, error) {
	settled, err := Settle(bricks)
	if err != nil {
		return nil, err
	}
	res := &Result{Bricks: settled, Drops: make([]int, len(bricks))}
	for i := range bricks {
		res.Drops[i] = bricks[i].MinZ() - settled[i].MinZ()
		if res.Drops[i] != 0 {
			res.Moved++
		}
	}
	return res, nil
}

// IsSettled reports whether no brick in bricks would fall any further.
func IsSettled(bricks []brick.Brick) bool {
	settled, err := Settle(bricks)
	if err != nil {
		return false
	}
	return slices.Equal(settled, bricks)
}

// Settle returns the resting position of every brick, in input order.
//
// Bricks are visited in increasing order of original lowest z, ties by ID.
// A brick on the ground stays where it is. Any other brick drops until its
// lowest cell sits one above the highest settled top among its candidates,
// the bricks that share a column with it and start strictly below it. With
// no candidates it falls to the ground.
func Settle(bricks []brick.Brick) ([]brick.Brick, error) {
	order := make([]int, len(bricks))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(bricks[a].MinZ(), bricks[b].MinZ()),
			cmp.Compare(bricks[a].ID, bricks[b].ID),
		)
	})

	columns := indexColumns(bricks)
	settled := make([]brick.Brick, len(bricks))
	done := make([]bool, len(bricks))

	for _, i := range order {
		b := bricks[i]
		if b.OnGround() {
			settled[i], done[i] = b, true
			continue
		}

		rest := 1
		seen := make(map[int]struct{})
		for _, col := range b.Columns() {
			for _, j := range columns[col] {
				if j == i || bricks[j].ID == b.ID {
					continue
				}
				if _, ok := seen[j]; ok {
					continue
				}
				// Every brick in a shared column that starts below b's top
				// cell in that column has a cell strictly below one of b's.
				if bricks[j].MinZ() >= b.MaxZ() {
					continue
				}
				seen[j] = struct{}{}
				if !done[j] || bricks[j].MaxZ() >= b.MinZ() {
					return nil, errs.New(errs.ErrCodeCycle,
						"brick %d depends on brick %d which has not settled; input bricks overlap", b.ID, bricks[j].ID)
				}
				rest = max(rest, settled[j].MaxZ()+1)
			}
		}

		settled[i], done[i] = b.MoveTo(rest), true
	}
	return settled, nil
}

// indexColumns maps every column to the positions of the bricks covering it.
func indexColumns(bricks []brick.Brick) map[brick.Column][]int {
	columns := make(map[brick.Column][]int)
	for i, b := range bricks {
		for _, col := range b.Columns() {
			columns[col] = append(columns[col], i)
		}
	}
	return columns
}
