package brick

import (
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// Check reports whether b is a well-formed brick: no negative coordinate,
// nothing below z = 1 and at most one axis spanned. b is expected in the
// ordered form [New] returns. Errors carry [errs.ErrCodeInvalidBrick].
func Check(b Brick) error {
	if b.Lo.X < 0 || b.Lo.Y < 0 || b.Lo.Z < 0 {
		return errs.New(errs.ErrCodeInvalidBrick, "brick %d: negative coordinate", b.ID)
	}
	if b.Lo.Z < 1 {
		return errs.New(errs.ErrCodeInvalidBrick, "brick %d: z must be at least 1", b.ID)
	}
	if spannedAxes(b) > 1 {
		return errs.New(errs.ErrCodeInvalidBrick, "brick %d: spans more than one axis", b.ID)
	}
	return nil
}

func spannedAxes(b Brick) int {
	n := 0
	if b.Lo.X != b.Hi.X {
		n++
	}
	if b.Lo.Y != b.Hi.Y {
		n++
	}
	if b.Lo.Z != b.Hi.Z {
		n++
	}
	return n
}

// Validate checks the collection-level input invariants: IDs are unique and
// no two bricks share a cell. Per-brick shape is checked by [Check].
func Validate(bricks []Brick) error {
	ids := make(map[int]struct{}, len(bricks))
	owner := make(map[Point]int)
	for _, b := range bricks {
		if _, dup := ids[b.ID]; dup {
			return errs.New(errs.ErrCodeInvalidInput, "duplicate brick id %d", b.ID)
		}
		ids[b.ID] = struct{}{}
		for p := range b.Footprint().Points() {
			if other, taken := owner[p]; taken {
				return errs.New(errs.ErrCodeOverlap, "bricks %d and %d both occupy %s", other, b.ID, p)
			}
			owner[p] = b.ID
		}
	}
	return nil
}

// Index maps each brick ID to its position in bricks.
func Index(bricks []Brick) map[int]int {
	idx := make(map[int]int, len(bricks))
	for i, b := range bricks {
		idx[b.ID] = i
	}
	return idx
}
