package settle

import (
	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

type visit uint8

const (
	unvisited visit = iota
	inProgress
	visited
)

// contact is one way a brick could come to rest: footprint cell target of
// the falling brick lands on footprint cell support of brick cand.
type contact struct {
	cand    int // position of the supporting brick
	target  int // footprint index in the falling brick
	support int // footprint index in the supporting brick
}

// arena is the memo for a single SettleRecursive call.
type arena struct {
	bricks  []brick.Brick
	pos     map[int]int // brick ID -> position in bricks
	state   []visit
	settled []brick.Brick
}

// SettleRecursive computes the same positions as [Settle] by memoized
// recursion over the original "could be below" relation.
//
// For a brick that is not on the ground, every pair of a bottom cell p of
// its footprint and a strictly lower cell q of a candidate brick is a
// possible contact.
// The candidate is settled first; the contact then places p one above the
// settled q. The contact that leaves the brick highest wins, ties going to
// the lowest candidate ID and then the lowest footprint index of p. Without
// contacts the brick falls to the ground.
func SettleRecursive(bricks []brick.Brick) ([]brick.Brick, error) {
	a := &arena{
		bricks:  bricks,
		pos:     make(map[int]int, len(bricks)),
		state:   make([]visit, len(bricks)),
		settled: make([]brick.Brick, len(bricks)),
	}
	for i, b := range bricks {
		a.pos[b.ID] = i
	}

	out := make([]brick.Brick, len(bricks))
	for _, b := range bricks {
		s, err := a.settle(b.ID)
		if err != nil {
			return nil, err
		}
		out[a.pos[b.ID]] = s
	}
	return out, nil
}

func (a *arena) settle(id int) (brick.Brick, error) {
	i := a.pos[id]
	switch a.state[i] {
	case visited:
		return a.settled[i], nil
	case inProgress:
		return brick.Brick{}, errs.New(errs.ErrCodeCycle, "brick %d is below itself; input bricks overlap", id)
	}

	b := a.bricks[i]
	if b.OnGround() {
		a.state[i], a.settled[i] = visited, b
		return b, nil
	}
	a.state[i] = inProgress

	// Settle everything that could be below b first. This is also where a
	// cycle in the below relation shows up.
	var cands []int
	for j, other := range a.bricks {
		if !brick.CouldBeBelow(other, b) {
			continue
		}
		if _, err := a.settle(other.ID); err != nil {
			return brick.Brick{}, err
		}
		cands = append(cands, j)
	}

	drop := b.DistanceToGround()
	var best *contact
	for _, c := range a.contacts(b, cands) {
		// Where c would put the falling cell, and so how far the brick drops.
		oldZ := b.Footprint().At(c.target).Z
		newZ := a.settled[c.cand].Footprint().At(c.support).Z + 1
		if d := oldZ - newZ; best == nil || d < drop || (d == drop && a.better(c, *best)) {
			best, drop = &c, d
		}
	}

	s := b.Shift(drop)
	a.state[i], a.settled[i] = visited, s
	return s, nil
}

// contacts lists every (bottom cell of b, strictly lower cell of a
// candidate) pair in input order of the candidates.
func (a *arena) contacts(b brick.Brick, cands []int) []contact {
	var out []contact
	for _, j := range cands {
		other := a.bricks[j]
		for ti, p := range b.Footprint().All() {
			// Only a brick's bottom cells can land on anything.
			if p.Z != b.MinZ() {
				continue
			}
			for si, q := range other.Footprint().All() {
				if q.StrictlyBelow(p) {
					out = append(out, contact{cand: j, target: ti, support: si})
				}
			}
		}
	}
	return out
}

func (a *arena) better(c, than contact) bool {
	ci, ti := a.bricks[c.cand].ID, a.bricks[than.cand].ID
	if ci != ti {
		return ci < ti
	}
	return c.target < than.target
}
