package brick

import (
	"fmt"
	"iter"
)

// Point is a lattice cell.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// String returns the point as "x,y,z".
func (p Point) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

// Column returns the (x,y) column the point sits in.
func (p Point) Column() Column { return Column{X: p.X, Y: p.Y} }

// Below returns the cell directly underneath p.
func (p Point) Below() Point { return Point{X: p.X, Y: p.Y, Z: p.Z - 1} }

// StrictlyBelow reports whether p shares q's column at a lower height.
func (p Point) StrictlyBelow(q Point) bool {
	return p.X == q.X && p.Y == q.Y && p.Z < q.Z
}

// ImmediatelyBelow reports whether p is the cell directly underneath q.
func (p Point) ImmediatelyBelow(q Point) bool {
	return p.X == q.X && p.Y == q.Y && p.Z+1 == q.Z
}

// Column is a vertical line of cells identified by its x,y position.
type Column struct {
	X, Y int
}

// Axis names the direction along which a brick extends.
type Axis int

const (
	// AxisNone marks a single-cell brick.
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "none"
	}
}

// Brick is an identified axis-aligned run of cells from Lo to Hi inclusive.
//
// Lo is component-wise <= Hi and the corners differ along at most one axis.
// [New] and [Parse] establish the ordering; the single-axis rule is checked
// by [Parse] and otherwise assumed.
type Brick struct {
	ID int   `json:"id" yaml:"id"`
	Lo Point `json:"lo" yaml:"lo"`
	Hi Point `json:"hi" yaml:"hi"`
}

// New returns a brick with corners a and b ordered per axis.
func New(id int, a, b Point) Brick {
	lo := Point{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)}
	hi := Point{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)}
	return Brick{ID: id, Lo: lo, Hi: hi}
}

// String returns the brick in input form, "x1,y1,z1~x2,y2,z2".
func (b Brick) String() string {
	return b.Lo.String() + "~" + b.Hi.String()
}

// Axis returns the axis along which Lo and Hi differ. When several axes
// differ the first of x, y, z wins.
func (b Brick) Axis() Axis {
	switch {
	case b.Lo.X != b.Hi.X:
		return AxisX
	case b.Lo.Y != b.Hi.Y:
		return AxisY
	case b.Lo.Z != b.Hi.Z:
		return AxisZ
	default:
		return AxisNone
	}
}

// MinZ is the height of the brick's lowest cell.
func (b Brick) MinZ() int { return b.Lo.Z }

// MaxZ is the height of the brick's highest cell.
func (b Brick) MaxZ() int { return b.Hi.Z }

// DistanceToGround is how far the brick could fall on an empty lattice.
func (b Brick) DistanceToGround() int { return b.Lo.Z - 1 }

// OnGround reports whether the brick's lowest cell rests on the ground.
func (b Brick) OnGround() bool { return b.DistanceToGround() == 0 }

// Shift returns a copy of b moved down by dz cells. Negative dz moves up.
func (b Brick) Shift(dz int) Brick {
	b.Lo.Z -= dz
	b.Hi.Z -= dz
	return b
}

// MoveTo returns a copy of b moved so that its lowest cell sits at height z.
func (b Brick) MoveTo(z int) Brick {
	return b.Shift(b.Lo.Z - z)
}

// Footprint returns the cells the brick occupies.
func (b Brick) Footprint() Footprint {
	axis := b.Axis()
	n := 1
	switch axis {
	case AxisX:
		n = b.Hi.X - b.Lo.X + 1
	case AxisY:
		n = b.Hi.Y - b.Lo.Y + 1
	case AxisZ:
		n = b.Hi.Z - b.Lo.Z + 1
	}
	return Footprint{lo: b.Lo, axis: axis, n: n}
}

// Columns returns the distinct columns the brick covers, in footprint order.
// A vertical brick covers a single column.
func (b Brick) Columns() []Column {
	if b.Axis() == AxisZ || b.Axis() == AxisNone {
		return []Column{b.Lo.Column()}
	}
	f := b.Footprint()
	cols := make([]Column, 0, f.Len())
	for _, p := range f.All() {
		cols = append(cols, p.Column())
	}
	return cols
}

// Volume is the number of cells in the brick.
func (b Brick) Volume() int { return b.Footprint().Len() }

// Footprint is the ordered run of cells of a brick, from Lo towards Hi.
// The i-th cell is stable across calls, so indexes may be kept and used
// against a shifted copy of the same brick.
type Footprint struct {
	lo   Point
	axis Axis
	n    int
}

// Len returns the number of cells.
func (f Footprint) Len() int { return f.n }

// At returns the i-th cell. It panics if i is out of range.
func (f Footprint) At(i int) Point {
	if i < 0 || i >= f.n {
		panic(fmt.Sprintf("brick: footprint index %d out of range [0,%d)", i, f.n))
	}
	p := f.lo
	switch f.axis {
	case AxisX:
		p.X += i
	case AxisY:
		p.Y += i
	case AxisZ:
		p.Z += i
	}
	return p
}

// All yields every cell with its index. The sequence is lazy and may be
// ranged over any number of times.
func (f Footprint) All() iter.Seq2[int, Point] {
	return func(yield func(int, Point) bool) {
		for i := range f.n {
			if !yield(i, f.At(i)) {
				return
			}
		}
	}
}

// Points yields every cell.
func (f Footprint) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for i := range f.n {
			if !yield(f.At(i)) {
				return
			}
		}
	}
}

// CouldBeBelow reports whether a and b are distinct bricks and some cell of
// a is strictly below some cell of b.
func CouldBeBelow(a, b Brick) bool {
	return a.ID != b.ID && anyPair(a, b, Point.StrictlyBelow)
}

// DirectlySupports reports whether a and b are distinct bricks and some cell
// of a is immediately below some cell of b.
func DirectlySupports(a, b Brick) bool {
	return a.ID != b.ID && anyPair(a, b, Point.ImmediatelyBelow)
}

func anyPair(a, b Brick, pred func(Point, Point) bool) bool {
	fb := b.Footprint()
	for p := range a.Footprint().Points() {
		for q := range fb.Points() {
			if pred(p, q) {
				return true
			}
		}
	}
	return false
}
