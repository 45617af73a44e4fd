// Package elevation projects a pile onto a vertical plane and draws it as
// text, looking along the y axis (view "xz") or the x axis (view "yz").
//
// Every cell shows the ID of the brick occupying it, "." when the column is
// empty at that height and "?" when several bricks project onto it. The
// ground is drawn as a row of dashes at z = 0:
//
//	 x
//	.6. 6
//	.6. 5
//	555 4
//	3.4 3
//	??? 2
//	.0. 1
//	--- 0
package elevation

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// View names a projection plane.
type View string

const (
	ViewXZ View = "xz"
	ViewYZ View = "yz"
)

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(s)); v {
	case ViewXZ, ViewYZ:
		return v, nil
	case "":
		return ViewXZ, nil
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "unknown view %q (want xz or yz)", s)
}

// Cell sentinels returned by [Grid.At].
const (
	Empty = -1
	Mixed = -2
)

// Grid is a projected pile. Columns run from 0 to the widest brick and
// heights from 1 to the tallest.
type Grid struct {
	view   View
	width  int
	height int
	cells  []int // row-major, row 0 is z = 1
	maxID  int
}

// Project flattens bricks onto the plane of v. Cells below z = 1 or left of
// column 0 are dropped; bricks that pass [brick.Check] have none.
func Project(bricks []brick.Brick, v View) *Grid {
	g := &Grid{view: v}
	for _, b := range bricks {
		g.width = max(g.width, horizontal(b.Hi, v)+1)
		g.height = max(g.height, b.MaxZ())
		g.maxID = max(g.maxID, b.ID)
	}
	g.cells = make([]int, g.width*g.height)
	for i := range g.cells {
		g.cells[i] = Empty
	}
	for _, b := range bricks {
		seen := make(map[int]bool)
		for p := range b.Footprint().Points() {
			if p.Z < 1 || horizontal(p, v) < 0 {
				continue
			}
			i := (p.Z-1)*g.width + horizontal(p, v)
			if seen[i] {
				continue
			}
			seen[i] = true
			switch g.cells[i] {
			case Empty:
				g.cells[i] = b.ID
			default:
				g.cells[i] = Mixed
			}
		}
	}
	return g
}

func horizontal(p brick.Point, v View) int {
	if v == ViewYZ {
		return p.Y
	}
	return p.X
}

// View returns the projection plane.
func (g *Grid) View() View { return g.view }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the highest occupied z.
func (g *Grid) Height() int { return g.height }

// At returns the brick ID at column c and height z, [Empty] or [Mixed].
// Out of range positions are Empty.
func (g *Grid) At(c, z int) int {
	if c < 0 || c >= g.width || z < 1 || z > g.height {
		return Empty
	}
	return g.cells[(z-1)*g.width+c]
}

// CellWidth is the number of characters each cell occupies, enough for the
// largest brick ID.
func (g *Grid) CellWidth() int { return len(strconv.Itoa(g.maxID)) }

// Cell formats a single cell padded to [Grid.CellWidth].
func (g *Grid) Cell(c, z int) string {
	w := g.CellWidth()
	switch id := g.At(c, z); id {
	case Empty:
		return strings.Repeat(".", w)
	case Mixed:
		return strings.Repeat("?", w)
	default:
		return fmt.Sprintf("%*d", w, id)
	}
}

// Lines returns the drawing top to bottom: an axis header, one row per
// height and the ground row.
func (g *Grid) Lines() []string {
	w := g.CellWidth()
	zw := len(strconv.Itoa(g.height))
	lines := make([]string, 0, g.height+2)
	lines = append(lines, strings.Repeat(" ", g.width*w/2)+string(g.view[0]))

	var sb strings.Builder
	for z := g.height; z >= 1; z-- {
		sb.Reset()
		for c := range g.width {
			sb.WriteString(g.Cell(c, z))
		}
		fmt.Fprintf(&sb, " %*d", zw, z)
		lines = append(lines, sb.String())
	}
	lines = append(lines, strings.Repeat("-", g.width*w)+fmt.Sprintf(" %*d", zw, 0))
	return lines
}

// String returns the drawing as newline-terminated lines.
func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n") + "\n"
}

// Render projects bricks and writes the drawing to w.
func Render(w io.Writer, bricks []brick.Brick, v View) error {
	_, err := io.WriteString(w, Project(bricks, v).String())
	return err
}
