package elevation

import (
	"bytes"
	"slices"
	"testing"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

const settledSample = `1,0,1~1,2,1
0,0,2~2,0,2
0,2,2~2,2,2
0,0,3~0,2,3
2,0,3~2,2,3
0,1,4~2,1,4
1,1,5~1,1,6
`

func mustParse(t *testing.T, s string) []brick.Brick {
	t.Helper()
	bricks, err := brick.ParseString(s)
	if err != nil {
		t.Fatal(err)
	}
	return bricks
}

func TestLinesXZ(t *testing.T) {
	got := Project(mustParse(t, settledSample), ViewXZ).Lines()
	want := []string{
		" x",
		".6. 6",
		".6. 5",
		"555 4",
		"3.4 3",
		"??? 2",
		".0. 1",
		"--- 0",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Lines() =\n%q\nwant\n%q", got, want)
	}
}

func TestLinesYZ(t *testing.T) {
	got := Project(mustParse(t, settledSample), ViewYZ).Lines()
	want := []string{
		" y",
		".6. 6",
		".6. 5",
		".5. 4",
		"??? 3",
		"1.2 2",
		"000 1",
		"--- 0",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Lines() =\n%q\nwant\n%q", got, want)
	}
}

func TestWideIDs(t *testing.T) {
	bricks := []brick.Brick{
		brick.New(12, brick.Point{X: 1, Z: 1}, brick.Point{X: 1, Z: 1}),
	}
	g := Project(bricks, ViewXZ)
	if g.CellWidth() != 2 {
		t.Fatalf("CellWidth() = %d", g.CellWidth())
	}
	if got := g.Lines()[1]; got != "..12 1" {
		t.Errorf("row = %q", got)
	}
	if got := g.Lines()[2]; got != "---- 0" {
		t.Errorf("ground = %q", got)
	}
}

func TestAt(t *testing.T) {
	g := Project(mustParse(t, settledSample), ViewXZ)
	tests := []struct {
		c, z, want int
	}{
		{1, 1, 0},
		{0, 1, Empty},
		{0, 2, Mixed},
		{2, 3, 4},
		{9, 1, Empty},
		{0, 0, Empty},
		{0, 7, Empty},
	}
	for _, tt := range tests {
		if got := g.At(tt.c, tt.z); got != tt.want {
			t.Errorf("At(%d,%d) = %d, want %d", tt.c, tt.z, got, tt.want)
		}
	}
	if g.Width() != 3 || g.Height() != 6 {
		t.Errorf("size = %dx%d", g.Width(), g.Height())
	}
}

func TestProjectClipsOutOfRangeCells(t *testing.T) {
	bricks := []brick.Brick{
		{ID: 0, Lo: brick.Point{X: -3, Y: 0, Z: 1}, Hi: brick.Point{X: 1, Y: 0, Z: 1}},
		{ID: 1, Lo: brick.Point{X: 0, Y: 0, Z: 0}, Hi: brick.Point{X: 0, Y: 0, Z: 2}},
	}
	g := Project(bricks, ViewXZ)
	if g.Width() != 2 || g.Height() != 2 {
		t.Fatalf("size = %dx%d, want 2x2", g.Width(), g.Height())
	}
	if got := g.At(0, 1); got != Mixed {
		t.Errorf("At(0,1) = %d, want Mixed", got)
	}
	if got := g.At(1, 1); got != 0 {
		t.Errorf("At(1,1) = %d, want 0", got)
	}
	if got := g.At(0, 2); got != 1 {
		t.Errorf("At(0,2) = %d, want 1", got)
	}
}

func TestParseView(t *testing.T) {
	for in, want := range map[string]View{"xz": ViewXZ, "YZ": ViewYZ, "": ViewXZ} {
		if got, err := ParseView(in); err != nil || got != want {
			t.Errorf("ParseView(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseView("xy"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ParseView(xy) error = %v", err)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, mustParse(t, "0,0,1~1,0,1\n"), ViewXZ); err != nil {
		t.Fatal(err)
	}
	if want := " x\n00 1\n-- 0\n"; buf.String() != want {
		t.Errorf("Render() = %q, want %q", buf.String(), want)
	}
}
