package brick

import (
	"bytes"
	"testing"

	errs "github.com/matzehuels/brickfall/pkg/errors"
)

const sample = `1,0,1~1,2,1
0,0,2~2,0,2
0,2,3~2,2,3
0,0,4~0,2,4
2,0,5~2,2,5
0,1,6~2,1,6
1,1,8~1,1,9
`

func TestParse(t *testing.T) {
	bricks, err := ParseString(sample)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(bricks) != 7 {
		t.Fatalf("len = %d, want 7", len(bricks))
	}
	for i, b := range bricks {
		if b.ID != i {
			t.Errorf("bricks[%d].ID = %d", i, b.ID)
		}
	}
	if bricks[6].Axis() != AxisZ {
		t.Errorf("last brick axis = %v, want z", bricks[6].Axis())
	}
	if err := Validate(bricks); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestParseRoundTrip(t *testing.T) {
	bricks, err := ParseString(sample)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Format(&buf, bricks); err != nil {
		t.Fatal(err)
	}
	if buf.String() != sample {
		t.Errorf("Format() =\n%s\nwant\n%s", buf.String(), sample)
	}
}

func TestParseSkipsBlankAndComments(t *testing.T) {
	bricks, err := ParseString("# pile\n\n1,1,1~1,1,1\n\n2,2,2~2,2,3\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(bricks) != 2 || bricks[1].ID != 1 {
		t.Errorf("got %v, want two bricks with ids 0 and 1", bricks)
	}
}

func TestParseReversedCorners(t *testing.T) {
	b, err := ParseLine("3,0,4~1,0,4", 0)
	if err != nil {
		t.Fatal(err)
	}
	if b.Lo.X != 1 || b.Hi.X != 3 {
		t.Errorf("ParseLine() = %v, want corners ordered", b)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing tilde", "1,0,1,1,2,1"},
		{"two coordinates", "1,0~1,2,1"},
		{"not a number", "1,a,1~1,2,1"},
		{"negative", "-1,0,1~1,0,1"},
		{"zero z", "0,0,0~0,0,1"},
		{"diagonal", "0,0,1~1,1,1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString("0,0,1~0,0,1\n" + tt.input + "\n")
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.input)
			}
			if !errs.Is(err, errs.ErrCodeInvalidBrick) {
				t.Errorf("error code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidBrick)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		b       Brick
		wantErr bool
	}{
		{"cube", New(0, Point{0, 0, 1}, Point{0, 0, 1}), false},
		{"vertical", New(1, Point{2, 3, 4}, Point{2, 3, 9}), false},
		{"on ground level zero", New(2, Point{0, 0, 0}, Point{0, 0, 0}), true},
		{"reaches below ground", New(3, Point{0, 0, 2}, Point{0, 0, 0}), true},
		{"negative x", New(4, Point{-3, 0, 1}, Point{0, 0, 1}), true},
		{"negative y", Brick{ID: 5, Lo: Point{0, -1, 1}, Hi: Point{0, 0, 1}}, true},
		{"slab", New(6, Point{0, 0, 3}, Point{2, 2, 3}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check(%v) = %v, wantErr %v", tt.b, err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidBrick) {
				t.Errorf("error code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidBrick)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	overlapping := []Brick{
		New(0, Point{0, 0, 1}, Point{2, 0, 1}),
		New(1, Point{1, 0, 1}, Point{1, 0, 3}),
	}
	if err := Validate(overlapping); !errs.Is(err, errs.ErrCodeOverlap) {
		t.Errorf("Validate(overlapping) = %v, want OVERLAP", err)
	}

	dup := []Brick{
		New(0, Point{0, 0, 1}, Point{0, 0, 1}),
		New(0, Point{5, 5, 1}, Point{5, 5, 1}),
	}
	if err := Validate(dup); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Validate(duplicate ids) = %v, want INVALID_INPUT", err)
	}
}
