package brick

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// maxLineBytes bounds a single input record.
const maxLineBytes = 64 * 1024

// Parse reads bricks from r, one x1,y1,z1~x2,y2,z2 record per line.
//
// Blank lines and lines starting with '#' are skipped and do not consume an
// ID; the n-th record read gets ID n (starting at 0). Corners may be given
// in either order. Parse fails with [errs.ErrCodeInvalidBrick] on the first
// malformed record, reporting its 1-based line number.
func Parse(r io.Reader) ([]Brick, error) {
	var bricks []Brick
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		b, err := ParseLine(s, len(bricks))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidBrick, err, "line %d", line)
		}
		bricks = append(bricks, b)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read bricks")
	}
	return bricks, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]Brick, error) {
	return Parse(strings.NewReader(s))
}

// ParseLine parses a single record and assigns it id.
func ParseLine(s string, id int) (Brick, error) {
	left, right, ok := strings.Cut(strings.TrimSpace(s), "~")
	if !ok {
		return Brick{}, errs.New(errs.ErrCodeInvalidBrick, "record %q: missing '~'", s)
	}
	a, err := parsePoint(left)
	if err != nil {
		return Brick{}, err
	}
	b, err := parsePoint(right)
	if err != nil {
		return Brick{}, err
	}
	brick := New(id, a, b)
	if err := Check(brick); err != nil {
		return Brick{}, errs.Wrap(errs.ErrCodeInvalidBrick, err, "record %q", s)
	}
	return brick, nil
}

func parsePoint(s string) (Point, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 3 {
		return Point{}, errs.New(errs.ErrCodeInvalidBrick, "point %q: want x,y,z", s)
	}
	var v [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Point{}, errs.Wrap(errs.ErrCodeInvalidBrick, err, "point %q", s)
		}
		if n < 0 {
			return Point{}, errs.New(errs.ErrCodeInvalidBrick, "point %q: negative coordinate", s)
		}
		v[i] = n
	}
	return Point{X: v[0], Y: v[1], Z: v[2]}, nil
}

// Format writes bricks in input form, one per line, in slice order.
func Format(w io.Writer, bricks []Brick) error {
	bw := bufio.NewWriter(w)
	for _, b := range bricks {
		if _, err := bw.WriteString(b.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
