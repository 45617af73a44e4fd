package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// Read decodes a pile from r. Text input gets sequential IDs; JSON and YAML
// keep the IDs they carry. Read does not close r.
func Read(r io.Reader, c Codec) ([]brick.Brick, error) {
	if !c.Compressed {
		return decode(r, c.Format)
	}
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "zstd reader")
	}
	defer dec.Close()
	return decode(dec, c.Format)
}

func decode(r io.Reader, f Format) ([]brick.Brick, error) {
	var doc document
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return brick.Parse(r)
	}
	return normalize(doc.Bricks)
}

// normalize reorders corners that were written reversed and applies the
// same per-brick checks as the text parser.
func normalize(bricks []brick.Brick) ([]brick.Brick, error) {
	out := make([]brick.Brick, len(bricks))
	for i, b := range bricks {
		out[i] = brick.New(b.ID, b.Lo, b.Hi)
		if err := brick.Check(out[i]); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidBrick, err, "bricks[%d]", i)
		}
	}
	return out, nil
}

// Import reads a pile from path, picking the codec from its name. The path
// "-" reads standard input as text.
func Import(path string) ([]brick.Brick, error) {
	if path == "-" {
		return brick.Parse(os.Stdin)
	}
	return ImportAs(path, DetectFormat(path))
}

// ImportAs reads a pile from path with an explicit codec.
func ImportAs(path string, c Codec) ([]brick.Brick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, c)
}
