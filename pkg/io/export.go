package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/brickfall/pkg/brick"
)

type document struct {
	Bricks []brick.Brick `json:"bricks" yaml:"bricks"`
}

// Write encodes bricks to w in the codec's format, compressing when asked.
func Write(w io.Writer, bricks []brick.Brick, c Codec) error {
	if !c.Compressed {
		return encode(w, bricks, c.Format)
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := encode(enc, bricks, c.Format); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func encode(w io.Writer, bricks []brick.Brick, f Format) error {
	doc := document{Bricks: bricks}
	if doc.Bricks == nil {
		doc.Bricks = []brick.Brick{}
	}
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return brick.Format(w, bricks)
	}
}

// Export writes bricks to path, picking the codec from its name.
func Export(path string, bricks []brick.Brick) error {
	return ExportAs(path, bricks, DetectFormat(path))
}

// ExportAs writes bricks to path with an explicit codec.
func ExportAs(path string, bricks []brick.Brick, c Codec) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, bricks, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
