package io

import (
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// Format is a serialization of a brick pile.
type Format string

const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// zstExt marks a compressed file.
const zstExt = ".zst"

// Codec pairs a format with optional zstd compression.
type Codec struct {
	Format     Format
	Compressed bool
}

// String returns the canonical extension-style name, e.g. "json.zst".
func (c Codec) String() string {
	if c.Compressed {
		return string(c.Format) + zstExt
	}
	return string(c.Format)
}

// ParseCodec parses names like "txt", "yaml" or "json.zst".
func ParseCodec(name string) (Codec, error) {
	var c Codec
	name = strings.ToLower(name)
	if base, ok := strings.CutSuffix(name, zstExt); ok {
		c.Compressed = true
		name = base
	}
	switch name {
	case "txt", "text", "":
		c.Format = FormatText
	case "json":
		c.Format = FormatJSON
	case "yaml", "yml":
		c.Format = FormatYAML
	default:
		return Codec{}, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q", name)
	}
	return c, nil
}

// DetectFormat derives a codec from a file name. Unknown extensions are
// treated as text.
func DetectFormat(path string) Codec {
	var c Codec
	lower := strings.ToLower(path)
	if base, ok := strings.CutSuffix(lower, zstExt); ok {
		c.Compressed = true
		lower = base
	}
	switch filepath.Ext(lower) {
	case ".json":
		c.Format = FormatJSON
	case ".yaml", ".yml":
		c.Format = FormatYAML
	default:
		c.Format = FormatText
	}
	return c
}
