package pipeline

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/cache"
	bio "github.com/matzehuels/brickfall/pkg/io"
)

// Parse decodes opts.Input and, unless opts.SkipValidate is set, rejects
// duplicate IDs and overlapping bricks.
func Parse(opts Options) ([]brick.Brick, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	bricks, err := bio.Read(bytes.NewReader(opts.Input), opts.codec)
	if err != nil {
		return nil, err
	}
	if !opts.SkipValidate {
		if err := brick.Validate(bricks); err != nil {
			return nil, err
		}
	}
	return bricks, nil
}

// HashBricks returns a content hash of a pile that ignores its encoding, so
// the same pile read from text or JSON shares cache entries.
func HashBricks(bricks []brick.Brick) string {
	data, _ := json.Marshal(bricks)
	return cache.Hash(data)
}
