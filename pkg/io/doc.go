// Package io reads and writes brick piles in text, JSON and YAML, each
// optionally zstd-compressed.
//
// # Formats
//
// Text is the puzzle input form, one brick per line:
//
//	1,0,1~1,2,1
//	0,0,2~2,0,2
//
// JSON and YAML carry explicit IDs so a pile survives reordering:
//
//	{
//	  "bricks": [
//	    {"id": 0, "lo": {"x": 1, "y": 0, "z": 1}, "hi": {"x": 1, "y": 2, "z": 1}}
//	  ]
//	}
//
// # Detection
//
// [DetectFormat] maps a file name to a [Format]: ".json", ".yaml"/".yml"
// and anything else as text. A trailing ".zst" selects compression on top,
// so "pile.json.zst" is compressed JSON.
//
// Readers check each brick with [brick.Check] but not the pile as a whole;
// run [brick.Validate] afterwards.
package io
