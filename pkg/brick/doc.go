// Package brick provides the lattice geometry used by brickfall.
//
// A [Brick] is an axis-aligned run of unit cells in a 3D integer lattice:
// its two corners differ along at most one axis, so every brick is a
// horizontal bar, a vertical column or a single cube. The set of cells a
// brick occupies is its [Footprint].
//
// # Coordinates
//
// X and Y are horizontal, Z is vertical. The ground sits at z = 0, so the
// lowest cell a brick can occupy is z = 1.
//
// # Predicates
//
// The package offers the point and brick predicates the settling and
// support code are built on:
//
//   - [Point.StrictlyBelow]: same column, lower z
//   - [Point.ImmediatelyBelow]: same column, exactly one cell lower
//   - [CouldBeBelow]: some cell of a is strictly below some cell of b
//   - [DirectlySupports]: some cell of a is immediately below some cell of b
//
// All functions are pure; bricks are small values and are passed by value.
//
// # Input Format
//
// [Parse] reads one brick per line in the form x1,y1,z1~x2,y2,z2. The
// ordinal of the record becomes the brick's ID.
package brick
