// Package settle computes where bricks come to rest under gravity.
//
// Every brick falls straight down until any cell of its footprint lands on
// top of an already settled brick or on the ground (z = 1). Bricks never
// move sideways, rotate or tip.
//
// # Algorithms
//
// [Settle] walks the bricks in increasing order of their original lowest
// z. A brick can only be stopped by bricks that are strictly below it in a
// shared column, and those have a lower original z, so by the time a brick
// is visited everything that can stop it already has its final position.
// Candidates are looked up through a per-run column index.
//
// [SettleRecursive] computes the same positions with memoized recursion:
// settling a brick first settles every brick that could be below it. The
// memo is an arena scoped to the call and keyed by brick ID, so two
// geometrically identical bricks are still settled independently.
//
// Both functions return a new slice in input order and never modify their
// argument.
//
// # Malformed Input
//
// On well-formed input the "could be below" relation is acyclic. If a
// brick turns out to depend on itself (which only happens when bricks
// overlap) both functions stop with a CYCLE error from package errors.
package settle
