// Package support derives which settled bricks hold up which others.
//
// # Overview
//
// Brick A supports brick B when some cell of A is immediately below some
// cell of B. On a settled pile this relation is exactly one layer deep: a
// brick is only ever held up by bricks whose top touches its bottom.
//
// [Build] materializes the relation as a [Graph] using a cell index, so the
// cost is linear in the number of cells. [BuildNaive] compares every pair
// of bricks with [brick.DirectlySupports] and exists as the reference the
// indexed version is tested against.
//
// # Querying
//
//	g := support.Build(settled)
//	g.Supports(a, b)   // does a hold up b?
//	g.Supporters(b)    // everything b rests on
//	g.Supported(a)     // everything resting on a
//
// Adjacency lists are sorted by brick ID and must be treated as read-only.
// A Graph is rebuilt for every settled pile and is not safe for concurrent
// mutation; concurrent reads are fine once it is built.
package support
