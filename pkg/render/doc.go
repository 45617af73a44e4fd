// Package render groups the visual outputs of a settled pile.
//
//   - [nodelink]: the support graph as Graphviz DOT or SVG
//   - [elevation]: a text side view of the pile along x or y
//
// Both renderers are pure functions of a settled pile; the pipeline caches
// their output by the pile's hash.
package render
