// Package nodelink draws the support graph as a node-link diagram.
//
// Every brick is a node and every support relation an arrow from the lower
// brick to the one resting on it. The layout runs bottom to top, with bricks
// that start at the same height placed on the same rank, so the picture
// reads like the pile itself.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Highlight: removable})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]; no external binaries are needed.
package nodelink
