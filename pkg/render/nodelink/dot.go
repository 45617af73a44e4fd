package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/brickfall/pkg/support"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the brick's corners to its label.
	Detailed bool
	// Highlight lists brick IDs drawn with an accent fill, typically the
	// removable ones.
	Highlight []int
}

// ToDOT converts a support graph to Graphviz DOT. Ground bricks get a grey
// fill; highlighted bricks a green one.
func ToDOT(g *support.Graph, opts Options) string {
	hl := make(map[int]bool, len(opts.Highlight))
	for _, id := range opts.Highlight {
		hl[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph bricks {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, b := range g.Bricks() {
		attrs := []string{fmt.Sprintf("label=%q", label(b.ID, b.String(), opts.Detailed))}
		switch {
		case hl[b.ID]:
			attrs = append(attrs, "fillcolor=\"#b7e4c7\"")
		case b.OnGround():
			attrs = append(attrs, "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  b%d [%s];\n", b.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, z := range g.LayerIDs() {
		ids := g.Layer(z)
		if len(ids) < 2 {
			continue
		}
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = "b" + strconv.Itoa(id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(names, "; "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  b%d -> b%d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(id int, corners string, detailed bool) string {
	if !detailed {
		return strconv.Itoa(id)
	}
	return strconv.Itoa(id) + "\n" + corners
}

// RenderSVG lays out and renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// whose viewBox starts at the origin, so the SVG scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
