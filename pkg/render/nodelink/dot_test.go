package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/support"
)

func stack(t *testing.T) *support.Graph {
	t.Helper()
	// 0 is on the ground; 1 and 2 rest on it side by side.
	bricks, err := brick.ParseString("0,0,1~2,0,1\n0,0,2~0,0,2\n2,0,2~2,0,2\n")
	if err != nil {
		t.Fatal(err)
	}
	return support.Build(bricks)
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(stack(t), Options{})

	for _, want := range []string{
		"digraph bricks",
		"rankdir=BT",
		`b0 [label="0", fillcolor=lightgrey]`,
		`b1 [label="1"]`,
		"{ rank=same; b1; b2; }",
		"b0 -> b1;",
		"b0 -> b2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(stack(t), Options{Detailed: true})
	if !strings.Contains(dot, `label="0\n0,0,1~2,0,1"`) {
		t.Errorf("detailed label missing corners:\n%s", dot)
	}
}

func TestToDOTHighlight(t *testing.T) {
	dot := ToDOT(stack(t), Options{Highlight: []int{2, 0}})
	if !strings.Contains(dot, `b2 [label="2", fillcolor="#b7e4c7"]`) {
		t.Errorf("b2 not highlighted:\n%s", dot)
	}
	if strings.Contains(dot, "lightgrey") {
		t.Error("highlight should win over the ground fill")
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(support.Build(nil), Options{})
	if strings.Contains(dot, "->") || strings.Contains(dot, "rank=same") {
		t.Errorf("empty graph produced edges or ranks:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(stack(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "not valid DOT {{{"); err == nil {
		t.Error("RenderSVG() accepted invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("input without viewBox changed: %s", got)
	}
}
