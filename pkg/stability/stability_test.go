package stability

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/settle"
	"github.com/matzehuels/brickfall/pkg/support"
)

const sample = `1,0,1~1,2,1
0,0,2~2,0,2
0,2,3~2,2,3
0,0,4~0,2,4
2,0,5~2,2,5
0,1,6~2,1,6
1,1,8~1,1,9
`

func settled(t *testing.T, s string) []brick.Brick {
	t.Helper()
	bricks, err := brick.ParseString(s)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	out, err := settle.Settle(bricks)
	if err != nil {
		t.Fatalf("Settle() error: %v", err)
	}
	return out
}

func TestCountRemovable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"sample", sample, 5},
		{"stacked cubes", "0,0,1~0,0,1\n0,0,3~0,0,3\n0,0,5~0,0,5\n", 1},
		{"shared top", "0,0,1~0,0,1\n2,0,1~2,0,1\n0,0,2~2,0,2\n", 3},
		{"single", "0,0,1~2,0,1\n", 1},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountRemovable(settled(t, tt.input)); got != tt.want {
				t.Errorf("CountRemovable() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRemovableChain(t *testing.T) {
	// A holds B which holds C: only the top brick can go.
	g := support.Build(settled(t, "0,0,1~1,0,1\n0,0,2~1,0,2\n0,0,3~1,0,3\n"))
	want := []bool{false, false, true}
	for id, w := range want {
		if got := Removable(g, id); got != w {
			t.Errorf("Removable(%d) = %v, want %v", id, got, w)
		}
	}
}

func TestFallCountSample(t *testing.T) {
	g := support.Build(settled(t, sample))
	want := []int{6, 0, 0, 0, 0, 1, 0}
	for id, w := range want {
		if got := FallCount(g, id); got != w {
			t.Errorf("FallCount(%d) = %d, want %d", id, got, w)
		}
	}
	if got := FallCount(g, 42); got != 0 {
		t.Errorf("FallCount(unknown) = %d", got)
	}
}

func TestFallCountMatchesResettle(t *testing.T) {
	for seed := range uint64(20) {
		pile, err := settle.Settle(randomPile(seed, 25))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		g := support.Build(pile)
		for _, b := range pile {
			slow, err := FallCountResettle(pile, b.ID)
			if err != nil {
				t.Fatalf("seed %d: FallCountResettle(%d) error: %v", seed, b.ID, err)
			}
			if fast := FallCount(g, b.ID); fast != slow {
				t.Errorf("seed %d brick %d: FallCount = %d, resettle = %d", seed, b.ID, fast, slow)
			}
		}
	}
}

func TestAnalyzeSample(t *testing.T) {
	g := support.Build(settled(t, sample))
	for _, workers := range []int{0, 1, 3} {
		rep, err := Analyzer{Workers: workers}.Analyze(context.Background(), g)
		if err != nil {
			t.Fatalf("workers=%d: Analyze() error: %v", workers, err)
		}
		if !slices.Equal(rep.Removable, []int{1, 2, 3, 4, 6}) || rep.Count != 5 {
			t.Errorf("workers=%d: Removable = %v (count %d)", workers, rep.Removable, rep.Count)
		}
		if !slices.Equal(rep.Falls, []int{6, 0, 0, 0, 0, 1, 0}) || rep.TotalFalls != 7 {
			t.Errorf("workers=%d: Falls = %v (total %d)", workers, rep.Falls, rep.TotalFalls)
		}
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	g := support.Build(settled(t, sample))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Analyzer{}).Analyze(ctx, g); !errors.Is(err, context.Canceled) {
		t.Errorf("Analyze() error = %v, want context.Canceled", err)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	rep, err := Analyzer{}.Analyze(context.Background(), support.Build(nil))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Count != 0 || rep.TotalFalls != 0 || rep.Removable == nil {
		t.Errorf("empty report = %+v", rep)
	}
}

func TestAnalyzeAgreesWithCountRemovable(t *testing.T) {
	for seed := range uint64(20) {
		pile, err := settle.Settle(randomPile(seed, 40))
		if err != nil {
			t.Fatal(err)
		}
		rep, err := Analyzer{Workers: 4}.Analyze(context.Background(), support.Build(pile))
		if err != nil {
			t.Fatal(err)
		}
		if want := CountRemovable(pile); rep.Count != want {
			t.Errorf("seed %d: Analyze count %d, CountRemovable %d", seed, rep.Count, want)
		}
	}
}

// randomPile scatters n non-overlapping bricks over a 4x4 footprint.
func randomPile(seed uint64, n int) []brick.Brick {
	r := rand.New(rand.NewPCG(seed, ^seed))
	occupied := make(map[brick.Point]bool)
	var out []brick.Brick
	for len(out) < n {
		lo := brick.Point{X: r.IntN(4), Y: r.IntN(4), Z: 1 + r.IntN(30)}
		hi := lo
		switch length := r.IntN(3); r.IntN(3) {
		case 0:
			hi.X += length
		case 1:
			hi.Y += length
		default:
			hi.Z += length
		}
		b := brick.New(len(out), lo, hi)
		clash := false
		for p := range b.Footprint().Points() {
			clash = clash || occupied[p]
		}
		if clash {
			continue
		}
		for p := range b.Footprint().Points() {
			occupied[p] = true
		}
		out = append(out, b)
	}
	return out
}

func TestAnalyzeSkipFalls(t *testing.T) {
	g := support.Build(settled(t, sample))
	rep, err := Analyzer{SkipFalls: true}.Analyze(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Count != 5 || rep.Falls != nil || rep.TotalFalls != 0 {
		t.Errorf("report = %+v", rep)
	}
}
