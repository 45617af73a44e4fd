package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/brickfall/pkg/brick"
	bio "github.com/matzehuels/brickfall/pkg/io"
	"github.com/matzehuels/brickfall/pkg/observability"
)

const sample = `1,0,1~1,2,1
0,0,2~2,0,2
0,2,3~2,2,3
0,0,4~0,2,4
2,0,5~2,2,5
0,1,6~2,1,6
1,1,8~1,1,9
`

const settledSample = `1,0,1~1,2,1
0,0,2~2,0,2
0,2,2~2,2,2
0,0,3~0,2,3
2,0,3~2,2,3
0,1,4~2,1,4
1,1,5~1,1,6
`

// testEnv writes the sample pile and a config that keeps the cache and the
// history database inside a temp dir.
type testEnv struct {
	dir    string
	input  string
	config string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:    dir,
		input:  filepath.Join(dir, "input.txt"),
		config: filepath.Join(dir, "config.toml"),
	}
	cfg := "workers = 2\n\n" +
		"[cache]\nbackend = \"file\"\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n\n" +
		"[history]\nbackend = \"sqlite\"\npath = \"" + filepath.ToSlash(filepath.Join(dir, "history.db")) + "\"\n"
	if err := os.WriteFile(env.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(env.input, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(observability.Reset)
	return env
}

// run executes the CLI with args and returns what it wrote to stdout.
func (e testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeReport(t *testing.T, out string) reportJSON {
	t.Helper()
	var rep reportJSON
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report %q: %v", out, err)
	}
	return rep
}

func TestSettleToStdout(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "settle", env.input)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if out != settledSample {
		t.Errorf("settle output:\n%s\nwant:\n%s", out, settledSample)
	}
}

func TestSettleFromStdin(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, sample, "settle", "-", "--no-cache")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if out != settledSample {
		t.Errorf("settle output:\n%s", out)
	}
}

func TestSettleToFile(t *testing.T) {
	env := newTestEnv(t)
	dest := filepath.Join(env.dir, "settled.json.zst")
	out, err := env.run(t, "", "settle", env.input, "-o", dest)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !strings.Contains(out, dest) {
		t.Errorf("output does not name the file:\n%s", out)
	}

	got, err := bio.Import(dest)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	want, err := brick.ParseString(settledSample)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d bricks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("brick %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAnalyzeTable(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "analyze", env.input, "--ids")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{"Removable", "Chain reaction", "removable: 1, 2, 3, 4, 6"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeSaveAndHistory(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "analyze", env.input, "--json", "--save")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	rep := decodeReport(t, out)
	if rep.Removable != 5 || rep.TotalFalls != 7 || rep.Moved != 5 {
		t.Errorf("report = %+v", rep)
	}
	if rep.RunID == "" {
		t.Fatal("run was not saved")
	}

	out, err = env.run(t, "", "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(out, rep.RunID) {
		t.Errorf("history list missing %s:\n%s", rep.RunID, out)
	}

	out, err = env.run(t, "", "history", "show", rep.RunID)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	if !strings.Contains(out, env.input) || !strings.Contains(out, "1, 2, 3, 4, 6") {
		t.Errorf("history show:\n%s", out)
	}
}

func TestAnalyzeNoChain(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "analyze", env.input, "--json", "--no-chain")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if rep := decodeReport(t, out); rep.Removable != 5 || rep.TotalFalls != 0 || rep.Falls != nil {
		t.Errorf("report = %+v", rep)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	env := newTestEnv(t)
	bad := filepath.Join(env.dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("1,2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"analyze", filepath.Join(env.dir, "nope.txt")}, "nope.txt"},
		{"malformed", []string{"analyze", bad}, "INVALID_BRICK"},
		{"bad codec", []string{"analyze", env.input, "--codec", "xml"}, "INVALID_FORMAT"},
		{"negative workers", []string{"analyze", env.input, "--workers=-1"}, "INVALID_INPUT"},
		{"bad run id", []string{"history", "show", "42"}, "INVALID_RUN_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, "", tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "render", env.input, "-f", "dot")
	if err != nil {
		t.Fatalf("render dot: %v", err)
	}
	if !strings.HasPrefix(out, "digraph bricks {") {
		t.Errorf("dot output:\n%s", out)
	}

	out, err = env.run(t, "", "render", env.input, "-f", "elevation", "--view", "yz")
	if err != nil {
		t.Fatalf("render elevation: %v", err)
	}
	if !strings.Contains(out, "\n1.2 2\n") {
		t.Errorf("elevation output:\n%s", out)
	}

	dest := filepath.Join(env.dir, "pile.txt")
	if _, err := env.run(t, "", "render", env.input, "-o", dest); err != nil {
		t.Fatalf("render to file: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n555 4\n") {
		t.Errorf("elevation file:\n%s", data)
	}
}

func TestRenderRejectsFormat(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "", "render", env.input, "-f", "png"); err == nil {
		t.Fatal("expected error for png")
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(env.dir, "cache"); strings.TrimSpace(out) != filepath.ToSlash(want) && strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	if _, err := env.run(t, "", "settle", env.input); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(filepath.Join(env.dir, "cache"))
	if len(entries) == 0 {
		t.Fatal("settle wrote nothing to the cache")
	}

	if _, err := env.run(t, "", "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _ = os.ReadDir(filepath.Join(env.dir, "cache"))
	if len(entries) != 0 {
		t.Errorf("cache still has %d entries", len(entries))
	}
}

func TestConfigErrors(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(env.config, []byte("colour = \"red\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := env.run(t, "", "settle", env.input)
	if err == nil || !strings.Contains(err.Error(), "INVALID_CONFIG") {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"":            "svg",
		"out.svg":     "svg",
		"graph.dot":   "dot",
		"graph.GV":    "dot",
		"pile.txt":    "elevation",
		"whatever.md": "svg",
	}
	for path, want := range tests {
		if got := formatFromPath(path); got != want {
			t.Errorf("formatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
