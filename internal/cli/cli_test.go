package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genregraph/internal/config"
	"github.com/matzehuels/genregraph/pkg/graph"
)

func sampleInput() graph.Input {
	return graph.Input{
		GenreStats: []graph.GenreStat{
			{ID: "pop", Label: "Pop", TotalMinutes: 300, PlayCount: 40},
			{ID: "rock", Label: "Rock", TotalMinutes: 200, PlayCount: 25},
			{ID: "dance pop", Label: "Dance Pop", TotalMinutes: 120},
			{ID: "indie rock", Label: "Indie Rock", TotalMinutes: 60},
		},
		Artists: []graph.ArtistGenre{
			{ArtistID: "a1", Genres: []string{"pop", "dance pop"}},
			{ArtistID: "a2", Genres: []string{"rock", "indie rock"}},
			{ArtistID: "a3", Genres: []string{"pop", "rock"}},
		},
	}
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	data, err := json.Marshal(sampleInput())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "listening.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// newTestCLI returns a CLI with caching disabled and output discarded.
func newTestCLI() *CLI {
	c := New(&bytes.Buffer{}, log.WarnLevel)
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheNone
	c.Config = cfg
	return c
}

func run(t *testing.T, c *CLI, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestPipelineCommands(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	c := newTestCLI()

	run(t, c, "build", input, "--top-k", "2")
	graphFile := filepath.Join(dir, "listening.graph.json")
	data, err := graph.ReadDataFile(graphFile)
	if err != nil {
		t.Fatalf("ReadDataFile: %v", err)
	}
	if data.NodeCount() != 4 {
		t.Errorf("nodes = %d, want 4", data.NodeCount())
	}
	if len(data.TopK) != 2 {
		t.Errorf("topK = %v, want 2 ids", data.TopK)
	}

	run(t, c, "layout", graphFile, "-a", "force", "--seed", "7")
	layoutFile := filepath.Join(dir, "listening.layout.json")
	l, err := graph.ReadLayoutFile(layoutFile)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if l.Algorithm != "force" || l.Seed != 7 {
		t.Errorf("layout = %s/%d, want force/7", l.Algorithm, l.Seed)
	}
	if len(l.Positions) != 4 || l.Graph == nil {
		t.Errorf("layout has %d positions, graph %v", len(l.Positions), l.Graph != nil)
	}

	run(t, c, "render", layoutFile, "-f", "svg,dot", "--width", "200", "--height", "120")
	for _, name := range []string{"listening.svg", "listening.dot"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if len(b) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRenderRequiresGraph(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bare.layout.json")
	if err := os.WriteFile(path, []byte(`{"algorithm":"radial","positions":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	root := newTestCLI().RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"render", path})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "no embedded graph") {
		t.Errorf("err = %v, want missing graph error", err)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c := newTestCLI()

	if got := strings.TrimSpace(run(t, c, "--config", path, "config", "path")); got != path {
		t.Errorf("config path = %q, want %q", got, path)
	}

	run(t, newTestCLI(), "--config", path, "config", "init")
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Layout.Algorithm != config.Default().Layout.Algorithm {
		t.Errorf("algorithm = %q, want default", cfg.Layout.Algorithm)
	}

	out := run(t, newTestCLI(), "config", "show")
	if !strings.Contains(out, "[layout]") || !strings.Contains(out, "[server]") {
		t.Errorf("config show missing sections:\n%s", out)
	}
}

func TestCachePath(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		xdg  string
		want string
	}{
		{"FromConfig", "/tmp/gg-cache", "", "/tmp/gg-cache"},
		{"XDG", "", "/tmp/xdg", filepath.Join("/tmp/xdg", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			c := newTestCLI()
			c.Config.Cache.Dir = tt.dir
			if got := strings.TrimSpace(run(t, c, "cache", "path")); got != tt.want {
				t.Errorf("cache path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "entry"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := newTestCLI()
	c.Config.Cache.Backend = config.CacheFile
	c.Config.Cache.Dir = dir
	run(t, c, "cache", "clear")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after clear", len(entries))
	}
}

func TestCachePrune(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "ab", "stale")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("not an entry"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := newTestCLI()
	c.Config.Cache.Backend = config.CacheFile
	c.Config.Cache.Dir = dir
	run(t, c, "cache", "prune")

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("unreadable entry survived prune: %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, suffix, want string
	}{
		{"", "me.json", ".graph.json", "me.graph.json"},
		{"", "me.graph.json", ".layout.json", "me.layout.json"},
		{"", "dir/me.layout.json", "", "dir/me"},
		{"", "me", ".graph.json", "me.graph.json"},
		{"out.json", "me.json", ".graph.json", "out.json"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.suffix); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.suffix, got, tt.want)
		}
	}
}

func TestServerConfig(t *testing.T) {
	c := newTestCLI()

	sc := c.serverConfig(serveFlags{})
	if sc.Addr != ":8080" || sc.FrameRate != 30 {
		t.Errorf("defaults = %q/%d, want :8080/30", sc.Addr, sc.FrameRate)
	}
	if sc.Viewport.Width != 1280 || sc.Viewport.Height != 720 {
		t.Errorf("viewport = %+v, want 1280x720", sc.Viewport)
	}

	sc = c.serverConfig(serveFlags{addr: "127.0.0.1:9000", port: 9100, origins: []string{"http://a"}})
	if sc.Addr != ":9100" {
		t.Errorf("addr = %q, want :9100", sc.Addr)
	}
	if len(sc.AllowedOrigins) != 1 || sc.AllowedOrigins[0] != "http://a" {
		t.Errorf("origins = %v", sc.AllowedOrigins)
	}
}
