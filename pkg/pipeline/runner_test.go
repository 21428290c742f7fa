package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// memCache is a counting in-memory cache.
type memCache struct {
	mu         sync.Mutex
	items      map[string][]byte
	gets, sets int
}

func newMemCache() *memCache { return &memCache{items: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.items[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.items[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func sampleInput() graph.Input {
	return graph.Input{
		GenreStats: []graph.GenreStat{
			{ID: "pop", Label: "Pop", TotalMinutes: 300},
			{ID: "rock", Label: "Rock", TotalMinutes: 200},
			{ID: "indie rock", Label: "Indie Rock", TotalMinutes: 120},
			{ID: "jazz", Label: "Jazz", TotalMinutes: 60},
		},
		Artists: []graph.ArtistGenre{
			{ArtistID: "a1", Genres: []string{"pop", "rock"}},
			{ArtistID: "a2", Genres: []string{"rock", "indie rock"}},
			{ArtistID: "a3", Genres: []string{"jazz", "pop"}},
		},
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	opts := Options{Algorithm: "force", Formats: []string{"png", "svg", "dot", "json"}, Anchors: true, Fit: true, Width: 320, Height: 200}
	res, err := r.Execute(ctx, sampleInput(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.NodeCount != 4 || res.Stats.EdgeCount != 3 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.GraphHash == "" {
		t.Error("GraphHash empty")
	}
	if res.CacheInfo != (CacheInfo{}) {
		t.Errorf("first run CacheInfo = %+v, want all misses", res.CacheInfo)
	}
	if len(res.Layout.Positions) != 4 || len(res.Layout.Anchors) != 4 || len(res.Layout.Categories) == 0 {
		t.Errorf("layout = %d positions, %d anchors, %d categories",
			len(res.Layout.Positions), len(res.Layout.Anchors), len(res.Layout.Categories))
	}
	if !bytes.HasPrefix(res.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
	if !strings.Contains(string(res.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact is not SVG")
	}
	if !strings.HasPrefix(string(res.Artifacts["dot"]), "graph G {") {
		t.Error("dot artifact is not DOT")
	}
	if _, err := graph.UnmarshalLayout(res.Artifacts["json"]); err != nil {
		t.Errorf("json artifact: %v", err)
	}

	again, err := r.Execute(ctx, sampleInput(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if want := (CacheInfo{BuildHit: true, LayoutHit: true, RenderHit: true}); again.CacheInfo != want {
		t.Errorf("second run CacheInfo = %+v, want %+v", again.CacheInfo, want)
	}
	if !bytes.Equal(again.Artifacts["svg"], res.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	fresh, _ := r.Execute(ctx, sampleInput(), opts)
	if fresh.CacheInfo.LayoutHit {
		t.Error("Refresh still read the cache")
	}
}

func TestRunnerLayoutDeterministic(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	data, _, err := r.Build(ctx, sampleInput(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, alg := range []string{"radial", "force", "tree"} {
		a, _, err := r.Layout(ctx, data, Options{Algorithm: alg, Seed: 7})
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		b, _, _ := r.Layout(ctx, data, Options{Algorithm: alg, Seed: 7})
		for id, p := range a.Positions {
			if b.Positions[id] != p {
				t.Errorf("%s: %s moved between runs", alg, id)
			}
		}
		if a.Graph == nil || a.Graph.NodeCount() != 4 {
			t.Errorf("%s: layout graph not embedded", alg)
		}
	}
}

func TestRunnerErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(ctx, sampleInput(), Options{Algorithm: "nope"}); err == nil {
		t.Error("unknown algorithm accepted")
	}
	if _, _, err := r.Render(ctx, graph.Layout{}, Options{Formats: []string{"svg"}}); err == nil {
		t.Error("layout without graph rendered")
	}
}

func TestRenderGraphviz(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(ctx, sampleInput(), Options{Formats: []string{"graphviz"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(string(res.Artifacts["graphviz"]), "<svg") {
		t.Errorf("graphviz artifact = %.80s", res.Artifacts["graphviz"])
	}
}
