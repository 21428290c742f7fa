package simulation

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/genregraph/pkg/builder"
	"github.com/matzehuels/genregraph/pkg/camera"
	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/layout"
	"github.com/matzehuels/genregraph/pkg/observability"
	"github.com/matzehuels/genregraph/pkg/physics"
	"github.com/matzehuels/genregraph/pkg/snapshot"
)

func testLayout(t *testing.T) graph.Layout {
	t.Helper()
	in := graph.Input{
		GenreStats: []graph.GenreStat{
			{ID: "pop", TotalMinutes: 300},
			{ID: "dance pop", TotalMinutes: 150},
			{ID: "rock", TotalMinutes: 200},
			{ID: "indie rock", TotalMinutes: 120},
		},
		Artists: []graph.ArtistGenre{
			{ArtistID: "a1", Genres: []string{"pop", "dance pop"}},
			{ArtistID: "a2", Genres: []string{"rock", "indie rock"}},
			{ArtistID: "a3", Genres: []string{"pop", "rock"}},
		},
	}
	data := builder.Build(in, nil)
	data.Nodes[0].Category = "Pop"
	data.Nodes[1].Category = "Rock"
	data.Nodes[2].Category = "Pop"
	data.Nodes[3].Category = "Rock"

	res, err := layout.Compute("radial", data.Nodes, data.Edges, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return graph.Layout{Algorithm: "radial", Seed: 1, Positions: res.Positions, Graph: &data}
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newSim(t *testing.T, store snapshot.Store) (*Simulation, *clock) {
	t.Helper()
	c := &clock{now: time.Unix(0, 0)}
	s, err := New(testLayout(t), store, Config{
		Viewport:   camera.Viewport{Width: 800, Height: 600},
		Transition: time.Second,
		Clock:      c.Now,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s, c
}

func TestNewRequiresGraph(t *testing.T) {
	if _, err := New(graph.Layout{}, nil, Config{}); err == nil {
		t.Error("New accepted a layout without graph")
	}
}

func TestTickAdvances(t *testing.T) {
	s, c := newSim(t, nil)
	before := s.Frame()
	var f Frame
	for i := 0; i < 10; i++ {
		c.now = c.now.Add(16 * time.Millisecond)
		f = s.Tick(c.now, 1.0/60)
	}
	if f.Seq != before.Seq+10 {
		t.Errorf("Seq = %d, want %d", f.Seq, before.Seq+10)
	}
	if len(f.Positions) != 4 {
		t.Fatalf("positions = %d, want 4", len(f.Positions))
	}
	for id, p := range f.Positions {
		if p.X < -400 || p.X > 400 || p.Y < -300 || p.Y > 300 {
			t.Errorf("%s escaped bounds: %+v", id, p)
		}
	}
	if len(s.Categories()) != 2 {
		t.Errorf("Categories = %v", s.Categories())
	}
}

func TestFocusAnimatesAndSnapshots(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemoryStore()
	s, c := newSim(t, store)

	if err := s.Focus(ctx, "Jazz"); err == nil {
		t.Error("unknown category accepted")
	}
	if err := s.Focus(ctx, "Pop"); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if f := s.Frame(); !f.Animating || f.Focus != "Pop" {
		t.Fatalf("after Focus: animating=%v focus=%q", f.Animating, f.Focus)
	}

	c.now = c.now.Add(2 * time.Second)
	f := s.Tick(c.now, 1.0/60)
	if f.Animating {
		t.Error("animation still running after its duration")
	}
	if f.Camera.Zoom != camera.CategoryZoom {
		t.Errorf("Zoom = %v, want %v", f.Camera.Zoom, camera.CategoryZoom)
	}

	if err := s.Focus(ctx, "Rock"); err != nil {
		t.Fatalf("Focus Rock: %v", err)
	}
	snap, err := store.Get(ctx, "Pop")
	if err != nil || snap == nil {
		t.Fatalf("Pop snapshot = %v, %v", snap, err)
	}
	if len(snap.Nodes) != 2 {
		t.Errorf("Pop snapshot nodes = %d, want 2", len(snap.Nodes))
	}

	if err := s.Overview(ctx); err != nil {
		t.Fatal(err)
	}
	if ok, _ := snapshot.Has(ctx, store, "Rock"); !ok {
		t.Error("leaving Rock did not save a snapshot")
	}
	c.now = c.now.Add(2 * time.Second)
	f = s.Tick(c.now, 1.0/60)
	if f.Focus != "" || f.Camera.Zoom != 1 || f.Camera.X != 0 || f.Camera.Y != 0 {
		t.Errorf("overview frame = %+v", f.Camera)
	}
}

func TestFocusRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemoryStore()
	s, _ := newSim(t, store)

	saved := &snapshot.Snapshot{Category: "Rock", Nodes: []snapshot.NodeState{{ID: "rock", X: 11, Y: -7}}}
	if err := store.Save(ctx, saved); err != nil {
		t.Fatal(err)
	}
	if err := s.Focus(ctx, "Rock"); err != nil {
		t.Fatal(err)
	}
	if got := s.Frame().Positions["rock"]; got != (graph.Position{X: 11, Y: -7}) {
		t.Errorf("rock = %+v, want restored (11,-7)", got)
	}
}

func TestPointerInteraction(t *testing.T) {
	s, c := newSim(t, nil)
	f := s.Frame()
	p := f.Positions["pop"]
	screen := camera.Forward(f.Camera, camera.Viewport{Width: 800, Height: 600}, p)

	if id := s.Hover(screen); id != "pop" {
		t.Errorf("Hover = %q, want pop", id)
	}
	if id := s.Select(screen); id != "pop" {
		t.Errorf("Select = %q, want pop", id)
	}
	if id := s.Select(screen); id != "" {
		t.Errorf("second Select = %q, want cleared", id)
	}
	if id := s.Hover(graph.Position{X: -1000, Y: -1000}); id != "" {
		t.Errorf("Hover empty space = %q", id)
	}

	target := graph.Position{X: 500, Y: 400}
	if !s.Drag("pop", target) {
		t.Fatal("Drag failed")
	}
	want := camera.Inverse(f.Camera, camera.Viewport{Width: 800, Height: 600}, target)
	c.now = c.now.Add(time.Second)
	if got := s.Tick(c.now, 1.0/60).Positions["pop"]; got != want {
		t.Errorf("pinned pop moved: %+v, want %+v", got, want)
	}
	if s.Drag("missing", target) {
		t.Error("Drag of unknown node succeeded")
	}
	s.Release("pop")
	if sc := s.Scene(); sc.Pinned["pop"] {
		t.Error("pop still pinned after Release")
	}
}

func TestZoomAndPan(t *testing.T) {
	s, _ := newSim(t, nil)
	st := s.Zoom(graph.Position{X: 400, Y: 300}, 100)
	if st.Zoom != MaxZoom {
		t.Errorf("Zoom = %v, want clamped %v", st.Zoom, MaxZoom)
	}
	st = s.Pan(60, 0)
	if st.X != -10 {
		t.Errorf("X after pan = %v, want -10", st.X)
	}
	s.ResetCamera()
	if f := s.Frame(); f.Camera.Zoom != 1 || f.Camera.X != 0 {
		t.Errorf("after reset = %+v", f.Camera)
	}
}

type focusLog struct {
	observability.Noop
	events []string
}

func (l *focusLog) OnFocus(_ context.Context, cat string, _ int) {
	l.events = append(l.events, "focus "+cat)
}

func (l *focusLog) OnSnapshotSave(_ context.Context, cat string, nodes int, err error) {
	l.events = append(l.events, fmt.Sprintf("save %s %d %v", cat, nodes, err))
}

func TestFocusHooks(t *testing.T) {
	defer observability.Reset()
	rec := &focusLog{}
	observability.Register(observability.Hooks{Simulation: rec})

	ctx := context.Background()
	s, _ := newSim(t, nil)
	for _, step := range []func() error{
		func() error { return s.Focus(ctx, "Pop") },
		func() error { return s.Focus(ctx, "Rock") },
		func() error { return s.Overview(ctx) },
		func() error { return s.Overview(ctx) },
	} {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}

	want := "focus Pop|save Pop 2 <nil>|focus Rock|save Rock 2 <nil>|focus "
	if got := strings.Join(rec.events, "|"); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestFocusCentersCategory(t *testing.T) {
	ctx := context.Background()
	s, c := newSim(t, nil)
	vp := camera.Viewport{Width: 800, Height: 600}

	for _, cat := range s.Categories() {
		if err := s.Focus(ctx, cat); err != nil {
			t.Fatal(err)
		}
		c.now = c.now.Add(2 * time.Second)
		f := s.Tick(c.now, 1.0/60)

		p := camera.Forward(f.Camera, vp, s.anchors.Centers[cat])
		if math.Abs(p.X-vp.Width/2) > 1e-6 || math.Abs(p.Y-vp.Height/2) > 1e-6 {
			t.Errorf("%s center projects to %v, want %v", cat, p, vp.Center())
		}
	}
}

func TestAnchorsInsideBounds(t *testing.T) {
	check := func(t *testing.T, s *Simulation) {
		t.Helper()
		for id, p := range s.anchors.Nodes {
			margin := s.radii[id] + physics.BoundsMargin
			maxX, maxY := s.bounds.Width/2-margin, s.bounds.Height/2-margin
			if math.Abs(p.X) > maxX+1e-9 || math.Abs(p.Y) > maxY+1e-9 {
				t.Errorf("anchor %s = %v outside ±(%v, %v)", id, p, maxX, maxY)
			}
		}
	}

	tests := []struct {
		name string
		vp   camera.Viewport
	}{
		{"Small", camera.Viewport{Width: 800, Height: 600}},
		{"Wide", camera.Viewport{Width: 1280, Height: 720}},
		{"Narrow", camera.Viewport{Width: 300, Height: 900}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := testLayout(t)
			// Anchors computed for a much larger canvas.
			far := layout.CategoryAnchors(l.Graph.Nodes, layout.AnchorOptions{Radius: 2000})
			l.Anchors, l.Categories = far.Nodes, far.Centers

			s, err := New(l, nil, Config{Viewport: tt.vp})
			if err != nil {
				t.Fatal(err)
			}
			check(t, s)

			s.Resize(camera.Viewport{Width: tt.vp.Width / 2, Height: tt.vp.Height / 2})
			check(t, s)
		})
	}
}

func TestFitAnchorsKeepsFittingAnchors(t *testing.T) {
	a := layout.Anchors{
		Nodes:   graph.Positions{"pop": {X: 10, Y: 5}},
		Centers: graph.Positions{"Pop": {X: 10, Y: 5}},
		Order:   []string{"Pop"},
	}
	got := fitAnchors(a, physics.Bounds{Width: 800, Height: 600}, map[string]float64{"pop": 8})
	if got.Nodes["pop"] != a.Nodes["pop"] {
		t.Errorf("fitted = %v, want unchanged %v", got.Nodes["pop"], a.Nodes["pop"])
	}
}
