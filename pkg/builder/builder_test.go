package builder

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/matzehuels/genregraph/pkg/category"
	"github.com/matzehuels/genregraph/pkg/graph"
)

func popRock() []graph.GenreStat {
	return []graph.GenreStat{
		{ID: "pop", TotalMinutes: 100},
		{ID: "rock", TotalMinutes: 50},
	}
}

func TestBuildSingleArtist(t *testing.T) {
	d := Build(graph.Input{
		GenreStats: popRock(),
		Artists:    []graph.ArtistGenre{{ArtistID: "a1", Genres: []string{"pop", "rock"}}},
	}, nil)

	if len(d.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(d.Edges))
	}
	e := d.Edges[0]
	if e.ID != "pop__rock" || e.Source != "pop" || e.Target != "rock" {
		t.Errorf("edge = %s (%s→%s), want pop__rock (pop→rock)", e.ID, e.Source, e.Target)
	}
	if e.Weight != 1 || e.Kind != graph.KindMultiGenre {
		t.Errorf("edge weight/kind = %d/%s, want 1/multi-genre", e.Weight, e.Kind)
	}
	if !reflect.DeepEqual(e.Examples, []string{"a1"}) {
		t.Errorf("examples = %v, want [a1]", e.Examples)
	}
	for _, n := range d.Nodes {
		if n.Degree != 1 {
			t.Errorf("%s degree = %d, want 1", n.ID, n.Degree)
		}
	}
}

func TestBuildRepeatedPair(t *testing.T) {
	d := Build(graph.Input{
		GenreStats: popRock(),
		Artists: []graph.ArtistGenre{
			{ArtistID: "a1", Genres: []string{"pop", "rock"}},
			{ArtistID: "a2", Genres: []string{"rock", "pop"}},
		},
	}, nil)

	if len(d.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(d.Edges))
	}
	if d.Edges[0].Weight != 2 || d.Edges[0].Kind != graph.KindMultiGenre {
		t.Errorf("edge = %d/%s, want 2/multi-genre", d.Edges[0].Weight, d.Edges[0].Kind)
	}
	if !reflect.DeepEqual(d.Edges[0].Examples, []string{"a1", "a2"}) {
		t.Errorf("examples = %v, want [a1 a2]", d.Edges[0].Examples)
	}
}

func TestBuildCollabOnly(t *testing.T) {
	d := Build(graph.Input{
		GenreStats: popRock(),
		Artists: []graph.ArtistGenre{
			{ArtistID: "a1", Genres: []string{"pop"}},
			{ArtistID: "a2", Genres: []string{"rock"}},
		},
		CollabTracks: []graph.CollabTrack{{TrackID: "t1", ArtistIDs: []string{"a1", "a2"}}},
	}, nil)

	if len(d.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(d.Edges))
	}
	e := d.Edges[0]
	if e.ID != "pop__rock" || e.Weight != 1 || e.Kind != graph.KindCollab {
		t.Errorf("edge = %s %d/%s, want pop__rock 1/collab", e.ID, e.Weight, e.Kind)
	}
	if !reflect.DeepEqual(e.Examples, []string{"t1"}) {
		t.Errorf("examples = %v, want [t1]", e.Examples)
	}
}

func TestBuildMixedKind(t *testing.T) {
	d := Build(graph.Input{
		GenreStats: popRock(),
		Artists: []graph.ArtistGenre{
			{ArtistID: "a1", Genres: []string{"pop", "rock"}},
			{ArtistID: "a2", Genres: []string{"rock"}},
		},
		CollabTracks: []graph.CollabTrack{{TrackID: "t1", ArtistIDs: []string{"a1", "a2"}}},
	}, nil)

	e := d.Edges[0]
	if e.Weight != 2 || e.Kind != graph.KindMixed {
		t.Errorf("edge = %d/%s, want 2/mixed", e.Weight, e.Kind)
	}
	if !reflect.DeepEqual(e.Examples, []string{"a1", "t1"}) {
		t.Errorf("examples = %v, want [a1 t1]", e.Examples)
	}
}

func TestBuildSkipsSingleArtistCollab(t *testing.T) {
	d := Build(graph.Input{
		GenreStats:   popRock(),
		Artists:      []graph.ArtistGenre{{ArtistID: "a1", Genres: []string{"pop", "rock"}}},
		CollabTracks: []graph.CollabTrack{{TrackID: "t1", ArtistIDs: []string{"a1"}}},
	}, nil)
	if d.Edges[0].Kind != graph.KindMultiGenre || d.Edges[0].Weight != 1 {
		t.Errorf("edge = %d/%s, want 1/multi-genre", d.Edges[0].Weight, d.Edges[0].Kind)
	}
}

func TestBuildEmpty(t *testing.T) {
	d := Build(graph.Input{}, nil)
	if d.Nodes == nil || d.Edges == nil || d.Adjacency == nil || d.TopK == nil {
		t.Fatalf("empty build should produce non-nil collections: %+v", d)
	}
	if len(d.Nodes) != 0 || len(d.TopK) != 0 {
		t.Errorf("empty build = %d nodes, topK %v", len(d.Nodes), d.TopK)
	}
}

func TestBuildNormalizesStats(t *testing.T) {
	d := Build(graph.Input{
		GenreStats: []graph.GenreStat{
			{ID: "zero", TotalMinutes: 0},
			{ID: "neg", TotalMinutes: -5},
			{ID: "b", Label: "Beta", TotalMinutes: 10},
			{ID: "a", Label: "Alpha", TotalMinutes: 10},
			{ID: "c", TotalMinutes: 30},
			{ID: "c", Label: "Dup", TotalMinutes: 5},
		},
	}, nil)

	var ids []string
	for _, n := range d.Nodes {
		ids = append(ids, n.ID)
	}
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("node order = %v, want %v", ids, want)
	}
	if d.Nodes[0].Label != "c" {
		t.Errorf("missing label should default to id, got %q", d.Nodes[0].Label)
	}
}

func TestBuildDropsUnknownGenres(t *testing.T) {
	d := Build(graph.Input{
		GenreStats: popRock(),
		Artists:    []graph.ArtistGenre{{ArtistID: "a1", Genres: []string{"pop", "rock", "jazz"}}},
	}, nil)
	if len(d.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(d.Nodes))
	}
	if len(d.Edges) != 1 || d.Edges[0].ID != "pop__rock" {
		t.Errorf("edges = %v, want only pop__rock", d.Edges)
	}
	if _, ok := d.Adjacency["jazz"]; ok {
		t.Error("unknown genre should have no adjacency list")
	}
}

func TestBuildDuplicateGenresInArtist(t *testing.T) {
	d := Build(graph.Input{
		GenreStats: popRock(),
		Artists:    []graph.ArtistGenre{{ArtistID: "a1", Genres: []string{"pop", "pop", "", "rock"}}},
	}, nil)
	if len(d.Edges) != 1 || d.Edges[0].Weight != 1 {
		t.Errorf("edges = %+v, want one edge of weight 1", d.Edges)
	}
}

func TestCanonicalEdgeIdentity(t *testing.T) {
	stats := []graph.GenreStat{{ID: "x", TotalMinutes: 3}, {ID: "y", TotalMinutes: 4}}
	fwd := Build(graph.Input{GenreStats: stats, Artists: []graph.ArtistGenre{{ArtistID: "a", Genres: []string{"x", "y"}}}}, nil)
	rev := Build(graph.Input{GenreStats: stats, Artists: []graph.ArtistGenre{{ArtistID: "a", Genres: []string{"y", "x"}}}}, nil)
	if !reflect.DeepEqual(fwd.Edges, rev.Edges) {
		t.Errorf("edges differ: %+v vs %+v", fwd.Edges, rev.Edges)
	}
}

func TestGraphInvariants(t *testing.T) {
	d := Build(sampleInput(), nil)

	seen := map[string]bool{}
	for _, e := range d.Edges {
		if seen[e.ID] {
			t.Errorf("duplicate edge %s", e.ID)
		}
		seen[e.ID] = true
		if e.Weight < 1 {
			t.Errorf("edge %s weight = %d, want >= 1", e.ID, e.Weight)
		}
		if e.Source >= e.Target {
			t.Errorf("edge %s not canonical", e.ID)
		}
		if !hasEntry(d.Adjacency[e.Source], e.Target, e.Weight) || !hasEntry(d.Adjacency[e.Target], e.Source, e.Weight) {
			t.Errorf("adjacency not symmetric for %s", e.ID)
		}
	}

	for _, n := range d.Nodes {
		list, ok := d.Adjacency[n.ID]
		if !ok {
			t.Errorf("node %s has no adjacency list", n.ID)
		}
		if n.Degree != len(list) {
			t.Errorf("%s degree = %d, adjacency = %d", n.ID, n.Degree, len(list))
		}
		for i := 1; i < len(list); i++ {
			a, b := list[i-1], list[i]
			if a.Weight < b.Weight || (a.Weight == b.Weight && a.NeighborID > b.NeighborID) {
				t.Errorf("%s adjacency unsorted at %d: %+v, %+v", n.ID, i, a, b)
			}
		}
		if n.Size < DefaultMinSize || n.Size > DefaultMaxSize {
			t.Errorf("%s size = %v out of bounds", n.ID, n.Size)
		}
	}

	for i := 1; i < len(d.Edges); i++ {
		a, b := d.Edges[i-1], d.Edges[i]
		if a.Weight < b.Weight || (a.Weight == b.Weight && a.ID > b.ID) {
			t.Errorf("edges unsorted at %d: %s, %s", i, a.ID, b.ID)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := Build(sampleInput(), nil)
	b := Build(sampleInput(), nil)
	if !reflect.DeepEqual(a, b) {
		t.Error("Build is not deterministic")
	}
}

func TestSizePolicies(t *testing.T) {
	in := graph.Input{
		GenreStats: []graph.GenreStat{
			{ID: "hub", TotalMinutes: 1600},
			{ID: "leaf", TotalMinutes: 4},
			{ID: "mid", TotalMinutes: 100},
		},
		Artists: []graph.ArtistGenre{
			{ArtistID: "a1", Genres: []string{"hub", "leaf"}},
			{ArtistID: "a2", Genres: []string{"hub", "mid"}},
		},
	}

	byDegree := Build(in, nil)
	sizes := map[string]float64{}
	for _, n := range byDegree.Nodes {
		sizes[n.ID] = n.Size
	}
	if sizes["hub"] != DefaultMaxSize || sizes["leaf"] != DefaultMinSize {
		t.Errorf("degree sizes = %v, want hub=%v leaf=%v", sizes, DefaultMaxSize, DefaultMinSize)
	}

	bySqrt := Build(in, &Options{SizePolicy: SizeBySqrtMinutes})
	for _, n := range bySqrt.Nodes {
		sizes[n.ID] = n.Size
	}
	tests := map[string]float64{"hub": 40, "leaf": 6, "mid": 10}
	for id, want := range tests {
		if sizes[id] != want {
			t.Errorf("sqrt size[%s] = %v, want %v", id, sizes[id], want)
		}
	}
}

func TestUniformDegreeSize(t *testing.T) {
	d := Build(graph.Input{GenreStats: popRock()}, nil)
	for _, n := range d.Nodes {
		if n.Size != DefaultMinSize {
			t.Errorf("%s size = %v, want %v for zero degree range", n.ID, n.Size, DefaultMinSize)
		}
	}
}

func TestBuildCategories(t *testing.T) {
	cats := category.Default()
	d := Build(graph.Input{
		GenreStats: []graph.GenreStat{
			{ID: "hip-hop", Label: "Hip Hop", TotalMinutes: 10},
			{ID: "k-pop", TotalMinutes: 5, Color: "#000000"},
			{ID: "zydeco", TotalMinutes: 1},
		},
	}, &Options{Categories: cats})

	want := map[string]string{
		"hip-hop": "Hip Hop & Rap",
		"k-pop":   "Asian Pop",
		"zydeco":  category.Other,
	}
	for _, n := range d.Nodes {
		if n.Category != want[n.ID] {
			t.Errorf("%s category = %q, want %q", n.ID, n.Category, want[n.ID])
		}
	}
	if n, _ := d.NodeByID("k-pop"); n.Color != "#000000" {
		t.Errorf("stat color should win, got %q", n.Color)
	}
	if n, _ := d.NodeByID("hip-hop"); n.Color != cats.Color("Hip Hop & Rap") {
		t.Errorf("palette color = %q, want %q", n.Color, cats.Color("Hip Hop & Rap"))
	}
}

func TestParseSizePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want SizePolicy
		ok   bool
	}{
		{"degree", SizeByDegree, true},
		{"minutes", SizeBySqrtMinutes, true},
		{"", SizeByDegree, true},
		{"area", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSizePolicy(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSizePolicy(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func hasEntry(list []graph.AdjacencyEntry, id string, w int) bool {
	for _, a := range list {
		if a.NeighborID == id && a.Weight == w {
			return true
		}
	}
	return false
}

func sampleInput() graph.Input {
	var stats []graph.GenreStat
	for i := range 12 {
		stats = append(stats, graph.GenreStat{
			ID:           fmt.Sprintf("g%02d", i),
			TotalMinutes: float64(100 - i*7),
			PlayCount:    i,
		})
	}
	artists := []graph.ArtistGenre{
		{ArtistID: "a1", Genres: []string{"g00", "g01", "g02"}},
		{ArtistID: "a2", Genres: []string{"g01", "g02"}},
		{ArtistID: "a3", Genres: []string{"g03", "g04", "g05", "g00"}},
		{ArtistID: "a4", Genres: []string{"g06"}},
		{ArtistID: "a5", Genres: []string{"g07", "g08"}},
		{ArtistID: "a6", Genres: []string{"g09", "g10", "missing"}},
		{ArtistID: "a7", Genres: []string{"g11"}},
	}
	tracks := []graph.CollabTrack{
		{TrackID: "t1", ArtistIDs: []string{"a4", "a7"}},
		{TrackID: "t2", ArtistIDs: []string{"a2", "a5"}},
		{TrackID: "t3", ArtistIDs: []string{"a1", "a2"}},
	}
	return graph.Input{GenreStats: stats, Artists: artists, CollabTracks: tracks}
}
