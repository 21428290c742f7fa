package builder

import (
	"reflect"
	"testing"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// hubInput is a star: "hub" links to every other node, leaves are disjoint.
func hubInput() graph.Input {
	return graph.Input{
		GenreStats: []graph.GenreStat{
			{ID: "hub", TotalMinutes: 500},
			{ID: "l1", TotalMinutes: 40},
			{ID: "l2", TotalMinutes: 30},
			{ID: "l3", TotalMinutes: 20},
			{ID: "l4", TotalMinutes: 10},
		},
		Artists: []graph.ArtistGenre{
			{ArtistID: "a1", Genres: []string{"hub", "l1"}},
			{ArtistID: "a2", Genres: []string{"hub", "l2"}},
			{ArtistID: "a3", Genres: []string{"hub", "l3"}},
			{ArtistID: "a4", Genres: []string{"hub", "l4"}},
		},
	}
}

func TestSelectDiverseHub(t *testing.T) {
	d := Build(hubInput(), &Options{TopK: 3})
	want := []string{"hub", "l1", "l2"}
	if !reflect.DeepEqual(d.TopK, want) {
		t.Errorf("TopK = %v, want %v", d.TopK, want)
	}
}

func TestSelectDiversePrefersOtherClusters(t *testing.T) {
	in := graph.Input{
		GenreStats: []graph.GenreStat{
			{ID: "rock", TotalMinutes: 100},
			{ID: "punk", TotalMinutes: 90},
			{ID: "metal", TotalMinutes: 80},
			{ID: "jazz", TotalMinutes: 10},
		},
		Artists: []graph.ArtistGenre{
			{ArtistID: "a1", Genres: []string{"rock", "punk", "metal"}},
			{ArtistID: "a2", Genres: []string{"rock", "punk"}},
		},
	}
	d := Build(in, &Options{TopK: 2})
	if want := []string{"rock", "jazz"}; !reflect.DeepEqual(d.TopK, want) {
		t.Errorf("TopK = %v, want %v", d.TopK, want)
	}
}

func TestSelectDiverseBounds(t *testing.T) {
	d := Build(sampleInput(), nil)

	tests := []struct {
		name string
		k    int
		want int
	}{
		{"Zero", 0, 0},
		{"Negative", -2, 0},
		{"One", 1, 1},
		{"Default", 3, 3},
		{"All", len(d.Nodes), len(d.Nodes)},
		{"MoreThanNodes", len(d.Nodes) + 5, len(d.Nodes)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectDiverse(d.Nodes, d.Edges, tt.k)
			if got == nil {
				t.Fatal("SelectDiverse returned nil")
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
			seen := map[string]bool{}
			for _, id := range got {
				if seen[id] {
					t.Errorf("duplicate id %s", id)
				}
				seen[id] = true
				if _, ok := d.NodeByID(id); !ok {
					t.Errorf("unknown id %s", id)
				}
			}
			if len(got) > 0 && got[0] != d.Nodes[0].ID {
				t.Errorf("first = %s, want most popular %s", got[0], d.Nodes[0].ID)
			}
		})
	}
}

func TestRankTop(t *testing.T) {
	nodes := []graph.Node{
		{ID: "b", Label: "B", TotalMinutes: 5},
		{ID: "a", Label: "A", TotalMinutes: 5},
		{ID: "c", Label: "C", TotalMinutes: 9},
	}
	if got, want := RankTop(nodes, 2), []string{"c", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("RankTop = %v, want %v", got, want)
	}
	if got := RankTop(nodes, 0); got == nil || len(got) != 0 {
		t.Errorf("RankTop(0) = %v, want []", got)
	}
	if got := RankTop(nodes, 10); len(got) != 3 {
		t.Errorf("RankTop(10) = %v, want 3 ids", got)
	}
}
