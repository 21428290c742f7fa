// Package builder turns listening facts into a weighted genre co-occurrence
// graph.
//
// Build is deterministic: the same input always yields the same nodes,
// edges, adjacency order and top-K selection.
//
//	data := builder.Build(in, &builder.Options{TopK: 5})
//
// Nodes come only from [graph.GenreStat] entries with positive listening
// time. Genres referenced by artists but missing from the stats never
// become nodes, and edges touching them are dropped.
package builder

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/genregraph/pkg/category"
	"github.com/matzehuels/genregraph/pkg/graph"
)

type edgeAcc struct {
	source   string
	target   string
	weight   int
	kind     graph.EdgeKind
	examples map[string]struct{}
}

type edgeMap map[string]*edgeAcc

func (m edgeMap) add(a, b string, kind graph.EdgeKind, example string) {
	key := graph.PairKey(a, b)
	e, ok := m[key]
	if !ok {
		src, dst := min(a, b), max(a, b)
		e = &edgeAcc{source: src, target: dst, kind: kind, examples: make(map[string]struct{})}
		m[key] = e
	}
	e.weight++
	if e.kind != kind {
		e.kind = graph.KindMixed
	}
	if example != "" {
		e.examples[example] = struct{}{}
	}
}

func (m edgeMap) merge(other edgeMap) {
	for key, o := range other {
		e, ok := m[key]
		if !ok {
			m[key] = o
			continue
		}
		e.weight += o.weight
		if e.kind != o.kind {
			e.kind = graph.KindMixed
		}
		for ex := range o.examples {
			e.examples[ex] = struct{}{}
		}
	}
}

// Build constructs the genre graph. A nil opts uses DefaultOptions.
func Build(in graph.Input, opts *Options) graph.Data {
	o := opts.withDefaults()

	nodes := buildNodes(in.GenreStats, o)
	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
	}

	artistGenres := make(map[string][]string, len(in.Artists))
	for _, a := range in.Artists {
		if gs := uniqueSorted(a.Genres); len(gs) > 0 {
			artistGenres[a.ArtistID] = gs
		}
	}

	edges := artistEdges(in.Artists)
	edges.merge(collabEdges(in.CollabTracks, artistGenres))

	edgeList := toEdges(edges, known)
	adjacency := buildAdjacency(nodes, edgeList)
	for i := range nodes {
		nodes[i].Degree = len(adjacency[nodes[i].ID])
	}
	applySizes(nodes, o)

	return graph.Data{
		Nodes:     nodes,
		Edges:     edgeList,
		Adjacency: adjacency,
		TopK:      SelectDiverse(nodes, edgeList, o.TopK),
	}
}

// buildNodes filters and orders the stats and creates one node per id.
func buildNodes(stats []graph.GenreStat, o Options) []graph.Node {
	kept := make([]graph.GenreStat, 0, len(stats))
	for _, s := range stats {
		if s.ID == "" || !(s.TotalMinutes > 0) {
			continue
		}
		if s.Label == "" {
			s.Label = s.ID
		}
		kept = append(kept, s)
	}
	slices.SortStableFunc(kept, func(a, b graph.GenreStat) int {
		if c := cmp.Compare(b.TotalMinutes, a.TotalMinutes); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})

	seen := make(map[string]struct{}, len(kept))
	nodes := make([]graph.Node, 0, len(kept))
	for _, s := range kept {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		n := graph.Node{
			ID:               s.ID,
			Label:            s.Label,
			PlayCount:        s.PlayCount,
			TotalMinutes:     s.TotalMinutes,
			Color:            s.Color,
			TopArtist:        s.TopArtist,
			TopArtistMinutes: s.TopArtistMinutes,
		}
		if o.Categories != nil {
			n.Category = o.Categories.Category(n.Label)
			if n.Category == "" || n.Category == category.Other {
				n.Category = o.Categories.Category(n.ID)
			}
			if n.Color == "" {
				n.Color = o.Categories.Color(n.Category)
			}
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func artistEdges(artists []graph.ArtistGenre) edgeMap {
	m := make(edgeMap)
	for _, a := range artists {
		genres := uniqueSorted(a.Genres)
		if len(genres) < 2 {
			continue
		}
		pairs(genres, func(x, y string) {
			m.add(x, y, graph.KindMultiGenre, a.ArtistID)
		})
	}
	return m
}

func collabEdges(tracks []graph.CollabTrack, artistGenres map[string][]string) edgeMap {
	m := make(edgeMap)
	for _, t := range tracks {
		if len(t.ArtistIDs) < 2 {
			continue
		}
		var union []string
		for _, id := range t.ArtistIDs {
			union = append(union, artistGenres[id]...)
		}
		pairs(uniqueSorted(union), func(x, y string) {
			m.add(x, y, graph.KindCollab, t.TrackID)
		})
	}
	return m
}

func toEdges(m edgeMap, known map[string]struct{}) []graph.Edge {
	edges := make([]graph.Edge, 0, len(m))
	for key, acc := range m {
		src, dst := acc.source, acc.target
		if _, ok := known[src]; !ok {
			continue
		}
		if _, ok := known[dst]; !ok {
			continue
		}
		e := graph.Edge{
			ID:     key,
			Source: src,
			Target: dst,
			Weight: acc.weight,
			Kind:   acc.kind,
		}
		if len(acc.examples) > 0 {
			e.Examples = make([]string, 0, len(acc.examples))
			for ex := range acc.examples {
				e.Examples = append(e.Examples, ex)
			}
			slices.Sort(e.Examples)
		}
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b graph.Edge) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return edges
}

func buildAdjacency(nodes []graph.Node, edges []graph.Edge) map[string][]graph.AdjacencyEntry {
	adj := make(map[string][]graph.AdjacencyEntry, len(nodes))
	for _, n := range nodes {
		adj[n.ID] = []graph.AdjacencyEntry{}
	}
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], graph.AdjacencyEntry{NeighborID: e.Target, Weight: e.Weight, Kind: e.Kind})
		adj[e.Target] = append(adj[e.Target], graph.AdjacencyEntry{NeighborID: e.Source, Weight: e.Weight, Kind: e.Kind})
	}
	for _, list := range adj {
		slices.SortFunc(list, func(a, b graph.AdjacencyEntry) int {
			if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
				return c
			}
			return cmp.Compare(a.NeighborID, b.NeighborID)
		})
	}
	return adj
}

func applySizes(nodes []graph.Node, o Options) {
	if len(nodes) == 0 {
		return
	}
	switch o.SizePolicy {
	case SizeBySqrtMinutes:
		for i := range nodes {
			nodes[i].Size = clamp(math.Sqrt(nodes[i].TotalMinutes)*o.SizeScale, o.MinSize, o.MaxSize)
		}
	default:
		lo, hi := nodes[0].Degree, nodes[0].Degree
		for _, n := range nodes[1:] {
			lo = min(lo, n.Degree)
			hi = max(hi, n.Degree)
		}
		span := float64(hi - lo)
		if span == 0 {
			span = 1
		}
		for i := range nodes {
			t := float64(nodes[i].Degree-lo) / span
			nodes[i].Size = clamp(o.MinSize+t*(o.MaxSize-o.MinSize), o.MinSize, o.MaxSize)
		}
	}
}

// uniqueSorted returns the distinct non-empty values of in, sorted.
func uniqueSorted(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// pairs calls fn for every unordered pair of a sorted slice.
func pairs(sorted []string, fn func(a, b string)) {
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			fn(sorted[i], sorted[j])
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
