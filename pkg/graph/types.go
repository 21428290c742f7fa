package graph

import (
	"math"
	"slices"
	"strings"
)

// =============================================================================
// Constants
// =============================================================================

// PairSeparator joins the two endpoint ids of a canonical edge id.
const PairSeparator = "__"

// EdgeKind records which co-occurrence source produced an edge.
type EdgeKind string

// Edge kinds.
const (
	KindMultiGenre EdgeKind = "multi-genre"
	KindCollab     EdgeKind = "collab"
	KindMixed      EdgeKind = "mixed"
)

// Rendering constants shared by the renderer, hit testing and the stepper.
const (
	// MinRenderSize is the smallest size used when deriving a drawn radius.
	MinRenderSize = 8.0

	// RenderRadiusFactor converts a node size into its drawn radius.
	RenderRadiusFactor = 0.4
)

// =============================================================================
// Input Facts
// =============================================================================

// GenreStat is aggregate listening data for one genre.
// It is produced externally and immutable once handed to the builder.
type GenreStat struct {
	ID               string  `json:"id"`
	Label            string  `json:"label,omitempty"`
	PlayCount        int     `json:"playCount"`
	TotalMinutes     float64 `json:"totalMinutes"`
	Color            string  `json:"color,omitempty"`
	TopArtist        string  `json:"topArtist,omitempty"`
	TopArtistMinutes float64 `json:"topArtistMinutes,omitempty"`
}

// ArtistGenre lists the genres of one artist. The first genre is primary.
type ArtistGenre struct {
	ArtistID string   `json:"artistId"`
	Name     string   `json:"name,omitempty"`
	Genres   []string `json:"genres"`
}

// CollabTrack is a track credited to several artists.
type CollabTrack struct {
	TrackID   string   `json:"trackId"`
	ArtistIDs []string `json:"artistIds"`
	Title     string   `json:"title,omitempty"`
}

// Input bundles the facts consumed by the builder.
type Input struct {
	GenreStats   []GenreStat   `json:"genreStats"`
	Artists      []ArtistGenre `json:"artists"`
	CollabTracks []CollabTrack `json:"collabTracks,omitempty"`
}

// =============================================================================
// Graph
// =============================================================================

// Node is one genre in the graph. Size and Degree are derived by the builder.
type Node struct {
	ID               string  `json:"id"`
	Label            string  `json:"label"`
	PlayCount        int     `json:"playCount"`
	TotalMinutes     float64 `json:"totalMinutes"`
	Size             float64 `json:"size"`
	Degree           int     `json:"degree"`
	Color            string  `json:"color,omitempty"`
	Category         string  `json:"category,omitempty"`
	TopArtist        string  `json:"topArtist,omitempty"`
	TopArtistMinutes float64 `json:"topArtistMinutes,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// RenderRadius is the radius a node is drawn with, in world units.
func (n Node) RenderRadius() float64 {
	return math.Max(MinRenderSize, n.Size) * RenderRadiusFactor
}

// Edge is an undirected, weighted co-occurrence between two genres.
// Source is always the lexicographically smaller id.
type Edge struct {
	ID       string   `json:"id"`
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Weight   int      `json:"weight"`
	Kind     EdgeKind `json:"kind"`
	Examples []string `json:"examples,omitempty"`
}

// Other returns the endpoint opposite to id.
func (e Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// AdjacencyEntry is one incident edge as seen from a node.
type AdjacencyEntry struct {
	NeighborID string   `json:"neighborId"`
	Weight     int      `json:"weight"`
	Kind       EdgeKind `json:"kind"`
}

// Data is a built genre graph. TopK holds the diverse initial focus set.
type Data struct {
	Nodes     []Node                      `json:"nodes"`
	Edges     []Edge                      `json:"edges"`
	Adjacency map[string][]AdjacencyEntry `json:"adjacency"`
	TopK      []string                    `json:"topK"`
}

// NodeCount returns the number of nodes.
func (d *Data) NodeCount() int { return len(d.Nodes) }

// EdgeCount returns the number of edges.
func (d *Data) EdgeCount() int { return len(d.Edges) }

// NodeByID returns the node with the given id.
func (d *Data) NodeByID(id string) (Node, bool) {
	i := slices.IndexFunc(d.Nodes, func(n Node) bool { return n.ID == id })
	if i < 0 {
		return Node{}, false
	}
	return d.Nodes[i], true
}

// NodeIndex maps node ids to their index in Nodes.
func (d *Data) NodeIndex() map[string]int {
	idx := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Neighbors returns the adjacency list of id, heaviest edge first.
func (d *Data) Neighbors(id string) []AdjacencyEntry {
	return d.Adjacency[id]
}

// EdgeByPair returns the edge joining a and b in either order.
func (d *Data) EdgeByPair(a, b string) (Edge, bool) {
	key := PairKey(a, b)
	i := slices.IndexFunc(d.Edges, func(e Edge) bool { return e.ID == key })
	if i < 0 {
		return Edge{}, false
	}
	return d.Edges[i], true
}

// PairKey returns the canonical id of the unordered pair {a, b}.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + PairSeparator + b
}

// SplitPairKey reverses PairKey. The second result is false when key
// does not contain the separator.
func SplitPairKey(key string) (source, target string, ok bool) {
	return strings.Cut(key, PairSeparator)
}

// =============================================================================
// Positions
// =============================================================================

// Position is a point in world space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Position) Add(q Position) Position { return Position{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Position) Sub(q Position) Position { return Position{p.X - q.X, p.Y - q.Y} }

// Scale returns p * k.
func (p Position) Scale(k float64) Position { return Position{p.X * k, p.Y * k} }

// Dist returns the Euclidean distance between p and q.
func (p Position) Dist(q Position) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Positions is a caller-owned arena of node positions keyed by node id.
type Positions map[string]Position

// At returns the position of id, or the origin when id is absent.
func (ps Positions) At(id string) Position {
	return ps[id]
}

// Clone returns an independent copy.
func (ps Positions) Clone() Positions {
	out := make(Positions, len(ps))
	for k, v := range ps {
		out[k] = v
	}
	return out
}

// Bounds returns the bounding rectangle of all positions.
// An empty arena yields the zero Rect.
func (ps Positions) Bounds() Rect {
	first := true
	var r Rect
	for _, p := range ps {
		if first {
			r = Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			first = false
			continue
		}
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r
}

// Rect is an axis-aligned rectangle in world space.
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the midpoint.
func (r Rect) Center() Position {
	return Position{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Expand grows the rectangle by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{MinX: r.MinX - pad, MinY: r.MinY - pad, MaxX: r.MaxX + pad, MaxY: r.MaxY + pad}
}
