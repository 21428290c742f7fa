package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/genregraph/pkg/category"
	"github.com/matzehuels/genregraph/pkg/graph"
)

// Anchor defaults.
const (
	DefaultAnchorRadius = 400.0
	DefaultAnchorSpread = 28.0
)

// goldenAngle spaces spiral points so no two line up radially.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// AnchorOptions configures CategoryAnchors. Zero values select defaults.
type AnchorOptions struct {
	// Radius of the ring carrying the category centers.
	Radius float64
	Center graph.Position
	// Spread is the spacing between anchors inside one category.
	Spread float64
	Seed   uint32
}

// Anchors maps node ids to target points and categories to their centers.
type Anchors struct {
	Nodes   graph.Positions
	Centers graph.Positions
	// Order lists categories by total listening time, descending.
	Order []string
}

// CategoryAnchors places every distinct node category on a ring, heaviest
// category first, and gives each node a target on a golden-angle spiral
// around its category center. Nodes without a category belong to
// category.Other.
func CategoryAnchors(nodes []graph.Node, opts AnchorOptions) Anchors {
	radius := opts.Radius
	if radius <= 0 {
		radius = DefaultAnchorRadius
	}
	spread := opts.Spread
	if spread <= 0 {
		spread = DefaultAnchorSpread
	}
	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	rng := NewRand(seed)

	members := make(map[string][]graph.Node)
	minutes := make(map[string]float64)
	for _, n := range nodes {
		c := categoryOf(n)
		members[c] = append(members[c], n)
		minutes[c] += n.TotalMinutes
	}

	order := make([]string, 0, len(members))
	for c := range members {
		order = append(order, c)
	}
	slices.SortFunc(order, func(a, b string) int {
		if c := cmp.Compare(minutes[b], minutes[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	out := Anchors{
		Nodes:   make(graph.Positions, len(nodes)),
		Centers: make(graph.Positions, len(order)),
		Order:   order,
	}
	ring := radius
	if len(order) == 1 {
		ring = 0
	}
	for i, c := range order {
		angle := 2 * math.Pi * float64(i) / float64(len(order))
		center := graph.Position{
			X: opts.Center.X + ring*math.Cos(angle),
			Y: opts.Center.Y + ring*math.Sin(angle),
		}
		out.Centers[c] = center

		group := members[c]
		slices.SortStableFunc(group, byPopularity)
		rotation := 2 * math.Pi * rng.Float64()
		for k, n := range group {
			r := spread * math.Sqrt(float64(k))
			theta := rotation + float64(k)*goldenAngle
			out.Nodes[n.ID] = graph.Position{
				X: center.X + r*math.Cos(theta),
				Y: center.Y + r*math.Sin(theta),
			}
		}
	}
	return out
}

// Groups returns node ids per category, in the same shape the physics
// stepper accepts for group attraction.
func (a Anchors) Groups(nodes []graph.Node) map[string][]string {
	groups := make(map[string][]string, len(a.Order))
	for _, n := range nodes {
		c := categoryOf(n)
		groups[c] = append(groups[c], n.ID)
	}
	return groups
}

// Focus returns anchors restricted to the nodes of one category.
func (a Anchors) Focus(nodes []graph.Node, cat string) graph.Positions {
	out := make(graph.Positions)
	for _, n := range nodes {
		if categoryOf(n) != cat {
			continue
		}
		if p, ok := a.Nodes[n.ID]; ok {
			out[n.ID] = p
		}
	}
	return out
}

// Scaled returns a copy with every center and node target moved toward
// origin by factor f.
func (a Anchors) Scaled(origin graph.Position, f float64) Anchors {
	scale := func(in graph.Positions) graph.Positions {
		out := make(graph.Positions, len(in))
		for id, p := range in {
			out[id] = origin.Add(p.Sub(origin).Scale(f))
		}
		return out
	}
	return Anchors{Nodes: scale(a.Nodes), Centers: scale(a.Centers), Order: slices.Clone(a.Order)}
}

func categoryOf(n graph.Node) string {
	if n.Category == "" {
		return category.Other
	}
	return n.Category
}
