package layout

import (
	"cmp"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// Algorithm defaults.
const (
	DefaultRadialRadius = 320.0
	DefaultForceRadius  = 500.0
	DefaultIterations   = 200
	DefaultLinkDistance = 220.0
	DefaultLinkStrength = 0.05
)

// Options configures a layout run. Zero values select the algorithm's
// defaults. Seed 0 selects DefaultSeed unless HasSeed is set.
type Options struct {
	Seed         uint32
	HasSeed      bool
	Radius       float64
	Iterations   int
	LinkDistance float64
	LinkStrength float64
	Center       graph.Position
}

// Result holds the computed positions keyed by node id.
type Result struct {
	Positions graph.Positions
}

// Func is the signature shared by all layout algorithms.
type Func func(nodes []graph.Node, edges []graph.Edge, opts Options) Result

func (o Options) seed() uint32 {
	if o.HasSeed || o.Seed != 0 {
		return o.Seed
	}
	return DefaultSeed
}

func (o Options) radius(def float64) float64 {
	if o.Radius > 0 {
		return o.Radius
	}
	return def
}

func (o Options) iterations() int {
	if o.Iterations > 0 {
		return o.Iterations
	}
	return DefaultIterations
}

func (o Options) linkDistance() float64 {
	if o.LinkDistance > 0 {
		return o.LinkDistance
	}
	return DefaultLinkDistance
}

func (o Options) linkStrength() float64 {
	if o.LinkStrength > 0 {
		return o.LinkStrength
	}
	return DefaultLinkStrength
}

// byPopularity orders nodes by totalMinutes descending, label ascending.
func byPopularity(a, b graph.Node) int {
	if c := cmp.Compare(b.TotalMinutes, a.TotalMinutes); c != 0 {
		return c
	}
	return cmp.Compare(a.DisplayLabel(), b.DisplayLabel())
}
