package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// Radial ring shape.
const (
	ringInner     = 0.6 // minimum radius as a fraction of the base radius
	ringSpread    = 0.4 // random extra radius fraction
	jitterFactor  = 0.08
	maxRingJitter = 24.0
)

// Radial places nodes, sorted by totalMinutes descending, at evenly spaced
// angles on a ring with randomized radius and a small per-axis jitter.
// Edges are ignored.
func Radial(nodes []graph.Node, _ []graph.Edge, opts Options) Result {
	rng := NewRand(opts.seed())
	radius := opts.radius(DefaultRadialRadius)
	jitter := math.Min(maxRingJitter, radius*jitterFactor)

	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, byPopularity)

	n := max(len(sorted), 1)
	pos := make(graph.Positions, len(sorted))
	for i, node := range sorted {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r := radius * (ringInner + ringSpread*rng.Float64())
		x := r*math.Cos(angle) + (rng.Float64()-0.5)*jitter
		y := r*math.Sin(angle) + (rng.Float64()-0.5)*jitter
		pos[node.ID] = graph.Position{X: opts.Center.X + x, Y: opts.Center.Y + y}
	}
	return Result{Positions: pos}
}
