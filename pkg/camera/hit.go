package camera

import (
	"cmp"
	"slices"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// DefaultHitSlack is the extra pointer tolerance in device pixels.
const DefaultHitSlack = 8.0

// Hit is a circular hit target in world coordinates.
type Hit struct {
	ID     string
	Center graph.Position
	Radius float64
}

// DrawOrder returns nodes sorted so smaller nodes come first and larger
// ones paint over them. Ties keep id order.
func DrawOrder(nodes []graph.Node) []graph.Node {
	out := slices.Clone(nodes)
	slices.SortStableFunc(out, func(a, b graph.Node) int {
		if c := cmp.Compare(a.Size, b.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Targets builds hit targets for nodes in draw order. A node without a
// position sits at the origin, where it is also drawn.
func Targets(nodes []graph.Node, positions graph.Positions) []Hit {
	ordered := DrawOrder(nodes)
	out := make([]Hit, 0, len(ordered))
	for _, n := range ordered {
		out = append(out, Hit{ID: n.ID, Center: positions.At(n.ID), Radius: n.RenderRadius()})
	}
	return out
}

// HitTest returns the topmost target under pointer. items must be in draw
// order; the last one drawn wins. slack is in device pixels and grows every
// radius by its world-space equivalent.
func HitTest(s State, vp Viewport, pointer graph.Position, items []Hit, slack float64) (Hit, bool) {
	w := Inverse(s, vp, pointer)
	extra := ToWorld(s, slack)
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		r := it.Radius + extra
		dx, dy := w.X-it.Center.X, w.Y-it.Center.Y
		if dx*dx+dy*dy <= r*r {
			return it, true
		}
	}
	return Hit{}, false
}
