// Package layout computes one-shot 2D positions for a genre graph.
//
// Three algorithms share the [Func] signature and are selected by name
// through [Lookup]:
//
//   - [Radial]: nodes ordered by listening time around a noisy ring.
//   - [Force]: the same seeded ring relaxed by a size-aware repulsion,
//     spring and center-pull simulation with cooling.
//   - [Tree]: breadth-first rows starting at the most listened node.
//
// Every algorithm is a pure function of (nodes, edges, options). Randomness
// comes from a seeded [Rand], so the same seed and node order always give
// bit-identical positions:
//
//	res := layout.Radial(data.Nodes, data.Edges, layout.Options{Seed: 7})
//	p := res.Positions.At("rock")
//
// [CategoryAnchors] is a companion generator that assigns every node a
// target point inside its category's region of a ring. The physics stepper
// pulls nodes toward these anchors during a category focus.
package layout
