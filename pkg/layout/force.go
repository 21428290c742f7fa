package layout

import (
	"math"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// Force simulation tuning.
const (
	// collisionRadiusFactor converts node size into a collision radius.
	collisionRadiusFactor = 0.5
	collisionStrength     = 0.08
	farRepulsion          = 300.0
	distanceEpsilon       = 0.01

	// IsolationDegree is the degree below which a node's springs lengthen.
	IsolationDegree = 5
	// IsolationStep is the extra link distance fraction per missing edge.
	IsolationStep = 0.16

	springScale    = 0.5
	centerExponent = 1.2
	centerStrength = 0.04

	baseDamping   = 0.85
	coolingBase   = 0.95
	coolingPeriod = 50.0
)

type body struct {
	x, y, vx, vy float64
}

// Force relaxes a seeded ring with a fixed number of iterations of
// size-aware repulsion, edge springs, a popularity-weighted pull toward
// Center and cooling damping. Edges with unknown endpoints are skipped.
func Force(nodes []graph.Node, edges []graph.Edge, opts Options) Result {
	rng := NewRand(opts.seed())
	radius := opts.radius(DefaultForceRadius)
	iterations := opts.iterations()
	linkDistance := opts.linkDistance()
	strength := opts.linkStrength() * springScale
	center := opts.Center

	n := max(len(nodes), 1)
	bodies := make([]body, len(nodes))
	index := make(map[string]int, len(nodes))
	for i, node := range nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r := radius * (ringInner + ringSpread*rng.Float64())
		bodies[i] = body{x: center.X + r*math.Cos(angle), y: center.Y + r*math.Sin(angle)}
		index[node.ID] = i
	}
	if len(nodes) == 0 {
		return Result{Positions: graph.Positions{}}
	}

	maxSize, minSize, maxMinutes := 1.0, 1.0, 1.0
	for _, node := range nodes {
		maxSize = math.Max(maxSize, node.Size)
		minSize = math.Min(minSize, node.Size)
		maxMinutes = math.Max(maxMinutes, node.TotalMinutes)
	}
	sizeRange := math.Max(maxSize-minSize, 1)

	priority := make([]float64, len(nodes))
	pull := make([]float64, len(nodes))
	for i, node := range nodes {
		priority[i] = (maxSize-node.Size)/sizeRange + 0.5
		pull[i] = math.Pow(node.TotalMinutes/maxMinutes, centerExponent) * centerStrength
	}

	type spring struct {
		a, b    int
		desired float64
	}
	edgeCount := make([]int, len(nodes))
	for _, e := range edges {
		a, okA := index[e.Source]
		b, okB := index[e.Target]
		if !okA || !okB {
			continue
		}
		edgeCount[a]++
		edgeCount[b]++
	}
	springs := make([]spring, 0, len(edges))
	for _, e := range edges {
		a, okA := index[e.Source]
		b, okB := index[e.Target]
		if !okA || !okB {
			continue
		}
		springs = append(springs, spring{a: a, b: b, desired: linkDistance * isolationFactor(min(edgeCount[a], edgeCount[b]))})
	}

	for iter := range iterations {
		for i := range bodies {
			pi := &bodies[i]
			ri := collisionRadiusFactor * nodes[i].Size
			for j := i + 1; j < len(bodies); j++ {
				pj := &bodies[j]
				dx, dy := pi.x-pj.x, pi.y-pj.y
				dist2 := dx*dx + dy*dy + distanceEpsilon
				dist := math.Sqrt(dist2)
				minDist := ri + collisionRadiusFactor*nodes[j].Size
				factor := priority[i] * priority[j]

				var f float64
				if dist < minDist {
					f = factor * (minDist - dist) * (minDist - dist) * collisionStrength
				} else {
					f = factor * farRepulsion / dist2
				}
				fx, fy := f*dx/dist, f*dy/dist
				pi.vx += fx
				pi.vy += fy
				pj.vx -= fx
				pj.vy -= fy
			}
		}

		for _, s := range springs {
			a, b := &bodies[s.a], &bodies[s.b]
			dx, dy := b.x-a.x, b.y-a.y
			dist := math.Sqrt(dx*dx+dy*dy) + distanceEpsilon
			diff := dist - s.desired
			fx, fy := dx/dist*diff*strength, dy/dist*diff*strength
			a.vx += fx
			a.vy += fy
			b.vx -= fx
			b.vy -= fy
		}

		for i := range bodies {
			p := &bodies[i]
			dx, dy := center.X-p.x, center.Y-p.y
			dist := math.Sqrt(dx*dx+dy*dy) + distanceEpsilon
			if dist > 1 {
				p.vx += dx / dist * pull[i]
				p.vy += dy / dist * pull[i]
			}
		}

		damping := baseDamping * math.Pow(coolingBase, float64(iter)/coolingPeriod)
		for i := range bodies {
			p := &bodies[i]
			p.vx *= damping
			p.vy *= damping
			p.x += p.vx
			p.y += p.vy
		}
	}

	pos := make(graph.Positions, len(nodes))
	for i, node := range nodes {
		pos[node.ID] = graph.Position{X: bodies[i].x, Y: bodies[i].y}
	}
	return Result{Positions: pos}
}

// isolationFactor lengthens springs of sparsely connected nodes so they do
// not collapse onto hubs.
func isolationFactor(minDegree int) float64 {
	if minDegree >= IsolationDegree {
		return 1
	}
	return 1 + float64(IsolationDegree-minDegree)*IsolationStep
}
