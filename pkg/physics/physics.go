// Package physics advances a live force simulation one frame at a time.
//
// Unlike package layout, which runs a fixed number of iterations and
// returns fresh positions, [Step] mutates caller-owned position and
// velocity maps in place. It is meant to be called once per animation
// frame by an external clock (a terminal tick, a server ticker or a test).
//
//	state := physics.NewState(ids, 1)
//	params := physics.DefaultParams()
//	for range ticker.C {
//		physics.Step(data.Nodes, data.Edges, pos, radii, state, params, 1.0/60, physics.Constraints{
//			Bounds: &physics.Bounds{Width: 1280, Height: 720},
//		})
//	}
//
// Step never allocates per node once every node has a velocity entry.
package physics

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// Tuning constants.
const (
	// DefaultRadius is used for nodes missing from the radii map.
	DefaultRadius = 10.0
	// SeparationGap is the extra clearance between two node rims.
	SeparationGap = 2.0
	// OverlapCorrection is the fraction of an overlap removed per frame.
	OverlapCorrection = 0.8
	// CollisionImpulse converts the overlap correction into velocity.
	CollisionImpulse = 0.1
	// BoundsMargin is kept between a node rim and the bounds edge.
	BoundsMargin = 20.0
	// BounceDamping is the speed kept after reflecting off the bounds.
	BounceDamping = 0.5
	// DefaultDT is used when Step receives a non-positive dt.
	DefaultDT = 1.0 / 60

	coincidentDist2 = 0.01
	normalEpsilon   = 1e-6
)

// Params holds the force strengths. Use DefaultParams as a starting point.
type Params struct {
	Repulsion  float64 `json:"repulsion" toml:"repulsion"`
	Spring     float64 `json:"spring" toml:"spring"`
	RestLength float64 `json:"restLength" toml:"rest_length"`
	// Damping is the fraction of velocity removed per frame, in [0,1].
	Damping  float64 `json:"damping" toml:"damping"`
	Jitter   float64 `json:"jitter" toml:"jitter"`
	MaxSpeed float64 `json:"maxSpeed" toml:"max_speed"`

	GroupAttraction float64 `json:"groupAttraction" toml:"group_attraction"`
	AnchorStrength  float64 `json:"anchorStrength" toml:"anchor_strength"`
}

// DefaultParams returns parameters that keep a few hundred nodes visibly
// alive without overlap.
func DefaultParams() Params {
	return Params{
		Repulsion:       1800,
		Spring:          0.02,
		RestLength:      120,
		Damping:         0.12,
		Jitter:          0.05,
		MaxSpeed:        8,
		GroupAttraction: 0.8,
		AnchorStrength:  3,
	}
}

// Bounds is a viewport centered on the world origin.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Groups maps a group name to its member node ids.
type Groups map[string][]string

// Constraints are the optional inputs of Step. The zero value applies none.
type Constraints struct {
	// Bounds keeps nodes inside a centered viewport.
	Bounds *Bounds
	// Groups pulls members toward their group centroid.
	Groups Groups
	// Anchors pulls each listed node toward a fixed target.
	Anchors graph.Positions
	// Pinned nodes keep their position and have zero velocity.
	Pinned map[string]bool
}

// State holds per-node velocities and the jitter source.
type State struct {
	VX  map[string]float64
	VY  map[string]float64
	rng *rand.Rand
}

// NewState returns zero velocities for ids and a jitter source seeded
// with seed.
func NewState(ids []string, seed uint64) *State {
	s := &State{
		VX:  make(map[string]float64, len(ids)),
		VY:  make(map[string]float64, len(ids)),
		rng: rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
	}
	for _, id := range ids {
		s.VX[id] = 0
		s.VY[id] = 0
	}
	return s
}

// Velocity returns the velocity of id.
func (s *State) Velocity(id string) (vx, vy float64) {
	return s.VX[id], s.VY[id]
}

// Reset zeroes every velocity.
func (s *State) Reset() {
	for id := range s.VX {
		s.VX[id] = 0
	}
	for id := range s.VY {
		s.VY[id] = 0
	}
}

func (s *State) ensure() {
	if s.VX == nil {
		s.VX = make(map[string]float64)
	}
	if s.VY == nil {
		s.VY = make(map[string]float64)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(1, 1^0xdeadbeef))
	}
}

// Radii returns the drawn radius of every node.
func Radii(nodes []graph.Node) map[string]float64 {
	r := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		r[n.ID] = n.RenderRadius()
	}
	return r
}

// Energy returns the kinetic energy of the system, useful for deciding
// when a simulation has settled.
func Energy(s *State) float64 {
	if s == nil {
		return 0
	}
	var e float64
	for id, vx := range s.VX {
		vy := s.VY[id]
		e += 0.5 * (vx*vx + vy*vy)
	}
	return e
}

func radiusOf(radii map[string]float64, id string) float64 {
	if r, ok := radii[id]; ok && r > 0 {
		return r
	}
	return DefaultRadius
}

// Step advances the simulation by dt. Nodes without a position are
// ignored, as are edges with a missing endpoint.
func Step(nodes []graph.Node, edges []graph.Edge, positions graph.Positions, radii map[string]float64,
	s *State, p Params, dt float64, c Constraints) {
	if s == nil || len(positions) == 0 {
		return
	}
	s.ensure()
	if dt <= 0 {
		dt = DefaultDT
	}

	repel(nodes, positions, radii, s, p, dt, c.Pinned)
	springs(edges, positions, s, p, dt)
	if p.GroupAttraction != 0 {
		attractGroups(c.Groups, positions, s, p.GroupAttraction*dt)
	}
	if p.AnchorStrength != 0 {
		for id, target := range c.Anchors {
			pos, ok := positions[id]
			if !ok {
				continue
			}
			s.VX[id] += p.AnchorStrength * (target.X - pos.X) * dt
			s.VY[id] += p.AnchorStrength * (target.Y - pos.Y) * dt
		}
	}
	integrate(nodes, positions, radii, s, p, c)
}

func repel(nodes []graph.Node, positions graph.Positions, radii map[string]float64, s *State, p Params, dt float64, pinned map[string]bool) {
	for i := range nodes {
		a := nodes[i].ID
		pa, ok := positions[a]
		if !ok {
			continue
		}
		ra := radiusOf(radii, a)
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j].ID
			pb, ok := positions[b]
			if !ok {
				continue
			}
			dx, dy := pa.X-pb.X, pa.Y-pb.Y
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				d2 = coincidentDist2
				// Split coincident nodes along a fixed axis so the push is defined.
				dx = math.Sqrt(coincidentDist2)
			}
			d := math.Sqrt(d2)
			nx, ny := dx/(d+normalEpsilon), dy/(d+normalEpsilon)

			f := p.Repulsion / (d2 + 1)
			s.VX[a] += nx * f * dt
			s.VY[a] += ny * f * dt
			s.VX[b] -= nx * f * dt
			s.VY[b] -= ny * f * dt

			minSep := ra + radiusOf(radii, b) + SeparationGap
			if d >= minSep {
				continue
			}
			overlap := (minSep - d) * OverlapCorrection
			switch {
			case pinned[a] && pinned[b]:
				continue
			case pinned[a]:
				pb.X -= 2 * nx * overlap
				pb.Y -= 2 * ny * overlap
			case pinned[b]:
				pa.X += 2 * nx * overlap
				pa.Y += 2 * ny * overlap
			default:
				pa.X += nx * overlap
				pa.Y += ny * overlap
				pb.X -= nx * overlap
				pb.Y -= ny * overlap
			}
			s.VX[a] += nx * overlap * CollisionImpulse
			s.VY[a] += ny * overlap * CollisionImpulse
			s.VX[b] -= nx * overlap * CollisionImpulse
			s.VY[b] -= ny * overlap * CollisionImpulse
			positions[b] = pb
		}
		positions[a] = pa
	}
}

func springs(edges []graph.Edge, positions graph.Positions, s *State, p Params, dt float64) {
	if p.Spring == 0 {
		return
	}
	for _, e := range edges {
		ps, ok := positions[e.Source]
		if !ok {
			continue
		}
		pt, ok := positions[e.Target]
		if !ok {
			continue
		}
		dx, dy := pt.X-ps.X, pt.Y-ps.Y
		d := math.Sqrt(dx*dx+dy*dy) + normalEpsilon
		f := p.Spring * (d - p.RestLength)
		fx, fy := dx/d*f*dt, dy/d*f*dt
		s.VX[e.Source] += fx
		s.VY[e.Source] += fy
		s.VX[e.Target] -= fx
		s.VY[e.Target] -= fy
	}
}

func attractGroups(groups Groups, positions graph.Positions, s *State, k float64) {
	for _, members := range groups {
		var cx, cy float64
		var n int
		for _, id := range members {
			if pos, ok := positions[id]; ok {
				cx += pos.X
				cy += pos.Y
				n++
			}
		}
		if n < 2 {
			continue
		}
		cx /= float64(n)
		cy /= float64(n)
		for _, id := range members {
			pos, ok := positions[id]
			if !ok {
				continue
			}
			s.VX[id] += k * (cx - pos.X)
			s.VY[id] += k * (cy - pos.Y)
		}
	}
}

func integrate(nodes []graph.Node, positions graph.Positions, radii map[string]float64, s *State, p Params, c Constraints) {
	keep := 1 - math.Min(math.Max(p.Damping, 0), 1)
	for _, n := range nodes {
		id := n.ID
		pos, ok := positions[id]
		if !ok {
			continue
		}
		if c.Pinned[id] {
			s.VX[id], s.VY[id] = 0, 0
			continue
		}

		vx := s.VX[id] * keep
		vy := s.VY[id] * keep
		if p.Jitter != 0 {
			vx += (s.rng.Float64() - 0.5) * p.Jitter
			vy += (s.rng.Float64() - 0.5) * p.Jitter
		}
		if p.MaxSpeed > 0 {
			if speed := math.Hypot(vx, vy); speed > p.MaxSpeed {
				scale := p.MaxSpeed / speed
				vx *= scale
				vy *= scale
			}
		}
		pos.X += vx
		pos.Y += vy

		if b := c.Bounds; b != nil {
			margin := radiusOf(radii, id) + BoundsMargin
			maxX := math.Max(b.Width/2-margin, 0)
			maxY := math.Max(b.Height/2-margin, 0)
			switch {
			case pos.X < -maxX:
				pos.X = -maxX
				vx = math.Abs(vx) * BounceDamping
			case pos.X > maxX:
				pos.X = maxX
				vx = -math.Abs(vx) * BounceDamping
			}
			switch {
			case pos.Y < -maxY:
				pos.Y = -maxY
				vy = math.Abs(vy) * BounceDamping
			case pos.Y > maxY:
				pos.Y = maxY
				vy = -math.Abs(vy) * BounceDamping
			}
		}

		positions[id] = pos
		s.VX[id] = vx
		s.VY[id] = vy
	}
}
