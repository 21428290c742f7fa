// Package simulation runs one live, interactive view of a genre graph.
//
// A Simulation owns the mutable positions and velocities of a layout, the
// camera and its animator, and the per-category snapshots. Callers drive it
// with Tick from whatever clock they have (a terminal tick or a server
// ticker) and feed it pointer and focus events in between. All methods
// are safe for concurrent use.
package simulation

import (
	"context"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genregraph/pkg/camera"
	"github.com/matzehuels/genregraph/pkg/errors"
	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/layout"
	"github.com/matzehuels/genregraph/pkg/observability"
	"github.com/matzehuels/genregraph/pkg/physics"
	"github.com/matzehuels/genregraph/pkg/render"
	"github.com/matzehuels/genregraph/pkg/snapshot"
)

// Interaction limits.
const (
	MinZoom = 0.2
	MaxZoom = 6.0

	// SettledEnergy is the kinetic energy below which a frame reports
	// the simulation as settled.
	SettledEnergy = 0.05

	// AnchorRadiusFraction sizes the category ring relative to the
	// smaller side of the physics bounds.
	AnchorRadiusFraction = 0.35
)

// Config configures a Simulation. Zero values select defaults.
type Config struct {
	Params   physics.Params
	Viewport camera.Viewport
	DPR      float64
	// Seed drives the physics jitter.
	Seed uint64
	// Transition is the camera animation length for focus changes.
	Transition time.Duration
	// Clock timestamps animation starts. It should agree with the times
	// passed to Tick.
	Clock  func() time.Time
	Logger *log.Logger
}

// Frame is the observable state after a Tick.
type Frame struct {
	Seq       uint64          `json:"seq"`
	Camera    camera.State    `json:"camera"`
	Animating bool            `json:"animating"`
	Focus     string          `json:"focus,omitempty"`
	Selected  string          `json:"selected,omitempty"`
	Hovered   string          `json:"hovered,omitempty"`
	Energy    float64         `json:"energy"`
	Settled   bool            `json:"settled"`
	Positions graph.Positions `json:"positions"`
}

// Simulation is a running interactive view.
type Simulation struct {
	mu sync.Mutex

	data      graph.Data
	positions graph.Positions
	radii     map[string]float64
	state     *physics.State
	params    physics.Params
	bounds    physics.Bounds
	// base holds the anchors before fitting to the current bounds.
	base      layout.Anchors
	anchors   layout.Anchors
	groups    physics.Groups
	focusPins graph.Positions
	pinned    map[string]bool

	viewport   camera.Viewport
	store      *camera.MemoryStore
	sched      *camera.ManualScheduler
	anim       *camera.Animator
	transition time.Duration

	snapshots snapshot.Store
	logger    *log.Logger

	focus    string
	selected string
	hovered  string
	seq      uint64
}

// New starts a simulation from a computed layout. l.Graph must be set.
// A nil store keeps snapshots in memory.
func New(l graph.Layout, store snapshot.Store, cfg Config) (*Simulation, error) {
	if l.Graph == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout has no graph")
	}
	if store == nil {
		store = snapshot.NewMemoryStore()
	}
	if cfg.Params == (physics.Params{}) {
		cfg.Params = physics.DefaultParams()
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		cfg.Viewport = camera.Viewport{Width: 1280, Height: 720}
	}
	if cfg.DPR <= 0 {
		cfg.DPR = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(max(l.Seed, layout.DefaultSeed))
	}
	if cfg.Transition <= 0 {
		cfg.Transition = camera.DefaultDuration
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	data := *l.Graph
	ids := make([]string, len(data.Nodes))
	for i, n := range data.Nodes {
		ids[i] = n.ID
	}

	radii := physics.Radii(data.Nodes)
	bounds := physics.Bounds{
		Width:  cfg.Viewport.Width / cfg.DPR,
		Height: cfg.Viewport.Height / cfg.DPR,
	}
	anchors := layout.CategoryAnchors(data.Nodes, layout.AnchorOptions{
		Seed:   l.Seed,
		Radius: AnchorRadiusFraction * min(bounds.Width, bounds.Height),
	})
	if len(l.Anchors) > 0 {
		anchors.Nodes = l.Anchors.Clone()
	}
	if len(l.Categories) > 0 {
		anchors.Centers = l.Categories.Clone()
	}

	store0 := camera.NewMemoryStore(camera.State{Zoom: 1, DPR: cfg.DPR})
	sched := camera.NewManualScheduler()

	s := &Simulation{
		data:      data,
		positions: l.Positions.Clone(),
		radii:     radii,
		state:     physics.NewState(ids, cfg.Seed),
		params:    cfg.Params,
		bounds:     bounds,
		base:       anchors,
		anchors:    fitAnchors(anchors, bounds, radii),
		groups:     anchors.Groups(data.Nodes),
		pinned:     make(map[string]bool),
		viewport:   cfg.Viewport,
		store:      store0,
		sched:      sched,
		anim:       camera.NewAnimator(store0, sched, camera.WithClock(cfg.Clock)),
		transition: cfg.Transition,
		snapshots:  store,
		logger:     cfg.Logger,
	}
	return s, nil
}

// Tick advances physics by dt seconds and runs the camera frame due at now.
func (s *Simulation) Tick(now time.Time, dt float64) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	physics.Step(s.data.Nodes, s.data.Edges, s.positions, s.radii, s.state, s.params, dt, physics.Constraints{
		Bounds:  &s.bounds,
		Groups:  s.groups,
		Anchors: s.focusPins,
		Pinned:  s.pinned,
	})
	s.sched.Flush(now)
	s.seq++
	return s.frameLocked()
}

// Frame returns the current state without advancing.
func (s *Simulation) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

func (s *Simulation) frameLocked() Frame {
	e := physics.Energy(s.state)
	return Frame{
		Seq:       s.seq,
		Camera:    s.store.Current(),
		Animating: s.anim.Animating(),
		Focus:     s.focus,
		Selected:  s.selected,
		Hovered:   s.hovered,
		Energy:    e,
		Settled:   e < SettledEnergy,
		Positions: s.positions.Clone(),
	}
}

// Data returns the simulated graph.
func (s *Simulation) Data() graph.Data { return s.data }

// Categories lists the anchored categories, heaviest first.
func (s *Simulation) Categories() []string {
	return slices.Clone(s.anchors.Order)
}

// Focus saves the positions of the category being left, restores any
// snapshot of cat, pins cat's nodes to their anchors and eases the camera
// to the category center.
func (s *Simulation) Focus(ctx context.Context, cat string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	center, ok := s.anchors.Centers[cat]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "unknown category %q", cat)
	}
	if cat == s.focus {
		return nil
	}
	if err := s.saveFocusLocked(ctx); err != nil {
		return err
	}

	snap, err := s.snapshots.Get(ctx, cat)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", cat, err)
	}
	n := snap.Restore(s.positions)
	if n > 0 {
		s.logger.Debug("restored snapshot", "category", cat, "nodes", n)
	}
	observability.Simulation().OnFocus(ctx, cat, n)

	s.focus = cat
	s.focusPins = s.anchors.Focus(s.data.Nodes, cat)
	s.anim.AnimateToCategory(center, s.transition, nil)
	return nil
}

// Overview leaves focus and eases the camera back to the origin.
func (s *Simulation) Overview(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveFocusLocked(ctx); err != nil {
		return err
	}
	if s.focus != "" {
		observability.Simulation().OnFocus(ctx, "", 0)
	}
	s.focus = ""
	s.focusPins = nil
	s.anim.AnimateToOverview(s.transition, nil)
	return nil
}

func (s *Simulation) saveFocusLocked(ctx context.Context) error {
	if s.focus == "" {
		return nil
	}
	members := make([]graph.Node, 0)
	for _, n := range s.data.Nodes {
		if _, ok := s.focusPins[n.ID]; ok {
			members = append(members, n)
		}
	}
	err := s.snapshots.Save(ctx, snapshot.New(s.focus, members, s.positions))
	observability.Simulation().OnSnapshotSave(ctx, s.focus, len(members), err)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.focus, err)
	}
	return nil
}

// ResetCamera stops any animation and returns to the overview camera
// without changing focus.
func (s *Simulation) ResetCamera() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anim.Reset()
}

// HitTest returns the topmost node under a device-pixel pointer.
func (s *Simulation) HitTest(pointer graph.Position) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hitLocked(pointer)
}

func (s *Simulation) hitLocked(pointer graph.Position) (string, bool) {
	h, ok := camera.HitTest(s.store.Current(), s.viewport, pointer, camera.Targets(s.data.Nodes, s.positions), camera.DefaultHitSlack)
	return h.ID, ok
}

// Hover marks the node under pointer as hovered, clearing it when the
// pointer is over empty space.
func (s *Simulation) Hover(pointer graph.Position) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hovered, _ = s.hitLocked(pointer)
	return s.hovered
}

// Select toggles the selection of the node under pointer.
func (s *Simulation) Select(pointer graph.Position) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.hitLocked(pointer)
	switch {
	case !ok:
		s.selected = ""
	case id == s.selected:
		s.selected = ""
	default:
		s.selected = id
	}
	return s.selected
}

// Drag pins id at the world point under pointer.
func (s *Simulation) Drag(id string, pointer graph.Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.positions[id]; !ok {
		return false
	}
	s.pinned[id] = true
	s.positions[id] = camera.Inverse(s.store.Current(), s.viewport, pointer)
	return true
}

// Release lets a dragged node move again.
func (s *Simulation) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pinned, id)
}

// Zoom scales the camera by factor around pointer, cancelling any
// running animation.
func (s *Simulation) Zoom(pointer graph.Position, factor float64) camera.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anim.Stop()
	next := camera.ZoomAt(s.store.Current(), s.viewport, pointer, factor, MinZoom, MaxZoom)
	s.store.SetCurrent(next, false)
	return next
}

// Pan moves the camera by a device-pixel delta.
func (s *Simulation) Pan(dx, dy float64) camera.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anim.Stop()
	cur := s.store.Current()
	cur.X -= camera.ToWorld(cur, dx)
	cur.Y -= camera.ToWorld(cur, dy)
	s.store.SetCurrent(cur, false)
	return cur
}

// Resize changes the viewport. Physics bounds follow in world units.
func (s *Simulation) Resize(vp camera.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vp.Width <= 0 || vp.Height <= 0 {
		return
	}
	s.viewport = vp
	dpr := s.store.Current().DPR
	if dpr <= 0 {
		dpr = 1
	}
	s.bounds = physics.Bounds{Width: vp.Width / dpr, Height: vp.Height / dpr}
	s.anchors = fitAnchors(s.base, s.bounds, s.radii)
	if s.focus != "" {
		s.focusPins = s.anchors.Focus(s.data.Nodes, s.focus)
	}
}

// fitAnchors shrinks a toward the origin until every node target lies
// where the bounds let that node settle. Anchors that already fit are
// returned unchanged.
func fitAnchors(a layout.Anchors, b physics.Bounds, radii map[string]float64) layout.Anchors {
	f := 1.0
	for id, p := range a.Nodes {
		margin := radii[id] + physics.BoundsMargin
		maxX := math.Max(b.Width/2-margin, 0)
		maxY := math.Max(b.Height/2-margin, 0)
		if ax := math.Abs(p.X); ax > maxX {
			f = math.Min(f, maxX/ax)
		}
		if ay := math.Abs(p.Y); ay > maxY {
			f = math.Min(f, maxY/ay)
		}
	}
	if f >= 1 {
		return a
	}
	return a.Scaled(graph.Position{}, f)
}

// Scene returns a render scene of the current state.
func (s *Simulation) Scene() render.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return render.Scene{
		Data:      &s.data,
		Positions: s.positions.Clone(),
		Camera:    s.store.Current(),
		Viewport:  s.viewport,
		Hovered:   s.hovered,
		Focused:   s.selected,
		Pinned:    maps.Clone(s.pinned),
	}
}
