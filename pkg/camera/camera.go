package camera

import (
	"math"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// CategoryZoom is the zoom applied when focusing a category cluster.
const CategoryZoom = 1.5

// Viewport is the drawable area in device pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the middle of the viewport.
func (v Viewport) Center() graph.Position {
	return graph.Position{X: v.Width / 2, Y: v.Height / 2}
}

// State is the camera: zoom factor, pan point in world units and the
// device pixel ratio.
type State struct {
	Zoom float64 `json:"zoom"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	DPR  float64 `json:"dpr,omitempty"`
}

// Identity returns the overview camera: zoom 1 at the origin.
func Identity() State { return State{Zoom: 1, DPR: 1} }

// Pan returns the pan point.
func (s State) Pan() graph.Position { return graph.Position{X: s.X, Y: s.Y} }

// Scale is the number of device pixels per world unit. A non-positive
// DPR counts as 1.
func (s State) Scale() float64 { return pixelRatio(s.DPR) * s.Zoom }

func pixelRatio(dpr float64) float64 {
	if !(dpr > 0) {
		return 1
	}
	return dpr
}

// Forward maps a world point to device pixels.
func Forward(s State, vp Viewport, world graph.Position) graph.Position {
	return vp.Center().Add(world.Sub(s.Pan()).Scale(s.Scale()))
}

// Inverse maps a device pixel back to world coordinates. A zero or
// non-finite scale returns the pan point.
func Inverse(s State, vp Viewport, screen graph.Position) graph.Position {
	k := s.Scale()
	if k == 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return s.Pan()
	}
	return screen.Sub(vp.Center()).Scale(1 / k).Add(s.Pan())
}

// ToWorld converts a length in device pixels to world units.
func ToWorld(s State, px float64) float64 {
	k := s.Scale()
	if k == 0 {
		return 0
	}
	return px / math.Abs(k)
}

// CategoryTarget is the camera that puts a category centered at c in the
// middle of the viewport.
func CategoryTarget(c graph.Position) Target {
	return Target{Zoom: CategoryZoom, X: c.X, Y: c.Y}
}

// ZoomAt multiplies the zoom by factor, clamped to [minZoom, maxZoom],
// while keeping the world point under pointer fixed on screen. A
// non-positive bound is ignored.
func ZoomAt(s State, vp Viewport, pointer graph.Position, factor, minZoom, maxZoom float64) State {
	if !(factor > 0) {
		return s
	}
	anchor := Inverse(s, vp, pointer)
	z := s.Zoom * factor
	if minZoom > 0 {
		z = math.Max(z, minZoom)
	}
	if maxZoom > 0 {
		z = math.Min(z, maxZoom)
	}
	next := s
	next.Zoom = z
	k := next.Scale()
	if k == 0 {
		return next
	}
	// Solve pointer = center + k·(anchor − pan) for pan.
	off := pointer.Sub(vp.Center()).Scale(1 / k)
	next.X = anchor.X - off.X
	next.Y = anchor.Y - off.Y
	return next
}

// Fit returns a camera framing bounds inside the viewport with padding
// device pixels on every side. DPR is carried from dpr.
func Fit(bounds graph.Rect, vp Viewport, padding, dpr float64) State {
	s := State{Zoom: 1, DPR: dpr}
	c := bounds.Center()
	s.X, s.Y = c.X, c.Y

	w, h := bounds.Width(), bounds.Height()
	availW := vp.Width - 2*padding
	availH := vp.Height - 2*padding
	if w <= 0 || h <= 0 || availW <= 0 || availH <= 0 {
		return s
	}
	s.Zoom = math.Min(availW/w, availH/h) / pixelRatio(dpr)
	return s
}
