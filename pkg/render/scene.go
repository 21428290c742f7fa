package render

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/genregraph/pkg/camera"
	"github.com/matzehuels/genregraph/pkg/graph"
)

// Styling constants, in CSS pixels before the device pixel ratio.
const (
	// DenseEdgeThreshold is the edge count above which edges fade.
	DenseEdgeThreshold = 400

	edgeAlphaSparse    = 0.18
	edgeAlphaDense     = 0.08
	edgeAlphaPerWeight = 0.015
	edgeAlphaBoostMax  = 0.2
	edgeAlphaHovered   = 0.5
	edgeWidthBase      = 1
	edgeWidthPerWeight = 0.2
	edgeWidthMax       = 5
	edgeWidthHovered   = 3

	glowPad      = 12
	hoverRingPad = 5
	pinRingPad   = 8
	focusRingPad = 11

	labelMinRadius = 14
	labelOffset    = 14
	fontMin        = 10
	fontMax        = 14
)

// Fixed colors.
const (
	DefaultBackground = "#0f1226"

	edgeColor       = "#8294ff"
	nodeColor       = "#dfe6ff"
	pinColor        = "#ffd666"
	focusColor      = "#ffffff"
	labelColor      = "#ffffff"
	nodeStrokeAlpha = 0.2
	labelAlpha      = 0.9
	glowAlpha       = 0x44 / 255.0
	hoverRingAlpha  = 0xaa / 255.0
	pinRingAlpha    = 0.85
)

// Palette colors nodes that carry no color of their own, by draw index.
var Palette = []string{
	"#1DB954", "#667eea", "#764ba2", "#f093fb", "#f5576c",
	"#4facfe", "#00f2fe", "#43e97b", "#fa709a", "#fee140",
	"#30cfd0", "#c471f5", "#6a11cb", "#2575fc", "#ff6b6b",
}

// Scene is everything needed to draw one frame.
type Scene struct {
	Data      *graph.Data
	Positions graph.Positions
	Camera    camera.State
	Viewport  camera.Viewport
	Hovered   string
	Focused   string
	Pinned    map[string]bool
}

// Line is an edge in device pixels.
type Line struct {
	ID             string
	X1, Y1, X2, Y2 float64
	Width          float64
	Alpha          float64
	Highlighted    bool
}

// Disc is a node in device pixels. Color is the node's category or palette
// color; the live view only paints with it on hover.
type Disc struct {
	ID       string
	X, Y, R  float64
	Color    string
	Hovered  bool
	Focused  bool
	Pinned   bool
	Label    string
	FontSize float64
}

// ShowLabel reports whether the node label is drawn.
func (d Disc) ShowLabel() bool { return d.Label != "" }

// Frame is a composed scene in paint order.
type Frame struct {
	Width, Height float64
	Scale         float64
	Lines         []Line
	Discs         []Disc
}

// Compose resolves a scene into screen-space primitives. Nodes without a
// position are drawn at the world origin.
func Compose(s Scene) Frame {
	f := Frame{Width: s.Viewport.Width, Height: s.Viewport.Height, Scale: s.Camera.Scale()}
	if s.Data == nil {
		return f
	}
	dpr := s.Camera.DPR
	if !(dpr > 0) {
		dpr = 1
	}

	alphaBase := edgeAlphaSparse
	if len(s.Data.Edges) > DenseEdgeThreshold {
		alphaBase = edgeAlphaDense
	}
	f.Lines = make([]Line, 0, len(s.Data.Edges))
	for _, e := range s.Data.Edges {
		pa := camera.Forward(s.Camera, s.Viewport, s.Positions.At(e.Source))
		pb := camera.Forward(s.Camera, s.Viewport, s.Positions.At(e.Target))
		l := Line{ID: e.ID, X1: pa.X, Y1: pa.Y, X2: pb.X, Y2: pb.Y}
		w := float64(e.Weight)
		if s.Hovered != "" && (e.Source == s.Hovered || e.Target == s.Hovered) {
			l.Highlighted = true
			l.Alpha = edgeAlphaHovered
			l.Width = edgeWidthHovered
		} else {
			l.Alpha = alphaBase + math.Min(edgeAlphaBoostMax, w*edgeAlphaPerWeight)
			l.Width = math.Min(edgeWidthMax, edgeWidthBase+w*edgeWidthPerWeight)
		}
		l.Width *= dpr
		f.Lines = append(f.Lines, l)
	}

	nodes := camera.DrawOrder(s.Data.Nodes)
	f.Discs = make([]Disc, 0, len(nodes))
	for i, n := range nodes {
		sp := camera.Forward(s.Camera, s.Viewport, s.Positions.At(n.ID))
		r := n.RenderRadius()
		d := Disc{
			ID:      n.ID,
			X:       sp.X,
			Y:       sp.Y,
			R:       r * f.Scale,
			Color:   NodeFill(n, i),
			Hovered: n.ID == s.Hovered,
			Focused: n.ID == s.Focused,
			Pinned:  s.Pinned[n.ID],
		}
		if r > labelMinRadius || d.Hovered {
			d.Label = n.DisplayLabel()
			d.FontSize = math.Max(fontMin, math.Min(fontMax, r*0.6)) * dpr
		}
		f.Discs = append(f.Discs, d)
	}
	return f
}

// NodeFill is the node's own color, or a palette color by draw index.
func NodeFill(n graph.Node, index int) string {
	if n.Color != "" {
		return n.Color
	}
	return Palette[index%len(Palette)]
}

// rgba parses a hex color; unparsable input falls back to the node color.
func rgba(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(nodeColor)
	}
	return c
}

// cssRGBA formats a color for SVG attributes.
func cssRGBA(hex string, alpha float64) string {
	c := rgba(hex)
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", r, g, b, alpha)
}
