package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// DOT defaults.
const (
	// DefaultDOTScale converts world units to Graphviz points.
	DefaultDOTScale = 1.0
	pointsPerInch   = 72.0
)

// DOTOptions configures Graphviz output.
type DOTOptions struct {
	// Scale multiplies positions before they are pinned. Zero means
	// DefaultDOTScale.
	Scale float64

	// Detailed adds minutes, degree and category to node labels.
	Detailed bool
}

// ToDOT writes an undirected neato graph with every positioned node pinned
// at its layout coordinates. Graphviz's y axis points up, so y is negated.
// Nodes and edges without positions are left out.
func ToDOT(data *graph.Data, positions graph.Positions, opts DOTOptions) string {
	scale := opts.Scale
	if scale == 0 {
		scale = DefaultDOTScale
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=10, fontname=\"sans-serif\"];\n")
	buf.WriteString("  edge [color=\"#8294ff80\"];\n")
	buf.WriteString("\n")

	if data == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	for i, n := range data.Nodes {
		p := positions.At(n.ID)
		diameter := 2 * n.RenderRadius() * scale / pointsPerInch
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
			fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(p.X*scale), fmtFloat(0-p.Y*scale)),
			fmt.Sprintf("width=%s", fmtFloat(diameter)),
			fmt.Sprintf("fillcolor=%q", NodeFill(n, i)),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range data.Edges {
		width := min(edgeWidthMax, edgeWidthBase+float64(e.Weight)*edgeWidthPerWeight)
		fmt.Fprintf(&buf, "  %q -- %q [penwidth=%s];\n", e.Source, e.Target, fmtFloat(width))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}
	parts := []string{
		n.DisplayLabel(),
		fmt.Sprintf("minutes: %s", fmtFloat(n.TotalMinutes)),
		fmt.Sprintf("degree: %d", n.Degree),
	}
	if n.Category != "" {
		parts = append(parts, "category: "+n.Category)
	}
	return strings.Join(parts, "\n")
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderDOT renders DOT source to SVG with the embedded Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the SVG scales like the other outputs.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
