package render

import (
	"bytes"
	"fmt"
	"html"
)

// SVG writes the scene as standalone SVG markup.
func SVG(s Scene, opts ...Option) []byte {
	f := Compose(s)
	p := newPainter(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	if p.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", cssRGBA(p.background, 1))
	}

	buf.WriteString(`  <g class="edges" stroke-linecap="round">` + "\n")
	for _, l := range f.Lines {
		fmt.Fprintf(&buf, `    <line id="edge-%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
			html.EscapeString(l.ID), l.X1, l.Y1, l.X2, l.Y2, cssRGBA(edgeColor, l.Alpha), l.Width)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, d := range f.Discs {
		writeDisc(&buf, d, f.Scale, p)
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeDisc(buf *bytes.Buffer, d Disc, scale float64, p painter) {
	circle := func(r float64, attrs string) {
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" %s/>`+"\n", d.X, d.Y, r, attrs)
	}
	if d.Hovered {
		circle(d.R+glowPad*scale, fmt.Sprintf(`fill="%s"`, cssRGBA(d.Color, glowAlpha)))
	}

	hex, alpha := p.fill(d)
	fmt.Fprintf(buf, `    <circle id="node-%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="rgba(0,0,0,%.3f)" stroke-width="1"><title>%s</title></circle>`+"\n",
		html.EscapeString(d.ID), d.X, d.Y, d.R, cssRGBA(hex, alpha), nodeStrokeAlpha, html.EscapeString(d.ID))

	if d.Hovered {
		circle(d.R+hoverRingPad*scale, fmt.Sprintf(`fill="none" stroke="%s" stroke-width="3"`, cssRGBA(d.Color, hoverRingAlpha)))
	}
	if d.Pinned {
		circle(d.R+pinRingPad*scale, fmt.Sprintf(`fill="none" stroke="%s" stroke-width="2.5"`, cssRGBA(pinColor, pinRingAlpha)))
	}
	if d.Focused {
		circle(d.R+focusRingPad*scale, fmt.Sprintf(`fill="none" stroke="%s" stroke-width="2" stroke-dasharray="4 3"`, focusColor))
	}
	if p.labels && d.ShowLabel() {
		weight := "normal"
		if d.Hovered {
			weight = "bold"
		}
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" font-weight="%s" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			d.X, d.Y+d.R+labelOffset*scale, d.FontSize, weight, cssRGBA(labelColor, labelAlpha), html.EscapeString(d.Label))
	}
}
