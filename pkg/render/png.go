package render

import (
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"
)

// PNG rasterizes the scene at the viewport size.
func PNG(w io.Writer, s Scene, opts ...Option) error {
	f := Compose(s)
	width, height := int(math.Ceil(f.Width)), int(math.Ceil(f.Height))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render png: empty viewport %vx%v", f.Width, f.Height)
	}
	dc := gg.NewContext(width, height)
	paintPNG(dc, f, newPainter(opts...))
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func setColor(dc *gg.Context, hex string, alpha float64) {
	c := rgba(hex)
	dc.SetRGBA(c.R, c.G, c.B, alpha)
}

func paintPNG(dc *gg.Context, f Frame, p painter) {
	if p.background != "" {
		setColor(dc, p.background, 1)
		dc.Clear()
	}

	dc.SetLineCap(gg.LineCapRound)
	for _, l := range f.Lines {
		setColor(dc, edgeColor, l.Alpha)
		dc.SetLineWidth(l.Width)
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		dc.Stroke()
	}

	ring := func(d Disc, pad, width float64, hex string, alpha float64) {
		setColor(dc, hex, alpha)
		dc.SetLineWidth(width)
		dc.DrawCircle(d.X, d.Y, d.R+pad*f.Scale)
		dc.Stroke()
	}

	for _, d := range f.Discs {
		if d.Hovered {
			setColor(dc, d.Color, glowAlpha)
			dc.DrawCircle(d.X, d.Y, d.R+glowPad*f.Scale)
			dc.Fill()
		}

		hex, alpha := p.fill(d)
		setColor(dc, hex, alpha)
		dc.DrawCircle(d.X, d.Y, d.R)
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, nodeStrokeAlpha)
		dc.SetLineWidth(1)
		dc.Stroke()

		if d.Hovered {
			ring(d, hoverRingPad, 3, d.Color, hoverRingAlpha)
		}
		if d.Pinned {
			ring(d, pinRingPad, 2.5, pinColor, pinRingAlpha)
		}
		if d.Focused {
			dc.SetDash(4, 3)
			ring(d, focusRingPad, 2, focusColor, 1)
			dc.SetDash()
		}
		if p.labels && d.ShowLabel() {
			setColor(dc, labelColor, labelAlpha)
			dc.DrawStringAnchored(d.Label, d.X, d.Y+d.R+labelOffset*f.Scale, 0.5, 0.5)
		}
	}
}
