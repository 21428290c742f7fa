package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/genregraph/pkg/render"
)

// Terminal cells are treated as cellWidth×cellHeight device pixels.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

const (
	edgeColor          = "#4b5694"
	edgeHighlightColor = "#8294ff"
	focusColor         = "#ffffff"
	labelColor         = "#c8ceea"
)

type cell struct {
	r     rune
	color string
	bold  bool
}

// canvas rasterizes a render frame onto terminal cells.
type canvas struct {
	cols, rows int
	cells      []cell
}

func newCanvas(cols, rows int) *canvas {
	cols, rows = max(cols, 0), max(rows, 0)
	return &canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
}

func (c *canvas) set(x, y int, v cell) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y*c.cols+x] = v
}

func (c *canvas) at(x, y int) cell {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return cell{}
	}
	return c.cells[y*c.cols+x]
}

// toCell maps device pixels to a cell.
func toCell(x, y float64) (int, int) {
	return int(math.Floor(x / cellWidth)), int(math.Floor(y / cellHeight))
}

// cellCenter maps a cell to the device pixel at its center.
func cellCenter(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * cellWidth, (float64(row) + 0.5) * cellHeight
}

// draw paints edges first, then nodes in frame order, then labels.
func (c *canvas) draw(f render.Frame) {
	for _, l := range f.Lines {
		x0, y0 := toCell(l.X1, l.Y1)
		x1, y1 := toCell(l.X2, l.Y2)
		color := edgeColor
		if l.Highlighted {
			color = edgeHighlightColor
		}
		c.line(x0, y0, x1, y1, cell{r: '·', color: color})
	}
	for _, d := range f.Discs {
		x, y := toCell(d.X, d.Y)
		glyph := '•'
		switch {
		case d.R >= 2*cellWidth:
			glyph = '⬤'
		case d.R >= cellWidth:
			glyph = '●'
		}
		if d.Pinned {
			glyph = '◆'
		}
		color := d.Color
		if d.Hovered || d.Focused {
			color = focusColor
		}
		c.set(x, y, cell{r: glyph, color: color, bold: d.Focused})
	}
	for _, d := range f.Discs {
		if !d.ShowLabel() {
			continue
		}
		x, y := toCell(d.X, d.Y)
		col := x + 2
		for _, r := range d.Label {
			if existing := c.at(col, y); existing.r != 0 && existing.r != '·' {
				break
			}
			c.set(col, y, cell{r: r, color: labelColor, bold: d.Hovered})
			col++
		}
	}
}

// line draws with Bresenham, leaving cells that hold something else.
func (c *canvas) line(x0, y0, x1, y1 int, v cell) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	errv := dx + dy
	for {
		if existing := c.at(x0, y0); existing.r == 0 || existing.r == '·' {
			c.set(x0, y0, v)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * errv
		if e2 >= dy {
			errv += dy
			x0 += sx
		}
		if e2 <= dx {
			errv += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// String renders the canvas with lipgloss colors.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			v := c.cells[y*c.cols+x]
			if v.r == 0 {
				b.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(v.color)).Bold(v.bold)
			b.WriteString(style.Render(string(v.r)))
		}
		if y < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// plain returns the canvas runes without styling.
func (c *canvas) plain() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			r := c.cells[y*c.cols+x].r
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
