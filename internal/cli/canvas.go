package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
)

// cell is one character of the terminal canvas.
type cell struct {
	r     rune
	color string
}

// termCanvas rasterizes a figure into a character grid. Terminal cells are
// about twice as tall as wide, which the caller accounts for when choosing
// the size.
type termCanvas struct {
	w, h  int
	x, y  draw.Range
	cells [][]cell
}

func newTermCanvas(fig *draw.Figure, w, h int) *termCanvas {
	c := &termCanvas{w: max(w, 2), h: max(h, 2), x: fig.XRange, y: fig.YRange}
	if !c.x.Set || c.x.Span() == 0 {
		c.x = extent(fig, func(g *draw.Glyph) string { return g.X })
	}
	if !c.y.Set || c.y.Span() == 0 {
		c.y = extent(fig, func(g *draw.Glyph) string { return g.Y })
	}
	c.cells = make([][]cell, c.h)
	for i := range c.cells {
		c.cells[i] = make([]cell, c.w)
		for j := range c.cells[i] {
			c.cells[i][j] = cell{r: ' '}
		}
	}
	return c
}

// extent spans every row of every glyph source along one axis.
func extent(fig *draw.Figure, col func(*draw.Glyph) string) draw.Range {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range fig.Glyphs {
		name := col(g)
		data := g.Source.Full()
		if !data.Has(name) {
			continue
		}
		for i := range data.Len() {
			if v, ok := dataset.Float(data.Value(i, name)); ok && !math.IsNaN(v) {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
	}
	if math.IsInf(lo, 0) {
		return draw.NewRange(0, 1)
	}
	if lo == hi {
		return draw.NewRange(lo-1, hi+1)
	}
	return draw.NewRange(lo, hi)
}

// cellAt maps data coordinates to a cell, reporting false outside the canvas.
func (c *termCanvas) cellAt(x, y float64) (int, int, bool) {
	col := int(math.Round((x - c.x.Start) / c.x.Span() * float64(c.w-1)))
	row := int(math.Round((c.y.End - y) / c.y.Span() * float64(c.h-1)))
	if col < 0 || col >= c.w || row < 0 || row >= c.h {
		return 0, 0, false
	}
	return row, col, true
}

func (c *termCanvas) set(x, y float64, r rune, color string) {
	if row, col, ok := c.cellAt(x, y); ok {
		c.cells[row][col] = cell{r: r, color: color}
	}
}

// backdrop draws vertical backdrop lines, such as yard lines.
func (c *termCanvas) backdrop(instrs []draw.Instruction) {
	for _, in := range instrs {
		if in.Shape != draw.ShapeLine || in.X != in.X2 {
			continue
		}
		lo, hi := math.Min(in.Y, in.Y2), math.Max(in.Y, in.Y2)
		for row := range c.h {
			y := c.y.End - float64(row)/float64(c.h-1)*c.y.Span()
			if y >= lo && y <= hi {
				c.set(in.X, y, '│', "")
			}
		}
	}
}

// glyphs plots the visible rows of every glyph. Lines leave a trail of
// dots; markers use the first letter of their legend.
func (c *termCanvas) glyphs(glyphs []*draw.Glyph) {
	for _, kind := range []draw.GlyphKind{draw.GlyphLine, draw.GlyphCircle, draw.GlyphEllipse} {
		for _, g := range glyphs {
			if g.Kind != kind {
				continue
			}
			data := g.Source.Visible()
			r := marker(g)
			color := termColor(g.Attrs.String("fill_color"))
			if kind == draw.GlyphLine {
				color = termColor(g.Attrs.String("line_color"))
			}
			for i := range data.Len() {
				x, okx := dataset.Float(data.Value(i, g.X))
				y, oky := dataset.Float(data.Value(i, g.Y))
				if okx && oky {
					c.set(x, y, r, color)
				}
			}
		}
	}
}

func marker(g *draw.Glyph) rune {
	switch g.Kind {
	case draw.GlyphLine:
		return '·'
	case draw.GlyphEllipse:
		return '●'
	}
	for _, r := range g.Legend {
		return r
	}
	return 'o'
}

// String renders the canvas inside a rounded border.
func (c *termCanvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range row {
			s := string(cl.r)
			if cl.color != "" {
				s = lipgloss.NewStyle().Foreground(lipgloss.Color(cl.color)).Bold(true).Render(s)
			} else if cl.r == '│' {
				s = StyleDim.Render(s)
			}
			b.WriteString(s)
		}
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGreen).Render(b.String())
}

var namedColors = map[string]string{
	"black": "#000000",
	"white": "#ffffff",
	"brown": "#8b4513",
	"gray":  "#808080",
	"grey":  "#808080",
	"red":   "#ff0000",
	"blue":  "#0000ff",
}

// termColor converts a CSS color to a hex color lipgloss understands.
func termColor(css string) string {
	css = strings.TrimSpace(strings.ToLower(css))
	switch {
	case css == "":
		return ""
	case strings.HasPrefix(css, "#"):
		return css
	case strings.HasPrefix(css, "rgb("):
		var r, g, b int
		if _, err := fmt.Sscanf(strings.ReplaceAll(css, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return ""
		}
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	default:
		return namedColors[css]
	}
}

// renderFigure draws fig at the current frame as terminal text.
func renderFigure(fig *draw.Figure, w, h int) string {
	c := newTermCanvas(fig, w, h)
	c.backdrop(fig.Backdrop)
	c.glyphs(fig.Glyphs)
	out := c.String()
	if fig.Title != "" {
		out = StyleTitle.Render(fig.Title) + "\n" + out
	}
	return out
}
