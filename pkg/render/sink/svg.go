package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
)

const (
	titleHeight   = 24
	captionHeight = 28
	defaultHeight = 400
	defaultFont   = "Helvetica,Arial,sans-serif"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	caption  string
	tooltips bool
	font     string
}

// WithCaption writes a caption below the panels, typically the current
// frame label.
func WithCaption(s string) SVGOption { return func(r *svgRenderer) { r.caption = s } }

// WithTooltips attaches native hover titles to glyphs that have a hover
// tool.
func WithTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = true } }

// WithFont sets the font family.
func WithFont(family string) SVGOption { return func(r *svgRenderer) { r.font = family } }

// RenderSVG renders a snapshot of the grid: every figure with its backdrop
// and the currently visible rows of each glyph.
func RenderSVG(g *draw.Grid, opts ...SVGOption) []byte {
	r := svgRenderer{font: defaultFont}
	for _, opt := range opts {
		opt(&r)
	}

	panels := make([]panel, len(g.Figures))
	cellW, cellH := 0, 0
	for i, fig := range g.Figures {
		panels[i] = newPanel(fig)
		cellW = max(cellW, panels[i].w)
		cellH = max(cellH, panels[i].top+panels[i].h)
	}
	width := cellW * min(g.Cols, max(len(panels), 1))
	height := cellH * g.Rows()
	if r.caption != "" {
		height += captionHeight
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(max(width, 1), max(height, 1), fmt.Sprintf(`font-family="%s"`, r.font))
	for i, p := range panels {
		col, row := i%g.Cols, i/g.Cols
		canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", col*cellW, row*cellH))
		r.renderPanel(canvas, p)
		canvas.Gend()
	}
	if r.caption != "" {
		canvas.Text(width/2, height-captionHeight/2, r.caption,
			`text-anchor="middle"`, `dominant-baseline="middle"`, "font-size:14px;fill:#333")
	}
	canvas.End()
	return buf.Bytes()
}

// panel maps one figure's data coordinates to pixels.
type panel struct {
	fig  *draw.Figure
	x, y draw.Range
	w, h int
	top  int
}

func newPanel(fig *draw.Figure) panel {
	p := panel{fig: fig, x: fig.XRange, y: fig.YRange, h: fig.Height, w: fig.Width}
	if !p.x.Set {
		p.x = fitRange(fig, func(g *draw.Glyph) string { return g.X })
	}
	if !p.y.Set {
		p.y = fitRange(fig, func(g *draw.Glyph) string { return g.Y })
	}
	if p.h <= 0 {
		p.h = defaultHeight
	}
	if p.w <= 0 {
		p.w = int(math.Round(float64(p.h) * p.x.Span() / p.y.Span()))
	}
	if fig.Title != "" {
		p.top = titleHeight
	}
	return p
}

// fitRange spans every value of a glyph column with 5% padding.
func fitRange(fig *draw.Figure, col func(*draw.Glyph) string) draw.Range {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range fig.Glyphs {
		name := col(g)
		c, ok := g.Source.Full().Column(name)
		if name == "" || !ok {
			continue
		}
		for _, v := range c.Values {
			if f, ok := dataset.Float(v); ok && !math.IsNaN(f) {
				lo, hi = math.Min(lo, f), math.Max(hi, f)
			}
		}
	}
	if math.IsInf(lo, 1) {
		return draw.NewRange(0, 1)
	}
	if lo == hi {
		return draw.NewRange(lo-0.5, hi+0.5)
	}
	pad := (hi - lo) * 0.05
	return draw.NewRange(lo-pad, hi+pad)
}

func (p panel) px(x float64) int {
	return int(math.Round((x - p.x.Start) / p.x.Span() * float64(p.w)))
}

func (p panel) py(y float64) int {
	return p.top + int(math.Round(float64(p.h)-(y-p.y.Start)/p.y.Span()*float64(p.h)))
}

// sx and sy convert data distances to pixel lengths.
func (p panel) sx(d float64) float64 { return d / p.x.Span() * float64(p.w) }
func (p panel) sy(d float64) float64 { return d / p.y.Span() * float64(p.h) }

// matrix is the SVG transform from data to pixel coordinates.
func (p panel) matrix() string {
	a := float64(p.w) / p.x.Span()
	d := -float64(p.h) / p.y.Span()
	e := -p.x.Start * a
	f := float64(p.top+p.h) + p.y.Start*float64(p.h)/p.y.Span()
	return fmt.Sprintf("matrix(%.6g 0 0 %.6g %.6g %.6g)", a, d, e, f)
}

func (r *svgRenderer) renderPanel(canvas *svg.SVG, p panel) {
	fig := p.fig
	if fig.Title != "" {
		canvas.Text(p.w/2, titleHeight/2, fig.Title,
			`text-anchor="middle"`, `dominant-baseline="middle"`, "font-size:14px;font-weight:bold;fill:#333")
	}

	clip := "clip-" + fig.ID
	canvas.ClipPath(fmt.Sprintf(`id="%s"`, clip))
	canvas.Rect(0, p.top, p.w, p.h)
	canvas.ClipEnd()
	canvas.Group(fmt.Sprintf(`clip-path="url(#%s)"`, clip))
	defer canvas.Gend()

	bg := fig.Background
	if bg == "" {
		bg = "white"
	}
	canvas.Rect(0, p.top, p.w, p.h, styleAttr("fill:"+bg))
	if fig.ShowGrid {
		renderGrid(canvas, p)
	}
	for _, in := range fig.Backdrop {
		renderInstruction(canvas, p, in)
	}

	hover := hoverTips(fig)
	for _, g := range fig.Glyphs {
		var tips []draw.Tooltip
		if r.tooltips {
			tips = hover[g.Name]
		}
		renderGlyph(canvas, p, g, tips)
	}
	if fig.ShowAxes {
		canvas.Rect(0, p.top, p.w, p.h, "fill:none;stroke:#888;stroke-width:2")
	}
}

func renderGrid(canvas *svg.SVG, p panel) {
	var path strings.Builder
	for _, t := range ticks(p.x) {
		fmt.Fprintf(&path, "M%d %dV%d", p.px(t), p.top, p.top+p.h)
	}
	for _, t := range ticks(p.y) {
		fmt.Fprintf(&path, "M0 %dH%d", p.py(t), p.w)
	}
	if path.Len() > 0 {
		canvas.Path(path.String(), "stroke:#e5e5e5;stroke-width:1;fill:none")
	}
}

// ticks returns round values inside r, roughly five of them.
func ticks(r draw.Range) []float64 {
	span := r.Span()
	if span <= 0 {
		return nil
	}
	raw := span / 5
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag * 10
	for _, m := range []float64{1, 2, 5} {
		if raw <= m*mag*1.5 {
			step = m * mag
			break
		}
	}
	var out []float64
	for t := math.Ceil(r.Start/step) * step; t <= r.End; t += step {
		out = append(out, t)
	}
	return out
}

func renderInstruction(canvas *svg.SVG, p panel, in draw.Instruction) {
	switch in.Shape {
	case draw.ShapeRect:
		x0, y0 := p.px(in.X), p.py(in.Y+in.Height)
		canvas.Rect(x0, y0, max(p.px(in.X+in.Width)-x0, 1), max(p.py(in.Y)-y0, 1), shapeStyle(in.Attrs))
	case draw.ShapeLine:
		canvas.Line(p.px(in.X), p.py(in.Y), p.px(in.X2), p.py(in.Y2), shapeStyle(in.Attrs))
	case draw.ShapePath:
		canvas.Gtransform(p.matrix())
		canvas.Path(in.D, shapeStyle(in.Attrs, "vector-effect:non-scaling-stroke"))
		canvas.Gend()
	case draw.ShapeText:
		x, y := p.px(in.X), p.py(in.Y)
		canvas.Text(x, y, in.Text, append(textAttrs(p, in.Attrs), rotate(in.Angle, x, y))...)
	}
}

func renderGlyph(canvas *svg.SVG, p panel, g *draw.Glyph, tips []draw.Tooltip) {
	data := g.Source.Full()
	rows := g.Source.VisibleRows()
	canvas.Gid(g.ID)
	defer canvas.Gend()

	if g.Kind == draw.GlyphLine {
		var xs, ys []int
		for _, i := range rows {
			x, y, ok := point(data, i, g)
			if !ok {
				continue
			}
			xs, ys = append(xs, p.px(x)), append(ys, p.py(y))
		}
		if len(xs) > 1 {
			canvas.Polyline(xs, ys, lineStyle(g.Attrs))
		}
		return
	}

	for _, i := range rows {
		x, y, ok := point(data, i, g)
		if !ok {
			continue
		}
		cx, cy := p.px(x), p.py(y)
		if len(tips) > 0 {
			canvas.Group()
			canvas.Title(tooltip(data, i, tips))
		}
		switch g.Kind {
		case draw.GlyphCircle:
			r := max(int(math.Round(p.sx(g.Attrs.Float("radius", 1)))), 1)
			canvas.Circle(cx, cy, r, shapeStyle(g.Attrs))
		case draw.GlyphEllipse:
			rx := max(int(math.Round(p.sx(g.Attrs.Float("width", 1)/2))), 1)
			ry := max(int(math.Round(p.sy(g.Attrs.Float("height", 1)/2))), 1)
			canvas.Ellipse(cx, cy, rx, ry, shapeStyle(g.Attrs), rotate(angle(data, i, g), cx, cy))
		case draw.GlyphPick:
			xs, ys := pick(cx, cy, p.sx(g.Attrs.Float("radius", 1)), angle(data, i, g))
			canvas.Polygon(xs, ys, shapeStyle(g.Attrs))
		case draw.GlyphText:
			canvas.Text(cx, cy, dataset.Format(data.Value(i, g.Text)), textAttrs(p, g.Attrs)...)
		}
		if len(tips) > 0 {
			canvas.Gend()
		}
	}
}

func point(data *dataset.Frame, row int, g *draw.Glyph) (float64, float64, bool) {
	x, okx := dataset.Float(data.Value(row, g.X))
	y, oky := dataset.Float(data.Value(row, g.Y))
	if !okx || !oky || math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	return x, y, true
}

func angle(data *dataset.Frame, row int, g *draw.Glyph) float64 {
	if g.Angle == "" {
		return 0
	}
	a, ok := dataset.Float(data.Value(row, g.Angle))
	if !ok || math.IsNaN(a) {
		return 0
	}
	return a
}

// pick is a wedge of length 2r pointing along angle, measured in radians
// counter-clockwise from the positive x axis.
func pick(cx, cy int, r, angle float64) ([]int, []int) {
	pts := [][2]float64{{2 * r, 0}, {-r / 2, r * 0.8}, {-r / 2, -r * 0.8}}
	cos, sin := math.Cos(angle), math.Sin(angle)
	xs, ys := make([]int, len(pts)), make([]int, len(pts))
	for i, pt := range pts {
		xs[i] = cx + int(math.Round(pt[0]*cos-pt[1]*sin))
		ys[i] = cy - int(math.Round(pt[0]*sin+pt[1]*cos))
	}
	return xs, ys
}

// rotate turns a counter-clockwise data-space angle into an SVG transform
// about (x, y).
func rotate(rad float64, x, y int) string {
	return fmt.Sprintf(`transform="rotate(%.4g %d %d)"`, -rad*180/math.Pi, x, y)
}

func tooltip(data *dataset.Frame, row int, tips []draw.Tooltip) string {
	lines := make([]string, len(tips))
	for i, t := range tips {
		lines[i] = t.Label + ": " + dataset.Format(data.Value(row, t.Field))
	}
	return strings.Join(lines, "\n")
}

func hoverTips(fig *draw.Figure) map[string][]draw.Tooltip {
	out := make(map[string][]draw.Tooltip)
	for _, t := range fig.Tools {
		if t.Kind != draw.ToolHover {
			continue
		}
		for _, name := range t.Names {
			out[name] = append(out[name], t.Tooltips...)
		}
	}
	return out
}

// styleAttr writes css as a complete, escaped style attribute. svgo emits
// any argument containing "=" verbatim.
func styleAttr(css string) string {
	return `style="` + html.EscapeString(css) + `"`
}

func shapeStyle(a draw.Attrs, extra ...string) string {
	var parts []string
	if c := a.String("fill_color"); c != "" {
		parts = append(parts, "fill:"+c)
	} else {
		parts = append(parts, "fill:none")
	}
	parts = append(parts, strokeStyle(a)...)
	if v, ok := a["fill_alpha"]; ok {
		parts = append(parts, fmt.Sprintf("fill-opacity:%v", v))
	}
	return styleAttr(strings.Join(append(parts, extra...), ";"))
}

func lineStyle(a draw.Attrs) string {
	return styleAttr(strings.Join(append([]string{"fill:none", "stroke-linejoin:round"}, strokeStyle(a)...), ";"))
}

func strokeStyle(a draw.Attrs) []string {
	var parts []string
	w := a.Float("line_width", 1)
	if c := a.String("line_color"); c != "" && w > 0 {
		parts = append(parts, "stroke:"+c, fmt.Sprintf("stroke-width:%.3g", w))
	}
	if v, ok := a["alpha"]; ok {
		parts = append(parts, fmt.Sprintf("opacity:%v", v))
	}
	if v, ok := a["line_alpha"]; ok {
		parts = append(parts, fmt.Sprintf("stroke-opacity:%v", v))
	}
	return parts
}

func textAttrs(p panel, a draw.Attrs) []string {
	color := a.String("text_color")
	if color == "" {
		color = "black"
	}
	size := 11.0
	if fs := a.Float("font_size", 0); fs > 0 {
		size = p.sy(fs)
	}
	out := []string{styleAttr(fmt.Sprintf("fill:%s;font-size:%.3gpx", color, size))}
	switch a.String("text_align") {
	case "center":
		out = append(out, `text-anchor="middle"`)
	case "right":
		out = append(out, `text-anchor="end"`)
	}
	if a.String("text_baseline") == "middle" {
		out = append(out, `dominant-baseline="middle"`)
	}
	return out
}
