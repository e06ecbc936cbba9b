package draw

// GlyphKind is the shape a glyph draws for each visible row.
type GlyphKind string

const (
	// GlyphCircle draws a circle per row; "radius" is in data units.
	GlyphCircle GlyphKind = "circle"
	// GlyphEllipse draws an ellipse per row sized by "width" and "height".
	GlyphEllipse GlyphKind = "ellipse"
	// GlyphPick draws an orientation wedge per row rotated by the Angle column.
	GlyphPick GlyphKind = "pick"
	// GlyphText draws the Text column at each row's position.
	GlyphText GlyphKind = "text"
	// GlyphLine connects the visible rows in order.
	GlyphLine GlyphKind = "line"
)

// Structural attribute keys. They bind a glyph to its source columns and
// legend and are consumed by NewGlyph rather than kept as style.
const (
	AttrX           = "x"
	AttrY           = "y"
	AttrSource      = "source"
	AttrName        = "name"
	AttrLegendLabel = "legend_label"
	AttrText        = "text"
	AttrAngle       = "angle"
)

// Glyph is a shape repeated over the visible rows of a source.
type Glyph struct {
	ID     string
	Kind   GlyphKind
	Name   string
	Legend string
	Source *Source

	// Column names in Source.
	X, Y  string
	Text  string
	Angle string

	// Style attributes such as fill_color, line_color, radius and alpha.
	Attrs Attrs
}

// NewGlyph builds a glyph of the given kind over src. Structural keys in
// attrs populate the glyph's fields; everything else stays as style.
func NewGlyph(kind GlyphKind, src *Source, attrs Attrs) *Glyph {
	style := attrs.Clone()
	g := &Glyph{Kind: kind, Source: src}
	take := func(key string) string {
		s := style.String(key)
		delete(style, key)
		return s
	}
	g.X = take(AttrX)
	g.Y = take(AttrY)
	g.Name = take(AttrName)
	g.Legend = take(AttrLegendLabel)
	g.Text = take(AttrText)
	g.Angle = take(AttrAngle)
	delete(style, AttrSource)
	g.Attrs = style
	return g
}

// Fill returns the fill color, or "" for none.
func (g *Glyph) Fill() string { return g.Attrs.String("fill_color") }

// Stroke returns the line color, or "" for none.
func (g *Glyph) Stroke() string { return g.Attrs.String("line_color") }
