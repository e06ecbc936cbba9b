// Package draw is the renderer-neutral figure model ptplot layers draw into.
//
// A [Figure] is one facet panel: axis ranges, a backdrop, glyphs bound to
// data [Source]s and interaction tools. Figures are arranged in a [Grid]
// together with playback [Widget]s. Sinks under pkg/render turn a grid
// into SVG, HTML, JSON or PNG.
//
// Every object carries a deterministic ID derived from its position in the
// plot, so rendering the same plot twice yields identical output.
package draw

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/ptplot/pkg/dataset"
)

// idSpace namespaces generated IDs.
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/ptplot"))

// NewID derives a stable identifier from a path of name parts.
func NewID(parts ...string) string {
	return uuid.NewSHA1(idSpace, []byte(strings.Join(parts, "/"))).String()
}

// Range is an axis interval. A zero Range is unset and renderers fit it to
// the data.
type Range struct {
	Start, End float64
	Set        bool
}

// NewRange returns a set range.
func NewRange(start, end float64) Range {
	return Range{Start: start, End: end, Set: true}
}

// Span returns End - Start.
func (r Range) Span() float64 { return r.End - r.Start }

// Legend click policies.
const (
	LegendMute = "mute"
	LegendHide = "hide"
)

// Figure is one panel of a plot.
type Figure struct {
	ID     string
	Title  string
	Width  int
	Height int

	XRange Range
	YRange Range

	Background  string
	ShowGrid    bool
	ShowAxes    bool
	LegendClick string

	Backdrop []Instruction
	Glyphs   []*Glyph
	Tools    []Tool

	claims  map[string]bool
	toolSet map[string]bool
	seq     int
}

// NewFigure creates an empty figure with grid lines and axes shown.
func NewFigure(id string, height int) *Figure {
	return &Figure{
		ID:       id,
		Height:   height,
		ShowGrid: true,
		ShowAxes: true,
	}
}

// HideDecorations removes grid lines and axes.
func (f *Figure) HideDecorations() {
	f.ShowGrid = false
	f.ShowAxes = false
}

// Claim records that token has drawn into the figure. It returns true the
// first time a token is claimed and false afterwards, letting layers that
// must only draw once per figure stay idempotent.
func (f *Figure) Claim(token string) bool {
	if f.claims == nil {
		f.claims = make(map[string]bool)
	}
	if f.claims[token] {
		return false
	}
	f.claims[token] = true
	return true
}

// Claimed reports whether token has been claimed.
func (f *Figure) Claimed(token string) bool {
	return f.claims[token]
}

// NextID returns a fresh identifier scoped to the figure.
func (f *Figure) NextID(kind string) string {
	f.seq++
	return NewID(f.ID, kind, strconv.Itoa(f.seq))
}

// NewSource creates a source for data with a figure-scoped ID.
func (f *Figure) NewSource(data *dataset.Frame) *Source {
	return NewSource(f.NextID("source"), data)
}

// AddGlyph appends a glyph, assigning it an ID when it has none.
func (f *Figure) AddGlyph(g *Glyph) *Glyph {
	if g.ID == "" {
		g.ID = f.NextID("glyph")
	}
	f.Glyphs = append(f.Glyphs, g)
	return g
}

// GlyphsNamed returns the glyphs with the given name.
func (f *Figure) GlyphsNamed(name string) []*Glyph {
	var out []*Glyph
	for _, g := range f.Glyphs {
		if g.Name == name {
			out = append(out, g)
		}
	}
	return out
}

// AddTool adds a tool unless an equivalent tool is already attached.
// It reports whether the tool was added.
func (f *Figure) AddTool(t Tool) bool {
	key := t.key()
	if f.toolSet == nil {
		f.toolSet = make(map[string]bool)
	}
	if f.toolSet[key] {
		return false
	}
	f.toolSet[key] = true
	f.Tools = append(f.Tools, t)
	return true
}

// Tool kinds.
const (
	ToolHover = "hover"
)

// Tooltip is one line of a hover tooltip: a label and the column it shows.
type Tooltip struct {
	Label string `json:"label"`
	Field string `json:"field"`
}

// Tool is an interaction attached to named glyphs.
type Tool struct {
	Kind     string    `json:"kind"`
	Names    []string  `json:"names"`
	Tooltips []Tooltip `json:"tooltips"`
}

func (t Tool) key() string {
	return fmt.Sprintf("%s:%v", t.Kind, t.Names)
}
