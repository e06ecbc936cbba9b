package layer

import (
	"github.com/matzehuels/ptplot/pkg/animation"
	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/group"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

// DefaultMarkerRadius is the player marker radius in data units.
const DefaultMarkerRadius = 1.0

// Positions draws one marker per row at (X, Y).
//
// With Orientation set, an orientation wedge is drawn under each marker.
// With Number set, the value is written on the marker. With FrameFilter
// set, only flagged rows are drawn and the layer is not animated.
type Positions struct {
	X, Y        mapping.Mapping
	Orientation mapping.Mapping
	Number      mapping.Mapping
	FrameFilter mapping.Mapping

	// Name tags the marker glyphs for hover tools.
	Name         string
	MarkerRadius float64
	// Attrs are extra style attributes. They cannot override the
	// attributes the layer sets itself.
	Attrs draw.Attrs
}

func (p *Positions) Mappings() []mapping.Mapping {
	return []mapping.Mapping{p.X, p.Y, p.Orientation, p.Number, p.FrameFilter}
}

func (p *Positions) Draw(ctl Controller, data *dataset.Frame, fig *draw.Figure, style group.Style) ([]animation.Adapter, error) {
	if p.X == nil || p.Y == nil {
		return nil, perrors.New(perrors.ErrCodeConfiguration, "positions layer needs x and y mappings")
	}
	data = frameFilter(data, p.FrameFilter)
	src := fig.NewSource(data)

	base := protect(
		draw.AttrX, p.X.Key(),
		draw.AttrY, p.Y.Key(),
		draw.AttrSource, src.ID,
		draw.AttrLegendLabel, style.Label,
		draw.AttrName, p.Name,
	)

	if p.Orientation != nil {
		pick, err := draw.Union(protect(
			draw.AttrX, p.X.Key(),
			draw.AttrY, p.Y.Key(),
			draw.AttrSource, src.ID,
			draw.AttrAngle, p.Orientation.Key(),
			"fill_color", style.Color(1, "gray"),
			"line_color", style.Color(0, "black"),
		), p.Attrs)
		if err != nil {
			return nil, err
		}
		fig.AddGlyph(draw.NewGlyph(draw.GlyphPick, src, pick))
	}

	var marker *draw.Glyph
	if style.Marker != nil {
		attrs, err := draw.Union(base, p.Attrs)
		if err != nil {
			return nil, err
		}
		marker = style.Marker(src, attrs)
	} else {
		radius := p.MarkerRadius
		if radius == 0 {
			radius = DefaultMarkerRadius
		}
		player := base.Clone()
		player["fill_color"] = style.Color(0, "black")
		player["line_color"] = style.Color(1, "gray")
		player["radius"] = radius
		attrs, err := draw.Union(player, p.Attrs)
		if err != nil {
			return nil, err
		}
		marker = draw.NewGlyph(draw.GlyphCircle, src, attrs)
	}
	fig.AddGlyph(marker)

	if p.Number != nil && !style.IsBall {
		def := "black"
		if style.IsHome {
			def = "white"
		}
		fig.AddGlyph(draw.NewGlyph(draw.GlyphText, src, protect(
			draw.AttrX, p.X.Key(),
			draw.AttrY, p.Y.Key(),
			draw.AttrSource, src.ID,
			draw.AttrText, p.Number.Key(),
			"text_color", style.Color(2, def),
			"text_align", "center",
			"text_baseline", "middle",
		)))
	}

	if p.FrameFilter != nil || !ctl.Animated() {
		return nil, nil
	}
	return []animation.Adapter{animation.Bind(src, animation.ExactFrame)}, nil
}
