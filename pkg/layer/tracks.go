package layer

import (
	"github.com/matzehuels/ptplot/pkg/animation"
	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/group"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

// Tracks draws one path per entity through its (X, Y) positions. When the
// plot is animated each path grows up to the current frame, unless Static
// is set.
type Tracks struct {
	X, Y  mapping.Mapping
	Track mapping.Mapping

	Name   string
	Static bool
	Attrs  draw.Attrs
}

func (t *Tracks) Mappings() []mapping.Mapping {
	return []mapping.Mapping{t.X, t.Y, t.Track}
}

func (t *Tracks) Draw(ctl Controller, data *dataset.Frame, fig *draw.Figure, style group.Style) ([]animation.Adapter, error) {
	if t.X == nil || t.Y == nil || t.Track == nil {
		return nil, perrors.New(perrors.ErrCodeConfiguration, "tracks layer needs x, y and track mappings")
	}
	entities, err := data.GroupBy(t.Track.Key())
	if err != nil {
		return nil, err
	}

	color := style.Color(1, "gray")
	if style.IsHome {
		color = style.Color(0, "black")
	}

	var adapters []animation.Adapter
	for _, e := range entities {
		src := fig.NewSource(e.Data)
		attrs, err := draw.Union(protect(
			draw.AttrX, t.X.Key(),
			draw.AttrY, t.Y.Key(),
			draw.AttrSource, src.ID,
			draw.AttrLegendLabel, style.Label,
			draw.AttrName, t.Name,
			"line_color", color,
		), t.Attrs)
		if err != nil {
			return nil, err
		}
		fig.AddGlyph(draw.NewGlyph(draw.GlyphLine, src, attrs))
		if ctl.Animated() && !t.Static {
			adapters = append(adapters, animation.Bind(src, animation.UpToFrame))
		}
	}
	return adapters, nil
}
