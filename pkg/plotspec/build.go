package plotspec

import (
	"maps"
	"time"

	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/filter"
	"github.com/matzehuels/ptplot/pkg/labels"
	"github.com/matzehuels/ptplot/pkg/layer"
	"github.com/matzehuels/ptplot/pkg/mapping"
	"github.com/matzehuels/ptplot/pkg/nfl"
	"github.com/matzehuels/ptplot/pkg/plot"
)

// Apply runs the spec's filter over ds. Without a filter ds is returned
// as a frame unchanged.
func (s *Spec) Apply(ds dataset.Dataset) (*dataset.Frame, error) {
	if s.Filter == nil {
		return dataset.FromDataset(ds)
	}
	f := s.Filter
	return filter.BetweenEvents(ds, f.Start, f.End, mapping.Of(f.Event), mapping.Of(f.Time))
}

// Build filters data and composes the plot the spec describes. Layers are
// added in a fixed order: field, tracks, positions, hover, then the
// configuration layers.
func (s *Spec) Build(ds dataset.Dataset) (*plot.Plot, error) {
	data, err := s.Apply(ds)
	if err != nil {
		return nil, err
	}
	return s.Compose(data)
}

// Compose builds the plot over data that was already filtered.
func (s *Spec) Compose(data *dataset.Frame) (*plot.Plot, error) {
	layers, err := s.Layers(data)
	if err != nil {
		return nil, err
	}
	var opts []plot.Option
	if s.Height > 0 {
		opts = append(opts, plot.WithHeight(s.Height))
	}
	return plot.New(data, opts...).Add(layers...), nil
}

// Layers builds the spec's layers. data is only consulted for defaults
// that depend on it, such as the zero time of elapsed frame labels.
func (s *Spec) Layers(data *dataset.Frame) ([]layer.Layer, error) {
	var out []layer.Layer
	if s.Field != nil {
		out = append(out, layer.NewField(nfl.Field(*s.Field)))
	}
	for _, t := range s.Tracks {
		out = append(out, &layer.Tracks{
			X:      mapping.Of(t.X),
			Y:      mapping.Of(t.Y),
			Track:  mapping.Of(t.Track),
			Name:   t.Name,
			Static: t.Static,
			Attrs:  attrs(t.Attrs),
		})
	}
	for _, p := range s.Positions {
		out = append(out, &layer.Positions{
			X:            mapping.Of(p.X),
			Y:            mapping.Of(p.Y),
			Orientation:  mapping.Of(p.Orientation),
			Number:       mapping.Of(p.Number),
			FrameFilter:  mapping.Of(p.FrameFilter),
			Name:         p.Name,
			MarkerRadius: p.Radius,
			Attrs:        attrs(p.Attrs),
		})
	}
	for _, h := range s.Hover {
		tips := make([]layer.Tip, len(h.Tips))
		for i, tip := range h.Tips {
			tips[i] = layer.Tip{Label: tip.Label, Value: mapping.Of(tip.Value)}
		}
		out = append(out, &layer.Hover{Name: h.Name, Tips: tips})
	}
	if f := s.Facet; f != nil {
		out = append(out, &layer.Facet{By: mapping.Of(f.By), Cols: f.Cols, Rows: f.Rows})
	}
	if a := s.Aesthetics; a != nil {
		out = append(out, aesthetics(a))
	}
	if a := s.Animation; a != nil {
		anim := &layer.Animation{Frame: mapping.Of(a.Frame), Rate: a.Rate}
		if a.Labels != nil {
			l, err := labeler(a.Labels, data)
			if err != nil {
				return nil, err
			}
			anim.Labels = l
		}
		out = append(out, anim)
	}
	return out, nil
}

func aesthetics(a *Aesthetics) *layer.Aesthetics {
	palette := nfl.Palette(a.Fallback)
	if len(a.Teams) > 0 {
		teams := maps.Clone(palette.Teams)
		maps.Copy(teams, a.Teams)
		palette.Teams = teams
	}
	ball := a.Ball
	if ball == "" {
		ball = nfl.BallID
	}
	return &layer.Aesthetics{
		Team:     mapping.Of(a.Team),
		HomeAway: mapping.Of(a.HomeAway),
		Ball:     ball,
		Palette:  palette,
	}
}

func labeler(l *Labels, data *dataset.Frame) (labels.Labeler, error) {
	if l.Elapsed != "" {
		m := mapping.Of(l.Elapsed)
		zero, err := zeroTime(l.Zero, data, m)
		if err != nil {
			return nil, err
		}
		return labels.ElapsedTime(m, zero, l.Format), nil
	}
	ms := make([]mapping.Mapping, len(l.Columns))
	for i, c := range l.Columns {
		ms[i] = mapping.Of(c)
	}
	var formats []string
	if len(l.Formats) > 0 {
		formats = l.Formats
	}
	return labels.Columns(ms, labels.ColumnsOptions{Formats: formats, Separator: l.Separator, Missing: l.Missing})
}

// zeroTime parses an explicit zero, or takes the earliest time in the
// resolved column.
func zeroTime(text string, data *dataset.Frame, m mapping.Mapping) (time.Time, error) {
	if text != "" {
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return time.Time{}, perrors.Wrap(perrors.ErrCodeConfiguration, err, "animation labels: zero %q", text)
		}
		return t, nil
	}
	col, err := mapping.Resolve(data, m)
	if err != nil {
		return time.Time{}, err
	}
	var zero time.Time
	for _, v := range col.Values {
		if t, ok := v.(time.Time); ok && (zero.IsZero() || t.Before(zero)) {
			zero = t
		}
	}
	if zero.IsZero() {
		return time.Time{}, perrors.New(perrors.ErrCodeInvalidInput, "column %q has no times to count from", m.Key())
	}
	return zero, nil
}

func attrs(m map[string]any) draw.Attrs {
	if len(m) == 0 {
		return nil
	}
	a := make(draw.Attrs, len(m))
	for k, v := range m {
		a[k] = dataset.Normalize(v)
	}
	return a
}
