package layer

import (
	"github.com/matzehuels/ptplot/pkg/animation"
	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	"github.com/matzehuels/ptplot/pkg/group"
	"github.com/matzehuels/ptplot/pkg/labels"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

// Facet splits the plot into one panel per value of By.
// At most one of Cols and Rows may be set.
type Facet struct {
	By   mapping.Mapping
	Cols int
	Rows int
}

func (f *Facet) Mappings() []mapping.Mapping { return []mapping.Mapping{f.By} }

func (f *Facet) FacetSpec() *group.FacetSpec {
	return &group.FacetSpec{Column: mapping.KeyOf(f.By), Cols: f.Cols, Rows: f.Rows}
}

// Draw titles the panel with its facet value.
func (f *Facet) Draw(_ Controller, data *dataset.Frame, fig *draw.Figure, _ group.Style) ([]animation.Adapter, error) {
	if data.Len() > 0 && f.By != nil {
		fig.Title = dataset.Format(data.Value(0, f.By.Key()))
	}
	return nil, nil
}

// Aesthetics groups the data by team and home/away status and colors each
// group from Palette.
type Aesthetics struct {
	Team     mapping.Mapping
	HomeAway mapping.Mapping
	// Ball is the Team value identifying the ball.
	Ball    string
	Palette group.Palette
}

func (a *Aesthetics) Mappings() []mapping.Mapping {
	return []mapping.Mapping{a.Team, a.HomeAway}
}

func (a *Aesthetics) AestheticSpec() *group.AestheticSpec {
	return &group.AestheticSpec{
		Team:     mapping.KeyOf(a.Team),
		HomeAway: mapping.KeyOf(a.HomeAway),
		Ball:     a.Ball,
		Palette:  a.Palette,
	}
}

func (a *Aesthetics) Draw(Controller, *dataset.Frame, *draw.Figure, group.Style) ([]animation.Adapter, error) {
	return nil, nil
}

// Animation plays the plot frame by frame over the values of Frame.
type Animation struct {
	Frame mapping.Mapping
	// Rate is in frames per second; zero means animation.DefaultRate.
	Rate float64
	// Labels labels each frame. Nil labels frames by their value.
	Labels labels.Labeler
}

func (a *Animation) Mappings() []mapping.Mapping {
	ms := []mapping.Mapping{a.Frame}
	if a.Labels != nil {
		ms = append(ms, a.Labels.Mappings()...)
	}
	return ms
}

func (a *Animation) FrameKey() string { return mapping.KeyOf(a.Frame) }

func (a *Animation) FrameRate() float64 {
	if a.Rate == 0 {
		return animation.DefaultRate
	}
	return a.Rate
}

func (a *Animation) FrameLabels() labels.Labeler { return a.Labels }

func (a *Animation) Draw(Controller, *dataset.Frame, *draw.Figure, group.Style) ([]animation.Adapter, error) {
	return nil, nil
}

var (
	_ Faceter       = (*Facet)(nil)
	_ Aestheticizer = (*Aesthetics)(nil)
	_ Animator      = (*Animation)(nil)
)
