// Package plot composes layers over a dataset and draws them.
//
// A [Plot] moves through three states. It starts Empty, becomes Composed
// once a layer is added and is Drawn after a successful [Plot.Draw]:
//
//	p := plot.New(data).
//	    Add(layer.NewField(nfl.Field(nfl.DefaultFieldOptions()))).
//	    Add(&layer.Positions{X: mapping.Of("x"), Y: mapping.Of("y")}).
//	    Add(&layer.Animation{Frame: mapping.Of("frameId")})
//	res, err := p.Draw()
//
// Draw resolves every layer's mappings into one table, sorts it by frame
// when animated, splits it into facets and aesthetic groups, lets every
// layer draw every group, and finally wires the returned adapters to a
// playback [animation.Control].
package plot

import (
	"strconv"

	"github.com/matzehuels/ptplot/pkg/animation"
	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/group"
	"github.com/matzehuels/ptplot/pkg/labels"
	"github.com/matzehuels/ptplot/pkg/layer"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

// DefaultHeight is the total pixel height of a plot.
const DefaultHeight = 400

// Toggle labels.
const (
	PlayLabel  = "► Play"
	PauseLabel = "❚❚ Pause"
)

// State is the lifecycle state of a plot.
type State int

const (
	StateEmpty State = iota
	StateComposed
	StateDrawn
)

func (s State) String() string {
	switch s {
	case StateComposed:
		return "composed"
	case StateDrawn:
		return "drawn"
	default:
		return "empty"
	}
}

// Option configures a Plot.
type Option func(*Plot)

// WithHeight sets the total pixel height shared by the facet rows.
func WithHeight(px int) Option {
	return func(p *Plot) {
		if px > 0 {
			p.height = px
		}
	}
}

// Plot is a layered composition over one dataset.
type Plot struct {
	data   dataset.Dataset
	height int
	layers []layer.Layer
	state  State

	anim layer.Animator
}

// New creates an empty plot over data.
func New(data dataset.Dataset, opts ...Option) *Plot {
	p := &Plot{data: data, height: DefaultHeight}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add appends layers and returns the plot for chaining.
func (p *Plot) Add(layers ...layer.Layer) *Plot {
	for _, l := range layers {
		if l == nil {
			continue
		}
		p.layers = append(p.layers, l)
		if p.state == StateEmpty {
			p.state = StateComposed
		}
	}
	return p
}

// Layers returns the layers in the order they were added.
func (p *Plot) Layers() []layer.Layer {
	return append([]layer.Layer(nil), p.layers...)
}

// State returns the plot's lifecycle state.
func (p *Plot) State() State { return p.state }

// Height returns the total pixel height.
func (p *Plot) Height() int { return p.height }

// Animated reports whether the plot has an animation layer.
func (p *Plot) Animated() bool {
	if p.anim != nil {
		return true
	}
	a, ok, _ := single[layer.Animator](p.layers, "animation")
	return ok && a != nil
}

// Result is the output of Draw.
type Result struct {
	Grid *draw.Grid
	// Table is the resolved mapping table, sorted by frame when animated.
	Table *dataset.Frame
	// Control drives playback; nil when the plot is not animated or has no
	// frames.
	Control  *animation.Control
	Plan     *Plan
	Warnings []*perrors.Warning
}

// Draw renders the plot. A plot can be drawn once; drawing it again is a
// CONFIGURATION error.
func (p *Plot) Draw() (*Result, error) {
	if p.state == StateDrawn {
		return nil, perrors.New(perrors.ErrCodeConfiguration, "plot has already been drawn")
	}
	res := &Result{Plan: &Plan{}}
	for _, l := range p.layers {
		res.Plan.Layers = append(res.Plan.Layers, layer.Name(l))
	}

	// Resolve every mapping into one table.
	var ms []mapping.Mapping
	for _, l := range p.layers {
		ms = append(ms, l.Mappings()...)
	}
	table, err := mapping.ResolveAll(p.data, ms)
	if err != nil {
		return nil, err
	}
	res.Plan.Mappings = table.Columns()

	// Animated plots are ordered by frame.
	anim, animated, err := single[layer.Animator](p.layers, "animation")
	if err != nil {
		return nil, err
	}
	var frameKey string
	if animated {
		frameKey = anim.FrameKey()
		if frameKey == "" {
			return nil, perrors.New(perrors.ErrCodeConfiguration, "animation layer needs a frame mapping")
		}
		if err := perrors.ValidateFrameRate(anim.FrameRate()); err != nil {
			return nil, err
		}
		if table, err = table.SortBy(frameKey); err != nil {
			return nil, err
		}
		p.anim = anim
		res.Plan.FrameKey = frameKey
	}
	if table.Len() == 0 {
		res.Warnings = append(res.Warnings, perrors.EmptyResult("plot data has no rows"))
	}

	// Facets.
	var fspec *group.FacetSpec
	faceter, faceted, err := single[layer.Faceter](p.layers, "facet")
	if err != nil {
		return nil, err
	}
	if faceted {
		fspec = faceter.FacetSpec()
		if fspec.Column == "" {
			return nil, perrors.New(perrors.ErrCodeConfiguration, "facet layer needs a mapping")
		}
	}
	facets, layout, err := group.Facets(table, fspec)
	if err != nil {
		return nil, err
	}
	res.Plan.Layout = layout

	// Aesthetic groups per facet, every layer per group.
	var aspec *group.AestheticSpec
	aes, hasAes, err := single[layer.Aestheticizer](p.layers, "aesthetics")
	if err != nil {
		return nil, err
	}
	if hasAes {
		aspec = aes.AestheticSpec()
	}

	figHeight := p.height / max(layout.Rows, 1)
	figures := make([]*draw.Figure, 0, len(facets))
	var adapters []animation.Adapter
	for i, f := range facets {
		fig := draw.NewFigure(draw.NewID("figure", strconv.Itoa(i)), figHeight)
		fig.HideDecorations()
		fp := FacetPlan{Title: f.Title(), Rows: f.Data.Len()}

		groups, err := group.Aestheticize(f.Data, aspec)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			gp := GroupPlan{Label: g.Style.Label, Home: g.Style.IsHome, Ball: g.Style.IsBall, Rows: g.Data.Len()}
			for _, l := range p.layers {
				a, err := l.Draw(p, g.Data, fig, g.Style)
				if err != nil {
					return nil, err
				}
				adapters = append(adapters, a...)
				gp.Adapters += len(a)
			}
			fp.Groups = append(fp.Groups, gp)
		}

		fig.LegendClick = draw.LegendMute
		figures = append(figures, fig)
		res.Plan.Facets = append(res.Plan.Facets, fp)
	}
	res.Grid = draw.NewGrid(figures, layout.Cols)
	res.Table = table

	if animated {
		ctl, err := p.animate(anim, table, adapters, res)
		if err != nil {
			return nil, err
		}
		res.Control = ctl
	}

	p.state = StateDrawn
	return res, nil
}

// animate builds the playback control, binds every adapter to it and adds
// the playback widgets.
func (p *Plot) animate(anim layer.Animator, table *dataset.Frame, adapters []animation.Adapter, res *Result) (*animation.Control, error) {
	key := anim.FrameKey()
	frames, err := table.SortedDistinct(key)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		res.Warnings = append(res.Warnings, perrors.EmptyResult("no frames to animate"))
		return nil, nil
	}
	ctl, err := animation.NewControl(frames, anim.FrameRate())
	if err != nil {
		return nil, err
	}
	if l := anim.FrameLabels(); l != nil {
		names, err := labels.ForFrames(l, table, key, ctl.Frames())
		if err != nil {
			return nil, err
		}
		if err := ctl.SetLabels(names); err != nil {
			return nil, err
		}
	}

	for _, a := range adapters {
		sync, err := a(key, ctl.Min())
		if err != nil {
			return nil, err
		}
		ctl.Bind(sync)
	}
	res.Plan.Frames = len(frames)
	res.Plan.Adapters = len(adapters)

	values := make([]string, len(frames))
	for i, f := range frames {
		values[i] = dataset.Format(f)
	}
	toggle := &draw.Toggle{Label: PlayLabel, PlayLabel: PlayLabel, PauseLabel: PauseLabel}
	slider := &draw.Slider{Title: "Frame", Frames: values, Labels: ctl.Labels()}
	ctl.Observe(func(s animation.State) {
		toggle.SetActive(s.Playing)
		slider.Value = s.Index
	})
	res.Grid.Widgets = []draw.Widget{toggle, slider}
	return ctl, nil
}

// single finds the one layer implementing T. More than one is a
// CONFIGURATION error.
func single[T layer.Layer](layers []layer.Layer, kind string) (T, bool, error) {
	var found T
	n := 0
	for _, l := range layers {
		if t, ok := l.(T); ok {
			if n == 0 {
				found = t
			}
			n++
		}
	}
	if n > 1 {
		var zero T
		return zero, false, perrors.New(perrors.ErrCodeConfiguration, "only one %s layer may be added, got %d", kind, n)
	}
	return found, n == 1, nil
}
