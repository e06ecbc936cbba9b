// Package layer defines the composable layers a plot is built from.
//
// Drawing layers ([Field], [Positions], [Tracks], [Hover]) add visuals to
// each facet figure, once per aesthetic group. Configuration layers
// ([Facet], [Aesthetics], [Animation]) carry plot-wide settings; the plot
// finds them by capability and allows at most one of each.
//
// Every layer declares the mappings it reads. The plot resolves all of
// them into one table before any layer draws, and layers look resolved
// columns up by mapping key.
package layer

import (
	"fmt"
	"strings"

	"github.com/matzehuels/ptplot/pkg/animation"
	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	"github.com/matzehuels/ptplot/pkg/group"
	"github.com/matzehuels/ptplot/pkg/labels"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

// Controller is the view of the plot a layer gets while drawing.
type Controller interface {
	// Animated reports whether the plot has an animation layer.
	Animated() bool
}

// Layer is one component of a plot.
type Layer interface {
	// Mappings returns the mappings the layer reads.
	Mappings() []mapping.Mapping

	// Draw renders data for one aesthetic group into fig. It returns one
	// adapter per source the playback control should drive.
	Draw(ctl Controller, data *dataset.Frame, fig *draw.Figure, style group.Style) ([]animation.Adapter, error)
}

// Faceter is implemented by the facet configuration layer.
type Faceter interface {
	Layer
	FacetSpec() *group.FacetSpec
}

// Aestheticizer is implemented by the aesthetics configuration layer.
type Aestheticizer interface {
	Layer
	AestheticSpec() *group.AestheticSpec
}

// Animator is implemented by the animation configuration layer.
type Animator interface {
	Layer
	FrameKey() string
	FrameRate() float64
	FrameLabels() labels.Labeler
}

// Name returns a short display name for a layer, such as "positions".
func Name(l Layer) string {
	if n, ok := l.(interface{ Name() string }); ok && n.Name() != "" {
		return n.Name()
	}
	name := fmt.Sprintf("%T", l)
	name = name[strings.LastIndex(name, ".")+1:]
	return strings.ToLower(name)
}

// protect builds the attribute set a layer controls from key/value pairs.
func protect(kv ...any) draw.Attrs {
	a := draw.Attrs{}
	for i := 0; i+1 < len(kv); i += 2 {
		a[kv[i].(string)] = kv[i+1]
	}
	return a
}

// frameFilter keeps the rows of data flagged by the filter column.
func frameFilter(data *dataset.Frame, m mapping.Mapping) *dataset.Frame {
	if m == nil {
		return data
	}
	key := m.Key()
	return data.Filter(func(row int) bool {
		return dataset.Truthy(data.Value(row, key))
	})
}
