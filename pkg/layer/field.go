package layer

import (
	"math"

	"github.com/matzehuels/ptplot/pkg/animation"
	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	"github.com/matzehuels/ptplot/pkg/group"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

const fieldClaim = "field"

// Field draws a playing surface behind everything else. It draws at most
// once per figure no matter how many groups the figure has.
type Field struct {
	Backdrop draw.Backdrop
}

// NewField returns a field layer for the given backdrop.
func NewField(b draw.Backdrop) *Field {
	return &Field{Backdrop: b}
}

func (f *Field) Mappings() []mapping.Mapping { return nil }

// Draw sets the figure's ranges, background and width from the backdrop.
func (f *Field) Draw(_ Controller, _ *dataset.Frame, fig *draw.Figure, _ group.Style) ([]animation.Adapter, error) {
	if !fig.Claim(fieldClaim) {
		return nil, nil
	}
	b := f.Backdrop
	fig.XRange = b.XRange
	fig.YRange = b.YRange
	fig.Background = b.Background
	fig.Width = int(math.Round(float64(fig.Height) * b.Aspect()))
	fig.Backdrop = append(fig.Backdrop, b.Instructions...)
	return nil, nil
}
