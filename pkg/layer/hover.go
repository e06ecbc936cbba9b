package layer

import (
	"github.com/matzehuels/ptplot/pkg/animation"
	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	"github.com/matzehuels/ptplot/pkg/group"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

// Tip is one tooltip line: a label and the mapping whose value it shows.
type Tip struct {
	Label string
	Value mapping.Mapping
}

// Hover attaches a tooltip to the glyphs tagged Name. Tooltip values
// resolve like any other mapping, so they may reference columns no
// drawing layer uses.
type Hover struct {
	Name string
	Tips []Tip
}

func (h *Hover) Mappings() []mapping.Mapping {
	ms := make([]mapping.Mapping, 0, len(h.Tips))
	for _, tip := range h.Tips {
		ms = append(ms, tip.Value)
	}
	return ms
}

// Draw adds the hover tool once per figure.
func (h *Hover) Draw(_ Controller, _ *dataset.Frame, fig *draw.Figure, _ group.Style) ([]animation.Adapter, error) {
	tips := make([]draw.Tooltip, 0, len(h.Tips))
	for _, tip := range h.Tips {
		if tip.Value == nil {
			continue
		}
		label := tip.Label
		if label == "" {
			label = tip.Value.Key()
		}
		tips = append(tips, draw.Tooltip{Label: label, Field: tip.Value.Key()})
	}
	fig.AddTool(draw.Tool{Kind: draw.ToolHover, Names: []string{h.Name}, Tooltips: tips})
	return nil, nil
}
