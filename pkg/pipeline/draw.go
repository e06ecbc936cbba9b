package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/layer"
	"github.com/matzehuels/ptplot/pkg/observability"
	"github.com/matzehuels/ptplot/pkg/plot"
	"github.com/matzehuels/ptplot/pkg/plotspec"
)

// Draw composes the spec over data and draws it.
func Draw(ctx context.Context, spec *plotspec.Spec, data *dataset.Frame) (*plot.Result, error) {
	p, err := spec.Compose(data)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(p.Layers()))
	for _, l := range p.Layers() {
		names = append(names, layer.Name(l))
	}
	observability.Pipeline().OnDrawStart(ctx, names)

	start := time.Now()
	res, err := p.Draw()
	figures := 0
	if res != nil {
		figures = len(res.Grid.Figures)
	}
	observability.Pipeline().OnDrawComplete(ctx, figures, time.Since(start), err)
	return res, err
}
