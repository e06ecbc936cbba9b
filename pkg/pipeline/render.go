package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/observability"
	"github.com/matzehuels/ptplot/pkg/plot"
	"github.com/matzehuels/ptplot/pkg/render/nodelink"
	"github.com/matzehuels/ptplot/pkg/render/sink"
)

// Render produces the requested formats from a drawn plot. Static formats
// show the frame selected by opts.Frame; the control is left on that
// frame.
func Render(ctx context.Context, res *plot.Result, opts Options) (map[string][]byte, error) {
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := render(ctx, res, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(ctx context.Context, res *plot.Result, opts Options) (map[string][]byte, error) {
	if err := SeekFrame(res, opts.Frame); err != nil {
		return nil, err
	}

	var svgOpts []sink.SVGOption
	if opts.Tooltips {
		svgOpts = append(svgOpts, sink.WithTooltips())
	}
	if res.Control != nil {
		svgOpts = append(svgOpts, sink.WithCaption(res.Control.State().Label))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(res.Grid, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, res.Grid, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatHTML:
			var htmlSVG []sink.SVGOption
			if opts.Tooltips {
				htmlSVG = append(htmlSVG, sink.WithTooltips())
			}
			data, err = sink.RenderHTML(res.Grid, res.Control,
				sink.WithHTMLTitle(opts.title()), sink.WithHTMLSVGOptions(htmlSVG...))
		case FormatJSON:
			data, err = sink.RenderJSON(res.Grid, sink.WithJSONControl(res.Control))
		case FormatDOT:
			data = []byte(nodelink.ToDOT(res.Plan, nodelink.Options{Detailed: opts.Detailed}))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// SeekFrame moves the plot's control to the frame labelled label. An empty
// label leaves the control where it is; a static plot accepts only an
// empty label.
func SeekFrame(res *plot.Result, label string) error {
	if label == "" {
		return nil
	}
	if res.Control == nil {
		return perrors.New(perrors.ErrCodeInvalidInput, "plot is not animated; cannot select frame %q", label)
	}
	i := slices.Index(res.Control.Labels(), label)
	if i < 0 {
		return perrors.New(perrors.ErrCodeNotFound, "no frame labelled %q", label)
	}
	return res.Control.SetIndex(i)
}
