package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ptplot/pkg/plot"
	"github.com/matzehuels/ptplot/pkg/render"
)

// Options configures plan diagram rendering.
type Options struct {
	// Detailed includes mappings, row counts and adapter counts in node
	// labels. When false, only names are shown.
	Detailed bool
}

// ToDOT converts a draw plan to Graphviz DOT format. The plot is the root;
// each facet panel is a child of the plot and each aesthetic group a child
// of its panel. The resulting DOT string can be rendered using [RenderSVG]
// or [RenderPNG].
//
// Ball groups are rendered with dashed outlines and grey fill to
// distinguish them from team groups.
func ToDOT(p *plot.Plan, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q];\n", "plot", plotLabel(p, opts.Detailed))
	for i, f := range p.Facets {
		fid := "facet-" + strconv.Itoa(i)
		fmt.Fprintf(&buf, "  %q [label=%q];\n", fid, facetLabel(f, i, opts.Detailed))
		fmt.Fprintf(&buf, "  %q -> %q;\n", "plot", fid)
		for j, g := range f.Groups {
			gid := fmt.Sprintf("%s-group-%d", fid, j)
			fmt.Fprintf(&buf, "  %q [%s];\n", gid, strings.Join(groupAttrs(g, opts.Detailed), ", "))
			fmt.Fprintf(&buf, "  %q -> %q;\n", fid, gid)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func plotLabel(p *plot.Plan, detailed bool) string {
	label := "plot: " + strings.Join(p.Layers, ", ")
	if !detailed {
		return label
	}
	parts := []string{label, fmt.Sprintf("grid: %dx%d", p.Layout.Rows, p.Layout.Cols)}
	if len(p.Mappings) > 0 {
		parts = append(parts, "mappings: "+strings.Join(p.Mappings, ", "))
	}
	if p.FrameKey != "" {
		parts = append(parts, fmt.Sprintf("frames: %d of %s", p.Frames, p.FrameKey))
		parts = append(parts, fmt.Sprintf("adapters: %d", p.Adapters))
	}
	return strings.Join(parts, "\n")
}

func facetLabel(f plot.FacetPlan, i int, detailed bool) string {
	label := f.Title
	if label == "" {
		label = "panel " + strconv.Itoa(i+1)
	}
	if detailed {
		label += fmt.Sprintf("\nrows: %d", f.Rows)
	}
	return label
}

func groupAttrs(g plot.GroupPlan, detailed bool) []string {
	label := g.Label
	if label == "" {
		label = "default"
	}
	if !g.Ball {
		if g.Home {
			label += " (home)"
		} else {
			label += " (away)"
		}
	}
	if detailed {
		label += fmt.Sprintf("\nrows: %d\nadapters: %d", g.Rows, g.Adapters)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if g.Ball {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with one
// sized in pixels from the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
