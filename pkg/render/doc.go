// Package render provides output rendering for drawn plots.
//
// # Overview
//
// This package contains the rendering stage that turns a drawn plot into
// files. It provides:
//
//   - Generic format conversion (SVG to PNG)
//   - Plot output formats (in [sink] subpackage)
//   - Draw plan diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPNG] function rasterizes any SVG with headless Chrome. It is used
// by both the plot sinks and the plan diagrams.
//
//	svg := sink.RenderSVG(res.Grid)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Plot Output
//
// The [sink] subpackage renders a [draw.Grid] as SVG, HTML, JSON or PNG.
// The HTML page plays the animation back in the browser.
//
// # Plan Diagrams
//
// The [nodelink] subpackage renders the facet and group tree of a draw
// plan using Graphviz.
//
//	dot := nodelink.ToDOT(res.Plan, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/ptplot/pkg/render/sink
// [nodelink]: github.com/matzehuels/ptplot/pkg/render/nodelink
// [draw.Grid]: github.com/matzehuels/ptplot/pkg/draw.Grid
package render
