// Package nodelink renders draw plans as node-link diagrams.
//
// A [plot.Plan] records how a plot was drawn: which layers and mappings
// it used, how the data was split into facet panels and aesthetic groups
// and how many playback adapters each group produced. This package turns
// that tree into a Graphviz diagram, which makes faceting and grouping
// mistakes easy to spot:
//
//	dot := nodelink.ToDOT(res.Plan, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes. It can also be saved and processed with external Graphviz
// tools.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PNG conversion goes through headless Chrome.
package nodelink
