// Package sink provides output format renderers for drawn plots.
//
// # Overview
//
// A "sink" transforms a drawn [draw.Grid] into a final output format.
// This package provides renderers for:
//
//   - SVG: a static snapshot of the current frame
//   - HTML: a self-contained page that plays every frame back
//   - JSON: the figure model with data sources, for external tools
//   - PNG: raster output of the SVG snapshot (requires Chrome)
//
// Every sink reads the visible rows of each glyph's source, so what is
// rendered follows the playback control: move the control, render again.
//
// # SVG Output
//
// [RenderSVG] draws each figure as a panel of the grid, backdrop first and
// glyphs in drawing order:
//
//	svg := sink.RenderSVG(res.Grid,
//	    sink.WithCaption(res.Control.State().Label),
//	    sink.WithTooltips(),
//	)
//
// # HTML Output
//
// [RenderHTML] steps the control through every frame, renders one SVG per
// frame and embeds them in a page with a play/pause toggle and a frame
// slider. Playback in the page follows the control's rules: it runs at the
// control's frame rate and stops and rewinds after the last frame.
//
//	page, err := sink.RenderHTML(res.Grid, res.Control, sink.WithHTMLTitle("Play 1"))
//
// # PNG Output
//
// [RenderPNG] generates SVG, then converts it via [render.ToPNG]:
//
//	png, err := sink.RenderPNG(ctx, res.Grid, sink.WithScale(2))
//
// [render.ToPNG]: github.com/matzehuels/ptplot/pkg/render.ToPNG
package sink
