// Package pkg holds the ptplot libraries.
//
// ptplot draws player-tracking data (one row per player per frame) as plots
// of plays: a playing field backdrop, player markers and movement tracks,
// faceted into panels, colored by team and animated frame by frame.
//
// # Layout
//
//   - [dataset], [mapping]: tabular data and the expression resolver that
//     turns column names and expressions into columns
//   - [layer], [group], [labels], [nfl]: what a plot is composed of
//   - [plot], [draw], [animation]: drawing a composed plot into figures and
//     keeping animated figures in sync with a playback control
//   - [render]: SVG, HTML, JSON and PNG output and plan diagrams
//   - [plotspec], [filter], [pipeline]: declarative specs and the
//     load → draw → render flow shared by the CLI and the HTTP server
//   - [cache], [storage], [observability], [errors], [buildinfo]: support
//
// # Data Flow
//
//	tracking CSV
//	     ↓
//	[filter] rows between two events
//	     ↓
//	[plot] resolve mappings, facet, group, draw
//	     ↓
//	[animation] control ←→ visible rows of every source
//	     ↓
//	[render] svg / png / html / json / dot
//
// [dataset]: github.com/matzehuels/ptplot/pkg/dataset
// [mapping]: github.com/matzehuels/ptplot/pkg/mapping
// [layer]: github.com/matzehuels/ptplot/pkg/layer
// [group]: github.com/matzehuels/ptplot/pkg/group
// [labels]: github.com/matzehuels/ptplot/pkg/labels
// [nfl]: github.com/matzehuels/ptplot/pkg/nfl
// [plot]: github.com/matzehuels/ptplot/pkg/plot
// [draw]: github.com/matzehuels/ptplot/pkg/draw
// [animation]: github.com/matzehuels/ptplot/pkg/animation
// [render]: github.com/matzehuels/ptplot/pkg/render
// [plotspec]: github.com/matzehuels/ptplot/pkg/plotspec
// [filter]: github.com/matzehuels/ptplot/pkg/filter
// [pipeline]: github.com/matzehuels/ptplot/pkg/pipeline
// [cache]: github.com/matzehuels/ptplot/pkg/cache
// [storage]: github.com/matzehuels/ptplot/pkg/storage
// [observability]: github.com/matzehuels/ptplot/pkg/observability
// [errors]: github.com/matzehuels/ptplot/pkg/errors
// [buildinfo]: github.com/matzehuels/ptplot/pkg/buildinfo
package pkg
