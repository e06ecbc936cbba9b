// Package pipeline runs the load → draw → render flow shared by the CLI and
// the HTTP server.
//
// # Stages
//
//  1. Load: read tracking CSV and apply the spec's event filter
//  2. Draw: compose the spec's layers and draw the plot
//  3. Render: produce artifacts in the requested formats
//
// Filtered data and rendered artifacts are cached. Artifact keys combine the
// hash of the raw data with the hash of the spec, so an unchanged request
// never reaches the draw stage.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    DataPath: "week1_play56.csv",
//	    Spec:     spec,
//	    Formats:  []string{"html", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	page := result.Artifacts["html"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ptplot/pkg/cache"
	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/plot"
	"github.com/matzehuels/ptplot/pkg/plotspec"
)

const (
	// DefaultScale is the PNG device scale factor.
	DefaultScale = 2.0

	// MaxRows bounds the size of uploaded tracking data.
	MaxRows = 2_000_000
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatHTML = "html"
	FormatJSON = "json"
	// FormatDOT is the Graphviz source of the draw plan.
	FormatDOT = "dot"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatHTML, FormatSVG, FormatPNG, FormatJSON, FormatDOT}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

// Options configures one pipeline run.
type Options struct {
	// Data is raw CSV. When empty, DataPath is read instead.
	Data     []byte `json:"-"`
	DataPath string `json:"data_path,omitempty"`

	Spec *plotspec.Spec `json:"spec"`

	Formats []string `json:"formats,omitempty"`
	// Frame selects the frame, by label, that static formats (svg, png)
	// show. Empty shows the first frame.
	Frame    string  `json:"frame,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Tooltips bool    `json:"tooltips,omitempty"`
	// Detailed adds the grid, mappings and adapter counts to the plan
	// diagram.
	Detailed bool `json:"detailed,omitempty"`
	Refresh  bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is the output of a pipeline run.
type Result struct {
	// Drawn is nil when every artifact came from the cache.
	Drawn *plot.Result
	Data  *dataset.Frame

	DataHash string
	SpecHash string

	Artifacts map[string][]byte
	Warnings  []*perrors.Warning

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	Rows       int
	Figures    int
	Frames     int
	LoadTime   time.Duration
	DrawTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	FilterHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return perrors.New(perrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Data) == 0 && o.DataPath == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "tracking data is required")
	}
	if o.Spec == nil {
		return perrors.New(perrors.ErrCodeInvalidInput, "plot spec is required")
	}
	if err := o.Spec.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "scale must not be negative")
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(specHash, format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{SpecHash: specHash, Format: format}
	switch format {
	case FormatSVG:
		opts.Frame = o.Frame
	case FormatPNG:
		opts.Frame = o.Frame
		opts.Scale = o.Scale
	case FormatDOT:
		if o.Detailed {
			opts.Frame = "detailed"
		}
	}
	if o.Tooltips && format != FormatDOT {
		opts.Format += "+tooltips"
	}
	return opts
}

// FilterKeyOpts returns cache key options for the spec's event filter.
func (o *Options) FilterKeyOpts() cache.FilterKeyOpts {
	f := o.Spec.Filter
	return cache.FilterKeyOpts{Start: f.Start, End: f.End, Event: f.Event, Time: f.Time}
}

func (o *Options) title() string {
	if o.Spec.Title != "" {
		return o.Spec.Title
	}
	return "ptplot"
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
