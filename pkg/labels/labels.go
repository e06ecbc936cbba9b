// Package labels generates display labels for animation frames.
//
// A [Labeler] receives the rows of one frame and returns the text shown on
// the frame slider. Labelers declare the mappings they read so the plot
// resolves those columns alongside the layers' own.
package labels

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

// Labeler labels a single animation frame.
type Labeler interface {
	Mappings() []mapping.Mapping
	Label(frame *dataset.Frame) (string, error)
}

// DefaultElapsedFormat renders elapsed seconds.
const DefaultElapsedFormat = "%.2f s"

type elapsed struct {
	column mapping.Mapping
	zero   time.Time
	format string
}

// ElapsedTime labels frames with the seconds between the frame's timestamp
// and zero. Every row of a frame must carry the same timestamp. An empty
// format uses DefaultElapsedFormat.
func ElapsedTime(column mapping.Mapping, zero time.Time, format string) Labeler {
	if format == "" {
		format = DefaultElapsedFormat
	}
	return &elapsed{column: column, zero: zero, format: format}
}

func (e *elapsed) Mappings() []mapping.Mapping { return []mapping.Mapping{e.column} }

func (e *elapsed) Label(frame *dataset.Frame) (string, error) {
	key := e.column.Key()
	times, err := frame.SortedDistinct(key)
	if err != nil {
		return "", err
	}
	if len(times) == 0 {
		return "", nil
	}
	if len(times) > 1 {
		return "", perrors.New(perrors.ErrCodeInvalidInput, "frame has multiple times: %s, %s",
			dataset.Format(times[0]), dataset.Format(times[len(times)-1]))
	}
	t, ok := times[0].(time.Time)
	if !ok {
		return "", perrors.New(perrors.ErrCodeInvalidInput, "column %q is not a time column", key)
	}
	return fmt.Sprintf(e.format, t.Sub(e.zero).Seconds()), nil
}

type columns struct {
	columns []mapping.Mapping
	formats []string
	sep     string
	missing string
}

// ColumnsOptions configures Columns.
type ColumnsOptions struct {
	// Formats holds one fmt verb per column; empty entries use the default
	// value formatting. When set it must have one entry per column.
	Formats []string
	// Separator joins the parts. Defaults to a single space.
	Separator string
	// Missing replaces missing values.
	Missing string
}

// Columns labels frames by joining the values of several columns taken
// from the frame's first row.
func Columns(ms []mapping.Mapping, opts ColumnsOptions) (Labeler, error) {
	if len(ms) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "at least one label column is required")
	}
	if opts.Formats != nil && len(opts.Formats) != len(ms) {
		return nil, perrors.New(perrors.ErrCodeInvalidInput,
			"got %d label formats for %d columns", len(opts.Formats), len(ms))
	}
	if opts.Separator == "" {
		opts.Separator = " "
	}
	return &columns{columns: ms, formats: opts.Formats, sep: opts.Separator, missing: opts.Missing}, nil
}

// Column labels frames with one column's value.
func Column(m mapping.Mapping) Labeler {
	return &columns{columns: []mapping.Mapping{m}, sep: " "}
}

func (c *columns) Mappings() []mapping.Mapping { return c.columns }

func (c *columns) Label(frame *dataset.Frame) (string, error) {
	if frame.Len() == 0 {
		return "", nil
	}
	parts := make([]string, len(c.columns))
	for i, m := range c.columns {
		key := m.Key()
		if !frame.Has(key) {
			return "", perrors.New(perrors.ErrCodeMapping, "unknown column %q", key)
		}
		v := frame.Value(0, key)
		switch {
		case v == nil:
			parts[i] = c.missing
		case c.formats != nil && c.formats[i] != "":
			parts[i] = fmt.Sprintf(c.formats[i], v)
		default:
			parts[i] = dataset.Format(v)
		}
	}
	return strings.Join(parts, c.sep), nil
}

// ForFrames labels every frame of table. frames are the ordered frame
// values and frameColumn names the resolved frame column.
func ForFrames(l Labeler, table *dataset.Frame, frameColumn string, frames []dataset.Value) ([]string, error) {
	groups, err := table.GroupBy(frameColumn)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(frames))
	for i, f := range frames {
		for _, g := range groups {
			if !dataset.Equal(g.Key, f) {
				continue
			}
			label, err := l.Label(g.Data)
			if err != nil {
				return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "label frame %s", dataset.Format(f))
			}
			out[i] = label
			break
		}
	}
	return out, nil
}
