// Package dataset holds the tabular data plots are drawn from.
//
// The plotting core only needs a small capability set from its input: row
// count, column names and column access by name. [Dataset] captures that
// contract; [Frame] is the in-memory implementation used throughout ptplot.
// Frames are immutable once built: every transformation returns a new
// frame and leaves its receiver untouched.
//
// # Building Frames
//
//	f, err := dataset.New(
//	    dataset.Floats("x", 10, 11, 12),
//	    dataset.Strings("club", "KC", "KC", "BUF"),
//	)
//
// Frames can also be read from CSV ([ReadCSV]) or converted from a go-gg
// table ([FromTable]).
package dataset

import (
	"slices"
	"sort"

	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// Dataset is the read-only table contract consumed by the plotting core.
type Dataset interface {
	// Len returns the number of rows.
	Len() int
	// Columns returns the column names in declaration order.
	Columns() []string
	// Column returns the named column and whether it exists.
	Column(name string) (Column, bool)
}

// Column is a named, typed sequence of values.
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// NewColumn builds a column from raw values, normalizing numbers to
// float64 and inferring the kind. Mixed kinds produce KindAny.
func NewColumn(name string, values []Value) Column {
	out := make([]Value, len(values))
	kind := KindAny
	seen := false
	mixed := false
	for i, v := range values {
		v = Normalize(v)
		out[i] = v
		if v == nil {
			continue
		}
		k := KindOf(v)
		switch {
		case !seen:
			kind, seen = k, true
		case k != kind:
			mixed = true
		}
	}
	if mixed {
		kind = KindAny
	}
	return Column{Name: name, Kind: kind, Values: out}
}

// Floats builds a float column.
func Floats(name string, vs ...float64) Column {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return Column{Name: name, Kind: KindFloat, Values: out}
}

// Strings builds a string column.
func Strings(name string, vs ...string) Column {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return Column{Name: name, Kind: KindString, Values: out}
}

// Bools builds a bool column.
func Bools(name string, vs ...bool) Column {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return Column{Name: name, Kind: KindBool, Values: out}
}

// Len returns the number of values.
func (c Column) Len() int { return len(c.Values) }

// Clone returns a deep copy of the column, optionally renamed.
func (c Column) Clone(name string) Column {
	if name == "" {
		name = c.Name
	}
	return Column{Name: name, Kind: c.Kind, Values: slices.Clone(c.Values)}
}

// At returns the value at row i.
func (c Column) At(i int) Value { return c.Values[i] }

// Frame is an immutable in-memory [Dataset].
type Frame struct {
	names []string
	cols  map[string]Column
	n     int
}

var _ Dataset = (*Frame)(nil)

// New builds a frame from columns. All columns must have the same length;
// later columns with a repeated name replace earlier ones in place.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{cols: make(map[string]Column, len(cols))}
	for i, c := range cols {
		if i == 0 {
			f.n = c.Len()
		} else if c.Len() != f.n {
			return nil, perrors.LengthMismatch(c.Name, c.Len(), f.n)
		}
		if _, ok := f.cols[c.Name]; !ok {
			f.names = append(f.names, c.Name)
		}
		f.cols[c.Name] = c
	}
	return f, nil
}

// MustNew is like New but panics on error. It is intended for tests and
// static fixtures.
func MustNew(cols ...Column) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

// Empty returns a frame with the given column layout and zero rows.
func (f *Frame) Empty() *Frame {
	return f.Take(nil)
}

func (f *Frame) Len() int { return f.n }

func (f *Frame) Columns() []string { return slices.Clone(f.names) }

func (f *Frame) Column(name string) (Column, bool) {
	c, ok := f.cols[name]
	return c, ok
}

// Has reports whether the frame has a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Value returns the cell at (row, column). Unknown columns yield nil.
func (f *Frame) Value(row int, name string) Value {
	c, ok := f.cols[name]
	if !ok {
		return nil
	}
	return c.Values[row]
}

// Row returns row i as a column-name keyed map.
func (f *Frame) Row(i int) map[string]Value {
	row := make(map[string]Value, len(f.names))
	for _, name := range f.names {
		row[name] = f.cols[name].Values[i]
	}
	return row
}

// With returns a new frame with col added, or replacing the column of the
// same name.
func (f *Frame) With(col Column) (*Frame, error) {
	if len(f.names) > 0 && col.Len() != f.n {
		return nil, perrors.LengthMismatch(col.Name, col.Len(), f.n)
	}
	cols := make([]Column, 0, len(f.names)+1)
	for _, name := range f.names {
		cols = append(cols, f.cols[name])
	}
	return New(append(cols, col)...)
}

// Select returns a frame restricted to the named columns, in that order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		c, ok := f.cols[name]
		if !ok {
			return nil, perrors.New(perrors.ErrCodeMapping, "unknown column %q", name)
		}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return &Frame{cols: map[string]Column{}}, nil
	}
	return New(cols...)
}

// Take returns a frame holding the given rows, in the given order.
func (f *Frame) Take(rows []int) *Frame {
	out := &Frame{
		names: slices.Clone(f.names),
		cols:  make(map[string]Column, len(f.cols)),
		n:     len(rows),
	}
	for _, name := range f.names {
		src := f.cols[name]
		vals := make([]Value, len(rows))
		for i, r := range rows {
			vals[i] = src.Values[r]
		}
		out.cols[name] = Column{Name: name, Kind: src.Kind, Values: vals}
	}
	return out
}

// Filter returns the rows for which keep reports true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	var rows []int
	for i := 0; i < f.n; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return f.Take(rows)
}

// SortBy returns the frame stably sorted ascending by the named column.
// Rows with equal keys keep their relative order.
func (f *Frame) SortBy(name string) (*Frame, error) {
	c, ok := f.cols[name]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeMapping, "unknown column %q", name)
	}
	rows := make([]int, f.n)
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return Compare(c.Values[rows[a]], c.Values[rows[b]]) < 0
	})
	return f.Take(rows), nil
}

// IsSortedBy reports whether the named column is non-decreasing.
// Unknown columns are never sorted.
func (f *Frame) IsSortedBy(name string) bool {
	c, ok := f.cols[name]
	if !ok {
		return false
	}
	for i := 1; i < len(c.Values); i++ {
		if Compare(c.Values[i-1], c.Values[i]) > 0 {
			return false
		}
	}
	return true
}

// Group is one partition of a frame.
type Group struct {
	Key  Value
	Rows []int
	Data *Frame
}

// GroupBy partitions the frame by the values of the named column.
// Groups are returned in first-occurrence order and rows keep their
// original relative order within each group.
func (f *Frame) GroupBy(name string) ([]Group, error) {
	c, ok := f.cols[name]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeMapping, "unknown column %q", name)
	}
	index := make(map[groupKey]int)
	var groups []Group
	for i, v := range c.Values {
		k := keyOf(v)
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, Group{Key: v})
		}
		groups[gi].Rows = append(groups[gi].Rows, i)
	}
	for i := range groups {
		groups[i].Data = f.Take(groups[i].Rows)
	}
	return groups, nil
}

// Distinct returns the distinct values of the named column in
// first-occurrence order.
func (f *Frame) Distinct(name string) ([]Value, error) {
	c, ok := f.cols[name]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeMapping, "unknown column %q", name)
	}
	return distinct(c.Values), nil
}

// SortedDistinct returns the distinct values of the named column in
// ascending order.
func (f *Frame) SortedDistinct(name string) ([]Value, error) {
	vals, err := f.Distinct(name)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(vals, Compare)
	return vals, nil
}

func distinct(values []Value) []Value {
	seen := make(map[groupKey]struct{})
	var out []Value
	for _, v := range values {
		k := keyOf(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// FromDataset copies any Dataset into a Frame. Frames are returned as is.
func FromDataset(ds Dataset) (*Frame, error) {
	if f, ok := ds.(*Frame); ok {
		return f, nil
	}
	names := ds.Columns()
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		c, ok := ds.Column(name)
		if !ok {
			return nil, perrors.New(perrors.ErrCodeInternal, "dataset lists column %q but cannot return it", name)
		}
		cols = append(cols, c.Clone(name))
	}
	if len(cols) == 0 {
		return &Frame{cols: map[string]Column{}}, nil
	}
	return New(cols...)
}
