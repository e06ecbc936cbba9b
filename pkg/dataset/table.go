package dataset

import (
	"io"
	"math"
	"reflect"
	"time"

	"github.com/aclements/go-gg/table"

	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// FromTable converts a go-gg table into a frame. Each table column must be
// a slice; its elements are normalized like [NewColumn] does.
func FromTable(t *table.Table) (*Frame, error) {
	names := t.Columns()
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		rv := reflect.ValueOf(t.Column(name))
		if rv.Kind() != reflect.Slice {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "column %q is not a slice", name)
		}
		vals := make([]Value, rv.Len())
		for i := range vals {
			vals[i] = rv.Index(i).Interface()
		}
		cols = append(cols, NewColumn(name, vals))
	}
	return New(cols...)
}

// ToTable converts a frame into a go-gg table. Typed columns become typed
// slices; missing floats become NaN and missing strings become "".
func ToTable(f *Frame) *table.Table {
	b := new(table.Builder)
	for _, name := range f.names {
		c := f.cols[name]
		switch c.Kind {
		case KindFloat:
			out := make([]float64, len(c.Values))
			for i, v := range c.Values {
				if x, ok := v.(float64); ok {
					out[i] = x
				} else {
					out[i] = math.NaN()
				}
			}
			b.Add(name, out)
		case KindString:
			out := make([]string, len(c.Values))
			for i, v := range c.Values {
				out[i], _ = v.(string)
			}
			b.Add(name, out)
		case KindBool:
			out := make([]bool, len(c.Values))
			for i, v := range c.Values {
				out[i], _ = v.(bool)
			}
			b.Add(name, out)
		case KindTime:
			out := make([]time.Time, len(c.Values))
			for i, v := range c.Values {
				out[i], _ = v.(time.Time)
			}
			b.Add(name, out)
		default:
			out := make([]string, len(c.Values))
			for i, v := range c.Values {
				out[i] = Format(v)
			}
			b.Add(name, out)
		}
	}
	return b.Done()
}

// Fprint writes the frame as an aligned text table.
func Fprint(w io.Writer, f *Frame) {
	table.Fprint(w, ToTable(f))
}
