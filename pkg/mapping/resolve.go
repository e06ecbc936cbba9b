package mapping

import (
	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// Resolve evaluates a single mapping against ds. The returned column is
// named by m.Key() and never aliases the dataset's storage.
//
// Errors:
//   - MAPPING when a referenced column does not exist or evaluation fails
//   - LENGTH_MISMATCH when a Series or Computed result has the wrong length
func Resolve(ds dataset.Dataset, m Mapping) (dataset.Column, error) {
	if m == nil {
		return dataset.Column{}, perrors.New(perrors.ErrCodeMapping, "mapping is nil")
	}
	key := m.Key()

	switch m := m.(type) {
	case ColumnRef:
		col, ok := ds.Column(m.Name)
		if !ok {
			return dataset.Column{}, perrors.New(perrors.ErrCodeMapping, "unknown column %q", m.Name)
		}
		return col.Clone(key), nil

	case Expression:
		if err := perrors.ValidateMappingText(m.Text); err != nil {
			return dataset.Column{}, err
		}
		if col, ok := ds.Column(m.Text); ok {
			return col.Clone(key), nil
		}
		c, err := compile(m.Text, ds)
		if err != nil {
			return dataset.Column{}, err
		}
		vals, err := c.eval(ds)
		if err != nil {
			return dataset.Column{}, perrors.Wrap(perrors.ErrCodeMapping, err, "evaluate %q", m.Text)
		}
		return dataset.NewColumn(key, vals), nil

	case Computed:
		if m.Fn == nil {
			return dataset.Column{}, perrors.New(perrors.ErrCodeMapping, "computed mapping %q has no function", key)
		}
		vals, err := m.Fn(ds)
		if err != nil {
			return dataset.Column{}, perrors.Wrap(perrors.ErrCodeMapping, err, "compute %q", key)
		}
		if len(vals) != ds.Len() {
			return dataset.Column{}, perrors.LengthMismatch(key, len(vals), ds.Len())
		}
		return dataset.NewColumn(key, vals), nil

	case Series:
		if len(m.Values) != ds.Len() {
			return dataset.Column{}, perrors.LengthMismatch(key, len(m.Values), ds.Len())
		}
		return dataset.NewColumn(key, m.Values), nil

	default:
		return dataset.Column{}, perrors.New(perrors.ErrCodeMapping, "unsupported mapping %T", m)
	}
}

// ResolveAll resolves every mapping into one table. Mappings are
// deduplicated by key; the first mapping for a key wins and columns keep
// first-request order. Nil mappings are skipped.
func ResolveAll(ds dataset.Dataset, ms []Mapping) (*dataset.Frame, error) {
	seen := make(map[string]bool, len(ms))
	cols := make([]dataset.Column, 0, len(ms))
	for _, m := range ms {
		if m == nil || seen[m.Key()] {
			continue
		}
		seen[m.Key()] = true
		col, err := Resolve(ds, m)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return dataset.New()
	}
	return dataset.New(cols...)
}
