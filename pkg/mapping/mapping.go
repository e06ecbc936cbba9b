// Package mapping resolves column mappings against a dataset.
//
// A [Mapping] names the data a layer draws from. It is one of four forms:
//
//   - [ColumnRef]: an existing column, copied as is
//   - [Expression]: a column name or an expression over columns
//   - [Computed]: a function producing a column from the dataset
//   - [Series]: an externally supplied sequence of values
//
// Every mapping has a [Mapping.Key]. The resolved column is always named by
// that key, so layers look resolved data up by the same value they were
// configured with.
//
// # Expressions
//
// Expression text that exactly matches a column name resolves to a copy of
// that column. Anything else is evaluated row by row with
// [github.com/expr-lang/expr]:
//
//	x - 10            // arithmetic
//	team == "home"    // boolean columns
//	Q("club name")    // columns whose names are not identifiers
//
// Boolean results form a bool column and numeric results a float column.
package mapping

import (
	"github.com/matzehuels/ptplot/pkg/dataset"
)

// Mapping is a reference to data in a dataset.
type Mapping interface {
	// Key names the resolved column.
	Key() string
	mapping()
}

// ColumnRef refers to an existing column by name.
type ColumnRef struct {
	Name string
}

// Expression is text that is either a column name or an expression.
type Expression struct {
	Text string
}

// Computed produces a column from the dataset. Fn must return one value per
// dataset row.
type Computed struct {
	Name string
	Fn   func(ds dataset.Dataset) ([]dataset.Value, error)
}

// Series is an externally supplied column aligned with the dataset rows.
type Series struct {
	Name   string
	Values []dataset.Value
}

func (m ColumnRef) Key() string  { return m.Name }
func (m Expression) Key() string { return m.Text }
func (m Computed) Key() string   { return m.Name }
func (m Series) Key() string     { return m.Name }

func (ColumnRef) mapping()  {}
func (Expression) mapping() {}
func (Computed) mapping()   {}
func (Series) mapping()     {}

// Of returns an Expression mapping for text. Empty text returns nil so
// optional layer parameters can be built from configuration strings.
func Of(text string) Mapping {
	if text == "" {
		return nil
	}
	return Expression{Text: text}
}

// Col returns a ColumnRef mapping.
func Col(name string) Mapping {
	return ColumnRef{Name: name}
}

// Keys returns the keys of the non-nil mappings, in order.
func Keys(ms []Mapping) []string {
	keys := make([]string, 0, len(ms))
	for _, m := range ms {
		if m != nil {
			keys = append(keys, m.Key())
		}
	}
	return keys
}

// KeyOf returns the key of m, or "" when m is nil.
func KeyOf(m Mapping) string {
	if m == nil {
		return ""
	}
	return m.Key()
}
