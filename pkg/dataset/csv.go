package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// timeLayouts are tried in order when inferring time columns.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// ReadCSV reads a frame from CSV with a header row.
//
// Column kinds are inferred per column: a column is float when every
// non-empty cell parses as a number, bool when every non-empty cell is
// true/false, time when every non-empty cell parses as a timestamp, and
// string otherwise. Empty cells and "NA" are missing values.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, perrors.New(perrors.ErrCodeInvalidFormat, "csv input is empty")
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read csv header")
	}

	raw := make([][]string, len(header))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read csv")
		}
		for i := range header {
			raw[i] = append(raw[i], rec[i])
		}
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = inferColumn(strings.TrimSpace(name), raw[i])
	}
	if len(cols) == 0 {
		return New()
	}
	return New(cols...)
}

// ReadCSVFile reads a frame from a CSV file on disk.
func ReadCSVFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

func missing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "NA" || s == "NaN"
}

func inferColumn(name string, cells []string) Column {
	if vals, ok := parseAll(cells, parseFloat); ok {
		return Column{Name: name, Kind: KindFloat, Values: vals}
	}
	if vals, ok := parseAll(cells, parseBool); ok {
		return Column{Name: name, Kind: KindBool, Values: vals}
	}
	if vals, ok := parseAll(cells, parseTime); ok {
		return Column{Name: name, Kind: KindTime, Values: vals}
	}
	vals := make([]Value, len(cells))
	for i, c := range cells {
		if !missing(c) {
			vals[i] = c
		}
	}
	return Column{Name: name, Kind: KindString, Values: vals}
}

func parseAll(cells []string, parse func(string) (Value, bool)) ([]Value, bool) {
	vals := make([]Value, len(cells))
	found := false
	for i, c := range cells {
		if missing(c) {
			continue
		}
		v, ok := parse(strings.TrimSpace(c))
		if !ok {
			return nil, false
		}
		vals[i] = v
		found = true
	}
	return vals, found
}

func parseFloat(s string) (Value, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

func parseBool(s string) (Value, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return nil, false
}

func parseTime(s string) (Value, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return nil, false
}

// WriteTypedCSV writes the frame as CSV with a header row followed by a
// row of column kinds, so [ReadTypedCSV] restores the same kinds whatever
// subset of rows was written.
func WriteTypedCSV(w io.Writer, f *Frame) error {
	names := f.Columns()
	kinds := make([]string, len(names))
	for i, name := range names {
		c, _ := f.Column(name)
		kinds[i] = c.Kind.String()
	}
	return writeFrame(csv.NewWriter(w), f, names, kinds)
}

// ReadTypedCSV reads CSV written by [WriteTypedCSV]. Columns of kind "any"
// are inferred as in [ReadCSV].
func ReadTypedCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read typed csv header")
	}
	kindRow, err := cr.Read()
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read typed csv kinds")
	}
	if len(kindRow) != len(header) {
		return nil, perrors.New(perrors.ErrCodeInvalidFormat,
			"typed csv has %d kinds for %d columns", len(kindRow), len(header))
	}

	raw := make([][]string, len(header))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read typed csv")
		}
		for i := range header {
			raw[i] = append(raw[i], rec[i])
		}
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		c, err := typedColumn(name, kindRow[i], raw[i])
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	if len(cols) == 0 {
		return New()
	}
	return New(cols...)
}

func typedColumn(name, kind string, cells []string) (Column, error) {
	var parse func(string) (Value, bool)
	var k Kind
	switch kind {
	case KindFloat.String():
		parse, k = parseFloat, KindFloat
	case KindBool.String():
		parse, k = parseBool, KindBool
	case KindTime.String():
		parse, k = parseTime, KindTime
	case KindString.String():
		parse, k = func(s string) (Value, bool) { return s, true }, KindString
	default:
		return inferColumn(name, cells), nil
	}
	vals := make([]Value, len(cells))
	for i, c := range cells {
		if missing(c) {
			continue
		}
		if k != KindString {
			c = strings.TrimSpace(c)
		}
		v, ok := parse(c)
		if !ok {
			return Column{}, perrors.New(perrors.ErrCodeInvalidFormat,
				"column %q: %q is not a %s", name, c, kind)
		}
		vals[i] = v
	}
	return Column{Name: name, Kind: k, Values: vals}, nil
}

// WriteCSV writes the frame as CSV with a header row.
func WriteCSV(w io.Writer, f *Frame) error {
	return writeFrame(csv.NewWriter(w), f, f.Columns())
}

func writeFrame(cw *csv.Writer, f *Frame, names []string, preamble ...[]string) error {
	if err := cw.Write(names); err != nil {
		return err
	}
	for _, row := range preamble {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	rec := make([]string, len(names))
	for i := 0; i < f.Len(); i++ {
		for j, name := range names {
			rec[j] = Format(f.Value(i, name))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
