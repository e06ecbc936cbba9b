package labels

import (
	"testing"
	"time"

	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

var snap = time.Date(2021, 9, 12, 13, 0, 0, 0, time.UTC)

func timed(frames []float64, offsets []time.Duration) *dataset.Frame {
	ts := make([]dataset.Value, len(offsets))
	for i, o := range offsets {
		ts[i] = snap.Add(o)
	}
	return dataset.MustNew(
		dataset.Floats("frameId", frames...),
		dataset.NewColumn("time", ts),
		dataset.Strings("quarter", "Q1", "Q1", "Q1"),
		dataset.Strings("clock", "15:00", "14:59", "14:59"),
	)
}

func TestElapsedTime(t *testing.T) {
	table := timed([]float64{1, 2, 2}, []time.Duration{0, 100 * time.Millisecond, 100 * time.Millisecond})
	l := ElapsedTime(mapping.Of("time"), snap, "")

	got, err := ForFrames(l, table, "frameId", []dataset.Value{1.0, 2.0})
	if err != nil {
		t.Fatalf("ForFrames() error: %v", err)
	}
	if got[0] != "0.00 s" || got[1] != "0.10 s" {
		t.Errorf("labels = %v, want [0.00 s 0.10 s]", got)
	}
}

func TestElapsedTimeMultipleTimes(t *testing.T) {
	table := timed([]float64{1, 1, 1}, []time.Duration{0, time.Second, time.Second})
	l := ElapsedTime(mapping.Of("time"), snap, "")

	_, err := ForFrames(l, table, "frameId", []dataset.Value{1.0})
	if !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("ForFrames() error = %v, want INVALID_INPUT", err)
	}
}

func TestColumns(t *testing.T) {
	table := timed([]float64{1, 2, 2}, []time.Duration{0, 0, 0})

	l, err := Columns([]mapping.Mapping{mapping.Of("quarter"), mapping.Of("clock")}, ColumnsOptions{Separator: " - "})
	if err != nil {
		t.Fatalf("Columns() error: %v", err)
	}
	got, err := ForFrames(l, table, "frameId", []dataset.Value{1.0, 2.0})
	if err != nil {
		t.Fatalf("ForFrames() error: %v", err)
	}
	if got[0] != "Q1 - 15:00" || got[1] != "Q1 - 14:59" {
		t.Errorf("labels = %v", got)
	}

	l, _ = Columns([]mapping.Mapping{mapping.Of("frameId")}, ColumnsOptions{Formats: []string{"frame %03.0f"}})
	got, _ = ForFrames(l, table, "frameId", []dataset.Value{2.0})
	if got[0] != "frame 002" {
		t.Errorf("formatted label = %q, want %q", got[0], "frame 002")
	}
}

func TestColumnsValidation(t *testing.T) {
	tests := []struct {
		name string
		ms   []mapping.Mapping
		opts ColumnsOptions
	}{
		{"no columns", nil, ColumnsOptions{}},
		{"format count", []mapping.Mapping{mapping.Of("a")}, ColumnsOptions{Formats: []string{"%v", "%v"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Columns(tt.ms, tt.opts); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
				t.Errorf("Columns() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestColumnMissingValue(t *testing.T) {
	table := dataset.MustNew(dataset.Floats("frameId", 1), dataset.NewColumn("clock", []dataset.Value{nil}))
	l, _ := Columns([]mapping.Mapping{mapping.Of("clock")}, ColumnsOptions{Missing: "--"})
	got, _ := l.Label(table)
	if got != "--" {
		t.Errorf("Label() = %q, want --", got)
	}
	if got, _ := Column(mapping.Of("frameId")).Label(table); got != "1" {
		t.Errorf("Column Label() = %q, want 1", got)
	}
}
