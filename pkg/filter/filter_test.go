package filter

import (
	"strings"
	"testing"

	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

func play() *dataset.Frame {
	return dataset.MustNew(
		dataset.Floats("frameId", 1, 1, 2, 2, 3, 3, 4, 4),
		dataset.Floats("nflId", 15, 17, 15, 17, 15, 17, 15, 17),
		dataset.Strings("event", "", "", "ball_snap", "ball_snap", "", "", "pass_forward", "pass_forward"),
	)
}

func TestBetweenEvents(t *testing.T) {
	out, err := BetweenEvents(play(), "ball_snap", "pass_forward", mapping.Of("event"), mapping.Of("frameId"))
	if err != nil {
		t.Fatalf("BetweenEvents() error: %v", err)
	}
	if out.Len() != 6 {
		t.Errorf("Len() = %d, want 6", out.Len())
	}
	for i := 0; i < out.Len(); i++ {
		if f := out.Value(i, "frameId"); f == 1.0 {
			t.Errorf("row %d is before the start event", i)
		}
	}
}

func TestBetweenEventsNumericCodes(t *testing.T) {
	data := dataset.MustNew(
		dataset.Floats("frameId", 1, 2, 3, 4),
		dataset.Floats("code", 0, 34, 0, 51),
	)
	out, err := BetweenEvents(data, "34", "51", mapping.Of("code"), mapping.Of("frameId"))
	if err != nil {
		t.Fatalf("BetweenEvents() error: %v", err)
	}
	if out.Len() != 3 {
		t.Errorf("Len() = %d, want 3", out.Len())
	}
}

func TestBetweenEventsErrors(t *testing.T) {
	tagged := dataset.MustNew(
		dataset.Floats("frameId", 1, 2, 3),
		dataset.Strings("event", "ball_snap", "ball_snap", "tackle"),
	)

	tests := []struct {
		name       string
		data       *dataset.Frame
		start, end string
		event      mapping.Mapping
		code       perrors.Code
		msg        []string
	}{
		{"missing event", play(), "ball_snap", "tackle", mapping.Of("event"), perrors.ErrCodeInvalidInput, []string{"tackle", "0 timestamps"}},
		{"repeated event", tagged, "ball_snap", "tackle", mapping.Of("event"), perrors.ErrCodeInvalidInput, []string{"2 timestamps"}},
		{"wrong order", play(), "pass_forward", "ball_snap", mapping.Of("event"), perrors.ErrCodeInvalidInput, []string{"does not occur after"}},
		{"same event", play(), "ball_snap", "ball_snap", mapping.Of("event"), perrors.ErrCodeInvalidInput, []string{"does not occur after"}},
		{"unknown column", play(), "ball_snap", "pass_forward", mapping.Of("evt"), perrors.ErrCodeMapping, []string{"evt"}},
		{
			"series length", tagged, "a", "b",
			mapping.Series{Name: "flags", Values: []dataset.Value{"a", "b", "c", "d"}},
			perrors.ErrCodeLengthMismatch, []string{"4", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BetweenEvents(tt.data, tt.start, tt.end, tt.event, mapping.Of("frameId"))
			if !perrors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			for _, m := range tt.msg {
				if !strings.Contains(err.Error(), m) {
					t.Errorf("error %q does not mention %q", err, m)
				}
			}
		})
	}
}

func TestBetweenEventsEmpty(t *testing.T) {
	data := dataset.MustNew(dataset.Strings("event", "a", "b"))
	missing := mapping.Series{Name: "ts", Values: []dataset.Value{nil, nil}}

	_, err := BetweenEvents(data, "a", "b", mapping.Of("event"), missing)
	if !perrors.Is(err, perrors.ErrCodeEmptyResult) {
		t.Errorf("error = %v, want EMPTY_RESULT", err)
	}
}
