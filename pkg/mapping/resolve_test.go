package mapping

import (
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

func tracking() *dataset.Frame {
	return dataset.MustNew(
		dataset.Floats("a", 1, 2, 3),
		dataset.Floats("b", 2, 7, 8),
		dataset.Strings("team", "home", "away", "football"),
		dataset.Floats("player name", 5, 6, 7),
	)
}

func TestResolveColumn(t *testing.T) {
	ds := tracking()

	tests := []struct {
		name string
		m    Mapping
	}{
		{"column ref", ColumnRef{Name: "a"}},
		{"expression naming a column", Expression{Text: "a"}},
		{"column with spaces", Expression{Text: "player name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, err := Resolve(ds, tt.m)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if col.Name != tt.m.Key() {
				t.Errorf("Name = %q, want %q", col.Name, tt.m.Key())
			}
			src, _ := ds.Column(col.Name)
			col.Values[0] = 99.0
			if src.Values[0] == 99.0 {
				t.Error("resolved column aliases dataset storage")
			}
		})
	}
}

func TestResolveExpression(t *testing.T) {
	ds := tracking()

	tests := []struct {
		text string
		kind dataset.Kind
		want []dataset.Value
	}{
		{"3*a > b", dataset.KindBool, []dataset.Value{true, false, true}},
		{"a + b", dataset.KindFloat, []dataset.Value{3.0, 9.0, 11.0}},
		{`team == "home"`, dataset.KindBool, []dataset.Value{true, false, false}},
		{`Q("player name") * 2`, dataset.KindFloat, []dataset.Value{10.0, 12.0, 14.0}},
		{"abs(a - b)", dataset.KindFloat, []dataset.Value{1.0, 5.0, 5.0}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			col, err := Resolve(ds, Expression{Text: tt.text})
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.text, err)
			}
			if col.Name != tt.text {
				t.Errorf("Name = %q, want %q", col.Name, tt.text)
			}
			if col.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", col.Kind, tt.kind)
			}
			for i, w := range tt.want {
				if !dataset.Equal(col.Values[i], w) {
					t.Errorf("row %d = %v, want %v", i, col.Values[i], w)
				}
			}
		})
	}
}

func TestResolveUnknownColumn(t *testing.T) {
	ds := tracking()

	tests := []struct {
		name string
		m    Mapping
		want string
	}{
		{"column ref", ColumnRef{Name: "speed"}, "speed"},
		{"expression", Expression{Text: "speed * 2"}, "speed"},
		{"quoted", Expression{Text: `Q("jersey number") > 0`}, "jersey number"},
		{"unknown function", Expression{Text: "clamp(a)"}, "clamp"},
		{"empty", Expression{Text: ""}, "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(ds, tt.m)
			if !perrors.Is(err, perrors.ErrCodeMapping) {
				t.Fatalf("Resolve() error = %v, want MAPPING", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestResolveSeries(t *testing.T) {
	ds := tracking()

	col, err := Resolve(ds, Series{Name: "speed", Values: []dataset.Value{1, 2, 3}})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if col.Name != "speed" || col.Kind != dataset.KindFloat {
		t.Errorf("got %q/%v, want speed/float", col.Name, col.Kind)
	}

	_, err = Resolve(ds, Series{Name: "speed", Values: []dataset.Value{1, 2}})
	if !perrors.Is(err, perrors.ErrCodeLengthMismatch) {
		t.Fatalf("Resolve(short series) error = %v, want LENGTH_MISMATCH", err)
	}
	for _, want := range []string{"2", "3"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestResolveComputed(t *testing.T) {
	ds := tracking()
	double := Computed{
		Name: "double_a",
		Fn: func(ds dataset.Dataset) ([]dataset.Value, error) {
			a, _ := ds.Column("a")
			out := make([]dataset.Value, len(a.Values))
			for i, v := range a.Values {
				out[i] = v.(float64) * 2
			}
			return out, nil
		},
	}

	col, err := Resolve(ds, double)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if col.Name != "double_a" || col.Values[2] != 6.0 {
		t.Errorf("got %s=%v", col.Name, col.Values)
	}

	failing := Computed{Name: "bad", Fn: func(dataset.Dataset) ([]dataset.Value, error) {
		return nil, errors.New("boom")
	}}
	if _, err := Resolve(ds, failing); !perrors.Is(err, perrors.ErrCodeMapping) {
		t.Errorf("Resolve(failing) error = %v, want MAPPING", err)
	}

	short := Computed{Name: "short", Fn: func(dataset.Dataset) ([]dataset.Value, error) {
		return []dataset.Value{1}, nil
	}}
	if _, err := Resolve(ds, short); !perrors.Is(err, perrors.ErrCodeLengthMismatch) {
		t.Errorf("Resolve(short) error = %v, want LENGTH_MISMATCH", err)
	}
}

func TestResolveAllDeduplicates(t *testing.T) {
	ds := tracking()
	ms := []Mapping{
		Expression{Text: "b"},
		Expression{Text: "a"},
		nil,
		ColumnRef{Name: "b"},
		Expression{Text: "a + b"},
		Expression{Text: "a"},
	}

	table, err := ResolveAll(ds, ms)
	if err != nil {
		t.Fatalf("ResolveAll() error: %v", err)
	}
	if got := strings.Join(table.Columns(), "|"); got != "b|a|a + b" {
		t.Errorf("Columns() = %q, want %q", got, "b|a|a + b")
	}
	if table.Len() != ds.Len() {
		t.Errorf("Len() = %d, want %d", table.Len(), ds.Len())
	}
}

func TestResolveAllPropagatesErrors(t *testing.T) {
	_, err := ResolveAll(tracking(), []Mapping{Of("a"), Of("nope")})
	if !perrors.Is(err, perrors.ErrCodeMapping) {
		t.Errorf("ResolveAll() error = %v, want MAPPING", err)
	}
}

func TestOf(t *testing.T) {
	if Of("") != nil {
		t.Error("Of(\"\") should be nil")
	}
	if KeyOf(Of("x")) != "x" || KeyOf(nil) != "" {
		t.Error("KeyOf mismatch")
	}
}

func TestResolveQuotedColumns(t *testing.T) {
	ds := dataset.MustNew(
		dataset.Floats("_q0", 100, 200),
		dataset.Floats("player name", 1, 2),
		dataset.Floats("it's", 10, 20),
		dataset.Floats(`say "hi"`, 3, 4),
	)

	tests := []struct {
		text string
		want []dataset.Value
	}{
		{`_q0 + Q("player name")`, []dataset.Value{101.0, 202.0}},
		{`Q("player name") - Q("_q0")`, []dataset.Value{-99.0, -198.0}},
		{`Q('it\'s') * 2`, []dataset.Value{20.0, 40.0}},
		{`Q("it's") + 1`, []dataset.Value{11.0, 21.0}},
		{`Q('say "hi"') + Q("say \"hi\"")`, []dataset.Value{6.0, 8.0}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			col, err := Resolve(ds, Expression{Text: tt.text})
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.text, err)
			}
			for i, w := range tt.want {
				if !dataset.Equal(col.Values[i], w) {
					t.Errorf("row %d = %v, want %v", i, col.Values[i], w)
				}
			}
		})
	}
}
