package plotspec

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/group"
)

const tomlSpec = `
title = "Play 56"
height = 400

[field]
min_yardline = 10
max_yardline = 60

[[positions]]
x = "x"
y = "y"
name = "players"
attrs = { line_width = 2 }

[[tracks]]
x = "x"
y = "y"
track = "nflId"

[[hover]]
name = "players"
tips = [{ label = "id", value = "nflId" }]

[aesthetics]
team = "club"
home_away = 'club == "KC"'

[animation]
frame = "frameId"
rate = 5

[animation.labels]
elapsed = "time"
`

const yamlSpec = `
title: Play 56
positions:
  - x: x
    y: y
facet:
  by: playId
  cols: 1
animation:
  frame: frameId
  labels:
    columns: [frameId]
    formats: ["frame %.0f"]
`

func tracking() *dataset.Frame {
	t0 := time.Date(2022, 9, 8, 20, 20, 0, 0, time.UTC)
	times := []dataset.Value{t0, t0, t0, t0.Add(100 * time.Millisecond), t0.Add(100 * time.Millisecond), t0.Add(100 * time.Millisecond)}
	return dataset.MustNew(
		dataset.Floats("playId", 56, 56, 56, 56, 56, 56),
		dataset.Floats("frameId", 1, 1, 1, 2, 2, 2),
		dataset.NewColumn("time", times),
		dataset.Strings("club", "KC", "BUF", "football", "KC", "BUF", "football"),
		dataset.Floats("nflId", 15, 17, 0, 15, 17, 0),
		dataset.Strings("event", "ball_snap", "ball_snap", "ball_snap", "pass_forward", "pass_forward", "pass_forward"),
		dataset.Floats("x", 20, 30, 25, 21, 31, 26),
		dataset.Floats("y", 10, 20, 15, 10, 20, 15),
	)
}

func TestParseTOML(t *testing.T) {
	s, err := Parse([]byte(tomlSpec), FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if s.Title != "Play 56" || s.Height != 400 {
		t.Errorf("header = %q, %d", s.Title, s.Height)
	}
	if s.Field == nil || s.Field.MaxYardline != 60 {
		t.Errorf("field = %+v", s.Field)
	}
	if len(s.Positions) != 1 || len(s.Tracks) != 1 || len(s.Hover) != 1 {
		t.Errorf("layers = %d positions, %d tracks, %d hover", len(s.Positions), len(s.Tracks), len(s.Hover))
	}
	if s.Animation == nil || s.Animation.Labels == nil || s.Animation.Labels.Elapsed != "time" {
		t.Errorf("animation = %+v", s.Animation)
	}
}

func TestBuildTOML(t *testing.T) {
	s, err := Parse([]byte(tomlSpec), FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	p, err := s.Build(tracking())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := len(p.Layers()); got != 6 {
		t.Errorf("len(Layers()) = %d, want 6", got)
	}

	res, err := p.Draw()
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if res.Control == nil {
		t.Fatal("animated spec should produce a control")
	}
	if labels := res.Control.Labels(); len(labels) != 2 || labels[0] != "0.00 s" || labels[1] != "0.10 s" {
		t.Errorf("labels = %v", labels)
	}
	fig := res.Grid.Figures[0]
	if fig.Height != 400 {
		t.Errorf("Height = %d, want 400", fig.Height)
	}
	for _, g := range fig.GlyphsNamed("players") {
		if g.Kind == draw.GlyphCircle && g.Attrs.Float("line_width", 0) != 2 {
			t.Errorf("line_width = %v, want 2", g.Attrs["line_width"])
		}
	}
}

func TestBuildYAML(t *testing.T) {
	s, err := Parse([]byte(yamlSpec), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	p, err := s.Build(tracking())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	res, err := p.Draw()
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if res.Grid.Cols != 1 || res.Grid.Figures[0].Title != "56" {
		t.Errorf("grid = %d cols, title %q", res.Grid.Cols, res.Grid.Figures[0].Title)
	}
	if labels := res.Control.Labels(); labels[0] != "frame 1" {
		t.Errorf("labels = %v", labels)
	}
}

func TestBuildSidesOnly(t *testing.T) {
	s, err := Parse([]byte(`{"positions": [{"x": "x", "y": "y"}], "aesthetics": {"home_away": "club == \"KC\""}}`), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	p, err := s.Build(tracking())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	res, err := p.Draw()
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if res.Plan.Groups() != 2 {
		t.Errorf("plan groups = %d, want home and away", res.Plan.Groups())
	}
}

func TestBuildFilter(t *testing.T) {
	s := &Spec{
		Positions: []Positions{{X: "x", Y: "y"}},
		Filter:    &Filter{Start: "ball_snap", End: "pass_forward", Event: "event", Time: "time"},
	}
	data, err := s.Apply(tracking())
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if data.Len() != 6 {
		t.Errorf("filtered rows = %d, want 6", data.Len())
	}

	s.Filter.End = "ball_snap"
	if _, err := s.Apply(tracking()); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("Apply(same event) error = %v, want INVALID_INPUT", err)
	}
}

func TestValidate(t *testing.T) {
	xy := []Positions{{X: "x", Y: "y"}}
	tests := []struct {
		name string
		spec Spec
		code perrors.Code
	}{
		{"nothing drawn", Spec{}, perrors.ErrCodeConfiguration},
		{"positions without y", Spec{Positions: []Positions{{X: "x"}}}, perrors.ErrCodeConfiguration},
		{"tracks without id", Spec{Tracks: []Tracks{{X: "x", Y: "y"}}}, perrors.ErrCodeConfiguration},
		{"both grid params", Spec{Positions: xy, Facet: &Facet{By: "playId", Cols: 1, Rows: 1}}, perrors.ErrCodeConfiguration},
		{"bad rate", Spec{Positions: xy, Animation: &Animation{Frame: "frameId", Rate: -2}}, perrors.ErrCodeConfiguration},
		{"partial filter", Spec{Positions: xy, Filter: &Filter{Start: "ball_snap"}}, perrors.ErrCodeConfiguration},
		{"hostile attr", Spec{Positions: []Positions{{X: "x", Y: "y", Attrs: map[string]any{"line_color": "red onmouseover=alert(1)"}}}}, perrors.ErrCodeConfiguration},
		{"attr not a number", Spec{Tracks: []Tracks{{X: "x", Y: "y", Track: "nflId", Attrs: map[string]any{"alpha": "1;x"}}}}, perrors.ErrCodeConfiguration},
		{"bad team color", Spec{Positions: xy, Aesthetics: &Aesthetics{Team: "club", Teams: map[string]group.TeamColors{"KC": {Home: []string{"red;x:y"}}}}}, perrors.ErrCodeConfiguration},
		{"bad fallback color", Spec{Positions: xy, Aesthetics: &Aesthetics{Team: "club", Fallback: &group.TeamColors{Away: []string{`"><script>`}}}}, perrors.ErrCodeConfiguration},
		{"empty aesthetics", Spec{Positions: xy, Aesthetics: &Aesthetics{}}, perrors.ErrCodeConfiguration},
		{"two label kinds", Spec{Positions: xy, Animation: &Animation{Frame: "frameId", Labels: &Labels{Elapsed: "time", Columns: []string{"frameId"}}}}, perrors.ErrCodeConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.spec.Validate(); !perrors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("title = "), FormatTOML); !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("bad TOML error = %v", err)
	}
	if _, err := Parse([]byte(`{"positions": [{"x": "x", "y": "y"}], "colour": 1}`), FormatJSON); !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("unknown JSON field error = %v", err)
	}
	if _, err := Parse(nil, "ini"); !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "play.yml")
	if err := os.WriteFile(path, []byte(yamlSpec), 0600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Facet == nil || s.Facet.By != "playId" {
		t.Errorf("facet = %+v", s.Facet)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "play.ini")); !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("bad extension error = %v", err)
	}
}

func TestHashStable(t *testing.T) {
	a, _ := Parse([]byte(yamlSpec), FormatYAML)
	b, _ := Parse([]byte(yamlSpec), FormatYAML)
	if a.Hash() != b.Hash() {
		t.Error("equal specs should hash equally")
	}
	b.Title = "other"
	if a.Hash() == b.Hash() {
		t.Error("different specs should hash differently")
	}
}
