package cli

import (
	"slices"
	"testing"

	"github.com/matzehuels/ptplot/pkg/plotspec"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to html", "", []string{"html"}},
		{"single", "svg", []string{"svg"}},
		{"several", "svg,png,json", []string{"svg", "png", "json"}},
		{"spaces and blanks", " html , ,dot", []string{"html", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name          string
		output, input string
		format        string
		single        bool
		want          string
	}{
		{"derived from input", "", "data/week1.csv", "svg", false, "week1.svg"},
		{"base path", "out/play56.html", "week1.csv", "png", false, "out/play56.png"},
		{"single keeps exact path", "play.htm", "week1.csv", "html", true, "play.htm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := basePath(tt.output, tt.input)
			if got := outputPath(base, tt.format, tt.single, tt.output); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpecLayers(t *testing.T) {
	spec := &plotspec.Spec{
		Animation:  &plotspec.Animation{Frame: "frameId"},
		Positions:  []plotspec.Positions{{X: "x", Y: "y"}},
		Tracks:     []plotspec.Tracks{{X: "x", Y: "y", Track: "nflId"}},
		Aesthetics: &plotspec.Aesthetics{Team: "club"},
	}
	want := []string{"tracks", "positions", "aesthetics", "animation"}
	if got := specLayers(spec); !slices.Equal(got, want) {
		t.Errorf("specLayers() = %v, want %v", got, want)
	}
}
