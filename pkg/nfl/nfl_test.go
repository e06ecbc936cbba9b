package nfl

import (
	"testing"

	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	"github.com/matzehuels/ptplot/pkg/group"
)

func countShapes(b draw.Backdrop, shape draw.Shape) int {
	n := 0
	for _, in := range b.Instructions {
		if in.Shape == shape {
			n++
		}
	}
	return n
}

func textLabels(b draw.Backdrop) []string {
	var out []string
	for _, in := range b.Instructions {
		if in.Shape == draw.ShapeText && in.Angle == 0 {
			out = append(out, in.Text)
		}
	}
	return out
}

func TestFieldDefault(t *testing.T) {
	b := Field(DefaultFieldOptions())

	if b.Background != FieldColor {
		t.Errorf("Background = %q, want %q", b.Background, FieldColor)
	}
	if b.XRange.Start != -13 || b.XRange.End != 113 {
		t.Errorf("XRange = %+v, want [-13, 113]", b.XRange)
	}
	if b.YRange.Start != -3 || b.YRange.End != 56.3 {
		t.Errorf("YRange = %+v, want [-3, 56.3]", b.YRange)
	}

	// 21 yard lines (0..100 by 5), 2 end lines, 2 sidelines.
	if got := countShapes(b, draw.ShapeRect); got != 25 {
		t.Errorf("rects = %d, want 25", got)
	}

	want := []string{"10", "20", "30", "40", "50", "40", "30", "20", "10"}
	got := textLabels(b)
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFieldRelative(t *testing.T) {
	b := Field(FieldOptions{MinYardline: -20, MaxYardline: 20, Relative: true})

	// Yard lines every 5 from -20 to 20, no end lines, no sidelines.
	if got := countShapes(b, draw.ShapeRect); got != 9 {
		t.Errorf("rects = %d, want 9", got)
	}
	got := textLabels(b)
	if len(got) != 5 || got[0] != "-20" || got[2] != "0" {
		t.Errorf("labels = %v, want [-20 -10 0 10 20]", got)
	}
}

func TestFieldClipsToWindow(t *testing.T) {
	b := Field(FieldOptions{MinYardline: 30, MaxYardline: 60, SidelineBuffer: 3})
	for _, in := range b.Instructions {
		if in.Shape == draw.ShapeText && (in.X < 30 || in.X > 60) {
			t.Errorf("label at %v outside window", in.X)
		}
	}
}

func TestPalette(t *testing.T) {
	p := Palette(nil)

	s, err := group.ResolveStyle(p, "KC", true, false)
	if err != nil {
		t.Fatalf("ResolveStyle(KC) error: %v", err)
	}
	if s.Colors[0] != "rgb(227, 24, 55)" {
		t.Errorf("KC home color = %q", s.Colors[0])
	}

	s, _ = group.ResolveStyle(p, "KC", false, false)
	if s.Colors[0] != "white" {
		t.Errorf("KC away fill = %q, want white", s.Colors[0])
	}

	if _, err := group.ResolveStyle(p, "XFL", true, false); err == nil {
		t.Error("unknown team should fail without fallback")
	}

	ball, _ := group.ResolveStyle(p, BallID, false, true)
	src := draw.NewSource("s", dataset.MustNew(dataset.Floats("x", 1)))
	g := ball.Marker(src, draw.Attrs{draw.AttrX: "x", draw.AttrY: "y"})
	if g.Kind != draw.GlyphEllipse || g.Fill() != "brown" || g.X != "x" {
		t.Errorf("ball glyph = %+v", g)
	}
}
