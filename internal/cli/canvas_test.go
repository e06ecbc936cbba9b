package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
)

func figure() *draw.Figure {
	fig := draw.NewFigure("f", 100)
	fig.XRange = draw.NewRange(0, 10)
	fig.YRange = draw.NewRange(0, 10)
	src := fig.NewSource(dataset.MustNew(
		dataset.Floats("x", 0, 10),
		dataset.Floats("y", 10, 0),
	))
	fig.AddGlyph(draw.NewGlyph(draw.GlyphCircle, src, draw.Attrs{
		draw.AttrX: "x", draw.AttrY: "y", draw.AttrLegendLabel: "KC", "fill_color": "#e31837",
	}))
	return fig
}

func TestTermCanvasCorners(t *testing.T) {
	fig := figure()
	c := newTermCanvas(fig, 11, 6)
	c.glyphs(fig.Glyphs)
	if c.cells[0][0].r != 'K' {
		t.Errorf("top-left = %q, want 'K'", c.cells[0][0].r)
	}
	if c.cells[5][10].r != 'K' {
		t.Errorf("bottom-right = %q, want 'K'", c.cells[5][10].r)
	}
	if c.cells[0][0].color != "#e31837" {
		t.Errorf("color = %q", c.cells[0][0].color)
	}
}

func TestTermCanvasVisibleRows(t *testing.T) {
	fig := figure()
	fig.Glyphs[0].Source.SetVisible([]int{1})
	c := newTermCanvas(fig, 11, 6)
	c.glyphs(fig.Glyphs)
	if c.cells[0][0].r != ' ' || c.cells[5][10].r != 'K' {
		t.Error("hidden rows should not be drawn")
	}
}

func TestTermCanvasBackdrop(t *testing.T) {
	fig := figure()
	c := newTermCanvas(fig, 11, 6)
	c.backdrop([]draw.Instruction{{Shape: draw.ShapeLine, X: 5, Y: 0, X2: 5, Y2: 10}})
	for row := range c.h {
		if c.cells[row][5].r != '│' {
			t.Errorf("row %d col 5 = %q, want yard line", row, c.cells[row][5].r)
		}
	}
}

func TestTermCanvasFitsUnsetRange(t *testing.T) {
	fig := figure()
	fig.XRange, fig.YRange = draw.Range{}, draw.Range{}
	c := newTermCanvas(fig, 11, 6)
	if c.x.Start != 0 || c.x.End != 10 || c.y.Start != 0 || c.y.End != 10 {
		t.Errorf("fitted ranges = %+v, %+v", c.x, c.y)
	}
}

func TestTermColor(t *testing.T) {
	tests := []struct{ in, want string }{
		{"#aabbcc", "#aabbcc"},
		{"rgb(255, 0, 16)", "#ff0010"},
		{"White", "#ffffff"},
		{"", ""},
		{"chartreuse", ""},
	}
	for _, tt := range tests {
		if got := termColor(tt.in); got != tt.want {
			t.Errorf("termColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderFigureTitle(t *testing.T) {
	fig := figure()
	fig.Title = "56"
	if out := renderFigure(fig, 20, 6); !strings.Contains(out, "56") {
		t.Error("rendered figure misses its title")
	}
}
