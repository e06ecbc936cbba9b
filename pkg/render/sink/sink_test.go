package sink

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
	"github.com/matzehuels/ptplot/pkg/layer"
	"github.com/matzehuels/ptplot/pkg/mapping"
	"github.com/matzehuels/ptplot/pkg/nfl"
	"github.com/matzehuels/ptplot/pkg/plot"
)

func drawn(t *testing.T, layers ...layer.Layer) *plot.Result {
	t.Helper()
	data := dataset.MustNew(
		dataset.Floats("frameId", 1, 1, 1, 2, 2, 2),
		dataset.Floats("nflId", 15, 17, 0, 15, 17, 0),
		dataset.Floats("x", 20, 30, 25, 21, 31, 26),
		dataset.Floats("y", 10, 20, 15, 10, 20, 15),
	)
	p := plot.New(data).Add(&layer.Positions{X: mapping.Of("x"), Y: mapping.Of("y"), Name: "players"})
	res, err := p.Add(layers...).Draw()
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	return res
}

func animated() layer.Layer {
	return &layer.Animation{Frame: mapping.Of("frameId")}
}

func TestRenderSVGVisibleRows(t *testing.T) {
	res := drawn(t, animated())
	out := string(RenderSVG(res.Grid))

	if !strings.Contains(out, "<svg") {
		t.Fatal("output is not SVG")
	}
	if n := strings.Count(out, "<circle"); n != 3 {
		t.Errorf("circles = %d, want 3 (one frame)", n)
	}
}

func TestRenderSVGStatic(t *testing.T) {
	res := drawn(t)
	if n := strings.Count(string(RenderSVG(res.Grid)), "<circle"); n != 6 {
		t.Errorf("circles = %d, want all 6 rows", n)
	}
}

func TestRenderSVGField(t *testing.T) {
	res := drawn(t, layer.NewField(nfl.Field(nfl.DefaultFieldOptions())))
	out := string(RenderSVG(res.Grid))
	fig := res.Grid.Figures[0]

	if !strings.Contains(out, "fill:"+nfl.FieldColor) {
		t.Error("missing field background")
	}
	if !strings.Contains(out, fmt.Sprintf(`width="%d"`, fig.Width)) {
		t.Errorf("svg width should match figure width %d", fig.Width)
	}
	if !strings.Contains(out, ">50</text>") {
		t.Error("missing yard numbers")
	}
}

func TestRenderSVGCaptionAndTooltips(t *testing.T) {
	res := drawn(t, &layer.Hover{Name: "players", Tips: []layer.Tip{{Value: mapping.Of("nflId")}}})
	out := string(RenderSVG(res.Grid, WithCaption("frame one"), WithTooltips()))

	if !strings.Contains(out, "frame one") {
		t.Error("missing caption")
	}
	if !strings.Contains(out, "<title>nflId: 15</title>") {
		t.Error("missing tooltip")
	}
	if strings.Contains(string(RenderSVG(res.Grid)), "<title>") {
		t.Error("tooltips rendered without WithTooltips")
	}
}

func TestRenderSVGEscapesStyle(t *testing.T) {
	fig := draw.NewFigure("f", 100)
	fig.XRange = draw.NewRange(0, 10)
	fig.YRange = draw.NewRange(0, 10)
	src := fig.NewSource(dataset.MustNew(dataset.Floats("x", 5), dataset.Floats("y", 5)))
	fig.AddGlyph(draw.NewGlyph(draw.GlyphCircle, src, draw.Attrs{
		draw.AttrX: "x", draw.AttrY: "y",
		"fill_color": `red" onmouseover="alert(1)`,
		"line_color": "red onmouseover=alert(document.domain) x",
	}))
	out := string(RenderSVG(draw.NewGrid([]*draw.Figure{fig}, 1)))

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("output is not well-formed: %v\n%s", err, out)
		}
		if el, ok := tok.(xml.StartElement); ok {
			for _, a := range el.Attr {
				if strings.HasPrefix(a.Name.Local, "on") {
					t.Errorf("<%s> has attribute %s=%q", el.Name.Local, a.Name.Local, a.Value)
				}
			}
		}
	}
	if !strings.Contains(out, `style="fill:red&#34; onmouseover=&#34;alert(1)`) {
		t.Errorf("fill not written as an escaped style attribute:\n%s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	res := drawn(t, animated())
	b, err := RenderJSON(res.Grid, WithJSONControl(res.Control))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var out jsonOutput
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(out.Figures) != 1 || len(out.Figures[0].Glyphs) != 1 {
		t.Fatalf("figures = %+v", out.Figures)
	}
	if len(out.Sources) != 1 || len(out.Sources[0].Visible) != 3 {
		t.Errorf("sources = %+v", out.Sources)
	}
	if out.Playback == nil || len(out.Playback.Frames) != 2 || out.Playback.Period != 100 {
		t.Errorf("playback = %+v", out.Playback)
	}
	if len(out.Widgets) != 2 || out.Widgets[0].Kind != "toggle" || out.Widgets[1].Kind != "slider" {
		t.Errorf("widgets = %+v", out.Widgets)
	}
}

func TestRenderHTML(t *testing.T) {
	res := drawn(t, animated())
	if err := res.Control.SetIndex(1); err != nil {
		t.Fatal(err)
	}

	b, err := RenderHTML(res.Grid, res.Control, WithHTMLTitle("Play 1"))
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}
	out := string(b)

	if n := strings.Count(out, `class="frame"`); n != 2 {
		t.Errorf("frames = %d, want 2", n)
	}
	if !strings.Contains(out, "<title>Play 1</title>") || !strings.Contains(out, plot.PlayLabel) {
		t.Error("missing title or play toggle")
	}
	if strings.Contains(out, "<?xml") {
		t.Error("inline SVG should not carry an XML prolog")
	}
	if got := res.Control.State().Index; got != 1 {
		t.Errorf("control index after render = %d, want 1", got)
	}
}

func TestRenderHTMLStatic(t *testing.T) {
	res := drawn(t)
	b, err := RenderHTML(res.Grid, nil)
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}
	if strings.Contains(string(b), "<script>") {
		t.Error("static page should have no playback script")
	}
}

func TestTicks(t *testing.T) {
	got := ticks(draw.NewRange(0, 100))
	want := []float64{0, 20, 40, 60, 80, 100}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("ticks = %v, want %v", got, want)
	}
}

func TestPick(t *testing.T) {
	xs, ys := pick(100, 100, 10, 0)
	if xs[0] != 120 || ys[0] != 100 {
		t.Errorf("tip = (%d, %d), want (120, 100)", xs[0], ys[0])
	}
}
