package sink

import (
	"encoding/json"
	"math"
	"time"

	"github.com/matzehuels/ptplot/pkg/animation"
	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/draw"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	control *animation.Control
	indent  bool
}

// WithJSONControl records the playback state and frame list of ctl.
func WithJSONControl(ctl *animation.Control) JSONOption {
	return func(r *jsonRenderer) { r.control = ctl }
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Cols     int          `json:"cols"`
	Figures  []jsonFigure `json:"figures"`
	Sources  []jsonSource `json:"sources"`
	Widgets  []jsonWidget `json:"widgets,omitempty"`
	Playback *jsonState   `json:"playback,omitempty"`
}

type jsonFigure struct {
	ID          string             `json:"id"`
	Title       string             `json:"title,omitempty"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	XRange      *[2]float64        `json:"x_range,omitempty"`
	YRange      *[2]float64        `json:"y_range,omitempty"`
	Background  string             `json:"background,omitempty"`
	ShowGrid    bool               `json:"show_grid"`
	ShowAxes    bool               `json:"show_axes"`
	LegendClick string             `json:"legend_click,omitempty"`
	Backdrop    []draw.Instruction `json:"backdrop,omitempty"`
	Glyphs      []jsonGlyph        `json:"glyphs"`
	Tools       []draw.Tool        `json:"tools,omitempty"`
}

type jsonGlyph struct {
	ID     string     `json:"id"`
	Kind   string     `json:"kind"`
	Name   string     `json:"name,omitempty"`
	Legend string     `json:"legend,omitempty"`
	Source string     `json:"source"`
	X      string     `json:"x"`
	Y      string     `json:"y"`
	Text   string     `json:"text,omitempty"`
	Angle  string     `json:"angle,omitempty"`
	Attrs  draw.Attrs `json:"attrs,omitempty"`
}

type jsonSource struct {
	ID      string           `json:"id"`
	Columns map[string][]any `json:"columns"`
	Visible []int            `json:"visible"`
}

type jsonWidget struct {
	Kind   string   `json:"kind"`
	Label  string   `json:"label,omitempty"`
	Active bool     `json:"active,omitempty"`
	Frames []string `json:"frames,omitempty"`
	Labels []string `json:"labels,omitempty"`
	Value  int      `json:"value,omitempty"`
}

type jsonState struct {
	Index   int      `json:"index"`
	Label   string   `json:"label"`
	Playing bool     `json:"playing"`
	Frames  []any    `json:"frames"`
	Labels  []string `json:"labels"`
	Period  float64  `json:"period_ms"`
}

// RenderJSON exports the grid's figure model: figures with their glyphs,
// every data source with its visible rows, the widgets and, with
// [WithJSONControl], the playback state.
func RenderJSON(g *draw.Grid, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{Cols: g.Cols, Figures: make([]jsonFigure, 0, len(g.Figures))}
	for _, f := range g.Figures {
		out.Figures = append(out.Figures, buildFigure(f))
	}
	for _, s := range g.Sources() {
		out.Sources = append(out.Sources, buildSource(s))
	}
	for _, w := range g.Widgets {
		out.Widgets = append(out.Widgets, buildWidget(w))
	}
	if r.control != nil {
		st := r.control.State()
		frames := r.control.Frames()
		js := &jsonState{
			Index:   st.Index,
			Label:   st.Label,
			Playing: st.Playing,
			Frames:  make([]any, len(frames)),
			Labels:  r.control.Labels(),
			Period:  float64(r.control.Period()) / float64(time.Millisecond),
		}
		for i, f := range frames {
			js.Frames[i] = jsonValue(f)
		}
		out.Playback = js
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

func buildFigure(f *draw.Figure) jsonFigure {
	jf := jsonFigure{
		ID:          f.ID,
		Title:       f.Title,
		Width:       f.Width,
		Height:      f.Height,
		XRange:      jsonRange(f.XRange),
		YRange:      jsonRange(f.YRange),
		Background:  f.Background,
		ShowGrid:    f.ShowGrid,
		ShowAxes:    f.ShowAxes,
		LegendClick: f.LegendClick,
		Backdrop:    f.Backdrop,
		Glyphs:      make([]jsonGlyph, 0, len(f.Glyphs)),
		Tools:       f.Tools,
	}
	for _, g := range f.Glyphs {
		jf.Glyphs = append(jf.Glyphs, jsonGlyph{
			ID:     g.ID,
			Kind:   string(g.Kind),
			Name:   g.Name,
			Legend: g.Legend,
			Source: g.Source.ID,
			X:      g.X,
			Y:      g.Y,
			Text:   g.Text,
			Angle:  g.Angle,
			Attrs:  g.Attrs,
		})
	}
	return jf
}

func jsonRange(r draw.Range) *[2]float64 {
	if !r.Set {
		return nil
	}
	return &[2]float64{r.Start, r.End}
}

func buildSource(s *draw.Source) jsonSource {
	data := s.Full()
	js := jsonSource{ID: s.ID, Columns: make(map[string][]any), Visible: s.VisibleRows()}
	for _, name := range data.Columns() {
		col, _ := data.Column(name)
		vals := make([]any, col.Len())
		for i, v := range col.Values {
			vals[i] = jsonValue(v)
		}
		js.Columns[name] = vals
	}
	return js
}

func buildWidget(w draw.Widget) jsonWidget {
	switch w := w.(type) {
	case *draw.Toggle:
		return jsonWidget{Kind: "toggle", Label: w.Label, Active: w.Active}
	case *draw.Slider:
		return jsonWidget{Kind: "slider", Label: w.Title, Frames: w.Frames, Labels: w.Labels, Value: w.Value}
	default:
		return jsonWidget{Kind: "unknown"}
	}
}

// jsonValue maps values JSON cannot carry: NaN and infinities become null.
func jsonValue(v dataset.Value) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}
