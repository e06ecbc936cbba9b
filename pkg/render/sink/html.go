package sink

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/matzehuels/ptplot/pkg/animation"
	"github.com/matzehuels/ptplot/pkg/draw"
)

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title   string
	svgOpts []SVGOption
}

// WithHTMLTitle sets the page title.
func WithHTMLTitle(s string) HTMLOption { return func(r *htmlRenderer) { r.title = s } }

// WithHTMLSVGOptions passes options through to the per-frame SVG renderer.
func WithHTMLSVGOptions(opts ...SVGOption) HTMLOption {
	return func(r *htmlRenderer) { r.svgOpts = opts }
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; margin: 16px; color: #333; }
  .frame[hidden] { display: none; }
  .controls { display: flex; align-items: center; gap: 12px; margin-top: 8px; }
  .controls input[type=range] { flex: 1; max-width: 600px; }
  button { min-width: 90px; }
</style>
</head>
<body>
<div id="frames">
{{- range $i, $f := .Frames}}
<div class="frame" data-index="{{$i}}"{{if ne $i $.Index}} hidden{{end}}>{{$f}}</div>
{{- end}}
</div>
{{- if gt (len .Frames) 1}}
<div class="controls">
  <button id="toggle" type="button">{{.Play}}</button>
  <input id="slider" type="range" min="0" max="{{.Last}}" value="{{.Index}}" step="1">
  <span id="label"></span>
</div>
<script>
(function() {
  const labels = {{.Labels}};
  const period = {{.Period}};
  const play = {{.Play}}, pause = {{.Pause}};
  const frames = document.querySelectorAll('#frames .frame');
  const slider = document.getElementById('slider');
  const toggle = document.getElementById('toggle');
  const label = document.getElementById('label');
  let index = {{.Index}}, timer = null;

  function show(i) {
    frames[index].hidden = true;
    index = i;
    frames[index].hidden = false;
    slider.value = index;
    label.textContent = labels[index];
  }
  function stop() {
    clearInterval(timer);
    timer = null;
    toggle.textContent = play;
  }
  function tick() {
    if (index === frames.length - 1) {
      stop();
      show(0);
      return;
    }
    show(index + 1);
  }
  toggle.addEventListener('click', function() {
    if (timer) { stop(); return; }
    toggle.textContent = pause;
    timer = setInterval(tick, period);
  });
  slider.addEventListener('input', function() { show(parseInt(slider.value, 10)); });
  show(index);
})();
</script>
{{- end}}
</body>
</html>
`))

type page struct {
	Title       string
	Frames      []template.HTML
	Labels      []string
	Index, Last int
	Period      int64
	Play, Pause string
}

// RenderHTML renders a self-contained page. With a control, the grid is
// rendered once per frame by stepping ctl, and the page plays the frames
// back with a play/pause toggle and a frame slider; ctl is returned to its
// current frame afterwards. Without a control the page holds one snapshot.
func RenderHTML(g *draw.Grid, ctl *animation.Control, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{title: "ptplot"}
	for _, opt := range opts {
		opt(&r)
	}

	p := page{Title: r.title, Play: "► Play", Pause: "❚❚ Pause", Period: 100}
	for _, w := range g.Widgets {
		if t, ok := w.(*draw.Toggle); ok {
			if t.PlayLabel != "" {
				p.Play = t.PlayLabel
			}
			if t.PauseLabel != "" {
				p.Pause = t.PauseLabel
			}
		}
	}

	if ctl == nil {
		p.Frames = []template.HTML{inline(RenderSVG(g, r.svgOpts...))}
		p.Labels = []string{""}
	} else {
		start := ctl.State().Index
		p.Labels = ctl.Labels()
		for i := range p.Labels {
			if err := ctl.SetIndex(i); err != nil {
				return nil, fmt.Errorf("render frame %d: %w", i, err)
			}
			svgOpts := append([]SVGOption{WithCaption(p.Labels[i])}, r.svgOpts...)
			p.Frames = append(p.Frames, inline(RenderSVG(g, svgOpts...)))
		}
		if err := ctl.SetIndex(start); err != nil {
			return nil, err
		}
		p.Index = start
		p.Period = ctl.Period().Milliseconds()
	}
	p.Last = len(p.Frames) - 1

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// inline drops the XML prolog so the document can sit inside HTML.
func inline(svg []byte) template.HTML {
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		svg = svg[i:]
	}
	return template.HTML(svg)
}
