package draw

// Widget is a playback control shown below the grid.
type Widget interface {
	widget()
}

// Toggle is a play/pause button. Label is PlayLabel while paused and
// PauseLabel while playing.
type Toggle struct {
	Label      string
	Active     bool
	PlayLabel  string
	PauseLabel string
}

// SetActive switches the button state and its label.
func (t *Toggle) SetActive(active bool) {
	t.Active = active
	t.Label = t.PlayLabel
	if active {
		t.Label = t.PauseLabel
	}
}

// Slider selects a frame. Labels, when present, has one entry per frame.
type Slider struct {
	Title  string
	Frames []string
	Labels []string
	Value  int
}

func (*Toggle) widget() {}
func (*Slider) widget() {}

// Grid arranges figures in rows of Cols panels, with widgets below.
type Grid struct {
	Cols    int
	Figures []*Figure
	Widgets []Widget
}

// NewGrid lays figures out in cols columns.
func NewGrid(figures []*Figure, cols int) *Grid {
	if cols < 1 {
		cols = 1
	}
	return &Grid{Cols: cols, Figures: figures}
}

// Rows returns the number of rows the grid occupies.
func (g *Grid) Rows() int {
	if len(g.Figures) == 0 {
		return 0
	}
	return (len(g.Figures) + g.Cols - 1) / g.Cols
}

// Sources returns every distinct source referenced by the grid's glyphs,
// in drawing order.
func (g *Grid) Sources() []*Source {
	seen := make(map[*Source]bool)
	var out []*Source
	for _, f := range g.Figures {
		for _, gl := range f.Glyphs {
			if gl.Source != nil && !seen[gl.Source] {
				seen[gl.Source] = true
				out = append(out, gl.Source)
			}
		}
	}
	return out
}
