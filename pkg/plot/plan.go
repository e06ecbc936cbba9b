package plot

import "github.com/matzehuels/ptplot/pkg/group"

// Plan records how a plot was drawn: which columns were resolved, how the
// data was partitioned and how many playback adapters each group produced.
// It is used to inspect and diagram plots.
type Plan struct {
	Layers   []string     `json:"layers"`
	Mappings []string     `json:"mappings"`
	FrameKey string       `json:"frame_key,omitempty"`
	Frames   int          `json:"frames,omitempty"`
	Adapters int          `json:"adapters,omitempty"`
	Layout   group.Layout `json:"layout"`
	Facets   []FacetPlan  `json:"facets"`
}

// FacetPlan is one panel of the plan.
type FacetPlan struct {
	Title  string      `json:"title"`
	Rows   int         `json:"rows"`
	Groups []GroupPlan `json:"groups"`
}

// GroupPlan is one aesthetic group of a panel.
type GroupPlan struct {
	Label    string `json:"label"`
	Home     bool   `json:"home"`
	Ball     bool   `json:"ball,omitempty"`
	Rows     int    `json:"rows"`
	Adapters int    `json:"adapters"`
}

// Groups returns the total number of aesthetic groups across panels.
func (p *Plan) Groups() int {
	n := 0
	for _, f := range p.Facets {
		n += len(f.Groups)
	}
	return n
}
