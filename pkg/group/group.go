// Package group partitions resolved plot data into facets and aesthetic
// groups.
//
// Facets split the data into panels by the values of one column and choose
// the panel grid. Aesthetic groups split each panel's data by team and
// home/away status and assign every group a [Style]. Both partitions keep
// groups in the order their keys first appear in the data.
package group

import (
	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// FacetSpec configures faceting. Column is the resolved facet column. At
// most one of Cols and Rows may be set.
type FacetSpec struct {
	Column string
	Cols   int
	Rows   int
}

// Facet is one panel's data.
type Facet struct {
	// Key is the facet value, nil when the plot is not faceted.
	Key  dataset.Value
	Data *dataset.Frame
}

// Title returns the panel title for the facet.
func (f Facet) Title() string { return dataset.Format(f.Key) }

// Layout is the facet grid shape.
type Layout struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Facets partitions data into panels. A nil spec yields a single panel
// holding all the data in a 1x1 layout.
//
// With Cols set, rows = ceil(n/Cols); with Rows set, cols = ceil(n/Rows);
// with neither, every facet gets its own row.
func Facets(data *dataset.Frame, spec *FacetSpec) ([]Facet, Layout, error) {
	if spec == nil {
		return []Facet{{Data: data}}, Layout{Rows: 1, Cols: 1}, nil
	}
	if err := perrors.ValidateGridSpec(spec.Cols, spec.Rows); err != nil {
		return nil, Layout{}, err
	}

	groups, err := data.GroupBy(spec.Column)
	if err != nil {
		return nil, Layout{}, err
	}
	facets := make([]Facet, len(groups))
	for i, g := range groups {
		facets[i] = Facet{Key: g.Key, Data: g.Data}
	}

	n := len(facets)
	var layout Layout
	switch {
	case spec.Cols > 0:
		layout = Layout{Rows: ceilDiv(n, spec.Cols), Cols: spec.Cols}
	case spec.Rows > 0:
		layout = Layout{Rows: spec.Rows, Cols: ceilDiv(n, spec.Rows)}
	default:
		layout = Layout{Rows: n, Cols: 1}
	}
	return facets, layout, nil
}

// MissingTeam labels the group of rows with an empty team value. Such rows
// are only drawn when the palette has fallback colors.
const MissingTeam = "unknown"

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// AestheticSpec configures aesthetic grouping. Team and HomeAway name
// resolved columns and may be empty. Ball is the team value that marks
// the ball entity.
type AestheticSpec struct {
	Team     string
	HomeAway string
	Ball     string
	Palette  Palette
}

// Group is one aesthetic partition.
type Group struct {
	Style Style
	Data  *dataset.Frame
}

// Aestheticize partitions data into styled groups.
//
//   - no spec, or neither Team nor HomeAway: one group with the default style
//   - Team only: one group per team, all styled as home
//   - HomeAway only: one group per side with neutral colors
//   - both: one group per (team, side)
//
// The ball group is never split by side.
func Aestheticize(data *dataset.Frame, spec *AestheticSpec) ([]Group, error) {
	if spec == nil || (spec.Team == "" && spec.HomeAway == "") {
		return []Group{{Style: DefaultStyle(), Data: data}}, nil
	}

	if spec.Team == "" {
		return bySide(data, spec, "")
	}

	teams, err := data.GroupBy(spec.Team)
	if err != nil {
		return nil, err
	}
	var out []Group
	for _, tg := range teams {
		key := dataset.Format(tg.Key)
		if key == "" {
			if spec.Palette.Fallback == nil {
				return nil, perrors.New(perrors.ErrCodeLookup,
					"%d rows have no %s value and no fallback colors are set", tg.Data.Len(), spec.Team)
			}
			key = MissingTeam
		}
		isBall := spec.Ball != "" && key == spec.Ball
		if isBall || spec.HomeAway == "" {
			style, err := ResolveStyle(spec.Palette, key, true, isBall)
			if err != nil {
				return nil, err
			}
			out = append(out, Group{Style: style, Data: tg.Data})
			continue
		}
		sides, err := bySide(tg.Data, spec, key)
		if err != nil {
			return nil, err
		}
		out = append(out, sides...)
	}
	return out, nil
}

func bySide(data *dataset.Frame, spec *AestheticSpec, team string) ([]Group, error) {
	sides, err := data.GroupBy(spec.HomeAway)
	if err != nil {
		return nil, err
	}
	out := make([]Group, 0, len(sides))
	for _, sg := range sides {
		style, err := ResolveStyle(spec.Palette, team, dataset.Truthy(sg.Key), false)
		if err != nil {
			return nil, err
		}
		out = append(out, Group{Style: style, Data: sg.Data})
	}
	return out, nil
}
