package group

import (
	"github.com/matzehuels/ptplot/pkg/draw"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// MarkerFunc builds a custom marker glyph over src. attrs carries the
// structural keys and caller style the layer would otherwise apply.
type MarkerFunc func(src *draw.Source, attrs draw.Attrs) *draw.Glyph

// Style is the visual identity shared by every glyph drawn for a group.
type Style struct {
	Label  string
	IsHome bool
	IsBall bool
	// Colors is ordered primary, secondary and, when present, the number
	// color. Layers index into it.
	Colors []string
	// Marker replaces the default player marker when set.
	Marker MarkerFunc
}

// Color returns Colors[i], or def when the palette is shorter.
func (s Style) Color(i int, def string) string {
	if i < len(s.Colors) && s.Colors[i] != "" {
		return s.Colors[i]
	}
	return def
}

// TeamColors are a team's color lists for home and away contexts.
type TeamColors struct {
	Home []string `json:"home" toml:"home" yaml:"home"`
	Away []string `json:"away" toml:"away" yaml:"away"`
}

// ColorTable maps team identifiers to their colors.
type ColorTable map[string]TeamColors

// BallStyle is how the ball entity is drawn.
type BallStyle struct {
	Colors []string
	Marker MarkerFunc
}

// Palette is the injected color configuration for aesthetic grouping.
type Palette struct {
	Teams ColorTable
	Ball  BallStyle
	// Fallback colors teams missing from Teams. When nil an unknown team
	// is a LOOKUP error.
	Fallback *TeamColors
}

var (
	defaultColors     = []string{"black", "gray", "white"}
	defaultBallColors = []string{"black", "black"}

	neutral = TeamColors{
		Home: []string{"gainsboro", "darkslategray", "black"},
		Away: []string{"darkslategray", "gainsboro", "white"},
	}
)

// DefaultStyle is used when no aesthetic grouping is configured.
func DefaultStyle() Style {
	return Style{IsHome: true, Colors: defaultColors}
}

// ResolveStyle computes a group's style from the palette. It depends only on
// its arguments.
//
// The ball always gets the ball style. An empty key means no team mapping
// is configured and selects neutral home/away colors. Any other key is
// looked up in p.Teams, falling back to p.Fallback.
func ResolveStyle(p Palette, key string, isHome, isBall bool) (Style, error) {
	if isBall {
		colors := p.Ball.Colors
		if len(colors) == 0 {
			colors = defaultBallColors
		}
		return Style{Label: key, IsBall: true, IsHome: true, Colors: colors, Marker: p.Ball.Marker}, nil
	}

	tc := neutral
	label := key
	if key == "" {
		label = "away"
		if isHome {
			label = "home"
		}
	} else {
		var ok bool
		tc, ok = p.Teams[key]
		if !ok {
			if p.Fallback == nil {
				return Style{}, perrors.New(perrors.ErrCodeLookup, "no colors for team %q", key)
			}
			tc = *p.Fallback
		}
	}

	colors := tc.Away
	if isHome {
		colors = tc.Home
	}
	return Style{Label: label, IsHome: isHome, Colors: colors}, nil
}
