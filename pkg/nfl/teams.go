// Package nfl provides the NFL field backdrop, team colors and ball marker.
package nfl

import (
	"github.com/matzehuels/ptplot/pkg/draw"
	"github.com/matzehuels/ptplot/pkg/group"
)

// BallID is the team value tracking data uses for the ball.
const BallID = "football"

func tc(home, away []string) group.TeamColors {
	return group.TeamColors{Home: home, Away: away}
}

// TeamColors maps team abbreviations to jersey colors. Home lists are
// jersey, trim and number; away lists start with white.
var TeamColors = group.ColorTable{
	"ARI": tc([]string{"rgb(135, 0, 39)", "black", "white"}, []string{"white", "rgb(135, 0, 39)", "black"}),
	"ATL": tc([]string{"rgb(163, 13, 45)", "black", "rgb(166, 174, 176)"}, []string{"white", "rgb(163, 13, 45)", "black"}),
	"BAL": tc([]string{"rgb(26, 25, 95)", "black", "rgb(187, 147, 52)"}, []string{"white", "rgb(26, 25, 95)", "black"}),
	"BUF": tc([]string{"rgb(12, 46, 130)", "rgb(213, 10, 10)", "white"}, []string{"white", "rgb(213, 10, 10)", "rgb(12, 46, 130)"}),
	"CAR": tc([]string{"black", "rgb(0, 133, 202)", "rgb(191, 192, 191)"}, []string{"white", "rgb(0, 133, 202)", "black"}),
	"CHI": tc([]string{"rgb(200, 56, 3)", "rgb(11, 22, 42)", "white"}, []string{"white", "rgb(200, 56, 3)", "rgb(11, 22, 42)"}),
	"CIN": tc([]string{"black", "rgb(211, 47, 30)", "white"}, []string{"white", "rgb(211, 47, 30)", "black"}),
	"CLE": tc([]string{"rgb(49, 29, 0)", "rgb(255, 60, 0)", "rgb(255, 60, 0)"}, []string{"white", "rgb(255, 60, 0)", "rgb(49, 29, 0)"}),
	"DAL": tc([]string{"rgb(0, 34, 68)", "rgb(0, 51, 141)", "rgb(134, 147, 151)"}, []string{"white", "rgb(0, 51, 141)", "rgb(0, 34, 68)"}),
	"DEN": tc([]string{"rgb(255, 82, 0)", "rgb(0, 35, 76)", "white"}, []string{"white", "rgb(255, 82, 0)", "rgb(0, 35, 76)"}),
	"DET": tc([]string{"rgb(0, 118, 182)", "rgb(176, 183, 188)", "white"}, []string{"white", "rgb(176, 183, 188)", "rgb(0, 118, 182)"}),
	"GB":  tc([]string{"rgb(238, 173, 30)", "rgb(28, 45, 37)", "black"}, []string{"white", "rgb(28, 45, 37)", "rgb(238, 173, 30)"}),
	"HOU": tc([]string{"rgb(0, 7, 28)", "rgb(163, 13, 45)", "white"}, []string{"white", "rgb(163, 13, 45)", "rgb(0, 7, 28)"}),
	"IND": tc([]string{"rgb(1, 51, 105)", "rgb(155, 161, 162)", "white"}, []string{"white", "rgb(155, 161, 162)", "rgb(1, 51, 105)"}),
	"JAX": tc([]string{"black", "rgb(0, 101, 118)", "rgb(159, 121, 44)"}, []string{"white", "rgb(159, 121, 44)", "rgb(0, 101, 118)"}),
	"KC":  tc([]string{"rgb(227, 24, 55)", "rgb(238, 173, 30)", "white"}, []string{"white", "rgb(238, 173, 30)", "rgb(227, 24, 55)"}),
	"LAC": tc([]string{"rgb(0, 128, 197)", "rgb(0, 21, 50)", "rgb(238, 173, 30)"}, []string{"white", "rgb(238, 173, 30)", "rgb(0, 128, 197)"}),
	"LAR": tc([]string{"rgb(0, 21, 50)", "rgb(134, 109, 75)", "white"}, []string{"white", "rgb(134, 109, 75)", "rgb(0, 21, 50)"}),
	"LV":  tc([]string{"black", "rgb(166, 174, 176)", "white"}, []string{"white", "rgb(166, 174, 176)", "black"}),
	"MIA": tc([]string{"rgb(0, 142, 151)", "rgb(0, 142, 151)", "white"}, []string{"white", "rgb(0, 142, 151)", "rgb(0, 142, 151)"}),
	"MIN": tc([]string{"rgb(79, 38, 131)", "rgb(255, 198, 47)", "white"}, []string{"white", "rgb(255, 198, 47)", "rgb(79, 38, 131)"}),
	"NE":  tc([]string{"rgb(0, 21, 50)", "rgb(213, 10, 10)", "rgb(176, 183, 188)"}, []string{"white", "rgb(213, 10, 10)", "rgb(0, 21, 50)"}),
	"NO":  tc([]string{"black", "rgb(159, 137, 88)", "rgb(159, 137, 88)"}, []string{"white", "rgb(159, 137, 88)", "black"}),
	"NYG": tc([]string{"rgb(1, 35, 82)", "rgb(163, 13, 45)", "rgb(155, 161, 162)"}, []string{"white", "rgb(1, 35, 82)", "rgb(163, 13, 45)"}),
	"NYJ": tc([]string{"rgb(0, 63, 45)", "white", "white"}, []string{"white", "rgb(0, 63, 45)", "rgb(0, 63, 45)"}),
	"PHI": tc([]string{"rgb(0, 76, 84)", "black", "rgb(166, 174, 176)"}, []string{"white", "rgb(0, 76, 84)", "black"}),
	"PIT": tc([]string{"black", "rgb(238, 173, 30)", "white"}, []string{"white", "rgb(238, 173, 30)", "black"}),
	"SEA": tc([]string{"#002244", "#69be28", "white"}, []string{"white", "#69be28", "#002244"}),
	"SF":  tc([]string{"rgb(170, 0, 0)", "rgb(175, 146, 93)", "white"}, []string{"white", "rgb(175, 146, 93)", "rgb(170, 0, 0)"}),
	"TB":  tc([]string{"#d50a0a", "#34302b", "white"}, []string{"white", "#d50a0a", "#34302b"}),
	"TEN": tc([]string{"#002244", "#4b92db", "white"}, []string{"white", "#4b92db", "#002244"}),
	"WAS": tc([]string{"#773141", "#ffb612", "white"}, []string{"white", "#ffb612", "#773141"}),

	// Former abbreviations.
	"OAK": tc([]string{"black", "rgb(166, 174, 176)", "white"}, []string{"white", "rgb(166, 174, 176)", "black"}),
	"SD":  tc([]string{"rgb(0, 128, 197)", "rgb(0, 21, 50)", "rgb(238, 173, 30)"}, []string{"white", "rgb(238, 173, 30)", "rgb(0, 128, 197)"}),
	"STL": tc([]string{"rgb(0, 21, 50)", "rgb(134, 109, 75)", "white"}, []string{"white", "rgb(134, 109, 75)", "rgb(0, 21, 50)"}),
}

// BallColors are the fill and line colors of the ball.
var BallColors = []string{"brown", "brown"}

// BallMarker draws the ball as a small brown ellipse two yards long.
func BallMarker(src *draw.Source, attrs draw.Attrs) *draw.Glyph {
	a := attrs.Clone()
	a["width"] = 2.0
	a["height"] = 1.0
	a["fill_color"] = BallColors[0]
	a["line_color"] = BallColors[1]
	return draw.NewGlyph(draw.GlyphEllipse, src, a)
}

// Palette returns the NFL aesthetic palette. Unknown teams are a lookup
// error unless fallback is non-nil.
func Palette(fallback *group.TeamColors) group.Palette {
	return group.Palette{
		Teams:    TeamColors,
		Ball:     group.BallStyle{Colors: BallColors, Marker: BallMarker},
		Fallback: fallback,
	}
}
