package nfl

import (
	"math"
	"strconv"

	"github.com/matzehuels/ptplot/pkg/draw"
)

// Field dimensions in yards.
const (
	FieldWidth = 53.3
	FieldColor = "#34aa62"
)

// FieldOptions configures the drawn portion of the field.
type FieldOptions struct {
	// MinYardline and MaxYardline bound the visible length. The defaults
	// cover both end zones plus three yards.
	MinYardline float64 `json:"min_yardline" toml:"min_yardline" yaml:"min_yardline"`
	MaxYardline float64 `json:"max_yardline" toml:"max_yardline" yaml:"max_yardline"`
	// Relative labels yard lines by offset instead of field position and
	// ignores goal lines, for overlaying plays aligned at zero.
	Relative bool `json:"relative" toml:"relative" yaml:"relative"`
	// SidelineBuffer is extra space beyond each sideline.
	SidelineBuffer float64 `json:"sideline_buffer" toml:"sideline_buffer" yaml:"sideline_buffer"`
}

// DefaultFieldOptions returns the full-field layout.
func DefaultFieldOptions() FieldOptions {
	return FieldOptions{MinYardline: -13, MaxYardline: 113, SidelineBuffer: 3}
}

// Field builds the NFL field backdrop.
func Field(opts FieldOptions) draw.Backdrop {
	if opts.MinYardline == 0 && opts.MaxYardline == 0 {
		d := DefaultFieldOptions()
		opts.MinYardline, opts.MaxYardline = d.MinYardline, d.MaxYardline
	}

	var instr []draw.Instruction
	white := draw.Attrs{"fill_color": "white", "line_width": 0.0}

	lo, hi := opts.MinYardline, opts.MaxYardline
	if !opts.Relative {
		lo, hi = math.Max(lo, 0), math.Min(hi, 100)
	}
	for _, yd := range yardlines(lo, hi, 5) {
		instr = append(instr, stripe(float64(yd), 0.3, white))
	}

	if !opts.Relative {
		for _, yd := range []float64{-10, 110} {
			if yd > opts.MinYardline && yd < opts.MaxYardline {
				instr = append(instr, stripe(yd, 0.6, white))
			}
		}
	}

	if opts.SidelineBuffer > 0 {
		start := math.Max(-10.2, opts.MinYardline)
		end := math.Min(110.2, opts.MaxYardline)
		for _, y := range []float64{0, FieldWidth} {
			instr = append(instr, draw.Instruction{
				Shape: draw.ShapeRect, X: start, Y: y - 0.3, Width: end - start, Height: 0.6, Attrs: white,
			})
		}
	}

	lo, hi = opts.MinYardline, opts.MaxYardline
	if !opts.Relative {
		lo, hi = math.Max(lo, 10), math.Min(hi, 90)
	}
	text := draw.Attrs{"text_color": "white", "text_align": "center", "text_baseline": "middle", "font_size": 3.0}
	for _, yd := range yardlines(lo, hi, 10) {
		label := strconv.Itoa(yd)
		if !opts.Relative {
			label = strconv.Itoa(50 - abs(50-yd))
		}
		instr = append(instr,
			draw.Instruction{Shape: draw.ShapeText, X: float64(yd), Y: 3, Text: label, Attrs: text},
			draw.Instruction{Shape: draw.ShapeText, X: float64(yd), Y: 50, Text: label, Angle: math.Pi, Attrs: text},
		)
	}

	return draw.Backdrop{
		XRange:       draw.NewRange(opts.MinYardline, opts.MaxYardline),
		YRange:       draw.NewRange(-opts.SidelineBuffer, FieldWidth+opts.SidelineBuffer),
		Background:   FieldColor,
		Instructions: instr,
	}
}

// stripe is a full-width line across the field at yard x.
func stripe(x, width float64, attrs draw.Attrs) draw.Instruction {
	return draw.Instruction{
		Shape: draw.ShapeRect, X: x - width/2, Y: 0, Width: width, Height: FieldWidth, Attrs: attrs,
	}
}

// yardlines returns the whole yards in [lo, hi] divisible by mod.
func yardlines(lo, hi float64, mod int) []int {
	var out []int
	for yd := int(math.Ceil(lo)); yd <= int(math.Floor(hi)); yd++ {
		if yd%mod == 0 {
			out = append(out, yd)
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
