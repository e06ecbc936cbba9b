package draw

// Shape is the kind of a backdrop drawing instruction.
type Shape string

const (
	ShapeRect Shape = "rect"
	ShapeLine Shape = "line"
	ShapePath Shape = "path"
	ShapeText Shape = "text"
)

// Instruction is one primitive drawn behind the glyphs, in data
// coordinates. Which fields are used depends on Shape:
//
//   - rect: X, Y is the lower-left corner; Width, Height the size
//   - line: X, Y to X2, Y2
//   - path: D is SVG path data in data coordinates
//   - text: Text anchored at X, Y and rotated by Angle radians
type Instruction struct {
	Shape  Shape   `json:"shape"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	X2     float64 `json:"x2,omitempty"`
	Y2     float64 `json:"y2,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	D      string  `json:"d,omitempty"`
	Text   string  `json:"text,omitempty"`
	Angle  float64 `json:"angle,omitempty"`
	Attrs  Attrs   `json:"attrs,omitempty"`
}

// Backdrop is a static playing surface: its extent, background color and
// drawing instructions.
type Backdrop struct {
	XRange       Range
	YRange       Range
	Background   string
	Instructions []Instruction
}

// NewBackdrop builds a backdrop for a surface of the given length and
// width. The visible range extends by the paddings on each side.
func NewBackdrop(length, width, lengthPad, widthPad float64, background string, instr []Instruction) Backdrop {
	return Backdrop{
		XRange:       NewRange(-lengthPad, length+lengthPad),
		YRange:       NewRange(-widthPad, width+widthPad),
		Background:   background,
		Instructions: instr,
	}
}

// Aspect returns the x:y ratio of the backdrop extent.
func (b Backdrop) Aspect() float64 {
	if b.YRange.Span() == 0 {
		return 1
	}
	return b.XRange.Span() / b.YRange.Span()
}
