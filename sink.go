package beautify

// Debug overlay palette and sizes used by constraint descriptions.
const (
	// CrossSize is the arm length of the marker drawn at span midpoints.
	CrossSize = 6.0

	// StrokeWidth is the width of the stroke drawn along operand spans.
	StrokeWidth = 2.0
)

// Sink receives debug-visualization primitives. It is display-only:
// nothing drawn into a Sink ever feeds back into the solver.
type Sink interface {
	// Line draws a straight stroke from a to b.
	Line(a, b Point, c RGBA, width float64)

	// Cross draws a small x-shaped marker centered at p.
	Cross(p Point, size float64, c RGBA)
}

// Labeler is an optional Sink extension for short text annotations.
type Labeler interface {
	Label(at Point, text string, c RGBA)
}
