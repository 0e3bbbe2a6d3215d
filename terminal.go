package beautify

import "fmt"

// terminalTolerance is the coordinate tolerance used by Terminal.Same.
const terminalTolerance = 1e-6

// Terminal is a read-only view of one endpoint of a Segment, used to
// reason about connectivity between segments. It is a value captured when
// Segment.Terminals was called and does not follow later point moves.
type Terminal struct {
	// Segment identifies the owning segment in its Diagram.
	Segment SegmentID

	// PointID is the endpoint handle; OppositeID is the handle at the
	// other end of the same segment.
	PointID    PointID
	OppositeID PointID

	// Pos is the endpoint position.
	Pos Point

	// Dir is the outward-pointing unit tangent at the endpoint.
	Dir Vec2

	// Fixed is true when the end is not yet attached to another segment.
	Fixed bool

	opposite Point
}

// Opposite returns the position at the other end of the owning segment.
func (t Terminal) Opposite() Point {
	return t.opposite
}

// Ray returns a line from the endpoint one unit along Dir.
func (t Terminal) Ray() Line {
	return NewLine(t.Pos, t.Pos.Add(t.Dir))
}

// Same reports whether t and other sit at the same location and point the
// same way.
func (t Terminal) Same(other Terminal) bool {
	return t.Pos.Approx(other.Pos, terminalTolerance) && t.Dir.Approx(other.Dir, terminalTolerance)
}

// String returns a description such as
// "Segment 2, (10.000, 0.000)/(1.000, 0.000) (free)".
func (t Terminal) String() string {
	state := "free"
	if t.Fixed {
		state = "fixed"
	}
	return fmt.Sprintf("Segment %d, (%.3f, %.3f)/(%.3f, %.3f) (%s)",
		t.Segment, t.Pos.X, t.Pos.Y, t.Dir.X, t.Dir.Y, state)
}
