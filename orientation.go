package beautify

import "math"

// span is one straight operand of a constraint: two point handles and,
// when the span came from a Segment, that segment for kind checks.
type span struct {
	p1, p2 PointID
	seg    *Segment
}

func (s span) line(p Positions) Line {
	return NewLine(p.Pos(s.p1), p.Pos(s.p2))
}

// usable reports whether directional geometry is defined for the span.
// Failures are logged; the caller contributes no correction.
func (s span) usable(p Positions, kind string) bool {
	if s.seg != nil && s.seg.Kind() == KindUnknown {
		Logger().Warn("constraint: operand segment has unknown kind",
			"constraint", kind, "segment", s.seg.ID())
		return false
	}
	if s.line(p).Length() < degenerateLength {
		Logger().Warn("constraint: degenerate span",
			"constraint", kind, "p1", s.p1, "p2", s.p2)
		return false
	}
	return true
}

// OrientationConstraint holds the signed angle from span A (a1→a2) to
// span B (b1→b2) at a target value in radians.
//
// The target is a magnitude: the constraint is satisfied when the
// absolute signed angle equals |target|, on either side of A.
type OrientationConstraint struct {
	a, b   span
	target float64
}

var _ Constraint = (*OrientationConstraint)(nil)

// NewOrientationConstraint constrains the angle between the independent
// spans a1→a2 and b1→b2 to radians.
func NewOrientationConstraint(a1, a2, b1, b2 PointID, radians float64) *OrientationConstraint {
	return &OrientationConstraint{
		a:      span{p1: a1, p2: a2},
		b:      span{p1: b1, p2: b2},
		target: radians,
	}
}

// NewSegmentOrientation constrains the angle between the chords of two
// segments. Segments of Unknown kind make the constraint contribute no
// correction until they are classified.
func NewSegmentOrientation(a, b *Segment, radians float64) *OrientationConstraint {
	return &OrientationConstraint{
		a:      span{p1: a.P1(), p2: a.P2(), seg: a},
		b:      span{p1: b.P1(), p2: b.P2(), seg: b},
		target: radians,
	}
}

// Kind returns "Orientation".
func (c *OrientationConstraint) Kind() string { return "Orientation" }

// Target returns the target angle in radians.
func (c *OrientationConstraint) Target() float64 { return c.target }

// Operands returns a1, a2, b1, b2.
func (c *OrientationConstraint) Operands() []PointID {
	return []PointID{c.a.p1, c.a.p2, c.b.p1, c.b.p2}
}

// Angle returns the current signed angle from span A to span B in radians.
func (c *OrientationConstraint) Angle(p Positions) float64 {
	return c.a.line(p).Vector().SignedAngle(c.b.line(p).Vector())
}

// SignedError returns sgn(angle) * (|angle| - |target|), where sgn(0) = +1.
func (c *OrientationConstraint) SignedError(p Positions) float64 {
	cur := c.Angle(p)
	return sign(cur) * (math.Abs(cur) - math.Abs(c.target))
}

// AccumulateCorrection rotates span A by +error and span B by -error,
// each through rotateSpan.
func (c *OrientationConstraint) AccumulateCorrection(p Positions, out CorrectionSink) {
	e := c.SignedError(p)
	out.Note("Error is " + num(e) + " (" + num(degrees(e)) + " deg) Orientation: " +
		num(c.target) + " (" + num(degrees(c.target)) + ")")

	if math.Abs(e) <= CorrectionThreshold {
		return
	}
	if !isFinite(e) {
		Logger().Warn("constraint: non-finite orientation error", "constraint", c.Kind())
		return
	}
	if !c.a.usable(p, c.Kind()) || !c.b.usable(p, c.Kind()) {
		return
	}
	rotateSpan(p, c.a.p1, c.a.p2, e, out)
	rotateSpan(p, c.b.p1, c.b.p2, -e, out)
}

// Describe marks both span midpoints with light gray crosses and strokes
// span A in cyan and span B in a darker cyan. Sinks that implement
// Labeler also receive the current angle in degrees.
func (c *OrientationConstraint) Describe(p Positions, sink Sink) {
	la, lb := c.a.line(p), c.b.line(p)
	sink.Cross(la.Midpoint(), CrossSize, LightGray)
	sink.Cross(lb.Midpoint(), CrossSize, LightGray)
	sink.Line(la.P0, la.P1, Cyan, StrokeWidth)
	sink.Line(lb.P0, lb.P1, Cyan.Darker(), StrokeWidth)

	if l, ok := sink.(Labeler); ok {
		at := la.Midpoint().Midpoint(lb.Midpoint())
		l.Label(at, label(degrees(c.Angle(p)))+" deg", Black)
	}
}
