package beautify

import "math"

// DistanceConstraint holds the distance between two points at a target
// length.
type DistanceConstraint struct {
	s      span
	target float64
}

var _ Constraint = (*DistanceConstraint)(nil)

// NewDistanceConstraint constrains |p1 p2| to length.
func NewDistanceConstraint(p1, p2 PointID, length float64) *DistanceConstraint {
	return &DistanceConstraint{s: span{p1: p1, p2: p2}, target: length}
}

// NewSegmentLength constrains the chord of seg to length.
func NewSegmentLength(seg *Segment, length float64) *DistanceConstraint {
	return &DistanceConstraint{s: span{p1: seg.P1(), p2: seg.P2(), seg: seg}, target: length}
}

// Kind returns "Distance".
func (c *DistanceConstraint) Kind() string { return "Distance" }

// Target returns the target length.
func (c *DistanceConstraint) Target() float64 { return c.target }

// Operands returns p1, p2.
func (c *DistanceConstraint) Operands() []PointID {
	return []PointID{c.s.p1, c.s.p2}
}

// SignedError returns the current length minus the target. Positive means
// the points are too far apart.
func (c *DistanceConstraint) SignedError(p Positions) float64 {
	return c.s.line(p).Length() - c.target
}

// AccumulateCorrection moves the ends along the span: both free ends
// each take half the error, a single free end takes all of it.
func (c *DistanceConstraint) AccumulateCorrection(p Positions, out CorrectionSink) {
	e := c.SignedError(p)
	out.Note("Error is " + num(e) + " Distance: " + num(c.target))

	if math.Abs(e) <= CorrectionThreshold {
		return
	}
	if !c.s.usable(p, c.Kind()) {
		return
	}

	u := c.s.line(p).Vector().Unit()
	pin1, pin2 := p.Pinned(c.s.p1), p.Pinned(c.s.p2)
	switch {
	case !pin1 && !pin2:
		out.Propose(c.s.p1, u.Mul(e/2))
		out.Propose(c.s.p2, u.Mul(-e/2))
	case !pin1:
		out.Propose(c.s.p1, u.Mul(e))
	case !pin2:
		out.Propose(c.s.p2, u.Mul(-e))
	}
}

// Describe marks the span midpoint and strokes the span in orange.
func (c *DistanceConstraint) Describe(p Positions, sink Sink) {
	l := c.s.line(p)
	sink.Cross(l.Midpoint(), CrossSize, LightGray)
	sink.Line(l.P0, l.P1, Orange, StrokeWidth)

	if lb, ok := sink.(Labeler); ok {
		lb.Label(l.Midpoint(), label(l.Length()), Black)
	}
}
