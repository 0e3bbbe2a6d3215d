package beautify

import (
	"fmt"
	"math"
)

// SegmentKind classifies the geometric primitive a stroke was recognized as.
type SegmentKind int

const (
	// KindUnknown means the stroke has not been classified. Directional
	// queries on it are undefined.
	KindUnknown SegmentKind = iota

	// KindLine is a straight span between the first and last control point.
	KindLine

	// KindCurve is a free-form curve approximated by a natural spline.
	KindCurve

	// KindEllipticalArc is an arc approximated by a natural spline.
	KindEllipticalArc
)

var segmentKindNames = [...]string{
	KindUnknown:       "Unknown",
	KindLine:          "Line",
	KindCurve:         "Curve",
	KindEllipticalArc: "EllipticalArc",
}

// String returns the name of the kind.
func (k SegmentKind) String() string {
	if k >= 0 && int(k) < len(segmentKindNames) {
		return segmentKindNames[k]
	}
	return "Unknown"
}

// ParseSegmentKind maps a kind name (case-sensitive, as returned by String,
// or its lowercase form) to a SegmentKind.
func ParseSegmentKind(s string) (SegmentKind, bool) {
	switch s {
	case "Line", "line":
		return KindLine, true
	case "Curve", "curve":
		return KindCurve, true
	case "EllipticalArc", "ellipticalarc", "elliptical_arc", "arc":
		return KindEllipticalArc, true
	case "Unknown", "unknown":
		return KindUnknown, true
	}
	return KindUnknown, false
}

// curveSectionLength is the control-polyline length that earns one spline
// section; maxCurveSections caps the count.
const (
	curveSectionLength = 100.0
	maxCurveSections   = 10
)

// Segment is a typed geometric primitive built from an ordered, non-empty
// sequence of control points in a Diagram.
//
// A Segment caches its straight Line and its fitted Spline. The cache is
// not updated automatically when control points are moved through
// Diagram.SetPos: callers that mutate positions must call Invalidate before
// the next geometric query. Reading a stale cache after an unreported
// mutation is a contract violation the segment cannot detect. Moves made
// by the Solver invalidate affected segments themselves.
type Segment struct {
	id       SegmentID
	d        *Diagram
	kind     SegmentKind
	points   []PointID
	attached [2]bool

	line   *Line
	spline *Spline
}

// ID returns the segment's diagram-unique identifier.
func (s *Segment) ID() SegmentID {
	return s.id
}

// Kind returns the classification of the segment.
func (s *Segment) Kind() SegmentKind {
	return s.kind
}

// SetKind reclassifies the segment and drops cached geometry.
func (s *Segment) SetKind(k SegmentKind) {
	s.kind = k
	s.Invalidate()
}

// Points returns the control point handles in order.
// The returned slice must not be modified.
func (s *Segment) Points() []PointID {
	return s.points
}

// P1 returns the handle of the first control point.
func (s *Segment) P1() PointID {
	return s.points[0]
}

// P2 returns the handle of the last control point.
func (s *Segment) P2() PointID {
	return s.points[len(s.points)-1]
}

// Attached reports whether the first (end 0) or last (end 1) endpoint is
// joined to another segment.
func (s *Segment) Attached(end int) bool {
	return s.attached[end]
}

// SetAttached marks an endpoint as joined or free.
func (s *Segment) SetAttached(end int, attached bool) {
	s.attached[end] = attached
}

// Polyline returns the current positions of all control points.
func (s *Segment) Polyline() []Point {
	out := make([]Point, len(s.points))
	for i, id := range s.points {
		out[i] = s.d.Pos(id)
	}
	return out
}

// Invalidate drops cached geometry. Call it after mutating any control
// point of the segment from outside the solver.
func (s *Segment) Invalidate() {
	s.line = nil
	s.spline = nil
}

// Line returns the straight line from the first to the last control point.
// The result is cached until Invalidate.
func (s *Segment) Line() *Line {
	if s.line == nil {
		l := NewLine(s.d.Pos(s.P1()), s.d.Pos(s.P2()))
		s.line = &l
	}
	return s.line
}

// Length returns the endpoint distance for a Line and the arc length of
// the fitted spline for a Curve. Other kinds have length 0.
func (s *Segment) Length() float64 {
	switch s.kind {
	case KindLine:
		return s.d.Pos(s.P1()).Distance(s.d.Pos(s.P2()))
	case KindCurve:
		return s.Spline().Length()
	}
	return 0
}

// ControlPolylineLength returns the summed distance between consecutive
// control points. It only sizes the spline fit and is not a geometric length.
func (s *Segment) ControlPolylineLength() float64 {
	var total float64
	for i := 0; i+1 < len(s.points); i++ {
		total += s.d.Pos(s.points[i]).Distance(s.d.Pos(s.points[i+1]))
	}
	return total
}

// curveSections returns the number of spline sections for a control
// polyline of the given length: ceil(min(length/100, 10)), at least 1.
func curveSections(length float64) int {
	n := int(math.Ceil(math.Min(length/curveSectionLength, maxCurveSections)))
	if n < 1 {
		n = 1
	}
	return n
}

// Spline returns the natural spline fitted through all control points.
// The result is cached; two calls without an Invalidate in between return
// the same *Spline.
func (s *Segment) Spline() *Spline {
	if s.spline == nil {
		steps := curveSections(s.ControlPolylineLength())
		s.spline = FitNaturalSpline(s.Polyline(), steps)
	}
	return s.spline
}

// String returns a short description such as "Segment 3 (Line, 2 points)".
func (s *Segment) String() string {
	return fmt.Sprintf("Segment %d (%s, %d points)", s.id, s.kind, len(s.points))
}

// Terminals returns the directional endpoint views of the segment, first
// end then last end.
//
// For a Line the direction at each end points away from the opposite end.
// For a Curve or EllipticalArc it points away from the adjacent interior
// control point, approximating the local tangent. Terminals of an Unknown
// segment are undefined: a warning is logged and the terminal omitted.
// An end whose direction would be the zero vector is likewise omitted.
func (s *Segment) Terminals() []Terminal {
	out := make([]Terminal, 0, 2)
	for end := 0; end < 2; end++ {
		if t, ok := s.terminal(end); ok {
			out = append(out, t)
		}
	}
	return out
}

// terminal builds the view for one end (0 = first, 1 = last).
func (s *Segment) terminal(end int) (Terminal, bool) {
	n := len(s.points)
	at, opposite := s.P1(), s.P2()
	if end == 1 {
		at, opposite = opposite, at
	}

	var from PointID
	switch s.kind {
	case KindLine:
		from = opposite
	case KindCurve, KindEllipticalArc:
		if n < 2 {
			Logger().Warn("segment: curve needs two control points for a terminal",
				"segment", s.id, "end", end)
			return Terminal{}, false
		}
		from = s.points[1]
		if end == 1 {
			from = s.points[n-2]
		}
	default:
		Logger().Warn("segment: unknown segment kind in terminals",
			"segment", s.id, "kind", s.kind.String(), "end", end)
		return Terminal{}, false
	}

	pos := s.d.Pos(at)
	dir := s.d.Pos(from).To(pos).Unit()
	if dir.IsZero() {
		Logger().Warn("segment: degenerate terminal direction",
			"segment", s.id, "end", end)
		return Terminal{}, false
	}

	return Terminal{
		Segment:    s.id,
		PointID:    at,
		OppositeID: opposite,
		Pos:        pos,
		Dir:        dir,
		Fixed:      !s.attached[end],
		opposite:   s.d.Pos(opposite),
	}, true
}
