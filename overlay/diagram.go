package overlay

import "github.com/gogpu/beautify"

// Diagram palette.
var (
	SegmentColor = beautify.Hex("#333333")
	UnknownColor = beautify.LightGray
	PinnedColor  = beautify.Red
	FreeColor    = beautify.Blue
)

// segmentWidth is the stroke width of diagram segments in pixels.
const segmentWidth = 1.0

// pointCrossSize is the cross size marking control points in pixels.
const pointCrossSize = 4.0

// DrawDiagram records the segments of d under any constraint overlay:
// lines as their chord, curves and arcs as their sampled spline, and
// unclassified strokes as their raw control polyline. Every point is
// marked with a cross, red when pinned and blue when free.
func DrawDiagram(r *Recorder, d *beautify.Diagram) {
	for _, s := range d.Segments() {
		switch s.Kind() {
		case beautify.KindLine:
			l := s.Line()
			r.Line(l.P0, l.P1, SegmentColor, segmentWidth)
		case beautify.KindCurve, beautify.KindEllipticalArc:
			r.Polyline(s.Spline().Points(), SegmentColor, segmentWidth)
		default:
			r.Polyline(s.Polyline(), UnknownColor, segmentWidth)
		}
	}

	for i := range d.NumPoints() {
		id := beautify.PointID(i)
		c := FreeColor
		if d.Pinned(id) {
			c = PinnedColor
		}
		r.Cross(d.Pos(id), pointCrossSize, c)
	}
}
