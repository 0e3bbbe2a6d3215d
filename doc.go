// Package beautify cleans up hand-drawn 2D diagrams by geometric constraint
// relaxation.
//
// # Overview
//
// Points extracted from strokes live in a [Diagram]. Some are pinned; the
// rest may be nudged. A recognizer builds typed [Segment] values over the
// points (line, curve, elliptical arc) and decides which relationships
// should hold between them, expressed as [Constraint] values such as
// [OrientationConstraint]. A [Solver] then relaxes the free points until
// every constraint holds within tolerance.
//
// # Quick Start
//
//	d := beautify.NewDiagram()
//	a1, a2 := d.AddPoint(0, 0), d.AddPoint(100, 0)
//	b1, b2 := d.AddPoint(0, 50), d.AddPoint(100, 55)
//
//	right := beautify.NewOrientationConstraint(a1, a2, b1, b2, math.Pi/2)
//	s, err := beautify.NewSolver(d, []beautify.Constraint{right})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	res, err := s.Solve(ctx)
//
// # Passes
//
// One pass evaluates every constraint against a frozen snapshot of all
// points, collects the proposed displacements per point, and applies the
// reduced displacement ([Mean] by default) to each non-pinned point after
// the whole sweep. The gather phase can run on several goroutines
// ([WithWorkers]); the result is the same as gathering sequentially.
//
// # Segments and caching
//
// A Segment caches its fitted line and natural spline. The engine does not
// track external mutation: after moving control points with
// [Diagram.SetPos], call [Segment.Invalidate]. Moves made by the solver
// invalidate affected segments automatically.
//
// # Visualization
//
// Constraints can draw themselves into a [Sink] for debugging. The overlay
// sub-package provides a recording Sink and a raster backend.
//
// # Coordinate System
//
// Angles are in radians and grow counter-clockwise in a y-up frame. In a
// y-down screen frame the same numbers read clockwise; nothing in the
// solver depends on the handedness.
package beautify
