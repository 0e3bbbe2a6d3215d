package beautify

import (
	"math"
	"strings"
	"testing"
)

func TestFitNaturalSpline_Interpolates(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(30, 40), Pt(70, 10), Pt(120, 60), Pt(150, 20)}
	sp := FitNaturalSpline(pts, 3)

	pieces := sp.Pieces()
	if len(pieces) != len(pts)-1 {
		t.Fatalf("len(Pieces()) = %d, want %d", len(pieces), len(pts)-1)
	}
	for i, c := range pieces {
		if !c.Start().Approx(pts[i], 1e-12) || !c.End().Approx(pts[i+1], 1e-12) {
			t.Errorf("piece %d spans %v..%v, want %v..%v", i, c.Start(), c.End(), pts[i], pts[i+1])
		}
	}
}

func TestFitNaturalSpline_TangentContinuity(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(30, 40), Pt(70, 10), Pt(120, 60)}
	pieces := FitNaturalSpline(pts, 1).Pieces()
	for i := 0; i+1 < len(pieces); i++ {
		out := pieces[i].Tangent(1)
		in := pieces[i+1].Tangent(0)
		if !out.Approx(in, 1e-9) {
			t.Errorf("tangent jump at knot %d: %v vs %v", i+1, out, in)
		}
	}
}

// secondDerivative of a cubic Bezier at t=0 or t=1.
func secondDerivative(c CubicBez, atEnd bool) Vec2 {
	if atEnd {
		return c.P3.Sub(c.P2).Sub(c.P2.Sub(c.P1)).Mul(6)
	}
	return c.P2.Sub(c.P1).Sub(c.P1.Sub(c.P0)).Mul(6)
}

func TestFitNaturalSpline_NaturalEnds(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(1, 1), Pt(2, 0), Pt(4, 3)}
	pieces := FitNaturalSpline(pts, 1).Pieces()

	if got := secondDerivative(pieces[0], false); !got.Approx(V2(0, 0), 1e-9) {
		t.Errorf("second derivative at start = %v, want zero", got)
	}
	if got := secondDerivative(pieces[len(pieces)-1], true); !got.Approx(V2(0, 0), 1e-9) {
		t.Errorf("second derivative at end = %v, want zero", got)
	}
	for i := 0; i+1 < len(pieces); i++ {
		out := secondDerivative(pieces[i], true)
		in := secondDerivative(pieces[i+1], false)
		if !out.Approx(in, 1e-9) {
			t.Errorf("curvature jump at knot %d: %v vs %v", i+1, out, in)
		}
	}
}

func TestFitNaturalSpline_ThreePointControlPoints(t *testing.T) {
	pieces := FitNaturalSpline([]Point{Pt(0, 0), Pt(1, 1), Pt(2, 0)}, 1).Pieces()
	want := NewCubicBez(Pt(0, 0), Pt(1.0/3, 0.5), Pt(2.0/3, 1), Pt(1, 1))
	got := pieces[0]
	for i, pair := range [][2]Point{{got.P0, want.P0}, {got.P1, want.P1}, {got.P2, want.P2}, {got.P3, want.P3}} {
		if !pair[0].Approx(pair[1], 1e-12) {
			t.Errorf("P%d = %v, want %v", i, pair[0], pair[1])
		}
	}
}

func TestFitNaturalSpline_TwoPointsIsStraight(t *testing.T) {
	sp := FitNaturalSpline([]Point{Pt(0, 0), Pt(9, 12)}, 4)
	if got := sp.Length(); !almostEqual(got, 15, 1e-9) {
		t.Errorf("Length() = %v, want 15", got)
	}
	if got := sp.Eval(0.5); !got.Approx(Pt(4.5, 6), 1e-9) {
		t.Errorf("Eval(0.5) = %v, want (4.5, 6)", got)
	}
}

func TestFitNaturalSpline_CollapsesCoincident(t *testing.T) {
	logs := captureLogs(t)
	pts := []Point{Pt(0, 0), Pt(0, 0), Pt(10, 0), Pt(10, 0), Pt(20, 5)}
	sp := FitNaturalSpline(pts, 1)

	if got := len(sp.Pieces()); got != 2 {
		t.Errorf("len(Pieces()) = %d, want 2", got)
	}
	if !strings.Contains(logs.String(), "collapsed coincident") {
		t.Errorf("expected a collapse warning, got %q", logs.String())
	}
	for _, p := range sp.Points() {
		if !p.IsFinite() {
			t.Fatalf("non-finite sample %v", p)
		}
	}
}

func TestFitNaturalSpline_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want Point
	}{
		{"empty", nil, Point{}},
		{"single", []Point{Pt(3, 4)}, Pt(3, 4)},
		{"all coincident", []Point{Pt(3, 4), Pt(3, 4), Pt(3, 4)}, Pt(3, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := FitNaturalSpline(tt.pts, 2)
			if len(sp.Pieces()) != 0 {
				t.Errorf("len(Pieces()) = %d, want 0", len(sp.Pieces()))
			}
			if sp.Length() != 0 {
				t.Errorf("Length() = %v, want 0", sp.Length())
			}
			if sp.Start() != tt.want || sp.End() != tt.want || sp.Eval(0.3) != tt.want {
				t.Errorf("degenerate spline not at %v", tt.want)
			}
		})
	}
}

func TestFitNaturalSpline_SkipsNonFinite(t *testing.T) {
	logs := captureLogs(t)
	sp := FitNaturalSpline([]Point{Pt(0, 0), Pt(math.NaN(), 1), Pt(10, 0)}, 1)
	if got := len(sp.Pieces()); got != 1 {
		t.Errorf("len(Pieces()) = %d, want 1", got)
	}
	if !strings.Contains(logs.String(), "non-finite") {
		t.Errorf("expected a non-finite warning, got %q", logs.String())
	}
}

func TestSpline_PointsCount(t *testing.T) {
	tests := []struct {
		n, steps int
	}{
		{2, 1},
		{3, 2},
		{5, 4},
		{4, 10},
	}
	for _, tt := range tests {
		pts := make([]Point, tt.n)
		for i := range pts {
			pts[i] = Pt(float64(i)*10, float64(i%2)*5)
		}
		sp := FitNaturalSpline(pts, tt.steps)
		want := (tt.n-1)*tt.steps + 1
		if got := len(sp.Points()); got != want {
			t.Errorf("n=%d steps=%d: len(Points()) = %d, want %d", tt.n, tt.steps, got, want)
		}
	}
}

func TestSpline_StepsClamp(t *testing.T) {
	if got := FitNaturalSpline([]Point{Pt(0, 0), Pt(1, 0)}, 0).Steps(); got != 1 {
		t.Errorf("Steps() = %d, want 1", got)
	}
}

func TestSpline_EvalEnds(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(5, 8), Pt(12, 3)}
	sp := FitNaturalSpline(pts, 2)
	if got := sp.Eval(0); got != pts[0] {
		t.Errorf("Eval(0) = %v, want %v", got, pts[0])
	}
	if got := sp.Eval(1); !got.Approx(pts[2], 1e-12) {
		t.Errorf("Eval(1) = %v, want %v", got, pts[2])
	}
	if got := sp.Eval(0.5); !got.Approx(pts[1], 1e-12) {
		t.Errorf("Eval(0.5) = %v, want the middle knot %v", got, pts[1])
	}
}

func TestSpline_BoundingBox(t *testing.T) {
	sp := FitNaturalSpline([]Point{Pt(0, 0), Pt(5, 8), Pt(12, 3)}, 3)
	bb := sp.BoundingBox()
	for _, p := range sp.Points() {
		if !bb.Contains(p) {
			t.Errorf("sample %v outside %v", p, bb)
		}
	}
}
