package beautify

// coincidentTolerance is the distance under which consecutive control
// points are treated as the same point during a spline fit.
const coincidentTolerance = 1e-9

// Spline is a natural (curvature-continuous) cubic spline through an
// ordered sequence of points, stored as one CubicBez piece per interval.
// A Spline is immutable once fitted.
type Spline struct {
	pieces []CubicBez
	steps  int
	single Point // the only point when the fit degenerated to one point
}

// FitNaturalSpline fits a natural cubic spline through pts, sampling each
// interval with the given number of steps (at least 1).
//
// Consecutive coincident points are collapsed before fitting and reported
// with a warning. If fewer than two distinct points remain the spline
// degenerates to a single point with zero length.
func FitNaturalSpline(pts []Point, steps int) *Spline {
	if steps < 1 {
		steps = 1
	}
	sp := &Spline{steps: steps}

	distinct := make([]Point, 0, len(pts))
	for _, p := range pts {
		if !p.IsFinite() {
			Logger().Warn("spline: skipping non-finite control point", "x", p.X, "y", p.Y)
			continue
		}
		if n := len(distinct); n > 0 && distinct[n-1].Distance(p) < coincidentTolerance {
			continue
		}
		distinct = append(distinct, p)
	}
	if dropped := len(pts) - len(distinct); dropped > 0 {
		Logger().Warn("spline: collapsed coincident control points", "dropped", dropped)
	}

	switch len(distinct) {
	case 0:
		return sp
	case 1:
		sp.single = distinct[0]
		return sp
	}

	xs := make([]float64, len(distinct))
	ys := make([]float64, len(distinct))
	for i, p := range distinct {
		xs[i], ys[i] = p.X, p.Y
	}
	mx := naturalSecondDerivatives(xs)
	my := naturalSecondDerivatives(ys)

	// Uniform parameter spacing h = 1. The Hermite end slopes of interval
	// i are converted to Bezier control points at one third of the slope.
	sp.pieces = make([]CubicBez, len(distinct)-1)
	for i := range sp.pieces {
		dx := xs[i+1] - xs[i]
		dy := ys[i+1] - ys[i]
		s0 := Vec2{
			X: dx - (2*mx[i]+mx[i+1])/6,
			Y: dy - (2*my[i]+my[i+1])/6,
		}
		s1 := Vec2{
			X: dx + (mx[i]+2*mx[i+1])/6,
			Y: dy + (my[i]+2*my[i+1])/6,
		}
		sp.pieces[i] = CubicBez{
			P0: distinct[i],
			P1: distinct[i].Add(s0.Div(3)),
			P2: distinct[i+1].Add(s1.Div(-3)),
			P3: distinct[i+1],
		}
	}
	return sp
}

// naturalSecondDerivatives solves the tridiagonal system of a natural
// cubic spline with unit knot spacing:
//
//	M[i-1] + 4 M[i] + M[i+1] = 6 (y[i+1] - 2 y[i] + y[i-1]),  M[0] = M[n-1] = 0
//
// using the Thomas algorithm.
func naturalSecondDerivatives(y []float64) []float64 {
	n := len(y)
	m := make([]float64, n)
	if n < 3 {
		return m
	}

	inner := n - 2
	c := make([]float64, inner) // modified super-diagonal
	d := make([]float64, inner) // modified right-hand side
	for i := 0; i < inner; i++ {
		rhs := 6 * (y[i+2] - 2*y[i+1] + y[i])
		if i == 0 {
			c[i] = 1.0 / 4
			d[i] = rhs / 4
			continue
		}
		denom := 4 - c[i-1]
		c[i] = 1 / denom
		d[i] = (rhs - d[i-1]) / denom
	}
	m[inner] = d[inner-1]
	for i := inner - 2; i >= 0; i-- {
		m[i+1] = d[i] - c[i]*m[i+2]
	}
	return m
}

// Pieces returns the cubic pieces, one per interval between distinct
// control points. The returned slice must not be modified.
func (s *Spline) Pieces() []CubicBez {
	return s.pieces
}

// Steps returns the number of samples taken per piece.
func (s *Spline) Steps() int {
	return s.steps
}

// Start returns the first point of the spline.
func (s *Spline) Start() Point {
	if len(s.pieces) == 0 {
		return s.single
	}
	return s.pieces[0].Start()
}

// End returns the last point of the spline.
func (s *Spline) End() Point {
	if len(s.pieces) == 0 {
		return s.single
	}
	return s.pieces[len(s.pieces)-1].End()
}

// Eval evaluates the spline at t in [0, 1] across all pieces.
func (s *Spline) Eval(t float64) Point {
	n := len(s.pieces)
	if n == 0 {
		return s.single
	}
	if t <= 0 {
		return s.Start()
	}
	if t >= 1 {
		return s.End()
	}
	u := t * float64(n)
	i := int(u)
	if i >= n {
		i = n - 1
	}
	return s.pieces[i].Eval(u - float64(i))
}

// Points returns the sampled polyline: every piece evaluated at Steps
// evenly spaced parameters, sharing endpoints between pieces.
func (s *Spline) Points() []Point {
	if len(s.pieces) == 0 {
		return []Point{s.single}
	}
	out := make([]Point, 0, len(s.pieces)*s.steps+1)
	out = append(out, s.pieces[0].Start())
	for _, c := range s.pieces {
		for k := 1; k <= s.steps; k++ {
			out = append(out, c.Eval(float64(k)/float64(s.steps)))
		}
	}
	return out
}

// Length returns the arc length of the sampled polyline.
func (s *Spline) Length() float64 {
	pts := s.Points()
	var total float64
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].Distance(pts[i])
	}
	return total
}

// BoundingBox returns a rectangle containing the whole spline.
func (s *Spline) BoundingBox() Rect {
	if len(s.pieces) == 0 {
		return Rect{Min: s.single, Max: s.single}
	}
	r := s.pieces[0].BoundingBox()
	for _, c := range s.pieces[1:] {
		r = r.Union(c.BoundingBox())
	}
	return r
}
