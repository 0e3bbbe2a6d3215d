package beautify

// CorrectionThreshold is the smallest absolute error, in the constraint's
// own unit, for which a constraint proposes a correction.
const CorrectionThreshold = 1e-4

// degenerateLength is the span length below which directional geometry
// is treated as undefined.
const degenerateLength = 1e-9

// Constraint is a geometric relationship between points that the solver
// tries to satisfy. Implementations hold point handles and a target value;
// they persist across passes and must not mutate point positions.
//
// Every method reads positions only through the supplied Positions view,
// so one constraint may be evaluated concurrently with any other during
// the gather phase of a pass.
type Constraint interface {
	// Kind returns a stable label identifying the constraint kind.
	Kind() string

	// Operands returns every point the constraint reads.
	Operands() []PointID

	// SignedError returns the current error in the constraint's natural
	// unit. Zero means fully satisfied; the sign gives the correction
	// direction.
	SignedError(p Positions) float64

	// AccumulateCorrection proposes displacements for the operand points
	// and records one diagnostic note describing the current error.
	// Pinned points never receive proposals.
	AccumulateCorrection(p Positions, out CorrectionSink)

	// Describe draws debug primitives for the constraint into sink.
	Describe(p Positions, sink Sink)
}

// CorrectionSink receives the output of Constraint.AccumulateCorrection.
type CorrectionSink interface {
	// Propose registers a displacement for id. Non-finite displacements
	// are discarded with a warning.
	Propose(id PointID, v Vec2)

	// Note records the human-readable diagnostic for this evaluation.
	Note(msg string)
}

// countPinned returns how many of ids are pinned.
func countPinned(p Positions, ids ...PointID) int {
	n := 0
	for _, id := range ids {
		if p.Pinned(id) {
			n++
		}
	}
	return n
}

// rotateSpan proposes a rotation of the span (a, b) by amt radians:
//   - both free: each end turns by amt/2 about the span midpoint,
//     preserving length;
//   - one free: the free end turns by amt/2 about the pinned end;
//   - both pinned: nothing.
func rotateSpan(p Positions, a, b PointID, amt float64, out CorrectionSink) {
	pa, pb := p.Pos(a), p.Pos(b)
	switch 2 - countPinned(p, a, b) {
	case 2:
		pivot := pa.Midpoint(pb)
		out.Propose(a, pa.RotateAbout(pivot, amt/2).Sub(pa))
		out.Propose(b, pb.RotateAbout(pivot, amt/2).Sub(pb))
	case 1:
		pivot, move, moveID := pa, pb, b
		if p.Pinned(b) {
			pivot, move, moveID = pb, pa, a
		}
		out.Propose(moveID, move.RotateAbout(pivot, amt/2).Sub(move))
	}
}

// sign returns -1 for negative x and +1 otherwise.
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
