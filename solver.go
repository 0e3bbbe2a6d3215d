package beautify

import (
	"context"
	"fmt"
	"math"

	"github.com/gogpu/beautify/internal/parallel"
)

// StopReason tells why Solve returned.
type StopReason int

const (
	// StopNone means the solve was interrupted before reaching a stop
	// condition (for example by context cancellation).
	StopNone StopReason = iota

	// StopConverged means every constraint's error is within the
	// tolerance.
	StopConverged

	// StopMaxPasses means the pass budget was exhausted.
	StopMaxPasses

	// StopStalled means the total error failed to decrease for the
	// configured number of consecutive passes.
	StopStalled
)

var stopReasonNames = [...]string{
	StopNone:      "none",
	StopConverged: "converged",
	StopMaxPasses: "max passes",
	StopStalled:   "stalled",
}

// String returns the string representation of a StopReason.
func (r StopReason) String() string {
	if r >= 0 && int(r) < len(stopReasonNames) {
		return stopReasonNames[r]
	}
	return "unknown"
}

// Result summarizes a Solve call.
type Result struct {
	Passes   int        // passes run by the solver so far
	Error    float64    // summed absolute error at return
	MaxError float64    // largest single absolute error at return
	Reason   StopReason // why solving stopped
}

// Converged reports whether the solve ended with every constraint within
// tolerance.
func (r Result) Converged() bool {
	return r.Reason == StopConverged
}

// Solver runs relaxation passes over a Diagram.
//
// Each pass freezes a snapshot of every point, lets every constraint
// propose corrections against that snapshot, and only then applies the
// reduced displacement to each non-pinned point. Because no constraint
// sees another's updates within a pass, the outcome does not depend on
// constraint order or on how many goroutines gather.
//
// A Solver is not safe for concurrent use. Between passes its state is
// complete and Solve may be resumed.
type Solver struct {
	d           *Diagram
	constraints []Constraint
	opts        solverOptions

	acc     *Accumulator
	buffers []Corrections
	errs    []float64
	pool    *parallel.Pool

	pass        int
	stalled     int
	worst       float64
	diagnostics []Diagnostic
}

// NewSolver creates a solver for constraints over d. It returns an error
// wrapping ErrUnknownPoint if any constraint references a point outside d.
// Call Close when done to release gather workers.
func NewSolver(d *Diagram, constraints []Constraint, opts ...SolverOption) (*Solver, error) {
	o := defaultSolverOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Solver{
		d:    d,
		opts: o,
		acc:  NewAccumulator(o.reducer),
	}
	for _, c := range constraints {
		if err := s.Add(c); err != nil {
			return nil, err
		}
	}
	if o.workers != 1 {
		s.pool = parallel.NewPool(o.workers)
	}
	return s, nil
}

// Add appends a constraint. It takes part from the next pass on.
func (s *Solver) Add(c Constraint) error {
	if err := s.d.Check(c.Operands()...); err != nil {
		return fmt.Errorf("beautify: constraint %d (%s): %w", len(s.constraints), c.Kind(), err)
	}
	s.constraints = append(s.constraints, c)
	return nil
}

// Constraints returns the constraints in evaluation order.
func (s *Solver) Constraints() []Constraint {
	return s.constraints
}

// Passes returns the number of passes run so far.
func (s *Solver) Passes() int {
	return s.pass
}

// Diagnostics returns the entries of the most recent pass.
func (s *Solver) Diagnostics() []Diagnostic {
	return s.diagnostics
}

// TotalError returns the summed absolute error of all constraints at the
// current positions.
func (s *Solver) TotalError() float64 {
	total, _ := s.measure()
	return total
}

// MaxError returns the largest absolute error of any single constraint at
// the current positions. Convergence is judged on this value.
func (s *Solver) MaxError() float64 {
	_, worst := s.measure()
	return worst
}

func (s *Solver) measure() (total, worst float64) {
	for _, c := range s.constraints {
		e := math.Abs(c.SignedError(s.d))
		total += e
		worst = math.Max(worst, e)
	}
	return total, worst
}

// Step runs exactly one pass and returns the total error afterwards.
func (s *Solver) Step() float64 {
	n := len(s.constraints)
	if cap(s.buffers) < n {
		s.buffers = make([]Corrections, n)
		s.errs = make([]float64, n)
	}
	s.buffers = s.buffers[:n]
	s.errs = s.errs[:n]

	// Gather against a frozen snapshot.
	snap := s.d.Snapshot()
	gather := func(i int) {
		b := &s.buffers[i]
		b.Reset()
		s.errs[i] = s.constraints[i].SignedError(snap)
		s.constraints[i].AccumulateCorrection(snap, b)
	}
	if s.pool != nil {
		s.pool.Gather(n, gather)
	} else {
		for i := range n {
			gather(i)
		}
	}

	// Barrier passed: merge in constraint order, then apply.
	s.pass++
	s.acc.Reset()
	s.diagnostics = s.diagnostics[:0]
	var before float64
	for i := range s.buffers {
		s.acc.Merge(&s.buffers[i])
		before += math.Abs(s.errs[i])

		entry := Diagnostic{
			Pass:    s.pass,
			Index:   i,
			Kind:    s.constraints[i].Kind(),
			Error:   s.errs[i],
			Message: s.buffers[i].Message(),
		}
		s.diagnostics = append(s.diagnostics, entry)
		if s.opts.onDiagnostic != nil {
			s.opts.onDiagnostic(entry)
		}
	}

	for _, id := range s.acc.Points() {
		if s.d.Pinned(id) {
			continue
		}
		if v, ok := s.acc.Net(id); ok {
			s.d.move(id, v)
		}
	}

	after, worst := s.measure()
	s.worst = worst
	if after < before {
		s.stalled = 0
	} else {
		s.stalled++
	}
	Logger().Debug("solver: pass", "pass", s.pass, "before", before, "after", after,
		"moved", s.acc.Len())
	return after
}

// Solve runs passes until every constraint's error is within the
// tolerance, the pass budget is used up, or the total error stalls. The
// per-constraint test matches CorrectionThreshold, below which constraints
// stop proposing moves. Cancellation is checked
// between passes only; on cancellation the returned error wraps ctx.Err()
// and the diagram holds the positions after the last complete pass.
func (s *Solver) Solve(ctx context.Context) (Result, error) {
	total, worst := s.measure()
	for {
		reason := StopNone
		switch {
		case worst <= s.opts.tolerance:
			reason = StopConverged
		case s.pass >= s.opts.maxPasses:
			reason = StopMaxPasses
		case s.stalled >= s.opts.stallPasses:
			reason = StopStalled
			Logger().Warn("solver: stalled", "passes", s.pass, "error", total)
		}
		if reason != StopNone {
			Logger().Info("solver: done", "passes", s.pass, "error", total, "reason", reason.String())
			return Result{Passes: s.pass, Error: total, MaxError: worst, Reason: reason}, nil
		}

		if err := ctx.Err(); err != nil {
			return Result{Passes: s.pass, Error: total, MaxError: worst},
				fmt.Errorf("beautify: solve interrupted after %d passes: %w", s.pass, err)
		}
		total = s.Step()
		worst = s.worst
	}
}

// Describe draws every constraint into sink at the current positions.
func (s *Solver) Describe(sink Sink) {
	for _, c := range s.constraints {
		c.Describe(s.d, sink)
	}
}

// Close releases gather workers. Passes run after Close gather inline.
func (s *Solver) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
