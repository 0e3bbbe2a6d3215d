package beautify

// SolverOption configures a Solver during creation.
// Use functional options to customize solver behavior.
//
// Example:
//
//	// Default settings
//	s, err := beautify.NewSolver(d, constraints)
//
//	// Tighter tolerance, gather on four goroutines
//	s, err := beautify.NewSolver(d, constraints,
//	    beautify.WithTolerance(1e-6),
//	    beautify.WithWorkers(4))
type SolverOption func(*solverOptions)

// solverOptions holds optional configuration for Solver creation.
type solverOptions struct {
	tolerance    float64
	maxPasses    int
	stallPasses  int
	reducer      Reducer
	workers      int
	onDiagnostic func(Diagnostic)
}

// Solver defaults.
const (
	DefaultTolerance   = CorrectionThreshold
	DefaultMaxPasses   = 1000
	DefaultStallPasses = 10
)

// defaultSolverOptions returns the default solver options.
func defaultSolverOptions() solverOptions {
	return solverOptions{
		tolerance:   DefaultTolerance,
		maxPasses:   DefaultMaxPasses,
		stallPasses: DefaultStallPasses,
		reducer:     Mean,
		workers:     1,
	}
}

// WithTolerance sets the convergence tolerance: solving stops once no
// single constraint's absolute error exceeds tol. The default equals
// CorrectionThreshold.
func WithTolerance(tol float64) SolverOption {
	return func(o *solverOptions) {
		if tol > 0 {
			o.tolerance = tol
		}
	}
}

// WithMaxPasses caps the total number of passes a solver will run.
func WithMaxPasses(n int) SolverOption {
	return func(o *solverOptions) {
		if n > 0 {
			o.maxPasses = n
		}
	}
}

// WithStallPasses sets how many consecutive passes without a decrease in
// total error end the solve.
func WithStallPasses(n int) SolverOption {
	return func(o *solverOptions) {
		if n > 0 {
			o.stallPasses = n
		}
	}
}

// WithReducer sets how multiple proposals for one point are combined.
// The default is Mean. A nil reducer is ignored.
func WithReducer(r Reducer) SolverOption {
	return func(o *solverOptions) {
		if r != nil {
			o.reducer = r
		}
	}
}

// WithWorkers sets the number of goroutines evaluating constraints during
// the gather phase. 1 (the default) gathers on the calling goroutine;
// 0 or a negative value uses GOMAXPROCS.
//
// The result does not depend on the worker count: proposals are merged in
// constraint order after the gather barrier.
func WithWorkers(n int) SolverOption {
	return func(o *solverOptions) {
		o.workers = n
	}
}

// WithDiagnostics registers fn to receive every diagnostic entry, one per
// constraint per pass, in constraint order. fn runs on the goroutine
// calling Step or Solve.
func WithDiagnostics(fn func(Diagnostic)) SolverOption {
	return func(o *solverOptions) {
		o.onDiagnostic = fn
	}
}
