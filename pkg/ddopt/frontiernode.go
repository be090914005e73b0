package ddopt

// FrontierNode is a subproblem awaiting compilation: the state it is rooted
// at, the longest-path length accumulated to reach it, an optimistic upper
// bound on the value reachable through it, and the path of decisions that
// produced it.
type FrontierNode[T comparable] struct {
	State T
	LPLen int
	UB    int
	Path  *PartialAssignment
}

// Reason enumerates compilation error variants. Currently there is exactly
// one: the configured Cutoff fired.
type Reason int

const (
	// CutoffOccurred indicates a compilation aborted because Cutoff.MustStop
	// returned true.
	CutoffOccurred Reason = iota
)

// Completion is the result of compiling a DD: whether the compiled diagram
// is known to be exact, and the best value found (absent when the
// subproblem turned out infeasible).
type Completion struct {
	IsExact   bool
	BestValue *int
}
