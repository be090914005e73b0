package ddopt

// Problem is the dynamic-program plug-in: it describes the layered state
// space the engine compiles decision diagrams over. Implementations must be
// free of hidden mutable state: Config.Clone shares the same Problem value
// between parallel workers.
//
// T is the state type. Go generics require T to be comparable so that it can
// key the DD graph's intra-layer interning map; this plays the role that
// Hash + Eq + Clone plays for the equivalent plug-in elsewhere.
type Problem[T comparable] interface {
	// NbVars returns the number of decision variables.
	NbVars() int

	// InitialState returns the state of the root of the dynamic program.
	InitialState() T

	// InitialValue returns the value (reward accumulated so far) at the
	// root, typically 0.
	InitialValue() int

	// DomainOf returns the values legal for var at state. An empty slice
	// means the state is infeasible for that variable.
	DomainOf(state T, v Variable) []int

	// Transition returns the state reached from state by committing to
	// decision d, given the set of variables still free along this path.
	Transition(state T, free VariableSet, d Decision) T

	// TransitionCost returns the reward of taking decision d from state.
	// Costs must compose additively along any path.
	TransitionCost(state T, free VariableSet, d Decision) int

	// AllVars returns the full variable set {0, ..., NbVars()-1}.
	AllVars() VariableSet

	// ImpactedBy reports whether state's feasible continuations actually
	// depend on v. The Driver does not consult it: every compilation is a
	// strict layer-by-layer unroll, and there is no long-arc/pooled compiler
	// in this package.
	ImpactedBy(state T, v Variable) bool
}

// Relaxation is the plug-in describing how to over-approximate a DD when its
// width must be bounded: how to merge several states into one, how to charge
// an edge that gets redirected to a merged node, and an optimistic estimate
// of the remaining reward reachable from a state.
type Relaxation[T comparable] interface {
	// MergeStates returns a state that over-approximates every state in
	// states: every path feasible from any input state must remain
	// feasible from the result.
	MergeStates(states []T) T

	// RelaxEdge returns the weight of an edge originally from src to dst
	// with decision d and cost cost, after dst has been redirected to
	// merged. The returned weight must upper-bound the true reward of any
	// path that used to pass through dst.
	RelaxEdge(src, dst, merged T, d Decision, cost int) int

	// Estimate returns an optimistic upper bound on the reward obtainable
	// from state to any terminal. Used both for the rough-upper-bound
	// pruning during layer expansion and for local bounds on cutset nodes.
	Estimate(state T) int
}
