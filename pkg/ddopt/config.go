package ddopt

// Config bundles a Problem, its Relaxation, and the heuristic set a Driver
// compiles decision diagrams with. Built via NewConfig and a chain of
// ConfigOptions, mirroring the functional-options pattern used elsewhere in
// this codebase for solver configuration.
type Config[T comparable] struct {
	Problem    Problem[T]
	Relaxation Relaxation[T]

	VarHeuristic   VariableHeuristic[T]
	WidthHeuristic WidthHeuristic[T]
	NodeHeuristic  NodeSelectionHeuristic[T]
	FrontierOrder  FrontierOrder[T]
	Cutoff         Cutoff
}

// ConfigOption mutates a Config during construction.
type ConfigOption[T comparable] func(*Config[T])

// WithVariableHeuristic overrides the default NaturalOrder.
func WithVariableHeuristic[T comparable](h VariableHeuristic[T]) ConfigOption[T] {
	return func(c *Config[T]) { c.VarHeuristic = h }
}

// WithWidthHeuristic overrides the default NbUnassignedWidth.
func WithWidthHeuristic[T comparable](h WidthHeuristic[T]) ConfigOption[T] {
	return func(c *Config[T]) { c.WidthHeuristic = h }
}

// WithNodeHeuristic overrides the default MinLP.
func WithNodeHeuristic[T comparable](h NodeSelectionHeuristic[T]) ConfigOption[T] {
	return func(c *Config[T]) { c.NodeHeuristic = h }
}

// WithFrontierOrder overrides the default MaxUB.
func WithFrontierOrder[T comparable](o FrontierOrder[T]) ConfigOption[T] {
	return func(c *Config[T]) { c.FrontierOrder = o }
}

// WithCutoff overrides the default NoCutoff.
func WithCutoff[T comparable](cutoff Cutoff) ConfigOption[T] {
	return func(c *Config[T]) { c.Cutoff = cutoff }
}

// NewConfig assembles a Config for problem/relaxation with the given
// options applied over the defaults: NaturalOrder, NbUnassignedWidth,
// MinLP, MaxUB, NoCutoff.
func NewConfig[T comparable](problem Problem[T], relaxation Relaxation[T], opts ...ConfigOption[T]) *Config[T] {
	c := &Config[T]{
		Problem:        problem,
		Relaxation:     relaxation,
		VarHeuristic:   NewNaturalOrder[T](),
		WidthHeuristic: NbUnassignedWidth[T]{},
		NodeHeuristic:  MinLP[T]{},
		FrontierOrder:  MaxUB[T]{},
		Cutoff:         NoCutoff{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone returns a shallow copy of c suitable for handing to a parallel
// worker: the Problem/Relaxation/heuristics are shared (they must be free of
// hidden state or encapsulate it behind Clear, per the heuristic-statefulness
// rule), but each worker gets its own Config value so heuristics with
// per-worker state can be swapped independently if needed.
func (c *Config[T]) Clone() *Config[T] {
	cp := *c
	return &cp
}
