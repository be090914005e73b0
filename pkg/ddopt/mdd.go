package ddopt

import "go.uber.org/zap"

// Driver orchestrates layer-by-layer compilation of Exact, Restricted and
// Relaxed decision diagrams over a shared arena Graph. A single Driver is
// reused across many compilations by the same worker; Compile clears the
// graph at the start of every call.
type Driver[T comparable] struct {
	cfg    *Config[T]
	graph  *Graph[T]
	logger *zap.Logger
}

// NewDriver returns a Driver for cfg. A nil logger is replaced with a no-op
// logger so callers never need a nil check.
func NewDriver[T comparable](cfg *Config[T], logger *zap.Logger) *Driver[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver[T]{cfg: cfg, graph: NewGraph[T](), logger: logger}
}

// effectiveMaxWidth asks the configured WidthHeuristic for the width of the
// next Restricted/Relaxed layer. TimesWidth/DivByWidth clamp their own
// answer to at least 1, so only a misbehaving custom heuristic can return
// non-positive here; that case is reported as ErrInvalidWidth rather than
// silently clamped, since a silent clamp would hide the bug.
func effectiveMaxWidth[T comparable](cfg *Config[T], kind CompilationKind, free VariableSet) (int, error) {
	if kind == Exact {
		return maxWidth, nil
	}
	w := cfg.WidthHeuristic.MaxWidth(kind, free)
	if w < 1 {
		return 0, ErrInvalidWidth
	}
	return w, nil
}

func freeVarsFor[T comparable](cfg *Config[T], path *PartialAssignment) VariableSet {
	free := cfg.Problem.AllVars()
	for _, d := range path.Decisions() {
		free = free.Remove(d.Var)
	}
	return free
}

// Compile runs a compilation of the given kind rooted at root,
// pruning with the rough upper bound against lb and stopping early if
// cfg.Cutoff fires. It returns the Completion, and — for an inexact Relaxed
// compilation — the cutset of new frontier subproblems.
func (d *Driver[T]) Compile(kind CompilationKind, root FrontierNode[T], lb, ub int) (Completion, []FrontierNode[T], error) {
	cfg := d.cfg
	if cfg.Problem.NbVars() == 0 {
		return Completion{}, nil, ErrEmptyModel
	}

	g := d.graph
	g.Clear()

	free := freeVarsFor(cfg, root.Path)
	width, err := effectiveMaxWidth(cfg, kind, free)
	if err != nil {
		return Completion{}, nil, err
	}

	g.AddRoot(root.State, root.LPLen)
	cfg.VarHeuristic.Clear()

	for {
		if cfg.Cutoff.MustStop(lb, ub) {
			return Completion{}, nil, ErrCutoffOccurred
		}

		prevLayer := g.CurrentLayer()
		prevNodes := g.LayerNodes(prevLayer)
		currentStates := make([]T, len(prevNodes))
		for i, n := range prevNodes {
			currentStates[i] = g.State(n)
		}

		v, ok := cfg.VarHeuristic.NextVar(free, currentStates, nil)
		if !ok {
			break
		}

		g.AddLayer()
		free = free.Remove(v)
		cfg.VarHeuristic.UponNewLayer(v, currentStates)

		for _, u := range prevNodes {
			uState := g.State(u)
			uLP := g.LPFromTop(u)
			if uLP+cfg.Relaxation.Estimate(uState) <= lb {
				d.logger.Debug("node pruned",
					zap.Int("layer", int(prevLayer)), zap.Int("lp", uLP), zap.Int("lb", lb))
				continue // rough-upper-bound pruning
			}
			for _, val := range cfg.Problem.DomainOf(uState, v) {
				dec := Decision{Var: v, Value: val}
				newState := cfg.Problem.Transition(uState, free, dec)
				cost := cfg.Problem.TransitionCost(uState, free, dec)
				g.Branch(u, newState, dec, cost)
				cfg.VarHeuristic.UponNodeInsert(newState)
			}
		}

		cur := g.CurrentLayer()
		begin, end := g.LayerRange(cur)
		if int(end-begin) > width {
			switch kind {
			case Restricted:
				d.logger.Debug("squash triggered",
					zap.String("mode", "restricted"), zap.Int("layer", int(cur)), zap.Int("width", width))
				g.RestrictLast(width, cfg.NodeHeuristic)
			case Relaxed:
				if cur > 1 {
					d.logger.Debug("squash triggered",
						zap.String("mode", "relaxed"), zap.Int("layer", int(cur)), zap.Int("width", width))
					g.RelaxLast(width, cfg.NodeHeuristic, cfg.Relaxation)
				}
			}
		}
		d.logger.Debug("layer compiled", zap.Int("layer", int(cur)), zap.Int("nodes", int(end-begin)))
	}

	return d.finalize(kind, root, lb)
}

func (d *Driver[T]) finalize(kind CompilationKind, root FrontierNode[T], lb int) (Completion, []FrontierNode[T], error) {
	g := d.graph
	terminal, ok := g.BestTerminal()
	if !ok {
		return Completion{IsExact: true, BestValue: nil}, nil, nil
	}

	bestValue := g.LPFromTop(terminal)
	_, squashed := g.LEL()

	var isExact bool
	switch {
	case !squashed:
		isExact = true
	case kind == Relaxed:
		isExact = g.HasExactBestPath(terminal)
	default:
		isExact = false
	}

	var cutset []FrontierNode[T]
	if kind == Relaxed && !isExact {
		g.ComputeLocalBounds()
		for _, n := range g.CutsetNodes() {
			state := g.State(n)
			lp := g.LPFromTop(n)
			bot := g.LPFromBot(n)
			local := bestValue
			if lp+bot < local {
				local = lp + bot
			}
			if est := lp + d.cfg.Relaxation.Estimate(state); est < local {
				local = est
			}
			cutset = append(cutset, FrontierNode[T]{
				State: state,
				LPLen: lp,
				UB:    local,
				Path:  g.PathTo(n, root.Path),
			})
		}
	}

	completion := Completion{IsExact: isExact, BestValue: &bestValue}
	return completion, cutset, nil
}

// BestSolution reconstructs the decision path to the best terminal of the
// most recent compilation, for callers that want the full assignment rather
// than just the value.
func (d *Driver[T]) BestSolution(root FrontierNode[T]) (*PartialAssignment, bool) {
	terminal, ok := d.graph.BestTerminal()
	if !ok {
		return nil, false
	}
	return d.graph.PathTo(terminal, root.Path), true
}
