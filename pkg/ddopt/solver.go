package ddopt

import "go.uber.org/zap"

// Solution is the outcome of a branch-and-bound search.
type Solution struct {
	BestValue    *int
	BestSolution *PartialAssignment
	ProvedOptimal bool
}

// Solver runs sequential branch-and-bound over a Config's Problem using
// bounded-width restricted and relaxed DD compilations.
type Solver[T comparable] struct {
	cfg     *Config[T]
	logger  *zap.Logger
	metrics *Metrics
}

// NewSolver returns a Solver for cfg. A nil logger is replaced with a no-op
// logger; metrics may be nil to disable instrumentation.
func NewSolver[T comparable](cfg *Config[T], logger *zap.Logger, metrics *Metrics) *Solver[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver[T]{cfg: cfg, logger: logger, metrics: metrics}
}

// Maximize runs the sequential branch-and-bound loop described in the
// driver algorithm: pop a subproblem, compile a restricted DD to tighten the
// lower bound, then (unless already proved optimal) a relaxed DD to tighten
// the upper bound and, if necessary, enqueue its cutset.
func (s *Solver[T]) Maximize() Solution {
	cfg := s.cfg
	frontier := NewNoDupFrontier[T](cfg.FrontierOrder)

	root := FrontierNode[T]{
		State: cfg.Problem.InitialState(),
		LPLen: cfg.Problem.InitialValue(),
		UB:    int(^uint(0) >> 1),
		Path:  &EmptyAssignment,
	}
	frontier.Push(root)

	driver := NewDriver[T](cfg, s.logger)

	bestLB := negInf
	var bestValue *int
	var bestSolution *PartialAssignment

	recordIncumbent := func(value int, path *PartialAssignment) {
		if bestValue == nil || value > *bestValue {
			v := value
			bestValue = &v
			bestSolution = path
			s.logger.Info("incumbent improved", zap.Int("value", value))
		}
		if value > bestLB {
			bestLB = value
		}
		if s.metrics != nil {
			s.metrics.ObserveIncumbent(value)
		}
	}

	for frontier.Len() > 0 {
		node, err := frontier.Pop()
		if err != nil {
			break
		}
		if node.UB <= bestLB {
			s.logger.Debug("node pruned", zap.Int("ub", node.UB), zap.Int("lb", bestLB))
			continue // pruned: this subproblem cannot beat the incumbent
		}
		if s.metrics != nil {
			s.metrics.ObserveFrontierSize(frontier.Len())
			s.metrics.IncNodesExpanded()
		}

		restricted, _, err := driver.Compile(Restricted, node, bestLB, node.UB)
		if err != nil {
			return Solution{BestValue: bestValue, BestSolution: bestSolution, ProvedOptimal: false}
		}
		if restricted.BestValue != nil {
			if path, ok := driver.BestSolution(node); ok && *restricted.BestValue > bestLB {
				recordIncumbent(*restricted.BestValue, path)
			}
		}
		if restricted.IsExact {
			continue // subproblem fully solved by the restricted compilation
		}

		relaxed, cutset, err := driver.Compile(Relaxed, node, bestLB, node.UB)
		if err != nil {
			return Solution{BestValue: bestValue, BestSolution: bestSolution, ProvedOptimal: false}
		}
		if relaxed.BestValue == nil {
			continue // infeasible subproblem
		}
		if relaxed.IsExact {
			if *relaxed.BestValue > bestLB {
				if path, ok := driver.BestSolution(node); ok {
					recordIncumbent(*relaxed.BestValue, path)
				}
			}
			continue
		}
		if s.metrics != nil {
			s.metrics.IncLayersSquashed()
		}
		for _, c := range cutset {
			if c.UB > bestLB {
				frontier.Push(c)
			}
		}
	}

	return Solution{BestValue: bestValue, BestSolution: bestSolution, ProvedOptimal: true}
}
