package ddopt

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// sharedFrontier is the mutex-guarded state a parallel solve's workers
// contend over: the open-subproblem store itself, plus a busy-worker count
// used for termination detection (workers block while the frontier is
// empty but a sibling is still active, since that sibling may push more
// work; they exit once the frontier is empty and nobody is active).
type sharedFrontier[T comparable] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	frontier *NoDupFrontier[T]
	active   int
}

func newSharedFrontier[T comparable](order FrontierOrder[T]) *sharedFrontier[T] {
	sf := &sharedFrontier[T]{frontier: NewNoDupFrontier[T](order)}
	sf.cond = sync.NewCond(&sf.mu)
	return sf
}

// MaximizeParallel runs branch-and-bound with workers concurrent goroutines,
// each compiling DDs against its own Driver over a cloned Config, sharing
// only the frontier and the incumbent. This mirrors the sequential
// algorithm's pruning and update rules: the only additional rule is that
// prunes and updates are always checked against the latest shared bestLB,
// so a decision made against a stale bound is wasteful but never unsound
// (bestLB is monotonically non-decreasing).
func MaximizeParallel[T comparable](cfg *Config[T], workers int, logger *zap.Logger, metrics *Metrics) Solution {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sf := newSharedFrontier[T](cfg.FrontierOrder)
	root := FrontierNode[T]{
		State: cfg.Problem.InitialState(),
		LPLen: cfg.Problem.InitialValue(),
		UB:    int(^uint(0) >> 1),
		Path:  &EmptyAssignment,
	}
	sf.frontier.Push(root)

	var bestLB atomic.Int64
	bestLB.Store(int64(negInf))

	var bestMu sync.Mutex
	var bestValue *int
	var bestSolution *PartialAssignment

	var cutoffHit atomic.Bool

	recordIncumbent := func(value int, path *PartialAssignment) {
		bestMu.Lock()
		if bestValue == nil || value > *bestValue {
			v := value
			bestValue = &v
			bestSolution = path
			logger.Info("incumbent improved", zap.Int("value", value))
		}
		bestMu.Unlock()
		for {
			cur := bestLB.Load()
			if int64(value) <= cur {
				break
			}
			if bestLB.CompareAndSwap(cur, int64(value)) {
				break
			}
		}
		if metrics != nil {
			metrics.ObserveIncumbent(value)
		}
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			driver := NewDriver[T](cfg.Clone(), logger)
			for {
				sf.mu.Lock()
				for sf.frontier.Len() == 0 && sf.active > 0 {
					sf.cond.Wait()
				}
				if sf.frontier.Len() == 0 || cutoffHit.Load() {
					sf.cond.Broadcast()
					sf.mu.Unlock()
					return
				}
				node, err := sf.frontier.Pop()
				if err != nil {
					sf.cond.Broadcast()
					sf.mu.Unlock()
					return
				}
				sf.active++
				sf.mu.Unlock()

				lb := int(bestLB.Load())
				if node.UB <= lb {
					logger.Debug("node pruned", zap.Int("ub", node.UB), zap.Int("lb", lb))
				} else {
					if metrics != nil {
						metrics.IncNodesExpanded()
					}

					restricted, _, rerr := driver.Compile(Restricted, node, lb, node.UB)
					if rerr != nil {
						cutoffHit.Store(true)
					} else {
						if restricted.BestValue != nil {
							lb = int(bestLB.Load())
							if *restricted.BestValue > lb {
								if path, ok := driver.BestSolution(node); ok {
									recordIncumbent(*restricted.BestValue, path)
								}
							}
						}
						if !restricted.IsExact {
							lb = int(bestLB.Load())
							relaxed, cutset, rerr2 := driver.Compile(Relaxed, node, lb, node.UB)
							if rerr2 != nil {
								cutoffHit.Store(true)
							} else if relaxed.BestValue != nil {
								if relaxed.IsExact {
									lb = int(bestLB.Load())
									if *relaxed.BestValue > lb {
										if path, ok := driver.BestSolution(node); ok {
											recordIncumbent(*relaxed.BestValue, path)
										}
									}
								} else {
									if metrics != nil {
										metrics.IncLayersSquashed()
									}
									lb = int(bestLB.Load())
									sf.mu.Lock()
									for _, c := range cutset {
										if c.UB > lb {
											sf.frontier.Push(c)
										}
									}
									sf.mu.Unlock()
								}
							}
						}
					}
				}

				sf.mu.Lock()
				sf.active--
				sf.cond.Broadcast()
				sf.mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return Solution{
		BestValue:     bestValue,
		BestSolution:  bestSolution,
		ProvedOptimal: !cutoffHit.Load(),
	}
}
