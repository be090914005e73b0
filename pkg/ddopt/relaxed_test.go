package ddopt

import "testing"

func TestRelaxedWidthOneWithConstantMerge(t *testing.T) {
	problem := sumProblem{nVars: 3, domain: []int{0, 1, 2}}
	relaxation := constantMergeRelaxation{mergeState: 100, relaxWeight: 20, estimate: 50}
	cfg := NewConfig[int](problem, relaxation,
		WithWidthHeuristic[int](FixedWidth[int]{Width: 1}))
	driver := NewDriver[int](cfg, nil)

	root := rootFor[int](problem)
	completion, cutset, err := driver.Compile(Relaxed, root, veryLow, root.UB)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if completion.IsExact {
		t.Fatalf("expected a merged relaxation to be inexact")
	}
	if completion.BestValue == nil || *completion.BestValue != 42 {
		t.Fatalf("expected best value 42, got %v", completion.BestValue)
	}
	if len(cutset) != 3 {
		t.Fatalf("expected a cutset of size 3 (the first wide layer is never squashed), got %d", len(cutset))
	}
}

func TestRelaxationSoundnessIsOverApproximation(t *testing.T) {
	problem := sumProblem{nVars: 4, domain: []int{0, 1, 2}}
	relaxation := constantMergeRelaxation{mergeState: 100, relaxWeight: 1000, estimate: 1000}
	cfg := NewConfig[int](problem, relaxation,
		WithWidthHeuristic[int](FixedWidth[int]{Width: 2}))
	driver := NewDriver[int](cfg, nil)

	root := rootFor[int](problem)
	completion, _, err := driver.Compile(Relaxed, root, veryLow, root.UB)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if completion.BestValue == nil {
		t.Fatalf("expected a relaxed value")
	}
	optimum := 2 * problem.nVars
	if *completion.BestValue < optimum {
		t.Fatalf("a relaxed compilation must never fall below the true optimum: got %d < %d", *completion.BestValue, optimum)
	}
}

func TestRelaxLastDegenerateWidths(t *testing.T) {
	build := func() *Graph[int] {
		g := NewGraph[int]()
		g.AddRoot(0, 0)
		g.AddLayer()
		g.Branch(0, 1, Decision{0, 1}, 1)
		g.Branch(0, 2, Decision{0, 2}, 2)
		g.Branch(0, 3, Decision{0, 3}, 3)
		return g
	}

	t.Run("width zero panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected RelaxLast(0, ...) to panic")
			}
		}()
		g := build()
		g.RelaxLast(0, MinLP[int]{}, constantMergeRelaxation{mergeState: -1, relaxWeight: 0, estimate: 0})
	})

	t.Run("width one merges every node", func(t *testing.T) {
		g := build()
		g.RelaxLast(1, MinLP[int]{}, constantMergeRelaxation{mergeState: -1, relaxWeight: 0, estimate: 0})
		nodes := g.LayerNodes(g.CurrentLayer())
		if len(nodes) != 1 {
			t.Fatalf("expected a single merged node, got %d", len(nodes))
		}
		if g.State(nodes[0]) != -1 {
			t.Fatalf("expected the merged state, got %v", g.State(nodes[0]))
		}
	})

	t.Run("width at or above layer width is a no-op", func(t *testing.T) {
		g := build()
		before := len(g.LayerNodes(g.CurrentLayer()))
		g.RelaxLast(10, MinLP[int]{}, constantMergeRelaxation{mergeState: -1, relaxWeight: 0, estimate: 0})
		after := len(g.LayerNodes(g.CurrentLayer()))
		if before != after {
			t.Fatalf("expected no-op, layer size changed from %d to %d", before, after)
		}
	})
}

func TestDivByWidthClampsToOne(t *testing.T) {
	w := DivByWidth[int]{Delegate: FixedWidth[int]{Width: 1}, Factor: 8}
	if got := w.MaxWidth(Relaxed, NewVariableSet(4)); got != 1 {
		t.Fatalf("expected DivBy to clamp to 1, got %d", got)
	}
}
