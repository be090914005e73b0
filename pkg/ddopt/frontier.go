package ddopt

import "container/heap"

// Frontier is a priority store of open subproblems ordered by a
// FrontierOrder (greater = higher priority = popped first). The concrete
// priority-queue data structure is deliberately container/heap: only the
// ordering contract is part of the engine's design, not the queue's
// internals.
type Frontier[T comparable] struct {
	h frontierHeap[T]
}

// NewFrontier returns an empty Frontier ordered by order.
func NewFrontier[T comparable](order FrontierOrder[T]) *Frontier[T] {
	f := &Frontier[T]{h: frontierHeap[T]{order: order}}
	heap.Init(&f.h)
	return f
}

// Push adds a subproblem. Unlike NoDupFrontier, duplicate states are stored
// independently.
func (f *Frontier[T]) Push(n FrontierNode[T]) {
	heap.Push(&f.h, n)
}

// Pop removes and returns the highest-priority subproblem.
func (f *Frontier[T]) Pop() (FrontierNode[T], error) {
	if f.h.Len() == 0 {
		return FrontierNode[T]{}, ErrNoSuchElement
	}
	return heap.Pop(&f.h).(FrontierNode[T]), nil
}

// Len returns the number of open subproblems.
func (f *Frontier[T]) Len() int { return f.h.Len() }

// Clear empties the frontier.
func (f *Frontier[T]) Clear() { f.h.nodes = f.h.nodes[:0] }

type frontierHeap[T comparable] struct {
	nodes []FrontierNode[T]
	order FrontierOrder[T]
}

func (h frontierHeap[T]) Len() int { return len(h.nodes) }
func (h frontierHeap[T]) Less(i, j int) bool {
	// container/heap is a min-heap; invert so Pop yields the highest
	// priority (greatest) element first.
	return h.order.Compare(h.nodes[i], h.nodes[j]) > 0
}
func (h frontierHeap[T]) Swap(i, j int) { h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i] }

func (h *frontierHeap[T]) Push(x any) {
	h.nodes = append(h.nodes, x.(FrontierNode[T]))
}

func (h *frontierHeap[T]) Pop() any {
	old := h.nodes
	n := len(old)
	item := old[n-1]
	h.nodes = old[:n-1]
	return item
}

// NoDupFrontier wraps Frontier with dedup-on-state: pushing a state already
// present keeps the entry with the higher ub (ties broken by the longer
// lp_len), replacing the stored entry's path accordingly.
type NoDupFrontier[T comparable] struct {
	inner *Frontier[T]
	best  map[T]FrontierNode[T]
}

// NewNoDupFrontier returns an empty deduplicating Frontier ordered by order.
func NewNoDupFrontier[T comparable](order FrontierOrder[T]) *NoDupFrontier[T] {
	return &NoDupFrontier[T]{inner: NewFrontier[T](order), best: make(map[T]FrontierNode[T])}
}

// Push adds n, or merges it into an existing entry for the same state,
// keeping whichever has the higher ub (ties broken by longer lp_len).
func (f *NoDupFrontier[T]) Push(n FrontierNode[T]) {
	existing, ok := f.best[n.State]
	if !ok {
		f.best[n.State] = n
		f.inner.Push(n)
		return
	}
	if n.UB > existing.UB || (n.UB == existing.UB && n.LPLen > existing.LPLen) {
		f.best[n.State] = n
		f.inner.Push(n)
	}
}

// Pop removes and returns the highest-priority subproblem, skipping any
// stale entries left behind by a dedup replacement.
func (f *NoDupFrontier[T]) Pop() (FrontierNode[T], error) {
	for {
		n, err := f.inner.Pop()
		if err != nil {
			return FrontierNode[T]{}, err
		}
		if cur, ok := f.best[n.State]; ok && cur.UB == n.UB && cur.LPLen == n.LPLen {
			delete(f.best, n.State)
			return n, nil
		}
		// stale: a better entry for this state was pushed later, drop this one.
	}
}

// Len returns the number of live (non-stale) subproblems.
func (f *NoDupFrontier[T]) Len() int { return len(f.best) }

// Clear empties the frontier.
func (f *NoDupFrontier[T]) Clear() {
	f.inner.Clear()
	f.best = make(map[T]FrontierNode[T])
}
