package ddopt

import "sort"

// NodeIndex, EdgeIndex and LayerIndex are arena "pointers": plain integers
// indexing into Graph's parallel slices. Using indices instead of
// heap-allocated, interior-pointing nodes avoids the cyclic bidirectional
// references a naive node/edge object graph would need (a node pointing at
// its inbound edges, an edge pointing back at its endpoints) and makes
// squash operations (restrict/relax/sort) a matter of slicing arrays rather
// than unlinking pointers.
//
// WARNING: SortLastLayer, RestrictLast and RelaxLast renumber nodes and
// recompute the state index. Callers must never retain a NodeIndex across
// one of those calls; re-derive it from the state index or from the layer
// range instead.
type (
	NodeIndex  int
	EdgeIndex  int
	LayerIndex int
)

const (
	noNode    NodeIndex = -1
	noEdge    EdgeIndex = -1
	negInf              = -(1 << 62)
	maxWidth            = int(^uint(0) >> 1)
)

// nodeData is one arena slot. inboundHead threads a singly-linked list of
// this node's incoming edges via edgeData.next.
type nodeData[T comparable] struct {
	myID         NodeIndex
	state        T
	lpFromTop    int
	lpFromBot    int
	exact        bool
	relaxed      bool
	feasible     bool
	inboundHead  EdgeIndex
	bestIncoming EdgeIndex
}

// edgeData is one arena slot. decision is nil only for bookkeeping arcs that
// never carry a user decision; this implementation never creates such arcs,
// since relaxation redirects existing decision-carrying edges in place.
type edgeData struct {
	src      NodeIndex
	dst      NodeIndex
	decision *Decision
	weight   int
	next     EdgeIndex
}

type layerData struct {
	begin NodeIndex
	end   NodeIndex
}

// Width reports the number of nodes in the layer.
func (l layerData) Width() int { return int(l.end - l.begin) }

// Graph is the arena-backed decision diagram: a flat node arena, a flat edge
// arena, a list of layer ranges over the node arena, and a per-layer state
// index enforcing the reduced-DD property (no two nodes in the same layer
// share a state). The index is cleared every time a new layer starts.
type Graph[T comparable] struct {
	nodes      []nodeData[T]
	edges      []edgeData
	layers     []layerData
	stateIndex map[T]NodeIndex
	lel        *LayerIndex
}

// NewGraph returns a cleared graph ready for AddRoot.
func NewGraph[T comparable]() *Graph[T] {
	g := &Graph[T]{}
	g.Clear()
	return g
}

// Clear resets the graph to a single empty layer, ready for a fresh
// compilation. Must be called between successive compilations by the same
// worker.
func (g *Graph[T]) Clear() {
	g.nodes = g.nodes[:0]
	g.edges = g.edges[:0]
	g.layers = append(g.layers[:0], layerData{begin: 0, end: 0})
	g.stateIndex = make(map[T]NodeIndex)
	g.lel = nil
}

// LEL returns the last-exact-layer index, if any squash has occurred yet.
func (g *Graph[T]) LEL() (LayerIndex, bool) {
	if g.lel == nil {
		return 0, false
	}
	return *g.lel, true
}

func (g *Graph[T]) currentLayerIndex() LayerIndex { return LayerIndex(len(g.layers) - 1) }

// CurrentLayer returns the index of the layer under construction.
func (g *Graph[T]) CurrentLayer() LayerIndex { return g.currentLayerIndex() }

// LayerRange returns the half-open node-arena range [begin,end) of a layer.
func (g *Graph[T]) LayerRange(l LayerIndex) (NodeIndex, NodeIndex) {
	ld := g.layers[l]
	return ld.begin, ld.end
}

// LayerNodes returns the node indices in a layer, in current arena order.
func (g *Graph[T]) LayerNodes(l LayerIndex) []NodeIndex {
	ld := g.layers[l]
	out := make([]NodeIndex, 0, ld.Width())
	for i := ld.begin; i < ld.end; i++ {
		out = append(out, i)
	}
	return out
}

// State returns a node's state.
func (g *Graph[T]) State(n NodeIndex) T { return g.nodes[n].state }

// LPFromTop returns a node's longest-path length from the root.
func (g *Graph[T]) LPFromTop(n NodeIndex) int { return g.nodes[n].lpFromTop }

// LPFromBot returns a node's longest-path length to a terminal, valid only
// after ComputeLocalBounds has run.
func (g *Graph[T]) LPFromBot(n NodeIndex) int { return g.nodes[n].lpFromBot }

// IsExact reports whether a node is exact (I4).
func (g *Graph[T]) IsExact(n NodeIndex) bool { return g.nodes[n].exact }

// IsRelaxed reports whether a node was produced by a merge (I5).
func (g *Graph[T]) IsRelaxed(n NodeIndex) bool { return g.nodes[n].relaxed }

// IsFeasible reports whether a node was reached by the backward pass.
func (g *Graph[T]) IsFeasible(n NodeIndex) bool { return g.nodes[n].feasible }

// AddRoot creates the single disconnected exact root node in layer 0. The
// graph must be freshly cleared.
func (g *Graph[T]) AddRoot(state T, value int) NodeIndex {
	if len(g.nodes) != 0 {
		panic("ddopt: AddRoot requires an empty graph")
	}
	idx := NodeIndex(0)
	g.nodes = append(g.nodes, nodeData[T]{
		myID:         idx,
		state:        state,
		lpFromTop:    value,
		exact:        true,
		inboundHead:  noEdge,
		bestIncoming: noEdge,
	})
	g.layers[0] = layerData{begin: 0, end: 1}
	g.stateIndex[state] = idx
	return idx
}

// AddLayer starts a new layer and clears the intra-layer state index.
func (g *Graph[T]) AddLayer() LayerIndex {
	begin := NodeIndex(len(g.nodes))
	g.layers = append(g.layers, layerData{begin: begin, end: begin})
	g.stateIndex = make(map[T]NodeIndex)
	return g.currentLayerIndex()
}

// AddNode interns state within the current layer: if an equal state is
// already present, its existing node id is returned; otherwise a new node
// is allocated, appended to the current layer, and interned.
func (g *Graph[T]) AddNode(state T) NodeIndex {
	if existing, ok := g.stateIndex[state]; ok {
		return existing
	}
	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, nodeData[T]{
		myID:         idx,
		state:        state,
		lpFromTop:    negInf,
		exact:        true,
		inboundHead:  noEdge,
		bestIncoming: noEdge,
	})
	li := g.currentLayerIndex()
	g.layers[li].end = idx + 1
	g.stateIndex[state] = idx
	return idx
}

// AddEdge appends an edge to the arena and prepends it onto dst's inbound
// list.
func (g *Graph[T]) AddEdge(src, dst NodeIndex, d *Decision, weight int) EdgeIndex {
	idx := EdgeIndex(len(g.edges))
	g.edges = append(g.edges, edgeData{
		src:      src,
		dst:      dst,
		decision: d,
		weight:   weight,
		next:     g.nodes[dst].inboundHead,
	})
	g.nodes[dst].inboundHead = idx
	return idx
}

// Branch is the combined add-node-and-connect operation used while
// unrolling a layer: it interns destState, adds an edge from src, and
// updates the destination's exactness and longest path.
func (g *Graph[T]) Branch(src NodeIndex, destState T, d Decision, weight int) NodeIndex {
	dst := g.AddNode(destState)
	g.AddEdge(src, dst, &d, weight)
	srcNode := &g.nodes[src]
	dstNode := &g.nodes[dst]
	dstNode.exact = dstNode.exact && srcNode.exact
	if srcNode.lpFromTop+weight > dstNode.lpFromTop {
		dstNode.lpFromTop = srcNode.lpFromTop + weight
		dstNode.bestIncoming = EdgeIndex(len(g.edges) - 1)
	}
	return dst
}

// SortLastLayer reorders the current layer's node-arena slice according to
// less (sort.Slice semantics: less(i,j) true means i should sort before j)
// and relabels every affected node: my_id, the state index, and dst on
// every one of the node's incoming edges are rewritten to match the new
// position. This is the sole source of node-id instability documented on
// the type.
func (g *Graph[T]) SortLastLayer(less func(i, j NodeIndex) bool) {
	li := g.currentLayerIndex()
	ld := g.layers[li]
	begin, end := int(ld.begin), int(ld.end)
	n := end - begin
	if n <= 1 {
		return
	}
	order := make([]int, n)
	for i := range order {
		order[i] = begin + i
	}
	sort.Slice(order, func(a, b int) bool {
		return less(NodeIndex(order[a]), NodeIndex(order[b]))
	})
	moved := make([]nodeData[T], n)
	for i, oldIdx := range order {
		moved[i] = g.nodes[oldIdx]
	}
	for i, nd := range moved {
		pos := NodeIndex(begin + i)
		nd.myID = pos
		g.nodes[pos] = nd
		g.stateIndex[nd.state] = pos
		for e := nd.inboundHead; e != noEdge; e = g.edges[e].next {
			g.edges[e].dst = pos
		}
	}
}

// deleteEdges removes every edge whose index is in toDelete via a compacting
// pass that rewrites every surviving edge's next pointer and every node's
// inboundHead/bestIncoming, preserving the chain structure. This achieves
// the same end state as iterated swap-remove-and-rename without the
// bookkeeping hazard of a deleted slot's replacement itself being scheduled
// for deletion.
func (g *Graph[T]) deleteEdges(toDelete map[EdgeIndex]bool) {
	if len(toDelete) == 0 {
		return
	}
	remap := make(map[EdgeIndex]EdgeIndex, len(g.edges))
	kept := make([]edgeData, 0, len(g.edges)-len(toDelete))
	for i, e := range g.edges {
		old := EdgeIndex(i)
		if toDelete[old] {
			continue
		}
		remap[old] = EdgeIndex(len(kept))
		kept = append(kept, e)
	}
	fix := func(e EdgeIndex) EdgeIndex {
		if e == noEdge {
			return noEdge
		}
		if nv, ok := remap[e]; ok {
			return nv
		}
		return noEdge
	}
	for i := range kept {
		kept[i].next = fix(kept[i].next)
	}
	for i := range g.nodes {
		g.nodes[i].inboundHead = fix(g.nodes[i].inboundHead)
		g.nodes[i].bestIncoming = fix(g.nodes[i].bestIncoming)
	}
	g.edges = kept
}

func (g *Graph[T]) markSquashed() {
	if g.lel == nil {
		li := g.currentLayerIndex() - 1
		g.lel = &li
	}
}

// RestrictLast drops the least-important nodes of the current layer down to
// width, per node-selection heuristic nsh (greater = more important = kept).
// A width at or above the current layer width is a no-op. Dropped nodes'
// longest paths are irrecoverably lost.
func (g *Graph[T]) RestrictLast(width int, nsh NodeSelectionHeuristic[T]) {
	li := g.currentLayerIndex()
	ld := g.layers[li]
	if width >= ld.Width() {
		return
	}
	g.sortDescendingByImportance(nsh)
	begin, end := int(ld.begin), int(ld.end)
	cut := begin + width
	toDelete := make(map[EdgeIndex]bool)
	for i := cut; i < end; i++ {
		nd := g.nodes[i]
		delete(g.stateIndex, nd.state)
		for e := nd.inboundHead; e != noEdge; e = g.edges[e].next {
			toDelete[e] = true
		}
	}
	g.deleteEdges(toDelete)
	g.nodes = g.nodes[:cut]
	ld.end = NodeIndex(cut)
	g.layers[li] = ld
	g.markSquashed()
}

// RelaxLast merges the least-important nodes of the current layer down to
// width, per node-selection heuristic nsh, using rlx to merge states and
// relax incident edge weights. width must be at least 1. A width at or
// above the current layer width is a no-op.
func (g *Graph[T]) RelaxLast(width int, nsh NodeSelectionHeuristic[T], rlx Relaxation[T]) {
	if width < 1 {
		panic("ddopt: RelaxLast requires width >= 1")
	}
	li := g.currentLayerIndex()
	ld := g.layers[li]
	if width >= ld.Width() {
		return
	}
	g.sortDescendingByImportance(nsh)
	begin, end := int(ld.begin), int(ld.end)
	keep := width - 1
	cut := begin + keep

	squashedStates := make([]T, 0, end-cut)
	squashedInbound := make([]EdgeIndex, 0)
	squashedDst := make([]T, 0)
	for i := cut; i < end; i++ {
		nd := g.nodes[i]
		squashedStates = append(squashedStates, nd.state)
		for e := nd.inboundHead; e != noEdge; e = g.edges[e].next {
			squashedInbound = append(squashedInbound, e)
			squashedDst = append(squashedDst, nd.state)
		}
	}
	merged := rlx.MergeStates(squashedStates)

	var mergedIdx NodeIndex
	isNew := true
	if existing, ok := g.stateIndex[merged]; ok && int(existing) < cut {
		mergedIdx = existing
		isNew = false
	} else {
		mergedIdx = NodeIndex(cut)
		g.nodes[mergedIdx] = nodeData[T]{
			myID:         mergedIdx,
			state:        merged,
			lpFromTop:    negInf,
			exact:        false,
			relaxed:      true,
			inboundHead:  noEdge,
			bestIncoming: noEdge,
		}
	}
	mergedNode := &g.nodes[mergedIdx]
	mergedNode.relaxed = true
	mergedNode.exact = false

	for k, e := range squashedInbound {
		edge := &g.edges[e]
		parent := &g.nodes[edge.src]
		var dec Decision
		if edge.decision != nil {
			dec = *edge.decision
		}
		newWeight := rlx.RelaxEdge(parent.state, squashedDst[k], merged, dec, edge.weight)
		edge.weight = newWeight
		edge.dst = mergedIdx
		edge.next = mergedNode.inboundHead
		mergedNode.inboundHead = e
		if parent.lpFromTop+newWeight > mergedNode.lpFromTop {
			mergedNode.lpFromTop = parent.lpFromTop + newWeight
			mergedNode.bestIncoming = e
		}
	}

	for _, s := range squashedStates {
		delete(g.stateIndex, s)
	}
	g.stateIndex[merged] = mergedIdx

	if isNew {
		g.nodes = g.nodes[:cut+1]
		ld.end = NodeIndex(cut + 1)
	} else {
		g.nodes = g.nodes[:cut]
		ld.end = NodeIndex(cut)
	}
	g.layers[li] = ld
	g.markSquashed()
}

func (g *Graph[T]) sortDescendingByImportance(nsh NodeSelectionHeuristic[T]) {
	g.SortLastLayer(func(i, j NodeIndex) bool {
		return nsh.Compare(g.nodes[i].state, g.nodes[i].lpFromTop, g.nodes[j].state, g.nodes[j].lpFromTop) > 0
	})
}

// BestTerminal returns the node in the last layer with the greatest
// lp_from_top, i.e. the best value found by this compilation. ok is false
// when the last layer is empty (infeasible subproblem).
func (g *Graph[T]) BestTerminal() (n NodeIndex, ok bool) {
	li := g.currentLayerIndex()
	ld := g.layers[li]
	if ld.Width() == 0 {
		return noNode, false
	}
	best := ld.begin
	for i := ld.begin + 1; i < ld.end; i++ {
		if g.nodes[i].lpFromTop > g.nodes[best].lpFromTop {
			best = i
		}
	}
	return best, true
}

// HasExactBestPath reports whether the longest root-to-n path (as recorded
// by best_incoming_edge) never traverses a relaxed node.
func (g *Graph[T]) HasExactBestPath(n NodeIndex) bool {
	for {
		nd := g.nodes[n]
		if nd.relaxed {
			return false
		}
		if nd.bestIncoming == noEdge {
			return true
		}
		n = g.edges[nd.bestIncoming].src
	}
}

// PathTo reconstructs the full partial assignment from the compilation
// root (whose own path is rootPath) to n, by walking n's best_incoming_edge
// chain back to the root and replaying the recorded decisions in order.
func (g *Graph[T]) PathTo(n NodeIndex, rootPath *PartialAssignment) *PartialAssignment {
	var decisions []Decision
	cur := n
	for {
		nd := g.nodes[cur]
		if nd.bestIncoming == noEdge {
			break
		}
		e := g.edges[nd.bestIncoming]
		if e.decision != nil {
			decisions = append(decisions, *e.decision)
		}
		cur = e.src
	}
	for i, j := 0, len(decisions)-1; i < j; i, j = i+1, j-1 {
		decisions[i], decisions[j] = decisions[j], decisions[i]
	}
	return rootPath.ExtendFragment(decisions)
}

// ComputeLocalBounds runs the backward pass: starting from the last layer
// (lp_from_bot=0, feasible=true for every node), it walks layers from last
// down to LEL+1, propagating lp_from_bot and feasibility to parents via
// inbound edges. Must only be called for an inexact Relaxed compilation; the
// result is meaningless otherwise.
func (g *Graph[T]) ComputeLocalBounds() {
	last := g.currentLayerIndex()
	ld := g.layers[last]
	for i := ld.begin; i < ld.end; i++ {
		g.nodes[i].lpFromBot = 0
		g.nodes[i].feasible = true
	}
	lel, ok := g.LEL()
	if !ok {
		return
	}
	for l := last; l > lel; l-- {
		cur := g.layers[l]
		for i := cur.begin; i < cur.end; i++ {
			n := &g.nodes[i]
			if !n.feasible {
				continue
			}
			for e := n.inboundHead; e != noEdge; e = g.edges[e].next {
				edge := g.edges[e]
				parent := &g.nodes[edge.src]
				candidate := n.lpFromBot + edge.weight
				if candidate > parent.lpFromBot {
					parent.lpFromBot = candidate
				}
				parent.feasible = true
			}
		}
	}
}

// CutsetNodes returns the feasible nodes of the LEL layer, the cutset that
// seeds new frontier subproblems. Returns nil if no squash has occurred
// (the compilation is fully exact and has no cutset).
func (g *Graph[T]) CutsetNodes() []NodeIndex {
	lel, ok := g.LEL()
	if !ok {
		return nil
	}
	ld := g.layers[lel]
	out := make([]NodeIndex, 0, ld.Width())
	for i := ld.begin; i < ld.end; i++ {
		if g.nodes[i].feasible {
			out = append(out, i)
		}
	}
	return out
}
