package ddopt

// PartialAssignment is a persistent, shared sequence of decisions. Nodes
// that share a path prefix share the same backing fragments; a
// PartialAssignment is never mutated once constructed, so it is safe to hold
// many references to the same parent from different children.
//
// The zero value is EmptyAssignment.
type PartialAssignment struct {
	parent   *PartialAssignment
	decision *Decision   // set when this is a SingleExtension
	fragment []Decision  // set when this is a FragmentExtension
}

// EmptyAssignment is the empty partial assignment.
var EmptyAssignment = PartialAssignment{}

// Extend returns a new PartialAssignment extending pa by a single decision.
// pa is left untouched.
func (pa *PartialAssignment) Extend(d Decision) *PartialAssignment {
	return &PartialAssignment{parent: pa, decision: &d}
}

// ExtendFragment returns a new PartialAssignment extending pa by a run of
// decisions recorded together (Graph.PathTo uses it to append the decisions
// of a compiled path in one step rather than one node per decision).
func (pa *PartialAssignment) ExtendFragment(fragment []Decision) *PartialAssignment {
	if len(fragment) == 0 {
		return pa
	}
	cp := append([]Decision(nil), fragment...)
	return &PartialAssignment{parent: pa, fragment: cp}
}

// Decisions materializes the full decision sequence from root to pa, in the
// order decisions were taken (oldest first).
func (pa *PartialAssignment) Decisions() []Decision {
	var out []Decision
	var walk func(*PartialAssignment)
	walk = func(p *PartialAssignment) {
		if p == nil {
			return
		}
		walk(p.parent)
		switch {
		case p.decision != nil:
			out = append(out, *p.decision)
		case p.fragment != nil:
			out = append(out, p.fragment...)
		}
	}
	walk(pa)
	return out
}

// IsEmpty reports whether pa carries no decisions.
func (pa *PartialAssignment) IsEmpty() bool {
	return pa == nil || (pa.parent == nil && pa.decision == nil && pa.fragment == nil)
}
