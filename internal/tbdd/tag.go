// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

// Ref is a tagged reference to a node: the function represented is the one
// rooted at Node, known in addition to be independent of every variable in
// [Tag, GetVar(Node)). The invariant Tag <= GetVar(Node) (or Tag <= NoVar for
// a leaf) must hold at all times. Settag is the only way to change Tag and
// never allocates, which is the efficiency argument for tags described in
// spec.md §9 ("Cache opcode namespace" / tag mechanism): saturation can skip
// an entire run of don't-care levels by bumping an integer instead of
// building one redundant node per level.
type Ref struct {
	Node Node
	Tag  int32
}

func fresh(n Node, varOf int32) Ref { return Ref{Node: n, Tag: varOf} }

// False is the constant false TBDD.
func (m *Manager) False() Ref { return Ref{Node: falseNode, Tag: NoVar} }

// True is the constant true TBDD.
func (m *Manager) True() Ref { return Ref{Node: trueNode, Tag: NoVar} }

// IsFalse reports whether r is the constant false.
func (r Ref) IsFalse() bool { return r.Node == falseNode }

// IsTrue reports whether r is the constant true.
func (r Ref) IsTrue() bool { return r.Node == trueNode }

// Equal is structural (pointer) equality through the unique table: two TBDDs
// represent the same function with the same tag iff Equal. This underlies
// the "strategy equivalence" testable property of spec.md §8, which compares
// final results by Node identity (the unique table already canonicalizes
// the Boolean content; tags must also agree for the comparison to be between
// equally-described results, as is always the case for the top-level result
// of a full strategy run since it carries no tag, i.e. Tag == NoVar or the
// node's own level).
func (r Ref) Equal(o Ref) bool { return r.Node == o.Node && r.Tag == o.Tag }

// SameSet reports Boolean-content equality regardless of tag, which is what
// fixpoint loops ("front == false", "set == prev") actually need to check.
func (r Ref) SameSet(o Ref) bool { return r.Node == o.Node }

// Ithvar returns the TBDD for the positive literal of variable i.
func (m *Manager) Ithvar(i int32) Ref {
	return fresh(m.mk(i, falseNode, trueNode), i)
}

// NIthvar returns the TBDD for the negative literal of variable i.
func (m *Manager) NIthvar(i int32) Ref {
	return fresh(m.mk(i, trueNode, falseNode), i)
}

// GetVar returns the level tested by r's underlying node, or NoVar if r is a
// leaf. This is the "set_var"/"rel_var" quantity of spec.md §4.5, distinct
// from the reference's own tag.
func (m *Manager) GetVar(r Ref) int32 { return m.varOf(r.Node) }

// GetTag returns r's tag, the "set_tag" quantity of spec.md §4.5.
func GetTag(r Ref) int32 { return r.Tag }

// NoTag reports whether r carries no information beyond its node, i.e. its
// tag equals the node's own variable (or NoVar for a leaf).
func (m *Manager) NoTag(r Ref) bool { return r.Tag == m.varOf(r.Node) }

// Settag returns r re-tagged at tag. tag must not exceed GetVar(r); callers
// use this to record, for free, that a function is additionally known not to
// depend on variables in [tag, GetVar(r)) — see go_sat's Case B in
// spec.md §4.5 and DESIGN.md for why this replaces the spec's literal
// "makenode(pivot_var, inner, false, pivot_var+2)" phrasing in our Ref-based
// representation.
func (m *Manager) Settag(r Ref, tag int32) Ref {
	if tag > m.varOf(r.Node) {
		tag = m.varOf(r.Node)
	}
	return Ref{Node: r.Node, Tag: tag}
}

// Low returns the false-branch cofactor of r as a fresh (untagged) Ref.
func (m *Manager) Low(r Ref) Ref {
	n := m.lowOf(r.Node)
	return fresh(n, m.varOf(n))
}

// High returns the true-branch cofactor of r as a fresh (untagged) Ref.
func (m *Manager) High(r Ref) Ref {
	n := m.highOf(r.Node)
	return fresh(n, m.varOf(n))
}

// MakeNode builds (or finds, through the unique table) the node testing var
// with the given cofactors, and returns it as a fresh reference. This is the
// tbdd_makenode primitive of spec.md §6.3 for the genuine cofactor-merge
// case (spec.md §4.5 Case B's "else" branch, and the top-level recombination
// after a parallel low/high split).
func (m *Manager) MakeNode(v int32, low, high Ref) Ref {
	n := m.mk(v, low.Node, high.Node)
	return fresh(n, m.varOf(n))
}
