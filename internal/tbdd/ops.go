// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

// cofactor returns the low/high branches of r as seen from level top, which
// must satisfy top <= GetTag(r). While top is still inside r's tagged
// don't-care range (top < the node's own variable) both branches are r
// itself, re-tagged one level deeper; this is what lets a chain of identical
// ancestors collapse into a single redundant-free recursive step instead of
// one physical node per skipped level.
func (m *Manager) cofactor(r Ref, top int32) (lo, hi Ref) {
	if r.Node == falseNode || r.Node == trueNode {
		return r, r
	}
	v := m.varOf(r.Node)
	if top < v {
		pad := Ref{Node: r.Node, Tag: top + 1}
		return pad, pad
	}
	ln, hn := m.lowOf(r.Node), m.highOf(r.Node)
	return fresh(ln, m.varOf(ln)), fresh(hn, m.varOf(hn))
}

// combine builds the result of a recursive operation that branched on top
// with cofactor results lowRes/highRes, propagating tags soundly: if both
// cofactors collapsed to the same node the two branches never depended on
// top (or anything their own tags already rule out), so the combined result
// can keep the more informative (smaller) of the two tags without creating a
// node; otherwise top is a genuine branch and the result is tagged exactly
// at top.
func (m *Manager) combine(top int32, lowRes, highRes Ref) Ref {
	if lowRes.Node == highRes.Node {
		tag := lowRes.Tag
		if highRes.Tag < tag {
			tag = highRes.Tag
		}
		return Ref{Node: lowRes.Node, Tag: tag}
	}
	return Ref{Node: m.mk(top, lowRes.Node, highRes.Node), Tag: top}
}

func packRef(r Ref) int { return int(r.Node)<<32 | int(uint32(r.Tag)) }

// Not returns the negation of r.
func (m *Manager) Not(r Ref) Ref {
	m.Protect(r.Node)
	res := m.not(r)
	m.Unprotect(r.Node)
	return res
}

func (m *Manager) not(r Ref) Ref {
	switch r.Node {
	case falseNode:
		return m.True()
	case trueNode:
		return m.False()
	}
	if cached, ok := m.iteCache.get(int(opnot), packRef(r), 0, 0); ok {
		return unpackRef(cached)
	}
	lo, hi := m.cofactor(r, r.Tag)
	m.Protect(lo.Node)
	m.Protect(hi.Node)
	nlo := m.not(lo)
	nhi := m.not(hi)
	m.Unprotect(lo.Node, hi.Node)
	res := m.combine(r.Tag, nlo, nhi)
	m.iteCache.put(int(opnot), packRef(r), 0, 0, packRef(res))
	return res
}

func unpackRef(v int64) Ref {
	n := int32(int(v) >> 32)
	t := int32(uint32(int(v)))
	return Ref{Node: Node(n), Tag: t}
}

// Apply computes left op right for one of the binary Operators.
func (m *Manager) Apply(op Operator, left, right Ref) Ref {
	m.Protect(left.Node)
	m.Protect(right.Node)
	res := m.apply(op, left, right)
	m.Unprotect(left.Node, right.Node)
	return res
}

func (m *Manager) apply(op Operator, left, right Ref) Ref {
	if left.Node < 2 && right.Node < 2 {
		return Ref{Node: Node(opres[op][left.Node][right.Node]), Tag: NoVar}
	}
	switch op {
	case OPand:
		if left.Node == falseNode || right.Node == falseNode {
			return m.False()
		}
		if left.Node == trueNode {
			return right
		}
		if right.Node == trueNode {
			return left
		}
	case OPor:
		if left.Node == trueNode || right.Node == trueNode {
			return m.True()
		}
		if left.Node == falseNode {
			return right
		}
		if right.Node == falseNode {
			return left
		}
	case OPdiff:
		if right.Node == trueNode {
			return m.False()
		}
		if left.Node == falseNode {
			return m.False()
		}
		if right.Node == falseNode {
			return left
		}
	}
	key := int(op)
	a, b := packRef(left), packRef(right)
	if cached, ok := m.applyCache.get(key, a, b, 0); ok {
		return unpackRef(cached)
	}
	top := left.Tag
	if right.Tag < top {
		top = right.Tag
	}
	lo1, hi1 := m.cofactor(left, top)
	lo2, hi2 := m.cofactor(right, top)
	m.Protect(lo1.Node)
	m.Protect(hi1.Node)
	m.Protect(lo2.Node)
	m.Protect(hi2.Node)
	lores := m.apply(op, lo1, lo2)
	m.Protect(lores.Node)
	hires := m.apply(op, hi1, hi2)
	m.Unprotect(lo1.Node, hi1.Node, lo2.Node, hi2.Node, lores.Node)
	res := m.combine(top, lores, hires)
	m.applyCache.put(key, a, b, 0, packRef(res))
	return res
}

// And is a convenience wrapper for Apply(OPand, ...).
func (m *Manager) And(left, right Ref) Ref { return m.Apply(OPand, left, right) }

// Or is a convenience wrapper for Apply(OPor, ...).
func (m *Manager) Or(left, right Ref) Ref { return m.Apply(OPor, left, right) }

// Diff is a convenience wrapper for Apply(OPdiff, ...), set difference.
func (m *Manager) Diff(left, right Ref) Ref { return m.Apply(OPdiff, left, right) }

// Ite computes if f then g else h, more efficiently than three Applies.
func (m *Manager) Ite(f, g, h Ref) Ref {
	m.Protect(f.Node)
	m.Protect(g.Node)
	m.Protect(h.Node)
	res := m.ite(f, g, h)
	m.Unprotect(f.Node, g.Node, h.Node)
	return res
}

func (m *Manager) ite(f, g, h Ref) Ref {
	switch {
	case f.Node == trueNode:
		return g
	case f.Node == falseNode:
		return h
	case g.Node == h.Node:
		return g
	case g.Node == trueNode && h.Node == falseNode:
		return f
	case g.Node == falseNode && h.Node == trueNode:
		return m.Not(f)
	}
	a, b, c := packRef(f), packRef(g), packRef(h)
	if cached, ok := m.iteCache.get(-1, a, b, c); ok {
		return unpackRef(cached)
	}
	top := f.Tag
	if g.Tag < top {
		top = g.Tag
	}
	if h.Tag < top {
		top = h.Tag
	}
	flo, fhi := m.cofactor(f, top)
	glo, ghi := m.cofactor(g, top)
	hlo, hhi := m.cofactor(h, top)
	m.Protect(flo.Node)
	m.Protect(fhi.Node)
	m.Protect(glo.Node)
	m.Protect(ghi.Node)
	m.Protect(hlo.Node)
	m.Protect(hhi.Node)
	lores := m.ite(flo, glo, hlo)
	m.Protect(lores.Node)
	hires := m.ite(fhi, ghi, hhi)
	m.Unprotect(flo.Node, fhi.Node, glo.Node, ghi.Node, hlo.Node, hhi.Node, lores.Node)
	res := m.combine(top, lores, hires)
	m.iteCache.put(-1, a, b, c, packRef(res))
	return res
}

// VarSet is a set of variable levels used by Exist/AppEx, represented as a
// dense membership bitmap over [0, last] for O(1) membership tests during
// recursion, the same role rudd's quantset array plays (hoperations.go).
type VarSet struct {
	member []bool
	last   int32
	first  int32
}

// NewVarSet builds a VarSet containing the given variable levels.
func NewVarSet(vars []int32) *VarSet {
	vs := &VarSet{first: NoVar, last: -1}
	for _, v := range vars {
		if v > vs.last {
			vs.last = v
		}
		if v < vs.first {
			vs.first = v
		}
	}
	if vs.last < 0 {
		return vs
	}
	vs.member = make([]bool, vs.last+1)
	for _, v := range vars {
		vs.member[v] = true
	}
	return vs
}

// First returns the smallest variable level in vs, or NoVar if vs is empty.
func (vs *VarSet) First() int32 { return vs.first }

func (vs *VarSet) has(v int32) bool { return v >= 0 && v <= vs.last && vs.member[v] }

// Exist returns the existential quantification of r over the variables in vs.
func (m *Manager) Exist(r Ref, vs *VarSet) Ref {
	m.Protect(r.Node)
	res := m.quant(r, vs)
	m.Unprotect(r.Node)
	return res
}

func (m *Manager) quant(r Ref, vs *VarSet) Ref {
	if r.Node < 2 || r.Tag > vs.last {
		return r
	}
	if m.varOf(r.Node) > vs.last {
		// every variable tested anywhere below r has a level past vs.last,
		// so quantifying vs out of r is the identity.
		return r
	}
	top := r.Tag
	lo, hi := m.cofactor(r, top)
	m.Protect(lo.Node)
	hi = m.ProtectRef(hi)
	lores := m.quant(lo, vs)
	m.Protect(lores.Node)
	hires := m.quant(hi, vs)
	m.Unprotect(lo.Node, hi.Node, lores.Node)
	if vs.has(top) {
		return m.apply(OPor, lores, hires)
	}
	return m.combine(top, lores, hires)
}

// AppEx applies op to left and right and existentially quantifies the
// variables in vs in one bottom-up pass, computing a relational product when
// op is OPand. This is the kernel primitive used by the successor/union
// components (spec.md §4.3) to apply a partition's transition relation and
// project away the current-state variables in a single step.
func (m *Manager) AppEx(op Operator, left, right Ref, vs *VarSet) Ref {
	if vs == nil || vs.last < 0 {
		return m.Apply(op, left, right)
	}
	m.Protect(left.Node)
	m.Protect(right.Node)
	res := m.appquant(op, left, right, vs)
	m.Unprotect(left.Node, right.Node)
	return res
}

func (m *Manager) appquant(op Operator, left, right Ref, vs *VarSet) Ref {
	if left.Node < 2 && right.Node < 2 {
		return Ref{Node: Node(opres[op][left.Node][right.Node]), Tag: NoVar}
	}
	switch op {
	case OPand:
		if left.Node == falseNode || right.Node == falseNode {
			return m.False()
		}
	case OPor:
		if left.Node == trueNode || right.Node == trueNode {
			return m.True()
		}
	}
	if left.Tag > vs.last && right.Tag > vs.last {
		return m.apply(op, left, right)
	}
	key := int(op) | 1<<16
	a, b := packRef(left), packRef(right)
	if cached, ok := m.appexCache.get(key, a, b, 0); ok {
		return unpackRef(cached)
	}
	top := left.Tag
	if right.Tag < top {
		top = right.Tag
	}
	lo1, hi1 := m.cofactor(left, top)
	lo2, hi2 := m.cofactor(right, top)
	m.Protect(lo1.Node)
	m.Protect(hi1.Node)
	m.Protect(lo2.Node)
	m.Protect(hi2.Node)
	lores := m.appquant(op, lo1, lo2, vs)
	m.Protect(lores.Node)
	hires := m.appquant(op, hi1, hi2, vs)
	m.Unprotect(lo1.Node, hi1.Node, lo2.Node, hi2.Node, lores.Node)
	var res Ref
	if vs.has(top) {
		res = m.apply(OPor, lores, hires)
	} else {
		res = m.combine(top, lores, hires)
	}
	m.appexCache.put(key, a, b, 0, packRef(res))
	return res
}
