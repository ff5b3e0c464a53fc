// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

// RelNext computes the image of set through the partition rel: it forms the
// relational product (set AND rel), existentially quantifies the current
// (even) state variables named in quantify, and renames every remaining
// tested primed (odd) variable v to v-1, leaving tested even variables where
// they are (see shiftOddDown). The rename is a
// plain arithmetic shift rather than a general Replacer (spec.md §9):
// the interleaved even/odd convention guarantees the renamed levels land
// back in increasing order without ever crossing another tested variable.
func (m *Manager) RelNext(set, rel Ref, quantify *VarSet) Ref {
	m.Protect(set.Node)
	m.Protect(rel.Node)
	prod := m.appquant(OPand, set, rel, quantify)
	m.Protect(prod.Node)
	res := m.shiftOddDown(prod)
	m.Unprotect(set.Node, rel.Node, prod.Node)
	return res
}

// shiftOddDown walks r level by level and renames every tested odd (primed)
// variable v to v-1, leaving every tested even variable exactly where it
// is. A naive "subtract one from every level encountered" does not suffice:
// once a partition's own current-state variables have been quantified away,
// the surviving levels are a mix of this partition's primed variables (to
// be renamed) and other, untouched components' current variables (which
// must NOT move, since nothing else in the interleaved domain shifts to
// make room for them). The two cases are told apart by parity alone: no
// model ever mixes a current and a primed variable for the same component
// at this point, so the target level for a tested variable v is v-1 when v
// is odd and v unchanged when v is even.
func (m *Manager) shiftOddDown(r Ref) Ref {
	if r.Node < 2 {
		return r
	}
	key := packRef(r)
	if cached, ok := m.replaceCache.get(0, key, 0, 0); ok {
		return unpackRef(cached)
	}
	top := r.Tag
	lo, hi := m.cofactor(r, top)
	m.Protect(lo.Node)
	m.Protect(hi.Node)
	loRes := m.shiftOddDown(lo)
	m.Protect(loRes.Node)
	hiRes := m.shiftOddDown(hi)
	m.Unprotect(lo.Node, hi.Node, loRes.Node)
	newTop := top
	if top%2 != 0 {
		newTop = top - 1
	}
	res := m.combine(newTop, loRes, hiRes)
	m.replaceCache.put(0, key, 0, 0, packRef(res))
	return res
}

// ExtendDomain rebuilds r so that its tag is anchored against totaldom's
// leading variable instead of vars's, without changing the function it
// represents. It is the tbdd_extend_domain primitive of spec.md §6.3, used
// by extend_relation (spec.md §4.2) before conjoining the identity
// constraint for components absent from the partition.
func (m *Manager) ExtendDomain(r Ref, vars, totaldom *VarSet) Ref {
	lead := r.Tag
	if totaldom.First() != NoVar && totaldom.First() < lead {
		lead = totaldom.First()
	}
	return m.Settag(r, lead)
}

// identityBit builds the TBDD asserting that the current and next bit of a
// single state component (variable pair 2i, 2i+1) agree, following the
// bottom-up construction of extend_relation in spec.md §4.2: a node on the
// primed variable selecting between the two possible current-bit values,
// then a node on the current variable selecting between those two branches.
func (m *Manager) identityBit(i int32) Ref {
	cur, next := 2*i, 2*i+1
	t, f := m.True(), m.False()
	onPos := m.MakeNode(next, f, t) // current=1: next must be 1
	onNeg := m.MakeNode(next, t, f) // current=0: next must be 0
	return m.MakeNode(cur, onNeg, onPos)
}

// IdentityConstraint conjoins identityBit for every vector component whose
// index is not present in present, used by extend_relation to pad a
// partition's relation out to a larger interleaved domain while holding
// every untouched component fixed across the step.
func (m *Manager) IdentityConstraint(present map[int]bool, vectorsize int) Ref {
	eq := m.True()
	m.Protect(eq.Node)
	for i := 0; i < vectorsize; i++ {
		if present[i] {
			continue
		}
		bit := m.identityBit(int32(i))
		m.Protect(bit.Node)
		next := m.And(eq, bit)
		m.Unprotect(eq.Node, bit.Node)
		m.Protect(next.Node)
		eq = next
	}
	m.Unprotect(eq.Node)
	return eq
}

// FromArray builds the TBDD for the cube asserting vars[i] == bits[i] for
// each i, i.e. tbdd_from_array: the single-point set encoding one concrete
// state vector, used when a model file's initial-state projection needs
// materializing directly from its literal bit pattern.
func (m *Manager) FromArray(vars []int32, bits []bool) Ref {
	res := m.True()
	m.Protect(res.Node)
	for i := len(vars) - 1; i >= 0; i-- {
		var lit Ref
		if bits[i] {
			lit = m.Ithvar(vars[i])
		} else {
			lit = m.NIthvar(vars[i])
		}
		m.Protect(lit.Node)
		next := m.And(res, lit)
		m.Unprotect(res.Node, lit.Node)
		m.Protect(next.Node)
		res = next
	}
	m.Unprotect(res.Node)
	return res
}
