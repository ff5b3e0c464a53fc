// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

import "math/big"

// SatCount returns the number of satisfying variable assignments of r over
// all Varnum variables, as arbitrary-precision arithmetic to avoid overflow
// on large state spaces. Adapted from rudd's Satcount (operations.go): every
// level above r's node, including the don't-care run [GetTag(r), GetVar(r))
// that a tag records, is a free choice of assignment, so r's tag does not
// change the count.
func (m *Manager) SatCount(r Ref) *big.Int {
	res := big.NewInt(0)
	res.SetBit(res, int(m.levelOf(r.Node)), 1)
	memo := make(map[Node]*big.Int)
	return res.Mul(res, m.satcount(r.Node, memo))
}

// levelOf returns n's tested variable, or m.varnum if n is a leaf: for
// counting purposes a leaf is reached "after" every real variable, so the
// gap between a node and a leaf child spans the remaining unconstrained
// levels rather than the sentinel NoVar used for tag/GetVar bookkeeping.
func (m *Manager) levelOf(n Node) int32 {
	if n == falseNode || n == trueNode {
		return m.varnum
	}
	return m.varOf(n)
}

func (m *Manager) satcount(n Node, memo map[Node]*big.Int) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	if res, ok := memo[n]; ok {
		return res
	}
	level := m.varOf(n)
	low, high := m.lowOf(n), m.highOf(n)

	res := big.NewInt(0)
	two := big.NewInt(0)
	two.SetBit(two, int(m.levelOf(low)-level-1), 1)
	res.Add(res, two.Mul(two, m.satcount(low, memo)))
	two = big.NewInt(0)
	two.SetBit(two, int(m.levelOf(high)-level-1), 1)
	res.Add(res, two.Mul(two, m.satcount(high, memo)))
	memo[n] = res
	return res
}

// NodeCount returns the number of distinct nodes reachable from roots, used
// for --count-nodes per-partition reporting (spec.md §6.2).
func (m *Manager) NodeCount(roots ...Ref) int {
	m.mu.RLock()
	total := len(m.nodes)
	m.mu.RUnlock()
	seen := make(map[Node]bool, total)
	var mark func(Node)
	mark = func(n Node) {
		if n == falseNode || n == trueNode || seen[n] {
			return
		}
		seen[n] = true
		mark(m.lowOf(n))
		mark(m.highOf(n))
	}
	for _, r := range roots {
		mark(r.Node)
	}
	return len(seen)
}

// EnumFirst returns one satisfying assignment of r as a vector of length
// Varnum, with 0/1 for a tested variable and -1 for a don't-care, or nil if
// r is false. Adapted from rudd's Allsat profile-vector convention
// (operations.go).
func (m *Manager) EnumFirst(r Ref) []int {
	if r.IsFalse() {
		return nil
	}
	prof := make([]int, m.varnum)
	for i := range prof {
		prof[i] = -1
	}
	n := r.Node
	for v := r.Tag; n != trueNode; {
		if n == falseNode {
			return nil
		}
		nv := m.varOf(n)
		for ; v < nv; v++ {
			prof[v] = -1
		}
		if m.lowOf(n) != falseNode {
			prof[nv] = 0
			n = m.lowOf(n)
		} else {
			prof[nv] = 1
			n = m.highOf(n)
		}
		v = nv + 1
	}
	return prof
}
