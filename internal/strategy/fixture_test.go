// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package strategy

import (
	"testing"

	"github.com/dalzilio/tbdd-reach/internal/model"
	"github.com/dalzilio/tbdd-reach/internal/relation"
	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// twoTogglesFixture builds a two-component, one-bit-each domain (vars 0,1
// for component 0; vars 2,3 for component 1) with one partition per
// component, each toggling its own bit and leaving the other alone — the
// smallest model whose reachable set already requires all four reachability
// strategies to agree on a non-trivial set (spec.md §8 "strategy
// equivalence").
func twoTogglesFixture(t *testing.T) (*tbdd.Manager, model.Domain, []*relation.Relation, tbdd.Ref) {
	t.Helper()
	dom := model.NewDomain([]int{1, 1}, 0)
	mgr, err := tbdd.New(dom.Varnum())
	if err != nil {
		t.Fatalf("tbdd.New(%d): %v", dom.Varnum(), err)
	}

	toggle := func(cur, next int32) tbdd.Ref {
		return mgr.Or(
			mgr.And(mgr.Ithvar(cur), mgr.NIthvar(next)),
			mgr.And(mgr.NIthvar(cur), mgr.Ithvar(next)),
		)
	}
	raw := []model.RawRelation{
		{BDD: toggle(0, 1), RProj: []int{0}, WProj: []int{0}},
		{BDD: toggle(2, 3), RProj: []int{1}, WProj: []int{1}},
	}
	next, err := relation.Preprocess(mgr, dom, raw)
	if err != nil {
		t.Fatalf("relation.Preprocess: %v", err)
	}

	initial := mgr.And(mgr.NIthvar(0), mgr.NIthvar(2)) // {bit0=0, bit1=0}
	return mgr, dom, next, initial
}

// counterMod4Fixture builds a single two-bit component (vars 0,2 current,
// 1,3 next) holding a counter mod 4, split into two partitions that both
// touch the whole component and so share the same leading variable (var
// 0): one increments without carry when the low bit is clear, the other
// carries into the high bit when it is set. This is the smallest fixture
// where relation.SortByLeadingVar's output still has two consecutive
// partitions with an identical leading variable, exercising sat.go's
// satFixpoint loop body beyond a single pass (countRun > 1).
func counterMod4Fixture(t *testing.T) (*tbdd.Manager, model.Domain, []*relation.Relation, tbdd.Ref) {
	t.Helper()
	dom := model.NewDomain([]int{2}, 0)
	mgr, err := tbdd.New(dom.Varnum())
	if err != nil {
		t.Fatalf("tbdd.New(%d): %v", dom.Varnum(), err)
	}

	sameHighBit := mgr.Or(
		mgr.And(mgr.Ithvar(2), mgr.Ithvar(3)),
		mgr.And(mgr.NIthvar(2), mgr.NIthvar(3)),
	)
	flipHighBit := mgr.Or(
		mgr.And(mgr.Ithvar(2), mgr.NIthvar(3)),
		mgr.And(mgr.NIthvar(2), mgr.Ithvar(3)),
	)
	// low bit clear: set it, high bit unchanged.
	noCarry := mgr.And(mgr.NIthvar(0), mgr.And(mgr.Ithvar(1), sameHighBit))
	// low bit set: clear it, high bit flips.
	carry := mgr.And(mgr.Ithvar(0), mgr.And(mgr.NIthvar(1), flipHighBit))

	raw := []model.RawRelation{
		{BDD: noCarry, RProj: []int{0}, WProj: []int{0}},
		{BDD: carry, RProj: []int{0}, WProj: []int{0}},
	}
	next, err := relation.Preprocess(mgr, dom, raw)
	if err != nil {
		t.Fatalf("relation.Preprocess: %v", err)
	}

	initial := mgr.And(mgr.NIthvar(0), mgr.NIthvar(2)) // counter = 0
	return mgr, dom, next, initial
}

// wantTwoTogglesReachable is the full reachable set of twoTogglesFixture:
// every one of the four combinations of the two independent bits.
func wantTwoTogglesReachable(mgr *tbdd.Manager) tbdd.Ref {
	b := func(cur int32, v bool) tbdd.Ref {
		if v {
			return mgr.Ithvar(cur)
		}
		return mgr.NIthvar(cur)
	}
	res := mgr.False()
	for _, b0 := range []bool{false, true} {
		for _, b1 := range []bool{false, true} {
			res = mgr.Or(res, mgr.And(b(0, b0), b(2, b1)))
		}
	}
	return res
}

// emptyRelationFixture builds a domain with no partitions at all: the
// reachable set must be exactly the initial state, in one level.
func emptyRelationFixture(t *testing.T) (*tbdd.Manager, model.Domain, []*relation.Relation, tbdd.Ref) {
	t.Helper()
	dom := model.NewDomain([]int{1}, 0)
	mgr, err := tbdd.New(dom.Varnum())
	if err != nil {
		t.Fatalf("tbdd.New(%d): %v", dom.Varnum(), err)
	}
	initial := mgr.NIthvar(0)
	return mgr, dom, nil, initial
}

// identityRelationFixture builds a single component with only the identity
// relation: the reachable set is exactly the initial state, and BFS/PAR
// must terminate after the first level finds no new successors.
func identityRelationFixture(t *testing.T) (*tbdd.Manager, model.Domain, []*relation.Relation, tbdd.Ref) {
	t.Helper()
	dom := model.NewDomain([]int{1}, 0)
	mgr, err := tbdd.New(dom.Varnum())
	if err != nil {
		t.Fatalf("tbdd.New(%d): %v", dom.Varnum(), err)
	}
	identity := mgr.Or(
		mgr.And(mgr.Ithvar(0), mgr.Ithvar(1)),
		mgr.And(mgr.NIthvar(0), mgr.NIthvar(1)),
	)
	raw := []model.RawRelation{{BDD: identity, RProj: []int{0}, WProj: []int{0}}}
	next, err := relation.Preprocess(mgr, dom, raw)
	if err != nil {
		t.Fatalf("relation.Preprocess: %v", err)
	}
	initial := mgr.NIthvar(0)
	return mgr, dom, next, initial
}
