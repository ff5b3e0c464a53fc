// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package strategy

import (
	"github.com/dalzilio/tbdd-reach/internal/model"
	"github.com/dalzilio/tbdd-reach/internal/pool"
	"github.com/dalzilio/tbdd-reach/internal/relation"
	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// goSatOpcode is the fixed 64-bit opcode go_sat reserves on the shared
// external cache (spec.md §4.7, §9 "Cache opcode namespace"). It sits far
// above any opcode the tbdd package itself assigns internally (those are
// small, densely packed Operator values), so collisions are impossible by
// construction rather than by coincidence.
const goSatOpcode int64 = 202 << 52

func packSat(r tbdd.Ref) int64 { return int64(r.Node)<<32 | int64(uint32(r.Tag)) }

func unpackSat(v int64) tbdd.Ref {
	return tbdd.Ref{Node: tbdd.Node(int32(v >> 32)), Tag: int32(uint32(v))}
}

func minVar(a, b, c int32) int32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// SAT runs saturation (spec.md §4.5): a single recursive go_sat call,
// seeded at the first partition, memoized through the manager's external
// cache under goSatOpcode. Precondition: next is sorted by ascending
// leading variable (relation.SortByLeadingVar), and every partition's
// leading variable is even (relation.Preprocess only ever emits even
// leading variables, since variables always start at a component's
// current-state bit).
func SAT(mgr *tbdd.Manager, p *pool.Pool, dom model.Domain, next []*relation.Relation, initial tbdd.Ref, rep Reporter) Result {
	vectordom := vectordomSet(dom)
	cache := mgr.ExternalCache()
	result := goSat(mgr, p, next, cache, initial, 0)
	reportDone(rep, 1, mgr, result, vectordom)
	return Result{Visited: result, Levels: 1}
}

func goSat(mgr *tbdd.Manager, p *pool.Pool, next []*relation.Relation, cache *tbdd.Cache, set tbdd.Ref, idx int) tbdd.Ref {
	if set.IsFalse() {
		return set
	}
	if idx == len(next) {
		return set
	}

	key := packSat(set)
	if cached, ok := cache.Get(goSatOpcode, key, int64(idx), 0); ok {
		return unpackSat(cached)
	}

	setVar := mgr.GetVar(set)
	setTag := tbdd.GetTag(set)
	relVar := mgr.GetVar(next[idx].Variables)
	pivot := minVar(setTag, setVar, relVar)

	var result tbdd.Ref
	switch {
	case pivot == relVar:
		result = satFixpoint(mgr, p, next, cache, set, idx, countRun(mgr, next, idx, relVar))
	case pivot < setVar:
		set0 := mgr.Settag(set, pivot+2)
		inner := goSat(mgr, p, next, cache, set0, idx)
		result = mgr.Settag(inner, pivot)
	default: // pivot == setVar: set genuinely branches here
		if p == nil {
			lo := goSat(mgr, nil, next, cache, mgr.Low(set), idx)
			hi := goSat(mgr, nil, next, cache, mgr.High(set), idx)
			result = mgr.MakeNode(pivot, lo, hi)
		} else {
			lo, hi, _ := pool.Fork(p,
				func() (tbdd.Ref, error) { return goSat(mgr, p, next, cache, mgr.Low(set), idx), nil },
				func() (tbdd.Ref, error) { return goSat(mgr, p, next, cache, mgr.High(set), idx), nil },
			)
			result = mgr.MakeNode(pivot, lo, hi)
		}
	}

	cache.Put(goSatOpcode, key, int64(idx), 0, packSat(result))
	return result
}

// countRun returns the number of consecutive partitions starting at idx
// whose leading variable equals relVar, the "n" of spec.md §4.5 Case A.
func countRun(mgr *tbdd.Manager, next []*relation.Relation, idx int, relVar int32) int {
	n := 0
	for idx+n < len(next) && mgr.GetVar(next[idx+n].Variables) == relVar {
		n++
	}
	return n
}

// satFixpoint implements the Case A local fixpoint: saturate deeper first,
// then apply the n partitions anchored at this level in one chained pass,
// repeating until a full cycle adds nothing new.
func satFixpoint(mgr *tbdd.Manager, p *pool.Pool, next []*relation.Relation, cache *tbdd.Cache, set tbdd.Ref, idx, n int) tbdd.Ref {
	for {
		prev := set
		set = goSat(mgr, p, next, cache, set, idx+n)
		for i := 0; i < n; i++ {
			r := next[idx+i]
			step := mgr.RelNext(set, r.BDD, r.ReadVars)
			step = mgr.ExtendDomain(step, r.VarSet, r.SatdomSet)
			set = mgr.Or(set, step)
		}
		if set.SameSet(prev) {
			return set
		}
	}
}
