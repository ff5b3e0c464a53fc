// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package kernel implements the per-level successor kernel shared by the
// BFS and PAR strategies (spec.md §4.3): a divide-and-conquer union of each
// partition's image of the current frontier, minus the states already
// visited.
package kernel

import (
	"github.com/dalzilio/tbdd-reach/internal/pool"
	"github.com/dalzilio/tbdd-reach/internal/relation"
	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// Succ computes the union, over next[from:from+len]'s partitions, of the
// image of cur through each partition minus the already-visited states,
// per spec.md §4.3. Its divide-and-conquer shape mirrors big_union
// (internal/relation's unexported bigUnion, used by Merge): when p is nil
// the two halves run sequentially (BFS), otherwise the left half is spawned
// on p while the right half runs inline (PAR).
//
// The base case computes relnext(cur, next[from].bdd, next[from].variables,
// vectordom): Manager.RelNext forms the relational product and quantifies
// the partition's current-state variables in one AppEx pass, producing a
// result anchored at the partition's own (narrow) variable set; ExtendDomain
// then re-anchors it against the full interleaved state domain, vectordom,
// before it is ever compared against or unioned with visited (which always
// carries a vectordom-wide tag). Finally the states already in visited are
// subtracted from the partition's image.
func Succ(mgr *tbdd.Manager, p *pool.Pool, next []*relation.Relation, vectordom *tbdd.VarSet, cur, visited tbdd.Ref, from, ln int) tbdd.Ref {
	if ln == 1 {
		r := next[from]
		img := mgr.RelNext(cur, r.BDD, r.ReadVars)
		img = mgr.ExtendDomain(img, r.VarSet, vectordom)
		return mgr.Diff(img, visited)
	}
	half := ln / 2
	if p == nil {
		left := Succ(mgr, nil, next, vectordom, cur, visited, from, half)
		right := Succ(mgr, nil, next, vectordom, cur, visited, from+half, ln-half)
		return mgr.Or(left, right)
	}
	left, right, _ := pool.Fork(p,
		func() (tbdd.Ref, error) {
			return Succ(mgr, p, next, vectordom, cur, visited, from, half), nil
		},
		func() (tbdd.Ref, error) {
			return Succ(mgr, p, next, vectordom, cur, visited, from+half, ln-half), nil
		},
	)
	return mgr.Or(left, right)
}
