// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package kernel

import (
	"github.com/dalzilio/tbdd-reach/internal/relation"
	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// Deadlocked returns the subset of visited with no enabled transition under
// any partition: a state is deadlocked if no partition's relnext yields a
// successor (--deadlocks, BFS/PAR only). A partition's guard -- the states
// from which it can fire at all -- is the existential projection of its
// relation onto its own current-state variables, i.e. the same relational
// product RelNext forms, but quantifying away the partition's next-state
// (odd) variables instead of the frontier's current-state ones, so what
// survives is exactly "does some successor exist" rather than "what is it".
func Deadlocked(mgr *tbdd.Manager, next []*relation.Relation, vectordom *tbdd.VarSet, visited tbdd.Ref) tbdd.Ref {
	enabled := mgr.False()
	mgr.Protect(enabled.Node)
	for _, r := range next {
		guard := mgr.Exist(r.BDD, r.WriteVars)
		mgr.Protect(guard.Node)
		guard = mgr.ExtendDomain(guard, r.VarSet, vectordom)
		union := mgr.Or(enabled, guard)
		mgr.Unprotect(enabled.Node, guard.Node)
		mgr.Protect(union.Node)
		enabled = union
	}
	mgr.Unprotect(enabled.Node)
	return mgr.Diff(visited, enabled)
}
