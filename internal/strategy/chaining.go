// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package strategy

import (
	"github.com/dalzilio/tbdd-reach/internal/model"
	"github.com/dalzilio/tbdd-reach/internal/relation"
	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// Chaining applies every partition sequentially within one iteration, each
// partition seeing the successors its predecessor already produced
// (spec.md §4.6). It does not support deadlock detection: the caller is
// responsible for rejecting --deadlocks with chaining before calling this
// (spec.md §6.2, §9 "Open questions").
func Chaining(mgr *tbdd.Manager, dom model.Domain, next []*relation.Relation, initial tbdd.Ref, rep Reporter) Result {
	vectordom := vectordomSet(dom)
	visited := initial
	level := 0
	report(rep, level, mgr, visited, vectordom)
	for {
		nextLevel := visited
		for _, r := range next {
			succ := mgr.RelNext(nextLevel, r.BDD, r.ReadVars)
			succ = mgr.ExtendDomain(succ, r.VarSet, vectordom)
			nextLevel = mgr.Or(nextLevel, succ)
		}
		nextLevel = mgr.Diff(nextLevel, visited)
		visited = mgr.Or(visited, nextLevel)
		level++
		report(rep, level, mgr, visited, vectordom)
		if nextLevel.IsFalse() {
			break
		}
	}
	reportDone(rep, level, mgr, visited, vectordom)
	return Result{Visited: visited, Levels: level}
}
