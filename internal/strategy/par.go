// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package strategy

import (
	"github.com/dalzilio/tbdd-reach/internal/kernel"
	"github.com/dalzilio/tbdd-reach/internal/model"
	"github.com/dalzilio/tbdd-reach/internal/pool"
	"github.com/dalzilio/tbdd-reach/internal/relation"
	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// PAR is BFS with a worker pool threaded through kernel.Succ, so the
// recursion's left half is spawned on the pool while the right half runs
// inline (spec.md §4.4: "identical shape; differ only in whether the
// kernel spawns"). When deadlocks is set, Result.Deadlocked holds the
// visited states with no enabled transition under any partition (spec.md
// §6.2 `--deadlocks`).
func PAR(mgr *tbdd.Manager, p *pool.Pool, dom model.Domain, next []*relation.Relation, initial tbdd.Ref, rep Reporter, deadlocks bool) Result {
	vectordom := vectordomSet(dom)
	visited := initial
	front := initial
	level := 0
	report(rep, level, mgr, visited, vectordom)
	for !front.IsFalse() && len(next) > 0 {
		front = kernel.Succ(mgr, p, next, vectordom, front, visited, 0, len(next))
		visited = mgr.Or(visited, front)
		level++
		report(rep, level, mgr, visited, vectordom)
	}
	reportDone(rep, level, mgr, visited, vectordom)
	res := Result{Visited: visited, Levels: level}
	if deadlocks {
		res.Deadlocked = kernel.Deadlocked(mgr, next, vectordom, visited)
	}
	return res
}
