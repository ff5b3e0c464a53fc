// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package strategy implements the four reachability strategies of spec.md
// §4.4-4.6: BFS, PAR, SAT (saturation), and CHAINING. All four consume the
// same preprocessed relations and must agree on the final TBDD by structural
// equality (spec.md §8 "strategy equivalence").
package strategy

import (
	"github.com/dalzilio/tbdd-reach/internal/model"
	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// Reporter receives per-level progress callbacks during a run. A nil
// Reporter disables all reporting; strategies must tolerate it.
type Reporter interface {
	Level(n int, mgr *tbdd.Manager, visited tbdd.Ref, dom *tbdd.VarSet)
	Done(n int, mgr *tbdd.Manager, visited tbdd.Ref, dom *tbdd.VarSet)
}

// Result is the outcome of a single strategy run. Deadlocked is only
// populated when the caller asked BFS/PAR for deadlock detection; it is
// the zero Ref otherwise.
type Result struct {
	Visited    tbdd.Ref
	Levels     int
	Deadlocked tbdd.Ref
}

func report(rep Reporter, n int, mgr *tbdd.Manager, visited tbdd.Ref, dom *tbdd.VarSet) {
	if rep != nil {
		rep.Level(n, mgr, visited, dom)
	}
}

func reportDone(rep Reporter, n int, mgr *tbdd.Manager, visited tbdd.Ref, dom *tbdd.VarSet) {
	if rep != nil {
		rep.Done(n, mgr, visited, dom)
	}
}

// vectordomSet returns the VarSet of all even (current-state) variables of
// dom, the "vectordom" of spec.md §3.
func vectordomSet(dom model.Domain) *tbdd.VarSet {
	return tbdd.NewVarSet(dom.VectorDom())
}
