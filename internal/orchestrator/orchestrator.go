// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package orchestrator wires the model loader, relation preprocessor,
// strategy engine, and progress reporter together per the CLI surface of
// spec.md §6.2.
package orchestrator

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/dalzilio/tbdd-reach/internal/model"
	"github.com/dalzilio/tbdd-reach/internal/pool"
	"github.com/dalzilio/tbdd-reach/internal/relation"
	"github.com/dalzilio/tbdd-reach/internal/report"
	"github.com/dalzilio/tbdd-reach/internal/strategy"
)

// Strategy names accepted by the -s flag.
const (
	BFS      = "bfs"
	PAR      = "par"
	SAT      = "sat"
	Chaining = "chaining"
)

// Options mirrors the CLI flags of spec.md §6.2.
type Options struct {
	Strategy       string
	Workers        int
	Deadlocks      bool
	CountStates    bool
	CountTable     bool
	CountNodes     bool
	MergeRelations bool
	PrintMatrix    bool
}

// Run loads the model at modelPath, preprocesses its relations, executes
// the configured strategy, and writes progress/summary output to out. It
// returns a non-nil error for every "abort" condition of spec.md §7
// (usage, I/O, format, invariant violation); the caller is expected to
// translate that into a process exit code. The returned Result is the
// strategy's result (final visited set, level count, deadlocked set), for
// callers such as tests that need it after Run writes its report.
func Run(out io.Writer, modelPath string, opts Options) (strategy.Result, error) {
	switch opts.Strategy {
	case BFS, PAR, SAT, Chaining:
	default:
		return strategy.Result{}, fmt.Errorf("orchestrator: unknown strategy %q", opts.Strategy)
	}
	if opts.Deadlocks && (opts.Strategy == SAT || opts.Strategy == Chaining) {
		return strategy.Result{}, fmt.Errorf("orchestrator: --deadlocks is not supported by strategy %q", opts.Strategy)
	}

	f, err := os.Open(modelPath)
	if err != nil {
		return strategy.Result{}, fmt.Errorf("orchestrator: opening model: %w", err)
	}
	defer f.Close()

	m, mgr, err := model.Load(f)
	if err != nil {
		return strategy.Result{}, fmt.Errorf("orchestrator: loading model: %w", err)
	}

	next, err := relation.Preprocess(mgr, m.Domain, m.Relations)
	if err != nil {
		return strategy.Result{}, fmt.Errorf("orchestrator: %w", err)
	}

	if opts.PrintMatrix {
		rprojs := make([][]int, len(m.Relations))
		wprojs := make([][]int, len(m.Relations))
		for i, r := range m.Relations {
			rprojs[i] = r.RProj
			wprojs[i] = r.WProj
		}
		report.PrintMatrix(out, m.Domain.VectorSize, rprojs, wprojs)
	}

	p := pool.New(opts.Workers)

	if opts.Strategy == SAT || opts.Strategy == Chaining {
		relation.SortByLeadingVar(mgr, next)
	}
	if opts.MergeRelations {
		next = relation.Merge(mgr, p, m.Domain, next)
		if opts.Strategy == SAT || opts.Strategy == Chaining {
			relation.SortByLeadingVar(mgr, next)
		}
	}

	rep := report.New(out, opts.CountStates, opts.CountTable, opts.CountNodes)

	var res strategy.Result
	switch opts.Strategy {
	case BFS:
		res = strategy.BFS(mgr, m.Domain, next, m.Initial.BDD, rep, opts.Deadlocks)
	case PAR:
		res = strategy.PAR(mgr, p, m.Domain, next, m.Initial.BDD, rep, opts.Deadlocks)
	case SAT:
		res = strategy.SAT(mgr, p, m.Domain, next, m.Initial.BDD, rep)
	case Chaining:
		res = strategy.Chaining(mgr, m.Domain, next, m.Initial.BDD, rep)
	}
	if opts.CountNodes {
		for i, r := range next {
			fmt.Fprintf(out, "partition %d: %d nodes\n", i, mgr.NodeCount(r.BDD))
		}
	}
	if opts.Deadlocks {
		// SatCount ranges over both halves of the interleaved domain; the
		// TotalBits next-state variables are unconstrained, so shift them out.
		deadlocked := new(big.Int).Rsh(mgr.SatCount(res.Deadlocked), uint(m.Domain.TotalBits))
		fmt.Fprintf(out, "deadlocked states: %s\n", humanize.BigComma(deadlocked))
	}
	return res, nil
}
