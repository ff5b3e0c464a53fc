// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package relation implements the relation preprocessor of spec.md §4.2:
// it turns the raw (bdd, r_proj, w_proj) triples read off disk into fully
// derived partitions carrying their variable domain and saturation domain.
package relation

import (
	"fmt"

	"github.com/dalzilio/tbdd-reach/internal/model"
	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// Relation is a single partition of the transition relation, with every
// field of spec.md §3 "Relation" filled in.
type Relation struct {
	BDD       tbdd.Ref
	Variables tbdd.Ref
	VarSet    *tbdd.VarSet // even+odd variables this partition reads or writes
	ReadVars  *tbdd.VarSet // even (current-state) variables this partition reads
	WriteVars *tbdd.VarSet // odd (next-state) variables this partition writes
	RProj     []int
	WProj     []int
	Satdom    tbdd.Ref
	SatdomSet *tbdd.VarSet
}

// Validate checks that every component index named in r's projections is a
// valid vector component (spec.md §7 kind 3 "Format" error), before any of
// it reaches dom.ComponentVars's unchecked index arithmetic.
func Validate(dom model.Domain, r model.RawRelation) error {
	for _, comp := range r.RProj {
		if comp < 0 || comp >= dom.VectorSize {
			return fmt.Errorf("relation: r_proj component %d out of range [0,%d)", comp, dom.VectorSize)
		}
	}
	for _, comp := range r.WProj {
		if comp < 0 || comp >= dom.VectorSize {
			return fmt.Errorf("relation: w_proj component %d out of range [0,%d)", comp, dom.VectorSize)
		}
	}
	return nil
}

// Preprocess derives Variables/VarSet/ReadVars/Satdom for every raw
// relation, per the "Variable set computation" and "satdom computation"
// rules of spec.md §4.2. It returns a Format/Invariant error (spec.md §7
// kinds 3/4) on the first malformed relation rather than letting a bad
// component index or an odd leading variable go undetected.
func Preprocess(mgr *tbdd.Manager, dom model.Domain, raw []model.RawRelation) ([]*Relation, error) {
	out := make([]*Relation, len(raw))
	for i, r := range raw {
		rel, err := preprocessOne(mgr, dom, r)
		if err != nil {
			return nil, fmt.Errorf("relation: preprocessing relation %d: %w", i, err)
		}
		out[i] = rel
	}
	return out, nil
}

func mergeProj(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, v := range a {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func preprocessOne(mgr *tbdd.Manager, dom model.Domain, r model.RawRelation) (*Relation, error) {
	if err := Validate(dom, r); err != nil {
		return nil, err
	}

	aproj := mergeProj(r.RProj, r.WProj)

	var vars []int32
	var readVars []int32
	var writeVars []int32
	for _, comp := range aproj {
		lo, hi := dom.ComponentVars(comp)
		for v := lo; v < hi; v++ {
			vars = append(vars, v)
			if v%2 == 0 {
				readVars = append(readVars, v)
			} else {
				writeVars = append(writeVars, v)
			}
		}
	}
	varset := tbdd.NewVarSet(vars)
	if varset.First() != tbdd.NoVar && varset.First()%2 != 0 {
		return nil, fmt.Errorf("relation: computed variable set leads with odd variable %d (spec.md §9 \"first variable even\")", varset.First())
	}

	top := int32(0)
	if varset.First() != tbdd.NoVar {
		top = varset.First() / 2
	}
	var satdomVars []int32
	for c := int(top); c < dom.TotalBits; c++ {
		satdomVars = append(satdomVars, int32(2*c))
	}

	satdomSet := tbdd.NewVarSet(satdomVars)
	variablesRef := mgr.FromArray(vars, allTrue(len(vars)))
	satdomRef := mgr.FromArray(satdomVars, allTrue(len(satdomVars)))

	return &Relation{
		BDD:       r.BDD,
		Variables: variablesRef,
		VarSet:    varset,
		ReadVars:  tbdd.NewVarSet(readVars),
		WriteVars: tbdd.NewVarSet(writeVars),
		RProj:     r.RProj,
		WProj:     r.WProj,
		Satdom:    satdomRef,
		SatdomSet: satdomSet,
	}, nil
}

func allTrue(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}
