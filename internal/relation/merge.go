// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package relation

import (
	"github.com/dalzilio/tbdd-reach/internal/model"
	"github.com/dalzilio/tbdd-reach/internal/pool"
	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// Merge implements the optional `--merge-relations` preprocessing step of
// spec.md §4.2: extend every partition to the full interleaved domain with
// extend_relation, then union them all into a single partition via
// big_union's divide-and-conquer OR (spec.md §4.2 step 3, §4.3). p may be
// nil, collapsing the recursion to sequential halves.
func Merge(mgr *tbdd.Manager, p *pool.Pool, dom model.Domain, next []*Relation) []*Relation {
	if len(next) == 0 {
		return next
	}
	full := make([]int32, 0, dom.Varnum())
	for v := int32(0); v < int32(dom.Varnum()); v++ {
		full = append(full, v)
	}
	fullSet := tbdd.NewVarSet(full)
	fullVars := mgr.FromArray(full, allTrue(len(full)))

	extended := make([]tbdd.Ref, len(next))
	for i, r := range next {
		extended[i] = extendRelation(mgr, dom, r)
	}

	union := bigUnion(mgr, p, extended, 0, len(extended))

	merged := &Relation{
		BDD:       union,
		Variables: fullVars,
		VarSet:    fullSet,
		ReadVars:  evenHalf(full),
		WriteVars: oddHalf(full),
		RProj:     allComponents(dom),
		WProj:     allComponents(dom),
		Satdom:    mgr.FromArray(dom.VectorDom(), allTrue(dom.TotalBits)),
		SatdomSet: tbdd.NewVarSet(dom.VectorDom()),
	}
	return []*Relation{merged}
}

// bigUnion computes the divide-and-conquer OR of refs[first:first+count],
// spawning the left half on p while the right half runs inline, per
// spec.md §4.3's big_union. It lives here rather than in internal/kernel
// because kernel already depends on this package (for Succ's []*Relation
// argument) and Merge cannot import back without a cycle; the shape is
// otherwise identical to kernel.Succ's own divide-and-conquer.
func bigUnion(mgr *tbdd.Manager, p *pool.Pool, refs []tbdd.Ref, first, count int) tbdd.Ref {
	if count == 1 {
		return refs[first]
	}
	half := count / 2
	if p == nil {
		left := bigUnion(mgr, nil, refs, first, half)
		right := bigUnion(mgr, nil, refs, first+half, count-half)
		return mgr.Or(left, right)
	}
	left, right, _ := pool.Fork(p,
		func() (tbdd.Ref, error) { return bigUnion(mgr, p, refs, first, half), nil },
		func() (tbdd.Ref, error) { return bigUnion(mgr, p, refs, first+half, count-half), nil },
	)
	return mgr.Or(left, right)
}

// extendRelation implements spec.md §4.2's extend_relation: conjoin an
// identity constraint over every vector component absent from the
// partition's own variable set, then retag against the full domain.
func extendRelation(mgr *tbdd.Manager, dom model.Domain, r *Relation) tbdd.Ref {
	present := make(map[int]bool, len(r.RProj)+len(r.WProj))
	for _, c := range r.RProj {
		present[c] = true
	}
	for _, c := range r.WProj {
		present[c] = true
	}
	full := make([]int32, 0, dom.Varnum())
	for v := int32(0); v < int32(dom.Varnum()); v++ {
		full = append(full, v)
	}
	fullSet := tbdd.NewVarSet(full)

	eq := mgr.IdentityConstraint(present, dom.VectorSize)
	extended := mgr.ExtendDomain(r.BDD, r.VarSet, fullSet)
	return mgr.And(extended, eq)
}

func evenHalf(vars []int32) *tbdd.VarSet {
	out := make([]int32, 0, len(vars)/2)
	for _, v := range vars {
		if v%2 == 0 {
			out = append(out, v)
		}
	}
	return tbdd.NewVarSet(out)
}

func oddHalf(vars []int32) *tbdd.VarSet {
	out := make([]int32, 0, len(vars)/2)
	for _, v := range vars {
		if v%2 != 0 {
			out = append(out, v)
		}
	}
	return tbdd.NewVarSet(out)
}

func allComponents(dom model.Domain) []int {
	out := make([]int, dom.VectorSize)
	for i := range out {
		out[i] = i
	}
	return out
}
