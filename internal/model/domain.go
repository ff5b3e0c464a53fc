// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package model holds the immutable domain metadata and loader for the
// binary model file format of spec.md §3/§6.1.
package model

// Domain is the process-wide, immutable-after-load metadata describing a
// state vector's shape (spec.md §3 "Domain metadata").
type Domain struct {
	VectorSize int
	StateBits  []int
	ActionBits int
	TotalBits  int
}

// NewDomain computes TotalBits from statebits; it does not validate the
// individual bit counts.
func NewDomain(statebits []int, actionbits int) Domain {
	total := 0
	for _, b := range statebits {
		total += b
	}
	return Domain{
		VectorSize: len(statebits),
		StateBits:  statebits,
		ActionBits: actionbits,
		TotalBits:  total,
	}
}

// Varnum returns the number of interleaved even/odd Boolean variables
// needed to represent the full state vector (current + next copies).
func (d Domain) Varnum() int { return 2 * d.TotalBits }

// VectorDom returns the even-indexed variable levels {0, 2, 4, ...},
// the "current state" half of the interleaved domain (spec.md §3
// "vectordom").
func (d Domain) VectorDom() []int32 {
	out := make([]int32, d.TotalBits)
	for i := range out {
		out[i] = int32(2 * i)
	}
	return out
}

// ComponentVars returns the even/odd variable range [lo, hi) covering
// vector component i: lo is its first current-state variable, hi is one
// past its last next-state variable.
func (d Domain) ComponentVars(i int) (lo, hi int32) {
	base := 0
	for k := 0; k < i; k++ {
		base += d.StateBits[k]
	}
	lo = int32(2 * base)
	hi = int32(2 * (base + d.StateBits[i]))
	return lo, hi
}
