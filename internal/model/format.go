// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package model

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// RawRelation is a transition-relation partition exactly as read off disk,
// before the preprocessor (internal/relation) computes its derived fields.
type RawRelation struct {
	BDD   tbdd.Ref
	RProj []int
	WProj []int
}

// State is a pair (bdd, variables): a TBDD and the domain it is meant to be
// interpreted and counted over (spec.md §3 "State set").
type State struct {
	BDD       tbdd.Ref
	Variables tbdd.Ref
}

// Model is the fully-loaded content of a binary model file (spec.md §6.1),
// before relation preprocessing.
type Model struct {
	Domain    Domain
	Initial   State
	Relations []RawRelation
}

// Load reads a binary model file from r, header first, and builds a
// tbdd.Manager sized to exactly the domain the header describes before
// decoding any TBDD blob — the vectorsize/statebits/actionbits fields are
// themselves part of the stream Load is parsing, so the Manager cannot
// exist before they are known. It returns both the parsed Model and the
// Manager that owns every TBDD reference inside it, since every later
// pipeline stage (preprocessing, strategies, reporting) needs the same
// Manager. Any short read or malformed field aborts with an error, per
// spec.md §4.1/§7 (no partial or best-effort result).
func Load(r io.Reader, opts ...tbdd.Option) (*Model, *tbdd.Manager, error) {
	var hdr [1]uint32
	if err := readFields(r, hdr[:]); err != nil {
		return nil, nil, fmt.Errorf("model: reading vectorsize: %w", err)
	}
	vectorsize := int(hdr[0])
	if vectorsize <= 0 {
		return nil, nil, fmt.Errorf("model: invalid vectorsize %d", vectorsize)
	}

	rawbits := make([]uint32, vectorsize)
	if err := readFields(r, rawbits); err != nil {
		return nil, nil, fmt.Errorf("model: reading statebits: %w", err)
	}
	statebits := make([]int, vectorsize)
	for i, v := range rawbits {
		statebits[i] = int(v)
	}

	var actionHdr [1]uint32
	if err := readFields(r, actionHdr[:]); err != nil {
		return nil, nil, fmt.Errorf("model: reading actionbits: %w", err)
	}
	dom := NewDomain(statebits, int(actionHdr[0]))

	mgr, err := tbdd.New(dom.Varnum(), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("model: building manager: %w", err)
	}

	var kHdr [1]uint32
	if err := readFields(r, kHdr[:]); err != nil {
		return nil, nil, fmt.Errorf("model: reading initial projection size: %w", err)
	}
	k := int32(kHdr[0])
	if k < -1 {
		return nil, nil, fmt.Errorf("model: invalid initial projection size %d", k)
	}
	var projVars []int32
	if k != -1 {
		raw := make([]uint32, k)
		if err := readFields(r, raw); err != nil {
			return nil, nil, fmt.Errorf("model: reading initial projection: %w", err)
		}
		projVars = make([]int32, 0, k)
		for _, v := range raw {
			comp := int(v)
			if comp < 0 || comp >= dom.VectorSize {
				return nil, nil, fmt.Errorf("model: initial projection component %d out of range [0,%d)", comp, dom.VectorSize)
			}
			lo, hi := dom.ComponentVars(comp)
			for bv := lo; bv < hi; bv++ {
				projVars = append(projVars, bv)
			}
		}
	}

	initBDD, err := mgr.ReadFromBinary(r)
	if err != nil {
		return nil, nil, fmt.Errorf("model: reading initial state blob: %w", err)
	}
	var varsBDD tbdd.Ref
	if k == -1 {
		varsBDD = mgr.FromArray(dom.VectorDom(), allTrue(dom.TotalBits))
	} else {
		varsBDD = mgr.FromArray(projVars, allTrue(len(projVars)))
	}

	var cntHdr [1]uint32
	if err := readFields(r, cntHdr[:]); err != nil {
		return nil, nil, fmt.Errorf("model: reading relation count: %w", err)
	}
	count := int(cntHdr[0])
	relations := make([]RawRelation, count)
	for i := 0; i < count; i++ {
		var sizes [2]uint32
		if err := readFields(r, sizes[:]); err != nil {
			return nil, nil, fmt.Errorf("model: reading relation %d projection sizes: %w", i, err)
		}
		rk, wk := int(sizes[0]), int(sizes[1])
		rproj, err := readProj(r, rk)
		if err != nil {
			return nil, nil, fmt.Errorf("model: reading relation %d r_proj: %w", i, err)
		}
		wproj, err := readProj(r, wk)
		if err != nil {
			return nil, nil, fmt.Errorf("model: reading relation %d w_proj: %w", i, err)
		}
		relations[i].RProj = rproj
		relations[i].WProj = wproj
	}
	for i := 0; i < count; i++ {
		blob, err := mgr.ReadFromBinary(r)
		if err != nil {
			return nil, nil, fmt.Errorf("model: reading relation %d blob: %w", i, err)
		}
		relations[i].BDD = blob
	}

	return &Model{
		Domain:    dom,
		Initial:   State{BDD: initBDD, Variables: varsBDD},
		Relations: relations,
	}, mgr, nil
}

func readProj(r io.Reader, n int) ([]int, error) {
	if n == 0 {
		return nil, nil
	}
	raw := make([]uint32, n)
	if err := readFields(r, raw); err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i, v := range raw {
		out[i] = int(v)
	}
	return out, nil
}

func readFields(r io.Reader, out []uint32) error {
	buf := make([]byte, 4*len(out))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("short read: %w", err)
	}
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	return nil
}

func allTrue(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}
