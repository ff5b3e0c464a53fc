// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package model

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/dalzilio/tbdd-reach/internal/tbdd"
)

// modelWriter accumulates a binary model file in the layout Load expects
// (spec.md §6.1), using a scratch Manager only to serialize TBDD blobs; the
// scratch Manager is never the one Load itself builds.
type modelWriter struct {
	buf bytes.Buffer
}

func (w *modelWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *modelWriter) blob(t *testing.T, mgr *tbdd.Manager, r tbdd.Ref) {
	t.Helper()
	if err := mgr.WriteBinary(&w.buf, r); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
}

// buildSingleCounterModel writes a one-component, one-bit model: vectorsize
// 1, statebits {1}, no action bits, full-domain initial projection, initial
// state "bit=1", and a single identity relation (bit' == bit).
func buildSingleCounterModel(t *testing.T) []byte {
	t.Helper()
	scratch, err := tbdd.New(2) // var0 = current bit, var1 = next bit
	if err != nil {
		t.Fatalf("tbdd.New: %v", err)
	}

	var w modelWriter
	w.u32(1)       // vectorsize
	w.u32(1)       // statebits[0]
	w.u32(0)       // actionbits
	w.u32(0xFFFFFFFF) // k = -1 (full-domain initial projection)

	initial := scratch.Ithvar(0) // bit = 1
	w.blob(t, scratch, initial)

	w.u32(1) // relation count

	w.u32(0) // r_k
	w.u32(0) // w_k
	// no r_proj/w_proj entries follow since both sizes are 0

	onPos := scratch.MakeNode(1, scratch.False(), scratch.True())
	onNeg := scratch.MakeNode(1, scratch.True(), scratch.False())
	identity := scratch.MakeNode(0, onNeg, onPos) // bit <-> bit'
	w.blob(t, scratch, identity)

	return w.buf.Bytes()
}

func TestLoadParsesSingleCounterModel(t *testing.T) {
	raw := buildSingleCounterModel(t)
	m, mgr, err := Load(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.Domain.VectorSize != 1 || m.Domain.TotalBits != 1 || m.Domain.ActionBits != 0 {
		t.Fatalf("Domain = %+v, want vectorsize=1 totalbits=1 actionbits=0", m.Domain)
	}
	if len(m.Relations) != 1 {
		t.Fatalf("len(Relations) = %d, want 1", len(m.Relations))
	}
	if m.Relations[0].RProj != nil || m.Relations[0].WProj != nil {
		t.Errorf("relation with r_k=w_k=0 should have nil projections, got r=%v w=%v",
			m.Relations[0].RProj, m.Relations[0].WProj)
	}

	want := mgr.Ithvar(0)
	if !m.Initial.BDD.SameSet(want) {
		t.Errorf("Initial.BDD = %+v, want the bit=1 cube", m.Initial.BDD)
	}

	fullDom := mgr.FromArray(m.Domain.VectorDom(), []bool{true})
	if !m.Initial.Variables.SameSet(fullDom) {
		t.Errorf("Initial.Variables should be the full vectordom cube for k=-1")
	}
}

func TestLoadRejectsTruncatedHeader(t *testing.T) {
	if _, _, err := Load(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Errorf("Load(truncated) succeeded, want an error")
	}
}

func TestLoadRejectsZeroVectorsize(t *testing.T) {
	var w modelWriter
	w.u32(0)
	if _, _, err := Load(bytes.NewReader(w.buf.Bytes())); err == nil {
		t.Errorf("Load(vectorsize=0) succeeded, want an error")
	}
}

func TestLoadWithExplicitInitialProjection(t *testing.T) {
	scratch, err := tbdd.New(4) // two components, 1 bit each
	if err != nil {
		t.Fatalf("tbdd.New: %v", err)
	}
	var w modelWriter
	w.u32(2) // vectorsize
	w.u32(1) // statebits[0]
	w.u32(1) // statebits[1]
	w.u32(0) // actionbits
	w.u32(1) // k = 1 (projected initial set over a single component)
	w.u32(0) // projection[0] = vector component 0

	initial := scratch.Ithvar(0)
	w.blob(t, scratch, initial)
	w.u32(0) // relation count

	m, mgr, err := Load(bytes.NewReader(w.buf.Bytes()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// projVars names vector-component 0, a 1-bit component, so it expands
	// to both its current and next-state variable (0 and 1).
	want := mgr.FromArray([]int32{0, 1}, []bool{true, true})
	if !m.Initial.Variables.SameSet(want) {
		t.Errorf("Initial.Variables with k=1 should be the single component's cube")
	}
	if len(m.Relations) != 0 {
		t.Errorf("len(Relations) = %d, want 0", len(m.Relations))
	}
}

// TestLoadExpandsMultiBitFirstComponent checks the initial projection's
// component-index-to-bit-variable expansion on a domain whose first
// component is wider than one bit, so a component index and its bit
// variable index diverge for every component after the first (component 1
// starts at bit-variable 4, not 1): a fixture where they happened to
// coincide would pass even with format.go reading projVars as raw
// bit-variable indices instead of expanding them via dom.ComponentVars.
func TestLoadExpandsMultiBitFirstComponent(t *testing.T) {
	scratch, err := tbdd.New(6) // component 0: 2 bits (vars 0-3), component 1: 1 bit (vars 4-5)
	if err != nil {
		t.Fatalf("tbdd.New: %v", err)
	}
	var w modelWriter
	w.u32(2) // vectorsize
	w.u32(2) // statebits[0]
	w.u32(1) // statebits[1]
	w.u32(0) // actionbits
	w.u32(1) // k = 1 (project onto component 1 alone)
	w.u32(1) // projVars[0] = component 1

	initial := scratch.Ithvar(4) // component 1's current-state bit set
	w.blob(t, scratch, initial)
	w.u32(0) // relation count

	m, mgr, err := Load(bytes.NewReader(w.buf.Bytes()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := mgr.FromArray([]int32{4, 5}, []bool{true, true})
	if !m.Initial.Variables.SameSet(want) {
		t.Errorf("Initial.Variables = %+v, want component 1's bit-variables {4,5}, not the raw index {1}", m.Initial.Variables)
	}
}

// TestLoadRejectsOutOfRangeInitialProjectionComponent checks the
// Format-error path (spec.md §7 kind 3) for a corrupt initial projection
// naming a vector component that does not exist.
func TestLoadRejectsOutOfRangeInitialProjectionComponent(t *testing.T) {
	var w modelWriter
	w.u32(1) // vectorsize
	w.u32(1) // statebits[0]
	w.u32(0) // actionbits
	w.u32(1) // k = 1
	w.u32(7) // projVars[0] = component 7, out of range

	if _, _, err := Load(bytes.NewReader(w.buf.Bytes())); err == nil {
		t.Error("Load with an out-of-range initial projection component should return an error")
	}
}
