// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

import "testing"

func TestSatCountSingleLiteral(t *testing.T) {
	m := mustManager(t, 3)
	a := m.Ithvar(0)
	if got, want := m.SatCount(a).Int64(), int64(4); got != want {
		t.Errorf("SatCount(x0) over 3 vars = %d, want %d", got, want)
	}
}

func TestSatCountConstants(t *testing.T) {
	m := mustManager(t, 3)
	if got, want := m.SatCount(m.True()).Int64(), int64(8); got != want {
		t.Errorf("SatCount(true) over 3 vars = %d, want %d", got, want)
	}
	if got, want := m.SatCount(m.False()).Int64(), int64(0); got != want {
		t.Errorf("SatCount(false) = %d, want %d", got, want)
	}
}

func TestSatCountConjunctionWithGap(t *testing.T) {
	m := mustManager(t, 4)
	a := m.Ithvar(0)
	b := m.Ithvar(2)
	and := m.And(a, b)
	if got, want := m.SatCount(and).Int64(), int64(4); got != want {
		t.Errorf("SatCount(x0 && x2) over 4 vars = %d, want %d", got, want)
	}
}

func TestNodeCountSharesCommonSubgraph(t *testing.T) {
	m := mustManager(t, 2)
	a := m.Ithvar(0)
	b := m.Ithvar(1)
	ab := m.And(a, b)
	ba := m.And(b, a) // must hit the same unique-table entries as ab

	if n := m.NodeCount(ab); n != 2 {
		t.Errorf("NodeCount(x0&&x1) = %d, want 2", n)
	}
	if n := m.NodeCount(ab, ba); n != 2 {
		t.Errorf("NodeCount(x0&&x1, x1&&x0) = %d, want 2 (shared nodes)", n)
	}
}

func TestEnumFirstMatchesConjunction(t *testing.T) {
	m := mustManager(t, 4)
	a := m.Ithvar(0)
	b := m.Ithvar(2)
	and := m.And(a, b)

	prof := m.EnumFirst(and)
	if prof == nil {
		t.Fatalf("EnumFirst(x0&&x2) returned nil")
	}
	if prof[0] != 1 || prof[2] != 1 {
		t.Errorf("EnumFirst(x0&&x2) = %v, want bits 0 and 2 set to 1", prof)
	}
	if prof[1] != -1 || prof[3] != -1 {
		t.Errorf("EnumFirst(x0&&x2) = %v, want bits 1 and 3 free", prof)
	}
}

func TestEnumFirstFalseIsNil(t *testing.T) {
	m := mustManager(t, 2)
	if prof := m.EnumFirst(m.False()); prof != nil {
		t.Errorf("EnumFirst(false) = %v, want nil", prof)
	}
}
