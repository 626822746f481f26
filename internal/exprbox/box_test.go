package exprbox

import "testing"

func TestBoxScalarIdentity(t *testing.T) {
	reg, intID, strID := newTestRegistry(t)

	i := New(intID, int64(42))
	if !i.IsType(intID) {
		t.Fatalf("expected IsType(intID)")
	}
	if i.IsType(strID) {
		t.Fatalf("did not expect IsType(strID)")
	}
	if i.IsArray() {
		t.Fatalf("scalar box reported as array")
	}
	if Unbox[int64](i) != 42 {
		t.Fatalf("Unbox mismatch")
	}
	_ = reg
}

func TestBoxUnboxWrongTypePanics(t *testing.T) {
	_, intID, _ := newTestRegistry(t)
	i := New(intID, int64(1))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic unboxing as wrong type")
		}
	}()
	Unbox[string](i)
}

func TestArrayAndScalarAreDistinctUnboxTargets(t *testing.T) {
	_, intID, _ := newTestRegistry(t)
	arr := NewArray(intID, []int64{1, 2, 3}, 3)

	if arr.IsType(intID) {
		t.Fatalf("array box must not satisfy IsType of its element type (open question #2)")
	}
	if !arr.IsArrayOf(intID) {
		t.Fatalf("expected IsArrayOf(intID)")
	}
	if UnboxElement[int64](arr, 1) != 2 {
		t.Fatalf("UnboxElement mismatch")
	}
}

func TestUnboxElementOutOfRangePanics(t *testing.T) {
	_, intID, _ := newTestRegistry(t)
	arr := NewArray(intID, []int64{1, 2, 3}, 3)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range index")
		}
	}()
	UnboxElement[int64](arr, 5)
}

func TestEqualsIsNestedByTypeThenValue(t *testing.T) {
	reg, intID, strID := newTestRegistry(t)

	a := New(intID, int64(1))
	b := New(intID, int64(1))
	c := New(intID, int64(2))
	s := New(strID, "1")

	if !Equals(reg, a, b) {
		t.Fatalf("expected equal same-type same-value boxes")
	}
	if Equals(reg, a, c) {
		t.Fatalf("expected unequal same-type different-value boxes")
	}
	if Equals(reg, a, s) {
		t.Fatalf("cross-type boxes must never be equal")
	}
}

func TestHeterogeneousStrictTotalOrder(t *testing.T) {
	reg, intID, strID := newTestRegistry(t)

	boxes := []Box{
		New(intID, int64(5)),
		New(strID, "z"),
		New(intID, int64(1)),
		New(strID, "a"),
	}

	for i := range boxes {
		for j := range boxes {
			if i == j {
				continue
			}
			x, y := boxes[i], boxes[j]
			lt, gt, eq := Less(reg, x, y), Less(reg, y, x), Equals(reg, x, y)
			count := 0
			if lt {
				count++
			}
			if gt {
				count++
			}
			if eq {
				count++
			}
			if count != 1 {
				t.Fatalf("strict total order violated for pair (%d,%d): lt=%v gt=%v eq=%v", i, j, lt, gt, eq)
			}
		}
	}
}

func TestIsTrueNullIsFalse(t *testing.T) {
	reg, intID, _ := newTestRegistry(t)
	if IsTrue(reg, Null) {
		t.Fatalf("null box must not be true")
	}
	if !IsTrue(reg, New(intID, int64(1))) {
		t.Fatalf("non-zero int box must be true")
	}
	if IsTrue(reg, New(intID, int64(0))) {
		t.Fatalf("zero int box must be false")
	}
}
