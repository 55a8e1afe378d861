package vm

import (
	"testing"
)

func intList(vm *VM, ns ...int64) *ListObject {
	items := make([]Value, len(ns))
	for i, n := range ns {
		items[i] = vm.NewInt(n)
	}
	return ListObjectFromValue(vm.NewList(items...))
}

func listInts(t *testing.T, v Value) []int64 {
	t.Helper()
	l := ListObjectFromValue(v)
	if l == nil {
		t.Fatal("not a list")
	}
	out := make([]int64, len(l.Items))
	for i, item := range l.Items {
		n, ok := AsInt64(item)
		if !ok {
			t.Fatalf("item %d is not an int", i)
		}
		out[i] = n
	}
	return out
}

func equalInts(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Indexing
// ---------------------------------------------------------------------------

func TestListGetItem(t *testing.T) {
	vm := NewVM()
	l := intList(vm, 10, 20, 30)

	v, err := l.GetItem(vm, vm.NewInt(1))
	if err != nil {
		t.Fatalf("GetItem(1): %v", err)
	}
	if n, _ := AsInt64(v); n != 20 {
		t.Errorf("l[1] = %v, want 20", n)
	}

	v, err = l.GetItem(vm, vm.NewInt(-1))
	if err != nil {
		t.Fatalf("GetItem(-1): %v", err)
	}
	if n, _ := AsInt64(v); n != 30 {
		t.Errorf("l[-1] = %v, want 30", n)
	}

	_, err = l.GetItem(vm, vm.NewInt(3))
	if !IsKind(err, IndexOutOfRange) {
		t.Errorf("l[3] error = %v, want IndexOutOfRange", err)
	}
	_, err = l.GetItem(vm, vm.NewString("x"))
	if !IsKind(err, TypeConversion) {
		t.Errorf("l['x'] error = %v, want TypeConversion", err)
	}
}

func TestListGetItemViaIndexHook(t *testing.T) {
	vm := NewVM()
	l := intList(vm, 10, 20, 30)
	class := vm.NewClass("IndexLike", nil)
	class.AddMethod("__index__", func(vm *VM, recv Value, args []Value) (Value, error) {
		return vm.NewInt(2), nil
	})
	v, err := l.GetItem(vm, vm.NewInstance(class).ToValue())
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if n, _ := AsInt64(v); n != 30 {
		t.Errorf("l[IndexLike] = %v, want 30", n)
	}
}

// ---------------------------------------------------------------------------
// Slicing
// ---------------------------------------------------------------------------

func TestListGetSlice(t *testing.T) {
	vm := NewVM()
	l := intList(vm, 0, 1, 2, 3, 4)
	tests := []struct {
		args []Value
		want []int64
	}{
		{[]Value{None, None, vm.NewInt(-1)}, []int64{4, 3, 2, 1, 0}},
		{[]Value{vm.NewInt(1), vm.NewInt(10), vm.NewInt(3)}, []int64{1, 4}},
		{[]Value{vm.NewInt(-100), vm.NewInt(100)}, []int64{0, 1, 2, 3, 4}},
		{[]Value{vm.NewInt(5)}, []int64{0, 1, 2, 3, 4}},
		{[]Value{vm.NewInt(3), vm.NewInt(1)}, nil},
		{[]Value{None, None, vm.NewInt(2)}, []int64{0, 2, 4}},
		{[]Value{None, None, vm.NewInt(-2)}, []int64{4, 2, 0}},
	}
	for _, tt := range tests {
		s := mustSlice(t, vm, tt.args...)
		res, err := l.GetSlice(vm, s)
		if err != nil {
			t.Fatalf("GetSlice: %v", err)
		}
		got := listInts(t, res)
		if !equalInts(got, tt.want) {
			repr, _ := s.Repr(vm)
			t.Errorf("l[%s] = %v, want %v", repr, got, tt.want)
		}
	}
}

func TestListGetSliceZeroStep(t *testing.T) {
	vm := NewVM()
	l := intList(vm, 1, 2, 3)
	s := mustSlice(t, vm, None, None, vm.NewInt(0))
	_, err := l.GetSlice(vm, s)
	if !IsKind(err, InvalidArgument) {
		t.Errorf("error = %v, want InvalidArgument", err)
	}
}

func TestListSliceResolvesBeforeMeasuring(t *testing.T) {
	vm := NewVM()
	// A bound's __index__ hook shrinks the list being sliced. All bounds
	// must resolve before the length is read, so the adjustment sees the
	// post-mutation length and the walk stays in bounds.
	l := intList(vm, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	class := vm.NewClass("ShrinkingBound", nil)
	class.AddMethod("__index__", func(vm *VM, recv Value, args []Value) (Value, error) {
		l.Items = l.Items[:3]
		return vm.NewInt(9), nil
	})
	s := mustSlice(t, vm, None, vm.NewInstance(class).ToValue())
	res, err := l.GetSlice(vm, s)
	if err != nil {
		t.Fatalf("GetSlice: %v", err)
	}
	got := listInts(t, res)
	if !equalInts(got, []int64{0, 1, 2}) {
		t.Errorf("slice of shrunk list = %v, want [0 1 2]", got)
	}
}

func TestListSliceGrowingDuringResolve(t *testing.T) {
	vm := NewVM()
	l := intList(vm, 0, 1, 2)
	class := vm.NewClass("GrowingBound", nil)
	class.AddMethod("__index__", func(vm *VM, recv Value, args []Value) (Value, error) {
		l.Items = append(l.Items, vm.NewInt(3), vm.NewInt(4))
		return vm.NewInt(100), nil
	})
	s := mustSlice(t, vm, None, vm.NewInstance(class).ToValue())
	res, err := l.GetSlice(vm, s)
	if err != nil {
		t.Fatalf("GetSlice: %v", err)
	}
	got := listInts(t, res)
	if !equalInts(got, []int64{0, 1, 2, 3, 4}) {
		t.Errorf("slice of grown list = %v, want [0 1 2 3 4]", got)
	}
}
