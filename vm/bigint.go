package vm

import (
	"math/big"
)

// ---------------------------------------------------------------------------
// Integers
// ---------------------------------------------------------------------------
//
// Integers are a two-arm union: values that fit the 48-bit NaN-boxed
// SmallInt range stay immediate; anything larger is heap-allocated as a
// BigIntObject wrapping a math/big.Int. Arithmetic that can exceed the
// small range goes through NewBigInt, which renormalizes downward.

// BigIntObject is a heap-allocated arbitrary-precision integer.
type BigIntObject struct {
	Object
	Int *big.Int
}

// NewInt creates an integer value from an int64.
func (vm *VM) NewInt(n int64) Value {
	if v, ok := TryFromSmallInt(n); ok {
		return v
	}
	return vm.newBigIntObject(big.NewInt(n))
}

// NewBigInt creates an integer value from a big.Int, renormalizing to a
// SmallInt when the value fits. The big.Int is not retained if so.
func (vm *VM) NewBigInt(x *big.Int) Value {
	if x.IsInt64() {
		if v, ok := TryFromSmallInt(x.Int64()); ok {
			return v
		}
	}
	return vm.newBigIntObject(new(big.Int).Set(x))
}

func (vm *VM) newBigIntObject(x *big.Int) Value {
	obj := &BigIntObject{
		Object: Object{class: vm.IntClass, kind: KindBigInt},
		Int:    x,
	}
	vm.keepAlive[&obj.Object] = struct{}{}
	return obj.ToValue()
}

// IsInt returns true if v is an integer (small or big).
func IsInt(v Value) bool {
	if v.IsSmallInt() {
		return true
	}
	return BigIntObjectFromValue(v) != nil
}

// AsBigInt returns v as a big.Int if v is an integer (small or big).
// The returned big.Int must not be mutated by the caller.
func AsBigInt(v Value) (*big.Int, bool) {
	if v.IsSmallInt() {
		return big.NewInt(v.SmallInt()), true
	}
	if o := BigIntObjectFromValue(v); o != nil {
		return o.Int, true
	}
	return nil, false
}

// AsInt64 returns v as an int64 if v is an integer that fits.
func AsInt64(v Value) (int64, bool) {
	if v.IsSmallInt() {
		return v.SmallInt(), true
	}
	if o := BigIntObjectFromValue(v); o != nil && o.Int.IsInt64() {
		return o.Int.Int64(), true
	}
	return 0, false
}
