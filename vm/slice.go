package vm

import (
	"fmt"
	"math/big"
)

// ---------------------------------------------------------------------------
// Slice
// ---------------------------------------------------------------------------

// Bound is one slice bound: absent, or present with a value. An explicitly
// passed none is Present(None) — distinct internally from absent, though
// the two read identically through OrNone.
type Bound struct {
	value   Value
	present bool
}

// PresentBound wraps a value as a present bound.
func PresentBound(v Value) Bound {
	return Bound{value: v, present: true}
}

// AbsentBound is the omitted bound.
var AbsentBound = Bound{}

// IsAbsent returns true if the bound was omitted.
func (b Bound) IsAbsent() bool {
	return !b.present
}

// OrNone returns the bound's value, or the none singleton if absent.
func (b Bound) OrNone() Value {
	if b.present {
		return b.value
	}
	return None
}

// SliceObject is the slice value: three loosely-typed bounds describing a
// sub-range of an indexable sequence whose length is known only at the
// point of use. Immutable once constructed; stop is never absent.
type SliceObject struct {
	Object
	start Bound
	stop  Value
	step  Bound
}

// NewSlice constructs a slice from 1-3 positional values. One argument is
// the stop bound; two or three are start, stop, and optional step.
func (vm *VM) NewSlice(args ...Value) (Value, error) {
	s := &SliceObject{
		Object: Object{class: vm.SliceClass, kind: KindSlice},
	}
	switch len(args) {
	case 0:
		return None, NewException(InvalidArgument,
			"slice() must have at least one arguments.")
	case 1:
		s.start = AbsentBound
		s.stop = args[0]
		s.step = AbsentBound
	case 2:
		s.start = PresentBound(args[0])
		s.stop = args[1]
		s.step = AbsentBound
	case 3:
		s.start = PresentBound(args[0])
		s.stop = args[1]
		s.step = PresentBound(args[2])
	default:
		return None, NewException(InvalidArgument,
			"slice expected at most 3 arguments, got %d", len(args))
	}
	vm.keepAlive[&s.Object] = struct{}{}
	return s.ToValue(), nil
}

// Start returns the start bound, or none if absent.
func (s *SliceObject) Start() Value {
	return s.start.OrNone()
}

// Stop returns the stop bound.
func (s *SliceObject) Stop() Value {
	return s.stop
}

// Step returns the step bound, or none if absent.
func (s *SliceObject) Step() Value {
	return s.step.OrNone()
}

// Repr formats the slice as slice(start, stop, step) using the generic
// repr of each raw bound.
func (s *SliceObject) Repr(vm *VM) (string, error) {
	startRepr, err := vm.Repr(s.Start())
	if err != nil {
		return "", err
	}
	stopRepr, err := vm.Repr(s.stop)
	if err != nil {
		return "", err
	}
	stepRepr, err := vm.Repr(s.Step())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("slice(%s, %s, %s)", startRepr, stopRepr, stepRepr), nil
}

// ---------------------------------------------------------------------------
// Exact normalization
// ---------------------------------------------------------------------------

// coerceBound converts a bound value to an exact integer, invoking the
// index-coercion hook.
func (vm *VM) coerceBound(v Value) (*big.Int, error) {
	idx, ok, err := vm.AsIndexOpt(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewException(TypeConversion,
			"slice indices must be integers or None or have an __index__ method")
	}
	n, _ := AsBigInt(idx)
	return n, nil
}

// innerIndices computes the exact (start, stop, step) triple for a
// non-negative length. Coercion order is step, then start, then stop;
// each coercion may run user code and may fail.
func (s *SliceObject) innerIndices(vm *VM, length *big.Int) (start, stop, step *big.Int, err error) {
	// Calculate step
	if s.Step().IsNone() {
		step = big.NewInt(1)
	} else {
		step, err = vm.coerceBound(s.Step())
		if err != nil {
			return nil, nil, nil, err
		}
		if step.Sign() == 0 {
			return nil, nil, nil, NewException(InvalidArgument,
				"slice step cannot be zero.")
		}
	}

	// For convenience
	backwards := step.Sign() < 0

	// Each end of the array. Under a negative step the lower bound is -1:
	// one before index 0, reachable only when iterating backward.
	lower := big.NewInt(0)
	if backwards {
		lower = big.NewInt(-1)
	}
	upper := new(big.Int)
	if backwards {
		upper.Add(lower, length)
	} else {
		upper.Set(length)
	}

	// Calculate start
	if s.Start().IsNone() {
		start = new(big.Int)
		if backwards {
			start.Set(upper)
		} else {
			start.Set(lower)
		}
	} else {
		start, err = vm.coerceBound(s.Start())
		if err != nil {
			return nil, nil, nil, err
		}
		start = new(big.Int).Set(start)
		if start.Sign() < 0 {
			// From end of array
			start.Add(start, length)
			if start.Cmp(lower) < 0 {
				start.Set(lower)
			}
		} else if start.Cmp(upper) > 0 {
			start.Set(upper)
		}
	}

	// Calculate stop
	if s.stop.IsNone() {
		stop = new(big.Int)
		if backwards {
			stop.Set(lower)
		} else {
			stop.Set(upper)
		}
	} else {
		stop, err = vm.coerceBound(s.stop)
		if err != nil {
			return nil, nil, nil, err
		}
		stop = new(big.Int).Set(stop)
		if stop.Sign() < 0 {
			// From end of array
			stop.Add(stop, length)
			if stop.Cmp(lower) < 0 {
				stop.Set(lower)
			}
		} else if stop.Cmp(upper) > 0 {
			stop.Set(upper)
		}
	}

	return start, stop, step, nil
}

// Indices returns [start, stop, step] describing the enumerable positions
// of the slice over a sequence of the given length. The length must be a
// non-negative integer.
func (s *SliceObject) Indices(vm *VM, length Value) (Value, error) {
	lv, err := vm.AsIndex(length)
	if err != nil {
		return None, err
	}
	n, _ := AsBigInt(lv)
	if n.Sign() < 0 {
		return None, NewException(InvalidArgument, "length should not be negative.")
	}
	start, stop, step, err := s.innerIndices(vm, n)
	if err != nil {
		return None, err
	}
	return vm.NewList(vm.NewBigInt(start), vm.NewBigInt(stop), vm.NewBigInt(step)), nil
}
