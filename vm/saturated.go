package vm

import (
	"math"
)

// ---------------------------------------------------------------------------
// Saturated slice
// ---------------------------------------------------------------------------

// SaturatedSlice holds slice bounds resolved to machine-width integers,
// saturating in [MinInt, MaxInt]. Used by sequence indexing in place of
// the exact path.
//
// Resolution invokes the __index__ hook on each present bound during
// construction, so the transformation from value to int is separated from
// the adjustment of the slice to a concrete sequence length. This matters
// because a bound's __index__ may take a lock on the sequence (or mutate
// it): resolve fully, then measure, then adjust.
type SaturatedSlice struct {
	Start int
	Stop  int
	Step  int
}

// ResolveSlice resolves the three bounds of a slice to machine-width
// integers without consulting any sequence length. Each present bound's
// coercion hook is invoked exactly once; out-of-range results saturate to
// MinInt/MaxInt by sign rather than erroring.
func ResolveSlice(vm *VM, s *SliceObject) (SaturatedSlice, error) {
	step, ok, err := toMachineIndex(vm, s.Step())
	if err != nil {
		return SaturatedSlice{}, err
	}
	if !ok {
		step = 1
	}
	if step == 0 {
		return SaturatedSlice{}, NewException(InvalidArgument, "slice step cannot be zero")
	}

	start, ok, err := toMachineIndex(vm, s.Start())
	if err != nil {
		return SaturatedSlice{}, err
	}
	if !ok {
		if step < 0 {
			start = math.MaxInt
		} else {
			start = 0
		}
	}

	stop, ok, err := toMachineIndex(vm, s.Stop())
	if err != nil {
		return SaturatedSlice{}, err
	}
	if !ok {
		if step < 0 {
			stop = math.MinInt
		} else {
			stop = math.MaxInt
		}
	}

	return SaturatedSlice{Start: start, Stop: stop, Step: step}, nil
}

// toMachineIndex converts a bound value to a machine-width int without
// overflow errors; out-of-range values saturate to MinInt or MaxInt by
// sign. ok is false for the none value.
func toMachineIndex(vm *VM, v Value) (int, bool, error) {
	if v.IsNone() {
		return 0, false, nil
	}
	idx, supported, err := vm.AsIndexOpt(v)
	if err != nil {
		return 0, true, err
	}
	if !supported {
		return 0, true, NewException(TypeConversion,
			"slice indices must be integers or None or have an __index__ method")
	}
	n, _ := AsBigInt(idx)
	if n.IsInt64() {
		i := n.Int64()
		if int64(int(i)) == i {
			return int(i), true, nil
		}
	}
	if n.Sign() < 0 {
		return math.MinInt, true, nil
	}
	return math.MaxInt, true, nil
}

// Range is a half-open position range [Start, Stop) within a sequence.
type Range struct {
	Start uint
	Stop  uint
}

// Len returns the width of the range.
func (r Range) Len() uint {
	return r.Stop - r.Start
}

// IsEmpty returns true if the range selects no positions.
func (r Range) IsEmpty() bool {
	return r.Start >= r.Stop
}

// AdjustIndices converts the resolved bounds for indexing a sequence of
// the given length. Pure arithmetic, no callbacks: safe to call while
// holding a lock on the sequence, and only after ResolveSlice has fully
// completed (its hooks might have mutated the sequence).
//
// The returned step is the walk's magnitude. A step of 0 means the
// magnitude does not fit the unsigned machine width and only the range's
// single position should be visited; given the saturating absolute value
// above this should be unreachable, but the guard is kept. backward
// reports the walk direction.
func (s SaturatedSlice) AdjustIndices(length uint) (rng Range, step uint, backward bool) {
	// length should always be <= MaxInt
	ilen := math.MaxInt
	if length <= uint(math.MaxInt) {
		ilen = int(length)
	}

	start, stop, st := s.Start, s.Stop, s.Step
	if st < 0 {
		// Transform to an equivalent forward range walked backward.
		// -1 is the exact path's "one before index 0" sentinel.
		backward = true
		newStart := saturatingAdd(stop, 1)
		if stop == -1 {
			newStart = saturatingAdd(ilen, 1)
		}
		newStop := saturatingAdd(start, 1)
		if start == -1 {
			newStop = ilen
		}
		start, stop = newStart, newStop
		// MinInt has no positive counterpart at this width
		st = saturatingAbs(st)
	}

	magnitude, fits := toUint(st)

	rng = Range{
		Start: saturateIndex(start, length),
		Stop:  saturateIndex(stop, length),
	}
	if rng.Start >= rng.Stop {
		rng.Stop = rng.Start
	} else if !fits {
		// step overflow: visit a single position
		if backward {
			rng.Start = rng.Stop - 1
		} else {
			rng.Stop = rng.Start + 1
		}
		return rng, 0, backward
	}
	return rng, magnitude, backward
}

// saturateIndex clamps p into [0, length] inclusive: negative values are
// taken from the end of the sequence first.
func saturateIndex(p int, length uint) uint {
	ilen := math.MaxInt
	if length <= uint(math.MaxInt) {
		ilen = int(length)
	}
	if p < 0 {
		p += ilen
		if p < 0 {
			p = 0
		}
	}
	if p > ilen {
		p = ilen
	}
	return uint(p)
}

func saturatingAdd(a, b int) int {
	sum := a + b
	if b > 0 && sum < a {
		return math.MaxInt
	}
	if b < 0 && sum > a {
		return math.MinInt
	}
	return sum
}

func saturatingAbs(a int) int {
	if a == math.MinInt {
		return math.MaxInt
	}
	if a < 0 {
		return -a
	}
	return a
}

func toUint(a int) (uint, bool) {
	if a < 0 {
		return 0, false
	}
	return uint(a), true
}

// ---------------------------------------------------------------------------
// Position walking
// ---------------------------------------------------------------------------

// PositionCount returns how many positions a walk over rng visits with the
// given step magnitude. A step of 0 (overflowed magnitude) visits only the
// collapsed single position.
func PositionCount(rng Range, step uint) uint {
	if rng.IsEmpty() {
		return 0
	}
	if step == 0 {
		return 1
	}
	return (rng.Len()-1)/step + 1
}

// WalkPositions visits the selected positions in walk order: from the high
// end downward for a backward walk, from the low end upward otherwise,
// advancing by step. Returning false from fn stops the walk.
func WalkPositions(rng Range, step uint, backward bool, fn func(pos uint) bool) {
	n := PositionCount(rng, step)
	if n == 0 {
		return
	}
	if backward {
		pos := rng.Stop - 1
		for i := uint(0); i < n; i++ {
			if !fn(pos) {
				return
			}
			pos -= step
		}
		return
	}
	pos := rng.Start
	for i := uint(0); i < n; i++ {
		if !fn(pos) {
			return
		}
		pos += step
	}
}
