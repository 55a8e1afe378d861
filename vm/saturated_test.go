package vm

import (
	"math"
	"math/big"
	"testing"
)

// ---------------------------------------------------------------------------
// Resolve tests
// ---------------------------------------------------------------------------

func TestResolveDefaults(t *testing.T) {
	vm := NewVM()
	s := mustSlice(t, vm, None)
	r, err := ResolveSlice(vm, s)
	if err != nil {
		t.Fatalf("ResolveSlice: %v", err)
	}
	if r.Step != 1 {
		t.Errorf("Step = %d, want 1", r.Step)
	}
	if r.Start != 0 {
		t.Errorf("Start = %d, want 0", r.Start)
	}
	if r.Stop != math.MaxInt {
		t.Errorf("Stop = %d, want MaxInt", r.Stop)
	}
}

func TestResolveDefaultsNegativeStep(t *testing.T) {
	vm := NewVM()
	s := mustSlice(t, vm, None, None, vm.NewInt(-1))
	r, err := ResolveSlice(vm, s)
	if err != nil {
		t.Fatalf("ResolveSlice: %v", err)
	}
	if r.Step != -1 {
		t.Errorf("Step = %d, want -1", r.Step)
	}
	if r.Start != math.MaxInt {
		t.Errorf("Start = %d, want MaxInt", r.Start)
	}
	if r.Stop != math.MinInt {
		t.Errorf("Stop = %d, want MinInt", r.Stop)
	}
}

func TestResolveSaturation(t *testing.T) {
	vm := NewVM()
	huge := new(big.Int).Lsh(big.NewInt(1), 100)
	negHuge := new(big.Int).Neg(huge)
	s := mustSlice(t, vm, vm.NewBigInt(negHuge), vm.NewBigInt(huge))
	r, err := ResolveSlice(vm, s)
	if err != nil {
		t.Fatalf("ResolveSlice: %v", err)
	}
	if r.Start != math.MinInt {
		t.Errorf("Start = %d, want MinInt", r.Start)
	}
	if r.Stop != math.MaxInt {
		t.Errorf("Stop = %d, want MaxInt", r.Stop)
	}
}

func TestResolveZeroStep(t *testing.T) {
	vm := NewVM()
	s := mustSlice(t, vm, vm.NewInt(1), vm.NewInt(5), vm.NewInt(0))
	_, err := ResolveSlice(vm, s)
	if !IsKind(err, InvalidArgument) {
		t.Errorf("error = %v, want InvalidArgument", err)
	}
}

func TestResolveNonCoercible(t *testing.T) {
	vm := NewVM()
	s := mustSlice(t, vm, FromFloat64(1.5), vm.NewInt(5))
	_, err := ResolveSlice(vm, s)
	if !IsKind(err, TypeConversion) {
		t.Errorf("error = %v, want TypeConversion", err)
	}
}

func TestResolveInvokesHookExactlyOnce(t *testing.T) {
	vm := NewVM()
	calls := 0
	class := vm.NewClass("CountingIndex", nil)
	class.AddMethod("__index__", func(vm *VM, recv Value, args []Value) (Value, error) {
		calls++
		return vm.NewInt(2), nil
	})
	s := mustSlice(t, vm, vm.NewInstance(class).ToValue(), vm.NewInt(8))
	r, err := ResolveSlice(vm, s)
	if err != nil {
		t.Fatalf("ResolveSlice: %v", err)
	}
	if calls != 1 {
		t.Errorf("__index__ invoked %d times, want 1", calls)
	}
	if r.Start != 2 {
		t.Errorf("Start = %d, want 2", r.Start)
	}
}

// ---------------------------------------------------------------------------
// Adjust tests
// ---------------------------------------------------------------------------

func collectPositions(rng Range, step uint, backward bool) []uint {
	var out []uint
	WalkPositions(rng, step, backward, func(pos uint) bool {
		out = append(out, pos)
		return true
	})
	return out
}

func TestAdjustForward(t *testing.T) {
	s := SaturatedSlice{Start: 0, Stop: 5, Step: 1}
	rng, step, backward := s.AdjustIndices(10)
	if rng != (Range{0, 5}) || step != 1 || backward {
		t.Errorf("AdjustIndices = %v, %d, %v; want {0 5}, 1, false", rng, step, backward)
	}
}

func TestAdjustFullReverse(t *testing.T) {
	s := SaturatedSlice{Start: math.MaxInt, Stop: math.MinInt, Step: -1}
	rng, step, backward := s.AdjustIndices(5)
	if !backward {
		t.Fatal("walk should be backward")
	}
	got := collectPositions(rng, step, backward)
	want := []uint{4, 3, 2, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("positions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("positions = %v, want %v", got, want)
		}
	}
}

func TestAdjustStopSentinel(t *testing.T) {
	// An explicit stop of -1 under a negative step selects nothing: -1 is
	// the last element, and the walk stops before it.
	s := SaturatedSlice{Start: math.MaxInt, Stop: -1, Step: -1}
	rng, _, backward := s.AdjustIndices(5)
	if !backward {
		t.Error("walk should be backward")
	}
	if !rng.IsEmpty() {
		t.Errorf("range = %v, want empty", rng)
	}
}

func TestAdjustStartSentinel(t *testing.T) {
	// start == -1 under a negative step begins at the last element.
	s := SaturatedSlice{Start: -1, Stop: math.MinInt, Step: -1}
	rng, step, backward := s.AdjustIndices(5)
	got := collectPositions(rng, step, backward)
	want := []uint{4, 3, 2, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("positions = %v, want %v", got, want)
	}
}

func TestAdjustMinIntStep(t *testing.T) {
	// The most negative step has no positive counterpart; its magnitude
	// saturates to MaxInt and the walk visits only the last element.
	s := SaturatedSlice{Start: math.MaxInt, Stop: math.MinInt, Step: math.MinInt}
	rng, step, backward := s.AdjustIndices(5)
	if step != math.MaxInt {
		t.Errorf("step = %d, want MaxInt", step)
	}
	got := collectPositions(rng, step, backward)
	if len(got) != 1 || got[0] != 4 {
		t.Errorf("positions = %v, want [4]", got)
	}
}

func TestAdjustEmptyCollapse(t *testing.T) {
	s := SaturatedSlice{Start: 7, Stop: 3, Step: 1}
	rng, _, _ := s.AdjustIndices(10)
	if !rng.IsEmpty() {
		t.Errorf("range = %v, want empty", rng)
	}
	if rng.Start != rng.Stop {
		t.Errorf("empty range should collapse to start..start, got %v", rng)
	}
}

func TestAdjustZeroLength(t *testing.T) {
	for _, s := range []SaturatedSlice{
		{Start: 0, Stop: math.MaxInt, Step: 1},
		{Start: math.MaxInt, Stop: math.MinInt, Step: -1},
		{Start: -10, Stop: 10, Step: 3},
	} {
		rng, step, backward := s.AdjustIndices(0)
		if got := collectPositions(rng, step, backward); len(got) != 0 {
			t.Errorf("AdjustIndices(0) for %+v visits %v, want none", s, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Saturating arithmetic
// ---------------------------------------------------------------------------

func TestSaturateIndexBounds(t *testing.T) {
	// Clamped results always land in [0, len].
	points := []int{math.MinInt, math.MinInt + 1, -1000, -1, 0, 1, 1000, math.MaxInt - 1, math.MaxInt}
	lengths := []uint{0, 1, 5, 1000}
	for _, p := range points {
		for _, length := range lengths {
			got := saturateIndex(p, length)
			if got > length {
				t.Errorf("saturateIndex(%d, %d) = %d, out of [0, %d]", p, length, got, length)
			}
		}
	}
}

func TestSaturatingAdd(t *testing.T) {
	if got := saturatingAdd(math.MaxInt, 1); got != math.MaxInt {
		t.Errorf("saturatingAdd(MaxInt, 1) = %d, want MaxInt", got)
	}
	if got := saturatingAdd(math.MinInt, -1); got != math.MinInt {
		t.Errorf("saturatingAdd(MinInt, -1) = %d, want MinInt", got)
	}
	if got := saturatingAdd(3, 4); got != 7 {
		t.Errorf("saturatingAdd(3, 4) = %d, want 7", got)
	}
}

func TestSaturatingAbs(t *testing.T) {
	if got := saturatingAbs(math.MinInt); got != math.MaxInt {
		t.Errorf("saturatingAbs(MinInt) = %d, want MaxInt", got)
	}
	if got := saturatingAbs(-5); got != 5 {
		t.Errorf("saturatingAbs(-5) = %d, want 5", got)
	}
}

func TestOverflowedMagnitudeVisitsOnePosition(t *testing.T) {
	// A magnitude reported as 0 means "no further elements": the walk
	// visits the collapsed single position and stops.
	got := collectPositions(Range{Start: 2, Stop: 3}, 0, false)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("positions = %v, want [2]", got)
	}
	got = collectPositions(Range{Start: 4, Stop: 5}, 0, true)
	if len(got) != 1 || got[0] != 4 {
		t.Errorf("positions = %v, want [4]", got)
	}
}

// ---------------------------------------------------------------------------
// Exact / fast equivalence
// ---------------------------------------------------------------------------

func realizeExact(start, stop, step int64) []int64 {
	var out []int64
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return out
}

func TestExactAndFastPathsAgree(t *testing.T) {
	vm := NewVM()
	bounds := []Value{None}
	for i := int64(-6); i <= 6; i++ {
		bounds = append(bounds, vm.NewInt(i))
	}
	for _, start := range bounds {
		for _, stop := range bounds {
			for _, step := range bounds {
				if n, ok := AsInt64(step); ok && n == 0 {
					continue
				}
				s := mustSlice(t, vm, start, stop, step)
				for length := int64(0); length <= 5; length++ {
					exact := indicesOf(t, vm, s, length)
					wantPositions := realizeExact(exact[0], exact[1], exact[2])

					r, err := ResolveSlice(vm, s)
					if err != nil {
						t.Fatalf("ResolveSlice: %v", err)
					}
					rng, mag, backward := r.AdjustIndices(uint(length))
					got := collectPositions(rng, mag, backward)

					if len(got) != len(wantPositions) {
						t.Fatalf("slice %v length %d: fast path %v, exact %v",
							exact, length, got, wantPositions)
					}
					for i := range got {
						if int64(got[i]) != wantPositions[i] {
							t.Fatalf("slice %v length %d: fast path %v, exact %v",
								exact, length, got, wantPositions)
						}
					}
				}
			}
		}
	}
}
