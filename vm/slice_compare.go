package vm

// ---------------------------------------------------------------------------
// Slice comparison
// ---------------------------------------------------------------------------

// ComparisonOp identifies a rich-comparison operator.
type ComparisonOp uint8

const (
	OpEq ComparisonOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// String returns the operator's source form.
func (op ComparisonOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// SliceCompare compares two slices under the given operator.
//
// Equality is pairwise identical-or-equal over (start, stop, step),
// short-circuiting on the first unequal field. Ordering is lexicographic
// over the same fields: the first field with a definite outcome decides;
// a three-way tie yields true for Le/Ge and false for Lt/Gt, mirroring
// fixed-length tuple comparison. Field comparisons dispatch the generic
// protocols, so they may run user code or fail.
func (vm *VM) SliceCompare(a, b *SliceObject, op ComparisonOp) (bool, error) {
	switch op {
	case OpEq, OpNe:
		eq, err := vm.sliceEqual(a, b)
		if err != nil {
			return false, err
		}
		if op == OpNe {
			return !eq, nil
		}
		return eq, nil

	case OpLt, OpLe:
		out, err := vm.sliceLexicographic(a, b, vm.seqLt)
		if err != nil {
			return false, err
		}
		if out == cmpTie {
			return op == OpLe, nil
		}
		return out == cmpLess, nil

	case OpGt, OpGe:
		out, err := vm.sliceLexicographic(a, b, vm.seqGt)
		if err != nil {
			return false, err
		}
		if out == cmpTie {
			return op == OpGe, nil
		}
		return out == cmpGreater, nil

	default:
		return false, NewException(InvalidArgument, "unknown comparison operator")
	}
}

// sliceEqual reports whether two slices have pairwise identical-or-equal
// bounds, short-circuiting on the first unequal field.
func (vm *VM) sliceEqual(a, b *SliceObject) (bool, error) {
	pairs := [3][2]Value{
		{a.Start(), b.Start()},
		{a.stop, b.stop},
		{a.Step(), b.Step()},
	}
	for _, p := range pairs {
		eq, err := vm.IdenticalOrEqual(p[0], p[1])
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}

// sliceLexicographic threads a tri-state comparison across the three
// fields, short-circuiting on the first definite outcome.
func (vm *VM) sliceLexicographic(a, b *SliceObject, cmp func(Value, Value) (cmpOutcome, error)) (cmpOutcome, error) {
	pairs := [3][2]Value{
		{a.Start(), b.Start()},
		{a.stop, b.stop},
		{a.Step(), b.Step()},
	}
	for _, p := range pairs {
		out, err := cmp(p[0], p[1])
		if err != nil {
			return cmpTie, err
		}
		if out != cmpTie {
			return out, nil
		}
	}
	return cmpTie, nil
}
