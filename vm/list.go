package vm

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

// ListObject is a mutable ordered sequence of values.
type ListObject struct {
	Object
	Items []Value
}

// NewList creates a list from the given items.
func (vm *VM) NewList(items ...Value) Value {
	l := &ListObject{
		Object: Object{class: vm.ListClass, kind: KindList},
		Items:  items,
	}
	vm.keepAlive[&l.Object] = struct{}{}
	return l.ToValue()
}

// Len returns the number of items.
func (l *ListObject) Len() int {
	return len(l.Items)
}

// GetItem returns the item at a (possibly negative) index. The index may
// be any index-coercible value.
func (l *ListObject) GetItem(vm *VM, index Value) (Value, error) {
	idx, ok, err := vm.AsIndexOpt(index)
	if err != nil {
		return None, err
	}
	if !ok {
		return None, NewException(TypeConversion,
			"list indices must be integers or slices, not %s", vm.TypeName(index))
	}
	// Coercion done; only now is the length read.
	n, fits := AsInt64(idx)
	if fits && n < 0 {
		n += int64(len(l.Items))
	}
	if !fits || n < 0 || n >= int64(len(l.Items)) {
		return None, NewException(IndexOutOfRange, "list index out of range")
	}
	return l.Items[n], nil
}

// GetSlice returns a new list of the items the slice selects.
//
// Bound resolution runs first and to completion: its hooks may mutate this
// list. The length is read only afterwards, and the adjustment is pure
// arithmetic on that length.
func (l *ListObject) GetSlice(vm *VM, s *SliceObject) (Value, error) {
	resolved, err := ResolveSlice(vm, s)
	if err != nil {
		return None, err
	}
	rng, step, backward := resolved.AdjustIndices(uint(len(l.Items)))
	out := make([]Value, 0, PositionCount(rng, step))
	WalkPositions(rng, step, backward, func(pos uint) bool {
		out = append(out, l.Items[pos])
		return true
	})
	return vm.NewList(out...), nil
}
