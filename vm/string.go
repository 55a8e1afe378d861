package vm

// ---------------------------------------------------------------------------
// String
// ---------------------------------------------------------------------------

// StringObject is an immutable byte string.
type StringObject struct {
	Object
	Bytes []byte
}

// NewString creates a string value.
func (vm *VM) NewString(s string) Value {
	o := &StringObject{
		Object: Object{class: vm.StrClass, kind: KindString},
		Bytes:  []byte(s),
	}
	vm.keepAlive[&o.Object] = struct{}{}
	return o.ToValue()
}

// String returns the raw contents.
func (s *StringObject) String() string {
	return string(s.Bytes)
}

// Len returns the length in bytes.
func (s *StringObject) Len() int {
	return len(s.Bytes)
}

// GetItem returns the one-byte string at a (possibly negative) index.
func (s *StringObject) GetItem(vm *VM, index Value) (Value, error) {
	idx, ok, err := vm.AsIndexOpt(index)
	if err != nil {
		return None, err
	}
	if !ok {
		return None, NewException(TypeConversion,
			"string indices must be integers or slices, not %s", vm.TypeName(index))
	}
	n, fits := AsInt64(idx)
	if fits && n < 0 {
		n += int64(len(s.Bytes))
	}
	if !fits || n < 0 || n >= int64(len(s.Bytes)) {
		return None, NewException(IndexOutOfRange, "string index out of range")
	}
	return vm.NewString(string(s.Bytes[n : n+1])), nil
}

// GetSlice returns a new string of the bytes the slice selects. Same
// resolve-then-measure-then-adjust ordering as list slicing.
func (s *StringObject) GetSlice(vm *VM, sl *SliceObject) (Value, error) {
	resolved, err := ResolveSlice(vm, sl)
	if err != nil {
		return None, err
	}
	rng, step, backward := resolved.AdjustIndices(uint(len(s.Bytes)))
	out := make([]byte, 0, PositionCount(rng, step))
	WalkPositions(rng, step, backward, func(pos uint) bool {
		out = append(out, s.Bytes[pos])
		return true
	})
	return vm.NewString(string(out)), nil
}
