package vm

// ---------------------------------------------------------------------------
// Index coercion
// ---------------------------------------------------------------------------

// AsIndexOpt converts v to an integer index, invoking the user-overridable
// __index__ hook at most once. Returns ok=false if v does not support
// index coercion at all (including the none value, whose meaning is the
// caller's to decide).
//
// The __index__ hook may run arbitrary code: it can mutate sequences,
// re-enter the runtime, or fail. Callers that will later take a lock or
// read a sequence length must finish all coercions first.
func (vm *VM) AsIndexOpt(v Value) (Value, bool, error) {
	if IsInt(v) {
		return v, true, nil
	}
	if v.IsBool() {
		if v.Bool() {
			return vm.NewInt(1), true, nil
		}
		return vm.NewInt(0), true, nil
	}
	if inst := InstanceObjectFromValue(v); inst != nil && inst.class.HasMethod("__index__") {
		res, err := vm.Send(v, "__index__", nil)
		if err != nil {
			return None, true, err
		}
		if !IsInt(res) {
			return None, true, NewException(TypeConversion,
				"__index__ returned non-int (type %s)", vm.TypeName(res))
		}
		return res, true, nil
	}
	return None, false, nil
}

// AsIndex converts v to an integer index, failing with TypeConversion if v
// is not index-coercible.
func (vm *VM) AsIndex(v Value) (Value, error) {
	idx, ok, err := vm.AsIndexOpt(v)
	if err != nil {
		return None, err
	}
	if !ok {
		return None, NewException(TypeConversion,
			"'%s' object cannot be interpreted as an integer", vm.TypeName(v))
	}
	return idx, nil
}
