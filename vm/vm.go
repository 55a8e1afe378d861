package vm

import (
	"hash/fnv"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// VM: the coil runtime core
// ---------------------------------------------------------------------------

// DefaultMaxDepth is the dispatch recursion limit used when no manifest
// overrides it.
const DefaultMaxDepth = 1000

// VM is the coil runtime. It owns the class table, the well-known builtin
// classes, and the generic dispatch protocols (repr, equality, ordering,
// hashing, index coercion) that builtin values and user-defined classes
// share.
type VM struct {
	// Global table
	Classes *ClassTable

	// Well-known classes (for fast-path checks and bootstrapping)
	ObjectClass   *Class
	NoneClass     *Class
	BoolClass     *Class
	IntClass      *Class
	FloatClass    *Class
	StrClass      *Class
	ListClass     *Class
	SliceClass    *Class
	EllipsisClass *Class

	// keepAlive holds references to heap objects whose only other
	// reference may be a NaN-boxed pointer the Go GC cannot see.
	keepAlive map[*Object]struct{}

	// Dispatch recursion accounting. Protocol hooks may recurse
	// arbitrarily (a __repr__ calling repr, an __index__ re-entering the
	// runtime); the depth limit is the runtime's general backstop.
	depth    int
	maxDepth int
}

// NewVM creates and bootstraps a new VM.
func NewVM() *VM {
	vm := &VM{
		Classes:   NewClassTable(),
		keepAlive: make(map[*Object]struct{}),
		maxDepth:  DefaultMaxDepth,
	}
	vm.bootstrap()
	return vm
}

// bootstrap creates the builtin class hierarchy.
func (vm *VM) bootstrap() {
	vm.ObjectClass = NewClass("object", nil)
	vm.NoneClass = NewClass("NoneType", vm.ObjectClass)
	vm.BoolClass = NewClass("bool", vm.ObjectClass)
	vm.IntClass = NewClass("int", vm.ObjectClass)
	vm.FloatClass = NewClass("float", vm.ObjectClass)
	vm.StrClass = NewClass("str", vm.ObjectClass)
	vm.ListClass = NewClass("list", vm.ObjectClass)
	vm.SliceClass = NewClass("slice", vm.ObjectClass)
	vm.EllipsisClass = NewClass("ellipsis", vm.ObjectClass)

	for _, c := range []*Class{
		vm.ObjectClass, vm.NoneClass, vm.BoolClass, vm.IntClass,
		vm.FloatClass, vm.StrClass, vm.ListClass, vm.SliceClass,
		vm.EllipsisClass,
	} {
		vm.Classes.Register(c)
	}
}

// SetMaxDepth sets the dispatch recursion limit.
func (vm *VM) SetMaxDepth(n int) {
	if n > 0 {
		vm.maxDepth = n
	}
}

// NewClass creates and registers a user-defined class.
func (vm *VM) NewClass(name string, superclass *Class) *Class {
	if superclass == nil {
		superclass = vm.ObjectClass
	}
	c := NewClass(name, superclass)
	vm.Classes.Register(c)
	return c
}

// ClassFor returns the class of any value.
func (vm *VM) ClassFor(v Value) *Class {
	switch {
	case v == None:
		return vm.NoneClass
	case v == True || v == False:
		return vm.BoolClass
	case v == Ellipsis:
		return vm.EllipsisClass
	case v.IsSmallInt():
		return vm.IntClass
	case v.IsFloat():
		return vm.FloatClass
	case v.IsObject():
		return ObjectFromValue(v).class
	default:
		return vm.ObjectClass
	}
}

// TypeName returns the class name of a value.
func (vm *VM) TypeName(v Value) string {
	if c := vm.ClassFor(v); c != nil {
		return c.Name
	}
	return "?"
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

// Send sends a message to a receiver. Protocol hooks installed on a class
// (__index__, __eq__, __lt__, __gt__, __repr__) run through here, so they
// may execute arbitrary user-defined code.
func (vm *VM) Send(receiver Value, selector string, args []Value) (Value, error) {
	class := vm.ClassFor(receiver)
	if class == nil {
		return None, NewException(TypeConversion, "receiver has no class")
	}
	method := class.LookupMethod(selector)
	if method == nil {
		return None, NewException(TypeConversion,
			"'%s' object does not understand '%s'", class.Name, selector)
	}

	vm.depth++
	defer func() { vm.depth-- }()
	if vm.depth > vm.maxDepth {
		return None, NewException(RecursionLimit, "maximum recursion depth exceeded")
	}
	return method(vm, receiver, args)
}

// ---------------------------------------------------------------------------
// Repr protocol
// ---------------------------------------------------------------------------

// Repr returns the canonical printed representation of a value. Builtins
// are rendered structurally; user-defined classes may override __repr__.
func (vm *VM) Repr(v Value) (string, error) {
	switch {
	case v == None:
		return "None", nil
	case v == True:
		return "True", nil
	case v == False:
		return "False", nil
	case v == Ellipsis:
		return "Ellipsis", nil
	case v.IsSmallInt():
		return strconv.FormatInt(v.SmallInt(), 10), nil
	case v.IsFloat():
		return formatFloat(v.Float64()), nil
	case v.IsObject():
		return vm.reprObject(v)
	default:
		return "", NewException(TypeConversion, "value has no representation")
	}
}

func (vm *VM) reprObject(v Value) (string, error) {
	obj := ObjectFromValue(v)
	switch o := obj.Concrete().(type) {
	case *BigIntObject:
		return o.Int.String(), nil
	case *StringObject:
		return reprString(o.Bytes), nil
	case *ListObject:
		var b strings.Builder
		b.WriteByte('[')
		for i, item := range o.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			r, err := vm.Repr(item)
			if err != nil {
				return "", err
			}
			b.WriteString(r)
		}
		b.WriteByte(']')
		return b.String(), nil
	case *SliceObject:
		return o.Repr(vm)
	case *InstanceObject:
		if obj.class.HasMethod("__repr__") {
			res, err := vm.Send(v, "__repr__", nil)
			if err != nil {
				return "", err
			}
			if s := StringObjectFromValue(res); s != nil {
				return string(s.Bytes), nil
			}
			return "", NewException(TypeConversion, "__repr__ returned non-string")
		}
		return "<" + obj.ClassName() + " object>", nil
	default:
		return "<" + obj.ClassName() + " object>", nil
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Whole floats print with a trailing ".0"
	if !strings.ContainsAny(s, ".eE") && !math.IsNaN(f) {
		s += ".0"
	}
	return s
}

func reprString(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, c := range string(b) {
		switch c {
		case '\'':
			sb.WriteString("\\'")
		case '\\':
			sb.WriteString("\\\\")
		case '\n':
			sb.WriteString("\\n")
		case '\t':
			sb.WriteString("\\t")
		case '\r':
			sb.WriteString("\\r")
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// ---------------------------------------------------------------------------
// Equality protocol
// ---------------------------------------------------------------------------

// IdenticalOrEqual returns true if a and b are the same value or compare
// equal. Equality on user-defined classes dispatches __eq__, which may run
// arbitrary code or fail.
func (vm *VM) IdenticalOrEqual(a, b Value) (bool, error) {
	if a == b {
		return true, nil
	}
	return vm.Equal(a, b)
}

// Equal compares two values for equality.
func (vm *VM) Equal(a, b Value) (bool, error) {
	// Numeric cross-representation equality
	if isNumeric(a) && isNumeric(b) {
		return numericEqual(a, b), nil
	}

	sa, sb := StringObjectFromValue(a), StringObjectFromValue(b)
	if sa != nil && sb != nil {
		return string(sa.Bytes) == string(sb.Bytes), nil
	}

	la, lb := ListObjectFromValue(a), ListObjectFromValue(b)
	if la != nil && lb != nil {
		if len(la.Items) != len(lb.Items) {
			return false, nil
		}
		for i := range la.Items {
			eq, err := vm.IdenticalOrEqual(la.Items[i], lb.Items[i])
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	}

	pa, pb := SliceObjectFromValue(a), SliceObjectFromValue(b)
	if pa != nil && pb != nil {
		return vm.sliceEqual(pa, pb)
	}

	// User-defined __eq__ on either side
	if inst := InstanceObjectFromValue(a); inst != nil && inst.class.HasMethod("__eq__") {
		res, err := vm.Send(a, "__eq__", []Value{b})
		if err != nil {
			return false, err
		}
		return res.IsTruthy(), nil
	}
	if inst := InstanceObjectFromValue(b); inst != nil && inst.class.HasMethod("__eq__") {
		res, err := vm.Send(b, "__eq__", []Value{a})
		if err != nil {
			return false, err
		}
		return res.IsTruthy(), nil
	}

	return false, nil
}

func isNumeric(v Value) bool {
	return v.IsSmallInt() || v.IsFloat() || BigIntObjectFromValue(v) != nil
}

func numericEqual(a, b Value) bool {
	if ia, ok := AsBigInt(a); ok {
		if ib, ok := AsBigInt(b); ok {
			return ia.Cmp(ib) == 0
		}
		return new(big.Float).SetInt(ia).Cmp(new(big.Float).SetFloat64(b.Float64())) == 0
	}
	if _, ok := AsBigInt(b); ok {
		return numericEqual(b, a)
	}
	return a.Float64() == b.Float64()
}

// ---------------------------------------------------------------------------
// Ordering protocol
// ---------------------------------------------------------------------------

// LessThan compares a < b. Supports numbers and strings structurally;
// user-defined classes may override __lt__.
func (vm *VM) LessThan(a, b Value) (bool, error) {
	return vm.orderCompare(a, b, "__lt__", func(c int) bool { return c < 0 })
}

// GreaterThan compares a > b.
func (vm *VM) GreaterThan(a, b Value) (bool, error) {
	return vm.orderCompare(a, b, "__gt__", func(c int) bool { return c > 0 })
}

func (vm *VM) orderCompare(a, b Value, selector string, want func(int) bool) (bool, error) {
	if isNumeric(a) && isNumeric(b) {
		return want(numericCmp(a, b)), nil
	}
	sa, sb := StringObjectFromValue(a), StringObjectFromValue(b)
	if sa != nil && sb != nil {
		return want(strings.Compare(string(sa.Bytes), string(sb.Bytes))), nil
	}
	pa, pb := SliceObjectFromValue(a), SliceObjectFromValue(b)
	if pa != nil && pb != nil {
		op := OpLt
		if selector == "__gt__" {
			op = OpGt
		}
		return vm.SliceCompare(pa, pb, op)
	}
	if inst := InstanceObjectFromValue(a); inst != nil && inst.class.HasMethod(selector) {
		res, err := vm.Send(a, selector, []Value{b})
		if err != nil {
			return false, err
		}
		return res.IsTruthy(), nil
	}
	op := "<"
	if selector == "__gt__" {
		op = ">"
	}
	return false, NewException(TypeConversion,
		"'%s' not supported between instances of '%s' and '%s'",
		op, vm.TypeName(a), vm.TypeName(b))
}

func numericCmp(a, b Value) int {
	ia, aInt := AsBigInt(a)
	ib, bInt := AsBigInt(b)
	switch {
	case aInt && bInt:
		return ia.Cmp(ib)
	case aInt:
		return new(big.Float).SetInt(ia).Cmp(new(big.Float).SetFloat64(b.Float64()))
	case bInt:
		return new(big.Float).SetFloat64(a.Float64()).Cmp(new(big.Float).SetInt(ib))
	default:
		fa, fb := a.Float64(), b.Float64()
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
}

// cmpOutcome is a three-valued comparison result: a definite order, or a
// tie that defers the decision to the next field.
type cmpOutcome int8

const (
	cmpTie cmpOutcome = iota
	cmpLess
	cmpGreater
)

// seqLt is the tri-state field comparison used by lexicographic ordering:
// cmpLess if a < b, cmpGreater if a and b are definitely unequal and not
// a < b, cmpTie if they are identical or equal.
func (vm *VM) seqLt(a, b Value) (cmpOutcome, error) {
	lt, err := vm.LessThan(a, b)
	if err != nil {
		return cmpTie, err
	}
	if lt {
		return cmpLess, nil
	}
	eq, err := vm.IdenticalOrEqual(a, b)
	if err != nil {
		return cmpTie, err
	}
	if !eq {
		return cmpGreater, nil
	}
	return cmpTie, nil
}

// seqGt mirrors seqLt for the greater-than operator family.
func (vm *VM) seqGt(a, b Value) (cmpOutcome, error) {
	gt, err := vm.GreaterThan(a, b)
	if err != nil {
		return cmpTie, err
	}
	if gt {
		return cmpGreater, nil
	}
	eq, err := vm.IdenticalOrEqual(a, b)
	if err != nil {
		return cmpTie, err
	}
	if !eq {
		return cmpLess, nil
	}
	return cmpTie, nil
}

// ---------------------------------------------------------------------------
// Hash protocol
// ---------------------------------------------------------------------------

// Hash returns the hash of a value. Slices and lists are unhashable:
// their equality depends on user-overridable sub-equalities, so no stable
// hash contract can be guaranteed.
func (vm *VM) Hash(v Value) (uint64, error) {
	switch {
	case v == None:
		return 0x9e3779b97f4a7c15, nil
	case v == True:
		return 1, nil
	case v == False:
		return 0, nil
	case v == Ellipsis:
		return 0x45b9aeb1, nil
	case v.IsSmallInt():
		return uint64(v.SmallInt()), nil
	case v.IsFloat():
		return math.Float64bits(v.Float64()), nil
	case v.IsObject():
		obj := ObjectFromValue(v)
		switch o := obj.Concrete().(type) {
		case *BigIntObject:
			h := fnv.New64a()
			h.Write(o.Int.Bytes())
			return h.Sum64(), nil
		case *StringObject:
			h := fnv.New64a()
			h.Write(o.Bytes)
			return h.Sum64(), nil
		case *SliceObject:
			return 0, NewException(Unhashable, "unhashable type: 'slice'")
		case *ListObject:
			return 0, NewException(Unhashable, "unhashable type: 'list'")
		default:
			return uint64(v), nil
		}
	default:
		return uint64(v), nil
	}
}
