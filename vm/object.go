package vm

import (
	"unsafe"
)

// Object is the common header of every heap-allocated coil object.
//
// Builtin object kinds (big integers, strings, lists, slices) embed Object
// as their first field, so a NaN-boxed pointer to the header is also a
// pointer to the concrete struct. The kind byte selects the safe cast back.
type Object struct {
	class *Class
	kind  ObjectKind
}

// ObjectKind discriminates the concrete struct an Object header belongs to.
type ObjectKind uint8

const (
	KindInstance ObjectKind = iota // user-defined class instance
	KindBigInt
	KindString
	KindList
	KindSlice
)

// Class returns the object's class.
func (obj *Object) Class() *Class {
	return obj.class
}

// Kind returns the object's kind byte.
func (obj *Object) Kind() ObjectKind {
	return obj.kind
}

// ClassName returns the name of the object's class, or "?" if class is nil.
func (obj *Object) ClassName() string {
	if obj.class == nil {
		return "?"
	}
	return obj.class.Name
}

// ---------------------------------------------------------------------------
// Value conversion helpers
// ---------------------------------------------------------------------------

// ToValue converts an Object pointer to a NaN-boxed Value.
func (obj *Object) ToValue() Value {
	return FromObjectPtr(unsafe.Pointer(obj))
}

// ObjectFromValue extracts an Object pointer from a NaN-boxed Value.
// Returns nil if the value is not an object.
func ObjectFromValue(v Value) *Object {
	if !v.IsObject() {
		return nil
	}
	return (*Object)(v.ObjectPtr())
}

// MustObjectFromValue extracts an Object pointer from a NaN-boxed Value.
// Panics if the value is not an object.
func MustObjectFromValue(v Value) *Object {
	if !v.IsObject() {
		panic("MustObjectFromValue: not an object")
	}
	return (*Object)(v.ObjectPtr())
}

// Concrete returns the concrete struct this header belongs to.
// The header is always the first field of the concrete struct, so the
// casts below are address-preserving.
func (obj *Object) Concrete() interface{} {
	switch obj.kind {
	case KindBigInt:
		return (*BigIntObject)(unsafe.Pointer(obj))
	case KindString:
		return (*StringObject)(unsafe.Pointer(obj))
	case KindList:
		return (*ListObject)(unsafe.Pointer(obj))
	case KindSlice:
		return (*SliceObject)(unsafe.Pointer(obj))
	default:
		return (*InstanceObject)(unsafe.Pointer(obj))
	}
}

// ---------------------------------------------------------------------------
// User-defined instances
// ---------------------------------------------------------------------------

// InstanceObject is an instance of a user-defined class. Behavior lives on
// the class's method table; instances carry only named fields.
type InstanceObject struct {
	Object
	Fields map[string]Value
}

// NewInstance creates an instance of the given class.
func (vm *VM) NewInstance(class *Class) *InstanceObject {
	inst := &InstanceObject{
		Object: Object{class: class, kind: KindInstance},
		Fields: make(map[string]Value),
	}
	vm.keepAlive[&inst.Object] = struct{}{}
	return inst
}

// SliceObjectFromValue extracts a *SliceObject from a Value.
// Returns nil if the value is not a slice.
func SliceObjectFromValue(v Value) *SliceObject {
	obj := ObjectFromValue(v)
	if obj == nil || obj.kind != KindSlice {
		return nil
	}
	return (*SliceObject)(unsafe.Pointer(obj))
}

// ListObjectFromValue extracts a *ListObject from a Value.
// Returns nil if the value is not a list.
func ListObjectFromValue(v Value) *ListObject {
	obj := ObjectFromValue(v)
	if obj == nil || obj.kind != KindList {
		return nil
	}
	return (*ListObject)(unsafe.Pointer(obj))
}

// StringObjectFromValue extracts a *StringObject from a Value.
// Returns nil if the value is not a string.
func StringObjectFromValue(v Value) *StringObject {
	obj := ObjectFromValue(v)
	if obj == nil || obj.kind != KindString {
		return nil
	}
	return (*StringObject)(unsafe.Pointer(obj))
}

// BigIntObjectFromValue extracts a *BigIntObject from a Value.
// Returns nil if the value is not a big integer.
func BigIntObjectFromValue(v Value) *BigIntObject {
	obj := ObjectFromValue(v)
	if obj == nil || obj.kind != KindBigInt {
		return nil
	}
	return (*BigIntObject)(unsafe.Pointer(obj))
}

// InstanceObjectFromValue extracts an *InstanceObject from a Value.
// Returns nil if the value is not a user-defined instance.
func InstanceObjectFromValue(v Value) *InstanceObject {
	obj := ObjectFromValue(v)
	if obj == nil || obj.kind != KindInstance {
		return nil
	}
	return (*InstanceObject)(unsafe.Pointer(obj))
}
