package vm

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Runtime errors
// ---------------------------------------------------------------------------

// ErrorKind classifies a runtime error. All kinds are synchronous usage
// errors: non-retriable, surfaced immediately, never with a partial result.
type ErrorKind uint8

const (
	// InvalidArgument: a well-typed value that the operation rejects
	// (zero-argument slice construction, zero step, negative length).
	InvalidArgument ErrorKind = iota

	// TypeConversion: a value does not support the conversion an
	// operation requires (no integer coercion, for indexing).
	TypeConversion

	// Unhashable: the value's type does not support hashing.
	Unhashable

	// IndexOutOfRange: a concrete index falls outside the sequence.
	IndexOutOfRange

	// RecursionLimit: dispatch exceeded the runtime's depth limit.
	RecursionLimit
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case TypeConversion:
		return "TypeConversion"
	case Unhashable:
		return "Unhashable"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case RecursionLimit:
		return "RecursionLimit"
	default:
		return "Unknown"
	}
}

// Exception is the error type signaled by runtime operations.
type Exception struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Exception) Error() string {
	return e.Message
}

// NewException creates an exception with the given kind and message.
func NewException(kind ErrorKind, format string, args ...interface{}) *Exception {
	return &Exception{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err if it is an *Exception, and whether it was.
func KindOf(err error) (ErrorKind, bool) {
	var ex *Exception
	if errors.As(err, &ex) {
		return ex.Kind, true
	}
	return 0, false
}

// IsKind returns true if err is an *Exception of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
