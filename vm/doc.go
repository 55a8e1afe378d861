// Package vm implements the coil runtime core.
//
// This package contains:
//   - NaN-boxed value representation
//   - Heap object layout and builtin object kinds
//   - Class-based method dispatch with overridable protocol hooks
//   - The slice value type and its index-normalization algorithms
//   - Sequence builtins (list, string) consuming the slice machinery
package vm
