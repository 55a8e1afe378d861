// Package inspect serializes slice values and their normalization results
// to canonical CBOR for out-of-process tooling.
package inspect

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/coil/vm"
)

// cborEncMode holds CBOR encoding options with canonical mode for
// deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("inspect: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// SliceDescriptor describes a slice value on the wire. Bounds are carried
// as repr strings so arbitrary-precision integers (and arbitrary bound
// objects) survive; a nil bound reads as None.
type SliceDescriptor struct {
	Start *string `cbor:"start"`
	Stop  *string `cbor:"stop"`
	Step  *string `cbor:"step"`
}

// NormalizedTriple is the exact-path indices result for a given length.
// Decimal strings, not machine words: the exact path never truncates.
type NormalizedTriple struct {
	Length string `cbor:"length"`
	Start  string `cbor:"start"`
	Stop   string `cbor:"stop"`
	Step   string `cbor:"step"`
}

// AdjustedRange is the fast-path resolve+adjust result for a given length.
type AdjustedRange struct {
	Length   uint64 `cbor:"length"`
	Start    uint64 `cbor:"start"`
	Stop     uint64 `cbor:"stop"`
	Step     uint64 `cbor:"step"` // 0 means the magnitude overflowed
	Backward bool   `cbor:"backward"`
}

// DescribeSlice builds a wire descriptor for a slice value.
func DescribeSlice(v *vm.VM, s *vm.SliceObject) (SliceDescriptor, error) {
	var d SliceDescriptor
	var err error
	if d.Start, err = boundRepr(v, s.Start()); err != nil {
		return SliceDescriptor{}, err
	}
	if d.Stop, err = boundRepr(v, s.Stop()); err != nil {
		return SliceDescriptor{}, err
	}
	if d.Step, err = boundRepr(v, s.Step()); err != nil {
		return SliceDescriptor{}, err
	}
	return d, nil
}

func boundRepr(v *vm.VM, bound vm.Value) (*string, error) {
	if bound.IsNone() {
		return nil, nil
	}
	r, err := v.Repr(bound)
	if err != nil {
		return nil, fmt.Errorf("inspect: bound repr: %w", err)
	}
	return &r, nil
}

// Normalize runs the exact path for the given length and returns the
// wire form of the triple.
func Normalize(v *vm.VM, s *vm.SliceObject, length *big.Int) (NormalizedTriple, error) {
	res, err := s.Indices(v, v.NewBigInt(length))
	if err != nil {
		return NormalizedTriple{}, err
	}
	l := vm.ListObjectFromValue(res)
	parts := make([]string, 3)
	for i, item := range l.Items {
		n, _ := vm.AsBigInt(item)
		parts[i] = n.String()
	}
	return NormalizedTriple{
		Length: length.String(),
		Start:  parts[0],
		Stop:   parts[1],
		Step:   parts[2],
	}, nil
}

// Adjust runs the fast path (resolve, then adjust against the length) and
// returns the wire form of the result.
func Adjust(v *vm.VM, s *vm.SliceObject, length uint) (AdjustedRange, error) {
	resolved, err := vm.ResolveSlice(v, s)
	if err != nil {
		return AdjustedRange{}, err
	}
	rng, step, backward := resolved.AdjustIndices(length)
	return AdjustedRange{
		Length:   uint64(length),
		Start:    uint64(rng.Start),
		Stop:     uint64(rng.Stop),
		Step:     uint64(step),
		Backward: backward,
	}, nil
}

// MarshalDescriptor serializes a SliceDescriptor to CBOR bytes.
func MarshalDescriptor(d *SliceDescriptor) ([]byte, error) {
	return cborEncMode.Marshal(d)
}

// UnmarshalDescriptor deserializes a SliceDescriptor from CBOR bytes.
func UnmarshalDescriptor(data []byte) (*SliceDescriptor, error) {
	var d SliceDescriptor
	if err := cbor.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("inspect: unmarshal descriptor: %w", err)
	}
	return &d, nil
}

// MarshalTriple serializes a NormalizedTriple to CBOR bytes.
func MarshalTriple(n *NormalizedTriple) ([]byte, error) {
	return cborEncMode.Marshal(n)
}

// UnmarshalTriple deserializes a NormalizedTriple from CBOR bytes.
func UnmarshalTriple(data []byte) (*NormalizedTriple, error) {
	var n NormalizedTriple
	if err := cbor.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("inspect: unmarshal triple: %w", err)
	}
	return &n, nil
}

// MarshalRange serializes an AdjustedRange to CBOR bytes.
func MarshalRange(r *AdjustedRange) ([]byte, error) {
	return cborEncMode.Marshal(r)
}

// UnmarshalRange deserializes an AdjustedRange from CBOR bytes.
func UnmarshalRange(data []byte) (*AdjustedRange, error) {
	var r AdjustedRange
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("inspect: unmarshal range: %w", err)
	}
	return &r, nil
}
