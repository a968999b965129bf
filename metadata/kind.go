package metadata

import (
	"fmt"

	"github.com/nixworks/nixworks/errs"
)

// Kind is the declared type of a stored value.
type Kind uint8

const (
	KindStr       Kind = iota + 1 // KindStr is a text scalar.
	KindInt                       // KindInt is an integer scalar.
	KindFloat                     // KindFloat is a floating point scalar.
	KindBool                      // KindBool is a boolean scalar.
	KindList                      // KindList is a mutable sequence.
	KindTuple                     // KindTuple is an immutable sequence.
	KindFloat64                   // KindFloat64 is a numpy float64 scalar.
	KindInt64                     // KindInt64 is a numpy int64 scalar.
	KindNDArray                   // KindNDArray is a numpy array of any rank.
	KindDict                      // KindDict is a nested mapping.
	KindTransform                 // KindTransform is an MNE coordinate transform.
)

var kindTags = map[Kind]string{
	KindStr:       "str",
	KindInt:       "int",
	KindFloat:     "float",
	KindBool:      "bool",
	KindList:      "list",
	KindTuple:     "tuple",
	KindFloat64:   "numpy.float64",
	KindInt64:     "numpy.int64",
	KindNDArray:   "numpy.ndarray",
	KindDict:      "dict",
	KindTransform: "mne.transforms.Transform",
}

var tagKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTags))
	for k, tag := range kindTags {
		m[tag] = k
	}

	return m
}()

// String returns the declared type tag written to storage.
func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}

	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a declared type tag back to its Kind.
//
// Returns:
//   - Kind: The registered kind
//   - error: ErrUnknownValueKind for tags outside the registry
func ParseKind(tag string) (Kind, error) {
	if k, ok := tagKinds[tag]; ok {
		return k, nil
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnknownValueKind, tag)
}

// IsScalar reports whether values of this kind are single scalars.
func (k Kind) IsScalar() bool {
	switch k {
	case KindStr, KindInt, KindFloat, KindBool, KindFloat64, KindInt64:
		return true
	default:
		return false
	}
}

// IsSequence reports whether values of this kind are sequences.
func (k Kind) IsSequence() bool {
	return k == KindList || k == KindTuple || k == KindNDArray
}
