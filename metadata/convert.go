package metadata

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/errs"
)

// FromAny classifies a Go value into a Value.
//
// Accepted inputs are nil, Value implementations, bool, string, the integer
// and float types, slices of those, []any, [][]float64, map[string]any (keys
// sorted), []map[string]any and gonum matrices. Integer-valued slices become
// KindList vectors, []float64 becomes a KindNDArray vector.
//
// Returns:
//   - Value: The classified value, nil for nil input
//   - error: ErrUnsupportedValue for anything else
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Value:
		return x, nil
	case string:
		return Scalar{K: KindStr, V: x}, nil
	case bool:
		return Scalar{K: KindBool, V: x}, nil
	case int:
		return Scalar{K: KindInt, V: int64(x)}, nil
	case int32:
		return Scalar{K: KindInt, V: int64(x)}, nil
	case int64:
		return Scalar{K: KindInt, V: x}, nil
	case float32:
		return Scalar{K: KindFloat, V: float64(x)}, nil
	case float64:
		return Scalar{K: KindFloat, V: x}, nil
	case []string:
		return Vector{K: KindList, Items: toItems(x, func(s string) any { return s })}, nil
	case []bool:
		return Vector{K: KindList, Items: toItems(x, func(b bool) any { return b })}, nil
	case []int:
		return Vector{K: KindList, Items: toItems(x, func(i int) any { return int64(i) })}, nil
	case []int64:
		return Vector{K: KindList, Items: toItems(x, func(i int64) any { return i })}, nil
	case []float64:
		return Vector{K: KindNDArray, Items: toItems(x, func(f float64) any { return f })}, nil
	case [][]float64:
		return ndArrayFromRows(x)
	case mat.Matrix:
		return NDArrayFromDense(x), nil
	case map[string]any:
		return recordFromMap(x)
	case []map[string]any:
		list := RecordList{K: KindList}
		for _, m := range x {
			rec, err := recordFromMap(m)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, rec)
		}

		return list, nil
	case []any:
		return sequenceFromAny(x)
	default:
		return nil, fmt.Errorf("%w: %T", errs.ErrUnsupportedValue, v)
	}
}

func toItems[T any](in []T, conv func(T) any) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = conv(v)
	}

	return out
}

func recordFromMap(m map[string]any) (*Record, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rec := NewRecord()
	for _, k := range keys {
		if err := rec.SetAny(k, m[k]); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// sequenceFromAny classifies a heterogeneous slice by its first element,
// the same rule BuildTree applies to stored sequences.
func sequenceFromAny(items []any) (Value, error) {
	if len(items) == 0 {
		return Vector{K: KindList}, nil
	}

	switch items[0].(type) {
	case map[string]any, *Record:
		list := RecordList{K: KindList}
		for i, item := range items {
			v, err := FromAny(item)
			if err != nil {
				return nil, err
			}
			rec, ok := v.(*Record)
			if !ok {
				return nil, fmt.Errorf("%w: item %d of record list is %T", errs.ErrUnsupportedValue, i, item)
			}
			list.Items = append(list.Items, rec)
		}

		return list, nil
	}

	vec := Vector{K: KindList, Items: make([]any, len(items))}
	for i, item := range items {
		v, err := FromAny(item)
		if err != nil {
			return nil, err
		}
		s, ok := v.(Scalar)
		if !ok {
			return nil, fmt.Errorf("%w: item %d of sequence is %T", errs.ErrUnsupportedValue, i, item)
		}
		vec.Items[i] = s.V
	}

	return vec, nil
}

func ndArrayFromRows(rows [][]float64) (Value, error) {
	if len(rows) == 0 {
		return &NDArray{Shape: []int{0, 0}}, nil
	}

	cols := len(rows[0])
	arr := &NDArray{Shape: []int{len(rows), cols}, Data: make([]float64, 0, len(rows)*cols)}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", errs.ErrShapeMismatch, i, len(row), cols)
		}
		arr.Data = append(arr.Data, row...)
	}

	return arr, nil
}
