package metadata

import (
	"fmt"
	"slices"

	"github.com/spf13/cast"

	"github.com/nixworks/nixworks/errs"
)

// Record is an insertion-ordered mapping from keys to values.
type Record struct {
	keys   []string
	values map[string]Value
}

var _ Value = (*Record)(nil)

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

func (r *Record) Kind() Kind { return KindDict }
func (*Record) isValue()     {}

// Set stores v under key. Overwriting keeps the original position.
func (r *Record) Set(key string, v Value) *Record {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v

	return r
}

// SetAny converts v with FromAny and stores it under key.
func (r *Record) SetAny(key string, v any) error {
	val, err := FromAny(v)
	if err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	r.Set(key, val)

	return nil
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Delete removes key.
func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	return slices.Clone(r.keys)
}

// Len returns the number of keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// Float returns a scalar value as float64.
func (r *Record) Float(key string) (float64, error) {
	s, err := r.scalar(key)
	if err != nil {
		return 0, err
	}

	return cast.ToFloat64E(s.V)
}

// Int returns a scalar value as int.
func (r *Record) Int(key string) (int, error) {
	s, err := r.scalar(key)
	if err != nil {
		return 0, err
	}

	return cast.ToIntE(s.V)
}

// Text returns a scalar value as string.
func (r *Record) Text(key string) (string, error) {
	s, err := r.scalar(key)
	if err != nil {
		return "", err
	}

	return cast.ToStringE(s.V)
}

// Strings returns a vector, or a collapsed single scalar, as strings.
func (r *Record) Strings(key string) ([]string, error) {
	v, ok := r.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", errs.ErrSchemaMismatch, key)
	}

	switch x := v.(type) {
	case Scalar:
		s, err := cast.ToStringE(x.V)
		return []string{s}, err
	case Vector:
		return cast.ToStringSliceE(x.Items)
	default:
		return nil, fmt.Errorf("%w: key %q holds %s", errs.ErrSchemaMismatch, key, v.Kind())
	}
}

// Floats returns a vector, or a collapsed single scalar, as float64 values.
func (r *Record) Floats(key string) ([]float64, error) {
	v, ok := r.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", errs.ErrSchemaMismatch, key)
	}

	var items []any
	switch x := v.(type) {
	case Scalar:
		items = []any{x.V}
	case Vector:
		items = x.Items
	default:
		return nil, fmt.Errorf("%w: key %q holds %s", errs.ErrSchemaMismatch, key, v.Kind())
	}

	out := make([]float64, len(items))
	for i, item := range items {
		f, err := cast.ToFloat64E(item)
		if err != nil {
			return nil, fmt.Errorf("key %q item %d: %w", key, i, err)
		}
		out[i] = f
	}

	return out, nil
}

// Record returns a nested record.
func (r *Record) Record(key string) (*Record, error) {
	v, ok := r.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", errs.ErrSchemaMismatch, key)
	}
	rec, ok := v.(*Record)
	if !ok {
		return nil, fmt.Errorf("%w: key %q holds %s", errs.ErrSchemaMismatch, key, v.Kind())
	}

	return rec, nil
}

// Records returns a record list.
func (r *Record) Records(key string) ([]*Record, error) {
	v, ok := r.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q", errs.ErrSchemaMismatch, key)
	}
	list, ok := v.(RecordList)
	if !ok {
		return nil, fmt.Errorf("%w: key %q holds %s", errs.ErrSchemaMismatch, key, v.Kind())
	}

	return list.Items, nil
}

func (r *Record) scalar(key string) (Scalar, error) {
	v, ok := r.values[key]
	if !ok {
		return Scalar{}, fmt.Errorf("%w: key %q", errs.ErrSchemaMismatch, key)
	}

	switch x := v.(type) {
	case Scalar:
		return x, nil
	case Vector:
		if len(x.Items) == 1 {
			return Scalar{K: x.K, V: x.Items[0]}, nil
		}
	}

	return Scalar{}, fmt.Errorf("%w: key %q holds %s, not a scalar", errs.ErrSchemaMismatch, key, v.Kind())
}
