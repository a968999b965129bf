package nix

import (
	"fmt"
	"slices"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/format"
)

// Property is a named metadata value: a non-empty list of values sharing one
// DataType, or a reference to a data array by id.
//
// The declared type string records the kind of the original value, so that a
// reader can rebuild it exactly.
type Property struct {
	name      string
	typ       string
	dataType  format.DataType
	values    []any
	reference string
}

// Name returns the property name.
func (p *Property) Name() string {
	return p.name
}

// Type returns the declared type tag of the original value.
func (p *Property) Type() string {
	return p.typ
}

// SetType sets the declared type tag.
func (p *Property) SetType(typ string) {
	p.typ = typ
}

// DataType returns the element type shared by all values.
// Reference properties report DataTypeString.
func (p *Property) DataType() format.DataType {
	return p.dataType
}

// Len returns the number of stored values.
func (p *Property) Len() int {
	return len(p.values)
}

// Values returns a copy of the stored values. Elements are float64, int64,
// string or bool depending on DataType.
func (p *Property) Values() []any {
	return slices.Clone(p.values)
}

// IsReference reports whether the property points at a data array.
func (p *Property) IsReference() bool {
	return p.reference != ""
}

// Reference returns the id of the referenced data array, or "".
func (p *Property) Reference() string {
	return p.reference
}

// Float64s returns the values of a DataTypeDouble property.
func (p *Property) Float64s() ([]float64, error) {
	return typedValues[float64](p, format.DataTypeDouble)
}

// Int64s returns the values of a DataTypeInt64 property.
func (p *Property) Int64s() ([]int64, error) {
	return typedValues[int64](p, format.DataTypeInt64)
}

// Strings returns the values of a DataTypeString property.
func (p *Property) Strings() ([]string, error) {
	return typedValues[string](p, format.DataTypeString)
}

// Bools returns the values of a DataTypeBool property.
func (p *Property) Bools() ([]bool, error) {
	return typedValues[bool](p, format.DataTypeBool)
}

func typedValues[T any](p *Property, want format.DataType) ([]T, error) {
	if p.dataType != want {
		return nil, fmt.Errorf("%w: property %q holds %s, not %s", errs.ErrUnsupportedValue, p.name, p.dataType, want)
	}

	out := make([]T, len(p.values))
	for i, v := range p.values {
		out[i], _ = v.(T)
	}

	return out, nil
}

// normalizeValues converts Go values to the canonical element types and
// checks that they share one DataType.
func normalizeValues(values []any) ([]any, format.DataType, error) {
	if len(values) == 0 {
		return nil, 0, errs.ErrEmptyProperty
	}

	out := make([]any, len(values))
	var dt format.DataType
	for i, v := range values {
		nv, vdt, err := normalizeValue(v)
		if err != nil {
			return nil, 0, err
		}

		if i == 0 {
			dt = vdt
		} else if vdt != dt {
			return nil, 0, fmt.Errorf("%w: %s and %s", errs.ErrMixedValueTypes, dt, vdt)
		}
		out[i] = nv
	}

	return out, dt, nil
}

func normalizeValue(v any) (any, format.DataType, error) {
	switch x := v.(type) {
	case float64:
		return x, format.DataTypeDouble, nil
	case float32:
		return float64(x), format.DataTypeDouble, nil
	case int:
		return int64(x), format.DataTypeInt64, nil
	case int8:
		return int64(x), format.DataTypeInt64, nil
	case int16:
		return int64(x), format.DataTypeInt64, nil
	case int32:
		return int64(x), format.DataTypeInt64, nil
	case int64:
		return x, format.DataTypeInt64, nil
	case uint8:
		return int64(x), format.DataTypeInt64, nil
	case uint16:
		return int64(x), format.DataTypeInt64, nil
	case uint32:
		return int64(x), format.DataTypeInt64, nil
	case string:
		return x, format.DataTypeString, nil
	case bool:
		return x, format.DataTypeBool, nil
	default:
		return nil, 0, fmt.Errorf("%w: %T", errs.ErrUnsupportedValue, v)
	}
}
