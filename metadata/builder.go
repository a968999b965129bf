package metadata

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/nix"
)

// AuxArrayType is the type of data arrays holding multi-dimensional metadata.
const AuxArrayType = "Multidimensional Metadata"

// ArraySink stores the auxiliary arrays of multi-dimensional values.
// *nix.Block satisfies it.
type ArraySink interface {
	CreateDataArray(name, typ string, shape []int, data []float64) (*nix.DataArray, error)
	HasDataArrayName(name string) bool
}

var _ ArraySink = (*nix.Block)(nil)

// BuildTree writes rec into sec, in key order.
//
// Nil, empty and empty-string values are skipped. Records become child sections, record
// lists become a child section holding one "{key}-{i}" section per item,
// NDArrays become auxiliary arrays in sink referenced by a property, and
// everything else becomes a property. A sequence mixing ints and floats is
// retried once with every item converted to float64.
//
// Parameters:
//   - sec: Section to populate
//   - rec: Metadata to write; nil writes nothing
//   - sink: Receiver of auxiliary arrays
//
// Returns:
//   - error: The first storage error
func BuildTree(sec *nix.Section, rec *Record, sink ArraySink) error {
	if rec == nil {
		return nil
	}

	for _, key := range rec.keys {
		v := rec.values[key]
		if isEmpty(v) {
			continue
		}

		if err := buildValue(sec, key, v, sink); err != nil {
			return fmt.Errorf("metadata %q in section %q: %w", key, sec.Name(), err)
		}
	}

	return nil
}

func buildValue(sec *nix.Section, key string, v Value, sink ArraySink) error {
	switch x := v.(type) {
	case Scalar:
		return storeProperty(sec, key, x.K, []any{x.V})
	case Vector:
		return storeProperty(sec, key, x.K, x.Items)
	case *Record:
		child, err := sec.CreateSection(key, KindDict.String())
		if err != nil {
			return err
		}

		return BuildTree(child, x, sink)
	case RecordList:
		child, err := sec.CreateSection(key, x.K.String())
		if err != nil {
			return err
		}
		for i, item := range x.Items {
			sub, err := child.CreateSection(fmt.Sprintf("%s-%d", key, i), KindDict.String())
			if err != nil {
				return err
			}
			if err := BuildTree(sub, item, sink); err != nil {
				return err
			}
		}

		return nil
	case *NDArray:
		return storeNDArray(sec, key, x, sink)
	case *Transform:
		return storeTransform(sec, key, x, sink)
	default:
		return fmt.Errorf("%w: %T", errs.ErrUnsupportedValue, v)
	}
}

// storeProperty creates the property and records kind as its declared type.
func storeProperty(sec *nix.Section, key string, kind Kind, items []any) error {
	prop, err := sec.CreateProperty(key, items...)
	if errors.Is(err, errs.ErrMixedValueTypes) {
		upgraded := make([]any, len(items))
		for i, item := range items {
			f, cerr := cast.ToFloat64E(item)
			if cerr != nil {
				return fmt.Errorf("%w: item %d: %w", err, i, cerr)
			}
			upgraded[i] = f
		}
		prop, err = sec.CreateProperty(key, upgraded...)
	}
	if err != nil {
		return err
	}

	prop.SetType(kind.String())

	return nil
}

func storeNDArray(sec *nix.Section, key string, arr *NDArray, sink ArraySink) error {
	if arr.Size() != len(arr.Data) {
		return fmt.Errorf("%w: %d values for shape %v", errs.ErrShapeMismatch, len(arr.Data), arr.Shape)
	}

	da, err := sink.CreateDataArray(auxArrayName(sink, sec, key), AuxArrayType, arr.Shape, arr.Data)
	if err != nil {
		return err
	}
	for range arr.Shape {
		da.AppendSetDimension()
	}
	da.SetMetadata(sec)

	prop, err := sec.CreateReferenceProperty(key, da.ID())
	if err != nil {
		return err
	}
	prop.SetType(KindNDArray.String())

	return nil
}

// storeTransform writes the transform as a section holding its frame codes
// and a reference to the matrix.
func storeTransform(sec *nix.Section, key string, t *Transform, sink ArraySink) error {
	child, err := sec.CreateSection(key, KindTransform.String())
	if err != nil {
		return err
	}

	if err := storeProperty(child, "from", KindInt, []any{t.From}); err != nil {
		return err
	}
	if err := storeProperty(child, "to", KindInt, []any{t.To}); err != nil {
		return err
	}
	if t.Trans == nil {
		return nil
	}

	return storeNDArray(child, "trans", NDArrayFromDense(t.Trans), sink)
}

// auxArrayName returns key when it is free in sink, otherwise a name
// qualified by the owning section.
func auxArrayName(sink ArraySink, sec *nix.Section, key string) string {
	if !sink.HasDataArrayName(key) {
		return key
	}

	base := sec.Name() + "." + key
	name := base
	for i := 1; sink.HasDataArrayName(name); i++ {
		name = fmt.Sprintf("%s-%d", base, i)
	}

	return name
}
