package metadata

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/errs"
)

// Value is one of Scalar, Vector, *Record, RecordList, *NDArray or *Transform.
// A nil Value stands for an absent entry and is never stored.
type Value interface {
	// Kind returns the declared type recorded next to the stored value.
	Kind() Kind
	isValue()
}

// Scalar is a single str, int, float or bool.
// V holds a string, int64, float64 or bool.
type Scalar struct {
	K Kind
	V any
}

func (s Scalar) Kind() Kind { return s.K }
func (Scalar) isValue()     {}

// Vector is a one-dimensional sequence of scalars.
// Items hold string, int64, float64 or bool values; int64 and float64 may mix.
type Vector struct {
	K     Kind
	Items []any
}

func (v Vector) Kind() Kind { return v.K }
func (Vector) isValue()     {}

// Len returns the number of items.
func (v Vector) Len() int { return len(v.Items) }

// RecordList is a sequence of records.
type RecordList struct {
	K     Kind
	Items []*Record
}

func (l RecordList) Kind() Kind { return l.K }
func (RecordList) isValue()     {}

// NDArray is a row-major numeric block of rank greater than one.
type NDArray struct {
	Shape []int
	Data  []float64
}

func (a *NDArray) Kind() Kind { return KindNDArray }
func (*NDArray) isValue()     {}

// Size returns the number of elements implied by Shape.
func (a *NDArray) Size() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}

	return n
}

// Dense returns a rank-2 array as a gonum matrix sharing the data.
func (a *NDArray) Dense() (*mat.Dense, error) {
	if len(a.Shape) != 2 || a.Size() != len(a.Data) || a.Size() == 0 {
		return nil, fmt.Errorf("%w: %v is not a non-empty matrix", errs.ErrShapeMismatch, a.Shape)
	}

	return mat.NewDense(a.Shape[0], a.Shape[1], a.Data), nil
}

// NDArrayFromDense copies a gonum matrix into a rank-2 NDArray.
func NDArrayFromDense(m mat.Matrix) *NDArray {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}

	return &NDArray{Shape: []int{r, c}, Data: data}
}

// Transform is a coordinate frame transform: From and To are frame codes and
// Trans is the affine matrix, usually 4x4.
type Transform struct {
	From  int64
	To    int64
	Trans *mat.Dense
}

func (t *Transform) Kind() Kind { return KindTransform }
func (*Transform) isValue()     {}

// isEmpty reports whether v carries nothing worth storing.
func isEmpty(v Value) bool {
	switch x := v.(type) {
	case nil:
		return true
	case Scalar:
		s, ok := x.V.(string)
		return ok && s == ""
	case Vector:
		return len(x.Items) == 0
	case RecordList:
		return len(x.Items) == 0
	case *Record:
		return x == nil || x.Len() == 0
	case *NDArray:
		return x == nil || len(x.Data) == 0
	case *Transform:
		return x == nil
	default:
		return false
	}
}
