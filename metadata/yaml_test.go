package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/nixworks/nixworks/errs"
)

// ==============================================================================
// YAML Tests
// ==============================================================================

const infoYAML = `
sfreq: 256.0
nchan: 2
description: resting
ch_names: [Fz, Cz]
chs:
  - ch_name: Fz
    loc: !numpy.ndarray [0.1, 0.2, 0.3]
  - ch_name: Cz
    loc: !numpy.ndarray [0.4, 0.5, 0.6]
proj: [[1.0, 0.0], [0.0, 1.0]]
meas_id: !numpy.int64 12
`

func TestFromYAML_Classification(t *testing.T) {
	var rec Record
	require.NoError(t, yaml.Unmarshal([]byte(infoYAML), &rec))

	require.Equal(t, []string{"sfreq", "nchan", "description", "ch_names", "chs", "proj", "meas_id"}, rec.Keys())

	v, _ := rec.Get("sfreq")
	require.Equal(t, Scalar{K: KindFloat, V: 256.0}, v)

	v, _ = rec.Get("meas_id")
	require.Equal(t, Scalar{K: KindInt64, V: int64(12)}, v)

	v, _ = rec.Get("ch_names")
	require.Equal(t, Vector{K: KindList, Items: []any{"Fz", "Cz"}}, v)

	chs, err := rec.Records("chs")
	require.NoError(t, err)
	require.Len(t, chs, 2)
	v, _ = chs[1].Get("loc")
	require.Equal(t, Vector{K: KindNDArray, Items: []any{0.4, 0.5, 0.6}}, v)

	v, _ = rec.Get("proj")
	require.Equal(t, &NDArray{Shape: []int{2, 2}, Data: []float64{1, 0, 0, 1}}, v)
}

func TestYAML_RoundTrip(t *testing.T) {
	rec := NewRecord().
		Set("whole", Scalar{K: KindFloat, V: 2.0}).
		Set("text", Scalar{K: KindStr, V: "123"}).
		Set("pair", Vector{K: KindTuple, Items: []any{int64(1), int64(2)}}).
		Set("one", Scalar{K: KindList, V: "only"}).
		Set("cube", &NDArray{Shape: []int{2, 1, 2}, Data: []float64{1, 2, 3, 4}}).
		Set("nested", NewRecord().Set("flag", Scalar{K: KindBool, V: false})).
		Set("t", &Transform{From: 1, To: 4, Trans: mat.NewDense(2, 2, []float64{1, 0, 0, 1})})

	out, err := yaml.Marshal(rec)
	require.NoError(t, err)

	got := NewRecord()
	require.NoError(t, yaml.Unmarshal(out, got), string(out))
	requireSameRecord(t, rec, got)
	require.Equal(t, rec.Keys(), got.Keys())
}

func TestFromYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{name: "unknown tag", doc: "x: !pandas.Timestamp 2020", want: errs.ErrUnknownValueKind},
		{name: "ragged", doc: "x: [[1, 2], [3]]", want: errs.ErrShapeMismatch},
		{name: "ragged depth", doc: "x: [[1, 2], [3, [4]]]", want: errs.ErrShapeMismatch},
		{name: "mixed list", doc: "x: [{a: 1}, 2]", want: errs.ErrUnsupportedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var node yaml.Node
			require.NoError(t, yaml.Unmarshal([]byte(tt.doc), &node))
			_, err := FromYAML(&node)
			require.ErrorIs(t, err, tt.want)
		})
	}

	var rec Record
	require.ErrorIs(t, yaml.Unmarshal([]byte("[1, 2]"), &rec), errs.ErrUnsupportedValue)
}
