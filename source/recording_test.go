package source

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/errs"
)

// ==============================================================================
// Recording Tests
// ==============================================================================

func TestRecording_Validate(t *testing.T) {
	rec := &Recording{
		ChannelNames: []string{"a", "b"},
		Units:        []string{"V", "V"},
		SampleRate:   2,
		Data:         mat.NewDense(2, 4, nil),
	}
	require.NoError(t, rec.Validate())
	require.Equal(t, 2, rec.NChan())
	require.Equal(t, 4, rec.NSamples())
	require.Equal(t, []float64{0, 0.5, 1, 1.5}, rec.Times())

	sig := rec.Signal()
	require.Equal(t, rec.ChannelNames, sig.Channels)
	require.Equal(t, 4, sig.NTimes())

	bad := *rec
	bad.ChannelNames = []string{"a"}
	require.ErrorIs(t, bad.Validate(), errs.ErrInvalidSource)

	bad = *rec
	bad.SampleRate = 0
	require.ErrorIs(t, bad.Validate(), errs.ErrInvalidSource)

	bad = *rec
	bad.Units = []string{"V"}
	require.ErrorIs(t, bad.Validate(), errs.ErrInvalidSource)

	require.ErrorIs(t, (&Recording{}).Validate(), errs.ErrInvalidSource)
	require.Equal(t, 0, (&Recording{}).NSamples())
}

func TestVoltFactor(t *testing.T) {
	tests := []struct {
		unit string
		want float64
		ok   bool
	}{
		{"V", 1, true},
		{"mV", 1e-3, true},
		{"uV", 1e-6, true},
		{"µV", 1e-6, true},
		{" nV ", 1e-9, true},
		{"degC", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := VoltFactor(tt.unit)
		require.Equal(t, tt.ok, ok, tt.unit)
		require.Equal(t, tt.want, got, tt.unit)
	}
}
