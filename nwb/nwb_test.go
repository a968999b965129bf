package nwb

import (
	"testing"
	"time"

	"github.com/ctessum/unit"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/nix"
	"github.com/nixworks/nixworks/store"
)

// ==============================================================================
// Helper Functions
// ==============================================================================

func testFile() *File {
	return &File{
		Identifier:         "cell-07",
		SessionDescription: "whole cell recording",
		SessionStartTime:   time.Date(2019, 3, 4, 13, 14, 15, 0, time.FixedZone("CET", 3600)),
		Acquisition: []*TimeSeries{
			{
				Name:             "sweep-1",
				Kind:             KindVoltageClampSeries,
				Data:             []float64{1e-12, 2e-12, 3e-12, 4e-12},
				Unit:             "A",
				Rate:             1000,
				StartingTime:     250,
				StartingTimeUnit: "ms",
				Electrode:        &Electrode{Name: "elec0", Description: "patch pipette"},
			},
			{
				Name:       "sweep-2",
				Kind:       KindCurrentClampSeries,
				Data:       []float64{-0.07, -0.069, -0.068},
				Unit:       "V",
				Timestamps: []float64{0, 0.5, 1.25},
			},
			{
				Name:             "temperature",
				Data:             []float64{20, 21},
				Unit:             "degC",
				Rate:             1,
				StartingTimeUnit: "Seconds",
			},
		},
	}
}

func quietOption() Option {
	logger, _ := logtest.NewNullLogger()
	return WithLogger(logger)
}

// ==============================================================================
// Unit Tests
// ==============================================================================

func TestToSeconds(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		want  float64
	}{
		{1.5, "s", 1.5},
		{1.5, "", 1.5},
		{250, "ms", 0.25},
		{2, "Seconds", 2},
		{3, "min", 180},
		{500, "us", 5e-4},
	}

	for _, tt := range tests {
		got, err := toSeconds(tt.value, tt.unit)
		require.NoError(t, err, tt.unit)
		require.InDelta(t, tt.want, got, 1e-12, tt.unit)
	}

	_, err := toSeconds(1, "fortnight")
	require.ErrorIs(t, err, errs.ErrInvalidUnit)
}

func TestDuration_Dimensions(t *testing.T) {
	d, err := duration(2, "h")
	require.NoError(t, err)
	require.True(t, d.Dimensions().Matches(unit.Second))
	require.InDelta(t, 7200.0, d.Value(), 1e-9)

	// the shared unit table is not scaled by use
	d, err = duration(1, "hour")
	require.NoError(t, err)
	require.InDelta(t, 3600.0, d.Value(), 1e-9)
	require.InDelta(t, 3600.0, hour.Value(), 1e-9)
}

func TestRateFromInterval(t *testing.T) {
	rate, err := rateFromInterval(0.001, "s")
	require.NoError(t, err)
	require.InDelta(t, 1000.0, rate, 1e-9)

	rate, err = rateFromInterval(4, "ms")
	require.NoError(t, err)
	require.InDelta(t, 250.0, rate, 1e-9)

	_, err = rateFromInterval(0, "s")
	require.ErrorIs(t, err, errs.ErrInvalidDimension)
}

func TestSeriesKind(t *testing.T) {
	for _, k := range []SeriesKind{KindTimeSeries, KindVoltageClampSeries, KindCurrentClampSeries} {
		got, err := ParseSeriesKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}

	_, err := ParseSeriesKind("nwb.Unknown")
	require.ErrorIs(t, err, errs.ErrUnknownValueKind)
}

// ==============================================================================
// ToNIX Tests
// ==============================================================================

func TestToNIX_Layout(t *testing.T) {
	f, err := ToNIX(testFile(), "session", quietOption())
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	b, err := f.Block("session")
	require.NoError(t, err)
	require.Equal(t, BlockType, b.Type())
	require.NotNil(t, b.Metadata())
	require.Equal(t, "session", b.Metadata().Name())
	require.Equal(t, RootSectionType, b.Metadata().Type())

	rec, err := b.Metadata().Section(RecordingName)
	require.NoError(t, err)
	for name, want := range map[string]string{
		propName:     "cell-07",
		propDate:     "2019-03-04",
		propTime:     "12:14:15",
		propTimeZone: "UTC",
	} {
		got, err := textValue(rec, name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	acq, err := b.Group(AcquisitionName)
	require.NoError(t, err)
	require.Equal(t, AcquisitionType, acq.Type())
	require.Len(t, acq.DataArrays(), 3)

	sweep, err := b.DataArray("sweep-1")
	require.NoError(t, err)
	require.Equal(t, KindVoltageClampSeries.String(), sweep.Type())
	require.Equal(t, "A", sweep.Unit())
	dim, ok := sweep.Dimensions()[0].(*nix.SampledDimension)
	require.True(t, ok)
	require.InDelta(t, 0.001, dim.Interval, 1e-15)
	require.InDelta(t, 0.25, dim.Offset, 1e-15)
	require.Equal(t, "s", dim.Unit)
	require.Equal(t, "time", dim.Label)

	require.NotNil(t, sweep.Metadata())
	require.Equal(t, "elec0", sweep.Metadata().Name())
	require.Equal(t, ElectrodeType, sweep.Metadata().Type())

	sweep2, err := b.DataArray("sweep-2")
	require.NoError(t, err)
	rdim, ok := sweep2.Dimensions()[0].(*nix.RangeDimension)
	require.True(t, ok)
	require.Equal(t, []float64{0, 0.5, 1.25}, rdim.Ticks())
}

func TestToNIX_MultiAxis(t *testing.T) {
	in := &File{
		Identifier:       "grid",
		SessionStartTime: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Acquisition: []*TimeSeries{{
			Name:  "lfp",
			Data:  []float64{1, 2, 3, 4, 5, 6},
			Shape: []int{3, 2},
			Unit:  "V",
			Rate:  10,
		}},
	}

	f, err := ToNIX(in, "grid", quietOption())
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	b, err := f.Block("grid")
	require.NoError(t, err)
	da, err := b.DataArray("lfp")
	require.NoError(t, err)
	require.Len(t, da.Dimensions(), 2)

	files, err := FromNIX(f, quietOption())
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Empty(t, files[0].Acquisition)
}

func TestToNIX_Errors(t *testing.T) {
	in := testFile()
	in.Acquisition[0].Rate = 0
	_, err := ToNIX(in, "session", quietOption())
	require.ErrorIs(t, err, errs.ErrInvalidSource)

	in = testFile()
	in.Acquisition[1].Timestamps = []float64{0}
	_, err = ToNIX(in, "session", quietOption())
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	in = testFile()
	in.Acquisition[0].StartingTimeUnit = "fortnight"
	_, err = ToNIX(in, "session", quietOption())
	require.ErrorIs(t, err, errs.ErrInvalidUnit)

	in = testFile()
	in.Acquisition[2].Name = in.Acquisition[0].Name
	_, err = ToNIX(in, "session", quietOption())
	require.ErrorIs(t, err, errs.ErrDuplicateName)
}

// ==============================================================================
// Round Trip Tests
// ==============================================================================

func TestRoundTrip(t *testing.T) {
	in := testFile()
	f, err := ToNIX(in, "session", quietOption())
	require.NoError(t, err)

	data, err := store.Encode(f)
	require.NoError(t, err)
	decoded, err := store.Decode(data)
	require.NoError(t, err)

	files, err := FromNIX(decoded, quietOption())
	require.NoError(t, err)
	require.Len(t, files, 1)

	got := files[0]
	require.Equal(t, in.Identifier, got.Identifier)
	require.Equal(t, in.SessionDescription, got.SessionDescription)
	require.True(t, in.SessionStartTime.Equal(got.SessionStartTime))
	require.Len(t, got.Acquisition, 3)

	sweep := got.Acquisition[0]
	require.Equal(t, "sweep-1", sweep.Name)
	require.Equal(t, KindVoltageClampSeries, sweep.Kind)
	require.Equal(t, in.Acquisition[0].Data, sweep.Data)
	require.Equal(t, "A", sweep.Unit)
	require.InDelta(t, 1000.0, sweep.Rate, 1e-9)
	require.InDelta(t, 0.25, sweep.StartingTime, 1e-12)
	require.Equal(t, "seconds", sweep.StartingTimeUnit)
	require.Equal(t, &Electrode{Name: "elec0", Description: "patch pipette"}, sweep.Electrode)

	clamp := got.Acquisition[1]
	require.Equal(t, KindCurrentClampSeries, clamp.Kind)
	require.Equal(t, []float64{0, 0.5, 1.25}, clamp.Timestamps)
	require.Zero(t, clamp.Rate)
	require.Nil(t, clamp.Electrode)

	temp := got.Acquisition[2]
	require.Equal(t, KindTimeSeries, temp.Kind)
	require.InDelta(t, 1.0, temp.Rate, 1e-12)
}

func TestFromNIX_SchemaMismatch(t *testing.T) {
	f := nix.NewFile()
	b, err := f.CreateBlock("plain", "Recording")
	require.NoError(t, err)

	_, err = FromNIX(f, quietOption())
	require.ErrorIs(t, err, errs.ErrSchemaMismatch)

	md, err := f.CreateSection("plain", RootSectionType)
	require.NoError(t, err)
	b.SetMetadata(md)
	_, err = FromNIX(f, quietOption())
	require.ErrorIs(t, err, errs.ErrSchemaMismatch)

	rec, err := md.CreateSection(RecordingName, RecordingName)
	require.NoError(t, err)
	require.NoError(t, textProperty(rec, propName, "plain"))
	require.NoError(t, textProperty(rec, propDate, "2020-01-01"))
	_, err = FromNIX(f, quietOption())
	require.ErrorIs(t, err, errs.ErrSchemaMismatch)

	require.NoError(t, textProperty(rec, propTime, "noon"))
	_, err = FromNIX(f, quietOption())
	require.ErrorIs(t, err, errs.ErrSchemaMismatch)
}
