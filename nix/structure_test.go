package nix

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nixworks/nixworks/errs"
)

func buildSampleFile(t *testing.T) *File {
	t.Helper()

	f := NewFile()
	info, err := f.CreateSection("Info", "File metadata")
	require.NoError(t, err)
	p, err := info.CreateProperty("sfreq", 256.0)
	require.NoError(t, err)
	p.SetType("float")
	_, err = info.CreateProperty("custom_ref_applied", false)
	require.NoError(t, err)
	_, err = info.CreateProperty("ch_names", "C1", "C2")
	require.NoError(t, err)
	sub, err := info.CreateSection("subject_info", "dict")
	require.NoError(t, err)
	_, err = sub.CreateProperty("id", int64(7))
	require.NoError(t, err)

	b, err := f.CreateBlock("EEG Data Block", "Recording")
	require.NoError(t, err)
	b.SetMetadata(info)

	da, err := b.CreateDataArray("EEG Data", "Raw Data", []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	da.SetUnit("V")
	da.SetLabel("voltage")
	da.AppendSetDimension("C1", "C2")
	rd, err := da.AppendRangeDimension([]float64{0, 0.5, 1})
	require.NoError(t, err)
	rd.Unit = "s"
	rd.Label = "time"

	sampled, err := b.CreateDataArray("sampled", "nwb.TimeSeries", []int{3}, []float64{9, 8, 7})
	require.NoError(t, err)
	sd, err := sampled.AppendSampledDimension(0.001)
	require.NoError(t, err)
	sd.Offset = 1.5

	ticks, err := b.CreateDataArray("ticks", "Timestamps", []int{2}, []float64{0.1, 0.3})
	require.NoError(t, err)
	_, err = ticks.AppendAliasRangeDimension()
	require.NoError(t, err)

	trans, err := b.CreateDataArray("trans", "Multidimensional Metadata", []int{2, 2}, []float64{1, 0, 0, 1})
	require.NoError(t, err)
	trans.AppendSetDimension()
	trans.AppendSetDimension()
	trans.SetMetadata(sub)
	_, err = sub.CreateReferenceProperty("trans", trans.ID())
	require.NoError(t, err)

	pos, err := b.CreateDataArray("Stimuli onset", "Stimuli Positions", []int{1}, []float64{0.5})
	require.NoError(t, err)
	pos.AppendSetDimension("stim")
	ext, err := b.CreateDataArray("Stimuli durations", "Stimuli Extents", []int{1}, []float64{0.1})
	require.NoError(t, err)
	ext.AppendSetDimension("stim")

	mt, err := b.CreateMultiTag("Stimuli", "EEG Stimuli", pos)
	require.NoError(t, err)
	require.NoError(t, mt.SetExtents(ext))
	require.NoError(t, mt.AddReference(da))

	g, err := b.CreateGroup("Raw Data Group", "EEG Channels")
	require.NoError(t, err)
	require.NoError(t, g.AddDataArray(da))
	require.NoError(t, g.AddMultiTag(mt))

	require.NoError(t, f.Validate())

	return f
}

func TestStructure_RoundTrip(t *testing.T) {
	f := buildSampleFile(t)

	data, err := MarshalStructure(f)
	require.NoError(t, err)

	got, err := UnmarshalStructure(data)
	require.NoError(t, err)
	require.Equal(t, f.ID(), got.ID())

	for _, da := range f.Blocks()[0].DataArrays() {
		restored, err := got.DataArrayByID(da.ID())
		require.NoError(t, err)
		require.NoError(t, restored.SetData(da.Data()))
	}

	again, err := MarshalStructure(got)
	require.NoError(t, err)
	require.Equal(t, data, again, spew.Sdump(got.Sections()))

	b, err := got.Block("EEG Data Block")
	require.NoError(t, err)
	require.Equal(t, "Info", b.Metadata().Name())

	da, err := b.DataArray("EEG Data")
	require.NoError(t, err)
	require.Equal(t, "V", da.Unit())
	require.Equal(t, "voltage", da.Label())
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, da.Data())
	require.NoError(t, da.Validate())

	rd, ok := da.Dimensions()[1].(*RangeDimension)
	require.True(t, ok)
	require.Equal(t, []float64{0, 0.5, 1}, rd.Ticks())
	require.Equal(t, "time", rd.Label)

	sampled, err := b.DataArray("sampled")
	require.NoError(t, err)
	sd, ok := sampled.Dimensions()[0].(*SampledDimension)
	require.True(t, ok)
	require.Equal(t, 0.001, sd.Interval)
	require.Equal(t, 1.5, sd.Offset)

	ticks, err := b.DataArray("ticks")
	require.NoError(t, err)
	alias, ok := ticks.Dimensions()[0].(*RangeDimension)
	require.True(t, ok)
	require.True(t, alias.Alias)
	require.Equal(t, []float64{0.1, 0.3}, alias.Ticks())

	g, err := b.Group("Raw Data Group")
	require.NoError(t, err)
	require.Len(t, g.DataArrays(), 1)
	require.Len(t, g.MultiTags(), 1)
	mt := g.MultiTags()[0]
	require.Equal(t, "Stimuli onset", mt.Positions().Name())
	require.Equal(t, "Stimuli durations", mt.Extents().Name())
	require.Equal(t, "EEG Data", mt.References()[0].Name())

	info, err := got.Section("Info")
	require.NoError(t, err)
	sfreq, err := info.Property("sfreq")
	require.NoError(t, err)
	require.Equal(t, "float", sfreq.Type())
	vals, err := sfreq.Float64s()
	require.NoError(t, err)
	require.Equal(t, []float64{256}, vals)

	ref, err := info.Sections()[0].Property("id")
	require.NoError(t, err)
	ints, err := ref.Int64s()
	require.NoError(t, err)
	require.Equal(t, []int64{7}, ints)

	sub := info.Sections()[0]
	require.Len(t, sub.ReferringDataArrays(), 1)
	require.Same(t, sub, sub.ReferringDataArrays()[0].Metadata())
}

func TestUnmarshalStructure_Invalid(t *testing.T) {
	_, err := UnmarshalStructure([]byte{0xc1})
	require.ErrorIs(t, err, errs.ErrInvalidPayload)
}

func TestUnmarshalStructure_DanglingReference(t *testing.T) {
	rec := fileRecord{
		ID: "f",
		Blocks: []blockRecord{{
			ID: "b", Name: "blk", Type: "Recording",
			Groups: []groupRecord{{ID: "g", Name: "grp", ArrayIDs: []string{"missing"}}},
		}},
	}
	data, err := msgpack.Marshal(&rec)
	require.NoError(t, err)

	_, err = UnmarshalStructure(data)
	require.ErrorIs(t, err, errs.ErrInvalidPayload)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUnmarshalStructure_DuplicateNames(t *testing.T) {
	rec := fileRecord{
		ID: "f",
		Blocks: []blockRecord{
			{ID: "b1", Name: "blk"},
			{ID: "b2", Name: "blk"},
		},
	}
	data, err := msgpack.Marshal(&rec)
	require.NoError(t, err)

	_, err = UnmarshalStructure(data)
	require.ErrorIs(t, err, errs.ErrDuplicateName)
}
