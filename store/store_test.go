package store

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/format"
	"github.com/nixworks/nixworks/nix"
	"github.com/nixworks/nixworks/section"
)

// ==============================================================================
// Helper Functions
// ==============================================================================

func sampleFile(t *testing.T) *nix.File {
	t.Helper()

	f := nix.NewFile()
	info, err := f.CreateSection("Info", "File metadata")
	require.NoError(t, err)
	_, err = info.CreateProperty("sfreq", 2.0)
	require.NoError(t, err)

	b, err := f.CreateBlock("EEG Data Block", "Recording")
	require.NoError(t, err)

	values := make([]float64, 3*500)
	for i := range values {
		values[i] = 40e-6 * math.Sin(float64(i)/17)
	}
	da, err := b.CreateDataArray("EEG Data", "Raw Data", []int{3, 500}, values)
	require.NoError(t, err)
	da.SetUnit("V")
	da.AppendSetDimension("C1", "C2", "C3")
	ticks := make([]float64, 500)
	for i := range ticks {
		ticks[i] = float64(i) / 2
	}
	_, err = da.AppendRangeDimension(ticks)
	require.NoError(t, err)

	empty, err := b.CreateDataArray("empty", "Raw Data", []int{0}, []float64{})
	require.NoError(t, err)
	empty.AppendSetDimension()

	return f
}

func requireSameArrays(t *testing.T, want, got *nix.File) {
	t.Helper()

	for _, b := range want.Blocks() {
		gb, err := got.Block(b.Name())
		require.NoError(t, err)
		require.Len(t, gb.DataArrays(), len(b.DataArrays()))
		for _, da := range b.DataArrays() {
			gda, err := gb.DataArray(da.Name())
			require.NoError(t, err)
			require.Equal(t, da.ID(), gda.ID())
			require.Equal(t, da.Shape(), gda.Shape())
			require.Equal(t, da.Unit(), gda.Unit())
			require.Equal(t, da.Data(), gda.Data())
		}
	}
}

// ==============================================================================
// Encode / Decode Tests
// ==============================================================================

func TestEncodeDecode_AllCompressions(t *testing.T) {
	for _, comp := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
		format.CompressionDeflate,
	} {
		t.Run(comp.String(), func(t *testing.T) {
			f := sampleFile(t)

			data, err := Encode(f, WithCompression(comp))
			require.NoError(t, err)

			header, err := section.ParseHeader(data)
			require.NoError(t, err)
			require.Equal(t, comp, header.Flag.Compression())
			require.Equal(t, uint32(2), header.ArrayCount)

			got, err := Decode(data)
			require.NoError(t, err)
			requireSameArrays(t, f, got)
		})
	}
}

func TestEncode_DefaultIsDeflateLittleEndian(t *testing.T) {
	data, err := Encode(sampleFile(t))
	require.NoError(t, err)

	header, err := section.ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionDeflate, header.Flag.Compression())
	require.True(t, header.Flag.IsLittleEndian())
}

func TestEncodeDecode_BigEndian(t *testing.T) {
	f := sampleFile(t)

	data, err := Encode(f, WithBigEndian(), WithCompression(format.CompressionNone))
	require.NoError(t, err)

	header, err := section.ParseHeader(data)
	require.NoError(t, err)
	require.True(t, header.Flag.IsBigEndian())

	got, err := Decode(data)
	require.NoError(t, err)
	requireSameArrays(t, f, got)

	data, err = Encode(f, WithBigEndian(), WithLittleEndian())
	require.NoError(t, err)
	header, err = section.ParseHeader(data)
	require.NoError(t, err)
	require.True(t, header.Flag.IsLittleEndian())
}

func TestEncode_InvalidCompression(t *testing.T) {
	_, err := Encode(sampleFile(t), WithCompression(format.CompressionType(0x9)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid payload compression")
}

func TestEncode_RejectsInvalidDimensions(t *testing.T) {
	f := nix.NewFile()
	b, err := f.CreateBlock("blk", "Recording")
	require.NoError(t, err)
	_, err = b.CreateDataArray("nodims", "Raw Data", []int{2}, []float64{1, 2})
	require.NoError(t, err)

	_, err = Encode(f)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestDecode_Corruption(t *testing.T) {
	f := sampleFile(t)
	data, err := Encode(f, WithCompression(format.CompressionNone))
	require.NoError(t, err)

	header, err := section.ParseHeader(data)
	require.NoError(t, err)

	t.Run("array payload flipped", func(t *testing.T) {
		corrupted := append([]byte(nil), data...)
		corrupted[header.PayloadOffset+3] ^= 0xff

		_, err := Decode(corrupted)
		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("structure flipped", func(t *testing.T) {
		corrupted := append([]byte(nil), data...)
		corrupted[header.StructureOffset+5] ^= 0x01

		_, err := Decode(corrupted)
		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Decode(data[:header.PayloadOffset-1])
		require.ErrorIs(t, err, errs.ErrInvalidStructureOffset)

		_, err = Decode(data[:len(data)-8])
		require.ErrorIs(t, err, errs.ErrInvalidIndexOffsets)
	})

	t.Run("short header", func(t *testing.T) {
		_, err := Decode(data[:10])
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("index offset overflows", func(t *testing.T) {
		corrupted := append([]byte(nil), data...)
		binary.LittleEndian.PutUint64(corrupted[section.HeaderSize+16:], math.MaxUint64-3)

		require.NotPanics(t, func() {
			_, err = Decode(corrupted)
		})
		require.ErrorIs(t, err, errs.ErrInvalidIndexOffsets)
	})

	t.Run("index id swapped", func(t *testing.T) {
		corrupted := append([]byte(nil), data...)
		corrupted[section.HeaderSize] ^= 0xff

		_, err := Decode(corrupted)
		require.ErrorIs(t, err, errs.ErrInvalidIndexOffsets)
	})
}

// ==============================================================================
// File Tests
// ==============================================================================

func TestSaveOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recording.nix")
	f := sampleFile(t)

	require.NoError(t, Save(path, f, WithCompression(format.CompressionZstd)))

	got, err := Open(path)
	require.NoError(t, err)
	requireSameArrays(t, f, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file must be renamed away")
}

func TestSave_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.nix")

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	require.Error(t, Save(path, sampleFile(t), WithCompression(format.CompressionType(0))))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recording.nix")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, Save(path, sampleFile(t)))

	_, err := Open(path)
	require.NoError(t, err)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.nix"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "garbage.nix")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o600))
	_, err = Open(path)
	require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
}
