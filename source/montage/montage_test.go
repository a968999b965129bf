package montage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nixworks/nixworks/errs"
)

// ==============================================================================
// SFP Tests
// ==============================================================================

func TestDecodeSFP(t *testing.T) {
	in := "# electrode positions\nFidNz 0 9.071585 -2.359754\n\nFp1\t-2.7 8.8 -0.2\nCz 0.0 0.0 10.0\n"

	got, err := DecodeSFP(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []Position{
		{Label: "FidNz", X: 0, Y: 9.071585, Z: -2.359754},
		{Label: "Fp1", X: -2.7, Y: 8.8, Z: -0.2},
		{Label: "Cz", X: 0, Y: 0, Z: 10},
	}, got)
	require.Equal(t, [3]float64{0, 0, 10}, got[2].Loc())
}

func TestDecodeSFP_Errors(t *testing.T) {
	_, err := DecodeSFP(strings.NewReader("Fp1 1 2\n"))
	require.ErrorIs(t, err, errs.ErrInvalidSource)

	_, err = DecodeSFP(strings.NewReader("Fp1 1 2 x\n"))
	require.ErrorIs(t, err, errs.ErrInvalidSource)
}

func TestReadSFP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.sfp")
	require.NoError(t, os.WriteFile(path, []byte("Fz 1 2 3\n"), 0o600))

	got, err := ReadSFP(path)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = ReadSFP(filepath.Join(t.TempDir(), "missing.sfp"))
	require.Error(t, err)
}
