package brainvision

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/ini.v1"

	"github.com/nixworks/nixworks/endian"
	"github.com/nixworks/nixworks/internal/pool"
	"github.com/nixworks/nixworks/source"
)

// Write stores rec as a BrainVision triple next to vhdrPath. The data and
// marker files share the header's base name with .eeg and .vmrk extensions.
//
// Voltage channels are written in microvolts, other channels in their
// declared unit. A non-zero start time is kept as a New Segment marker.
//
// Parameters:
//   - vhdrPath: Path of the .vhdr header to create
//   - rec: Recording to store; must pass Validate
//
// Returns:
//   - error: ErrInvalidSource or a file system error
func Write(vhdrPath string, rec *source.Recording) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(vhdrPath)
	base := strings.TrimSuffix(filepath.Base(vhdrPath), filepath.Ext(vhdrPath))
	dataFile, markerFile := base+".eeg", base+".vmrk"

	units := make([]string, rec.NChan())
	scales := make([]float64, rec.NChan())
	for i := range units {
		units[i], scales[i] = defaultUnit, 1e6
		if i < len(rec.Units) {
			if _, ok := source.VoltFactor(rec.Units[i]); !ok {
				units[i], scales[i] = rec.Units[i], 1
			}
		}
	}

	header, err := encodeVHDR(rec, dataFile, markerFile, units)
	if err != nil {
		return err
	}
	markers, err := encodeVMRK(rec, dataFile)
	if err != nil {
		return err
	}

	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)
	encodeSamples(buf, rec.Data, scales)

	files := []struct {
		name string
		data []byte
	}{
		{dataFile, buf.Bytes()},
		{markerFile, markers},
		{filepath.Base(vhdrPath), header},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	return nil
}

// encodeSamples appends multiplexed float32 samples, one column at a time.
func encodeSamples(buf *pool.ByteBuffer, data *mat.Dense, scales []float64) {
	nchan, nsamples := data.Dims()
	buf.Grow(4 * nchan * nsamples)

	column, cleanup := pool.GetFloat64Slice(nchan)
	defer cleanup()

	engine := endian.GetLittleEndianEngine()
	for k := 0; k < nsamples; k++ {
		mat.Col(column, k, data)
		for i, v := range column {
			buf.B = engine.AppendUint32(buf.B, math.Float32bits(float32(v*scales[i])))
		}
	}
}

func encodeVHDR(rec *source.Recording, dataFile, markerFile string, units []string) ([]byte, error) {
	cfg := ini.Empty(loadOptions)

	common, err := cfg.NewSection(commonSection)
	if err != nil {
		return nil, err
	}
	entries := [][2]string{
		{"Codepage", "UTF-8"},
		{"DataFile", dataFile},
		{"MarkerFile", markerFile},
		{"DataFormat", "BINARY"},
		{"DataOrientation", orientationMultiplexed},
		{"NumberOfChannels", strconv.Itoa(rec.NChan())},
		{"SamplingInterval", strconv.FormatFloat(1e6/rec.SampleRate, 'g', -1, 64)},
	}
	if err := addKeys(common, entries); err != nil {
		return nil, err
	}

	binary, err := cfg.NewSection(binarySection)
	if err != nil {
		return nil, err
	}
	if err := addKeys(binary, [][2]string{{"BinaryFormat", formatFloat32}}); err != nil {
		return nil, err
	}

	channels, err := cfg.NewSection(channelSection)
	if err != nil {
		return nil, err
	}
	entries = entries[:0]
	for i, name := range rec.ChannelNames {
		entries = append(entries, [2]string{
			"Ch" + strconv.Itoa(i+1),
			fmt.Sprintf("%s,,1,%s", escape(name), units[i]),
		})
	}
	if err := addKeys(channels, entries); err != nil {
		return nil, err
	}

	return render(headerBanner, cfg)
}

func encodeVMRK(rec *source.Recording, dataFile string) ([]byte, error) {
	cfg := ini.Empty(loadOptions)

	common, err := cfg.NewSection(commonSection)
	if err != nil {
		return nil, err
	}
	if err := addKeys(common, [][2]string{{"Codepage", "UTF-8"}, {"DataFile", dataFile}}); err != nil {
		return nil, err
	}

	var markers []marker
	if !rec.StartTime.IsZero() {
		t := rec.StartTime.UTC()
		markers = append(markers, marker{
			typ:      newSegment,
			position: 1,
			size:     1,
			date:     t.Format(segmentDateLayout) + fmt.Sprintf("%06d", t.Nanosecond()/1000),
		})
	}
	for _, ev := range rec.Annotations {
		markers = append(markers, markerFromEvent(ev, rec.SampleRate))
	}

	section, err := cfg.NewSection(markerSection)
	if err != nil {
		return nil, err
	}
	entries := make([][2]string, len(markers))
	for i, m := range markers {
		entries[i] = [2]string{"Mk" + strconv.Itoa(i+1), m.String()}
	}
	if err := addKeys(section, entries); err != nil {
		return nil, err
	}

	return render(markerBanner, cfg)
}

func addKeys(sec *ini.Section, entries [][2]string) error {
	for _, kv := range entries {
		if _, err := sec.NewKey(kv[0], kv[1]); err != nil {
			return fmt.Errorf("%s.%s: %w", sec.Name(), kv[0], err)
		}
	}

	return nil
}

// render prefixes the INI body with the banner line readers expect first.
func render(banner string, cfg *ini.File) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(banner + "\n\n")
	if _, err := cfg.WriteTo(&b); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
