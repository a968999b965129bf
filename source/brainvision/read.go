package brainvision

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/endian"
	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/metadata"
	"github.com/nixworks/nixworks/source"
)

// Read loads the recording described by the header at vhdrPath. Data and
// marker files are resolved relative to the header's directory; a missing
// marker file yields no annotations. A dated New Segment marker sets the
// start time instead of becoming an event.
//
// Parameters:
//   - vhdrPath: Path of the .vhdr header
//
// Returns:
//   - *source.Recording: Channels in volts (for voltage units), markers as
//     events and header fields
//   - error: ErrInvalidSource for malformed headers or data
func Read(vhdrPath string) (*source.Recording, error) {
	h, err := parseVHDR(vhdrPath)
	if err != nil {
		return nil, fmt.Errorf("read vhdr %s: %w", vhdrPath, err)
	}

	dir := filepath.Dir(vhdrPath)
	raw, err := os.ReadFile(filepath.Join(dir, h.dataFile))
	if err != nil {
		return nil, fmt.Errorf("read brainvision data: %w", err)
	}

	rec, err := decode(h, raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", h.dataFile, err)
	}

	if h.markerFile != "" {
		markerPath := filepath.Join(dir, h.markerFile)
		if _, statErr := os.Stat(markerPath); statErr == nil {
			markers, err := parseMarkers(markerPath)
			if err != nil {
				return nil, fmt.Errorf("read vmrk %s: %w", markerPath, err)
			}
			for _, m := range markers {
				if t, ok := m.startTime(); ok {
					if rec.StartTime.IsZero() {
						rec.StartTime = t
					}
					continue
				}
				rec.Annotations = append(rec.Annotations, m.event(rec.SampleRate))
			}
		}
	}

	return rec, nil
}

// decode scales the binary samples of every channel.
func decode(h *vhdr, raw []byte) (*source.Recording, error) {
	nchan := len(h.channels)
	size := h.sampleSize()
	if len(raw)%(nchan*size) != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-channel samples", errs.ErrInvalidSource, len(raw), nchan)
	}
	nsamples := len(raw) / (nchan * size)
	if nsamples == 0 {
		return nil, fmt.Errorf("%w: no samples", errs.ErrInvalidSource)
	}

	rec := &source.Recording{
		SampleRate: 1e6 / h.samplingInterval,
		Data:       mat.NewDense(nchan, nsamples, nil),
	}

	engine := endian.GetLittleEndianEngine()
	for i, ch := range h.channels {
		gain := ch.resolution
		if f, ok := source.VoltFactor(ch.unit); ok {
			gain *= f
		}
		rec.ChannelNames = append(rec.ChannelNames, ch.name)
		rec.Units = append(rec.Units, ch.unit)

		row := rec.Data.RawRowView(i)
		for k := range row {
			idx := k*nchan + i
			if h.orientation == orientationVectorized {
				idx = i*nsamples + k
			}
			off := idx * size

			var v float64
			if size == 2 {
				v = float64(int16(engine.Uint16(raw[off:])))
			} else {
				v = float64(math.Float32frombits(engine.Uint32(raw[off:])))
			}
			row[k] = v * gain
		}
	}

	var err error
	rec.Header, err = headerRecord(h)

	return rec, err
}

func headerRecord(h *vhdr) (*metadata.Record, error) {
	var references []string
	var resolutions []float64
	for _, ch := range h.channels {
		references = append(references, ch.reference)
		resolutions = append(resolutions, ch.resolution)
	}

	fields := []struct {
		key   string
		value any
	}{
		{"data_file", h.dataFile},
		{"marker_file", h.markerFile},
		{"orientation", h.orientation},
		{"binary_format", h.binaryFormat},
		{"sampling_interval", h.samplingInterval},
		{"references", references},
		{"resolutions", resolutions},
	}

	rec := metadata.NewRecord()
	for _, f := range fields {
		if err := rec.SetAny(f.key, f.value); err != nil {
			return nil, err
		}
	}

	return rec, nil
}
