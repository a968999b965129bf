package edf

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/endian"
	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/events"
	"github.com/nixworks/nixworks/metadata"
	"github.com/nixworks/nixworks/source"
)

var (
	highpassPattern = regexp.MustCompile(`HP:\s*([0-9.]+)\s*Hz`)
	lowpassPattern  = regexp.MustCompile(`LP:\s*([0-9.]+)\s*Hz`)
)

// Read loads and decodes the EDF file at path.
func Read(path string) (*source.Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read edf %s: %w", path, err)
	}

	rec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode edf %s: %w", path, err)
	}

	return rec, nil
}

// Decode parses a complete EDF or EDF+ file.
//
// Parameters:
//   - data: The whole file
//
// Returns:
//   - *source.Recording: Channels scaled to physical units (volts for voltage
//     channels), annotations and header fields
//   - error: ErrInvalidSource for malformed headers, truncated data or mixed
//     sampling rates
func Decode(data []byte) (*source.Recording, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	recordSize := h.recordSize()
	available := (len(data) - h.headerBytes) / recordSize
	if h.nRecords < 0 {
		h.nRecords = available
	}
	if h.nRecords == 0 {
		return nil, fmt.Errorf("%w: no data records", errs.ErrInvalidSource)
	}
	if available < h.nRecords {
		return nil, fmt.Errorf("%w: %d of %d data records present", errs.ErrInvalidSource, available, h.nRecords)
	}

	var channels []int
	annotations := -1
	for i := range h.signals {
		if h.signals[i].isAnnotation() && h.subtype() != "EDF" {
			annotations = i
			continue
		}
		channels = append(channels, i)
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no data signals", errs.ErrInvalidSource)
	}

	spr := h.signals[channels[0]].samplesPerRecord
	for _, i := range channels {
		if h.signals[i].samplesPerRecord != spr {
			return nil, fmt.Errorf("%w: signal %q has %d samples per record, want %d",
				errs.ErrInvalidSource, h.signals[i].label, h.signals[i].samplesPerRecord, spr)
		}
	}

	rec := &source.Recording{
		SampleRate: float64(spr) / h.recordDuration,
		Data:       mat.NewDense(len(channels), spr*h.nRecords, nil),
		StartTime:  h.start,
	}

	type channelScale struct{ gain, offset float64 }
	scales := make([]channelScale, len(channels))
	for j, i := range channels {
		s := &h.signals[i]
		gain, offset := s.scale()
		if f, ok := source.VoltFactor(s.physDim); ok {
			gain, offset = gain*f, offset*f
		}
		scales[j] = channelScale{gain, offset}
		rec.ChannelNames = append(rec.ChannelNames, s.label)
		rec.Units = append(rec.Units, s.physDim)
	}

	engine := endian.GetLittleEndianEngine()
	for r := 0; r < h.nRecords; r++ {
		off := h.headerBytes + r*recordSize
		j := 0
		for i := range h.signals {
			s := &h.signals[i]
			n := 2 * s.samplesPerRecord
			chunk := data[off : off+n]
			off += n

			if i == annotations {
				evs, err := parseAnnotations(chunk)
				if err != nil {
					return nil, fmt.Errorf("record %d: %w", r, err)
				}
				rec.Annotations = append(rec.Annotations, evs...)
				continue
			}

			row := rec.Data.RawRowView(j)[r*spr : (r+1)*spr]
			sc := scales[j]
			for k := range row {
				row[k] = float64(int16(engine.Uint16(chunk[2*k:])))*sc.gain + sc.offset
			}
			j++
		}
	}

	rec.Header, err = headerRecord(h, channels)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// headerRecord collects the header fields kept as reader extras.
func headerRecord(h *header, channels []int) (*metadata.Record, error) {
	var (
		transducers, prefilters []string
		physMin, physMax        []float64
		digMin, digMax          []float64
	)
	for _, i := range channels {
		s := h.signals[i]
		transducers = append(transducers, s.transducer)
		prefilters = append(prefilters, s.prefilter)
		physMin = append(physMin, s.physMin)
		physMax = append(physMax, s.physMax)
		digMin = append(digMin, s.digMin)
		digMax = append(digMax, s.digMax)
	}

	spr := h.signals[channels[0]].samplesPerRecord
	fields := []struct {
		key   string
		value any
	}{
		{"subtype", h.subtype()},
		{"patient_id", h.patient},
		{"recording_id", h.recording},
		{"n_records", h.nRecords},
		{"record_length", h.recordDuration},
		{"nsamples", spr * h.nRecords},
		{"transducers", transducers},
		{"prefilters", prefilters},
		{"physical_min", physMin},
		{"physical_max", physMax},
		{"digital_min", digMin},
		{"digital_max", digMax},
	}

	rec := metadata.NewRecord()
	for _, f := range fields {
		if err := rec.SetAny(f.key, f.value); err != nil {
			return nil, err
		}
	}

	first := h.signals[channels[0]].prefilter
	if hp, ok := filterFrequency(highpassPattern, first); ok {
		rec.Set("highpass", metadata.Scalar{K: metadata.KindFloat, V: hp})
	}
	if lp, ok := filterFrequency(lowpassPattern, first); ok {
		rec.Set("lowpass", metadata.Scalar{K: metadata.KindFloat, V: lp})
	}

	return rec, nil
}

func filterFrequency(pattern *regexp.Regexp, prefilter string) (float64, bool) {
	m := pattern.FindStringSubmatch(prefilter)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)

	return f, err == nil
}

// parseAnnotations decodes the time-stamped annotation lists of one record.
// Lists without text only keep time and are skipped.
func parseAnnotations(chunk []byte) ([]events.Event, error) {
	var out []events.Event
	for _, tal := range bytes.Split(chunk, []byte{0x00}) {
		if len(tal) == 0 {
			continue
		}

		parts := bytes.Split(tal, []byte{0x14})
		stamp := bytes.Split(parts[0], []byte{0x15})
		onset, err := strconv.ParseFloat(string(stamp[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: annotation onset %q", errs.ErrInvalidSource, stamp[0])
		}
		var duration float64
		if len(stamp) > 1 && len(stamp[1]) > 0 {
			if duration, err = strconv.ParseFloat(string(stamp[1]), 64); err != nil {
				return nil, fmt.Errorf("%w: annotation duration %q", errs.ErrInvalidSource, stamp[1])
			}
		}

		for _, text := range parts[1:] {
			if len(text) == 0 {
				continue
			}
			out = append(out, events.Event{Label: string(text), Onset: onset, Duration: duration})
		}
	}

	return out, nil
}
