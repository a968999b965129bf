package edf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/nixworks/nixworks/errs"
)

const (
	fixedHeaderSize  = 256
	signalHeaderSize = 256
	annotationLabel  = "EDF Annotations"
)

// signalHeader is the per-signal part of the header.
type signalHeader struct {
	label            string
	transducer       string
	physDim          string
	prefilter        string
	physMin          float64
	physMax          float64
	digMin           float64
	digMax           float64
	samplesPerRecord int
}

func (s *signalHeader) isAnnotation() bool {
	return s.label == annotationLabel
}

// scale returns the gain and offset mapping digital to physical values.
func (s *signalHeader) scale() (gain, offset float64) {
	gain = (s.physMax - s.physMin) / (s.digMax - s.digMin)
	return gain, s.physMin - gain*s.digMin
}

type header struct {
	version        string
	patient        string
	recording      string
	reserved       string
	start          time.Time
	headerBytes    int
	nRecords       int
	recordDuration float64
	signals        []signalHeader
}

// subtype returns "EDF", "EDF+C" or "EDF+D".
func (h *header) subtype() string {
	if strings.HasPrefix(h.reserved, "EDF+") {
		return h.reserved[:min(len(h.reserved), 5)]
	}

	return "EDF"
}

func (h *header) recordSize() int {
	n := 0
	for _, s := range h.signals {
		n += s.samplesPerRecord
	}

	return 2 * n
}

// fieldReader reads consecutive fixed-width ASCII fields.
type fieldReader struct {
	data []byte
	off  int
	err  error
}

func (r *fieldReader) text(width int) string {
	if r.err != nil {
		return ""
	}
	if r.off+width > len(r.data) {
		r.err = fmt.Errorf("%w: header truncated at byte %d", errs.ErrInvalidSource, r.off)
		return ""
	}

	s := strings.TrimSpace(string(r.data[r.off : r.off+width]))
	r.off += width

	return s
}

func (r *fieldReader) int(width int) int {
	s := r.text(width)
	if r.err != nil {
		return 0
	}

	// Fields may be zero-padded and are always decimal.
	n, err := strconv.Atoi(s)
	if err != nil {
		r.err = fmt.Errorf("%w: integer field %q: %w", errs.ErrInvalidSource, s, err)
	}

	return n
}

func (r *fieldReader) float(width int) float64 {
	s := r.text(width)
	if r.err != nil {
		return 0
	}

	f, err := cast.ToFloat64E(s)
	if err != nil {
		r.err = fmt.Errorf("%w: number field %q: %w", errs.ErrInvalidSource, s, err)
	}

	return f
}

func parseHeader(data []byte) (*header, error) {
	r := &fieldReader{data: data}
	h := &header{}

	h.version = r.text(8)
	h.patient = r.text(80)
	h.recording = r.text(80)
	date, clock := r.text(8), r.text(8)
	h.headerBytes = r.int(8)
	h.reserved = r.text(44)
	h.nRecords = r.int(8)
	h.recordDuration = r.float(8)
	ns := r.int(4)
	if r.err != nil {
		return nil, r.err
	}
	if ns <= 0 || h.headerBytes != fixedHeaderSize+ns*signalHeaderSize {
		return nil, fmt.Errorf("%w: %d signals in a %d byte header", errs.ErrInvalidSource, ns, h.headerBytes)
	}
	h.start = parseStart(date, clock)

	h.signals = make([]signalHeader, ns)
	for i := range h.signals {
		h.signals[i].label = r.text(16)
	}
	for i := range h.signals {
		h.signals[i].transducer = r.text(80)
	}
	for i := range h.signals {
		h.signals[i].physDim = r.text(8)
	}
	for i := range h.signals {
		h.signals[i].physMin = r.float(8)
	}
	for i := range h.signals {
		h.signals[i].physMax = r.float(8)
	}
	for i := range h.signals {
		h.signals[i].digMin = r.float(8)
	}
	for i := range h.signals {
		h.signals[i].digMax = r.float(8)
	}
	for i := range h.signals {
		h.signals[i].prefilter = r.text(80)
	}
	for i := range h.signals {
		h.signals[i].samplesPerRecord = r.int(8)
	}
	r.text(32 * ns)
	if r.err != nil {
		return nil, r.err
	}

	for _, s := range h.signals {
		if s.digMax == s.digMin {
			return nil, fmt.Errorf("%w: signal %q has an empty digital range", errs.ErrInvalidSource, s.label)
		}
		if s.samplesPerRecord <= 0 {
			return nil, fmt.Errorf("%w: signal %q has %d samples per record", errs.ErrInvalidSource, s.label, s.samplesPerRecord)
		}
	}
	if h.recordDuration <= 0 {
		return nil, fmt.Errorf("%w: record duration %g", errs.ErrInvalidSource, h.recordDuration)
	}

	return h, nil
}

// parseStart reads the dd.mm.yy and hh.mm.ss fields. Two-digit years 85-99
// are 19xx, the rest 20xx. Unreadable fields give the zero time.
func parseStart(date, clock string) time.Time {
	t, err := time.Parse("02.01.06 15.04.05", date+" "+clock)
	if err != nil {
		return time.Time{}
	}
	if t.Year() < 1985 {
		t = t.AddDate(100, 0, 0)
	}

	return t
}
