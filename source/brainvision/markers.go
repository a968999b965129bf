package brainvision

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/events"
)

const (
	newSegment  = "New Segment"
	commentType = "Comment"
	// segmentDateLayout is the date field of a New Segment marker, followed
	// by six digits of microseconds.
	segmentDateLayout = "20060102150405"
)

// marker is one "Mk{i}=type,description,position,size,channel[,date]" entry.
// Positions are 1-based sample indices.
type marker struct {
	typ         string
	description string
	position    int
	size        int
	channel     int
	date        string
}

func parseMarkers(source any) ([]marker, error) {
	cfg, err := loadINI(source)
	if err != nil {
		return nil, err
	}

	var out []marker
	for _, key := range cfg.Section(markerSection).Keys() {
		if !strings.HasPrefix(key.Name(), "Mk") {
			continue
		}
		fields := strings.Split(key.Value(), ",")
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: marker %s has %d fields", errs.ErrInvalidSource, key.Name(), len(fields))
		}

		m := marker{typ: unescape(fields[0]), description: unescape(fields[1]), size: 1}
		if m.position, err = strconv.Atoi(strings.TrimSpace(fields[2])); err != nil {
			return nil, fmt.Errorf("%w: marker %s position %q", errs.ErrInvalidSource, key.Name(), fields[2])
		}
		if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
			if m.size, err = strconv.Atoi(strings.TrimSpace(fields[3])); err != nil {
				return nil, fmt.Errorf("%w: marker %s size %q", errs.ErrInvalidSource, key.Name(), fields[3])
			}
		}
		if len(fields) > 4 {
			m.channel, _ = strconv.Atoi(strings.TrimSpace(fields[4]))
		}
		if len(fields) > 5 {
			m.date = strings.TrimSpace(fields[5])
		}
		out = append(out, m)
	}

	return out, nil
}

// event converts a marker to an annotation. Single-sample markers have no
// duration.
func (m marker) event(rate float64) events.Event {
	ev := events.Event{
		Label: m.typ + "/" + m.description,
		Onset: float64(m.position-1) / rate,
	}
	if m.size > 1 {
		ev.Duration = float64(m.size) / rate
	}

	return ev
}

// startTime returns the date of a New Segment marker.
func (m marker) startTime() (time.Time, bool) {
	if m.typ != newSegment || len(m.date) < len(segmentDateLayout) {
		return time.Time{}, false
	}

	t, err := time.Parse(segmentDateLayout, m.date[:len(segmentDateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	if micros, err := strconv.Atoi(m.date[len(segmentDateLayout):]); err == nil {
		t = t.Add(time.Duration(micros) * time.Microsecond)
	}

	return t, true
}

// markerFromEvent inverts marker.event. Labels without a '/' become comments.
func markerFromEvent(ev events.Event, rate float64) marker {
	m := marker{typ: commentType, description: ev.Label, size: 1}
	if typ, desc, ok := strings.Cut(ev.Label, "/"); ok {
		m.typ, m.description = typ, desc
	}
	m.position = int(math.Round(ev.Onset*rate)) + 1
	if size := int(math.Round(ev.Duration * rate)); size > 1 {
		m.size = size
	}

	return m
}

func (m marker) String() string {
	s := fmt.Sprintf("%s,%s,%d,%d,%d", escape(m.typ), escape(m.description), m.position, m.size, m.channel)
	if m.date != "" {
		s += "," + m.date
	}

	return s
}
