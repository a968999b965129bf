package events

import (
	"fmt"

	"github.com/nixworks/nixworks/errs"
)

// Event is one annotation. Onset and Duration are in seconds.
type Event struct {
	Label    string
	Onset    float64
	Duration float64
}

// LabelGroup holds the events sharing one label, in original order.
type LabelGroup struct {
	Label  string
	Events []Event
}

// FromColumns zips parallel onset, duration and label slices.
//
// Returns:
//   - []Event: One event per label
//   - error: ErrEventLengthMismatch if the slices differ in length
func FromColumns(onsets, durations []float64, labels []string) ([]Event, error) {
	if len(onsets) != len(labels) || len(durations) != len(labels) {
		return nil, fmt.Errorf("%w: %d onsets, %d durations, %d labels",
			errs.ErrEventLengthMismatch, len(onsets), len(durations), len(labels))
	}

	evs := make([]Event, len(labels))
	for i := range labels {
		evs[i] = Event{Label: labels[i], Onset: onsets[i], Duration: durations[i]}
	}

	return evs, nil
}

// Columns splits events into parallel onset, duration and label slices.
func Columns(evs []Event) (onsets, durations []float64, labels []string) {
	onsets = make([]float64, len(evs))
	durations = make([]float64, len(evs))
	labels = make([]string, len(evs))
	for i, ev := range evs {
		onsets[i], durations[i], labels[i] = ev.Onset, ev.Duration, ev.Label
	}

	return onsets, durations, labels
}

// GroupByLabel groups events by label. Groups appear in order of first
// occurrence and keep the relative order of their events.
func GroupByLabel(evs []Event) []LabelGroup {
	var groups []LabelGroup
	index := make(map[string]int)
	for _, ev := range evs {
		i, ok := index[ev.Label]
		if !ok {
			i = len(groups)
			index[ev.Label] = i
			groups = append(groups, LabelGroup{Label: ev.Label})
		}
		groups[i].Events = append(groups[i].Events, ev)
	}

	return groups
}
