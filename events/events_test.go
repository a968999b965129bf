package events

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/nix"
	"github.com/nixworks/nixworks/signal"
)

// ==============================================================================
// Helper Functions
// ==============================================================================

var testEvents = []Event{
	{Label: "stim-a", Onset: 0.0, Duration: 0.1},
	{Label: "stim-b", Onset: 1.0, Duration: 0.2},
	{Label: "stim-a", Onset: 2.0, Duration: 0.1},
}

func newSignalGroup(t *testing.T, split bool) (*nix.Block, *nix.Group) {
	t.Helper()

	f := nix.NewFile()
	b, err := f.CreateBlock("EEG Data Block", "Recording")
	require.NoError(t, err)
	g, err := b.CreateGroup("Raw Data Group", "EEG Channels")
	require.NoError(t, err)

	sig := signal.Signal{
		Data:     mat.NewDense(3, 4, nil),
		Channels: []string{"C1", "C2", "C3"},
		Times:    signal.Times(4, 2, 0),
	}
	if split {
		_, err = signal.WriteSplit(b, g, sig)
	} else {
		_, err = signal.WriteSingle(b, g, sig)
	}
	require.NoError(t, err)

	return b, g
}

// ==============================================================================
// Column Tests
// ==============================================================================

func TestColumns_RoundTrip(t *testing.T) {
	onsets, durations, labels := Columns(testEvents)
	require.Equal(t, []float64{0, 1, 2}, onsets)
	require.Equal(t, []float64{0.1, 0.2, 0.1}, durations)
	require.Equal(t, []string{"stim-a", "stim-b", "stim-a"}, labels)

	evs, err := FromColumns(onsets, durations, labels)
	require.NoError(t, err)
	require.Equal(t, testEvents, evs)

	_, err = FromColumns(onsets, durations[:2], labels)
	require.ErrorIs(t, err, errs.ErrEventLengthMismatch)
}

func TestGroupByLabel(t *testing.T) {
	groups := GroupByLabel(testEvents)
	require.Len(t, groups, 2)
	require.Equal(t, "stim-a", groups[0].Label)
	require.Equal(t, []Event{testEvents[0], testEvents[2]}, groups[0].Events)
	require.Equal(t, "stim-b", groups[1].Label)
	require.Empty(t, GroupByLabel(nil))
}

// ==============================================================================
// Write / Read Tests
// ==============================================================================

func TestWrite_SingleTagRank2(t *testing.T) {
	b, g := newSignalGroup(t, false)

	tags, err := Write(b, g, testEvents, false)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	mt := tags[0]
	require.Equal(t, DefaultTagName, mt.Name())
	require.Equal(t, TagType, mt.Type())
	require.NoError(t, mt.Validate())
	require.Len(t, mt.References(), 1)
	require.Len(t, g.MultiTags(), 1)

	pos := mt.Positions()
	require.Equal(t, "Stimuli onset", pos.Name())
	require.Equal(t, PositionsType, pos.Type())
	require.Equal(t, []int{3, 2}, pos.Shape())
	require.Equal(t, []float64{0, 0, 0, 1, 0, 2}, pos.Data())
	require.NoError(t, pos.Validate())

	ext := mt.Extents()
	require.Equal(t, "Stimuli durations", ext.Name())
	require.Equal(t, []float64{2, 0.1, 2, 0.2, 2, 0.1}, ext.Data())
	require.Len(t, ext.Dimensions(), 2)

	got, err := Read(g.MultiTags())
	require.NoError(t, err)
	require.Equal(t, testEvents, got)
}

func TestWrite_SplitByLabelRank1(t *testing.T) {
	b, g := newSignalGroup(t, true)

	tags, err := Write(b, g, testEvents, true)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	require.Equal(t, "stim-a", tags[0].Name())
	require.Equal(t, "stim-b", tags[1].Name())
	require.Len(t, tags[0].References(), 3)

	pos := tags[0].Positions()
	require.Equal(t, []int{2}, pos.Shape())
	require.Equal(t, []float64{0, 2}, pos.Data())
	require.Len(t, pos.Dimensions(), 1)

	got, err := Read(g.MultiTags())
	require.NoError(t, err)
	require.Equal(t, []Event{testEvents[0], testEvents[2], testEvents[1]}, got)
	require.ElementsMatch(t, testEvents, got)
}

func TestWrite_LabelWithSlash(t *testing.T) {
	b, g := newSignalGroup(t, false)

	evs := []Event{{Label: "Stimulus/S 1", Onset: 0.5, Duration: 0}}
	tags, err := Write(b, g, evs, true)
	require.NoError(t, err)
	require.Equal(t, "Stimulus|S 1", tags[0].Name())

	got, err := Read(tags)
	require.NoError(t, err)
	require.Equal(t, evs, got)
}

func TestWrite_EmptyAndErrors(t *testing.T) {
	b, g := newSignalGroup(t, false)

	tags, err := Write(b, g, nil, false)
	require.NoError(t, err)
	require.Nil(t, tags)

	empty, err := b.CreateGroup("empty", "x")
	require.NoError(t, err)
	_, err = Write(b, empty, testEvents, false)
	require.ErrorIs(t, err, errs.ErrSchemaMismatch)
}

func TestRead_LabelMismatch(t *testing.T) {
	b, _ := newSignalGroup(t, true)

	pos, err := b.CreateDataArray("p", PositionsType, []int{2}, []float64{1, 2})
	require.NoError(t, err)
	pos.AppendSetDimension("only-one")
	mt, err := b.CreateMultiTag("bad", TagType, pos)
	require.NoError(t, err)

	_, err = Read([]*nix.MultiTag{mt})
	require.ErrorIs(t, err, errs.ErrEventLengthMismatch)
}
