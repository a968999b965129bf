package events

import (
	"fmt"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/nix"
	"github.com/nixworks/nixworks/signal"
)

const (
	// DefaultTagName names the multi-tag holding all events when they are
	// not split by label.
	DefaultTagName = "Stimuli"
	// TagType is the type of every event multi-tag.
	TagType = "EEG Stimuli"
	// PositionsType and ExtentsType type the onset and duration arrays.
	PositionsType = "Stimuli Positions"
	ExtentsType   = "Stimuli Extents"
)

// Write stores events as multi-tags in b and adds them to g.
//
// With split unset a single tag named DefaultTagName holds all events in
// order. With split set there is one tag per distinct label, named after the
// label with '/' replaced by '|'. Every tag references all arrays of g typed
// signal.RawDataType, and their rank decides the layout of the positions and
// extents arrays.
//
// Parameters:
//   - b: Block owning the signal arrays
//   - g: Group holding the signal arrays; receives the tags
//   - evs: Events to store; nothing is written when empty
//   - split: Whether to write one tag per label
//
// Returns:
//   - []*nix.MultiTag: The created tags
//   - error: ErrSchemaMismatch if g holds no signal arrays, or a container
//     error
func Write(b *nix.Block, g *nix.Group, evs []Event, split bool) ([]*nix.MultiTag, error) {
	if len(evs) == 0 {
		return nil, nil
	}

	refs := signal.Arrays(g.DataArrays())
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: group %q holds no %q arrays", errs.ErrSchemaMismatch, g.Name(), signal.RawDataType)
	}

	layout, err := newLayout(refs[0])
	if err != nil {
		return nil, err
	}

	if !split {
		mt, err := writeTag(b, g, DefaultTagName, evs, layout, refs)
		if err != nil {
			return nil, err
		}

		return []*nix.MultiTag{mt}, nil
	}

	groups := GroupByLabel(evs)
	tags := make([]*nix.MultiTag, 0, len(groups))
	for _, lg := range groups {
		mt, err := writeTag(b, g, nix.SafeName(lg.Label), lg.Events, layout, refs)
		if err != nil {
			return nil, err
		}
		tags = append(tags, mt)
	}

	return tags, nil
}

// layout is the coordinate convention derived from the tagged data.
type layout struct {
	rank          int
	channelExtent float64
}

func newLayout(ref *nix.DataArray) (layout, error) {
	l := layout{rank: ref.Rank()}
	if l.rank == 1 {
		return l, nil
	}

	for _, dim := range ref.Dimensions() {
		if set, ok := dim.(*nix.SetDimension); ok {
			l.channelExtent = float64(ref.Shape()[set.Index()-1] - 1)
			return l, nil
		}
	}

	return l, fmt.Errorf("%w: %q has no channel dimension", errs.ErrSchemaMismatch, ref.Name())
}

// coordinates returns the row-major data and shape for one coordinate per
// event, prefixed by lead when the data has rank 2 or more.
func (l layout) coordinates(values []float64, lead float64) ([]float64, []int) {
	if l.rank == 1 {
		return values, []int{len(values)}
	}

	data := make([]float64, 0, 2*len(values))
	for _, v := range values {
		data = append(data, lead, v)
	}

	return data, []int{len(values), 2}
}

func writeTag(b *nix.Block, g *nix.Group, name string, evs []Event, l layout, refs []*nix.DataArray) (*nix.MultiTag, error) {
	onsets, durations, labels := Columns(evs)

	posData, shape := l.coordinates(onsets, 0)
	pos, err := b.CreateDataArray(name+" onset", PositionsType, shape, posData)
	if err != nil {
		return nil, err
	}
	extData, _ := l.coordinates(durations, l.channelExtent)
	ext, err := b.CreateDataArray(name+" durations", ExtentsType, shape, extData)
	if err != nil {
		return nil, err
	}

	pos.AppendSetDimension(labels...)
	ext.AppendSetDimension(labels...)
	for range len(shape) - 1 {
		pos.AppendSetDimension()
		ext.AppendSetDimension()
	}

	mt, err := b.CreateMultiTag(name, TagType, pos)
	if err != nil {
		return nil, err
	}
	if err := mt.SetExtents(ext); err != nil {
		return nil, err
	}
	for _, da := range refs {
		if err := mt.AddReference(da); err != nil {
			return nil, err
		}
	}
	if err := g.AddMultiTag(mt); err != nil {
		return nil, err
	}

	return mt, nil
}

// Read collects the events of the given tags in tag order.
//
// Rank-1 positions hold onsets directly; for higher ranks the onset and
// duration are the second coordinate of each row. Labels come from the Set
// dimension of the positions array. No sorting is applied across tags.
//
// Returns:
//   - []Event: Events of all tags, concatenated
//   - error: ErrEventLengthMismatch when labels, positions and extents differ
//     in count, ErrShapeMismatch for unusable shapes
func Read(tags []*nix.MultiTag) ([]Event, error) {
	var out []Event
	for _, mt := range tags {
		evs, err := readTag(mt)
		if err != nil {
			return nil, fmt.Errorf("multi-tag %q: %w", mt.Name(), err)
		}
		out = append(out, evs...)
	}

	return out, nil
}

func readTag(mt *nix.MultiTag) ([]Event, error) {
	pos := mt.Positions()
	if pos == nil {
		return nil, fmt.Errorf("%w: positions", errs.ErrNotFound)
	}

	onsets, err := eventCoordinates(pos)
	if err != nil {
		return nil, err
	}

	durations := make([]float64, len(onsets))
	if ext := mt.Extents(); ext != nil {
		if durations, err = eventCoordinates(ext); err != nil {
			return nil, err
		}
	}

	var labels []string
	if dims := pos.Dimensions(); len(dims) > 0 {
		if set, ok := dims[0].(*nix.SetDimension); ok {
			labels = set.Labels
		}
	}

	return FromColumns(onsets, durations, labels)
}

// eventCoordinates returns the per-event coordinate of a positions or
// extents array.
func eventCoordinates(da *nix.DataArray) ([]float64, error) {
	shape := da.Shape()
	switch {
	case len(shape) == 1:
		return append([]float64(nil), da.Data()...), nil
	case len(shape) == 2 && shape[1] >= 2:
		out := make([]float64, shape[0])
		for i := range out {
			v, err := da.At(i, 1)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q has shape %v", errs.ErrShapeMismatch, da.Name(), shape)
	}
}
