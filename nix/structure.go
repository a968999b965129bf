package nix

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/format"
)

// The structure of a file is serialized without array values; the store
// package writes those as separate compressed payloads.

type fileRecord struct {
	ID       string          `msgpack:"id"`
	Blocks   []blockRecord   `msgpack:"blocks"`
	Sections []sectionRecord `msgpack:"sections"`
}

type blockRecord struct {
	ID         string           `msgpack:"id"`
	Name       string           `msgpack:"name"`
	Type       string           `msgpack:"type"`
	MetadataID string           `msgpack:"metadata,omitempty"`
	Arrays     []arrayRecord    `msgpack:"arrays"`
	Groups     []groupRecord    `msgpack:"groups"`
	MultiTags  []multiTagRecord `msgpack:"multi_tags"`
}

type arrayRecord struct {
	ID         string            `msgpack:"id"`
	Name       string            `msgpack:"name"`
	Type       string            `msgpack:"type"`
	Unit       string            `msgpack:"unit,omitempty"`
	Label      string            `msgpack:"label,omitempty"`
	Shape      []int             `msgpack:"shape"`
	MetadataID string            `msgpack:"metadata,omitempty"`
	Dimensions []dimensionRecord `msgpack:"dimensions"`
}

type dimensionRecord struct {
	Kind     format.DimensionType `msgpack:"kind"`
	Interval float64              `msgpack:"interval,omitempty"`
	Offset   float64              `msgpack:"offset,omitempty"`
	Unit     string               `msgpack:"unit,omitempty"`
	Label    string               `msgpack:"label,omitempty"`
	Ticks    []float64            `msgpack:"ticks,omitempty"`
	Alias    bool                 `msgpack:"alias,omitempty"`
	Labels   []string             `msgpack:"labels,omitempty"`
}

type groupRecord struct {
	ID       string   `msgpack:"id"`
	Name     string   `msgpack:"name"`
	Type     string   `msgpack:"type"`
	ArrayIDs []string `msgpack:"arrays"`
	TagIDs   []string `msgpack:"multi_tags"`
}

type multiTagRecord struct {
	ID           string   `msgpack:"id"`
	Name         string   `msgpack:"name"`
	Type         string   `msgpack:"type"`
	PositionsID  string   `msgpack:"positions"`
	ExtentsID    string   `msgpack:"extents,omitempty"`
	ReferenceIDs []string `msgpack:"references"`
}

type sectionRecord struct {
	ID         string           `msgpack:"id"`
	Name       string           `msgpack:"name"`
	Type       string           `msgpack:"type"`
	Properties []propertyRecord `msgpack:"properties"`
	Sections   []sectionRecord  `msgpack:"sections"`
}

// propertyRecord keeps values in typed slices so msgpack never has to guess
// an integer width when decoding into interfaces.
type propertyRecord struct {
	Name      string          `msgpack:"name"`
	Type      string          `msgpack:"type"`
	DataType  format.DataType `msgpack:"data_type"`
	Reference string          `msgpack:"reference,omitempty"`
	Doubles   []float64       `msgpack:"doubles,omitempty"`
	Ints      []int64         `msgpack:"ints,omitempty"`
	Strings   []string        `msgpack:"strings,omitempty"`
	Bools     []bool          `msgpack:"bools,omitempty"`
}

// MarshalStructure serializes the object graph of f without array values.
//
// Returns:
//   - []byte: msgpack encoded structure
//   - error: Encoding error
func MarshalStructure(f *File) ([]byte, error) {
	rec := fileRecord{ID: f.id}

	for _, b := range f.blocks {
		rec.Blocks = append(rec.Blocks, recordBlock(b))
	}
	for _, s := range f.sections {
		rec.Sections = append(rec.Sections, recordSection(s))
	}

	return msgpack.Marshal(&rec)
}

func recordBlock(b *Block) blockRecord {
	br := blockRecord{ID: b.id, Name: b.name, Type: b.typ}
	if b.metadata != nil {
		br.MetadataID = b.metadata.id
	}

	for _, da := range b.arrays {
		ar := arrayRecord{
			ID:    da.id,
			Name:  da.name,
			Type:  da.typ,
			Unit:  da.unit,
			Label: da.label,
			Shape: da.shape,
		}
		if da.metadata != nil {
			ar.MetadataID = da.metadata.id
		}
		for _, d := range da.dims {
			ar.Dimensions = append(ar.Dimensions, recordDimension(d))
		}
		br.Arrays = append(br.Arrays, ar)
	}

	for _, g := range b.groups {
		br.Groups = append(br.Groups, groupRecord{
			ID: g.id, Name: g.name, Type: g.typ,
			ArrayIDs: g.arrayIDs, TagIDs: g.tagIDs,
		})
	}

	for _, mt := range b.tags {
		br.MultiTags = append(br.MultiTags, multiTagRecord{
			ID: mt.id, Name: mt.name, Type: mt.typ,
			PositionsID: mt.positionsID, ExtentsID: mt.extentsID,
			ReferenceIDs: mt.referenceIDs,
		})
	}

	return br
}

func recordDimension(d Dimension) dimensionRecord {
	switch dim := d.(type) {
	case *SampledDimension:
		return dimensionRecord{
			Kind: format.DimensionSample, Interval: dim.Interval, Offset: dim.Offset,
			Unit: dim.Unit, Label: dim.Label,
		}
	case *RangeDimension:
		dr := dimensionRecord{Kind: format.DimensionRange, Alias: dim.Alias, Unit: dim.Unit, Label: dim.Label}
		if !dim.Alias {
			dr.Ticks = dim.ticks
		}

		return dr
	case *SetDimension:
		return dimensionRecord{Kind: format.DimensionSet, Labels: dim.Labels}
	default:
		return dimensionRecord{}
	}
}

func recordSection(s *Section) sectionRecord {
	sr := sectionRecord{ID: s.id, Name: s.name, Type: s.typ}

	for _, p := range s.props {
		pr := propertyRecord{Name: p.name, Type: p.typ, DataType: p.dataType, Reference: p.reference}
		if p.reference == "" {
			switch p.dataType {
			case format.DataTypeDouble:
				pr.Doubles, _ = p.Float64s()
			case format.DataTypeInt64:
				pr.Ints, _ = p.Int64s()
			case format.DataTypeString:
				pr.Strings, _ = p.Strings()
			case format.DataTypeBool:
				pr.Bools, _ = p.Bools()
			}
		}
		sr.Properties = append(sr.Properties, pr)
	}

	for _, child := range s.sections {
		sr.Sections = append(sr.Sections, recordSection(child))
	}

	return sr
}

// UnmarshalStructure rebuilds a File from MarshalStructure output.
//
// Array values are allocated zeroed with the recorded shape; the caller fills
// them with DataArray.SetData. All ids are preserved.
//
// Returns:
//   - *File: Rebuilt file
//   - error: ErrInvalidPayload for undecodable data or dangling references
func UnmarshalStructure(data []byte) (*File, error) {
	var rec fileRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: structure: %w", errs.ErrInvalidPayload, err)
	}

	f := NewFile()
	f.id = rec.ID

	for i := range rec.Sections {
		sr := &rec.Sections[i]
		if err := f.sectionNames.Track(sr.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
		}
		s, err := restoreSection(f, nil, sr)
		if err != nil {
			return nil, err
		}
		f.sections = append(f.sections, s)
	}

	for i := range rec.Blocks {
		b, err := restoreBlock(f, &rec.Blocks[i])
		if err != nil {
			return nil, err
		}
		f.blocks = append(f.blocks, b)
	}

	if err := f.checkReferences(); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
	}

	return f, nil
}

func restoreSection(f *File, parent *Section, sr *sectionRecord) (*Section, error) {
	s := newSection(f, parent, entity{id: sr.ID, name: sr.Name, typ: sr.Type})

	for _, pr := range sr.Properties {
		if err := s.propNames.Track(pr.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
		}

		p := &Property{name: pr.Name, typ: pr.Type, dataType: pr.DataType, reference: pr.Reference}
		switch {
		case pr.Reference != "":
			p.values = []any{pr.Reference}
		case pr.DataType == format.DataTypeDouble:
			p.values = toAny(pr.Doubles)
		case pr.DataType == format.DataTypeInt64:
			p.values = toAny(pr.Ints)
		case pr.DataType == format.DataTypeString:
			p.values = toAny(pr.Strings)
		case pr.DataType == format.DataTypeBool:
			p.values = toAny(pr.Bools)
		}
		if len(p.values) == 0 {
			return nil, fmt.Errorf("%w: property %q: %w", errs.ErrInvalidPayload, pr.Name, errs.ErrEmptyProperty)
		}
		s.props = append(s.props, p)
	}

	for i := range sr.Sections {
		child := &sr.Sections[i]
		if err := s.sectionNames.Track(child.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
		}
		cs, err := restoreSection(f, s, child)
		if err != nil {
			return nil, err
		}
		s.sections = append(s.sections, cs)
	}

	return s, nil
}

func restoreBlock(f *File, br *blockRecord) (*Block, error) {
	if err := f.blockNames.Track(br.Name); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
	}

	b := newBlock(f, entity{id: br.ID, name: br.Name, typ: br.Type})
	if br.MetadataID != "" {
		b.metadata = f.sectionByID[br.MetadataID]
		if b.metadata == nil {
			return nil, fmt.Errorf("%w: metadata of block %q", errs.ErrInvalidPayload, br.Name)
		}
	}

	for _, ar := range br.Arrays {
		if err := b.arrayNames.Track(ar.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
		}
		size, err := shapeSize(ar.Shape)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
		}

		da := &DataArray{
			entity: entity{id: ar.ID, name: ar.Name, typ: ar.Type},
			block:  b,
			unit:   ar.Unit,
			label:  ar.Label,
			shape:  ar.Shape,
			data:   make([]float64, size),
		}
		if ar.MetadataID != "" {
			da.metadata = f.sectionByID[ar.MetadataID]
			if da.metadata == nil {
				return nil, fmt.Errorf("%w: metadata of data array %q", errs.ErrInvalidPayload, ar.Name)
			}
		}
		for i, dr := range ar.Dimensions {
			d, err := restoreDimension(da, i+1, dr)
			if err != nil {
				return nil, err
			}
			da.dims = append(da.dims, d)
		}

		b.arrays = append(b.arrays, da)
		b.arrayByID[da.id] = da
	}

	for _, gr := range br.Groups {
		if err := b.groupNames.Track(gr.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
		}
		b.groups = append(b.groups, &Group{
			entity:   entity{id: gr.ID, name: gr.Name, typ: gr.Type},
			block:    b,
			arrayIDs: gr.ArrayIDs,
			tagIDs:   gr.TagIDs,
		})
	}

	for _, tr := range br.MultiTags {
		if err := b.tagNames.Track(tr.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
		}
		mt := &MultiTag{
			entity:       entity{id: tr.ID, name: tr.Name, typ: tr.Type},
			block:        b,
			positionsID:  tr.PositionsID,
			extentsID:    tr.ExtentsID,
			referenceIDs: tr.ReferenceIDs,
		}
		b.tags = append(b.tags, mt)
		b.tagByID[mt.id] = mt
	}

	return b, nil
}

func restoreDimension(da *DataArray, index int, dr dimensionRecord) (Dimension, error) {
	switch dr.Kind {
	case format.DimensionSample:
		return &SampledDimension{index: index, Interval: dr.Interval, Offset: dr.Offset, Unit: dr.Unit, Label: dr.Label}, nil
	case format.DimensionRange:
		return &RangeDimension{index: index, owner: da, ticks: dr.Ticks, Alias: dr.Alias, Unit: dr.Unit, Label: dr.Label}, nil
	case format.DimensionSet:
		return &SetDimension{index: index, Labels: dr.Labels}, nil
	default:
		return nil, fmt.Errorf("%w: %w: kind %d on %q", errs.ErrInvalidPayload, errs.ErrInvalidDimension, dr.Kind, da.name)
	}
}

// checkReferences verifies that every id stored in groups, multi-tags and
// reference properties resolves.
func (f *File) checkReferences() error {
	for _, b := range f.blocks {
		for _, g := range b.groups {
			for _, id := range g.arrayIDs {
				if _, ok := b.arrayByID[id]; !ok {
					return fmt.Errorf("%w: group %q array %s", errs.ErrNotFound, g.name, id)
				}
			}
			for _, id := range g.tagIDs {
				if _, ok := b.tagByID[id]; !ok {
					return fmt.Errorf("%w: group %q multi-tag %s", errs.ErrNotFound, g.name, id)
				}
			}
		}

		for _, mt := range b.tags {
			ids := append([]string{mt.positionsID}, mt.referenceIDs...)
			if mt.extentsID != "" {
				ids = append(ids, mt.extentsID)
			}
			for _, id := range ids {
				if _, ok := b.arrayByID[id]; !ok {
					return fmt.Errorf("%w: multi-tag %q array %s", errs.ErrNotFound, mt.name, id)
				}
			}
		}
	}

	for _, s := range f.sectionByID {
		for _, p := range s.props {
			if p.reference == "" {
				continue
			}
			if _, err := f.DataArrayByID(p.reference); err != nil {
				return fmt.Errorf("property %q: %w", p.name, err)
			}
		}
	}

	return nil
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
