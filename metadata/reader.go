package metadata

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/nixworks/nixworks/nix"
)

// ChannelListKey names the per-channel descriptor list, which is always read
// back as a record list.
const ChannelListKey = "chs"

// Resolver looks up the data arrays behind reference properties.
// *nix.File satisfies it.
type Resolver interface {
	DataArrayByID(id string) (*nix.DataArray, error)
	ReferringDataArrays(sec *nix.Section) []*nix.DataArray
}

var _ Resolver = (*nix.File)(nil)

// ReadTree rebuilds the record written by BuildTree.
//
// Every property type tag must parse with ParseKind; reference properties
// resolve to NDArrays through res. Properties holding a single value are read
// back as Scalar, so a one-element sequence does not survive a round trip.
// Child sections typed as a transform become *Transform, child sections named
// "chs" or typed as a sequence with "{name}-{i}" children become RecordList,
// and all other child sections become nested records.
//
// Keys come back as all properties followed by all child sections, so a
// record that interleaved scalar and nested values is equal by key but not
// in key order.
//
// Parameters:
//   - sec: Section to read
//   - res: Resolver for auxiliary arrays
//
// Returns:
//   - *Record: Rebuilt mapping, properties first
//   - error: ErrUnknownValueKind, ErrNotFound or ErrSchemaMismatch
func ReadTree(sec *nix.Section, res Resolver) (*Record, error) {
	rec := NewRecord()

	for _, p := range sec.Properties() {
		v, err := readProperty(p, res)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", sec.Name(), err)
		}
		rec.Set(p.Name(), v)
	}

	for _, child := range sec.Sections() {
		v, err := readSection(child, res)
		if err != nil {
			return nil, err
		}
		rec.Set(child.Name(), v)
	}

	return rec, nil
}

func readProperty(p *nix.Property, res Resolver) (Value, error) {
	kind, err := ParseKind(p.Type())
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", p.Name(), err)
	}

	if p.IsReference() {
		da, err := res.DataArrayByID(p.Reference())
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Name(), err)
		}

		return &NDArray{Shape: da.Shape(), Data: slices.Clone(da.Data())}, nil
	}

	values := p.Values()
	if len(values) == 1 {
		return Scalar{K: kind, V: values[0]}, nil
	}

	return Vector{K: kind, Items: values}, nil
}

func readSection(sec *nix.Section, res Resolver) (Value, error) {
	switch {
	case sec.Type() == KindTransform.String():
		return readTransform(sec, res)
	case sec.Name() == ChannelListKey, isIndexedList(sec):
		return readRecordList(sec, res)
	default:
		return ReadTree(sec, res)
	}
}

// isIndexedList reports whether sec was written from a list of records.
func isIndexedList(sec *nix.Section) bool {
	if sec.Type() != KindList.String() && sec.Type() != KindTuple.String() {
		return false
	}

	children := sec.Sections()
	if len(children) == 0 || len(sec.Properties()) != 0 {
		return false
	}
	prefix := sec.Name() + "-"
	for i, child := range children {
		idx, ok := strings.CutPrefix(child.Name(), prefix)
		if !ok || idx != strconv.Itoa(i) {
			return false
		}
	}

	return true
}

func readRecordList(sec *nix.Section, res Resolver) (Value, error) {
	kind := KindList
	if sec.Type() == KindTuple.String() {
		kind = KindTuple
	}

	list := RecordList{K: kind}
	for _, child := range sec.Sections() {
		item, err := ReadTree(child, res)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}

	return list, nil
}

func readTransform(sec *nix.Section, res Resolver) (Value, error) {
	fields, err := ReadTree(sec, res)
	if err != nil {
		return nil, err
	}

	from, err := fields.Int("from")
	if err != nil {
		return nil, fmt.Errorf("transform %q: %w", sec.Name(), err)
	}
	to, err := fields.Int("to")
	if err != nil {
		return nil, fmt.Errorf("transform %q: %w", sec.Name(), err)
	}

	t := &Transform{From: int64(from), To: int64(to)}

	arr, _ := fields.values["trans"].(*NDArray)
	if arr == nil {
		for _, da := range res.ReferringDataArrays(sec) {
			if da.Type() == AuxArrayType {
				arr = &NDArray{Shape: da.Shape(), Data: slices.Clone(da.Data())}
				break
			}
		}
	}
	if arr == nil {
		return t, nil
	}

	t.Trans, err = arr.Dense()
	if err != nil {
		return nil, fmt.Errorf("transform %q: %w", sec.Name(), err)
	}

	return t, nil
}
