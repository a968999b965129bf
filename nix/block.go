package nix

import (
	"fmt"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/internal/registry"
)

// Block is the top-level aggregate holding data arrays, groups and multi-tags.
type Block struct {
	entity
	file *File

	arrays     []*DataArray
	arrayNames *registry.Registry
	arrayByID  map[string]*DataArray

	groups     []*Group
	groupNames *registry.Registry

	tags     []*MultiTag
	tagNames *registry.Registry
	tagByID  map[string]*MultiTag

	metadata *Section
}

func newBlock(f *File, e entity) *Block {
	return &Block{
		entity:     e,
		file:       f,
		arrayNames: registry.New("data array"),
		arrayByID:  make(map[string]*DataArray),
		groupNames: registry.New("group"),
		tagNames:   registry.New("multi-tag"),
		tagByID:    make(map[string]*MultiTag),
	}
}

// File returns the file owning the block.
func (b *Block) File() *File {
	return b.file
}

// CreateDataArray creates a new data array holding row-major float64 values.
//
// Parameters:
//   - name: Array name, unique within the block
//   - typ: Semantic type, e.g. "Raw Data"
//   - shape: Extent of every axis; the rank is len(shape)
//   - data: Row-major values, kept without copying; len(data) must equal the
//     product of shape. A nil slice allocates zeroed storage.
//
// Returns:
//   - *DataArray: The new array with no dimensions attached
//   - error: ErrInvalidName, ErrDuplicateName or ErrDataLengthMismatch
func (b *Block) CreateDataArray(name, typ string, shape []int, data []float64) (*DataArray, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	size, err := shapeSize(shape)
	if err != nil {
		return nil, err
	}
	if data != nil && len(data) != size {
		return nil, fmt.Errorf("%w: %q has %d values for shape %v", errs.ErrDataLengthMismatch, name, len(data), shape)
	}

	if err := b.arrayNames.Track(name); err != nil {
		return nil, err
	}

	da := &DataArray{
		entity: newEntity(name, typ),
		block:  b,
		shape:  append([]int(nil), shape...),
		data:   data,
	}
	if da.data == nil {
		da.data = make([]float64, size)
	}

	b.arrays = append(b.arrays, da)
	b.arrayByID[da.id] = da

	return da, nil
}

// DataArray returns the data array with the given name.
func (b *Block) DataArray(name string) (*DataArray, error) {
	for _, da := range b.arrays {
		if da.name == name {
			return da, nil
		}
	}

	return nil, fmt.Errorf("%w: data array %q in block %q", errs.ErrNotFound, name, b.name)
}

// DataArrayByID returns the data array with the given id.
func (b *Block) DataArrayByID(id string) (*DataArray, error) {
	if da, ok := b.arrayByID[id]; ok {
		return da, nil
	}

	return nil, fmt.Errorf("%w: data array id %s in block %q", errs.ErrNotFound, id, b.name)
}

// DataArrays returns the data arrays in creation order.
func (b *Block) DataArrays() []*DataArray {
	return b.arrays
}

// HasDataArrayName reports whether the block already holds an array called name.
func (b *Block) HasDataArrayName(name string) bool {
	return b.arrayNames.Contains(name)
}

// CreateGroup creates a new group.
func (b *Block) CreateGroup(name, typ string) (*Group, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := b.groupNames.Track(name); err != nil {
		return nil, err
	}

	g := &Group{entity: newEntity(name, typ), block: b}
	b.groups = append(b.groups, g)

	return g, nil
}

// Group returns the group with the given name.
func (b *Block) Group(name string) (*Group, error) {
	for _, g := range b.groups {
		if g.name == name {
			return g, nil
		}
	}

	return nil, fmt.Errorf("%w: group %q in block %q", errs.ErrNotFound, name, b.name)
}

// Groups returns the groups in creation order.
func (b *Block) Groups() []*Group {
	return b.groups
}

// CreateMultiTag creates a multi-tag whose positions are the given array.
//
// Parameters:
//   - name: Tag name, unique within the block
//   - typ: Semantic type, e.g. "EEG Stimuli"
//   - positions: Positions array; must belong to this block
//
// Returns:
//   - *MultiTag: The new tag with no extents and no references
//   - error: ErrInvalidName, ErrDuplicateName or ErrNotFound for a foreign array
func (b *Block) CreateMultiTag(name, typ string, positions *DataArray) (*MultiTag, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := b.owns(positions); err != nil {
		return nil, err
	}
	if err := b.tagNames.Track(name); err != nil {
		return nil, err
	}

	mt := &MultiTag{entity: newEntity(name, typ), block: b, positionsID: positions.id}
	b.tags = append(b.tags, mt)
	b.tagByID[mt.id] = mt

	return mt, nil
}

// MultiTag returns the multi-tag with the given name.
func (b *Block) MultiTag(name string) (*MultiTag, error) {
	for _, mt := range b.tags {
		if mt.name == name {
			return mt, nil
		}
	}

	return nil, fmt.Errorf("%w: multi-tag %q in block %q", errs.ErrNotFound, name, b.name)
}

// MultiTags returns the multi-tags in creation order.
func (b *Block) MultiTags() []*MultiTag {
	return b.tags
}

// Metadata returns the section describing the block, or nil.
func (b *Block) Metadata() *Section {
	return b.metadata
}

// SetMetadata links sec as the block metadata. A nil section clears the link.
func (b *Block) SetMetadata(sec *Section) {
	b.metadata = sec
}

// Validate checks every data array and multi-tag of the block.
func (b *Block) Validate() error {
	for _, da := range b.arrays {
		if err := da.Validate(); err != nil {
			return err
		}
	}

	for _, mt := range b.tags {
		if err := mt.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (b *Block) owns(da *DataArray) error {
	if da == nil {
		return fmt.Errorf("%w: nil data array", errs.ErrNotFound)
	}
	if owned, ok := b.arrayByID[da.id]; !ok || owned != da {
		return fmt.Errorf("%w: data array %q is not part of block %q", errs.ErrNotFound, da.name, b.name)
	}

	return nil
}

func shapeSize(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, fmt.Errorf("%w: empty shape", errs.ErrShapeMismatch)
	}

	size := 1
	for _, n := range shape {
		if n < 0 {
			return 0, fmt.Errorf("%w: negative extent in %v", errs.ErrShapeMismatch, shape)
		}
		size *= n
	}

	return size, nil
}
