package nix

import (
	"fmt"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/internal/registry"
)

// File is the root of a container: an ordered list of blocks and an ordered
// list of root metadata sections.
type File struct {
	id           string
	blocks       []*Block
	blockNames   *registry.Registry
	sections     []*Section
	sectionNames *registry.Registry
	sectionByID  map[string]*Section
}

// NewFile creates an empty container.
func NewFile() *File {
	e := newEntity("", "")

	return &File{
		id:           e.id,
		blockNames:   registry.New("block"),
		sectionNames: registry.New("section"),
		sectionByID:  make(map[string]*Section),
	}
}

// ID returns the file identifier.
func (f *File) ID() string {
	return f.id
}

// CreateBlock creates a new block.
//
// Parameters:
//   - name: Block name, unique within the file
//   - typ: Semantic type of the block
//
// Returns:
//   - *Block: The new block
//   - error: ErrInvalidName or ErrDuplicateName
func (f *File) CreateBlock(name, typ string) (*Block, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := f.blockNames.Track(name); err != nil {
		return nil, err
	}

	b := newBlock(f, newEntity(name, typ))
	f.blocks = append(f.blocks, b)

	return b, nil
}

// Block returns the block with the given name.
func (f *File) Block(name string) (*Block, error) {
	for _, b := range f.blocks {
		if b.name == name {
			return b, nil
		}
	}

	return nil, fmt.Errorf("%w: block %q", errs.ErrNotFound, name)
}

// Blocks returns the blocks in creation order.
func (f *File) Blocks() []*Block {
	return f.blocks
}

// CreateSection creates a new root metadata section.
func (f *File) CreateSection(name, typ string) (*Section, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := f.sectionNames.Track(name); err != nil {
		return nil, err
	}

	s := newSection(f, nil, newEntity(name, typ))
	f.sections = append(f.sections, s)

	return s, nil
}

// Section returns the root section with the given name.
func (f *File) Section(name string) (*Section, error) {
	for _, s := range f.sections {
		if s.name == name {
			return s, nil
		}
	}

	return nil, fmt.Errorf("%w: section %q", errs.ErrNotFound, name)
}

// Sections returns the root sections in creation order.
func (f *File) Sections() []*Section {
	return f.sections
}

// FindSection returns the section with the given id at any depth.
func (f *File) FindSection(id string) (*Section, error) {
	if s, ok := f.sectionByID[id]; ok {
		return s, nil
	}

	return nil, fmt.Errorf("%w: section id %s", errs.ErrNotFound, id)
}

// DataArrayByID returns the data array with the given id from any block.
func (f *File) DataArrayByID(id string) (*DataArray, error) {
	for _, b := range f.blocks {
		if da, ok := b.arrayByID[id]; ok {
			return da, nil
		}
	}

	return nil, fmt.Errorf("%w: data array id %s", errs.ErrNotFound, id)
}

// ReferringDataArrays returns the data arrays, across all blocks, whose
// metadata is sec. The result follows block then creation order.
func (f *File) ReferringDataArrays(sec *Section) []*DataArray {
	var out []*DataArray
	for _, b := range f.blocks {
		for _, da := range b.arrays {
			if da.metadata == sec {
				out = append(out, da)
			}
		}
	}

	return out
}

// Validate checks every data array and multi-tag of every block.
func (f *File) Validate() error {
	for _, b := range f.blocks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("block %q: %w", b.name, err)
		}
	}

	return nil
}
