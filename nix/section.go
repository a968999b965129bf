package nix

import (
	"fmt"

	"github.com/nixworks/nixworks/errs"
	"github.com/nixworks/nixworks/format"
	"github.com/nixworks/nixworks/internal/registry"
)

// Section is a metadata node: ordered properties and ordered child sections.
type Section struct {
	entity
	file   *File
	parent *Section

	props     []*Property
	propNames *registry.Registry

	sections     []*Section
	sectionNames *registry.Registry
}

func newSection(f *File, parent *Section, e entity) *Section {
	s := &Section{
		entity:       e,
		file:         f,
		parent:       parent,
		propNames:    registry.New("property"),
		sectionNames: registry.New("section"),
	}
	f.sectionByID[s.id] = s

	return s
}

// File returns the file owning the section.
func (s *Section) File() *File {
	return s.file
}

// Parent returns the parent section, or nil for a root section.
func (s *Section) Parent() *Section {
	return s.parent
}

// CreateSection creates a child section.
func (s *Section) CreateSection(name, typ string) (*Section, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := s.sectionNames.Track(name); err != nil {
		return nil, err
	}

	child := newSection(s.file, s, newEntity(name, typ))
	s.sections = append(s.sections, child)

	return child, nil
}

// Section returns the child section with the given name.
func (s *Section) Section(name string) (*Section, error) {
	for _, child := range s.sections {
		if child.name == name {
			return child, nil
		}
	}

	return nil, fmt.Errorf("%w: section %q in %q", errs.ErrNotFound, name, s.name)
}

// Sections returns the child sections in creation order.
func (s *Section) Sections() []*Section {
	return s.sections
}

// CreateProperty stores a list of values under name.
//
// Supported element types are the Go float, signed integer, small unsigned
// integer, string and bool types. All values must map to the same DataType.
//
// Parameters:
//   - name: Property name, unique within the section
//   - values: One or more values
//
// Returns:
//   - *Property: The new property with an empty declared type
//   - error: ErrEmptyProperty, ErrUnsupportedValue, ErrMixedValueTypes or ErrDuplicateName
func (s *Section) CreateProperty(name string, values ...any) (*Property, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	normalized, dt, err := normalizeValues(values)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", name, err)
	}

	if err := s.propNames.Track(name); err != nil {
		return nil, err
	}

	p := &Property{name: name, dataType: dt, values: normalized}
	s.props = append(s.props, p)

	return p, nil
}

// CreateReferenceProperty stores a reference to the data array with the given id.
func (s *Section) CreateReferenceProperty(name, arrayID string) (*Property, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if _, err := s.file.DataArrayByID(arrayID); err != nil {
		return nil, err
	}
	if err := s.propNames.Track(name); err != nil {
		return nil, err
	}

	p := &Property{
		name:      name,
		dataType:  format.DataTypeString,
		values:    []any{arrayID},
		reference: arrayID,
	}
	s.props = append(s.props, p)

	return p, nil
}

// Property returns the property with the given name.
func (s *Section) Property(name string) (*Property, error) {
	for _, p := range s.props {
		if p.name == name {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: property %q in %q", errs.ErrNotFound, name, s.name)
}

// Properties returns the properties in creation order.
func (s *Section) Properties() []*Property {
	return s.props
}

// ReferringDataArrays returns the data arrays whose metadata is this section.
func (s *Section) ReferringDataArrays() []*DataArray {
	return s.file.ReferringDataArrays(s)
}
