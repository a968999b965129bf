package nix

import (
	"fmt"
	"slices"

	"github.com/nixworks/nixworks/errs"
)

// MultiTag tags regions of the referenced arrays. Position i together with
// extent i describes one region; both arrays hold one row per region.
type MultiTag struct {
	entity
	block        *Block
	positionsID  string
	extentsID    string
	referenceIDs []string
}

// Block returns the block owning the tag.
func (mt *MultiTag) Block() *Block {
	return mt.block
}

// Positions returns the positions array.
func (mt *MultiTag) Positions() *DataArray {
	return mt.block.arrayByID[mt.positionsID]
}

// Extents returns the extents array, or nil when none is set.
func (mt *MultiTag) Extents() *DataArray {
	if mt.extentsID == "" {
		return nil
	}

	return mt.block.arrayByID[mt.extentsID]
}

// SetExtents links da as the extents array.
//
// Returns:
//   - error: ErrNotFound for a foreign array, ErrShapeMismatch if the shape differs from the positions
func (mt *MultiTag) SetExtents(da *DataArray) error {
	if err := mt.block.owns(da); err != nil {
		return err
	}

	if pos := mt.Positions(); pos != nil && !slices.Equal(pos.shape, da.shape) {
		return fmt.Errorf("%w: extents %v differ from positions %v", errs.ErrShapeMismatch, da.shape, pos.shape)
	}

	mt.extentsID = da.id

	return nil
}

// AddReference appends a reference to da. Adding the same array twice is a no-op.
func (mt *MultiTag) AddReference(da *DataArray) error {
	if err := mt.block.owns(da); err != nil {
		return err
	}

	if !slices.Contains(mt.referenceIDs, da.id) {
		mt.referenceIDs = append(mt.referenceIDs, da.id)
	}

	return nil
}

// References resolves the referenced arrays in insertion order.
func (mt *MultiTag) References() []*DataArray {
	out := make([]*DataArray, 0, len(mt.referenceIDs))
	for _, id := range mt.referenceIDs {
		if da, ok := mt.block.arrayByID[id]; ok {
			out = append(out, da)
		}
	}

	return out
}

// Validate checks that positions exist and that extents, when set, match them.
func (mt *MultiTag) Validate() error {
	pos := mt.Positions()
	if pos == nil {
		return fmt.Errorf("%w: positions of multi-tag %q", errs.ErrNotFound, mt.name)
	}

	if mt.extentsID != "" {
		ext := mt.Extents()
		if ext == nil {
			return fmt.Errorf("%w: extents of multi-tag %q", errs.ErrNotFound, mt.name)
		}
		if !slices.Equal(pos.shape, ext.shape) {
			return fmt.Errorf("%w: multi-tag %q extents %v differ from positions %v", errs.ErrShapeMismatch, mt.name, ext.shape, pos.shape)
		}
	}

	return nil
}
