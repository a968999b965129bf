package nix

import (
	"fmt"
	"slices"

	"github.com/nixworks/nixworks/errs"
)

// Group collects references to data arrays and multi-tags of its block.
// The referenced objects stay owned by the block.
type Group struct {
	entity
	block    *Block
	arrayIDs []string
	tagIDs   []string
}

// Block returns the block owning the group.
func (g *Group) Block() *Block {
	return g.block
}

// AddDataArray appends a reference to da. Adding the same array twice is a no-op.
func (g *Group) AddDataArray(da *DataArray) error {
	if err := g.block.owns(da); err != nil {
		return err
	}

	if !slices.Contains(g.arrayIDs, da.id) {
		g.arrayIDs = append(g.arrayIDs, da.id)
	}

	return nil
}

// DataArrays resolves the referenced data arrays in insertion order.
func (g *Group) DataArrays() []*DataArray {
	out := make([]*DataArray, 0, len(g.arrayIDs))
	for _, id := range g.arrayIDs {
		if da, ok := g.block.arrayByID[id]; ok {
			out = append(out, da)
		}
	}

	return out
}

// AddMultiTag appends a reference to mt. Adding the same tag twice is a no-op.
func (g *Group) AddMultiTag(mt *MultiTag) error {
	if mt == nil {
		return fmt.Errorf("%w: nil multi-tag", errs.ErrNotFound)
	}
	if owned, ok := g.block.tagByID[mt.id]; !ok || owned != mt {
		return fmt.Errorf("%w: multi-tag %q is not part of block %q", errs.ErrNotFound, mt.name, g.block.name)
	}

	if !slices.Contains(g.tagIDs, mt.id) {
		g.tagIDs = append(g.tagIDs, mt.id)
	}

	return nil
}

// MultiTags resolves the referenced multi-tags in insertion order.
func (g *Group) MultiTags() []*MultiTag {
	out := make([]*MultiTag, 0, len(g.tagIDs))
	for _, id := range g.tagIDs {
		if mt, ok := g.block.tagByID[id]; ok {
			out = append(out, mt)
		}
	}

	return out
}
