// Package nix is an in-memory model of a NIX-style hierarchical scientific
// data container.
//
// A File owns blocks and root metadata sections. A Block owns data arrays,
// groups and multi-tags. Groups and multi-tags only reference data arrays by
// id; they never own copies. Sections form a tree of named properties and
// child sections, and data arrays may point at a section as their metadata.
//
//	f := nix.NewFile()
//	blk, _ := f.CreateBlock("EEG Data Block", "Recording")
//	da, _ := blk.CreateDataArray("EEG Data", "Raw Data", []int{2, 4}, values)
//	da.SetUnit("V")
//	da.AppendSetDimension("C1", "C2")
//	_, _ = da.AppendRangeDimension([]float64{0, 0.5, 1, 1.5})
//
// Names are unique per scope and must not contain '/'. A File is not safe for
// concurrent mutation; it is built once by a single conversion pass and then
// handed to the store package for persistence.
package nix
