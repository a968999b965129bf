// Package metadata converts nested key-value metadata to and from a tree of
// nix sections and properties.
//
// Values are classified once, at the boundary, into a closed set of shapes:
//
//	Scalar      one str, int, float or bool
//	Vector      a homogeneous one-dimensional sequence of scalars
//	*Record     an insertion-ordered mapping, stored as a child section
//	RecordList  a sequence of records, stored as "{key}-{i}" child sections
//	*NDArray    a numeric block of rank > 1, stored as an auxiliary data array
//	*Transform  a coordinate transform (from frame, to frame, 4x4 matrix)
//
// Every property records the Kind of its original value as a declared type
// tag. ReadTree looks that tag up in a closed table and fails with
// errs.ErrUnknownValueKind for anything else.
//
// Reading collapses single-element sequences into bare scalars, so a
// one-element list does not survive a round trip unchanged.
package metadata
