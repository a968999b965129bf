// Package format holds the small closed enumerations shared by the container
// model and its file encoding: payload compression, dimension kinds and
// property data types.
package format
