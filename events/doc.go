// Package events maps (label, onset, duration) annotations onto nix
// multi-tags and back.
//
// Onsets are stored in a positions array and durations in an extents array,
// both labelled with a Set dimension carrying one label per event. When the
// tagged signal arrays have rank 2 every position becomes (0, onset) and
// every extent (nchan-1, duration), so the tagged region spans all channels.
package events
