// Package nwb converts NWB-style acquisition time series to and from a nix
// container.
//
// The package works on an in-memory model of the NWB file (File and
// TimeSeries). ToNIX creates one block named after the source file with an
// "acquisition" group, and a root section carrying the session start in a
// "Recording" child section. FromNIX reads every block back, turning each
// one-dimensional sampled or range array into a TimeSeries.
package nwb
