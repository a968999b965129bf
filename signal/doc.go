// Package signal maps a multi-channel time series onto nix data arrays and
// back.
//
// A signal is a two-dimensional matrix whose channel axis is found by
// matching its extent against the number of channel names. It is written
// either as one array carrying a Set dimension over channels and a Range
// dimension over time, or split into one rank-1 array per channel. Every
// array is typed RawDataType and carries the unit "V", so Merge can find
// and re-stack them in stored order.
package signal
