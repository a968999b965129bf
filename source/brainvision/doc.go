// Package brainvision reads and writes BrainVision recordings: a .vhdr
// header, a .vmrk marker file and a binary .eeg data file.
//
// Reading supports INT_16 and IEEE_FLOAT_32 samples in multiplexed or
// vectorized orientation, with per-channel resolution and unit. Writing
// always produces multiplexed IEEE_FLOAT_32 data in microvolts.
//
// Header and marker files are INI-like and parsed with go-ini. Markers
// become events labelled "{type}/{description}".
package brainvision
