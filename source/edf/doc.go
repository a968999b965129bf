// Package edf decodes EDF and EDF+ files into a source.Recording.
//
// Digital samples are scaled to physical values with each signal's
// physical/digital range, and voltage channels are rescaled to volts. The
// EDF+ "EDF Annotations" signal is decoded from its time-stamped annotation
// lists into events instead of being returned as a channel. All ordinary
// signals must share one sampling rate.
package edf
