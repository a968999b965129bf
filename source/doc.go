// Package source defines the decoded recording that EEG file readers hand to
// the converters, plus the unit helpers they share.
//
// Readers live in the sub-packages: edf for EDF and EDF+, brainvision for
// BrainVision header/marker/data triples and montage for electrode position
// files.
package source
