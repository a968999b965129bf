// Package mne maps MNE-style raw recordings onto a nix container and back.
//
// # Layout
//
// WriteRaw produces the following objects, and ImportNIX expects exactly
// these names:
//
//	Block "EEG Data Block" (type "Recording")
//	  Group "Raw Data Group" (type "EEG Channels")
//	    DataArray "EEG Data", or one array per channel in split mode (type "Raw Data")
//	    MultiTag "Stimuli", or one tag per label in split mode (type "EEG Stimuli")
//	Section "Info" (type "File metadata")
//	Section "Extras" or "Extras-0", "Extras-1", ... (type "Raw Extras metadata")
//
// The Info section holds the measurement info record, including nchan,
// sfreq, ch_names and the per-channel chs list. Multi-dimensional info
// values are stored as "Multidimensional Metadata" arrays in the block.
//
// # Usage
//
//	raw, err := mne.FromSource(rec)
//	f := nix.NewFile()
//	err = mne.WriteRaw(f, raw, mne.WithSplitData(true))
//	back, err := mne.ImportNIX(f)
package mne
