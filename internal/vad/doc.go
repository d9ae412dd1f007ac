// Package vad converts voice-activity signals into speech segments.
// The Binarizer applies hysteresis thresholding to per-frame detection
// scores, with forced splitting of over-long active runs; the Merger
// cleans up an already-binary interval list. Both are pure, deterministic
// transformations safe for concurrent use on independent inputs.
package vad
