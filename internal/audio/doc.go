// Package audio handles WAV decoding and sample-rate discovery for the
// segmentation pipeline. Decoding uses mono 16-bit PCM; the encoder
// exists mainly to synthesize fixtures.
package audio
