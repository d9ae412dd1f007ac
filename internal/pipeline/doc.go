// Package pipeline composes an external scorer or interval detector with
// the binarizer, merger and chunk packer into a single facade that turns
// an audio file into an ordered list of duration-bounded speech chunks.
package pipeline
