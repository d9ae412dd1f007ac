// Package chunker packs ordered speech segments into duration-bounded
// chunks for downstream fixed-window processing. Segments are never
// split: a single segment may exceed the chunk size and still become its
// own chunk.
package chunker
