package chunker

import (
	"fmt"

	"github.com/skypro1111/vad-segment-service/internal/segment"
)

// Pack greedily accumulates consecutive segments into chunks of roughly
// chunkSize seconds. A chunk is closed before adding the next segment
// when that segment's end would overrun chunkSize from the chunk's start
// and the chunk already holds at least one segment. The recorded chunk
// end is the last included segment's end. Flattening all chunks'
// Segments in order reproduces the input exactly.
//
// The input must be ordered by start time. Chunk IDs are left empty;
// assigning them is the caller's concern.
func Pack(segments []segment.Segment, chunkSize float64) ([]segment.Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %g", segment.ErrConfiguration, chunkSize)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no segments to pack", segment.ErrEmptyInput)
	}

	var (
		chunks   []segment.Chunk
		spans    []segment.Span
		speakers []string
	)
	currStart := segments[0].Start
	currEnd := 0.0

	for _, seg := range segments {
		if seg.End-currStart > chunkSize && currEnd-currStart > 0 {
			chunks = append(chunks, segment.Chunk{
				Start:    currStart,
				End:      currEnd,
				Segments: spans,
				Speakers: speakers,
			})
			currStart = seg.Start
			spans = nil
			speakers = nil
		}
		currEnd = seg.End
		spans = append(spans, seg.Span)
		speakers = append(speakers, seg.Label)
	}

	return append(chunks, segment.Chunk{
		Start:    currStart,
		End:      currEnd,
		Segments: spans,
		Speakers: speakers,
	}), nil
}
