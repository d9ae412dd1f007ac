package chunker

import (
	"errors"
	"reflect"
	"testing"

	"github.com/skypro1111/vad-segment-service/internal/segment"
)

func speechSegments(spans ...segment.Span) []segment.Segment {
	segs := make([]segment.Segment, len(spans))
	for i, sp := range spans {
		segs[i] = segment.Segment{Span: sp, Track: i, Label: "UNKNOWN"}
	}
	return segs
}

func TestPackEachSegmentOverrunsChunk(t *testing.T) {
	segs := speechSegments(
		segment.Span{Start: 0, End: 10},
		segment.Span{Start: 10, End: 25},
		segment.Span{Start: 25, End: 40},
	)

	got, err := Pack(segs, 20)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	// Every extension would overrun the chunk size from the current
	// start, so each segment lands in its own chunk.
	want := []segment.Chunk{
		{Start: 0, End: 10, Segments: []segment.Span{{Start: 0, End: 10}}, Speakers: []string{"UNKNOWN"}},
		{Start: 10, End: 25, Segments: []segment.Span{{Start: 10, End: 25}}, Speakers: []string{"UNKNOWN"}},
		{Start: 25, End: 40, Segments: []segment.Span{{Start: 25, End: 40}}, Speakers: []string{"UNKNOWN"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pack() = %v, want %v", got, want)
	}
}

func TestPackAccumulatesUntilFull(t *testing.T) {
	segs := speechSegments(
		segment.Span{Start: 0, End: 10},
		segment.Span{Start: 12, End: 18},
		segment.Span{Start: 19, End: 29},
		segment.Span{Start: 29, End: 41},
	)

	got, err := Pack(segs, 30)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(got), got)
	}
	if got[0].Start != 0 || got[0].End != 29 {
		t.Errorf("first chunk = [%g, %g], want [0, 29]", got[0].Start, got[0].End)
	}
	if len(got[0].Segments) != 3 {
		t.Errorf("first chunk holds %d segments, want 3", len(got[0].Segments))
	}
	if got[1].Start != 29 || got[1].End != 41 {
		t.Errorf("second chunk = [%g, %g], want [29, 41]", got[1].Start, got[1].End)
	}
}

func TestPackSingleOversizeSegment(t *testing.T) {
	got, err := Pack(speechSegments(segment.Span{Start: 0, End: 50}), 30)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0].End-got[0].Start != 50 {
		t.Errorf("oversize segment must not be split, got [%g, %g]", got[0].Start, got[0].End)
	}
}

func TestPackFlatteningPreservesInput(t *testing.T) {
	segs := []segment.Segment{
		{Span: segment.Span{Start: 0, End: 4}, Label: "alice"},
		{Span: segment.Span{Start: 5, End: 9}, Label: "bob"},
		{Span: segment.Span{Start: 9, End: 22}, Label: "alice"},
		{Span: segment.Span{Start: 23, End: 31}, Label: "carol"},
		{Span: segment.Span{Start: 32, End: 33}, Label: "bob"},
	}

	chunks, err := Pack(segs, 15)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	var spans []segment.Span
	var speakers []string
	for _, c := range chunks {
		if len(c.Segments) != len(c.Speakers) {
			t.Fatalf("chunk %v has %d segments but %d speakers", c, len(c.Segments), len(c.Speakers))
		}
		spans = append(spans, c.Segments...)
		speakers = append(speakers, c.Speakers...)
	}

	if len(spans) != len(segs) {
		t.Fatalf("flattened %d spans, want %d", len(spans), len(segs))
	}
	for i, seg := range segs {
		if spans[i] != seg.Span {
			t.Errorf("span %d = %v, want %v", i, spans[i], seg.Span)
		}
		if speakers[i] != seg.Label {
			t.Errorf("speaker %d = %q, want %q", i, speakers[i], seg.Label)
		}
	}
}

func TestPackMultiSegmentChunksRespectSize(t *testing.T) {
	segs := speechSegments(
		segment.Span{Start: 0, End: 3},
		segment.Span{Start: 4, End: 8},
		segment.Span{Start: 9, End: 12},
		segment.Span{Start: 13, End: 18},
		segment.Span{Start: 20, End: 26},
		segment.Span{Start: 27, End: 29},
	)

	chunkSize := 10.0
	chunks, err := Pack(segs, chunkSize)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	for i, c := range chunks {
		if len(c.Segments) > 1 && c.End-c.Start > chunkSize {
			t.Errorf("chunk %d spans %g with %d segments, exceeds size %g",
				i, c.End-c.Start, len(c.Segments), chunkSize)
		}
		if c.End != c.Segments[len(c.Segments)-1].End {
			t.Errorf("chunk %d end %g is not the last segment's end", i, c.End)
		}
	}
}

func TestPackErrors(t *testing.T) {
	if _, err := Pack(nil, 30); !errors.Is(err, segment.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput for empty list, got %v", err)
	}

	segs := speechSegments(segment.Span{Start: 0, End: 1})
	if _, err := Pack(segs, 0); !errors.Is(err, segment.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for zero chunk size, got %v", err)
	}
	if _, err := Pack(segs, -5); !errors.Is(err, segment.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for negative chunk size, got %v", err)
	}
}
