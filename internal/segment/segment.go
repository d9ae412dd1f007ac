package segment

import "sort"

// Span is a half-open time interval in seconds. A valid span has
// 0 <= Start < End.
type Span struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the length of the span in seconds.
func (s Span) Duration() float64 {
	return s.End - s.Start
}

// Valid reports whether the span is non-empty and non-negative.
func (s Span) Valid() bool {
	return s.Start >= 0 && s.Start < s.End
}

// Segment is a span produced by one track of the binarizer, carrying the
// track index and its label. Labels are opaque pass-through tokens.
type Segment struct {
	Span
	Track int    `json:"track"`
	Label string `json:"label"`
}

// Annotation is an ordered collection of labeled segments across tracks.
// Segments of distinct tracks may overlap; after a support merge no two
// same-label segments overlap.
type Annotation []Segment

// Chunk is a duration-bounded container of consecutive speech segments.
// Segments and Speakers correspond positionally; collapsing Speakers into
// one representative label is the caller's concern.
type Chunk struct {
	ID       string   `json:"id,omitempty"`
	Start    float64  `json:"start"`
	End      float64  `json:"end"`
	Segments []Span   `json:"segments"`
	Speakers []string `json:"speakers"`
}

// MergeSpans unions spans that overlap or are separated by a gap smaller
// than collar. The input is not modified; the result is sorted by start
// and contains no two spans closer than collar.
func MergeSpans(spans []Span, collar float64) []Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := make([]Span, 0, len(sorted))
	curr := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start-curr.End < collar {
			if next.End > curr.End {
				curr.End = next.End
			}
			continue
		}
		merged = append(merged, curr)
		curr = next
	}
	return append(merged, curr)
}

// Support applies the support merge per label: segments sharing a label
// are unioned when their gap is below collar. The merged segment keeps
// the label and the lowest contributing track index. The result is sorted
// by start, then track.
func (a Annotation) Support(collar float64) Annotation {
	byLabel := make(map[string][]Segment)
	var labels []string
	for _, seg := range a {
		if _, ok := byLabel[seg.Label]; !ok {
			labels = append(labels, seg.Label)
		}
		byLabel[seg.Label] = append(byLabel[seg.Label], seg)
	}

	var out Annotation
	for _, label := range labels {
		group := byLabel[label]
		spans := make([]Span, len(group))
		track := group[0].Track
		for i, seg := range group {
			spans[i] = seg.Span
			if seg.Track < track {
				track = seg.Track
			}
		}
		for _, sp := range MergeSpans(spans, collar) {
			out = append(out, Segment{Span: sp, Track: track, Label: label})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Track < out[j].Track
	})
	return out
}

// FilterShorter drops segments with a duration below minDuration.
func (a Annotation) FilterShorter(minDuration float64) Annotation {
	out := make(Annotation, 0, len(a))
	for _, seg := range a {
		if seg.Duration() >= minDuration {
			out = append(out, seg)
		}
	}
	return out
}

// Sorted returns the annotation ordered by start time, then track. The
// receiver is not modified.
func (a Annotation) Sorted() Annotation {
	out := make(Annotation, len(a))
	copy(out, a)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Track < out[j].Track
	})
	return out
}

// Spans flattens the annotation into bare spans, preserving order.
func (a Annotation) Spans() []Span {
	spans := make([]Span, len(a))
	for i, seg := range a {
		spans[i] = seg.Span
	}
	return spans
}
