package vad

import (
	"fmt"
	"math"

	"github.com/skypro1111/vad-segment-service/internal/segment"
)

// MergeConfig configures the interval merger. All durations are seconds.
type MergeConfig struct {
	PadOnset       float64
	PadOffset      float64
	MinDurationOff float64
	MinDurationOn  float64
}

// Merger post-processes an already-binary interval list: it pads each
// interval, unions intervals separated by less than MinDurationOff and
// drops intervals shorter than MinDurationOn. Unlike the Binarizer there
// is no thresholding and no max duration.
type Merger struct {
	padOnset       float64
	padOffset      float64
	minDurationOff float64
	minDurationOn  float64
}

// NewMerger validates the configuration and creates a Merger.
func NewMerger(cfg MergeConfig) (*Merger, error) {
	if cfg.MinDurationOff < 0 || cfg.MinDurationOn < 0 {
		return nil, fmt.Errorf("%w: min durations cannot be negative", segment.ErrConfiguration)
	}
	return &Merger{
		padOnset:       cfg.PadOnset,
		padOffset:      cfg.PadOffset,
		minDurationOff: cfg.MinDurationOff,
		minDurationOn:  cfg.MinDurationOn,
	}, nil
}

// Merge returns the flat, start-sorted merged intervals. Each input
// interval initially forms its own track of a single shared label, and
// the support merge always runs, so any pair of overlapping or near
// intervals is unioned. Track and label information is dropped from the
// output. An empty input yields an empty output, not an error.
func (m *Merger) Merge(intervals []segment.Span) ([]segment.Span, error) {
	if len(intervals) == 0 {
		return nil, nil
	}

	active := make(segment.Annotation, 0, len(intervals))
	for k, iv := range intervals {
		if !iv.Valid() {
			return nil, fmt.Errorf("%w: interval %d [%g, %g] is not a valid span",
				segment.ErrMalformedInput, k, iv.Start, iv.End)
		}
		active = append(active, segment.Segment{
			Span:  segment.Span{Start: math.Max(0, iv.Start-m.padOnset), End: iv.End + m.padOffset},
			Track: k,
			Label: "speech",
		})
	}

	// The support merge is unconditional here, unlike the binarizer's:
	// raw detector intervals may overlap even with zero padding.
	active = active.Support(m.minDurationOff)
	if m.minDurationOn > 0 {
		active = active.FilterShorter(m.minDurationOn)
	}
	return active.Sorted().Spans(), nil
}
