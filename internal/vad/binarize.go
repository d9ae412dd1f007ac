package vad

import (
	"fmt"
	"math"
	"strconv"

	"github.com/skypro1111/vad-segment-service/internal/segment"
)

// ScoreGrid holds per-frame detection scores for one or more tracks.
// Timestamps are frame midpoints in seconds; Scores is frame-major, so
// Scores[i][k] is the score of track k at frame i. Labels optionally
// names each track; when nil the track index is used.
type ScoreGrid struct {
	Timestamps []float64
	Scores     [][]float64
	Labels     []string
}

// NumFrames returns the number of frames in the grid.
func (g *ScoreGrid) NumFrames() int { return len(g.Timestamps) }

// NumTracks returns the number of tracks, or 0 for an empty grid.
func (g *ScoreGrid) NumTracks() int {
	if len(g.Scores) == 0 {
		return 0
	}
	return len(g.Scores[0])
}

func (g *ScoreGrid) validate() error {
	if len(g.Timestamps) == 0 {
		return fmt.Errorf("%w: score grid has no frames", segment.ErrEmptyInput)
	}
	if len(g.Scores) != len(g.Timestamps) {
		return fmt.Errorf("%w: %d score rows for %d timestamps",
			segment.ErrMalformedInput, len(g.Scores), len(g.Timestamps))
	}
	tracks := len(g.Scores[0])
	if tracks == 0 {
		return fmt.Errorf("%w: score grid has no tracks", segment.ErrEmptyInput)
	}
	for i, row := range g.Scores {
		if len(row) != tracks {
			return fmt.Errorf("%w: ragged score grid, row %d has %d tracks, want %d",
				segment.ErrMalformedInput, i, len(row), tracks)
		}
	}
	if g.Labels != nil && len(g.Labels) != tracks {
		return fmt.Errorf("%w: %d labels for %d tracks",
			segment.ErrMalformedInput, len(g.Labels), tracks)
	}
	for i, t := range g.Timestamps {
		if t < 0 {
			return fmt.Errorf("%w: negative timestamp %g at frame %d",
				segment.ErrMalformedInput, t, i)
		}
		if i > 0 && t <= g.Timestamps[i-1] {
			return fmt.Errorf("%w: non-monotonic timestamp %g at frame %d",
				segment.ErrMalformedInput, t, i)
		}
	}
	return nil
}

func (g *ScoreGrid) trackLabel(k int) string {
	if g.Labels != nil {
		return g.Labels[k]
	}
	return strconv.Itoa(k)
}

// BinarizeConfig configures hysteresis thresholding of detection scores.
// Zero values select the defaults: Offset falls back to Onset and
// MaxDuration of 0 means unlimited.
type BinarizeConfig struct {
	Onset          float64
	Offset         float64
	MinDurationOn  float64
	MinDurationOff float64
	PadOnset       float64
	PadOffset      float64
	MaxDuration    float64
}

// Binarizer turns a score grid into labeled segments using hysteresis
// thresholding: a track becomes active when its score rises above the
// onset threshold and inactive when it falls below the offset threshold.
// Active runs longer than the max duration are force-split at the lowest
// scoring frame of the run's second half.
//
// Reference: Gregory Gelly and Jean-Luc Gauvain, "Minimum Word Error
// Training of RNN-based Voice Activity Detection", InterSpeech 2015.
type Binarizer struct {
	onset          float64
	offset         float64
	minDurationOn  float64
	minDurationOff float64
	padOnset       float64
	padOffset      float64
	maxDuration    float64
}

// NewBinarizer validates the configuration and creates a Binarizer.
// Padding or gap filling combined with a finite max duration is rejected:
// the support merge could rejoin segments the split intentionally
// separated.
func NewBinarizer(cfg BinarizeConfig) (*Binarizer, error) {
	onset := cfg.Onset
	if onset == 0 {
		onset = 0.5
	}
	offset := cfg.Offset
	if offset == 0 {
		offset = onset
	}
	maxDuration := cfg.MaxDuration
	if maxDuration == 0 {
		maxDuration = math.Inf(1)
	}

	if onset < 0 || onset > 1 {
		return nil, fmt.Errorf("%w: onset must be between 0 and 1, got %g", segment.ErrConfiguration, onset)
	}
	if offset < 0 || offset > 1 {
		return nil, fmt.Errorf("%w: offset must be between 0 and 1, got %g", segment.ErrConfiguration, offset)
	}
	if cfg.MinDurationOn < 0 || cfg.MinDurationOff < 0 {
		return nil, fmt.Errorf("%w: min durations cannot be negative", segment.ErrConfiguration)
	}
	if maxDuration < 0 {
		return nil, fmt.Errorf("%w: max duration cannot be negative, got %g", segment.ErrConfiguration, maxDuration)
	}
	if !math.IsInf(maxDuration, 1) && (cfg.PadOnset > 0 || cfg.PadOffset > 0 || cfg.MinDurationOff > 0) {
		return nil, fmt.Errorf("%w: max_duration cannot be combined with padding or min_duration_off",
			segment.ErrConfiguration)
	}

	return &Binarizer{
		onset:          onset,
		offset:         offset,
		minDurationOn:  cfg.MinDurationOn,
		minDurationOff: cfg.MinDurationOff,
		padOnset:       cfg.PadOnset,
		padOffset:      cfg.PadOffset,
		maxDuration:    maxDuration,
	}, nil
}

// Binarize thresholds the score grid into an annotation of labeled
// segments. The grid is read-only; the call is pure and deterministic.
func (b *Binarizer) Binarize(grid *ScoreGrid) (segment.Annotation, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil score grid", segment.ErrEmptyInput)
	}
	if err := grid.validate(); err != nil {
		return nil, err
	}

	var active segment.Annotation
	for k := 0; k < grid.NumTracks(); k++ {
		scores := make([]float64, grid.NumFrames())
		for i, row := range grid.Scores {
			scores[i] = row[k]
		}
		active = append(active, b.binarizeTrack(grid.Timestamps, scores, k, grid.trackLabel(k))...)
	}

	// Padding may have produced overlapping regions; merge them and fill
	// same-label gaps shorter than min_duration_off.
	if b.padOnset > 0 || b.padOffset > 0 || b.minDurationOff > 0 {
		active = active.Support(b.minDurationOff)
	}
	if b.minDurationOn > 0 {
		active = active.FilterShorter(b.minDurationOn)
	}
	return active, nil
}

// binarizeTrack runs the hysteresis state machine over one track's score
// column. State is local to the call; tracks are independent.
func (b *Binarizer) binarizeTrack(timestamps, scores []float64, track int, label string) []segment.Segment {
	var segs []segment.Segment

	emit := func(start, end float64) {
		segs = append(segs, segment.Segment{
			Span:  segment.Span{Start: math.Max(0, start-b.padOnset), End: end + b.padOffset},
			Track: track,
			Label: label,
		})
	}

	start := timestamps[0]
	isActive := scores[0] > b.onset
	runScores := []float64{scores[0]}
	runTimes := []float64{timestamps[0]}

	for i := 1; i < len(timestamps); i++ {
		t, y := timestamps[i], scores[i]
		switch {
		case isActive && t-start > b.maxDuration:
			// Over-long run: split at the lowest score of the run's
			// second half, first occurrence winning ties.
			half := len(runScores) / 2
			minIdx := half
			for j := half + 1; j < len(runScores); j++ {
				if runScores[j] < runScores[minIdx] {
					minIdx = j
				}
			}
			splitTime := runTimes[minIdx]
			// A single-entry buffer puts the split at the run start,
			// which would emit a zero-length segment; let the run grow
			// by one frame instead.
			if splitTime > start {
				emit(start, splitTime)
				start = splitTime
				runScores = runScores[minIdx+1:]
				runTimes = runTimes[minIdx+1:]
			}
		case isActive && y < b.offset:
			emit(start, t)
			isActive = false
			runScores = runScores[:0]
			runTimes = runTimes[:0]
		case !isActive && y > b.onset:
			isActive = true
			start = t
			// The run buffer restarts with the activating frame so the
			// split search only ever sees the active run.
			runScores = runScores[:0]
			runTimes = runTimes[:0]
		}
		runScores = append(runScores, y)
		runTimes = append(runTimes, t)
	}

	if isActive {
		emit(start, timestamps[len(timestamps)-1])
	}
	return segs
}
