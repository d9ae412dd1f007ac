package scorer

import (
	"context"
	"fmt"
	"math"

	"github.com/skypro1111/vad-segment-service/internal/audio"
	"github.com/skypro1111/vad-segment-service/internal/vad"
)

// referenceEnergy is the RMS level mapped to a score of 1.0 for 16-bit
// PCM input.
const referenceEnergy = 10000.0

// Energy scores audio frames by normalized RMS energy. It is a stand-in
// for neural-network inference: cheap, deterministic and good enough to
// exercise the full pipeline end to end.
type Energy struct {
	windowSize int // samples per frame
	hopSize    int // samples between frame starts
}

// NewEnergy creates an energy scorer. hopSize of 0 defaults to half the
// window (50% overlap).
func NewEnergy(windowSize, hopSize int) (*Energy, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", windowSize)
	}
	if hopSize == 0 {
		hopSize = windowSize / 2
	}
	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive, got %d", hopSize)
	}
	return &Energy{windowSize: windowSize, hopSize: hopSize}, nil
}

// Scores decodes the WAV file at path and returns a single-track score
// grid. Timestamps are frame midpoints in seconds; the track is labeled
// UNKNOWN since energy carries no speaker identity.
func (e *Energy) Scores(ctx context.Context, path string) (*vad.ScoreGrid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pcm, err := audio.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if len(pcm.Samples) < e.windowSize {
		return nil, fmt.Errorf("audio too short: %d samples, need at least %d", len(pcm.Samples), e.windowSize)
	}

	rate := float64(pcm.SampleRate)
	numFrames := (len(pcm.Samples)-e.windowSize)/e.hopSize + 1
	timestamps := make([]float64, numFrames)
	scores := make([][]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		start := i * e.hopSize
		window := pcm.Samples[start : start+e.windowSize]

		var energy float64
		for _, s := range window {
			energy += float64(s) * float64(s)
		}
		energy = math.Sqrt(energy / float64(len(window)))

		score := energy / referenceEnergy
		if score > 1 {
			score = 1
		}

		timestamps[i] = (float64(start) + float64(e.windowSize)/2) / rate
		scores[i] = []float64{score}
	}

	return &vad.ScoreGrid{
		Timestamps: timestamps,
		Scores:     scores,
		Labels:     []string{"UNKNOWN"},
	}, nil
}
