package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/skypro1111/vad-segment-service/internal/chunker"
	"github.com/skypro1111/vad-segment-service/internal/metrics"
	"github.com/skypro1111/vad-segment-service/internal/segment"
	"github.com/skypro1111/vad-segment-service/internal/vad"
)

// DefaultChunkSize is the chunk length in seconds used when none is
// configured.
const DefaultChunkSize = 30.0

// unknownSpeaker labels segments whose detector carries no speaker
// identity.
const unknownSpeaker = "UNKNOWN"

// Scorer produces a per-frame score grid for an audio file, typically by
// running model inference. Cancellation and timeouts are the scorer's
// responsibility.
type Scorer interface {
	Scores(ctx context.Context, path string) (*vad.ScoreGrid, error)
}

// IntervalDetector reports raw speech intervals for an audio file. The
// intervals may be expressed in sample indices rather than seconds; set
// Config.SampleUnits accordingly.
type IntervalDetector interface {
	Intervals(ctx context.Context, path string) ([]segment.Span, error)
}

// AudioSource discovers audio metadata, used to convert detector sample
// indices to seconds.
type AudioSource interface {
	SampleRate(path string) (int, error)
}

// Config contains pipeline parameters.
type Config struct {
	ChunkSize   float64
	Binarize    vad.BinarizeConfig
	Merge       vad.MergeConfig
	SampleUnits bool // detector reports sample indices, not seconds
}

// Deps contains the pipeline's collaborators. Exactly one of Scorer or
// Detector must be set; Source is required only with SampleUnits.
type Deps struct {
	Scorer   Scorer
	Detector IntervalDetector
	Source   AudioSource
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

// Pipeline orchestrates scoring, segmentation and chunk packing. The
// pipeline itself holds no mutable state between invocations and is safe
// for concurrent use.
type Pipeline struct {
	scorer      Scorer
	detector    IntervalDetector
	source      AudioSource
	binarizer   *vad.Binarizer
	merger      *vad.Merger
	chunkSize   float64
	sampleUnits bool
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// New validates the configuration and wires the pipeline together.
func New(cfg Config, deps Deps) (*Pipeline, error) {
	if deps.Scorer == nil && deps.Detector == nil {
		return nil, fmt.Errorf("%w: a scorer or an interval detector is required", segment.ErrConfiguration)
	}
	if deps.Scorer != nil && deps.Detector != nil {
		return nil, fmt.Errorf("%w: scorer and interval detector are mutually exclusive", segment.ErrConfiguration)
	}
	if cfg.SampleUnits && deps.Source == nil {
		return nil, fmt.Errorf("%w: sample-unit intervals require an audio source", segment.ErrConfiguration)
	}

	chunkSize := cfg.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %g", segment.ErrConfiguration, chunkSize)
	}

	binarizer, err := vad.NewBinarizer(cfg.Binarize)
	if err != nil {
		return nil, err
	}
	merger, err := vad.NewMerger(cfg.Merge)
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		scorer:      deps.Scorer,
		detector:    deps.Detector,
		source:      deps.Source,
		binarizer:   binarizer,
		merger:      merger,
		chunkSize:   chunkSize,
		sampleUnits: cfg.SampleUnits,
		logger:      logger,
		metrics:     deps.Metrics,
	}, nil
}

// Segment runs the full pipeline on the audio file at path and returns
// the ordered chunk records. The only blocking calls are the ones into
// the scorer or detector.
func (p *Pipeline) Segment(ctx context.Context, path string) ([]segment.Chunk, error) {
	start := time.Now()
	chunks, err := p.segment(ctx, path)
	if p.metrics != nil {
		p.metrics.RecordPipelineRun(time.Since(start).Seconds(), err)
	}
	if err != nil {
		p.logger.Error("segmentation failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	p.logger.Info("segmentation complete",
		slog.String("path", path),
		slog.Int("chunks", len(chunks)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return chunks, nil
}

func (p *Pipeline) segment(ctx context.Context, path string) ([]segment.Chunk, error) {
	var segs segment.Annotation

	if p.scorer != nil {
		grid, err := p.scorer.Scores(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("scorer failed on %s: %w", path, err)
		}
		if p.metrics != nil {
			p.metrics.RecordFramesScored(grid.NumFrames())
		}

		active, err := p.binarizer.Binarize(grid)
		if err != nil {
			return nil, err
		}
		segs = active.Sorted()
	} else {
		intervals, err := p.detector.Intervals(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("interval detector failed on %s: %w", path, err)
		}

		if p.sampleUnits {
			intervals, err = p.toSeconds(path, intervals)
			if err != nil {
				return nil, err
			}
		}

		merged, err := p.merger.Merge(intervals)
		if err != nil {
			return nil, err
		}
		for i, sp := range merged {
			segs = append(segs, segment.Segment{Span: sp, Track: i, Label: unknownSpeaker})
		}
	}

	if p.metrics != nil {
		for _, seg := range segs {
			p.metrics.RecordSegment(seg.Duration())
		}
	}

	chunks, err := chunker.Pack(segs, p.chunkSize)
	if err != nil {
		return nil, err
	}
	for i := range chunks {
		chunks[i].ID = uuid.NewString()
		if p.metrics != nil {
			p.metrics.RecordChunk(chunks[i].End-chunks[i].Start, len(chunks[i].Segments))
		}
	}
	return chunks, nil
}

// toSeconds converts detector sample indices to seconds using the audio
// file's sample rate.
func (p *Pipeline) toSeconds(path string, intervals []segment.Span) ([]segment.Span, error) {
	rate, err := p.source.SampleRate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample rate of %s: %w", path, err)
	}
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", segment.ErrMalformedInput, rate)
	}

	out := make([]segment.Span, len(intervals))
	for i, iv := range intervals {
		out[i] = segment.Span{
			Start: iv.Start / float64(rate),
			End:   iv.End / float64(rate),
		}
	}
	return out, nil
}
