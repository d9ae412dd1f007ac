package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skypro1111/vad-segment-service/internal/audio"
	"github.com/skypro1111/vad-segment-service/internal/config"
	"github.com/skypro1111/vad-segment-service/internal/metrics"
	"github.com/skypro1111/vad-segment-service/internal/pipeline"
	"github.com/skypro1111/vad-segment-service/internal/scorer"
	"github.com/skypro1111/vad-segment-service/internal/server"
	"github.com/skypro1111/vad-segment-service/internal/vad"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "vad-segment-service"
	serviceVersion    = "1.0.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	inputPath := flag.String("input", "", "Segment a single WAV file and print chunks as JSON instead of serving")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	logger.Info("Configuration loaded",
		slog.Int("scorer_window_size", cfg.Scorer.WindowSize),
		slog.Float64("onset", cfg.Segmentation.Onset),
		slog.Float64("offset", cfg.Segmentation.Offset),
		slog.Float64("max_duration", cfg.Segmentation.MaxDuration),
		slog.Float64("chunk_size", cfg.Chunking.ChunkSize),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()

	// Build the segmentation pipeline with the energy scorer
	energy, err := scorer.NewEnergy(cfg.Scorer.WindowSize, cfg.Scorer.HopSize)
	if err != nil {
		logger.Error("Failed to create scorer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	p, err := pipeline.New(pipeline.Config{
		ChunkSize: cfg.Chunking.ChunkSize,
		Binarize: vad.BinarizeConfig{
			Onset:          cfg.Segmentation.Onset,
			Offset:         cfg.Segmentation.Offset,
			MinDurationOn:  cfg.Segmentation.MinDurationOn,
			MinDurationOff: cfg.Segmentation.MinDurationOff,
			PadOnset:       cfg.Segmentation.PadOnset,
			PadOffset:      cfg.Segmentation.PadOffset,
			MaxDuration:    cfg.Segmentation.MaxDuration,
		},
	}, pipeline.Deps{
		Scorer:  energy,
		Source:  audio.FileSource{},
		Logger:  logger,
		Metrics: appMetrics,
	})
	if err != nil {
		logger.Error("Failed to create pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Pipeline initialized")

	// One-shot mode: segment a single file and print the chunks
	if *inputPath != "" {
		chunks, err := p.Segment(context.Background(), *inputPath)
		if err != nil {
			logger.Error("Segmentation failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(chunks); err != nil {
			logger.Error("Failed to encode chunks", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if !cfg.HTTP.Enabled {
		logger.Error("HTTP server disabled and no -input file given, nothing to do")
		os.Exit(1)
	}

	// Initialize and start HTTP API server
	httpServer := server.NewHTTPServer(cfg.HTTP, logger, cfg, p, appMetrics)
	if err := httpServer.Start(); err != nil {
		logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Service started successfully, waiting for signals...",
		slog.String("http_address", fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)),
	)

	sig := <-sigChan
	logger.Info("Received shutdown signal", slog.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
	}

	logger.Info("Service stopped")
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
