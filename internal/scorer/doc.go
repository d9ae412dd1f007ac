// Package scorer provides the built-in frame scorer used when no
// external model inference is wired in. It derives per-frame speech
// scores from windowed RMS energy.
package scorer
