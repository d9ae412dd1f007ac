package audio

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWAV(t *testing.T, samples []int16, sampleRate int) string {
	t.Helper()

	data, err := EncodeWAV(samples, sampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.wav")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write WAV file: %v", err)
	}
	return path
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	samples := make([]int16, 1600)
	for i := range samples {
		samples[i] = int16(i%200 - 100)
	}

	path := writeWAV(t, samples, 16000)

	pcm, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}

	if pcm.SampleRate != 16000 {
		t.Errorf("sample rate = %d, want 16000", pcm.SampleRate)
	}
	if len(pcm.Samples) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(pcm.Samples), len(samples))
	}
	for i, want := range samples {
		if pcm.Samples[i] != int(want) {
			t.Fatalf("sample %d = %d, want %d", i, pcm.Samples[i], want)
		}
	}
}

func TestPCMDuration(t *testing.T) {
	pcm := &PCM{Samples: make([]int, 8000), SampleRate: 16000}
	if got := pcm.Duration(); got != 0.5 {
		t.Errorf("Duration() = %g, want 0.5", got)
	}

	empty := &PCM{}
	if got := empty.Duration(); got != 0 {
		t.Errorf("Duration() on empty PCM = %g, want 0", got)
	}
}

func TestFileSourceSampleRate(t *testing.T) {
	path := writeWAV(t, make([]int16, 800), 8000)

	rate, err := FileSource{}.SampleRate(path)
	if err != nil {
		t.Fatalf("SampleRate: %v", err)
	}
	if rate != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", rate)
	}
}

func TestFileSourceSampleRateMissingFile(t *testing.T) {
	if _, err := (FileSource{}).SampleRate(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodeFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("not a wav file at all"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := DecodeFile(path); err == nil {
		t.Error("expected error for invalid WAV data")
	}
}

func TestEncodeWAVValidation(t *testing.T) {
	if _, err := EncodeWAV(nil, 16000); err == nil {
		t.Error("expected error for empty samples")
	}
	if _, err := EncodeWAV([]int16{1, 2, 3}, 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}
