// Package audiotest writes small PCM fixtures for tests.
package audiotest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV encodes interleaved integer samples as a PCM WAV file at path
func WriteWAV(t testing.TB, path string, sampleRate, bitDepth, channels int, data []int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finalise %s: %v", path, err)
	}
}

// Constant returns frames×channels copies of v
func Constant(frames, channels, v int) []int {
	data := make([]int, frames*channels)
	for i := range data {
		data[i] = v
	}
	return data
}

// Ramp returns a mono ramp 0, 1, 2, ... of the given length
func Ramp(frames int) []int {
	data := make([]int, frames)
	for i := range data {
		data[i] = i
	}
	return data
}
