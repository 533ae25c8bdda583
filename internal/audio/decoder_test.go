package audio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/linuxmatters/tundra/internal/audio/audiotest"
)

func TestOpenWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	audiotest.WriteWAV(t, path, 44100, 16, 2, audiotest.Constant(1000, 2, 1234))

	dec, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q) returned error: %v", path, err)
	}
	defer dec.Close()

	if dec.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", dec.SampleRate())
	}
	if dec.NumChannels() != 2 {
		t.Errorf("NumChannels() = %d, want 2", dec.NumChannels())
	}
	if dec.BitDepth() != 16 {
		t.Errorf("BitDepth() = %d, want 16", dec.BitDepth())
	}
	if dec.NumSamples() != 1000 {
		t.Errorf("NumSamples() = %d, want 1000", dec.NumSamples())
	}
}

func TestWAVDecoderReadChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ramp.wav")
	audiotest.WriteWAV(t, path, 8000, 16, 1, audiotest.Ramp(5000))

	dec, err := NewWAVDecoder(path)
	if err != nil {
		t.Fatalf("Failed to create WAV decoder: %v", err)
	}
	defer dec.Close()

	chunkSize := 2048
	var all []int32
	for {
		chunk, err := dec.ReadChunk(chunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Error reading chunk: %v", err)
		}
		if len(chunk) > chunkSize {
			t.Errorf("Chunk size %d exceeds requested %d", len(chunk), chunkSize)
		}
		all = append(all, chunk...)
	}

	if len(all) != 5000 {
		t.Fatalf("Read %d samples, want 5000", len(all))
	}
	for i, s := range all {
		if s != int32(i) {
			t.Fatalf("Sample %d = %d, want %d", i, s, i)
		}
	}
}

func TestWAVDecoderInterleaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lr.wav")
	audiotest.WriteWAV(t, path, 8000, 16, 2, []int{1, -1, 2, -2, 3, -3})

	dec, err := NewWAVDecoder(path)
	if err != nil {
		t.Fatalf("Failed to create WAV decoder: %v", err)
	}
	defer dec.Close()

	chunk, err := dec.ReadChunk(16)
	if err != nil {
		t.Fatalf("ReadChunk returned error: %v", err)
	}
	want := []int32{1, -1, 2, -2, 3, -3}
	if len(chunk) != len(want) {
		t.Fatalf("ReadChunk returned %d values, want %d", len(chunk), len(want))
	}
	for i := range want {
		if chunk[i] != want[i] {
			t.Errorf("chunk[%d] = %d, want %d", i, chunk[i], want[i])
		}
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("Open(%q) error = %v, want *DecodeError", path, err)
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Open(%q) error = %v, want ErrUnsupportedFormat", path, err)
	}
}

func TestOpenCorruptWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("RIFFnope"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("Open(%q) error = %v, want *DecodeError", path, err)
	}
	if decErr.Path != path {
		t.Errorf("DecodeError.Path = %q, want %q", decErr.Path, path)
	}
}

func TestOpenNonexistent(t *testing.T) {
	if _, err := Open("nonexistent.wav"); err == nil {
		t.Error("Expected error for nonexistent file, got nil")
	}
}

func TestFormat(t *testing.T) {
	tests := map[string]string{
		"a.wav":          "wav",
		"B.FLAC":         "flac",
		"dir/c.Mp3":      "mp3",
		"noext":          "",
		"archive.tar.gz": "gz",
	}
	for in, want := range tests {
		if got := Format(in); got != want {
			t.Errorf("Format(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadTrackInfoUntagged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kick 01.wav")
	audiotest.WriteWAV(t, path, 8000, 16, 1, audiotest.Constant(1000, 1, 0))

	info, err := ReadTrackInfo(path)
	if err != nil {
		t.Fatalf("ReadTrackInfo returned error: %v", err)
	}
	if info.Title != "kick 01" {
		t.Errorf("Title = %q, want %q", info.Title, "kick 01")
	}
	if info.Label() != "kick 01" {
		t.Errorf("Label() = %q, want %q", info.Label(), "kick 01")
	}
	if info.Format != "wav" {
		t.Errorf("Format = %q, want wav", info.Format)
	}
}
