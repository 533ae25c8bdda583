// Package waveform reduces decoded PCM to a bounded envelope and turns it
// into drawable staircase paths.
package waveform

import (
	"errors"
	"fmt"
	"io"

	"github.com/linuxmatters/tundra/internal/audio"
	"github.com/linuxmatters/tundra/internal/config"
)

// Buffer is the decimated mono envelope of one audio file
type Buffer struct {
	// Samples holds one representative value per decimation chunk
	Samples    []int32
	SampleRate int
	BitDepth   int
}

// Len returns the number of representative samples
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Samples)
}

// Downmix averages each frame of channels interleaved samples into one mono
// sample, truncating toward zero. A trailing partial frame is dropped.
func Downmix(interleaved []int32, channels int) []int32 {
	if channels <= 1 {
		out := make([]int32, len(interleaved))
		copy(out, interleaved)
		return out
	}

	frames := len(interleaved) / channels
	out := make([]int32, frames)
	for i := 0; i < frames; i++ {
		var sum int64
		for _, s := range interleaved[i*channels : (i+1)*channels] {
			sum += int64(s)
		}
		out[i] = int32(sum / int64(channels))
	}
	return out
}

// Decimate replaces each run of factor samples with the one of largest
// absolute value. The final chunk may be shorter. factor <= 1 copies.
func Decimate(mono []int32, factor int) []int32 {
	if factor <= 1 {
		out := make([]int32, len(mono))
		copy(out, mono)
		return out
	}

	var e envelope
	e.factor = factor
	out := make([]int32, 0, (len(mono)+factor-1)/factor)
	for _, s := range mono {
		out = e.push(out, s)
	}
	return e.flush(out)
}

// envelope accumulates the extreme sample of the current chunk
type envelope struct {
	factor int
	count  int
	best   int32
}

func (e *envelope) push(out []int32, s int32) []int32 {
	if e.count == 0 || abs64(s) > abs64(e.best) {
		e.best = s
	}
	e.count++
	if e.count == e.factor {
		out = append(out, e.best)
		e.count = 0
	}
	return out
}

func (e *envelope) flush(out []int32) []int32 {
	if e.count > 0 {
		out = append(out, e.best)
		e.count = 0
	}
	return out
}

func abs64(s int32) int64 {
	v := int64(s)
	if v < 0 {
		return -v
	}
	return v
}

// ProgressFunc is told how many frames have been consumed so far
type ProgressFunc func(frames int64)

// Extract consumes dec once and returns its decimated mono envelope.
// Frames split across chunk boundaries are carried to the next chunk.
func Extract(dec audio.AudioDecoder, factor int, progress ProgressFunc) (*Buffer, error) {
	channels := dec.NumChannels()
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if factor < 1 {
		factor = 1
	}

	buf := &Buffer{
		SampleRate: dec.SampleRate(),
		BitDepth:   dec.BitDepth(),
	}
	if n := dec.NumSamples(); n > 0 {
		buf.Samples = make([]int32, 0, (n+int64(factor)-1)/int64(factor))
	}

	e := envelope{factor: factor}
	var (
		carry  []int32
		frames int64
	)
	for {
		chunk, err := dec.ReadChunk(config.DecodeChunkFrames)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read samples: %w", err)
		}

		if len(carry) > 0 {
			chunk = append(carry, chunk...)
			carry = nil
		}
		whole := len(chunk) - len(chunk)%channels
		if whole < len(chunk) {
			carry = append([]int32(nil), chunk[whole:]...)
		}

		for _, s := range Downmix(chunk[:whole], channels) {
			buf.Samples = e.push(buf.Samples, s)
		}
		frames += int64(whole / channels)
		if progress != nil {
			progress(frames)
		}
	}
	buf.Samples = e.flush(buf.Samples)
	return buf, nil
}

// Load decodes path and extracts its envelope
func Load(path string, factor int, progress ProgressFunc) (*Buffer, error) {
	dec, err := audio.Open(path)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	buf, err := Extract(dec, factor, progress)
	if err != nil {
		return nil, &audio.DecodeError{Path: path, Err: err}
	}
	return buf, nil
}
