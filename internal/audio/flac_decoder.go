package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
)

// FLACDecoder implements AudioDecoder for FLAC files
type FLACDecoder struct {
	stream      *flac.Stream
	file        *os.File
	sampleRate  int
	bitDepth    int
	numSamples  int64
	numChannels int

	// interleaved samples decoded from the last frame but not yet returned
	pending []int32
}

// NewFLACDecoder creates a new FLAC decoder
func NewFLACDecoder(filename string) (*FLACDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	// Parse FLAC stream - reads signature and StreamInfo block
	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create FLAC decoder: %w", err)
	}

	return &FLACDecoder{
		stream:      stream,
		file:        f,
		sampleRate:  int(stream.Info.SampleRate),
		bitDepth:    int(stream.Info.BitsPerSample),
		numSamples:  int64(stream.Info.NSamples),
		numChannels: int(stream.Info.NChannels),
	}, nil
}

// ReadChunk reads the next chunk of interleaved samples
func (d *FLACDecoder) ReadChunk(numFrames int) ([]int32, error) {
	want := numFrames * d.numChannels

	// Read FLAC frames until we have enough samples
	for len(d.pending) < want {
		frame, err := d.stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		// FLAC frames contain one subframe per channel, already decorrelated
		frameSamples := len(frame.Subframes[0].Samples)
		for i := 0; i < frameSamples; i++ {
			for _, subframe := range frame.Subframes {
				d.pending = append(d.pending, subframe.Samples[i])
			}
		}
	}

	if len(d.pending) == 0 {
		return nil, io.EOF
	}

	n := min(want, len(d.pending))
	samples := make([]int32, n)
	copy(samples, d.pending[:n])
	d.pending = d.pending[n:]
	return samples, nil
}

// SampleRate returns the sample rate
func (d *FLACDecoder) SampleRate() int {
	return d.sampleRate
}

// NumSamples returns the total number of frames from StreamInfo
func (d *FLACDecoder) NumSamples() int64 {
	return d.numSamples
}

// NumChannels returns the number of audio channels
func (d *FLACDecoder) NumChannels() int {
	return d.numChannels
}

// BitDepth returns the bits per sample from StreamInfo
func (d *FLACDecoder) BitDepth() int {
	return d.bitDepth
}

// Close closes the decoder and releases resources
func (d *FLACDecoder) Close() error {
	if d.stream != nil {
		d.stream.Close()
	}
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
