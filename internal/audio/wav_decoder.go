package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVDecoder implements AudioDecoder for WAV files
type WAVDecoder struct {
	decoder    *wav.Decoder
	file       *os.File
	sampleRate int
	bitDepth   int
	numChans   int
	numSamples int64
}

// NewWAVDecoder creates a new WAV decoder
func NewWAVDecoder(filename string) (*WAVDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("invalid WAV file")
	}

	// Get format info without reading all samples
	if err := decoder.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to seek to PCM data: %w", err)
	}

	numChans := int(decoder.NumChans)
	bitDepth := int(decoder.BitDepth)
	var numSamples int64
	if bytesPerFrame := int64(bitDepth/8) * int64(numChans); bytesPerFrame > 0 {
		numSamples = decoder.PCMLen() / bytesPerFrame
	}

	return &WAVDecoder{
		decoder:    decoder,
		file:       f,
		sampleRate: int(decoder.SampleRate),
		bitDepth:   bitDepth,
		numChans:   numChans,
		numSamples: numSamples,
	}, nil
}

// ReadChunk reads the next chunk of interleaved samples
func (d *WAVDecoder) ReadChunk(numFrames int) ([]int32, error) {
	// numFrames × numChannels values for interleaved data
	intBuf := &audio.IntBuffer{
		Data: make([]int, numFrames*d.numChans),
		Format: &audio.Format{
			NumChannels: d.numChans,
			SampleRate:  d.sampleRate,
		},
	}

	n, err := d.decoder.PCMBuffer(intBuf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	if n == 0 {
		return nil, io.EOF
	}

	samples := make([]int32, n)
	for i := 0; i < n; i++ {
		samples[i] = int32(intBuf.Data[i])
	}
	return samples, nil
}

// SampleRate returns the sample rate
func (d *WAVDecoder) SampleRate() int {
	return d.sampleRate
}

// NumChannels returns the number of audio channels
func (d *WAVDecoder) NumChannels() int {
	return d.numChans
}

// BitDepth returns the PCM bit depth
func (d *WAVDecoder) BitDepth() int {
	return d.bitDepth
}

// NumSamples returns the number of frames in the PCM chunk
func (d *WAVDecoder) NumSamples() int64 {
	return d.numSamples
}

// Close closes the decoder and releases resources
func (d *WAVDecoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
