package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder implements AudioDecoder for MP3 files
type MP3Decoder struct {
	decoder     *mp3.Decoder
	file        *os.File
	sampleRate  int
	numChannels int
}

// NewMP3Decoder creates a new MP3 decoder
func NewMP3Decoder(filename string) (*MP3Decoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create MP3 decoder: %w", err)
	}

	return &MP3Decoder{
		decoder:     decoder,
		file:        f,
		sampleRate:  decoder.SampleRate(),
		numChannels: 2, // go-mp3 always outputs stereo
	}, nil
}

// ReadChunk reads the next chunk of interleaved 16-bit stereo samples
func (d *MP3Decoder) ReadChunk(numFrames int) ([]int32, error) {
	// go-mp3 always outputs interleaved stereo: L0 R0 L1 R1 L2 R2 ...
	// Each channel sample is 16-bit little-endian, so 4 bytes per frame
	buf := make([]byte, numFrames*4)

	n, err := io.ReadFull(d.decoder, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read MP3 data: %w", err)
	}

	// Drop a trailing partial frame
	frames := n / 4
	if frames == 0 {
		return nil, io.EOF
	}

	samples := make([]int32, frames*2)
	for i := range samples {
		samples[i] = int32(int16(uint16(buf[i*2]) | uint16(buf[i*2+1])<<8))
	}
	return samples, nil
}

// SampleRate returns the sample rate
func (d *MP3Decoder) SampleRate() int {
	return d.sampleRate
}

// NumChannels returns the number of audio channels
func (d *MP3Decoder) NumChannels() int {
	return d.numChannels
}

// BitDepth is always 16 for go-mp3 output
func (d *MP3Decoder) BitDepth() int {
	return 16
}

// NumSamples returns the decoded length in frames, 0 if unknown
func (d *MP3Decoder) NumSamples() int64 {
	if l := d.decoder.Length(); l > 0 {
		return l / 4
	}
	return 0
}

// Close closes the decoder and releases resources
func (d *MP3Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
