package audio

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

// oggBitDepth is the integer scale applied to Vorbis float output
const oggBitDepth = 16

// OGGDecoder implements AudioDecoder for Ogg Vorbis files
type OGGDecoder struct {
	reader *oggvorbis.Reader
	file   *os.File
}

// NewOGGDecoder creates a new Ogg Vorbis decoder
func NewOGGDecoder(filename string) (*OGGDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create Vorbis decoder: %w", err)
	}

	return &OGGDecoder{reader: reader, file: f}, nil
}

// ReadChunk reads the next chunk of interleaved samples scaled to 16-bit
func (d *OGGDecoder) ReadChunk(numFrames int) ([]int32, error) {
	channels := d.reader.Channels()
	buf := make([]float32, numFrames*channels)

	n := 0
	for n < len(buf) {
		read, err := d.reader.Read(buf[n:])
		n += read
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read Vorbis data: %w", err)
		}
		if read == 0 {
			break
		}
	}

	n -= n % channels
	if n == 0 {
		return nil, io.EOF
	}

	const scale = 1 << (oggBitDepth - 1)
	samples := make([]int32, n)
	for i, v := range buf[:n] {
		s := math.Round(float64(v) * scale)
		samples[i] = int32(max(-scale, min(scale-1, s)))
	}
	return samples, nil
}

// SampleRate returns the sample rate
func (d *OGGDecoder) SampleRate() int {
	return d.reader.SampleRate()
}

// NumChannels returns the number of audio channels
func (d *OGGDecoder) NumChannels() int {
	return d.reader.Channels()
}

// BitDepth returns the integer scale of the converted samples
func (d *OGGDecoder) BitDepth() int {
	return oggBitDepth
}

// NumSamples returns the stream length in frames, 0 if unknown
func (d *OGGDecoder) NumSamples() int64 {
	if l := d.reader.Length(); l > 0 {
		return l
	}
	return 0
}

// Close closes the decoder and releases resources
func (d *OGGDecoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
