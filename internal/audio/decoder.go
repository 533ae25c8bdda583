package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// AudioDecoder defines the interface for all audio format decoders
type AudioDecoder interface {
	// ReadChunk reads up to numFrames frames of interleaved integer samples
	// (numFrames × NumChannels values). Returns io.EOF when exhausted.
	ReadChunk(numFrames int) ([]int32, error)

	// SampleRate returns the audio sample rate in Hz
	SampleRate() int

	// NumChannels returns the number of audio channels (1=mono, 2=stereo)
	NumChannels() int

	// BitDepth returns the bit depth the integer samples are scaled to
	BitDepth() int

	// NumSamples returns the number of frames per channel
	// Returns 0 if the length is unknown
	NumSamples() int64

	// Close closes the decoder and releases resources
	Close() error
}

// EOF is returned by ReadChunk once the stream is exhausted
var EOF = io.EOF

// Open picks a decoder for filename based on its extension.
// Any failure is reported as a *DecodeError.
func Open(filename string) (AudioDecoder, error) {
	var (
		dec AudioDecoder
		err error
	)
	switch Format(filename) {
	case "wav":
		dec, err = NewWAVDecoder(filename)
	case "mp3":
		dec, err = NewMP3Decoder(filename)
	case "flac":
		dec, err = NewFLACDecoder(filename)
	case "ogg":
		dec, err = NewOGGDecoder(filename)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, &DecodeError{Path: filename, Err: err}
	}
	if dec.NumChannels() < 1 {
		dec.Close()
		return nil, &DecodeError{Path: filename, Err: fmt.Errorf("invalid channel count %d", dec.NumChannels())}
	}
	return dec, nil
}

// Format returns the lower-case extension of filename without the dot
func Format(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
