package player

import (
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/linuxmatters/tundra/internal/audio"
)

// SourceOpener opens path as a seekable stream. Closing the stream
// releases the file.
type SourceOpener func(path string) (beep.StreamSeekCloser, beep.Format, error)

// OpenSource decodes path with the beep decoder matching its extension
func OpenSource(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch audio.Format(path) {
	case "wav":
		s, format, err = wav.Decode(f)
	case "mp3":
		s, format, err = mp3.Decode(f)
	case "flac":
		s, format, err = flac.Decode(f)
	case "ogg":
		s, format, err = vorbis.Decode(f)
	default:
		err = audio.ErrUnsupportedFormat
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return s, format, nil
}
