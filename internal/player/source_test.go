package player

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/tundra/internal/audio"
	"github.com/linuxmatters/tundra/internal/audio/audiotest"
)

func TestOpenSourceWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	audiotest.WriteWAV(t, path, 22050, 16, 2, audiotest.Constant(4410, 2, 1000))

	s, format, err := OpenSource(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, beep.SampleRate(22050), format.SampleRate)
	assert.Equal(t, 2, format.NumChannels)
	assert.Equal(t, 4410, s.Len())

	require.NoError(t, s.Seek(2205))
	assert.Equal(t, 2205, s.Position())
}

func TestOpenSourceUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readme.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	_, _, err := OpenSource(path)
	assert.ErrorIs(t, err, audio.ErrUnsupportedFormat)
}

func TestLoadAndPlayRealWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	audiotest.WriteWAV(t, path, 44100, 16, 1, audiotest.Constant(4410, 1, 500))

	dev := newFakeDevice()
	e := NewEngine(WithDevice(dev))
	t.Cleanup(e.Close)

	s, err := e.LoadAndPlay(path)
	require.NoError(t, err)
	awaitEvent(t, s, PlayingStored)

	require.NoError(t, e.Seek(0.5))
	awaitEvent(t, s, PlayingStored)
	assert.InDelta(t, 2205, s.Progress().Position, 1)

	dev.drain()
	awaitEvent(t, s, SinkEmpty)
}

func TestLoadAndPlayCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.flac")
	require.NoError(t, os.WriteFile(path, []byte("definitely not flac"), 0o644))

	e := NewEngine(WithDevice(newFakeDevice()))
	_, err := e.LoadAndPlay(path)

	var perr *PlaybackError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindDecode, perr.Kind)
}
