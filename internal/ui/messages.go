package ui

import (
	"github.com/linuxmatters/tundra/internal/audio"
	"github.com/linuxmatters/tundra/internal/player"
	"github.com/linuxmatters/tundra/internal/search"
	"github.com/linuxmatters/tundra/internal/waveform"
)

// SelectedFile opens a directory or starts playing a file
type SelectedFile struct {
	Path string
}

// ChangeDirectory shows the listing of Dir, walking it when uncached
type ChangeDirectory struct {
	Dir string
}

// Search filters the current directory by Query
type Search struct {
	Query string
}

// SearchCompleted carries the outcome of a search
type SearchCompleted struct {
	Result search.Result
}

// InsertDircache stores a fresh listing in the directory cache
type InsertDircache struct {
	Dir      string
	Children []string
	Err      error
}

// InvalidateDircache clears the directory cache
type InvalidateDircache struct{}

// Seek previews a new playback position without applying it
type Seek struct {
	Fraction float64
}

// SeekCommit applies the previewed position
type SeekCommit struct{}

// PlayerStatus is one event from a session's status stream
type PlayerStatus struct {
	Status  player.Status
	Session *player.Session
}

// TogglePlaying pauses or resumes playback
type TogglePlaying struct{}

// StopPlayback stops playback
type StopPlayback struct{}

// WaveformLoaded delivers the envelope and tags of the selected file
type WaveformLoaded struct {
	Path   string
	Buffer *waveform.Buffer
	Track  *audio.TrackInfo
	Err    error
}

// PlaybackFailed reports a file that could not be played
type PlaybackFailed struct {
	Path string
	Err  error
}

// progressTick refreshes the position display
type progressTick struct{}
