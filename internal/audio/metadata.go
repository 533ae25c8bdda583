package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// TrackInfo holds the display metadata of an audio file
type TrackInfo struct {
	Title  string
	Artist string
	Album  string
	Format string
}

// ReadTrackInfo reads embedded tags from filename. Files without tags get
// their base name as the title.
func ReadTrackInfo(filename string) (*TrackInfo, error) {
	info := &TrackInfo{
		Title:  strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
		Format: Format(filename),
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return info, nil
	}
	if err != nil {
		return info, fmt.Errorf("failed to read tags: %w", err)
	}

	if t := strings.TrimSpace(m.Title()); t != "" {
		info.Title = t
	}
	info.Artist = strings.TrimSpace(m.Artist())
	info.Album = strings.TrimSpace(m.Album())
	return info, nil
}

// Label formats the track for a status line
func (t *TrackInfo) Label() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}
