// Package dircache lists directories through the audio filter and keeps
// the results in a persisted, write-through cache.
package dircache

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/linuxmatters/tundra/internal/config"
)

// IsHidden reports whether name is a dot-file or dot-directory
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// IsAudio reports whether name carries one of the supported audio
// extensions, ignoring case
func IsAudio(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext != "" && slices.Contains(config.AudioExtensions, ext)
}

// Accept is the listing filter: visible directories and anything with an
// audio extension
func Accept(name string, isDir bool) bool {
	return (isDir && !IsHidden(name)) || IsAudio(name)
}
