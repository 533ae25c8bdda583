package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RuntimeConfig holds settings that can be overridden from the command line.
// Zero values fall back to the package defaults.
type RuntimeConfig struct {
	CacheDir   string
	Decimation int
	WaveColor  string
}

// CachePath returns the location of the persisted directory cache.
// Without an override it lives under the per-user cache directory.
func (c *RuntimeConfig) CachePath() (string, error) {
	if c != nil && c.CacheDir != "" {
		return filepath.Join(c.CacheDir, CacheFileName), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache directory: %w", err)
	}
	return filepath.Join(base, CacheDirName, CacheFileName), nil
}

// DecimationFactor returns the waveform decimation factor, never below 1
func (c *RuntimeConfig) DecimationFactor() int {
	if c == nil || c.Decimation < 1 {
		return DefaultDecimation
	}
	return c.Decimation
}

// GetWaveColor returns the waveform stroke colour, falling back to the
// default when no valid override is set
func (c *RuntimeConfig) GetWaveColor() (uint8, uint8, uint8) {
	if c == nil || c.WaveColor == "" {
		return WaveColorR, WaveColorG, WaveColorB
	}
	r, g, b, err := ParseHexColor(c.WaveColor)
	if err != nil {
		return WaveColorR, WaveColorG, WaveColorB
	}
	return r, g, b
}

// ParseHexColor parses "RRGGBB" or "#RRGGBB" into its components
func ParseHexColor(s string) (uint8, uint8, uint8, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
