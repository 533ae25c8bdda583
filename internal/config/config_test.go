package config

import (
	"path/filepath"
	"testing"
)

// TestParseHexColor_ValidInputs verifies case handling, the optional hash
// prefix and byte ordering.
func TestParseHexColor_ValidInputs(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		wantR uint8
		wantG uint8
		wantB uint8
	}{
		{name: "FF0000 (uppercase red, no hash)", input: "FF0000", wantR: 255},
		{name: "ff0000 (lowercase red, no hash)", input: "ff0000", wantR: 255},
		{name: "#FF0000 (uppercase red, with hash)", input: "#FF0000", wantR: 255},
		{name: "Ff00fF (mixed case magenta)", input: "Ff00fF", wantR: 255, wantB: 255},
		{name: "00FF00 (green)", input: "00FF00", wantG: 255},
		{name: "#507AE0 (waveform blue)", input: "#507AE0", wantR: 0x50, wantG: 0x7a, wantB: 0xe0},
		{name: "010203 (byte order)", input: "010203", wantR: 1, wantG: 2, wantB: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, g, b, err := ParseHexColor(tc.input)
			if err != nil {
				t.Fatalf("ParseHexColor(%q) returned error: %v", tc.input, err)
			}
			if r != tc.wantR || g != tc.wantG || b != tc.wantB {
				t.Errorf("ParseHexColor(%q) = (%d, %d, %d), want (%d, %d, %d)",
					tc.input, r, g, b, tc.wantR, tc.wantG, tc.wantB)
			}
		})
	}
}

func TestParseHexColor_InvalidInputs(t *testing.T) {
	inputs := []string{
		"FFF",
		"#FFF",
		"FFFFFFF",
		"GGGGGG",
		"FF00GG",
		"",
		"#",
		"FF 000",
		"FF#000",
		"##FF0000",
		"FF0000\n",
		"-FFFFF",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if _, _, _, err := ParseHexColor(input); err == nil {
				t.Errorf("ParseHexColor(%q) expected error, got nil", input)
			}
		})
	}
}

func TestRuntimeConfig_GetWaveColor(t *testing.T) {
	testCases := []struct {
		name   string
		config *RuntimeConfig
		wantR  uint8
		wantG  uint8
		wantB  uint8
	}{
		{name: "nil config", config: nil, wantR: WaveColorR, wantG: WaveColorG, wantB: WaveColorB},
		{name: "empty override", config: &RuntimeConfig{}, wantR: WaveColorR, wantG: WaveColorG, wantB: WaveColorB},
		{name: "invalid override", config: &RuntimeConfig{WaveColor: "nope"}, wantR: WaveColorR, wantG: WaveColorG, wantB: WaveColorB},
		{name: "custom", config: &RuntimeConfig{WaveColor: "#FF8000"}, wantR: 255, wantG: 128, wantB: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, g, b := tc.config.GetWaveColor()
			if r != tc.wantR || g != tc.wantG || b != tc.wantB {
				t.Errorf("GetWaveColor() = (%d, %d, %d), want (%d, %d, %d)",
					r, g, b, tc.wantR, tc.wantG, tc.wantB)
			}
		})
	}
}

func TestRuntimeConfig_DecimationFactor(t *testing.T) {
	testCases := []struct {
		config *RuntimeConfig
		want   int
	}{
		{nil, DefaultDecimation},
		{&RuntimeConfig{}, DefaultDecimation},
		{&RuntimeConfig{Decimation: -3}, DefaultDecimation},
		{&RuntimeConfig{Decimation: 64}, 64},
	}

	for _, tc := range testCases {
		if got := tc.config.DecimationFactor(); got != tc.want {
			t.Errorf("DecimationFactor() = %d, want %d", got, tc.want)
		}
	}
}

func TestRuntimeConfig_CachePathOverride(t *testing.T) {
	dir := t.TempDir()
	c := &RuntimeConfig{CacheDir: dir}

	got, err := c.CachePath()
	if err != nil {
		t.Fatalf("CachePath() returned error: %v", err)
	}
	if want := filepath.Join(dir, CacheFileName); got != want {
		t.Errorf("CachePath() = %q, want %q", got, want)
	}
}
