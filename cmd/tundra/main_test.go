package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFinishFlushesErrorToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tundra.log")
	log, err := newLogger(path)
	if err != nil {
		t.Fatalf("newLogger returned error: %v", err)
	}

	if code := finish(log, errors.New("no audio device")); code != 1 {
		t.Errorf("finish() = %d, want 1", code)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	for _, want := range []string{`"msg":"exiting"`, "no audio device"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log %q missing %q", data, want)
		}
	}
}

func TestFinishSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tundra.log")
	log, err := newLogger(path)
	if err != nil {
		t.Fatalf("newLogger returned error: %v", err)
	}

	if code := finish(log, nil); code != 0 {
		t.Errorf("finish() = %d, want 0", code)
	}
}

func TestNewLoggerWithoutPathDiscards(t *testing.T) {
	log, err := newLogger("")
	if err != nil {
		t.Fatalf("newLogger returned error: %v", err)
	}
	if code := finish(log, errors.New("boom")); code != 1 {
		t.Errorf("finish() = %d, want 1", code)
	}
}
