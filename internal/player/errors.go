package player

import (
	"errors"
	"fmt"
)

// ErrNoActiveSession is returned by transport commands before any file
// has been loaded
var ErrNoActiveSession = errors.New("no active playback session")

// ErrCommandQueueFull is returned when the worker has fallen too far behind
var ErrCommandQueueFull = errors.New("playback command queue full")

// ErrorKind classifies a PlaybackError
type ErrorKind int

const (
	// KindDecode means the file could not be opened or decoded
	KindDecode ErrorKind = iota
	// KindDevice means no usable audio output is available
	KindDevice
)

func (k ErrorKind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindDevice:
		return "device"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// PlaybackError is a recoverable failure to start playback. Any previous
// session keeps running.
type PlaybackError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *PlaybackError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("playback %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("playback %s error for %s: %v", e.Kind, e.Path, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}
