package audio

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for extensions with no decoder
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// DecodeError reports a malformed or unsupported audio file
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
