// Package player plays one audio file at a time on a background worker
// and reports transport changes on a status stream.
package player

import (
	"sync"

	"go.uber.org/zap"
)

// Engine owns the active playback session
type Engine struct {
	mu     sync.Mutex
	gen    uint64
	active *Session

	device func() (Device, error)
	open   SourceOpener
	log    *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithDevice plays through dev instead of the system speaker
func WithDevice(dev Device) Option {
	return func(e *Engine) {
		e.device = func() (Device, error) { return dev, nil }
	}
}

// WithDeviceFunc resolves the output device on each LoadAndPlay
func WithDeviceFunc(fn func() (Device, error)) Option {
	return func(e *Engine) {
		e.device = fn
	}
}

// WithSourceOpener replaces the file decoder
func WithSourceOpener(open SourceOpener) Option {
	return func(e *Engine) {
		e.open = open
	}
}

// WithLogger sets the engine logger
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine returns an engine with no active session
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		device: DefaultDevice,
		open:   OpenSource,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadAndPlay decodes path and starts playing it in a new session. The
// previous session is shut down and its worker awaited before the new one
// queues audio. On error the previous session is left untouched.
func (e *Engine) LoadAndPlay(path string) (*Session, error) {
	dev, err := e.device()
	if err != nil {
		return nil, &PlaybackError{Kind: KindDevice, Path: path, Err: err}
	}
	src, format, err := e.open(path)
	if err != nil {
		return nil, &PlaybackError{Kind: KindDecode, Path: path, Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if old := e.active; old != nil {
		close(old.cmds)
		<-old.done
		e.log.Debug("session replaced", zap.Uint64("old", old.gen), zap.String("path", old.path))
	}

	e.gen++
	s := newSession(e.gen, path, dev, e.open, src, format, e.log)
	s.cmds <- command{kind: cmdPlay}
	s.playing.Store(true)
	e.active = s
	go s.run()

	e.log.Info("playing",
		zap.String("path", path),
		zap.Int("samples", s.total),
		zap.Duration("duration", format.SampleRate.D(s.total)),
	)
	return s, nil
}

// Play resumes the active session, restarting it if stopped
func (e *Engine) Play() error {
	return e.send(command{kind: cmdPlay})
}

// Pause pauses the active session
func (e *Engine) Pause() error {
	return e.send(command{kind: cmdPause})
}

// Stop stops the active session; a later Play starts from the beginning
func (e *Engine) Stop() error {
	return e.send(command{kind: cmdStop})
}

// Seek restarts the active session at fraction (clamped to 0..1) of the
// track
func (e *Engine) Seek(fraction float64) error {
	return e.send(command{kind: cmdSeek, fraction: fraction})
}

// Toggle pauses a playing session and resumes any other
func (e *Engine) Toggle() error {
	if e.IsPlaying() {
		return e.Pause()
	}
	return e.Play()
}

// IsPlaying reports the active session's playing flag
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active != nil && e.active.IsPlaying()
}

// Active returns the current session, or nil
func (e *Engine) Active() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Close shuts down the active session and waits for its worker
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return
	}
	close(e.active.cmds)
	<-e.active.done
	e.active = nil
}

func (e *Engine) send(cmd command) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return ErrNoActiveSession
	}
	select {
	case e.active.cmds <- cmd:
		return nil
	default:
		return ErrCommandQueueFull
	}
}
