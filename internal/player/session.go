package player

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"go.uber.org/zap"

	"github.com/linuxmatters/tundra/internal/config"
)

// State is the worker-side transport state of a session
type State int32

const (
	Idle State = iota
	Playing
	Paused
	Stopped
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event identifies a status message from a session worker
type Event int

const (
	// PlayingStored acknowledges a transport command
	PlayingStored Event = iota
	// SinkEmpty reports that the track played to its end
	SinkEmpty
)

func (e Event) String() string {
	if e == SinkEmpty {
		return "sink-empty"
	}
	return "playing-stored"
}

// Status is one message on a session's status stream
type Status struct {
	Gen   uint64
	Event Event
	State State
}

// Progress describes the playback position in source samples
type Progress struct {
	Total      int
	Position   int
	SampleRate beep.SampleRate
}

// Fraction returns the position as 0..1
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return math.Min(1, float64(p.Position)/float64(p.Total))
}

// Duration returns the length of the track
func (p Progress) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return p.SampleRate.D(p.Total)
}

// Elapsed returns the time already played
func (p Progress) Elapsed() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return p.SampleRate.D(p.Position)
}

// Remaining returns the time left to play
func (p Progress) Remaining() time.Duration {
	return max(0, p.Duration()-p.Elapsed())
}

type commandKind int

const (
	cmdPlay commandKind = iota
	cmdPause
	cmdStop
	cmdSeek
)

type command struct {
	kind     commandKind
	fraction float64
}

// Session is one file bound to one background worker. The worker owns the
// output queue; the caller talks to it through the command channel.
type Session struct {
	gen  uint64
	path string

	cmds    chan command
	ended   chan uint64
	done    chan struct{}
	playing atomic.Bool
	state   atomic.Int32

	statusMu     sync.Mutex
	status       chan Status
	statusClosed bool

	// srcMu guards src, format and total against Progress readers
	srcMu  sync.Mutex
	src    beep.StreamSeekCloser
	format beep.Format
	total  int
	offset int

	// worker-owned
	dev   Device
	open  SourceOpener
	ctrl  *beep.Ctrl
	token uint64
	log   *zap.Logger
}

func newSession(gen uint64, path string, dev Device, open SourceOpener, src beep.StreamSeekCloser, format beep.Format, log *zap.Logger) *Session {
	s := &Session{
		gen:    gen,
		path:   path,
		cmds:   make(chan command, config.CommandQueueSize),
		ended:  make(chan uint64, 4),
		done:   make(chan struct{}),
		status: make(chan Status, config.StatusBufferSize),
		src:    src,
		format: format,
		total:  src.Len(),
		dev:    dev,
		open:   open,
		log:    log.With(zap.Uint64("session", gen), zap.String("path", path)),
	}
	s.state.Store(int32(Idle))
	return s
}

// Gen returns the session generation; later sessions have larger values
func (s *Session) Gen() uint64 { return s.gen }

// Path returns the file being played
func (s *Session) Path() string { return s.path }

// Status returns the event stream. Receive one value per turn; the
// channel is closed once the worker has exited.
func (s *Session) Status() <-chan Status { return s.status }

// Done is closed when the worker has released the device
func (s *Session) Done() <-chan struct{} { return s.done }

// IsPlaying reads the shared playing flag
func (s *Session) IsPlaying() bool { return s.playing.Load() }

// State returns the last state the worker recorded
func (s *Session) State() State { return State(s.state.Load()) }

// Progress samples the current playback position
func (s *Session) Progress() Progress {
	s.srcMu.Lock()
	defer s.srcMu.Unlock()

	p := Progress{Total: s.total, Position: s.offset, SampleRate: s.format.SampleRate}
	if s.src != nil {
		s.dev.Lock()
		p.Position = s.src.Position()
		s.dev.Unlock()
	}
	return p
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}

func (s *Session) emit(ev Event) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if s.statusClosed {
		return
	}
	select {
	case s.status <- Status{Gen: s.gen, Event: ev, State: s.State()}:
	default:
		s.log.Debug("status dropped, reader behind", zap.Stringer("event", ev))
	}
}

func (s *Session) closeStatus() {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if !s.statusClosed {
		s.statusClosed = true
		close(s.status)
	}
}

// run is the worker loop. It handles commands strictly in order until the
// command channel is closed.
func (s *Session) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(s.done)
	defer s.closeStatus()

	s.log.Debug("worker started")
	for {
		select {
		case cmd, ok := <-s.cmds:
			if !ok {
				s.release()
				s.setState(Closed)
				s.log.Debug("worker closed")
				return
			}
			s.handle(cmd)
		case token := <-s.ended:
			// Stale once the queue has been cleared or restarted
			if token == s.token && s.State() == Playing {
				s.finish()
			}
		}
	}
}

func (s *Session) handle(cmd command) {
	switch cmd.kind {
	case cmdPlay:
		s.play()
	case cmdPause:
		s.pause()
	case cmdStop:
		s.stop()
	case cmdSeek:
		s.seek(cmd.fraction)
	}
	s.emit(PlayingStored)
}

func (s *Session) play() {
	switch s.State() {
	case Playing:
		return
	case Paused:
		s.dev.Lock()
		s.ctrl.Paused = false
		s.dev.Unlock()
	default:
		if err := s.ensureSource(0); err != nil {
			s.log.Debug("reopen failed", zap.Error(err))
			return
		}
		s.enqueue()
	}
	s.playing.Store(true)
	s.setState(Playing)
}

func (s *Session) pause() {
	if s.State() != Playing {
		return
	}
	s.dev.Lock()
	s.ctrl.Paused = true
	s.dev.Unlock()
	s.playing.Store(false)
	s.setState(Paused)
}

func (s *Session) stop() {
	s.dev.Clear()
	s.closeSource(0)
	s.playing.Store(false)
	s.setState(Stopped)
}

// seek restarts playback from fraction of the track. The queue is
// cleared and the source reopened at the new offset.
func (s *Session) seek(fraction float64) {
	s.dev.Clear()
	s.closeSource(0)

	if err := s.ensureSource(fraction); err != nil {
		s.log.Debug("seek failed", zap.Error(err), zap.Float64("fraction", fraction))
		s.playing.Store(false)
		s.setState(Stopped)
		return
	}
	s.enqueue()
	s.playing.Store(true)
	s.setState(Playing)
}

// finish handles the end-of-track sentinel
func (s *Session) finish() {
	s.closeSource(s.total)
	s.playing.Store(false)
	s.setState(Stopped)
	s.emit(SinkEmpty)
}

// ensureSource opens the file if needed and positions it at fraction
func (s *Session) ensureSource(fraction float64) error {
	s.srcMu.Lock()
	defer s.srcMu.Unlock()

	if s.src == nil {
		src, format, err := s.open(s.path)
		if err != nil {
			return err
		}
		s.src, s.format, s.total = src, format, src.Len()
	}

	offset := SeekOffset(s.total, fraction)
	if offset != s.src.Position() {
		if err := s.src.Seek(offset); err != nil {
			return err
		}
	}
	s.offset = offset
	return nil
}

// enqueue queues the source followed by the end-of-track sentinel
func (s *Session) enqueue() {
	s.srcMu.Lock()
	s.ctrl = &beep.Ctrl{Streamer: s.src}
	format := s.format
	s.srcMu.Unlock()

	var stream beep.Streamer = s.ctrl
	if format.SampleRate != s.dev.SampleRate() {
		stream = beep.Resample(config.ResampleQuality, format.SampleRate, s.dev.SampleRate(), s.ctrl)
	}

	s.token++
	token := s.token
	s.dev.Play(beep.Seq(stream, beep.Callback(func() {
		// Runs on the device goroutine; hand off without blocking
		s.playing.Store(false)
		select {
		case s.ended <- token:
		default:
		}
	})))
}

func (s *Session) closeSource(position int) {
	s.srcMu.Lock()
	defer s.srcMu.Unlock()
	if s.src != nil {
		if err := s.src.Close(); err != nil {
			s.log.Debug("close source", zap.Error(err))
		}
		s.src = nil
	}
	s.offset = position
	s.ctrl = nil
}

// release gives up the device and the source on shutdown
func (s *Session) release() {
	s.dev.Clear()
	s.closeSource(0)
	s.playing.Store(false)
}

// SeekOffset converts a fraction of total samples to a sample offset,
// clamping fraction to 0..1
func SeekOffset(total int, fraction float64) int {
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return int(math.Round(fraction * float64(total)))
}
