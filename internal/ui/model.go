// Package ui is the terminal controller: it routes key events to the
// player, the directory cache and the search coordinator, and applies
// their asynchronous results.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/linuxmatters/tundra/internal/audio"
	"github.com/linuxmatters/tundra/internal/config"
	"github.com/linuxmatters/tundra/internal/dircache"
	"github.com/linuxmatters/tundra/internal/player"
	"github.com/linuxmatters/tundra/internal/search"
	"github.com/linuxmatters/tundra/internal/waveform"
)

// Player is the transport surface the controller drives
type Player interface {
	LoadAndPlay(path string) (*player.Session, error)
	Play() error
	Pause() error
	Stop() error
	Seek(fraction float64) error
	Toggle() error
	IsPlaying() bool
}

// Options wire the controller to its collaborators
type Options struct {
	Dir    string
	Player Player
	Cache  *dircache.Cache
	Search *search.Coordinator
	Config *config.RuntimeConfig
	Logger *zap.Logger
}

// Model is the bubbletea model for the browser
type Model struct {
	player Player
	cache  *dircache.Cache
	search *search.Coordinator
	cfg    *config.RuntimeConfig
	log    *zap.Logger

	dir      string
	entries  []string
	filtered bool
	cursor   int
	top      int

	searching bool
	input     textinput.Model

	session      *player.Session
	nowPlaying   string
	track        *audio.TrackInfo
	wave         *waveform.View
	seeking      bool
	seekFraction float64

	keys      keyMap
	help      help.Model
	waveStyle lipgloss.Style
	bar       progress.Model
	status    string
	errored   bool
	width     int
	height    int
	quitting  bool
}

// New returns a controller rooted at opts.Dir
func New(opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "search"
	input.Prompt = "/ "
	input.CharLimit = 256

	bar := progress.New(
		progress.WithGradient(string(glacierBlue), string(iceCyan)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	r, g, b := opts.Config.GetWaveColor()

	return &Model{
		player:    opts.Player,
		cache:     opts.Cache,
		search:    opts.Search,
		cfg:       opts.Config,
		log:       log,
		dir:       opts.Dir,
		input:     input,
		wave:      waveform.NewView(),
		keys:      defaultKeyMap(),
		help:      help.New(),
		waveStyle: waveStyle.Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))),
		bar:       bar,
		width:     80,
		height:    24,
	}
}

// Init lists the starting directory and starts the position ticker
func (m *Model) Init() tea.Cmd {
	dir := m.dir
	return tea.Batch(
		func() tea.Msg { return ChangeDirectory{Dir: dir} },
		tickProgress(),
	)
}

// Dir returns the directory being browsed
func (m *Model) Dir() string { return m.dir }

// Entries returns the visible list
func (m *Model) Entries() []string { return m.entries }

// Filtered reports whether the visible list is a search subset
func (m *Model) Filtered() bool { return m.filtered }

// Waveform returns the waveform view state
func (m *Model) Waveform() *waveform.View { return m.wave }

// StatusLine returns the last status or error message
func (m *Model) StatusLine() string { return m.status }

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(msg.Width-30, 60))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ChangeDirectory:
		return m, m.changeDirectory(msg.Dir)

	case InsertDircache:
		return m, m.insertDircache(msg)

	case InvalidateDircache:
		if err := m.cache.Invalidate(); err != nil {
			m.setError(err)
		} else {
			m.setStatus("directory cache cleared")
		}
		return m, m.changeDirectory(m.dir)

	case Search:
		return m, m.startSearch(msg.Query)

	case SearchCompleted:
		m.applySearch(msg.Result)
		return m, nil

	case SelectedFile:
		return m, m.selectFile(msg.Path)

	case PlaybackFailed:
		m.setError(msg.Err)
		return m, nil

	case WaveformLoaded:
		if msg.Path != m.nowPlaying {
			return m, nil
		}
		if msg.Err != nil {
			m.wave.SetBuffer(nil)
			m.setError(msg.Err)
			return m, nil
		}
		m.wave.SetBuffer(msg.Buffer)
		m.track = msg.Track
		return m, nil

	case PlayerStatus:
		// Events from a replaced session are dropped and not re-awaited
		if msg.Session != m.session {
			return m, nil
		}
		if msg.Status.Event == player.SinkEmpty {
			m.setStatus("finished")
		}
		return m, waitForStatus(msg.Session)

	case TogglePlaying:
		m.transport(m.player.Toggle())
		return m, nil

	case StopPlayback:
		m.transport(m.player.Stop())
		return m, nil

	case Seek:
		m.seeking = true
		m.seekFraction = max(0, min(1, msg.Fraction))
		return m, nil

	case SeekCommit:
		if !m.seeking {
			return m, nil
		}
		m.seeking = false
		m.transport(m.player.Seek(m.seekFraction))
		return m, nil

	case progressTick:
		if m.quitting {
			return m, nil
		}
		return m, tickProgress()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.input.Blur()
			m.input.SetValue("")
			return m, m.startSearch("")
		case "enter":
			m.searching = false
			m.input.Blur()
			return m, nil
		case "up":
			m.moveCursor(-1)
			return m, nil
		case "down":
			m.moveCursor(1)
			return m, nil
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			return m, tea.Batch(cmd, m.startSearch(m.input.Value()))
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(m.entries) {
			return m.Update(SelectedFile{Path: m.entries[m.cursor]})
		}
	case key.Matches(msg, m.keys.Parent):
		return m.Update(ChangeDirectory{Dir: filepath.Dir(m.dir)})
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Leave):
		if m.filtered || m.input.Value() != "" {
			m.input.SetValue("")
			return m, m.startSearch("")
		}
	case key.Matches(msg, m.keys.Toggle):
		return m.Update(TogglePlaying{})
	case key.Matches(msg, m.keys.Stop):
		return m.Update(StopPlayback{})
	case key.Matches(msg, m.keys.SeekBack):
		return m.seekTo(m.position() - config.SeekStep)
	case key.Matches(msg, m.keys.SeekForward):
		return m.seekTo(m.position() + config.SeekStep)
	case key.Matches(msg, m.keys.SeekTo):
		return m.seekTo(float64(msg.Runes[0]-'0') / 10)
	case key.Matches(msg, m.keys.ZoomIn):
		m.wave.ZoomIn()
	case key.Matches(msg, m.keys.ZoomOut):
		m.wave.ZoomOut()
	case key.Matches(msg, m.keys.ScrollLeft):
		m.wave.ScrollBy(-config.ScrollStep)
	case key.Matches(msg, m.keys.ScrollRight):
		m.wave.ScrollBy(config.ScrollStep)
	case key.Matches(msg, m.keys.Invalidate):
		return m.Update(InvalidateDircache{})
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) seekTo(fraction float64) (tea.Model, tea.Cmd) {
	m.Update(Seek{Fraction: fraction})
	return m.Update(SeekCommit{})
}

// position returns the current playback fraction
func (m *Model) position() float64 {
	if m.session == nil {
		return 0
	}
	return m.session.Progress().Fraction()
}

// changeDirectory shows dir from the cache, or walks it in the background
// and caches the result
func (m *Model) changeDirectory(dir string) tea.Cmd {
	dir = dircache.Canonical(dir)
	m.dir = dir
	m.search.Cancel()
	m.searching = false
	m.input.Blur()
	m.input.SetValue("")

	if children, ok := m.cache.Get(dir); ok {
		m.setEntries(children, false)
		return nil
	}

	m.setEntries(nil, false)
	log := m.log
	return func() tea.Msg {
		children, err := dircache.ListDir(context.Background(), dir, log)
		return InsertDircache{Dir: dir, Children: children, Err: err}
	}
}

func (m *Model) insertDircache(msg InsertDircache) tea.Cmd {
	if msg.Err != nil {
		m.setError(fmt.Errorf("failed to list %s: %w", msg.Dir, msg.Err))
		return nil
	}
	if err := m.cache.Insert(msg.Dir, msg.Children); err != nil {
		m.log.Warn("dircache insert failed", zap.Error(err))
	}
	if msg.Dir == m.dir && !m.filtered {
		m.setEntries(msg.Children, false)
	}
	return nil
}

// startSearch hands query to the coordinator. Immediate results are
// applied before returning.
func (m *Model) startSearch(query string) tea.Cmd {
	p := m.search.Search(query, m.dir)
	select {
	case <-p.Done():
		m.applySearch(p.Wait())
		return nil
	default:
	}
	return func() tea.Msg {
		return SearchCompleted{Result: p.Wait()}
	}
}

func (m *Model) applySearch(r search.Result) {
	if r.Aborted() || !m.search.IsCurrent(r.Gen) || r.Dir != m.dir {
		return
	}
	if r.Err != nil {
		m.setError(r.Err)
		return
	}
	m.setEntries(r.Paths, r.Filtered)
}

func (m *Model) setEntries(entries []string, filtered bool) {
	m.entries = entries
	m.filtered = filtered
	m.cursor = 0
	m.top = 0
}

func (m *Model) moveCursor(delta int) {
	if len(m.entries) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.entries)-1, m.cursor+delta))
}

// selectFile opens directories and plays files
func (m *Model) selectFile(path string) tea.Cmd {
	fi, err := os.Stat(path)
	if err != nil {
		return failed(path, err)
	}
	if fi.IsDir() {
		return m.changeDirectory(path)
	}

	s, err := m.player.LoadAndPlay(path)
	if err != nil {
		m.log.Warn("playback failed", zap.String("path", path), zap.Error(err))
		return failed(path, err)
	}

	m.session = s
	m.nowPlaying = path
	m.track = nil
	m.seeking = false
	m.wave.SetBuffer(nil)
	m.setStatus("")
	return tea.Batch(waitForStatus(s), loadWaveform(path, m.cfg.DecimationFactor()))
}

func (m *Model) transport(err error) {
	if err == nil || errors.Is(err, player.ErrNoActiveSession) {
		return
	}
	m.setError(err)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.errored = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.errored = true
}

func failed(path string, err error) tea.Cmd {
	return func() tea.Msg {
		return PlaybackFailed{Path: path, Err: err}
	}
}

// waitForStatus receives exactly one event; the handler re-issues it
func waitForStatus(s *player.Session) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-s.Status()
		if !ok {
			return nil
		}
		return PlayerStatus{Status: st, Session: s}
	}
}

func loadWaveform(path string, factor int) tea.Cmd {
	return func() tea.Msg {
		buf, err := waveform.Load(path, factor, nil)
		if err != nil {
			return WaveformLoaded{Path: path, Err: err}
		}
		track, _ := audio.ReadTrackInfo(path)
		return WaveformLoaded{Path: path, Buffer: buf, Track: track}
	}
}

func tickProgress() tea.Cmd {
	return tea.Tick(config.ProgressInterval, func(time.Time) tea.Msg {
		return progressTick{}
	})
}
