package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/linuxmatters/tundra/internal/cli"
	"github.com/linuxmatters/tundra/internal/config"
	"github.com/linuxmatters/tundra/internal/dircache"
	"github.com/linuxmatters/tundra/internal/player"
	"github.com/linuxmatters/tundra/internal/waveform"
)

const (
	chromeRows   = 12 // title, dir, search, now playing, progress, status, help
	waveRows     = 6
	minListRows  = 3
	waveMinCols  = 10
	listIndent   = "  "
	cursorMarker = "▸ "
)

// View renders the browser, player and waveform panels
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(config.AppTitle))
	b.WriteString("  ")
	b.WriteString(dirStyle.Render(m.dir))
	b.WriteString("\n")

	if m.searching || m.input.Value() != "" {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderList())
	b.WriteString("\n")

	b.WriteString(m.renderPlayer())
	b.WriteString("\n")

	if m.status != "" {
		if m.errored {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(mutedStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) listRows() int {
	rows := m.height - chromeRows
	if m.nowPlaying != "" {
		rows -= waveRows + 2
	}
	return max(minListRows, rows)
}

func (m *Model) renderList() string {
	if m.entries == nil {
		return mutedStyle.Render(listIndent+"loading…") + "\n"
	}
	if len(m.entries) == 0 {
		if m.filtered {
			return mutedStyle.Render(listIndent+"no matches") + "\n"
		}
		return mutedStyle.Render(listIndent+"no audio files") + "\n"
	}

	rows := m.listRows()
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+rows {
		m.top = m.cursor - rows + 1
	}
	end := min(len(m.entries), m.top+rows)

	var b strings.Builder
	for i := m.top; i < end; i++ {
		line := m.entryLabel(m.entries[i])
		switch {
		case i == m.cursor:
			b.WriteString(selectedStyle.Render(cursorMarker + line))
		case !dircache.IsAudio(m.entries[i]):
			b.WriteString(listIndent + folderStyle.Render(line))
		default:
			b.WriteString(listIndent + line)
		}
		b.WriteString("\n")
	}
	if len(m.entries) > rows {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%s%d/%d", listIndent, m.cursor+1, len(m.entries))))
		b.WriteString("\n")
	}
	return b.String()
}

// entryLabel shows paths relative to the browsed directory. Only
// directories and audio files are listed, so anything that is not audio
// gets a trailing slash.
func (m *Model) entryLabel(path string) string {
	label, err := filepath.Rel(m.dir, path)
	if err != nil || strings.HasPrefix(label, "..") {
		label = filepath.Base(path)
	}
	if !dircache.IsAudio(path) {
		label += string(filepath.Separator)
	}
	return label
}

func (m *Model) renderPlayer() string {
	if m.nowPlaying == "" || m.session == nil {
		return mutedStyle.Render("nothing playing")
	}

	title := filepath.Base(m.nowPlaying)
	if m.track != nil {
		title = m.track.Label()
	}

	var b strings.Builder
	b.WriteString(stateIcon(m.session.State()))
	b.WriteString(" ")
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	cols := max(waveMinCols, m.width-4)
	if m.wave.Buffer() != nil {
		lines := waveform.Render(m.wave, cols, waveRows)
		b.WriteString(m.waveStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("zoom %.1fx  scroll %d%%", m.wave.Zoom(), int(m.wave.Scroll()*100))))
		b.WriteString("\n")
	}

	p := m.session.Progress()
	fraction := p.Fraction()
	elapsed := p.Elapsed()
	if m.seeking {
		fraction = m.seekFraction
		elapsed = time.Duration(float64(p.Duration()) * fraction)
	}
	b.WriteString(m.bar.ViewAs(fraction))
	b.WriteString("  ")
	b.WriteString(fmt.Sprintf("%s / %s", cli.FormatDuration(elapsed), cli.FormatDuration(p.Duration())))
	return panelStyle.Render(b.String())
}

func stateIcon(s player.State) string {
	switch s {
	case player.Playing:
		return "▶"
	case player.Paused:
		return "⏸"
	case player.Stopped:
		return "■"
	default:
		return "·"
	}
}
