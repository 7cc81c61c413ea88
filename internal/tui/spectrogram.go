// SPDX-License-Identifier: MIT

// Package tui renders the live spectrogram and the device browser in the
// terminal. The bubbletea update loop owns the pipeline: draining the ring
// buffer and every reconfiguration happen there, one message at a time.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"spectra/internal/analysis"
	"spectra/internal/colormap"
	"spectra/internal/freqscale"
	"spectra/internal/log"
	"spectra/internal/pipeline"
	"spectra/internal/ringbuffer"
	"spectra/pkg/bitint"
)

var logger = log.With("tui")

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))
)

// Header and help line.
const chromeLines = 2

type tickMsg time.Time

// Model is the live spectrogram screen.
type Model struct {
	pipe     *pipeline.Pipeline
	ring     *ringbuffer.RingBuffer
	source   string
	interval time.Duration

	keys  keyMap
	help  help.Model
	cells cellCache

	width, height int
	ready         bool
	paused        bool
	status        string
	err           error
}

// NewModel returns a screen that drains ring into pipe every interval.
// source is shown in the header.
func NewModel(pipe *pipeline.Pipeline, ring *ringbuffer.RingBuffer, source string, interval time.Duration) Model {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	return Model{
		pipe:     pipe,
		ring:     ring,
		source:   source,
		interval: interval,
		keys:     defaultKeyMap(),
		help:     help.New(),
		cells:    make(cellCache),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		rows := 2 * max(msg.Height-chromeLines, 1)
		if err := m.pipe.Resize(max(msg.Width, 1), rows); err != nil {
			m.err = err
			return m, nil
		}
		m.ready = true

	case tickMsg:
		if !m.paused {
			if _, err := m.pipe.Drain(m.ring); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.pipe.Settings()
	var err error

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if !m.paused {
			// Resume from the newest audio instead of replaying the backlog.
			pos := m.ring.WritePosition()
			m.pipe.Seek(pos - min(pos, uint64(s.FFTSize)))
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.pipe.Image().Clear()
		m.status = "cleared"
		return m, nil
	case key.Matches(msg, m.keys.Scale):
		err = s.SetScale(next(freqscale.Scales(), s.Scale))
	case key.Matches(msg, m.keys.Window):
		err = s.SetWindow(next(analysis.WindowFuncs(), s.Window))
	case key.Matches(msg, m.keys.Theme):
		err = s.SetTheme(next(colormap.Themes(), s.Theme))
	case key.Matches(msg, m.keys.FFTUp):
		err = s.SetFFTSize(1 << (bitint.Log2(s.FFTSize) + 1))
	case key.Matches(msg, m.keys.FFTDown):
		err = s.SetFFTSize(1 << (bitint.Log2(s.FFTSize) - 1))
	default:
		return m, nil
	}

	if err == nil {
		err = s.FitsRing(m.ring.Capacity())
	}
	if err == nil {
		err = m.pipe.Reconfigure(s)
	}
	if err != nil {
		logger.Warnf("rejected setting change: %v", err)
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	return m, nil
}

// next returns the element after cur in list, wrapping around.
func next[T comparable](list []T, cur T) T {
	i := slices.Index(list, cur)
	return list[(i+1)%len(list)]
}

func (m Model) header() string {
	s := m.pipe.Settings()
	title := titleStyle.Render(m.source)
	info := fmt.Sprintf(" %v · %v · fft %d · %v · %.0f-%.0f Hz · %.0f..%.0f dB",
		s.Scale, s.Window, s.FFTSize, s.Theme, s.MinFreq, s.MaxFreq, s.MinDB, s.MaxDB)
	if m.paused {
		info += highlightStyle.Render(" paused")
	}
	if d := m.pipe.Dropped(); d > 0 {
		info += fmt.Sprintf(" · dropped %d", d)
	}
	info += " ·"
	for i, db := range m.pipe.BandLevels() {
		info += fmt.Sprintf(" %s %.0f", analysis.DefaultBands[i].Name, db)
	}
	line := title + infoStyle.Render(info)
	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}
	if !m.ready {
		return "Initializing..."
	}
	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = errorStyle.Render(m.status) + "  " + footer
	}
	return m.header() + "\n" + renderImage(m.pipe.Image(), m.cells) + "\n" + footer
}

// Err returns the error that stopped the screen, if any.
func (m Model) Err() error { return m.err }

// Run shows the spectrogram screen until the user quits or ctx ends.
func Run(ctx context.Context, m Model) error {
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
