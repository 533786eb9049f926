package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-smfplay/midi"
	"go-smfplay/smf"
	"go-smfplay/theme"
)

// historyLen is how many recent events the log shows
const historyLen = 8

// barWidth is the progress bar width in cells
const barWidth = 40

// channelState tracks what one MIDI channel is doing
type channelState struct {
	seen    bool
	notes   map[uint8]bool
	program int // -1 until a program change
}

type Model struct {
	Playback *Playback
	Theme    *theme.Theme

	name     string
	header   smf.Header
	lastTick uint32

	tick     uint32
	tempo    uint32
	channels [16]channelState
	history  []string

	finished bool
	err      error
	quitting bool
}

func NewModel(path string, doc *smf.Document, pb *Playback, th *theme.Theme) Model {
	m := Model{
		Playback: pb,
		Theme:    th,
		name:     filepath.Base(path),
		header:   doc.Header(),
		lastTick: doc.LastTick(),
		tempo:    pb.Tempo(),
	}
	for i := range m.channels {
		m.channels[i] = channelState{notes: make(map[uint8]bool), program: -1}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.Playback.Start()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Playback.Pause()
			return m, tea.Quit

		case " ", "p":
			if m.Playback.Running() {
				m.Playback.Pause()
				return m, nil
			}
			return m, m.Playback.Start()

		case "+", "=":
			if m.Playback.NudgeTempo(5) {
				m.tempo = m.Playback.Tempo()
			}

		case "-", "_":
			if m.Playback.NudgeTempo(-5) {
				m.tempo = m.Playback.Tempo()
			}
		}

	case EventMsg:
		m.apply(msg.Event)
		m.tempo = msg.Tempo

	case DoneMsg:
		m.Playback.stopped()
		m.finished = msg.Finished
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m.tempo = m.Playback.Tempo()
	}

	return m, nil
}

// apply folds one dispatched event into the display state
func (m *Model) apply(e smf.Event) {
	m.tick = e.Tick
	m.history = append(m.history, fmt.Sprintf("%8d  %s", e.Tick, midi.Describe(e)))
	if len(m.history) > historyLen {
		m.history = m.history[len(m.history)-historyLen:]
	}

	if !e.Kind.IsChannel() {
		return
	}
	ch := &m.channels[e.Channel]
	ch.seen = true
	switch e.Kind {
	case smf.KindNoteOn:
		d, _ := e.Data2()
		if d.B == 0 {
			delete(ch.notes, d.A)
		} else {
			ch.notes[d.A] = true
		}
	case smf.KindNoteOff:
		d, _ := e.Data2()
		delete(ch.notes, d.A)
	case smf.KindProgramChange:
		d, _ := e.Data1()
		ch.program = int(d.A)
	}
}

func (m Model) progressBar() string {
	filled := 0
	if m.lastTick > 0 {
		filled = int(uint64(m.tick) * barWidth / uint64(m.lastTick))
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat(string(m.Theme.Symbols.BarFull), filled) +
		strings.Repeat(string(m.Theme.Symbols.BarEmpty), barWidth-filled)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	errStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	state := "STOP"
	switch {
	case m.finished:
		state = "DONE"
	case m.Playback.Running():
		state = "PLAY"
	}

	header := headerStyle.Render(fmt.Sprintf("go-smfplay  %s  %s  %.1fbpm  %s  tick:%d/%d",
		m.name, state, midi.BPM(m.tempo), m.header.Format, m.tick, m.lastTick))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(lipgloss.NewStyle().Foreground(m.Theme.FG()).Render(m.progressBar()))
	out.WriteString("\n\n")

	for i, ch := range m.channels {
		if !ch.seen {
			continue
		}
		style := lipgloss.NewStyle().Foreground(m.Theme.Color(theme.ChannelNorm(uint8(i))))
		activity := string(m.Theme.Symbols.NoteIdle)
		if len(ch.notes) > 0 {
			activity = strings.Repeat(string(m.Theme.Symbols.NoteActive), min(len(ch.notes), 8))
		}
		program := "-"
		if ch.program >= 0 {
			program = fmt.Sprintf("%d", ch.program)
		}
		out.WriteString(style.Render(fmt.Sprintf("ch%-2d prog %-3s %s", i+1, program, activity)))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	for _, line := range m.history {
		out.WriteString(dimStyle.Render(line))
		out.WriteString("\n")
	}

	if m.err != nil {
		out.WriteString("\n")
		out.WriteString(errStyle.Render(m.err.Error()))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("space:play/pause  +/-:tempo (paused)  q:quit"))

	return out.String()
}
