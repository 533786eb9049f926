package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"go-smfplay/midi"
	"go-smfplay/player"
	"go-smfplay/smf"
)

// watchedKinds are forwarded to the UI
var watchedKinds = []smf.Kind{
	smf.KindNoteOff,
	smf.KindNoteOn,
	smf.KindPolyPressure,
	smf.KindControlChange,
	smf.KindProgramChange,
	smf.KindChannelPressure,
	smf.KindPitchBend,
	smf.KindSysEx,
	smf.KindSongPosition,
	smf.KindSongSelect,
	smf.KindSysExEscape,
	smf.KindMeta,
}

// EventMsg is sent from the playback goroutine for every dispatched event
type EventMsg struct {
	Event smf.Event
	Tempo uint32 // scheduler tempo after the event was handled
}

// DoneMsg is sent when a Run call returns
type DoneMsg struct {
	Err      error
	Finished bool
}

// Playback runs a scheduler on its own goroutine and forwards dispatches
// as tea messages. The scheduler may only be touched while not running.
type Playback struct {
	sched   *player.Scheduler
	send    func(tea.Msg)
	cancel  context.CancelFunc
	running bool
}

func NewPlayback(s *player.Scheduler) *Playback {
	return &Playback{sched: s}
}

// Attach registers the forwarding callbacks. Call once, before Start.
func (pb *Playback) Attach(send func(tea.Msg)) {
	pb.send = send
	for _, k := range watchedKinds {
		pb.sched.RegisterCallback(k, func(e smf.Event) {
			// runs on the playback goroutine, so reading the tempo is safe
			pb.send(EventMsg{Event: e, Tempo: pb.sched.Tempo()})
		})
	}
}

// Start returns a command that plays until finished or paused
func (pb *Playback) Start() tea.Cmd {
	if pb.running || pb.sched.IsFinished() {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	pb.cancel = cancel
	pb.running = true
	s := pb.sched
	return func() tea.Msg {
		err := s.Run(ctx)
		return DoneMsg{Err: err, Finished: s.IsFinished()}
	}
}

// Pause interrupts the current wait; a DoneMsg follows
func (pb *Playback) Pause() {
	if pb.cancel != nil {
		pb.cancel()
	}
}

// stopped is called when the DoneMsg arrives
func (pb *Playback) stopped() {
	if pb.cancel != nil {
		pb.cancel()
		pb.cancel = nil
	}
	pb.running = false
}

// Running reports whether a Run call is in flight
func (pb *Playback) Running() bool {
	return pb.running
}

// NudgeTempo changes the tempo by delta BPM while paused
func (pb *Playback) NudgeTempo(deltaBPM float64) bool {
	if pb.running {
		return false
	}
	bpm := midi.BPM(pb.sched.Tempo()) + deltaBPM
	if bpm < 20 {
		bpm = 20
	}
	if bpm > 300 {
		bpm = 300
	}
	pb.sched.SetTempo(uint32(60000000 / bpm))
	return true
}

// Tempo returns the scheduler tempo; only valid while paused
func (pb *Playback) Tempo() uint32 {
	return pb.sched.Tempo()
}
