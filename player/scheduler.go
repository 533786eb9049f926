// Package player replays a decoded SMF document in real time, dispatching
// each event to the callbacks registered for its kind
package player

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go-smfplay/debug"
	"go-smfplay/smf"
)

// ErrInvalidDocument is returned by New for documents that cannot be played
var ErrInvalidDocument = errors.New("player: invalid document")

// Handler receives a copy of each dispatched event
type Handler func(e smf.Event)

// Option configures a Scheduler
type Option func(*Scheduler)

// WithSleeper replaces the wall-clock wait
func WithSleeper(s Sleeper) Option {
	return func(sc *Scheduler) {
		sc.sleeper = s
	}
}

// WithTempo sets the starting tempo in microseconds per beat
func WithTempo(microsPerBeat uint32) Option {
	return func(sc *Scheduler) {
		if microsPerBeat > 0 {
			sc.tempo = microsPerBeat
		}
	}
}

// WithDeliverLastEvent makes the final event of every track playable.
// By default a track counts as finished once its cursor reaches its last
// event, so that event is never dispatched
func WithDeliverLastEvent(deliver bool) Option {
	return func(sc *Scheduler) {
		sc.deliverLast = deliver
	}
}

// Scheduler merges the tracks of one document by absolute tick and paces
// dispatch against a virtual tick clock. It is not safe for concurrent use;
// several schedulers may share one loaded document
type Scheduler struct {
	tracks       []smf.Track
	ticksPerBeat uint32

	tempo   uint32 // microseconds per beat
	clock   uint32 // virtual clock, absolute tick
	cursors []int

	callbacks map[smf.Kind][]Handler
	sleeper   Sleeper

	deliverLast bool
}

// New creates a scheduler over a loaded document. The document must not be
// reloaded while the scheduler is in use
func New(doc *smf.Document, opts ...Option) (*Scheduler, error) {
	if doc == nil || !doc.Loaded() {
		return nil, fmt.Errorf("%w: not loaded", ErrInvalidDocument)
	}
	h := doc.Header()
	if h.TicksPerBeat == 0 {
		return nil, fmt.Errorf("%w: zero ticks per beat", ErrInvalidDocument)
	}
	if h.SMPTE() {
		return nil, fmt.Errorf("%w: SMPTE division 0x%04X", ErrInvalidDocument, h.TicksPerBeat)
	}

	tracks := doc.Tracks()
	s := &Scheduler{
		tracks:       tracks,
		ticksPerBeat: uint32(h.TicksPerBeat),
		tempo:        smf.DefaultTempo,
		cursors:      make([]int, len(tracks)),
		callbacks:    make(map[smf.Kind][]Handler),
		sleeper:      WallClock{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.RegisterCallback(smf.KindMeta, func(e smf.Event) {
		if tempo, ok := e.Tempo(); ok {
			s.SetTempo(tempo)
		}
	})
	return s, nil
}

// RegisterCallback appends h to the handlers for kind. Handlers for the
// same kind run in registration order
func (s *Scheduler) RegisterCallback(kind smf.Kind, h Handler) {
	s.callbacks[kind] = append(s.callbacks[kind], h)
}

// SetTempo changes the tempo for every following wait
func (s *Scheduler) SetTempo(microsPerBeat uint32) {
	debug.Log("player", "tempo %d -> %d at tick %d", s.tempo, microsPerBeat, s.clock)
	s.tempo = microsPerBeat
}

// Tempo returns the current tempo in microseconds per beat
func (s *Scheduler) Tempo() uint32 {
	return s.tempo
}

// Clock returns the tick of the most recently dispatched event
func (s *Scheduler) Clock() uint32 {
	return s.clock
}

// Cursor returns the index of the next undelivered event in track i
func (s *Scheduler) Cursor(i int) int {
	if i < 0 || i >= len(s.cursors) {
		return 0
	}
	return s.cursors[i]
}

// NumTracks returns the number of tracks being played
func (s *Scheduler) NumTracks() int {
	return len(s.tracks)
}

func (s *Scheduler) trackFinished(i int) bool {
	n := len(s.tracks[i].Events)
	if s.deliverLast {
		return s.cursors[i] >= n
	}
	return s.cursors[i] >= n-1
}

// IsFinished reports whether every track has run out of playable events
func (s *Scheduler) IsFinished() bool {
	for i := range s.tracks {
		if !s.trackFinished(i) {
			return false
		}
	}
	return true
}

// next picks the unfinished track whose pending event has the smallest
// tick, preferring the lowest track index on ties
func (s *Scheduler) next() (int, bool) {
	best := -1
	var bestTick uint32
	for i := range s.tracks {
		if s.trackFinished(i) {
			continue
		}
		tick := s.tracks[i].Events[s.cursors[i]].Tick
		if best < 0 || tick < bestTick {
			best, bestTick = i, tick
		}
	}
	return best, best >= 0
}

// longest wait a time.Duration can hold
const maxWaitMicros = uint64(math.MaxInt64 / int64(time.Microsecond))

// wait converts a tick gap to real time at the current tempo
func (s *Scheduler) wait(ticks uint32) time.Duration {
	micros := uint64(ticks) * uint64(s.tempo) / uint64(s.ticksPerBeat)
	if micros > maxWaitMicros {
		micros = maxWaitMicros
	}
	return time.Duration(micros) * time.Microsecond
}

// Advance dispatches the next due event, sleeping first if it lies after
// the virtual clock. It returns false once the scheduler is finished
func (s *Scheduler) Advance(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	i, ok := s.next()
	if !ok {
		return false, nil
	}
	e := s.tracks[i].Events[s.cursors[i]]

	if e.Tick > s.clock {
		if err := s.sleeper.Sleep(ctx, s.wait(e.Tick-s.clock)); err != nil {
			return false, err
		}
	}

	s.cursors[i]++
	for _, h := range s.callbacks[e.Kind] {
		h(e)
	}
	s.clock = e.Tick
	debug.LogEvery(64, "player", "track=%d tick=%d kind=%s", i, e.Tick, e.Kind)
	return true, nil
}

// Run dispatches events until the scheduler is finished or ctx is done
func (s *Scheduler) Run(ctx context.Context) error {
	for !s.IsFinished() {
		if _, err := s.Advance(ctx); err != nil {
			return err
		}
	}
	debug.Log("player", "finished at tick %d", s.clock)
	return nil
}
