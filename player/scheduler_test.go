package player

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"go-smfplay/internal/smftest"
	"go-smfplay/smf"
)

func load(t *testing.T, raw []byte) *smf.Document {
	t.Helper()
	var d smf.Document
	if err := d.Load(smftest.Reader(raw)); err != nil {
		t.Fatal(err)
	}
	return &d
}

type dispatch struct {
	track int // encoded as the event channel in these fixtures
	tick  uint32
	kind  smf.Kind
}

func record(s *Scheduler, kinds ...smf.Kind) *[]dispatch {
	var got []dispatch
	for _, k := range kinds {
		s.RegisterCallback(k, func(e smf.Event) {
			got = append(got, dispatch{int(e.Channel), e.Tick, e.Kind})
		})
	}
	return &got
}

func TestNewRejectsInvalidDocuments(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("nil: err = %v", err)
	}
	if _, err := New(&smf.Document{}); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("unloaded: err = %v", err)
	}

	zero := load(t, smftest.File(0, 0, smftest.Track(smftest.EndOfTrack(0))))
	if _, err := New(zero); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("zero division: err = %v", err)
	}
	smpte := load(t, smftest.File(0, 0xE728, smftest.Track(smftest.EndOfTrack(0))))
	if _, err := New(smpte); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("SMPTE division: err = %v", err)
	}
}

func TestTempoPropagation(t *testing.T) {
	doc := load(t, smftest.File(0, 96, smftest.Track(
		smftest.Tempo(0, 300000),
		smftest.NoteOn(96, 0, 60, 100),
		smftest.NoteOff(96, 0, 60, 0),
		smftest.EndOfTrack(0),
	)))

	clock := &VirtualClock{}
	s, err := New(doc, WithSleeper(clock))
	if err != nil {
		t.Fatal(err)
	}
	if s.Tempo() != smf.DefaultTempo {
		t.Errorf("initial tempo = %d", s.Tempo())
	}

	var tempoEvents []uint32
	s.RegisterCallback(smf.KindMeta, func(e smf.Event) {
		if _, ok := e.Tempo(); ok {
			tempoEvents = append(tempoEvents, s.Tempo())
			if len(clock.Waits) != 0 {
				t.Errorf("tempo applied after %d waits", len(clock.Waits))
			}
		}
	})

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tempoEvents, []uint32{300000}) {
		t.Errorf("tempo seen by handlers = %v, want [300000]", tempoEvents)
	}
	want := []time.Duration{300 * time.Millisecond, 300 * time.Millisecond}
	if !reflect.DeepEqual(clock.Waits, want) {
		t.Errorf("waits = %v, want %v", clock.Waits, want)
	}
}

func TestWaitTruncates(t *testing.T) {
	doc := load(t, smftest.File(0, 3, smftest.Track(
		smftest.NoteOn(0, 0, 60, 100),
		smftest.NoteOn(1, 0, 61, 100),
		smftest.EndOfTrack(0),
	)))
	clock := &VirtualClock{}
	s, err := New(doc, WithSleeper(clock), WithTempo(1000))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	// 1 tick * 1000us / 3 = 333.33us, truncated
	if want := []time.Duration{333 * time.Microsecond}; !reflect.DeepEqual(clock.Waits, want) {
		t.Errorf("waits = %v, want %v", clock.Waits, want)
	}
}

func TestWaitClampsLongGaps(t *testing.T) {
	doc := load(t, smftest.File(0, 1, smftest.Track(smftest.EndOfTrack(0))))
	s, err := New(doc, WithTempo(0xFFFFFF))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.wait(math.MaxUint32); got <= 0 || got != time.Duration(maxWaitMicros)*time.Microsecond {
		t.Errorf("wait = %v, want clamped positive duration", got)
	}
	if got := s.wait(2); got != 2*0xFFFFFF*time.Microsecond {
		t.Errorf("wait(2) = %v", got)
	}
}

func TestMergeOrdering(t *testing.T) {
	doc := load(t, smftest.File(1, 96,
		smftest.Track(
			smftest.NoteOn(0, 0, 60, 100),
			smftest.NoteOn(20, 0, 61, 100),
			smftest.NoteOn(80, 0, 62, 100),
			smftest.EndOfTrack(0),
		),
		smftest.Track(
			smftest.NoteOn(10, 1, 70, 100),
			smftest.NoteOn(90, 1, 71, 100),
			smftest.EndOfTrack(0),
		),
	))

	s, err := New(doc, WithSleeper(&VirtualClock{}))
	if err != nil {
		t.Fatal(err)
	}
	got := record(s, smf.KindNoteOn)
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []dispatch{
		{0, 0, smf.KindNoteOn},
		{1, 10, smf.KindNoteOn},
		{0, 20, smf.KindNoteOn},
		{0, 100, smf.KindNoteOn},
		{1, 100, smf.KindNoteOn},
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("dispatch order = %v, want %v", *got, want)
	}
}

func TestFinalEventNotDelivered(t *testing.T) {
	raw := smftest.File(0, 96, smftest.Track(
		smftest.NoteOn(0, 0, 60, 100),
		smftest.NoteOff(48, 0, 60, 0),
		smftest.NoteOn(0, 0, 62, 100),
	))

	s, err := New(load(t, raw), WithSleeper(&VirtualClock{}))
	if err != nil {
		t.Fatal(err)
	}
	got := record(s, smf.KindNoteOn, smf.KindNoteOff)

	steps := 0
	for !s.IsFinished() {
		ok, err := s.Advance(context.Background())
		if err != nil || !ok {
			t.Fatalf("Advance = %v, %v", ok, err)
		}
		steps++
	}
	if steps != 2 || len(*got) != 2 {
		t.Errorf("delivered %d events in %d steps, want 2", len(*got), steps)
	}
	if s.Cursor(0) != 2 {
		t.Errorf("cursor = %d, want 2", s.Cursor(0))
	}
	if ok, err := s.Advance(context.Background()); ok || err != nil {
		t.Errorf("Advance after finish = %v, %v", ok, err)
	}

	s, err = New(load(t, raw), WithSleeper(&VirtualClock{}), WithDeliverLastEvent(true))
	if err != nil {
		t.Fatal(err)
	}
	got = record(s, smf.KindNoteOn, smf.KindNoteOff)
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(*got) != 3 || s.Cursor(0) != 3 {
		t.Errorf("with last event: delivered %d, cursor %d", len(*got), s.Cursor(0))
	}
}

func TestEmptyTracksFinishImmediately(t *testing.T) {
	doc := load(t, smftest.File(1, 96, smftest.Track(), smftest.Track(smftest.EndOfTrack(0))))
	s, err := New(doc, WithSleeper(&VirtualClock{}))
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsFinished() {
		t.Error("scheduler over empty tracks not finished")
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestHandlersRunInRegistrationOrder(t *testing.T) {
	doc := load(t, smftest.File(0, 96, smftest.Track(
		smftest.ControlChange(0, 0, 7, 100),
		smftest.EndOfTrack(0),
	)))
	s, err := New(doc, WithSleeper(&VirtualClock{}))
	if err != nil {
		t.Fatal(err)
	}

	var order []string
	s.RegisterCallback(smf.KindControlChange, func(smf.Event) { order = append(order, "first") })
	s.RegisterCallback(smf.KindControlChange, func(smf.Event) { order = append(order, "second") })
	s.RegisterCallback(smf.KindNoteOn, func(smf.Event) { order = append(order, "wrong kind") })

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Errorf("order = %v", order)
	}
}

func TestSchedulersShareDocument(t *testing.T) {
	doc := load(t, smftest.File(0, 96, smftest.Track(
		smftest.Tempo(0, 250000),
		smftest.NoteOn(96, 0, 60, 100),
		smftest.NoteOff(96, 0, 60, 0),
		smftest.EndOfTrack(0),
	)))

	a, err := New(doc, WithSleeper(&VirtualClock{}))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(doc, WithSleeper(&VirtualClock{}))
	if err != nil {
		t.Fatal(err)
	}
	gotA := record(a, smf.KindNoteOn)

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if b.Clock() != 0 || b.Tempo() != smf.DefaultTempo || b.Cursor(0) != 0 {
		t.Errorf("second scheduler disturbed: clock %d tempo %d cursor %d", b.Clock(), b.Tempo(), b.Cursor(0))
	}
	if a.Clock() != 192 || a.Tempo() != 250000 || len(*gotA) != 1 {
		t.Errorf("first scheduler: clock %d tempo %d notes %d", a.Clock(), a.Tempo(), len(*gotA))
	}
	if err := b.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if doc.Tracks()[0].Len() != 4 {
		t.Error("document changed by playback")
	}
}

func TestRunCancelled(t *testing.T) {
	doc := load(t, smftest.File(0, 96, smftest.Track(
		smftest.NoteOn(0, 0, 60, 100),
		smftest.NoteOff(96*1000, 0, 60, 0),
		smftest.EndOfTrack(0),
	)))
	s, err := New(doc)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = s.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("wait was not interrupted")
	}
	if s.Cursor(0) != 1 {
		t.Errorf("cursor = %d, want 1 (the cut wait must not dispatch)", s.Cursor(0))
	}

	burst := load(t, smftest.File(0, 96, smftest.Track(
		smftest.NoteOn(0, 0, 60, 100),
		smftest.NoteOn(0, 0, 64, 100),
		smftest.NoteOn(0, 0, 67, 100),
		smftest.EndOfTrack(0),
	)))
	s, err = New(burst, WithSleeper(&VirtualClock{}))
	if err != nil {
		t.Fatal(err)
	}
	dispatched := 0
	s.RegisterCallback(smf.KindNoteOn, func(smf.Event) { dispatched++ })

	cancelled, stop := context.WithCancel(context.Background())
	stop()
	if err := s.Run(cancelled); !errors.Is(err, context.Canceled) {
		t.Errorf("same-tick run err = %v, want canceled", err)
	}
	if dispatched != 0 {
		t.Errorf("dispatched %d same-tick events after cancel", dispatched)
	}
}

func TestWallClock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	if err := (WallClock{}).Sleep(ctx, time.Millisecond); err != nil {
		t.Errorf("Sleep = %v", err)
	}
	cancel()
	if err := (WallClock{}).Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep after cancel = %v", err)
	}
}
