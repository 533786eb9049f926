package midi

import (
	"strings"
	"testing"

	"go-smfplay/internal/smftest"
	"go-smfplay/smf"
)

func events(t *testing.T, evs ...[]byte) []smf.Event {
	t.Helper()
	var d smf.Document
	if err := d.Load(smftest.Reader(smftest.File(0, 96, smftest.Track(evs...)))); err != nil {
		t.Fatal(err)
	}
	return d.Tracks()[0].Events
}

func TestMessage(t *testing.T) {
	evs := events(t,
		smftest.NoteOn(0, 2, 60, 100),
		smftest.ControlChange(0, 3, 7, 90),
		smftest.ProgramChange(0, 4, 41),
		smftest.Raw(0, 0xE5, 0x00, 0x60),
		smftest.Raw(0, 0xF3, 9),
		smftest.Tempo(0, 500000),
	)

	var ch, key, vel uint8
	msg, ok := Message(evs[0])
	if !ok || !msg.GetNoteOn(&ch, &key, &vel) || ch != 2 || key != 60 || vel != 100 {
		t.Errorf("note on = %v", msg)
	}

	var cc, val uint8
	msg, ok = Message(evs[1])
	if !ok || !msg.GetControlChange(&ch, &cc, &val) || ch != 3 || cc != 7 || val != 90 {
		t.Errorf("control change = %v", msg)
	}

	var prog uint8
	msg, ok = Message(evs[2])
	if !ok || !msg.GetProgramChange(&ch, &prog) || ch != 4 || prog != 41 {
		t.Errorf("program change = %v", msg)
	}

	var rel int16
	var abs uint16
	msg, ok = Message(evs[3])
	if !ok || !msg.GetPitchBend(&ch, &rel, &abs) || ch != 5 || rel != 4096 {
		t.Errorf("pitch bend = %v (rel %d)", msg, rel)
	}

	msg, ok = Message(evs[4])
	if !ok || len(msg) != 2 || msg[0] != 0xF3 || msg[1] != 9 {
		t.Errorf("song select = % x", []byte(msg))
	}

	if _, ok := Message(evs[5]); ok {
		t.Error("meta event converted to a wire message")
	}
}

func TestPitchBendValue(t *testing.T) {
	tests := []struct {
		lsb, msb uint8
		want     int16
	}{
		{0x00, 0x40, 0},
		{0x00, 0x00, -8192},
		{0x7F, 0x7F, 8191},
	}
	for _, tt := range tests {
		if got := PitchBendValue(smf.Data2{A: tt.lsb, B: tt.msb}); got != tt.want {
			t.Errorf("PitchBendValue(%#x, %#x) = %d, want %d", tt.lsb, tt.msb, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	evs := events(t,
		smftest.NoteOn(0, 0, 60, 100),
		smftest.Tempo(0, 400000),
		smftest.Meta(0, 0x03, []byte("Lead")),
		smftest.SysEx(0, []byte{0x01, 0xF7}),
		smftest.EndOfTrack(0),
	)
	for i, e := range evs {
		if Describe(e) == "" {
			t.Errorf("event %d has no description", i)
		}
	}
	if got := Describe(evs[2]); !strings.Contains(got, "TrackName") || !strings.Contains(got, "4") {
		t.Errorf("track name = %q", got)
	}
	if got := Describe(evs[3]); got != "SysEx len: 2" {
		t.Errorf("sysex = %q", got)
	}
	if MetaName(0x42) != "0x42" {
		t.Errorf("unknown meta name = %q", MetaName(0x42))
	}
}

func TestBPM(t *testing.T) {
	if BPM(smf.DefaultTempo) != 120 || BPM(300000) != 200 || BPM(0) != 0 {
		t.Error("BPM conversion")
	}
}
