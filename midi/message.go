package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	gosmf "gitlab.com/gomidi/midi/v2/smf"

	"go-smfplay/smf"
)

// pitchBendCenter is the 14-bit value of an unbent wheel
const pitchBendCenter = 8192

// Message converts a decoded channel or system event into a gomidi message.
// ok is false for meta and sysex events, whose payloads are not kept.
func Message(e smf.Event) (msg gomidi.Message, ok bool) {
	ch := e.Channel
	switch p := e.Payload().(type) {
	case smf.Data2:
		switch e.Kind {
		case smf.KindNoteOn:
			return gomidi.NoteOn(ch, p.A, p.B), true
		case smf.KindNoteOff:
			return gomidi.NoteOffVelocity(ch, p.A, p.B), true
		case smf.KindPolyPressure:
			return gomidi.PolyAfterTouch(ch, p.A, p.B), true
		case smf.KindControlChange:
			return gomidi.ControlChange(ch, p.A, p.B), true
		case smf.KindPitchBend:
			return gomidi.Pitchbend(ch, PitchBendValue(p)), true
		case smf.KindSongPosition:
			return gomidi.Message{byte(smf.KindSongPosition), p.A, p.B}, true
		}
	case smf.Data1:
		switch e.Kind {
		case smf.KindProgramChange:
			return gomidi.ProgramChange(ch, p.A), true
		case smf.KindChannelPressure:
			return gomidi.AfterTouch(ch, p.A), true
		case smf.KindSongSelect:
			return gomidi.Message{byte(smf.KindSongSelect), p.A}, true
		}
	}
	return nil, false
}

// PitchBendValue returns the signed bend of a raw LSB/MSB pair, 0 = center
func PitchBendValue(p smf.Data2) int16 {
	return int16(uint16(p.B&0x7F)<<7|uint16(p.A&0x7F)) - pitchBendCenter
}

// BPM converts microseconds per beat to beats per minute
func BPM(microsPerBeat uint32) float64 {
	if microsPerBeat == 0 {
		return 0
	}
	return 60000000 / float64(microsPerBeat)
}

// Describe renders an event for humans, using gomidi's message names
func Describe(e smf.Event) string {
	if msg, ok := Message(e); ok {
		return msg.String()
	}
	if m, ok := e.Meta(); ok {
		if m.Type == smf.MetaTempo {
			return gosmf.MetaTempo(BPM(m.Tempo)).String()
		}
		return fmt.Sprintf("Meta %s len: %d", MetaName(m.Type), m.Length)
	}
	if x, ok := e.SysEx(); ok {
		return fmt.Sprintf("%s len: %d", e.Kind, x.Length)
	}
	return e.Kind.String()
}

var metaNames = map[smf.MetaType]string{
	smf.MetaSequenceNumber: "SequenceNumber",
	smf.MetaText:           "Text",
	smf.MetaCopyright:      "Copyright",
	smf.MetaTrackName:      "TrackName",
	smf.MetaInstrument:     "Instrument",
	smf.MetaLyric:          "Lyric",
	smf.MetaMarker:         "Marker",
	smf.MetaCuePoint:       "CuePoint",
	smf.MetaChannelPrefix:  "ChannelPrefix",
	smf.MetaEndOfTrack:     "EndOfTrack",
	smf.MetaTempo:          "Tempo",
	smf.MetaSMPTEOffset:    "SMPTEOffset",
	smf.MetaTimeSignature:  "TimeSignature",
	smf.MetaKeySignature:   "KeySignature",
	smf.MetaSequencer:      "SequencerSpecific",
}

// MetaName names a meta sub-type
func MetaName(t smf.MetaType) string {
	if name, ok := metaNames[t]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint8(t))
}
