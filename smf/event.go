package smf

import "fmt"

// Kind identifies an event. Channel-voice kinds are the status high nibble;
// system and meta kinds are the full status byte
type Kind uint8

const (
	KindNoteOff         Kind = 0x8
	KindNoteOn          Kind = 0x9
	KindPolyPressure    Kind = 0xA
	KindControlChange   Kind = 0xB
	KindProgramChange   Kind = 0xC
	KindChannelPressure Kind = 0xD
	KindPitchBend       Kind = 0xE

	KindSysEx        Kind = 0xF0
	KindSongPosition Kind = 0xF2
	KindSongSelect   Kind = 0xF3
	KindSysExEscape  Kind = 0xF7
	KindMeta         Kind = 0xFF
)

var kindNames = map[Kind]string{
	KindNoteOff:         "NoteOff",
	KindNoteOn:          "NoteOn",
	KindPolyPressure:    "PolyPressure",
	KindControlChange:   "ControlChange",
	KindProgramChange:   "ProgramChange",
	KindChannelPressure: "ChannelPressure",
	KindPitchBend:       "PitchBend",
	KindSysEx:           "SysEx",
	KindSongPosition:    "SongPosition",
	KindSongSelect:      "SongSelect",
	KindSysExEscape:     "SysExEscape",
	KindMeta:            "Meta",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(0x%02X)", uint8(k))
}

// IsChannel reports whether events of this kind carry a channel
func (k Kind) IsChannel() bool {
	return k >= KindNoteOff && k <= KindPitchBend
}

// MetaType is the sub-type byte following a 0xFF status
type MetaType uint8

const (
	MetaSequenceNumber MetaType = 0x00
	MetaText           MetaType = 0x01
	MetaCopyright      MetaType = 0x02
	MetaTrackName      MetaType = 0x03
	MetaInstrument     MetaType = 0x04
	MetaLyric          MetaType = 0x05
	MetaMarker         MetaType = 0x06
	MetaCuePoint       MetaType = 0x07
	MetaChannelPrefix  MetaType = 0x20
	MetaEndOfTrack     MetaType = 0x2F
	MetaTempo          MetaType = 0x51
	MetaSMPTEOffset    MetaType = 0x54
	MetaTimeSignature  MetaType = 0x58
	MetaKeySignature   MetaType = 0x59
	MetaSequencer      MetaType = 0x7F
)

// tempoSize is the byte width of a set-tempo value
const tempoSize = 3

// Payload is the kind-specific part of an Event. The concrete type is fixed
// by the event's Kind: Data2, Data1, MetaData or SysExData
type Payload interface {
	isPayload()
}

// Data2 holds the two raw data bytes of note, pressure, controller,
// pitch bend and song position events
type Data2 struct {
	A, B uint8
}

// Data1 holds the single data byte of program change, channel pressure and
// song select events
type Data1 struct {
	A uint8
}

// MetaData describes a meta event. Only Tempo is decoded; for other types
// the payload is skipped and only its declared Length kept
type MetaData struct {
	Type   MetaType
	Length uint32
	Tempo  uint32 // microseconds per beat, set for MetaTempo only
}

// SysExData records the declared length of a skipped sysex payload
type SysExData struct {
	Length uint32
}

func (Data2) isPayload()     {}
func (Data1) isPayload()     {}
func (MetaData) isPayload()  {}
func (SysExData) isPayload() {}

// Event is one decoded track event. It is a value type; copies are safe
type Event struct {
	Delta   uint32 // ticks since the previous event in the same track
	Tick    uint32 // absolute tick
	Kind    Kind
	Channel uint8 // valid only when Kind.IsChannel()

	payload Payload
}

// Payload returns the kind-specific payload
func (e Event) Payload() Payload {
	return e.payload
}

// Data2 returns the two data bytes if the event has that shape
func (e Event) Data2() (Data2, bool) {
	d, ok := e.payload.(Data2)
	return d, ok
}

// Data1 returns the single data byte if the event has that shape
func (e Event) Data1() (Data1, bool) {
	d, ok := e.payload.(Data1)
	return d, ok
}

// Meta returns the meta description if the event is a meta event
func (e Event) Meta() (MetaData, bool) {
	m, ok := e.payload.(MetaData)
	return m, ok
}

// SysEx returns the sysex description if the event is a sysex event
func (e Event) SysEx() (SysExData, bool) {
	x, ok := e.payload.(SysExData)
	return x, ok
}

// Tempo returns the microseconds-per-beat of a set-tempo meta event
func (e Event) Tempo() (uint32, bool) {
	m, ok := e.Meta()
	if !ok || m.Type != MetaTempo {
		return 0, false
	}
	return m.Tempo, true
}

func (e Event) String() string {
	switch p := e.payload.(type) {
	case Data2:
		if e.Kind.IsChannel() {
			return fmt.Sprintf("%d %s ch=%d %d %d", e.Tick, e.Kind, e.Channel, p.A, p.B)
		}
		return fmt.Sprintf("%d %s %d %d", e.Tick, e.Kind, p.A, p.B)
	case Data1:
		if e.Kind.IsChannel() {
			return fmt.Sprintf("%d %s ch=%d %d", e.Tick, e.Kind, e.Channel, p.A)
		}
		return fmt.Sprintf("%d %s %d", e.Tick, e.Kind, p.A)
	case MetaData:
		if p.Type == MetaTempo {
			return fmt.Sprintf("%d Meta tempo=%d", e.Tick, p.Tempo)
		}
		return fmt.Sprintf("%d Meta type=0x%02X len=%d", e.Tick, uint8(p.Type), p.Length)
	case SysExData:
		return fmt.Sprintf("%d %s len=%d", e.Tick, e.Kind, p.Length)
	}
	return fmt.Sprintf("%d %s", e.Tick, e.Kind)
}

// dataBytes returns how many raw data bytes follow a status of kind k,
// or -1 when k has a length-prefixed payload or is unknown
func dataBytes(k Kind) int {
	switch k {
	case KindNoteOff, KindNoteOn, KindPolyPressure, KindControlChange, KindPitchBend, KindSongPosition:
		return 2
	case KindProgramChange, KindChannelPressure, KindSongSelect:
		return 1
	}
	return -1
}

// decodeEvent reads one event and reports how many bytes it consumed
func decodeEvent(s *stream, previousTick uint32) (Event, int, error) {
	var e Event

	delta, deltaSize, err := s.varLen()
	if err != nil {
		return e, 0, err
	}
	e.Delta = delta
	e.Tick = previousTick + delta
	if e.Tick < previousTick {
		return e, 0, fmt.Errorf("%w: tick overflow after %d", ErrMalformedEvent, previousTick)
	}

	status, err := s.ReadByte()
	if err != nil {
		return e, 0, err
	}
	if status < 0xF0 {
		e.Kind = Kind(status >> 4)
		e.Channel = status & 0x0F
	} else {
		e.Kind = Kind(status)
	}
	consumed := deltaSize + 1

	switch n := dataBytes(e.Kind); {
	case n == 2:
		b, err := s.read(2)
		if err != nil {
			return e, 0, err
		}
		e.payload = Data2{A: b[0], B: b[1]}
		return e, consumed + 2, nil

	case n == 1:
		b, err := s.ReadByte()
		if err != nil {
			return e, 0, err
		}
		e.payload = Data1{A: b}
		return e, consumed + 1, nil

	case e.Kind == KindMeta:
		m, size, err := decodeMeta(s)
		if err != nil {
			return e, 0, err
		}
		e.payload = m
		return e, consumed + size, nil

	case e.Kind == KindSysEx, e.Kind == KindSysExEscape:
		length, lengthSize, err := s.varLen()
		if err != nil {
			return e, 0, err
		}
		if err := s.skip(int(length)); err != nil {
			return e, 0, err
		}
		e.payload = SysExData{Length: length}
		return e, consumed + lengthSize + int(length), nil
	}

	return e, 0, fmt.Errorf("%w: status 0x%02X", ErrMalformedEvent, status)
}

// decodeMeta reads the part of a meta event after the 0xFF status:
// sub-type, varlen length and payload
func decodeMeta(s *stream) (MetaData, int, error) {
	var m MetaData

	typ, err := s.ReadByte()
	if err != nil {
		return m, 0, err
	}
	m.Type = MetaType(typ)

	length, lengthSize, err := s.varLen()
	if err != nil {
		return m, 0, err
	}
	m.Length = length

	remaining := int(length)
	if m.Type == MetaTempo {
		if length < tempoSize {
			return m, 0, fmt.Errorf("%w: tempo length %d", ErrMalformedEvent, length)
		}
		b, err := s.read(tempoSize)
		if err != nil {
			return m, 0, err
		}
		m.Tempo = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		remaining -= tempoSize
	}
	if err := s.skip(remaining); err != nil {
		return m, 0, err
	}
	return m, 1 + lengthSize + int(length), nil
}
