// Package smftest builds Standard MIDI File bytes for tests. It encodes
// independently of package smf so decoder tests are not self-confirming.
package smftest

import (
	"bytes"
	"encoding/binary"
)

// VarLen encodes v as a variable-length quantity.
func VarLen(v uint32) []byte {
	out := []byte{byte(v & 0x7F)}
	for v >>= 7; v > 0; v >>= 7 {
		out = append([]byte{byte(v&0x7F) | 0x80}, out...)
	}
	return out
}

// Chunk wraps data in a chunk with the given id and its big-endian length.
func Chunk(id string, data []byte) []byte {
	out := make([]byte, 0, 8+len(data))
	out = append(out, id...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	return append(out, data...)
}

// Header returns an MThd chunk.
func Header(format, tracks, division uint16) []byte {
	data := binary.BigEndian.AppendUint16(nil, format)
	data = binary.BigEndian.AppendUint16(data, tracks)
	data = binary.BigEndian.AppendUint16(data, division)
	return Chunk("MThd", data)
}

// Track returns an MTrk chunk holding the concatenated events.
func Track(events ...[]byte) []byte {
	return Chunk("MTrk", bytes.Join(events, nil))
}

// File returns a header declaring len(tracks) tracks followed by the tracks.
func File(format, division uint16, tracks ...[]byte) []byte {
	out := Header(format, uint16(len(tracks)), division)
	for _, t := range tracks {
		out = append(out, t...)
	}
	return out
}

// Reader returns a seekable reader over b.
func Reader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// Raw returns a delta-time followed by raw status and data bytes.
func Raw(delta uint32, status byte, data ...byte) []byte {
	out := append(VarLen(delta), status)
	return append(out, data...)
}

func NoteOn(delta uint32, ch, key, vel uint8) []byte {
	return Raw(delta, 0x90|ch&0x0F, key, vel)
}

func NoteOff(delta uint32, ch, key, vel uint8) []byte {
	return Raw(delta, 0x80|ch&0x0F, key, vel)
}

func ControlChange(delta uint32, ch, cc, val uint8) []byte {
	return Raw(delta, 0xB0|ch&0x0F, cc, val)
}

func ProgramChange(delta uint32, ch, program uint8) []byte {
	return Raw(delta, 0xC0|ch&0x0F, program)
}

// Meta returns a meta event of type typ carrying data.
func Meta(delta uint32, typ byte, data []byte) []byte {
	out := append(VarLen(delta), 0xFF, typ)
	out = append(out, VarLen(uint32(len(data)))...)
	return append(out, data...)
}

// Tempo returns a set-tempo meta event.
func Tempo(delta, microsPerBeat uint32) []byte {
	return Meta(delta, 0x51, []byte{byte(microsPerBeat >> 16), byte(microsPerBeat >> 8), byte(microsPerBeat)})
}

// EndOfTrack returns the end-of-track meta event.
func EndOfTrack(delta uint32) []byte {
	return Meta(delta, 0x2F, nil)
}

// SysEx returns an F0 sysex event with a length-prefixed payload.
func SysEx(delta uint32, data []byte) []byte {
	out := append(VarLen(delta), 0xF0)
	out = append(out, VarLen(uint32(len(data)))...)
	return append(out, data...)
}
