package smf

import "fmt"

// Track is the ordered event list of one MTrk chunk, in file order
type Track struct {
	Events []Event
}

// Len returns the number of events in the track
func (t Track) Len() int {
	return len(t.Events)
}

// LastTick returns the absolute tick of the final event, or 0 if empty
func (t Track) LastTick() uint32 {
	if len(t.Events) == 0 {
		return 0
	}
	return t.Events[len(t.Events)-1].Tick
}

// decodeTrack reads one MTrk chunk and decodes events until exactly the
// declared chunk length has been consumed
func decodeTrack(s *stream) (Track, error) {
	var t Track

	if err := s.magic(trackMagic); err != nil {
		return t, err
	}
	length, err := s.readUint32()
	if err != nil {
		return t, err
	}

	var (
		consumed uint64
		tick     uint32
	)
	for consumed < uint64(length) {
		start := s.offset
		e, n, err := decodeEvent(s, tick)
		if err != nil {
			return t, &DecodeError{Op: fmt.Sprintf("event %d", len(t.Events)), Offset: start, Err: err}
		}
		consumed += uint64(n)
		tick = e.Tick
		t.Events = append(t.Events, e)
	}
	if consumed != uint64(length) {
		return t, fmt.Errorf("%w: declared %d bytes, decoded %d", ErrTrackLengthMismatch, length, consumed)
	}
	return t, nil
}
