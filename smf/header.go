package smf

import "fmt"

const (
	headerMagic = "MThd"
	trackMagic  = "MTrk"

	// headerDataSize is the canonical MThd payload: format, tracks, division
	headerDataSize = 6
)

// Format is the SMF file type from the header chunk
type Format uint16

const (
	SingleTrack Format = iota
	MultiTrackSync
	MultiTrackAsync
)

func (f Format) String() string {
	switch f {
	case SingleTrack:
		return "single-track"
	case MultiTrackSync:
		return "multi-track-sync"
	case MultiTrackAsync:
		return "multi-track-async"
	}
	return fmt.Sprintf("Format(%d)", uint16(f))
}

// Header is the decoded MThd chunk
type Header struct {
	Format       Format `json:"format" yaml:"format"`
	TrackCount   uint16 `json:"trackCount" yaml:"trackCount"`
	TicksPerBeat uint16 `json:"ticksPerBeat" yaml:"ticksPerBeat"`
}

// SMPTE reports whether the division field is SMPTE frames rather than
// ticks per beat
func (h Header) SMPTE() bool {
	return h.TicksPerBeat&0x8000 != 0
}

// decodeHeader reads the MThd chunk. The caller positions the stream at 0
func decodeHeader(s *stream) (Header, error) {
	var h Header

	if err := s.magic(headerMagic); err != nil {
		return h, err
	}
	length, err := s.readUint32()
	if err != nil {
		return h, err
	}
	if length < headerDataSize {
		return h, fmt.Errorf("%w: length %d", ErrMalformedHeader, length)
	}

	format, err := s.readUint16()
	if err != nil {
		return h, err
	}
	if Format(format) > MultiTrackAsync {
		return h, fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	h.Format = Format(format)

	if h.TrackCount, err = s.readUint16(); err != nil {
		return h, err
	}
	if h.TicksPerBeat, err = s.readUint16(); err != nil {
		return h, err
	}

	// Longer headers are future extensions; honour the declared length
	if extra := int(length - headerDataSize); extra > 0 {
		if err := s.skip(extra); err != nil {
			return h, err
		}
	}
	return h, nil
}
