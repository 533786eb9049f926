package smf

import (
	"errors"
	"fmt"
)

// Decode failures. Every one of them aborts a Load
var (
	ErrSourceUnavailable   = errors.New("smf: source unavailable")
	ErrBadMagic            = errors.New("smf: bad chunk magic")
	ErrUnsupportedFormat   = errors.New("smf: unsupported format")
	ErrMalformedHeader     = errors.New("smf: malformed header chunk")
	ErrTruncatedStream     = errors.New("smf: truncated stream")
	ErrMalformedEvent      = errors.New("smf: malformed event")
	ErrTrackLengthMismatch = errors.New("smf: track length mismatch")
	ErrAlreadyLoaded       = errors.New("smf: document already loaded")
)

// DecodeError records where in the byte stream a decode step failed
type DecodeError struct {
	Op     string // "header", "track 2", "event"...
	Offset int64  // stream offset at the start of the failing read
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
