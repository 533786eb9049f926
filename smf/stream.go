package smf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// stream is a forward-only reader over the file that tracks its offset
type stream struct {
	br     *bufio.Reader
	offset int64
}

func newStream(r io.Reader) *stream {
	return &stream{br: bufio.NewReader(r)}
}

// readErr maps reader failures onto the decode error kinds
func readErr(err error) error {
	if errors.Is(err, ErrTruncatedStream) || errors.Is(err, ErrSourceUnavailable) {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncatedStream
	}
	return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
}

func (s *stream) ReadByte() (byte, error) {
	b, err := s.br.ReadByte()
	if err != nil {
		return 0, readErr(err)
	}
	s.offset++
	return b, nil
}

func (s *stream) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := io.ReadFull(s.br, buf)
	s.offset += int64(got)
	if err != nil {
		return nil, readErr(err)
	}
	return buf, nil
}

func (s *stream) skip(n int) error {
	got, err := s.br.Discard(n)
	s.offset += int64(got)
	if err != nil {
		return readErr(err)
	}
	return nil
}

func (s *stream) readUint16() (uint16, error) {
	b, err := s.read(2)
	if err != nil {
		return 0, err
	}
	return fromBig16(b), nil
}

func (s *stream) readUint32() (uint32, error) {
	b, err := s.read(4)
	if err != nil {
		return 0, err
	}
	return fromBig32(b), nil
}

func (s *stream) varLen() (uint32, int, error) {
	return ReadVarLen(s)
}

// magic reads a four byte chunk id and compares it with want
func (s *stream) magic(want string) error {
	b, err := s.read(4)
	if err != nil {
		return err
	}
	if string(b) != want {
		return fmt.Errorf("%w: got %q, want %q", ErrBadMagic, b, want)
	}
	return nil
}
