package smf

import (
	"bytes"
	"errors"
	"testing"

	"go-smfplay/internal/smftest"
)

func TestVarLenRoundTrip(t *testing.T) {
	values := []uint32{
		0, 1, 0x40, 0x7F,
		0x80, 0x2000, 0x3FFF,
		0x4000, 0x100000, 0x1FFFFF,
		0x200000, 0x8000000, 0x0FFFFFFF,
	}
	for _, v := range values {
		enc := AppendVarLen(nil, v)
		if want := smftest.VarLen(v); !bytes.Equal(enc, want) {
			t.Errorf("AppendVarLen(%#x) = % x, want % x", v, enc, want)
		}
		if VarLenSize(v) != len(enc) {
			t.Errorf("VarLenSize(%#x) = %d, want %d", v, VarLenSize(v), len(enc))
		}

		got, n, err := ReadVarLen(bytes.NewReader(enc))
		if err != nil {
			t.Fatalf("ReadVarLen(% x): %v", enc, err)
		}
		if got != v {
			t.Errorf("ReadVarLen(% x) = %#x, want %#x", enc, got, v)
		}
		if n != len(enc) {
			t.Errorf("ReadVarLen(% x) consumed %d bytes, want %d", enc, n, len(enc))
		}
	}
}

func TestVarLenStopsAtTerminator(t *testing.T) {
	r := bytes.NewReader([]byte{0x81, 0x00, 0x7F})
	v, n, err := ReadVarLen(r)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x80 || n != 2 {
		t.Errorf("got value %#x n %d, want 0x80 n 2", v, n)
	}
	if r.Len() != 1 {
		t.Errorf("reader has %d bytes left, want 1", r.Len())
	}
}

func TestVarLenErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", nil, ErrTruncatedStream},
		{"continuation at end", []byte{0x81}, ErrTruncatedStream},
		{"three continuations at end", []byte{0xFF, 0xFF, 0xFF}, ErrTruncatedStream},
		{"five bytes", []byte{0x81, 0x81, 0x81, 0x81, 0x01}, ErrMalformedEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadVarLen(bytes.NewReader(tt.in))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
