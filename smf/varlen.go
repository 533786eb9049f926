package smf

import "io"

// maxVarLenBytes is the longest quantity SMF allows (0x0FFFFFFF)
const maxVarLenBytes = 4

// ReadVarLen decodes one variable-length quantity, most significant 7-bit
// group first. n is the number of bytes consumed and is at least 1 on success
func ReadVarLen(r io.ByteReader) (value uint32, n int, err error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, n, readErr(err)
		}
		n++
		value = value<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, n, nil
		}
		if n == maxVarLenBytes {
			return 0, n, ErrMalformedEvent
		}
	}
}

// AppendVarLen appends the variable-length encoding of v to dst.
// Values above 0x0FFFFFFF are truncated to their low 28 bits
func AppendVarLen(dst []byte, v uint32) []byte {
	v &= 0x0FFFFFFF
	var buf [maxVarLenBytes]byte
	i := len(buf) - 1
	buf[i] = byte(v & 0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		buf[i] = byte(v&0x7F) | 0x80
	}
	return append(dst, buf[i:]...)
}

// VarLenSize reports how many bytes AppendVarLen would write for v
func VarLenSize(v uint32) int {
	n := 1
	for v &= 0x0FFFFFFF; v > 0x7F; v >>= 7 {
		n++
	}
	return n
}
