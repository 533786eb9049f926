package smf

import "encoding/binary"

// hostIsBigEndian is fixed at init and never written again
var hostIsBigEndian = func() bool {
	return binary.NativeEndian.Uint16([]byte{0x00, 0x01}) == 0x0001
}()

func swap16(v uint16) uint16 {
	return v<<8 | v>>8
}

func swap32(v uint32) uint32 {
	return v<<24 | (v<<8)&0x00FF0000 | (v>>8)&0x0000FF00 | v>>24
}

// fromBig16 converts two file-order bytes to a host value
func fromBig16(b []byte) uint16 {
	v := binary.NativeEndian.Uint16(b)
	if !hostIsBigEndian {
		v = swap16(v)
	}
	return v
}

// fromBig32 converts four file-order bytes to a host value
func fromBig32(b []byte) uint32 {
	v := binary.NativeEndian.Uint32(b)
	if !hostIsBigEndian {
		v = swap32(v)
	}
	return v
}
