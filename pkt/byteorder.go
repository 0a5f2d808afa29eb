package pkt

import "encoding/binary"

// All multi-byte integer fields carried by the protocols in this repository
// are big-endian (network byte order); these thin wrappers exist so that
// protocol views never import encoding/binary directly and the wire-order
// convention is stated in exactly one place.

func GetU16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func GetU32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func GetU64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }

func PutU16(b []byte, v uint16) { binary.BigEndian.PutUint16(b, v) }
func PutU32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }
func PutU64(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }

// GetU24/PutU24 handle the 24-bit big-endian fields that show up in a few
// formats (e.g. VXLAN VNI, GTPv2 sequence number).
func GetU24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func PutU24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}
