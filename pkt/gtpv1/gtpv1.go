// Package gtpv1 implements the GTPv1-U header view (3GPP TS 29.060),
// grounded on original_source/rpkt/src/gtpv1/generated.rs.
package gtpv1

import "go.netpkt.dev/netpkt/pkt"

const HeaderLen = 8

var HeaderTemplate = [HeaderLen]byte{0x30, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

// Gtpv1 is the GTPv1 header: an 8-byte fixed part (flags, message type,
// message length, TEID) followed by an optional 4-byte extension
// (sequence number, N-PDU number, next extension header type) present
// whenever any of the three corresponding flag bits is set.
type Gtpv1[T pkt.Buf] struct{ buf T }

func ParseUnchecked[T pkt.Buf](buf T) Gtpv1[T] { return Gtpv1[T]{buf} }

func Parse[T pkt.Buf](buf T) (Gtpv1[T], bool) {
	if len(buf.Chunk()) < HeaderLen {
		var zero Gtpv1[T]
		return zero, false
	}
	g := Gtpv1[T]{buf}
	hl := g.HeaderLen()
	if hl < HeaderLen || hl > len(buf.Chunk()) {
		var zero Gtpv1[T]
		return zero, false
	}
	return g, true
}

func (g Gtpv1[T]) Buf() T     { return g.buf }
func (g Gtpv1[T]) Release() T { return g.buf }

func (g Gtpv1[T]) FixHeaderSlice() []byte { return g.buf.Chunk()[0:HeaderLen] }
func (g Gtpv1[T]) VarHeaderSlice() []byte { return g.buf.Chunk()[HeaderLen:g.HeaderLen()] }

func (g Gtpv1[T]) Version() uint8               { return g.buf.Chunk()[0] >> 5 }
func (g Gtpv1[T]) ProtocolType() uint8           { return (g.buf.Chunk()[0] >> 4) & 0x1 }
func (g Gtpv1[T]) Reserved() uint8               { return (g.buf.Chunk()[0] >> 3) & 0x1 }
func (g Gtpv1[T]) ExtensionHeaderPresent() bool  { return g.buf.Chunk()[0]&0x4 != 0 }
func (g Gtpv1[T]) SequencePresent() bool         { return g.buf.Chunk()[0]&0x2 != 0 }
func (g Gtpv1[T]) NPDUPresent() bool             { return g.buf.Chunk()[0]&0x1 != 0 }
func (g Gtpv1[T]) MessageType() uint8            { return g.buf.Chunk()[1] }
func (g Gtpv1[T]) MessageLen() uint16            { return pkt.GetU16(g.buf.Chunk()[2:4]) }
func (g Gtpv1[T]) TEID() uint32                  { return pkt.GetU32(g.buf.Chunk()[4:8]) }

func (g Gtpv1[T]) anyOptFlag() bool {
	return g.SequencePresent() || g.ExtensionHeaderPresent() || g.NPDUPresent()
}

// HeaderLen is 12 when any of sequence/extension/N-PDU is present, else 8.
func (g Gtpv1[T]) HeaderLen() int {
	if g.anyOptFlag() {
		return 12
	}
	return 8
}

func (g Gtpv1[T]) Sequence() uint16 {
	if !g.anyOptFlag() {
		panic("gtpv1: Sequence: optional header not present")
	}
	return pkt.GetU16(g.buf.Chunk()[8:10])
}
func (g Gtpv1[T]) NPDU() uint8 {
	if !g.anyOptFlag() {
		panic("gtpv1: NPDU: optional header not present")
	}
	return g.buf.Chunk()[10]
}
func (g Gtpv1[T]) NextExtensionHeader() uint8 {
	if !g.anyOptFlag() {
		panic("gtpv1: NextExtensionHeader: optional header not present")
	}
	return g.buf.Chunk()[11]
}

func Payload[T pkt.PktBuf](g Gtpv1[T]) T {
	buf := g.buf
	buf.Advance(g.HeaderLen())
	return buf
}

func VarHeaderSliceMut[T pkt.PktBufMut](g Gtpv1[T]) []byte {
	return g.buf.ChunkMut()[HeaderLen:g.HeaderLen()]
}

func SetVersion[T pkt.PktBufMut](g Gtpv1[T], v uint8) {
	if v > 0x7 {
		panic("gtpv1: SetVersion: out of range")
	}
	c := g.buf.ChunkMut()
	c[0] = (c[0] & 0x1f) | (v << 5)
}
func SetProtocolType[T pkt.PktBufMut](g Gtpv1[T], v uint8) {
	if v != 1 {
		panic("gtpv1: SetProtocolType: must be 1")
	}
	c := g.buf.ChunkMut()
	c[0] = (c[0] & 0xef) | (v << 4)
}
func SetReserved[T pkt.PktBufMut](g Gtpv1[T], v uint8) {
	if v > 0x1 {
		panic("gtpv1: SetReserved: out of range")
	}
	c := g.buf.ChunkMut()
	c[0] = (c[0] & 0xf7) | (v << 3)
}
func SetExtensionHeaderPresent[T pkt.PktBufMut](g Gtpv1[T], v bool) {
	setBit(g.buf.ChunkMut(), 0, 0x4, v)
}
func SetSequencePresent[T pkt.PktBufMut](g Gtpv1[T], v bool) { setBit(g.buf.ChunkMut(), 0, 0x2, v) }
func SetNPDUPresent[T pkt.PktBufMut](g Gtpv1[T], v bool)     { setBit(g.buf.ChunkMut(), 0, 0x1, v) }
func SetMessageType[T pkt.PktBufMut](g Gtpv1[T], v uint8)    { g.buf.ChunkMut()[1] = v }
func SetMessageLen[T pkt.PktBufMut](g Gtpv1[T], v uint16)    { pkt.PutU16(g.buf.ChunkMut()[2:4], v) }
func SetTEID[T pkt.PktBufMut](g Gtpv1[T], v uint32)          { pkt.PutU32(g.buf.ChunkMut()[4:8], v) }

func SetSequence[T pkt.PktBufMut](g Gtpv1[T], v uint16) {
	if !g.anyOptFlag() {
		panic("gtpv1: SetSequence: optional header not present")
	}
	pkt.PutU16(g.buf.ChunkMut()[8:10], v)
}
func SetNPDU[T pkt.PktBufMut](g Gtpv1[T], v uint8) {
	if !g.anyOptFlag() {
		panic("gtpv1: SetNPDU: optional header not present")
	}
	g.buf.ChunkMut()[10] = v
}
func SetNextExtensionHeader[T pkt.PktBufMut](g Gtpv1[T], v uint8) {
	if !g.anyOptFlag() {
		panic("gtpv1: SetNextExtensionHeader: optional header not present")
	}
	g.buf.ChunkMut()[11] = v
}

func PrependHeader[T pkt.PktBufMut](buf T, header []byte) Gtpv1[T] {
	headerLen := len(header)
	if headerLen < 8 || headerLen > buf.ChunkHeadroom() {
		panic("gtpv1: PrependHeader: bad header length")
	}
	buf.MoveBack(headerLen)
	copy(buf.ChunkMut()[0:headerLen], header)
	return Gtpv1[T]{buf}
}

func setBit(c []byte, idx int, mask byte, v bool) {
	if v {
		c[idx] |= mask
	} else {
		c[idx] &^= mask
	}
}
