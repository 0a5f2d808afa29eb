// Package gtpv2 implements the GTPv2-C header and information-element
// views (3GPP TS 29.274). The header view is grounded on the field
// semantics exercised by original_source/rpkt/tests/gtpv2_test.rs (no
// generated.rs survived distillation for this protocol, unlike gtpv1);
// the IE layer is grounded on original_source/rpkt/src/gtpv2/uli.rs for
// the User Location Info sub-record breakdown and on the same test file
// for every other IE's field layout and 3GPP-standard type code.
package gtpv2

import "go.netpkt.dev/netpkt/pkt"

// HeaderLen is the maximum (TEID-present) fixed header length; the
// mandatory part is 4 bytes, growing to 8 once the TEID field is
// present, plus 4 bytes of sequence number/spare in both cases.
const HeaderLen = 12

var HeaderTemplate = [HeaderLen]byte{0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

// Gtpv2 is the GTPv2-C header: version/flags byte, message type, a
// 2-byte message length (the "Length" field, counting everything after
// itself), an optional 4-byte TEID, a 3-byte sequence number, and either
// a spare byte or (if MessagePriorityPresent) a 4-bit priority plus a
// 4-bit spare nibble.
type Gtpv2[T pkt.Buf] struct{ buf T }

func ParseUnchecked[T pkt.Buf](buf T) Gtpv2[T] { return Gtpv2[T]{buf} }

func Parse[T pkt.Buf](buf T) (Gtpv2[T], bool) {
	if len(buf.Chunk()) < 4 {
		var zero Gtpv2[T]
		return zero, false
	}
	g := Gtpv2[T]{buf}
	hl := g.HeaderLen()
	if hl > len(buf.Chunk()) || int(g.PacketLen()) > buf.Remaining() {
		var zero Gtpv2[T]
		return zero, false
	}
	return g, true
}

func (g Gtpv2[T]) Buf() T     { return g.buf }
func (g Gtpv2[T]) Release() T { return g.buf }

func (g Gtpv2[T]) Version() uint8                  { return g.buf.Chunk()[0] >> 5 }
func (g Gtpv2[T]) PiggybackingFlag() bool          { return g.buf.Chunk()[0]&0x10 != 0 }
func (g Gtpv2[T]) TEIDPresent() bool               { return g.buf.Chunk()[0]&0x08 != 0 }
func (g Gtpv2[T]) MessagePriorityPresent() bool    { return g.buf.Chunk()[0]&0x04 != 0 }
func (g Gtpv2[T]) MessageType() uint8              { return g.buf.Chunk()[1] }

// PacketLen is the on-wire Length field plus 4 (the mandatory
// version/type/length prefix it does not itself count).
func (g Gtpv2[T]) PacketLen() uint32 { return uint32(pkt.GetU16(g.buf.Chunk()[2:4])) + 4 }

// HeaderLen is 8 (4 fixed + 4 seq/spare) or 12 (+4 TEID) depending on
// TEIDPresent; MessagePriorityPresent repacks the trailing byte but does
// not change the total length.
func (g Gtpv2[T]) HeaderLen() int {
	if g.TEIDPresent() {
		return 12
	}
	return 8
}

func (g Gtpv2[T]) TEID() uint32 {
	if !g.TEIDPresent() {
		panic("gtpv2: TEID: not present")
	}
	return pkt.GetU32(g.buf.Chunk()[4:8])
}

func (g Gtpv2[T]) seqOffset() int {
	if g.TEIDPresent() {
		return 8
	}
	return 4
}

func (g Gtpv2[T]) SeqNumber() uint32 {
	off := g.seqOffset()
	return pkt.GetU24(g.buf.Chunk()[off : off+3])
}

func (g Gtpv2[T]) MessagePriority() uint8 {
	if !g.MessagePriorityPresent() {
		panic("gtpv2: MessagePriority: not present")
	}
	return g.buf.Chunk()[g.seqOffset()+3] >> 4
}

func Payload[T pkt.PktBuf](g Gtpv2[T]) T {
	pl := int(g.PacketLen())
	buf := g.buf
	trim := buf.Remaining() - pl
	if trim > 0 {
		buf.TrimOff(trim)
	}
	buf.Advance(g.HeaderLen())
	return buf
}

func SetVersion[T pkt.PktBufMut](g Gtpv2[T], v uint8) {
	if v > 0x7 {
		panic("gtpv2: SetVersion: value exceeds 3 bits")
	}
	c := g.buf.ChunkMut()
	c[0] = (c[0] & 0x1f) | (v << 5)
}
func SetPiggybackingFlag[T pkt.PktBufMut](g Gtpv2[T], v bool) { setBit(g.buf.ChunkMut(), 0, 0x10, v) }
func SetTEIDPresent[T pkt.PktBufMut](g Gtpv2[T], v bool)      { setBit(g.buf.ChunkMut(), 0, 0x08, v) }
func SetMessagePriorityPresent[T pkt.PktBufMut](g Gtpv2[T], v bool) {
	setBit(g.buf.ChunkMut(), 0, 0x04, v)
}
func SetMessageType[T pkt.PktBufMut](g Gtpv2[T], v uint8) { g.buf.ChunkMut()[1] = v }
func SetPacketLen[T pkt.PktBufMut](g Gtpv2[T], v uint32) {
	if v < 4 {
		panic("gtpv2: SetPacketLen: out of range")
	}
	pkt.PutU16(g.buf.ChunkMut()[2:4], uint16(v-4))
}
func SetTEID[T pkt.PktBufMut](g Gtpv2[T], v uint32) {
	if !g.TEIDPresent() {
		panic("gtpv2: SetTEID: not present")
	}
	pkt.PutU32(g.buf.ChunkMut()[4:8], v)
}
func SetSeqNumber[T pkt.PktBufMut](g Gtpv2[T], v uint32) {
	off := g.seqOffset()
	pkt.PutU24(g.buf.ChunkMut()[off:off+3], v)
}

func PrependHeader[T pkt.PktBufMut](buf T, header []byte) Gtpv2[T] {
	headerLen := len(header)
	if headerLen > buf.ChunkHeadroom() {
		panic("gtpv2: PrependHeader: insufficient headroom")
	}
	buf.MoveBack(headerLen)
	copy(buf.ChunkMut()[0:headerLen], header)
	g := Gtpv2[T]{buf}
	SetPacketLen[T](g, uint32(buf.Remaining()))
	return g
}

func setBit(c []byte, idx int, mask byte, v bool) {
	if v {
		c[idx] |= mask
	} else {
		c[idx] &^= mask
	}
}
