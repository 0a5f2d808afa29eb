// Package gre implements the GRE v0 (RFC 2784/2890) and the PPTP-style
// GRE v1 (RFC 2637) header views, plus a minimal PPTP payload header,
// grounded on original_source/rpkt/tests/gre_test.rs (no dedicated GRE
// source file survived distillation into the pack — the wire layout
// below is reconstructed from that test's field-by-field assertions).
package gre

import (
	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ether"
)

// Gre is the RFC 2784/2890 GRE header: a 4-byte fixed part followed by
// an optional 4-byte checksum+reserved1 pair (present when either
// ChecksumPresent or RoutingPresent is set), an optional 4-byte key
// (RFC 2890), and an optional 4-byte sequence number.
type Gre[T pkt.Buf] struct{ buf T }

var HeaderTemplate = [4]byte{0x00, 0x00, 0x08, 0x00}

func GreParseUnchecked[T pkt.Buf](buf T) Gre[T] { return Gre[T]{buf} }

func GreParse[T pkt.Buf](buf T) (Gre[T], bool) {
	if len(buf.Chunk()) < 4 {
		var zero Gre[T]
		return zero, false
	}
	g := Gre[T]{buf}
	if len(buf.Chunk()) >= g.HeaderLen() {
		return g, true
	}
	var zero Gre[T]
	return zero, false
}

func (g Gre[T]) Buf() T     { return g.buf }
func (g Gre[T]) Release() T { return g.buf }

func (g Gre[T]) ChecksumPresent() bool  { return g.buf.Chunk()[0]&0x80 != 0 }
func (g Gre[T]) RoutingPresent() bool   { return g.buf.Chunk()[0]&0x40 != 0 }
func (g Gre[T]) KeyPresent() bool       { return g.buf.Chunk()[0]&0x20 != 0 }
func (g Gre[T]) SequencePresent() bool  { return g.buf.Chunk()[0]&0x10 != 0 }
func (g Gre[T]) StrictSourceRoute() bool { return g.buf.Chunk()[0]&0x08 != 0 }
func (g Gre[T]) RecursionControl() uint8 { return g.buf.Chunk()[0] & 0x07 }
func (g Gre[T]) Flags() uint8            { return g.buf.Chunk()[1] >> 3 }
func (g Gre[T]) Version() uint8          { return g.buf.Chunk()[1] & 0x07 }
func (g Gre[T]) ProtocolType() ether.Type { return ether.Type(pkt.GetU16(g.buf.Chunk()[2:4])) }

// HeaderLen computes the variable total header length from the
// presence flags: 4 bytes fixed, +4 if checksum-or-routing, +4 if key,
// +4 if sequence.
func (g Gre[T]) HeaderLen() int {
	n := 4
	if g.ChecksumPresent() || g.RoutingPresent() {
		n += 4
	}
	if g.KeyPresent() {
		n += 4
	}
	if g.SequencePresent() {
		n += 4
	}
	return n
}

func (g Gre[T]) optOffset() int {
	return 4
}

func (g Gre[T]) Checksum() uint16 {
	if !g.ChecksumPresent() && !g.RoutingPresent() {
		panic("gre: Checksum: not present")
	}
	return pkt.GetU16(g.buf.Chunk()[4:6])
}
func (g Gre[T]) Offset() uint16 {
	if !g.ChecksumPresent() && !g.RoutingPresent() {
		panic("gre: Offset: not present")
	}
	return pkt.GetU16(g.buf.Chunk()[6:8])
}

func (g Gre[T]) Key() uint32 {
	off := g.optOffset()
	if g.ChecksumPresent() || g.RoutingPresent() {
		off += 4
	}
	if !g.KeyPresent() {
		panic("gre: Key: not present")
	}
	return pkt.GetU32(g.buf.Chunk()[off : off+4])
}

func (g Gre[T]) Sequence() uint32 {
	off := g.optOffset()
	if g.ChecksumPresent() || g.RoutingPresent() {
		off += 4
	}
	if g.KeyPresent() {
		off += 4
	}
	if !g.SequencePresent() {
		panic("gre: Sequence: not present")
	}
	return pkt.GetU32(g.buf.Chunk()[off : off+4])
}

func GrePayload[T pkt.PktBuf](g Gre[T]) T {
	buf := g.buf
	buf.Advance(g.HeaderLen())
	return buf
}

func SetChecksumPresent[T pkt.PktBufMut](g Gre[T], v bool) { setBit(g.buf.ChunkMut(), 0, 0x80, v) }
func SetRoutingPresent[T pkt.PktBufMut](g Gre[T], v bool)  { setBit(g.buf.ChunkMut(), 0, 0x40, v) }
func SetKeyPresent[T pkt.PktBufMut](g Gre[T], v bool)      { setBit(g.buf.ChunkMut(), 0, 0x20, v) }
func SetSequencePresent[T pkt.PktBufMut](g Gre[T], v bool) { setBit(g.buf.ChunkMut(), 0, 0x10, v) }
func SetStrictSourceRoute[T pkt.PktBufMut](g Gre[T], v bool) { setBit(g.buf.ChunkMut(), 0, 0x08, v) }
func SetRecursionControl[T pkt.PktBufMut](g Gre[T], v uint8) {
	if v > 0x7 {
		panic("gre: SetRecursionControl: value exceeds 3 bits")
	}
	c := g.buf.ChunkMut()
	c[0] = (c[0] &^ 0x07) | v
}
func SetFlags[T pkt.PktBufMut](g Gre[T], v uint8) {
	if v > 0x1f {
		panic("gre: SetFlags: value exceeds 5 bits")
	}
	c := g.buf.ChunkMut()
	c[1] = (c[1] & 0x07) | (v << 3)
}
func SetVersion[T pkt.PktBufMut](g Gre[T], v uint8) {
	if v > 0x7 {
		panic("gre: SetVersion: value exceeds 3 bits")
	}
	c := g.buf.ChunkMut()
	c[1] = (c[1] &^ 0x07) | v
}
func SetProtocolType[T pkt.PktBufMut](g Gre[T], v ether.Type) {
	pkt.PutU16(g.buf.ChunkMut()[2:4], uint16(v))
}
func SetChecksum[T pkt.PktBufMut](g Gre[T], v uint16) { pkt.PutU16(g.buf.ChunkMut()[4:6], v) }
func SetOffset[T pkt.PktBufMut](g Gre[T], v uint16)   { pkt.PutU16(g.buf.ChunkMut()[6:8], v) }
func SetKey[T pkt.PktBufMut](g Gre[T], v uint32) {
	off := 4
	if g.ChecksumPresent() || g.RoutingPresent() {
		off += 4
	}
	pkt.PutU32(g.buf.ChunkMut()[off:off+4], v)
}
func SetSequence[T pkt.PktBufMut](g Gre[T], v uint32) {
	off := 4
	if g.ChecksumPresent() || g.RoutingPresent() {
		off += 4
	}
	if g.KeyPresent() {
		off += 4
	}
	pkt.PutU32(g.buf.ChunkMut()[off:off+4], v)
}

// GrePrependHeader writes header (whose declared presence flags encode
// header's own length) into the buffer's headroom.
func GrePrependHeader[T pkt.PktBufMut](buf T, header []byte) Gre[T] {
	headerLen := len(header)
	if buf.ChunkHeadroom() < headerLen {
		panic("gre: GrePrependHeader: insufficient headroom")
	}
	buf.MoveBack(headerLen)
	copy(buf.ChunkMut()[0:headerLen], header)
	return Gre[T]{buf}
}

func setBit(c []byte, idx int, mask byte, v bool) {
	if v {
		c[idx] |= mask
	} else {
		c[idx] &^= mask
	}
}
