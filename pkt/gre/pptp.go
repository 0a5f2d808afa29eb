package gre

import (
	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ether"
)

// GreForPPTP is the RFC 2637 Enhanced GRE header used to carry PPTP:
// C R K S s Recur(3) in byte 0, A Flags(4) Ver(3) in byte 1, protocol
// type, a combined 32-bit key field split into a 16-bit payload length
// and 16-bit call ID (per Open Question decision 2 in the design
// ledger), an optional sequence number, and an optional acknowledgment
// number.
type GreForPPTP[T pkt.Buf] struct{ buf T }

var HeaderForPPTPTemplate = [8]byte{0x20, 0x01, 0x88, 0x0b, 0x00, 0x00, 0x00, 0x00}

func GreForPPTPParseUnchecked[T pkt.Buf](buf T) GreForPPTP[T] { return GreForPPTP[T]{buf} }

func GreForPPTPParse[T pkt.Buf](buf T) (GreForPPTP[T], bool) {
	if len(buf.Chunk()) < 8 {
		var zero GreForPPTP[T]
		return zero, false
	}
	g := GreForPPTP[T]{buf}
	if len(buf.Chunk()) >= g.HeaderLen() {
		return g, true
	}
	var zero GreForPPTP[T]
	return zero, false
}

func (g GreForPPTP[T]) Buf() T     { return g.buf }
func (g GreForPPTP[T]) Release() T { return g.buf }

func (g GreForPPTP[T]) ChecksumPresent() bool   { return g.buf.Chunk()[0]&0x80 != 0 }
func (g GreForPPTP[T]) RoutingPresent() bool    { return g.buf.Chunk()[0]&0x40 != 0 }
func (g GreForPPTP[T]) KeyPresent() bool        { return g.buf.Chunk()[0]&0x20 != 0 }
func (g GreForPPTP[T]) SequencePresent() bool   { return g.buf.Chunk()[0]&0x10 != 0 }
func (g GreForPPTP[T]) StrictSourceRoute() bool { return g.buf.Chunk()[0]&0x08 != 0 }
func (g GreForPPTP[T]) RecursionControl() uint8 { return g.buf.Chunk()[0] & 0x07 }
func (g GreForPPTP[T]) AckPresent() bool        { return g.buf.Chunk()[1]&0x80 != 0 }
func (g GreForPPTP[T]) Flags() uint8            { return (g.buf.Chunk()[1] >> 3) & 0x0f }
func (g GreForPPTP[T]) Version() uint8          { return g.buf.Chunk()[1] & 0x07 }
func (g GreForPPTP[T]) ProtocolType() ether.Type { return ether.Type(pkt.GetU16(g.buf.Chunk()[2:4])) }
func (g GreForPPTP[T]) PayloadLen() uint16      { return pkt.GetU16(g.buf.Chunk()[4:6]) }
func (g GreForPPTP[T]) KeyCallID() uint16       { return pkt.GetU16(g.buf.Chunk()[6:8]) }

// HeaderLen is 8 bytes fixed (the key field, split into payload_len and
// call_id, is mandatory per RFC 2637) plus 4 if sequence present plus 4
// if ack present.
func (g GreForPPTP[T]) HeaderLen() int {
	n := 8
	if g.SequencePresent() {
		n += 4
	}
	if g.AckPresent() {
		n += 4
	}
	return n
}

func (g GreForPPTP[T]) Sequence() uint32 {
	if !g.SequencePresent() {
		panic("gre: GreForPPTP.Sequence: not present")
	}
	return pkt.GetU32(g.buf.Chunk()[8:12])
}
func (g GreForPPTP[T]) Ack() uint32 {
	off := 8
	if g.SequencePresent() {
		off += 4
	}
	if !g.AckPresent() {
		panic("gre: GreForPPTP.Ack: not present")
	}
	return pkt.GetU32(g.buf.Chunk()[off : off+4])
}

func GreForPPTPPayload[T pkt.PktBuf](g GreForPPTP[T]) T {
	buf := g.buf
	buf.Advance(g.HeaderLen())
	return buf
}

func SetAckPresentPPTP[T pkt.PktBufMut](g GreForPPTP[T], v bool) { setBit(g.buf.ChunkMut(), 1, 0x80, v) }
func SetKeyPresentPPTP[T pkt.PktBufMut](g GreForPPTP[T], v bool) { setBit(g.buf.ChunkMut(), 0, 0x20, v) }
func SetSequencePresentPPTP[T pkt.PktBufMut](g GreForPPTP[T], v bool) {
	setBit(g.buf.ChunkMut(), 0, 0x10, v)
}
func SetFlagsPPTP[T pkt.PktBufMut](g GreForPPTP[T], v uint8) {
	if v > 0xf {
		panic("gre: SetFlagsPPTP: value exceeds 4 bits")
	}
	c := g.buf.ChunkMut()
	c[1] = (c[1] & 0x87) | (v << 3)
}
func SetVersionPPTP[T pkt.PktBufMut](g GreForPPTP[T], v uint8) {
	if v > 0x7 {
		panic("gre: SetVersionPPTP: value exceeds 3 bits")
	}
	c := g.buf.ChunkMut()
	c[1] = (c[1] &^ 0x07) | v
}
func SetProtocolTypePPTP[T pkt.PktBufMut](g GreForPPTP[T], v ether.Type) {
	pkt.PutU16(g.buf.ChunkMut()[2:4], uint16(v))
}
func SetPayloadLen[T pkt.PktBufMut](g GreForPPTP[T], v uint16) {
	pkt.PutU16(g.buf.ChunkMut()[4:6], v)
}
func SetKeyCallID[T pkt.PktBufMut](g GreForPPTP[T], v uint16) {
	pkt.PutU16(g.buf.ChunkMut()[6:8], v)
}
func SetSequencePPTP[T pkt.PktBufMut](g GreForPPTP[T], v uint32) {
	pkt.PutU32(g.buf.ChunkMut()[8:12], v)
}
func SetAckPPTP[T pkt.PktBufMut](g GreForPPTP[T], v uint32) {
	off := 8
	if g.SequencePresent() {
		off += 4
	}
	pkt.PutU32(g.buf.ChunkMut()[off:off+4], v)
}

func GreForPPTPPrependHeader[T pkt.PktBufMut](buf T, header []byte) GreForPPTP[T] {
	headerLen := len(header)
	if buf.ChunkHeadroom() < headerLen {
		panic("gre: GreForPPTPPrependHeader: insufficient headroom")
	}
	buf.MoveBack(headerLen)
	copy(buf.ChunkMut()[0:headerLen], header)
	return GreForPPTP[T]{buf}
}

// PPTP is the 4-byte PPP-over-GRE payload header RFC 2637's GRE v1
// carries: a fixed HDLC-style address/control pair followed by a PPP
// protocol field.
type PPTP[T pkt.Buf] struct{ buf T }

const PPTPHeaderLen = 4

var PPTPHeaderTemplate = [PPTPHeaderLen]byte{0xff, 0x03, 0x00, 0x21}

func PPTPParseUnchecked[T pkt.Buf](buf T) PPTP[T] { return PPTP[T]{buf} }

func PPTPParse[T pkt.Buf](buf T) (PPTP[T], bool) {
	if len(buf.Chunk()) < PPTPHeaderLen {
		var zero PPTP[T]
		return zero, false
	}
	return PPTP[T]{buf}, true
}

func (p PPTP[T]) Buf() T          { return p.buf }
func (p PPTP[T]) Release() T      { return p.buf }
func (p PPTP[T]) Address() uint8  { return p.buf.Chunk()[0] }
func (p PPTP[T]) Control() uint8  { return p.buf.Chunk()[1] }
func (p PPTP[T]) Protocol() uint16 { return pkt.GetU16(p.buf.Chunk()[2:4]) }

func PPTPPayload[T pkt.PktBuf](p PPTP[T]) T {
	buf := p.buf
	buf.Advance(PPTPHeaderLen)
	return buf
}

func SetAddress[T pkt.PktBufMut](p PPTP[T], v uint8) { p.buf.ChunkMut()[0] = v }
func SetControl[T pkt.PktBufMut](p PPTP[T], v uint8) { p.buf.ChunkMut()[1] = v }
func SetProtocol[T pkt.PktBufMut](p PPTP[T], v uint16) { pkt.PutU16(p.buf.ChunkMut()[2:4], v) }

func PPTPPrependHeader[T pkt.PktBufMut](buf T, header *[PPTPHeaderLen]byte) PPTP[T] {
	if buf.ChunkHeadroom() < PPTPHeaderLen {
		panic("gre: PPTPPrependHeader: insufficient headroom")
	}
	buf.MoveBack(PPTPHeaderLen)
	copy(buf.ChunkMut()[0:PPTPHeaderLen], header[:])
	return PPTP[T]{buf}
}

// Group is the result of GroupParse's version-based dispatch.
type Group int

const (
	GroupGre Group = iota
	GroupGreForPPTP
)

// GroupParse inspects the 3-bit version field (present in both layouts
// at the same byte offset) and returns which variant buf holds,
// mirroring original_source's GreGroup::group_parse. Callers re-parse
// buf through GreParse or GreForPPTPParse once they know the variant,
// since the two header shapes diverge from byte 4 onward.
func GroupParse[T pkt.Buf](buf T) (Group, bool) {
	if len(buf.Chunk()) < 2 {
		return 0, false
	}
	switch buf.Chunk()[1] & 0x07 {
	case 0:
		return GroupGre, true
	case 1:
		return GroupGreForPPTP, true
	default:
		return 0, false
	}
}
