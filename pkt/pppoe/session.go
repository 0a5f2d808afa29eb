package pppoe

import "go.netpkt.dev/netpkt/pkt"

const SessionHeaderLen = 8

var SessionHeaderTemplate = [SessionHeaderLen]byte{0x11, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

// Session is the PPPoE session-stage header: version/type nibble, code,
// session ID, a payload-length field (packet_len reports payload length
// plus the 6-byte fixed header, matching generated.rs), and a PPP
// protocol (data_type) field.
type Session[T pkt.Buf] struct{ buf T }

func SessionParseUnchecked[T pkt.Buf](buf T) Session[T] { return Session[T]{buf} }

func SessionParse[T pkt.Buf](buf T) (Session[T], bool) {
	if len(buf.Chunk()) < SessionHeaderLen {
		var zero Session[T]
		return zero, false
	}
	s := Session[T]{buf}
	pl := int(s.PacketLen())
	if pl < SessionHeaderLen || pl > s.buf.Remaining() {
		var zero Session[T]
		return zero, false
	}
	return s, true
}

func (s Session[T]) Buf() T     { return s.buf }
func (s Session[T]) Release() T { return s.buf }

func (s Session[T]) HeaderSlice() []byte { return s.buf.Chunk()[:SessionHeaderLen] }

func (s Session[T]) Version() uint8   { return s.buf.Chunk()[0] >> 4 }
func (s Session[T]) Type() uint8      { return s.buf.Chunk()[0] & 0x0f }
func (s Session[T]) Code() Code       { return Code(s.buf.Chunk()[1]) }
func (s Session[T]) SessionID() uint16 { return pkt.GetU16(s.buf.Chunk()[2:4]) }
func (s Session[T]) DataType() uint16 { return pkt.GetU16(s.buf.Chunk()[6:8]) }

// PacketLen is the on-wire length field plus 6, matching generated.rs's
// packet_len (the RFC 2516 length field excludes the 6-byte ver/type,
// code, session-id and length prefix but this accessor reports it relative to the 8-byte fixed
// header's start for symmetry with Payload's trim arithmetic).
func (s Session[T]) PacketLen() uint32 { return uint32(pkt.GetU16(s.buf.Chunk()[4:6])) + 6 }

func SessionPayload[T pkt.PktBuf](s Session[T]) T {
	pl := int(s.PacketLen())
	buf := s.buf
	trim := buf.Remaining() - pl
	if trim > 0 {
		buf.TrimOff(trim)
	}
	buf.Advance(SessionHeaderLen)
	return buf
}

func SetVersion[T pkt.PktBufMut](s Session[T], v uint8) {
	if v != 1 {
		panic("pppoe: SetVersion: must be 1")
	}
	c := s.buf.ChunkMut()
	c[0] = (c[0] & 0x0f) | (v << 4)
}
func SetType[T pkt.PktBufMut](s Session[T], v uint8) {
	if v != 1 {
		panic("pppoe: SetType: must be 1")
	}
	c := s.buf.ChunkMut()
	c[0] = (c[0] & 0xf0) | v
}
func SetCode[T pkt.PktBufMut](s Session[T], v Code) {
	if v != CodeSession {
		panic("pppoe: Session.SetCode: must be CodeSession")
	}
	s.buf.ChunkMut()[1] = uint8(v)
}
func SetSessionID[T pkt.PktBufMut](s Session[T], v uint16) { pkt.PutU16(s.buf.ChunkMut()[2:4], v) }
func SetDataType[T pkt.PktBufMut](s Session[T], v uint16)  { pkt.PutU16(s.buf.ChunkMut()[6:8], v) }
func SetSessionPacketLen[T pkt.PktBufMut](s Session[T], v uint32) {
	if v < 6 || v > 65541 {
		panic("pppoe: SetSessionPacketLen: out of range")
	}
	pkt.PutU16(s.buf.ChunkMut()[4:6], uint16(v-6))
}

func SessionPrependHeader[T pkt.PktBufMut](buf T, header *[SessionHeaderLen]byte) Session[T] {
	if buf.ChunkHeadroom() < SessionHeaderLen {
		panic("pppoe: SessionPrependHeader: insufficient headroom")
	}
	buf.MoveBack(SessionHeaderLen)
	copy(buf.ChunkMut()[0:SessionHeaderLen], header[:])
	s := Session[T]{buf}
	SetSessionPacketLen[T](s, uint32(buf.Remaining()))
	return s
}

const DiscoveryHeaderLen = 6

var DiscoveryHeaderTemplate = [DiscoveryHeaderLen]byte{0x11, 0x65, 0x00, 0x00, 0x00, 0x00}

// Discovery is the PPPoE discovery-stage header (PADI/PADO/PADR/PADS/PADT),
// identical in layout to Session minus the trailing data_type field.
type Discovery[T pkt.Buf] struct{ buf T }

func DiscoveryParseUnchecked[T pkt.Buf](buf T) Discovery[T] { return Discovery[T]{buf} }

func DiscoveryParse[T pkt.Buf](buf T) (Discovery[T], bool) {
	if len(buf.Chunk()) < DiscoveryHeaderLen {
		var zero Discovery[T]
		return zero, false
	}
	d := Discovery[T]{buf}
	pl := int(d.PacketLen())
	if pl < DiscoveryHeaderLen || pl > d.buf.Remaining() {
		var zero Discovery[T]
		return zero, false
	}
	return d, true
}

func (d Discovery[T]) Buf() T     { return d.buf }
func (d Discovery[T]) Release() T { return d.buf }

func (d Discovery[T]) HeaderSlice() []byte { return d.buf.Chunk()[:DiscoveryHeaderLen] }

func (d Discovery[T]) Version() uint8    { return d.buf.Chunk()[0] >> 4 }
func (d Discovery[T]) Type() uint8       { return d.buf.Chunk()[0] & 0x0f }
func (d Discovery[T]) Code() Code        { return Code(d.buf.Chunk()[1]) }
func (d Discovery[T]) SessionID() uint16 { return pkt.GetU16(d.buf.Chunk()[2:4]) }
func (d Discovery[T]) PacketLen() uint32 { return uint32(pkt.GetU16(d.buf.Chunk()[4:6])) + 6 }

func DiscoveryPayload[T pkt.PktBuf](d Discovery[T]) T {
	pl := int(d.PacketLen())
	buf := d.buf
	trim := buf.Remaining() - pl
	if trim > 0 {
		buf.TrimOff(trim)
	}
	buf.Advance(DiscoveryHeaderLen)
	return buf
}

func SetDiscoveryVersion[T pkt.PktBufMut](d Discovery[T], v uint8) {
	if v != 1 {
		panic("pppoe: SetDiscoveryVersion: must be 1")
	}
	c := d.buf.ChunkMut()
	c[0] = (c[0] & 0x0f) | (v << 4)
}
func SetDiscoveryType[T pkt.PktBufMut](d Discovery[T], v uint8) {
	if v != 1 {
		panic("pppoe: SetDiscoveryType: must be 1")
	}
	c := d.buf.ChunkMut()
	c[0] = (c[0] & 0xf0) | v
}
func SetDiscoveryCode[T pkt.PktBufMut](d Discovery[T], v Code) { d.buf.ChunkMut()[1] = uint8(v) }
func SetDiscoverySessionID[T pkt.PktBufMut](d Discovery[T], v uint16) {
	pkt.PutU16(d.buf.ChunkMut()[2:4], v)
}
func SetDiscoveryPacketLen[T pkt.PktBufMut](d Discovery[T], v uint32) {
	if v < 6 || v > 65541 {
		panic("pppoe: SetDiscoveryPacketLen: out of range")
	}
	pkt.PutU16(d.buf.ChunkMut()[4:6], uint16(v-6))
}

func DiscoveryPrependHeader[T pkt.PktBufMut](buf T, header *[DiscoveryHeaderLen]byte) Discovery[T] {
	if buf.ChunkHeadroom() < DiscoveryHeaderLen {
		panic("pppoe: DiscoveryPrependHeader: insufficient headroom")
	}
	buf.MoveBack(DiscoveryHeaderLen)
	copy(buf.ChunkMut()[0:DiscoveryHeaderLen], header[:])
	d := Discovery[T]{buf}
	SetDiscoveryPacketLen[T](d, uint32(buf.Remaining()))
	return d
}

// Group is the result of GroupParse's code-based dispatch: byte 1 (the
// Code field) is 0x00 for Session and non-zero for every Discovery code,
// mirroring original_source's PppoeGroup::group_parse.
type Group int

const (
	GroupSession Group = iota
	GroupDiscovery
)

func GroupParse[T pkt.Buf](buf T) (Group, bool) {
	if len(buf.Chunk()) < 2 {
		return 0, false
	}
	if buf.Chunk()[1] == 0x00 {
		return GroupSession, true
	}
	return GroupDiscovery, true
}
