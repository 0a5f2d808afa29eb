package ether

import "go.netpkt.dev/netpkt/pkt"

// Dot3HeaderLen is identical in size to Ethernet II; the 2-byte field after
// the addresses carries a frame length (<=1500) instead of an ethertype.
const Dot3HeaderLen = 14

var Dot3HeaderTemplate = [Dot3HeaderLen]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0e,
}

// Dot3Packet is the 802.3 view: same address layout as Packet, but the
// trailing 2 bytes are a payload length, and Payload (unlike Packet's) trims
// any trailing padding beyond that declared length.
type Dot3Packet[T pkt.Buf] struct{ buf T }

func Dot3ParseUnchecked[T pkt.Buf](buf T) Dot3Packet[T] { return Dot3Packet[T]{buf} }

func Dot3Parse[T pkt.PktBuf](buf T) (Dot3Packet[T], bool) {
	if len(buf.Chunk()) < Dot3HeaderLen {
		var zero Dot3Packet[T]
		return zero, false
	}
	c := Dot3Packet[T]{buf}
	if int(c.PayloadLen())+Dot3HeaderLen > buf.Remaining() {
		var zero Dot3Packet[T]
		return zero, false
	}
	return c, true
}

func (p Dot3Packet[T]) Buf() T     { return p.buf }
func (p Dot3Packet[T]) Release() T { return p.buf }

func (p Dot3Packet[T]) DstAddr() Addr     { return AddrFromBytes(p.buf.Chunk()[0:6]) }
func (p Dot3Packet[T]) SrcAddr() Addr     { return AddrFromBytes(p.buf.Chunk()[6:12]) }
func (p Dot3Packet[T]) PayloadLen() uint16 { return pkt.GetU16(p.buf.Chunk()[12:14]) }

// Payload trims any bytes beyond the declared payload length, then advances
// past the fixed header.
func Dot3Payload[T pkt.PktBuf](p Dot3Packet[T]) T {
	total := Dot3HeaderLen + int(p.PayloadLen())
	if total > p.buf.Remaining() {
		panic("ether: Dot3Payload: payload_len exceeds remaining")
	}
	buf := p.buf
	if trim := buf.Remaining() - total; trim > 0 {
		buf.TrimOff(trim)
	}
	buf.Advance(Dot3HeaderLen)
	return buf
}

func Dot3SetDstAddr[T pkt.PktBufMut](p Dot3Packet[T], value Addr) {
	copy(p.buf.ChunkMut()[0:6], value[:])
}
func Dot3SetSrcAddr[T pkt.PktBufMut](p Dot3Packet[T], value Addr) {
	copy(p.buf.ChunkMut()[6:12], value[:])
}
func Dot3SetPayloadLen[T pkt.PktBufMut](p Dot3Packet[T], value uint16) {
	pkt.PutU16(p.buf.ChunkMut()[12:14], value)
}

// Dot3PrependHeader sets the payload length from buf.Remaining() at prepend
// time, matching the wire contract (frame length must reflect the actual
// payload).
func Dot3PrependHeader[T pkt.PktBufMut](buf T, header *[Dot3HeaderLen]byte) Dot3Packet[T] {
	if buf.ChunkHeadroom() < Dot3HeaderLen {
		panic("ether: Dot3PrependHeader: insufficient headroom")
	}
	payloadLen := buf.Remaining()
	if payloadLen > 65535 {
		panic("ether: Dot3PrependHeader: payload exceeds 65535 bytes")
	}
	buf.MoveBack(Dot3HeaderLen)
	copy(buf.ChunkMut()[0:Dot3HeaderLen], header[:])
	c := Dot3Packet[T]{buf}
	Dot3SetPayloadLen[T](c, uint16(payloadLen))
	return c
}
