// Package ipv6 implements the fixed 40-byte IPv6 header view (RFC 8200).
// Unlike ipv4.go, this package has no run-packet/rpkt source file to
// ground against — the reference pack only carries IPv6 extension
// headers (hopbyhop/destopts/routing/fragment) — so the fixed header is
// built directly from RFC 8200 §3 using the same weak-bound-struct
// pattern the rest of pkt uses.
package ipv6

import (
	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ipv4"
)

const HeaderLen = 40

var HeaderTemplate = [HeaderLen]byte{
	0x60, 0x00, 0x00, 0x00, 0x00, 0x00, 0x3b, 0x40,
}

type Addr [16]byte

func AddrFromBytes(b []byte) Addr {
	var a Addr
	copy(a[:], b)
	return a
}

type Packet[T pkt.Buf] struct{ buf T }

func ParseUnchecked[T pkt.Buf](buf T) Packet[T] { return Packet[T]{buf} }

func Parse[T pkt.Buf](buf T) (Packet[T], bool) {
	if len(buf.Chunk()) < HeaderLen {
		var zero Packet[T]
		return zero, false
	}
	p := Packet[T]{buf}
	if int(p.PayloadLen())+HeaderLen <= buf.Remaining() {
		return p, true
	}
	var zero Packet[T]
	return zero, false
}

func (p Packet[T]) Buf() T     { return p.buf }
func (p Packet[T]) Release() T { return p.buf }

func (p Packet[T]) CheckVersion() bool { return p.buf.Chunk()[0]>>4 == 6 }
func (p Packet[T]) TrafficClass() uint8 {
	c := p.buf.Chunk()
	return (c[0]&0xf)<<4 | c[1]>>4
}
func (p Packet[T]) FlowLabel() uint32 {
	c := p.buf.Chunk()
	return (uint32(c[1]&0xf) << 16) | (uint32(c[2]) << 8) | uint32(c[3])
}
func (p Packet[T]) PayloadLen() uint16       { return pkt.GetU16(p.buf.Chunk()[4:6]) }
func (p Packet[T]) NextHeader() ipv4.Protocol { return ipv4.Protocol(p.buf.Chunk()[6]) }
func (p Packet[T]) HopLimit() uint8          { return p.buf.Chunk()[7] }
func (p Packet[T]) SourceIP() Addr           { return AddrFromBytes(p.buf.Chunk()[8:24]) }
func (p Packet[T]) DestIP() Addr             { return AddrFromBytes(p.buf.Chunk()[24:40]) }

// Payload trims any trailing bytes beyond PayloadLen and advances past
// the fixed header. Extension headers, if present, are part of the
// payload from this header's point of view (RFC 8200 §4): callers that
// need to walk them use the hop-by-hop, destination-options, routing or
// fragment views of this package on the result.
func Payload[T pkt.PktBuf](p Packet[T]) T {
	total := HeaderLen + int(p.PayloadLen())
	if total > p.buf.Remaining() {
		panic("ipv6: Payload: payload_len exceeds remaining")
	}
	trim := p.buf.Remaining() - total
	buf := p.buf
	if trim > 0 {
		buf.TrimOff(trim)
	}
	buf.Advance(HeaderLen)
	return buf
}

func SetVersion[T pkt.PktBufMut](p Packet[T]) {
	c := p.buf.ChunkMut()
	c[0] = 0x60 | (c[0] & 0xf)
}
func SetTrafficClass[T pkt.PktBufMut](p Packet[T], v uint8) {
	c := p.buf.ChunkMut()
	c[0] = (c[0] & 0xf0) | (v >> 4)
	c[1] = (c[1] & 0x0f) | (v << 4)
}
func SetFlowLabel[T pkt.PktBufMut](p Packet[T], v uint32) {
	if v > 0xfffff {
		panic("ipv6: SetFlowLabel: value exceeds 20 bits")
	}
	c := p.buf.ChunkMut()
	c[1] = (c[1] & 0xf0) | byte(v>>16)
	c[2] = byte(v >> 8)
	c[3] = byte(v)
}
func SetPayloadLen[T pkt.PktBufMut](p Packet[T], v uint16) { pkt.PutU16(p.buf.ChunkMut()[4:6], v) }
func SetNextHeader[T pkt.PktBufMut](p Packet[T], v ipv4.Protocol) {
	p.buf.ChunkMut()[6] = byte(v)
}
func SetHopLimit[T pkt.PktBufMut](p Packet[T], v uint8) { p.buf.ChunkMut()[7] = v }
func SetSourceIP[T pkt.PktBufMut](p Packet[T], v Addr)  { copy(p.buf.ChunkMut()[8:24], v[:]) }
func SetDestIP[T pkt.PktBufMut](p Packet[T], v Addr)    { copy(p.buf.ChunkMut()[24:40], v[:]) }

// PrependHeader writes the 40-byte fixed header into the buffer's
// headroom and sets PayloadLen from the buffer's remaining length at
// prepend time (the fixed header itself is excluded from that count).
func PrependHeader[T pkt.PktBufMut](buf T, header *[HeaderLen]byte) Packet[T] {
	if buf.ChunkHeadroom() < HeaderLen {
		panic("ipv6: PrependHeader: insufficient headroom")
	}
	buf.MoveBack(HeaderLen)
	copy(buf.ChunkMut()[0:HeaderLen], header[:])
	p := Packet[T]{buf}
	SetPayloadLen[T](p, uint16(buf.Remaining()-HeaderLen))
	return p
}
