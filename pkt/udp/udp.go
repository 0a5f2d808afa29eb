// Package udp implements the UDP header view and its IPv4/IPv6
// pseudo-header checksum.
package udp

import (
	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ipv4"
)

const HeaderLen = 8

var HeaderTemplate = [HeaderLen]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00}

type Packet[T pkt.Buf] struct{ buf T }

func ParseUnchecked[T pkt.Buf](buf T) Packet[T] { return Packet[T]{buf} }

func Parse[T pkt.Buf](buf T) (Packet[T], bool) {
	if len(buf.Chunk()) < HeaderLen {
		var zero Packet[T]
		return zero, false
	}
	p := Packet[T]{buf}
	if int(p.PacketLen()) >= HeaderLen && int(p.PacketLen()) <= buf.Remaining() {
		return p, true
	}
	var zero Packet[T]
	return zero, false
}

func (p Packet[T]) Buf() T     { return p.buf }
func (p Packet[T]) Release() T { return p.buf }

func (p Packet[T]) SourcePort() uint16 { return pkt.GetU16(p.buf.Chunk()[0:2]) }
func (p Packet[T]) DestPort() uint16   { return pkt.GetU16(p.buf.Chunk()[2:4]) }
func (p Packet[T]) PacketLen() uint16  { return pkt.GetU16(p.buf.Chunk()[4:6]) }
func (p Packet[T]) Checksum() uint16   { return pkt.GetU16(p.buf.Chunk()[6:8]) }

// CalcChecksum computes the checksum over the packet's declared length
// (header + payload), restoring the cursor afterward — works across a
// multi-segment Pbuf exactly as it does over a single CursorMut chunk.
func CalcChecksum[T pkt.PktBuf](p Packet[T]) uint16 {
	return pkt.ChecksumBuf(p.buf, int(p.PacketLen()))
}

func ipv4PseudoHeaderChecksum(src, dst ipv4.Addr, udpLen uint16) uint16 {
	var b [12]byte
	copy(b[0:4], src[:])
	copy(b[4:8], dst[:])
	b[8] = 0
	b[9] = byte(ipv4.ProtoUDP)
	pkt.PutU16(b[10:12], udpLen)
	return pkt.ChecksumSlice(b[:])
}

// VerifyIPv4Checksum reports whether the stored checksum (over an IPv4
// pseudo-header plus the UDP datagram) is valid. A stored checksum of 0
// means "no checksum" and is treated as always valid, per RFC 768.
func VerifyIPv4Checksum[T pkt.PktBuf](p Packet[T], src, dst ipv4.Addr) bool {
	if p.Checksum() == 0 {
		return true
	}
	phdr := ipv4PseudoHeaderChecksum(src, dst, p.PacketLen())
	cksum := pkt.Combine([]uint16{phdr, CalcChecksum[T](p)})
	return cksum == 0xffff
}

// Payload trims any trailing bytes beyond PacketLen and advances past the
// header.
func Payload[T pkt.PktBuf](p Packet[T]) T {
	if int(p.PacketLen()) > p.buf.Remaining() {
		panic("udp: Payload: packet_len exceeds remaining")
	}
	trim := p.buf.Remaining() - int(p.PacketLen())
	buf := p.buf
	if trim > 0 {
		buf.TrimOff(trim)
	}
	buf.Advance(HeaderLen)
	return buf
}

func SetSourcePort[T pkt.PktBufMut](p Packet[T], v uint16) { pkt.PutU16(p.buf.ChunkMut()[0:2], v) }
func SetDestPort[T pkt.PktBufMut](p Packet[T], v uint16)   { pkt.PutU16(p.buf.ChunkMut()[2:4], v) }
func SetPacketLen[T pkt.PktBufMut](p Packet[T], v uint16)  { pkt.PutU16(p.buf.ChunkMut()[4:6], v) }
func SetChecksum[T pkt.PktBufMut](p Packet[T], v uint16)   { pkt.PutU16(p.buf.ChunkMut()[6:8], v) }

// AdjustIPv4Checksum computes and stores the checksum against an IPv4
// pseudo-header, mapping an all-zero result to 0xffff (RFC 768: 0 means
// "no checksum").
func AdjustIPv4Checksum[T pkt.PktBufMut](p Packet[T], src, dst ipv4.Addr) {
	SetChecksum[T](p, 0)
	phdr := ipv4PseudoHeaderChecksum(src, dst, p.PacketLen())
	cksum := ^pkt.Combine([]uint16{phdr, CalcChecksum[T](p)})
	if cksum == 0 {
		cksum = 0xffff
	}
	SetChecksum[T](p, cksum)
}

func PrependHeader[T pkt.PktBufMut](buf T, header *[HeaderLen]byte) Packet[T] {
	if buf.ChunkHeadroom() < HeaderLen {
		panic("udp: PrependHeader: insufficient headroom")
	}
	buf.MoveBack(HeaderLen)
	copy(buf.ChunkMut()[0:HeaderLen], header[:])
	p := Packet[T]{buf}
	SetPacketLen[T](p, uint16(buf.Remaining()))
	return p
}
