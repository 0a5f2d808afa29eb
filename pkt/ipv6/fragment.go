package ipv6

import (
	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ipv4"
)

// FragmentHeaderLen is the fixed 8-byte Fragment extension header
// length (RFC 8200 §4.5); it has no options region.
const FragmentHeaderLen = 8

// FragmentPacket is the Fragment extension header view.
type FragmentPacket[T pkt.Buf] struct{ buf T }

func FragmentParseUnchecked[T pkt.Buf](buf T) FragmentPacket[T] { return FragmentPacket[T]{buf} }

func FragmentParse[T pkt.Buf](buf T) (FragmentPacket[T], bool) {
	if len(buf.Chunk()) < FragmentHeaderLen {
		var zero FragmentPacket[T]
		return zero, false
	}
	return FragmentPacket[T]{buf}, true
}

func (p FragmentPacket[T]) Buf() T                    { return p.buf }
func (p FragmentPacket[T]) Release() T                { return p.buf }
func (p FragmentPacket[T]) NextHeader() ipv4.Protocol { return ipv4.Protocol(p.buf.Chunk()[0]) }

// FragOffset returns the 13-bit fragment offset, in units of 8 bytes.
func (p FragmentPacket[T]) FragOffset() uint16 {
	return pkt.GetU16(p.buf.Chunk()[2:4]) >> 3
}
func (p FragmentPacket[T]) MoreFragments() bool {
	return p.buf.Chunk()[3]&0x1 != 0
}
func (p FragmentPacket[T]) Identification() uint32 {
	return pkt.GetU32(p.buf.Chunk()[4:8])
}

func FragmentPayload[T pkt.PktBuf](p FragmentPacket[T]) T {
	buf := p.buf
	buf.Advance(FragmentHeaderLen)
	return buf
}

func FragmentSetNextHeader[T pkt.PktBufMut](p FragmentPacket[T], v ipv4.Protocol) {
	p.buf.ChunkMut()[0] = byte(v)
}
func FragmentSetFragOffset[T pkt.PktBufMut](p FragmentPacket[T], v uint16) {
	if v > 0x1fff {
		panic("ipv6: FragmentSetFragOffset: value exceeds 13 bits")
	}
	c := p.buf.ChunkMut()[2:4]
	word := (v << 3) | (pkt.GetU16(c) & 0x1)
	pkt.PutU16(c, word)
}
func FragmentSetMoreFragments[T pkt.PktBufMut](p FragmentPacket[T], v bool) {
	c := p.buf.ChunkMut()
	if v {
		c[3] |= 0x1
	} else {
		c[3] &^= 0x1
	}
}
func FragmentSetIdentification[T pkt.PktBufMut](p FragmentPacket[T], v uint32) {
	pkt.PutU32(p.buf.ChunkMut()[4:8], v)
}

func FragmentPrependHeader[T pkt.PktBufMut](buf T, header *[FragmentHeaderLen]byte) FragmentPacket[T] {
	if buf.ChunkHeadroom() < FragmentHeaderLen {
		panic("ipv6: FragmentPrependHeader: insufficient headroom")
	}
	buf.MoveBack(FragmentHeaderLen)
	copy(buf.ChunkMut()[0:FragmentHeaderLen], header[:])
	return FragmentPacket[T]{buf}
}
