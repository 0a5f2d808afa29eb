package ipv6

import (
	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ipv4"
)

// HopByHopPacket is the Hop-by-Hop Options extension header (RFC 8200
// §4.3), grounded on run-packet's generic Ipv6OptionPacket.
type HopByHopPacket[T pkt.Buf] struct{ h optionHeader[T] }

func HopByHopParseUnchecked[T pkt.Buf](buf T) HopByHopPacket[T] {
	return HopByHopPacket[T]{optionHeader[T]{buf}}
}

func HopByHopParse[T pkt.Buf](buf T) (HopByHopPacket[T], bool) {
	h, ok := parseOptionHeader(buf)
	if !ok {
		var zero HopByHopPacket[T]
		return zero, false
	}
	return HopByHopPacket[T]{h}, true
}

func (p HopByHopPacket[T]) Buf() T                       { return p.h.buf }
func (p HopByHopPacket[T]) Release() T                   { return p.h.buf }
func (p HopByHopPacket[T]) NextHeader() ipv4.Protocol    { return ipv4.Protocol(p.h.nextHeader()) }
func (p HopByHopPacket[T]) HeaderLen() int               { return p.h.headerLen() }
func (p HopByHopPacket[T]) OptionBytes() []byte          { return p.h.options() }

func HopByHopPayload[T pkt.PktBuf](p HopByHopPacket[T]) T {
	headerLen := p.h.headerLen()
	buf := p.h.buf
	buf.Advance(headerLen)
	return buf
}

func HopByHopSetNextHeader[T pkt.PktBufMut](p HopByHopPacket[T], v ipv4.Protocol) {
	p.h.buf.ChunkMut()[0] = byte(v)
}

func HopByHopSetHeaderLenUnchecked[T pkt.PktBufMut](p HopByHopPacket[T], value int) {
	setOptionHeaderLen(p.h, value)
}

func HopByHopOptionBytesMut[T pkt.PktBufMut](p HopByHopPacket[T]) []byte {
	return p.h.buf.ChunkMut()[2:p.h.headerLen()]
}

// HopByHopPrependHeader reserves headerLen bytes (a multiple of 8 in
// [8,2048]) in the buffer's headroom for a hop-by-hop options header and
// zeroes the option region, ready for a TlvOptionWriter.
func HopByHopPrependHeader[T pkt.PktBufMut](buf T, headerLen int) HopByHopPacket[T] {
	h := prependOptionHeader(buf, headerLen, byte(ipv4.ProtoTCP))
	return HopByHopPacket[T]{h}
}
