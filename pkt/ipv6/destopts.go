package ipv6

import (
	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ipv4"
)

// DestOptsPacket is the Destination Options extension header (RFC 8200
// §4.6), sharing the Hop-by-Hop header's 8n+8 TLV layout.
type DestOptsPacket[T pkt.Buf] struct{ h optionHeader[T] }

func DestOptsParseUnchecked[T pkt.Buf](buf T) DestOptsPacket[T] {
	return DestOptsPacket[T]{optionHeader[T]{buf}}
}

func DestOptsParse[T pkt.Buf](buf T) (DestOptsPacket[T], bool) {
	h, ok := parseOptionHeader(buf)
	if !ok {
		var zero DestOptsPacket[T]
		return zero, false
	}
	return DestOptsPacket[T]{h}, true
}

func (p DestOptsPacket[T]) Buf() T                    { return p.h.buf }
func (p DestOptsPacket[T]) Release() T                { return p.h.buf }
func (p DestOptsPacket[T]) NextHeader() ipv4.Protocol { return ipv4.Protocol(p.h.nextHeader()) }
func (p DestOptsPacket[T]) HeaderLen() int            { return p.h.headerLen() }
func (p DestOptsPacket[T]) OptionBytes() []byte       { return p.h.options() }

func DestOptsPayload[T pkt.PktBuf](p DestOptsPacket[T]) T {
	headerLen := p.h.headerLen()
	buf := p.h.buf
	buf.Advance(headerLen)
	return buf
}

func DestOptsSetNextHeader[T pkt.PktBufMut](p DestOptsPacket[T], v ipv4.Protocol) {
	p.h.buf.ChunkMut()[0] = byte(v)
}

func DestOptsSetHeaderLenUnchecked[T pkt.PktBufMut](p DestOptsPacket[T], value int) {
	setOptionHeaderLen(p.h, value)
}

func DestOptsOptionBytesMut[T pkt.PktBufMut](p DestOptsPacket[T]) []byte {
	return p.h.buf.ChunkMut()[2:p.h.headerLen()]
}

func DestOptsPrependHeader[T pkt.PktBufMut](buf T, headerLen int) DestOptsPacket[T] {
	h := prependOptionHeader(buf, headerLen, byte(ipv4.ProtoTCP))
	return DestOptsPacket[T]{h}
}
