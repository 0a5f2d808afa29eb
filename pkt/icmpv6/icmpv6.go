// Package icmpv6 implements the ICMPv6 message envelope (RFC 4443) and,
// in icmpv6/ndp.go and icmpv6/ndpoption.go, the Neighbor Discovery
// Protocol message and option views (RFC 4861).
package icmpv6

import (
	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ipv4"
)

const HeaderLen = 4

// MsgType is the ICMPv6 message type byte (RFC 4443 / RFC 4861).
type MsgType uint8

const (
	DstUnreachable MsgType = 1
	PktTooBig      MsgType = 2
	TimeExceed     MsgType = 3
	ParamProblem   MsgType = 4
	EchoRequest    MsgType = 128
	EchoReply      MsgType = 129
	NdpRouterSolicit  MsgType = 133
	NdpRouterAdv      MsgType = 134
	NdpNeighborSolicit MsgType = 135
	NdpNeighborAdv     MsgType = 136
	NdpRedirect        MsgType = 137
)

var HeaderTemplate = [HeaderLen]byte{0x00, 0x00, 0x00, 0x00}

// Packet is the shared ICMPv6 envelope: a 1-byte type, 1-byte code,
// 2-byte checksum, and a message-type-specific data region. Grounded on
// original_source/rpkt/src/icmpv6/packet.rs's Icmpv6Packet.
type Packet[T pkt.Buf] struct{ buf T }

func ParseUnchecked[T pkt.Buf](buf T) Packet[T] { return Packet[T]{buf} }

// Parse requires the chunk to be the entire remaining buffer (ICMPv6
// carries no internal length field; its length comes from the IPv6
// payload length), matching the original's `chunk.len() == remaining`
// check.
func Parse[T pkt.Buf](buf T) (Packet[T], bool) {
	if len(buf.Chunk()) >= HeaderLen && len(buf.Chunk()) == buf.Remaining() {
		return Packet[T]{buf}, true
	}
	var zero Packet[T]
	return zero, false
}

func (p Packet[T]) Buf() T             { return p.buf }
func (p Packet[T]) Release() T         { return p.buf }
func (p Packet[T]) MsgType() MsgType   { return MsgType(p.buf.Chunk()[0]) }
func (p Packet[T]) Code() uint8        { return p.buf.Chunk()[1] }
func (p Packet[T]) Checksum() uint16   { return pkt.GetU16(p.buf.Chunk()[2:4]) }
func (p Packet[T]) Data() []byte       { return p.buf.Chunk()[4:] }

// CalcChecksum computes the checksum over the entire remaining buffer.
func CalcChecksum[T pkt.PktBuf](p Packet[T]) uint16 {
	return pkt.ChecksumBuf(p.buf, p.buf.Remaining())
}

func ipv6PseudoHeaderChecksum(src, dst [16]byte, icmpLen uint32) uint16 {
	var b [40]byte
	copy(b[0:16], src[:])
	copy(b[16:32], dst[:])
	pkt.PutU32(b[32:36], icmpLen)
	b[36], b[37], b[38] = 0, 0, 0
	b[39] = byte(ipv4.ProtoICMPv6)
	return pkt.ChecksumSlice(b[:])
}

func VerifyChecksum[T pkt.PktBuf](p Packet[T], src, dst [16]byte) bool {
	phdr := ipv6PseudoHeaderChecksum(src, dst, uint32(p.buf.Remaining()))
	cksum := pkt.Combine([]uint16{phdr, CalcChecksum[T](p)})
	return cksum == 0xffff
}

func SetMsgType[T pkt.PktBufMut](p Packet[T], v MsgType) { p.buf.ChunkMut()[0] = byte(v) }
func SetCode[T pkt.PktBufMut](p Packet[T], v uint8)      { p.buf.ChunkMut()[1] = v }
func SetChecksum[T pkt.PktBufMut](p Packet[T], v uint16) { pkt.PutU16(p.buf.ChunkMut()[2:4], v) }
func DataMut[T pkt.PktBufMut](p Packet[T]) []byte        { return p.buf.ChunkMut()[4:] }

func AdjustChecksum[T pkt.PktBufMut](p Packet[T], src, dst [16]byte) {
	SetChecksum[T](p, 0)
	phdr := ipv6PseudoHeaderChecksum(src, dst, uint32(p.buf.Remaining()))
	SetChecksum[T](p, ^pkt.Combine([]uint16{phdr, CalcChecksum[T](p)}))
}

// PrependMsg reserves msgLen bytes in the buffer's headroom for an
// ICMPv6 message, asserting (per the original) that buf currently has
// no remaining bytes of its own — the message body is always written
// entirely via the returned message view.
func PrependMsg[T pkt.PktBufMut](buf T, msgType MsgType, msgLen int) Packet[T] {
	if msgLen < HeaderLen {
		panic("icmpv6: PrependMsg: msgLen too small")
	}
	if buf.Remaining() != 0 {
		panic("icmpv6: PrependMsg: buf must be empty before prepending")
	}
	buf.MoveBack(msgLen)
	c := buf.ChunkMut()
	c[0] = byte(msgType)
	for i := 1; i < msgLen; i++ {
		c[i] = 0
	}
	return Packet[T]{buf}
}
