// Package arp implements the Ethernet/IPv4 ARP packet view (28 bytes,
// RFC 826 fixed-format addresses only — no generic hardware/protocol
// address length support, matching this toolkit's scope).
package arp

import "go.netpkt.dev/netpkt/pkt"

const HeaderLen = 28

var HeaderTemplate = [HeaderLen]byte{
	0x00, 0x01, 0x08, 0x00, 0x06, 0x04, 0x00, 0x01,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

type Operation uint16

const (
	OpRequest Operation = 1
	OpReply   Operation = 2
)

type Packet[T pkt.Buf] struct{ buf T }

func ParseUnchecked[T pkt.Buf](buf T) Packet[T] { return Packet[T]{buf} }

func Parse[T pkt.Buf](buf T) (Packet[T], bool) {
	if len(buf.Chunk()) < HeaderLen {
		var zero Packet[T]
		return zero, false
	}
	return Packet[T]{buf}, true
}

func (p Packet[T]) Buf() T     { return p.buf }
func (p Packet[T]) Release() T { return p.buf }

func (p Packet[T]) HardwareType() uint16 { return pkt.GetU16(p.buf.Chunk()[0:2]) }
func (p Packet[T]) ProtocolType() uint16 { return pkt.GetU16(p.buf.Chunk()[2:4]) }
func (p Packet[T]) HardwareLen() uint8   { return p.buf.Chunk()[4] }
func (p Packet[T]) ProtocolLen() uint8   { return p.buf.Chunk()[5] }
func (p Packet[T]) Operation() Operation { return Operation(pkt.GetU16(p.buf.Chunk()[6:8])) }
func (p Packet[T]) SenderMAC() [6]byte {
	var a [6]byte
	copy(a[:], p.buf.Chunk()[8:14])
	return a
}
func (p Packet[T]) SenderIP() [4]byte {
	var a [4]byte
	copy(a[:], p.buf.Chunk()[14:18])
	return a
}
func (p Packet[T]) TargetMAC() [6]byte {
	var a [6]byte
	copy(a[:], p.buf.Chunk()[18:24])
	return a
}
func (p Packet[T]) TargetIP() [4]byte {
	var a [4]byte
	copy(a[:], p.buf.Chunk()[24:28])
	return a
}

func SetOperation[T pkt.PktBufMut](p Packet[T], v Operation) {
	pkt.PutU16(p.buf.ChunkMut()[6:8], uint16(v))
}
func SetSenderMAC[T pkt.PktBufMut](p Packet[T], v [6]byte) { copy(p.buf.ChunkMut()[8:14], v[:]) }
func SetSenderIP[T pkt.PktBufMut](p Packet[T], v [4]byte)  { copy(p.buf.ChunkMut()[14:18], v[:]) }
func SetTargetMAC[T pkt.PktBufMut](p Packet[T], v [6]byte) { copy(p.buf.ChunkMut()[18:24], v[:]) }
func SetTargetIP[T pkt.PktBufMut](p Packet[T], v [4]byte)  { copy(p.buf.ChunkMut()[24:28], v[:]) }

func PrependHeader[T pkt.PktBufMut](buf T, header *[HeaderLen]byte) Packet[T] {
	if buf.ChunkHeadroom() < HeaderLen {
		panic("arp: PrependHeader: insufficient headroom")
	}
	buf.MoveBack(HeaderLen)
	copy(buf.ChunkMut()[0:HeaderLen], header[:])
	return Packet[T]{buf}
}
