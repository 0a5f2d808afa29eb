// Package ether implements the Ethernet II and 802.3 (EthDot3) header views.
package ether

import (
	"go.netpkt.dev/netpkt/pkt"
)

// Addr is a 6-byte MAC address.
type Addr [6]byte

func AddrFromBytes(b []byte) Addr {
	var a Addr
	copy(a[:], b)
	return a
}

func (a Addr) Bytes() []byte { return a[:] }

// Type is the EtherType field (IEEE 802 registry).
type Type uint16

const (
	TypeIPv4 Type = 0x0800
	TypeARP  Type = 0x0806
	TypeVLAN Type = 0x8100
	TypeQinQ Type = 0x88a8
	TypeIPv6 Type = 0x86dd
	TypeMPLS Type = 0x8847
	TypePPPoEDiscovery Type = 0x8863
	TypePPPoESession    Type = 0x8864
	TypePPP            Type = 0x880b
	TypeTransEthBridge Type = 0x6558
)

const HeaderLen = 14

// HeaderTemplate is a zeroed Ethernet II header with EtherType IPv4, the
// conventional default (matching ETHER_HEADER_TEMPLATE).
var HeaderTemplate = [HeaderLen]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00,
}

// Packet is the Ethernet II view: 6-byte dst, 6-byte src, 2-byte ethertype.
type Packet[T pkt.Buf] struct{ buf T }

// ParseUnchecked wraps buf without validating its length.
func ParseUnchecked[T pkt.Buf](buf T) Packet[T] { return Packet[T]{buf} }

// Parse validates that buf holds at least HeaderLen bytes in its first
// chunk before wrapping it.
func Parse[T pkt.Buf](buf T) (Packet[T], bool) {
	if len(buf.Chunk()) < HeaderLen {
		var zero Packet[T]
		return zero, false
	}
	return Packet[T]{buf}, true
}

func (p Packet[T]) Buf() T     { return p.buf }
func (p Packet[T]) Release() T { return p.buf }

func (p Packet[T]) HeaderSlice() []byte { return p.buf.Chunk()[:HeaderLen] }

func (p Packet[T]) DstAddr() Addr    { return AddrFromBytes(p.buf.Chunk()[0:6]) }
func (p Packet[T]) SrcAddr() Addr    { return AddrFromBytes(p.buf.Chunk()[6:12]) }
func (p Packet[T]) EtherType() Type  { return Type(pkt.GetU16(p.buf.Chunk()[12:14])) }

// Payload advances past the fixed header and returns the underlying buffer.
func (p Packet[T]) Payload() T {
	buf := p.buf
	buf.Advance(HeaderLen)
	return buf
}

// SetDstAddr, SetSrcAddr, SetEtherType require a mutable buffer.
func SetDstAddr[T pkt.PktBufMut](p Packet[T], value Addr) {
	copy(p.buf.ChunkMut()[0:6], value[:])
}
func SetSrcAddr[T pkt.PktBufMut](p Packet[T], value Addr) {
	copy(p.buf.ChunkMut()[6:12], value[:])
}
func SetEtherType[T pkt.PktBufMut](p Packet[T], value Type) {
	pkt.PutU16(p.buf.ChunkMut()[12:14], uint16(value))
}

// PrependHeader writes header into newly claimed headroom and returns a
// view positioned at it; it panics if headroom is insufficient.
func PrependHeader[T pkt.PktBufMut](buf T, header *[HeaderLen]byte) Packet[T] {
	if buf.ChunkHeadroom() < HeaderLen {
		panic("ether: PrependHeader: insufficient headroom")
	}
	buf.MoveBack(HeaderLen)
	copy(buf.ChunkMut()[0:HeaderLen], header[:])
	return Packet[T]{buf}
}
