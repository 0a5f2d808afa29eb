// Package vlan implements the IEEE 802.1Q tag view. Stacking two of these
// (and swapping the outer ethertype to 0x88a8) is how 802.1ad Q-in-Q is
// expressed. This package has no GroupParse; the caller tells the two
// apart by the preceding ethertype.
package vlan

import "go.netpkt.dev/netpkt/pkt"

const HeaderLen = 4

var HeaderTemplate = [HeaderLen]byte{0x00, 0x01, 0x08, 0x00}

type Tag[T pkt.Buf] struct{ buf T }

func ParseUnchecked[T pkt.Buf](buf T) Tag[T] { return Tag[T]{buf} }

func Parse[T pkt.Buf](buf T) (Tag[T], bool) {
	if len(buf.Chunk()) < HeaderLen {
		var zero Tag[T]
		return zero, false
	}
	return Tag[T]{buf}, true
}

func (p Tag[T]) Buf() T     { return p.buf }
func (p Tag[T]) Release() T { return p.buf }

func (p Tag[T]) Priority() uint8 { return p.buf.Chunk()[0] >> 5 }
func (p Tag[T]) DEI() bool       { return p.buf.Chunk()[0]&0x10 != 0 }
func (p Tag[T]) VlanID() uint16  { return pkt.GetU16(p.buf.Chunk()[0:2]) & 0xfff }

// EtherType mirrors ether.Type's underlying representation without
// importing the ether package, avoiding an import cycle (ether frames can
// carry a VLAN tag instead of the reverse, so vlan must not depend on
// ether).
type EtherType uint16

func (p Tag[T]) EtherType() EtherType { return EtherType(pkt.GetU16(p.buf.Chunk()[2:4])) }

func (p Tag[T]) Payload() T {
	buf := p.buf
	buf.Advance(HeaderLen)
	return buf
}

func SetPriority[T pkt.PktBufMut](p Tag[T], value uint8) {
	if value > 0x7 {
		panic("vlan: SetPriority: value exceeds 3 bits")
	}
	c := p.buf.ChunkMut()
	c[0] = (c[0] & 0x1f) | (value << 5)
}

func SetDEI[T pkt.PktBufMut](p Tag[T], value bool) {
	var v byte
	if value {
		v = 1
	}
	c := p.buf.ChunkMut()
	c[0] = (c[0] & 0xef) | (v << 4)
}

func SetVlanID[T pkt.PktBufMut](p Tag[T], value uint16) {
	if value > 0xfff {
		panic("vlan: SetVlanID: value exceeds 12 bits")
	}
	c := p.buf.ChunkMut()
	write := value | (uint16(c[0]&0xf0) << 8)
	pkt.PutU16(c[0:2], write)
}

func SetEtherType[T pkt.PktBufMut](p Tag[T], value EtherType) {
	pkt.PutU16(p.buf.ChunkMut()[2:4], uint16(value))
}

func PrependHeader[T pkt.PktBufMut](buf T, header *[HeaderLen]byte) Tag[T] {
	if buf.ChunkHeadroom() < HeaderLen {
		panic("vlan: PrependHeader: insufficient headroom")
	}
	buf.MoveBack(HeaderLen)
	copy(buf.ChunkMut()[0:HeaderLen], header[:])
	return Tag[T]{buf}
}
