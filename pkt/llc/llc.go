// Package llc implements the IEEE 802.2 Logical Link Control header
// view used atop 802.3 length-framed Ethernet (e.g. by STP BPDUs). No
// file in original_source survived distillation for LLC; the 3-byte
// DSAP/SSAP/Control layout below is standard IEEE 802.2 and is
// cross-checked against the dsap()/ssap()/control() assertions in
// original_source/rpkt/tests/stp_test.rs.
package llc

import "go.netpkt.dev/netpkt/pkt"

// BPDUSAP is the well-known SAP value (0x42) used by Spanning Tree BPDUs
// for both DSAP and SSAP.
const BPDUSAP = 0x42

const HeaderLen = 3

var HeaderTemplate = [HeaderLen]byte{BPDUSAP, BPDUSAP, 0x03}

// Packet is the LLC header: 1-byte DSAP, 1-byte SSAP, 1-byte Control
// (0x03 selects IEEE 802.2 Unnumbered Information, as BPDUs use).
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

func (p Packet[T]) Dsap() uint8    { return p.buf.Chunk()[0] }
func (p Packet[T]) Ssap() uint8    { return p.buf.Chunk()[1] }
func (p Packet[T]) Control() uint8 { return p.buf.Chunk()[2] }

func Payload[T pkt.PktBuf](p Packet[T]) T {
	buf := p.buf
	buf.Advance(HeaderLen)
	return buf
}

func SetDsap[T pkt.PktBufMut](p Packet[T], v uint8)    { p.buf.ChunkMut()[0] = v }
func SetSsap[T pkt.PktBufMut](p Packet[T], v uint8)    { p.buf.ChunkMut()[1] = v }
func SetControl[T pkt.PktBufMut](p Packet[T], v uint8) { p.buf.ChunkMut()[2] = v }

func PrependHeader[T pkt.PktBufMut](buf T, header *[HeaderLen]byte) Packet[T] {
	if buf.ChunkHeadroom() < HeaderLen {
		panic("llc: PrependHeader: insufficient headroom")
	}
	buf.MoveBack(HeaderLen)
	copy(buf.ChunkMut()[0:HeaderLen], header[:])
	return Packet[T]{buf}
}
