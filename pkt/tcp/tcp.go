// Package tcp implements the TCP header view, its variable-length option
// region, and the IPv4 pseudo-header checksum.
package tcp

import (
	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ipv4"
)

const HeaderLen = 20

const (
	flagFin = 1 << 0
	flagSyn = 1 << 1
	flagRst = 1 << 2
	flagPsh = 1 << 3
	flagAck = 1 << 4
	flagUrg = 1 << 5
	flagEce = 1 << 6
	flagCwr = 1 << 7
	flagNs  = 1 << 8
)

var HeaderTemplate = [HeaderLen]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x50, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00,
}

type Packet[T pkt.Buf] struct{ buf T }

func ParseUnchecked[T pkt.Buf](buf T) Packet[T] { return Packet[T]{buf} }

func Parse[T pkt.Buf](buf T) (Packet[T], bool) {
	chunkLen := len(buf.Chunk())
	if chunkLen < HeaderLen {
		var zero Packet[T]
		return zero, false
	}
	p := Packet[T]{buf}
	hl := int(p.HeaderLen())
	if hl < HeaderLen || hl > chunkLen {
		var zero Packet[T]
		return zero, false
	}
	return p, true
}

func (p Packet[T]) Buf() T     { return p.buf }
func (p Packet[T]) Release() T { return p.buf }

func flagsWord(c []byte) uint16 { return pkt.GetU16(c[12:14]) }

func (p Packet[T]) HeaderLen() uint8    { return uint8((flagsWord(p.buf.Chunk()) & 0xf000) >> 10) }
func (p Packet[T]) SrcPort() uint16     { return pkt.GetU16(p.buf.Chunk()[0:2]) }
func (p Packet[T]) DstPort() uint16     { return pkt.GetU16(p.buf.Chunk()[2:4]) }
func (p Packet[T]) SeqNumber() uint32   { return pkt.GetU32(p.buf.Chunk()[4:8]) }
func (p Packet[T]) AckNumber() uint32   { return pkt.GetU32(p.buf.Chunk()[8:12]) }
func (p Packet[T]) Fin() bool           { return flagsWord(p.buf.Chunk())&flagFin != 0 }
func (p Packet[T]) Syn() bool           { return flagsWord(p.buf.Chunk())&flagSyn != 0 }
func (p Packet[T]) Rst() bool           { return flagsWord(p.buf.Chunk())&flagRst != 0 }
func (p Packet[T]) Psh() bool           { return flagsWord(p.buf.Chunk())&flagPsh != 0 }
func (p Packet[T]) Ack() bool           { return flagsWord(p.buf.Chunk())&flagAck != 0 }
func (p Packet[T]) Urg() bool           { return flagsWord(p.buf.Chunk())&flagUrg != 0 }
func (p Packet[T]) Ece() bool           { return flagsWord(p.buf.Chunk())&flagEce != 0 }
func (p Packet[T]) Cwr() bool           { return flagsWord(p.buf.Chunk())&flagCwr != 0 }
func (p Packet[T]) Ns() bool            { return flagsWord(p.buf.Chunk())&flagNs != 0 }
func (p Packet[T]) CheckReserved() bool { return (flagsWord(p.buf.Chunk())&0x0e00)>>9 == 0 }
func (p Packet[T]) WindowSize() uint16  { return pkt.GetU16(p.buf.Chunk()[14:16]) }
func (p Packet[T]) Checksum() uint16    { return pkt.GetU16(p.buf.Chunk()[16:18]) }
func (p Packet[T]) UrgentPtr() uint16   { return pkt.GetU16(p.buf.Chunk()[18:20]) }

func (p Packet[T]) OptionBytes() []byte {
	return p.buf.Chunk()[HeaderLen:p.HeaderLen()]
}

// CalcChecksum computes the checksum over the entire remaining buffer
// (header, options, and payload — TCP carries no explicit total-length
// field, unlike IPv4/UDP).
func CalcChecksum[T pkt.PktBuf](p Packet[T]) uint16 {
	return pkt.ChecksumBuf(p.buf, p.buf.Remaining())
}

func ipv4PseudoHeaderChecksum(src, dst ipv4.Addr, tcpLen uint16) uint16 {
	var b [12]byte
	copy(b[0:4], src[:])
	copy(b[4:8], dst[:])
	b[8] = 0
	b[9] = byte(ipv4.ProtoTCP)
	pkt.PutU16(b[10:12], tcpLen)
	return pkt.ChecksumSlice(b[:])
}

func VerifyIPv4Checksum[T pkt.PktBuf](p Packet[T], src, dst ipv4.Addr) bool {
	phdr := ipv4PseudoHeaderChecksum(src, dst, uint16(p.buf.Remaining()))
	cksum := pkt.Combine([]uint16{phdr, CalcChecksum[T](p)})
	return cksum == 0xffff
}

func Payload[T pkt.PktBuf](p Packet[T]) T {
	hl := int(p.HeaderLen())
	buf := p.buf
	buf.Advance(hl)
	return buf
}

func SetSrcPort[T pkt.PktBufMut](p Packet[T], v uint16)   { pkt.PutU16(p.buf.ChunkMut()[0:2], v) }
func SetDstPort[T pkt.PktBufMut](p Packet[T], v uint16)   { pkt.PutU16(p.buf.ChunkMut()[2:4], v) }
func SetSeqNumber[T pkt.PktBufMut](p Packet[T], v uint32) { pkt.PutU32(p.buf.ChunkMut()[4:8], v) }
func SetAckNumber[T pkt.PktBufMut](p Packet[T], v uint32) { pkt.PutU32(p.buf.ChunkMut()[8:12], v) }

func setFlagBit[T pkt.PktBufMut](p Packet[T], bit uint16, value bool) {
	c := p.buf.ChunkMut()[12:14]
	raw := pkt.GetU16(c)
	if value {
		raw |= bit
	} else {
		raw &^= bit
	}
	pkt.PutU16(c, raw)
}

func ClearFlags[T pkt.PktBufMut](p Packet[T]) {
	c := p.buf.ChunkMut()[12:14]
	pkt.PutU16(c, pkt.GetU16(c)&^0x0fff)
}
func SetFin[T pkt.PktBufMut](p Packet[T], v bool) { setFlagBit[T](p, flagFin, v) }
func SetSyn[T pkt.PktBufMut](p Packet[T], v bool) { setFlagBit[T](p, flagSyn, v) }
func SetRst[T pkt.PktBufMut](p Packet[T], v bool) { setFlagBit[T](p, flagRst, v) }
func SetPsh[T pkt.PktBufMut](p Packet[T], v bool) { setFlagBit[T](p, flagPsh, v) }
func SetAck[T pkt.PktBufMut](p Packet[T], v bool) { setFlagBit[T](p, flagAck, v) }
func SetUrg[T pkt.PktBufMut](p Packet[T], v bool) { setFlagBit[T](p, flagUrg, v) }
func SetEce[T pkt.PktBufMut](p Packet[T], v bool) { setFlagBit[T](p, flagEce, v) }
func SetCwr[T pkt.PktBufMut](p Packet[T], v bool) { setFlagBit[T](p, flagCwr, v) }
func SetNs[T pkt.PktBufMut](p Packet[T], v bool)  { setFlagBit[T](p, flagNs, v) }

func AdjustReserved[T pkt.PktBufMut](p Packet[T]) {
	c := p.buf.ChunkMut()[12:14]
	pkt.PutU16(c, pkt.GetU16(c)&0xf1ff)
}

// SetHeaderLen writes the data-offset field; value must be a multiple of 4
// in [20,60].
func SetHeaderLen[T pkt.PktBufMut](p Packet[T], value uint8) {
	if value < 20 || value > 60 || value&0x03 != 0 {
		panic("tcp: SetHeaderLen: value must be a multiple of 4 in [20,60]")
	}
	c := p.buf.ChunkMut()[12:14]
	raw := (pkt.GetU16(c) &^ 0xf000) | (uint16(value) << 10)
	pkt.PutU16(c, raw)
}

func SetWindowSize[T pkt.PktBufMut](p Packet[T], v uint16) { pkt.PutU16(p.buf.ChunkMut()[14:16], v) }
func SetChecksum[T pkt.PktBufMut](p Packet[T], v uint16)   { pkt.PutU16(p.buf.ChunkMut()[16:18], v) }
func SetUrgentPtr[T pkt.PktBufMut](p Packet[T], v uint16)  { pkt.PutU16(p.buf.ChunkMut()[18:20], v) }

func SetOptionBytes[T pkt.PktBufMut](p Packet[T], options []byte) {
	copy(p.buf.ChunkMut()[HeaderLen:p.HeaderLen()], options)
}

func AdjustIPv4Checksum[T pkt.PktBufMut](p Packet[T], src, dst ipv4.Addr) {
	SetChecksum[T](p, 0)
	phdr := ipv4PseudoHeaderChecksum(src, dst, uint16(p.buf.Remaining()))
	cksum := ^pkt.Combine([]uint16{phdr, CalcChecksum[T](p)})
	SetChecksum[T](p, cksum)
}

// PrependHeader writes header (whose declared header length, including
// options, is headerLen bytes) into the buffer's headroom.
func PrependHeader[T pkt.PktBufMut](buf T, header []byte) Packet[T] {
	headerLen := len(header)
	if headerLen < HeaderLen || headerLen > buf.ChunkHeadroom() {
		panic("tcp: PrependHeader: invalid header length or insufficient headroom")
	}
	buf.MoveBack(headerLen)
	copy(buf.ChunkMut()[0:headerLen], header)
	return Packet[T]{buf}
}
