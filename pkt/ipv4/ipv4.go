// Package ipv4 implements the IPv4 header view, including the options
// region and checksum adjustment.
package ipv4

import "go.netpkt.dev/netpkt/pkt"

const HeaderLen = 20

// Protocol is the IP protocol number (IANA "Assigned Internet Protocol
// Numbers" registry), reused for IPv6's next-header field too.
type Protocol uint8

const (
	ProtoICMP   Protocol = 1
	ProtoIGMP   Protocol = 2
	ProtoTCP    Protocol = 6
	ProtoUDP    Protocol = 17
	ProtoGRE    Protocol = 47
	ProtoIPv6   Protocol = 41
	ProtoICMPv6 Protocol = 58
	ProtoOSPF   Protocol = 89
	ProtoVRRP   Protocol = 112

	// IPv6 extension header next-header values, listed here rather than in
	// ipv6 to keep a single protocol-number registry.
	ProtoHopByHop Protocol = 0
	ProtoRouting  Protocol = 43
	ProtoFragment Protocol = 44
	ProtoDestOpts Protocol = 60
	ProtoNoNext   Protocol = 59
)

type Addr [4]byte

func AddrFromBytes(b []byte) Addr {
	var a Addr
	copy(a[:], b)
	return a
}

var HeaderTemplate = [HeaderLen]byte{
	0x45, 0x00, 0x00, 0x14, 0x00, 0x00, 0x00, 0x00,
	0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

type Packet[T pkt.Buf] struct{ buf T }

func ParseUnchecked[T pkt.Buf](buf T) Packet[T] { return Packet[T]{buf} }

// Parse validates the header-length/total-length invariants against the
// buffer's own chunk and remaining length before wrapping, mirroring
// run-packet's Ipv4Packet::parse.
func Parse[T pkt.Buf](buf T) (Packet[T], bool) {
	if len(buf.Chunk()) < HeaderLen {
		var zero Packet[T]
		return zero, false
	}
	p := Packet[T]{buf}
	hl := int(p.HeaderLen())
	if hl >= HeaderLen && hl <= int(p.TotalLen()) && hl <= len(buf.Chunk()) && int(p.TotalLen()) <= buf.Remaining() {
		return p, true
	}
	var zero Packet[T]
	return zero, false
}

func (p Packet[T]) Buf() T     { return p.buf }
func (p Packet[T]) Release() T { return p.buf }

func (p Packet[T]) CheckVersion() bool { return p.buf.Chunk()[0]>>4 == 4 }
func (p Packet[T]) HeaderLen() uint8   { return (p.buf.Chunk()[0] & 0xf) * 4 }
func (p Packet[T]) DSCP() uint8        { return p.buf.Chunk()[1] >> 2 }
func (p Packet[T]) ECN() uint8         { return p.buf.Chunk()[1] & 0x3 }
func (p Packet[T]) TotalLen() uint16   { return pkt.GetU16(p.buf.Chunk()[2:4]) }
func (p Packet[T]) Ident() uint16      { return pkt.GetU16(p.buf.Chunk()[4:6]) }
func (p Packet[T]) DontFrag() bool     { return p.buf.Chunk()[6]&0x40 != 0 }
func (p Packet[T]) MoreFrags() bool    { return p.buf.Chunk()[6]&0x20 != 0 }
func (p Packet[T]) FragOffset() uint16 { return pkt.GetU16(p.buf.Chunk()[6:8]) & 0x1fff }
func (p Packet[T]) TTL() uint8         { return p.buf.Chunk()[8] }
func (p Packet[T]) ProtocolNum() Protocol { return Protocol(p.buf.Chunk()[9]) }
func (p Packet[T]) Checksum() uint16   { return pkt.GetU16(p.buf.Chunk()[10:12]) }
func (p Packet[T]) SourceIP() Addr     { return AddrFromBytes(p.buf.Chunk()[12:16]) }
func (p Packet[T]) DestIP() Addr       { return AddrFromBytes(p.buf.Chunk()[16:20]) }

func (p Packet[T]) Options() []byte {
	return p.buf.Chunk()[HeaderLen:p.HeaderLen()]
}

// CalcChecksum computes the header checksum over the current header bytes
// (options included), without regard to the currently stored checksum
// field value.
func (p Packet[T]) CalcChecksum() uint16 {
	return pkt.ChecksumSlice(p.buf.Chunk()[0:p.HeaderLen()])
}

func (p Packet[T]) VerifyChecksum() bool { return p.CalcChecksum() == 0xffff }

// Payload trims any trailing bytes beyond TotalLen and advances past the
// header (fixed part + options).
func Payload[T pkt.PktBuf](p Packet[T]) T {
	if int(p.TotalLen()) > p.buf.Remaining() {
		panic("ipv4: Payload: total_len exceeds remaining")
	}
	trim := p.buf.Remaining() - int(p.TotalLen())
	headerLen := int(p.HeaderLen())
	buf := p.buf
	if trim > 0 {
		buf.TrimOff(trim)
	}
	buf.Advance(headerLen)
	return buf
}

func SetVersionAndIHL[T pkt.PktBufMut](p Packet[T], ihlWords uint8) {
	p.buf.ChunkMut()[0] = 0x40 | (ihlWords & 0xf)
}
func AdjustVersion[T pkt.PktBufMut](p Packet[T]) {
	c := p.buf.ChunkMut()
	c[0] = 0x40 | (c[0] & 0xf)
}
func SetDSCP[T pkt.PktBufMut](p Packet[T], v uint8) {
	if v > 0x3f {
		panic("ipv4: SetDSCP: value exceeds 6 bits")
	}
	c := p.buf.ChunkMut()
	c[1] = (c[1] & 0x3) | (v << 2)
}
func SetECN[T pkt.PktBufMut](p Packet[T], v uint8) {
	if v > 0x3 {
		panic("ipv4: SetECN: value exceeds 2 bits")
	}
	c := p.buf.ChunkMut()
	c[1] = (c[1] &^ 0x3) | v
}
func SetTotalLen[T pkt.PktBufMut](p Packet[T], v uint16)   { pkt.PutU16(p.buf.ChunkMut()[2:4], v) }
func SetIdent[T pkt.PktBufMut](p Packet[T], v uint16)      { pkt.PutU16(p.buf.ChunkMut()[4:6], v) }
func ClearFlags[T pkt.PktBufMut](p Packet[T]) {
	c := p.buf.ChunkMut()
	c[6] &= 0x1f
}
func SetDontFrag[T pkt.PktBufMut](p Packet[T], v bool) {
	c := p.buf.ChunkMut()
	if v {
		c[6] |= 0x40
	} else {
		c[6] &^= 0x40
	}
}
func SetMoreFrags[T pkt.PktBufMut](p Packet[T], v bool) {
	c := p.buf.ChunkMut()
	if v {
		c[6] |= 0x20
	} else {
		c[6] &^= 0x20
	}
}
func SetFragOffset[T pkt.PktBufMut](p Packet[T], v uint16) {
	if v > 0x1fff {
		panic("ipv4: SetFragOffset: value exceeds 13 bits")
	}
	c := p.buf.ChunkMut()
	word := (uint16(c[6]&0xe0) << 8) | v
	pkt.PutU16(c[6:8], word)
}
func SetTTL[T pkt.PktBufMut](p Packet[T], v uint8) { p.buf.ChunkMut()[8] = v }
func SetProtocolNum[T pkt.PktBufMut](p Packet[T], v Protocol) { p.buf.ChunkMut()[9] = byte(v) }
func SetChecksum[T pkt.PktBufMut](p Packet[T], v uint16)      { pkt.PutU16(p.buf.ChunkMut()[10:12], v) }
func SetSourceIP[T pkt.PktBufMut](p Packet[T], v Addr)        { copy(p.buf.ChunkMut()[12:16], v[:]) }
func SetDestIP[T pkt.PktBufMut](p Packet[T], v Addr)          { copy(p.buf.ChunkMut()[16:20], v[:]) }

func SetOptionBytes[T pkt.PktBufMut](p Packet[T], options []byte) {
	hl := p.HeaderLen()
	copy(p.buf.ChunkMut()[HeaderLen:hl], options)
}

// AdjustChecksum recomputes and stores the header checksum, zeroing the
// field first as RFC 791 requires.
func AdjustChecksum[T pkt.PktBufMut](p Packet[T]) {
	SetChecksum[T](p, 0)
	SetChecksum[T](p, ^p.CalcChecksum())
}

// PrependHeader writes header (whose length, including options, is
// headerLen bytes) into the buffer's headroom and sets TotalLen from the
// buffer's remaining length at prepend time.
func PrependHeader[T pkt.PktBufMut](buf T, header []byte) Packet[T] {
	headerLen := len(header)
	if headerLen < HeaderLen || headerLen > buf.ChunkHeadroom() {
		panic("ipv4: PrependHeader: invalid header length or insufficient headroom")
	}
	buf.MoveBack(headerLen)
	copy(buf.ChunkMut()[0:headerLen], header)
	p := Packet[T]{buf}
	SetTotalLen[T](p, uint16(buf.Remaining()))
	return p
}
