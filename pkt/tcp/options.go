package tcp

import "go.netpkt.dev/netpkt/pkt"

// Option kind bytes, RFC 793/1323/2018.
const (
	OptKindEOL        byte = 0
	OptKindNOP        byte = 1
	OptKindMSS        byte = 2
	OptKindWindowScale byte = 3
	OptKindSackPermitted byte = 4
	OptKindSack        byte = 5
	OptKindTimestamps  byte = 8
)

// OptionView is one decoded TLV option.
type OptionView struct {
	Kind  byte
	Value []byte
}

// OptionIter scans a TCP options region left to right.
type OptionIter struct {
	buf   []byte
	pos   int
	Valid bool
}

func NewOptionIter(options []byte) *OptionIter {
	return &OptionIter{buf: options, Valid: true}
}

func (it *OptionIter) Next() (OptionView, bool) {
	if !it.Valid || it.pos >= len(it.buf) {
		return OptionView{}, false
	}
	kind := it.buf[it.pos]
	if kind == OptKindEOL {
		return OptionView{}, false
	}
	if kind == OptKindNOP {
		it.pos++
		return OptionView{Kind: kind}, true
	}
	if it.pos+1 >= len(it.buf) {
		it.Valid = false
		return OptionView{}, false
	}
	length := int(it.buf[it.pos+1])
	if length < 2 || it.pos+length > len(it.buf) {
		it.Valid = false
		return OptionView{}, false
	}
	v := OptionView{Kind: kind, Value: it.buf[it.pos+2 : it.pos+length]}
	it.pos += length
	return v, true
}

// MSS decodes a MSS option value (2 bytes).
func MSS(v []byte) uint16 { return pkt.GetU16(v[0:2]) }

// WindowScale decodes a window-scale option value (1 byte shift count).
func WindowScale(v []byte) uint8 { return v[0] }

// Sack decodes a SACK option value into left/right edge pairs.
func Sack(v []byte) [][2]uint32 {
	n := len(v) / 8
	out := make([][2]uint32, n)
	for i := 0; i < n; i++ {
		out[i][0] = pkt.GetU32(v[i*8 : i*8+4])
		out[i][1] = pkt.GetU32(v[i*8+4 : i*8+8])
	}
	return out
}

// Timestamps decodes a timestamps option value (TSval, TSecr).
func Timestamps(v []byte) (tsval, tsecr uint32) {
	return pkt.GetU32(v[0:4]), pkt.GetU32(v[4:8])
}

// OptionWriter appends options into a mutable TCP options region.
type OptionWriter struct {
	buf []byte
	pos int
}

func NewOptionWriter(options []byte) *OptionWriter { return &OptionWriter{buf: options} }

func (w *OptionWriter) WriteNOP() {
	if w.pos >= len(w.buf) {
		panic("tcp: OptionWriter.WriteNOP: out of room")
	}
	w.buf[w.pos] = OptKindNOP
	w.pos++
}

func (w *OptionWriter) WriteEOL() {
	if w.pos >= len(w.buf) {
		panic("tcp: OptionWriter.WriteEOL: out of room")
	}
	w.buf[w.pos] = OptKindEOL
	w.pos++
}

func (w *OptionWriter) writeTLV(kind byte, value []byte) {
	need := 2 + len(value)
	if w.pos+need > len(w.buf) {
		panic("tcp: OptionWriter: out of room")
	}
	w.buf[w.pos] = kind
	w.buf[w.pos+1] = byte(need)
	copy(w.buf[w.pos+2:w.pos+need], value)
	w.pos += need
}

func (w *OptionWriter) WriteMSS(mss uint16) {
	var v [2]byte
	pkt.PutU16(v[:], mss)
	w.writeTLV(OptKindMSS, v[:])
}

func (w *OptionWriter) WriteWindowScale(shift uint8) {
	w.writeTLV(OptKindWindowScale, []byte{shift})
}

func (w *OptionWriter) WriteSackPermitted() {
	w.writeTLV(OptKindSackPermitted, nil)
}

func (w *OptionWriter) WriteSack(edges [][2]uint32) {
	v := make([]byte, len(edges)*8)
	for i, e := range edges {
		pkt.PutU32(v[i*8:i*8+4], e[0])
		pkt.PutU32(v[i*8+4:i*8+8], e[1])
	}
	w.writeTLV(OptKindSack, v)
}

func (w *OptionWriter) WriteTimestamps(tsval, tsecr uint32) {
	var v [8]byte
	pkt.PutU32(v[0:4], tsval)
	pkt.PutU32(v[4:8], tsecr)
	w.writeTLV(OptKindTimestamps, v[:])
}
