package pppoe

import "go.netpkt.dev/netpkt/pkt"

const TagHeaderLen = 4

var TagHeaderTemplate = [TagHeaderLen]byte{0x00, 0x00, 0x00, 0x04}

// Tag is a single PPPoE discovery TLV: a 2-byte Tag-Type, a 2-byte
// Tag-Length (reported via HeaderLen as length+4, matching
// generated.rs), and Tag-Length bytes of value.
type Tag[T pkt.Buf] struct{ buf T }

func TagParseUnchecked[T pkt.Buf](buf T) Tag[T] { return Tag[T]{buf} }

func TagParse[T pkt.Buf](buf T) (Tag[T], bool) {
	if len(buf.Chunk()) < TagHeaderLen {
		var zero Tag[T]
		return zero, false
	}
	t := Tag[T]{buf}
	hl := int(t.HeaderLen())
	if hl < TagHeaderLen || hl > len(buf.Chunk()) {
		var zero Tag[T]
		return zero, false
	}
	return t, true
}

func (t Tag[T]) Buf() T     { return t.buf }
func (t Tag[T]) Release() T { return t.buf }

func (t Tag[T]) FixHeaderSlice() []byte { return t.buf.Chunk()[0:TagHeaderLen] }
func (t Tag[T]) VarHeaderSlice() []byte {
	return t.buf.Chunk()[TagHeaderLen:t.HeaderLen()]
}

func (t Tag[T]) Type() TagType { return TagType(pkt.GetU16(t.buf.Chunk()[0:2])) }

// HeaderLen is the wire Tag-Length field plus 4 (the fixed type/length
// prefix), matching generated.rs's header_len.
func (t Tag[T]) HeaderLen() uint32 { return uint32(pkt.GetU16(t.buf.Chunk()[2:4])) + 4 }

func TagPayload[T pkt.PktBuf](t Tag[T]) T {
	buf := t.buf
	buf.Advance(int(t.HeaderLen()))
	return buf
}

func TagVarHeaderSliceMut[T pkt.PktBufMut](t Tag[T]) []byte {
	return t.buf.ChunkMut()[TagHeaderLen:t.HeaderLen()]
}

func SetTagType[T pkt.PktBufMut](t Tag[T], v TagType) { pkt.PutU16(t.buf.ChunkMut()[0:2], uint16(v)) }
func SetTagHeaderLen[T pkt.PktBufMut](t Tag[T], v uint32) {
	if v < 4 || v > 65539 {
		panic("pppoe: SetTagHeaderLen: out of range")
	}
	pkt.PutU16(t.buf.ChunkMut()[2:4], uint16(v-4))
}

// TagPrependHeader reads header's own encoded length to know how many
// bytes of headroom to claim, exactly like generated.rs's prepend_header.
func TagPrependHeader[T pkt.PktBufMut](buf T, header *[TagHeaderLen]byte) Tag[T] {
	hl := int(pkt.GetU16(header[2:4])) + 4
	if hl < 4 || hl > buf.ChunkHeadroom() {
		panic("pppoe: TagPrependHeader: bad header length")
	}
	buf.MoveBack(hl)
	copy(buf.ChunkMut()[0:TagHeaderLen], header[:])
	return Tag[T]{buf}
}

// TagIter walks consecutive Tag TLVs over a read-only byte slice.
type TagIter struct{ buf []byte }

func TagIterFromSlice(slice []byte) TagIter { return TagIter{buf: slice} }

func (it *TagIter) Next() (Tag[*pkt.Cursor], bool) {
	c := pkt.NewCursor(it.buf)
	t, ok := TagParse[*pkt.Cursor](&c)
	if !ok {
		return Tag[*pkt.Cursor]{}, false
	}
	hl := int(t.HeaderLen())
	oneTag := pkt.NewCursor(it.buf[:hl])
	it.buf = it.buf[hl:]
	return Tag[*pkt.Cursor]{&oneTag}, true
}

// TagIterMut walks consecutive Tag TLVs over a mutable byte slice,
// splitting the backing slice per-tag so each yielded Tag owns a
// disjoint mutable region (mirroring generated.rs's PppoeTagIterMut,
// which uses mem::replace + split_at_mut for the same purpose).
type TagIterMut struct{ buf []byte }

func TagIterMutFromSlice(slice []byte) TagIterMut { return TagIterMut{buf: slice} }

func (it *TagIterMut) Next() (Tag[*pkt.CursorMut], bool) {
	c := pkt.NewCursorMut(it.buf)
	t, ok := TagParse[*pkt.CursorMut](&c)
	if !ok {
		return Tag[*pkt.CursorMut]{}, false
	}
	hl := int(t.HeaderLen())
	fst, snd := it.buf[:hl], it.buf[hl:]
	it.buf = snd
	oneTag := pkt.NewCursorMut(fst)
	return Tag[*pkt.CursorMut]{&oneTag}, true
}
