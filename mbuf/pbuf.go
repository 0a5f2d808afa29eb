package mbuf

import "go.netpkt.dev/netpkt/pkt"

// Pbuf is a cursor that traverses an Mbuf's segment chain as if it were one
// contiguous buffer, implementing pkt.Buf/PktBuf/PktBufMut so that every
// protocol view in the pkt/* packages works unmodified whether it parses a
// single CursorMut or a multi-segment Mbuf chain received off the wire.
//
// It keeps only the current segment and the live chunk's bounds within it;
// Advance/MoveBack take a fast path when the requested count stays inside
// the current chunk and fall back to a chain walk ("_slow") only at segment
// boundaries.
type Pbuf struct {
	mbuf       *Mbuf
	cur        *segment
	chunkStart int // offset into cur.backing
	chunkLen   int
	segsLen    int // total data length of every segment visited so far, including cur
}

var (
	_ pkt.Buf       = (*Pbuf)(nil)
	_ pkt.PktBuf    = (*Pbuf)(nil)
	_ pkt.PktBufMut = (*Pbuf)(nil)
)

// NewPbuf builds a Pbuf positioned at the start of m's chain.
func NewPbuf(m *Mbuf) *Pbuf {
	fst := m.head
	return &Pbuf{
		mbuf:       m,
		cur:        fst,
		chunkStart: fst.dataOff,
		chunkLen:   fst.dataLen,
		segsLen:    fst.dataLen,
	}
}

// Cursor reports the current position relative to the start of the chain.
func (p *Pbuf) Cursor() int { return p.segsLen - p.chunkLen }

// advanceCommon repositions chunkStart/chunkLen so that the chunk begins at
// targetCursor, walking forward through the chain as needed.
func (p *Pbuf) advanceCommon(targetCursor int) {
	for p.segsLen <= targetCursor && p.cur.next != nil {
		p.cur = p.cur.next
		p.segsLen += p.cur.dataLen
	}
	p.chunkLen = p.segsLen - targetCursor
	p.chunkStart = p.cur.dataOff + p.cur.dataLen - p.chunkLen
}

func (p *Pbuf) advanceSlow(cnt int) {
	if cnt > p.mbuf.Len()-p.Cursor() {
		panic("mbuf: Pbuf.Advance: cnt exceeds remaining")
	}
	p.advanceCommon(p.Cursor() + cnt)
}

func (p *Pbuf) moveBackSlow(cnt int) {
	if cnt > p.Cursor() {
		panic("mbuf: Pbuf.MoveBack: cnt exceeds cursor position")
	}
	target := p.Cursor() - cnt
	p.cur = p.mbuf.head
	p.segsLen = p.cur.dataLen
	p.advanceCommon(target)
}

func (p *Pbuf) Chunk() []byte {
	return p.cur.backing[p.chunkStart : p.chunkStart+p.chunkLen]
}

func (p *Pbuf) ChunkMut() []byte {
	return p.cur.backing[p.chunkStart : p.chunkStart+p.chunkLen]
}

func (p *Pbuf) Remaining() int { return p.mbuf.Len() - p.Cursor() }

func (p *Pbuf) Advance(cnt int) {
	if cnt >= p.chunkLen {
		p.advanceSlow(cnt)
	} else {
		p.chunkStart += cnt
		p.chunkLen -= cnt
	}
}

// ChunkHeadroom reports how many already-visited bytes of the current
// segment lie before the chunk — the distance MoveBack can cover without
// a chain walk.
func (p *Pbuf) ChunkHeadroom() int { return p.cur.dataLen - p.chunkLen }

func (p *Pbuf) MoveBack(cnt int) {
	if cnt > p.ChunkHeadroom() {
		p.moveBackSlow(cnt)
	} else {
		p.chunkStart -= cnt
		p.chunkLen += cnt
	}
}

// TrimOff drops cnt bytes from the tail of the whole chain, truncating (and
// freeing) any segment that falls entirely past the new length.
func (p *Pbuf) TrimOff(cnt int) {
	cursor := p.Cursor()
	if cnt > p.Remaining() {
		panic("mbuf: Pbuf.TrimOff: cnt exceeds remaining")
	}
	newLen := p.mbuf.Len() - cnt

	if cursor == newLen && p.ChunkHeadroom() == 0 {
		p.mbuf.Truncate(newLen)
		p.cur = p.mbuf.head
		p.segsLen = p.cur.dataLen
		p.advanceCommon(cursor)
		return
	}

	p.mbuf.Truncate(newLen)
	if newLen < p.segsLen {
		p.chunkLen = newLen - cursor
		p.segsLen = newLen
	}
}
