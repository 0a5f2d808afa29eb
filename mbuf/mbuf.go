package mbuf

// Mbuf is an owned, non-empty chain of segments: a head segment possibly
// chained to following segments. Dropping (freeing) the head frees all
// followers — see Mempool.Free / Mempool.FreeBatch.
//
// Offload metadata mirrors the native driver's per-packet flag word
// (spec.md §4.4): an opaque 64-bit flag word plus the l2/l3/l4 length and
// TSO segment size hints that a device consults when RTE_MBUF_F_TX_* bits
// request segmentation or checksum offload.
type Mbuf struct {
	head *segment

	rxOffload MbufRxOffload
	txOffload MbufTxOffload
	l2Len     uint8
	l3Len     uint8
	l4Len     uint8
	tsoSegsz  uint16
	rssHash   uint32

	pool *Mempool // the pool this mbuf must be returned to
}

// Len returns the sum of dataLen over all segments: the total payload
// length of the chain.
func (m *Mbuf) Len() int {
	total := 0
	for s := m.head; s != nil; s = s.next {
		total += s.dataLen
	}
	return total
}

// NumSegs returns the number of segments in the chain (always >= 1).
func (m *Mbuf) NumSegs() int {
	n := 0
	for s := m.head; s != nil; s = s.next {
		n++
	}
	return n
}

func (m *Mbuf) lastSegment() *segment {
	s := m.head
	for s.next != nil {
		s = s.next
	}
	return s
}

// Capacity returns the tailroom of the last segment: bytes appendable
// without chaining a new segment.
func (m *Mbuf) Capacity() int { return m.lastSegment().tailroom() }

// FrontCapacity returns the headroom of the first segment: bytes
// prependable without chaining.
func (m *Mbuf) FrontCapacity() int { return m.head.headroom() }

// Data returns the live bytes of the first segment. For a multi-segment
// chain, use Pbuf to traverse the whole payload.
func (m *Mbuf) Data() []byte { return m.head.data() }

// DataMut returns a mutable view of the first segment's live bytes.
func (m *Mbuf) DataMut() []byte { return m.head.data() }

// Extend grows the last segment's data into its tailroom by cnt bytes. It
// panics if cnt exceeds Capacity().
func (m *Mbuf) Extend(cnt int) {
	last := m.lastSegment()
	if cnt > last.tailroom() {
		panic("mbuf: Extend: cnt exceeds capacity")
	}
	last.dataLen += cnt
}

// ExtendFromSlice extends the last segment and copies slice into the newly
// grown region.
func (m *Mbuf) ExtendFromSlice(slice []byte) {
	last := m.lastSegment()
	if len(slice) > last.tailroom() {
		panic("mbuf: ExtendFromSlice: slice exceeds capacity")
	}
	off := last.dataOff + last.dataLen
	copy(last.backing[off:off+len(slice)], slice)
	last.dataLen += len(slice)
}

// ExtendFront grows the first segment's data into its headroom by cnt
// bytes. It panics if cnt exceeds FrontCapacity().
func (m *Mbuf) ExtendFront(cnt int) {
	if cnt > m.head.headroom() {
		panic("mbuf: ExtendFront: cnt exceeds front capacity")
	}
	m.head.dataOff -= cnt
	m.head.dataLen += cnt
}

// ExtendFrontFromSlice grows the first segment's headroom and copies slice
// into the newly grown front region.
func (m *Mbuf) ExtendFrontFromSlice(slice []byte) {
	m.ExtendFront(len(slice))
	copy(m.head.data()[:len(slice)], slice)
}

// Truncate shortens the chain from the tail to a total length of cnt,
// releasing any segment whose range lies wholly past cnt.
func (m *Mbuf) Truncate(cnt int) {
	if cnt > m.Len() {
		panic("mbuf: Truncate: cnt exceeds length")
	}
	remaining := cnt
	s := m.head
	var dropped *segment
	for s != nil {
		if remaining >= s.dataLen {
			remaining -= s.dataLen
			prev := s
			s = s.next
			if remaining == 0 {
				dropped = prev.next
				prev.next = nil
				break
			}
			continue
		}
		s.dataLen = remaining
		dropped = s.next
		s.next = nil
		break
	}
	if dropped != nil && m.pool != nil {
		m.pool.free1(&Mbuf{head: dropped, pool: m.pool})
	}
}

// TrimFront shrinks data from the front of the first segment by cnt bytes.
func (m *Mbuf) TrimFront(cnt int) {
	if cnt > m.head.dataLen {
		panic("mbuf: TrimFront: cnt exceeds first segment's data")
	}
	m.head.dataOff += cnt
	m.head.dataLen -= cnt
}

// Appender returns a view that accepts further mbufs as trailing segments
// of this chain (spec.md §4.1's "an appender view on an mbuf accepts
// another mbuf as the next segment").
func (m *Mbuf) Appender() Appender { return Appender{head: m} }

// Appender grows an Mbuf's chain one segment at a time.
type Appender struct{ head *Mbuf }

// AppendSeg chains next onto the tail of the appender's mbuf, updating Len
// and NumSegs. next must not be used again afterward: its segments are now
// owned by the head mbuf.
func (a Appender) AppendSeg(next *Mbuf) {
	a.head.lastSegment().next = next.head
	next.head = nil
}

// RxOffload returns the per-packet rx offload flags set by the device.
func (m *Mbuf) RxOffload() MbufRxOffload { return m.rxOffload }

// SetTxOffload sets the per-packet tx offload flags the device should
// honor when this mbuf is transmitted.
func (m *Mbuf) SetTxOffload(o MbufTxOffload) { m.txOffload = o }

// TxOffload returns the currently configured per-packet tx offload flags.
func (m *Mbuf) TxOffload() MbufTxOffload { return m.txOffload }

func (m *Mbuf) SetL2Len(v uint8)    { m.l2Len = v }
func (m *Mbuf) SetL3Len(v uint8)    { m.l3Len = v }
func (m *Mbuf) SetL4Len(v uint8)    { m.l4Len = v }
func (m *Mbuf) SetTSOSegsz(v uint16) { m.tsoSegsz = v }
func (m *Mbuf) L2Len() uint8        { return m.l2Len }
func (m *Mbuf) L3Len() uint8        { return m.l3Len }
func (m *Mbuf) L4Len() uint8        { return m.l4Len }
func (m *Mbuf) TSOSegsz() uint16    { return m.tsoSegsz }

// RSSHash returns the RSS hash computed by the device, valid only when
// RxOffload().RSSHash() is true.
func (m *Mbuf) RSSHash() uint32 { return m.rssHash }
