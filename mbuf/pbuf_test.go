package mbuf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.netpkt.dev/netpkt/mbuf"
	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ipv4"
	"go.netpkt.dev/netpkt/pkt/udp"
)

// buildUDPOverIPv4 assembles a contiguous IPv4+UDP+payload packet of the
// given total length, with both checksums filled in.
func buildUDPOverIPv4(t *testing.T, totalLen int) (raw []byte, src, dst ipv4.Addr) {
	t.Helper()
	src = ipv4.AddrFromBytes([]byte{10, 0, 0, 1})
	dst = ipv4.AddrFromBytes([]byte{10, 0, 0, 2})

	raw = make([]byte, totalLen)
	for i := range raw[ipv4.HeaderLen+udp.HeaderLen:] {
		raw[ipv4.HeaderLen+udp.HeaderLen+i] = byte(i * 7)
	}

	cur := pkt.NewCursorMut(raw)
	cur.Advance(totalLen)

	udpHeader := udp.HeaderTemplate
	u := udp.PrependHeader[*pkt.CursorMut](&cur, &udpHeader)
	udp.SetSourcePort[*pkt.CursorMut](u, 5000)
	udp.SetDestPort[*pkt.CursorMut](u, 9000)
	udp.AdjustIPv4Checksum[*pkt.CursorMut](u, src, dst)

	ipHeader := make([]byte, ipv4.HeaderLen)
	copy(ipHeader, ipv4.HeaderTemplate[:])
	ip := ipv4.PrependHeader[*pkt.CursorMut](&cur, ipHeader)
	ipv4.SetVersionAndIHL[*pkt.CursorMut](ip, ipv4.HeaderLen/4)
	ipv4.SetTotalLen[*pkt.CursorMut](ip, uint16(totalLen))
	ipv4.SetTTL[*pkt.CursorMut](ip, 64)
	ipv4.SetProtocolNum[*pkt.CursorMut](ip, ipv4.ProtoUDP)
	ipv4.SetSourceIP[*pkt.CursorMut](ip, src)
	ipv4.SetDestIP[*pkt.CursorMut](ip, dst)
	ipv4.SetChecksum[*pkt.CursorMut](ip, 0)
	ipv4.AdjustChecksum[*pkt.CursorMut](ip)

	return raw, src, dst
}

// readAllFromPbuf drains exactly n bytes from p, walking across however
// many segments they span.
func readAllFromPbuf(p *mbuf.Pbuf, n int) []byte {
	out := make([]byte, 0, n)
	for n > 0 {
		chunk := p.Chunk()
		take := len(chunk)
		if take > n {
			take = n
		}
		out = append(out, chunk[:take]...)
		p.Advance(take)
		n -= take
	}
	return out
}

// chainSegments splits raw into a multi-segment Mbuf at the given lengths
// (which must sum to len(raw)), allocating each segment from pool.
func chainSegments(t *testing.T, pool *mbuf.Mempool, raw []byte, lens []int) *mbuf.Mbuf {
	t.Helper()
	off := 0
	var m *mbuf.Mbuf
	var appender mbuf.Appender
	for i, n := range lens {
		seg := pool.TryAlloc()
		require.NotNil(t, seg, "pool exhausted building segment %d", i)
		seg.ExtendFromSlice(raw[off : off+n])
		off += n
		if m == nil {
			m = seg
			appender = m.Appender()
		} else {
			appender.AppendSeg(seg)
		}
	}
	require.Equal(t, len(raw), off, "segment lengths %v do not sum to %d", lens, len(raw))
	return m
}

// TestChecksumEquivalenceAcrossSegmentation covers spec.md §8 scenario 6:
// the same 1500-byte UDP-over-IPv4 packet, once held in one contiguous
// CursorMut buffer and once split 499/501/500 bytes across a 3-segment
// Mbuf chain, must parse to identical header fields and verify the same
// checksums either way.
func TestChecksumEquivalenceAcrossSegmentation(t *testing.T) {
	const totalLen = 1500
	raw, src, dst := buildUDPOverIPv4(t, totalLen)

	contigCur := pkt.NewCursor(raw)
	contigIP, ok := ipv4.Parse[*pkt.Cursor](&contigCur)
	require.True(t, ok, "ipv4.Parse over contiguous buffer failed")
	require.True(t, contigIP.VerifyChecksum(), "contiguous ipv4 checksum did not verify")
	contigUDPBuf := ipv4.Payload[*pkt.Cursor](contigIP)
	contigUDP, ok := udp.Parse[*pkt.Cursor](contigUDPBuf)
	require.True(t, ok, "udp.Parse over contiguous buffer failed")
	require.True(t, udp.VerifyIPv4Checksum[*pkt.Cursor](contigUDP, src, dst), "contiguous udp checksum did not verify")
	contigPayload := udp.Payload[*pkt.Cursor](contigUDP)
	wantPayload := append([]byte(nil), contigPayload.Chunk()...)

	pool, err := mbuf.NewMempool("seg-pool", 8, 0, 600, 0, 0)
	require.NoError(t, err)

	m := chainSegments(t, pool, raw, []int{499, 501, 500})
	require.Equal(t, 3, m.NumSegs())
	require.Equal(t, totalLen, m.Len())

	pb := mbuf.NewPbuf(m)
	segIP, ok := ipv4.Parse[*mbuf.Pbuf](pb)
	require.True(t, ok, "ipv4.Parse over segmented buffer failed")
	require.Equal(t, ipv4.HeaderLen, int(segIP.HeaderLen()))
	require.Equal(t, ipv4.ProtoUDP, segIP.ProtocolNum())
	require.True(t, segIP.VerifyChecksum(), "segmented ipv4 checksum did not verify")

	segUDPBuf := ipv4.Payload[*mbuf.Pbuf](segIP)
	segUDP, ok := udp.Parse[*mbuf.Pbuf](segUDPBuf)
	require.True(t, ok, "udp.Parse over segmented buffer failed")
	require.Equal(t, uint16(5000), segUDP.SourcePort())
	require.Equal(t, uint16(9000), segUDP.DestPort())
	require.Equal(t, contigUDP.Checksum(), segUDP.Checksum(), "udp checksum differs between representations")
	require.True(t, udp.VerifyIPv4Checksum[*mbuf.Pbuf](segUDP, src, dst), "segmented udp checksum did not verify")

	segPayloadBuf := udp.Payload[*mbuf.Pbuf](segUDP)
	gotPayload := readAllFromPbuf(segPayloadBuf, len(wantPayload))
	require.Equal(t, wantPayload, gotPayload, "payload mismatch across segmentation")

	pool.Free(m)
}

// TestPbufAdvanceBeyondRemainingPanics and the MoveBack/TrimOff variants
// below are the Pbuf-level half of spec.md §8's universal buffer-safety
// invariants, mirrored from Cursor/CursorMut in pkt/cursor_test.go.
func TestPbufAdvanceBeyondRemainingPanics(t *testing.T) {
	pool, err := mbuf.NewMempool("panic-pool", 2, 0, 64, 0, 0)
	require.NoError(t, err)
	m, err := pool.FromSlice([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	defer pool.Free(m)

	pb := mbuf.NewPbuf(m)
	require.Panics(t, func() { pb.Advance(pb.Remaining() + 1) })
}

func TestPbufMoveBackBeyondCursorPanics(t *testing.T) {
	pool, err := mbuf.NewMempool("panic-pool", 2, 0, 64, 0, 0)
	require.NoError(t, err)
	m, err := pool.FromSlice([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	defer pool.Free(m)

	pb := mbuf.NewPbuf(m)
	pb.Advance(2)
	require.Panics(t, func() { pb.MoveBack(3) })
}

func TestPbufTrimOffBeyondRemainingPanics(t *testing.T) {
	pool, err := mbuf.NewMempool("panic-pool", 2, 0, 64, 0, 0)
	require.NoError(t, err)
	m, err := pool.FromSlice([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	defer pool.Free(m)

	pb := mbuf.NewPbuf(m)
	require.Panics(t, func() { pb.TrimOff(pb.Remaining() + 1) })
}
