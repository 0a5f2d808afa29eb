package ipv4_test

import (
	"testing"

	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ipv4"
)

// TestIGMPWithRouterAlertOption covers spec.md §8 scenario 3: an IGMPv2
// packet whose IHL is 6 words (header_len 24), carrying a single Router
// Alert option (RFC 2113, kind 0x94, length 4, value 0x0000) that fills
// the entire 4-byte options region.
func TestIGMPWithRouterAlertOption(t *testing.T) {
	src := ipv4.AddrFromBytes([]byte{192, 0, 2, 1})
	dst := ipv4.AddrFromBytes([]byte{224, 0, 0, 1})
	igmp := []byte{0x16, 0x00, 0xe9, 0x9b, 224, 0, 0, 1} // IGMPv2 membership report, synthetic checksum

	const headerLen = 24
	raw := make([]byte, headerLen+len(igmp))
	copy(raw[headerLen:], igmp)

	cur := pkt.NewCursorMut(raw)
	cur.Advance(headerLen)

	header := make([]byte, headerLen)
	copy(header, ipv4.HeaderTemplate[:])
	ip := ipv4.PrependHeader[*pkt.CursorMut](&cur, header)

	ipv4.SetVersionAndIHL[*pkt.CursorMut](ip, uint8(headerLen/4))
	ipv4.SetTotalLen[*pkt.CursorMut](ip, uint16(headerLen+len(igmp)))
	ipv4.SetTTL[*pkt.CursorMut](ip, 1)
	ipv4.SetProtocolNum[*pkt.CursorMut](ip, ipv4.ProtoIGMP)
	ipv4.SetSourceIP[*pkt.CursorMut](ip, src)
	ipv4.SetDestIP[*pkt.CursorMut](ip, dst)

	w := ipv4.NewOptionWriter(ip.Options())
	w.WriteTLV(0x94, []byte{0x00, 0x00})

	ipv4.SetChecksum[*pkt.CursorMut](ip, 0)
	ipv4.AdjustChecksum[*pkt.CursorMut](ip)

	parseCur := pkt.NewCursor(cur.Buf()[cur.Cursor():])
	got, ok := ipv4.Parse[*pkt.Cursor](&parseCur)
	if !ok {
		t.Fatalf("ipv4.Parse failed")
	}
	if int(got.HeaderLen()) != headerLen {
		t.Fatalf("header_len mismatch: got %d want %d", got.HeaderLen(), headerLen)
	}
	if got.ProtocolNum() != ipv4.ProtoIGMP {
		t.Fatalf("protocol mismatch")
	}
	if !got.VerifyChecksum() {
		t.Fatalf("ipv4 checksum did not verify")
	}

	it := ipv4.NewOptionIter(got.Options())
	opt, ok := it.Next()
	if !ok {
		t.Fatalf("expected a router-alert option")
	}
	if opt.Kind != 0x94 {
		t.Fatalf("option kind mismatch: got %#x", opt.Kind)
	}
	if len(opt.Value) != 2 || opt.Value[0] != 0 || opt.Value[1] != 0 {
		t.Fatalf("router alert value mismatch: got %v", opt.Value)
	}
	if _, ok := it.Next(); ok {
		t.Fatalf("expected the options region to end after the single option")
	}
	if !it.Valid {
		t.Fatalf("iterator should still be Valid at a clean end of options")
	}

	body := ipv4.Payload[*pkt.Cursor](got)
	if string(body.Chunk()) != string(igmp) {
		t.Fatalf("payload mismatch")
	}
}
