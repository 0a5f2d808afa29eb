package udp_test

import (
	"testing"

	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ipv4"
	"go.netpkt.dev/netpkt/pkt/udp"
)

// buildUDPOverIPv4 assembles a UDP-over-IPv4 datagram from scratch,
// writing payload first and prepending headers back-to-front the way a
// tx path does, matching spec.md §8's "rebuild from a scratch buffer"
// universal invariant.
func buildUDPOverIPv4(t *testing.T, payload []byte, src, dst ipv4.Addr, srcPort, dstPort uint16) []byte {
	t.Helper()
	headroom := ipv4.HeaderLen + udp.HeaderLen
	raw := make([]byte, headroom+len(payload))
	copy(raw[headroom:], payload)

	cur := pkt.NewCursorMut(raw)
	cur.Advance(headroom)

	udpHeader := udp.HeaderTemplate
	u := udp.PrependHeader[*pkt.CursorMut](&cur, &udpHeader)
	udp.SetSourcePort[*pkt.CursorMut](u, srcPort)
	udp.SetDestPort[*pkt.CursorMut](u, dstPort)
	udp.SetPacketLen[*pkt.CursorMut](u, uint16(udp.HeaderLen+len(payload)))
	udp.SetChecksum[*pkt.CursorMut](u, 0)
	udp.AdjustIPv4Checksum[*pkt.CursorMut](u, src, dst)

	var ipHeader [ipv4.HeaderLen]byte
	ip := ipv4.PrependHeader[*pkt.CursorMut](&cur, ipHeader[:])
	ipv4.SetVersionAndIHL[*pkt.CursorMut](ip, 5)
	ipv4.SetTotalLen[*pkt.CursorMut](ip, uint16(ipv4.HeaderLen+udp.HeaderLen+len(payload)))
	ipv4.SetTTL[*pkt.CursorMut](ip, 64)
	ipv4.SetProtocolNum[*pkt.CursorMut](ip, ipv4.ProtoUDP)
	ipv4.SetSourceIP[*pkt.CursorMut](ip, src)
	ipv4.SetDestIP[*pkt.CursorMut](ip, dst)
	ipv4.SetChecksum[*pkt.CursorMut](ip, 0)
	ipv4.AdjustChecksum[*pkt.CursorMut](ip)

	return cur.Buf()[cur.Cursor():]
}

func TestUDPOverIPv4RoundTrip(t *testing.T) {
	src := ipv4.AddrFromBytes([]byte{192, 168, 29, 58})
	dst := ipv4.AddrFromBytes([]byte{192, 168, 29, 160})
	payload := []byte("hello, netpkt")

	raw := buildUDPOverIPv4(t, payload, src, dst, 60376, 161)

	cur := pkt.NewCursor(raw)
	ip, ok := ipv4.Parse[*pkt.Cursor](&cur)
	if !ok {
		t.Fatalf("ipv4.Parse failed")
	}
	if !ip.VerifyChecksum() {
		t.Fatalf("ipv4 checksum did not verify")
	}
	if ip.SourceIP() != src || ip.DestIP() != dst {
		t.Fatalf("ip addresses mismatch: got src=%v dst=%v", ip.SourceIP(), ip.DestIP())
	}

	ipPayload := ipv4.Payload[*pkt.Cursor](ip)
	u, ok := udp.Parse[*pkt.Cursor](ipPayload)
	if !ok {
		t.Fatalf("udp.Parse failed")
	}
	if u.SourcePort() != 60376 || u.DestPort() != 161 {
		t.Fatalf("udp ports mismatch: got src=%d dst=%d", u.SourcePort(), u.DestPort())
	}
	if int(u.PacketLen()) != udp.HeaderLen+len(payload) {
		t.Fatalf("udp packet_len mismatch: got %d", u.PacketLen())
	}
	if !udp.VerifyIPv4Checksum[*pkt.Cursor](u, src, dst) {
		t.Fatalf("udp checksum did not verify")
	}

	body := udp.Payload[*pkt.Cursor](u)
	if string(body.Chunk()) != string(payload) {
		t.Fatalf("payload mismatch: got %q want %q", body.Chunk(), payload)
	}
}

func TestUDPZeroChecksumAdjustedToAllOnes(t *testing.T) {
	// RFC 768: a computed checksum of 0 is transmitted as 0xffff, since 0
	// means "no checksum computed".
	src := ipv4.AddrFromBytes([]byte{10, 0, 0, 1})
	dst := ipv4.AddrFromBytes([]byte{10, 0, 0, 2})
	// With these addresses and an empty payload, ports 1234 and 59145 make
	// the computed checksum 0.
	raw := buildUDPOverIPv4(t, nil, src, dst, 1234, 59145)

	cur := pkt.NewCursor(raw)
	ip, _ := ipv4.Parse[*pkt.Cursor](&cur)
	u, ok := udp.Parse[*pkt.Cursor](ipv4.Payload[*pkt.Cursor](ip))
	if !ok {
		t.Fatalf("udp.Parse failed")
	}
	if u.Checksum() != 0xffff {
		t.Fatalf("computed checksum 0 must be stored as 0xffff, got %#x", u.Checksum())
	}
}
