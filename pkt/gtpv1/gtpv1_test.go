package gtpv1_test

import (
	"testing"

	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/gtpv1"
)

func TestGtpv1FixedHeaderRoundTrip(t *testing.T) {
	payload := []byte{0x45, 0x00, 0x00, 0x14}
	raw := make([]byte, gtpv1.HeaderLen+len(payload))
	copy(raw[gtpv1.HeaderLen:], payload)

	cur := pkt.NewCursorMut(raw)
	cur.Advance(gtpv1.HeaderLen)

	header := make([]byte, gtpv1.HeaderLen)
	copy(header, gtpv1.HeaderTemplate[:])
	g := gtpv1.PrependHeader[*pkt.CursorMut](&cur, header)

	gtpv1.SetMessageType[*pkt.CursorMut](g, 0xff) // G-PDU
	gtpv1.SetMessageLen[*pkt.CursorMut](g, uint16(len(payload)))
	gtpv1.SetTEID[*pkt.CursorMut](g, 0xdeadbeef)

	parseCur := pkt.NewCursor(cur.Buf()[cur.Cursor():])
	got, ok := gtpv1.Parse[*pkt.Cursor](&parseCur)
	if !ok {
		t.Fatalf("gtpv1.Parse failed")
	}
	if got.Version() != 1 || got.ProtocolType() != 1 {
		t.Fatalf("version/protocol type mismatch")
	}
	if got.ExtensionHeaderPresent() || got.SequencePresent() || got.NPDUPresent() {
		t.Fatalf("no optional flags should be set")
	}
	if got.HeaderLen() != gtpv1.HeaderLen {
		t.Fatalf("header len should stay 8 without optional flags, got %d", got.HeaderLen())
	}
	if got.MessageType() != 0xff {
		t.Fatalf("message type mismatch")
	}
	if got.TEID() != 0xdeadbeef {
		t.Fatalf("teid mismatch")
	}

	body := gtpv1.Payload[*pkt.Cursor](got)
	if string(body.Chunk()) != string(payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestGtpv1OptionalHeaderRoundTrip(t *testing.T) {
	const headerLen = 12
	payload := []byte{0xaa, 0xbb}
	raw := make([]byte, headerLen+len(payload))
	copy(raw[headerLen:], payload)

	cur := pkt.NewCursorMut(raw)
	cur.Advance(headerLen)

	header := make([]byte, headerLen)
	copy(header, gtpv1.HeaderTemplate[:])
	g := gtpv1.PrependHeader[*pkt.CursorMut](&cur, header)

	gtpv1.SetSequencePresent[*pkt.CursorMut](g, true)
	gtpv1.SetSequence[*pkt.CursorMut](g, 0x0102)
	gtpv1.SetNPDU[*pkt.CursorMut](g, 0x00)
	gtpv1.SetNextExtensionHeader[*pkt.CursorMut](g, 0x00)
	gtpv1.SetMessageLen[*pkt.CursorMut](g, uint16(headerLen-8+len(payload)))

	parseCur := pkt.NewCursor(cur.Buf()[cur.Cursor():])
	got, ok := gtpv1.Parse[*pkt.Cursor](&parseCur)
	if !ok {
		t.Fatalf("gtpv1.Parse failed")
	}
	if !got.SequencePresent() {
		t.Fatalf("sequence flag should be set")
	}
	if got.HeaderLen() != headerLen {
		t.Fatalf("header len mismatch: got %d want %d", got.HeaderLen(), headerLen)
	}
	if got.Sequence() != 0x0102 {
		t.Fatalf("sequence mismatch")
	}

	body := gtpv1.Payload[*pkt.Cursor](got)
	if string(body.Chunk()) != string(payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestGtpv1AccessorsPanicWithoutOptionalHeader(t *testing.T) {
	raw := make([]byte, gtpv1.HeaderLen)
	copy(raw, gtpv1.HeaderTemplate[:])
	cur := pkt.NewCursor(raw)
	g, ok := gtpv1.Parse[*pkt.Cursor](&cur)
	if !ok {
		t.Fatalf("gtpv1.Parse failed")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Sequence() to panic without the optional header")
		}
	}()
	g.Sequence()
}
