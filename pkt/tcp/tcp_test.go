package tcp_test

import (
	"testing"

	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/ipv4"
	"go.netpkt.dev/netpkt/pkt/tcp"
)

func TestTCPWithOptionsRoundTrip(t *testing.T) {
	src := ipv4.AddrFromBytes([]byte{10, 0, 0, 1})
	dst := ipv4.AddrFromBytes([]byte{10, 0, 0, 2})
	payload := []byte("GET / HTTP/1.1\r\n")

	const optLen = 12 // MSS(4) + SACK-permitted(2) + WindowScale(3) + NOP(1) + EOL(1) + pad? keep multiple of 4
	headerLen := tcp.HeaderLen + optLen

	raw := make([]byte, headerLen+len(payload))
	copy(raw[headerLen:], payload)

	cur := pkt.NewCursorMut(raw)
	cur.Advance(headerLen)

	header := make([]byte, headerLen)
	copy(header, tcp.HeaderTemplate[:])
	p := tcp.PrependHeader[*pkt.CursorMut](&cur, header)

	tcp.SetSrcPort[*pkt.CursorMut](p, 57678)
	tcp.SetDstPort[*pkt.CursorMut](p, 80)
	tcp.SetSeqNumber[*pkt.CursorMut](p, 0x8e501902)
	tcp.SetAckNumber[*pkt.CursorMut](p, 0xc7529d89)
	tcp.SetHeaderLen[*pkt.CursorMut](p, uint8(headerLen))
	tcp.SetAck[*pkt.CursorMut](p, true)
	tcp.SetPsh[*pkt.CursorMut](p, true)
	tcp.SetWindowSize[*pkt.CursorMut](p, 46)

	w := tcp.NewOptionWriter(p.Buf().ChunkMut()[tcp.HeaderLen:headerLen])
	w.WriteMSS(1460)
	w.WriteSackPermitted()
	w.WriteWindowScale(7)
	w.WriteNOP()
	w.WriteEOL()

	tcp.SetChecksum[*pkt.CursorMut](p, 0)
	tcp.AdjustIPv4Checksum[*pkt.CursorMut](p, src, dst)

	parseCur := pkt.NewCursor(cur.Buf()[cur.Cursor():])
	got, ok := tcp.Parse[*pkt.Cursor](&parseCur)
	if !ok {
		t.Fatalf("tcp.Parse failed")
	}
	if int(got.HeaderLen()) != headerLen {
		t.Fatalf("header_len mismatch: got %d want %d", got.HeaderLen(), headerLen)
	}
	if got.SrcPort() != 57678 || got.DstPort() != 80 {
		t.Fatalf("ports mismatch")
	}
	if got.SeqNumber() != 0x8e501902 || got.AckNumber() != 0xc7529d89 {
		t.Fatalf("seq/ack mismatch")
	}
	if !got.Ack() || !got.Psh() || got.Syn() || got.Fin() {
		t.Fatalf("flags mismatch")
	}
	if !got.CheckReserved() {
		t.Fatalf("reserved bits should be clear")
	}
	if len(got.OptionBytes()) != optLen {
		t.Fatalf("option bytes length mismatch: got %d want %d", len(got.OptionBytes()), optLen)
	}
	if !tcp.VerifyIPv4Checksum[*pkt.Cursor](got, src, dst) {
		t.Fatalf("tcp checksum did not verify")
	}

	body := tcp.Payload[*pkt.Cursor](got)
	if string(body.Chunk()) != string(payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestTCPFlagSettersAreIndependent(t *testing.T) {
	raw := make([]byte, tcp.HeaderLen)
	copy(raw, tcp.HeaderTemplate[:])
	cur := pkt.NewCursorMut(raw)
	p := tcp.ParseUnchecked[*pkt.CursorMut](&cur)

	tcp.SetSyn[*pkt.CursorMut](p, true)
	tcp.SetEce[*pkt.CursorMut](p, true)
	if !p.Syn() || !p.Ece() {
		t.Fatalf("expected SYN and ECE set")
	}
	if p.Fin() || p.Ack() || p.Cwr() || p.Ns() {
		t.Fatalf("unrelated flags must remain clear")
	}
	tcp.SetSyn[*pkt.CursorMut](p, false)
	if p.Syn() {
		t.Fatalf("SYN should have cleared")
	}
	if !p.Ece() {
		t.Fatalf("clearing SYN must not clear ECE")
	}
}
