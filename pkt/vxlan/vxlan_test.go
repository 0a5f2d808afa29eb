package vxlan_test

import (
	"testing"

	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/vxlan"
)

// TestVXLANGbpRoundTrip covers spec.md §8 scenario 4: a VXLAN-GBP header
// carrying vni=3000001, group_id=100, with the G/D/A flags all set.
func TestVXLANGbpRoundTrip(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	raw := make([]byte, vxlan.HeaderLen+len(payload))
	copy(raw[vxlan.HeaderLen:], payload)

	cur := pkt.NewCursorMut(raw)
	cur.Advance(vxlan.HeaderLen)

	header := vxlan.HeaderTemplate
	v := vxlan.PrependHeader[*pkt.CursorMut](&cur, &header)
	vxlan.SetVNIValid[*pkt.CursorMut](v, true)
	vxlan.SetVNI[*pkt.CursorMut](v, 3000001)
	vxlan.SetGbpExtension[*pkt.CursorMut](v, true)
	vxlan.SetDontLearn[*pkt.CursorMut](v, true)
	vxlan.SetPolicyApplied[*pkt.CursorMut](v, true)
	vxlan.SetGroupID[*pkt.CursorMut](v, 100)

	parseCur := pkt.NewCursor(cur.Buf()[cur.Cursor():])
	got, ok := vxlan.Parse[*pkt.Cursor](&parseCur)
	if !ok {
		t.Fatalf("vxlan.Parse failed")
	}
	if !got.VNIValid() {
		t.Fatalf("expected VNI valid flag set")
	}
	if got.VNI() != 3000001 {
		t.Fatalf("vni mismatch: got %d want 3000001", got.VNI())
	}
	if !got.GbpExtension() {
		t.Fatalf("expected GBP extension flag set")
	}
	if !got.DontLearn() {
		t.Fatalf("expected Don't Learn flag set")
	}
	if !got.PolicyApplied() {
		t.Fatalf("expected Policy Applied flag set")
	}
	if got.GroupID() != 100 {
		t.Fatalf("group_id mismatch: got %d want 100", got.GroupID())
	}

	body := vxlan.Payload[*pkt.Cursor](got)
	if string(body.Chunk()) != string(payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestVXLANFlagsDoNotAliasUnrelatedBits(t *testing.T) {
	raw := make([]byte, vxlan.HeaderLen)
	cur := pkt.NewCursorMut(raw)
	cur.Advance(vxlan.HeaderLen)
	// All-zero header, so every flag starts clear (the template sets I).
	var header [vxlan.HeaderLen]byte
	v := vxlan.PrependHeader[*pkt.CursorMut](&cur, &header)

	vxlan.SetGbpExtension[*pkt.CursorMut](v, true)
	if v.VNIValid() || v.DontLearn() || v.PolicyApplied() {
		t.Fatalf("setting GBP extension must not set unrelated flags")
	}
	vxlan.SetGbpExtension[*pkt.CursorMut](v, false)
	if v.GbpExtension() {
		t.Fatalf("GBP extension should have cleared")
	}
}
