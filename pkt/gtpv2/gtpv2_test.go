package gtpv2_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.netpkt.dev/netpkt/pkt"
	"go.netpkt.dev/netpkt/pkt/gtpv2"
)

// buildNestedBearerContext assembles a BearerContext's nested IE sequence
// (F-TEID followed by EPS Bearer ID) into its own small buffer, the way a
// caller composes a grouped IE's variable region independently before
// copying it into the parent.
func buildNestedBearerContext(t *testing.T) []byte {
	t.Helper()
	const ftLen = 4 + 9  // iface byte + 4-byte key + 4-byte v4 addr
	const ebLen = 4 + 1
	raw := make([]byte, ftLen+ebLen)
	cur := pkt.NewCursorMut(raw)
	cur.Advance(len(raw))

	ebHeader := make([]byte, ebLen)
	copy(ebHeader, gtpv2.EpsBearerIdIEHeaderTemplate[:])
	eb := gtpv2.EpsBearerIdPrependHeader[*pkt.CursorMut](&cur, ebHeader)
	gtpv2.SetLen(gtpv2.IEParseUnchecked[*pkt.CursorMut](eb.Buf()), uint16(1))
	gtpv2.SetEpsBearerID[*pkt.CursorMut](eb, 5)

	ftHeader := make([]byte, ftLen)
	ftHeader[0] = uint8(gtpv2.TypeFullyQualifiedTEID)
	ft := gtpv2.FullyQualifiedTeidPrependHeader[*pkt.CursorMut](&cur, ftHeader)
	gtpv2.SetLen(gtpv2.IEParseUnchecked[*pkt.CursorMut](ft.Buf()), uint16(9))
	gtpv2.SetV4[*pkt.CursorMut](ft, true)
	gtpv2.SetInterfaceType[*pkt.CursorMut](ft, 0) // S1-U eNodeB GTP-U interface
	gtpv2.SetTeidGreKey[*pkt.CursorMut](ft, 0x11223344)
	copy(gtpv2.FullyQualifiedTeidVarHeaderSliceMut[*pkt.CursorMut](ft), []byte{10, 0, 0, 5})

	return cur.Buf()
}

// TestGtpv2WithTeidAndNestedIEs covers spec.md §8 scenario 5: a GTPv2-C
// message with the TEID flag set, carrying a run of top-level IEs including
// a grouped BearerContext whose own variable region holds a nested F-TEID
// and EPS Bearer ID.
func TestGtpv2WithTeidAndNestedIEs(t *testing.T) {
	nested := buildNestedBearerContext(t)

	const (
		uliLen = 4 + 1 + gtpv2.UliTaiLen
		snLen  = 4 + 3
		ratLen = 4 + 1
		ftLen  = 4 + 9
		ambrLen = 4 + 8
		meidLen = 4 + 8
	)
	ueTzLen := 4 + 2
	bcLen := 4 + len(nested)
	recLen := 4 + 1

	bodyLen := uliLen + snLen + ratLen + ftLen + ambrLen + meidLen + ueTzLen + bcLen + recLen
	total := gtpv2.HeaderLen + bodyLen

	raw := make([]byte, total)
	cur := pkt.NewCursorMut(raw)
	cur.Advance(total)

	// Prepend in reverse of final wire order: Recovery, BearerContext,
	// UeTimeZone, MobileEquipmentId, Ambr, FTEID, RatType, ServingNetwork,
	// UserLocationInfo, then the GTPv2 header itself.

	recHeader := make([]byte, recLen)
	recHeader[0] = uint8(gtpv2.TypeRecovery)
	rec := gtpv2.RecoveryPrependHeader[*pkt.CursorMut](&cur, recHeader)
	gtpv2.SetLen(gtpv2.IEParseUnchecked[*pkt.CursorMut](rec.Buf()), uint16(1))
	gtpv2.RecoveryVarHeaderSliceMut[*pkt.CursorMut](rec)[0] = 7

	bcHeader := make([]byte, bcLen)
	bcHeader[0] = uint8(gtpv2.TypeBearerContext)
	bc := gtpv2.BearerContextPrependHeader[*pkt.CursorMut](&cur, bcHeader)
	gtpv2.SetLen(gtpv2.IEParseUnchecked[*pkt.CursorMut](bc.Buf()), uint16(len(nested)))
	copy(gtpv2.BearerContextVarHeaderSliceMut[*pkt.CursorMut](bc), nested)

	tzHeader := make([]byte, ueTzLen)
	copy(tzHeader, gtpv2.UeTimeZoneIEHeaderTemplate[:])
	tz := gtpv2.UeTimeZonePrependHeader[*pkt.CursorMut](&cur, tzHeader)
	gtpv2.SetLen(gtpv2.IEParseUnchecked[*pkt.CursorMut](tz.Buf()), uint16(2))
	gtpv2.SetTimeZone[*pkt.CursorMut](tz, 0x28)
	gtpv2.SetDaylightSavingTime[*pkt.CursorMut](tz, 1)

	meidHeader := make([]byte, meidLen)
	meidHeader[0] = uint8(gtpv2.TypeMobileEquipmentID)
	meid := gtpv2.MobileEquipmentIdPrependHeader[*pkt.CursorMut](&cur, meidHeader)
	gtpv2.SetLen(gtpv2.IEParseUnchecked[*pkt.CursorMut](meid.Buf()), uint16(8))
	copy(gtpv2.MobileEquipmentIdVarHeaderSliceMut[*pkt.CursorMut](meid), []byte{0x53, 0x01, 0x92, 0x50, 0x12, 0x62, 0x90, 0x03})

	ambrHeader := make([]byte, ambrLen)
	copy(ambrHeader, gtpv2.AggregateMaxBitRateIEHeaderTemplate[:])
	ambr := gtpv2.AggregateMaxBitRatePrependHeader[*pkt.CursorMut](&cur, ambrHeader)
	gtpv2.SetLen(gtpv2.IEParseUnchecked[*pkt.CursorMut](ambr.Buf()), uint16(8))
	gtpv2.SetApnAmbrForUplink[*pkt.CursorMut](ambr, 50000000)
	gtpv2.SetApnAmbrForDownlink[*pkt.CursorMut](ambr, 100000000)

	ftHeader := make([]byte, ftLen)
	ftHeader[0] = uint8(gtpv2.TypeFullyQualifiedTEID)
	ft := gtpv2.FullyQualifiedTeidPrependHeader[*pkt.CursorMut](&cur, ftHeader)
	gtpv2.SetLen(gtpv2.IEParseUnchecked[*pkt.CursorMut](ft.Buf()), uint16(9))
	gtpv2.SetV4[*pkt.CursorMut](ft, true)
	gtpv2.SetInterfaceType[*pkt.CursorMut](ft, 36) // S5/S8 SGW GTP-U interface
	gtpv2.SetTeidGreKey[*pkt.CursorMut](ft, 0xd37d1590)
	copy(gtpv2.FullyQualifiedTeidVarHeaderSliceMut[*pkt.CursorMut](ft), []byte{172, 16, 0, 1})

	ratHeader := make([]byte, ratLen)
	copy(ratHeader, gtpv2.RatTypeIEHeaderTemplate[:])
	rat := gtpv2.RatTypePrependHeader[*pkt.CursorMut](&cur, ratHeader)
	gtpv2.SetLen(gtpv2.IEParseUnchecked[*pkt.CursorMut](rat.Buf()), uint16(1))
	gtpv2.SetRatType[*pkt.CursorMut](rat, 6) // EUTRAN

	snHeader := make([]byte, snLen)
	copy(snHeader, gtpv2.ServingNetworkIEHeaderTemplate[:])
	sn := gtpv2.ServingNetworkPrependHeader[*pkt.CursorMut](&cur, snHeader)
	gtpv2.SetLen(gtpv2.IEParseUnchecked[*pkt.CursorMut](sn.Buf()), uint16(3))
	gtpv2.SetMccDigit1[*pkt.CursorMut](sn, 3)
	gtpv2.SetMccDigit2[*pkt.CursorMut](sn, 1)
	gtpv2.SetMccDigit3[*pkt.CursorMut](sn, 0)
	gtpv2.SetMncDigit1[*pkt.CursorMut](sn, 1)
	gtpv2.SetMncDigit2[*pkt.CursorMut](sn, 7)
	gtpv2.SetMncDigit3[*pkt.CursorMut](sn, 0)

	uliHeader := make([]byte, uliLen)
	uliHeader[0] = uint8(gtpv2.TypeUserLocationInfo)
	uli := gtpv2.UserLocationInfoPrependHeader[*pkt.CursorMut](&cur, uliHeader)
	gtpv2.SetLen(gtpv2.IEParseUnchecked[*pkt.CursorMut](uli.Buf()), uint16(1+gtpv2.UliTaiLen))
	gtpv2.SetTai[*pkt.CursorMut](uli, true)
	copy(gtpv2.UserLocationInfoVarHeaderSliceMut[*pkt.CursorMut](uli), []byte{0x31, 0x01, 0x70, 0x2a, 0x3b})

	header := make([]byte, gtpv2.HeaderLen)
	copy(header, gtpv2.HeaderTemplate[:])
	g := gtpv2.PrependHeader[*pkt.CursorMut](&cur, header)
	gtpv2.SetTEIDPresent[*pkt.CursorMut](g, true)
	gtpv2.SetMessageType[*pkt.CursorMut](g, 32) // Create Session Request
	gtpv2.SetTEID[*pkt.CursorMut](g, 0xd37d1590)
	gtpv2.SetSeqNumber[*pkt.CursorMut](g, 0x1a4a43)

	parseCur := pkt.NewCursor(cur.Buf()[cur.Cursor():])
	got, ok := gtpv2.Parse[*pkt.Cursor](&parseCur)
	if !ok {
		t.Fatalf("gtpv2.Parse failed")
	}
	if got.Version() != 2 {
		t.Fatalf("version mismatch: got %d", got.Version())
	}
	if !got.TEIDPresent() {
		t.Fatalf("teid_present should be set")
	}
	if got.TEID() != 0xd37d1590 {
		t.Fatalf("teid mismatch: got %#x", got.TEID())
	}
	if got.SeqNumber() != 0x1a4a43 {
		t.Fatalf("seq number mismatch: got %#x", got.SeqNumber())
	}
	if got.HeaderLen() != 12 {
		t.Fatalf("header len mismatch: got %d", got.HeaderLen())
	}
	if int(got.PacketLen()) != total {
		t.Fatalf("packet len mismatch: got %d want %d", got.PacketLen(), total)
	}

	body := gtpv2.Payload[*pkt.Cursor](got)
	if len(body.Chunk()) != bodyLen {
		t.Fatalf("body length mismatch: got %d want %d", len(body.Chunk()), bodyLen)
	}

	it := gtpv2.IEIterFromSlice(body.Chunk())

	next := func(wantGroup gtpv2.Group) gtpv2.IE[*pkt.Cursor] {
		t.Helper()
		ie, ok := it.Next()
		if !ok {
			t.Fatalf("expected another IE while looking for group %d", wantGroup)
		}
		grp, ok := gtpv2.GroupParse[*pkt.Cursor](ie.Buf())
		if !ok || grp != wantGroup {
			t.Fatalf("group mismatch: got %d want %d", grp, wantGroup)
		}
		return ie
	}

	uliIE := next(gtpv2.GroupUserLocationInfo)
	uliGot := gtpv2.UserLocationInfoIEParseUnchecked[*pkt.Cursor](uliIE.Buf())
	if !uliGot.Tai() || uliGot.Cgi() || uliGot.Ecgi() {
		t.Fatalf("uli flags mismatch")
	}
	uliFields, ok := gtpv2.ParseUliVarHeader(uliGot)
	if !ok {
		t.Fatalf("uli var header parse failed")
	}
	wantUli := gtpv2.UliVarHeader{Tai: []byte{0x31, 0x01, 0x70, 0x2a, 0x3b}}
	if diff := cmp.Diff(wantUli, uliFields); diff != "" {
		t.Fatalf("uli var header mismatch (-want +got):\n%s", diff)
	}

	snIE := next(gtpv2.GroupServingNetwork)
	snGot := gtpv2.ServingNetworkIEParseUnchecked[*pkt.Cursor](snIE.Buf())
	if snGot.MccDigit1() != 3 || snGot.MccDigit2() != 1 || snGot.MccDigit3() != 0 {
		t.Fatalf("mcc mismatch")
	}
	if snGot.MncDigit1() != 1 || snGot.MncDigit2() != 7 || snGot.MncDigit3() != 0 {
		t.Fatalf("mnc mismatch")
	}

	ratIE := next(gtpv2.GroupRATType)
	ratGot := gtpv2.RatTypeIEParseUnchecked[*pkt.Cursor](ratIE.Buf())
	if ratGot.RatType() != 6 {
		t.Fatalf("rat type mismatch: got %d", ratGot.RatType())
	}

	ftIE := next(gtpv2.GroupFullyQualifiedTEID)
	ftGot := gtpv2.FullyQualifiedTeidIEParseUnchecked[*pkt.Cursor](ftIE.Buf())
	if !ftGot.V4() || ftGot.InterfaceType() != 36 || ftGot.TeidGreKey() != 0xd37d1590 {
		t.Fatalf("f-teid mismatch")
	}

	ambrIE := next(gtpv2.GroupAggregateMaxBitRate)
	ambrGot := gtpv2.AggregateMaxBitRateIEParseUnchecked[*pkt.Cursor](ambrIE.Buf())
	if ambrGot.ApnAmbrForUplink() != 50000000 || ambrGot.ApnAmbrForDownlink() != 100000000 {
		t.Fatalf("ambr mismatch")
	}

	meidIE := next(gtpv2.GroupMobileEquipmentID)
	meidGot := gtpv2.MobileEquipmentIdIEParseUnchecked[*pkt.Cursor](meidIE.Buf())
	if len(meidGot.VarHeaderSlice()) != 8 {
		t.Fatalf("meid length mismatch")
	}

	tzIE := next(gtpv2.GroupUETimeZone)
	tzGot := gtpv2.UeTimeZoneIEParseUnchecked[*pkt.Cursor](tzIE.Buf())
	if tzGot.TimeZone() != 0x28 || tzGot.DaylightSavingTime() != 1 {
		t.Fatalf("timezone mismatch")
	}

	bcIE := next(gtpv2.GroupBearerContext)
	bcGot := gtpv2.BearerContextIEParseUnchecked[*pkt.Cursor](bcIE.Buf())
	nestedIt := gtpv2.IEIterFromSlice(bcGot.VarHeaderSlice())

	nestedFt, ok := nestedIt.Next()
	if !ok {
		t.Fatalf("expected nested F-TEID")
	}
	nestedGrp, ok := gtpv2.GroupParse[*pkt.Cursor](nestedFt.Buf())
	if !ok || nestedGrp != gtpv2.GroupFullyQualifiedTEID {
		t.Fatalf("nested group mismatch: got %d", nestedGrp)
	}
	nestedFtGot := gtpv2.FullyQualifiedTeidIEParseUnchecked[*pkt.Cursor](nestedFt.Buf())
	if nestedFtGot.TeidGreKey() != 0x11223344 {
		t.Fatalf("nested f-teid key mismatch")
	}

	nestedEb, ok := nestedIt.Next()
	if !ok {
		t.Fatalf("expected nested EPS bearer id")
	}
	nestedEbGrp, ok := gtpv2.GroupParse[*pkt.Cursor](nestedEb.Buf())
	if !ok || nestedEbGrp != gtpv2.GroupEpsBearerID {
		t.Fatalf("nested eps bearer id group mismatch")
	}
	nestedEbGot := gtpv2.EpsBearerIdIEParseUnchecked[*pkt.Cursor](nestedEb.Buf())
	if nestedEbGot.EpsBearerID() != 5 {
		t.Fatalf("nested eps bearer id mismatch")
	}
	if _, ok := nestedIt.Next(); ok {
		t.Fatalf("expected nested IE sequence to end")
	}

	recIE := next(gtpv2.GroupRecovery)
	recGot := gtpv2.RecoveryIEParseUnchecked[*pkt.Cursor](recIE.Buf())
	if recGot.VarHeaderSlice()[0] != 7 {
		t.Fatalf("recovery restart counter mismatch")
	}

	if _, ok := it.Next(); ok {
		t.Fatalf("expected top-level IE sequence to end")
	}
}
