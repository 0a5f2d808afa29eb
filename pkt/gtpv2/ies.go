package gtpv2

import "go.netpkt.dev/netpkt/pkt"

// ServingNetworkIE carries a PLMN ID as three packed BCD digit pairs
// (3GPP TS 29.274 §8.18), grounded on the mcc_digit*/mnc_digit*
// assertions in gtpv2_test.rs.
type ServingNetworkIE[T pkt.Buf] struct{ ie IE[T] }

var ServingNetworkIEHeaderTemplate = [IEHeaderLen + 3]byte{uint8(TypeServingNetwork), 0x00, 0x03, 0x00}

func ServingNetworkIEParseUnchecked[T pkt.Buf](buf T) ServingNetworkIE[T] {
	return ServingNetworkIE[T]{IEParseUnchecked(buf)}
}
func (s ServingNetworkIE[T]) Buf() T             { return s.ie.buf }
func (s ServingNetworkIE[T]) Release() T         { return s.ie.buf }
func (s ServingNetworkIE[T]) Type() Type         { return s.ie.Type() }
func (s ServingNetworkIE[T]) Len() uint16        { return s.ie.Len() }
func (s ServingNetworkIE[T]) MccDigit1() uint8   { return s.ie.buf.Chunk()[4] & 0x0f }
func (s ServingNetworkIE[T]) MccDigit2() uint8   { return s.ie.buf.Chunk()[4] >> 4 }
func (s ServingNetworkIE[T]) MccDigit3() uint8   { return s.ie.buf.Chunk()[5] & 0x0f }
func (s ServingNetworkIE[T]) MncDigit3() uint8   { return s.ie.buf.Chunk()[5] >> 4 }
func (s ServingNetworkIE[T]) MncDigit1() uint8   { return s.ie.buf.Chunk()[6] & 0x0f }
func (s ServingNetworkIE[T]) MncDigit2() uint8   { return s.ie.buf.Chunk()[6] >> 4 }
func ServingNetworkPayload[T pkt.PktBuf](s ServingNetworkIE[T]) T { return IEPayload[T](s.ie) }

func SetMccDigit1[T pkt.PktBufMut](s ServingNetworkIE[T], v uint8) {
	if v > 0xf {
		panic("gtpv2: SetMccDigit1: value exceeds 4 bits")
	}
	c := s.ie.buf.ChunkMut()
	c[4] = (c[4] & 0xf0) | v
}
func SetMccDigit2[T pkt.PktBufMut](s ServingNetworkIE[T], v uint8) {
	if v > 0xf {
		panic("gtpv2: SetMccDigit2: value exceeds 4 bits")
	}
	c := s.ie.buf.ChunkMut()
	c[4] = (c[4] & 0x0f) | (v << 4)
}
func SetMccDigit3[T pkt.PktBufMut](s ServingNetworkIE[T], v uint8) {
	if v > 0xf {
		panic("gtpv2: SetMccDigit3: value exceeds 4 bits")
	}
	c := s.ie.buf.ChunkMut()
	c[5] = (c[5] & 0xf0) | v
}
func SetMncDigit3[T pkt.PktBufMut](s ServingNetworkIE[T], v uint8) {
	if v > 0xf {
		panic("gtpv2: SetMncDigit3: value exceeds 4 bits")
	}
	c := s.ie.buf.ChunkMut()
	c[5] = (c[5] & 0x0f) | (v << 4)
}
func SetMncDigit1[T pkt.PktBufMut](s ServingNetworkIE[T], v uint8) {
	if v > 0xf {
		panic("gtpv2: SetMncDigit1: value exceeds 4 bits")
	}
	c := s.ie.buf.ChunkMut()
	c[6] = (c[6] & 0xf0) | v
}
func SetMncDigit2[T pkt.PktBufMut](s ServingNetworkIE[T], v uint8) {
	if v > 0xf {
		panic("gtpv2: SetMncDigit2: value exceeds 4 bits")
	}
	c := s.ie.buf.ChunkMut()
	c[6] = (c[6] & 0x0f) | (v << 4)
}

func ServingNetworkPrependHeader[T pkt.PktBufMut](buf T, header []byte) ServingNetworkIE[T] {
	return ServingNetworkIE[T]{PrependIEHeader(buf, header)}
}

// RatTypeIE carries a single Radio Access Technology type byte (§8.17).
type RatTypeIE[T pkt.Buf] struct{ ie IE[T] }

var RatTypeIEHeaderTemplate = [IEHeaderLen + 1]byte{uint8(TypeRATType), 0x00, 0x01, 0x00}

func RatTypeIEParseUnchecked[T pkt.Buf](buf T) RatTypeIE[T] { return RatTypeIE[T]{IEParseUnchecked(buf)} }
func (r RatTypeIE[T]) Buf() T      { return r.ie.buf }
func (r RatTypeIE[T]) Release() T  { return r.ie.buf }
func (r RatTypeIE[T]) Type() Type  { return r.ie.Type() }
func (r RatTypeIE[T]) Len() uint16 { return r.ie.Len() }
func (r RatTypeIE[T]) RatType() uint8 { return r.ie.buf.Chunk()[4] }
func RatTypePayload[T pkt.PktBuf](r RatTypeIE[T]) T { return IEPayload[T](r.ie) }
func SetRatType[T pkt.PktBufMut](r RatTypeIE[T], v uint8) { r.ie.buf.ChunkMut()[4] = v }
func RatTypePrependHeader[T pkt.PktBufMut](buf T, header []byte) RatTypeIE[T] {
	return RatTypeIE[T]{PrependIEHeader(buf, header)}
}

// FullyQualifiedTeidIE is the F-TEID (§8.22): an interface-type byte
// (with a V4/V6 presence bit), a 4-byte TEID/GRE key, then 4 and/or 16
// bytes of IPv4/IPv6 address in the variable region.
type FullyQualifiedTeidIE[T pkt.Buf] struct{ ie IE[T] }

func FullyQualifiedTeidIEParseUnchecked[T pkt.Buf](buf T) FullyQualifiedTeidIE[T] {
	return FullyQualifiedTeidIE[T]{IEParseUnchecked(buf)}
}
func (f FullyQualifiedTeidIE[T]) Buf() T               { return f.ie.buf }
func (f FullyQualifiedTeidIE[T]) Release() T           { return f.ie.buf }
func (f FullyQualifiedTeidIE[T]) Type() Type           { return f.ie.Type() }
func (f FullyQualifiedTeidIE[T]) Len() uint16          { return f.ie.Len() }
func (f FullyQualifiedTeidIE[T]) V4() bool             { return f.ie.buf.Chunk()[4]&0x80 != 0 }
func (f FullyQualifiedTeidIE[T]) V6() bool             { return f.ie.buf.Chunk()[4]&0x40 != 0 }
func (f FullyQualifiedTeidIE[T]) InterfaceType() uint8 { return f.ie.buf.Chunk()[4] & 0x3f }
func (f FullyQualifiedTeidIE[T]) TeidGreKey() uint32   { return pkt.GetU32(f.ie.buf.Chunk()[5:9]) }
func (f FullyQualifiedTeidIE[T]) VarHeaderSlice() []byte {
	return f.ie.buf.Chunk()[9:f.ie.HeaderLen()]
}
func FullyQualifiedTeidPayload[T pkt.PktBuf](f FullyQualifiedTeidIE[T]) T { return IEPayload[T](f.ie) }

func SetV4[T pkt.PktBufMut](f FullyQualifiedTeidIE[T], v bool) { setBit(f.ie.buf.ChunkMut(), 4, 0x80, v) }
func SetV6[T pkt.PktBufMut](f FullyQualifiedTeidIE[T], v bool) { setBit(f.ie.buf.ChunkMut(), 4, 0x40, v) }
func SetInterfaceType[T pkt.PktBufMut](f FullyQualifiedTeidIE[T], v uint8) {
	if v > 0x3f {
		panic("gtpv2: SetInterfaceType: value exceeds 6 bits")
	}
	c := f.ie.buf.ChunkMut()
	c[4] = (c[4] & 0xc0) | v
}
func SetTeidGreKey[T pkt.PktBufMut](f FullyQualifiedTeidIE[T], v uint32) {
	pkt.PutU32(f.ie.buf.ChunkMut()[5:9], v)
}
func FullyQualifiedTeidVarHeaderSliceMut[T pkt.PktBufMut](f FullyQualifiedTeidIE[T]) []byte {
	return f.ie.buf.ChunkMut()[9:f.ie.HeaderLen()]
}
func FullyQualifiedTeidPrependHeader[T pkt.PktBufMut](buf T, header []byte) FullyQualifiedTeidIE[T] {
	return FullyQualifiedTeidIE[T]{PrependIEHeader(buf, header)}
}

// AggregateMaxBitRateIE is the APN-AMBR (§8.7): uplink/downlink bit
// rates in kbps, each a 4-byte field.
type AggregateMaxBitRateIE[T pkt.Buf] struct{ ie IE[T] }

var AggregateMaxBitRateIEHeaderTemplate = [IEHeaderLen + 8]byte{uint8(TypeAPNAMBR), 0x00, 0x08, 0x00}

func AggregateMaxBitRateIEParseUnchecked[T pkt.Buf](buf T) AggregateMaxBitRateIE[T] {
	return AggregateMaxBitRateIE[T]{IEParseUnchecked(buf)}
}
func (a AggregateMaxBitRateIE[T]) Buf() T      { return a.ie.buf }
func (a AggregateMaxBitRateIE[T]) Release() T  { return a.ie.buf }
func (a AggregateMaxBitRateIE[T]) Type() Type  { return a.ie.Type() }
func (a AggregateMaxBitRateIE[T]) Len() uint16 { return a.ie.Len() }
func (a AggregateMaxBitRateIE[T]) ApnAmbrForUplink() uint32 {
	return pkt.GetU32(a.ie.buf.Chunk()[4:8])
}
func (a AggregateMaxBitRateIE[T]) ApnAmbrForDownlink() uint32 {
	return pkt.GetU32(a.ie.buf.Chunk()[8:12])
}
func AggregateMaxBitRatePayload[T pkt.PktBuf](a AggregateMaxBitRateIE[T]) T { return IEPayload[T](a.ie) }
func SetApnAmbrForUplink[T pkt.PktBufMut](a AggregateMaxBitRateIE[T], v uint32) {
	pkt.PutU32(a.ie.buf.ChunkMut()[4:8], v)
}
func SetApnAmbrForDownlink[T pkt.PktBufMut](a AggregateMaxBitRateIE[T], v uint32) {
	pkt.PutU32(a.ie.buf.ChunkMut()[8:12], v)
}
func AggregateMaxBitRatePrependHeader[T pkt.PktBufMut](buf T, header []byte) AggregateMaxBitRateIE[T] {
	return AggregateMaxBitRateIE[T]{PrependIEHeader(buf, header)}
}

// MobileEquipmentIdIE carries an opaque IMEI/IMEISV BCD payload (§8.10);
// only the variable region is modeled since its digit packing is
// caller-defined.
type MobileEquipmentIdIE[T pkt.Buf] struct{ ie IE[T] }

func MobileEquipmentIdIEParseUnchecked[T pkt.Buf](buf T) MobileEquipmentIdIE[T] {
	return MobileEquipmentIdIE[T]{IEParseUnchecked(buf)}
}
func (m MobileEquipmentIdIE[T]) Buf() T      { return m.ie.buf }
func (m MobileEquipmentIdIE[T]) Release() T  { return m.ie.buf }
func (m MobileEquipmentIdIE[T]) Type() Type  { return m.ie.Type() }
func (m MobileEquipmentIdIE[T]) Len() uint16 { return m.ie.Len() }
func (m MobileEquipmentIdIE[T]) VarHeaderSlice() []byte { return m.ie.VarHeaderSlice() }
func MobileEquipmentIdPayload[T pkt.PktBuf](m MobileEquipmentIdIE[T]) T { return IEPayload[T](m.ie) }
func MobileEquipmentIdVarHeaderSliceMut[T pkt.PktBufMut](m MobileEquipmentIdIE[T]) []byte {
	return VarHeaderSliceMut[T](m.ie)
}
func MobileEquipmentIdPrependHeader[T pkt.PktBufMut](buf T, header []byte) MobileEquipmentIdIE[T] {
	return MobileEquipmentIdIE[T]{PrependIEHeader(buf, header)}
}

// UeTimeZoneIE carries a timezone offset and daylight-saving adjustment
// (§8.44).
type UeTimeZoneIE[T pkt.Buf] struct{ ie IE[T] }

var UeTimeZoneIEHeaderTemplate = [IEHeaderLen + 2]byte{uint8(TypeUETimeZone), 0x00, 0x02, 0x00}

func UeTimeZoneIEParseUnchecked[T pkt.Buf](buf T) UeTimeZoneIE[T] {
	return UeTimeZoneIE[T]{IEParseUnchecked(buf)}
}
func (u UeTimeZoneIE[T]) Buf() T              { return u.ie.buf }
func (u UeTimeZoneIE[T]) Release() T          { return u.ie.buf }
func (u UeTimeZoneIE[T]) Type() Type          { return u.ie.Type() }
func (u UeTimeZoneIE[T]) Len() uint16         { return u.ie.Len() }
func (u UeTimeZoneIE[T]) TimeZone() uint8     { return u.ie.buf.Chunk()[4] }
func (u UeTimeZoneIE[T]) DaylightSavingTime() uint8 { return u.ie.buf.Chunk()[5] & 0x03 }
func UeTimeZonePayload[T pkt.PktBuf](u UeTimeZoneIE[T]) T { return IEPayload[T](u.ie) }
func SetTimeZone[T pkt.PktBufMut](u UeTimeZoneIE[T], v uint8) { u.ie.buf.ChunkMut()[4] = v }
func SetDaylightSavingTime[T pkt.PktBufMut](u UeTimeZoneIE[T], v uint8) {
	if v > 0x3 {
		panic("gtpv2: SetDaylightSavingTime: value exceeds 2 bits")
	}
	c := u.ie.buf.ChunkMut()
	c[5] = (c[5] &^ 0x03) | v
}
func UeTimeZonePrependHeader[T pkt.PktBufMut](buf T, header []byte) UeTimeZoneIE[T] {
	return UeTimeZoneIE[T]{PrependIEHeader(buf, header)}
}

// BearerContextIE (§8.28) is a grouped IE: its variable region is itself
// a sequence of nested IEs (EPS Bearer ID, F-TEID, ...), walked with
// IEIter/GroupParse exactly like the top-level message body.
type BearerContextIE[T pkt.Buf] struct{ ie IE[T] }

func BearerContextIEParseUnchecked[T pkt.Buf](buf T) BearerContextIE[T] {
	return BearerContextIE[T]{IEParseUnchecked(buf)}
}
func (b BearerContextIE[T]) Buf() T      { return b.ie.buf }
func (b BearerContextIE[T]) Release() T  { return b.ie.buf }
func (b BearerContextIE[T]) Type() Type  { return b.ie.Type() }
func (b BearerContextIE[T]) Len() uint16 { return b.ie.Len() }
func (b BearerContextIE[T]) VarHeaderSlice() []byte { return b.ie.VarHeaderSlice() }
func BearerContextPayload[T pkt.PktBuf](b BearerContextIE[T]) T { return IEPayload[T](b.ie) }
func BearerContextVarHeaderSliceMut[T pkt.PktBufMut](b BearerContextIE[T]) []byte {
	return VarHeaderSliceMut[T](b.ie)
}
func BearerContextPrependHeader[T pkt.PktBufMut](buf T, header []byte) BearerContextIE[T] {
	return BearerContextIE[T]{PrependIEHeader(buf, header)}
}

// EpsBearerIdIE carries a single EPS Bearer ID nibble (§8.8).
type EpsBearerIdIE[T pkt.Buf] struct{ ie IE[T] }

var EpsBearerIdIEHeaderTemplate = [IEHeaderLen + 1]byte{uint8(TypeEpsBearerID), 0x00, 0x01, 0x00}

func EpsBearerIdIEParseUnchecked[T pkt.Buf](buf T) EpsBearerIdIE[T] {
	return EpsBearerIdIE[T]{IEParseUnchecked(buf)}
}
func (e EpsBearerIdIE[T]) Buf() T          { return e.ie.buf }
func (e EpsBearerIdIE[T]) Release() T      { return e.ie.buf }
func (e EpsBearerIdIE[T]) Type() Type      { return e.ie.Type() }
func (e EpsBearerIdIE[T]) Len() uint16     { return e.ie.Len() }
func (e EpsBearerIdIE[T]) EpsBearerID() uint8 { return e.ie.buf.Chunk()[4] & 0x0f }
func EpsBearerIdPayload[T pkt.PktBuf](e EpsBearerIdIE[T]) T { return IEPayload[T](e.ie) }
func SetEpsBearerID[T pkt.PktBufMut](e EpsBearerIdIE[T], v uint8) {
	if v > 0xf {
		panic("gtpv2: SetEpsBearerID: value exceeds 4 bits")
	}
	c := e.ie.buf.ChunkMut()
	c[4] = (c[4] & 0xf0) | v
}
func EpsBearerIdPrependHeader[T pkt.PktBufMut](buf T, header []byte) EpsBearerIdIE[T] {
	return EpsBearerIdIE[T]{PrependIEHeader(buf, header)}
}

// RecoveryIE carries a single restart-counter byte (§8.5); its variable
// region in original_source's test is accessed positionally
// (var_header_slice()[0]) rather than through a named accessor, so this
// wrapper keeps the same shape.
type RecoveryIE[T pkt.Buf] struct{ ie IE[T] }

func RecoveryIEParseUnchecked[T pkt.Buf](buf T) RecoveryIE[T] { return RecoveryIE[T]{IEParseUnchecked(buf)} }
func (r RecoveryIE[T]) Buf() T      { return r.ie.buf }
func (r RecoveryIE[T]) Release() T  { return r.ie.buf }
func (r RecoveryIE[T]) Type() Type  { return r.ie.Type() }
func (r RecoveryIE[T]) Len() uint16 { return r.ie.Len() }
func (r RecoveryIE[T]) VarHeaderSlice() []byte { return r.ie.VarHeaderSlice() }
func RecoveryPayload[T pkt.PktBuf](r RecoveryIE[T]) T { return IEPayload[T](r.ie) }
func RecoveryVarHeaderSliceMut[T pkt.PktBufMut](r RecoveryIE[T]) []byte { return VarHeaderSliceMut[T](r.ie) }
func RecoveryPrependHeader[T pkt.PktBufMut](buf T, header []byte) RecoveryIE[T] {
	return RecoveryIE[T]{PrependIEHeader(buf, header)}
}
