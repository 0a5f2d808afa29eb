package gtpv2

import "go.netpkt.dev/netpkt/pkt"

// Type is the GTPv2 Information Element Type value (3GPP TS 29.274
// Table 8.1-1). Only the codes exercised by the IEs this package
// implements are named.
type Type uint8

const (
	TypeCause                Type = 2
	TypeRecovery              Type = 3
	TypeAPNAMBR               Type = 72
	TypeEpsBearerID           Type = 73
	TypeMobileEquipmentID     Type = 75
	TypeRATType               Type = 82
	TypeServingNetwork        Type = 83
	TypeUserLocationInfo      Type = 86
	TypeFullyQualifiedTEID    Type = 87
	TypeBearerContext         Type = 93
	TypeUETimeZone            Type = 114
)

// IEHeaderLen is the fixed generic IE header: a 1-byte type, a 2-byte
// length (counting only the value that follows this 4-byte header), and
// a 1-byte instance (low nibble; high nibble spare).
const IEHeaderLen = 4

// IE is the generic GTPv2 information-element view shared by every
// concrete IE wrapper in this package: each wrapper embeds an IE and
// adds its own fixed-layout fields over the bytes that follow the
// IEHeaderLen-byte generic header.
type IE[T pkt.Buf] struct{ buf T }

func IEParseUnchecked[T pkt.Buf](buf T) IE[T] { return IE[T]{buf} }

func IEParse[T pkt.Buf](buf T) (IE[T], bool) {
	if len(buf.Chunk()) < IEHeaderLen {
		var zero IE[T]
		return zero, false
	}
	ie := IE[T]{buf}
	hl := ie.HeaderLen()
	if hl < IEHeaderLen || hl > len(buf.Chunk()) {
		var zero IE[T]
		return zero, false
	}
	return ie, true
}

func (ie IE[T]) Buf() T     { return ie.buf }
func (ie IE[T]) Release() T { return ie.buf }

func (ie IE[T]) Type() Type        { return Type(ie.buf.Chunk()[0]) }
func (ie IE[T]) Instance() uint8   { return ie.buf.Chunk()[3] & 0x0f }

// HeaderLen is the wire Length field plus 4 (the type byte, the length
// field's own 2 bytes and the instance byte); only the value falls
// inside the Length field's count.
func (ie IE[T]) HeaderLen() int { return int(pkt.GetU16(ie.buf.Chunk()[1:3])) + IEHeaderLen }

// Len is the raw wire Length field (value byte count).
func (ie IE[T]) Len() uint16 { return pkt.GetU16(ie.buf.Chunk()[1:3]) }

func (ie IE[T]) VarHeaderSlice() []byte { return ie.buf.Chunk()[IEHeaderLen:ie.HeaderLen()] }

func IEPayload[T pkt.PktBuf](ie IE[T]) T {
	buf := ie.buf
	buf.Advance(ie.HeaderLen())
	return buf
}

func VarHeaderSliceMut[T pkt.PktBufMut](ie IE[T]) []byte {
	return ie.buf.ChunkMut()[IEHeaderLen:ie.HeaderLen()]
}

func SetType[T pkt.PktBufMut](ie IE[T], v Type)    { ie.buf.ChunkMut()[0] = uint8(v) }
func SetInstance[T pkt.PktBufMut](ie IE[T], v uint8) {
	if v > 0xf {
		panic("gtpv2: SetInstance: value exceeds 4 bits")
	}
	c := ie.buf.ChunkMut()
	c[3] = (c[3] & 0xf0) | v
}
func SetLen[T pkt.PktBufMut](ie IE[T], v uint16) { pkt.PutU16(ie.buf.ChunkMut()[1:3], v) }

func PrependIEHeader[T pkt.PktBufMut](buf T, header []byte) IE[T] {
	headerLen := len(header)
	if headerLen > buf.ChunkHeadroom() {
		panic("gtpv2: PrependIEHeader: insufficient headroom")
	}
	buf.MoveBack(headerLen)
	copy(buf.ChunkMut()[0:headerLen], header)
	return IE[T]{buf}
}

// IEIter walks consecutive top-level or nested IEs over a read-only byte
// slice (used both for the message body and for a BearerContextIE's
// nested var-header region, matching how gtpv2_test.rs reuses
// Gtpv2IEGroup::group_parse on both levels).
type IEIter struct{ buf []byte }

func IEIterFromSlice(slice []byte) IEIter { return IEIter{buf: slice} }

func (it *IEIter) Next() (IE[*pkt.Cursor], bool) {
	if len(it.buf) < IEHeaderLen {
		return IE[*pkt.Cursor]{}, false
	}
	c := pkt.NewCursor(it.buf)
	ie, ok := IEParse[*pkt.Cursor](&c)
	if !ok {
		return IE[*pkt.Cursor]{}, false
	}
	hl := ie.HeaderLen()
	one := pkt.NewCursor(it.buf[:hl])
	it.buf = it.buf[hl:]
	return IE[*pkt.Cursor]{&one}, true
}

// Group is the result of GroupParse's type-code dispatch, mirroring
// original_source's Gtpv2IEGroup::group_parse.
type Group int

const (
	GroupUnknown Group = iota
	GroupUserLocationInfo
	GroupServingNetwork
	GroupRATType
	GroupFullyQualifiedTEID
	GroupAggregateMaxBitRate
	GroupMobileEquipmentID
	GroupUETimeZone
	GroupBearerContext
	GroupRecovery
	GroupEpsBearerID
)

func GroupParse[T pkt.Buf](buf T) (Group, bool) {
	if len(buf.Chunk()) < 1 {
		return GroupUnknown, false
	}
	switch Type(buf.Chunk()[0]) {
	case TypeUserLocationInfo:
		return GroupUserLocationInfo, true
	case TypeServingNetwork:
		return GroupServingNetwork, true
	case TypeRATType:
		return GroupRATType, true
	case TypeFullyQualifiedTEID:
		return GroupFullyQualifiedTEID, true
	case TypeAPNAMBR:
		return GroupAggregateMaxBitRate, true
	case TypeMobileEquipmentID:
		return GroupMobileEquipmentID, true
	case TypeUETimeZone:
		return GroupUETimeZone, true
	case TypeBearerContext:
		return GroupBearerContext, true
	case TypeRecovery:
		return GroupRecovery, true
	case TypeEpsBearerID:
		return GroupEpsBearerID, true
	default:
		return GroupUnknown, false
	}
}
