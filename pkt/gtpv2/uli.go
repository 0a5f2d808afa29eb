package gtpv2

import "go.netpkt.dev/netpkt/pkt"

// Geographic-location presence bits in a UserLocationInfoIE's flags
// byte (3GPP TS 29.274 §8.21.1), low bit first.
const (
	uliFlagCGI                = 0x01
	uliFlagSAI                = 0x02
	uliFlagRAI                = 0x04
	uliFlagTAI                = 0x08
	uliFlagECGI               = 0x10
	uliFlagLAI                = 0x20
	uliFlagMacroEnodebID      = 0x40
	uliFlagExtMacroEnodebID   = 0x80
)

// Fixed widths of each sub-record, following the MCC/MNC-plus-area-code
// packing used throughout TS 29.274 §8.21.
const (
	UliCgiLen               = 7
	UliSaiLen               = 7
	UliRaiLen               = 7
	UliTaiLen               = 5
	UliEcgiLen              = 7
	UliLaiLen               = 5
	UliMacroEnodebIDLen     = 6
	UliExtMacroEnodebIDLen  = 7
)

// UserLocationInfoIE (§8.21) carries a flags byte selecting which of up
// to eight variable-width geographic-location sub-records follow, in
// ascending bit order; grounded on uli.rs's UliVarHeader/UliVarHeaderMut
// walk of the same sub-record set.
type UserLocationInfoIE[T pkt.Buf] struct{ ie IE[T] }

func UserLocationInfoIEParseUnchecked[T pkt.Buf](buf T) UserLocationInfoIE[T] {
	return UserLocationInfoIE[T]{IEParseUnchecked(buf)}
}

func (u UserLocationInfoIE[T]) Buf() T     { return u.ie.buf }
func (u UserLocationInfoIE[T]) Release() T { return u.ie.buf }
func (u UserLocationInfoIE[T]) Type() Type { return u.ie.Type() }
func (u UserLocationInfoIE[T]) Len() uint16 { return u.ie.Len() }

func (u UserLocationInfoIE[T]) flags() byte { return u.ie.buf.Chunk()[4] }

func (u UserLocationInfoIE[T]) Cgi() bool              { return u.flags()&uliFlagCGI != 0 }
func (u UserLocationInfoIE[T]) Sai() bool              { return u.flags()&uliFlagSAI != 0 }
func (u UserLocationInfoIE[T]) Rai() bool              { return u.flags()&uliFlagRAI != 0 }
func (u UserLocationInfoIE[T]) Tai() bool              { return u.flags()&uliFlagTAI != 0 }
func (u UserLocationInfoIE[T]) Ecgi() bool             { return u.flags()&uliFlagECGI != 0 }
func (u UserLocationInfoIE[T]) Lai() bool              { return u.flags()&uliFlagLAI != 0 }
func (u UserLocationInfoIE[T]) MacroEnodebID() bool    { return u.flags()&uliFlagMacroEnodebID != 0 }
func (u UserLocationInfoIE[T]) ExtendedMacroEnodebID() bool {
	return u.flags()&uliFlagExtMacroEnodebID != 0
}

// VarHeaderSlice is the sub-record region that follows the flags byte.
func (u UserLocationInfoIE[T]) VarHeaderSlice() []byte {
	return u.ie.buf.Chunk()[IEHeaderLen+1 : u.ie.HeaderLen()]
}

func UserLocationInfoPayload[T pkt.PktBuf](u UserLocationInfoIE[T]) T { return IEPayload[T](u.ie) }

func SetCgi[T pkt.PktBufMut](u UserLocationInfoIE[T], v bool)           { setBit(u.ie.buf.ChunkMut(), 4, uliFlagCGI, v) }
func SetSai[T pkt.PktBufMut](u UserLocationInfoIE[T], v bool)           { setBit(u.ie.buf.ChunkMut(), 4, uliFlagSAI, v) }
func SetRai[T pkt.PktBufMut](u UserLocationInfoIE[T], v bool)           { setBit(u.ie.buf.ChunkMut(), 4, uliFlagRAI, v) }
func SetTai[T pkt.PktBufMut](u UserLocationInfoIE[T], v bool)           { setBit(u.ie.buf.ChunkMut(), 4, uliFlagTAI, v) }
func SetEcgi[T pkt.PktBufMut](u UserLocationInfoIE[T], v bool)          { setBit(u.ie.buf.ChunkMut(), 4, uliFlagECGI, v) }
func SetLai[T pkt.PktBufMut](u UserLocationInfoIE[T], v bool)           { setBit(u.ie.buf.ChunkMut(), 4, uliFlagLAI, v) }
func SetMacroEnodebID[T pkt.PktBufMut](u UserLocationInfoIE[T], v bool) {
	setBit(u.ie.buf.ChunkMut(), 4, uliFlagMacroEnodebID, v)
}
func SetExtendedMacroEnodebID[T pkt.PktBufMut](u UserLocationInfoIE[T], v bool) {
	setBit(u.ie.buf.ChunkMut(), 4, uliFlagExtMacroEnodebID, v)
}

func UserLocationInfoVarHeaderSliceMut[T pkt.PktBufMut](u UserLocationInfoIE[T]) []byte {
	return u.ie.buf.ChunkMut()[IEHeaderLen+1 : u.ie.HeaderLen()]
}

func UserLocationInfoPrependHeader[T pkt.PktBufMut](buf T, header []byte) UserLocationInfoIE[T] {
	return UserLocationInfoIE[T]{PrependIEHeader(buf, header)}
}

// UliVarHeader decodes the present sub-records out of a
// UserLocationInfoIE's variable region, in ascending flag-bit order,
// mirroring uli.rs's UliVarHeader::try_from. Each populated field is a
// plain byte slice into the IE's backing buffer; callers interpret
// MCC/MNC BCD digits and area codes per TS 29.274 §8.21 themselves, the
// same division of responsibility as the Rust UliCgi/UliSai/... views
// (whose own generated field accessors did not survive distillation).
type UliVarHeader struct {
	Cgi                   []byte
	Sai                   []byte
	Rai                   []byte
	Tai                   []byte
	Ecgi                  []byte
	Lai                   []byte
	MacroEnodebID         []byte
	ExtendedMacroEnodebID []byte
}

func ParseUliVarHeader[T pkt.Buf](u UserLocationInfoIE[T]) (UliVarHeader, bool) {
	payload := u.VarHeaderSlice()
	var out UliVarHeader

	take := func(present bool, n int) ([]byte, bool) {
		if !present {
			return nil, true
		}
		if len(payload) < n {
			return nil, false
		}
		v := payload[:n]
		payload = payload[n:]
		return v, true
	}

	var ok bool
	if out.Cgi, ok = take(u.Cgi(), UliCgiLen); !ok {
		return UliVarHeader{}, false
	}
	if out.Sai, ok = take(u.Sai(), UliSaiLen); !ok {
		return UliVarHeader{}, false
	}
	if out.Rai, ok = take(u.Rai(), UliRaiLen); !ok {
		return UliVarHeader{}, false
	}
	if out.Tai, ok = take(u.Tai(), UliTaiLen); !ok {
		return UliVarHeader{}, false
	}
	if out.Ecgi, ok = take(u.Ecgi(), UliEcgiLen); !ok {
		return UliVarHeader{}, false
	}
	if out.Lai, ok = take(u.Lai(), UliLaiLen); !ok {
		return UliVarHeader{}, false
	}
	if out.MacroEnodebID, ok = take(u.MacroEnodebID(), UliMacroEnodebIDLen); !ok {
		return UliVarHeader{}, false
	}
	if out.ExtendedMacroEnodebID, ok = take(u.ExtendedMacroEnodebID(), UliExtMacroEnodebIDLen); !ok {
		return UliVarHeader{}, false
	}
	return out, true
}
