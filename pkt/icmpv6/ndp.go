package icmpv6

import "go.netpkt.dev/netpkt/pkt"

// The NDP message views below wrap an already-sliced []byte (the
// ICMPv6 envelope's Data()), grounded on
// original_source/rpkt/src/icmpv6/ndp.rs. They are plain byte-slice
// views rather than generic pkt.Buf wrappers, matching the original's
// AsRef<[u8]>/AsMut<[u8]> split, since NDP messages are always read in
// full from a parsed ICMPv6Packet's Data region rather than advanced
// through incrementally.

type RouterSolicit struct{ buf []byte }

func NewRouterSolicit(data []byte) RouterSolicit { return RouterSolicit{data} }
func (m RouterSolicit) CheckReserved() bool      { return allZero(m.buf[4:8]) }
func (m RouterSolicit) OptionBytes() []byte      { return m.buf[8:] }
func (m RouterSolicit) AdjustReserved()          { zeroFill(m.buf[4:8]) }
func (m RouterSolicit) OptionBytesMut() []byte   { return m.buf[8:] }

type RouterAdv struct{ buf []byte }

func NewRouterAdv(data []byte) RouterAdv       { return RouterAdv{data} }
func (m RouterAdv) CurHopLimit() uint8         { return m.buf[4] }
func (m RouterAdv) MFlag() bool                { return m.buf[5]>>7 == 1 }
func (m RouterAdv) OFlag() bool                { return (m.buf[5]>>6)&1 == 1 }
func (m RouterAdv) CheckReserved() bool        { return m.buf[5]&0x3f == 0 }
func (m RouterAdv) RouterLifetime() uint16     { return pkt.GetU16(m.buf[6:8]) }
func (m RouterAdv) ReachableTime() uint32      { return pkt.GetU32(m.buf[8:12]) }
func (m RouterAdv) RetransTimer() uint32       { return pkt.GetU32(m.buf[12:16]) }
func (m RouterAdv) OptionBytes() []byte        { return m.buf[16:] }

func (m RouterAdv) SetCurHopLimit(v uint8) { m.buf[4] = v }
func (m RouterAdv) SetMFlag(v bool) {
	if v {
		m.buf[5] |= 1 << 7
	} else {
		m.buf[5] &= 0x7f
	}
}
func (m RouterAdv) SetOFlag(v bool) {
	if v {
		m.buf[5] |= 1 << 6
	} else {
		m.buf[5] &= 0xbf
	}
}
func (m RouterAdv) AdjustReserved()                { m.buf[5] &= 0xc0 }
func (m RouterAdv) SetRouterLifetime(v uint16)     { pkt.PutU16(m.buf[6:8], v) }
func (m RouterAdv) SetReachableTime(v uint32)      { pkt.PutU32(m.buf[8:12], v) }
func (m RouterAdv) SetRetransTimer(v uint32)       { pkt.PutU32(m.buf[12:16], v) }
func (m RouterAdv) OptionBytesMut() []byte         { return m.buf[16:] }

type NeighborSolicit struct{ buf []byte }

func NewNeighborSolicit(data []byte) NeighborSolicit { return NeighborSolicit{data} }
func (m NeighborSolicit) CheckReserved() bool        { return allZero(m.buf[4:8]) }
func (m NeighborSolicit) TargetAddr() []byte         { return m.buf[8:24] }
func (m NeighborSolicit) OptionBytes() []byte        { return m.buf[24:] }
func (m NeighborSolicit) AdjustReserved()            { zeroFill(m.buf[4:8]) }
func (m NeighborSolicit) SetTargetAddr(addr []byte)  { copy(m.buf[8:24], addr) }
func (m NeighborSolicit) OptionBytesMut() []byte     { return m.buf[24:] }

type NeighborAdv struct{ buf []byte }

func NewNeighborAdv(data []byte) NeighborAdv { return NeighborAdv{data} }
func (m NeighborAdv) RFlag() bool            { return m.buf[4]>>7 == 1 }
func (m NeighborAdv) SFlag() bool            { return (m.buf[4]>>6)&1 == 1 }
func (m NeighborAdv) OFlag() bool            { return (m.buf[4]>>5)&1 == 1 }
func (m NeighborAdv) CheckReserved() bool    { return pkt.GetU32(m.buf[4:8])&0x1fffffff == 0 }
func (m NeighborAdv) TargetAddr() []byte     { return m.buf[8:24] }
func (m NeighborAdv) OptionBytes() []byte    { return m.buf[24:] }

func (m NeighborAdv) SetRFlag(v bool) {
	if v {
		m.buf[4] |= 1 << 7
	} else {
		m.buf[4] &= 0x7f
	}
}
func (m NeighborAdv) SetSFlag(v bool) {
	if v {
		m.buf[4] |= 1 << 6
	} else {
		m.buf[4] &= 0xbf
	}
}
func (m NeighborAdv) SetOFlag(v bool) {
	if v {
		m.buf[4] |= 1 << 5
	} else {
		m.buf[4] &= 0xdf
	}
}
func (m NeighborAdv) AdjustReserved() {
	raw := pkt.GetU32(m.buf[4:8])
	pkt.PutU32(m.buf[4:8], raw&0xe0000000)
}
func (m NeighborAdv) SetTargetAddr(addr []byte) { copy(m.buf[8:24], addr) }
func (m NeighborAdv) OptionBytesMut() []byte    { return m.buf[24:] }

type Redirect struct{ buf []byte }

func NewRedirect(data []byte) Redirect     { return Redirect{data} }
func (m Redirect) CheckReserved() bool     { return allZero(m.buf[4:8]) }
func (m Redirect) TargetAddr() []byte      { return m.buf[8:24] }
func (m Redirect) DestAddr() []byte        { return m.buf[24:40] }
func (m Redirect) OptionBytes() []byte     { return m.buf[40:] }
func (m Redirect) AdjustReserved()         { zeroFill(m.buf[4:8]) }
func (m Redirect) SetTargetAddr(addr []byte) { copy(m.buf[8:24], addr) }
func (m Redirect) SetDestAddr(addr []byte)   { copy(m.buf[24:40], addr) }
func (m Redirect) OptionBytesMut() []byte    { return m.buf[40:] }

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func zeroFill(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
