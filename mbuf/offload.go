package mbuf

// bitset64 is the shared representation behind every named offload
// bitmask in this package: a flat u64 whose bit layout mirrors the
// underlying driver's flag word, so that accessors are field-selects, not
// translations (spec.md §4.4). It plays the role the original Rust
// implementation fills with a `dpdk_offload_conf!` macro
// (original_source/rpkt-dpdk/src/offload.rs) — Go has no declarative-macro
// equivalent, so the table is expressed as a plain method set instead.
type bitset64 uint64

func (b bitset64) has(mask uint64) bool { return uint64(b)&mask != 0 }
func (b *bitset64) set(mask uint64)     { *b = bitset64(uint64(*b) | mask) }

// Raw returns the bitmask's underlying u64, for callers (e.g. driver)
// that must hand it across the native ABI boundary as a plain word.
func (b bitset64) Raw() uint64 { return uint64(b) }

const (
	bitTxIPCksum  = 1 << 54
	bitTxUDPCksum = 2 << 52
	bitTxTCPCksum = 1 << 52
	bitTxTSO      = 1 << 49
	bitTxMultiSeg = 1 << 48

	bitRxRSSHash    = 1 << 1
	bitRxIPCksumBad = 1 << 4
	bitRxIPCksumOK  = 1 << 7
	bitRxL4CksumBad = 1 << 3
	bitRxL4CksumOK  = 1 << 8
	bitRxLRO        = 1 << 16
)

// MbufTxOffload is the per-packet tx offload request: which checksums the
// device should compute and whether to segment via TSO.
type MbufTxOffload struct{ bitset64 }

func (o MbufTxOffload) IPCksum() bool  { return o.has(bitTxIPCksum) }
func (o MbufTxOffload) UDPCksum() bool { return o.has(bitTxUDPCksum) }
func (o MbufTxOffload) TCPCksum() bool { return o.has(bitTxTCPCksum) }
func (o MbufTxOffload) TSO() bool      { return o.has(bitTxTSO) }
func (o MbufTxOffload) MultiSeg() bool { return o.has(bitTxMultiSeg) }

func (o *MbufTxOffload) EnableIPCksum()  { o.set(bitTxIPCksum) }
func (o *MbufTxOffload) EnableUDPCksum() { o.set(bitTxUDPCksum) }
func (o *MbufTxOffload) EnableTCPCksum() { o.set(bitTxTCPCksum) }
func (o *MbufTxOffload) EnableTSO()      { o.set(bitTxTSO) }
func (o *MbufTxOffload) EnableMultiSeg() { o.set(bitTxMultiSeg) }

// MbufRxOffload is the per-packet rx offload result reported by the
// device: which checksums it validated, whether an RSS hash is present,
// and whether the packet was coalesced by LRO.
type MbufRxOffload struct{ bitset64 }

func (o MbufRxOffload) RSSHash() bool    { return o.has(bitRxRSSHash) }
func (o MbufRxOffload) IPCksumBad() bool { return o.has(bitRxIPCksumBad) }
func (o MbufRxOffload) IPCksumGood() bool { return o.has(bitRxIPCksumOK) }
func (o MbufRxOffload) L4CksumBad() bool { return o.has(bitRxL4CksumBad) }
func (o MbufRxOffload) L4CksumGood() bool { return o.has(bitRxL4CksumOK) }
func (o MbufRxOffload) LRO() bool        { return o.has(bitRxLRO) }

// DevTxOffload / DevRxOffload are the port-level capability and
// configuration masks (spec.md §4.4: "device-level rx/tx offload masks
// mirror these"). Port configuration rejects any requested port-level
// offload not present in the corresponding device capability mask.
type DevTxOffload struct{ bitset64 }

func DevTxOffloadFromRaw(v uint64) DevTxOffload { return DevTxOffload{bitset64(v)} }

func (o DevTxOffload) IPv4Cksum() bool { return o.has(bitTxIPCksum) }
func (o DevTxOffload) UDPCksum() bool  { return o.has(bitTxUDPCksum) }
func (o DevTxOffload) TCPCksum() bool  { return o.has(bitTxTCPCksum) }
func (o DevTxOffload) TSO() bool       { return o.has(bitTxTSO) }
func (o DevTxOffload) MultiSeg() bool  { return o.has(bitTxMultiSeg) }

func (o *DevTxOffload) EnableIPv4Cksum() { o.set(bitTxIPCksum) }
func (o *DevTxOffload) EnableUDPCksum()  { o.set(bitTxUDPCksum) }
func (o *DevTxOffload) EnableTCPCksum()  { o.set(bitTxTCPCksum) }
func (o *DevTxOffload) EnableTSO()       { o.set(bitTxTSO) }
func (o *DevTxOffload) EnableMultiSeg()  { o.set(bitTxMultiSeg) }

// Subset reports whether every bit set in o is also set in capa — the
// check port_configure performs against the device capability mask.
func (o DevTxOffload) Subset(capa DevTxOffload) bool {
	return uint64(o.bitset64)&^uint64(capa.bitset64) == 0
}

type DevRxOffload struct{ bitset64 }

func DevRxOffloadFromRaw(v uint64) DevRxOffload { return DevRxOffload{bitset64(v)} }

func (o DevRxOffload) Checksum() bool { return o.has(bitRxIPCksumOK | bitRxL4CksumOK) }
func (o DevRxOffload) RSSHash() bool  { return o.has(bitRxRSSHash) }
func (o DevRxOffload) LRO() bool      { return o.has(bitRxLRO) }

func (o *DevRxOffload) EnableChecksum() { o.set(bitRxIPCksumOK | bitRxL4CksumOK) }
func (o *DevRxOffload) EnableRSSHash()  { o.set(bitRxRSSHash) }
func (o *DevRxOffload) EnableLRO()      { o.set(bitRxLRO) }

func (o DevRxOffload) Subset(capa DevRxOffload) bool {
	return uint64(o.bitset64)&^uint64(capa.bitset64) == 0
}

// RSSHashFunc selects which of the twelve ipv4/ipv6 RSS types
// (rss_type_table in dpdk/app/test-pmd/config.c) steer rx packets to
// queues, matching original_source/rpkt-dpdk/src/offload.rs's RssHashFunc.
type RSSHashFunc struct{ bitset64 }

func RSSHashFuncFromRaw(v uint64) RSSHashFunc { return RSSHashFunc{bitset64(v)} }

const (
	bitRSSIPv4            = 1 << 2
	bitRSSFragIPv4         = 1 << 3
	bitRSSNonfragIPv4TCP   = 1 << 4
	bitRSSNonfragIPv4UDP   = 1 << 5
	bitRSSNonfragIPv4SCTP  = 1 << 6
	bitRSSNonfragIPv4Other = 1 << 7
	bitRSSIPv6             = 1 << 8
	bitRSSFragIPv6         = 1 << 9
	bitRSSNonfragIPv6TCP   = 1 << 10
	bitRSSNonfragIPv6UDP   = 1 << 11
	bitRSSNonfragIPv6SCTP  = 1 << 12
	bitRSSNonfragIPv6Other = 1 << 13
)

func (o *RSSHashFunc) EnableIPv4()            { o.set(bitRSSIPv4) }
func (o *RSSHashFunc) EnableFragIPv4()        { o.set(bitRSSFragIPv4) }
func (o *RSSHashFunc) EnableNonfragIPv4TCP()  { o.set(bitRSSNonfragIPv4TCP) }
func (o *RSSHashFunc) EnableNonfragIPv4UDP()  { o.set(bitRSSNonfragIPv4UDP) }
func (o *RSSHashFunc) EnableNonfragIPv4SCTP() { o.set(bitRSSNonfragIPv4SCTP) }
func (o *RSSHashFunc) EnableNonfragIPv4Other() { o.set(bitRSSNonfragIPv4Other) }
func (o *RSSHashFunc) EnableIPv6()            { o.set(bitRSSIPv6) }
func (o *RSSHashFunc) EnableFragIPv6()        { o.set(bitRSSFragIPv6) }
func (o *RSSHashFunc) EnableNonfragIPv6TCP()  { o.set(bitRSSNonfragIPv6TCP) }
func (o *RSSHashFunc) EnableNonfragIPv6UDP()  { o.set(bitRSSNonfragIPv6UDP) }
func (o *RSSHashFunc) EnableNonfragIPv6SCTP() { o.set(bitRSSNonfragIPv6SCTP) }
func (o *RSSHashFunc) EnableNonfragIPv6Other() { o.set(bitRSSNonfragIPv6Other) }

// DefaultRSSKey40 is the 40-byte symmetric RSS hash key used throughout
// the DPDK example applications, carried over verbatim as a sensible
// default.
var DefaultRSSKey40 = [40]byte{
	0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A,
	0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A,
	0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A, 0x6D, 0x5A,
}
