// Package nicabi is the Go mirror of spec.md §6's native NIC runtime ABI:
// the opaque external collaborator the driver package calls into for pool
// allocation, packet bursting, and device configuration. Production
// wiring of Runtime to a real kernel-bypass library is out of scope
// (spec.md §1); this package ships only the interface and an in-memory
// Mock used by driver's own tests, grounded on the
// runZeroInc-sockstats/pkg/linux fake-backend-for-tests idiom found
// elsewhere in the retrieval pack — a plain Go struct standing in for
// hardware/cgo so the calling package's logic is exercised without either.
package nicabi

import "fmt"

// EthDevInfo reports a port's static capabilities, mirroring
// eth_dev_info's return struct (spec.md §6).
type EthDevInfo struct {
	SocketID      int
	RxOffloadCapa uint64
	TxOffloadCapa uint64
	RSSHashCapa   uint64
	MACAddr       [6]byte
	HashKeySize   int
}

// PortConf mirrors spec.md §6's PortConf configuration surface.
type PortConf struct {
	MTU               uint16
	LoopbackMode      bool
	MaxLroPktSize     uint32
	RxOffloads        uint64
	TxOffloads        uint64
	RSSHashFunc       uint64
	RSSHashKey        []byte
	EnablePromiscuous bool
}

// QueueConf mirrors spec.md §6's RxQueueConf/TxQueueConf (the two share
// the same fields at the ABI level; the mempool name is only meaningful
// for an rx queue).
type QueueConf struct {
	NbDesc       uint16
	SocketID     int
	MempoolName  string
}

// EthStats mirrors eth_stats_get's return struct.
type EthStats struct {
	RxPackets uint64
	TxPackets uint64
	RxBytes   uint64
	TxBytes   uint64
	RxDropped uint64
	TxDropped uint64
}

// Mbuf is the opaque native mbuf handle alloc/alloc_bulk/free_bulk pass
// around; the driver package copies its Data into a fresh mbuf.Mbuf on
// rx, and on tx fills Data with a copy of the mbuf.Mbuf's bytes, matching
// "all pointer return values are non-owning views" (spec.md §6).
type Mbuf struct {
	Data []byte
}

// Runtime is the native ABI surface spec.md §6 enumerates. Every method
// that the spec marks as failing synchronously returns an error; rx_burst
// and tx_burst never fail, returning only counts, per spec.md §4.4's
// "Queue rx/tx never fail; they return counts."
type Runtime interface {
	Init(args []string) error
	Cleanup()

	MempoolCreateNative(name string, nbMbufs, cacheSize, dataroom, socket int) (pool uintptr, err error)
	MempoolFreeNative(pool uintptr) error
	MempoolAvailCount(pool uintptr) int
	MempoolFull(pool uintptr) bool

	AllocBulk(pool uintptr, n int) []*Mbuf
	FreeBulk(mbufs []*Mbuf)

	EthDevInfo(port int) (EthDevInfo, error)
	EthDevConfigure(port int, conf PortConf, rxConfs, txConfs []QueueConf) error
	EthDevStart(port int) error
	EthDevStop(port int) error
	EthDevClose(port int) error

	EthRxBurst(port int, qid int, n int) []*Mbuf
	EthTxBurst(port int, qid int, batch []*Mbuf) int

	EthStatsGet(port int) (EthStats, error)

	ThreadRegister() error
	ThreadSetAffinity(core int) error
}

// Error is the sentinel struct error this package compares with
// errors.Is, matching the teacher's netstack/filter/errors.go idiom.
type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

func newError(format string, args ...interface{}) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}
