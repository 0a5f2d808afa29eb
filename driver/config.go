package driver

import "go.netpkt.dev/netpkt/mbuf"

// MempoolConf mirrors spec.md §6's MempoolConf (nb_mbufs, per_core_caches,
// dataroom, socket_id).
type MempoolConf struct {
	NbMbufs       int
	PerCoreCaches int
	Dataroom      int
	SocketID      int
}

// PortConf mirrors spec.md §6's PortConf configuration surface.
type PortConf struct {
	MTU              uint16
	LpbkMode         bool
	MaxLroPktSize    uint32
	RxOffloads       mbuf.DevRxOffload
	TxOffloads       mbuf.DevTxOffload
	RSSHashFunc      mbuf.RSSHashFunc
	RSSHashKey       []byte
	EnablePromiscuous bool
}

// RxQueueConf / TxQueueConf mirror spec.md §6; MempoolName only applies
// to an rx queue, which pulls its fresh mbufs from the named pool.
type RxQueueConf struct {
	NbDesc      uint16
	SocketID    int
	MempoolName string
}

type TxQueueConf struct {
	NbDesc   uint16
	SocketID int
}
