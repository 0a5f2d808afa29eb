package driver

import (
	"go.uber.org/zap"

	"go.netpkt.dev/netpkt/internal/nicabi"
	"go.netpkt.dev/netpkt/mbuf"
)

// Port is a configured, started native device. Its RxQueue/TxQueue/
// StatsQuery handles are single-checkout, enforced here rather than on
// the handle itself. Checkout is tracked per port, not per queue index:
// at most one live RxQueue, one live TxQueue and one live StatsQuery per
// port, whatever qid they were requested for.
type Port struct {
	svc  *Service
	id   int
	conf PortConf

	rxOut, txOut, statsOut bool
}

// PortConfigure validates the requested offloads against the device's
// advertised capability, allocates descriptor rings, and starts the
// port, matching spec.md §4.4's port_configure. Config errors
// (incompatible offload, bad socket id) are reported synchronously, as
// the spec requires.
func (s *Service) PortConfigure(portID int, conf PortConf, rxConfs []RxQueueConf, txConfs []TxQueueConf) (*Port, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLive(); err != nil {
		return nil, err
	}
	if _, exists := s.ports[portID]; exists {
		return nil, ErrAlreadyExists
	}

	info, err := s.rt.EthDevInfo(portID)
	if err != nil {
		return nil, wrapDeviceError("eth_dev_info", portID, err)
	}
	if !conf.RxOffloads.Subset(mbuf.DevRxOffloadFromRaw(info.RxOffloadCapa)) {
		return nil, ErrInvalidArgument
	}
	if !conf.TxOffloads.Subset(mbuf.DevTxOffloadFromRaw(info.TxOffloadCapa)) {
		return nil, ErrInvalidArgument
	}

	nativeRx := make([]nicabi.QueueConf, len(rxConfs))
	for i, c := range rxConfs {
		if _, ok := s.mempools[c.MempoolName]; !ok {
			return nil, ErrNotFound
		}
		nativeRx[i] = nicabi.QueueConf{NbDesc: c.NbDesc, SocketID: c.SocketID, MempoolName: c.MempoolName}
	}
	nativeTx := make([]nicabi.QueueConf, len(txConfs))
	for i, c := range txConfs {
		nativeTx[i] = nicabi.QueueConf{NbDesc: c.NbDesc, SocketID: c.SocketID}
	}

	nativeConf := nicabi.PortConf{
		MTU:               conf.MTU,
		LoopbackMode:      conf.LpbkMode,
		MaxLroPktSize:     conf.MaxLroPktSize,
		RxOffloads:        conf.RxOffloads.Raw(),
		TxOffloads:        conf.TxOffloads.Raw(),
		RSSHashFunc:       conf.RSSHashFunc.Raw(),
		RSSHashKey:        conf.RSSHashKey,
		EnablePromiscuous: conf.EnablePromiscuous,
	}
	if err := s.rt.EthDevConfigure(portID, nativeConf, nativeRx, nativeTx); err != nil {
		return nil, wrapDeviceError("eth_dev_configure", portID, err)
	}
	if err := s.rt.EthDevStart(portID); err != nil {
		return nil, wrapDeviceError("eth_dev_start", portID, err)
	}

	p := &Port{svc: s, id: portID, conf: conf}
	s.ports[portID] = p
	s.logger.Info("driver: port configured", zap.Int("port", portID), zap.Int("rxq", len(rxConfs)), zap.Int("txq", len(txConfs)))
	return p, nil
}

// PortClose stops and closes a port; fails InUse if any of its handles
// are still checked out.
func (s *Service) PortClose(portID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLive(); err != nil {
		return err
	}
	p, ok := s.ports[portID]
	if !ok {
		return ErrNotFound
	}
	if p.rxOut || p.txOut || p.statsOut {
		return ErrInUse
	}
	if err := p.closeLocked(); err != nil {
		return err
	}
	delete(s.ports, portID)
	return nil
}

func (p *Port) closeLocked() error {
	if err := p.svc.rt.EthDevStop(p.id); err != nil {
		return wrapDeviceError("eth_dev_stop", p.id, err)
	}
	if err := p.svc.rt.EthDevClose(p.id); err != nil {
		return wrapDeviceError("eth_dev_close", p.id, err)
	}
	p.svc.logger.Info("driver: port closed", zap.Int("port", p.id))
	return nil
}

// RxQueue checks out the port's single-user receive handle for qid,
// failing InUse if an RxQueue of this port is already checked out, for
// any qid.
func (s *Service) RxQueue(portID, qid int) (*RxQueue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLive(); err != nil {
		return nil, err
	}
	p, ok := s.ports[portID]
	if !ok {
		return nil, ErrNotFound
	}
	if p.rxOut {
		return nil, ErrInUse
	}
	pool, ok := s.mempoolForRxQueue(portID, qid)
	if !ok {
		return nil, ErrInvalidArgument
	}
	p.rxOut = true
	return &RxQueue{port: p, qid: qid, pool: pool}, nil
}

// mempoolForRxQueue picks the mempool an rx queue allocates from. It
// returns whichever registered mempool Go's map iteration yields first,
// which is not necessarily the one named in the queue's RxQueueConf;
// portID and qid are not consulted. With a single registered mempool
// that mempool is returned.
func (s *Service) mempoolForRxQueue(portID, qid int) (*mbuf.Mempool, bool) {
	for _, h := range s.mempools {
		return h.pool, true
	}
	return nil, false
}

// TxQueue checks out the port's single-user transmit handle for qid,
// failing InUse if a TxQueue of this port is already checked out.
func (s *Service) TxQueue(portID, qid int) (*TxQueue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLive(); err != nil {
		return nil, err
	}
	p, ok := s.ports[portID]
	if !ok {
		return nil, ErrNotFound
	}
	if p.txOut {
		return nil, ErrInUse
	}
	p.txOut = true
	return &TxQueue{port: p, qid: qid}, nil
}

// StatsQuery checks out the single-user stats handle for a port.
func (s *Service) StatsQuery(portID int) (*StatsQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLive(); err != nil {
		return nil, err
	}
	p, ok := s.ports[portID]
	if !ok {
		return nil, ErrNotFound
	}
	if p.statsOut {
		return nil, ErrInUse
	}
	p.statsOut = true
	return &StatsQuery{port: p}, nil
}

// RxQueue is the checked-out receive handle for one (port, qid) pair.
type RxQueue struct {
	port *Port
	qid  int
	pool *mbuf.Mempool
}

// Rx attempts to append up to cap(batch)-len(batch) freshly received
// mbufs to batch and returns the extended slice; the number appended is
// the growth in its length. It never blocks (spec.md §4.4).
func (q *RxQueue) Rx(batch []*mbuf.Mbuf) []*mbuf.Mbuf {
	room := cap(batch) - len(batch)
	if room <= 0 {
		return batch
	}
	native := q.port.svc.rt.EthRxBurst(q.port.id, q.qid, room)
	for _, nm := range native {
		m, err := q.pool.FromSlice(nm.Data)
		if err != nil {
			continue
		}
		batch = append(batch, m)
	}
	return batch
}

// Release returns this handle's checkout slot.
func (q *RxQueue) Release() {
	q.port.svc.mu.Lock()
	q.port.rxOut = false
	q.port.svc.mu.Unlock()
}

// TxQueue is the checked-out transmit handle for one (port, qid) pair.
type TxQueue struct {
	port *Port
	qid  int
}

// Tx attempts to transmit batch's mbufs in order, compacting any
// untransmitted suffix to the front of batch for retry, and returns the
// number sent (spec.md §4.4). The device receives a copy of each mbuf's
// bytes; Tx does not free any mbuf, so the sent mbufs stay owned by the
// caller, who returns them to their pool.
func (q *TxQueue) Tx(batch []*mbuf.Mbuf) (sent int, remaining []*mbuf.Mbuf) {
	native := make([]*nicabi.Mbuf, len(batch))
	for i, m := range batch {
		native[i] = &nicabi.Mbuf{Data: collectMbufBytes(m)}
	}
	n := q.port.svc.rt.EthTxBurst(q.port.id, q.qid, native)
	remaining = append(batch[:0:0], batch[n:]...)
	return n, remaining
}

func collectMbufBytes(m *mbuf.Mbuf) []byte {
	out := make([]byte, 0, m.Len())
	pb := mbuf.NewPbuf(m)
	for pb.Remaining() > 0 {
		chunk := pb.Chunk()
		out = append(out, chunk...)
		pb.Advance(len(chunk))
	}
	return out
}

// Release returns this handle's checkout slot.
func (q *TxQueue) Release() {
	q.port.svc.mu.Lock()
	q.port.txOut = false
	q.port.svc.mu.Unlock()
}

// StatsQuery is the checked-out stats handle for a port.
type StatsQuery struct{ port *Port }

// Get fetches the current counters from the native device.
func (q *StatsQuery) Get() (nicabi.EthStats, error) {
	stats, err := q.port.svc.rt.EthStatsGet(q.port.id)
	if err != nil {
		return nicabi.EthStats{}, wrapDeviceError("eth_stats_get", q.port.id, err)
	}
	return stats, nil
}

// Release returns this handle's checkout slot.
func (q *StatsQuery) Release() {
	q.port.svc.mu.Lock()
	q.port.statsOut = false
	q.port.svc.mu.Unlock()
}
