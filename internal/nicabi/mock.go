package nicabi

import "sync"

// Mock is an in-memory Runtime implementation with one fake port
// (port 0), loopback rx/tx queues, and a handful of real mempools backed
// by plain byte slices. It never touches hardware; rx_burst replays
// whatever tx_burst most recently pushed into the same queue index, which
// is enough to drive driver's port/queue lifecycle tests end to end
// without a real NIC.
type Mock struct {
	mu sync.Mutex

	initialized bool
	nextPool    uintptr
	pools       map[uintptr]*mockPool

	ports map[int]*mockPort
}

type mockPool struct {
	name      string
	nbMbufs   int
	cacheSize int
	dataroom  int
	socket    int
	avail     int
}

type mockPort struct {
	configured bool
	started    bool
	conf       PortConf
	rxq, txq   []chan *Mbuf
	stats      EthStats
}

// NewMock builds a Mock with one fake port (index 0) exposing every
// offload bit as capable, so the DevRxOffload/DevTxOffload Subset checks
// in driver.Service.PortConfigure never reject a request for lack of
// capability.
func NewMock() *Mock {
	return &Mock{
		pools: make(map[uintptr]*mockPool),
		ports: map[int]*mockPort{0: {}},
	}
}

func (m *Mock) Init(args []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return newError("nicabi: mock: already initialized")
	}
	m.initialized = true
	return nil
}

func (m *Mock) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = false
	m.pools = make(map[uintptr]*mockPool)
}

func (m *Mock) MempoolCreateNative(name string, nbMbufs, cacheSize, dataroom, socket int) (uintptr, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pools {
		if p.name == name {
			return 0, newError("nicabi: mock: mempool %q already exists", name)
		}
	}
	m.nextPool++
	id := m.nextPool
	m.pools[id] = &mockPool{name: name, nbMbufs: nbMbufs, cacheSize: cacheSize, dataroom: dataroom, socket: socket, avail: nbMbufs}
	return id, nil
}

func (m *Mock) MempoolFreeNative(pool uintptr) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pools[pool]
	if !ok {
		return newError("nicabi: mock: unknown mempool handle")
	}
	if p.avail != p.nbMbufs {
		return newError("nicabi: mock: mempool %q still in use", p.name)
	}
	delete(m.pools, pool)
	return nil
}

func (m *Mock) MempoolAvailCount(pool uintptr) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pools[pool]; ok {
		return p.avail
	}
	return 0
}

func (m *Mock) MempoolFull(pool uintptr) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pools[pool]; ok {
		return p.avail == p.nbMbufs
	}
	return false
}

func (m *Mock) AllocBulk(pool uintptr, n int) []*Mbuf {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pools[pool]
	if !ok {
		return nil
	}
	out := make([]*Mbuf, 0, n)
	for i := 0; i < n && p.avail > 0; i++ {
		p.avail--
		out = append(out, &Mbuf{Data: make([]byte, 0, p.dataroom)})
	}
	return out
}

func (m *Mock) FreeBulk(mbufs []*Mbuf) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// The mock has no back-reference from Mbuf to its origin pool (the
	// real ABI tracks this in the native struct); crediting avail back is
	// driver's responsibility via its own Mempool bookkeeping, not this
	// mock's. FreeBulk here only exists to satisfy the Runtime interface.
	_ = mbufs
}

func (m *Mock) EthDevInfo(port int) (EthDevInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ports[port]; !ok {
		return EthDevInfo{}, newError("nicabi: mock: unknown port %d", port)
	}
	return EthDevInfo{
		SocketID:      0,
		RxOffloadCapa: ^uint64(0),
		TxOffloadCapa: ^uint64(0),
		RSSHashCapa:   ^uint64(0),
		MACAddr:       [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
		HashKeySize:   40,
	}, nil
}

func (m *Mock) EthDevConfigure(port int, conf PortConf, rxConfs, txConfs []QueueConf) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.ports[port]
	if !ok {
		return newError("nicabi: mock: unknown port %d", port)
	}
	p.conf = conf
	p.rxq = make([]chan *Mbuf, len(rxConfs))
	for i, c := range rxConfs {
		p.rxq[i] = make(chan *Mbuf, int(c.NbDesc))
	}
	p.txq = make([]chan *Mbuf, len(txConfs))
	for i, c := range txConfs {
		p.txq[i] = make(chan *Mbuf, int(c.NbDesc))
	}
	p.configured = true
	return nil
}

func (m *Mock) EthDevStart(port int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.ports[port]
	if !ok || !p.configured {
		return newError("nicabi: mock: port %d not configured", port)
	}
	p.started = true
	return nil
}

func (m *Mock) EthDevStop(port int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.ports[port]
	if !ok {
		return newError("nicabi: mock: unknown port %d", port)
	}
	p.started = false
	return nil
}

func (m *Mock) EthDevClose(port int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.ports[port]
	if !ok {
		return newError("nicabi: mock: unknown port %d", port)
	}
	p.configured = false
	p.rxq, p.txq = nil, nil
	return nil
}

// EthRxBurst drains up to n mbufs previously queued onto qid's loopback
// channel by a test via InjectRx, or by EthTxBurst on the same queue
// index (loopback).
func (m *Mock) EthRxBurst(port int, qid int, n int) []*Mbuf {
	m.mu.Lock()
	p, ok := m.ports[port]
	m.mu.Unlock()
	if !ok || qid >= len(p.rxq) {
		return nil
	}
	out := make([]*Mbuf, 0, n)
	for i := 0; i < n; i++ {
		select {
		case mb := <-p.rxq[qid]:
			out = append(out, mb)
			m.mu.Lock()
			p.stats.RxPackets++
			p.stats.RxBytes += uint64(len(mb.Data))
			m.mu.Unlock()
		default:
			return out
		}
	}
	return out
}

// EthTxBurst accepts mbufs up to qid's channel capacity, looping them
// back onto the matching rx queue index so InjectRx/EthRxBurst round
// trips are observable from tests without any external device.
func (m *Mock) EthTxBurst(port int, qid int, batch []*Mbuf) int {
	m.mu.Lock()
	p, ok := m.ports[port]
	m.mu.Unlock()
	if !ok || qid >= len(p.rxq) {
		return 0
	}
	sent := 0
	for _, mb := range batch {
		select {
		case p.rxq[qid] <- mb:
			sent++
			m.mu.Lock()
			p.stats.TxPackets++
			p.stats.TxBytes += uint64(len(mb.Data))
			m.mu.Unlock()
		default:
			return sent
		}
	}
	return sent
}

func (m *Mock) EthStatsGet(port int) (EthStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.ports[port]
	if !ok {
		return EthStats{}, newError("nicabi: mock: unknown port %d", port)
	}
	return p.stats, nil
}

func (m *Mock) ThreadRegister() error       { return nil }
func (m *Mock) ThreadSetAffinity(int) error { return nil }

// InjectRx pushes raw bytes onto port/qid's rx channel, simulating a
// frame arriving off the wire, for use by driver's own tests.
func (m *Mock) InjectRx(port, qid int, data []byte) bool {
	m.mu.Lock()
	p, ok := m.ports[port]
	m.mu.Unlock()
	if !ok || qid >= len(p.rxq) {
		return false
	}
	select {
	case p.rxq[qid] <- &Mbuf{Data: data}:
		return true
	default:
		return false
	}
}

var _ Runtime = (*Mock)(nil)
