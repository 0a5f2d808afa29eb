// Package driver is the Go mirror of spec.md §4.4's Service/Port/Queue
// surface: a process-wide handle over the native NIC runtime
// (internal/nicabi.Runtime) that owns mempool and port lifecycle,
// enforces single-checkout on rx/tx/stats handles, and pins worker
// threads to cores before they touch either. It never logs on the
// packet fast path (spec.md §7: "the core never logs"); only lifecycle
// transitions here are logged, via an injected *zap.Logger.
package driver

import (
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"go.netpkt.dev/netpkt/internal/nicabi"
	"go.netpkt.dev/netpkt/mbuf"
)

type serviceState int

const (
	stateUninit serviceState = iota
	stateLive
	stateClosed
)

// Service is the process-wide handle spec.md §4.4 describes. Registry
// mutations (mempool create/free, port configure/close) are serialized
// under mu; hot-path lookups (Mempool, RxQueue, TxQueue) take the same
// lock but only for the map read plus setting a checkout flag, matching
// the O(1) requirement.
type Service struct {
	mu    sync.Mutex
	state serviceState

	rt     nicabi.Runtime
	logger *zap.Logger

	mempools map[string]*mempoolHandle
	ports    map[int]*Port
}

type mempoolHandle struct {
	pool       *mbuf.Mempool
	nativePool uintptr
}

// runtimeFactory is overridden by tests to inject a nicabi.Mock instead
// of a real backend; production wiring to an actual kernel-bypass
// library is out of scope (spec.md §1).
var runtimeFactory = func() nicabi.Runtime { return nicabi.NewMock() }

// WithLogger is an Options-style functional knob applied after Init,
// since the logger is an ambient concern (spec.md §5) rather than part
// of the native ABI's own configuration surface.
func (s *Service) WithLogger(l *zap.Logger) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
	return s
}

func newService(o *Options) (*Service, error) {
	s := &Service{
		rt:       runtimeFactory(),
		logger:   zap.NewNop(),
		mempools: make(map[string]*mempoolHandle),
		ports:    make(map[int]*Port),
	}
	if err := s.rt.Init(o.args); err != nil {
		return nil, wrapDeviceError("runtime_init", -1, err)
	}
	s.state = stateLive
	s.logger.Info("driver: service initialized", zap.Strings("args", o.args), zap.Uint64("core_mask", o.coreMask))
	return s, nil
}

func (s *Service) checkLive() error {
	switch s.state {
	case stateUninit:
		return ErrNotInitialized
	case stateClosed:
		return ErrNotInitialized
	default:
		return nil
	}
}

// Close tears down every port, frees every mempool, and releases the
// native runtime, matching spec.md §4.4's service_close. It aggregates
// every teardown failure via multierr rather than stopping at the
// first one, so a single stuck port doesn't mask others.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLive(); err != nil {
		return err
	}

	var errs error
	for id, p := range s.ports {
		if p.rxOut || p.txOut || p.statsOut {
			errs = multierr.Append(errs, ErrInUse)
			continue
		}
		if err := p.closeLocked(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		delete(s.ports, id)
	}
	for name, h := range s.mempools {
		if h.pool.InUse() {
			errs = multierr.Append(errs, ErrInUse)
			continue
		}
		if err := s.rt.MempoolFreeNative(h.nativePool); err != nil {
			errs = multierr.Append(errs, wrapDeviceError("mempool_free_native", -1, err))
			continue
		}
		delete(s.mempools, name)
	}
	if errs != nil {
		return errs
	}

	s.rt.Cleanup()
	s.state = stateClosed
	s.logger.Info("driver: service closed")
	return nil
}

// MempoolCreate registers a named pool backed by both a Go mbuf.Mempool
// (for the caller's alloc/free fast path) and the native allocator's
// own pool handle (for burst calls that need the native pointer),
// matching spec.md §4.1.
func (s *Service) MempoolCreate(name string, conf MempoolConf) (*mbuf.Mempool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLive(); err != nil {
		return nil, err
	}
	if _, exists := s.mempools[name]; exists {
		return nil, ErrAlreadyExists
	}
	native, err := s.rt.MempoolCreateNative(name, conf.NbMbufs, conf.PerCoreCaches, conf.Dataroom, conf.SocketID)
	if err != nil {
		return nil, wrapDeviceError("mempool_create_native", -1, err)
	}
	pool, err := mbuf.NewMempool(name, conf.NbMbufs, conf.PerCoreCaches, conf.Dataroom, mbuf.DefaultHeadroomSize, conf.SocketID)
	if err != nil {
		_ = s.rt.MempoolFreeNative(native)
		return nil, ErrResourceExhausted
	}
	s.mempools[name] = &mempoolHandle{pool: pool, nativePool: native}
	s.logger.Info("driver: mempool created", zap.String("name", name), zap.Int("nb_mbufs", conf.NbMbufs))
	return pool, nil
}

// MempoolFree removes a pool, failing InUse if any mbuf checked out of
// it is still live (spec.md §4.1: "an in-use mempool cannot be freed").
func (s *Service) MempoolFree(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLive(); err != nil {
		return err
	}
	h, ok := s.mempools[name]
	if !ok {
		return ErrNotFound
	}
	if h.pool.InUse() {
		return ErrInUse
	}
	if err := s.rt.MempoolFreeNative(h.nativePool); err != nil {
		return wrapDeviceError("mempool_free_native", -1, err)
	}
	delete(s.mempools, name)
	s.logger.Info("driver: mempool freed", zap.String("name", name))
	return nil
}

// Mempool looks up a previously created pool by name.
func (s *Service) Mempool(name string) (*mbuf.Mempool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLive(); err != nil {
		return nil, err
	}
	h, ok := s.mempools[name]
	if !ok {
		return nil, ErrNotFound
	}
	return h.pool, nil
}

// LcoreInfo describes one core available to this process, as reported
// by Service.Lcores.
type LcoreInfo struct {
	CoreID   int
	SocketID int
}

// Lcores enumerates the cores whose bits are set in mask, in ascending
// core order. It does not consult the Options.CoreMask the service was
// initialized with. Every core is reported with socket id 0.
func (s *Service) Lcores(mask uint64) []LcoreInfo {
	var out []LcoreInfo
	for i := 0; i < 64; i++ {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, LcoreInfo{CoreID: i, SocketID: 0})
		}
	}
	return out
}

// LcoreBind pins the calling OS thread to coreID and registers it with
// both the native runtime and mbuf's per-core cache registry (spec.md
// §4.4: "must be called before that thread touches mempools or
// queues"). It locks the goroutine to its OS thread for the remainder
// of the thread's life, matching the native runtime's expectation that
// a bound thread never migrates.
func (s *Service) LcoreBind(coreID int) error {
	runtime.LockOSThread()
	if err := s.rt.ThreadRegister(); err != nil {
		return wrapDeviceError("thread_register", -1, err)
	}
	if err := s.rt.ThreadSetAffinity(coreID); err != nil {
		return wrapDeviceError("thread_set_affinity", -1, err)
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(coreID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return wrapDeviceError("sched_setaffinity", -1, err)
	}
	mbuf.RegisterCurrentThreadCore(coreID)
	s.logger.Debug("driver: lcore bound", zap.Int("core_id", coreID))
	return nil
}
