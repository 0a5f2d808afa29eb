package mbuf

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Default headroom/dataroom sizes, carried over from the DPDK conventions
// the original implementation builds on (RTE_PKTMBUF_HEADROOM,
// RTE_MBUF_DEFAULT_DATAROOM in rte_mbuf_core.h).
const (
	DefaultHeadroomSize = 128
	DefaultDataroomSize = 2048
)

// Error is a sentinel struct error, matching the teacher's plain-value
// error style (netstack/filter/errors.go) rather than a sentinel var per
// case: callers compare Error.Msg or use errors.As, not ==.
type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

func newError(format string, args ...interface{}) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

type coreCache struct {
	mu   sync.Mutex
	free [][]byte
}

// Mempool is a named, fixed-capacity pool of equally-sized backing buffers
// (spec.md §4.1). Each backing buffer is carved into headroom/data/tailroom
// by newSegment when an Mbuf is allocated from it. A Mempool keeps one LIFO
// cache per registered lcore so that same-core alloc/free pairs reuse the
// most recently freed buffer without touching the shared free list or its
// lock, taking only that core's own cache lock (the locality property original_source/rpkt-dpdk/src/mempool.rs's
// mbuf_data_unchanged_after_realloc test exercises).
type Mempool struct {
	name         string
	capacity     int
	dataRoomSize int
	headroomSize int
	cacheSize    int

	mu       sync.Mutex
	free     [][]byte // shared free list, backs cores with no registered cache and cache overflow
	inUse    int32    // count of backing buffers currently checked out as live Mbufs

	caches sync.Map // int(coreID) -> *coreCache
}

// NewMempool allocates capacity backing buffers of dataRoomSize+headroomSize
// bytes apiece and arranges them as a free pool. cacheSize is the number of
// buffers each registered lcore keeps locally; pass 0 to disable per-core
// caching. socketID is accepted for API parity with the native allocator
// (spec.md §6's NUMA-aware pool) but Go provides no portable NUMA-local
// allocation primitive, so it is recorded for diagnostics only — see
// DESIGN.md.
func NewMempool(name string, capacity, cacheSize, dataRoomSize, headroomSize int, socketID int) (*Mempool, error) {
	if capacity <= 0 {
		return nil, newError("mbuf: NewMempool %q: capacity must be positive", name)
	}
	if dataRoomSize <= 0 {
		return nil, newError("mbuf: NewMempool %q: dataRoomSize must be positive", name)
	}
	mp := &Mempool{
		name:         name,
		capacity:     capacity,
		dataRoomSize: dataRoomSize,
		headroomSize: headroomSize,
		cacheSize:    cacheSize,
		free:         make([][]byte, 0, capacity),
	}
	bufLen := dataRoomSize + headroomSize
	for i := 0; i < capacity; i++ {
		mp.free = append(mp.free, make([]byte, bufLen))
	}
	return mp, nil
}

func (mp *Mempool) Name() string         { return mp.name }
func (mp *Mempool) DataRoomSize() int    { return mp.dataRoomSize }
func (mp *Mempool) HeadroomSize() int    { return mp.headroomSize }

// Avail reports the number of backing buffers not currently checked out,
// summing the shared free list and every per-core cache.
func (mp *Mempool) Avail() int {
	mp.mu.Lock()
	n := len(mp.free)
	mp.mu.Unlock()
	mp.caches.Range(func(_, v interface{}) bool {
		c := v.(*coreCache)
		c.mu.Lock()
		n += len(c.free)
		c.mu.Unlock()
		return true
	})
	return n
}

// InUse reports whether any backing buffer is currently checked out as a
// live Mbuf — the property Service consults before allowing a Mempool to
// be torn down.
func (mp *Mempool) InUse() bool { return atomic.LoadInt32(&mp.inUse) != 0 }

func (mp *Mempool) cacheFor(coreID int) *coreCache {
	if mp.cacheSize == 0 {
		return nil
	}
	v, _ := mp.caches.LoadOrStore(coreID, &coreCache{free: make([][]byte, 0, mp.cacheSize)})
	return v.(*coreCache)
}

func (mp *Mempool) takeBacking() []byte {
	if coreID, ok := currentCore(); ok {
		if c := mp.cacheFor(coreID); c != nil {
			c.mu.Lock()
			if n := len(c.free); n > 0 {
				b := c.free[n-1]
				c.free = c.free[:n-1]
				c.mu.Unlock()
				return b
			}
			c.mu.Unlock()
		}
	}
	mp.mu.Lock()
	defer mp.mu.Unlock()
	n := len(mp.free)
	if n == 0 {
		return nil
	}
	b := mp.free[n-1]
	mp.free = mp.free[:n-1]
	return b
}

func (mp *Mempool) giveBacking(b []byte) {
	if coreID, ok := currentCore(); ok {
		if c := mp.cacheFor(coreID); c != nil {
			c.mu.Lock()
			if len(c.free) < mp.cacheSize {
				c.free = append(c.free, b)
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()
		}
	}
	mp.mu.Lock()
	mp.free = append(mp.free, b)
	mp.mu.Unlock()
}

// TryAlloc checks out one backing buffer and wraps it as a fresh, empty
// Mbuf, or returns nil if the pool (and the calling thread's cache) is
// exhausted.
func (mp *Mempool) TryAlloc() *Mbuf {
	b := mp.takeBacking()
	if b == nil {
		return nil
	}
	atomic.AddInt32(&mp.inUse, 1)
	return &Mbuf{head: newSegment(b, mp.headroomSize), pool: mp}
}

// AllocBatch returns up to n Mbufs from the pool, stopping early if the
// pool is exhausted: the result may be shorter than n (a partial batch),
// and the Mbufs already taken stay allocated.
func (mp *Mempool) AllocBatch(n int) []*Mbuf {
	out := make([]*Mbuf, 0, n)
	for i := 0; i < n; i++ {
		m := mp.TryAlloc()
		if m == nil {
			break
		}
		out = append(out, m)
	}
	return out
}

// FromSlice allocates as many segments as needed from mp and copies data
// into them in order, chaining the segments together into one Mbuf. It
// returns an *Error (and frees every segment it had taken) if the pool
// runs out of backing buffers before data is exhausted.
func (mp *Mempool) FromSlice(data []byte) (*Mbuf, error) {
	head := mp.TryAlloc()
	if head == nil {
		return nil, newError("mbuf: FromSlice: pool %q exhausted", mp.name)
	}
	appender := head.Appender()
	remaining := data
	take := mp.dataRoomSize
	if take > len(remaining) {
		take = len(remaining)
	}
	head.ExtendFromSlice(remaining[:take])
	remaining = remaining[take:]

	for len(remaining) > 0 {
		seg := mp.TryAlloc()
		if seg == nil {
			mp.Free(head)
			return nil, newError("mbuf: FromSlice: pool %q exhausted", mp.name)
		}
		take := mp.dataRoomSize
		if take > len(remaining) {
			take = len(remaining)
		}
		seg.ExtendFromSlice(remaining[:take])
		remaining = remaining[take:]
		appender.AppendSeg(seg)
	}
	return head, nil
}

// FreeBatch returns every Mbuf in batch to the pool, resetting its segments
// to an empty, fresh state. It panics if any Mbuf did not originate from
// this pool, since that would silently corrupt an unrelated pool's free
// list.
func (mp *Mempool) FreeBatch(batch []*Mbuf) {
	for _, m := range batch {
		mp.free1(m)
	}
}

// Free returns a single Mbuf (and every segment chained onto it) to the
// pool.
func (mp *Mempool) Free(m *Mbuf) { mp.free1(m) }

func (mp *Mempool) free1(m *Mbuf) {
	if m.head == nil {
		// already consumed by Appender.AppendSeg onto another mbuf
		return
	}
	for s := m.head; s != nil; {
		if s.backing != nil {
			if m.pool != mp {
				panic("mbuf: FreeBatch: mbuf does not belong to this pool")
			}
			next := s.next
			b := s.backing
			s.reset(mp.headroomSize)
			mp.giveBacking(b)
			atomic.AddInt32(&mp.inUse, -1)
			s = next
		} else {
			s = s.next
		}
	}
	m.head = nil
}
