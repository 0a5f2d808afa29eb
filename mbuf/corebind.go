package mbuf

import (
	"sync"

	"golang.org/x/sys/unix"
)

// threadCore maps an OS thread id (as returned by unix.Gettid) to the lcore
// it has been pinned to. driver.Service.LcoreBind populates this registry
// before a worker thread touches a Mempool, so that Mempool.TryAlloc can
// find that thread's per-core cache without mbuf importing driver (spec.md
// §4.1's "per-core cache" requires the mempool to know which core is
// asking, but the core-to-thread binding itself is a driver concern).
var threadCore sync.Map // int(tid) -> int(coreID)

// RegisterCurrentThreadCore records that the calling OS thread has been
// pinned to coreID. Call this once per worker thread, after the thread has
// actually been bound (e.g. via runtime.LockOSThread + SchedSetaffinity),
// and before it calls any Mempool method.
func RegisterCurrentThreadCore(coreID int) {
	threadCore.Store(unix.Gettid(), coreID)
}

// UnregisterCurrentThreadCore removes the calling thread's core binding.
func UnregisterCurrentThreadCore() {
	threadCore.Delete(unix.Gettid())
}

// currentCore returns the lcore the calling OS thread is registered under,
// or ok=false if RegisterCurrentThreadCore was never called on this thread
// (in which case callers fall back to the mempool's shared free list).
func currentCore() (id int, ok bool) {
	v, found := threadCore.Load(unix.Gettid())
	if !found {
		return 0, false
	}
	return v.(int), true
}
