package mbuf_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"go.netpkt.dev/netpkt/mbuf"
)

func TestMempoolAllocAvailInUseBookkeeping(t *testing.T) {
	pool, err := mbuf.NewMempool("bookkeeping", 4, 0, 64, 8, 0)
	require.NoError(t, err)
	require.Equal(t, 4, pool.Avail())
	require.False(t, pool.InUse(), "fresh pool should not be in use")

	batch := pool.AllocBatch(3)
	require.Len(t, batch, 3)
	require.Equal(t, 1, pool.Avail())
	require.True(t, pool.InUse(), "pool should be in use while mbufs are checked out")

	// AllocBatch stops early once the pool (not just the per-core cache)
	// is exhausted, rather than blocking or erroring.
	rest := pool.AllocBatch(5)
	require.Len(t, rest, 1, "exhausted pool should yield exactly 1 more")
	require.Nil(t, pool.TryAlloc(), "TryAlloc should return nil once the pool is exhausted")

	pool.FreeBatch(batch)
	pool.FreeBatch(rest)
	require.Equal(t, 4, pool.Avail())
	require.False(t, pool.InUse(), "pool should not be in use once every mbuf is freed")
}

func TestMempoolFromSliceSpansMultipleSegments(t *testing.T) {
	pool, err := mbuf.NewMempool("from-slice", 4, 0, 4, 0, 0)
	require.NoError(t, err)
	m, err := pool.FromSlice([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	require.Equal(t, 3, m.NumSegs(), "expected 3 segments (4+4+1 bytes over a 4-byte dataroom)")
	require.Equal(t, 9, m.Len())
	require.Equal(t, 1, pool.Avail(), "4 capacity - 3 checked out")

	pool.Free(m)
	require.Equal(t, 4, pool.Avail(), "all 4 should be back after freeing the chain")
}

func TestMempoolFromSliceExhaustionFreesPartialChain(t *testing.T) {
	pool, err := mbuf.NewMempool("exhaust", 2, 0, 4, 0, 0)
	require.NoError(t, err)
	// 3 segments of data needed (4+4+2) but only 2 backing buffers exist.
	_, err = pool.FromSlice([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	require.Error(t, err, "FromSlice should fail when the pool cannot cover the whole chain")
	require.Equal(t, 2, pool.Avail(), "every partially-built segment should be returned on failure")
	require.False(t, pool.InUse())
}

// backingPtr returns the address of the first byte of m's live data, used
// to check whether two Mbufs share the same underlying backing array.
func backingPtr(m *mbuf.Mbuf) uintptr {
	data := m.Data()
	if len(data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&data[0]))
}

// TestMempoolPerCoreCacheReusesMostRecentlyFreedBuffer exercises the
// cache-locality property documented on Mempool: a registered lcore's
// alloc/free pairs are served LIFO from that core's own cache, so a
// same-core alloc immediately after a free gets back the very backing
// array just released, without touching the shared free list.
func TestMempoolPerCoreCacheReusesMostRecentlyFreedBuffer(t *testing.T) {
	pool, err := mbuf.NewMempool("cache-locality", 4, 2, 64, 8, 0)
	require.NoError(t, err)

	mbuf.RegisterCurrentThreadCore(0)
	defer mbuf.UnregisterCurrentThreadCore()

	m1 := pool.TryAlloc()
	require.NotNil(t, m1)
	m1.ExtendFromSlice([]byte{1, 2, 3})
	addr1 := backingPtr(m1)
	pool.Free(m1)

	m2 := pool.TryAlloc()
	require.NotNil(t, m2)
	m2.ExtendFromSlice([]byte{9})
	addr2 := backingPtr(m2)
	require.Equal(t, addr1, addr2, "same-core cache should hand back the just-freed backing buffer")
	pool.Free(m2)
}
