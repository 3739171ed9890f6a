package avshim

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockCreateDestroy(t *testing.T) {
	before := locks.len()

	var h uintptr
	require.Equal(t, lockOK, lockManagerCallback(&h, LockCreate))
	assert.NotZero(t, h)
	assert.Equal(t, before+1, locks.len())

	require.Equal(t, lockOK, lockManagerCallback(&h, LockDestroy))
	assert.Zero(t, h, "destroy clears the slot")
	assert.Equal(t, before, locks.len(), "no handle leaked")
}

func TestLockObtainRelease(t *testing.T) {
	tbl := newLockTable()

	var h uintptr
	require.Equal(t, lockOK, tbl.do(&h, LockCreate))
	assert.Equal(t, lockOK, tbl.do(&h, LockObtain))
	assert.Equal(t, lockOK, tbl.do(&h, LockRelease))
	assert.Equal(t, lockOK, tbl.do(&h, LockObtain))
	assert.Equal(t, lockOK, tbl.do(&h, LockRelease))
	assert.Equal(t, lockOK, tbl.do(&h, LockDestroy))
	assert.Equal(t, 0, tbl.len())
}

func TestLockFailures(t *testing.T) {
	tbl := newLockTable()

	var h uintptr
	require.Equal(t, lockOK, tbl.do(&h, LockCreate))

	t.Run("release unlocked", func(t *testing.T) {
		assert.Equal(t, lockFailed, tbl.do(&h, LockRelease))
	})
	t.Run("create into occupied slot", func(t *testing.T) {
		occupied := h
		assert.Equal(t, lockFailed, tbl.do(&occupied, LockCreate))
		assert.Equal(t, 1, tbl.len())
	})
	t.Run("unknown handle", func(t *testing.T) {
		bogus := h + 1000
		assert.Equal(t, lockFailed, tbl.do(&bogus, LockObtain))
		assert.Equal(t, lockFailed, tbl.do(&bogus, LockRelease))
		assert.Equal(t, lockFailed, tbl.do(&bogus, LockDestroy))
	})
	t.Run("nil slot", func(t *testing.T) {
		assert.Equal(t, lockFailed, tbl.do(nil, LockCreate))
	})
	t.Run("unknown op", func(t *testing.T) {
		assert.Equal(t, lockFailed, tbl.do(&h, LockOp(9)))
	})
	t.Run("double destroy", func(t *testing.T) {
		stale := h
		require.Equal(t, lockOK, tbl.do(&h, LockDestroy))
		assert.Equal(t, lockFailed, tbl.do(&stale, LockDestroy))
	})
}

func TestLockHandlesAreDistinct(t *testing.T) {
	tbl := newLockTable()

	seen := make(map[uintptr]bool)
	for i := 0; i < 64; i++ {
		var h uintptr
		require.Equal(t, lockOK, tbl.do(&h, LockCreate))
		assert.False(t, seen[h], "handle %d reused while live", h)
		seen[h] = true
	}
	assert.Equal(t, 64, tbl.len())
}

func TestLockObtainBlocksUntilRelease(t *testing.T) {
	tbl := newLockTable()

	var h uintptr
	require.Equal(t, lockOK, tbl.do(&h, LockCreate))
	require.Equal(t, lockOK, tbl.do(&h, LockObtain))

	acquired := make(chan struct{})
	go func() {
		hh := h
		tbl.do(&hh, LockObtain)
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second obtain did not block")
	case <-time.After(50 * time.Millisecond):
	}

	require.Equal(t, lockOK, tbl.do(&h, LockRelease))
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second obtain never proceeded")
	}
	assert.Equal(t, lockOK, tbl.do(&h, LockRelease))
}

func TestLockMutualExclusion(t *testing.T) {
	tbl := newLockTable()

	var h uintptr
	require.Equal(t, lockOK, tbl.do(&h, LockCreate))

	const workers, iterations = 8, 500
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hh := h
			for j := 0; j < iterations; j++ {
				tbl.do(&hh, LockObtain)
				counter++
				tbl.do(&hh, LockRelease)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, counter)
	assert.Equal(t, lockOK, tbl.do(&h, LockDestroy))
}

func TestLockOpString(t *testing.T) {
	assert.Equal(t, "create", LockCreate.String())
	assert.Equal(t, "obtain", LockObtain.String())
	assert.Equal(t, "release", LockRelease.String())
	assert.Equal(t, "destroy", LockDestroy.String())
	assert.Equal(t, "unknown", LockOp(7).String())
}
