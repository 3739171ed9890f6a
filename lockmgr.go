package avshim

import "sync"

// LockOp is an enum AVLockOp value passed to the lock manager callback.
type LockOp int32

const (
	LockCreate  LockOp = iota // allocate and initialize a mutex
	LockObtain                // lock it
	LockRelease               // unlock it
	LockDestroy               // free it
)

func (op LockOp) String() string {
	switch op {
	case LockCreate:
		return "create"
	case LockObtain:
		return "obtain"
	case LockRelease:
		return "release"
	case LockDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

const (
	lockOK     int32 = 0
	lockFailed int32 = -1
)

// lockTable backs the mutexes FFmpeg creates through the lock manager. The
// value FFmpeg stores in its void* slot is a table handle, never a Go
// pointer. A mutex is a one-slot channel so that releasing an unlocked
// mutex can be reported instead of crashing the process.
type lockTable struct {
	mu      sync.Mutex
	next    uintptr
	mutexes map[uintptr]chan struct{}
}

// locks is the process-wide table. Handles live from LockCreate to
// LockDestroy and belong to FFmpeg in between.
var locks = newLockTable()

func newLockTable() *lockTable {
	return &lockTable{mutexes: make(map[uintptr]chan struct{})}
}

// do runs one lock manager operation. handle is FFmpeg's void* slot.
func (t *lockTable) do(handle *uintptr, op LockOp) int32 {
	if handle == nil {
		return lockFailed
	}
	switch op {
	case LockCreate:
		if *handle != 0 {
			return lockFailed
		}
		*handle = t.create()
		return lockOK
	case LockDestroy:
		if !t.destroy(*handle) {
			return lockFailed
		}
		*handle = 0
		return lockOK
	case LockObtain:
		m := t.lookup(*handle)
		if m == nil {
			return lockFailed
		}
		m <- struct{}{}
		return lockOK
	case LockRelease:
		m := t.lookup(*handle)
		if m == nil {
			return lockFailed
		}
		select {
		case <-m:
			return lockOK
		default:
			return lockFailed
		}
	default:
		return lockFailed
	}
}

func (t *lockTable) create() uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		t.next++
		if t.next == 0 {
			continue
		}
		if _, used := t.mutexes[t.next]; !used {
			break
		}
	}
	t.mutexes[t.next] = make(chan struct{}, 1)
	return t.next
}

func (t *lockTable) destroy(h uintptr) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.mutexes[h]; !ok {
		return false
	}
	delete(t.mutexes, h)
	return true
}

func (t *lockTable) lookup(h uintptr) chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mutexes[h]
}

// len returns the number of live mutexes.
func (t *lockTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.mutexes)
}
