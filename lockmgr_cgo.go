//go:build cgo

package avshim

/*
#include <stdint.h>
*/
import "C"

// avshimLockOp is called by the C lock manager trampoline on legacy
// builds. The preamble here must stay declaration-only because of //export.
//
//export avshimLockOp
func avshimLockOp(handle *C.uintptr_t, op C.int) C.int {
	h := uintptr(*handle)
	rc := lockManagerCallback(&h, LockOp(op))
	*handle = C.uintptr_t(h)
	return C.int(rc)
}
