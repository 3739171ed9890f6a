//go:build (darwin || linux) && !cgo

// Shared helpers for the purego backend.

package avshim

import (
	"os"
	"path/filepath"
	"unsafe"
)

// maxCStringLen bounds goStringFromPtr. FFmpeg version strings are short.
const maxCStringLen = 1024

// goStringFromPtr copies a NUL-terminated C string into a Go string.
func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	var length int
	for length < maxCStringLen {
		if *(*byte)(unsafe.Add(p, length)) == 0 {
			break
		}
		length++
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), length))
}

// findModuleRoot walks up from the working directory to the first
// directory containing go.mod.
func findModuleRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
