//go:build !cgo && !darwin && !linux

package avshim

import "unsafe"

func loadNative() error { return ErrNotAvailable }

// Available reports whether FFmpeg can be used. Never on this platform
// without cgo.
func Available() bool { return false }

func linkedVersions() Versions  { return Versions{} }
func runtimeVersions() Versions { return Versions{} }
func versionInfo() string       { return "" }

func nativeStrerror(int) (string, bool) { return "", false }

func nativePacketAlloc() unsafe.Pointer { return nil }
func nativePacketFree(unsafe.Pointer)   {}

func nativeDictSet(*unsafe.Pointer, string, string, int) int { return -1 }
func nativeDictGet(unsafe.Pointer, string, unsafe.Pointer, int) unsafe.Pointer {
	return nil
}
func nativeDictCount(unsafe.Pointer) int { return 0 }
func nativeDictFree(pm *unsafe.Pointer) { *pm = nil }

func nativeRegisterLocking() (LockStrategy, error) {
	return LockStrategyNone, ErrNotAvailable
}
