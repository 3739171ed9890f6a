package avshim

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to classify wrapped errors.
var (
	// ErrNotAvailable indicates the FFmpeg libraries could not be loaded.
	ErrNotAvailable = errors.New("avshim: FFmpeg libraries not available")

	// ErrUnsupportedLayout indicates the loaded FFmpeg major version has no
	// known struct layout.
	ErrUnsupportedLayout = errors.New("avshim: unsupported FFmpeg struct layout")

	// ErrLockManagerRejected indicates av_lockmgr_register refused the
	// lock callback.
	ErrLockManagerRejected = errors.New("avshim: lock manager registration rejected")

	// ErrVersionSkew indicates the running libraries differ from the
	// build-time versions.
	ErrVersionSkew = errors.New("avshim: FFmpeg version skew")
)

// ErrEOF is the AVError for AVERROR_EOF.
var ErrEOF error = AVError(ErrorEOF)

// errorBufSize is AV_ERROR_MAX_STRING_SIZE.
const errorBufSize = 64

// AVError is a negative FFmpeg return code.
type AVError int

// Error describes the code with av_strerror. Without FFmpeg the common
// codes and FFERRTAG tags are decoded locally.
func (e AVError) Error() string {
	if msg, ok := nativeStrerror(int(e)); ok {
		return "avshim: " + msg
	}
	switch int(e) {
	case ErrorEOF:
		return "avshim: end of file"
	case errorEAGAIN:
		return "avshim: resource temporarily unavailable"
	}
	if tag, ok := e.tag(); ok {
		return fmt.Sprintf("avshim: FFmpeg error %q (%d)", tag, int(e))
	}
	return fmt.Sprintf("avshim: FFmpeg error %d", int(e))
}

// Is matches another AVError with the same code.
func (e AVError) Is(target error) bool {
	t, ok := target.(AVError)
	return ok && t == e
}

// tag decodes FFERRTAG-style codes (negated little-endian four-char tags).
func (e AVError) tag() (string, bool) {
	if e >= 0 {
		return "", false
	}
	v := uint32(-int32(e))
	b := [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return "", false
		}
	}
	return string(b[:]), true
}

// CheckError converts an FFmpeg return code into an error. Non-negative
// codes are success.
func CheckError(code int) error {
	if code >= 0 {
		return nil
	}
	return AVError(code)
}
