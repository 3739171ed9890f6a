package avshim

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// LockStrategy is how FFmpeg's internal shared state is protected.
type LockStrategy int

const (
	// LockStrategyNone means Init has not run (or failed before choosing).
	LockStrategyNone LockStrategy = iota
	// LockStrategyInternal means FFmpeg locks internally; Init did nothing.
	LockStrategyInternal
	// LockStrategyCallback means a lock manager was registered with
	// av_lockmgr_register.
	LockStrategyCallback
)

func (s LockStrategy) String() string {
	switch s {
	case LockStrategyInternal:
		return "internal"
	case LockStrategyCallback:
		return "callback"
	default:
		return "none"
	}
}

// lockManagerCutoff is the libavcodec version that deprecated
// av_lockmgr_register. Older builds need a host-supplied lock manager.
var lockManagerCutoff = MakeVersion(58, 9, 100)

var (
	initMu       sync.Mutex
	initDone     bool
	initErr      error
	initStrategy LockStrategy

	// registerLocking is the backend's strategy selection.
	registerLocking = nativeRegisterLocking
	// verifyVersions runs before registerLocking.
	verifyVersions = CheckVersions
)

// Init prepares FFmpeg for concurrent use. Call it once before any
// goroutine touches FFmpeg; later calls do nothing. It first checks that
// the libraries in use are ABI compatible with the build, then on builds
// older than libavcodec 58.9.100 registers a lock manager. An incompatible
// library or a rejected lock manager ends the process through the
// logger's fatal path.
func Init() {
	err := TryInit()
	switch {
	case err == nil:
	case errors.Is(err, ErrVersionSkew):
		logger.WithFields(logrus.Fields{
			"function": "Init",
			"error":    err.Error(),
		}).Fatal("FFmpeg libraries are not ABI compatible with this build")
	case errors.Is(err, ErrLockManagerRejected):
		logger.WithFields(logrus.Fields{
			"function": "Init",
			"error":    err.Error(),
		}).Fatal("cannot continue without an FFmpeg lock manager")
	default:
		logger.WithFields(logrus.Fields{
			"function": "Init",
			"error":    err.Error(),
		}).Warn("FFmpeg initialization failed")
	}
}

// TryInit is Init without the abort: it performs the same one-time
// selection and returns its error. Every call returns the first outcome.
func TryInit() error {
	initMu.Lock()
	defer initMu.Unlock()
	if initDone {
		return initErr
	}
	initDone = true

	// A missing library is reported by registerLocking below.
	if err := verifyVersions(); err != nil && !errors.Is(err, ErrNotAvailable) {
		initStrategy, initErr = LockStrategyNone, err
		return initErr
	}

	initStrategy, initErr = registerLocking()
	if initErr != nil {
		initStrategy = LockStrategyNone
		return initErr
	}
	logger.WithFields(logrus.Fields{
		"function": "TryInit",
		"strategy": initStrategy.String(),
		"avcodec":  AVCodecVersion().String(),
	}).Info("FFmpeg locking strategy selected")
	return nil
}

// Initialized reports whether Init completed successfully.
func Initialized() bool {
	return Strategy() != LockStrategyNone
}

// Strategy returns the strategy selected by Init, or LockStrategyNone.
func Strategy() LockStrategy {
	initMu.Lock()
	defer initMu.Unlock()
	return initStrategy
}

// lockManagerCallback is the four-operation lock manager handed to FFmpeg.
func lockManagerCallback(handle *uintptr, op LockOp) int32 {
	return locks.do(handle, op)
}
