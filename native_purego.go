//go:build (darwin || linux) && !cgo

// purego backend: FFmpeg is loaded at runtime and the struct layout is
// chosen from the loaded major versions.

package avshim

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/sirupsen/logrus"
)

var (
	avOnce    sync.Once
	avInitErr error

	avutilHandle   uintptr
	avcodecHandle  uintptr
	avformatHandle uintptr

	avLoadedVersions Versions
	avLoadedPaths    [3]string
)

// FFmpeg function pointers. av_lockmgr_register is resolved separately and
// only on builds that still have it.
var (
	avutilVersion   func() uint32
	avcodecVersion  func() uint32
	avformatVersion func() uint32
	avVersionInfo   func() uintptr

	avStrerror    func(errnum int32, buf *byte, size uintptr) int32
	avPacketAlloc func() uintptr
	avPacketFree  func(pkt *unsafe.Pointer)

	avDictSet   func(pm *unsafe.Pointer, key, value string, flags int32) int32
	avDictGet   func(m unsafe.Pointer, key string, prev unsafe.Pointer, flags int32) unsafe.Pointer
	avDictCount func(m unsafe.Pointer) int32
	avDictFree  func(pm *unsafe.Pointer)

	lockmgrOnce     sync.Once
	lockmgrCallback uintptr
)

// ffmpegRelease pairs the sonames that ship together in one FFmpeg release.
type ffmpegRelease struct {
	name                string
	util, codec, format int
}

// Newest first. libavcodec and libavformat share a major per release.
// FFmpeg 3.x predates internal locking and has no accessor layout.
var ffmpegReleases = []ffmpegRelease{
	{name: "8", util: 60, codec: 62, format: 62},
	{name: "7", util: 59, codec: 61, format: 61},
	{name: "6", util: 58, codec: 60, format: 60},
	{name: "5", util: 57, codec: 59, format: 59},
	{name: "4", util: 56, codec: 58, format: 58},
	{name: "3", util: 55, codec: 57, format: 57},
}

func loadNative() error {
	avOnce.Do(func() {
		avInitErr = loadFFmpeg()
	})
	return avInitErr
}

// Available reports whether the FFmpeg libraries could be loaded.
func Available() bool {
	return loadNative() == nil
}

func loadFFmpeg() error {
	var lastErr error
	for _, rel := range ffmpegReleases {
		err := openRelease(rel)
		if err == nil {
			break
		}
		lastErr = err
	}
	if avcodecHandle == 0 {
		if lastErr == nil {
			lastErr = errors.New("no candidate library paths")
		}
		return fmt.Errorf("%w: %v", ErrNotAvailable, lastErr)
	}

	if err := loadFFmpegSymbols(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotAvailable, err)
	}

	avLoadedVersions = Versions{
		Codec:  Version(avcodecVersion()),
		Format: Version(avformatVersion()),
		Util:   Version(avutilVersion()),
	}

	fields := logrus.Fields{
		"function": "loadFFmpeg",
		"avutil":   avLoadedPaths[0],
		"avcodec":  avLoadedPaths[1],
		"avformat": avLoadedPaths[2],
		"versions": avLoadedVersions.String(),
	}

	l, err := layoutFor(avLoadedVersions.Codec.Major(), avLoadedVersions.Format.Major())
	if err != nil {
		// Locking still works without a layout; only the accessors are off.
		logger.WithFields(fields).WithError(err).Warn("FFmpeg loaded without accessor support")
		return nil
	}
	installLayout(l, "table")
	logger.WithFields(fields).Info("FFmpeg loaded")
	return nil
}

// openRelease opens libavutil, libavcodec and libavformat of one release,
// in dependency order. Either all three open or none stay open.
func openRelease(rel ffmpegRelease) error {
	var handles [3]uintptr
	var paths [3]string
	libs := [3]struct {
		base  string
		major int
	}{
		{"avutil", rel.util},
		{"avcodec", rel.codec},
		{"avformat", rel.format},
	}

	for i, lib := range libs {
		h, path, err := dlopenFirst(getFFmpegLibPaths(lib.base, lib.major))
		if err != nil {
			for j := 0; j < i; j++ {
				purego.Dlclose(handles[j])
			}
			return fmt.Errorf("FFmpeg %s: lib%s: %w", rel.name, lib.base, err)
		}
		handles[i] = h
		paths[i] = path
	}

	avutilHandle, avcodecHandle, avformatHandle = handles[0], handles[1], handles[2]
	avLoadedPaths = paths
	return nil
}

func dlopenFirst(paths []string) (uintptr, string, error) {
	var lastErr error
	for _, path := range paths {
		h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return h, path, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("not found")
	}
	return 0, "", lastErr
}

// getFFmpegLibPaths lists candidate paths for one library, highest
// priority first.
func getFFmpegLibPaths(base string, major int) []string {
	names := ffmpegLibNames(base, major)
	var paths []string

	// Environment variable override (highest priority)
	if envPath := os.Getenv("AVSHIM_LIB_PATH"); envPath != "" {
		for _, n := range names {
			paths = append(paths, filepath.Join(envPath, n))
		}
	}

	// Next to the executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		for _, n := range names {
			paths = append(paths,
				filepath.Join(exeDir, n),
				filepath.Join(exeDir, "..", "lib", n),
			)
		}
	}

	// Module-local build output (development)
	if moduleRoot := findModuleRoot(); moduleRoot != "" {
		for _, n := range names {
			paths = append(paths, filepath.Join(moduleRoot, "build", n))
		}
	}

	// System paths (lowest priority), then the bare soname for the loader.
	var sysDirs []string
	switch runtime.GOOS {
	case "darwin":
		sysDirs = []string{"/opt/homebrew/lib", "/usr/local/lib", "/opt/local/lib"}
	case "linux":
		sysDirs = []string{
			"/usr/local/lib",
			"/usr/lib/" + linuxMultiarch(),
			"/usr/lib64",
			"/usr/lib",
		}
	}
	for _, dir := range sysDirs {
		for _, n := range names {
			paths = append(paths, filepath.Join(dir, n))
		}
	}
	return append(paths, names...)
}

// ffmpegLibNames returns the versioned soname followed by the unversioned
// development symlink.
func ffmpegLibNames(base string, major int) []string {
	if runtime.GOOS == "darwin" {
		return []string{
			fmt.Sprintf("lib%s.%d.dylib", base, major),
			fmt.Sprintf("lib%s.dylib", base),
		}
	}
	return []string{
		fmt.Sprintf("lib%s.so.%d", base, major),
		fmt.Sprintf("lib%s.so", base),
	}
}

func linuxMultiarch() string {
	switch runtime.GOARCH {
	case "arm64":
		return "aarch64-linux-gnu"
	default:
		return "x86_64-linux-gnu"
	}
}

func loadFFmpegSymbols() (err error) {
	// RegisterLibFunc panics on a missing symbol.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resolving FFmpeg symbols: %v", r)
		}
	}()

	purego.RegisterLibFunc(&avutilVersion, avutilHandle, "avutil_version")
	purego.RegisterLibFunc(&avVersionInfo, avutilHandle, "av_version_info")
	purego.RegisterLibFunc(&avStrerror, avutilHandle, "av_strerror")
	purego.RegisterLibFunc(&avDictSet, avutilHandle, "av_dict_set")
	purego.RegisterLibFunc(&avDictGet, avutilHandle, "av_dict_get")
	purego.RegisterLibFunc(&avDictCount, avutilHandle, "av_dict_count")
	purego.RegisterLibFunc(&avDictFree, avutilHandle, "av_dict_free")
	purego.RegisterLibFunc(&avcodecVersion, avcodecHandle, "avcodec_version")
	purego.RegisterLibFunc(&avPacketAlloc, avcodecHandle, "av_packet_alloc")
	purego.RegisterLibFunc(&avPacketFree, avcodecHandle, "av_packet_free")
	purego.RegisterLibFunc(&avformatVersion, avformatHandle, "avformat_version")
	return nil
}

// The loaded library is the build input here, so linked and runtime
// versions are the same values.
func linkedVersions() Versions {
	if loadNative() != nil {
		return Versions{}
	}
	return avLoadedVersions
}

func runtimeVersions() Versions {
	return linkedVersions()
}

func versionInfo() string {
	if loadNative() != nil {
		return ""
	}
	return goStringFromPtr(avVersionInfo())
}

func nativeStrerror(code int) (string, bool) {
	if loadNative() != nil {
		return "", false
	}
	buf := make([]byte, errorBufSize)
	avStrerror(int32(code), &buf[0], uintptr(len(buf)))
	n := bytes.IndexByte(buf, 0)
	if n <= 0 {
		return "", false
	}
	return string(buf[:n]), true
}

func nativePacketAlloc() unsafe.Pointer {
	p := avPacketAlloc()
	if p == 0 {
		return nil
	}
	return unsafe.Pointer(p)
}

func nativePacketFree(p unsafe.Pointer) {
	pp := new(unsafe.Pointer)
	*pp = p
	avPacketFree(pp)
	runtime.KeepAlive(pp)
}

func nativeDictSet(pm *unsafe.Pointer, key, value string, flags int) int {
	return int(avDictSet(pm, key, value, int32(flags)))
}

func nativeDictGet(m unsafe.Pointer, key string, prev unsafe.Pointer, flags int) unsafe.Pointer {
	return avDictGet(m, key, prev, int32(flags))
}

func nativeDictCount(m unsafe.Pointer) int {
	return int(avDictCount(m))
}

func nativeDictFree(pm *unsafe.Pointer) {
	avDictFree(pm)
}

// needsLockManager decides the era from the loaded libavcodec version and
// the presence of av_lockmgr_register. The symbol is looked up, never bound,
// unless both agree.
func needsLockManager(v Version, hasSymbol bool) (bool, error) {
	if v >= lockManagerCutoff {
		return false, nil
	}
	if !hasSymbol {
		return false, fmt.Errorf("%w: libavcodec %s has no av_lockmgr_register", ErrLockManagerRejected, v)
	}
	return true, nil
}

func nativeRegisterLocking() (LockStrategy, error) {
	if err := loadNative(); err != nil {
		return LockStrategyNone, err
	}

	sym, symErr := purego.Dlsym(avcodecHandle, "av_lockmgr_register")
	legacy, err := needsLockManager(avLoadedVersions.Codec, symErr == nil)
	if err != nil {
		return LockStrategyNone, err
	}
	if !legacy {
		return LockStrategyInternal, nil
	}

	if err := registerLockManager(sym); err != nil {
		return LockStrategyNone, err
	}
	logger.WithFields(logrus.Fields{
		"function": "nativeRegisterLocking",
		"avcodec":  avLoadedVersions.Codec.String(),
	}).Debug("lock manager registered")
	return LockStrategyCallback, nil
}

// registerLockManager calls the av_lockmgr_register found at sym with the
// lock manager trampoline. The callback is created once per process.
func registerLockManager(sym uintptr) error {
	lockmgrOnce.Do(func() {
		lockmgrCallback = purego.NewCallback(lockManagerTrampoline)
	})
	var register func(cb uintptr) int32
	purego.RegisterFunc(&register, sym)
	if rc := register(lockmgrCallback); rc != 0 {
		return fmt.Errorf("%w: av_lockmgr_register returned %d", ErrLockManagerRejected, rc)
	}
	return nil
}

// lockManagerTrampoline matches int (*)(void **mutex, enum AVLockOp op).
func lockManagerTrampoline(mutex uintptr, op int32) int32 {
	if mutex == 0 {
		return lockFailed
	}
	return lockManagerCallback((*uintptr)(unsafe.Pointer(mutex)), LockOp(op))
}
