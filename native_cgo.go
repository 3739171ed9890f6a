//go:build cgo

// cgo backend: struct layouts, versions and the lock manager era come from
// the FFmpeg headers found by pkg-config.

package avshim

/*
#cgo pkg-config: libavcodec libavformat libavutil

#include <stdint.h>
#include <stdlib.h>
#include <libavcodec/avcodec.h>
#include <libavformat/avformat.h>
#include <libavutil/avutil.h>
#include <libavutil/dict.h>
#include <libavutil/error.h>

// Builds before libavcodec 58.9.100 have no internal locking and expect the
// host to install a lock manager. The enum and av_lockmgr_register are gone
// from newer headers, so the whole branch is compiled out there.
#if LIBAVCODEC_VERSION_INT < AV_VERSION_INT(58, 9, 100)
#define AVSHIM_LEGACY_LOCKMGR 1

extern int avshimLockOp(uintptr_t *handle, int op);

static int avshim_lockmgr(void **mutex, enum AVLockOp op) {
	uintptr_t h = (uintptr_t)*mutex;
	int ret = avshimLockOp(&h, (int)op);
	*mutex = (void *)h;
	return ret;
}

static int avshim_register_lockmgr(void) {
	return av_lockmgr_register(avshim_lockmgr);
}
#else
#define AVSHIM_LEGACY_LOCKMGR 0

static int avshim_register_lockmgr(void) {
	return 0;
}
#endif

static const unsigned avshim_lavc_version = LIBAVCODEC_VERSION_INT;
static const unsigned avshim_lavf_version = LIBAVFORMAT_VERSION_INT;
static const unsigned avshim_lavu_version = LIBAVUTIL_VERSION_INT;

static const int64_t avshim_nopts = AV_NOPTS_VALUE;
static const int avshim_error_eof = AVERROR_EOF;
static const int avshim_pkt_flag_key = AV_PKT_FLAG_KEY;
static const int avshim_dict_ignore_suffix = AV_DICT_IGNORE_SUFFIX;
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/sirupsen/logrus"
)

const legacyLockManager = C.AVSHIM_LEGACY_LOCKMGR == 1

var headerLayout = structLayout{
	packetPTS:         unsafe.Offsetof(C.AVPacket{}.pts),
	packetDTS:         unsafe.Offsetof(C.AVPacket{}.dts),
	packetData:        unsafe.Offsetof(C.AVPacket{}.data),
	packetSize:        unsafe.Offsetof(C.AVPacket{}.size),
	packetStreamIndex: unsafe.Offsetof(C.AVPacket{}.stream_index),
	packetFlags:       unsafe.Offsetof(C.AVPacket{}.flags),
	packetDuration:    unsafe.Offsetof(C.AVPacket{}.duration),

	parCodecType:     unsafe.Offsetof(C.AVCodecParameters{}.codec_type),
	parCodecID:       unsafe.Offsetof(C.AVCodecParameters{}.codec_id),
	parExtradata:     unsafe.Offsetof(C.AVCodecParameters{}.extradata),
	parExtradataSize: unsafe.Offsetof(C.AVCodecParameters{}.extradata_size),
	parWidth:         unsafe.Offsetof(C.AVCodecParameters{}.width),
	parHeight:        unsafe.Offsetof(C.AVCodecParameters{}.height),

	streamIndex:    unsafe.Offsetof(C.AVStream{}.index),
	streamCodecPar: unsafe.Offsetof(C.AVStream{}.codecpar),
	streamTimeBase: unsafe.Offsetof(C.AVStream{}.time_base),

	formatNbStreams: unsafe.Offsetof(C.AVFormatContext{}.nb_streams),
	formatStreams:   unsafe.Offsetof(C.AVFormatContext{}.streams),
}

func init() {
	installLayout(&headerLayout, "headers")
}

// loadNative is a no-op: the libraries are linked.
func loadNative() error { return nil }

// Available reports whether FFmpeg can be used. Always true with cgo.
func Available() bool { return true }

func linkedVersions() Versions {
	return Versions{
		Codec:  Version(C.avshim_lavc_version),
		Format: Version(C.avshim_lavf_version),
		Util:   Version(C.avshim_lavu_version),
	}
}

func runtimeVersions() Versions {
	return Versions{
		Codec:  Version(C.avcodec_version()),
		Format: Version(C.avformat_version()),
		Util:   Version(C.avutil_version()),
	}
}

func versionInfo() string {
	return C.GoString(C.av_version_info())
}

func nativeStrerror(code int) (string, bool) {
	var buf [errorBufSize]C.char
	C.av_strerror(C.int(code), &buf[0], C.size_t(len(buf)))
	msg := C.GoString(&buf[0])
	return msg, msg != ""
}

func nativePacketAlloc() unsafe.Pointer {
	return unsafe.Pointer(C.av_packet_alloc())
}

func nativePacketFree(p unsafe.Pointer) {
	pkt := (*C.AVPacket)(p)
	C.av_packet_free(&pkt)
}

func nativeDictSet(pm *unsafe.Pointer, key, value string, flags int) int {
	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))
	cvalue := C.CString(value)
	defer C.free(unsafe.Pointer(cvalue))
	return int(C.av_dict_set((**C.AVDictionary)(unsafe.Pointer(pm)), ckey, cvalue, C.int(flags)))
}

func nativeDictGet(m unsafe.Pointer, key string, prev unsafe.Pointer, flags int) unsafe.Pointer {
	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))
	return unsafe.Pointer(C.av_dict_get((*C.AVDictionary)(m), ckey, (*C.AVDictionaryEntry)(prev), C.int(flags)))
}

func nativeDictCount(m unsafe.Pointer) int {
	return int(C.av_dict_count((*C.AVDictionary)(m)))
}

func nativeDictFree(pm *unsafe.Pointer) {
	C.av_dict_free((**C.AVDictionary)(unsafe.Pointer(pm)))
}

func nativeRegisterLocking() (LockStrategy, error) {
	if !legacyLockManager {
		return LockStrategyInternal, nil
	}
	if rc := C.avshim_register_lockmgr(); rc != 0 {
		return LockStrategyNone, fmt.Errorf("%w: av_lockmgr_register returned %d", ErrLockManagerRejected, int(rc))
	}
	logger.WithFields(logrus.Fields{
		"function": "nativeRegisterLocking",
		"avcodec":  linkedVersions().Codec.String(),
		"cutoff":   lockManagerCutoff.String(),
	}).Debug("lock manager registered")
	return LockStrategyCallback, nil
}

// headerConstants returns the header values of the constants mirrored in
// constants.go, keyed by Go name.
func headerConstants() map[string]int64 {
	return map[string]int64{
		"NoPTS":            int64(C.avshim_nopts),
		"ErrorEOF":         int64(C.avshim_error_eof),
		"PacketFlagKey":    int64(C.avshim_pkt_flag_key),
		"DictIgnoreSuffix": int64(C.avshim_dict_ignore_suffix),
		"CodecIDH264":      int64(C.AV_CODEC_ID_H264),
		"CodecIDHEVC":      int64(C.AV_CODEC_ID_HEVC),
		"CodecIDVP8":       int64(C.AV_CODEC_ID_VP8),
		"CodecIDVP9":       int64(C.AV_CODEC_ID_VP9),
		"CodecIDAV1":       int64(C.AV_CODEC_ID_AV1),
		"CodecIDAAC":       int64(C.AV_CODEC_ID_AAC),
		"CodecIDMP3":       int64(C.AV_CODEC_ID_MP3),
		"CodecIDOpus":      int64(C.AV_CODEC_ID_OPUS),
		"MediaTypeVideo":   int64(C.AVMEDIA_TYPE_VIDEO),
		"MediaTypeAudio":   int64(C.AVMEDIA_TYPE_AUDIO),
	}
}
