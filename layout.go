package avshim

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// structLayout holds the byte offsets of every field the accessors touch.
// The cgo backend fills it from the headers with unsafe.Offsetof; the
// purego backend picks it from the tables below by major version.
type structLayout struct {
	// AVPacket
	packetPTS         uintptr
	packetDTS         uintptr
	packetData        uintptr
	packetSize        uintptr
	packetStreamIndex uintptr
	packetFlags       uintptr
	packetDuration    uintptr

	// AVCodecParameters
	parCodecType     uintptr
	parCodecID       uintptr
	parExtradata     uintptr
	parExtradataSize uintptr
	parWidth         uintptr
	parHeight        uintptr

	// AVStream
	streamIndex    uintptr
	streamCodecPar uintptr
	streamTimeBase uintptr

	// AVFormatContext
	formatNbStreams uintptr
	formatStreams   uintptr
}

// codecLayout covers the libavcodec-owned records (AVPacket,
// AVCodecParameters). 64-bit targets only.
type codecLayout struct {
	packetPTS, packetDTS, packetData, packetSize   uintptr
	packetStreamIndex, packetFlags, packetDuration uintptr

	parCodecType, parCodecID, parExtradata uintptr
	parExtradataSize, parWidth, parHeight  uintptr
}

// formatLayout covers the libavformat-owned records.
type formatLayout struct {
	streamIndex, streamCodecPar, streamTimeBase uintptr
	formatNbStreams, formatStreams              uintptr
}

// AVPacket kept its leading fields in place from FFmpeg 3.x to 8.x.
// AVCodecParameters did too until lavc 61, where coded_side_data moved up
// behind extradata_size and pushed width/height back by 16 bytes.
var codecLayouts = map[int]codecLayout{
	57: legacyCodecLayout,
	58: legacyCodecLayout,
	59: legacyCodecLayout,
	60: legacyCodecLayout,
	61: sideDataCodecLayout,
	62: sideDataCodecLayout,
}

var legacyCodecLayout = codecLayout{
	packetPTS:         8,
	packetDTS:         16,
	packetData:        24,
	packetSize:        32,
	packetStreamIndex: 36,
	packetFlags:       40,
	packetDuration:    64,

	parCodecType:     0,
	parCodecID:       4,
	parExtradata:     16,
	parExtradataSize: 24,
	parWidth:         56,
	parHeight:        60,
}

var sideDataCodecLayout = func() codecLayout {
	l := legacyCodecLayout
	l.parWidth = 72
	l.parHeight = 76
	return l
}()

// There is no lavf 57 entry: FFmpeg 3.x AVStream carries the deprecated
// AVCodecContext and AVFrac members in front of codecpar, so those builds
// load for versions and locking only.
var formatLayouts = map[int]formatLayout{
	// FFmpeg 4.x: deprecated AVCodecContext *codec and an embedded
	// AVPacket attached_pic sit in front of codecpar.
	58: {streamIndex: 0, streamCodecPar: 208, streamTimeBase: 24, formatNbStreams: 44, formatStreams: 48},
	// FFmpeg 5.x moved codecpar up next to id.
	59: {streamIndex: 0, streamCodecPar: 8, streamTimeBase: 24, formatNbStreams: 44, formatStreams: 48},
	// FFmpeg 6.x and later put an AVClass pointer first.
	60: {streamIndex: 8, streamCodecPar: 16, streamTimeBase: 32, formatNbStreams: 44, formatStreams: 48},
	61: {streamIndex: 8, streamCodecPar: 16, streamTimeBase: 32, formatNbStreams: 44, formatStreams: 48},
	62: {streamIndex: 8, streamCodecPar: 16, streamTimeBase: 32, formatNbStreams: 44, formatStreams: 48},
}

// layoutFor returns the layout for a libavcodec/libavformat major pair.
func layoutFor(codecMajor, formatMajor int) (*structLayout, error) {
	c, ok := codecLayouts[codecMajor]
	if !ok {
		return nil, fmt.Errorf("%w: libavcodec major %d", ErrUnsupportedLayout, codecMajor)
	}
	f, ok := formatLayouts[formatMajor]
	if !ok {
		return nil, fmt.Errorf("%w: libavformat major %d", ErrUnsupportedLayout, formatMajor)
	}
	return &structLayout{
		packetPTS:         c.packetPTS,
		packetDTS:         c.packetDTS,
		packetData:        c.packetData,
		packetSize:        c.packetSize,
		packetStreamIndex: c.packetStreamIndex,
		packetFlags:       c.packetFlags,
		packetDuration:    c.packetDuration,
		parCodecType:      c.parCodecType,
		parCodecID:        c.parCodecID,
		parExtradata:      c.parExtradata,
		parExtradataSize:  c.parExtradataSize,
		parWidth:          c.parWidth,
		parHeight:         c.parHeight,
		streamIndex:       f.streamIndex,
		streamCodecPar:    f.streamCodecPar,
		streamTimeBase:    f.streamTimeBase,
		formatNbStreams:   f.formatNbStreams,
		formatStreams:     f.formatStreams,
	}, nil
}

// active is the layout used by every accessor. It is installed once by the
// backend before the first record can be obtained.
var active atomic.Pointer[structLayout]

func installLayout(l *structLayout, source string) {
	active.Store(l)
	logger.WithFields(logrus.Fields{
		"function": "installLayout",
		"source":   source,
	}).Debug("accessor layout installed")
}

// lay returns the active layout. Records only come from AllocPacket,
// the *FromPointer constructors and other records, all of which require a
// layout, so a nil layout here is a programming error.
func lay() *structLayout {
	l := active.Load()
	if l == nil {
		panic("avshim: accessor used before FFmpeg was loaded")
	}
	return l
}

// haveLayout loads FFmpeg if needed and reports whether a layout is
// installed.
func haveLayout() bool {
	if active.Load() != nil {
		return true
	}
	_ = loadNative()
	return active.Load() != nil
}

// LayoutSupported reports whether the accessors can be used with the
// FFmpeg build in use.
func LayoutSupported() bool {
	if err := loadNative(); err != nil {
		return false
	}
	return active.Load() != nil
}
