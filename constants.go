package avshim

import "syscall"

// Values below are part of FFmpeg's stable ABI and identical in every
// release this package supports. cgo builds verify them against the
// headers (see headerConstants).
const (
	// NoPTS is AV_NOPTS_VALUE, the "no timestamp" sentinel.
	NoPTS int64 = -1 << 63

	// ErrorEOF is AVERROR_EOF.
	ErrorEOF = -(int('E') | int('O')<<8 | int('F')<<16 | int(' ')<<24)

	errorEAGAIN = -int(syscall.EAGAIN)

	// PacketFlagKey is AV_PKT_FLAG_KEY.
	PacketFlagKey = 0x0001
	// PacketFlagCorrupt is AV_PKT_FLAG_CORRUPT.
	PacketFlagCorrupt = 0x0002

	// DictMatchCase is AV_DICT_MATCH_CASE.
	DictMatchCase = 1
	// DictIgnoreSuffix is AV_DICT_IGNORE_SUFFIX.
	DictIgnoreSuffix = 2
)

// CodecID is an enum AVCodecID value.
type CodecID int32

const (
	CodecIDNone CodecID = 0
	CodecIDH264 CodecID = 27
	CodecIDVP8  CodecID = 139
	CodecIDVP9  CodecID = 167
	CodecIDHEVC CodecID = 173
	CodecIDAV1  CodecID = 225
	CodecIDMP3  CodecID = 0x15001
	CodecIDAAC  CodecID = 0x15002
	CodecIDOpus CodecID = 0x1503c
)

func (c CodecID) String() string {
	switch c {
	case CodecIDNone:
		return "none"
	case CodecIDH264:
		return "h264"
	case CodecIDVP8:
		return "vp8"
	case CodecIDVP9:
		return "vp9"
	case CodecIDHEVC:
		return "hevc"
	case CodecIDAV1:
		return "av1"
	case CodecIDMP3:
		return "mp3"
	case CodecIDAAC:
		return "aac"
	case CodecIDOpus:
		return "opus"
	default:
		return "unknown"
	}
}

// MediaType is an enum AVMediaType value.
type MediaType int32

const (
	MediaTypeUnknown    MediaType = -1
	MediaTypeVideo      MediaType = 0
	MediaTypeAudio      MediaType = 1
	MediaTypeData       MediaType = 2
	MediaTypeSubtitle   MediaType = 3
	MediaTypeAttachment MediaType = 4
)

func (m MediaType) String() string {
	switch m {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeData:
		return "data"
	case MediaTypeSubtitle:
		return "subtitle"
	case MediaTypeAttachment:
		return "attachment"
	default:
		return "unknown"
	}
}
