// Package avshim is a thin compatibility layer over FFmpeg's libavcodec,
// libavformat and libavutil whose ABI differs between releases.
//
// It provides three things:
//   - a version probe (AVCodecVersion, AVFormatVersion, AVUtilVersion) and
//     named constants so callers never hardcode FFmpeg magic numbers
//   - Init, which rejects libraries that are not ABI compatible with the
//     build and installs a lock manager on FFmpeg builds that still require
//     one (libavcodec < 58.9.100)
//   - accessors over AVPacket, AVStream, AVCodecParameters and
//     AVFormatContext that return plain values or non-owning views
//
// Dictionary wraps AVDictionary for option passing, and AVError formats
// FFmpeg return codes with av_strerror.
//
// # Usage
//
//	avshim.Init()
//	pkt := avshim.AllocPacket()
//	if pkt == nil {
//		// allocation failed or FFmpeg is not available
//	}
//	pkt.SetPTS(1000)
//	avshim.FreePacket(&pkt)
//
// # Views
//
// Data, ExtraData and Streams return slices that alias memory owned by
// FFmpeg. They are valid only while the owning record is alive and must
// not be retained after the record is freed. Nothing here detects
// use-after-free or double free.
//
// # Native Libraries
//
// With CGO enabled the package links FFmpeg through pkg-config and reads
// struct layouts and the lock manager era from the installed headers. With
// CGO_ENABLED=0 on darwin and linux it loads the shared libraries with
// purego and picks the struct layout for the loaded major version. Set
// AVSHIM_LIB_PATH to the directory containing the libraries to override the
// search. FFmpeg 3.x loads without accessors. AVSHIM_LOG_LEVEL gives the
// package its own logrus logger at that level.
//
// # Build Tags
//
//   - cgo: link against the headers found by pkg-config
//   - !cgo (darwin, linux): load libavutil, libavcodec and libavformat at runtime
//
// Other platforms without cgo compile, but every call reports ErrNotAvailable.
package avshim
