package avshim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Version is an FFmpeg library version packed the same way as
// AV_VERSION_INT: major<<16 | minor<<8 | micro.
type Version uint32

// MakeVersion packs a version triple.
func MakeVersion(major, minor, micro int) Version {
	return Version(uint32(major)<<16 | uint32(minor&0xff)<<8 | uint32(micro&0xff))
}

// Major returns the major component.
func (v Version) Major() int { return int(v >> 16) }

// Minor returns the minor component.
func (v Version) Minor() int { return int(v>>8) & 0xff }

// Micro returns the micro component.
func (v Version) Micro() int { return int(v) & 0xff }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Micro())
}

// Versions holds the version of each FFmpeg module.
type Versions struct {
	Codec  Version
	Format Version
	Util   Version
}

func (v Versions) String() string {
	return fmt.Sprintf("avcodec %s, avformat %s, avutil %s", v.Codec, v.Format, v.Util)
}

// AVCodecVersion returns the libavcodec version this package was built for.
// With cgo this is LIBAVCODEC_VERSION_INT from the headers; with purego it
// is the version of the loaded library. Zero if no library is available.
func AVCodecVersion() Version { return linkedVersions().Codec }

// AVFormatVersion returns the libavformat version this package was built for.
func AVFormatVersion() Version { return linkedVersions().Format }

// AVUtilVersion returns the libavutil version this package was built for.
func AVUtilVersion() Version { return linkedVersions().Util }

// LinkedVersions returns the build-time versions of all three modules.
func LinkedVersions() Versions { return linkedVersions() }

// RuntimeVersions returns the versions reported by the shared libraries
// actually in use (avcodec_version and friends).
func RuntimeVersions() Versions { return runtimeVersions() }

// VersionInfo returns av_version_info(), the FFmpeg release string, or ""
// if FFmpeg is not available.
func VersionInfo() string { return versionInfo() }

// CheckVersions reports ErrVersionSkew when a library in use is not ABI
// compatible with the build-time version (different major, or an older
// minor), or the libraries do not come from a single FFmpeg release.
func CheckVersions() error {
	if err := loadNative(); err != nil {
		return err
	}
	linked, running := linkedVersions(), runtimeVersions()
	if err := compareVersions(linked, running); err != nil {
		logger.WithFields(logrus.Fields{
			"function": "CheckVersions",
			"linked":   linked.String(),
			"runtime":  running.String(),
		}).Warn("FFmpeg version skew detected")
		return err
	}
	return nil
}

// compatible reports whether a library built against linked can run
// against running: same major, and a minor at least as new so every symbol
// and field the build saw is present.
func compatible(linked, running Version) bool {
	return running.Major() == linked.Major() && running.Minor() >= linked.Minor()
}

func compareVersions(linked, running Versions) error {
	libs := []struct {
		name            string
		linked, running Version
	}{
		{"libavutil", linked.Util, running.Util},
		{"libavcodec", linked.Codec, running.Codec},
		{"libavformat", linked.Format, running.Format},
	}
	for _, l := range libs {
		if !compatible(l.linked, l.running) {
			return fmt.Errorf("%w: %s built for %s, running %s", ErrVersionSkew, l.name, l.linked, l.running)
		}
	}
	// libavcodec and libavformat share the major number in every release
	// since FFmpeg 3.0.
	if running.Codec.Major() != running.Format.Major() {
		return fmt.Errorf("%w: libavcodec %s and libavformat %s are from different releases",
			ErrVersionSkew, running.Codec, running.Format)
	}
	return nil
}
