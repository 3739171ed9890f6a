//go:build cgo

package avshim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The purego backend relies on the layout table; with headers at hand we
// can check it against the real offsets for the installed major.
func TestHeaderLayoutMatchesTable(t *testing.T) {
	l, err := layoutFor(AVCodecVersion().Major(), AVFormatVersion().Major())
	if err != nil {
		t.Skipf("no table entry for %s: %v", LinkedVersions(), err)
	}
	assert.Equal(t, headerLayout, *l)
}

func TestHeaderConstants(t *testing.T) {
	want := map[string]int64{
		"NoPTS":            NoPTS,
		"ErrorEOF":         ErrorEOF,
		"PacketFlagKey":    PacketFlagKey,
		"DictIgnoreSuffix": DictIgnoreSuffix,
		"CodecIDH264":      int64(CodecIDH264),
		"CodecIDHEVC":      int64(CodecIDHEVC),
		"CodecIDVP8":       int64(CodecIDVP8),
		"CodecIDVP9":       int64(CodecIDVP9),
		"CodecIDAV1":       int64(CodecIDAV1),
		"CodecIDAAC":       int64(CodecIDAAC),
		"CodecIDMP3":       int64(CodecIDMP3),
		"CodecIDOpus":      int64(CodecIDOpus),
		"MediaTypeVideo":   int64(MediaTypeVideo),
		"MediaTypeAudio":   int64(MediaTypeAudio),
	}
	assert.Equal(t, want, headerConstants())
}

func TestLegacyFlagMatchesVersion(t *testing.T) {
	assert.Equal(t, AVCodecVersion() < lockManagerCutoff, legacyLockManager)
}

func TestAvailableWithCgo(t *testing.T) {
	assert.True(t, Available())
	assert.True(t, LayoutSupported())
}
