package avshim

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// Go mirrors of the FFmpeg 7.x records on 64-bit targets. Tests point the
// accessors at these instead of memory owned by FFmpeg.

type fakePacket struct {
	buf           uintptr
	pts           int64
	dts           int64
	data          *byte
	size          int32
	streamIndex   int32
	flags         int32
	_             int32
	sideData      uintptr
	sideDataElems int32
	_             int32
	duration      int64
	pos           int64
}

type fakeCodecPar struct {
	codecType       int32
	codecID         int32
	codecTag        uint32
	_               int32
	extradata       *byte
	extradataSize   int32
	_               int32
	codedSideData   uintptr
	nbCodedSideData int32
	format          int32
	bitRate         int64
	bitsPerCoded    int32
	bitsPerRaw      int32
	profile         int32
	level           int32
	width           int32
	height          int32
}

// fakeCodecPar4 is AVCodecParameters as shipped from FFmpeg 3.x to 6.x,
// before coded_side_data moved into the prefix.
type fakeCodecPar4 struct {
	codecType     int32
	codecID       int32
	codecTag      uint32
	_             int32
	extradata     *byte
	extradataSize int32
	format        int32
	bitRate       int64
	bitsPerCoded  int32
	bitsPerRaw    int32
	profile       int32
	level         int32
	width         int32
	height        int32
}

// fakeStream4 is the FFmpeg 4.x AVStream prefix up to codecpar.
type fakeStream4 struct {
	index    int32
	id       int32
	codec    uintptr
	privData uintptr
	timeBase Rational
	_        [176]byte
	codecpar *fakeCodecPar4
}

// fakeStream5 is the FFmpeg 5.x AVStream prefix.
type fakeStream5 struct {
	index    int32
	id       int32
	codecpar *fakeCodecPar4
	privData uintptr
	timeBase Rational
}

// fakeStream6 is the FFmpeg 6.x AVStream prefix, identical to 7.x but
// pointing at the older codecpar.
type fakeStream6 struct {
	avClass  uintptr
	index    int32
	id       int32
	codecpar *fakeCodecPar4
	privData uintptr
	timeBase Rational
}

type fakeStream struct {
	avClass  uintptr
	index    int32
	id       int32
	codecpar *fakeCodecPar
	privData uintptr
	timeBase Rational
}

type fakeFormatContext struct {
	avClass   uintptr
	iformat   uintptr
	oformat   uintptr
	privData  uintptr
	pb        uintptr
	ctxFlags  int32
	nbStreams uint32
	streams   **fakeStream
}

func (p *fakePacket) packet() *Packet { return PacketFromPointer(unsafe.Pointer(p)) }

func (s *fakeStream) stream() *Stream { return StreamFromPointer(unsafe.Pointer(s)) }

func (c *fakeCodecPar) params() *CodecParameters {
	return CodecParametersFromPointer(unsafe.Pointer(c))
}

func (f *fakeFormatContext) context() *FormatContext {
	return FormatContextFromPointer(unsafe.Pointer(f))
}

// useLayout installs l for the duration of the test.
func useLayout(t testing.TB, l *structLayout) {
	t.Helper()
	prev := active.Load()
	active.Store(l)
	t.Cleanup(func() { active.Store(prev) })
}

// useFakeLayout installs the FFmpeg 7 table layout, which the fakes mirror.
func useFakeLayout(t testing.TB) {
	t.Helper()
	l, err := layoutFor(61, 61)
	require.NoError(t, err)
	useLayout(t, l)
}
