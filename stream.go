package avshim

import "unsafe"

// FormatContext is an AVFormatContext. It owns its streams.
type FormatContext struct{ _ [0]byte }

// Stream is an AVStream, owned by its FormatContext. Never free one.
type Stream struct{ _ [0]byte }

// CodecParameters is the AVCodecParameters of a Stream, owned by it.
type CodecParameters struct{ _ [0]byte }

// The *FromPointer constructors return nil for a nil pointer or when the
// FFmpeg build in use has no known layout, so records from an unsupported
// release fail at the boundary instead of misreading memory.

// FormatContextFromPointer reinterprets an AVFormatContext pointer.
func FormatContextFromPointer(p unsafe.Pointer) *FormatContext {
	if p == nil || !haveLayout() {
		return nil
	}
	return (*FormatContext)(p)
}

// StreamFromPointer reinterprets an AVStream pointer.
func StreamFromPointer(p unsafe.Pointer) *Stream {
	if p == nil || !haveLayout() {
		return nil
	}
	return (*Stream)(p)
}

// CodecParametersFromPointer reinterprets an AVCodecParameters pointer.
func CodecParametersFromPointer(p unsafe.Pointer) *CodecParameters {
	if p == nil || !haveLayout() {
		return nil
	}
	return (*CodecParameters)(p)
}

// Pointer returns the underlying AVFormatContext pointer.
func (f *FormatContext) Pointer() unsafe.Pointer { return unsafe.Pointer(f) }

// Pointer returns the underlying AVStream pointer.
func (s *Stream) Pointer() unsafe.Pointer { return unsafe.Pointer(s) }

// Pointer returns the underlying AVCodecParameters pointer.
func (c *CodecParameters) Pointer() unsafe.Pointer { return unsafe.Pointer(c) }

// NumStreams returns nb_streams.
func (f *FormatContext) NumStreams() int {
	return int(*(*uint32)(unsafe.Add(unsafe.Pointer(f), lay().formatNbStreams)))
}

// Streams returns the stream array as a slice that aliases
// AVFormatContext.streams. Nothing is copied and ownership stays with the
// context; the slice goes stale when streams are added or the context is
// closed.
func (f *FormatContext) Streams() []*Stream {
	l := lay()
	n := *(*uint32)(unsafe.Add(unsafe.Pointer(f), l.formatNbStreams))
	streams := *(***Stream)(unsafe.Add(unsafe.Pointer(f), l.formatStreams))
	if streams == nil || n == 0 {
		return nil
	}
	return unsafe.Slice(streams, n)
}

// Index returns the stream's position in its FormatContext.
func (s *Stream) Index() int {
	return int(*(*int32)(unsafe.Add(unsafe.Pointer(s), lay().streamIndex)))
}

// CodecParameters returns the stream's codec parameters.
func (s *Stream) CodecParameters() *CodecParameters {
	return *(**CodecParameters)(unsafe.Add(unsafe.Pointer(s), lay().streamCodecPar))
}

// TimeBase returns the unit of the stream's packet timestamps.
func (s *Stream) TimeBase() Rational {
	return *(*Rational)(unsafe.Add(unsafe.Pointer(s), lay().streamTimeBase))
}

// CodecID returns codec_id.
func (c *CodecParameters) CodecID() CodecID {
	return CodecID(*(*int32)(unsafe.Add(unsafe.Pointer(c), lay().parCodecID)))
}

// MediaType returns codec_type.
func (c *CodecParameters) MediaType() MediaType {
	return MediaType(*(*int32)(unsafe.Add(unsafe.Pointer(c), lay().parCodecType)))
}

// Width returns the video width in pixels, 0 for non-video streams.
func (c *CodecParameters) Width() int {
	return int(*(*int32)(unsafe.Add(unsafe.Pointer(c), lay().parWidth)))
}

// Height returns the video height in pixels.
func (c *CodecParameters) Height() int {
	return int(*(*int32)(unsafe.Add(unsafe.Pointer(c), lay().parHeight)))
}

// ExtraData returns the out-of-band codec initialization data (e.g. avcC)
// without copying. The slice is nil when there is none and is only valid
// while the owning stream is alive.
func (c *CodecParameters) ExtraData() []byte {
	l := lay()
	data := *(**byte)(unsafe.Add(unsafe.Pointer(c), l.parExtradata))
	size := *(*int32)(unsafe.Add(unsafe.Pointer(c), l.parExtradataSize))
	if data == nil || size <= 0 {
		return nil
	}
	return unsafe.Slice(data, size)
}
