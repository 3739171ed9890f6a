package avshim

import (
	"unsafe"

	"github.com/sirupsen/logrus"
)

// Packet is an AVPacket owned by FFmpeg. A *Packet points directly at the
// C struct; the Go type has no fields of its own.
type Packet struct{ _ [0]byte }

// PacketFromPointer reinterprets an AVPacket pointer obtained elsewhere.
// It returns nil when p is nil or the FFmpeg build in use has no known
// layout.
func PacketFromPointer(p unsafe.Pointer) *Packet {
	if p == nil || !haveLayout() {
		return nil
	}
	return (*Packet)(p)
}

// Pointer returns the underlying AVPacket pointer.
func (p *Packet) Pointer() unsafe.Pointer { return unsafe.Pointer(p) }

func (p *Packet) field(off uintptr) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(p), off)
}

// AllocPacket allocates a packet with av_packet_alloc. It returns nil if
// the allocation fails or FFmpeg is not available; callers must check.
func AllocPacket() *Packet {
	if err := loadNative(); err != nil {
		logger.WithFields(logrus.Fields{
			"function": "AllocPacket",
			"error":    err.Error(),
		}).Debug("FFmpeg not available")
		return nil
	}
	if active.Load() == nil {
		return nil
	}
	return (*Packet)(nativePacketAlloc())
}

// FreePacket releases a packet allocated by AllocPacket or by FFmpeg and
// sets *pp to nil. A nil pp or *pp is ignored, so freeing twice through the
// same variable is safe; freeing two copies of the pointer is not.
func FreePacket(pp **Packet) {
	if pp == nil || *pp == nil {
		return
	}
	nativePacketFree(unsafe.Pointer(*pp))
	*pp = nil
}

// PTS returns the presentation timestamp in stream time base units.
func (p *Packet) PTS() int64 { return *(*int64)(p.field(lay().packetPTS)) }

// SetPTS sets the presentation timestamp.
func (p *Packet) SetPTS(v int64) { *(*int64)(p.field(lay().packetPTS)) = v }

// DTS returns the decompression timestamp.
func (p *Packet) DTS() int64 { return *(*int64)(p.field(lay().packetDTS)) }

// SetDTS sets the decompression timestamp.
func (p *Packet) SetDTS(v int64) { *(*int64)(p.field(lay().packetDTS)) = v }

// Duration returns the packet duration in stream time base units, 0 if
// unknown.
func (p *Packet) Duration() int64 { return *(*int64)(p.field(lay().packetDuration)) }

// SetDuration sets the packet duration.
func (p *Packet) SetDuration(v int64) { *(*int64)(p.field(lay().packetDuration)) = v }

// StreamIndex returns the index of the stream the packet belongs to.
func (p *Packet) StreamIndex() int { return int(*(*int32)(p.field(lay().packetStreamIndex))) }

// SetStreamIndex sets the stream index.
func (p *Packet) SetStreamIndex(i int) { *(*int32)(p.field(lay().packetStreamIndex)) = int32(i) }

// Flags returns the AV_PKT_FLAG_* bits.
func (p *Packet) Flags() int { return int(*(*int32)(p.field(lay().packetFlags))) }

// IsKeyFrame reports whether PacketFlagKey is set.
func (p *Packet) IsKeyFrame() bool { return p.Flags()&PacketFlagKey != 0 }

// SetKeyFrame sets or clears PacketFlagKey, leaving other flags alone.
func (p *Packet) SetKeyFrame(key bool) {
	f := (*int32)(p.field(lay().packetFlags))
	if key {
		*f |= PacketFlagKey
	} else {
		*f &^= PacketFlagKey
	}
}

// Size returns the payload size in bytes.
func (p *Packet) Size() int { return int(*(*int32)(p.field(lay().packetSize))) }

// Data returns the payload without copying. The slice aliases FFmpeg memory
// and is invalid once the packet is freed or unreferenced. It is nil when
// the packet carries no payload.
func (p *Packet) Data() []byte {
	l := lay()
	data := *(**byte)(p.field(l.packetData))
	size := *(*int32)(p.field(l.packetSize))
	if data == nil || size <= 0 {
		return nil
	}
	return unsafe.Slice(data, size)
}
