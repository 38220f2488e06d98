package encoder

import (
	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/bitstream"
)

// FrameCodec writes one frame's worth of bits to a sink. Codecs must write the
// same bits for the same frame every time, and must not keep any reference to
// the sink after returning.
type FrameCodec interface {
	Name() string
	EncodeFrame(frame *framepack.Frame, sink bitstream.Sink) error
}

// FrameState is where a frame ended up in the budget guard's state machine.
type FrameState int

const (
	StatePending FrameState = iota
	StateCommitted
	StateOverflowed
	StateStopped
)

func (s FrameState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateOverflowed:
		return "overflowed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// FrameStat records what happened to one frame.
type FrameStat struct {
	Index int
	// Bits is the number of bits the frame needed. Zero for frames that were
	// never encoded because the guard had already stopped.
	Bits int
	// CumulativeBits is the length of the stream after this frame, before any
	// rollback.
	CumulativeBits int
	// ProjectedBytes is ceil(CumulativeBits / 8).
	ProjectedBytes int
	State          FrameState
}

// Result is a finished animation.
type Result struct {
	// Data is the packed bit stream. It has no header.
	Data []byte
	// TotalBits is the number of meaningful bits in Data; the rest is padding.
	TotalBits       int
	FramesCommitted int
	// FramesTotal is the number of frames handed to the encoder, including the
	// ones dropped by the budget guard.
	FramesTotal int
	// Truncated is true if at least one frame was dropped.
	Truncated bool
	Frames    []FrameStat
	Profile   framepack.PlatformProfile
	Codec     string
}
