package encoder

import (
	"fmt"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/bitstream"
	"github.com/dargueta/framepack/quadtree"
	"github.com/rs/zerolog"
)

// Encoder is the budget guard. Frames are fed in order with [Encoder.Push] and
// the output is collected with [Encoder.Finish]. Only one frame needs to be
// in memory at a time.
type Encoder struct {
	profile  framepack.PlatformProfile
	codec    FrameCodec
	writer   *bitstream.Writer
	logger   zerolog.Logger
	observer func(FrameStat)

	stopped   bool
	finished  bool
	committed int
	pushed    int
	frames    []FrameStat
}

// New creates an encoder for `profile`. Unless overridden with [WithCodec],
// frames are encoded with a [quadtree.Splitter] converging on the profile's
// split threshold target.
func New(profile framepack.PlatformProfile, opts ...Option) (*Encoder, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	o := options{
		codec:  quadtree.NewSplitter(profile.SplitThresholdTarget),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.codec == nil {
		return nil, framepack.ErrInvalidArgument.WithMessage("codec is nil")
	}

	return &Encoder{
		profile:  profile,
		codec:    o.codec,
		writer:   bitstream.NewWriter(profile.MaxFileSizeBytes * 8),
		logger:   o.logger.With().Str("codec", o.codec.Name()).Str("profile", profile.Name).Logger(),
		observer: o.observer,
	}, nil
}

// Stopped reports whether the budget has been hit. Callers loading frames
// lazily can stop loading once this is true.
func (e *Encoder) Stopped() bool {
	return e.stopped
}

// Push runs one frame through the guard. Malformed frames are a fatal error
// and leave the stream untouched. A frame that doesn't fit is not an error: it
// comes back with [StateOverflowed] and every frame after it with
// [StateStopped].
func (e *Encoder) Push(frame *framepack.Frame) (FrameStat, error) {
	if e.finished {
		return FrameStat{}, framepack.ErrSealed
	}
	if err := frame.Validate(); err != nil {
		return FrameStat{}, err
	}

	e.pushed++
	stat := FrameStat{Index: frame.Index, State: StatePending}

	if e.stopped {
		stat.State = StateStopped
		stat.CumulativeBits = e.writer.Len()
		stat.ProjectedBytes = e.writer.ProjectedBytes()
		e.record(stat)
		return stat, nil
	}

	marker := e.writer.Snapshot()
	if err := e.codec.EncodeFrame(frame, e.writer); err != nil {
		if rbErr := e.writer.Rollback(marker); rbErr != nil {
			return stat, rbErr
		}
		return stat, fmt.Errorf("encoding frame %d: %w", frame.Index, err)
	}

	stat.CumulativeBits = e.writer.Len()
	stat.Bits = stat.CumulativeBits - int(marker)
	stat.ProjectedBytes = e.writer.ProjectedBytes()

	if stat.ProjectedBytes > e.profile.MaxFileSizeBytes {
		if err := e.writer.Rollback(marker); err != nil {
			return stat, err
		}
		stat.State = StateOverflowed
		e.stopped = true
		e.logger.Warn().
			Int("frame", frame.Index).
			Int("projected_bytes", stat.ProjectedBytes).
			Int("max_bytes", e.profile.MaxFileSizeBytes).
			Int("frames_committed", e.committed).
			Msg("frame exceeds size budget, truncating animation")
	} else {
		stat.State = StateCommitted
		e.committed++
		e.logger.Debug().
			Int("frame", frame.Index).
			Int("bits", stat.Bits).
			Int("projected_bytes", stat.ProjectedBytes).
			Msg("frame committed")
	}

	e.record(stat)
	return stat, nil
}

func (e *Encoder) record(stat FrameStat) {
	e.frames = append(e.frames, stat)
	if e.observer != nil {
		e.observer(stat)
	}
}

// Finish finalizes the stream. It fails with [framepack.ErrNoFrames] if no
// frames were pushed. If not even the first frame fit, the result is valid but
// empty; a warning is logged and FramesCommitted is 0.
func (e *Encoder) Finish() (Result, error) {
	if e.finished {
		return Result{}, framepack.ErrSealed
	}
	if e.pushed == 0 {
		return Result{}, framepack.ErrNoFrames
	}

	e.finished = true
	e.stopped = true
	totalBits := e.writer.Len()
	result := Result{
		Data:            e.writer.Finalize(),
		TotalBits:       totalBits,
		FramesCommitted: e.committed,
		FramesTotal:     e.pushed,
		Truncated:       e.committed < e.pushed,
		Frames:          e.frames,
		Profile:         e.profile,
		Codec:           e.codec.Name(),
	}

	if result.FramesCommitted == 0 {
		e.logger.Warn().
			Int("max_bytes", e.profile.MaxFileSizeBytes).
			Msg("first frame alone exceeds the size budget, output is empty")
	}
	e.logger.Info().
		Int("frames_committed", result.FramesCommitted).
		Int("frames_total", result.FramesTotal).
		Int("bits", result.TotalBits).
		Int("bytes", len(result.Data)).
		Bool("truncated", result.Truncated).
		Msg("encoding finished")
	return result, nil
}

// Encode validates every frame up front, then encodes as many leading frames
// as fit in the profile's budget.
func Encode(frames []*framepack.Frame, profile framepack.PlatformProfile, opts ...Option) (Result, error) {
	if err := framepack.ValidateFrames(frames); err != nil {
		return Result{}, err
	}

	enc, err := New(profile, opts...)
	if err != nil {
		return Result{}, err
	}
	for _, frame := range frames {
		if _, err := enc.Push(frame); err != nil {
			return Result{}, err
		}
	}
	return enc.Finish()
}
