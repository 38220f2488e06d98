package quadtree

import (
	"math"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/bitstream"
)

// DefaultInitialThreshold is the split sensitivity used for the whole-frame
// region.
const DefaultInitialThreshold = 0.002

// Name is the codec name used in configuration and manifests.
const Name = "quadtree"

// NextThreshold moves a threshold halfway toward `target`. Applied repeatedly it
// converges geometrically without ever overshooting.
func NextThreshold(threshold, target float64) float64 {
	return (threshold + target) / 2
}

// ShouldSplit is the uniformity test: a region is split when its mean is
// closer to mid-gray than the threshold allows.
func ShouldSplit(mean, threshold float64) bool {
	return math.Abs(mean-0.5) < 0.5-threshold
}

// Stats counts what the splitter did while encoding one frame.
type Stats struct {
	Splits int
	Leaves int
	// ForcedLeaves is the number of leaves emitted only because the region hit
	// the size floor.
	ForcedLeaves int
	// MaxDepth is the deepest recursion level reached. The whole frame is 0.
	MaxDepth int
}

// Bits gives the number of bits the counted decisions occupy.
func (s Stats) Bits() int {
	return s.Splits + 2*s.Leaves
}

// Splitter encodes frames as a depth-first sequence of split/leaf decisions.
//
// Each region evaluates to either a split, written as a single 1 bit and
// followed by the encodings of its four quadrants, or a leaf, written as a 0 bit
// followed by the region's dominant color (1 if the mean is at least 0.5).
type Splitter struct {
	// Target is the platform's split_threshold_target.
	Target float64
	// InitialThreshold is the threshold for the whole-frame region.
	InitialThreshold float64

	stats Stats
}

// NewSplitter returns a splitter converging toward `target`, starting at
// [DefaultInitialThreshold].
func NewSplitter(target float64) *Splitter {
	return &Splitter{
		Target:           target,
		InitialThreshold: DefaultInitialThreshold,
	}
}

func (s *Splitter) Name() string {
	return Name
}

// EncodeFrame writes the whole frame to `sink`.
func (s *Splitter) EncodeFrame(frame *framepack.Frame, sink bitstream.Sink) error {
	if frame.Width <= 0 || frame.Height <= 0 {
		return framepack.ErrMalformedFrame.WithMessage("frame has no pixels")
	}
	s.stats = Stats{}
	s.split(frame, FrameRegion(frame), s.InitialThreshold, sink, 0)
	return nil
}

// Split encodes one region and everything below it. Stats accumulate across
// calls until the next [Splitter.EncodeFrame].
func (s *Splitter) Split(frame *framepack.Frame, region Region, threshold float64, sink bitstream.Sink) {
	s.split(frame, region, threshold, sink, 0)
}

func (s *Splitter) split(
	frame *framepack.Frame, region Region, threshold float64, sink bitstream.Sink, depth int,
) {
	if depth > s.stats.MaxDepth {
		s.stats.MaxDepth = depth
	}

	mean := Mean(frame, region)
	if region.IsBelowSizeFloor() {
		s.stats.ForcedLeaves++
		s.leaf(mean, sink)
		return
	}
	if !ShouldSplit(mean, threshold) {
		s.leaf(mean, sink)
		return
	}

	s.stats.Splits++
	sink.Append(true)
	next := NextThreshold(threshold, s.Target)
	for _, quadrant := range region.Quadrants() {
		s.split(frame, quadrant, next, sink, depth+1)
	}
}

func (s *Splitter) leaf(mean float64, sink bitstream.Sink) {
	s.stats.Leaves++
	sink.Append(false)
	sink.Append(mean >= 0.5)
}

// LastStats returns the counters for the most recent frame.
func (s *Splitter) LastStats() Stats {
	return s.stats
}
