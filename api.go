package framepack

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
)

// Frame is a single animation frame: a grid of intensity samples normalized to
// the closed interval [0, 1], stored row-major. Frames are never modified once
// loaded.
type Frame struct {
	// Index is the position of the frame in the animation.
	Index  int
	Width  int
	Height int
	// Samples holds Width*Height intensities, row-major. 0 is black, 1 is white.
	Samples []float64
}

// NewFrame allocates an all-black frame of the given size.
func NewFrame(index, width, height int) *Frame {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Frame{
		Index:   index,
		Width:   width,
		Height:  height,
		Samples: make([]float64, width*height),
	}
}

// At returns the sample at column x, row y.
func (f *Frame) At(x, y int) float64 {
	return f.Samples[y*f.Width+x]
}

// Set is only meant for loaders building a frame before handing it off.
func (f *Frame) Set(x, y int, value float64) {
	f.Samples[y*f.Width+x] = value
}

// Validate checks that the frame has positive dimensions, the right number of
// samples, and that every sample is in [0, 1].
func (f *Frame) Validate() error {
	if f == nil {
		return ErrMalformedFrame.WithMessage("frame is nil")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return ErrMalformedFrame.WithMessage(
			fmt.Sprintf("frame %d has invalid dimensions %dx%d", f.Index, f.Width, f.Height))
	}
	if len(f.Samples) != f.Width*f.Height {
		return ErrMalformedFrame.WithMessage(
			fmt.Sprintf(
				"frame %d: expected %d samples for %dx%d, got %d",
				f.Index,
				f.Width*f.Height,
				f.Width,
				f.Height,
				len(f.Samples)))
	}
	for i, s := range f.Samples {
		if math.IsNaN(s) || s < 0 || s > 1 {
			return ErrMalformedFrame.WithMessage(
				fmt.Sprintf(
					"frame %d: sample at (%d, %d) is %v, not in [0, 1]",
					f.Index,
					i%f.Width,
					i/f.Width,
					s))
		}
	}
	return nil
}

// ValidateFrames checks an entire animation before any encoding starts. An
// empty sequence fails with [ErrNoFrames]; otherwise every malformed frame is
// reported, not just the first one.
func ValidateFrames(frames []*Frame) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}

	var result *multierror.Error
	for _, frame := range frames {
		if err := frame.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// PlatformProfile bundles the limits of one class of target display. Profiles
// are selected once per run and never modified.
type PlatformProfile struct {
	Name string
	// MaxFileSizeBytes is the hard ceiling on the size of the encoded resource.
	MaxFileSizeBytes int
	// SplitThresholdTarget is the value the quadtree split threshold converges
	// toward as recursion gets deeper. Must be in [0, 0.5).
	SplitThresholdTarget float64
	// FrameWidth and FrameHeight give the display geometry frames are scaled to
	// when loading. Zero means "leave frames at their native size".
	FrameWidth  int
	FrameHeight int
}

// Validate returns [ErrInvalidProfile] if the profile can't be used for encoding.
func (p PlatformProfile) Validate() error {
	if p.MaxFileSizeBytes <= 0 {
		return ErrInvalidProfile.WithMessage(
			fmt.Sprintf("profile %q: max file size must be positive, got %d", p.Name, p.MaxFileSizeBytes))
	}
	if math.IsNaN(p.SplitThresholdTarget) || p.SplitThresholdTarget < 0 || p.SplitThresholdTarget >= 0.5 {
		return ErrInvalidProfile.WithMessage(
			fmt.Sprintf(
				"profile %q: split threshold target must be in [0, 0.5), got %v",
				p.Name,
				p.SplitThresholdTarget))
	}
	if p.FrameWidth < 0 || p.FrameHeight < 0 {
		return ErrInvalidProfile.WithMessage(
			fmt.Sprintf("profile %q: negative frame geometry %dx%d", p.Name, p.FrameWidth, p.FrameHeight))
	}
	return nil
}
