package compression

import (
	"io"

	"github.com/dargueta/framepack"
)

// BitRun represents a single run of pixels of the same color.
type BitRun struct {
	// White is true for a run of white pixels.
	White bool
	// RunLength gives the number of pixels in the run.
	//
	// A run returned by [RunLengthGrouper.GetNextRun] always has this be 1 or
	// greater. A value less than 1 indicates the end of the frame.
	RunLength int
}

// InvalidRLERun is returned by [RunLengthGrouper.GetNextRun] once the frame is
// exhausted.
var InvalidRLERun = BitRun{White: false, RunLength: 0}

// IsWhite classifies a sample.
func IsWhite(sample float64) bool {
	return sample >= 0.5
}

// RunLengthGrouper scans a frame in row-major order and returns maximal runs of
// same-colored pixels.
type RunLengthGrouper struct {
	samples  []float64
	position int
}

func NewRunLengthGrouper(frame *framepack.Frame) *RunLengthGrouper {
	return &RunLengthGrouper{samples: frame.Samples}
}

// GetNextRun returns a [BitRun] for the next run of pixels in the frame, or
// [InvalidRLERun] and [io.EOF] at the end.
func (grouper *RunLengthGrouper) GetNextRun() (BitRun, error) {
	if grouper.position >= len(grouper.samples) {
		return InvalidRLERun, io.EOF
	}

	white := IsWhite(grouper.samples[grouper.position])
	runLength := 1
	for grouper.position+runLength < len(grouper.samples) &&
		IsWhite(grouper.samples[grouper.position+runLength]) == white {
		runLength++
	}

	grouper.position += runLength
	return BitRun{White: white, RunLength: runLength}, nil
}
