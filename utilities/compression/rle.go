package compression

import (
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/bitstream"
)

// Name is the codec name used in configuration and manifests.
const Name = "rle"

// MaxRunLength is the longest run a single length code can hold.
const MaxRunLength = 0xFFFF

type sizeClass struct {
	// limit is one past the largest length this class can hold.
	limit int
	bits  uint
}

var sizeClasses = [4]sizeClass{
	{limit: 0x3, bits: 2},
	{limit: 0xF, bits: 4},
	{limit: 0xFF, bits: 8},
	{limit: MaxRunLength + 1, bits: 16},
}

// RunLengthBits returns how many bits [WriteRunLength] uses for `length`,
// including the 2-bit class prefix.
func RunLengthBits(length int) int {
	for _, class := range sizeClasses {
		if length < class.limit {
			return 2 + int(class.bits)
		}
	}
	return -1
}

// WriteRunLength writes a single run length code. Lengths outside
// [0, MaxRunLength] are rejected.
func WriteRunLength(sink bitstream.Sink, length int) error {
	if length < 0 {
		return framepack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("run length can't be negative: %d", length))
	}
	for i, class := range sizeClasses {
		if length < class.limit {
			sink.AppendBits(uint64(i), 2)
			sink.AppendBits(uint64(length), class.bits)
			return nil
		}
	}
	return framepack.ErrInvalidArgument.WithMessage(
		fmt.Sprintf("run length %d exceeds maximum of %d", length, MaxRunLength))
}

// RunLengthCodec encodes frames as alternating black/white run lengths.
type RunLengthCodec struct{}

func NewRunLengthCodec() *RunLengthCodec {
	return &RunLengthCodec{}
}

func (codec *RunLengthCodec) Name() string {
	return Name
}

// EncodeFrame writes the runs of one frame to `sink`.
func (codec *RunLengthCodec) EncodeFrame(frame *framepack.Frame, sink bitstream.Sink) error {
	grouper := NewRunLengthGrouper(frame)
	expectWhite := false

	for {
		run, err := grouper.GetNextRun()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		if run.White != expectWhite {
			// Only possible for the very first run; everywhere else the grouper
			// already alternates.
			if err := WriteRunLength(sink, 0); err != nil {
				return err
			}
			expectWhite = !expectWhite
		}

		for run.RunLength > MaxRunLength {
			if err := WriteRunLength(sink, MaxRunLength); err != nil {
				return err
			}
			if err := WriteRunLength(sink, 0); err != nil {
				return err
			}
			run.RunLength -= MaxRunLength
		}

		if err := WriteRunLength(sink, run.RunLength); err != nil {
			return err
		}
		expectWhite = !expectWhite
	}
}
