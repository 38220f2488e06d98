package testing

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/bitstream"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// UnpackBits reads the first `totalBits` bits out of packed data, MSB first.
//
//   - Fails the test if `data` isn't exactly ceil(totalBits/8) bytes.
//   - Fails the test if any padding bit after `totalBits` is set.
func UnpackBits(t *testing.T, data []byte, totalBits int) []bool {
	require.Equal(
		t,
		bitstream.BytesForBits(totalBits),
		len(data),
		"packed data has the wrong length for %d bits",
		totalBits,
	)

	reader := bitstream.NewReader(bytesextra.NewReadWriteSeeker(data))
	bits := make([]bool, 0, totalBits)
	for i := 0; i < totalBits; i++ {
		bit, err := reader.ReadBit()
		require.NoError(t, err, "failed to read bit %d of %d", i, totalBits)
		bits = append(bits, bit)
	}

	for i := totalBits; i < len(data)*8; i++ {
		bit, err := reader.ReadBit()
		require.NoError(t, err)
		require.False(t, bit, "padding bit %d is set", i)
	}
	return bits
}

// ParseBits converts a string of '0' and '1' into bits. Any other characters
// (spaces, underscores) are ignored so test vectors can be grouped.
func ParseBits(s string) []bool {
	bits := make([]bool, 0, len(s))
	for _, c := range s {
		switch c {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		}
	}
	return bits
}

// FormatBits is the inverse of [ParseBits], without grouping.
func FormatBits(bits []bool) string {
	var builder strings.Builder
	for _, bit := range bits {
		if bit {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	return builder.String()
}

// SolidFrame returns a frame where every sample is `value`.
func SolidFrame(index, width, height int, value float64) *framepack.Frame {
	frame := framepack.NewFrame(index, width, height)
	for i := range frame.Samples {
		frame.Samples[i] = value
	}
	return frame
}

// CheckerFrame returns a black-and-white checkerboard with square cells of
// `cellSize` pixels. The top left cell is white.
func CheckerFrame(index, width, height, cellSize int) *framepack.Frame {
	frame := framepack.NewFrame(index, width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/cellSize)+(y/cellSize))%2 == 0 {
				frame.Set(x, y, 1)
			}
		}
	}
	return frame
}

// NoiseFrame returns a frame of random black and white pixels. The same seed
// always gives the same frame.
func NoiseFrame(index, width, height int, seed int64) *framepack.Frame {
	rng := rand.New(rand.NewSource(seed))
	frame := framepack.NewFrame(index, width, height)
	for i := range frame.Samples {
		if rng.Intn(2) == 1 {
			frame.Samples[i] = 1
		}
	}
	return frame
}
