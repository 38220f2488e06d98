package bitstream

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/framepack"
)

// minGrowBits is the smallest capacity, in bits, a writer grows to.
const minGrowBits = 1024

// Sink is anything a frame codec can append bits to.
type Sink interface {
	// Append adds a single bit to the end of the stream.
	Append(bit bool)
	// AppendBits adds the low `count` bits of `value`, most significant first.
	AppendBits(value uint64, count uint)
}

// Marker is a position in a [Writer], returned by [Writer.Snapshot].
type Marker int

// Writer is an append-only bit sequence with snapshot/rollback support. The
// zero value is ready to use.
type Writer struct {
	bits   bitmap.Bitmap
	length int
	sealed bool
	output []byte
}

var _ Sink = &Writer{}

// NewWriter creates a writer with room for `capacityBits` bits before it needs
// to grow. The capacity is only a hint.
func NewWriter(capacityBits int) *Writer {
	if capacityBits < 0 {
		capacityBits = 0
	}
	return &Writer{bits: bitmap.New(capacityBits)}
}

func (w *Writer) capacity() int {
	return len(w.bits) * 8
}

func (w *Writer) grow() {
	newCapacity := w.capacity() * 2
	if newCapacity < minGrowBits {
		newCapacity = minGrowBits
	}
	grown := bitmap.New(newCapacity)
	copy(grown, w.bits)
	w.bits = grown
}

// Append adds one bit to the end of the stream. It panics if the writer has
// already been finalized.
func (w *Writer) Append(bit bool) {
	if w.sealed {
		panic("bitstream: Append called after Finalize")
	}
	if w.length >= w.capacity() {
		w.grow()
	}
	// Bits past `length` may hold stale values from a rolled-back frame, so
	// always set explicitly instead of only setting ones.
	w.bits.Set(w.length, bit)
	w.length++
}

func (w *Writer) AppendBits(value uint64, count uint) {
	for i := uint(1); i <= count; i++ {
		w.Append((value>>(count-i))&0x01 != 0)
	}
}

// Len returns the number of bits in the stream.
func (w *Writer) Len() int {
	return w.length
}

// ProjectedBytes gives the number of bytes [Writer.Finalize] would return if it
// were called now.
func (w *Writer) ProjectedBytes() int {
	return BytesForBits(w.length)
}

// Snapshot records the current length of the stream.
func (w *Writer) Snapshot() Marker {
	return Marker(w.length)
}

// Rollback truncates the stream back to a length previously returned by
// [Writer.Snapshot]. It fails if the writer has been finalized, or if the marker
// is beyond the current end of the stream.
func (w *Writer) Rollback(marker Marker) error {
	if w.sealed {
		return framepack.ErrSealed
	}
	if marker < 0 || int(marker) > w.length {
		return framepack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("rollback marker %d not in range [0, %d]", marker, w.length))
	}
	w.length = int(marker)
	return nil
}

// Finalize packs the stream into bytes and seals the writer. Calling it again
// returns the same slice.
func (w *Writer) Finalize() []byte {
	if w.sealed {
		return w.output
	}

	output := make([]byte, BytesForBits(w.length))
	for i := 0; i < w.length; i++ {
		if w.bits.Get(i) {
			output[i/8] |= 0x80 >> uint(i%8)
		}
	}

	w.output = output
	w.sealed = true
	return output
}

// BytesForBits returns ceil(n/8).
func BytesForBits(n int) int {
	return (n + 7) / 8
}
