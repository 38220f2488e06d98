package bitstream

import (
	"bufio"
	"io"
)

// Reader reads bits back out of a packed stream, most significant bit first.
// It knows nothing about padding: callers must stop after the number of bits
// they know were written.
type Reader struct {
	source      io.ByteReader
	current     byte
	bitPosition uint
	bitsRead    int
}

// NewReader wraps `rd`. If it isn't already an [io.ByteReader] it's buffered.
func NewReader(rd io.Reader) *Reader {
	byteReader, ok := rd.(io.ByteReader)
	if !ok {
		byteReader = bufio.NewReader(rd)
	}
	return &Reader{source: byteReader, bitPosition: 8}
}

// ReadBit returns the next bit. It returns [io.EOF] at the end of the data.
func (r *Reader) ReadBit() (bool, error) {
	if r.bitPosition > 7 {
		b, err := r.source.ReadByte()
		if err != nil {
			return false, err
		}
		r.current = b
		r.bitPosition = 0
	}

	bit := (r.current>>(7-r.bitPosition))&0x01 != 0
	r.bitPosition++
	r.bitsRead++
	return bit, nil
}

// ReadBits reads `count` bits and returns them as an integer, first bit most
// significant.
func (r *Reader) ReadBits(count uint) (uint64, error) {
	var result uint64
	for i := uint(0); i < count; i++ {
		bit, err := r.ReadBit()
		if err != nil {
			if err == io.EOF && i > 0 {
				err = io.ErrUnexpectedEOF
			}
			return result, err
		}
		result <<= 1
		if bit {
			result |= 1
		}
	}
	return result, nil
}

// BitsRead returns the number of bits consumed so far.
func (r *Reader) BitsRead() int {
	return r.bitsRead
}
