// Package bitstream packs an ordered sequence of single bits into bytes.
//
// Bits are packed most-significant-bit first: the first bit appended lands in
// bit 7 of byte 0, the ninth bit in bit 7 of byte 1, and so on. If the total
// number of bits isn't a multiple of eight, the unused low-order bits of the
// last byte are zero. A stream of n bits therefore always finalizes to exactly
// ceil(n/8) bytes, and the bytes depend only on the logical bit sequence, never
// on how the appends were grouped.
//
// For example, appending 1 0 1 1 0 0 0 0 1 produces
//
//	10110000 10000000
//	  0xB0     0x80
//
// A [Writer] also supports cheap snapshots: [Writer.Snapshot] records the
// current length and [Writer.Rollback] truncates back to it, so a caller can
// speculatively encode a frame and discard it if it doesn't fit.
package bitstream
