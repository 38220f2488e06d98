// Package compression provides the run-length frame codec, a simpler
// alternative to the quadtree codec with the same output contract.
//
// Each pixel of a frame is classified as black (sample below 0.5) or white, and
// the frame is scanned row by row into alternating runs. Runs always alternate
// starting with black, so a frame whose first pixel is white begins with a
// zero-length black run. Every frame starts over with black; nothing carries
// from one frame to the next.
//
// Each run length is written as a 2-bit size class followed by the length in
// the number of bits that class allows:
//
//	class  length range    bits
//	00     0 - 2           2
//	01     3 - 14          4
//	10     15 - 254        8
//	11     255 - 65535     16
//
// A run longer than 65535 pixels is written as 65535, then a zero-length run of
// the other color, then whatever is left. For example, a 4x2 frame with pixels
//
//	W W B B
//	B B B W
//
// becomes the runs 0 (black), 2 (white), 5 (black), 1 (white):
//
//	00 00  00 10  01 0101  00 01
//
// This pairs well with delta preprocessing, where a mostly-unchanged frame is
// one long black run.
package compression
