// Package encoder runs a frame codec over an animation while keeping the output
// under a platform's size budget.
//
// Every frame is encoded speculatively into one shared bit stream. Before a
// frame is encoded the guard takes a snapshot of the stream's length; after,
// it projects the finalized size. If the projection exceeds the budget the
// frame is rolled back, and it and every frame after it are dropped. The output
// is therefore always the longest leading run of frames that fits. Frames are
// never dropped from the middle or reordered.
//
// Each frame moves through these states:
//
//	Pending -> Committed -> (next frame) Pending ...
//	Pending -> Overflowed -> Stopped
//
// Once stopped, frames are still accepted but not encoded.
package encoder
