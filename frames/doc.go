// Package frames loads animation frames from image files and turns them into
// normalized [framepack.Frame]s.
//
// An input is a directory (every .png, .gif, .jpg and .jpeg file in it, sorted
// by name), a glob pattern, or a single file. Animated GIFs contribute every
// one of their frames, composited the way a browser would show them.
//
// Each decoded image goes through the same pipeline:
//
//  1. Convert to grayscale.
//  2. Scale to the requested size, if any.
//  3. Normalize to [0, 1].
//  4. Binarize: samples above the cutoff become 1, everything else 0.
//  5. Delta: XOR with the previous binarized frame. The frame before the first
//     one is taken to be all black, so the first delta frame is the frame itself.
//  6. Invert.
//
// Steps 4 through 6 only run if selected with [framepack.PreprocessFlags].
package frames
