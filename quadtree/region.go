package quadtree

import (
	"image"
	"math"

	"github.com/dargueta/framepack"
)

// MinRegionSize is the size floor: a region narrower or shorter than this is
// always a leaf, no matter what it contains.
const MinRegionSize = 4

// Region is a rectangle over a frame's sample grid. Repeatedly halving odd
// dimensions makes the bounds fractional; [Region.PixelBounds] defines which
// pixels such a region covers.
type Region struct {
	X, Y float64
	W, H float64
}

// FrameRegion returns the region covering the whole of `frame`.
func FrameRegion(frame *framepack.Frame) Region {
	return Region{W: float64(frame.Width), H: float64(frame.Height)}
}

// IsBelowSizeFloor reports whether the region is too small to be split.
func (r Region) IsBelowSizeFloor() bool {
	return r.W < MinRegionSize || r.H < MinRegionSize
}

// Quadrants halves the region along both axes and returns the children in
// encoding order: top left, top right, bottom left, bottom right.
func (r Region) Quadrants() [4]Region {
	halfW := r.W / 2
	halfH := r.H / 2
	return [4]Region{
		{X: r.X, Y: r.Y, W: halfW, H: halfH},
		{X: r.X + halfW, Y: r.Y, W: halfW, H: halfH},
		{X: r.X, Y: r.Y + halfH, W: halfW, H: halfH},
		{X: r.X + halfW, Y: r.Y + halfH, W: halfW, H: halfH},
	}
}

// PixelBounds converts the region to integer pixel coordinates by flooring the
// origin and flooring the extent separately:
//
//	columns [floor(X), floor(X) + floor(W))
//	rows    [floor(Y), floor(Y) + floor(H))
//
// Since floor(a) + floor(b) <= floor(a + b), a region that lies inside the frame
// never covers pixels outside it. The result is clipped to `limit` anyway.
func (r Region) PixelBounds(limit image.Rectangle) image.Rectangle {
	x0 := int(math.Floor(r.X))
	y0 := int(math.Floor(r.Y))
	bounds := image.Rect(
		x0,
		y0,
		x0+int(math.Floor(r.W)),
		y0+int(math.Floor(r.H)),
	)
	return bounds.Intersect(limit)
}

// Mean returns the arithmetic mean of the samples covered by `region`. A region
// covering no pixels has a mean of 0.
func Mean(frame *framepack.Frame, region Region) float64 {
	bounds := region.PixelBounds(image.Rect(0, 0, frame.Width, frame.Height))
	if bounds.Empty() {
		return 0
	}

	sum := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := frame.Samples[y*frame.Width : (y+1)*frame.Width]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += row[x]
		}
	}
	return sum / float64(bounds.Dx()*bounds.Dy())
}
