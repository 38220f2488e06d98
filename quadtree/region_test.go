package quadtree_test

import (
	"image"
	"testing"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/quadtree"
	fptesting "github.com/dargueta/framepack/testing"
	"github.com/stretchr/testify/assert"
)

func TestQuadrants__Order(t *testing.T) {
	q := quadtree.Region{X: 10, Y: 20, W: 7, H: 5}.Quadrants()

	assert.Equal(t, quadtree.Region{X: 10, Y: 20, W: 3.5, H: 2.5}, q[0], "top left")
	assert.Equal(t, quadtree.Region{X: 13.5, Y: 20, W: 3.5, H: 2.5}, q[1], "top right")
	assert.Equal(t, quadtree.Region{X: 10, Y: 22.5, W: 3.5, H: 2.5}, q[2], "bottom left")
	assert.Equal(t, quadtree.Region{X: 13.5, Y: 22.5, W: 3.5, H: 2.5}, q[3], "bottom right")
}

func TestPixelBounds__FloorStartFloorExtent(t *testing.T) {
	limit := image.Rect(0, 0, 100, 100)

	assert.Equal(t, image.Rect(13, 22, 16, 24), quadtree.Region{X: 13.5, Y: 22.5, W: 3.5, H: 2.5}.PixelBounds(limit))
	assert.Equal(t, image.Rect(0, 0, 7, 5), quadtree.Region{W: 7, H: 5}.PixelBounds(limit))
	assert.Equal(t, image.Rect(98, 98, 100, 100), quadtree.Region{X: 98, Y: 98, W: 8, H: 8}.PixelBounds(limit))
}

func TestPixelBounds__ChildrenStayInsideFrame(t *testing.T) {
	for _, size := range []image.Point{{37, 23}, {144, 108}, {5, 4}} {
		frameRect := image.Rect(0, 0, size.X, size.Y)
		// No clipping: every region must already fit.
		unclipped := image.Rect(-1000, -1000, 1000, 1000)

		var walk func(region quadtree.Region)
		walk = func(region quadtree.Region) {
			bounds := region.PixelBounds(unclipped)
			assert.True(t, bounds.In(frameRect), "%v not inside %v", bounds, frameRect)
			assert.False(t, bounds.Empty(), "region %+v covers no pixels", region)
			if region.IsBelowSizeFloor() {
				return
			}
			for _, child := range region.Quadrants() {
				walk(child)
			}
		}
		walk(quadtree.Region{W: float64(size.X), H: float64(size.Y)})
	}
}

func TestMean(t *testing.T) {
	frame := fptesting.CheckerFrame(0, 8, 8, 4)
	assert.Equal(t, 0.5, quadtree.Mean(frame, quadtree.FrameRegion(frame)))
	assert.Equal(t, 1.0, quadtree.Mean(frame, quadtree.Region{W: 4, H: 4}))
	assert.Equal(t, 0.0, quadtree.Mean(frame, quadtree.Region{X: 4, W: 4, H: 4}))
	assert.Equal(t, 0.0, quadtree.Mean(frame, quadtree.Region{X: 50, Y: 50, W: 4, H: 4}))

	gray := framepack.NewFrame(0, 2, 1)
	gray.Samples = []float64{0.25, 0.75}
	assert.Equal(t, 0.5, quadtree.Mean(gray, quadtree.FrameRegion(gray)))
}

func TestNextThreshold__Converges(t *testing.T) {
	for _, target := range []float64{0.12, 0.015} {
		threshold := quadtree.DefaultInitialThreshold
		previousGap := target - threshold
		for i := 0; i < 30; i++ {
			threshold = quadtree.NextThreshold(threshold, target)
			gap := target - threshold
			assert.Greater(t, gap, 0.0, "step %d reached the target", i)
			assert.Less(t, gap, previousGap, "step %d did not move toward the target", i)
			previousGap = gap
		}
	}
}

func TestShouldSplit(t *testing.T) {
	assert.False(t, quadtree.ShouldSplit(0.0, 0.002), "0.5 < 0.498 is false")
	assert.True(t, quadtree.ShouldSplit(0.5, 0.002))
	assert.False(t, quadtree.ShouldSplit(1.0, 0.002))
	assert.False(t, quadtree.ShouldSplit(0.5, 0.5))
}
