package smoothing_test

import (
	"testing"

	"github.com/coreman2200/ledcore/internal/frame"
	"github.com/coreman2200/ledcore/internal/smoothing"
	"github.com/stretchr/testify/assert"
)

func TestTemporalNoneIsBitExact(t *testing.T) {
	f := smoothing.New(smoothing.Config{FrameMode: smoothing.FrameNone, SpatialMode: smoothing.SpatialNone}, 3)
	src := frame.New(3)
	src.Pixels[0] = frame.Pixel{R: 0.1, G: 0.2, B: 0.3, W: 0.4}
	src.Pixels[1] = frame.Pixel{R: 0.5, G: 0.6, B: 0.7, W: 0.8}

	dst := frame.New(3)
	f.Apply(dst, src)

	assert.Equal(t, src.Pixels, dst.Pixels)
}

func TestSpatialWindowOneIsBitExact(t *testing.T) {
	f := smoothing.New(smoothing.Config{FrameMode: smoothing.FrameNone, SpatialMode: smoothing.SpatialGaussian, SpatialWindow: 1}, 3)
	src := frame.New(3)
	src.Pixels[1] = frame.Pixel{R: 1, G: 1, B: 1, W: 1}

	dst := frame.New(3)
	f.Apply(dst, src)

	assert.Equal(t, src.Pixels, dst.Pixels)
}

// Spec scenario 4: gaussian window=3 on [(0),(255,0,0,0),(0)] produces a
// symmetric triple centered on pixel 1.
func TestGaussianWindow3Symmetric(t *testing.T) {
	f := smoothing.New(smoothing.Config{FrameMode: smoothing.FrameNone, SpatialMode: smoothing.SpatialGaussian, SpatialWindow: 3}, 3)
	src := frame.New(3)
	src.Pixels[1] = frame.Pixel{R: 1}

	dst := frame.New(3)
	f.Apply(dst, src)

	assert.InDelta(t, dst.Pixels[0].R, dst.Pixels[2].R, 1e-9)
	assert.Greater(t, dst.Pixels[1].R, dst.Pixels[0].R)
}

func TestFrameAverage(t *testing.T) {
	f := smoothing.New(smoothing.Config{FrameMode: smoothing.FrameAverage, FrameWindow: 2, SpatialMode: smoothing.SpatialNone}, 1)
	a := frame.New(1)
	a.Pixels[0] = frame.Pixel{R: 0.0}
	b := frame.New(1)
	b.Pixels[0] = frame.Pixel{R: 1.0}

	dst := frame.New(1)
	f.Apply(dst, a)
	assert.InDelta(t, 0.0, dst.Pixels[0].R, 1e-9)

	f.Apply(dst, b)
	assert.InDelta(t, 0.5, dst.Pixels[0].R, 1e-9)
}

func TestFrameLerp(t *testing.T) {
	f := smoothing.New(smoothing.Config{FrameMode: smoothing.FrameLerp, FrameWindow: 4, SpatialMode: smoothing.SpatialNone}, 1)
	one := frame.New(1)
	one.Pixels[0] = frame.Pixel{R: 1.0}

	dst := frame.New(1)
	for i := 0; i < 4; i++ {
		f.Apply(dst, one)
	}
	// after the ring fills with 1.0s, oldest=1.0 current=1.0 -> stays 1.0
	assert.InDelta(t, 1.0, dst.Pixels[0].R, 1e-9)
}
