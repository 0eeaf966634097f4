package colormath_test

import (
	"testing"

	"github.com/coreman2200/ledcore/internal/colormath"
	"github.com/stretchr/testify/assert"
)

var hsvToRGBCases = []struct {
	Name string
	In   colormath.HSV
	Want colormath.RGB
}{
	{"red", colormath.HSV{H: 0, S: 1, V: 1}, colormath.RGB{R: 1, G: 0, B: 0}},
	{"green", colormath.HSV{H: 1.0 / 3.0, S: 1, V: 1}, colormath.RGB{R: 0, G: 1, B: 0}},
	{"blue", colormath.HSV{H: 2.0 / 3.0, S: 1, V: 1}, colormath.RGB{R: 0, G: 0, B: 1}},
	{"white", colormath.HSV{H: 0, S: 0, V: 1}, colormath.RGB{R: 1, G: 1, B: 1}},
	{"black", colormath.HSV{H: 0.5, S: 1, V: 0}, colormath.RGB{R: 0, G: 0, B: 0}},
}

func TestHSVToRGB(t *testing.T) {
	for _, c := range hsvToRGBCases {
		t.Run(c.Name, func(t *testing.T) {
			got := colormath.HSVToRGB(c.In)
			assert.InDelta(t, c.Want.R, got.R, 1e-9)
			assert.InDelta(t, c.Want.G, got.G, 1e-9)
			assert.InDelta(t, c.Want.B, got.B, 1e-9)
		})
	}
}

func TestRGBToHSVRoundTrip(t *testing.T) {
	for h := 0.0; h < 1.0; h += 0.05 {
		in := colormath.HSV{H: h, S: 0.8, V: 0.6}
		rgb := colormath.HSVToRGB(in)
		got := colormath.RGBToHSV(rgb)
		assert.InDelta(t, in.H, got.H, 1e-6)
		assert.InDelta(t, in.S, got.S, 1e-6)
		assert.InDelta(t, in.V, got.V, 1e-6)
	}
}

func TestHueShortestArc(t *testing.T) {
	// 0.9 -> 0.05 should go forward through 1.0 (short way), not backward.
	got := colormath.HueShortestArc(0.9, 0.05)
	assert.InDelta(t, 1.05, got, 1e-9)

	got = colormath.HueShortestArc(0.05, 0.9)
	assert.InDelta(t, -0.1, got, 1e-9)
}
