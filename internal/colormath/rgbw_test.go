package colormath_test

import (
	"testing"

	"github.com/coreman2200/ledcore/internal/colormath"
	"github.com/stretchr/testify/assert"
)

// Advanced RGBW emits w = 0 exactly when min(r,g,b) = 0, at full saturation.
func TestMixRGBWAdvancedZeroWhiteAtZeroMin(t *testing.T) {
	cases := []colormath.RGB{
		{R: 1, G: 0, B: 0.5},
		{R: 0, G: 1, B: 1},
		{R: 0.3, G: 0.9, B: 0},
	}
	for _, c := range cases {
		got := colormath.MixRGBWAdvanced(c, 1.0, 6500, 5000)
		assert.InDelta(t, 0.0, got.W, 1e-9)
	}
}

func TestMixRGBWAdvancedWhitePeak(t *testing.T) {
	white := colormath.ColorTempToRGB(5000)
	got := colormath.MixRGBWAdvanced(colormath.RGB{R: 1, G: 1, B: 1}, 1.0, 6500, 5000)

	wantW := 1.0
	if white.R > 0 {
		wantW = min3(wantW, 1.0/white.R)
	}
	if white.G > 0 {
		wantW = min3(wantW, 1.0/white.G)
	}
	if white.B > 0 {
		wantW = min3(wantW, 1.0/white.B)
	}
	assert.InDelta(t, wantW, got.W, 1e-6)
	assert.GreaterOrEqual(t, got.R, 0.0)
	assert.GreaterOrEqual(t, got.G, 0.0)
	assert.GreaterOrEqual(t, got.B, 0.0)

	legacy := colormath.MixRGBWLegacy(colormath.RGB{R: 1, G: 1, B: 1}, true)
	advancedSum := got.R + got.G + got.B + got.W
	legacySum := legacy.R + legacy.G + legacy.B + legacy.W
	assert.Greater(t, advancedSum, legacySum)
}

func TestMixRGBWLegacy(t *testing.T) {
	got := colormath.MixRGBWLegacy(colormath.RGB{R: 0.8, G: 0.5, B: 0.2}, true)
	assert.InDelta(t, 0.2, got.W, 1e-9)
	assert.InDelta(t, 0.6, got.R, 1e-9)
	assert.InDelta(t, 0.3, got.G, 1e-9)
	assert.InDelta(t, 0.0, got.B, 1e-9)

	disabled := colormath.MixRGBWLegacy(colormath.RGB{R: 0.8, G: 0.5, B: 0.2}, false)
	assert.InDelta(t, 0.0, disabled.W, 1e-9)
	assert.InDelta(t, 0.8, disabled.R, 1e-9)
}

func min3(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}
