package colormath

import "math"

// RGBW is a normalized 4-channel color, channels in [0,1].
type RGBW struct{ R, G, B, W float64 }

// MixRGBWLegacy extracts white by desaturation: w is the shared minimum of
// r,g,b (scaled by k, which is 1 when the white channel is enabled and 0
// otherwise), and that amount is subtracted from each of r,g,b.
// Ground: spec RGB→RGBW legacy mode.
func MixRGBWLegacy(c RGB, useWhite bool) RGBW {
	r, g, b := clamp01(c.R), clamp01(c.G), clamp01(c.B)
	k := 0.0
	if useWhite {
		k = 1.0
	}
	w := math.Min(r, math.Min(g, b)) * k
	return RGBW{
		R: clamp01(r - w),
		G: clamp01(g - w),
		B: clamp01(b - w),
		W: w,
	}
}

// MixRGBWAdvanced extracts white according to the hardware white LED's
// spectral temperature rather than assuming a pure-white LED. It separates
// the input into a chroma component (scaled by satFactor) and a neutral
// component, maps the neutral component onto the target color temperature,
// then extracts as much of that neutral component as the white LED's own
// spectrum (white_temp) can represent, subtracting the residual from RGB.
//
// Degenerates to MixRGBWLegacy when satFactor is 1 and both the white
// LED's spectrum and the target temperature's color are exactly (1,1,1);
// any other target temperature tints the neutral component first.
// Ground: original_source/ledcontrol/driver/animation_utils.h mix_rgbw_advanced.
func MixRGBWAdvanced(c RGB, satFactor, targetTemp, whiteTemp float64) RGBW {
	r, g, b := clamp01(c.R), clamp01(c.G), clamp01(c.B)

	maxVal := math.Max(r, math.Max(g, b))
	if maxVal <= 0.0 {
		return RGBW{}
	}

	minVal := math.Min(r, math.Min(g, b))
	chroma := maxVal - minVal

	colorR := (r - minVal) * satFactor
	colorG := (g - minVal) * satFactor
	colorB := (b - minVal) * satFactor

	neutralStrength := minVal + (1.0-satFactor)*chroma

	targetNorm := ColorTempToRGB(targetTemp)
	desiredR := colorR + targetNorm.R*neutralStrength
	desiredG := colorG + targetNorm.G*neutralStrength
	desiredB := colorB + targetNorm.B*neutralStrength

	whiteNorm := ColorTempToRGB(whiteTemp)

	w := neutralStrength
	if whiteNorm.R > 0.0 {
		w = math.Min(w, desiredR/whiteNorm.R)
	}
	if whiteNorm.G > 0.0 {
		w = math.Min(w, desiredG/whiteNorm.G)
	}
	if whiteNorm.B > 0.0 {
		w = math.Min(w, desiredB/whiteNorm.B)
	}
	w = math.Max(0.0, math.Min(w, neutralStrength))

	return RGBW{
		R: math.Max(0.0, desiredR-w*whiteNorm.R),
		G: math.Max(0.0, desiredG-w*whiteNorm.G),
		B: math.Max(0.0, desiredB-w*whiteNorm.B),
		W: w,
	}
}
