package colormath

import "math"

// ColorTempToRGB converts a color temperature in Kelvin to a normalized
// RGB triple using the Tanner-Helland approximation, then rescales so the
// brightest channel is exactly 1.0.
// Ground: original_source/ledcontrol/driver/animation_utils.h color_temp_to_rgb_normalized.
func ColorTempToRGB(kelvin float64) RGB {
	temp := kelvin / 100.0

	var r float64
	if temp <= 66.0 {
		r = 1.0
	} else {
		rr := temp - 60.0
		rr = 329.698727446 * math.Pow(rr, -0.1332047592)
		r = clamp01(rr / 255.0)
	}

	var g float64
	switch {
	case temp <= 66.0 && temp > 0.0:
		gg := 99.4708025861*math.Log(temp) - 161.1195681661
		g = clamp01(gg / 255.0)
	case temp > 66.0:
		gg := temp - 60.0
		gg = 288.1221695283 * math.Pow(gg, -0.0755148492)
		g = clamp01(gg / 255.0)
	default:
		g = 0.0
	}

	var b float64
	switch {
	case temp >= 66.0:
		b = 1.0
	case temp <= 19.0:
		b = 0.0
	default:
		bb := temp - 10.0
		bb = 138.5177312231*math.Log(bb) - 305.0447927307
		b = clamp01(bb / 255.0)
	}

	maxChannel := math.Max(r, math.Max(g, b))
	if maxChannel > 0.0 {
		r /= maxChannel
		g /= maxChannel
		b /= maxChannel
	}
	return RGB{R: r, G: g, B: b}
}
