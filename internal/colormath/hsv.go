// Package colormath implements the stateless color primitives of the
// render pipeline: HSV/RGB conversion, waveforms, plasma and noise
// generators, blackbody color temperature, RGB→RGBW extraction, and
// gamma/channel correction. Every function here is pure.
package colormath

import "math"

// RGB is a normalized linear color triple, channels in [0,1].
type RGB struct{ R, G, B float64 }

// HSV is hue/saturation/value, all normalized to [0,1]; hue wraps.
type HSV struct{ H, S, V float64 }

// HSVToRGB converts with the standard piecewise definition. Hue is
// reduced modulo 1 before conversion.
func HSVToRGB(c HSV) RGB {
	h := wrap01(c.H) * 6.0
	s := clamp01(c.S)
	v := clamp01(c.V)

	i := int(math.Floor(h))
	f := h - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch i % 6 {
	case 0:
		return RGB{v, t, p}
	case 1:
		return RGB{q, v, p}
	case 2:
		return RGB{p, v, t}
	case 3:
		return RGB{p, q, v}
	case 4:
		return RGB{t, p, v}
	default:
		return RGB{v, p, q}
	}
}

// RGBToHSV converts with the standard piecewise definition.
func RGBToHSV(c RGB) HSV {
	r, g, b := clamp01(c.R), clamp01(c.G), clamp01(c.B)
	maxV := math.Max(r, math.Max(g, b))
	minV := math.Min(r, math.Min(g, b))
	delta := maxV - minV

	v := maxV
	s := 0.0
	if maxV > 0 {
		s = delta / maxV
	}

	h := 0.0
	switch {
	case delta == 0:
		h = 0
	case maxV == r:
		h = math.Mod((g-b)/delta, 6)
	case maxV == g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h /= 6.0
	if h < 0 {
		h += 1
	}
	return HSV{H: h, S: s, V: v}
}

// wrap01 reduces x modulo 1 into [0,1).
func wrap01(x float64) float64 {
	x = math.Mod(x, 1.0)
	if x < 0 {
		x += 1.0
	}
	return x
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// HueShortestArc returns the shortest-arc interpolation factor's target
// hue: the value of hue a shifted toward hue b along whichever direction
// is shorter, so linear interpolation between a and (the result) never
// goes the long way around the circle.
func HueShortestArc(a, b float64) float64 {
	a, b = wrap01(a), wrap01(b)
	d := b - a
	switch {
	case d > 0.5:
		b -= 1
	case d < -0.5:
		b += 1
	}
	return b
}
