package colormath

import "math"

// PlasmaSines sums four sines of (x, y, t) weighted by four frequency
// coefficients — the classic "plasma shader" primitive.
// Ground: original_source/ledcontrol/driver/animation_utils.h plasma_sines.
func PlasmaSines(x, y, t, coeffX, coeffY, coeffXY, coeffDistXY float64) float64 {
	v := 0.0
	v += math.Sin((x + t) * coeffX)
	v += math.Sin((y + t) * coeffY)
	v += math.Sin((x + y + t) * coeffXY)
	v += math.Sin((math.Sqrt(x*x+y*y) + t) * coeffDistXY)
	return v
}

// PlasmaOctave iterates a domain-warped sine pair across octaves with
// geometric frequency/amplitude falloff.
// Ground: original_source/ledcontrol/driver/animation_utils.h plasma_sines_octave.
func PlasmaOctave(x, y, t float64, octaves int, lacunarity, persistence float64) float64 {
	vx, vy := x, y
	freq, amp := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		vx1 := vx
		vx += math.Cos(vy*freq+t*freq) * amp
		vy += math.Sin(vx1*freq+t*freq) * amp
		freq *= lacunarity
		amp *= persistence
	}
	return vx / 2.0
}
