package colormath

import "math"

// Waveforms for pattern generation. All have period 1 and range [0,1].
// Ground: original_source/ledcontrol/driver/animation_utils.h wave_*.

// Pulse returns a square wave with the given duty cycle.
func Pulse(t, duty float64) float64 {
	return math.Ceil(duty - frac(t))
}

// Triangle returns a triangle wave.
func Triangle(t float64) float64 {
	ramp := math.Mod(2.0*t, 2.0)
	if ramp < 0 {
		ramp += 2.0
	}
	return math.Abs(ramp - 1.0)
}

// Sine returns a cosine-based sine wave normalized to [0,1].
func Sine(t float64) float64 {
	return math.Cos(2*math.Pi*t)/2.0 + 0.5
}

// Cubic returns a triangle wave with cubic ease-in/ease-out applied.
func Cubic(t float64) float64 {
	tri := Triangle(t)
	if tri > 0.5 {
		t2 := 1.0 - tri
		return 1.0 - 4.0*t2*t2*t2
	}
	return 4.0 * tri * tri * tri
}

func frac(x float64) float64 {
	return x - math.Floor(x)
}
