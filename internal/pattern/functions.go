package pattern

import "github.com/coreman2200/ledcore/internal/colormath"

// builtin is a fixed-arity or variadic scalar function over pre-evaluated
// arguments. The vocabulary matches spec §9's "fixed vocabulary
// (waveforms, noise, palette, coordinates, time, previous color)".
type builtin func(args []float64) float64

var builtinArity = map[string]int{
	"sin":      1,
	"pulse":    2,
	"triangle": 1,
	"cubic":    1,
	"plasma":   7,
	"octave":   6,
	"noise3":   3,
	"fbm3":     6,
	"mix":      3,
	"clamp":    3,
	"abs":      1,
	"min":      2,
	"max":      2,
	"floor":    1,
	"frac":     1,
}

func lookupBuiltin(name string) (builtin, int, bool) {
	arity, ok := builtinArity[name]
	if !ok {
		return nil, 0, false
	}
	switch name {
	case "sin":
		return func(a []float64) float64 { return colormath.Sine(a[0]) }, arity, true
	case "pulse":
		return func(a []float64) float64 { return colormath.Pulse(a[0], a[1]) }, arity, true
	case "triangle":
		return func(a []float64) float64 { return colormath.Triangle(a[0]) }, arity, true
	case "cubic":
		return func(a []float64) float64 { return colormath.Cubic(a[0]) }, arity, true
	case "plasma":
		return func(a []float64) float64 {
			return colormath.PlasmaSines(a[0], a[1], a[2], a[3], a[4], a[5], a[6])
		}, arity, true
	case "octave":
		return func(a []float64) float64 {
			return colormath.PlasmaOctave(a[0], a[1], a[2], int(a[3]), a[4], a[5])
		}, arity, true
	case "noise3":
		return func(a []float64) float64 { return colormath.Perlin3D(a[0], a[1], a[2]) }, arity, true
	case "fbm3":
		return func(a []float64) float64 {
			return colormath.FBM3D(a[0], a[1], a[2], int(a[3]), a[4], a[5])
		}, arity, true
	case "mix":
		return func(a []float64) float64 { return a[0] + (a[1]-a[0])*clampf(a[2], 0, 1) }, arity, true
	case "clamp":
		return func(a []float64) float64 { return clampf(a[0], a[1], a[2]) }, arity, true
	case "abs":
		return func(a []float64) float64 {
			if a[0] < 0 {
				return -a[0]
			}
			return a[0]
		}, arity, true
	case "min":
		return func(a []float64) float64 {
			if a[0] < a[1] {
				return a[0]
			}
			return a[1]
		}, arity, true
	case "max":
		return func(a []float64) float64 {
			if a[0] > a[1] {
				return a[0]
			}
			return a[1]
		}, arity, true
	case "floor":
		return func(a []float64) float64 {
			i := int64(a[0])
			if a[0] < 0 && float64(i) != a[0] {
				i--
			}
			return float64(i)
		}, arity, true
	case "frac":
		return func(a []float64) float64 {
			i := int64(a[0])
			if a[0] < 0 && float64(i) != a[0] {
				i--
			}
			return a[0] - float64(i)
		}, arity, true
	}
	return nil, 0, false
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
