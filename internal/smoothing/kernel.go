package smoothing

import "gonum.org/v1/gonum/stat/distuv"

// SpatialMode selects the 1-D convolution kernel applied across an LED
// range.
type SpatialMode int

const (
	SpatialNone SpatialMode = iota
	SpatialAverage
	SpatialLerp
	SpatialGaussian
)

// buildKernel returns the (already-normalized, w-length) kernel weights
// for mode at window w, forced odd. Average is uniform; lerp is a
// triangle; gaussian uses sigma = max(1, w/4).
// Ground: ledcube/internal/render/mix.go's alpha-weighted blend,
// generalized from a single two-tap mix to an N-tap 1-D kernel; the
// Gaussian weights use gonum/stat/distuv (gonum.org/v1/gonum is the
// domain-stack dependency the pack carries for numerical work).
func buildKernel(mode SpatialMode, w int) []float64 {
	if w < 1 {
		w = 1
	}
	if w%2 == 0 {
		w++
	}
	k := make([]float64, w)
	switch mode {
	case SpatialAverage:
		for i := range k {
			k[i] = 1.0
		}
	case SpatialLerp:
		center := w / 2
		for i := range k {
			d := center - i
			if d < 0 {
				d = -d
			}
			k[i] = float64(center + 1 - d)
		}
	case SpatialGaussian:
		sigma := float64(w) / 4.0
		if sigma < 1.0 {
			sigma = 1.0
		}
		center := float64(w / 2)
		dist := distuv.Normal{Mu: center, Sigma: sigma}
		for i := range k {
			k[i] = dist.Prob(float64(i))
		}
	default:
		k[0] = 1.0
		return k
	}
	normalize(k)
	return k
}

func normalize(k []float64) {
	sum := 0.0
	for _, v := range k {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range k {
		k[i] /= sum
	}
}
