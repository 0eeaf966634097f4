package smoothing

import "github.com/coreman2200/ledcore/internal/frame"

// applySpatial convolves each pixel of src with kernel across the 1-D LED
// range, writing into dst (which may not alias src). At the ends of the
// range, taps that fall outside [0,n) are dropped and the remaining
// kernel weights are renormalized over the valid subset — window=1 is
// therefore an exact passthrough (the kernel has one weight, 1.0).
func applySpatial(dst, src []frame.Pixel, kernel []float64) {
	n := len(src)
	half := len(kernel) / 2
	if len(kernel) == 1 {
		copy(dst, src)
		return
	}
	for i := 0; i < n; i++ {
		var sumW, r, g, b, w float64
		for k, weight := range kernel {
			j := i + (k - half)
			if j < 0 || j >= n {
				continue
			}
			sumW += weight
			px := src[j]
			r += px.R * weight
			g += px.G * weight
			b += px.B * weight
			w += px.W * weight
		}
		if sumW == 0 {
			dst[i] = src[i]
			continue
		}
		dst[i] = frame.Pixel{R: r / sumW, G: g / sumW, B: b / sumW, W: w / sumW}
	}
}
