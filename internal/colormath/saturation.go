package colormath

// ApplySaturation desaturates c toward its own RGB mean by (1-sat): each
// channel's distance from the mean is scaled by sat.
// sat=1 is a no-op, sat=0 yields gray.
// Ground: original_source/ledcontrol/driver/__init__.py render_rgb_float's
// saturation blend (`r = (r - avg) * saturation + avg`).
func ApplySaturation(c RGB, sat float64) RGB {
	sat = clamp01(sat)
	avg := (c.R + c.G + c.B) / 3.0
	return RGB{
		R: (c.R-avg)*sat + avg,
		G: (c.G-avg)*sat + avg,
		B: (c.B-avg)*sat + avg,
	}
}
