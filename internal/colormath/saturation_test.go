package colormath_test

import (
	"testing"

	"github.com/coreman2200/ledcore/internal/colormath"
	"github.com/stretchr/testify/assert"
)

func TestApplySaturationIdentityAtOne(t *testing.T) {
	c := colormath.RGB{R: 0.9, G: 0.2, B: 0.5}
	got := colormath.ApplySaturation(c, 1.0)
	assert.InDelta(t, c.R, got.R, 1e-9)
	assert.InDelta(t, c.G, got.G, 1e-9)
	assert.InDelta(t, c.B, got.B, 1e-9)
}

func TestApplySaturationGrayAtZero(t *testing.T) {
	c := colormath.RGB{R: 0.9, G: 0.2, B: 0.5}
	got := colormath.ApplySaturation(c, 0.0)
	avg := (c.R + c.G + c.B) / 3.0
	assert.InDelta(t, avg, got.R, 1e-9)
	assert.InDelta(t, avg, got.G, 1e-9)
	assert.InDelta(t, avg, got.B, 1e-9)
}
