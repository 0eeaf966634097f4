package palette_test

import (
	"testing"

	"github.com/coreman2200/ledcore/internal/colormath"
	"github.com/coreman2200/ledcore/internal/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSingleStop(t *testing.T) {
	pl, err := palette.New("solid", []palette.Stop{
		{Pos: 0, Color: colormath.HSV{H: 0.2, S: 1, V: 1}},
	})
	require.NoError(t, err)

	want := colormath.HSVToRGB(colormath.HSV{H: 0.2, S: 1, V: 1})
	for _, p := range []float64{0, 0.3, 0.99} {
		got := pl.Sample(p)
		assert.InDelta(t, want.R, got.R, 1e-9)
		assert.InDelta(t, want.G, got.G, 1e-9)
		assert.InDelta(t, want.B, got.B, 1e-9)
	}
}

func TestSampleWrapsAroundLastToFirst(t *testing.T) {
	pl, err := palette.New("rb", []palette.Stop{
		{Pos: 0, Color: colormath.HSV{H: 0, S: 1, V: 1}},
		{Pos: 0.5, Color: colormath.HSV{H: 0.5, S: 1, V: 1}},
	})
	require.NoError(t, err)

	atStart := pl.Sample(0)
	atEnd := pl.Sample(0.999999)
	wantStart := colormath.HSVToRGB(colormath.HSV{H: 0, S: 1, V: 1})
	assert.InDelta(t, wantStart.R, atStart.R, 1e-6)
	assert.InDelta(t, wantStart.R, atEnd.R, 1e-4)
	assert.InDelta(t, wantStart.G, atEnd.G, 1e-4)
	assert.InDelta(t, wantStart.B, atEnd.B, 1e-4)
}

func TestSampleRejectsEmpty(t *testing.T) {
	_, err := palette.New("empty", nil)
	assert.Error(t, err)
}

func TestSampleMidpointInterpolates(t *testing.T) {
	pl, err := palette.New("two", []palette.Stop{
		{Pos: 0, Color: colormath.HSV{H: 0, S: 0, V: 0}},
		{Pos: 1, Color: colormath.HSV{H: 0, S: 0, V: 1}},
	})
	require.NoError(t, err)

	got := pl.Sample(0.25)
	assert.InDelta(t, 0.5, got.R, 1e-6)
	assert.InDelta(t, 0.5, got.G, 1e-6)
	assert.InDelta(t, 0.5, got.B, 1e-6)
}
