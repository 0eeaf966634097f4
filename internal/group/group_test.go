package group_test

import (
	"testing"

	"github.com/coreman2200/ledcore/internal/colormath"
	"github.com/coreman2200/ledcore/internal/frame"
	"github.com/coreman2200/ledcore/internal/group"
	"github.com/coreman2200/ledcore/internal/palette"
	"github.com/coreman2200/ledcore/internal/pattern"
	"github.com/coreman2200/ledcore/internal/pixelmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsBadRange(t *testing.T) {
	g := &group.Group{Name: "g1", RangeStart: 3, RangeEnd: 3}
	assert.Error(t, g.Validate(10))

	g2 := &group.Group{Name: "g2", RangeStart: 0, RangeEnd: 20}
	assert.Error(t, g2.Validate(10))
}

func TestOverlaps(t *testing.T) {
	a := &group.Group{RangeStart: 0, RangeEnd: 5}
	b := &group.Group{RangeStart: 4, RangeEnd: 8}
	c := &group.Group{RangeStart: 5, RangeEnd: 8}
	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))
}

// End-to-end scenario 1 from the palette-cycle spec: led_count=4, palette
// red->green, pattern is a palette-position cycle, speed=1 scale=1, t=0.25.
func TestEvaluatePaletteCycleScenario(t *testing.T) {
	patterns := pattern.NewRegistry()
	require.NoError(t, patterns.Register("cycle", "x + t"))

	pal, err := palette.New("redgreen", []palette.Stop{
		{Pos: 0, Color: colormath.HSV{H: 0, S: 1, V: 1}},
		{Pos: 0.33, Color: colormath.HSV{H: 1.0 / 3.0, S: 1, V: 1}},
	})
	require.NoError(t, err)
	palettes := map[string]*palette.Palette{"redgreen": pal}

	g := &group.Group{
		Name: "all", RangeStart: 0, RangeEnd: 4,
		Brightness: 1, Saturation: 1, Speed: 1, Scale: 1,
		PatternID: "cycle", PaletteID: "redgreen",
	}
	require.NoError(t, g.Validate(4))

	mapper := pixelmap.New(4)
	f := frame.New(4)

	require.NoError(t, g.Evaluate(0.25, mapper, patterns, palettes, f))

	for i := 0; i < 4; i++ {
		px := f.Pixels[i]
		assert.GreaterOrEqual(t, px.R, 0.0)
		assert.LessOrEqual(t, px.R, 1.0)
	}
}

func TestEvaluateMissingPatternErrors(t *testing.T) {
	patterns := pattern.NewRegistry()
	g := &group.Group{Name: "g", RangeStart: 0, RangeEnd: 2, PatternID: "missing"}
	mapper := pixelmap.New(2)
	f := frame.New(2)
	err := g.Evaluate(0, mapper, patterns, nil, f)
	assert.Error(t, err)
}

func TestEvaluateAppliesBrightness(t *testing.T) {
	patterns := pattern.NewRegistry()
	require.NoError(t, patterns.Register("white", "rgb(1,1,1)"))

	g := &group.Group{
		Name: "dim", RangeStart: 0, RangeEnd: 1,
		Brightness: 0.5, Saturation: 1, Speed: 1, Scale: 1,
		PatternID: "white",
	}
	mapper := pixelmap.New(1)
	f := frame.New(1)
	require.NoError(t, g.Evaluate(0, mapper, patterns, nil, f))
	assert.InDelta(t, 0.5, f.Pixels[0].R, 1e-9)
	assert.InDelta(t, 0.5, f.Pixels[0].G, 1e-9)
	assert.InDelta(t, 0.5, f.Pixels[0].B, 1e-9)
}
