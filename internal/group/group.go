// Package group implements the per-range animation unit: a contiguous
// slice of LEDs driven by one pattern, one palette, and its own
// brightness/saturation/speed/scale, independent of every other group.
// Ground: ledcube/internal/render/engine.go RenderOnce's render-then-post
// shape, narrowed from a whole-strip Engine to one Group's slice so many
// Groups can run concurrently and join before the global pipeline.
package group

import (
	"fmt"

	"github.com/coreman2200/ledcore/internal/colormath"
	"github.com/coreman2200/ledcore/internal/frame"
	"github.com/coreman2200/ledcore/internal/palette"
	"github.com/coreman2200/ledcore/internal/pattern"
	"github.com/coreman2200/ledcore/internal/pixelmap"
)

// Group is the tuple described in the data model: a named LED range with
// its own animation parameters, pattern, palette, and sink binding.
type Group struct {
	Name        string
	RangeStart  int
	RangeEnd    int
	Brightness  float64
	Saturation  float64
	Speed       float64
	Scale       float64
	PatternID   string
	PaletteID   string
	SinkBinding string
}

// Validate checks the range invariant: 0 <= RangeStart < RangeEnd <= ledCount.
func (g *Group) Validate(ledCount int) error {
	if g.RangeStart < 0 || g.RangeStart >= g.RangeEnd || g.RangeEnd > ledCount {
		return fmt.Errorf("group %q: invalid range [%d,%d) for led_count %d", g.Name, g.RangeStart, g.RangeEnd, ledCount)
	}
	return nil
}

// Overlaps reports whether g and other's ranges intersect.
func (g *Group) Overlaps(other *Group) bool {
	return g.RangeStart < other.RangeEnd && other.RangeStart < g.RangeEnd
}

// Evaluate renders g's slice of dst for one tick at the given animation
// time. patterns and palettes are read-only snapshots for this tick.
// x_effective = x_norm * scale (per spec §9, scale multiplies x, not
// x-0.5); group_time = anim_time * speed.
func (g *Group) Evaluate(animTime float64, mapper *pixelmap.Mapper, patterns *pattern.Registry, palettes map[string]*palette.Palette, dst *frame.Frame) error {
	p, ok := patterns.Get(g.PatternID)
	if !ok {
		return fmt.Errorf("group %q: unknown pattern %q", g.Name, g.PatternID)
	}
	compiled := p.Current()
	if compiled == nil {
		return fmt.Errorf("group %q: pattern %q has never compiled", g.Name, g.PatternID)
	}

	var pal *palette.Palette
	if g.PaletteID != "" {
		pal = palettes[g.PaletteID]
	}

	groupTime := animTime * g.Speed

	for i := g.RangeStart; i < g.RangeEnd; i++ {
		xNorm := mapper.X(i)
		xEff := xNorm * g.Scale
		prev := colormath.RGB{R: dst.Pixels[i].R, G: dst.Pixels[i].G, B: dst.Pixels[i].B}

		res := compiled.Eval(groupTime, xEff, prev, nil)

		var c colormath.RGB
		if res.IsColor {
			c = res.Color
		} else if pal != nil {
			c = pal.Sample(res.Pos)
		} else {
			// No palette bound: treat the scalar as grayscale value.
			v := res.Pos
			c = colormath.RGB{R: v, G: v, B: v}
		}

		c = colormath.ApplySaturation(c, g.Saturation)
		b := g.Brightness

		dst.Pixels[i] = frame.Pixel{R: c.R * b, G: c.G * b, B: c.B * b, W: 0}
	}
	return nil
}
