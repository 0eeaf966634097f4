// Package palette samples ordered HSV color stops by continuous position.
// Ground: ledcube/internal/sequence/envelope.go Eval's segment-walk shape,
// generalized from scalar keyframes to wrapping HSV color stops.
package palette

import (
	"fmt"

	"github.com/coreman2200/ledcore/internal/colormath"
)

// Stop is one color anchor in a Palette. Pos only orders the stops (New
// sorts by it); Sample spaces the stops evenly and does not read Pos.
type Stop struct {
	Pos   float64
	Color colormath.HSV
}

// Palette is an ordered, non-empty list of Stops sampled by position.
type Palette struct {
	ID    string
	Stops []Stop
}

// New builds a Palette from stops, sorted by Pos. Returns an error if
// stops is empty.
func New(id string, stops []Stop) (*Palette, error) {
	if len(stops) == 0 {
		return nil, fmt.Errorf("palette %q: at least one stop required", id)
	}
	sorted := make([]Stop, len(stops))
	copy(sorted, stops)
	insertionSortByPos(sorted)
	return &Palette{ID: id, Stops: sorted}, nil
}

func insertionSortByPos(s []Stop) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].Pos < s[j-1].Pos; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// Sample returns the color at position p, reduced modulo 1 into [0,1).
// With a single stop, returns that stop's color unchanged. With N>=2
// stops, the segment index is s = floor(p*N), the fractional position
// within the segment is f = p*N - s, and the result interpolates
// componentwise in HSV between stop s and stop (s+1)%N, taking the
// shortest arc around the hue circle.
func (pl *Palette) Sample(p float64) colormath.RGB {
	n := len(pl.Stops)
	if n == 1 {
		return colormath.HSVToRGB(pl.Stops[0].Color)
	}

	p = wrap01(p)
	scaled := p * float64(n)
	s := int(scaled)
	if s >= n {
		s = n - 1
	}
	f := scaled - float64(s)

	a := pl.Stops[s].Color
	b := pl.Stops[(s+1)%n].Color

	bHue := colormath.HueShortestArc(a.H, b.H)
	h := a.H + (bHue-a.H)*f
	sat := a.S + (b.S-a.S)*f
	v := a.V + (b.V-a.V)*f

	return colormath.HSVToRGB(colormath.HSV{H: h, S: sat, V: v})
}

func wrap01(x float64) float64 {
	x -= float64(int(x))
	if x < 0 {
		x += 1.0
	}
	return x
}
