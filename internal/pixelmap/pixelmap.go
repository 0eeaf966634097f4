// Package pixelmap computes the normalized spatial coordinate each LED
// index is evaluated at. It is stateless given a led_count: building the
// lookup table is pure and invariant across frames.
// Ground: ledcube/internal/led/lut.go BuildLUT, narrowed from a 3-D lattice
// to the 1-D strip mapping the core requires.
package pixelmap

// Mapper maps LED index i in [0, ledCount) to its normalized coordinate
// x = i / (ledCount - 1), or 0 when ledCount <= 1.
type Mapper struct {
	lut []float64
}

// New builds the lookup table for a strip of ledCount LEDs.
func New(ledCount int) *Mapper {
	lut := make([]float64, ledCount)
	denom := float64(ledCount - 1)
	for i := 0; i < ledCount; i++ {
		if denom <= 0 {
			lut[i] = 0
			continue
		}
		lut[i] = float64(i) / denom
	}
	return &Mapper{lut: lut}
}

// Len returns the LED count this mapper was built for.
func (m *Mapper) Len() int { return len(m.lut) }

// X returns the normalized coordinate of LED index i. Panics if i is out
// of range — callers always iterate within [0, Len()).
func (m *Mapper) X(i int) float64 { return m.lut[i] }
