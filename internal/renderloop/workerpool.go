package renderloop

import (
	"sync"
	"time"

	"github.com/coreman2200/ledcore/internal/frame"
	"github.com/coreman2200/ledcore/internal/group"
	"github.com/coreman2200/ledcore/internal/metrics"
	"github.com/coreman2200/ledcore/internal/palette"
	"github.com/coreman2200/ledcore/internal/pattern"
	"github.com/coreman2200/ledcore/internal/pixelmap"
)

// evaluateGroups fans out group.Evaluate across groups into dst, one
// goroutine per group (embarrassingly parallel by LED range, per
// spec.md §9's "static pool sized to cores" design note — here
// implemented as one-goroutine-per-tick-per-group, since Go's scheduler
// already multiplexes that onto GOMAXPROCS cores without a hand-rolled
// pool), each bounded by a soft deadline. Each group renders into its
// own frame, and its range is copied into dst only when it finishes in
// time without error. A group that errors or overruns gets its range
// zeroed and a recorded pattern error; the rest of the frame is
// unaffected.
func evaluateGroups(groups []*group.Group, animTime float64, mapper *pixelmap.Mapper, patterns *pattern.Registry, palettes map[string]*palette.Palette, dst *frame.Frame, deadline time.Duration, m *metrics.Counters) {
	var wg sync.WaitGroup
	for _, g := range groups {
		wg.Add(1)
		go func(g *group.Group) {
			defer wg.Done()
			local := frame.New(len(dst.Pixels))
			done := make(chan error, 1)
			go func() {
				done <- g.Evaluate(animTime, mapper, patterns, palettes, local)
			}()
			select {
			case err := <-done:
				if err != nil {
					blackOut(dst, g.RangeStart, g.RangeEnd)
					if m != nil {
						m.RecordPatternError(g.Name, err)
					}
				} else {
					copy(dst.Pixels[g.RangeStart:g.RangeEnd], local.Pixels[g.RangeStart:g.RangeEnd])
				}
			case <-time.After(deadline):
				blackOut(dst, g.RangeStart, g.RangeEnd)
				if m != nil {
					m.RecordPatternError(g.Name, errTimeout)
				}
			}
		}(g)
	}
	wg.Wait()
}

var errTimeout = patternTimeoutError{}

type patternTimeoutError struct{}

func (patternTimeoutError) Error() string { return "pattern evaluation exceeded soft deadline" }

func blackOut(dst *frame.Frame, start, end int) {
	for i := start; i < end && i < len(dst.Pixels); i++ {
		dst.Pixels[i] = frame.Pixel{}
	}
}
