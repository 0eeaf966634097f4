// Package renderloop implements the fixed-rate orchestrator: each tick
// it reads the animation time, snapshots configuration, fans out group
// evaluation, overlays ArtNet/sACN input through the smoothing filter,
// runs the global color pipeline, and dispatches finished frames to
// every bound Sink without blocking on a slow one.
// Ground: ledcube/internal/app/conductor.go and bootstrap.go's
// ticker-driven render step, and ledcube/internal/ws/state.go's
// RunRenderLoop mailbox/broadcast idiom for non-blocking sink dispatch.
package renderloop

import (
	"context"
	"sort"
	"time"

	"github.com/coreman2200/ledcore/internal/artnet"
	"github.com/coreman2200/ledcore/internal/configstore"
	"github.com/coreman2200/ledcore/internal/frame"
	"github.com/coreman2200/ledcore/internal/metrics"
	"github.com/coreman2200/ledcore/internal/pixelmap"
	"github.com/coreman2200/ledcore/internal/sink"
	"github.com/coreman2200/ledcore/internal/smoothing"
	"github.com/coreman2200/ledcore/internal/timesync"
	"github.com/rs/zerolog/log"
)

// Loop is the render core's single render thread. It owns the
// authoritative Frame buffer for one tick and fans work out to group
// goroutines and sink workers, joining before moving to the next tick.
type Loop struct {
	ledCount     int
	channelOrder string
	store        *configstore.Store
	mapper       *pixelmap.Mapper
	sync         *timesync.Sync
	artnetRx     *artnet.Receiver
	metrics      *metrics.Counters
	sinks        map[string]sink.Sink

	smoother    *smoothing.Filter
	smootherCfg smoothing.Config
	scratch     *frame.Frame
}

// New builds a Loop for a fixed ledCount-pixel strip. sinks maps a
// group's SinkBinding value to the Sink instance that serves it; the
// zero-value binding "" is the default sink used by groups that don't
// name one explicitly.
func New(ledCount int, channelOrder string, store *configstore.Store, ts *timesync.Sync, artnetRx *artnet.Receiver, m *metrics.Counters, sinks map[string]sink.Sink) *Loop {
	return &Loop{
		ledCount:     ledCount,
		channelOrder: channelOrder,
		store:        store,
		mapper:       pixelmap.New(ledCount),
		sync:         ts,
		artnetRx:     artnetRx,
		metrics:      m,
		sinks:        sinks,
		scratch:      frame.New(ledCount),
	}
}

// Run blocks, ticking at the snapshot's target FPS (re-read each tick so
// a configuration change takes effect without restarting the loop)
// until ctx is canceled. Pacing has no catch-up: a tick that overruns
// its period drops straight to the next aligned slot.
func (l *Loop) Run(ctx context.Context) {
	period := l.currentPeriod()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.drainSinks()
			return
		case now := <-ticker.C:
			start := time.Now()
			l.Tick(now)
			if l.metrics != nil {
				l.metrics.IncTick()
			}
			elapsed := time.Since(start)
			if elapsed > period {
				if l.metrics != nil {
					l.metrics.IncOverrun()
				}
			}
			if next := l.currentPeriod(); next != period {
				period = next
				ticker.Reset(period)
			}
		}
	}
}

func (l *Loop) currentPeriod() time.Duration {
	fps := 60
	if snap := l.store.Load(); snap != nil && snap.Settings.TargetFPS > 0 {
		fps = snap.Settings.TargetFPS
	}
	return time.Second / time.Duration(fps)
}

// Tick runs exactly one frame at the given wall-clock time: read
// anim_time, snapshot config, evaluate groups, overlay ArtNet/sACN,
// run the global pipeline, and dispatch to sinks. Run calls this once
// per tick; tests call it directly to assert on sink output without
// waiting on a ticker.
func (l *Loop) Tick(now time.Time) {
	snap := l.store.Load()
	if snap == nil {
		return
	}

	animTime := 0.0
	if l.sync != nil {
		animTime = l.sync.AnimTime(now)
	}

	dst := l.scratch
	dst.Zero()

	deadline := time.Duration(float64(l.currentPeriod()) * 0.8)
	if !snap.Settings.CalibrationMode {
		evaluateGroups(snap.Groups, animTime, l.mapper, snap.Patterns, snap.Palettes, dst, deadline, l.metrics)

		if snap.ArtNet.Enabled && l.artnetRx != nil {
			l.overlayArtNet(dst, now, snap)
		}
	}

	out := applyGlobalPipeline(dst, snap.Settings, l.channelOrder)
	l.dispatch(snap, out)
}

func (l *Loop) overlayArtNet(dst *frame.Frame, now time.Time, snap *configstore.Snapshot) {
	src := l.artnetRx.Latest(now)
	if src == nil {
		src = frame.New(l.ledCount)
	}

	if l.smoother == nil || l.smootherNeedsRebuild(snap) {
		l.rebuildSmoother(snap)
	}
	smoothed := frame.New(l.ledCount)
	l.smoother.Apply(smoothed, src)
	dst.CopyFrom(smoothed)
}

func (l *Loop) smootherNeedsRebuild(snap *configstore.Snapshot) bool {
	want := smoothing.Config{
		SpatialMode:   parseSpatialMode(snap.ArtNet.SpatialSmoothing),
		SpatialWindow: snap.ArtNet.SpatialSize,
		FrameMode:     parseFrameMode(snap.ArtNet.FrameInterpolation),
		FrameWindow:   snap.ArtNet.FrameInterpSize,
	}
	return want != l.smootherCfg
}

func (l *Loop) rebuildSmoother(snap *configstore.Snapshot) {
	l.smootherCfg = smoothing.Config{
		SpatialMode:   parseSpatialMode(snap.ArtNet.SpatialSmoothing),
		SpatialWindow: snap.ArtNet.SpatialSize,
		FrameMode:     parseFrameMode(snap.ArtNet.FrameInterpolation),
		FrameWindow:   snap.ArtNet.FrameInterpSize,
	}
	l.smoother = smoothing.New(l.smootherCfg, l.ledCount)
}

func parseSpatialMode(s string) smoothing.SpatialMode {
	switch s {
	case "average":
		return smoothing.SpatialAverage
	case "lerp":
		return smoothing.SpatialLerp
	case "gaussian":
		return smoothing.SpatialGaussian
	default:
		return smoothing.SpatialNone
	}
}

func parseFrameMode(s string) smoothing.FrameMode {
	switch s {
	case "average":
		return smoothing.FrameAverage
	case "lerp":
		return smoothing.FrameLerp
	default:
		return smoothing.FrameNone
	}
}

// dispatch groups the finished byte stream by sink binding and pushes
// each sink's slice to its worker. A sink's payload is the bytes of the
// LED ranges of the groups bound to it, concatenated in ascending
// RangeStart order; LEDs outside those ranges are not part of its
// payload, and a sink with no bound group receives nothing.
func (l *Loop) dispatch(snap *configstore.Snapshot, out []byte) {
	channels := channelsPerPixel(l.channelOrder)

	bindings := map[string][][2]int{}
	for _, g := range snap.Groups {
		bindings[g.SinkBinding] = append(bindings[g.SinkBinding], [2]int{g.RangeStart, g.RangeEnd})
	}

	for name, s := range l.sinks {
		ranges := bindings[name]
		if len(ranges) == 0 {
			continue
		}
		sort.Slice(ranges, func(i, j int) bool { return ranges[i][0] < ranges[j][0] })

		buf := make([]byte, 0, len(out))
		for _, r := range ranges {
			lo := r[0] * channels
			hi := r[1] * channels
			if hi > len(out) {
				hi = len(out)
			}
			if lo < hi {
				buf = append(buf, out[lo:hi]...)
			}
		}
		if err := s.Submit(buf); err != nil {
			if l.metrics != nil {
				l.metrics.RecordSinkDrop(name, err)
			}
			log.Warn().Str("sink", name).Err(err).Msg("sink submit failed")
		}
	}
}

func (l *Loop) drainSinks() {
	for name, s := range l.sinks {
		if err := s.Shutdown(); err != nil {
			log.Warn().Str("sink", name).Err(err).Msg("sink shutdown failed")
		}
	}
}
