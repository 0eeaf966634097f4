// Package smoothing implements the two-stage frame smoother applied to
// externally-sourced (ArtNet/sACN) frames: temporal ring averaging/lerp
// across recent frames, then spatial 1-D kernel convolution across the
// LED range. Both stages are deterministic, pure functions of
// (input frame, history ring, parameters), and allocate nothing once
// configured.
package smoothing

import "github.com/coreman2200/ledcore/internal/frame"

// Config describes one Filter's parameters (spec §3 SmoothingState,
// minus the ring itself which Filter owns).
type Config struct {
	SpatialMode   SpatialMode
	SpatialWindow int
	FrameMode     FrameMode
	FrameWindow   int
}

// Filter applies temporal smoothing followed by spatial smoothing to a
// stream of same-length frames.
type Filter struct {
	cfg    Config
	ring   *ring
	kernel []float64
	scratch *frame.Frame // holds the temporal stage's output before spatial
}

// New builds a Filter for ledCount-pixel frames. FrameWindow and
// SpatialWindow are both forced to at least 1.
func New(cfg Config, ledCount int) *Filter {
	if cfg.FrameWindow < 1 {
		cfg.FrameWindow = 1
	}
	if cfg.SpatialWindow < 1 {
		cfg.SpatialWindow = 1
	}
	return &Filter{
		cfg:     cfg,
		ring:    newRing(cfg.FrameWindow, ledCount),
		kernel:  buildKernel(cfg.SpatialMode, cfg.SpatialWindow),
		scratch: frame.New(ledCount),
	}
}

// Apply runs the temporal stage then the spatial stage, writing the
// result into dst. src and dst must have the same length; dst may alias
// src's backing storage from a prior call but not this call's src.
func (f *Filter) Apply(dst *frame.Frame, src *frame.Frame) {
	applyTemporal(f.scratch, src, f.ring, f.cfg.FrameMode)
	if f.cfg.SpatialMode == SpatialNone || len(f.kernel) == 1 {
		dst.CopyFrom(f.scratch)
		return
	}
	applySpatial(dst.Pixels, f.scratch.Pixels, f.kernel)
}
