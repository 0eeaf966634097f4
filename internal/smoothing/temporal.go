package smoothing

import "github.com/coreman2200/ledcore/internal/frame"

// FrameMode selects how the temporal ring of previous frames is combined
// with the current one.
type FrameMode int

const (
	FrameNone FrameMode = iota
	FrameAverage
	FrameLerp
)

// ring is a fixed-capacity circular buffer of *frame.Frame, preallocated
// at configuration time so steady-state operation never allocates.
type ring struct {
	buf   []*frame.Frame
	count int
	head  int // index of the most recently pushed frame
}

func newRing(window, ledCount int) *ring {
	buf := make([]*frame.Frame, window)
	for i := range buf {
		buf[i] = frame.New(ledCount)
	}
	return &ring{buf: buf}
}

// push overwrites the oldest slot with cur and advances head.
func (r *ring) push(cur *frame.Frame) {
	r.head = (r.head + 1) % len(r.buf)
	r.buf[r.head].CopyFrom(cur)
	if r.count < len(r.buf) {
		r.count++
	}
}

// at returns the frame pushed agesAgo pushes back (0 = most recent).
func (r *ring) at(agesAgo int) *frame.Frame {
	idx := (r.head - agesAgo + len(r.buf)*2) % len(r.buf)
	return r.buf[idx]
}

// oldest returns the least-recently-pushed populated frame.
func (r *ring) oldest() *frame.Frame {
	back := r.count - 1
	if back < 0 {
		back = 0
	}
	return r.at(back)
}

// applyTemporal combines src (the just-produced current frame) with the
// ring of prior frames per mode, writing into dst. It pushes src into the
// ring as part of the call, so call order must match tick order.
func applyTemporal(dst *frame.Frame, src *frame.Frame, r *ring, mode FrameMode) {
	r.push(src)
	switch mode {
	case FrameNone:
		dst.CopyFrom(src)
	case FrameAverage:
		n := float64(r.count)
		for i := range dst.Pixels {
			var px frame.Pixel
			for age := 0; age < r.count; age++ {
				px = px.Add(r.at(age).Pixels[i])
			}
			dst.Pixels[i] = px.Scale(1.0 / n)
		}
	case FrameLerp:
		alpha := 1.0 / float64(len(r.buf))
		oldest := r.oldest()
		for i := range dst.Pixels {
			dst.Pixels[i] = oldest.Pixels[i].Lerp(src.Pixels[i], alpha)
		}
	}
}
