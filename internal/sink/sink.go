// Package sink implements the output side of the render pipeline: the
// abstract Sink contract and its three wire forms (local hardware
// driver, serial tether, and network transport), each wrapped in a
// worker with a single-slot latest-wins mailbox so a slow or stalled
// sink never blocks the render thread.
// Ground: ledcube/internal/led/driver.go's Driver contract (Write/Close),
// generalized to submit/configure/shutdown; ledcube/internal/ws/state.go's
// RunRenderLoop for the "compute, hand to worker, never block" shape.
package sink

import "errors"

// ErrClosed is returned by Submit after Shutdown has completed.
var ErrClosed = errors.New("sink: closed")

// Sink is the render loop's output contract. Submit must not block for
// longer than it takes to hand the frame to a worker; the sink's own
// I/O happens off the render thread.
type Sink interface {
	// Configure sets the wire channel order (e.g. "RGB", "GRBW") and the
	// pixel count. Implementations may reject a change after frames have
	// already been submitted.
	Configure(channelOrder string, ledCount int) error
	// Submit hands one frame's worth of already-quantized, already
	// channel-permuted bytes to the sink.
	Submit(frameBytes []byte) error
	// Shutdown stops the sink's worker and releases resources. A frame
	// still waiting in the mailbox is not sent. Submit after Shutdown
	// returns ErrClosed.
	Shutdown() error
}
