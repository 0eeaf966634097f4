package sink

import "sync"

// mailbox is a single-slot, latest-wins handoff between the render
// thread and a sink's own worker goroutine. Put never blocks; an
// unread frame is simply overwritten, which is the expected behavior
// under sink backpressure (dropped intermediate frames, never stale
// reordering, since there is only ever one slot).
type mailbox struct {
	mu      sync.Mutex
	frame   []byte
	pending bool
	signal  chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{signal: make(chan struct{}, 1)}
}

// put overwrites the mailbox's contents and wakes the worker if it is
// waiting. The byte slice is retained, not copied — callers must not
// reuse frameBytes after calling put.
func (m *mailbox) put(frameBytes []byte) {
	m.mu.Lock()
	m.frame = frameBytes
	m.pending = true
	m.mu.Unlock()
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// take returns the most recent frame and clears the pending flag, or
// ok=false if nothing is pending.
func (m *mailbox) take() (frameBytes []byte, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.pending {
		return nil, false
	}
	m.pending = false
	return m.frame, true
}
