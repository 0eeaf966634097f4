// Package metrics holds the render core's observable counters: the
// minimum set a status endpoint or diagnostics client needs to tell
// healthy cadence from a stalled sink or a misbehaving pattern.
// Ground: ledcube/internal/diagnostics/diag.go's Diagnostic shape for the
// per-group/per-sink last-error fields, generalized from ad hoc
// diagnostics to durable atomic counters.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counters aggregates every counter named in the external interfaces
// section: ticks_total, overruns_total, artnet_packets_total,
// artnet_drops_total, pattern_errors_total (per group), sink_drops_total
// (per sink), last error string per group, last sync timestamp.
type Counters struct {
	TicksTotal        atomic.Uint64
	OverrunsTotal     atomic.Uint64
	ArtnetPacketsTotal atomic.Uint64
	ArtnetDropsTotal  atomic.Uint64

	mu                sync.RWMutex
	patternErrors     map[string]uint64
	lastGroupError     map[string]string
	sinkDrops         map[string]uint64
	lastSinkError      map[string]string
	lastSyncTimestamp time.Time
}

// New returns an empty Counters set.
func New() *Counters {
	return &Counters{
		patternErrors:  map[string]uint64{},
		lastGroupError: map[string]string{},
		sinkDrops:      map[string]uint64{},
		lastSinkError:  map[string]string{},
	}
}

// IncTick records one completed render tick.
func (c *Counters) IncTick() { c.TicksTotal.Add(1) }

// IncOverrun records a tick that exceeded its pacing budget.
func (c *Counters) IncOverrun() { c.OverrunsTotal.Add(1) }

// IncArtnetPacket records one accepted ArtNet/sACN packet.
func (c *Counters) IncArtnetPacket() { c.ArtnetPacketsTotal.Add(1) }

// IncArtnetDrop records one rejected/malformed ArtNet/sACN packet.
func (c *Counters) IncArtnetDrop() { c.ArtnetDropsTotal.Add(1) }

// RecordPatternError increments pattern_errors_total for group and
// stores err.Error() as its last-error string.
func (c *Counters) RecordPatternError(group string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patternErrors[group]++
	if err != nil {
		c.lastGroupError[group] = err.Error()
	}
}

// RecordSinkDrop increments sink_drops_total for sink and stores err's
// message, if any, as its last-error string.
func (c *Counters) RecordSinkDrop(sink string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinkDrops[sink]++
	if err != nil {
		c.lastSinkError[sink] = err.Error()
	}
}

// RecordSync stamps the most recent successful TimeSync receipt.
func (c *Counters) RecordSync(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSyncTimestamp = t
}

// Snapshot is a point-in-time, JSON-friendly copy of every counter.
type Snapshot struct {
	TicksTotal         uint64            `json:"ticks_total"`
	OverrunsTotal      uint64            `json:"overruns_total"`
	ArtnetPacketsTotal uint64            `json:"artnet_packets_total"`
	ArtnetDropsTotal   uint64            `json:"artnet_drops_total"`
	PatternErrors      map[string]uint64 `json:"pattern_errors_total"`
	LastGroupError     map[string]string `json:"last_group_error"`
	SinkDrops          map[string]uint64 `json:"sink_drops_total"`
	LastSinkError      map[string]string `json:"last_sink_error"`
	LastSyncUnixNano   int64             `json:"last_sync_unix_nano,omitempty"`
}

// Snapshot copies every counter into a plain struct suitable for JSON
// encoding or a websocket push.
func (c *Counters) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Snapshot{
		TicksTotal:         c.TicksTotal.Load(),
		OverrunsTotal:      c.OverrunsTotal.Load(),
		ArtnetPacketsTotal: c.ArtnetPacketsTotal.Load(),
		ArtnetDropsTotal:   c.ArtnetDropsTotal.Load(),
		PatternErrors:      make(map[string]uint64, len(c.patternErrors)),
		LastGroupError:     make(map[string]string, len(c.lastGroupError)),
		SinkDrops:          make(map[string]uint64, len(c.sinkDrops)),
		LastSinkError:      make(map[string]string, len(c.lastSinkError)),
	}
	for k, v := range c.patternErrors {
		s.PatternErrors[k] = v
	}
	for k, v := range c.lastGroupError {
		s.LastGroupError[k] = v
	}
	for k, v := range c.sinkDrops {
		s.SinkDrops[k] = v
	}
	for k, v := range c.lastSinkError {
		s.LastSinkError[k] = v
	}
	if !c.lastSyncTimestamp.IsZero() {
		s.LastSyncUnixNano = c.lastSyncTimestamp.UnixNano()
	}
	return s
}
