// Package timesync provides the optional shared anim_time broadcaster
// and receiver: off nodes derive anim_time from their own monotonic
// clock, a master broadcasts its anim_time over UDP, and a slave locks
// onto a master's broadcasts with a first-order drift filter.
// Ground: original_source/ledcontrol/sync_server.py's master/slave
// broadcast-loop shape, rewired to the wire format and drift filter
// spec.md §4.8/§6 specify (the original's 8-byte "LEDSYNC\0" magic and
// bare float64 payload are not carried forward — the wire layout here is
// "LCTS"/version/flags/wall-ns/anim-time as specified).
package timesync

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/coreman2200/ledcore/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Mode selects a node's role.
type Mode int

const (
	Off Mode = iota
	Master
	Slave
)

func (m Mode) String() string {
	switch m {
	case Master:
		return "master"
	case Slave:
		return "slave"
	default:
		return "off"
	}
}

// minBroadcastPeriod and maxBroadcastPeriod bound the master's broadcast
// interval per spec.md §4.8 ("bounded 0.1..5.0 s").
const (
	minBroadcastPeriod = 100 * time.Millisecond
	maxBroadcastPeriod = 5 * time.Second
)

// Sync tracks one node's view of the shared anim_time. In Off and Master
// modes it derives anim_time from its own startup epoch; in Slave mode it
// tracks an anchor (animTime, wallTime) pair set by the most recent
// received packet, filtered for drift.
type Sync struct {
	id              uuid.UUID
	mode            Mode
	broadcastPeriod time.Duration
	startupEpoch    time.Time
	masterAddr      string // explicit slave target, or "" for first-seen
	metrics         *metrics.Counters

	mu           sync.Mutex
	haveAnchor   bool
	anchorAnim   float64
	anchorWall   time.Time
	lockedMaster *net.UDPAddr
}

// New constructs a Sync in the given mode. broadcastPeriod is clamped
// into [0.1s, 5s] and only consulted in Master mode. masterAddr, when
// non-empty, pins Slave mode to a specific master; otherwise the first
// sender seen is adopted.
func New(mode Mode, broadcastPeriod time.Duration, masterAddr string, m *metrics.Counters) *Sync {
	if broadcastPeriod < minBroadcastPeriod {
		broadcastPeriod = minBroadcastPeriod
	}
	if broadcastPeriod > maxBroadcastPeriod {
		broadcastPeriod = maxBroadcastPeriod
	}
	return &Sync{
		id:              uuid.New(),
		mode:            mode,
		broadcastPeriod: broadcastPeriod,
		startupEpoch:    time.Now(),
		masterAddr:      masterAddr,
		metrics:         m,
	}
}

// AnimTime returns the node's current shared animation time at now. Off
// and Master nodes compute it directly from their own startup epoch;
// Slave nodes extrapolate from the last accepted anchor.
func (s *Sync) AnimTime(now time.Time) float64 {
	if s.mode != Slave {
		return now.Sub(s.startupEpoch).Seconds()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.haveAnchor {
		return now.Sub(s.startupEpoch).Seconds()
	}
	return s.anchorAnim + now.Sub(s.anchorWall).Seconds()
}

// ApplyReceived is the slave-side drift filter, split out from the
// network loop so it can be driven directly (by RunSlave, or by a test,
// or by an alternate transport feeding already-decoded packets). The
// first packet ever received anchors directly; every subsequent packet
// blends the extrapolated prediction with the newly received value
// 0.9/0.1 per the documented drift correction.
func (s *Sync) ApplyReceived(now time.Time, receivedAnim float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.haveAnchor {
		s.anchorAnim = receivedAnim
		s.anchorWall = now
		s.haveAnchor = true
		return
	}
	predicted := s.anchorAnim + now.Sub(s.anchorWall).Seconds()
	s.anchorAnim = 0.9*predicted + 0.1*receivedAnim
	s.anchorWall = now
}

// RunMaster broadcasts this node's anim_time on Port every
// broadcastPeriod until ctx is cancelled. No-op outside Master mode.
func (s *Sync) RunMaster(ctx context.Context) error {
	if s.mode != Master {
		return nil
	}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: 0})
	if err != nil {
		return err
	}
	defer conn.Close()

	broadcastAddr := &net.UDPAddr{IP: net.IPv4bcast, Port: Port}
	ticker := time.NewTicker(s.broadcastPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			animTime := s.AnimTime(now)
			pkt := encodePacket(now.UnixNano(), animTime)
			if _, err := conn.WriteToUDP(pkt, broadcastAddr); err != nil {
				log.Warn().Str("task_id", s.id.String()).Err(err).Msg("timesync: broadcast failed")
			}
		}
	}
}

// RunSlave listens on Port for master broadcasts and updates the
// internal anchor via ApplyReceived. No-op outside Slave mode. If
// masterAddr is set, packets from other senders are ignored; otherwise
// the first sender seen is locked in.
func (s *Sync) RunSlave(ctx context.Context) error {
	if s.mode != Slave {
		return nil
	}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: Port})
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, 256)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		if s.masterAddr != "" && addr.IP.String() != s.masterAddr {
			continue
		}
		s.mu.Lock()
		locked := s.lockedMaster
		s.mu.Unlock()
		if locked != nil && !locked.IP.Equal(addr.IP) {
			continue
		}

		_, animTime, ok := decodePacket(buf[:n])
		if !ok {
			continue
		}

		s.mu.Lock()
		if s.lockedMaster == nil {
			s.lockedMaster = addr
			log.Info().Str("task_id", s.id.String()).Str("master_addr", addr.String()).Msg("timesync: locked onto master")
		}
		s.mu.Unlock()

		now := time.Now()
		s.ApplyReceived(now, animTime)
		if s.metrics != nil {
			s.metrics.RecordSync(now)
		}
	}
}
