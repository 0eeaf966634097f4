// Package telemetry broadcasts metrics snapshots to connected diagnostics
// clients over a websocket, the same transport the operator console uses
// for live frame/diagnostic feeds.
// Ground: ledcube/internal/ws/state.go's HandleDiagWS/pushDiag/broadcastFrame,
// narrowed to push periodic metrics.Snapshot values instead of per-frame
// RGB and ad hoc Diagnostic events.
package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledcore/internal/metrics"
)

// Hub tracks connected websocket clients and pushes metrics snapshots to
// all of them on a fixed interval.
type Hub struct {
	counters *metrics.Counters

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool

	upgrader websocket.Upgrader
}

// NewHub returns a Hub that will report counters' state to clients.
func NewHub(counters *metrics.Counters) *Hub {
	return &Hub{
		counters: counters,
		clients:  map[*websocket.Conn]bool{},
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// HandleWS upgrades r to a websocket and registers it as a telemetry
// client. The connection is dropped from the roster once the client
// disconnects or a write fails.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("telemetry: websocket upgrade failed")
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Run broadcasts a metrics snapshot to every connected client every
// interval, until ctx-like stop channel closes.
func (h *Hub) Run(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.broadcast()
		}
	}
}

func (h *Hub) broadcast() {
	snap := h.counters.Snapshot()
	b, err := json.Marshal(snap)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("telemetry: write failed")
		}
	}
}

// ClientCount returns the number of currently connected telemetry clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
