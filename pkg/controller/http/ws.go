package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/service/bus"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingPeriod   = wsPongWait * 9 / 10
	wsEventBuffer  = 64
)

// Hub streams bus events to websocket clients. Every client gets its own
// bus subscription; a client that cannot keep up is disconnected.
type Hub struct {
	bus      *bus.Bus
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]func()
	closed  bool
}

func NewHub(b *bus.Bus) *Hub {
	return &Hub{
		bus:     b,
		clients: make(map[*websocket.Conn]func()),
	}
}

// snapshotEvent is the first frame a client receives
type snapshotEvent struct {
	Type        string               `json:"type"`
	History     []model.Notification `json:"history"`
	Toasts      []model.Notification `json:"toasts"`
	UnreadCount int                  `json:"unreadCount"`
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		logging.From(ctx).Warn("websocket upgrade failed", "error", err.Error())
		return
	}

	events, unsubscribe := h.bus.Subscribe(wsEventBuffer)
	stop := sync.OnceFunc(func() {
		unsubscribe()
		_ = conn.Close()
	})

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		stop()
		return
	}
	h.clients[conn] = stop
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		stop()
	}()

	logger := logging.From(ctx).With("remote", r.RemoteAddr)
	logger.Info("websocket client connected")

	// reader: handles pongs and detects the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, snapshotEvent{
		Type:        "snapshot",
		History:     h.bus.History(),
		Toasts:      h.bus.Toasts(),
		UnreadCount: h.bus.UnreadCount(),
	}); err != nil {
		logger.Info("websocket client gone", "error", err.Error())
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			logger.Info("websocket client disconnected")
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.write(conn, ev); err != nil {
				logger.Info("websocket client gone", "error", err.Error())
				return
			}

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				logger.Info("websocket ping failed", "error", err.Error())
				return
			}
		}
	}
}

func (h *Hub) write(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return goerr.Wrap(err, "failed to set write deadline")
	}
	if err := conn.WriteJSON(v); err != nil {
		return goerr.Wrap(err, "failed to write websocket frame")
	}
	return nil
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	stops := make([]func(), 0, len(h.clients))
	for _, stop := range h.clients {
		stops = append(stops, stop)
	}
	h.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
}
