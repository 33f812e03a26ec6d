// Package transport connects the simulation loop to its two external
// channels: an inbound websocket stream of desired-actuation commands and an
// outbound stream of state estimates, one per tick. Delivery is lossy by
// design; a subscriber that cannot keep up is detached rather than buffered
// without bound.
package transport

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/san-kum/vehiclesim/internal/sim"
	"github.com/san-kum/vehiclesim/internal/vehicle"
)

// sendBuffer frames of backlog per subscriber before it is detached.
const sendBuffer = 16

// Hub accepts controller connections on a single websocket endpoint. Inbound
// JSON frames overwrite the shared command cell (no acknowledgement, last
// write wins); every published estimate is fanned out to all subscribers.
// Hub implements sim.Observer.
type Hub struct {
	commands *sim.CommandCell
	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

type subscriber struct {
	conn *websocket.Conn
	send chan vehicle.Estimate
}

func NewHub(commands *sim.CommandCell, log zerolog.Logger) *Hub {
	return &Hub{
		commands: commands,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Router returns the HTTP handler exposing the websocket endpoint at /ws.
func (h *Hub) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	return mux
}

// OnEstimate fans one estimate out to every subscriber. A full send buffer
// detaches that subscriber; the tick loop never blocks on a slow client.
func (h *Hub) OnEstimate(est vehicle.Estimate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		select {
		case sub.send <- est:
		default:
			delete(h.subscribers, sub)
			close(sub.send)
			h.log.Warn().Str("remote", sub.conn.RemoteAddr().String()).
				Msg("dropping slow subscriber")
		}
	}
}

// SubscriberCount reports the number of attached clients.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan vehicle.Estimate, sendBuffer),
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	h.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("controller connected")

	go h.writeLoop(sub)
	h.readLoop(sub)
}

// readLoop decodes command frames into the shared cell until the connection
// closes. Malformed frames end the connection; the held command is kept.
func (h *Hub) readLoop(sub *subscriber) {
	defer h.detach(sub)

	for {
		var cmd vehicle.Command
		if err := sub.conn.ReadJSON(&cmd); err != nil {
			h.log.Info().Str("remote", sub.conn.RemoteAddr().String()).Err(err).
				Msg("controller disconnected")
			return
		}
		h.commands.Set(cmd)
	}
}

func (h *Hub) writeLoop(sub *subscriber) {
	for est := range sub.send {
		if err := sub.conn.WriteJSON(est); err != nil {
			h.detach(sub)
			return
		}
	}
	sub.conn.Close()
}

func (h *Hub) detach(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub]
	if ok {
		delete(h.subscribers, sub)
		close(sub.send)
	}
	h.mu.Unlock()
	sub.conn.Close()
}
