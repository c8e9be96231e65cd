// Package spectate streams session snapshots to websocket watchers.
package spectate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/game"
)

const (
	// URIWatch upgrades to a websocket that receives every published snapshot.
	URIWatch = "/watch"
	// URIState returns the latest snapshot as JSON.
	URIState = "/state"
)

// Hub tracks connected watchers and fans snapshots out to them.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}

	mu     sync.Mutex
	latest []byte
	count  int

	upgrader websocket.Upgrader
	logger   logrus.FieldLogger
}

// NewHub returns a hub; call Run to start serving it.
func NewHub(logger logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Run serves registrations and broadcasts until ctx is done. A hub runs
// at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			h.logger.Info("spectator hub shutting down")
			return
		case c := <-h.register:
			h.clients[c] = true
			h.setCount()
			if latest := h.Latest(); latest != nil {
				c.send <- latest
			}
			h.logger.WithField("remote", c.conn.RemoteAddr().String()).Info("spectator connected")
		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				h.logger.Info("spectator disconnected")
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.drop(c)
					h.logger.Warn("dropping slow spectator")
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.setCount()
}

func (h *Hub) setCount() {
	h.mu.Lock()
	h.count = len(h.clients)
	h.mu.Unlock()
}

// Clients returns the number of connected watchers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Latest returns the most recently published payload, or nil.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Publish serializes snap and queues it for every watcher. When the queue
// is full the snapshot is still kept as the latest state but not broadcast.
func (h *Hub) Publish(snap game.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("spectate: encode snapshot: %w", err)
	}

	h.mu.Lock()
	h.latest = payload
	h.mu.Unlock()

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Debug("spectator broadcast queue full")
	}
	return nil
}

// Router returns the HTTP routes of the hub.
func (h *Hub) Router() http.Handler {
	router := way.NewRouter()
	router.HandleFunc(http.MethodGet, URIWatch, h.handleWatch)
	router.HandleFunc(http.MethodGet, URIState, h.handleState)
	return router
}

func (h *Hub) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("spectator upgrade failed")
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) handleState(w http.ResponseWriter, r *http.Request) {
	latest := h.Latest()
	if latest == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(latest)
}
