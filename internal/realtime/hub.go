package realtime

import (
	"context"
	"sync"

	"github.com/arkodeep/vibely/backend/pkg/logging"
)

type envelope struct {
	key   string
	frame Frame
}

// Hub maintains the set of active clients and their channel
// subscriptions, and fans broadcast frames out to current subscribers.
// Delivery order per channel matches publish order because a single
// goroutine drains the broadcast queue.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan envelope

	mu          sync.RWMutex
	clients     map[*Client]bool
	subscribers map[string]map[*Client]struct{}
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		broadcast:   make(chan envelope, 256),
		clients:     make(map[*Client]bool),
		subscribers: make(map[string]map[*Client]struct{}),
	}
}

// Run drives the hub until the context is canceled, then closes every
// connected client so a supervisor can restart the hub cleanly.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			logging.Info().Str("component", "realtime-hub").Msg("hub stopped")
			return ctx.Err()

		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logging.Info().Int("total_clients", total).Uint("user_id", client.userID).Msg("websocket client connected")

		case client := <-h.Unregister:
			h.removeClient(client)

		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

// Publish enqueues a frame for every subscriber of key. It never blocks:
// when the queue is full the frame is dropped and logged, because a
// publish failure must not stall or fail the originating write.
func (h *Hub) Publish(key string, frame Frame) {
	select {
	case h.broadcast <- envelope{key: key, frame: frame}:
	default:
		logging.Warn().Str("channel", key).Msg("broadcast queue full, frame dropped")
	}
}

// Subscribe adds the client to the channel's subscriber set. A client
// that has already been unregistered is ignored so a racing subscribe
// cannot resurrect a closed send channel.
func (h *Hub) Subscribe(c *Client, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[*Client]struct{})
	}
	h.subscribers[key][c] = struct{}{}
	c.keys[key] = struct{}{}
}

// Unsubscribe removes the client from the channel's subscriber set.
func (h *Hub) Unsubscribe(c *Client, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropSubscription(c, key)
}

// SubscriberCount returns the number of clients subscribed to key.
func (h *Hub) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[key])
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) deliver(env envelope) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.subscribers[env.key]))
	for c := range h.subscribers[env.key] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- env.frame:
		default:
			// Slow client: its buffer is full, evict it rather than
			// blocking delivery to everyone else.
			logging.Warn().Uint("user_id", c.userID).Msg("evicting slow websocket client")
			h.removeClient(c)
		}
	}
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	delete(h.clients, c)
	for key := range c.keys {
		h.dropSubscription(c, key)
	}
	close(c.send)
	logging.Info().Int("total_clients", len(h.clients)).Msg("websocket client disconnected")
}

// dropSubscription must be called with h.mu held.
func (h *Hub) dropSubscription(c *Client, key string) {
	if set, ok := h.subscribers[key]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subscribers, key)
		}
	}
	delete(c.keys, key)
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.closed = true
		delete(h.clients, c)
		for key := range c.keys {
			if set, ok := h.subscribers[key]; ok {
				delete(set, c)
				if len(set) == 0 {
					delete(h.subscribers, key)
				}
			}
		}
		close(c.send)
	}
}
