// Package client is the browser-side counterpart of the realtime hub: a
// single shared connection per process that owns the socket, a
// subscription registry UI surfaces attach listeners to, state stores
// that reconcile broadcast events, and optimistic mutation commands with
// rollback.
package client

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arkodeep/vibely/backend/internal/realtime"
	"github.com/arkodeep/vibely/backend/pkg/logging"
)

const (
	initialReconnectDelay = 1 * time.Second
	maxReconnectDelay     = 32 * time.Second
)

// Listener receives the events of one subscribed channel.
type Listener func(realtime.Event)

// Subscription is the handle returned by Subscribe, used to detach the
// listener again.
type Subscription struct {
	key string
	id  int
}

type channelSubs struct {
	identifier realtime.Identifier
	listeners  map[int]Listener
}

// Conn is the single shared realtime connection. UI surfaces subscribe
// to the events relevant to them instead of touching the socket; the
// first listener on a channel sends the wire subscribe, later listeners
// piggyback on it. On a dropped connection Conn redials with exponential
// backoff and resubscribes the same channel set; it performs no gap-fill
// (a REST refetch is the durable source of truth).
type Conn struct {
	url string

	mu     sync.Mutex
	ws     *websocket.Conn
	subs   map[string]*channelSubs
	nextID int
	closed bool

	done chan struct{}
}

// Dial connects and authenticates with the bearer token, then starts the
// read loop.
func Dial(wsURL, token string) (*Conn, error) {
	c := &Conn{
		url:  wsURL + "?token=" + token,
		subs: make(map[string]*channelSubs),
		done: make(chan struct{}),
	}
	ws, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return nil, err
	}
	c.ws = ws
	go c.readLoop()
	return c, nil
}

// Subscribe attaches a listener to the channel named by the identifier.
func (c *Conn) Subscribe(id realtime.Identifier, fn Listener) (Subscription, error) {
	key := id.SubKey()

	c.mu.Lock()
	defer c.mu.Unlock()

	cs, subscribed := c.subs[key]
	if !subscribed {
		cs = &channelSubs{identifier: id, listeners: make(map[int]Listener)}
		c.subs[key] = cs
	}
	c.nextID++
	cs.listeners[c.nextID] = fn
	sub := Subscription{key: key, id: c.nextID}

	if !subscribed {
		if err := c.writeCommand(realtime.CommandSubscribe, id); err != nil {
			return sub, err
		}
	}
	return sub, nil
}

// Unsubscribe detaches a listener. The wire unsubscribe goes out only
// when the channel's last listener is gone.
func (c *Conn) Unsubscribe(sub Subscription) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cs, ok := c.subs[sub.key]
	if !ok {
		return nil
	}
	delete(cs.listeners, sub.id)
	if len(cs.listeners) > 0 {
		return nil
	}
	delete(c.subs, sub.key)
	return c.writeCommand(realtime.CommandUnsubscribe, cs.identifier)
}

// Close tears the connection down for good; no reconnect follows.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	if c.ws != nil {
		return c.ws.Close()
	}
	return nil
}

// writeCommand must be called with c.mu held.
func (c *Conn) writeCommand(command string, id realtime.Identifier) error {
	if c.ws == nil {
		return nil
	}
	return c.ws.WriteJSON(realtime.Command{Command: command, Identifier: id})
}

func (c *Conn) readLoop() {
	for {
		c.mu.Lock()
		ws := c.ws
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}

		var frame realtime.Frame
		if err := ws.ReadJSON(&frame); err != nil {
			if c.isClosed() {
				return
			}
			logging.Warn().Err(err).Msg("realtime connection lost, reconnecting")
			if !c.reconnect() {
				return
			}
			continue
		}
		c.dispatch(frame)
	}
}

func (c *Conn) dispatch(frame realtime.Frame) {
	if frame.Identifier == nil || frame.Message == nil {
		return // welcome, confirmations, pongs
	}
	key := frame.Identifier.SubKey()

	c.mu.Lock()
	var listeners []Listener
	if cs, ok := c.subs[key]; ok {
		for _, fn := range cs.listeners {
			listeners = append(listeners, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(*frame.Message)
	}
}

// reconnect redials with exponential backoff until it succeeds or the
// connection is closed, then resubscribes the registered channel set.
// Returns false when the connection was closed for good.
func (c *Conn) reconnect() bool {
	delay := initialReconnectDelay
	for {
		select {
		case <-c.done:
			return false
		case <-time.After(delay):
		}

		ws, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			logging.Warn().Err(err).Dur("next_attempt_in", delay).Msg("realtime reconnect failed")
			delay *= 2
			if delay > maxReconnectDelay {
				delay = maxReconnectDelay
			}
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = ws.Close()
			return false
		}
		c.ws = ws
		for _, cs := range c.subs {
			if err := c.writeCommand(realtime.CommandSubscribe, cs.identifier); err != nil {
				logging.Warn().Err(err).Msg("resubscribe failed")
			}
		}
		c.mu.Unlock()

		logging.Info().Msg("realtime connection reestablished")
		return true
	}
}

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
