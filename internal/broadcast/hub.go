// Package broadcast relays shared locations to every connected WebSocket
// client. A Hub fans each update out through a worker pool; with a Relay
// configured, updates travel through it first so every server instance
// delivers them.
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/atharv3903/campusnav/internal/model"
)

var (
	ErrHubClosed       = errors.New("broadcast: hub closed")
	ErrInvalidLocation = errors.New("invalid location data")
)

// Relay carries encoded updates between server instances.
type Relay interface {
	Publish(ctx context.Context, payload []byte) error
	// Listen calls deliver for every payload published by any instance until
	// ctx is done.
	Listen(ctx context.Context, deliver func([]byte)) error
}

type Options struct {
	Workers    int
	SendBuffer int
	Relay      Relay
	Log        *zap.Logger
}

type Hub struct {
	log        *zap.Logger
	relay      Relay
	pool       *ants.PoolWithFunc
	sendBuffer int
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool
}

func NewHub(opts Options) (*Hub, error) {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 1
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	h := &Hub{
		log:        opts.Log,
		relay:      opts.Relay,
		sendBuffer: opts.SendBuffer,
		clients:    make(map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	pool, err := ants.NewPoolWithFunc(opts.Workers, func(i interface{}) {
		h.deliver(i.([]byte))
	}, ants.WithPanicHandler(func(p interface{}) {
		h.log.Error("fan-out panic", zap.Any("panic", p))
	}))
	if err != nil {
		return nil, fmt.Errorf("fan-out pool: %w", err)
	}
	h.pool = pool
	return h, nil
}

// Run consumes the relay until ctx is done. It returns at once without a
// relay.
func (h *Hub) Run(ctx context.Context) {
	if h.relay == nil {
		return
	}
	for {
		err := h.relay.Listen(ctx, func(payload []byte) {
			if err := h.fanout(payload); err != nil {
				h.log.Warn("fan-out", zap.Error(err))
			}
		})
		if ctx.Err() != nil {
			return
		}
		h.log.Warn("relay listen stopped, retrying", zap.Error(err))
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

// Publish shares c with every connected client, the sender included.
func (h *Hub) Publish(ctx context.Context, c model.Coord) error {
	if !c.Valid() {
		return ErrInvalidLocation
	}
	payload, err := json.Marshal(model.Event{Event: model.EventNewLocation, Data: c})
	if err != nil {
		return err
	}
	if h.relay != nil {
		return h.relay.Publish(ctx, payload)
	}
	return h.fanout(payload)
}

func (h *Hub) fanout(payload []byte) error {
	if err := h.pool.Invoke(payload); err != nil {
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrHubClosed
		}
		return err
	}
	return nil
}

// deliver hands payload to every current client once. A client whose buffer
// is full is disconnected.
func (h *Hub) deliver(payload []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(payload) {
			h.log.Info("dropping slow client", zap.String("client", c.id))
			h.unregister(c)
		}
	}
}

// newClient queues the connected event before the client can be registered,
// so it is always the first frame. The send channel has one slot beyond
// sendBuffer for it.
func (h *Hub) newClient(conn *websocket.Conn) *Client {
	id := uuid.NewString()
	c := &Client{
		id:   id,
		hub:  h,
		conn: conn,
		log:  h.log.With(zap.String("client", id)),
		send: make(chan []byte, h.sendBuffer+1),
	}
	c.sendEvent(model.Event{Event: model.EventConnected, Data: map[string]string{"id": id}})
	return c
}

// ServeWS upgrades the request and registers the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("upgrade", zap.Error(err))
		return
	}

	c := h.newClient(conn)
	if !h.register(c) {
		c.close()
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	h.log.Debug("client connected", zap.String("client", c.id), zap.Int("clients", len(h.clients)))
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		h.log.Debug("client disconnected", zap.String("client", c.id), zap.Int("clients", len(h.clients)))
	}
	h.mu.Unlock()
	c.close()
}

// Clients returns the number of registered clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and stops the fan-out pool.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.pool.Release()
}

// DecodeLocation parses an inbound {"latitude":..,"longitude":..} frame.
func DecodeLocation(msg []byte) (model.Coord, error) {
	var u model.LocationUpdate
	if err := json.Unmarshal(msg, &u); err != nil {
		return model.Coord{}, ErrInvalidLocation
	}
	c, ok := u.Coord()
	if !ok {
		return model.Coord{}, ErrInvalidLocation
	}
	return c, nil
}
