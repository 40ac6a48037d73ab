// Package server streams world snapshots to websocket observers and lets
// them steer the player.
package server

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vl4deee11/lifesim/geom"
	"github.com/vl4deee11/lifesim/sim"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type Client struct {
	ID   uuid.UUID
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *Client) Send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Command is a control message sent by a client. X and Y locate add_food
// and add_ant; Food is the stored food of an added ant and defaults to half
// the ant saturation.
type Command struct {
	Type string   `json:"type"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Food *float64 `json:"food,omitempty"`
}

// Hello is the first message a client receives.
type Hello struct {
	Type   string  `json:"type"`
	RunID  string  `json:"run_id"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
	Tick   int     `json:"tick"`
}

type Hub struct {
	player *sim.Player

	mu      sync.Mutex
	clients map[uuid.UUID]*Client
}

func NewHub(p *sim.Player) *Hub {
	return &Hub{
		player:  p,
		clients: make(map[uuid.UUID]*Client),
	}
}

// Run forwards every snapshot of the player to all connected clients until
// ctx is done. Clients that fail to receive are dropped.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case state := <-h.player.StateChan:
			h.broadcast(state)
		}
	}
}

func (h *Hub) broadcast(v interface{}) {
	h.mu.Lock()
	list := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		if err := c.Send(v); err != nil {
			log.Printf("[hub] client %s send error: %v", c.ID, err)
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.ID]
	delete(h.clients, c.ID)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	list := h.clients
	h.clients = make(map[uuid.UUID]*Client)
	h.mu.Unlock()
	for _, c := range list {
		c.conn.Close()
	}
}

// ClientsCount returns the number of connected clients.
func (h *Hub) ClientsCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[hub] upgrade:", err)
		return
	}
	client := &Client{ID: uuid.New(), conn: conn}
	defer h.drop(client)

	ctx := r.Context()
	var hello Hello
	err = h.player.Do(ctx, func(w *sim.World) error {
		hello = Hello{
			Type:   "config",
			RunID:  w.RunID.String(),
			Width:  w.Bounds().Width(),
			Height: w.Bounds().Height(),
			Tick:   w.CurrentTick(),
		}
		return nil
	})
	if err != nil {
		log.Printf("[hub] client %s: %v", client.ID, err)
		return
	}
	if err := client.Send(hello); err != nil {
		return
	}

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
	log.Printf("[hub] client %s connected", client.ID)

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			break
		}
		if err := h.handle(ctx, cmd); err != nil {
			log.Printf("[hub] client %s %s: %v", client.ID, cmd.Type, err)
			_ = client.Send(map[string]string{"error": err.Error()})
			continue
		}
		_ = client.Send(map[string]string{"ok": "received"})
	}
	log.Printf("[hub] client %s disconnected", client.ID)
}

func (h *Hub) handle(ctx context.Context, cmd Command) error {
	switch cmd.Type {
	case "add_food":
		return h.player.Do(ctx, func(w *sim.World) error {
			return w.AddDweller(w.NewFood(geom.Pt(cmd.X, cmd.Y), w.CurrentTick()))
		})
	case "add_ant":
		return h.player.Do(ctx, func(w *sim.World) error {
			food := w.Traits(sim.Ant).FoodSaturation / 2
			if cmd.Food != nil {
				food = *cmd.Food
			}
			return w.AddDweller(w.NewAnt(geom.Pt(cmd.X, cmd.Y), food))
		})
	case "play":
		h.player.Play()
	case "stop":
		h.player.Stop()
	case "step":
		return h.player.Step(ctx)
	case "reset":
		return h.player.Reset(ctx)
	default:
		return errors.Errorf("unknown command %q", cmd.Type)
	}
	return nil
}
