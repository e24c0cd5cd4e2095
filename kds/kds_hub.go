package kds

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/food-kiosk-api/models"
	"github.com/yeremiapane/food-kiosk-api/utils"
)

// Event types
const (
	EventFoodUpdate  = "food_update"
	EventOrderUpdate = "order_update"
)

const (
	writeWait = 5 * time.Second
	// messages queued per screen before it is considered stalled
	sendBuffer = 32
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// FoodState is what a kiosk screen needs to grey out or restore a menu tile.
type FoodState struct {
	FoodID      uint   `json:"food_id"`
	Name        string `json:"name"`
	Stock       int    `json:"stock"`
	IsAvailable bool   `json:"is_available"`
}

// OrderState is the running order shown on the kiosk and the pickup board.
type OrderState struct {
	OrderID     uint   `json:"order_id"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
}

// client is one connected screen. Only its writer goroutine touches conn for
// writing; Broadcast just queues onto send.
type client struct {
	conn   *websocket.Conn
	screen string
	send   chan []byte
}

// Hub menampung semua layar kiosk yang terhubung dan menyiarkan perubahan menu/order.
type Hub struct {
	clients  map[*client]bool
	mutex    sync.Mutex
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

// NewHub builds a hub. allowedOrigin "*" accepts any origin.
func NewHub(allowedOrigin string) *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
		log: utils.Component("kds_hub"),
	}
}

// ServeWS upgrades the request and keeps the connection registered until the
// client goes away. The screen name comes from ?screen= and defaults to "kiosk".
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	screen := r.URL.Query().Get("screen")
	if screen == "" {
		screen = "kiosk"
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	c := &client{conn: conn, screen: screen, send: make(chan []byte, sendBuffer)}
	h.register(c)
	go h.writePump(c)

	// Screens never send anything useful; reading detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(c)
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) FoodChanged(food models.FoodItem) {
	h.Broadcast(Message{
		Event: EventFoodUpdate,
		Data: FoodState{
			FoodID:      food.ID,
			Name:        food.Name,
			Stock:       food.Stock,
			IsAvailable: food.IsAvailable,
		},
	})
}

func (h *Hub) OrderChanged(order models.Order) {
	h.Broadcast(Message{
		Event: EventOrderUpdate,
		Data: OrderState{
			OrderID:     order.ID,
			DisplayName: order.DisplayName(),
			Status:      order.Status,
			TotalAmount: utils.FormatAmount(order.TotalAmount),
		},
	})
}

// Broadcast queues msg for every connected screen and returns without waiting
// for any socket. A screen whose queue is full is dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("Error marshaling message")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.log.Debugf("Broadcasting %s to %d clients", msg.Event, len(h.clients))
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warnf("Dropping stalled %s screen", c.screen)
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// writePump drains one screen's queue. It exits when the queue is closed or a
// write fails; closing conn also ends the read loop in ServeWS.
func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.WithError(err).Warnf("Write to %s screen failed", c.screen)
			h.unregister(c)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *Hub) register(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[c] = true
	h.log.Infof("Screen %s connected (%d total)", c.screen, len(h.clients))
}

// unregister is safe to call more than once; send is closed exactly once.
func (h *Hub) unregister(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}
