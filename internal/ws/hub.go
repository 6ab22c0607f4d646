package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"ia-papeleria/internal/model"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub pushes catalog changes to every connected dashboard.
type Hub struct {
	Clients    map[Conn]bool
	Register   chan Conn
	Unregister chan Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[Conn]bool),
		Register:   make(chan Conn),
		Unregister: make(chan Conn),
		Broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Debug().Msg("New WS client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount is the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

func (h *Hub) NotifySale(ctx context.Context, ev model.SaleEvent) {
	h.publish(ctx, map[string]interface{}{
		"type":    "stock_update",
		"action":  model.EventSaleRecorded,
		"sale":    ev,
		"message": fmt.Sprintf("Venta: %d x %s (quedan %d)", ev.Quantity, ev.ProductName, ev.RemainingStock),
	})
}

func (h *Hub) NotifyStock(ctx context.Context, ev model.StockEvent) {
	h.publish(ctx, map[string]interface{}{
		"type":    "stock_update",
		"action":  ev.Action,
		"product": ev,
		"message": fmt.Sprintf("%s: %s %d -> %d", ev.Actor, ev.Name, ev.OldStock, ev.NewStock),
	})
}

func (h *Hub) publish(ctx context.Context, payload map[string]interface{}) {
	msg, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode ws payload")
		return
	}
	// never wait on a stopped or stalled hub
	select {
	case h.Broadcast <- msg:
	case <-ctx.Done():
	default:
		log.Warn().Int("queued", len(h.Broadcast)).Msg("WS broadcast queue full, dropping event")
	}
}
