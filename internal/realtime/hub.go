// Package realtime fans out tracking events to connected admin
// dashboards over websockets. Events travel through Postgres
// LISTEN/NOTIFY so every server instance sees every event.
package realtime

import (
	"time"

	"github.com/gofiber/contrib/v3/websocket"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/pagepulse/pagepulse/internal/logging"
)

type Hub struct {
	register    chan *subscriber
	unregister  chan *subscriber
	broadcast   chan []byte
	clientCount chan chan int
	subscribers map[*subscriber]struct{}
}

type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

type subscriber struct {
	hub  *Hub
	conn wsConn
	send chan []byte
}

type pingTicker interface {
	C() <-chan time.Time
	Stop()
}

type realPingTicker struct {
	*time.Ticker
}

func (t *realPingTicker) C() <-chan time.Time {
	return t.Ticker.C
}

var pingTickerFactory = func() pingTicker {
	return &realPingTicker{time.NewTicker(30 * time.Second)}
}

func NewHub() *Hub {
	h := &Hub{
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber),
		broadcast:   make(chan []byte, 512),
		clientCount: make(chan chan int),
		subscribers: make(map[*subscriber]struct{}),
	}

	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case sub := <-h.register:
			h.subscribers[sub] = struct{}{}
		case sub := <-h.unregister:
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.send)
				_ = sub.conn.Close()
			}
		case message := <-h.broadcast:
			for sub := range h.subscribers {
				select {
				case sub.send <- message:
				default:
					close(sub.send)
					delete(h.subscribers, sub)
				}
			}
		case response := <-h.clientCount:
			response <- len(h.subscribers)
		}
	}
}

func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		logging.L().Warn("dropping realtime payload", zap.String("reason", "slow consumers"))
	}
}

// SubscriberCount returns the number of connected dashboards.
func (h *Hub) SubscriberCount() int {
	response := make(chan int)
	h.clientCount <- response
	return <-response
}

func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sub := &subscriber{
			hub:  h,
			conn: conn,
			send: make(chan []byte, 512),
		}

		h.register <- sub

		go sub.writePump()
		sub.readPump()
	})
}

func (s *subscriber) readPump() {
	defer func() {
		s.hub.unregister <- s
	}()

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *subscriber) writePump() {
	ticker := pingTickerFactory()
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C():
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
