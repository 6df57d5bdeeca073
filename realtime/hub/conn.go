package hub

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/realtime"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// connection is one viewer attached to the hub.
type connection struct {
	id   string
	hub  *Hub
	ws   *websocket.Conn
	send chan []byte

	// sceneID is written only from the read goroutine, under the hub lock.
	sceneID string

	closeOnce sync.Once
	done      chan struct{}
}

// emit queues one event. A connection that cannot keep up is closed.
func (c *connection) emit(event string, payload any) {
	frame, err := realtime.Encode(event, payload)
	if err != nil {
		log.Printf("[Hub] encode %s for %s: %v", event, c.id, err)
		return
	}
	select {
	case c.send <- frame:
	case <-c.done:
	default:
		log.Printf("[Hub] send buffer full for %s, closing", c.id)
		c.close()
	}
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// readPump hands every inbound frame to the hub until the socket fails.
func (c *connection) readPump() {
	defer func() {
		c.hub.disconnect(c)
		c.close()
		_ = c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Hub] read %s: %v", c.id, err)
			}
			return
		}
		env, err := realtime.Decode(frame)
		if err != nil {
			log.Printf("[Hub] dropping frame from %s: %v", c.id, err)
			continue
		}
		c.hub.handle(c, env)
	}
}

// writePump is the only writer of the socket.
func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
