package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultWriteWait  = 10 * time.Second
	defaultPongWait   = 60 * time.Second
	defaultSendBuffer = 64
	maxMessageSize    = 64 * 1024
)

// wsChannel is the gorilla/websocket implementation of Channel.
type wsChannel struct {
	mu       sync.Mutex
	handlers map[string][]Handler

	dialer     *websocket.Dialer
	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
	sendBuffer int

	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	closed bool

	closeOnce      sync.Once
	disconnectOnce sync.Once
}

var _ Channel = &wsChannel{}

// NewWSChannel creates a websocket Channel. It can be connected once; create a new one per session.
//
// Parameters:
//   - options: functional options to configure the channel
//
// Returns:
//   - Channel: the channel
func NewWSChannel(options ...WSChannelBuilderOption) Channel {
	c := &wsChannel{
		handlers:   make(map[string][]Handler),
		dialer:     websocket.DefaultDialer,
		writeWait:  defaultWriteWait,
		pongWait:   defaultPongWait,
		sendBuffer: defaultSendBuffer,
		done:       make(chan struct{}),
	}
	for _, option := range options {
		option(c)
	}
	if c.pingPeriod <= 0 || c.pingPeriod >= c.pongWait {
		c.pingPeriod = (c.pongWait * 9) / 10
	}
	return c
}

func (c *wsChannel) On(event string, handler Handler) {
	if handler == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], handler)
}

func (c *wsChannel) Connect(ctx context.Context, url string) error {
	c.mu.Lock()
	if c.conn != nil || c.closed {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.mu.Unlock()

	conn, _, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		c.dispatchError(err)
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.send = make(chan []byte, c.sendBuffer)
	c.mu.Unlock()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(c.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	go c.writePump(conn)
	c.dispatch(EventConnect, nil)
	go c.readPump(conn)
	return nil
}

func (c *wsChannel) Emit(event string, payload any) error {
	frame, err := Encode(event, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.conn == nil {
		return ErrNotConnected
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *wsChannel) Disconnect() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
	})
	return nil
}

// readPump decodes inbound frames until the connection fails or is closed.
func (c *wsChannel) readPump(conn *websocket.Conn) {
	defer func() {
		_ = c.Disconnect()
		_ = conn.Close()
		c.disconnectOnce.Do(func() {
			c.dispatch(EventDisconnect, nil)
		})
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Realtime] read failed: %v", err)
			}
			return
		}
		env, err := Decode(frame)
		if err != nil {
			log.Printf("[Realtime] dropping frame: %v", err)
			continue
		}
		c.dispatch(env.Event, env.Data)
	}
}

// writePump owns every write to the connection: queued frames, keepalive pings and the close frame.
func (c *wsChannel) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Printf("[Realtime] write failed: %v", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.flush(conn)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.writeWait))
			return
		}
	}
}

// flush writes frames queued before Disconnect, such as a final leave-scene.
func (c *wsChannel) flush(conn *websocket.Conn) {
	for {
		select {
		case frame := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *wsChannel) dispatch(event string, data json.RawMessage) {
	c.mu.Lock()
	handlers := append([]Handler(nil), c.handlers[event]...)
	c.mu.Unlock()
	for _, h := range handlers {
		h(data)
	}
}

func (c *wsChannel) dispatchError(err error) {
	data, _ := json.Marshal(ErrorPayload{Message: err.Error()})
	c.dispatch(EventConnectError, data)
}
