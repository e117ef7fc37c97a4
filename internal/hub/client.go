package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Mummayiz/Multi-user-Chat-app/internal/config"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/log"
)

const defaultSendBuffer = 256

// Client is one live transport-level session. The registry owns the
// connection's state; Client only carries the socket and its outbound
// queue.
type Client struct {
	ID   string
	Send chan []byte

	conn *websocket.Conn
	cfg  config.WebSocketConfig

	closeOnce sync.Once
	done      chan struct{}
}

func NewClient(id string, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	buf := cfg.SendBuffer
	if buf <= 0 {
		buf = defaultSendBuffer
	}
	return &Client{
		ID:   id,
		Send: make(chan []byte, buf),
		conn: conn,
		cfg:  cfg,
		done: make(chan struct{}),
	}
}

// Close shuts the transport down. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// ReadPump reads inbound frames and hands them to handle. It returns
// when the connection drops; closed is invoked exactly once on the way
// out so the caller can turn the drop into a disconnect event.
func (c *Client) ReadPump(handle func(*Client, []byte), closed func(*Client)) {
	defer func() {
		closed(c)
		c.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.L().Debug().Err(err).Str(log.FieldClientID, c.ID).Msg("websocket read error")
			}
			return
		}

		handle(c, message)
	}
}

// WritePump drains the send queue onto the socket and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return

		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON queues a single frame for this client only. The send is
// non-blocking; a full queue drops the frame.
func (c *Client) SendJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	select {
	case c.Send <- data:
	default:
		log.L().Debug().Str(log.FieldClientID, c.ID).Msg("send queue full, frame dropped")
	}
	return nil
}
