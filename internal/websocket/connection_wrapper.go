package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// connectionWrapper adapts *websocket.Conn to Connection
type connectionWrapper struct {
	conn *websocket.Conn
}

func newConnectionWrapper(conn *websocket.Conn) Connection {
	return &connectionWrapper{conn: conn}
}

func (c *connectionWrapper) WriteMessage(messageType int, data []byte) error {
	return c.conn.WriteMessage(messageType, data)
}

func (c *connectionWrapper) ReadMessage() (int, []byte, error) {
	return c.conn.ReadMessage()
}

func (c *connectionWrapper) Close() error { return c.conn.Close() }

func (c *connectionWrapper) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

func (c *connectionWrapper) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}

func (c *connectionWrapper) SetReadLimit(limit int64) { c.conn.SetReadLimit(limit) }

func (c *connectionWrapper) SetPongHandler(h func(string) error) { c.conn.SetPongHandler(h) }

func (c *connectionWrapper) RemoteAddr() string { return c.conn.RemoteAddr().String() }
