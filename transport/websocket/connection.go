package websocket

import (
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// connection is one player's socket. The player id lives as long as the socket.
type connection struct {
	playerID string
	conn     *ws.Conn
	send     chan []byte

	closeOnce sync.Once
}

func newConnection(playerID string, conn *ws.Conn) *connection {
	return &connection{
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
	}
}

// close stops the write pump; it is safe to call more than once.
func (that *connection) close() {
	that.closeOnce.Do(func() {
		close(that.send)
	})
}

// readPump feeds every inbound frame to process until the socket fails or closes.
func (that *connection) readPump(process func(data []byte)) error {
	that.conn.SetReadLimit(maxMessageSize)
	if err := that.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}

	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			return err
		}

		process(data)
	}
}

// writePump is the only writer of the socket.
func (that *connection) writePump() error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}

			if !ok {
				_ = that.conn.WriteMessage(ws.CloseMessage, []byte{})
				return nil
			}

			if err := that.conn.WriteMessage(ws.TextMessage, message); err != nil {
				return err
			}
		case <-ticker.C:
			if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}

			if err := that.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}
