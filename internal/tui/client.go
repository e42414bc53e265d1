package tui

import (
	"fmt"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/Gumball-code/ggpoker/internal/server"
)

// Client is the WebSocket side of the TUI: it dials the server, pushes
// incoming messages onto a channel for the Bubble Tea loop and sends
// commands with fresh request ids.
type Client struct {
	conn     *websocket.Conn
	Incoming chan *server.Message
	nextReq  atomic.Uint64
}

// Dial connects to the server's /ws endpoint.
func Dial(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Client{
		conn:     conn,
		Incoming: make(chan *server.Message, 64),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.Incoming)
	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.Incoming <- &msg
	}
}

// Send issues a command and returns the request id used.
func (c *Client) Send(msgType server.MessageType, data interface{}) (string, error) {
	msg, err := server.NewMessage(msgType, data)
	if err != nil {
		return "", err
	}
	msg.RequestID = fmt.Sprintf("r%d", c.nextReq.Add(1))
	if err := c.conn.WriteJSON(msg); err != nil {
		return "", err
	}
	return msg.RequestID, nil
}

// Close tears the connection down.
func (c *Client) Close() error {
	return c.conn.Close()
}
