package server

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	maxUsernameLen = 32
)

// Connection wraps one client's WebSocket. Outgoing messages go through a
// buffered channel drained by the write pump; incoming commands are
// dispatched from the read pump into the table, which serializes them.
type Connection struct {
	conn     *websocket.Conn
	send     chan *Message
	clientID string
	server   *Server
	logger   *log.Logger
	ctx      context.Context
	cancel   context.CancelFunc

	mu       sync.RWMutex
	username string

	closeOnce sync.Once
}

// NewConnection creates a connection wrapper for an upgraded socket.
func NewConnection(conn *websocket.Conn, clientID string, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:     conn,
		send:     make(chan *Message, 256),
		clientID: clientID,
		server:   server,
		logger:   logger.WithPrefix("conn").With("client", clientID),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close shuts the connection down. Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// ClientID returns the server-assigned client identifier.
func (c *Connection) ClientID() string {
	return c.clientID
}

// Username returns the display name set by the client, or "".
func (c *Connection) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

func (c *Connection) setUsername(name string) {
	c.mu.Lock()
	c.username = name
	c.mu.Unlock()
}

// SendMessage queues a message for the client. A full buffer closes the
// connection rather than blocking the sender.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) writePump() {
	defer func() { _ = c.Close() }()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.server.disconnected(c)
		_ = c.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read failed", "error", err)
			}
			return
		}
		c.dispatch(&msg)
	}
}

// dispatch routes one client command into the table and acks the result.
func (c *Connection) dispatch(msg *Message) {
	tbl := c.server.table
	var err error

	switch msg.Type {
	case MessageTypeSetUsername:
		var data SetUsernameData
		if json.Unmarshal(msg.Data, &data) != nil {
			err = errBadPayload
			break
		}
		name := strings.TrimSpace(data.Name)
		if name == "" || len(name) > maxUsernameLen {
			err = errInvalidUsername
			break
		}
		c.setUsername(name)
		err = tbl.Rename(c.clientID, name)

	case MessageTypeBecomeOwner:
		err = tbl.ClaimOwner(c.clientID)

	case MessageTypeSit:
		var data SitData
		if json.Unmarshal(msg.Data, &data) != nil {
			err = errBadPayload
			break
		}
		err = tbl.Sit(c.clientID, c.Username(), data.Seat, data.BuyIn)

	case MessageTypeStand:
		err = tbl.Stand(c.clientID)

	case MessageTypeKick:
		var data KickData
		if json.Unmarshal(msg.Data, &data) != nil {
			err = errBadPayload
			break
		}
		err = tbl.Kick(c.clientID, data.Seat)

	case MessageTypeStartHand:
		err = tbl.StartHand(c.clientID)

	case MessageTypeAction:
		var data ActionData
		if json.Unmarshal(msg.Data, &data) != nil {
			err = errBadPayload
			break
		}
		err = tbl.Action(c.clientID, data.Action, data.Amount)

	default:
		err = errUnknownCommand
	}

	c.ack(msg.RequestID, err)
}

func (c *Connection) ack(requestID string, err error) {
	data := AckData{OK: err == nil}
	if err != nil {
		data.Error = errorKind(err)
	}
	msg, merr := NewMessage(MessageTypeAck, data)
	if merr != nil {
		c.logger.Error("failed to build ack", "error", merr)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}
