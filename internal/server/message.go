package server

import (
	"encoding/json"
	"time"

	"github.com/Gumball-code/ggpoker/internal/table"
)

// MessageType identifies a WebSocket message.
type MessageType string

const (
	// Client to server commands
	MessageTypeSetUsername MessageType = "set_username"
	MessageTypeBecomeOwner MessageType = "become_owner"
	MessageTypeSit         MessageType = "sit"
	MessageTypeStand       MessageType = "stand"
	MessageTypeKick        MessageType = "kick"
	MessageTypeStartHand   MessageType = "start_hand"
	MessageTypeAction      MessageType = "action"

	// Server to client messages
	MessageTypeWelcome MessageType = "welcome"
	MessageTypeAck     MessageType = "ack"
	MessageTypeState   MessageType = "state"
)

// Message is the wire envelope. Data carries the payload for the given
// type; RequestID correlates a command with its ack.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server payloads

type SetUsernameData struct {
	Name string `json:"name"`
}

type SitData struct {
	Seat  int `json:"seat"`
	BuyIn int `json:"buyIn"`
}

type KickData struct {
	Seat int `json:"seat"`
}

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Server → Client payloads

type WelcomeData struct {
	ClientID string `json:"clientId"`
}

type AckData struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// StateData is the per-viewer projection broadcast after every mutation.
type StateData = table.View
