package server

import "encoding/json"

// MessageType names the kind of a websocket message.
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message is the websocket envelope.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MovePayload carries a move in coordinate notation ("e2e4", "e7e8q").
type MovePayload struct {
	Move string `json:"move"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func newMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}
