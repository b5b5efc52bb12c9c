package websocket

import (
	"encoding/json"

	"github.com/dropfourhq/dropfour-backend/internal/entity"
)

const (
	payloadActionConnect   = "connect"
	payloadActionGameNew   = "game:new"
	payloadActionGameJoin  = "game:join"
	payloadActionGameTurn  = "game:turn"
	payloadActionGameLeave = "game:leave"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the request and response body of every action.
type Payload struct {
	Player     *entity.Player `json:"player,omitempty"`
	Game       *entity.Game   `json:"game,omitempty"`
	Column     *int           `json:"column,omitempty"`
	Difficulty string         `json:"difficulty,omitempty"`
	Error      string         `json:"error,omitempty"`
}
