package websocket

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

// Message is an inbound frame: {"event": "...", "payload": {...}}.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	PlayerName string `json:"playerName"`
	RoomCode   string `json:"roomCode"`
	Difficulty string `json:"difficulty"`
	Position   *int   `json:"position"`
	Choice     string `json:"choice"`
}

// decodeEvent turns a frame from playerID into an engine event.
func decodeEvent(playerID string, data []byte) (usecase.Event, error) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		return usecase.Event{}, fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
	}

	kind := usecase.EventKind(message.Event)
	if kind == usecase.EventDisconnect {
		// only the server reports a disconnect
		return usecase.Event{}, fmt.Errorf("%w: %q", apperror.ErrUnknownEvent, message.Event)
	}

	payload, err := decodePayload(message.Payload)
	if err != nil {
		return usecase.Event{}, err
	}

	event := usecase.Event{
		Kind:       kind,
		PlayerID:   playerID,
		PlayerName: payload.PlayerName,
		RoomCode:   payload.RoomCode,
		Difficulty: payload.Difficulty,
		Choice:     payload.Choice,
	}

	if kind == usecase.EventMakeMove {
		if payload.Position == nil {
			return usecase.Event{}, fmt.Errorf("%w: position is required", apperror.ErrInvalidPayload)
		}

		event.Position = *payload.Position
	}

	return event, nil
}

// decodePayload also accepts a bare JSON string as the player name.
func decodePayload(raw json.RawMessage) (Payload, error) {
	var payload Payload

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return payload, nil
	}

	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &payload.PlayerName); err != nil {
			return Payload{}, fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
		}

		return payload, nil
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
	}

	return payload, nil
}

func encodeMessage(message usecase.Message) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %w", message.Event, err)
	}

	return data, nil
}
