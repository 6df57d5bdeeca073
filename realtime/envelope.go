package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/oxy-storefront/common"
)

// Event names exchanged over a scene channel.
const (
	EventJoinScene       = "join-scene"
	EventLeaveScene      = "leave-scene"
	EventPositionUpdate  = "position-update"
	EventPositionChanged = "position-changed"
	EventUserCount       = "user-count"
	EventMaxUsers        = "max-users"
	EventSceneFull       = "scene-full"

	// Lifecycle events raised by the channel itself.
	EventConnect      = "connect"
	EventDisconnect   = "disconnect"
	EventConnectError = "connect_error"
)

// DefaultMaxUsers is the room capacity assumed until the hub says otherwise.
const DefaultMaxUsers = 2

// Envelope is the frame every message travels in: {"event": "...", "data": {...}}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ScenePayload names a room. Sent with join-scene and leave-scene.
type ScenePayload struct {
	SceneID string `json:"sceneId"`
}

// PositionUpdate is the outbound form of a committed drag.
type PositionUpdate struct {
	SceneID  string          `json:"sceneId"`
	ModelID  string          `json:"modelId"`
	Position common.Position `json:"position"`
}

// PositionChanged is relayed to every other viewer of the room.
type PositionChanged struct {
	ModelID  string          `json:"modelId"`
	Position common.Position `json:"position"`
}

type UserCount struct {
	Count int `json:"count"`
}

type MaxUsers struct {
	Max int `json:"max"`
}

// SceneFull is sent instead of joining when the room is at capacity.
type SceneFull struct {
	Message string `json:"message"`
}

// ErrorPayload carries the reason of a connect_error.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Encode wraps payload in an Envelope and serializes it.
//
// Parameters:
//   - event: the event name
//   - payload: any JSON-serializable value, or nil for an empty data field
//
// Returns:
//   - []byte: the frame
//   - error: error if payload cannot be serialized
func Encode(event string, payload any) ([]byte, error) {
	env := Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", event, err)
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// Decode parses one frame.
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode frame: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, ErrMissingEvent
	}
	return env, nil
}

// DecodeData unmarshals the data field of an envelope into T.
func DecodeData[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	err := json.Unmarshal(data, &v)
	return v, err
}
