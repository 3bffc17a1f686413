package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeSubscribeTopic   = "subscribe_topic"
	TypeUnsubscribeTopic = "unsubscribe_topic"
	TypeRequestProgress  = "request_progress"
	TypePing             = "ping"

	// Server -> Client
	TypeProgressUpdate = "progress_update"
	TypeError          = "error"
	TypePong           = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// Client Messages (incoming)

type SubscribeTopicPayload struct {
	TopicSlug string `json:"topic_slug"`
}

type RequestProgressPayload struct {
	TopicSlug string `json:"topic_slug"`
	CurrentID string `json:"current_id,omitempty"`
}

// Server Messages (outgoing)

// ProgressUpdatePayload carries the sidebar summary of one topic after a
// progress change. Event is empty for replies to request_progress.
type ProgressUpdatePayload struct {
	TopicSlug    string         `json:"topic_slug"`
	Event        string         `json:"event,omitempty"`
	ExerciseID   string         `json:"exercise_id,omitempty"`
	Items        []ProgressItem `json:"items"`
	Correct      int            `json:"correct"`
	Incorrect    int            `json:"incorrect"`
	Total        int            `json:"total"`
	HasAnyResult bool           `json:"has_any_result"`
}

type ProgressItem struct {
	ExerciseID string `json:"exercise_id"`
	Position   int    `json:"position"`
	Label      string `json:"label"`
	Status     string `json:"status"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
