/*
Package collab contains the core logic for real-time collaborative coding sessions.

This file defines the typed event vocabulary carried over the duplex channel:
the envelope shape shared by inbound and outbound traffic, and the payload
structures for each event type.
*/
package collab

import (
	"encoding/json"
	"time"

	"codesync/internal/pkg/randx"
)

// EventType identifies the kind of event carried by an envelope.
type EventType string

// Inbound event types sent by clients.
const (
	EventJoin           EventType = "join"
	EventLeave          EventType = "leave"
	EventCodeChange     EventType = "code_change"
	EventCursorMove     EventType = "cursor_move"
	EventLanguageChange EventType = "language_change"
	EventChatMessage    EventType = "chat_message"
	EventExecuteCode    EventType = "execute_code"
	EventVoiceAudio     EventType = "voice_audio"
)

// Outbound event types produced by the server.
const (
	EventRoomState  EventType = "room_state"
	EventUserJoined EventType = "user_joined"
	EventUserLeft   EventType = "user_left"
	EventError      EventType = "error"
)

// Envelope is the wire shape of every event, inbound and outbound.
// Inbound envelopes carry only Type and Payload; the server stamps ID,
// RoomID, and Timestamp on everything it emits.
type Envelope struct {
	ID        string          `json:"id,omitempty"`
	Type      EventType       `json:"type"`
	RoomID    string          `json:"room_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// NewEnvelope constructs an outbound envelope, marshaling the payload and
// stamping a message id and timestamp.
func NewEnvelope(eventType EventType, roomID string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		ID:        randx.MessageID(),
		Type:      eventType,
		RoomID:    roomID,
		Payload:   raw,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// JoinPayload is the inbound payload of a join event.
type JoinPayload struct {
	UserName string `json:"user_name"`
}

// CodeChangePayload carries a full replacement of the shared code buffer.
// Outbound envelopes include the originating user id.
type CodeChangePayload struct {
	Code   string `json:"code"`
	UserID string `json:"user_id,omitempty"`
}

// CursorMovePayload carries an opaque cursor position. The position is never
// interpreted by the server; outbound envelopes add the sender's identity so
// peers can render the cursor.
type CursorMovePayload struct {
	Position json.RawMessage `json:"position"`
	UserID   string          `json:"user_id,omitempty"`
	UserName string          `json:"user_name,omitempty"`
	Color    string          `json:"color,omitempty"`
}

// LanguageChangePayload carries a language switch for the room.
type LanguageChangePayload struct {
	Language string `json:"language"`
	UserID   string `json:"user_id,omitempty"`
}

// ChatMessagePayload carries a chat message and, outbound, the sender's identity.
type ChatMessagePayload struct {
	Message  string `json:"message"`
	UserID   string `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
	Color    string `json:"color,omitempty"`
}

// VoiceAudioPayload carries encoded voice audio as text within the envelope.
type VoiceAudioPayload struct {
	AudioData string `json:"audio_data"`
	UserID    string `json:"user_id,omitempty"`
}

// UserEventPayload is the outbound payload of user_joined and user_left events.
type UserEventPayload struct {
	User User `json:"user"`
}

// RoomStatePayload is sent to a joiner immediately after a successful join.
type RoomStatePayload struct {
	Room        RoomSnapshot `json:"room"`
	CurrentUser User         `json:"current_user"`
}

// ErrorPayload is the outbound payload of an error event, sent to the
// offending connection only.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
