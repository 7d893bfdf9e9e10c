/*
Package collab contains the core logic for real-time collaborative coding sessions.

This file implements the event router: decoding inbound envelopes from a client,
dispatching them to the corresponding registry/multiplexer operation, and
triggering the broadcast fan-out with the resulting outbound envelope.
*/
package collab

import (
	"encoding/json"

	"codesync/internal/pkg/errs"
)

// processInbound decodes one raw inbound message and dispatches it by event
// type. Malformed envelopes yield an error event back to the sender only; the
// connection stays open and nothing is broadcast.
func (c *Client) processInbound(messageBytes []byte) {
	var env Envelope
	if err := json.Unmarshal(messageBytes, &env); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent an undecodable envelope.")
		c.sendError(errs.NewError(errs.ErrInvalidEnvelope))
		return
	}

	if env.Type == EventJoin {
		c.handleJoin(env.Payload)
		return
	}

	// Every other event requires the Joined state.
	if !c.joined {
		c.logger.Warn().Str("event_type", string(env.Type)).Msg("Event received before join.")
		c.sendError(errs.NewError(errs.ErrNotJoined))
		return
	}

	switch env.Type {
	case EventLeave:
		c.handleLeave()

	case EventCodeChange:
		c.handleCodeChange(env.Payload)

	case EventCursorMove:
		c.handleCursorMove(env.Payload)

	case EventLanguageChange:
		c.handleLanguageChange(env.Payload)

	case EventChatMessage:
		c.handleChatMessage(env.Payload)

	case EventExecuteCode:
		c.handleExecuteCode(env.Payload)

	case EventVoiceAudio:
		c.handleVoiceAudio(env.Payload)

	default:
		c.logger.Warn().Str("event_type", string(env.Type)).Msg("Client sent unsupported event type.")
		c.sendError(errs.NewError(errs.ErrUnsupportedEvent))
	}
}

// handleJoin establishes the connection's identity in its room. A repeated
// join on an already-joined connection resolves as a reconnect and returns the
// same user. The joiner receives the full room state; everyone else is told a
// user joined.
func (c *Client) handleJoin(payloadBytes json.RawMessage) {
	var payload JoinPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.sendError(errs.NewError(errs.ErrInvalidEnvelope))
		return
	}

	if payload.UserName == "" {
		c.sendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	user, customErr := c.manager.Join(c.roomID, payload.UserName, c)
	if customErr != nil {
		c.sendError(customErr)
		return
	}

	c.user = user
	c.joined = true

	if snap, ok := c.manager.GetRoomSnapshot(c.roomID); ok {
		c.sendEnvelope(EventRoomState, RoomStatePayload{Room: snap, CurrentUser: user})
	}

	env, err := NewEnvelope(EventUserJoined, c.roomID, UserEventPayload{User: user})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build user_joined envelope.")
		return
	}
	c.manager.Broadcast(c.roomID, env, c)
}

// handleLeave processes an explicit leave. Detached is terminal: the
// connection is closed and no further events are processed.
func (c *Client) handleLeave() {
	c.detach()
	c.Close()
}

// handleCodeChange replaces the room's shared code buffer and fans the change
// out to every other participant.
func (c *Client) handleCodeChange(payloadBytes json.RawMessage) {
	var payload CodeChangePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.sendError(errs.NewError(errs.ErrInvalidEnvelope))
		return
	}

	if !c.manager.UpdateCode(c.roomID, payload.Code) {
		c.sendError(errs.NewError(errs.ErrRoomNotFound))
		return
	}

	env, err := NewEnvelope(EventCodeChange, c.roomID, CodeChangePayload{
		Code:   payload.Code,
		UserID: c.user.ID,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build code_change envelope.")
		return
	}
	c.manager.Broadcast(c.roomID, env, c)
}

// handleCursorMove relays an ephemeral cursor position. No room state changes.
func (c *Client) handleCursorMove(payloadBytes json.RawMessage) {
	var payload CursorMovePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.sendError(errs.NewError(errs.ErrInvalidEnvelope))
		return
	}

	env, err := NewEnvelope(EventCursorMove, c.roomID, CursorMovePayload{
		Position: payload.Position,
		UserID:   c.user.ID,
		UserName: c.user.Name,
		Color:    c.user.Color,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build cursor_move envelope.")
		return
	}
	c.manager.Broadcast(c.roomID, env, c)
}

// handleLanguageChange switches the room's language and notifies the other
// participants.
func (c *Client) handleLanguageChange(payloadBytes json.RawMessage) {
	var payload LanguageChangePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.Language == "" {
		c.sendError(errs.NewError(errs.ErrInvalidEnvelope))
		return
	}

	if !c.manager.UpdateLanguage(c.roomID, payload.Language) {
		c.sendError(errs.NewError(errs.ErrRoomNotFound))
		return
	}

	env, err := NewEnvelope(EventLanguageChange, c.roomID, LanguageChangePayload{
		Language: payload.Language,
		UserID:   c.user.ID,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build language_change envelope.")
		return
	}
	c.manager.Broadcast(c.roomID, env, c)
}

// handleChatMessage relays a chat message with the sender's identity attached.
func (c *Client) handleChatMessage(payloadBytes json.RawMessage) {
	var payload ChatMessagePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.sendError(errs.NewError(errs.ErrInvalidEnvelope))
		return
	}

	env, err := NewEnvelope(EventChatMessage, c.roomID, ChatMessagePayload{
		Message:  payload.Message,
		UserID:   c.user.ID,
		UserName: c.user.Name,
		Color:    c.user.Color,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build chat_message envelope.")
		return
	}
	c.manager.Broadcast(c.roomID, env, c)
}

// handleExecuteCode relays an execution result produced by the external
// execution service. The payload is opaque to the coordinator and is passed
// through verbatim.
func (c *Client) handleExecuteCode(payloadBytes json.RawMessage) {
	if len(payloadBytes) == 0 {
		c.sendError(errs.NewError(errs.ErrInvalidEnvelope))
		return
	}

	env, err := NewEnvelope(EventExecuteCode, c.roomID, json.RawMessage(payloadBytes))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build execute_code envelope.")
		return
	}
	c.manager.Broadcast(c.roomID, env, c)
}

// handleVoiceAudio relays encoded voice audio to the other participants.
func (c *Client) handleVoiceAudio(payloadBytes json.RawMessage) {
	var payload VoiceAudioPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.AudioData == "" {
		c.sendError(errs.NewError(errs.ErrInvalidEnvelope))
		return
	}

	env, err := NewEnvelope(EventVoiceAudio, c.roomID, VoiceAudioPayload{
		AudioData: payload.AudioData,
		UserID:    c.user.ID,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build voice_audio envelope.")
		return
	}
	c.manager.Broadcast(c.roomID, env, c)
}

// sendEnvelope builds and queues an outbound envelope for this connection only.
func (c *Client) sendEnvelope(eventType EventType, payload any) {
	env, err := NewEnvelope(eventType, c.roomID, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("event_type", string(eventType)).Msg("Failed to build envelope.")
		return
	}

	messageBytes, err := json.Marshal(env)
	if err != nil {
		c.logger.Error().Err(err).Str("event_type", string(eventType)).Msg("Failed to marshal envelope.")
		return
	}

	if err := c.Send(messageBytes); err != nil {
		c.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to queue envelope.")
	}
}

// sendError queues an error event for this connection only. Errors are never
// broadcast and never terminate the connection.
func (c *Client) sendError(customErr *errs.CustomError) {
	c.sendEnvelope(EventError, ErrorPayload{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}
