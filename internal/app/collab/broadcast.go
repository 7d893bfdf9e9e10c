/*
Package collab contains the core logic for real-time collaborative coding sessions.

This file implements broadcast fan-out: delivering one envelope to every
connection attached to a room, minus an optional excluded originator. Delivery
failures are self-healing: a connection that fails a send is detached through
the same Leave path as a clean disconnect, and its departure is announced to
the remaining participants.
*/
package collab

import "encoding/json"

// Broadcast sends the envelope to every connection currently attached to the
// room except exclude. Sends are independent: one failed or slow connection
// never aborts or delays delivery to the rest. Each failed connection is then
// cleaned up as if it had disconnected, and a user_left event is broadcast
// for it.
func (m *Manager) Broadcast(roomID string, env Envelope, exclude Conn) {
	messageBytes, err := json.Marshal(env)
	if err != nil {
		m.logger.Error().
			Str("room_id", roomID).
			Str("event_type", string(env.Type)).
			Err(err).
			Msg("Error marshaling envelope for broadcast.")
		return
	}

	var failed []Conn
	for _, conn := range m.ConnectionsFor(roomID) {
		if conn == exclude {
			continue
		}

		if err := conn.Send(messageBytes); err != nil {
			m.logger.Warn().
				Str("room_id", roomID).
				Str("event_type", string(env.Type)).
				Err(err).
				Msg("Broadcast delivery failed, scheduling connection cleanup.")
			failed = append(failed, conn)
		}
	}

	for _, conn := range failed {
		m.pruneConnection(conn)
	}
}

// pruneConnection detaches a connection that failed delivery, treating it as
// an implicit disconnect. If the detach removed a user, the remaining room
// members are notified. Leave is idempotent, so a racing transport-close
// cleanup for the same connection is a harmless no-op.
func (m *Manager) pruneConnection(conn Conn) {
	roomID, user, ok := m.Leave(conn)

	if err := conn.Close(); err != nil {
		m.logger.Debug().Err(err).Msg("Error closing pruned connection.")
	}

	if !ok {
		return
	}

	env, err := NewEnvelope(EventUserLeft, roomID, UserEventPayload{User: user})
	if err != nil {
		m.logger.Error().
			Str("room_id", roomID).
			Str("user_id", user.ID).
			Err(err).
			Msg("Failed to build user_left envelope for pruned connection.")
		return
	}

	m.Broadcast(roomID, env, nil)
}
