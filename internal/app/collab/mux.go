/*
Package collab contains the core logic for real-time collaborative coding sessions.

This file implements the connection multiplexer operations on the Manager: the
mapping between live connections and user identities, and between rooms and
their attached connection sets. Join resolves reconnects and host re-joins
before creating a new participant; Leave is idempotent and cascades into room
deletion when the last user departs.
*/
package collab

import (
	"time"

	"codesync/internal/pkg/errs"
)

// Join attaches a connection to a room and resolves the user identity, in this
// precedence order:
//
//  1. Reconnect: the connection already maps to a user who is still a member
//     of this room. Re-attach and return the existing user.
//  2. Host re-join: a host user with a matching display name exists in the
//     room. Attach the connection to the host identity. Host identity is keyed
//     by name equality only; a joiner using the host's name takes the host slot.
//  3. New participant: allocate a new user id and color and insert the user.
//
// Capacity is checked only on the new-participant path, so reconnecting and
// host re-joining a full room still succeed: neither increases membership.
func (m *Manager) Join(roomID string, userName string, conn Conn) (User, *errs.CustomError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		m.logger.Warn().Str("room_id", roomID).Msg("Join rejected: room does not exist.")
		return User{}, errs.NewError(errs.ErrRoomNotFound)
	}

	// Reconnect: same connection, same user, new attach.
	if userID, ok := m.connUsers[conn]; ok {
		if existing, ok := room.Users[userID]; ok {
			m.attachLocked(roomID, conn)
			m.logger.Info().
				Str("room_id", roomID).
				Str("user_id", userID).
				Msg("Connection reconnected to room.")
			return *existing, nil
		}
	}

	// Host re-join: same display name as the host, new connection.
	for _, u := range room.Users {
		if u.IsHost && u.Name == userName {
			m.attachLocked(roomID, conn)
			m.connUsers[conn] = u.ID
			if _, ok := m.userRooms[u.ID]; !ok {
				m.userRooms[u.ID] = roomID
			}
			m.logger.Info().
				Str("room_id", roomID).
				Str("user_id", u.ID).
				Msg("Host re-joined room.")
			return *u, nil
		}
	}

	if len(room.Users) >= room.MaxUsers {
		m.logger.Warn().
			Str("room_id", roomID).
			Int("max_users", room.MaxUsers).
			Msg("Join rejected: room is full.")
		return User{}, errs.NewError(errs.ErrRoomIsFull)
	}

	user := &User{
		ID:       m.alloc.NewUserID(),
		Name:     userName,
		Color:    m.alloc.NextColor(),
		IsHost:   false,
		JoinedAt: time.Now().UTC(),
	}

	room.Users[user.ID] = user
	m.userRooms[user.ID] = roomID
	m.attachLocked(roomID, conn)
	m.connUsers[conn] = user.ID

	m.logger.Info().
		Str("room_id", roomID).
		Str("user_id", user.ID).
		Int("user_count", len(room.Users)).
		Msg("User joined room.")

	return *user, nil
}

// attachLocked adds the connection to the room's connection set. Callers must
// hold the write lock.
func (m *Manager) attachLocked(roomID string, conn Conn) {
	set, ok := m.connections[roomID]
	if !ok {
		set = make(map[Conn]struct{})
		m.connections[roomID] = set
	}
	set[conn] = struct{}{}
}

// Leave detaches the connection, removes its user from the room, and deletes
// the room when its membership becomes empty, all as one indivisible step.
// Safe to call on an already-detached connection: it returns ok=false and
// mutates nothing, which is what makes racing disconnect paths converge to a
// single effective cleanup.
func (m *Manager) Leave(conn Conn) (string, User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	userID, ok := m.connUsers[conn]
	if !ok {
		return "", User{}, false
	}

	roomID, ok := m.userRooms[userID]
	if !ok {
		// The user was already removed (e.g. the room was torn down by another
		// connection of the same identity). Clear the stale back-reference.
		delete(m.connUsers, conn)
		return "", User{}, false
	}

	// Back-references are cleared before the room mutation is finalized.
	delete(m.connUsers, conn)
	if set, ok := m.connections[roomID]; ok {
		delete(set, conn)
	}

	room, ok := m.rooms[roomID]
	if !ok {
		delete(m.userRooms, userID)
		return "", User{}, false
	}

	user, ok := room.Users[userID]
	if !ok {
		delete(m.userRooms, userID)
		return "", User{}, false
	}

	removed := *user
	delete(room.Users, userID)
	delete(m.userRooms, userID)

	m.logger.Info().
		Str("room_id", roomID).
		Str("user_id", userID).
		Int("user_count", len(room.Users)).
		Msg("User left room.")

	if len(room.Users) == 0 {
		m.deleteRoomLocked(roomID)
	}

	return roomID, removed, true
}

// ConnectionsFor returns a snapshot of the connections currently attached to
// the room. The snapshot is taken under the read lock so it never observes a
// partially mutated set; an absent room yields an empty slice.
func (m *Manager) ConnectionsFor(roomID string) []Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.connections[roomID]
	if !ok {
		return nil
	}

	conns := make([]Conn, 0, len(set))
	for conn := range set {
		conns = append(conns, conn)
	}
	return conns
}
