/*
Package collab contains the core logic for real-time collaborative coding sessions.

This file implements the room registry operations on the Manager: room creation
with a pre-populated host user, lookup, deletion, last-writer-wins code and
language updates, and public room listing.
*/
package collab

import (
	"time"

	"codesync/internal/pkg/errs"
)

// CreateRoomParams carries the validated inputs for room creation.
type CreateRoomParams struct {
	Name     string
	HostName string
	Language string
	Code     string
	MaxUsers int
	IsPublic bool
}

// CreateRoom allocates a room id and a host user, stores the room, and returns
// a snapshot of it. The returned room always has exactly one user: the host.
// MaxUsers outside [MinRoomCapacity, MaxRoomCapacity] is rejected before any
// state mutation.
func (m *Manager) CreateRoom(p CreateRoomParams) (RoomSnapshot, *errs.CustomError) {
	if p.Name == "" || p.HostName == "" {
		return RoomSnapshot{}, errs.NewError(errs.ErrInvalidParams)
	}

	if p.MaxUsers < MinRoomCapacity || p.MaxUsers > MaxRoomCapacity {
		return RoomSnapshot{}, errs.NewError(errs.ErrMaxUsersOutOfRange, MinRoomCapacity, MaxRoomCapacity)
	}

	host := &User{
		ID:       m.alloc.NewUserID(),
		Name:     p.HostName,
		Color:    m.alloc.NextColor(),
		IsHost:   true,
		JoinedAt: time.Now().UTC(),
	}

	room := &Room{
		ID:        m.alloc.NewRoomID(),
		Name:      p.Name,
		HostID:    host.ID,
		Language:  p.Language,
		Code:      p.Code,
		CreatedAt: time.Now().UTC(),
		MaxUsers:  p.MaxUsers,
		IsPublic:  p.IsPublic,
		Users:     map[string]*User{host.ID: host},
	}

	m.mu.Lock()
	m.rooms[room.ID] = room
	m.userRooms[host.ID] = room.ID
	snap := room.snapshot()
	m.mu.Unlock()

	m.logger.Info().
		Str("room_id", room.ID).
		Str("room_name", room.Name).
		Int("max_users", room.MaxUsers).
		Bool("is_public", room.IsPublic).
		Msg("Room created.")

	return snap, nil
}

// GetRoomSnapshot returns a consistent snapshot of the room, or false if the
// room does not exist.
func (m *Manager) GetRoomSnapshot(roomID string) (RoomSnapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return RoomSnapshot{}, false
	}
	return room.snapshot(), true
}

// DeleteRoomIfEmpty removes the room only when no users remain in it.
// It returns ErrRoomNotFound when the room does not exist and ErrRoomNotEmpty
// when users are still present.
func (m *Manager) DeleteRoomIfEmpty(roomID string) *errs.CustomError {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return errs.NewError(errs.ErrRoomNotFound)
	}

	if len(room.Users) > 0 {
		return errs.NewError(errs.ErrRoomNotEmpty)
	}

	m.deleteRoomLocked(roomID)
	return nil
}

// deleteRoomLocked removes the room, severs every member's membership record,
// and drops the room's connection set. Callers must hold the write lock.
// Idempotent: deleting an absent room is a no-op.
func (m *Manager) deleteRoomLocked(roomID string) {
	room, ok := m.rooms[roomID]
	if !ok {
		return
	}

	for userID := range room.Users {
		delete(m.userRooms, userID)
	}

	delete(m.connections, roomID)
	delete(m.rooms, roomID)

	m.logger.Info().Str("room_id", roomID).Msg("Room deleted.")
}

// UpdateCode replaces the room's shared code buffer. Concurrent writers simply
// overwrite each other in arrival order. Returns false if the room is absent.
func (m *Manager) UpdateCode(roomID string, code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return false
	}

	room.Code = code
	return true
}

// UpdateLanguage replaces the room's language tag. Returns false if the room is absent.
func (m *Manager) UpdateLanguage(roomID string, language string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return false
	}

	room.Language = language
	return true
}

// ListPublicRooms returns a snapshot of every room with IsPublic set,
// including live user counts. Iteration order is unspecified.
func (m *Manager) ListPublicRooms() []RoomSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]RoomSnapshot, 0, len(m.rooms))
	for _, room := range m.rooms {
		if room.IsPublic {
			rooms = append(rooms, room.snapshot())
		}
	}
	return rooms
}
