/*
Package collab contains the core logic for real-time collaborative coding sessions:
rooms, user identities, live connections, and event broadcasting.

This file defines the User and Room data model and the snapshot shapes served to clients.
*/
package collab

import "time"

const (
	// MinRoomCapacity is the smallest allowed max_users value for a room.
	MinRoomCapacity = 2

	// MaxRoomCapacity is the largest allowed max_users value for a room.
	MaxRoomCapacity = 50

	// DefaultRoomCapacity is used when a create-room request omits max_users.
	DefaultRoomCapacity = 10

	// DefaultLanguage is used when a create-room request omits the language.
	DefaultLanguage = "Python"
)

// User represents a participant identity within one room.
// A User is immutable once created; reconnection reuses the existing User
// rather than mutating it.
type User struct {
	// ID is the globally unique identifier for the user.
	ID string `json:"id"`

	// Name is the display name chosen by the participant.
	Name string `json:"name"`

	// Color is the hex cursor color assigned from the shared palette.
	Color string `json:"color"`

	// IsHost marks the user who created the room. Exactly one host per room.
	IsHost bool `json:"is_host"`

	// JoinedAt records when the user first joined.
	JoinedAt time.Time `json:"joined_at"`
}

// Room represents a single collaborative coding session. All fields are
// guarded by the Manager's lock; the struct itself carries no synchronization.
type Room struct {
	// ID is the short opaque room identifier.
	ID string

	// Name is the display name of the room.
	Name string

	// HostID is the user id of the room's host.
	HostID string

	// Language is the currently selected programming language.
	Language string

	// Code is the shared code buffer. Last writer wins; there is no merge.
	Code string

	// CreatedAt records when the room was created.
	CreatedAt time.Time

	// MaxUsers bounds the size of the Users map.
	MaxUsers int

	// IsPublic controls whether the room appears in public listings.
	IsPublic bool

	// Users maps user id to User. A room with zero users is never retained.
	Users map[string]*User
}

// RoomSnapshot is the client-facing view of a room at a point in time.
type RoomSnapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HostID    string    `json:"host_id"`
	Language  string    `json:"language"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	MaxUsers  int       `json:"max_users"`
	IsPublic  bool      `json:"is_public"`
	Users     []User    `json:"users"`
	UserCount int       `json:"user_count"`
}

// snapshot builds a consistent copy of the room. Callers must hold the
// Manager's lock (read or write).
func (r *Room) snapshot() RoomSnapshot {
	users := make([]User, 0, len(r.Users))
	for _, u := range r.Users {
		users = append(users, *u)
	}

	return RoomSnapshot{
		ID:        r.ID,
		Name:      r.Name,
		HostID:    r.HostID,
		Language:  r.Language,
		Code:      r.Code,
		CreatedAt: r.CreatedAt,
		MaxUsers:  r.MaxUsers,
		IsPublic:  r.IsPublic,
		Users:     users,
		UserCount: len(r.Users),
	}
}
