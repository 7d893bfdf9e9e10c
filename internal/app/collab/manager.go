/*
Package collab contains the core logic for real-time collaborative coding sessions.

This file defines the Manager struct, the single owner of all shared session state:
the room registry and the connection multiplexer maps. Every mutating operation is
serialized under one coordinator-granularity lock so that compound transitions
(add user + attach connection, remove user + delete empty room) are observed as
indivisible by concurrent connection handlers.
*/
package collab

import (
	"sync"

	"github.com/rs/zerolog"

	"codesync/internal/pkg/logx"
)

// Manager coordinates all rooms, users, and live connections.
type Manager struct {
	// mu protects every map below. Broadcast snapshots take it read-only.
	mu sync.RWMutex

	// rooms is the authoritative mapping from room id to room state.
	rooms map[string]*Room

	// connections maps room id to the set of connections currently attached.
	connections map[string]map[Conn]struct{}

	// userRooms maps user id to the room the user belongs to.
	userRooms map[string]string

	// connUsers maps a live connection to its associated user id.
	connUsers map[Conn]string

	// alloc hands out room ids, user ids, and cursor colors.
	alloc *Allocator

	// structured logger with Manager context.
	logger zerolog.Logger
}

// NewManager constructs and returns a new Manager instance with no rooms.
func NewManager() *Manager {
	managerLogger := logx.Logger().With().Str("component", "Manager").Logger()

	return &Manager{
		rooms:       make(map[string]*Room),
		connections: make(map[string]map[Conn]struct{}),
		userRooms:   make(map[string]string),
		connUsers:   make(map[Conn]string),
		alloc:       NewAllocator(),
		logger:      managerLogger,
	}
}

// RoomCount returns the number of rooms currently held by the registry.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.rooms)
}

// Shutdown closes every live connection and drops all session state.
// Rooms are in-memory only, so nothing is persisted.
func (m *Manager) Shutdown() {
	m.mu.Lock()

	closed := 0
	for conn := range m.connUsers {
		if err := conn.Close(); err != nil {
			m.logger.Warn().Err(err).Msg("Error closing connection during shutdown.")
		}
		closed++
	}

	roomCount := len(m.rooms)
	m.rooms = make(map[string]*Room)
	m.connections = make(map[string]map[Conn]struct{})
	m.userRooms = make(map[string]string)
	m.connUsers = make(map[Conn]string)

	m.mu.Unlock()

	m.logger.Info().
		Int("rooms_dropped", roomCount).
		Int("connections_closed", closed).
		Msg("Manager shutdown complete.")
}
