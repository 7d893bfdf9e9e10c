/*
Package collab contains the core logic for real-time collaborative coding sessions.

This file defines the Allocator, which hands out room ids, user ids, and cursor colors.
*/
package collab

import (
	"sync"

	"codesync/internal/pkg/randx"
)

// cursorPalette is the fixed ordered set of cursor colors assigned to users.
// The allocation counter is process-wide, not per-room, so colors can repeat
// within a room once total allocations exceed the palette size. Cosmetic only.
var cursorPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E2",
	"#F8B739", "#52B788", "#E76F51", "#2A9D8F",
}

// Allocator generates unique identifiers and assigns cursor colors round-robin.
type Allocator struct {
	// mu protects colorIndex.
	mu sync.Mutex

	// colorIndex is the monotonically increasing palette cursor, shared across all rooms.
	colorIndex int
}

// NewAllocator constructs and returns a new Allocator instance.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// NewRoomID returns a short opaque room id. Allocation never fails: if the
// crypto/rand source is unavailable, it falls back to a UUID-derived id.
func (a *Allocator) NewRoomID() string {
	id, err := randx.RoomID()
	if err != nil {
		return randx.UserID()[:randx.RoomIDLength]
	}
	return id
}

// NewUserID returns a globally unique user id.
func (a *Allocator) NewUserID() string {
	return randx.UserID()
}

// NextColor returns the next entry of the cursor palette, wrapping around
// once the palette is exhausted.
func (a *Allocator) NextColor() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	color := cursorPalette[a.colorIndex%len(cursorPalette)]
	a.colorIndex++
	return color
}
