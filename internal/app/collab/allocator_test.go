package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codesync/internal/pkg/randx"
)

func TestNextColorRoundRobinWraps(t *testing.T) {
	a := NewAllocator()

	first := make([]string, len(cursorPalette))
	for i := range cursorPalette {
		first[i] = a.NextColor()
	}
	assert.Equal(t, cursorPalette, first, "colors are handed out in palette order")

	// After exhaustion the palette wraps; repeats are expected.
	assert.Equal(t, cursorPalette[0], a.NextColor())
	assert.Equal(t, cursorPalette[1], a.NextColor())
}

func TestNewRoomIDShape(t *testing.T) {
	a := NewAllocator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := a.NewRoomID()
		assert.True(t, randx.IsValidRoomID(id), "room id %q must be valid", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 100, "room ids must not collide at this scale")
}

func TestNewUserIDUnique(t *testing.T) {
	a := NewAllocator()

	assert.NotEqual(t, a.NewUserID(), a.NewUserID())
}
