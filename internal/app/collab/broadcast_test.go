package collab

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliversToAllButExcluded(t *testing.T) {
	m, room := newTestRoom(10)

	sender := newFakeConn()
	peerA := newFakeConn()
	peerB := newFakeConn()

	for name, conn := range map[string]*fakeConn{"Alice": sender, "Bob": peerA, "Carol": peerB} {
		_, customErr := m.Join(room.ID, name, conn)
		require.Nil(t, customErr)
	}

	env, err := NewEnvelope(EventCodeChange, room.ID, CodeChangePayload{Code: "print(1)"})
	require.NoError(t, err)

	m.Broadcast(room.ID, env, sender)

	assert.Equal(t, 0, sender.sentCount(), "the excluded originator must not receive the event")
	assert.Equal(t, 1, peerA.sentCount())
	assert.Equal(t, 1, peerB.sentCount())

	var received Envelope
	require.NoError(t, json.Unmarshal(peerA.lastSent(), &received))
	assert.Equal(t, EventCodeChange, received.Type)
	assert.Equal(t, room.ID, received.RoomID)

	var payload CodeChangePayload
	require.NoError(t, json.Unmarshal(received.Payload, &payload))
	assert.Equal(t, "print(1)", payload.Code)
}

func TestBroadcastWithoutExclusionReachesEveryone(t *testing.T) {
	m, room := newTestRoom(10)

	connA := newFakeConn()
	connB := newFakeConn()
	_, customErr := m.Join(room.ID, "Bob", connA)
	require.Nil(t, customErr)
	_, customErr = m.Join(room.ID, "Carol", connB)
	require.Nil(t, customErr)

	env, err := NewEnvelope(EventChatMessage, room.ID, ChatMessagePayload{Message: "hi"})
	require.NoError(t, err)

	m.Broadcast(room.ID, env, nil)

	assert.Equal(t, 1, connA.sentCount())
	assert.Equal(t, 1, connB.sentCount())
}

func TestFailedDeliveryPrunesConnection(t *testing.T) {
	m, room := newTestRoom(10)

	healthy := newFakeConn()
	dead := newFakeConn()

	_, customErr := m.Join(room.ID, "Bob", healthy)
	require.Nil(t, customErr)
	deadUser, customErr := m.Join(room.ID, "Carol", dead)
	require.Nil(t, customErr)

	dead.failSends = true

	env, err := NewEnvelope(EventChatMessage, room.ID, ChatMessagePayload{Message: "hi"})
	require.NoError(t, err)
	m.Broadcast(room.ID, env, nil)

	// The dead connection was detached and its user removed.
	assert.True(t, dead.isClosed())
	snap, ok := m.GetRoomSnapshot(room.ID)
	require.True(t, ok)
	assert.Equal(t, 2, snap.UserCount, "host and Bob remain")
	for _, u := range snap.Users {
		assert.NotEqual(t, deadUser.ID, u.ID)
	}
	assert.Len(t, m.ConnectionsFor(room.ID), 1)

	// The survivors saw the original event plus a user_left for the pruned peer.
	require.Equal(t, 2, healthy.sentCount())

	var leftEnv Envelope
	require.NoError(t, json.Unmarshal(healthy.lastSent(), &leftEnv))
	assert.Equal(t, EventUserLeft, leftEnv.Type)

	var leftPayload UserEventPayload
	require.NoError(t, json.Unmarshal(leftEnv.Payload, &leftPayload))
	assert.Equal(t, deadUser.ID, leftPayload.User.ID)

	// A subsequent broadcast no longer touches the pruned connection.
	sentBefore := dead.sentCount()
	env2, err := NewEnvelope(EventChatMessage, room.ID, ChatMessagePayload{Message: "again"})
	require.NoError(t, err)
	m.Broadcast(room.ID, env2, nil)
	assert.Equal(t, sentBefore, dead.sentCount())
	assert.Equal(t, 3, healthy.sentCount())
}

func TestFailedDeliveryOfLastUserDeletesRoom(t *testing.T) {
	m, room := newTestRoom(10)

	dead := newFakeConn()
	_, customErr := m.Join(room.ID, "Alice", dead)
	require.Nil(t, customErr)

	dead.failSends = true

	env, err := NewEnvelope(EventChatMessage, room.ID, ChatMessagePayload{Message: "hi"})
	require.NoError(t, err)
	m.Broadcast(room.ID, env, nil)

	_, ok := m.GetRoomSnapshot(room.ID)
	assert.False(t, ok, "pruning the last member cascades into room deletion")
}
