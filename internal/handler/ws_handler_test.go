package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesync/internal/app/collab"
)

const readTimeout = 2 * time.Second

// dialRoom opens a WebSocket connection to the given room through the test server.
func dialRoom(t *testing.T, ts *httptest.Server, roomID string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + roomID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, eventType collab.EventType, payload any) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(collab.Envelope{Type: eventType, Payload: raw}))
}

func readEvent(t *testing.T, conn *websocket.Conn) collab.Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))

	var env collab.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestWebSocketSessionLifecycle(t *testing.T) {
	ts := newFakeExecutionService(t)
	deps := newTestDeps(ts.URL)
	server := httptest.NewServer(Router(deps))
	defer server.Close()

	snap, customErr := deps.Manager.CreateRoom(collab.CreateRoomParams{
		Name: "Demo", HostName: "Alice", Language: "Python", MaxUsers: 10, IsPublic: true,
	})
	require.Nil(t, customErr)

	// Alice connects and re-claims the host identity created with the room.
	alice := dialRoom(t, server, snap.ID)
	sendEvent(t, alice, collab.EventJoin, collab.JoinPayload{UserName: "Alice"})

	env := readEvent(t, alice)
	require.Equal(t, collab.EventRoomState, env.Type)
	assert.Equal(t, snap.ID, env.RoomID)
	assert.NotEmpty(t, env.ID)
	assert.NotZero(t, env.Timestamp)

	var aliceState collab.RoomStatePayload
	require.NoError(t, json.Unmarshal(env.Payload, &aliceState))
	assert.True(t, aliceState.CurrentUser.IsHost)
	assert.Equal(t, snap.HostID, aliceState.CurrentUser.ID)
	assert.Equal(t, 1, aliceState.Room.UserCount)

	// Bob joins as a new participant; Alice is notified, Bob is not echoed.
	bob := dialRoom(t, server, snap.ID)
	sendEvent(t, bob, collab.EventJoin, collab.JoinPayload{UserName: "Bob"})

	var bobState collab.RoomStatePayload
	env = readEvent(t, bob)
	require.Equal(t, collab.EventRoomState, env.Type)
	require.NoError(t, json.Unmarshal(env.Payload, &bobState))
	assert.False(t, bobState.CurrentUser.IsHost)
	assert.Equal(t, 2, bobState.Room.UserCount)

	env = readEvent(t, alice)
	require.Equal(t, collab.EventUserJoined, env.Type)

	var joined collab.UserEventPayload
	require.NoError(t, json.Unmarshal(env.Payload, &joined))
	assert.Equal(t, "Bob", joined.User.Name)

	// A code change from Bob reaches Alice stamped with Bob's identity and
	// updates the shared buffer.
	sendEvent(t, bob, collab.EventCodeChange, collab.CodeChangePayload{Code: "x = 1"})

	env = readEvent(t, alice)
	require.Equal(t, collab.EventCodeChange, env.Type)

	var change collab.CodeChangePayload
	require.NoError(t, json.Unmarshal(env.Payload, &change))
	assert.Equal(t, "x = 1", change.Code)
	assert.Equal(t, bobState.CurrentUser.ID, change.UserID)

	current, ok := deps.Manager.GetRoomSnapshot(snap.ID)
	require.True(t, ok)
	assert.Equal(t, "x = 1", current.Code)

	// Bob disconnects; Alice sees the departure.
	require.NoError(t, bob.Close())

	env = readEvent(t, alice)
	require.Equal(t, collab.EventUserLeft, env.Type)

	var left collab.UserEventPayload
	require.NoError(t, json.Unmarshal(env.Payload, &left))
	assert.Equal(t, "Bob", left.User.Name)
}

func TestWebSocketRejectsEventsBeforeJoin(t *testing.T) {
	ts := newFakeExecutionService(t)
	deps := newTestDeps(ts.URL)
	server := httptest.NewServer(Router(deps))
	defer server.Close()

	snap, customErr := deps.Manager.CreateRoom(collab.CreateRoomParams{
		Name: "Demo", HostName: "Alice", Language: "Python", MaxUsers: 10, IsPublic: true,
	})
	require.Nil(t, customErr)

	conn := dialRoom(t, server, snap.ID)
	sendEvent(t, conn, collab.EventCodeChange, collab.CodeChangePayload{Code: "x = 1"})

	env := readEvent(t, conn)
	require.Equal(t, collab.EventError, env.Type)

	var payload collab.ErrorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.NotZero(t, payload.Code)

	// The channel stays usable after the error.
	sendEvent(t, conn, collab.EventJoin, collab.JoinPayload{UserName: "Carol"})
	env = readEvent(t, conn)
	assert.Equal(t, collab.EventRoomState, env.Type)
}

func TestWebSocketRejectsUnknownRoom(t *testing.T) {
	ts := newFakeExecutionService(t)
	deps := newTestDeps(ts.URL)
	server := httptest.NewServer(Router(deps))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/AAAAAAAA"
	conn, httpResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if conn != nil {
		conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, httpResp)
	assert.Equal(t, 404, httpResp.StatusCode)
}
