package collab

import (
	"errors"
	"sync"
)

// fakeConn is an in-memory Conn implementation for coordinator tests.
// It records every delivered message and can be switched into a failing
// state to simulate a dead peer.
type fakeConn struct {
	mu        sync.Mutex
	sent      [][]byte
	failSends bool
	closed    bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{}
}

func (f *fakeConn) Send(message []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSends || f.closed {
		return errors.New("connection is dead")
	}

	f.sent = append(f.sent, message)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}

func (f *fakeConn) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

func (f *fakeConn) lastSent() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}

// newTestRoom creates a manager and a room with the given capacity, returning both.
func newTestRoom(maxUsers int) (*Manager, RoomSnapshot) {
	m := NewManager()
	room, customErr := m.CreateRoom(CreateRoomParams{
		Name:     "demo",
		HostName: "Alice",
		Language: "Python",
		MaxUsers: maxUsers,
		IsPublic: true,
	})
	if customErr != nil {
		panic(customErr)
	}
	return m, room
}
