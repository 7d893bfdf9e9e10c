package collab

// Conn is the transport capability the coordinator depends on. The coordinator
// never touches a concrete transport type; anything that can deliver an encoded
// envelope and be closed qualifies.
//
// Send must not block on a slow peer: implementations queue the message and
// return an error when the peer cannot keep up. A Send error is treated as an
// implicit disconnect by the broadcast sweep.
type Conn interface {
	Send(message []byte) error
	Close() error
}
