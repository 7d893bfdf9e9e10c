/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Room Business Logic Errors
const (
	// ErrRoomNotFound indicates that the room id given for an operation does not exist.
	ErrRoomNotFound = 2101

	// ErrRoomIsFull indicates that the room being joined has reached its max_users capacity.
	ErrRoomIsFull = 2102

	// ErrRoomNotEmpty indicates an attempt to delete a room that still has active users.
	ErrRoomNotEmpty = 2103

	// ErrMaxUsersOutOfRange indicates that the requested room capacity is outside the allowed range.
	ErrMaxUsersOutOfRange = 2104
)

// 3xxx: Event Channel Errors
const (
	// ErrInvalidEnvelope indicates that an inbound event envelope or its payload could not be decoded.
	ErrInvalidEnvelope = 3001

	// ErrNotJoined indicates that a protocol event arrived on a connection that has not joined a room.
	ErrNotJoined = 3002

	// ErrUnsupportedEvent indicates that the inbound envelope carried an unknown event type.
	ErrUnsupportedEvent = 3003
)

// 4xxx: Code Execution Errors
const (
	// ErrExecutionFailed indicates that the remote execution service could not be reached or errored.
	ErrExecutionFailed = 4001

	// ErrLanguageNotSupported indicates that the requested language has no known runtime.
	ErrLanguageNotSupported = 4002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
