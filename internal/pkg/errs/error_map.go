/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room Business Logic Errors
	ErrRoomNotFound:       {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrRoomIsFull:         {Code: ErrRoomIsFull, Message: "This room is full."},
	ErrRoomNotEmpty:       {Code: ErrRoomNotEmpty, Message: "Cannot delete a room with active users.", Status: http.StatusForbidden},
	ErrMaxUsersOutOfRange: {Code: ErrMaxUsersOutOfRange, Message: "Room capacity must be between %d and %d users.", Status: http.StatusBadRequest},

	// 3xxx: Event Channel Errors
	ErrInvalidEnvelope:  {Code: ErrInvalidEnvelope, Message: "Invalid message format."},
	ErrNotJoined:        {Code: ErrNotJoined, Message: "Join a room before sending events."},
	ErrUnsupportedEvent: {Code: ErrUnsupportedEvent, Message: "Unsupported event type."},

	// 4xxx: Code Execution Errors
	ErrExecutionFailed:      {Code: ErrExecutionFailed, Message: "Code execution failed. Please try again later.", Status: http.StatusInternalServerError},
	ErrLanguageNotSupported: {Code: ErrLanguageNotSupported, Message: "Language is not supported for execution.", Status: http.StatusBadRequest},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
