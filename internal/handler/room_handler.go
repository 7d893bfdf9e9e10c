/*
Package handler provides HTTP handler functions for room lifecycle management:
creation, lookup, public listing, and deletion of empty rooms.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"codesync/internal/app/collab"
	"codesync/internal/pkg/errs"
	"codesync/internal/pkg/randx"
	"codesync/internal/pkg/req"
	"codesync/internal/pkg/resp"
)

// CreateRoomInput is the JSON body of a create-room request.
type CreateRoomInput struct {
	// Name is the display name of the room.
	Name string `json:"name"`

	// HostName is the display name of the room's host.
	HostName string `json:"host_name"`

	// Language is the initial programming language (defaults to Python).
	Language string `json:"language,omitempty"`

	// Code is the initial shared code buffer (defaults to empty).
	Code string `json:"code,omitempty"`

	// MaxUsers is the room capacity (defaults to 10, allowed range 2-50).
	MaxUsers int `json:"max_users,omitempty"`

	// IsPublic controls public listing visibility (defaults to true).
	IsPublic *bool `json:"is_public,omitempty"`
}

// HandleCreateRoom creates an HTTP HandlerFunc to process room creation requests.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateRoomInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Name == "" || input.HostName == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		params := collab.CreateRoomParams{
			Name:     input.Name,
			HostName: input.HostName,
			Language: input.Language,
			Code:     input.Code,
			MaxUsers: input.MaxUsers,
			IsPublic: true,
		}

		if params.Language == "" {
			params.Language = collab.DefaultLanguage
		}
		if params.MaxUsers == 0 {
			params.MaxUsers = collab.DefaultRoomCapacity
		}
		if input.IsPublic != nil {
			params.IsPublic = *input.IsPublic
		}

		room, customErr := deps.Manager.CreateRoom(params)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room": room,
		})
	}
}

// HandleGetRoom returns the snapshot of a single room by id.
func HandleGetRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "id")
		if !randx.IsValidRoomID(roomID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		room, ok := deps.Manager.GetRoomSnapshot(roomID)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room": room,
		})
	}
}

// HandleListRooms returns snapshots of all public rooms.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms := deps.Manager.ListPublicRooms()

		resp.RespondSuccess(w, r, map[string]any{
			"rooms": rooms,
			"count": len(rooms),
		})
	}
}

// HandleDeleteRoom deletes a room by id. Deletion succeeds only when the room
// currently has no users; a populated room yields a forbidden-style failure.
func HandleDeleteRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "id")
		if !randx.IsValidRoomID(roomID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Manager.DeleteRoomIfEmpty(roomID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message": "Room deleted",
		})
	}
}
