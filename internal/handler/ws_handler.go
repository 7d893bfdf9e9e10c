/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
validating the room id, upgrading the HTTP connection to WebSocket, and starting the
client's read/write loops. Identity is established afterwards by the first join event
on the channel.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"codesync/internal/app/collab"
	"codesync/internal/pkg/errs"
	"codesync/internal/pkg/limiter"
	"codesync/internal/pkg/logx"
	"codesync/internal/pkg/randx"
	"codesync/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		roomID := chi.URLParam(r, "id")
		if !randx.IsValidRoomID(roomID) {
			logx.Warn("WebSocket request rejected: Invalid room id", "room_id", roomID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if _, ok := deps.Manager.GetRoomSnapshot(roomID); !ok {
			logx.Info("WebSocket connection rejected: Room not found.", "room_id", roomID)
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := collab.NewClient(deps.Manager, conn, roomID)

		go client.WritePump()

		logx.Info("WebSocket connection established", "room_id", roomID)

		client.ReadPump()
	}
}
