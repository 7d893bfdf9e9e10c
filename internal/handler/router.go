/*
Package handler provides the HTTP handlers and routing setup for the CodeSync server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (REST and WebSocket).
*/
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"codesync/internal/pkg/limiter"
	"codesync/internal/pkg/logx"
	"codesync/internal/pkg/resp"
)

const (
	CreateRate   = 0.1
	CreateBurst  = 3
	ConnectRate  = 0.5
	ConnectBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	createLimiter := limiter.NewIPRateLimiter(rate.Limit(CreateRate), CreateBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		executorStatus := "ok"

		pingCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := deps.Executor.Ping(pingCtx); err != nil {
			executorStatus = "unreachable"
		}

		data := map[string]string{
			"status":   "ok",
			"service":  "CodeSync Server",
			"executor": executorStatus,
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/rooms", func(rooms chi.Router) {
			rateLimitedCreate := createLimiter.Middleware(HandleCreateRoom(deps))
			rooms.Post("/", http.HandlerFunc(rateLimitedCreate.ServeHTTP))
			rooms.Get("/", HandleListRooms(deps))
			rooms.Get("/{id}", HandleGetRoom(deps))
			rooms.Delete("/{id}", HandleDeleteRoom(deps))
		})

		api.Post("/execute", HandleExecuteCode(deps))
		api.Get("/languages", HandleSupportedLanguages(deps))
		api.Get("/runtimes", HandleRuntimes(deps))
	})

	r.Get("/ws/{id}", HandleWebSocket(deps, wsUpgrader, connectLimiter))

	return r
}
