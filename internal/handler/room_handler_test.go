package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesync/internal/app/collab"
	"codesync/internal/app/executor"
	"codesync/internal/configs"
	"codesync/internal/pkg/errs"
	"codesync/internal/pkg/randx"
	"codesync/internal/pkg/resp"
)

// newTestDeps builds an AppDeps with a fresh Manager and an executor client
// pointed at the given base URL.
func newTestDeps(executorURL string) *AppDeps {
	return &AppDeps{
		Manager:  collab.NewManager(),
		Executor: executor.NewClient(executorURL, 2*time.Second),
		Config: &configs.AppConfig{
			Environment:     "development",
			Port:            8080,
			AllowedOrigins:  []string{},
			ExecutorURL:     executorURL,
			ExecutorTimeout: 2 * time.Second,
		},
	}
}

// newRoomsRouter mounts the room handlers without rate limiting so tests can
// issue requests back to back.
func newRoomsRouter(deps *AppDeps) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/rooms", HandleCreateRoom(deps))
	r.Get("/api/rooms", HandleListRooms(deps))
	r.Get("/api/rooms/{id}", HandleGetRoom(deps))
	r.Delete("/api/rooms/{id}", HandleDeleteRoom(deps))
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) resp.JSONResponse {
	t.Helper()

	var body resp.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleCreateRoomAppliesDefaults(t *testing.T) {
	deps := newTestDeps("http://127.0.0.1:0")
	router := newRoomsRouter(deps)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/rooms", strings.NewReader(`{"name":"Demo","host_name":"Alice"}`))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, 0, body.Code)

	data := body.Data.(map[string]any)
	room := data["room"].(map[string]any)
	assert.True(t, randx.IsValidRoomID(room["id"].(string)))
	assert.Equal(t, collab.DefaultLanguage, room["language"])
	assert.Equal(t, float64(collab.DefaultRoomCapacity), room["max_users"])
	assert.Equal(t, true, room["is_public"])
	assert.Equal(t, float64(1), room["user_count"], "created room holds exactly the host")
}

func TestHandleCreateRoomHonorsExplicitFields(t *testing.T) {
	deps := newTestDeps("http://127.0.0.1:0")
	router := newRoomsRouter(deps)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/rooms", strings.NewReader(
		`{"name":"Private","host_name":"Bob","language":"Go","max_users":4,"is_public":false}`))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	require.Equal(t, 0, body.Code)

	room := body.Data.(map[string]any)["room"].(map[string]any)
	assert.Equal(t, "Go", room["language"])
	assert.Equal(t, float64(4), room["max_users"])
	assert.Equal(t, false, room["is_public"])
}

func TestHandleCreateRoomValidation(t *testing.T) {
	deps := newTestDeps("http://127.0.0.1:0")
	router := newRoomsRouter(deps)

	cases := []struct {
		name     string
		body     string
		wantCode int
		wantHTTP int
	}{
		{"missing host name", `{"name":"Demo"}`, errs.ErrInvalidParams, http.StatusBadRequest},
		{"missing room name", `{"host_name":"Alice"}`, errs.ErrInvalidParams, http.StatusBadRequest},
		{"capacity too small", `{"name":"Demo","host_name":"Alice","max_users":1}`, errs.ErrMaxUsersOutOfRange, http.StatusBadRequest},
		{"capacity too large", `{"name":"Demo","host_name":"Alice","max_users":51}`, errs.ErrMaxUsersOutOfRange, http.StatusBadRequest},
		{"unknown field", `{"name":"Demo","host_name":"Alice","bogus":1}`, errs.ErrInvalidJSONFormat, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/api/rooms", strings.NewReader(tc.body))
			r.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, r)

			assert.Equal(t, tc.wantHTTP, rec.Code)
			assert.Equal(t, tc.wantCode, decodeResponse(t, rec).Code)
		})
	}
}

func TestHandleGetRoom(t *testing.T) {
	deps := newTestDeps("http://127.0.0.1:0")
	router := newRoomsRouter(deps)

	snap, customErr := deps.Manager.CreateRoom(collab.CreateRoomParams{
		Name:     "Demo",
		HostName: "Alice",
		Language: "Python",
		MaxUsers: 10,
		IsPublic: true,
	})
	require.Nil(t, customErr)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rooms/"+snap.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	room := decodeResponse(t, rec).Data.(map[string]any)["room"].(map[string]any)
	assert.Equal(t, snap.ID, room["id"])
	assert.Equal(t, "Demo", room["name"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rooms/AAAAAAAA", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errs.ErrRoomNotFound, decodeResponse(t, rec).Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rooms/not-valid!", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.ErrInvalidParams, decodeResponse(t, rec).Code)
}

func TestHandleListRoomsFiltersPrivate(t *testing.T) {
	deps := newTestDeps("http://127.0.0.1:0")
	router := newRoomsRouter(deps)

	_, customErr := deps.Manager.CreateRoom(collab.CreateRoomParams{
		Name: "Public", HostName: "Alice", Language: "Python", MaxUsers: 10, IsPublic: true,
	})
	require.Nil(t, customErr)
	_, customErr = deps.Manager.CreateRoom(collab.CreateRoomParams{
		Name: "Private", HostName: "Bob", Language: "Python", MaxUsers: 10, IsPublic: false,
	})
	require.Nil(t, customErr)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rooms", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeResponse(t, rec).Data.(map[string]any)
	assert.Equal(t, float64(1), data["count"])

	rooms := data["rooms"].([]any)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Public", rooms[0].(map[string]any)["name"])
}

func TestHandleDeleteRoom(t *testing.T) {
	deps := newTestDeps("http://127.0.0.1:0")
	router := newRoomsRouter(deps)

	snap, customErr := deps.Manager.CreateRoom(collab.CreateRoomParams{
		Name: "Demo", HostName: "Alice", Language: "Python", MaxUsers: 10, IsPublic: true,
	})
	require.Nil(t, customErr)

	// The host still counts as a member, so deletion is refused.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/rooms/"+snap.ID, nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, errs.ErrRoomNotEmpty, decodeResponse(t, rec).Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/rooms/AAAAAAAA", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errs.ErrRoomNotFound, decodeResponse(t, rec).Code)
}
