package handler

import (
	"encoding/json"
	"net/http"

	"github.com/MCASE28/planb-tier/internal/api/middleware"
	"github.com/MCASE28/planb-tier/internal/api/request"
	"github.com/MCASE28/planb-tier/internal/api/response"
	"github.com/MCASE28/planb-tier/internal/services/room"
)

// RoomHandler handles room and host endpoints
type RoomHandler struct {
	controller room.ControllerInterface
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(controller room.ControllerInterface) *RoomHandler {
	return &RoomHandler{controller: controller}
}

// Get handles GET /api/v1/room
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.controller.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SnapshotFromModel(snapshot, middleware.IsHost(r.Context())))
}

// HostLogin handles POST /api/v1/host/login
func (h *RoomHandler) HostLogin(w http.ResponseWriter, r *http.Request) {
	var req request.HostLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session, updated, err := h.controller.HostLogin(r.Context(), req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.JSON(w, http.StatusOK, response.HostLoginResponseFrom(session, updated))
}

// HostLogout handles POST /api/v1/host/logout
func (h *RoomHandler) HostLogout(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	if err := h.controller.HostLogout(r.Context(), session.Token); err != nil {
		WriteError(w, err)
		return
	}

	// Expire the session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.NoContent(w)
}

// RegenerateCode handles POST /api/v1/room/code
func (h *RoomHandler) RegenerateCode(w http.ResponseWriter, r *http.Request) {
	updated, err := h.controller.RegenerateCode(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(updated, true))
}

// SetActive handles PATCH /api/v1/room/active
func (h *RoomHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req request.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	updated, err := h.controller.SetActive(r.Context(), req.Active)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(updated, true))
}

// SetCapacity handles PATCH /api/v1/room/capacity
func (h *RoomHandler) SetCapacity(w http.ResponseWriter, r *http.Request) {
	var req request.SetCapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	updated, err := h.controller.SetMaxPlayers(r.Context(), req.MaxPlayers)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(updated, true))
}
