package handler

import (
	"encoding/json"
	"net/http"

	"github.com/MCASE28/planb-tier/internal/api/request"
	"github.com/MCASE28/planb-tier/internal/api/response"
	"github.com/MCASE28/planb-tier/internal/services/room"
)

// PlayerHandler handles player endpoints
type PlayerHandler struct {
	controller room.ControllerInterface
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(controller room.ControllerInterface) *PlayerHandler {
	return &PlayerHandler{controller: controller}
}

// Join handles POST /api/v1/players
func (h *PlayerHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.controller.Join(r.Context(), req.Code, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.JoinResponse{Player: response.PlayerFromModel(player)})
}
