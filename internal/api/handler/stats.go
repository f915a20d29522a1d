package handler

import (
	"net/http"

	"github.com/mcoot/humanorbot/internal/api/response"
	"github.com/mcoot/humanorbot/internal/game"
)

// StatsHandler serves the public server activity snapshot
type StatsHandler struct {
	registry *game.Registry
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(registry *game.Registry) *StatsHandler {
	return &StatsHandler{registry: registry}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.ServerStatsFromLobby(h.registry.LobbySnapshot()))
}
