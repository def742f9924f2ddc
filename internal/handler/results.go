package handler

import (
	"log/slog"
	"net/http"

	"github.com/chillgc/tierlist/internal/service"
)

// ResultsHandler serves the aggregated leaderboard.
//
//	GET /api/results
type ResultsHandler struct {
	leaderboard *service.LeaderboardService
	logger      *slog.Logger
}

func NewResultsHandler(leaderboard *service.LeaderboardService, logger *slog.Logger) *ResultsHandler {
	return &ResultsHandler{leaderboard: leaderboard, logger: logger}
}

func (h *ResultsHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.leaderboard.Compute(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
