package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/service"
)

// RankingsHandler serves the current user's own rankings.
//
//	GET    /api/rankings            → person ID → tier map
//	POST   /api/rankings            → place a person in a tier
//	DELETE /api/rankings/{personID} → back to unranked
type RankingsHandler struct {
	rankings *service.RankingService
	logger   *slog.Logger
}

func NewRankingsHandler(rankings *service.RankingService, logger *slog.Logger) *RankingsHandler {
	return &RankingsHandler{rankings: rankings, logger: logger}
}

func (h *RankingsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("login required"))
		return
	}

	rankings, err := h.rankings.Rankings(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rankings": rankings})
}

type setRankingRequest struct {
	PersonID int64  `json:"person_id"`
	Tier     string `json:"tier"`
}

func (h *RankingsHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	var req setRankingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.PersonID <= 0 {
		writeError(w, apperror.ValidationFailed("person_id", "missing person_id"))
		return
	}
	if req.Tier == "" {
		writeError(w, apperror.ValidationFailed("tier", "missing tier"))
		return
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("login required"))
		return
	}

	if err := h.rankings.Set(r.Context(), user, req.PersonID, req.Tier); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Ranking saved",
	})
}

func (h *RankingsHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	personID, err := strconv.ParseInt(chi.URLParam(r, "personID"), 10, 64)
	if err != nil {
		writeError(w, apperror.ValidationFailed("personID", "person id must be an integer"))
		return
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("login required"))
		return
	}

	if err := h.rankings.Clear(r.Context(), user, personID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Ranking removed",
	})
}
