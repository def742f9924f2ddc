package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chillgc/tierlist/internal/apperror"
	"github.com/chillgc/tierlist/internal/service"
)

// PeopleHandler serves the roster API.
//
//	GET    /api/people      → active roster (any authenticated user)
//	POST   /api/people      → add a person (admin)
//	DELETE /api/people/{id} → soft-delete a person (admin)
type PeopleHandler struct {
	roster *service.RosterService
	logger *slog.Logger
}

func NewPeopleHandler(roster *service.RosterService, logger *slog.Logger) *PeopleHandler {
	return &PeopleHandler{roster: roster, logger: logger}
}

func (h *PeopleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	people, err := h.roster.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"people": people})
}

// addPersonRequest accepts either an explicit name/avatar or a Discord ID
// to resolve them from.
type addPersonRequest struct {
	Name      string `json:"name"`
	DiscordID string `json:"discord_id"`
	AvatarURL string `json:"avatar_url"`
}

func (h *PeopleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req addPersonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actor, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("login required"))
		return
	}

	person, err := h.roster.Add(r.Context(), actor, service.AddPersonInput{
		Name:      req.Name,
		DiscordID: req.DiscordID,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Person added",
		"person":  person,
	})
}

func (h *PeopleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "person id must be an integer"))
		return
	}

	if err := h.roster.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Person removed",
	})
}
