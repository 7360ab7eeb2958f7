package handlers

import (
	"errors"
	"net/http"

	"budget/internal/services"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListObjectives(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	objectives, err := ws.Setup.ListObjectives(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list objectives")
		return
	}
	respondJSON(w, http.StatusOK, objectives)
}

type objectiveRequest struct {
	Category   string `json:"category"`
	Percentage string `json:"percentage"`
}

func (h *Handler) UpsertObjective(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	var req objectiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Category == "" {
		respondError(w, http.StatusBadRequest, "category is required")
		return
	}
	objective, err := ws.Setup.UpsertObjective(r.Context(), req.Category, req.Percentage)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPercentage) {
			respondError(w, http.StatusBadRequest, "percentage must be a fraction between 0 and 1")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to save objective")
		return
	}
	respondJSON(w, http.StatusOK, objective)
}

func (h *Handler) DeactivateObjective(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	if err := ws.Setup.DeactivateObjective(r.Context(), chi.URLParam(r, "category")); err != nil {
		if errors.Is(err, services.ErrObjectiveNotFound) {
			respondError(w, http.StatusNotFound, "objective not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to deactivate objective")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
