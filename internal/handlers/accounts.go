package handlers

import (
	"errors"
	"net/http"

	"budget/internal/calendar"
	"budget/internal/services"
	"budget/internal/validator"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	accounts, err := ws.Setup.ListAccounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

type accountRequest struct {
	Name          string  `json:"name"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	var req accountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	effectiveFrom := req.EffectiveFrom
	if effectiveFrom == "" {
		effectiveFrom = calendar.CurrentMonthID()
	}
	if !validMonthID(effectiveFrom) {
		respondError(w, http.StatusBadRequest, "effective_from must look like 2024-03")
		return
	}
	account, err := ws.Setup.CreateAccount(r.Context(), req.Name, effectiveFrom)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateName) {
			respondError(w, http.StatusConflict, "an active account with this name already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

// UpdateAccount edits name and effective window in place. Omitted fields
// keep their current value.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	var req accountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.EffectiveFrom != "" && !validMonthID(req.EffectiveFrom) {
		respondError(w, http.StatusBadRequest, "effective_from must look like 2024-03")
		return
	}
	if req.EffectiveTo != nil && !validMonthID(*req.EffectiveTo) {
		respondError(w, http.StatusBadRequest, "effective_to must look like 2024-03")
		return
	}
	account, err := ws.Setup.UpdateAccount(r.Context(), chi.URLParam(r, "id"), services.UpdateAccountRequest{
		Name:          req.Name,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "account not found")
		case errors.Is(err, services.ErrDuplicateName):
			respondError(w, http.StatusConflict, "an active account with this name already exists")
		default:
			respondError(w, http.StatusInternalServerError, "failed to update account")
		}
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *Handler) DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	effectiveTo := r.URL.Query().Get("effective_to")
	if effectiveTo == "" {
		effectiveTo = calendar.CurrentMonthID()
	}
	if !validMonthID(effectiveTo) {
		respondError(w, http.StatusBadRequest, "effective_to must look like 2024-03")
		return
	}
	if err := ws.Setup.DeactivateAccount(r.Context(), chi.URLParam(r, "id"), effectiveTo); err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			respondError(w, http.StatusNotFound, "account not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to deactivate account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
