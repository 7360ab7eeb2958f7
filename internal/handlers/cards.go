package handlers

import (
	"errors"
	"net/http"

	"budget/internal/calendar"
	"budget/internal/services"
	"budget/internal/validator"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	cards, err := ws.Setup.ListCards(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list cards")
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

type cardRequest struct {
	Name              string `json:"name"`
	BankAccountID     string `json:"bank_account_id"`
	StatementCloseDay int    `json:"statement_close_day"`
	DueDay            int    `json:"due_day"`
	EffectiveFrom     string `json:"effective_from"`
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	var req cardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.BankAccountID == "" {
		respondError(w, http.StatusBadRequest, "bank_account_id is required")
		return
	}
	if validator.ValidateDay(req.StatementCloseDay) != nil || validator.ValidateDay(req.DueDay) != nil {
		respondError(w, http.StatusBadRequest, "cycle days must be between 1 and 31")
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
	card, err := ws.Setup.CreateCard(r.Context(), services.CreateCardRequest{
		Name:              req.Name,
		BankAccountID:     req.BankAccountID,
		StatementCloseDay: req.StatementCloseDay,
		DueDay:            req.DueDay,
		EffectiveFrom:     effectiveFrom,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			respondError(w, http.StatusBadRequest, "unknown bank account")
		case errors.Is(err, services.ErrDuplicateName):
			respondError(w, http.StatusConflict, "an active card with this name already exists")
		default:
			respondError(w, http.StatusInternalServerError, "failed to create card")
		}
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

type cardUpdateRequest struct {
	Name              string  `json:"name"`
	StatementCloseDay int     `json:"statement_close_day"`
	DueDay            int     `json:"due_day"`
	EffectiveFrom     string  `json:"effective_from"`
	EffectiveTo       *string `json:"effective_to"`
}

// UpdateCard edits name, cycle days and effective window in place. Omitted
// fields keep their current value.
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	var req cardUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.StatementCloseDay != 0 && validator.ValidateDay(req.StatementCloseDay) != nil {
		respondError(w, http.StatusBadRequest, "cycle days must be between 1 and 31")
		return
	}
	if req.DueDay != 0 && validator.ValidateDay(req.DueDay) != nil {
		respondError(w, http.StatusBadRequest, "cycle days must be between 1 and 31")
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
	card, err := ws.Setup.UpdateCard(r.Context(), chi.URLParam(r, "id"), services.UpdateCardRequest{
		Name:              req.Name,
		StatementCloseDay: req.StatementCloseDay,
		DueDay:            req.DueDay,
		EffectiveFrom:     req.EffectiveFrom,
		EffectiveTo:       req.EffectiveTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCardNotFound):
			respondError(w, http.StatusNotFound, "card not found")
		case errors.Is(err, services.ErrDuplicateName):
			respondError(w, http.StatusConflict, "an active card with this name already exists")
		default:
			respondError(w, http.StatusInternalServerError, "failed to update card")
		}
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (h *Handler) DeactivateCard(w http.ResponseWriter, r *http.Request) {
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
	if err := ws.Setup.DeactivateCard(r.Context(), chi.URLParam(r, "id"), effectiveTo); err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			respondError(w, http.StatusNotFound, "card not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to deactivate card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
