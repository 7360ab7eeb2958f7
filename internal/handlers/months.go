package handlers

import (
	"errors"
	"net/http"

	"budget/internal/money"
	"budget/internal/services"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListMonths(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	months, err := ws.Ledger.Months(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list months")
		return
	}
	respondJSON(w, http.StatusOK, months)
}

type openMonthRequest struct {
	MonthID          string            `json:"month_id"`
	StartingBalances map[string]string `json:"starting_balances"`
}

func (h *Handler) OpenMonth(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	var req openMonthRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validMonthID(req.MonthID) {
		respondError(w, http.StatusBadRequest, "month_id must look like 2024-03")
		return
	}
	// starting balances may be zero or negative (overdrawn accounts)
	balances := make(map[string]int64, len(req.StartingBalances))
	for accountID, raw := range req.StartingBalances {
		value, err := money.ParseMinor(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid starting balance for account "+accountID)
			return
		}
		balances[accountID] = value
	}
	// opening an existing month is a no-op; the existing row comes back
	month, err := ws.Ledger.OpenMonth(r.Context(), services.OpenMonthRequest{
		MonthID:          req.MonthID,
		StartingBalances: balances,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnknownAccount) {
			respondError(w, http.StatusBadRequest, "unknown bank account in starting balances")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to open month")
		return
	}
	respondJSON(w, http.StatusCreated, month)
}

func (h *Handler) CloseMonth(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	monthID, ok := h.monthIDParam(w, r)
	if !ok {
		return
	}
	month, err := ws.Ledger.CloseMonth(r.Context(), monthID)
	if err != nil {
		if errors.Is(err, services.ErrMonthNotOpen) {
			respondError(w, http.StatusConflict, "month is not open")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to close month")
		return
	}
	respondJSON(w, http.StatusOK, month)
}

func (h *Handler) monthIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	monthID := chi.URLParam(r, "monthID")
	if !validMonthID(monthID) {
		respondError(w, http.StatusBadRequest, "month id must look like 2024-03")
		return "", false
	}
	return monthID, true
}

func (h *Handler) MonthSnapshot(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	monthID, ok := h.monthIDParam(w, r)
	if !ok {
		return
	}
	snapshot, err := ws.Reports.MonthSnapshot(r.Context(), monthID)
	if err != nil {
		respondReportError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) CategoryTotals(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	monthID, ok := h.monthIDParam(w, r)
	if !ok {
		return
	}
	totals, err := ws.Reports.CategoryTotals(r.Context(), monthID)
	if err != nil {
		respondReportError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (h *Handler) Allocation(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	monthID, ok := h.monthIDParam(w, r)
	if !ok {
		return
	}
	allocation, err := ws.Reports.Allocation(r.Context(), monthID)
	if err != nil {
		respondReportError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, allocation)
}

func (h *Handler) HalfMonthCashflow(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	monthID, ok := h.monthIDParam(w, r)
	if !ok {
		return
	}
	cashflow, err := ws.Reports.HalfMonthCashflow(r.Context(), monthID)
	if err != nil {
		respondReportError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cashflow)
}

func (h *Handler) AccountCoverage(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	monthID, ok := h.monthIDParam(w, r)
	if !ok {
		return
	}
	coverage, err := ws.Reports.AccountCoverage(r.Context(), monthID)
	if err != nil {
		respondReportError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, coverage)
}

func (h *Handler) MonthPreview(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	monthID, ok := h.monthIDParam(w, r)
	if !ok {
		return
	}
	preview, err := ws.Reports.MonthPreview(r.Context(), monthID)
	if err != nil {
		respondReportError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

func respondReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrMonthNotFound):
		respondError(w, http.StatusNotFound, "month not found")
	case errors.Is(err, services.ErrObjectiveNotDefined):
		respondError(w, http.StatusNotFound, "no objective defined for category")
	default:
		respondError(w, http.StatusInternalServerError, "failed to build report")
	}
}
