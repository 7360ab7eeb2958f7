package handlers

import (
	"errors"
	"net/http"

	"budget/internal/services"
	"budget/internal/validator"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListFixedExpenses(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	expenses, err := ws.Setup.ListFixedExpenses(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list fixed expenses")
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

type fixedExpenseRequest struct {
	Name          string  `json:"name"`
	Amount        string  `json:"amount"`
	Category      string  `json:"category"`
	Subcategory   string  `json:"subcategory"`
	DueDay        int     `json:"due_day"`
	PaymentMethod string  `json:"payment_method"`
	BankAccountID *string `json:"bank_account_id"`
	CreditCardID  *string `json:"credit_card_id"`
}

func (h *Handler) UpsertFixedExpense(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	var req fixedExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Category == "" {
		respondError(w, http.StatusBadRequest, "category is required")
		return
	}
	if err := validator.ValidateDay(req.DueDay); err != nil {
		respondError(w, http.StatusBadRequest, "due_day must be between 1 and 31")
		return
	}
	amount, parsed := parseAmountMinor(req.Amount)
	if !parsed {
		respondError(w, http.StatusBadRequest, "amount must be a positive decimal")
		return
	}
	expense, err := ws.Setup.UpsertFixedExpense(r.Context(), services.UpsertFixedExpenseRequest{
		Name:          req.Name,
		AmountMinor:   amount,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		DueDay:        req.DueDay,
		PaymentMethod: req.PaymentMethod,
		BankAccountID: req.BankAccountID,
		CreditCardID:  req.CreditCardID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMethod):
			respondError(w, http.StatusBadRequest, "payment_method must be debit or credit_card")
		case errors.Is(err, services.ErrAccountRequired):
			respondError(w, http.StatusBadRequest, "bank_account_id is required for debit")
		case errors.Is(err, services.ErrCardRequired):
			respondError(w, http.StatusBadRequest, "credit_card_id is required for credit card payments")
		case errors.Is(err, services.ErrUnknownAccount):
			respondError(w, http.StatusBadRequest, "unknown bank account")
		case errors.Is(err, services.ErrUnknownCard):
			respondError(w, http.StatusBadRequest, "unknown credit card")
		default:
			respondError(w, http.StatusInternalServerError, "failed to save fixed expense")
		}
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeactivateFixedExpense(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	if err := ws.Setup.DeactivateFixedExpense(r.Context(), chi.URLParam(r, "name")); err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			respondError(w, http.StatusNotFound, "fixed expense not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to deactivate fixed expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListIncomeSources(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	sources, err := ws.Setup.ListIncomeSources(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list income sources")
		return
	}
	respondJSON(w, http.StatusOK, sources)
}

type incomeSourceRequest struct {
	Name          string  `json:"name"`
	Amount        string  `json:"amount"`
	Subcategory   string  `json:"subcategory"`
	DueDay        int     `json:"due_day"`
	BankAccountID *string `json:"bank_account_id"`
}

func (h *Handler) UpsertIncomeSource(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	var req incomeSourceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validator.ValidateDay(req.DueDay); err != nil {
		respondError(w, http.StatusBadRequest, "due_day must be between 1 and 31")
		return
	}
	amount, parsed := parseAmountMinor(req.Amount)
	if !parsed {
		respondError(w, http.StatusBadRequest, "amount must be a positive decimal")
		return
	}
	source, err := ws.Setup.UpsertIncomeSource(r.Context(), services.UpsertIncomeSourceRequest{
		Name:          req.Name,
		AmountMinor:   amount,
		Subcategory:   req.Subcategory,
		DueDay:        req.DueDay,
		BankAccountID: req.BankAccountID,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnknownAccount) {
			respondError(w, http.StatusBadRequest, "unknown bank account")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to save income source")
		return
	}
	respondJSON(w, http.StatusOK, source)
}

func (h *Handler) DeactivateIncomeSource(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	if err := ws.Setup.DeactivateIncomeSource(r.Context(), chi.URLParam(r, "name")); err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			respondError(w, http.StatusNotFound, "income source not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to deactivate income source")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
