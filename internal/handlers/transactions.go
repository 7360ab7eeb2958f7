package handlers

import (
	"errors"
	"net/http"
	"time"

	"budget/internal/calendar"
	"budget/internal/services"
)

type addTransactionRequest struct {
	Date          string  `json:"date"`
	Amount        string  `json:"amount"`
	Category      string  `json:"category"`
	Subcategory   string  `json:"subcategory"`
	PaymentMethod string  `json:"payment_method"`
	BankAccountID *string `json:"bank_account_id"`
	CreditCardID  *string `json:"credit_card_id"`
	Note          string  `json:"note"`
}

func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	var req addTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := time.Parse(calendar.DateLayout, req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must look like 2024-03-10")
		return
	}
	amount, parsed := parseAmountMinor(req.Amount)
	if !parsed {
		respondError(w, http.StatusBadRequest, "amount must be a positive decimal")
		return
	}
	if req.Category == "" {
		respondError(w, http.StatusBadRequest, "category is required")
		return
	}
	transaction, err := ws.Ledger.AddTransaction(r.Context(), services.AddTransactionRequest{
		Date:          date,
		AmountMinor:   amount,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		PaymentMethod: req.PaymentMethod,
		BankAccountID: req.BankAccountID,
		CreditCardID:  req.CreditCardID,
		Note:          req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMonthClosed):
			respondError(w, http.StatusConflict, "month is closed")
		case errors.Is(err, services.ErrDateOutsideOpen):
			respondError(w, http.StatusConflict, "no month opened for this date")
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "amount must be positive")
		case errors.Is(err, services.ErrInvalidMethod):
			respondError(w, http.StatusBadRequest, "payment_method must be debit, credit_card or income")
		case errors.Is(err, services.ErrAccountRequired):
			respondError(w, http.StatusBadRequest, "bank_account_id is required for this payment method")
		case errors.Is(err, services.ErrCardRequired):
			respondError(w, http.StatusBadRequest, "credit_card_id is required for credit card payments")
		case errors.Is(err, services.ErrUnknownAccount):
			respondError(w, http.StatusBadRequest, "unknown bank account")
		case errors.Is(err, services.ErrUnknownCard):
			respondError(w, http.StatusBadRequest, "unknown credit card")
		default:
			respondError(w, http.StatusInternalServerError, "failed to record transaction")
		}
		return
	}
	respondJSON(w, http.StatusCreated, transaction)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspaceFor(w, r)
	if !ok {
		return
	}
	monthID, ok := h.monthIDParam(w, r)
	if !ok {
		return
	}
	transactions, err := ws.Ledger.Transactions(r.Context(), monthID)
	if err != nil {
		if errors.Is(err, services.ErrMonthNotOpen) {
			respondError(w, http.StatusNotFound, "month not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}
