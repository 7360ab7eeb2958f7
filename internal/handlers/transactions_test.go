package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budget/internal/models"
	"budget/internal/services"

	"github.com/go-chi/chi/v5"
)

func TestAddTransactionSuccess(t *testing.T) {
	var got services.AddTransactionRequest
	ledger := stubLedgerService{
		addTransactionFn: func(ctx context.Context, req services.AddTransactionRequest) (models.Transaction, error) {
			got = req
			return models.Transaction{ID: "tx-1", MonthID: "2024-03", Amount: -req.AmountMinor}, nil
		},
	}
	handler := newTestHandler(stubUserService{}, stubWorkspaces{
		ws: testWorkspace(ledger, stubReportService{}, stubSetupService{}),
	})

	body := `{"date":"2024-03-10","amount":"42.50","category":"Groceries","payment_method":"debit","bank_account_id":"acc-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	rr := serveAuthed(t, handler.AddTransaction, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.AmountMinor != 4250 {
		t.Errorf("expected amount 4250 minor units, got %d", got.AmountMinor)
	}
	if got.Date.Format("2006-01-02") != "2024-03-10" {
		t.Errorf("unexpected date %s", got.Date)
	}
	if got.BankAccountID == nil || *got.BankAccountID != "acc-1" {
		t.Errorf("bank account id not forwarded: %+v", got.BankAccountID)
	}
}

func TestAddTransactionBadDate(t *testing.T) {
	handler := newTestHandler(stubUserService{}, stubWorkspaces{
		ws: testWorkspace(stubLedgerService{}, stubReportService{}, stubSetupService{}),
	})

	body := `{"date":"10/03/2024","amount":"42.50","category":"Groceries","payment_method":"debit"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	rr := serveAuthed(t, handler.AddTransaction, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAddTransactionRejectsNonPositiveAmount(t *testing.T) {
	handler := newTestHandler(stubUserService{}, stubWorkspaces{
		ws: testWorkspace(stubLedgerService{}, stubReportService{}, stubSetupService{}),
	})

	for _, amount := range []string{"0", "-10.00", "abc"} {
		body := `{"date":"2024-03-10","amount":"` + amount + `","category":"Groceries","payment_method":"debit"}`
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
		rr := serveAuthed(t, handler.AddTransaction, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("amount %q: expected 400, got %d", amount, rr.Code)
		}
	}
}

func TestAddTransactionClosedMonthConflict(t *testing.T) {
	ledger := stubLedgerService{
		addTransactionFn: func(ctx context.Context, req services.AddTransactionRequest) (models.Transaction, error) {
			return models.Transaction{}, services.ErrMonthClosed
		},
	}
	handler := newTestHandler(stubUserService{}, stubWorkspaces{
		ws: testWorkspace(ledger, stubReportService{}, stubSetupService{}),
	})

	body := `{"date":"2024-01-10","amount":"42.50","category":"Groceries","payment_method":"debit","bank_account_id":"acc-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	rr := serveAuthed(t, handler.AddTransaction, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestAddTransactionMissingAccount(t *testing.T) {
	ledger := stubLedgerService{
		addTransactionFn: func(ctx context.Context, req services.AddTransactionRequest) (models.Transaction, error) {
			return models.Transaction{}, services.ErrAccountRequired
		},
	}
	handler := newTestHandler(stubUserService{}, stubWorkspaces{
		ws: testWorkspace(ledger, stubReportService{}, stubSetupService{}),
	})

	body := `{"date":"2024-03-10","amount":"42.50","category":"Groceries","payment_method":"debit"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	rr := serveAuthed(t, handler.AddTransaction, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestListTransactionsUnknownMonth(t *testing.T) {
	ledger := stubLedgerService{
		transactionsFn: func(ctx context.Context, monthID string) ([]models.Transaction, error) {
			return nil, services.ErrMonthNotOpen
		},
	}
	handler := newTestHandler(stubUserService{}, stubWorkspaces{
		ws: testWorkspace(ledger, stubReportService{}, stubSetupService{}),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/months/2024-03/transactions", nil)
	req = withMonthParam(req, "2024-03")
	rr := serveAuthed(t, handler.ListTransactions, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestListTransactionsBadMonthID(t *testing.T) {
	handler := newTestHandler(stubUserService{}, stubWorkspaces{
		ws: testWorkspace(stubLedgerService{}, stubReportService{}, stubSetupService{}),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/months/bogus/transactions", nil)
	req = withMonthParam(req, "bogus")
	rr := serveAuthed(t, handler.ListTransactions, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func withMonthParam(req *http.Request, monthID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("monthID", monthID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
