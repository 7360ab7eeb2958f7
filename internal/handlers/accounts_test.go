package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budget/internal/models"
	"budget/internal/services"

	"github.com/go-chi/chi/v5"
)

func withIDParam(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestUpdateAccountForwardsEffectiveWindow(t *testing.T) {
	var gotID string
	var got services.UpdateAccountRequest
	setup := stubSetupService{
		updateAccountFn: func(_ context.Context, id string, req services.UpdateAccountRequest) (models.BankAccount, error) {
			gotID, got = id, req
			return models.BankAccount{ID: id, Name: req.Name, Active: true}, nil
		},
	}
	handler := newTestHandler(stubUserService{}, stubWorkspaces{
		ws: testWorkspace(stubLedgerService{}, stubReportService{}, setup),
	})

	body := `{"name":"Everyday","effective_from":"2024-01","effective_to":"2024-06"}`
	req := httptest.NewRequest(http.MethodPut, "/api/accounts/acc-1", strings.NewReader(body))
	rr := serveAuthed(t, handler.UpdateAccount, withIDParam(req, "acc-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotID != "acc-1" || got.Name != "Everyday" || got.EffectiveFrom != "2024-01" {
		t.Fatalf("unexpected request: id=%q %+v", gotID, got)
	}
	if got.EffectiveTo == nil || *got.EffectiveTo != "2024-06" {
		t.Fatalf("effective_to must be forwarded, got %v", got.EffectiveTo)
	}
}

func TestUpdateAccountRejectsBadWindow(t *testing.T) {
	handler := newTestHandler(stubUserService{}, stubWorkspaces{
		ws: testWorkspace(stubLedgerService{}, stubReportService{}, stubSetupService{}),
	})

	body := `{"name":"Everyday","effective_to":"june"}`
	req := httptest.NewRequest(http.MethodPut, "/api/accounts/acc-1", strings.NewReader(body))
	rr := serveAuthed(t, handler.UpdateAccount, withIDParam(req, "acc-1"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUpdateCardPartialEdit(t *testing.T) {
	var got services.UpdateCardRequest
	setup := stubSetupService{
		updateCardFn: func(_ context.Context, id string, req services.UpdateCardRequest) (models.CreditCard, error) {
			got = req
			return models.CreditCard{ID: id, Name: "Visa Gold", StatementCloseDay: 20, DueDay: 5, Active: true}, nil
		},
	}
	handler := newTestHandler(stubUserService{}, stubWorkspaces{
		ws: testWorkspace(stubLedgerService{}, stubReportService{}, setup),
	})

	// only the name changes; days stay zero so the service keeps the
	// stored cycle
	body := `{"name":"Visa Gold"}`
	req := httptest.NewRequest(http.MethodPut, "/api/cards/cc-1", strings.NewReader(body))
	rr := serveAuthed(t, handler.UpdateCard, withIDParam(req, "cc-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.Name != "Visa Gold" || got.StatementCloseDay != 0 || got.DueDay != 0 {
		t.Fatalf("unexpected request: %+v", got)
	}
	var card models.CreditCard
	if err := json.Unmarshal(rr.Body.Bytes(), &card); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if card.StatementCloseDay != 20 {
		t.Fatalf("unexpected card: %+v", card)
	}
}
