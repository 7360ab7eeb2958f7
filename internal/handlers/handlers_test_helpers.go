package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget/internal/auth"
	"budget/internal/config"
	"budget/internal/middleware"
	"budget/internal/models"
	"budget/internal/services"
	"budget/internal/websocket"
	"budget/internal/workspace"
)

type stubUserService struct {
	registerFn func(ctx context.Context, username, password string) (models.User, string, error)
	loginFn    func(ctx context.Context, username, password string) (models.User, string, error)
	getFn      func(ctx context.Context, id string) (models.User, error)
}

func (s stubUserService) Register(ctx context.Context, username, password string) (models.User, string, error) {
	if s.registerFn == nil {
		return models.User{ID: "user-1", Username: username}, "token", nil
	}
	return s.registerFn(ctx, username, password)
}

func (s stubUserService) Login(ctx context.Context, username, password string) (models.User, string, error) {
	if s.loginFn == nil {
		return models.User{ID: "user-1", Username: username}, "token", nil
	}
	return s.loginFn(ctx, username, password)
}

func (s stubUserService) Get(ctx context.Context, id string) (models.User, error) {
	if s.getFn == nil {
		return models.User{ID: id, Username: "tester"}, nil
	}
	return s.getFn(ctx, id)
}

type stubWorkspaces struct {
	ws         *workspace.Workspace
	getErr     error
	snapshotFn func(ctx context.Context, userID string) ([]byte, error)
	restoreFn  func(ctx context.Context, userID string, data []byte) error
}

func (s stubWorkspaces) Get(ctx context.Context, userID string) (*workspace.Workspace, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.ws, nil
}

func (s stubWorkspaces) Snapshot(ctx context.Context, userID string) ([]byte, error) {
	if s.snapshotFn == nil {
		return nil, nil
	}
	return s.snapshotFn(ctx, userID)
}

func (s stubWorkspaces) Restore(ctx context.Context, userID string, data []byte) error {
	if s.restoreFn == nil {
		return nil
	}
	return s.restoreFn(ctx, userID, data)
}

type stubLedgerService struct {
	openMonthFn      func(ctx context.Context, req services.OpenMonthRequest) (models.Month, error)
	closeMonthFn     func(ctx context.Context, monthID string) (models.Month, error)
	addTransactionFn func(ctx context.Context, req services.AddTransactionRequest) (models.Transaction, error)
	transactionsFn   func(ctx context.Context, monthID string) ([]models.Transaction, error)
	monthsFn         func(ctx context.Context) ([]models.Month, error)
}

func (s stubLedgerService) OpenMonth(ctx context.Context, req services.OpenMonthRequest) (models.Month, error) {
	if s.openMonthFn == nil {
		return models.Month{MonthID: req.MonthID, Status: models.MonthStatusOpen}, nil
	}
	return s.openMonthFn(ctx, req)
}

func (s stubLedgerService) CloseMonth(ctx context.Context, monthID string) (models.Month, error) {
	if s.closeMonthFn == nil {
		return models.Month{MonthID: monthID, Status: models.MonthStatusClosed}, nil
	}
	return s.closeMonthFn(ctx, monthID)
}

func (s stubLedgerService) AddTransaction(ctx context.Context, req services.AddTransactionRequest) (models.Transaction, error) {
	if s.addTransactionFn == nil {
		return models.Transaction{ID: "tx-1"}, nil
	}
	return s.addTransactionFn(ctx, req)
}

func (s stubLedgerService) Transactions(ctx context.Context, monthID string) ([]models.Transaction, error) {
	if s.transactionsFn == nil {
		return nil, nil
	}
	return s.transactionsFn(ctx, monthID)
}

func (s stubLedgerService) Months(ctx context.Context) ([]models.Month, error) {
	if s.monthsFn == nil {
		return nil, nil
	}
	return s.monthsFn(ctx)
}

type stubReportService struct {
	snapshotFn func(ctx context.Context, monthID string) (services.MonthSnapshot, error)
	totalsFn   func(ctx context.Context, monthID string) ([]models.CategoryTotal, error)
	allocFn    func(ctx context.Context, monthID string) (services.Allocation, error)
	plannedFn  func(ctx context.Context, monthID, category string) (int64, error)
	cashflowFn func(ctx context.Context, monthID string) (services.HalfMonthCashflow, error)
	coverageFn func(ctx context.Context, monthID string) (services.AccountCoverage, error)
	previewFn  func(ctx context.Context, monthID string) (services.MonthPreview, error)
	setupFn    func(ctx context.Context) (services.SetupStatus, error)
}

func (s stubReportService) MonthSnapshot(ctx context.Context, monthID string) (services.MonthSnapshot, error) {
	if s.snapshotFn == nil {
		return services.MonthSnapshot{}, nil
	}
	return s.snapshotFn(ctx, monthID)
}

func (s stubReportService) CategoryTotals(ctx context.Context, monthID string) ([]models.CategoryTotal, error) {
	if s.totalsFn == nil {
		return nil, nil
	}
	return s.totalsFn(ctx, monthID)
}

func (s stubReportService) Allocation(ctx context.Context, monthID string) (services.Allocation, error) {
	if s.allocFn == nil {
		return services.Allocation{}, nil
	}
	return s.allocFn(ctx, monthID)
}

func (s stubReportService) CategoryPlanned(ctx context.Context, monthID, category string) (int64, error) {
	if s.plannedFn == nil {
		return 0, nil
	}
	return s.plannedFn(ctx, monthID, category)
}

func (s stubReportService) HalfMonthCashflow(ctx context.Context, monthID string) (services.HalfMonthCashflow, error) {
	if s.cashflowFn == nil {
		return services.HalfMonthCashflow{}, nil
	}
	return s.cashflowFn(ctx, monthID)
}

func (s stubReportService) AccountCoverage(ctx context.Context, monthID string) (services.AccountCoverage, error) {
	if s.coverageFn == nil {
		return services.AccountCoverage{}, nil
	}
	return s.coverageFn(ctx, monthID)
}

func (s stubReportService) MonthPreview(ctx context.Context, monthID string) (services.MonthPreview, error) {
	if s.previewFn == nil {
		return services.MonthPreview{}, nil
	}
	return s.previewFn(ctx, monthID)
}

func (s stubReportService) SetupStatus(ctx context.Context) (services.SetupStatus, error) {
	if s.setupFn == nil {
		return services.SetupStatus{}, nil
	}
	return s.setupFn(ctx)
}

type stubSetupService struct {
	listAccountsFn     func(ctx context.Context) ([]models.BankAccount, error)
	createAccountFn    func(ctx context.Context, name, effectiveFrom string) (models.BankAccount, error)
	updateAccountFn    func(ctx context.Context, id string, req services.UpdateAccountRequest) (models.BankAccount, error)
	deactivateAcctFn   func(ctx context.Context, id, effectiveTo string) error
	listCardsFn        func(ctx context.Context) ([]models.CreditCardWithAccount, error)
	createCardFn       func(ctx context.Context, req services.CreateCardRequest) (models.CreditCard, error)
	updateCardFn       func(ctx context.Context, id string, req services.UpdateCardRequest) (models.CreditCard, error)
	deactivateCardFn   func(ctx context.Context, id, effectiveTo string) error
	listFixedFn        func(ctx context.Context) ([]models.FixedExpense, error)
	upsertFixedFn      func(ctx context.Context, req services.UpsertFixedExpenseRequest) (models.FixedExpense, error)
	deactivateFixedFn  func(ctx context.Context, name string) error
	listIncomeFn       func(ctx context.Context) ([]models.IncomeSource, error)
	upsertIncomeFn     func(ctx context.Context, req services.UpsertIncomeSourceRequest) (models.IncomeSource, error)
	deactivateIncomeFn func(ctx context.Context, name string) error
	listObjectivesFn   func(ctx context.Context) ([]models.BudgetObjective, error)
	upsertObjectiveFn  func(ctx context.Context, category, percentage string) (models.BudgetObjective, error)
	deactivateObjFn    func(ctx context.Context, category string) error
}

func (s stubSetupService) ListAccounts(ctx context.Context) ([]models.BankAccount, error) {
	if s.listAccountsFn == nil {
		return nil, nil
	}
	return s.listAccountsFn(ctx)
}

func (s stubSetupService) CreateAccount(ctx context.Context, name, effectiveFrom string) (models.BankAccount, error) {
	if s.createAccountFn == nil {
		return models.BankAccount{ID: "acc-1", Name: name, Active: true}, nil
	}
	return s.createAccountFn(ctx, name, effectiveFrom)
}

func (s stubSetupService) UpdateAccount(ctx context.Context, id string, req services.UpdateAccountRequest) (models.BankAccount, error) {
	if s.updateAccountFn == nil {
		return models.BankAccount{ID: id, Name: req.Name, Active: true}, nil
	}
	return s.updateAccountFn(ctx, id, req)
}

func (s stubSetupService) DeactivateAccount(ctx context.Context, id, effectiveTo string) error {
	if s.deactivateAcctFn == nil {
		return nil
	}
	return s.deactivateAcctFn(ctx, id, effectiveTo)
}

func (s stubSetupService) ListCards(ctx context.Context) ([]models.CreditCardWithAccount, error) {
	if s.listCardsFn == nil {
		return nil, nil
	}
	return s.listCardsFn(ctx)
}

func (s stubSetupService) CreateCard(ctx context.Context, req services.CreateCardRequest) (models.CreditCard, error) {
	if s.createCardFn == nil {
		return models.CreditCard{ID: "cc-1", Name: req.Name, Active: true}, nil
	}
	return s.createCardFn(ctx, req)
}

func (s stubSetupService) UpdateCard(ctx context.Context, id string, req services.UpdateCardRequest) (models.CreditCard, error) {
	if s.updateCardFn == nil {
		return models.CreditCard{ID: id, Name: req.Name, Active: true}, nil
	}
	return s.updateCardFn(ctx, id, req)
}

func (s stubSetupService) DeactivateCard(ctx context.Context, id, effectiveTo string) error {
	if s.deactivateCardFn == nil {
		return nil
	}
	return s.deactivateCardFn(ctx, id, effectiveTo)
}

func (s stubSetupService) ListFixedExpenses(ctx context.Context) ([]models.FixedExpense, error) {
	if s.listFixedFn == nil {
		return nil, nil
	}
	return s.listFixedFn(ctx)
}

func (s stubSetupService) UpsertFixedExpense(ctx context.Context, req services.UpsertFixedExpenseRequest) (models.FixedExpense, error) {
	if s.upsertFixedFn == nil {
		return models.FixedExpense{Name: req.Name, Active: true}, nil
	}
	return s.upsertFixedFn(ctx, req)
}

func (s stubSetupService) DeactivateFixedExpense(ctx context.Context, name string) error {
	if s.deactivateFixedFn == nil {
		return nil
	}
	return s.deactivateFixedFn(ctx, name)
}

func (s stubSetupService) ListIncomeSources(ctx context.Context) ([]models.IncomeSource, error) {
	if s.listIncomeFn == nil {
		return nil, nil
	}
	return s.listIncomeFn(ctx)
}

func (s stubSetupService) UpsertIncomeSource(ctx context.Context, req services.UpsertIncomeSourceRequest) (models.IncomeSource, error) {
	if s.upsertIncomeFn == nil {
		return models.IncomeSource{Name: req.Name, Active: true}, nil
	}
	return s.upsertIncomeFn(ctx, req)
}

func (s stubSetupService) DeactivateIncomeSource(ctx context.Context, name string) error {
	if s.deactivateIncomeFn == nil {
		return nil
	}
	return s.deactivateIncomeFn(ctx, name)
}

func (s stubSetupService) ListObjectives(ctx context.Context) ([]models.BudgetObjective, error) {
	if s.listObjectivesFn == nil {
		return nil, nil
	}
	return s.listObjectivesFn(ctx)
}

func (s stubSetupService) UpsertObjective(ctx context.Context, category, percentage string) (models.BudgetObjective, error) {
	if s.upsertObjectiveFn == nil {
		return models.BudgetObjective{Category: category, Percentage: percentage, Active: true}, nil
	}
	return s.upsertObjectiveFn(ctx, category, percentage)
}

func (s stubSetupService) DeactivateObjective(ctx context.Context, category string) error {
	if s.deactivateObjFn == nil {
		return nil
	}
	return s.deactivateObjFn(ctx, category)
}

func testWorkspace(ledger stubLedgerService, reports stubReportService, setup stubSetupService) *workspace.Workspace {
	return &workspace.Workspace{Ledger: ledger, Reports: reports, Setup: setup}
}

func newTestHandler(users stubUserService, workspaces stubWorkspaces) *Handler {
	cfg := config.Config{JWTSecret: "secret", AllowedOrigins: "*", TokenTTL: time.Minute}
	return New(cfg, users, workspaces, websocket.NewHub())
}

func testToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

// handlerWithAuth mounts a single handler behind the auth middleware,
// letting tests exercise the unauthenticated path too.
func handlerWithAuth(handlerFunc http.HandlerFunc) http.Handler {
	return middleware.Auth("secret")(handlerFunc)
}

// serveAuthed runs a single handler behind the auth middleware with a
// valid bearer token for user-1, the same way the router mounts it.
func serveAuthed(t *testing.T, handlerFunc http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+testToken(t))
	rr := httptest.NewRecorder()
	handlerWithAuth(handlerFunc).ServeHTTP(rr, req)
	return rr
}
