// Package workspace wires one user's ledger database to the services that
// operate on it. Every user gets their own SQLite file; a Workspace is the
// opened, migrated, fully wired view of that file.
package workspace

import (
	"context"

	"budget/internal/models"
	"budget/internal/services"

	"github.com/jmoiron/sqlx"
)

type LedgerService interface {
	OpenMonth(ctx context.Context, req services.OpenMonthRequest) (models.Month, error)
	CloseMonth(ctx context.Context, monthID string) (models.Month, error)
	AddTransaction(ctx context.Context, req services.AddTransactionRequest) (models.Transaction, error)
	Transactions(ctx context.Context, monthID string) ([]models.Transaction, error)
	Months(ctx context.Context) ([]models.Month, error)
}

type ReportService interface {
	MonthSnapshot(ctx context.Context, monthID string) (services.MonthSnapshot, error)
	CategoryTotals(ctx context.Context, monthID string) ([]models.CategoryTotal, error)
	Allocation(ctx context.Context, monthID string) (services.Allocation, error)
	CategoryPlanned(ctx context.Context, monthID, category string) (int64, error)
	HalfMonthCashflow(ctx context.Context, monthID string) (services.HalfMonthCashflow, error)
	AccountCoverage(ctx context.Context, monthID string) (services.AccountCoverage, error)
	MonthPreview(ctx context.Context, monthID string) (services.MonthPreview, error)
	SetupStatus(ctx context.Context) (services.SetupStatus, error)
}

type SetupService interface {
	ListAccounts(ctx context.Context) ([]models.BankAccount, error)
	CreateAccount(ctx context.Context, name, effectiveFrom string) (models.BankAccount, error)
	UpdateAccount(ctx context.Context, id string, req services.UpdateAccountRequest) (models.BankAccount, error)
	DeactivateAccount(ctx context.Context, id, effectiveTo string) error
	ListCards(ctx context.Context) ([]models.CreditCardWithAccount, error)
	CreateCard(ctx context.Context, req services.CreateCardRequest) (models.CreditCard, error)
	UpdateCard(ctx context.Context, id string, req services.UpdateCardRequest) (models.CreditCard, error)
	DeactivateCard(ctx context.Context, id, effectiveTo string) error
	ListFixedExpenses(ctx context.Context) ([]models.FixedExpense, error)
	UpsertFixedExpense(ctx context.Context, req services.UpsertFixedExpenseRequest) (models.FixedExpense, error)
	DeactivateFixedExpense(ctx context.Context, name string) error
	ListIncomeSources(ctx context.Context) ([]models.IncomeSource, error)
	UpsertIncomeSource(ctx context.Context, req services.UpsertIncomeSourceRequest) (models.IncomeSource, error)
	DeactivateIncomeSource(ctx context.Context, name string) error
	ListObjectives(ctx context.Context) ([]models.BudgetObjective, error)
	UpsertObjective(ctx context.Context, category, percentage string) (models.BudgetObjective, error)
	DeactivateObjective(ctx context.Context, category string) error
}

// Workspace is one user's wired ledger. The service fields are interfaces so
// handlers can be exercised against stubs.
type Workspace struct {
	Ledger  LedgerService
	Reports ReportService
	Setup   SetupService

	path string
	conn *sqlx.DB
}

func (w *Workspace) Path() string {
	return w.path
}

func (w *Workspace) Close() error {
	if w.conn == nil {
		return nil
	}
	return w.conn.Close()
}
