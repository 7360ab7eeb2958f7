package services

import (
	"context"
	"database/sql"

	"budget/internal/models"
	"budget/internal/store"
	"budget/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubMonthStore struct {
	getFn        func(ctx context.Context, monthID string) (models.Month, error)
	getTxFn      func(ctx context.Context, tx store.Getter, monthID string) (models.Month, error)
	listFn       func(ctx context.Context) ([]models.Month, error)
	oldestOpenFn func(ctx context.Context) (models.Month, error)
	insertFn     func(ctx context.Context, tx store.Execer, monthID string, startingBalance int64) error
	closeFn      func(ctx context.Context, tx store.Execer, monthID string, endingBalance int64) error
}

func (s stubMonthStore) Get(ctx context.Context, monthID string) (models.Month, error) {
	if s.getFn == nil {
		return models.Month{MonthID: monthID, Status: models.MonthStatusOpen}, nil
	}
	return s.getFn(ctx, monthID)
}

func (s stubMonthStore) GetTx(ctx context.Context, tx store.Getter, monthID string) (models.Month, error) {
	return s.getTxFn(ctx, tx, monthID)
}

func (s stubMonthStore) List(ctx context.Context) ([]models.Month, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubMonthStore) OldestOpen(ctx context.Context) (models.Month, error) {
	if s.oldestOpenFn == nil {
		return models.Month{}, sql.ErrNoRows
	}
	return s.oldestOpenFn(ctx)
}

func (s stubMonthStore) Insert(ctx context.Context, tx store.Execer, monthID string, startingBalance int64) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, monthID, startingBalance)
}

func (s stubMonthStore) Close(ctx context.Context, tx store.Execer, monthID string, endingBalance int64) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx, tx, monthID, endingBalance)
}

type stubAccountStore struct {
	activeForMonthFn func(ctx context.Context, monthID string) ([]models.BankAccount, error)
	getByIDFn        func(ctx context.Context, id string) (models.BankAccount, error)
}

func (s stubAccountStore) ActiveForMonth(ctx context.Context, monthID string) ([]models.BankAccount, error) {
	if s.activeForMonthFn == nil {
		return nil, nil
	}
	return s.activeForMonthFn(ctx, monthID)
}

func (s stubAccountStore) GetByID(ctx context.Context, id string) (models.BankAccount, error) {
	if s.getByIDFn == nil {
		return models.BankAccount{ID: id, Active: true}, nil
	}
	return s.getByIDFn(ctx, id)
}

type stubCardStore struct {
	getByIDFn func(ctx context.Context, id string) (models.CreditCard, error)
}

func (s stubCardStore) GetByID(ctx context.Context, id string) (models.CreditCard, error) {
	if s.getByIDFn == nil {
		return models.CreditCard{ID: id, Active: true}, nil
	}
	return s.getByIDFn(ctx, id)
}

type stubBalanceStore struct {
	setStartingFn func(ctx context.Context, tx store.Execer, monthID, accountID string, starting int64) error
	setEndingFn   func(ctx context.Context, tx store.Execer, monthID, accountID string, ending int64) error
	forMonthFn    func(ctx context.Context, monthID string) ([]models.AccountMonthBalance, error)
	forMonthTxFn  func(ctx context.Context, tx store.Selecter, monthID string) ([]models.AccountMonthBalance, error)
}

func (s stubBalanceStore) SetStarting(ctx context.Context, tx store.Execer, monthID, accountID string, starting int64) error {
	if s.setStartingFn == nil {
		return nil
	}
	return s.setStartingFn(ctx, tx, monthID, accountID, starting)
}

func (s stubBalanceStore) SetEnding(ctx context.Context, tx store.Execer, monthID, accountID string, ending int64) error {
	if s.setEndingFn == nil {
		return nil
	}
	return s.setEndingFn(ctx, tx, monthID, accountID, ending)
}

func (s stubBalanceStore) ForMonth(ctx context.Context, monthID string) ([]models.AccountMonthBalance, error) {
	if s.forMonthFn == nil {
		return nil, nil
	}
	return s.forMonthFn(ctx, monthID)
}

func (s stubBalanceStore) ForMonthTx(ctx context.Context, tx store.Selecter, monthID string) ([]models.AccountMonthBalance, error) {
	if s.forMonthTxFn == nil {
		return nil, nil
	}
	return s.forMonthTxFn(ctx, tx, monthID)
}

type stubTemplateStore struct {
	fixedFn     func(ctx context.Context) ([]models.FixedExpense, error)
	incomeFn    func(ctx context.Context) ([]models.IncomeSource, error)
	hasFixedFn  func(ctx context.Context) (bool, error)
	hasIncomeFn func(ctx context.Context) (bool, error)
}

func (s stubTemplateStore) HasActiveFixedExpense(ctx context.Context) (bool, error) {
	if s.hasFixedFn == nil {
		return false, nil
	}
	return s.hasFixedFn(ctx)
}

func (s stubTemplateStore) HasActiveIncomeSource(ctx context.Context) (bool, error) {
	if s.hasIncomeFn == nil {
		return false, nil
	}
	return s.hasIncomeFn(ctx)
}

func (s stubTemplateStore) ActiveFixedExpenses(ctx context.Context) ([]models.FixedExpense, error) {
	if s.fixedFn == nil {
		return nil, nil
	}
	return s.fixedFn(ctx)
}

func (s stubTemplateStore) ActiveIncomeSources(ctx context.Context) ([]models.IncomeSource, error) {
	if s.incomeFn == nil {
		return nil, nil
	}
	return s.incomeFn(ctx)
}

type stubTransactionStore struct {
	insertFn        func(ctx context.Context, tx store.Execer, t models.Transaction) error
	listByMonthFn   func(ctx context.Context, monthID string) ([]models.Transaction, error)
	accrualNetFn    func(ctx context.Context, monthID string) (int64, error)
	accrualNetTxFn  func(ctx context.Context, q store.Getter, monthID string) (int64, error)
	cashByAccountFn func(ctx context.Context, q store.Selecter, monthID string) ([]models.AccountNet, error)
}

func (s stubTransactionStore) Insert(ctx context.Context, tx store.Execer, t models.Transaction) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, t)
}

func (s stubTransactionStore) ListByMonth(ctx context.Context, monthID string) ([]models.Transaction, error) {
	if s.listByMonthFn == nil {
		return nil, nil
	}
	return s.listByMonthFn(ctx, monthID)
}

func (s stubTransactionStore) AccrualNet(ctx context.Context, monthID string) (int64, error) {
	if s.accrualNetFn == nil {
		return 0, nil
	}
	return s.accrualNetFn(ctx, monthID)
}

func (s stubTransactionStore) AccrualNetTx(ctx context.Context, q store.Getter, monthID string) (int64, error) {
	if s.accrualNetTxFn == nil {
		return 0, nil
	}
	return s.accrualNetTxFn(ctx, q, monthID)
}

func (s stubTransactionStore) CashNetByAccount(ctx context.Context, q store.Selecter, monthID string) ([]models.AccountNet, error) {
	if s.cashByAccountFn == nil {
		return nil, nil
	}
	return s.cashByAccountFn(ctx, q, monthID)
}

type stubHub struct {
	calls []websocket.LedgerUpdate
}

func (s *stubHub) BroadcastLedger(_ string, update websocket.LedgerUpdate) {
	s.calls = append(s.calls, update)
}

func stringPtr(s string) *string {
	return &s
}
