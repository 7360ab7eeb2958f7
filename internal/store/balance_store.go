package store

import (
	"context"

	"budget/internal/models"
)

type BalanceStore struct {
	db DB
}

func NewBalanceStore(db DB) *BalanceStore {
	return &BalanceStore{db: db}
}

// SetStarting records an account's starting balance for a month. Reopening
// with a corrected figure overwrites the previous row.
func (s *BalanceStore) SetStarting(ctx context.Context, tx Execer, monthID, accountID string, starting int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO account_month_balances (month_id, bank_account_id, starting_balance)
		VALUES (?, ?, ?)
		ON CONFLICT (month_id, bank_account_id)
		DO UPDATE SET starting_balance = excluded.starting_balance
	`, monthID, accountID, starting)
	return err
}

func (s *BalanceStore) SetEnding(ctx context.Context, tx Execer, monthID, accountID string, ending int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE account_month_balances
		SET ending_balance = ?
		WHERE month_id = ? AND bank_account_id = ?
	`, ending, monthID, accountID)
	return err
}

func (s *BalanceStore) ForMonth(ctx context.Context, monthID string) ([]models.AccountMonthBalance, error) {
	var rows []models.AccountMonthBalance
	err := s.db.SelectContext(ctx, &rows, `
		SELECT month_id, bank_account_id, starting_balance, ending_balance
		FROM account_month_balances
		WHERE month_id = ?
		ORDER BY bank_account_id
	`, monthID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BalanceStore) ForMonthTx(ctx context.Context, tx Selecter, monthID string) ([]models.AccountMonthBalance, error) {
	var rows []models.AccountMonthBalance
	err := tx.SelectContext(ctx, &rows, `
		SELECT month_id, bank_account_id, starting_balance, ending_balance
		FROM account_month_balances
		WHERE month_id = ?
		ORDER BY bank_account_id
	`, monthID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
