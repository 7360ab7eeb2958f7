package store

import (
	"context"

	"budget/internal/models"
)

// TemplateStore holds the recurring templates that are materialized into
// transactions when a month opens: fixed expenses and income sources.
type TemplateStore struct {
	db DB
}

func NewTemplateStore(db DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func (s *TemplateStore) ActiveFixedExpenses(ctx context.Context) ([]models.FixedExpense, error) {
	var rows []models.FixedExpense
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, amount, category, subcategory, due_day, payment_method,
		       bank_account_id, credit_card_id, active, created_at
		FROM fixed_expenses
		WHERE active = 1
		ORDER BY due_day, name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TemplateStore) ActiveIncomeSources(ctx context.Context) ([]models.IncomeSource, error) {
	var rows []models.IncomeSource
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, amount, subcategory, due_day, bank_account_id, active, created_at
		FROM income_sources
		WHERE active = 1
		ORDER BY due_day, name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TemplateStore) ListFixedExpenses(ctx context.Context) ([]models.FixedExpense, error) {
	var rows []models.FixedExpense
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, amount, category, subcategory, due_day, payment_method,
		       bank_account_id, credit_card_id, active, created_at
		FROM fixed_expenses
		ORDER BY active DESC, due_day, name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TemplateStore) ListIncomeSources(ctx context.Context) ([]models.IncomeSource, error) {
	var rows []models.IncomeSource
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, amount, subcategory, due_day, bank_account_id, active, created_at
		FROM income_sources
		ORDER BY active DESC, due_day, name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TemplateStore) HasActiveFixedExpense(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM fixed_expenses WHERE active = 1`); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *TemplateStore) HasActiveIncomeSource(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM income_sources WHERE active = 1`); err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpsertFixedExpense replaces the active version of a template. Versions
// are keyed by name plus subcategory, so "Insurance"/"Car" and
// "Insurance"/"Home" stay independent. The old row is retired, not updated,
// so already-opened months keep pointing at the version they materialized
// from.
func (s *TemplateStore) UpsertFixedExpense(ctx context.Context, tx Execer, row models.FixedExpense) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE fixed_expenses SET active = 0 WHERE name = ? AND subcategory = ? AND active = 1
	`, row.Name, row.Subcategory); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO fixed_expenses (id, name, amount, category, subcategory, due_day, payment_method, bank_account_id, credit_card_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, row.ID, row.Name, row.Amount, row.Category, row.Subcategory, row.DueDay, row.PaymentMethod, row.BankAccountID, row.CreditCardID)
	return err
}

func (s *TemplateStore) UpsertIncomeSource(ctx context.Context, tx Execer, row models.IncomeSource) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE income_sources SET active = 0 WHERE name = ? AND subcategory = ? AND active = 1
	`, row.Name, row.Subcategory); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO income_sources (id, name, amount, subcategory, due_day, bank_account_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, row.ID, row.Name, row.Amount, row.Subcategory, row.DueDay, row.BankAccountID)
	return err
}

func (s *TemplateStore) DeactivateFixedExpense(ctx context.Context, tx Execer, name string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE fixed_expenses SET active = 0 WHERE name = ? AND active = 1
	`, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TemplateStore) DeactivateIncomeSource(ctx context.Context, tx Execer, name string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE income_sources SET active = 0 WHERE name = ? AND active = 1
	`, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
