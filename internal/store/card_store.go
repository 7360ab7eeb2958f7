package store

import (
	"context"

	"budget/internal/models"
)

type CardStore struct {
	db DB
}

func NewCardStore(db DB) *CardStore {
	return &CardStore{db: db}
}

func (s *CardStore) List(ctx context.Context) ([]models.CreditCardWithAccount, error) {
	var rows []models.CreditCardWithAccount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT c.id, c.name, c.bank_account_id, c.statement_close_day, c.due_day,
		       c.effective_from, c.effective_to, c.active, c.created_at,
		       a.name AS bank_account_name
		FROM credit_cards c
		JOIN bank_accounts a ON a.id = c.bank_account_id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CardStore) ActiveForMonth(ctx context.Context, monthID string) ([]models.CreditCardWithAccount, error) {
	var rows []models.CreditCardWithAccount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT c.id, c.name, c.bank_account_id, c.statement_close_day, c.due_day,
		       c.effective_from, c.effective_to, c.active, c.created_at,
		       a.name AS bank_account_name
		FROM credit_cards c
		JOIN bank_accounts a ON a.id = c.bank_account_id
		WHERE c.active = 1
		  AND c.effective_from <= ?
		  AND (c.effective_to IS NULL OR c.effective_to >= ?)
		ORDER BY c.name
	`, monthID, monthID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CardStore) GetByID(ctx context.Context, id string) (models.CreditCard, error) {
	var row models.CreditCard
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, bank_account_id, statement_close_day, due_day,
		       effective_from, effective_to, active, created_at
		FROM credit_cards
		WHERE id = ?
	`, id)
	if err != nil {
		return models.CreditCard{}, err
	}
	return row, nil
}

func (s *CardStore) HasActive(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM credit_cards WHERE active = 1`); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *CardStore) Create(ctx context.Context, tx Execer, card models.CreditCard) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO credit_cards (id, name, bank_account_id, statement_close_day, due_day, effective_from)
		VALUES (?, ?, ?, ?, ?, ?)
	`, card.ID, card.Name, card.BankAccountID, card.StatementCloseDay, card.DueDay, card.EffectiveFrom)
	return err
}

// Update edits an active card in place: name, cycle days and effective
// window. Existing transactions keep the attribution computed at insert
// time.
func (s *CardStore) Update(ctx context.Context, tx Execer, id, name string, statementCloseDay, dueDay int, effectiveFrom string, effectiveTo *string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE credit_cards
		SET name = ?, statement_close_day = ?, due_day = ?, effective_from = ?, effective_to = ?
		WHERE id = ? AND active = 1
	`, name, statementCloseDay, dueDay, effectiveFrom, effectiveTo, id)
	return err
}

func (s *CardStore) Deactivate(ctx context.Context, tx Execer, id, effectiveTo string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE credit_cards
		SET active = 0, effective_to = ?
		WHERE id = ? AND active = 1
	`, effectiveTo, id)
	return err
}
