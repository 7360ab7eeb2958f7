package store

import (
	"context"

	"budget/internal/models"
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) List(ctx context.Context) ([]models.BankAccount, error) {
	var rows []models.BankAccount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, effective_from, effective_to, active, created_at
		FROM bank_accounts
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ActiveForMonth lists the accounts in effect for a month: active rows whose
// effective window covers the month id.
func (s *AccountStore) ActiveForMonth(ctx context.Context, monthID string) ([]models.BankAccount, error) {
	var rows []models.BankAccount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, effective_from, effective_to, active, created_at
		FROM bank_accounts
		WHERE active = 1
		  AND effective_from <= ?
		  AND (effective_to IS NULL OR effective_to >= ?)
		ORDER BY name
	`, monthID, monthID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountStore) GetByID(ctx context.Context, id string) (models.BankAccount, error) {
	var row models.BankAccount
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, effective_from, effective_to, active, created_at
		FROM bank_accounts
		WHERE id = ?
	`, id)
	if err != nil {
		return models.BankAccount{}, err
	}
	return row, nil
}

func (s *AccountStore) HasActive(ctx context.Context) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM bank_accounts WHERE active = 1
	`)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *AccountStore) Create(ctx context.Context, tx Execer, id, name, effectiveFrom string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO bank_accounts (id, name, effective_from)
		VALUES (?, ?, ?)
	`, id, name, effectiveFrom)
	return err
}

// Update edits an active account in place: name and effective window.
func (s *AccountStore) Update(ctx context.Context, tx Execer, id, name, effectiveFrom string, effectiveTo *string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE bank_accounts
		SET name = ?, effective_from = ?, effective_to = ?
		WHERE id = ? AND active = 1
	`, name, effectiveFrom, effectiveTo, id)
	return err
}

// Deactivate ends an account's effective window. History rows stay in place
// so closed months keep their balances attributable.
func (s *AccountStore) Deactivate(ctx context.Context, tx Execer, id, effectiveTo string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE bank_accounts
		SET active = 0, effective_to = ?
		WHERE id = ? AND active = 1
	`, effectiveTo, id)
	return err
}
