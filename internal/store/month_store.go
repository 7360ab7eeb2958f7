package store

import (
	"context"

	"budget/internal/models"
)

type MonthStore struct {
	db DB
}

func NewMonthStore(db DB) *MonthStore {
	return &MonthStore{db: db}
}

func (s *MonthStore) Get(ctx context.Context, monthID string) (models.Month, error) {
	var row models.Month
	err := s.db.GetContext(ctx, &row, `
		SELECT month_id, starting_balance, ending_balance, status, opened_at, closed_at
		FROM months
		WHERE month_id = ?
	`, monthID)
	if err != nil {
		return models.Month{}, err
	}
	return row, nil
}

func (s *MonthStore) GetTx(ctx context.Context, tx Getter, monthID string) (models.Month, error) {
	var row models.Month
	err := tx.GetContext(ctx, &row, `
		SELECT month_id, starting_balance, ending_balance, status, opened_at, closed_at
		FROM months
		WHERE month_id = ?
	`, monthID)
	if err != nil {
		return models.Month{}, err
	}
	return row, nil
}

func (s *MonthStore) List(ctx context.Context) ([]models.Month, error) {
	var rows []models.Month
	err := s.db.SelectContext(ctx, &rows, `
		SELECT month_id, starting_balance, ending_balance, status, opened_at, closed_at
		FROM months
		ORDER BY month_id DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// OldestOpen returns the open month with the smallest id, or sql.ErrNoRows
// when every month is settled.
func (s *MonthStore) OldestOpen(ctx context.Context) (models.Month, error) {
	var row models.Month
	err := s.db.GetContext(ctx, &row, `
		SELECT month_id, starting_balance, ending_balance, status, opened_at, closed_at
		FROM months
		WHERE status = 'open'
		ORDER BY month_id ASC
		LIMIT 1
	`)
	if err != nil {
		return models.Month{}, err
	}
	return row, nil
}

func (s *MonthStore) Insert(ctx context.Context, tx Execer, monthID string, startingBalance int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO months (month_id, starting_balance, status)
		VALUES (?, ?, 'open')
	`, monthID, startingBalance)
	return err
}

func (s *MonthStore) Close(ctx context.Context, tx Execer, monthID string, endingBalance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE months
		SET status = 'closed', ending_balance = ?, closed_at = datetime('now')
		WHERE month_id = ? AND status = 'open'
	`, endingBalance, monthID)
	return err
}
