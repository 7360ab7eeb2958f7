package store

import (
	"context"

	"budget/internal/models"
)

type ObjectiveStore struct {
	db DB
}

func NewObjectiveStore(db DB) *ObjectiveStore {
	return &ObjectiveStore{db: db}
}

func (s *ObjectiveStore) Active(ctx context.Context) ([]models.BudgetObjective, error) {
	var rows []models.BudgetObjective
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, category, percentage, active, created_at
		FROM budget_objectives
		WHERE active = 1
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ObjectiveStore) ActiveForCategory(ctx context.Context, category string) (models.BudgetObjective, error) {
	var row models.BudgetObjective
	err := s.db.GetContext(ctx, &row, `
		SELECT id, category, percentage, active, created_at
		FROM budget_objectives
		WHERE active = 1 AND category = ?
	`, category)
	if err != nil {
		return models.BudgetObjective{}, err
	}
	return row, nil
}

func (s *ObjectiveStore) HasActive(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM budget_objectives WHERE active = 1`); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *ObjectiveStore) Upsert(ctx context.Context, tx Execer, row models.BudgetObjective) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE budget_objectives SET active = 0 WHERE category = ? AND active = 1
	`, row.Category); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO budget_objectives (id, category, percentage)
		VALUES (?, ?, ?)
	`, row.ID, row.Category, row.Percentage)
	return err
}

func (s *ObjectiveStore) Deactivate(ctx context.Context, tx Execer, category string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE budget_objectives SET active = 0 WHERE category = ? AND active = 1
	`, category)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
